package fit

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-spectro/spectro/lineshape"
	"github.com/cwbudde/algo-spectro/spectro/peaks"
	"github.com/cwbudde/algo-spectro/spectro/synth"
)

func BenchmarkRun(b *testing.B) {
	counts := []int{1, 2, 4}
	for _, numPeaks := range counts {
		b.Run("peaks_"+strconv.Itoa(numPeaks), func(b *testing.B) {
			x, err := synth.Axis(0, 300, 601)
			if err != nil {
				b.Fatalf("Axis error: %v", err)
			}

			lines := make([]synth.Line, numPeaks)
			candidates := make([]peaks.Peak, numPeaks)
			for i := range lines {
				center := 50 + 60*float64(i)
				lines[i] = synth.Line{Center: center, Height: 0.7, Sigma: 5}
				candidates[i] = peaks.Peak{X: center, Y: 0.7}
			}

			y := synth.Lorentzians(x, lines)
			model := lineshape.Build(candidates, lineshape.DefaultConfig())
			cfg := DefaultConfig()

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				if _, err := Run(x, y, model, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
