package baseline

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-spectro/spectro/synth"
)

func BenchmarkRemove(b *testing.B) {
	sizes := []int{512, 2048, 8192}
	for _, n := range sizes {
		b.Run("n_"+strconv.Itoa(n), func(b *testing.B) {
			x, err := synth.Axis(0, 300, n)
			if err != nil {
				b.Fatalf("Axis error: %v", err)
			}

			y := synth.Lorentzians(x, []synth.Line{
				{Center: 100, Height: 0.8, Sigma: 5},
				{Center: 200, Height: 0.5, Sigma: 8},
			})

			for i, v := range synth.Ramp(x, 0, 0.2) {
				y[i] += v
			}

			cfg := DefaultConfig()

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				if _, err := Remove(y, cfg); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
