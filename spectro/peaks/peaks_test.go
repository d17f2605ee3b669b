package peaks_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spectro/spectro/peaks"
	"github.com/cwbudde/algo-spectro/spectro/synth"
)

func TestDetectTwoLorentzians(t *testing.T) {
	x, err := synth.Axis(0, 300, 601)
	if err != nil {
		t.Fatalf("Axis error: %v", err)
	}

	y := synth.Lorentzians(x, []synth.Line{
		{Center: 100, Height: 0.8, Sigma: 5},
		{Center: 200, Height: 0.5, Sigma: 8},
	})

	got, err := peaks.Detect(x, y, peaks.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("detected %d peaks, want 2: %v", len(got), got)
	}

	if math.Abs(got[0].X-100) > 0.5 || math.Abs(got[1].X-200) > 0.5 {
		t.Fatalf("peak positions %g, %g want ~100, ~200", got[0].X, got[1].X)
	}

	if math.Abs(got[0].Y-0.8) > 0.05 || math.Abs(got[1].Y-0.5) > 0.05 {
		t.Fatalf("peak heights %g, %g want ~0.8, ~0.5", got[0].Y, got[1].Y)
	}
}

func TestDetectFlatSignal(t *testing.T) {
	x, err := synth.Axis(0, 100, 101)
	if err != nil {
		t.Fatalf("Axis error: %v", err)
	}

	got, err := peaks.Detect(x, make([]float64, len(x)), peaks.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("flat signal produced %d peaks: %v", len(got), got)
	}
}

func TestDetectHeightThreshold(t *testing.T) {
	x, err := synth.Axis(0, 300, 601)
	if err != nil {
		t.Fatalf("Axis error: %v", err)
	}

	y := synth.Lorentzians(x, []synth.Line{
		{Center: 100, Height: 0.8, Sigma: 5},
		{Center: 200, Height: 0.05, Sigma: 8},
	})

	got, err := peaks.Detect(x, y, peaks.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("detected %d peaks, want 1: %v", len(got), got)
	}

	if math.Abs(got[0].X-100) > 0.5 {
		t.Fatalf("surviving peak at %g, want ~100", got[0].X)
	}
}

func TestDetectDistanceKeepsTaller(t *testing.T) {
	// Two maxima four samples apart; spacing of ten must drop the lower.
	y := make([]float64, 21)
	y[8] = 0.9
	y[12] = 0.6

	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}

	got, err := peaks.Detect(x, y, peaks.DefaultConfig())
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("detected %d peaks, want 1: %v", len(got), got)
	}

	if got[0].X != 8 || got[0].Y != 0.9 {
		t.Fatalf("kept peak %v, want the taller one at x=8", got[0])
	}
}

func TestDetectProminenceRejectsShoulder(t *testing.T) {
	// A shallow bump on the flank of a taller peak clears the height
	// threshold but not the prominence threshold.
	y := []float64{0, 0.4, 1.0, 0.6, 0.5, 0.55, 0.3, 0}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}

	cfg := peaks.DefaultConfig()
	cfg.MinDistance = 1

	got, err := peaks.Detect(x, y, cfg)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("detected %d peaks, want 1: %v", len(got), got)
	}

	if got[0].X != 2 {
		t.Fatalf("kept peak at x=%g, want x=2", got[0].X)
	}
}

func TestDetectPlateauMidpoint(t *testing.T) {
	y := []float64{0, 0.2, 0.8, 0.8, 0.8, 0.2, 0}
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}

	cfg := peaks.DefaultConfig()
	cfg.MinDistance = 1

	got, err := peaks.Detect(x, y, cfg)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 1 || got[0].X != 3 {
		t.Fatalf("plateau peaks %v, want single peak at x=3", got)
	}
}

func TestDetectEdgesNeverPeak(t *testing.T) {
	// Monotone data has its maximum at the boundary, which is not a
	// local maximum.
	y := []float64{0, 0.25, 0.5, 0.75, 1.0}
	x := []float64{0, 1, 2, 3, 4}

	cfg := peaks.DefaultConfig()
	cfg.MinDistance = 1

	got, err := peaks.Detect(x, y, cfg)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("monotone signal produced %d peaks: %v", len(got), got)
	}
}

func TestDetectValidation(t *testing.T) {
	if _, err := peaks.Detect([]float64{1, 2}, []float64{1}, peaks.DefaultConfig()); err == nil {
		t.Fatal("expected length mismatch error")
	}

	if _, err := peaks.Detect([]float64{1}, []float64{1}, peaks.Config{MinDistance: 0}); err == nil {
		t.Fatal("expected distance error")
	}

	got, err := peaks.Detect(nil, nil, peaks.DefaultConfig())
	if err != nil {
		t.Fatalf("empty input error: %v", err)
	}

	if got != nil {
		t.Fatalf("empty input produced peaks: %v", got)
	}
}
