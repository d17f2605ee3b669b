package render

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-spectro/spectro/baseline"
	"github.com/cwbudde/algo-spectro/spectro/fit"
	"github.com/cwbudde/algo-spectro/spectro/lineshape"
	"github.com/cwbudde/algo-spectro/spectro/peaks"
	"github.com/cwbudde/algo-spectro/spectro/synth"
)

func fittedResult(t *testing.T) ([]float64, []float64, *fit.Result) {
	t.Helper()

	x, err := synth.Axis(0, 300, 301)
	if err != nil {
		t.Fatalf("Axis error: %v", err)
	}

	y := synth.Lorentzians(x, []synth.Line{
		{Center: 100, Height: 0.8, Sigma: 5},
		{Center: 200, Height: 0.5, Sigma: 8},
	})

	model := lineshape.Build([]peaks.Peak{
		{X: 100, Y: 0.8},
		{X: 200, Y: 0.5},
	}, lineshape.DefaultConfig())

	res, err := fit.Run(x, y, model, fit.DefaultConfig())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	return x, y, res
}

func TestFitPlot(t *testing.T) {
	x, y, res := fittedResult(t)

	p, err := FitPlot(x, y, res, Options{Title: "fit", Components: true})
	if err != nil {
		t.Fatalf("FitPlot error: %v", err)
	}

	if p == nil {
		t.Fatal("nil plot")
	}

	if p.X.Label.Text != "Wavenumber (1/cm)" || p.Y.Label.Text != "Intensity" {
		t.Fatalf("default labels %q, %q", p.X.Label.Text, p.Y.Label.Text)
	}

	if p.X.Min != x[0] || p.X.Max != x[len(x)-1] {
		t.Fatalf("x range [%g, %g] want [%g, %g]", p.X.Min, p.X.Max, x[0], x[len(x)-1])
	}
}

func TestFitPlotErrors(t *testing.T) {
	x, y, res := fittedResult(t)

	if _, err := FitPlot(nil, nil, res, Options{}); !errors.Is(err, ErrMissingAxis) {
		t.Fatalf("error=%v want ErrMissingAxis", err)
	}

	if _, err := FitPlot(x, y[:len(y)-1], res, Options{}); err == nil {
		t.Fatal("expected length mismatch error")
	}

	if _, err := FitPlot(x, y, nil, Options{}); err == nil {
		t.Fatal("expected nil result error")
	}

	if _, err := FitPlot(x[:10], y[:10], res, Options{}); err == nil {
		t.Fatal("expected best-fit length mismatch error")
	}
}

func TestBaselinePlot(t *testing.T) {
	x, err := synth.Axis(0, 300, 301)
	if err != nil {
		t.Fatalf("Axis error: %v", err)
	}

	y := synth.Ramp(x, 0.1, 0.4)

	br, err := baseline.Remove(y, baseline.DefaultConfig())
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	p, err := BaselinePlot(x, y, br, Options{YLabel: "Counts"})
	if err != nil {
		t.Fatalf("BaselinePlot error: %v", err)
	}

	if p == nil {
		t.Fatal("nil plot")
	}

	if p.Y.Label.Text != "Counts" {
		t.Fatalf("y label %q want Counts", p.Y.Label.Text)
	}
}

func TestBaselinePlotErrors(t *testing.T) {
	if _, err := BaselinePlot(nil, nil, baseline.Result{}, Options{}); !errors.Is(err, ErrMissingAxis) {
		t.Fatalf("error=%v want ErrMissingAxis", err)
	}

	x := []float64{1, 2, 3}
	if _, err := BaselinePlot(x, []float64{1, 2}, baseline.Result{}, Options{}); err == nil {
		t.Fatal("expected length mismatch error")
	}

	if _, err := BaselinePlot(x, []float64{1, 2, 3}, baseline.Result{}, Options{}); err == nil {
		t.Fatal("expected result length mismatch error")
	}
}
