// Package render builds diagnostic plots for fit and baseline results.
//
// Every function takes all data as parameters and returns a plot handle
// the caller owns; no ambient figure or display state is touched. Saving
// or showing the plot is the caller's business:
//
//	p, err := render.FitPlot(x, corrected, res, render.Options{Components: true})
//	if err != nil { ... }
//	_ = p.Save(10*vg.Inch, 4*vg.Inch, "fit.png")
package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-spectro/spectro/baseline"
	"github.com/cwbudde/algo-spectro/spectro/fit"
)

// ErrMissingAxis is returned when plotting is requested without the x
// data it needs. The numeric pipeline never depends on rendering, so
// this error stops only the plot, never the analysis.
var ErrMissingAxis = errors.New("render: x data required for plotting")

// Options control plot labeling and content.
type Options struct {
	Title  string
	XLabel string
	YLabel string

	// Components adds one dashed trace per fitted Lorentzian component
	// to the fit plot.
	Components bool
}

func normalizeOptions(opts Options) Options {
	if opts.XLabel == "" {
		opts.XLabel = "Wavenumber (1/cm)"
	}

	if opts.YLabel == "" {
		opts.YLabel = "Intensity"
	}

	return opts
}

var (
	dataColor      = color.RGBA{R: 201, G: 104, B: 146, A: 255}
	fitColor       = color.RGBA{R: 27, G: 170, B: 139, A: 255}
	componentColor = color.RGBA{R: 99, G: 124, B: 198, A: 255}
	baselineColor  = color.RGBA{R: 183, G: 139, B: 89, A: 255}
)

// FitPlot builds a plot of the corrected data against the best-fit
// composite curve, optionally decomposed into per-component traces.
func FitPlot(x, corrected []float64, res *fit.Result, opts Options) (*plot.Plot, error) {
	if len(x) == 0 {
		return nil, ErrMissingAxis
	}

	if len(x) != len(corrected) {
		return nil, fmt.Errorf("render: x/y length mismatch: %d != %d", len(x), len(corrected))
	}

	if res == nil {
		return nil, fmt.Errorf("render: fit result must not be nil")
	}

	if len(res.BestFit) != len(x) {
		return nil, fmt.Errorf("render: best-fit length mismatch: %d != %d", len(res.BestFit), len(x))
	}

	opts = normalizeOptions(opts)

	p := newPlot(opts)
	p.X.Min = x[0]
	p.X.Max = x[len(x)-1]

	data, err := plotter.NewLine(xyPoints(x, corrected))
	if err != nil {
		return nil, fmt.Errorf("render: failed to build data trace: %w", err)
	}

	data.LineStyle.Color = dataColor
	data.LineStyle.Width = vg.Points(1.5)

	best, err := plotter.NewLine(xyPoints(x, res.BestFit))
	if err != nil {
		return nil, fmt.Errorf("render: failed to build fit trace: %w", err)
	}

	best.LineStyle.Color = fitColor
	best.LineStyle.Width = vg.Points(2.5)

	p.Add(data, best)
	p.Legend.Add("data", data)
	p.Legend.Add("fit", best)

	if opts.Components {
		for i, comp := range res.Components {
			trace, err := plotter.NewLine(xyPoints(x, comp))
			if err != nil {
				return nil, fmt.Errorf("render: failed to build component trace %d: %w", i, err)
			}

			trace.LineStyle.Color = componentColor
			trace.LineStyle.Width = vg.Points(1)
			trace.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

			p.Add(trace)

			if i == 0 {
				p.Legend.Add("components", trace)
			}
		}
	}

	return p, nil
}

// BaselinePlot builds a plot of the raw input, the corrected output,
// and the clamped baseline that was subtracted.
func BaselinePlot(x, y []float64, br baseline.Result, opts Options) (*plot.Plot, error) {
	if len(x) == 0 {
		return nil, ErrMissingAxis
	}

	if len(x) != len(y) {
		return nil, fmt.Errorf("render: x/y length mismatch: %d != %d", len(x), len(y))
	}

	if len(br.Corrected) != len(x) || len(br.Baseline) != len(x) {
		return nil, fmt.Errorf("render: baseline result length mismatch: %d != %d", len(br.Corrected), len(x))
	}

	opts = normalizeOptions(opts)

	p := newPlot(opts)
	p.X.Min = x[0]
	p.X.Max = x[len(x)-1]

	raw, err := plotter.NewLine(xyPoints(x, y))
	if err != nil {
		return nil, fmt.Errorf("render: failed to build raw trace: %w", err)
	}

	raw.LineStyle.Color = dataColor
	raw.LineStyle.Width = vg.Points(1)
	raw.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	corrected, err := plotter.NewLine(xyPoints(x, br.Corrected))
	if err != nil {
		return nil, fmt.Errorf("render: failed to build corrected trace: %w", err)
	}

	corrected.LineStyle.Color = fitColor
	corrected.LineStyle.Width = vg.Points(1.5)

	base, err := plotter.NewLine(xyPoints(x, br.Baseline))
	if err != nil {
		return nil, fmt.Errorf("render: failed to build baseline trace: %w", err)
	}

	base.LineStyle.Color = baselineColor
	base.LineStyle.Width = vg.Points(1.5)

	p.Add(raw, corrected, base)
	p.Legend.Add("input", raw)
	p.Legend.Add("corrected", corrected)
	p.Legend.Add("baseline", base)

	return p, nil
}

func newPlot(opts Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Legend.Top = true

	return p
}

func xyPoints(x, y []float64) plotter.XYs {
	xy := make(plotter.XYs, len(x))
	for i := range xy {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}

	return xy
}
