// Package lineshape builds parametric multi-peak Lorentzian models from
// detected peak candidates.
//
// Each candidate becomes one Lorentzian component with bounded, named
// parameters. The free parameters per component are center, height, and
// sigma; amplitude (area) and FWHM follow analytically from those and
// are reported as derived, read-only values. The composite model is the
// sum of all components.
package lineshape

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectro/spectro/peaks"
)

const (
	// FreeParams is the number of fitted degrees of freedom per
	// component: center, height, sigma.
	FreeParams = 3

	// ReportedFields is the number of values reported per peak: sigma,
	// center, amplitude, fwhm, height. Amplitude and fwhm are derived.
	ReportedFields = 5
)

// Lorentzian evaluates the area-normalized Lorentzian lineshape
//
//	L(x) = (amplitude / pi) * sigma / ((x-center)^2 + sigma^2)
//
// whose peak height is amplitude/(pi*sigma) and whose full width at half
// maximum is 2*sigma.
func Lorentzian(x, center, amplitude, sigma float64) float64 {
	d := x - center
	return amplitude / math.Pi * sigma / (d*d + sigma*sigma)
}

// Param is one named, bounded model parameter.
type Param struct {
	Name  string
	Value float64
	Min   float64
	Max   float64

	// Vary is false for derived quantities (amplitude, fwhm) that are
	// computed from the free parameters rather than fit independently.
	Vary bool
}

// Component is a single Lorentzian lobe of a composite model.
type Component struct {
	// Prefix names the component's parameters ("p1_", "p2_", ...)
	// in candidate order.
	Prefix string

	Center Param
	Height Param
	Sigma  Param
}

// Amplitude returns the component's derived area, pi*sigma*height.
func (c Component) Amplitude() float64 {
	return math.Pi * c.Sigma.Value * c.Height.Value
}

// FWHM returns the component's derived full width at half maximum,
// 2*sigma. This is the only place the relation lives; fwhm is never a
// free parameter.
func (c Component) FWHM() float64 {
	return 2 * c.Sigma.Value
}

// Eval evaluates the component at a single position.
func (c Component) Eval(x float64) float64 {
	return Lorentzian(x, c.Center.Value, c.Amplitude(), c.Sigma.Value)
}

// EvalInto evaluates the component over xs into dst. Both slices must
// have the same length.
func (c Component) EvalInto(dst, xs []float64) {
	amp := c.Amplitude()
	for i, x := range xs {
		dst[i] = Lorentzian(x, c.Center.Value, amp, c.Sigma.Value)
	}
}

// Model is a sum of Lorentzian components with a shared parameter table.
type Model struct {
	Components []Component
}

// NumPeaks returns the number of components.
func (m Model) NumPeaks() int {
	return len(m.Components)
}

// Eval evaluates the composite model over xs.
func (m Model) Eval(xs []float64) []float64 {
	total := make([]float64, len(xs))
	if len(m.Components) == 0 {
		return total
	}

	buf := make([]float64, len(xs))
	for _, c := range m.Components {
		c.EvalInto(buf, xs)
		vecmath.AddBlockInPlace(total, buf)
	}

	return total
}

// EvalComponents evaluates each component separately over xs, for
// diagnostic decomposition and plotting.
func (m Model) EvalComponents(xs []float64) [][]float64 {
	out := make([][]float64, len(m.Components))
	for i, c := range m.Components {
		buf := make([]float64, len(xs))
		c.EvalInto(buf, xs)
		out[i] = buf
	}

	return out
}

// Params returns the full parameter table in component order: the three
// free parameters followed by the two derived values per component,
// ReportedFields entries per peak.
func (m Model) Params() []Param {
	out := make([]Param, 0, len(m.Components)*ReportedFields)

	for _, c := range m.Components {
		out = append(out,
			c.Center,
			c.Height,
			c.Sigma,
			Param{Name: c.Prefix + "amplitude", Value: c.Amplitude(), Min: 0, Max: math.Inf(1), Vary: false},
			Param{Name: c.Prefix + "fwhm", Value: c.FWHM(), Min: 0, Max: math.Inf(1), Vary: false},
		)
	}

	return out
}

// Config holds model construction parameters.
type Config struct {
	// CenterWindow bounds each fitted center to its detected position
	// plus or minus this many x units, so noise cannot drift a component
	// onto an unrelated peak.
	CenterWindow float64

	// HeightMax bounds fitted peak heights; data is assumed normalized
	// to [0, HeightMax].
	HeightMax float64

	// SigmaMax bounds the width parameter, preventing runaway flat fits.
	SigmaMax float64

	// SigmaInit is the initial width guess for every component.
	SigmaInit float64
}

// DefaultConfig returns the construction defaults.
func DefaultConfig() Config {
	return Config{
		CenterWindow: 10,
		HeightMax:    1,
		SigmaMax:     500,
		SigmaInit:    1,
	}
}

func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()

	if cfg.CenterWindow <= 0 {
		cfg.CenterWindow = def.CenterWindow
	}

	if cfg.HeightMax <= 0 {
		cfg.HeightMax = def.HeightMax
	}

	if cfg.SigmaMax <= 0 {
		cfg.SigmaMax = def.SigmaMax
	}

	if cfg.SigmaInit <= 0 {
		cfg.SigmaInit = def.SigmaInit
	}

	return cfg
}

// Build constructs one Lorentzian component per candidate, in candidate
// order, with initial guesses taken from the detected positions. An
// empty candidate list yields a model with zero components; fitting such
// a model is the fit engine's configuration error, not this package's.
func Build(candidates []peaks.Peak, cfg Config) Model {
	cfg = normalizeConfig(cfg)

	comps := make([]Component, len(candidates))
	for i, p := range candidates {
		prefix := fmt.Sprintf("p%d_", i+1)

		height := p.Y
		if height > cfg.HeightMax {
			height = cfg.HeightMax
		}

		if height < 0 {
			height = 0
		}

		comps[i] = Component{
			Prefix: prefix,
			Center: Param{
				Name:  prefix + "center",
				Value: p.X,
				Min:   p.X - cfg.CenterWindow,
				Max:   p.X + cfg.CenterWindow,
				Vary:  true,
			},
			Height: Param{
				Name:  prefix + "height",
				Value: height,
				Min:   0,
				Max:   cfg.HeightMax,
				Vary:  true,
			},
			Sigma: Param{
				Name:  prefix + "sigma",
				Value: cfg.SigmaInit,
				Min:   0,
				Max:   cfg.SigmaMax,
				Vary:  true,
			},
		}
	}

	return Model{Components: comps}
}
