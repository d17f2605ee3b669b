// Package synth generates deterministic synthetic spectra for tests,
// examples, and tooling.
package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-spectro/spectro/lineshape"
)

// Line describes one synthetic Lorentzian peak by its visible shape.
type Line struct {
	Center float64
	Height float64
	Sigma  float64
}

// Generator creates deterministic signals from a fixed random seed.
type Generator struct {
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Axis returns samples evenly spaced positions from xmin to xmax
// inclusive.
func Axis(xmin, xmax float64, samples int) ([]float64, error) {
	if samples < 2 {
		return nil, fmt.Errorf("synth: axis needs at least 2 samples: %d", samples)
	}

	if xmax <= xmin {
		return nil, fmt.Errorf("synth: axis range must be increasing: [%f, %f]", xmin, xmax)
	}

	out := make([]float64, samples)
	step := (xmax - xmin) / float64(samples-1)
	for i := range out {
		out[i] = xmin + step*float64(i)
	}

	return out, nil
}

// Lorentzians evaluates the sum of the given lines over x. Heights are
// peak heights; the corresponding amplitude is pi*sigma*height.
func Lorentzians(x []float64, lines []Line) []float64 {
	out := make([]float64, len(x))
	for _, l := range lines {
		amp := math.Pi * l.Sigma * l.Height
		for i, v := range x {
			out[i] += lineshape.Lorentzian(v, l.Center, amp, l.Sigma)
		}
	}

	return out
}

// Ramp returns a linear baseline running from y0 at x[0] to y1 at the
// last sample.
func Ramp(x []float64, y0, y1 float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	span := x[len(x)-1] - x[0]
	if span == 0 {
		for i := range out {
			out[i] = y0
		}

		return out
	}

	for i, v := range x {
		out[i] = y0 + (y1-y0)*(v-x[0])/span
	}

	return out
}

// WhiteNoise generates deterministic white noise in
// [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("synth: noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("synth: noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}
