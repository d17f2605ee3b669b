package baseline

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectro/internal/polyfit"
)

const (
	// DefaultDegree is the polynomial degree used when none is configured.
	DefaultDegree = 3

	// DefaultMaxIterations bounds the reweighting loop so estimation
	// always terminates.
	DefaultMaxIterations = 200

	defaultTolerance = 1e-3
)

// Config holds baseline estimation parameters.
type Config struct {
	// Degree of the background polynomial. Must satisfy Degree < len(y).
	Degree int

	// MaxIterations caps the lower-envelope reweighting loop.
	MaxIterations int

	// Tolerance is the relative coefficient-change threshold that stops
	// iteration early.
	Tolerance float64
}

// DefaultConfig returns the estimation defaults.
func DefaultConfig() Config {
	return Config{
		Degree:        DefaultDegree,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     defaultTolerance,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultTolerance
	}

	return cfg
}

// Result holds a corrected intensity sequence and its diagnostics.
type Result struct {
	// Corrected is the input with the clamped baseline subtracted:
	// Corrected[i] = y[i] - max(Baseline[i], 0).
	Corrected []float64

	// Baseline is the estimated background after clamping negative
	// samples to zero. Kept for diagnostics and plotting.
	Baseline []float64

	// ClampedFraction is the fraction of baseline samples that were
	// negative before clamping. A large value suggests the polynomial
	// degree does not match the background shape.
	ClampedFraction float64

	// Iterations is the number of reweighting passes performed.
	Iterations int
}

// Estimate fits a degree-cfg.Degree polynomial tracking the lower
// envelope of y and returns the raw (unclamped) baseline curve together
// with the iteration count.
//
// The envelope is found by iterative reweighting: after each fit, working
// samples above the fitted curve are replaced by the curve value and the
// polynomial is refit, pulling it under the peaks. Iteration stops when
// the coefficients settle within cfg.Tolerance or after
// cfg.MaxIterations passes.
func Estimate(y []float64, cfg Config) ([]float64, int, error) {
	cfg = normalizeConfig(cfg)

	if len(y) == 0 {
		return nil, 0, fmt.Errorf("baseline: input must not be empty")
	}

	if cfg.Degree < 0 {
		return nil, 0, fmt.Errorf("baseline: degree must be >= 0: %d", cfg.Degree)
	}

	if cfg.Degree >= len(y) {
		return nil, 0, fmt.Errorf("baseline: degree %d requires more than %d samples", cfg.Degree, len(y))
	}

	order := cfg.Degree + 1

	// Normalized abscissa keeps the Vandermonde system well conditioned
	// regardless of the caller's x units.
	maxAbs := 0.0
	for _, v := range y {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	if maxAbs == 0 {
		return make([]float64, len(y)), 0, nil
	}

	cond := math.Pow(maxAbs, 1/float64(order))

	xs := make([]float64, len(y))
	if len(y) > 1 {
		step := cond / float64(len(y)-1)
		for i := range xs {
			xs[i] = float64(i) * step
		}
	}

	fitter, err := polyfit.NewFitter(xs, cfg.Degree)
	if err != nil {
		return nil, 0, err
	}

	work := make([]float64, len(y))
	copy(work, y)

	coeffs := make([]float64, order)
	for i := range coeffs {
		coeffs[i] = 1
	}

	iters := 0

	for it := 0; it < cfg.MaxIterations; it++ {
		next, err := fitter.Solve(work)
		if err != nil {
			return nil, 0, err
		}

		iters = it + 1

		if coeffDelta(next, coeffs) < cfg.Tolerance {
			coeffs = next
			break
		}

		coeffs = next

		base := polyfit.EvalAll(coeffs, xs)
		for i := range work {
			if base[i] < work[i] {
				work[i] = base[i]
			}
		}
	}

	return polyfit.EvalAll(coeffs, xs), iters, nil
}

// Remove estimates the baseline of y, clamps negative baseline samples
// to zero, and subtracts it. A negative estimated background is
// physically implausible and would inflate the corrected signal, so the
// clamp is applied unconditionally; the fraction of clamped samples is
// reported in the result.
func Remove(y []float64, cfg Config) (Result, error) {
	base, iters, err := Estimate(y, cfg)
	if err != nil {
		return Result{}, err
	}

	clamped := 0
	for i, v := range base {
		if v < 0 {
			base[i] = 0
			clamped++
		}
	}

	corrected := make([]float64, len(y))
	vecmath.ScaleBlock(corrected, base, -1)
	vecmath.AddBlockInPlace(corrected, y)

	return Result{
		Corrected:       corrected,
		Baseline:        base,
		ClampedFraction: float64(clamped) / float64(len(y)),
		Iterations:      iters,
	}, nil
}

// coeffDelta returns the relative change between successive coefficient
// vectors.
func coeffDelta(next, prev []float64) float64 {
	num := 0.0
	den := 0.0

	for i := range next {
		d := next[i] - prev[i]
		num += d * d
		den += prev[i] * prev[i]
	}

	if den == 0 {
		return math.Inf(1)
	}

	return math.Sqrt(num / den)
}
