package fit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectro/spectro/lineshape"
)

var (
	// ErrNoPeaks is returned when a zero-component model is handed to
	// the engine. There is nothing to fit.
	ErrNoPeaks = errors.New("fit: model has no components")

	// ErrNotConverged is returned when the optimizer fails to reach its
	// convergence criteria.
	ErrNotConverged = errors.New("fit: optimizer failed to converge")

	// ErrNonFinite is returned when the optimizer produces NaN or Inf
	// parameter values. Degenerate numbers must not flow into records.
	ErrNonFinite = errors.New("fit: non-finite fitted parameters")

	// ErrParamStride is returned when a parameter table's length is not
	// an exact multiple of the per-peak field count. This indicates a
	// mismatch between model construction and extraction and fails
	// loudly rather than truncating.
	ErrParamStride = errors.New("fit: parameter count is not a multiple of the per-peak stride")
)

const (
	// DefaultMaxIterations bounds the Levenberg-Marquardt loop.
	DefaultMaxIterations = 200

	defaultObjectiveTol = 1e-16

	// Levenberg-Marquardt scaling and gradient/step stopping thresholds.
	defaultTau  = 1e-6
	defaultEps1 = 1e-8
	defaultEps2 = 1e-8
)

// Config holds fit engine parameters.
type Config struct {
	// MaxIterations caps the optimizer's iteration count.
	MaxIterations int

	// ObjectiveTol stops the optimizer once the residual sum of squares
	// falls below it.
	ObjectiveTol float64

	// Report requests a textual summary of the fit in Result.Report.
	// It never alters the numeric result.
	Report bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		ObjectiveTol:  defaultObjectiveTol,
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	if cfg.ObjectiveTol <= 0 {
		cfg.ObjectiveTol = defaultObjectiveTol
	}

	return cfg
}

// PeakRecord is the structured per-peak output of a successful fit.
// Amplitude and FWHM are derived from the free parameters; they are
// reported alongside them but carry no independent degrees of freedom.
type PeakRecord struct {
	Sigma     float64
	Center    float64
	Amplitude float64
	FWHM      float64
	Height    float64
}

// Result holds the optimized model and its goodness-of-fit diagnostics.
// It is immutable after creation.
type Result struct {
	// Model is the input model with optimized parameter values.
	Model lineshape.Model

	// Params is the full optimized parameter table,
	// lineshape.ReportedFields entries per peak.
	Params []lineshape.Param

	// BestFit is the composite model evaluated at the optimized
	// parameters over the input x sequence.
	BestFit []float64

	// Components holds each component's evaluation over the input x
	// sequence, for diagnostic decomposition.
	Components [][]float64

	// Residuals is BestFit minus the corrected data.
	Residuals []float64

	// RSS is the residual sum of squares.
	RSS float64

	// Report is the optional textual fit summary. Empty unless
	// requested in the config.
	Report string
}

// Records assembles the per-peak records in component order. The
// parameter stride was validated when the result was created.
func (r *Result) Records() []PeakRecord {
	recs, err := RecordsFromParams(r.Params)
	if err != nil {
		// Run validated the table; a failure here means the result was
		// mutated after creation.
		panic(err)
	}

	return recs
}

// RecordsFromParams converts a flat parameter table into per-peak
// records. The table length must be an exact multiple of
// lineshape.ReportedFields; anything else is a structural defect.
func RecordsFromParams(params []lineshape.Param) ([]PeakRecord, error) {
	stride := lineshape.ReportedFields
	if len(params)%stride != 0 {
		return nil, fmt.Errorf("%w: %d params, stride %d", ErrParamStride, len(params), stride)
	}

	recs := make([]PeakRecord, len(params)/stride)
	for i := range recs {
		base := params[i*stride:]
		recs[i] = PeakRecord{
			Center:    base[0].Value,
			Height:    base[1].Value,
			Sigma:     base[2].Value,
			Amplitude: base[3].Value,
			FWHM:      base[4].Value,
		}
	}

	return recs, nil
}

// Run performs a bounded nonlinear least-squares fit of the composite
// model against the corrected data, minimizing the residual sum of
// squares while respecting every parameter's bounds.
//
// Bounds are enforced by optimizing an unconstrained internal variable
// per parameter and mapping it through a sine transform onto the bounded
// interval, so the optimizer itself never sees a constraint.
// Non-convergence and non-finite parameter values surface as explicit
// errors rather than degenerate records.
func Run(x, y []float64, model lineshape.Model, cfg Config) (*Result, error) {
	cfg = normalizeConfig(cfg)

	if model.NumPeaks() == 0 {
		return nil, ErrNoPeaks
	}

	if len(x) != len(y) {
		return nil, fmt.Errorf("fit: x/y length mismatch: %d != %d", len(x), len(y))
	}

	dim := model.NumPeaks() * lineshape.FreeParams
	if len(x) < dim {
		return nil, fmt.Errorf("fit: %d samples cannot constrain %d free parameters", len(x), dim)
	}

	init := internalInit(model)

	residuals := func(dst, internal []float64) {
		m := applyInternal(model, internal)
		eval := m.Eval(x)
		floats.SubTo(dst, eval, y)
	}

	jac := lm.NumJac{Func: residuals}

	problem := lm.LMProblem{
		Dim:        dim,
		Size:       len(x),
		Func:       residuals,
		Jac:        jac.Jac,
		InitParams: init,
		Tau:        defaultTau,
		Eps1:       defaultEps1,
		Eps2:       defaultEps2,
	}

	settings := lm.Settings{
		Iterations:   cfg.MaxIterations,
		ObjectiveTol: cfg.ObjectiveTol,
	}

	solved, err := lm.LM(problem, &settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}

	for _, v := range solved.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}

	fitted := applyInternal(model, solved.X)

	params := fitted.Params()
	if _, err := RecordsFromParams(params); err != nil {
		return nil, err
	}

	for _, p := range params {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return nil, ErrNonFinite
		}
	}

	bestFit := fitted.Eval(x)

	res := make([]float64, len(x))
	floats.SubTo(res, bestFit, y)

	result := &Result{
		Model:      fitted,
		Params:     params,
		BestFit:    bestFit,
		Components: fitted.EvalComponents(x),
		Residuals:  res,
		RSS:        floats.Dot(res, res),
	}

	if cfg.Report {
		result.Report = buildReport(result)
	}

	return result, nil
}

// internalInit maps every free parameter's initial guess into the
// optimizer's unconstrained coordinates.
func internalInit(m lineshape.Model) []float64 {
	out := make([]float64, 0, m.NumPeaks()*lineshape.FreeParams)
	for _, c := range m.Components {
		out = append(out,
			toInternal(c.Center),
			toInternal(c.Height),
			toInternal(c.Sigma),
		)
	}

	return out
}

// applyInternal returns a copy of the model with the free parameters set
// from the optimizer's internal coordinates.
func applyInternal(m lineshape.Model, internal []float64) lineshape.Model {
	comps := make([]lineshape.Component, len(m.Components))

	for i, c := range m.Components {
		base := internal[i*lineshape.FreeParams:]
		c.Center.Value = toExternal(c.Center, base[0])
		c.Height.Value = toExternal(c.Height, base[1])
		c.Sigma.Value = toExternal(c.Sigma, base[2])
		comps[i] = c
	}

	return lineshape.Model{Components: comps}
}

// sineMargin keeps initial internal values away from the transform's
// stationary points at the interval edges, where the gradient vanishes.
const sineMargin = 1e-8

// toInternal maps a bounded parameter value to the unconstrained
// internal coordinate.
func toInternal(p lineshape.Param) float64 {
	loBounded := !math.IsInf(p.Min, -1)
	hiBounded := !math.IsInf(p.Max, 1)

	switch {
	case loBounded && hiBounded:
		ratio := 2*(p.Value-p.Min)/(p.Max-p.Min) - 1
		if ratio < -1+sineMargin {
			ratio = -1 + sineMargin
		}

		if ratio > 1-sineMargin {
			ratio = 1 - sineMargin
		}

		return math.Asin(ratio)

	case loBounded:
		v := p.Value
		if v < p.Min {
			v = p.Min
		}

		return math.Sqrt((v-p.Min+1)*(v-p.Min+1) - 1)

	case hiBounded:
		v := p.Value
		if v > p.Max {
			v = p.Max
		}

		return math.Sqrt((p.Max-v+1)*(p.Max-v+1) - 1)

	default:
		return p.Value
	}
}

// toExternal maps an unconstrained internal coordinate back onto the
// parameter's bounded interval.
func toExternal(p lineshape.Param, internal float64) float64 {
	loBounded := !math.IsInf(p.Min, -1)
	hiBounded := !math.IsInf(p.Max, 1)

	switch {
	case loBounded && hiBounded:
		return p.Min + (math.Sin(internal)+1)/2*(p.Max-p.Min)

	case loBounded:
		return p.Min - 1 + math.Sqrt(internal*internal+1)

	case hiBounded:
		return p.Max + 1 - math.Sqrt(internal*internal+1)

	default:
		return internal
	}
}

func buildReport(r *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "fit: %d peak(s), RSS %.6g\n", r.Model.NumPeaks(), r.RSS)

	for _, rec := range r.Records() {
		fmt.Fprintf(&b, "  center %10.4f  height %8.4f  sigma %9.4f  amplitude %10.4f  fwhm %9.4f\n",
			rec.Center, rec.Height, rec.Sigma, rec.Amplitude, rec.FWHM)
	}

	return b.String()
}
