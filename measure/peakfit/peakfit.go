package peakfit

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectro/spectro/baseline"
	"github.com/cwbudde/algo-spectro/spectro/fit"
	"github.com/cwbudde/algo-spectro/spectro/lineshape"
	"github.com/cwbudde/algo-spectro/spectro/peaks"
	"github.com/cwbudde/algo-spectro/spectro/smooth"
)

// Config holds the parameters of every pipeline stage. The zero value
// of each embedded config falls back to that stage's defaults.
type Config struct {
	Baseline  baseline.Config
	Peaks     peaks.Config
	Lineshape lineshape.Config
	Fit       fit.Config

	// Smoothing enables FFT low-pass conditioning of the corrected
	// signal before peak detection. Off by default; useful for noisy
	// acquisitions.
	Smoothing bool
	Smooth    smooth.Config
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Baseline:  baseline.DefaultConfig(),
		Peaks:     peaks.DefaultConfig(),
		Lineshape: lineshape.DefaultConfig(),
		Fit:       fit.DefaultConfig(),
		Smooth:    smooth.DefaultConfig(),
	}
}

// normalizeConfig fills unset fields with their stage defaults so a
// caller may override a single threshold and leave the rest zero. Fields
// the stage packages default themselves (iteration caps, tolerances,
// lineshape bounds) are left for those packages; a negative baseline
// degree is passed through to fail validation there.
func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()

	if cfg.Peaks.MinHeight == 0 {
		cfg.Peaks.MinHeight = def.Peaks.MinHeight
	}

	if cfg.Peaks.MinProminence == 0 {
		cfg.Peaks.MinProminence = def.Peaks.MinProminence
	}

	if cfg.Peaks.MinDistance == 0 {
		cfg.Peaks.MinDistance = def.Peaks.MinDistance
	}

	if cfg.Baseline.Degree == 0 {
		cfg.Baseline.Degree = def.Baseline.Degree
	}

	if cfg.Smooth.CutoffFraction == 0 {
		cfg.Smooth.CutoffFraction = def.Smooth.CutoffFraction
	}

	return cfg
}

// Summary is the externally consumed result shape: per-peak parameter
// sequences in ascending peak order plus the observed x range, with the
// detailed records and fit diagnostics attached for callers that want
// them.
type Summary struct {
	Centers    []float64
	Sigmas     []float64
	Amplitudes []float64
	XMin       float64
	XMax       float64

	// Records holds the full per-peak descriptors, in the same order as
	// the parallel slices above. Empty when no peaks were detected.
	Records []fit.PeakRecord

	// Fit is the underlying fit result. Nil when no peaks were
	// detected.
	Fit *fit.Result

	// Baseline carries the correction diagnostics for the run.
	Baseline baseline.Result
}

// Analyze runs the full pipeline on one spectrum: baseline removal,
// optional smoothing, peak detection, model construction, bounded
// least-squares fitting, and record extraction.
//
// x must be strictly increasing and the same length as y. A spectrum in
// which no peak satisfies the detection thresholds yields an empty
// summary, not an error. Each call is independent; no state is shared
// across invocations.
func Analyze(x, y []float64, cfg Config) (Summary, error) {
	cfg = normalizeConfig(cfg)

	if len(x) == 0 {
		return Summary{}, fmt.Errorf("peakfit: input must not be empty")
	}

	if len(x) != len(y) {
		return Summary{}, fmt.Errorf("peakfit: x/y length mismatch: %d != %d", len(x), len(y))
	}

	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return Summary{}, fmt.Errorf("peakfit: x must be strictly increasing at index %d", i)
		}
	}

	br, err := baseline.Remove(y, cfg.Baseline)
	if err != nil {
		return Summary{}, err
	}

	corrected := br.Corrected
	if cfg.Smoothing {
		corrected, err = smooth.Lowpass(corrected, cfg.Smooth)
		if err != nil {
			return Summary{}, err
		}
	}

	candidates, err := peaks.Detect(x, corrected, cfg.Peaks)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		XMin:     floats.Min(x),
		XMax:     floats.Max(x),
		Baseline: br,
	}

	if len(candidates) == 0 {
		return summary, nil
	}

	model := lineshape.Build(candidates, cfg.Lineshape)

	res, err := fit.Run(x, corrected, model, cfg.Fit)
	if err != nil {
		return Summary{}, err
	}

	records := res.Records()

	summary.Fit = res
	summary.Records = records
	summary.Centers = make([]float64, len(records))
	summary.Sigmas = make([]float64, len(records))
	summary.Amplitudes = make([]float64, len(records))

	for i, rec := range records {
		summary.Centers[i] = rec.Center
		summary.Sigmas[i] = rec.Sigma
		summary.Amplitudes[i] = rec.Amplitude
	}

	return summary, nil
}
