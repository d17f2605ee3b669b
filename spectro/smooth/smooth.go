// Package smooth provides optional FFT low-pass conditioning for noisy
// spectra prior to peak detection.
package smooth

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// DefaultCutoffFraction retains the lowest quarter of the spectrum's
// frequency content, enough to keep realistic lineshapes intact while
// attenuating sample-to-sample noise.
const DefaultCutoffFraction = 0.25

// Config holds smoothing parameters.
type Config struct {
	// CutoffFraction in (0, 1] selects the fraction of frequency bins
	// to retain. 1 keeps the input unchanged.
	CutoffFraction float64
}

// DefaultConfig returns the smoothing defaults.
func DefaultConfig() Config {
	return Config{CutoffFraction: DefaultCutoffFraction}
}

// Lowpass returns a zero-phase low-pass filtered copy of y. The input is
// mirror-padded to the FFT size, so the filter introduces no edge
// discontinuity and no phase shift that would move peak positions.
func Lowpass(y []float64, cfg Config) ([]float64, error) {
	if cfg.CutoffFraction <= 0 || cfg.CutoffFraction > 1 {
		return nil, fmt.Errorf("smooth: cutoff fraction must be in (0, 1]: %f", cfg.CutoffFraction)
	}

	out := make([]float64, len(y))
	copy(out, y)

	if len(y) < 4 || cfg.CutoffFraction == 1 {
		return out, nil
	}

	size := nextPowerOf2(2 * len(y))

	padded := make([]complex128, size)
	for i, v := range y {
		padded[i] = complex(v, 0)
	}

	// The FFT treats the buffer as one period, so the extension must stay
	// continuous at both seams: past the last sample it reflects off the
	// right edge, and approaching the wrap back to index 0 it reflects off
	// the left edge. The two tails meet mid-pad, keeping any jump far from
	// the signal.
	n := len(y)
	for i := n; i < size; i++ {
		right := i - (n - 1)
		left := size - i

		if right <= left {
			padded[i] = complex(reflectAt(y, n-1-right), 0)
		} else {
			padded[i] = complex(reflectAt(y, left), 0)
		}
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("smooth: failed to create FFT plan: %w", err)
	}

	freq := make([]complex128, size)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("smooth: forward FFT failed: %w", err)
	}

	keep := int(cfg.CutoffFraction * float64(size) / 2)
	if keep < 1 {
		keep = 1
	}

	for k := keep + 1; k < size-keep; k++ {
		freq[k] = 0
	}

	filtered := make([]complex128, size)
	if err := plan.Inverse(filtered, freq); err != nil {
		return nil, fmt.Errorf("smooth: inverse FFT failed: %w", err)
	}

	for i := range out {
		out[i] = real(filtered[i])
	}

	return out, nil
}

// reflectAt indexes y at any integer position, folding out-of-range
// indices back into [0, n-1] by reflection without repeating the edge
// samples.
func reflectAt(y []float64, i int) float64 {
	n := len(y)
	if n == 1 {
		return y[0]
	}

	period := 2 * (n - 1)

	i = ((i % period) + period) % period
	if i >= n {
		i = period - i
	}

	return y[i]
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
