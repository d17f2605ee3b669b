// Package peaks locates local maxima in baseline-corrected spectra that
// satisfy height, prominence, and spacing thresholds.
package peaks

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultMinHeight is the default minimum absolute peak height.
	DefaultMinHeight = 0.1

	// DefaultMinProminence is the default minimum peak prominence.
	DefaultMinProminence = 0.1

	// DefaultMinDistance is the default minimum horizontal spacing
	// between surviving peaks, in samples.
	DefaultMinDistance = 10
)

// Config holds peak detection thresholds.
type Config struct {
	// MinHeight rejects maxima whose corrected intensity is below it.
	MinHeight float64

	// MinProminence rejects maxima whose height above the lowest saddle
	// toward the nearest higher sample is below it. This prunes shallow
	// shoulders on the flank of a larger peak.
	MinProminence float64

	// MinDistance is the minimum spacing between peaks in samples. Of
	// two maxima closer than this, only the taller survives.
	MinDistance int
}

// DefaultConfig returns the detection defaults.
func DefaultConfig() Config {
	return Config{
		MinHeight:     DefaultMinHeight,
		MinProminence: DefaultMinProminence,
		MinDistance:   DefaultMinDistance,
	}
}

// Peak is one detected local maximum in data coordinates.
type Peak struct {
	X float64
	Y float64
}

// Detect scans the corrected sequence y for local maxima satisfying all
// configured thresholds and returns them in ascending x order. Zero
// peaks is a valid result, not an error.
func Detect(x, y []float64, cfg Config) ([]Peak, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("peaks: x/y length mismatch: %d != %d", len(x), len(y))
	}

	if cfg.MinDistance <= 0 {
		return nil, fmt.Errorf("peaks: minimum distance must be > 0 samples: %d", cfg.MinDistance)
	}

	if len(y) == 0 {
		return nil, nil
	}

	idx := localMaxima(y)

	// Height, then spacing, then prominence: each pass only shrinks the
	// candidate set, and prominence is the most expensive check.
	kept := idx[:0]
	for _, i := range idx {
		if y[i] >= cfg.MinHeight {
			kept = append(kept, i)
		}
	}

	kept = suppressByDistance(kept, y, cfg.MinDistance)

	out := make([]Peak, 0, len(kept))
	for _, i := range kept {
		if prominence(y, i) >= cfg.MinProminence {
			out = append(out, Peak{X: x[i], Y: y[i]})
		}
	}

	if len(out) == 0 {
		return nil, nil
	}

	return out, nil
}

// localMaxima returns the indices of strict local maxima, resolving flat
// plateau tops to their midpoint sample.
func localMaxima(y []float64) []int {
	var idx []int

	i := 1
	for i < len(y)-1 {
		if y[i-1] >= y[i] {
			i++
			continue
		}

		// Walk the plateau, if any.
		j := i
		for j < len(y)-1 && y[j+1] == y[i] {
			j++
		}

		if j < len(y)-1 && y[j+1] < y[i] {
			idx = append(idx, (i+j)/2)
		}

		i = j + 1
	}

	return idx
}

// suppressByDistance removes the lower of any two candidates closer than
// minDist samples, processing candidates in descending height order.
func suppressByDistance(idx []int, y []float64, minDist int) []int {
	if len(idx) < 2 {
		return idx
	}

	order := make([]int, len(idx))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return y[idx[order[a]]] > y[idx[order[b]]]
	})

	keep := make([]bool, len(idx))
	for i := range keep {
		keep[i] = true
	}

	for _, k := range order {
		if !keep[k] {
			continue
		}

		for j := k - 1; j >= 0 && idx[k]-idx[j] < minDist; j-- {
			keep[j] = false
		}

		for j := k + 1; j < len(idx) && idx[j]-idx[k] < minDist; j++ {
			keep[j] = false
		}
	}

	out := idx[:0]
	for i, k := range keep {
		if k {
			out = append(out, idx[i])
		}
	}

	return out
}

// prominence measures the height of the peak at p above the higher of
// the two lowest saddles separating it from taller terrain (or from the
// signal edge when no taller sample exists on that side).
func prominence(y []float64, p int) float64 {
	h := y[p]

	leftMin := h
	for i := p - 1; i >= 0; i-- {
		if y[i] > h {
			break
		}

		if y[i] < leftMin {
			leftMin = y[i]
		}
	}

	rightMin := h
	for i := p + 1; i < len(y); i++ {
		if y[i] > h {
			break
		}

		if y[i] < rightMin {
			rightMin = y[i]
		}
	}

	return h - math.Max(leftMin, rightMin)
}
