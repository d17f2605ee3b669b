// Package peakfit orchestrates the spectroscopy peak analysis pipeline.
//
// One call to [Analyze] takes a raw (x, y) curve through baseline
// removal, peak detection, multi-peak Lorentzian model construction,
// bounded nonlinear least-squares fitting, and structured extraction,
// returning the fitted centers, widths, and amplitudes together with
// the observed x range. Rendering is a separate side branch (see the
// render package) and is never required by the numeric pipeline.
//
// The pipeline is synchronous and call-scoped: every stage completes
// before the next begins, no state persists between invocations, and
// independent spectra may be analyzed concurrently from separate
// goroutines.
package peakfit
