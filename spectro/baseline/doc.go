// Package baseline removes smooth polynomial backgrounds from
// spectroscopy intensity sequences.
//
// Raw spectra typically ride on a slow-varying background (fluorescence,
// detector drift) that must be removed before peak parameters mean
// anything. The estimator fits a low-degree polynomial to the lower
// envelope of the data by iterative reweighting: samples above the
// current fit are pulled down to it and the polynomial is refit, so the
// curve settles under the peaks rather than through them.
//
// Estimated baseline values below zero are clamped before subtraction.
// The fraction of clamped samples is reported in [Result] so callers can
// detect a baseline fit that disagrees with the data instead of having
// the clamp hide it.
package baseline
