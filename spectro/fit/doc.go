// Package fit optimizes composite Lorentzian models against corrected
// spectra by bounded nonlinear least squares.
//
// The engine wraps a Levenberg-Marquardt solver with a numerical
// Jacobian. Box bounds are handled by a change of variables: each
// bounded parameter is driven by an unconstrained internal coordinate
// mapped through a sine transform onto [min, max], the classic MINUIT
// device, so bound feasibility holds at every evaluation.
//
// Failure is explicit. A model with no components, a non-converging
// optimizer, or non-finite parameter values each return a distinct
// sentinel error; degenerate numbers never flow silently into
// [PeakRecord] values.
package fit
