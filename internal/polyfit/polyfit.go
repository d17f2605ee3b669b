// Package polyfit provides least-squares polynomial fitting and evaluation
// shared by the baseline estimation package.
package polyfit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrIllConditioned is returned when the normal system of a fit is too
// close to singular to solve reliably (duplicate abscissae, excessive
// degree, etc.).
var ErrIllConditioned = errors.New("polyfit: ill-conditioned system")

// Fitter solves repeated least-squares fits against a fixed abscissa.
//
// The QR factorisation of the Vandermonde matrix is computed once at
// construction, so solving for a new ordinate vector costs only a
// triangular back-substitution. This is the shape iterative baseline
// estimation needs: one abscissa, many refits.
type Fitter struct {
	order int
	rows  int
	qr    mat.QR
}

// NewFitter prepares a least-squares fitter for degree-deg polynomials
// over the given abscissa. x must contain at least deg+1 samples.
func NewFitter(x []float64, deg int) (*Fitter, error) {
	if deg < 0 {
		return nil, fmt.Errorf("polyfit: degree must be >= 0: %d", deg)
	}

	order := deg + 1
	if len(x) < order {
		return nil, fmt.Errorf("polyfit: need at least %d samples for degree %d: %d", order, deg, len(x))
	}

	vander := mat.NewDense(len(x), order, nil)
	for i, v := range x {
		p := 1.0
		for j := order - 1; j >= 0; j-- {
			vander.Set(i, j, p)
			p *= v
		}
	}

	f := &Fitter{order: order, rows: len(x)}
	f.qr.Factorize(vander)

	return f, nil
}

// Solve returns the coefficients, in descending power order, of the
// polynomial minimizing the squared error against y over the fitter's
// abscissa.
func (f *Fitter) Solve(y []float64) ([]float64, error) {
	if len(y) != f.rows {
		return nil, fmt.Errorf("polyfit: ordinate length mismatch: %d != %d", len(y), f.rows)
	}

	var c mat.VecDense
	if err := f.qr.SolveVecTo(&c, false, mat.NewVecDense(len(y), y)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllConditioned, err)
	}

	coeffs := make([]float64, f.order)
	for i := range coeffs {
		coeffs[i] = c.AtVec(i)
	}

	return coeffs, nil
}

// Fit is a one-shot convenience wrapper around [NewFitter] and
// [Fitter.Solve].
func Fit(x, y []float64, deg int) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("polyfit: x/y length mismatch: %d != %d", len(x), len(y))
	}

	f, err := NewFitter(x, deg)
	if err != nil {
		return nil, err
	}

	return f.Solve(y)
}

// Eval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeffs[0]*x^n + ... + coeffs[n].
func Eval(coeffs []float64, x float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}

	v := coeffs[0]
	for i := 1; i < len(coeffs); i++ {
		v = v*x + coeffs[i]
	}

	return v
}

// EvalAll evaluates a polynomial at every point of xs into a new slice.
func EvalAll(coeffs, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Eval(coeffs, x)
	}

	return out
}
