package smoothing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Options configures SavitzkyGolay.
type Options struct {
	WindowSize int     // odd, at least 3
	Polynomial int     // degree of the fitted polynomial, below WindowSize
	Derivative int     // 0 smooths; n returns the n-th derivative
	H          float64 // x spacing used to scale derivatives; 0 means 1
}

// DefaultOptions is a 9 point quadratic smoothing.
var DefaultOptions = Options{WindowSize: 9, Polynomial: 2, Derivative: 0, H: 1}

func (o Options) validate(n int) error {
	switch {
	case o.WindowSize < 3 || o.WindowSize%2 == 0:
		return fmt.Errorf("window size must be odd and at least 3, got %d", o.WindowSize)
	case o.WindowSize > n:
		return fmt.Errorf("window size %d exceeds the %d points", o.WindowSize, n)
	case o.Polynomial < 0 || o.Polynomial >= o.WindowSize:
		return fmt.Errorf("polynomial degree %d must be below the window size %d", o.Polynomial, o.WindowSize)
	case o.Derivative < 0 || o.Derivative > o.Polynomial:
		return fmt.Errorf("derivative %d exceeds the polynomial degree %d", o.Derivative, o.Polynomial)
	}
	return nil
}

// SavitzkyGolay fits a polynomial by least squares over a sliding window and returns its value
// (or derivative) at every point. Interior points use one precomputed convolution; the first
// and last half windows are fitted on the nearest full window.
func SavitzkyGolay(y []float64, opts Options) ([]float64, error) {
	if err := opts.validate(len(y)); err != nil {
		return nil, err
	}
	h := opts.H
	if h == 0 {
		h = 1
	}
	half := opts.WindowSize / 2
	scale := factorial(opts.Derivative) / math.Pow(h, float64(opts.Derivative))

	a := vandermonde(opts.WindowSize, opts.Polynomial, half)
	var ata mat.Dense
	ata.Mul(a.T(), a)

	// interior weights: row d of (A'A)^-1 A'
	var inv mat.Dense
	if err := inv.Inverse(&ata); err != nil {
		return nil, err
	}
	var proj mat.Dense
	proj.Mul(&inv, a.T())
	weights := mat.Row(nil, opts.Derivative, &proj)

	n := len(y)
	out := make([]float64, n)
	for i := half; i < n-half; i++ {
		var sum float64
		for j, w := range weights {
			sum += w * y[i-half+j]
		}
		out[i] = sum * scale
	}

	left, err := fitWindow(a, &ata, y[:opts.WindowSize])
	if err != nil {
		return nil, err
	}
	right, err := fitWindow(a, &ata, y[n-opts.WindowSize:])
	if err != nil {
		return nil, err
	}
	for i := 0; i < half; i++ {
		out[i] = evaluate(left, opts.Derivative, float64(i-half)) / math.Pow(h, float64(opts.Derivative))
		k := n - half + i
		out[k] = evaluate(right, opts.Derivative, float64(i+1)) / math.Pow(h, float64(opts.Derivative))
	}
	return out, nil
}

// vandermonde builds the window x (degree+1) design matrix with t centred on the window.
func vandermonde(window, degree, half int) *mat.Dense {
	a := mat.NewDense(window, degree+1, nil)
	for r := 0; r < window; r++ {
		t := float64(r - half)
		v := 1.0
		for c := 0; c <= degree; c++ {
			a.Set(r, c, v)
			v *= t
		}
	}
	return a
}

// fitWindow solves the normal equations for the polynomial coefficients of one window.
func fitWindow(a *mat.Dense, ata *mat.Dense, y []float64) ([]float64, error) {
	var aty mat.VecDense
	aty.MulVec(a.T(), mat.NewVecDense(len(y), append([]float64(nil), y...)))
	var c mat.VecDense
	if err := c.SolveVec(ata, &aty); err != nil {
		return nil, err
	}
	return c.RawVector().Data, nil
}

// evaluate returns the d-th derivative of sum c[k] t^k at t.
func evaluate(c []float64, d int, t float64) float64 {
	var sum float64
	for k := d; k < len(c); k++ {
		sum += c[k] * factorial(k) / factorial(k-d) * math.Pow(t, float64(k-d))
	}
	return sum
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
