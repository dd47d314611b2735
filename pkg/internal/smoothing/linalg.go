// Package smoothing provides Savitzky-Golay filtering of decoded spectra and the small dense
// linear algebra it is built on.
package smoothing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

func dense(a [][]float64) (*mat.Dense, error) {
	if len(a) == 0 || len(a[0]) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	cols := len(a[0])
	m := mat.NewDense(len(a), cols, nil)
	for i, row := range a {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i, len(row), cols)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// Solve returns x such that a*x = b. Non-square systems are solved in the least squares sense.
func Solve(a [][]float64, b []float64) ([]float64, error) {
	m, err := dense(a)
	if err != nil {
		return nil, err
	}
	if r, _ := m.Dims(); r != len(b) {
		return nil, fmt.Errorf("matrix has %d rows, vector has %d entries", r, len(b))
	}
	var x mat.VecDense
	if err := x.SolveVec(m, mat.NewVecDense(len(b), append([]float64(nil), b...))); err != nil {
		return nil, err
	}
	return x.RawVector().Data, nil
}

// Inverse returns the inverse of the square matrix a.
func Inverse(a [][]float64) ([][]float64, error) {
	m, err := dense(a)
	if err != nil {
		return nil, err
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return nil, err
	}
	r, _ := inv.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, &inv)
	}
	return out, nil
}
