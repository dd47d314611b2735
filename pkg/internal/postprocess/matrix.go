package postprocess

import (
	"fmt"
	"math"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix2D stacks the pages of a 2D entry into a z matrix, one row per page, and records the
// extent of every axis. All pages must have the same number of points.
func Matrix2D(e *types.Entry) (*types.Matrix2D, error) {
	if len(e.Spectra) == 0 {
		return nil, fmt.Errorf("entry %q has no spectra", e.Title)
	}
	cols := len(e.Spectra[0].Data.Y)
	if cols == 0 {
		return nil, fmt.Errorf("entry %q has empty pages", e.Title)
	}
	rows := len(e.Spectra)
	z := mat.NewDense(rows, cols, nil)
	pages := make([]float64, rows)
	for i, s := range e.Spectra {
		if len(s.Data.Y) != cols {
			return nil, fmt.Errorf("entry %q: page %d has %d points, expected %d", e.Title, i, len(s.Data.Y), cols)
		}
		z.SetRow(i, s.Data.Y)
		pages[i] = s.PageValue
	}

	first := e.Spectra[0]
	out := &types.Matrix2D{
		Z:    make([][]float64, rows),
		MinX: math.Min(first.FirstX, first.LastX),
		MaxX: math.Max(first.FirstX, first.LastX),
		MinY: floats.Min(pages),
		MaxY: floats.Max(pages),
		MinZ: mat.Min(z),
		MaxZ: mat.Max(z),
	}
	if len(first.Data.X) > 0 {
		out.MinX = floats.Min(first.Data.X)
		out.MaxX = floats.Max(first.Data.X)
	}
	for i := range out.Z {
		out.Z[i] = mat.Row(nil, i, z)
	}
	return out, nil
}
