package postprocess

import (
	"sort"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
)

// Chromatogram reduces an entry to a time-resolved trace. With several spectra each spectrum is
// one scan: times come from the page values, the scans form the 2D "ms" series and every
// GC/MS field declared on the scans becomes a 1D series. A "tic" series is computed from the
// scans when none was declared. A single spectrum is returned as its x/y trace.
func Chromatogram(e *types.Entry) *types.Chromatogram {
	switch len(e.Spectra) {
	case 0:
		return nil
	case 1:
		s := e.Spectra[0]
		return &types.Chromatogram{
			Times: append([]float64(nil), s.Data.X...),
			Series: []*types.Series{{
				Name:      "intensity",
				Dimension: 1,
				Values:    append([]float64(nil), s.Data.Y...),
			}},
		}
	}

	c := &types.Chromatogram{Times: make([]float64, len(e.Spectra))}
	ms := &types.Series{Name: "ms", Dimension: 2, Scans: make([]types.XY, len(e.Spectra))}
	for i, s := range e.Spectra {
		c.Times[i] = s.PageValue
		ms.Scans[i] = s.Data
	}
	c.Series = append(c.Series, ms)

	for _, name := range fieldNames(e.Spectra) {
		series := &types.Series{Name: name, Dimension: 1, Values: make([]float64, len(e.Spectra))}
		for i, s := range e.Spectra {
			if v, err := types.ParseNumber(s.Fields[name]); err == nil {
				series.Values[i] = v
			}
		}
		c.Series = append(c.Series, series)
	}

	if c.Get("tic") == nil {
		tic := &types.Series{Name: "tic", Dimension: 1, Values: make([]float64, len(e.Spectra))}
		for i, s := range e.Spectra {
			tic.Values[i] = floats.Sum(s.Data.Y)
		}
		c.Series = append(c.Series, tic)
	}
	return c
}

func fieldNames(spectra []*types.Spectrum) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range spectra {
		for k := range s.Fields {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
