// Package postprocess holds the transforms applied to assembled entries: NMR axis
// normalization, page rescaling, chromatogram extraction, 2D matrices and FID transforms.
package postprocess

import (
	"math"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// HzToPPM converts a spectrum whose X axis is in Hz to ppm by dividing by the observe
// frequency (MHz). It reports whether a conversion happened.
func HzToPPM(s *types.Spectrum) bool {
	if s.ObserveFrequency == 0 || !strings.Contains(strings.ToUpper(s.XUnits), "HZ") {
		return false
	}
	f := s.ObserveFrequency
	for i := range s.Data.X {
		s.Data.X[i] /= f
	}
	s.FirstX /= f
	s.LastX /= f
	s.DeltaX /= f
	s.XFactor /= f
	s.MinX /= f
	s.MaxX /= f
	s.XUnits = "PPM"
	s.Mark("xHz")
	if v, ok := s.Variables["x"]; ok {
		v.Units = "PPM"
		v.First /= f
		v.Last /= f
	}
	return true
}

// ApplyShiftOffset moves a ppm axis so that its first point reads as the declared $OFFSET.
func ApplyShiftOffset(s *types.Spectrum) bool {
	if !s.HasShiftOffset || !strings.EqualFold(s.XUnits, "PPM") {
		return false
	}
	shift := s.FirstX - s.ShiftOffset
	if shift == 0 {
		return false
	}
	for i := range s.Data.X {
		s.Data.X[i] -= shift
	}
	s.FirstX -= shift
	s.LastX -= shift
	s.MinX -= shift
	s.MaxX -= shift
	return true
}

// NMR applies HzToPPM and ApplyShiftOffset to every spectrum of e and, for 2D entries, the
// page rescaling.
func NMR(e *types.Entry) {
	for _, s := range e.Spectra {
		HzToPPM(s)
		ApplyShiftOffset(s)
	}
	if e.TwoD {
		RescalePages(e)
	}
}

// RescalePages converts the page values of a 2D entry from Hz to ppm of the indirect nucleus.
// The indirect observe frequency is the direct one scaled by the ratio of the two nuclei's
// gyromagnetic ratios. Entries without two known nuclei or an observe frequency are left as is.
func RescalePages(e *types.Entry) bool {
	if len(e.Nuclei) < 2 || len(e.Spectra) == 0 {
		return false
	}
	direct, ok1 := GyromagneticRatio(e.Nuclei[0])
	indirect, ok2 := GyromagneticRatio(e.Nuclei[1])
	if !ok1 || !ok2 || direct == 0 {
		return false
	}
	ratio := math.Abs(indirect / direct)
	changed := false
	for _, s := range e.Spectra {
		if !s.HasPage || s.ObserveFrequency == 0 || !pageInHz(e, s) {
			continue
		}
		s.PageValue /= s.ObserveFrequency * ratio
		changed = true
	}
	return changed
}

// pageInHz reports whether the page variable is declared in Hz. Without a declaration the
// page follows the unit the X axis was read in.
func pageInHz(e *types.Entry, s *types.Spectrum) bool {
	if s.PageSymbol != "" && e.NTuples != nil {
		if idx := e.NTuples.Index(s.PageSymbol); idx >= 0 {
			if u, ok := e.NTuples.Value("units", idx); ok {
				return strings.Contains(strings.ToUpper(u), "HZ")
			}
		}
	}
	return s.Has("xHz")
}
