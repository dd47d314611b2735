package assembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/asdf"
	"github.com/joeydtaylor/jcamp/pkg/internal/ldr"
	"github.com/joeydtaylor/jcamp/pkg/internal/ntuples"
	"github.com/joeydtaylor/jcamp/pkg/internal/peaktable"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

type blockHandler func(w *walker, f *frame, rec ldr.Record) error

var dataBlocks = map[string]blockHandler{
	"XYDATA":          (*walker).xyData,
	"PEAKTABLE":       (*walker).peakTable,
	"PEAKASSIGNMENTS": (*walker).peakAssignments,
	"DATATABLE":       (*walker).dataTable,
}

func (w *walker) xyData(f *frame, rec ldr.Record) error {
	h := ntuples.ParseHeader(rec.Value)
	f.spectrum.DataTable = h.Raw
	if h.Compressed {
		return w.compressed(f, rec)
	}
	return w.pairs(f, rec, types.KindXYData)
}

func (w *walker) peakTable(f *frame, rec ldr.Record) error {
	f.spectrum.DataTable = ntuples.ParseHeader(rec.Value).Raw
	return w.pairs(f, rec, types.KindPeakTable)
}

func (w *walker) peakAssignments(f *frame, rec ldr.Record) error {
	s := f.spectrum
	s.DataTable = ntuples.ParseHeader(rec.Value).Raw
	if w.a.withoutXY {
		return w.finalize(f, rec, types.XY{}, types.KindAssignments)
	}
	xy, diags := peaktable.ParseXYA(rec.Value)
	for _, d := range diags {
		w.diagnose(f, rec, d)
	}
	return w.finalize(f, rec, xy, types.KindAssignments)
}

// dataTable resolves the header against the NTUPLES declarations, then decodes the body as
// ASDF when the header says "++", as k columns for three or more symbols, or as x,y pairs.
func (w *walker) dataTable(f *frame, rec ldr.Record) error {
	e := w.entry(f)
	s := f.spectrum
	h := ntuples.ParseHeader(rec.Value)
	s.DataTable = h.Raw

	if !e.NTuples.Empty() {
		if err := ntuples.Resolve(e.NTuples, h, s); err != nil {
			var le *types.LookupError
			if errors.As(err, &le) {
				le.Label = rec.Canonical
				le.Entry = e.Title
				f.spectrum = nextSpectrum(s)
				return le
			}
			return &types.StructuralError{Label: rec.Canonical, Entry: e.Title, Msg: err.Error()}
		}
	}

	if h.Compressed {
		return w.compressed(f, rec)
	}
	kind := types.KindPeakTable
	if h.Form == "XYDATA" {
		kind = types.KindXYData
	}
	if len(h.Symbols) <= 2 {
		return w.pairs(f, rec, kind)
	}

	if w.a.withoutXY {
		return w.finalize(f, rec, types.XY{}, kind)
	}
	cols, diags := peaktable.ParseXYZ(rec.Value, len(h.Symbols), ntuples.Factors(e.NTuples, h))
	for _, d := range diags {
		w.diagnose(f, rec, d)
	}
	for i, sym := range h.Symbols {
		key := strings.ToLower(sym)
		v, ok := s.Variables[key]
		if !ok {
			v = &types.Variable{Symbol: sym}
			s.SetVariable(key, v)
		}
		v.Data = cols[i]
	}
	return w.finalize(f, rec, types.XY{X: cols[0], Y: cols[1]}, kind)
}

// pairs decodes an uncompressed (XY..XY) body.
func (w *walker) pairs(f *frame, rec ldr.Record, kind types.DataKind) error {
	if w.a.withoutXY {
		return w.finalize(f, rec, types.XY{}, kind)
	}
	xy, diags := peaktable.ParseXY(rec.Value, f.spectrum.XFactor, f.spectrum.YFactor)
	for _, d := range diags {
		w.diagnose(f, rec, d)
	}
	return w.finalize(f, rec, xy, kind)
}

// compressed decodes an ASDF body. FIRSTX and LASTX are required, and DELTAX is derived
// from them and NPOINTS when it was not declared.
func (w *walker) compressed(f *frame, rec ldr.Record) error {
	e := w.entry(f)
	s := f.spectrum
	if !s.Has("firstX") {
		return &types.StructuralError{Label: rec.Canonical, Entry: e.Title, Msg: "FIRSTX required for compressed data"}
	}
	if !s.Has("lastX") {
		return &types.StructuralError{Label: rec.Canonical, Entry: e.Title, Msg: "FIRSTX without LASTX"}
	}
	if !s.Has("deltaX") {
		if !s.Has("nbPoints") {
			return &types.StructuralError{Label: rec.Canonical, Entry: e.Title, Msg: "NPOINTS required when DELTAX is absent"}
		}
		if s.NbPoints > 1 {
			s.DeltaX = (s.LastX - s.FirstX) / float64(s.NbPoints-1)
		}
	}
	if w.a.withoutXY {
		return w.finalize(f, rec, types.XY{}, types.KindXYData)
	}

	body := ""
	if i := strings.IndexAny(rec.Value, "\r\n"); i >= 0 {
		body = rec.Value[i:]
	}
	limit := asdf.MaxPoints
	if s.Has("nbPoints") && s.NbPoints >= 0 && s.NbPoints < asdf.MaxPoints {
		limit = s.NbPoints + 1
	}
	xy, err := asdf.DecodeLimit(s.FirstX, s.DeltaX, s.YFactor, body, limit)
	if err != nil {
		de := &types.DecodeError{Label: rec.Canonical, Entry: e.Title, Offset: -1, Msg: err.Error()}
		var se *asdf.SyntaxError
		var le *asdf.LimitError
		switch {
		case errors.As(err, &se):
			de.Offset = se.Offset
		case errors.As(err, &le):
			de.Offset = le.Offset
		}
		f.spectrum = nextSpectrum(s)
		return de
	}
	return w.finalize(f, rec, xy, types.KindXYData)
}

// finalize checks the decoded points, attaches them to the pending spectrum, appends it to
// the entry and starts the next one.
func (w *walker) finalize(f *frame, rec ldr.Record, xy types.XY, kind types.DataKind) error {
	e := w.entry(f)
	s := f.spectrum
	if xy.Len() < 0 {
		f.spectrum = nextSpectrum(s)
		return &types.DecodeError{Label: rec.Canonical, Entry: e.Title, Offset: -1, Msg: "x and y lengths differ"}
	}
	if !w.a.withoutXY && s.Has("nbPoints") && (kind == types.KindXYData || e.TwoD) {
		if diff := xy.Len() - s.NbPoints; diff > 1 || diff < -1 {
			f.spectrum = nextSpectrum(s)
			return &types.DecodeError{
				Label:  rec.Canonical,
				Entry:  e.Title,
				Offset: -1,
				Msg:    fmt.Sprintf("decoded %d points, NPOINTS declares %d", xy.Len(), s.NbPoints),
			}
		}
	}

	s.Kind = kind
	s.Data = xy
	if len(s.Order) >= 2 {
		s.Variables[s.Order[0]].Data = xy.X
		s.Variables[s.Order[1]].Data = xy.Y
	} else {
		s.SetVariable("x", &types.Variable{Symbol: "X", Label: s.XLabel, Units: s.XUnits, Factor: s.XFactor, Data: xy.X})
		s.SetVariable("y", &types.Variable{Symbol: "Y", Label: s.YLabel, Units: s.YUnits, Factor: s.YFactor, Data: xy.Y})
	}
	e.Spectra = append(e.Spectra, s)
	f.spectrum = nextSpectrum(s)

	w.a.NotifyLoggers(types.DebugLevel, "spectrum finalized",
		logschema.FieldEvent, "finalize",
		logschema.FieldLabel, rec.Canonical,
		logschema.FieldEntry, e.Title,
		logschema.FieldSpectrum, len(e.Spectra)-1,
		logschema.FieldPoints, xy.Len(),
	)
	return nil
}

// nextSpectrum starts a spectrum that inherits the entry wide header of prev: units, labels,
// factors and the NMR acquisition parameters. Page and bound records start over.
func nextSpectrum(prev *types.Spectrum) *types.Spectrum {
	s := types.NewSpectrum()
	s.Title = prev.Title
	s.XUnits = prev.XUnits
	s.YUnits = prev.YUnits
	s.XLabel = prev.XLabel
	s.YLabel = prev.YLabel
	s.XFactor = prev.XFactor
	s.YFactor = prev.YFactor
	s.ObserveFrequency = prev.ObserveFrequency
	if prev.Has("observeFrequency") {
		s.Mark("observeFrequency")
	}
	s.ShiftOffset = prev.ShiftOffset
	s.HasShiftOffset = prev.HasShiftOffset
	s.Nucleus = prev.Nucleus
	return s
}
