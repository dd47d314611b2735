package assembler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/ldr"
	"github.com/joeydtaylor/jcamp/pkg/internal/postprocess"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

type headerHandler func(w *walker, f *frame, rec ldr.Record, value string)

// multiDimensional matches "nD NMR SPECTRUM" style data types.
var multiDimensional = regexp.MustCompile(`(?i)(^nd|\snd\s)`)

// numericFields maps numeric spectrum header labels to the field they set. The name is the
// one passed to Spectrum.Mark.
var numericFields = map[string]struct {
	name  string
	field func(*types.Spectrum) *float64
}{
	"FIRSTX":  {"firstX", func(s *types.Spectrum) *float64 { return &s.FirstX }},
	"LASTX":   {"lastX", func(s *types.Spectrum) *float64 { return &s.LastX }},
	"FIRSTY":  {"firstY", func(s *types.Spectrum) *float64 { return &s.FirstY }},
	"LASTY":   {"lastY", func(s *types.Spectrum) *float64 { return &s.LastY }},
	"XFACTOR": {"xFactor", func(s *types.Spectrum) *float64 { return &s.XFactor }},
	"YFACTOR": {"yFactor", func(s *types.Spectrum) *float64 { return &s.YFactor }},
	"DELTAX":  {"deltaX", func(s *types.Spectrum) *float64 { return &s.DeltaX }},
	"MINX":    {"minX", func(s *types.Spectrum) *float64 { return &s.MinX }},
	"MAXX":    {"maxX", func(s *types.Spectrum) *float64 { return &s.MaxX }},
	"MINY":    {"minY", func(s *types.Spectrum) *float64 { return &s.MinY }},
	"MAXY":    {"maxY", func(s *types.Spectrum) *float64 { return &s.MaxY }},
}

var headerLabels = map[string]headerHandler{
	"JCAMPDX": func(w *walker, f *frame, _ ldr.Record, v string) {
		w.entry(f).JCAMPDX = v
	},
	"DATATYPE": func(w *walker, f *frame, _ ldr.Record, v string) {
		e := w.entry(f)
		e.DataType = v
		if multiDimensional.MatchString(v) {
			e.TwoD = true
		}
	},
	"DATACLASS": func(w *walker, f *frame, _ ldr.Record, v string) {
		w.entry(f).DataClass = v
	},
	"NTUPLES": func(w *walker, f *frame, _ ldr.Record, v string) {
		e := w.entry(f)
		e.NTuples.Name = v
		if multiDimensional.MatchString(v) {
			e.TwoD = true
		}
	},
	"XUNITS": func(_ *walker, f *frame, _ ldr.Record, v string) {
		f.spectrum.XUnits = v
	},
	"YUNITS": func(_ *walker, f *frame, _ ldr.Record, v string) {
		f.spectrum.YUnits = v
	},
	"XLABEL": func(_ *walker, f *frame, _ ldr.Record, v string) {
		f.spectrum.XLabel = v
	},
	"YLABEL": func(_ *walker, f *frame, _ ldr.Record, v string) {
		f.spectrum.YLabel = v
	},
	"NPOINTS": func(w *walker, f *frame, rec ldr.Record, v string) {
		if n, ok := w.number(f, rec, v); ok {
			f.spectrum.NbPoints = int(n)
			f.spectrum.Mark("nbPoints")
		}
	},
	".OBSERVEFREQUENCY": observeFrequency,
	"$SFO1":             observeFrequency,
	"$OFFSET": func(w *walker, f *frame, rec ldr.Record, v string) {
		if n, ok := w.number(f, rec, v); ok {
			f.spectrum.ShiftOffset = n
			f.spectrum.HasShiftOffset = true
		}
	},
	".OBSERVENUCLEUS": func(w *walker, f *frame, _ ldr.Record, v string) {
		n := postprocess.NormalizeNucleus(v)
		if f.spectrum.Nucleus == "" {
			f.spectrum.Nucleus = n
		}
		if e := w.entry(f); len(e.Nuclei) == 0 && n != "" {
			e.Nuclei = []string{n}
		}
	},
	".NUCLEUS": func(w *walker, f *frame, _ ldr.Record, v string) {
		var nuclei []string
		for _, n := range strings.Split(v, ",") {
			if n = postprocess.NormalizeNucleus(n); n != "" {
				nuclei = append(nuclei, n)
			}
		}
		if len(nuclei) > 0 {
			w.entry(f).Nuclei = nuclei
		}
	},
	"PAGE": func(w *walker, f *frame, rec ldr.Record, v string) {
		s := f.spectrum
		s.Page = v
		s.HasPage = true
		num := v
		if i := strings.IndexByte(v, '='); i >= 0 {
			s.PageSymbol = strings.TrimSpace(v[:i])
			num = v[i+1:]
		}
		if n, ok := w.number(f, rec, num); ok {
			s.PageValue = n
		}
	},
	"RETENTIONTIME": func(w *walker, f *frame, rec ldr.Record, v string) {
		if n, ok := w.number(f, rec, v); ok {
			f.spectrum.PageValue = n
			f.spectrum.HasPage = true
		}
	},
	"TIC":        msField,
	".RIC":       msField,
	"SCANNUMBER": msField,
	"SAMPLEDESCRIPTION": func(_ *walker, f *frame, _ ldr.Record, v string) {
		f.spectrum.Description = v
	},
}

func init() {
	for label, nf := range numericFields {
		nf := nf
		headerLabels[label] = func(w *walker, f *frame, rec ldr.Record, v string) {
			if n, ok := w.number(f, rec, v); ok {
				*nf.field(f.spectrum) = n
				f.spectrum.Mark(nf.name)
			}
		}
	}
}

// observeFrequency keeps the first declaration; .OBSERVE FREQUENCY and $SFO1 usually agree.
func observeFrequency(w *walker, f *frame, rec ldr.Record, v string) {
	if f.spectrum.Has("observeFrequency") {
		return
	}
	if n, ok := w.number(f, rec, v); ok {
		f.spectrum.ObserveFrequency = n
		f.spectrum.Mark("observeFrequency")
	}
}

// msField stores a per-scan GC/MS value under its lowercase alphanumeric name.
func msField(_ *walker, f *frame, rec ldr.Record, v string) {
	name := strings.ToLower(strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, rec.Canonical))
	if f.spectrum.Fields == nil {
		f.spectrum.Fields = make(map[string]string)
	}
	f.spectrum.Fields[name] = v
}

// number parses the first token of v. Failures are reported as diagnostics.
func (w *walker) number(f *frame, rec ldr.Record, v string) (float64, bool) {
	tok := strings.TrimSpace(v)
	if i := strings.IndexAny(tok, " \t"); i >= 0 {
		tok = tok[:i]
	}
	n, err := types.ParseNumber(tok)
	if err != nil {
		w.diagnose(f, rec, types.Diagnostic{Msg: fmt.Sprintf("invalid number %q", v)})
		return 0, false
	}
	return n, true
}
