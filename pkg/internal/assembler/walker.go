package assembler

import (
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/ldr"
	"github.com/joeydtaylor/jcamp/pkg/internal/ntuples"
	"github.com/joeydtaylor/jcamp/pkg/internal/postprocess"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

// frame is one open TITLE block: the arena index of its entry and the spectrum its header
// records are filling.
type frame struct {
	entry    int
	spectrum *types.Spectrum
}

// walker is the per-document state of a parse.
type walker struct {
	a     *Assembler
	doc   *types.Document
	stack []frame
	diags []types.Diagnostic
}

func newWalker(a *Assembler) *walker {
	return &walker{a: a, doc: &types.Document{}}
}

func (w *walker) current() *frame {
	if len(w.stack) == 0 {
		return nil
	}
	return &w.stack[len(w.stack)-1]
}

func (w *walker) entry(f *frame) *types.Entry {
	return w.doc.Entries[f.entry]
}

func (w *walker) result() *types.Result {
	return &types.Result{Document: w.doc, Diagnostics: w.diags}
}

// record routes one LDR.
func (w *walker) record(rec ldr.Record) error {
	switch rec.Canonical {
	case "":
		// "##=" comment line
		return nil
	case "TITLE":
		w.open(rec)
		return nil
	case "END":
		return w.close(rec)
	}

	f := w.current()
	if f == nil {
		return &types.StructuralError{Label: rec.Canonical, Msg: "record outside of a TITLE block"}
	}
	if block, ok := dataBlocks[rec.Canonical]; ok {
		return block(w, f, rec)
	}

	value := stripComment(rec.Value)
	if attr, ok := ntuples.Attributes[rec.Canonical]; ok {
		w.entry(f).NTuples.Set(attr, ntuples.SplitAttribute(value))
		return nil
	}
	if handle, ok := headerLabels[rec.Canonical]; ok {
		handle(w, f, rec, value)
	}
	w.capture(f, rec, value)
	return nil
}

func (w *walker) open(rec ldr.Record) {
	idx := len(w.doc.Entries)
	e := types.NewEntry(stripComment(rec.Value))
	w.doc.Entries = append(w.doc.Entries, e)
	if parent := w.current(); parent != nil {
		pe := w.entry(parent)
		pe.Children = append(pe.Children, idx)
	} else {
		w.doc.Roots = append(w.doc.Roots, idx)
	}
	s := types.NewSpectrum()
	s.Title = e.Title
	w.stack = append(w.stack, frame{entry: idx, spectrum: s})
	w.a.NotifyLoggers(types.DebugLevel, "entry opened",
		logschema.FieldEvent, "open",
		logschema.FieldEntry, e.Title,
		logschema.FieldLine, rec.Line,
	)
}

func (w *walker) close(rec ldr.Record) error {
	f := w.current()
	if f == nil {
		return &types.StructuralError{Label: rec.Canonical, Msg: "END without a matching TITLE"}
	}
	e := w.entry(f)
	w.stack = w.stack[:len(w.stack)-1]
	w.a.NotifyLoggers(types.DebugLevel, "entry closed",
		logschema.FieldEvent, "close",
		logschema.FieldEntry, e.Title,
		logschema.FieldSpectrum, len(e.Spectra),
	)
	return nil
}

// notCaptured lists labels that never reach info or meta: structure, data blocks and
// per-spectrum page records.
var notCaptured = map[string]bool{
	"TITLE":           true,
	"END":             true,
	"ENDNTUPLES":      true,
	"XYDATA":          true,
	"PEAKTABLE":       true,
	"PEAKASSIGNMENTS": true,
	"DATATABLE":       true,
	"PAGE":            true,
	"RETENTIONTIME":   true,
	"TIC":             true,
	".RIC":            true,
	"SCANNUMBER":      true,
}

// capture stores a record in info (public) or meta ($-prefixed). A repeated key keeps every
// value in order.
func (w *walker) capture(f *frame, rec ldr.Record, value string) {
	if notCaptured[rec.Canonical] {
		return
	}
	if w.a.keepRecords != nil && !w.a.keepRecords.MatchString(rec.Canonical) {
		return
	}
	key := strings.TrimPrefix(rec.Label, "$")
	if w.a.canonicLabels {
		key = rec.Key()
	}
	var v interface{} = strings.TrimSpace(value)
	if w.a.dynamicTyping {
		v = types.TypedValue(value)
	}
	e := w.entry(f)
	if rec.Private {
		e.Meta.Add(key, v)
	} else {
		e.Info.Add(key, v)
	}
}

// diagnose records a recovered format problem. d.Line is relative to the record start.
func (w *walker) diagnose(f *frame, rec ldr.Record, d types.Diagnostic) {
	d.Label = rec.Canonical
	d.Entry = w.entry(f).Title
	d.Line += rec.Line
	w.diags = append(w.diags, d)
	w.a.NotifyLoggers(types.WarnLevel, "format error",
		logschema.FieldEvent, "diagnostic",
		logschema.FieldLabel, d.Label,
		logschema.FieldEntry, d.Entry,
		logschema.FieldLine, d.Line,
		logschema.FieldError, d.Msg,
	)
}

// finish runs the post-processing every entry is due once the walk succeeded.
func (w *walker) finish() {
	for _, e := range w.doc.Entries {
		if w.a.nmr {
			postprocess.NMR(e)
		}
		if e.TwoD && len(e.Spectra) > 1 {
			m, err := postprocess.Matrix2D(e)
			if err != nil {
				w.a.NotifyLoggers(types.DebugLevel, "no 2D matrix",
					logschema.FieldEntry, e.Title,
					logschema.FieldError, err,
				)
			} else {
				e.Matrix = m
			}
		}
		if w.a.chromatogram && len(e.Spectra) > 0 {
			e.Chromatogram = postprocess.Chromatogram(e)
		}
	}
}

func stripComment(v string) string {
	if i := strings.Index(v, "$$"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
