package assembler

import (
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/joeydtaylor/jcamp/pkg/internal/ldr"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes one JCAMP-DX document.
//
// Format problems that can be skipped are returned as diagnostics in the Result. A
// StructuralError, DecodeError or LookupError aborts the walk; the Result then holds the
// entries and spectra assembled before the failing record, without post-processing.
func (a *Assembler) Parse(text string) (*types.Result, error) {
	return a.ParseContext(context.Background(), text)
}

// ParseBytes decodes raw file content. A UTF-8 byte order mark is dropped; input that is
// not valid UTF-8, or any input when WithLatin1 is set, is read as ISO-8859-1.
func (a *Assembler) ParseBytes(b []byte) (*types.Result, error) {
	return a.ParseBytesContext(context.Background(), b)
}

// ParseBytesContext is ParseBytes with cancellation between top-level entries.
func (a *Assembler) ParseBytesContext(ctx context.Context, b []byte) (*types.Result, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if a.latin1 || !utf8.Valid(b) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return nil, err
		}
		a.NotifyLoggers(types.DebugLevel, "input read as ISO-8859-1", logschema.FieldEvent, "transcode")
		b = decoded
	}
	return a.ParseContext(ctx, string(b))
}

// ParseContext is Parse with cancellation: ctx is checked before every top-level TITLE.
func (a *Assembler) ParseContext(ctx context.Context, text string) (*types.Result, error) {
	w := newWalker(a)
	for rec := range ldr.NewSplitter(text).All() {
		if len(w.stack) == 0 && rec.Canonical == "TITLE" {
			if err := ctx.Err(); err != nil {
				return w.result(), err
			}
		}
		if err := w.record(rec); err != nil {
			a.NotifyLoggers(types.ErrorLevel, "parse aborted",
				logschema.FieldEvent, "parse",
				logschema.FieldLabel, rec.Canonical,
				logschema.FieldLine, rec.Line,
				logschema.FieldError, err,
			)
			return w.result(), err
		}
	}
	if f := w.current(); f != nil {
		err := &types.StructuralError{Label: "END", Entry: w.entry(f).Title, Msg: "entry not closed before end of input"}
		a.NotifyLoggers(types.ErrorLevel, "parse aborted", logschema.FieldEvent, "parse", logschema.FieldError, err)
		return w.result(), err
	}

	w.finish()
	res := w.result()
	a.NotifyLoggers(types.InfoLevel, "parse complete",
		logschema.FieldEvent, "parse",
		"entries", len(res.Document.Entries),
		"diagnostics", len(res.Diagnostics),
	)
	return res, nil
}
