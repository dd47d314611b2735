// Package serializer renders entries back into JCAMP-DX text: a simple (XY..XY) peak table for
// two-variable single spectra, an NTUPLES block otherwise, and LINK blocks for nested entries.
package serializer

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/internal/utils"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

// Version is the JCAMP-DX version written in ##JCAMP-DX.
const Version = "5.00"

// Serializer writes entries as JCAMP-DX. It is safe for concurrent use.
type Serializer struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	loggersLock       sync.Mutex
	owner             string
	origin            string
}

// NewSerializer returns a Serializer.
func NewSerializer(options ...types.Option[*Serializer]) *Serializer {
	z := &Serializer{
		componentMetadata: types.ComponentMetadata{
			Type: "SERIALIZER",
			ID:   utils.GenerateUniqueHash(),
		},
	}
	for _, opt := range options {
		opt(z)
	}
	return z
}

// WithLogger registers loggers.
func WithLogger(l ...types.Logger) types.Option[*Serializer] {
	return func(z *Serializer) {
		z.ConnectLogger(l...)
	}
}

// WithOwner sets ##OWNER when the entry does not carry one.
func WithOwner(owner string) types.Option[*Serializer] {
	return func(z *Serializer) {
		z.owner = owner
	}
}

// WithOrigin sets ##ORIGIN when the entry does not carry one.
func WithOrigin(origin string) types.Option[*Serializer] {
	return func(z *Serializer) {
		z.origin = origin
	}
}

// ConnectLogger registers loggers. Nil loggers are ignored.
func (z *Serializer) ConnectLogger(loggers ...types.Logger) {
	z.loggersLock.Lock()
	defer z.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			z.loggers = append(z.loggers, l)
		}
	}
}

// NotifyLoggers sends msg with the component metadata attached.
func (z *Serializer) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	z.loggersLock.Lock()
	loggers := append([]types.Logger(nil), z.loggers...)
	z.loggersLock.Unlock()
	if len(loggers) == 0 {
		return
	}
	kv := append([]interface{}{logschema.FieldComponent, z.componentMetadata}, keysAndValues...)
	types.Notify(loggers, level, msg, kv...)
}

// GetComponentMetadata returns the metadata used in log output.
func (z *Serializer) GetComponentMetadata() types.ComponentMetadata {
	return z.componentMetadata
}

// Document writes every root entry of doc.
func (z *Serializer) Document(w io.Writer, doc *types.Document) error {
	bw := bufio.NewWriter(w)
	for _, idx := range doc.Roots {
		if err := z.entry(bw, doc, doc.Child(idx)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Entry writes e in the simple form when it holds one spectrum of two variables and as an
// NTUPLES block otherwise.
func (z *Serializer) Entry(w io.Writer, e *types.Entry) error {
	bw := bufio.NewWriter(w)
	if err := z.leaf(bw, e); err != nil {
		return err
	}
	return bw.Flush()
}

// Marshal returns the text of e.
func (z *Serializer) Marshal(e *types.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := z.Entry(&buf, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalDocument returns the text of doc.
func (z *Serializer) MarshalDocument(doc *types.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := z.Document(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (z *Serializer) entry(w *bufio.Writer, doc *types.Document, e *types.Entry) error {
	if e == nil {
		return nil
	}
	children := doc.Children(e)
	if len(children) == 0 {
		return z.leaf(w, e)
	}
	lw := &lineWriter{w: w}
	lw.ldr("TITLE", e.Title)
	lw.ldr("JCAMP-DX", Version)
	lw.ldr("DATA TYPE", "LINK")
	lw.ldr("BLOCKS", itoa(len(children)))
	if lw.err != nil {
		return lw.err
	}
	for _, c := range children {
		if err := z.entry(w, doc, c); err != nil {
			return err
		}
	}
	lw.ldr("END", "")
	return lw.err
}

func (z *Serializer) leaf(w *bufio.Writer, e *types.Entry) error {
	var err error
	if isSimple(e) {
		err = z.simple(w, e, e.Spectra[0])
	} else {
		err = z.ntuples(w, e)
	}
	if err != nil {
		z.NotifyLoggers(types.ErrorLevel, "serialize failed",
			logschema.FieldEvent, "serialize",
			logschema.FieldEntry, e.Title,
			logschema.FieldError, err,
		)
		return err
	}
	z.NotifyLoggers(types.DebugLevel, "entry serialized",
		logschema.FieldEvent, "serialize",
		logschema.FieldEntry, e.Title,
		logschema.FieldSpectrum, len(e.Spectra),
	)
	return nil
}

func isSimple(e *types.Entry) bool {
	if len(e.Spectra) != 1 {
		return false
	}
	return len(e.Spectra[0].Order) <= 2
}
