package types

import (
	"errors"
	"fmt"
)

var (
	ErrStructural = errors.New("structural error")
	ErrDecode     = errors.New("decode error")
	ErrLookup     = errors.New("lookup error")
)

// StructuralError reports broken TITLE/END nesting or missing mandatory header fields.
type StructuralError struct {
	Label string
	Entry string
	Msg   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("jcamp: ##%s (entry %q): %s", e.Label, e.Entry, e.Msg)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// DecodeError reports an ASDF block that could not be decoded.
type DecodeError struct {
	Label  string
	Entry  string
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("jcamp: ##%s (entry %q): %s at offset %d", e.Label, e.Entry, e.Msg, e.Offset)
	}
	return fmt.Sprintf("jcamp: ##%s (entry %q): %s", e.Label, e.Entry, e.Msg)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// LookupError reports a data table symbol that no NTUPLES variable declares.
type LookupError struct {
	Label  string
	Entry  string
	Symbol string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("jcamp: ##%s (entry %q): symbol undefined: %s", e.Label, e.Entry, e.Symbol)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// Diagnostic is a recovered format problem; parsing continued past it.
type Diagnostic struct {
	Label string `json:"label"`
	Entry string `json:"entry"`
	Line  int    `json:"line"`
	Msg   string `json:"msg"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("##%s (entry %q) line %d: %s", d.Label, d.Entry, d.Line, d.Msg)
}
