// Package assembler walks the records of a JCAMP-DX document and builds the entry tree:
// TITLE opens an entry, END closes it, header records fill the pending spectrum and data
// blocks finalize it.
package assembler

import (
	"regexp"
	"sync"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/internal/utils"
)

// Assembler holds parse settings and loggers. It keeps no per-document state, so one
// Assembler can parse several documents concurrently.
type Assembler struct {
	componentMetadata types.ComponentMetadata
	loggers           []types.Logger
	loggersLock       sync.Mutex

	dynamicTyping bool
	canonicLabels bool
	withoutXY     bool
	chromatogram  bool
	nmr           bool
	latin1        bool
	keepRecords   *regexp.Regexp
}

// NewAssembler returns an Assembler with dynamic typing, canonical labels and NMR
// post-processing on.
func NewAssembler(options ...types.Option[*Assembler]) *Assembler {
	a := &Assembler{
		componentMetadata: types.ComponentMetadata{
			Type: "ASSEMBLER",
			ID:   utils.GenerateUniqueHash(),
		},
		loggers:       make([]types.Logger, 0),
		dynamicTyping: true,
		canonicLabels: true,
		nmr:           true,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// GetComponentMetadata returns the metadata used in log output.
func (a *Assembler) GetComponentMetadata() types.ComponentMetadata {
	return a.componentMetadata
}

// SetComponentMetadata renames the component.
func (a *Assembler) SetComponentMetadata(name string, id string) {
	a.componentMetadata.Name = name
	a.componentMetadata.ID = id
}
