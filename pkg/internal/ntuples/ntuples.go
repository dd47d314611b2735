// Package ntuples resolves the variables a data table header names against the attribute
// tables declared by an NTUPLES block.
package ntuples

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// Attribute keys as stored in types.NTuples.
const (
	AttrVarName = "varname"
	AttrSymbol  = "symbol"
	AttrVarType = "vartype"
	AttrVarForm = "varform"
	AttrVarDim  = "vardim"
	AttrUnits   = "units"
	AttrFactor  = "factor"
	AttrFirst   = "first"
	AttrLast    = "last"
	AttrMin     = "min"
	AttrMax     = "max"
)

// Attributes lists every per-variable record an NTUPLES block may declare, keyed by canonical
// label.
var Attributes = map[string]string{
	"VARNAME": AttrVarName,
	"SYMBOL":  AttrSymbol,
	"VARTYPE": AttrVarType,
	"VARFORM": AttrVarForm,
	"VARDIM":  AttrVarDim,
	"UNITS":   AttrUnits,
	"FACTOR":  AttrFactor,
	"FIRST":   AttrFirst,
	"LAST":    AttrLast,
	"MIN":     AttrMin,
	"MAX":     AttrMax,
}

var (
	compressedHeader = regexp.MustCompile(`\(\s*([A-Za-z0-9]+)\s*\+\+\s*\(\s*([A-Za-z0-9]+)\s*\.\.\s*[A-Za-z0-9]+\s*\)\s*\)`)
	tupleHeader      = regexp.MustCompile(`\(\s*([A-Za-z]+)\s*\.\.\s*[A-Za-z]+\s*\)`)
	attributeSplit   = regexp.MustCompile(`[ \t]*,[ \t]*`)
)

// Header is the parsed inline annotation of a data block, e.g. "(X++(R..R)), XYDATA".
type Header struct {
	Raw        string
	Symbols    []string
	Compressed bool
	// Form is the trailing keyword after the annotation: XYDATA, PEAKS, ... (upper case).
	Form string
}

// SplitAttribute splits the value of one NTUPLES attribute record into per-variable values.
func SplitAttribute(value string) []string {
	return attributeSplit.Split(strings.TrimSpace(value), -1)
}

// ParseHeader reads the first line of a data block value.
func ParseHeader(value string) Header {
	first := value
	if i := strings.IndexAny(value, "\r\n"); i >= 0 {
		first = value[:i]
	}
	h := Header{Raw: strings.TrimSpace(first)}

	if m := compressedHeader.FindStringSubmatchIndex(first); m != nil {
		h.Compressed = true
		h.Symbols = []string{first[m[2]:m[3]], first[m[4]:m[5]]}
		h.Form = form(first[m[1]:])
		return h
	}
	if m := tupleHeader.FindStringSubmatchIndex(first); m != nil {
		for _, r := range first[m[2]:m[3]] {
			h.Symbols = append(h.Symbols, string(r))
		}
		h.Form = form(first[m[1]:])
		return h
	}
	h.Compressed = strings.Contains(first, "++")
	return h
}

func form(rest string) string {
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ","))
	return strings.ToUpper(rest)
}

// Resolve locates every header symbol in nt and copies the declared attributes onto s. The
// first symbol is the independent (x) variable, the second the dependent (y) one. A symbol
// that nt does not declare yields a *types.LookupError.
func Resolve(nt *types.NTuples, h Header, s *types.Spectrum) error {
	if len(h.Symbols) < 2 {
		return fmt.Errorf("data table header %q names fewer than two variables", h.Raw)
	}
	indices := make([]int, len(h.Symbols))
	for i, sym := range h.Symbols {
		idx := nt.Index(sym)
		if idx < 0 {
			return &types.LookupError{Symbol: sym}
		}
		indices[i] = idx
	}

	for i, sym := range h.Symbols {
		idx := indices[i]
		v := &types.Variable{Symbol: sym, Factor: 1}
		v.Label, _ = nt.Value(AttrVarName, idx)
		v.Units, _ = nt.Value(AttrUnits, idx)
		v.Type, _ = nt.Value(AttrVarType, idx)
		v.Form, _ = nt.Value(AttrVarForm, idx)
		if f, ok := nt.Float(AttrFactor, idx); ok {
			v.Factor = f
		}
		if f, ok := nt.Float(AttrVarDim, idx); ok {
			v.Dim = int(f)
		}
		v.First, _ = nt.Float(AttrFirst, idx)
		v.Last, _ = nt.Float(AttrLast, idx)
		v.Min, _ = nt.Float(AttrMin, idx)
		v.Max, _ = nt.Float(AttrMax, idx)
		s.SetVariable(strings.ToLower(sym), v)
	}

	xi, yi := indices[0], indices[1]
	if v, ok := nt.Value(AttrUnits, xi); ok {
		s.XUnits = v
	}
	if v, ok := nt.Value(AttrUnits, yi); ok {
		s.YUnits = v
	}
	if v, ok := nt.Value(AttrVarName, xi); ok {
		s.XLabel = v
	}
	if v, ok := nt.Value(AttrVarName, yi); ok {
		s.YLabel = v
	}
	if f, ok := nt.Float(AttrFactor, xi); ok {
		s.XFactor = f
	}
	if f, ok := nt.Float(AttrFactor, yi); ok {
		s.YFactor = f
	}
	// page level FIRSTX/LASTX/NPOINTS win over the block defaults
	if f, ok := nt.Float(AttrFirst, xi); ok && !s.Has("firstX") {
		s.FirstX = f
		s.Mark("firstX")
	}
	if f, ok := nt.Float(AttrLast, xi); ok && !s.Has("lastX") {
		s.LastX = f
		s.Mark("lastX")
	}
	if f, ok := nt.Float(AttrFirst, yi); ok && !s.Has("firstY") {
		s.FirstY = f
		s.Mark("firstY")
	}
	if f, ok := nt.Float(AttrLast, yi); ok && !s.Has("lastY") {
		s.LastY = f
		s.Mark("lastY")
	}
	if f, ok := nt.Float(AttrVarDim, xi); ok && !s.Has("nbPoints") {
		s.NbPoints = int(f)
		s.Mark("nbPoints")
	}
	return nil
}

// Factors returns the FACTOR of every header symbol in order, 1 where undeclared.
func Factors(nt *types.NTuples, h Header) []float64 {
	out := make([]float64, len(h.Symbols))
	for i, sym := range h.Symbols {
		out[i] = 1
		if f, ok := nt.Float(AttrFactor, nt.Index(sym)); ok && f != 0 {
			out[i] = f
		}
	}
	return out
}
