package serializer

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/internal/ldr"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"gonum.org/v1/gonum/floats"
)

// written lists the canonical labels the serializer emits itself; info and meta values under
// these keys are not repeated.
var written = map[string]bool{
	"TITLE": true, "END": true, "JCAMPDX": true, "DATATYPE": true, "DATACLASS": true,
	"XUNITS": true, "YUNITS": true, "XLABEL": true, "YLABEL": true,
	"FIRSTX": true, "LASTX": true, "FIRSTY": true, "LASTY": true, "DELTAX": true,
	"XFACTOR": true, "YFACTOR": true, "NPOINTS": true,
	"MINX": true, "MAXX": true, "MINY": true, "MAXY": true,
	"BLOCKS": true, "NTUPLES": true, "ENDNTUPLES": true, "PAGE": true,
	"XYDATA": true, "PEAKTABLE": true, "PEAKASSIGNMENTS": true, "DATATABLE": true,
	"VARNAME": true, "SYMBOL": true, "VARTYPE": true, "VARFORM": true, "VARDIM": true,
	"UNITS": true, "FACTOR": true, "FIRST": true, "LAST": true, "MIN": true, "MAX": true,
}

// lineWriter keeps the first write error so callers check once.
type lineWriter struct {
	w   *bufio.Writer
	err error
}

func (l *lineWriter) line(s string) {
	if l.err != nil {
		return
	}
	if _, err := l.w.WriteString(s); err != nil {
		l.err = err
		return
	}
	l.err = l.w.WriteByte('\n')
}

func (l *lineWriter) ldr(label, value string) {
	l.line("##" + label + "=" + value)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return ftoa(t)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(t)
	}
}

// header writes the records every form starts with, then the captured info and meta.
func (z *Serializer) header(lw *lineWriter, e *types.Entry, dataClass string) {
	lw.ldr("TITLE", e.Title)
	lw.ldr("JCAMP-DX", Version)
	lw.ldr("DATA TYPE", e.DataType)
	if dataClass != "" {
		lw.ldr("DATA CLASS", dataClass)
	}
	if z.origin != "" && len(e.Info.All("ORIGIN")) == 0 {
		lw.ldr("ORIGIN", z.origin)
	}
	if z.owner != "" && len(e.Info.All("OWNER")) == 0 {
		lw.ldr("OWNER", z.owner)
	}
	for _, key := range e.Info.Keys() {
		if written[ldr.Canonicalize(key)] {
			continue
		}
		for _, v := range e.Info.All(key) {
			lw.ldr(key, formatValue(v))
		}
	}
	for _, key := range e.Meta.Keys() {
		for _, v := range e.Meta.All(key) {
			lw.ldr("$"+key, formatValue(v))
		}
	}
}

func (z *Serializer) simple(w *bufio.Writer, e *types.Entry, s *types.Spectrum) error {
	n := s.Data.Len()
	if n < 0 {
		return fmt.Errorf("serializer: entry %q: x and y lengths differ", e.Title)
	}
	lw := &lineWriter{w: w}
	z.header(lw, e, "PEAK TABLE")
	lw.ldr("XUNITS", s.XUnits)
	lw.ldr("YUNITS", s.YUnits)
	if n > 0 {
		lw.ldr("FIRSTX", ftoa(s.Data.X[0]))
		lw.ldr("LASTX", ftoa(s.Data.X[n-1]))
		lw.ldr("FIRSTY", ftoa(s.Data.Y[0]))
		lw.ldr("LASTY", ftoa(s.Data.Y[n-1]))
	}
	lw.ldr("XFACTOR", "1")
	lw.ldr("YFACTOR", "1")
	lw.ldr("NPOINTS", itoa(n))
	lw.ldr("PEAK TABLE", "(XY..XY)")
	for i := 0; i < n; i++ {
		lw.line(ftoa(s.Data.X[i]) + " " + ftoa(s.Data.Y[i]))
	}
	lw.ldr("END", "")
	return lw.err
}

// column is one declared NTUPLES variable.
type column struct {
	key    string
	symbol string
	name   string
	units  string
	kind   string
}

// columns derives the variables of an NTUPLES block from the first spectrum. Symbols that
// are not single letters are replaced so the data table header stays parseable.
func columns(s *types.Spectrum) []column {
	keys := s.Order
	if len(keys) == 0 {
		keys = []string{"x", "y"}
	}
	used := make(map[string]bool)
	out := make([]column, 0, len(keys))
	for i, key := range keys {
		c := column{key: key, kind: "DEPENDENT"}
		if i == 0 {
			c.kind = "INDEPENDENT"
		}
		if v, ok := s.Variables[key]; ok {
			c.symbol = strings.ToUpper(v.Symbol)
			c.name = v.Label
			c.units = v.Units
		}
		switch i {
		case 0:
			c.name = firstNonEmpty(c.name, s.XLabel)
			c.units = firstNonEmpty(c.units, s.XUnits)
		case 1:
			c.name = firstNonEmpty(c.name, s.YLabel)
			c.units = firstNonEmpty(c.units, s.YUnits)
		}
		if len(c.symbol) != 1 || c.symbol[0] < 'A' || c.symbol[0] > 'Z' || used[c.symbol] {
			c.symbol = freeSymbol(used, "XYZWVUTSRQ")
		}
		used[c.symbol] = true
		c.name = firstNonEmpty(c.name, c.symbol)
		out = append(out, c)
	}
	return out
}

func freeSymbol(used map[string]bool, candidates string) string {
	for _, r := range candidates + "ABCDEFGHIJKLMNOP" {
		if !used[string(r)] {
			return string(r)
		}
	}
	return "A"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func sanitize(v string) string {
	return strings.ReplaceAll(v, ",", " ")
}

// pageData returns the columns of s in the declared order.
func pageData(s *types.Spectrum, cols []column) ([][]float64, error) {
	out := make([][]float64, len(cols))
	for i, c := range cols {
		switch {
		case len(s.Order) == 0 && i == 0:
			out[i] = s.Data.X
		case len(s.Order) == 0 && i == 1:
			out[i] = s.Data.Y
		default:
			v, ok := s.Variables[c.key]
			if !ok {
				return nil, fmt.Errorf("variable %q missing", c.key)
			}
			out[i] = v.Data
		}
		if len(out[i]) != len(out[0]) {
			return nil, fmt.Errorf("variable %q has %d values, expected %d", c.key, len(out[i]), len(out[0]))
		}
	}
	return out, nil
}

func (z *Serializer) ntuples(w *bufio.Writer, e *types.Entry) error {
	lw := &lineWriter{w: w}
	if len(e.Spectra) == 0 {
		z.header(lw, e, "")
		lw.ldr("END", "")
		return lw.err
	}

	cols := columns(e.Spectra[0])
	pages := make([][][]float64, len(e.Spectra))
	for i, s := range e.Spectra {
		data, err := pageData(s, cols)
		if err != nil {
			return fmt.Errorf("serializer: entry %q page %d: %w", e.Title, i, err)
		}
		pages[i] = data
	}

	used := make(map[string]bool, len(cols))
	for _, c := range cols {
		used[c.symbol] = true
	}
	pageSymbol := strings.ToUpper(e.Spectra[0].PageSymbol)
	if len(pageSymbol) == 0 || used[pageSymbol] {
		pageSymbol = freeSymbol(used, "PTN")
	}

	name := firstNonEmpty(e.NTuples.Name, e.DataType, e.Title)
	z.header(lw, e, "NTUPLES")
	lw.ldr("NTUPLES", name)

	var names, symbols, kinds, forms, dims, units, factors, firsts, lasts, mins, maxs []string
	for i, c := range cols {
		names = append(names, sanitize(c.name))
		symbols = append(symbols, c.symbol)
		kinds = append(kinds, c.kind)
		forms = append(forms, "AFFN")
		dims = append(dims, itoa(len(pages[0][i])))
		units = append(units, sanitize(c.units))
		factors = append(factors, "1")
		first, last, lo, hi := extent(pages, i)
		firsts = append(firsts, first)
		lasts = append(lasts, last)
		mins = append(mins, lo)
		maxs = append(maxs, hi)
	}
	names = append(names, "PAGE")
	symbols = append(symbols, pageSymbol)
	kinds = append(kinds, "INDEPENDENT")
	forms = append(forms, "AFFN")
	dims = append(dims, itoa(len(pages)))
	units = append(units, "")
	factors = append(factors, "1")
	firsts = append(firsts, ftoa(e.Spectra[0].PageValue))
	lasts = append(lasts, ftoa(e.Spectra[len(e.Spectra)-1].PageValue))
	mins = append(mins, "")
	maxs = append(maxs, "")

	lw.ldr("VAR_NAME", strings.Join(names, ", "))
	lw.ldr("SYMBOL", strings.Join(symbols, ", "))
	lw.ldr("VAR_TYPE", strings.Join(kinds, ", "))
	lw.ldr("VAR_FORM", strings.Join(forms, ", "))
	lw.ldr("VAR_DIM", strings.Join(dims, ", "))
	lw.ldr("UNITS", strings.Join(units, ", "))
	lw.ldr("FACTOR", strings.Join(factors, ", "))
	lw.ldr("FIRST", strings.Join(firsts, ", "))
	lw.ldr("LAST", strings.Join(lasts, ", "))
	lw.ldr("MIN", strings.Join(mins, ", "))
	lw.ldr("MAX", strings.Join(maxs, ", "))

	tuple := strings.Join(symbols[:len(cols)], "")
	for i, s := range e.Spectra {
		page := ftoa(s.PageValue)
		if !s.HasPage && s.Page == "" {
			page = itoa(i + 1)
		}
		lw.ldr("PAGE", pageSymbol+"="+page)
		lw.ldr("NPOINTS", itoa(len(pages[i][0])))
		lw.ldr("DATA TABLE", "("+tuple+".."+tuple+"), PEAKS")
		for p := range pages[i][0] {
			row := make([]string, len(cols))
			for c := range cols {
				row[c] = ftoa(pages[i][c][p])
			}
			lw.line(strings.Join(row, " "))
		}
	}
	lw.ldr("END NTUPLES", name)
	lw.ldr("END", "")
	return lw.err
}

// extent returns first, last, min and max of column c across all pages.
func extent(pages [][][]float64, c int) (string, string, string, string) {
	lo, hi := math.Inf(1), math.Inf(-1)
	first, last := "", ""
	for _, p := range pages {
		col := p[c]
		if len(col) == 0 {
			continue
		}
		if first == "" {
			first = ftoa(col[0])
		}
		last = ftoa(col[len(col)-1])
		lo = math.Min(lo, floats.Min(col))
		hi = math.Max(hi, floats.Max(col))
	}
	if first == "" {
		return "", "", "", ""
	}
	return first, last, ftoa(lo), ftoa(hi)
}
