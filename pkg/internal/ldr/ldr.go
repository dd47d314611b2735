// Package ldr splits JCAMP-DX text into labeled data records (LDRs).
//
// A record starts with "##" at the beginning of a line and runs until the next such marker.
// The first '=' separates the label from the value; a record without '=' has an empty value.
package ldr

import (
	"iter"
	"strings"
)

// Record is one "##LABEL=value" unit.
type Record struct {
	Label     string // label as written, trimmed
	Canonical string // label with '_', ' ' and '-' removed, upper-cased; a leading '$' is kept
	Private   bool   // label starts with '$'
	Value     string // value with surrounding whitespace trimmed
	Line      int    // 1-based line of the "##" marker
}

// Key returns the canonical label without the private '$' marker.
func (r Record) Key() string {
	return strings.TrimPrefix(r.Canonical, "$")
}

// Canonicalize strips '_', ' ' and '-' and upper-cases the label.
func Canonicalize(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.TrimSpace(label) {
		switch r {
		case '_', ' ', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// Splitter yields records one at a time. It is finite and cannot be restarted.
type Splitter struct {
	src  string
	pos  int
	line int
}

// NewSplitter positions a Splitter on the first record of text. Anything before the first
// line-leading "##" is ignored.
func NewSplitter(text string) *Splitter {
	s := &Splitter{src: text, line: 1}
	start := 0
	if !strings.HasPrefix(text, "##") {
		start = nextMarker(text, 0)
	}
	if start < 0 {
		s.pos = len(text)
		return s
	}
	s.line += strings.Count(text[:start], "\n")
	s.pos = start
	return s
}

// Next returns the next record; ok is false once the text is exhausted.
func (s *Splitter) Next() (Record, bool) {
	for s.pos < len(s.src) {
		start := s.pos + 2
		end := nextMarker(s.src, start)
		if end < 0 {
			end = len(s.src)
		}
		raw := s.src[start:end]
		line := s.line
		s.line += strings.Count(s.src[s.pos:end], "\n")
		s.pos = end

		rec, ok := parse(raw, line)
		if ok {
			return rec, true
		}
	}
	return Record{}, false
}

// All drains the splitter as an iterator.
func (s *Splitter) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for {
			rec, ok := s.Next()
			if !ok || !yield(rec) {
				return
			}
		}
	}
}

// Split is a convenience returning every record of text.
func Split(text string) []Record {
	var out []Record
	for rec := range NewSplitter(text).All() {
		out = append(out, rec)
	}
	return out
}

func parse(raw string, line int) (Record, bool) {
	label, value := raw, ""
	if i := strings.IndexByte(raw, '='); i >= 0 {
		label, value = raw[:i], raw[i+1:]
	}
	label = strings.TrimSpace(label)
	if label == "" && strings.TrimSpace(value) == "" {
		return Record{}, false
	}
	canonical := Canonicalize(label)
	return Record{
		Label:     label,
		Canonical: canonical,
		Private:   strings.HasPrefix(canonical, "$"),
		Value:     strings.TrimSpace(value),
		Line:      line,
	}, true
}

// nextMarker returns the offset of the next "##" that begins a line at or after from, or -1.
func nextMarker(src string, from int) int {
	for from < len(src) {
		i := strings.Index(src[from:], "##")
		if i < 0 {
			return -1
		}
		at := from + i
		if at > 0 && (src[at-1] == '\n' || src[at-1] == '\r') {
			return at
		}
		from = at + 2
	}
	return -1
}
