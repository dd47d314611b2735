package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Metadata is an insertion-ordered label map. Setting a key that already exists appends to it,
// so a label repeated in the source becomes an ordered sequence of values instead of being
// overwritten.
type Metadata struct {
	keys   []string
	values map[string][]interface{}
}

// NewMetadata returns an empty Metadata.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string][]interface{})}
}

// Add appends value under key.
func (m *Metadata) Add(key string, value interface{}) {
	if m.values == nil {
		m.values = make(map[string][]interface{})
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Get returns the value stored under key: the scalar when it was set once, the ordered slice
// when it was repeated.
func (m *Metadata) Get(key string) (interface{}, bool) {
	vs, ok := m.values[key]
	if !ok || len(vs) == 0 {
		return nil, false
	}
	if len(vs) == 1 {
		return vs[0], true
	}
	out := make([]interface{}, len(vs))
	copy(out, vs)
	return out, true
}

// All returns every value stored under key in insertion order.
func (m *Metadata) All(key string) []interface{} {
	return m.values[key]
}

// String returns the first value under key rendered as text.
func (m *Metadata) String(key string) string {
	vs := m.values[key]
	if len(vs) == 0 {
		return ""
	}
	switch v := vs[0].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of distinct keys.
func (m *Metadata) Len() int { return len(m.keys) }

// MarshalJSON keeps key order; repeated keys marshal as arrays.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v, _ := m.Get(k)
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TypedValue converts a record value the way dynamic typing does: numbers become float64,
// TRUE/FALSE become bool, everything else stays a trimmed string.
func TypedValue(raw string) interface{} {
	v := strings.TrimSpace(raw)
	if v == "" {
		return v
	}
	switch strings.ToUpper(v) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if f, err := ParseNumber(v); err == nil {
		return f
	}
	return v
}

// ParseNumber parses s as a finite float64. NaN and infinity spellings are rejected.
func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

// NTuples stores the per-variable attribute records of an NTUPLES block. Each attribute
// (symbol, varname, units, ...) is a sequence with one value per declared variable.
type NTuples struct {
	Name  string
	keys  []string
	attrs map[string][]string
}

// NewNTuples returns an empty table.
func NewNTuples() *NTuples {
	return &NTuples{attrs: make(map[string][]string)}
}

// Set stores the values of one attribute.
func (n *NTuples) Set(key string, values []string) {
	if n.attrs == nil {
		n.attrs = make(map[string][]string)
	}
	if _, ok := n.attrs[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.attrs[key] = values
}

// Get returns the values of one attribute.
func (n *NTuples) Get(key string) []string {
	return n.attrs[key]
}

// Value returns attribute key for variable i.
func (n *NTuples) Value(key string, i int) (string, bool) {
	vs := n.attrs[key]
	if i < 0 || i >= len(vs) || vs[i] == "" {
		return "", false
	}
	return vs[i], true
}

// Float returns attribute key for variable i parsed as a number.
func (n *NTuples) Float(key string, i int) (float64, bool) {
	v, ok := n.Value(key, i)
	if !ok {
		return 0, false
	}
	f, err := ParseNumber(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Index returns the position of symbol in the SYMBOL attribute, or -1.
func (n *NTuples) Index(symbol string) int {
	for i, s := range n.attrs["symbol"] {
		if strings.EqualFold(s, symbol) {
			return i
		}
	}
	return -1
}

// Keys returns the attribute names in declaration order.
func (n *NTuples) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Empty reports whether no attribute was declared.
func (n *NTuples) Empty() bool {
	return n == nil || len(n.keys) == 0
}

// Pivot turns the attribute tables into one record per variable.
func (n *NTuples) Pivot() []map[string]string {
	width := 0
	for _, k := range n.keys {
		if l := len(n.attrs[k]); l > width {
			width = l
		}
	}
	out := make([]map[string]string, width)
	for i := range out {
		out[i] = make(map[string]string, len(n.keys))
		for _, k := range n.keys {
			if v, ok := n.Value(k, i); ok {
				out[i][k] = v
			}
		}
	}
	return out
}

// MarshalJSON renders the pivoted per-variable records.
func (n *NTuples) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Pivot())
}
