package types

import (
	"encoding/json"
	"testing"
)

func TestTypedValue(t *testing.T) {
	tests := []struct {
		raw  string
		want interface{}
	}{
		{" 4.24 ", 4.24},
		{"-1e3", -1000.0},
		{"TRUE", true},
		{"false", false},
		{"Nan", "Nan"},
		{"inf", "inf"},
		{"-Infinity", "-Infinity"},
		{"1 2", "1 2"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TypedValue(tt.raw); got != tt.want {
			t.Fatalf("TypedValue(%q): expected %#v, got %#v", tt.raw, tt.want, got)
		}
	}
}

func TestParseNumber_RejectsNonFinite(t *testing.T) {
	for _, s := range []string{"NaN", "inf", "+Inf", "-infinity", "1e400", "x"} {
		if _, err := ParseNumber(s); err == nil {
			t.Fatalf("expected an error for %q", s)
		}
	}
	if f, err := ParseNumber("2.5"); err != nil || f != 2.5 {
		t.Fatalf("expected 2.5, got %v (%v)", f, err)
	}
}

func TestMetadata_JSONWithNonFiniteSpelling(t *testing.T) {
	m := NewMetadata()
	m.Add("OWNER", TypedValue("Nan"))
	m.Add("$MODE", TypedValue("inf"))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"OWNER":"Nan","$MODE":"inf"}` {
		t.Fatalf("unexpected json %s", b)
	}
}
