package builder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

const boundary = "##TITLE=A\n##FIRSTX=0\n##LASTX=1\n##XFACTOR=1\n##YFACTOR=1\n##NPOINTS=2\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="

func TestParse(t *testing.T) {
	res, err := Parse(boundary)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	d := res.Document.Entries[0].Spectra[0].Data
	if len(d.X) != 2 || d.X[0] != 0 || d.X[1] != 1 || d.Y[0] != 1 || d.Y[1] != 2 {
		t.Fatalf("unexpected data: %+v", d)
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("##END=")
	var se *StructuralError
	if !errors.As(err, &se) || !errors.Is(err, ErrStructural) {
		t.Fatalf("expected structural error, got %v", err)
	}
}

func TestNewAssemblerFromConfig(t *testing.T) {
	if _, err := NewAssemblerFromConfig(ParseConfig{KeepRecords: "("}); err == nil {
		t.Fatalf("expected regexp error")
	}

	asm, err := NewAssemblerFromConfig(ParseConfig{WithoutXY: true, DynamicTyping: BoolPtr(false)})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	res, err := asm.Parse(boundary)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if n := len(res.Document.Entries[0].Spectra[0].Data.X); n != 0 {
		t.Fatalf("expected no points without XY, got %d", n)
	}
	if v, _ := res.Document.Entries[0].Info.Get("NPOINTS"); v != "2" {
		t.Fatalf("expected untyped NPOINTS, got %#v", v)
	}
}

func TestWriteFileParseFile(t *testing.T) {
	res, err := Parse(boundary)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, name := range []string{"a.jdx", "a.jdx.gz", "a.jdx.zst", "a.jdx.br"} {
		path := filepath.Join(t.TempDir(), name)
		if err := WriteFile(NewSerializer(SerializerWithOwner("lab")), path, res.Document); err != nil {
			t.Fatalf("%s: write: %v", name, err)
		}
		back, err := ParseFile(context.Background(), nil, path)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		e := back.Document.Entries[0]
		if e.Info.String("OWNER") != "lab" {
			t.Fatalf("%s: expected owner lab, got %q", name, e.Info.String("OWNER"))
		}
		if d := e.Spectra[0].Data; d.Y[1] != 2 {
			t.Fatalf("%s: unexpected data %+v", name, d)
		}
	}
}
