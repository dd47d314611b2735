package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeydtaylor/jcamp/pkg/builder"
)

const boundary = "##TITLE=A\n##FIRSTX=0\n##LASTX=1\n##XFACTOR=1\n##YFACTOR=1\n##NPOINTS=2\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="

const linear = "##TITLE=linear\n##JCAMP-DX=4.24\n##XUNITS=1/CM\n##YUNITS=ABSORBANCE\n" +
	"##FIRSTX=0\n##LASTX=11\n##DELTAX=1\n##XFACTOR=1\n##YFACTOR=1\n##NPOINTS=12\n" +
	"##XYDATA=(X++(Y..Y))\n0 1 2 3 4 5 6\n6 7 8 9 10 11 12\n##END="

func writeInput(t *testing.T, name, text string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return p
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("JCAMP_CONFIG", "")
	t.Setenv("JCAMP_LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	if code, _, stderr := runCLI(t, ""); code != 2 || !strings.Contains(stderr, "commands:") {
		t.Fatalf("expected usage with code 2, got %d: %s", code, stderr)
	}
	if code, _, stderr := runCLI(t, "", "bogus"); code != 2 || !strings.Contains(stderr, `unknown command "bogus"`) {
		t.Fatalf("expected unknown command, got %d: %s", code, stderr)
	}
	if code, _, _ := runCLI(t, "", "json"); code != 2 {
		t.Fatalf("expected code 2 without input, got %d", code)
	}
	if code, _, _ := runCLI(t, "", "-config", filepath.Join(t.TempDir(), "missing.yaml"), "json", "-"); code != 1 {
		t.Fatalf("expected code 1 for a missing config file, got %d", code)
	}
}

func TestRun_JSON(t *testing.T) {
	in := writeInput(t, "a.jdx", boundary)
	code, stdout, stderr := runCLI(t, "", "json", "-compact", in)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr)
	}
	var out struct {
		Document struct {
			Entries []struct {
				Title   string `json:"title"`
				Spectra []struct {
					Data builder.XY `json:"data"`
				} `json:"spectra"`
			} `json:"entries"`
		} `json:"document"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if len(out.Document.Entries) != 1 || out.Document.Entries[0].Title != "A" {
		t.Fatalf("unexpected output: %s", stdout)
	}
	if y := out.Document.Entries[0].Spectra[0].Data.Y; len(y) != 2 || y[1] != 2 {
		t.Fatalf("unexpected y: %v", y)
	}
}

func TestRun_JSONStdin(t *testing.T) {
	code, stdout, stderr := runCLI(t, boundary, "json", "-")
	if code != 0 || !strings.Contains(stdout, `"title": "A"`) {
		t.Fatalf("expected stdin document, got %d: %s%s", code, stdout, stderr)
	}
}

func TestRun_JSONStructuralError(t *testing.T) {
	in := writeInput(t, "bad.jdx", "##END=")
	if code, _, stderr := runCLI(t, "", "json", in); code != 1 || !strings.Contains(stderr, "jcampdx json:") {
		t.Fatalf("expected failure, got %d: %s", code, stderr)
	}
}

func TestRun_JCAMPCompressed(t *testing.T) {
	in := writeInput(t, "a.jdx", boundary)
	out := filepath.Join(t.TempDir(), "out.jdx.zst")
	if code, _, stderr := runCLI(t, "", "jcamp", "-owner", "lab", "-o", out, in); code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr)
	}
	res, err := builder.ParseFile(context.Background(), nil, out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	e := res.Document.Entries[0]
	if e.Info.String("OWNER") != "lab" {
		t.Fatalf("expected owner lab, got %q", e.Info.String("OWNER"))
	}
	if d := e.Spectra[0].Data; len(d.Y) != 2 || d.Y[0] != 1 || d.Y[1] != 2 {
		t.Fatalf("unexpected data: %+v", d)
	}
}

func TestRun_Parquet(t *testing.T) {
	in := writeInput(t, "a.jdx", boundary)
	out := filepath.Join(t.TempDir(), "a.parquet")
	if code, _, stderr := runCLI(t, "", "parquet", "-compression", "gzip", "-o", out, in); code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rows, err := builder.ReadParquet(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "A" || rows[1].Y != 2 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRun_Chromatogram(t *testing.T) {
	in := writeInput(t, "a.jdx", boundary)
	code, stdout, stderr := runCLI(t, "", "chromatogram", in)
	if code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr)
	}
	var out []struct {
		Title        string               `json:"title"`
		Chromatogram builder.Chromatogram `json:"chromatogram"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].Title != "A" {
		t.Fatalf("unexpected output: %s", stdout)
	}
	c := out[0].Chromatogram
	if len(c.Times) != 2 || c.Times[1] != 1 || c.Get("intensity") == nil {
		t.Fatalf("unexpected chromatogram: %s", stdout)
	}
}

func TestRun_Smooth(t *testing.T) {
	in := writeInput(t, "linear.jdx", linear)
	out := filepath.Join(t.TempDir(), "smooth.jdx")
	if code, _, stderr := runCLI(t, "", "smooth", "-window", "5", "-polynomial", "2", "-o", out, in); code != 0 {
		t.Fatalf("expected code 0, got %d: %s", code, stderr)
	}
	res, err := builder.ParseFile(context.Background(), nil, out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	d := res.Document.Entries[0].Spectra[0].Data
	if len(d.Y) != 12 {
		t.Fatalf("expected 12 points, got %d", len(d.Y))
	}
	for i := range d.Y {
		if math.Abs(d.Y[i]-(d.X[i]+1)) > 1e-9 {
			t.Fatalf("point %d: expected %v, got %v", i, d.X[i]+1, d.Y[i])
		}
	}

	if code, _, _ := runCLI(t, "", "smooth", "-window", "4", in); code != 1 {
		t.Fatalf("expected failure for even window, got %d", code)
	}
}

func TestRun_MissingBackends(t *testing.T) {
	t.Setenv("JCAMP_S3_BUCKET", "")
	t.Setenv("JCAMP_CRYSTAL_COMMAND", "")

	if code, _, stderr := runCLI(t, "", "s3", "ls"); code != 1 || !strings.Contains(stderr, "bucket is required") {
		t.Fatalf("expected missing bucket, got %d: %s", code, stderr)
	}
	if code, _, _ := runCLI(t, "", "s3", "mv"); code != 2 {
		t.Fatalf("expected usage for unknown action, got %d", code)
	}
	cif := writeInput(t, "nacl.cif", "data_NaCl\n_cell_length_a 5.64\n")
	if code, _, stderr := runCLI(t, "", "crystal", cif); code != 1 || !strings.Contains(stderr, "command is required") {
		t.Fatalf("expected missing crystal command, got %d: %s", code, stderr)
	}
}
