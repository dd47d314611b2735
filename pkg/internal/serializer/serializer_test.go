package serializer_test

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/serializer"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

func simpleEntry(x, y []float64) *types.Entry {
	e := types.NewEntry("round trip")
	e.DataType = "INFRARED SPECTRUM"
	s := types.NewSpectrum()
	s.XUnits = "1/CM"
	s.YUnits = "ABSORBANCE"
	s.Data = types.XY{X: x, Y: y}
	e.Spectra = append(e.Spectra, s)
	return e
}

func reparse(t *testing.T, text []byte) *types.Document {
	t.Helper()
	res, err := assembler.NewAssembler().ParseBytes(text)
	if err != nil {
		t.Fatalf("re-parse error: %v\n%s", err, text)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", res.Diagnostics)
	}
	return res.Document
}

func sameBits(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func TestMarshal_SimpleRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"single point", []float64{1}, []float64{2}},
		{"mixed magnitudes", []float64{1.5, 2.25, 1e6, -3e-9}, []float64{0.1, -3, 7.123456789012345, 1e300}},
		{"descending axis", []float64{4000, 3999.5, 3999}, []float64{0.5, 0.25, 0.125}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := serializer.NewSerializer().Marshal(simpleEntry(tt.x, tt.y))
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}
			doc := reparse(t, text)
			s := doc.Entries[0].Spectra[0]
			if !sameBits(s.Data.X, tt.x) || !sameBits(s.Data.Y, tt.y) {
				t.Fatalf("expected x=%v y=%v, got x=%v y=%v", tt.x, tt.y, s.Data.X, s.Data.Y)
			}
			if s.XUnits != "1/CM" || doc.Entries[0].DataType != "INFRARED SPECTRUM" {
				t.Fatalf("unexpected header %q %q", s.XUnits, doc.Entries[0].DataType)
			}
		})
	}
}

func TestMarshal_SimpleLayout(t *testing.T) {
	e := simpleEntry([]float64{1, 2}, []float64{10, 20})
	e.Info.Add("ORIGIN", "lab")
	e.Info.Add("XUNITS", "ignored")
	e.Info.Add("COMMENTS", "a")
	e.Info.Add("COMMENTS", "b")
	e.Meta.Add("SFO1", 400.13)
	e.Meta.Add("RELAX", true)

	text, err := serializer.NewSerializer(serializer.WithOwner("me"), serializer.WithOrigin("unused")).Marshal(e)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	out := string(text)
	for _, want := range []string{
		"##TITLE=round trip\n##JCAMP-DX=5.00\n",
		"##OWNER=me\n",
		"##ORIGIN=lab\n",
		"##COMMENTS=a\n##COMMENTS=b\n",
		"##$SFO1=400.13\n",
		"##$RELAX=TRUE\n",
		"##NPOINTS=2\n##PEAK TABLE=(XY..XY)\n1 10\n2 20\n##END=\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "ignored") || strings.Contains(out, "unused") {
		t.Fatalf("unexpected duplicate header in\n%s", out)
	}

	doc := reparse(t, text)
	comments, _ := doc.Entries[0].Info.Get("COMMENTS")
	if !reflect.DeepEqual(comments, []interface{}{"a", "b"}) {
		t.Fatalf("expected repeated COMMENTS to survive, got %#v", comments)
	}
}

func TestMarshal_NTuplesRoundTrip(t *testing.T) {
	e := types.NewEntry("gcms")
	e.DataType = "MASS SPECTRUM"
	for i, page := range []types.XY{
		{X: []float64{50, 51}, Y: []float64{100, 200}},
		{X: []float64{60}, Y: []float64{10}},
	} {
		s := types.NewSpectrum()
		s.XUnits = "M/Z"
		s.YUnits = "RELATIVE ABUNDANCE"
		s.PageSymbol = "T"
		s.PageValue = 1.5 * float64(i+1)
		s.HasPage = true
		s.Data = page
		e.Spectra = append(e.Spectra, s)
	}

	text, err := serializer.NewSerializer().Marshal(e)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	out := string(text)
	for _, want := range []string{"##NTUPLES=MASS SPECTRUM\n", "##SYMBOL=X, Y, T\n", "##PAGE=T=3\n", "##DATA TABLE=(XY..XY), PEAKS\n", "##END NTUPLES=MASS SPECTRUM\n##END=\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}

	got := reparse(t, text).Entries[0]
	if len(got.Spectra) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(got.Spectra))
	}
	for i, s := range got.Spectra {
		want := e.Spectra[i]
		if !sameBits(s.Data.X, want.Data.X) || !sameBits(s.Data.Y, want.Data.Y) {
			t.Fatalf("page %d: expected %v, got %v", i, want.Data, s.Data)
		}
		if s.PageValue != want.PageValue || s.XUnits != "M/Z" {
			t.Fatalf("page %d: unexpected page %v units %q", i, s.PageValue, s.XUnits)
		}
	}
}

func TestMarshal_ThreeVariables(t *testing.T) {
	e := types.NewEntry("xyw")
	s := types.NewSpectrum()
	s.SetVariable("x", &types.Variable{Symbol: "X", Label: "TIME", Units: "S", Data: []float64{0, 1}})
	s.SetVariable("y", &types.Variable{Symbol: "Y", Label: "SIGNAL", Data: []float64{5, 6}})
	s.SetVariable("w", &types.Variable{Symbol: "W", Label: "WEIGHT, RAW", Data: []float64{0.5, 0.25}})
	s.Data = types.XY{X: []float64{0, 1}, Y: []float64{5, 6}}
	e.Spectra = append(e.Spectra, s)

	text, err := serializer.NewSerializer().Marshal(e)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(text), "##DATA TABLE=(XYW..XYW), PEAKS\n0 5 0.5\n1 6 0.25\n") {
		t.Fatalf("unexpected table in\n%s", text)
	}
	got := reparse(t, text).Entries[0].Spectra[0]
	if w := got.Variables["w"]; w == nil || !reflect.DeepEqual(w.Data, []float64{0.5, 0.25}) || w.Label != "WEIGHT  RAW" {
		t.Fatalf("unexpected w variable %+v", w)
	}
}

func TestDocument_LinkBlock(t *testing.T) {
	doc := &types.Document{}
	parent := types.NewEntry("link")
	doc.Entries = append(doc.Entries, parent, simpleEntry([]float64{1}, []float64{2}), simpleEntry([]float64{3}, []float64{4}))
	doc.Roots = []int{0}
	parent.Children = []int{1, 2}

	text, err := serializer.NewSerializer().MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument error: %v", err)
	}
	if !strings.Contains(string(text), "##DATA TYPE=LINK\n##BLOCKS=2\n") {
		t.Fatalf("expected a link block in\n%s", text)
	}
	got := reparse(t, text)
	if len(got.Entries) != 3 || len(got.Entries[0].Children) != 2 || got.Entries[2].Spectra[0].Data.X[0] != 3 {
		t.Fatalf("unexpected structure after re-parse: %d entries", len(got.Entries))
	}
}

func TestEntry_LengthMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := serializer.NewSerializer().Entry(&buf, simpleEntry([]float64{1, 2}, []float64{1}))
	if err == nil {
		t.Fatalf("expected an error for x/y length mismatch")
	}
}
