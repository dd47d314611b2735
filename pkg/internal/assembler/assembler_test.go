package assembler_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

const boundary = "##TITLE=A\n##FIRSTX=0\n##LASTX=1\n##XFACTOR=1\n##YFACTOR=1\n##NPOINTS=2\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="

// recorder is a types.Logger that keeps every call.
type recorder struct {
	mu      sync.Mutex
	level   types.LogLevel
	entries []logged
}

type logged struct {
	level types.LogLevel
	msg   string
	kv    map[string]interface{}
}

func (r *recorder) log(level types.LogLevel, msg string, kv ...interface{}) {
	m := make(map[string]interface{})
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	r.mu.Lock()
	r.entries = append(r.entries, logged{level: level, msg: msg, kv: m})
	r.mu.Unlock()
}

func (r *recorder) find(msg string) *logged {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].msg == msg {
			return &r.entries[i]
		}
	}
	return nil
}

func (r *recorder) GetLevel() types.LogLevel               { return r.level }
func (r *recorder) SetLevel(l types.LogLevel)              { r.level = l }
func (r *recorder) Debug(msg string, kv ...interface{})    { r.log(types.DebugLevel, msg, kv...) }
func (r *recorder) Info(msg string, kv ...interface{})     { r.log(types.InfoLevel, msg, kv...) }
func (r *recorder) Warn(msg string, kv ...interface{})     { r.log(types.WarnLevel, msg, kv...) }
func (r *recorder) Error(msg string, kv ...interface{})    { r.log(types.ErrorLevel, msg, kv...) }
func (r *recorder) DPanic(msg string, kv ...interface{})   { r.log(types.DPanicLevel, msg, kv...) }
func (r *recorder) Panic(msg string, kv ...interface{})    { r.log(types.PanicLevel, msg, kv...) }
func (r *recorder) Fatal(msg string, kv ...interface{})    { r.log(types.FatalLevel, msg, kv...) }
func (r *recorder) Flush() error                           { return nil }
func (r *recorder) AddSink(string, types.SinkConfig) error { return nil }
func (r *recorder) RemoveSink(string) error                { return nil }
func (r *recorder) ListSinks() ([]string, error)           { return nil, nil }

func mustParse(t *testing.T, text string, opts ...types.Option[*assembler.Assembler]) *types.Result {
	t.Helper()
	res, err := assembler.NewAssembler(opts...).Parse(text)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return res
}

func TestParse_Boundary(t *testing.T) {
	res := mustParse(t, boundary)
	doc := res.Document
	if len(doc.Entries) != 1 || !reflect.DeepEqual(doc.Roots, []int{0}) {
		t.Fatalf("expected one root entry, got %d entries roots=%v", len(doc.Entries), doc.Roots)
	}
	e := doc.Entries[0]
	if e.Title != "A" || len(e.Spectra) != 1 {
		t.Fatalf("unexpected entry %q with %d spectra", e.Title, len(e.Spectra))
	}
	s := e.Spectra[0]
	if !reflect.DeepEqual(s.Data.X, []float64{0, 1}) || !reflect.DeepEqual(s.Data.Y, []float64{1, 2}) {
		t.Fatalf("expected x=[0 1] y=[1 2], got x=%v y=%v", s.Data.X, s.Data.Y)
	}
	if s.DeltaX != 1 || s.Kind != types.KindXYData {
		t.Fatalf("expected deltaX 1 and xydata, got %v %q", s.DeltaX, s.Kind)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", res.Diagnostics)
	}
	if got := s.Variables["y"].Data; !reflect.DeepEqual(got, []float64{1, 2}) {
		t.Fatalf("expected y variable data, got %v", got)
	}
}

func TestParse_Nesting(t *testing.T) {
	text := strings.Join([]string{
		"##TITLE=link block",
		"##JCAMP-DX=5.01",
		"##BLOCKS=2",
		"##TITLE=first",
		"##PEAK TABLE=(XY..XY)",
		"1 10",
		"##END=",
		"##TITLE=second",
		"##PEAK TABLE=(XY..XY)",
		"2 20",
		"##END=",
		"##END=",
	}, "\n")
	doc := mustParse(t, text).Document
	if len(doc.Entries) != 3 || !reflect.DeepEqual(doc.Roots, []int{0}) {
		t.Fatalf("expected 3 entries under one root, got %d roots=%v", len(doc.Entries), doc.Roots)
	}
	children := doc.Children(doc.Entries[0])
	if len(children) != 2 || children[0].Title != "first" || children[1].Title != "second" {
		t.Fatalf("unexpected children %v", doc.Entries[0].Children)
	}
	if flat := doc.Flatten(); len(flat) != 2 {
		t.Fatalf("expected 2 entries with spectra, got %d", len(flat))
	}
	if v, _ := doc.Entries[0].Info.Get("BLOCKS"); v != 2.0 {
		t.Fatalf("expected BLOCKS=2, got %v", v)
	}
}

func TestParse_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"end without title", "##END="},
		{"unclosed entry", "##TITLE=a\n##XUNITS=1/CM\n"},
		{"unclosed child", "##TITLE=a\n##TITLE=b\n##END="},
		{"record before title", "##XUNITS=1/CM\n##TITLE=a\n##END="},
		{"compressed without lastx", "##TITLE=a\n##FIRSTX=0\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="},
		{"firstx and deltax without lastx", "##TITLE=a\n##FIRSTX=0\n##DELTAX=1\n##NPOINTS=2\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="},
		{"compressed without firstx", "##TITLE=a\n##DELTAX=1\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := assembler.NewAssembler().Parse(tt.text)
			var se *types.StructuralError
			if !errors.As(err, &se) {
				t.Fatalf("expected StructuralError, got %v", err)
			}
			if !errors.Is(err, types.ErrStructural) {
				t.Fatalf("expected errors.Is ErrStructural")
			}
			if res == nil || res.Document == nil {
				t.Fatalf("expected a partial document")
			}
		})
	}
}

func TestParse_MalformedPeakTableLine(t *testing.T) {
	text := "##TITLE=peaks\n##XUNITS=1/CM\n##PEAK TABLE=(XY..XY)\n1 10\n2 20 3\n4 40\n##END="
	rec := &recorder{level: types.DebugLevel}
	res := mustParse(t, text, assembler.WithLogger(rec))
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Label != "PEAKTABLE" || d.Entry != "peaks" || d.Line != 5 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	s := res.Document.Entries[0].Spectra[0]
	if !reflect.DeepEqual(s.Data.X, []float64{1, 4}) || !reflect.DeepEqual(s.Data.Y, []float64{10, 40}) {
		t.Fatalf("expected the valid lines to decode, got x=%v y=%v", s.Data.X, s.Data.Y)
	}
	l := rec.find("format error")
	if l == nil || l.level != types.WarnLevel || l.kv["label"] != "PEAKTABLE" {
		t.Fatalf("expected a WARN format error log, got %+v", l)
	}
	if _, ok := l.kv["component"].(types.ComponentMetadata); !ok {
		t.Fatalf("expected component metadata on the log entry")
	}
	if len(res.Logs()) != 1 {
		t.Fatalf("expected 1 log line")
	}
}

func TestParse_DecodeErrorKeepsSiblings(t *testing.T) {
	text := strings.Join([]string{
		"##TITLE=multi",
		"##FIRSTX=0",
		"##LASTX=1",
		"##NPOINTS=2",
		"##XYDATA=(X++(Y..Y))",
		"0 1 2",
		"##FIRSTX=0",
		"##LASTX=1",
		"##NPOINTS=2",
		"##XYDATA=(X++(Y..Y))",
		"0 1 é 2",
		"##END=",
	}, "\n")
	res, err := assembler.NewAssembler().Parse(text)
	var de *types.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Label != "XYDATA" || de.Entry != "multi" || de.Offset != 5 {
		t.Fatalf("unexpected error fields %+v", de)
	}
	if !strings.Contains(err.Error(), "XYDATA") {
		t.Fatalf("expected the label in %q", err.Error())
	}
	spectra := res.Document.Entries[0].Spectra
	if len(spectra) != 1 || !reflect.DeepEqual(spectra[0].Data.Y, []float64{1, 2}) {
		t.Fatalf("expected the first spectrum intact, got %d spectra", len(spectra))
	}
}

func TestParse_PointCount(t *testing.T) {
	tolerated := "##TITLE=a\n##FIRSTX=0\n##LASTX=1\n##DELTAX=1\n##NPOINTS=3\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="
	mustParse(t, tolerated)

	mismatch := "##TITLE=a\n##FIRSTX=0\n##LASTX=1\n##DELTAX=1\n##NPOINTS=5\n##XYDATA=(X++(Y..Y))\n0 1 2\n##END="
	_, err := assembler.NewAssembler().Parse(mismatch)
	if !errors.Is(err, types.ErrDecode) {
		t.Fatalf("expected a decode error for 2 points against NPOINTS=5, got %v", err)
	}
}

func TestParse_DupExpansionBounded(t *testing.T) {
	text := "##TITLE=a\n##FIRSTX=0\n##LASTX=1\n##NPOINTS=2\n##XYDATA=(X++(Y..Y))\n0 AS99999999\n##END="
	_, err := assembler.NewAssembler().Parse(text)
	var de *types.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Label != "XYDATA" || de.Offset < 0 {
		t.Fatalf("unexpected error fields %+v", de)
	}
}

func TestParse_InfoAndMeta(t *testing.T) {
	text := strings.Join([]string{
		"##TITLE=meta $$ trailing comment",
		"##JCAMP-DX=5.01",
		"##ORIGIN=lab",
		"##= a comment record",
		"##$NOTE=first",
		"##$NOTE=second",
		"##$RELAX=TRUE",
		"##$SFO1=400.13",
		"##END=",
	}, "\n")
	e := mustParse(t, text).Document.Entries[0]
	if e.Title != "meta" {
		t.Fatalf("expected the comment stripped from the title, got %q", e.Title)
	}
	if e.JCAMPDX != "5.01" {
		t.Fatalf("expected JCAMPDX 5.01, got %q", e.JCAMPDX)
	}
	if v, _ := e.Info.Get("JCAMPDX"); v != 5.01 {
		t.Fatalf("expected typed JCAMPDX, got %#v", v)
	}
	if v, _ := e.Info.Get("ORIGIN"); v != "lab" {
		t.Fatalf("expected ORIGIN lab, got %#v", v)
	}
	notes, _ := e.Meta.Get("NOTE")
	if !reflect.DeepEqual(notes, []interface{}{"first", "second"}) {
		t.Fatalf("expected repeated NOTE as a sequence, got %#v", notes)
	}
	if v, _ := e.Meta.Get("RELAX"); v != true {
		t.Fatalf("expected RELAX true, got %#v", v)
	}
	if !reflect.DeepEqual(e.Meta.Keys(), []string{"NOTE", "RELAX", "SFO1"}) {
		t.Fatalf("unexpected meta keys %v", e.Meta.Keys())
	}
	if _, ok := e.Info.Get("TITLE"); ok {
		t.Fatalf("TITLE must not be captured")
	}
}

func TestParse_NonFiniteSpellingsStayText(t *testing.T) {
	res := mustParse(t, "##TITLE=a\n##OWNER=Nan\n##$MODE=inf\n##END=")
	e := res.Document.Entries[0]
	if v, _ := e.Info.Get("OWNER"); v != "Nan" {
		t.Fatalf("expected OWNER kept as text, got %#v", v)
	}
	if v, _ := e.Meta.Get("MODE"); v != "inf" {
		t.Fatalf("expected MODE kept as text, got %#v", v)
	}
	if _, err := json.Marshal(res); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestParse_LabelOptions(t *testing.T) {
	text := "##TITLE=a\n##DATA TYPE=INFRARED SPECTRUM\n##$My-Key=12\n##ORIGIN=lab\n##END="
	e := mustParse(t, text, assembler.WithDynamicTyping(false), assembler.WithCanonicLabels(false)).Document.Entries[0]
	if v, _ := e.Meta.Get("My-Key"); v != "12" {
		t.Fatalf("expected raw label and string value, got %#v", v)
	}
	if _, ok := e.Info.Get("DATA TYPE"); !ok {
		t.Fatalf("expected DATA TYPE kept as written, got %v", e.Info.Keys())
	}

	e = mustParse(t, text, assembler.WithKeepRecords(regexp.MustCompile(`^DATATYPE$`))).Document.Entries[0]
	if e.Info.Len() != 1 || e.Meta.Len() != 0 {
		t.Fatalf("expected only DATATYPE kept, got info=%v meta=%v", e.Info.Keys(), e.Meta.Keys())
	}
	if e.DataType != "INFRARED SPECTRUM" {
		t.Fatalf("expected data type set regardless of the filter, got %q", e.DataType)
	}
}

const gcms = `##TITLE=gcms
##JCAMP-DX=5.01
##DATA TYPE=MASS SPECTRUM
##NTUPLES=MASS SPECTRUM
##VAR_NAME=MASS, INTENSITY, RETENTION TIME
##SYMBOL=X, Y, T
##VAR_TYPE=INDEPENDENT, DEPENDENT, INDEPENDENT
##VAR_FORM=AFFN, AFFN, AFFN
##VAR_DIM=, , 2
##UNITS=M/Z, RELATIVE ABUNDANCE, SECONDS
##PAGE=T=1.5
##NPOINTS=2
##DATA TABLE=(XY..XY), PEAKS
50,100
51,200
##PAGE=T=3
##NPOINTS=1
##DATA TABLE=(XY..XY), PEAKS
60,10
##END NTUPLES=MASS SPECTRUM
##END=`

func TestParse_NTuplesChromatogram(t *testing.T) {
	e := mustParse(t, gcms, assembler.WithChromatogram(true)).Document.Entries[0]
	if len(e.Spectra) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(e.Spectra))
	}
	s := e.Spectra[0]
	if s.PageSymbol != "T" || s.PageValue != 1.5 || s.XUnits != "M/Z" || s.Kind != types.KindPeakTable {
		t.Fatalf("unexpected first page %+v", s)
	}
	if s.Variables["x"].Label != "MASS" {
		t.Fatalf("expected resolved variable label, got %+v", s.Variables["x"])
	}
	if got := e.NTuples.Get("symbol"); !reflect.DeepEqual(got, []string{"X", "Y", "T"}) {
		t.Fatalf("unexpected symbols %v", got)
	}
	if _, ok := e.Info.Get("PAGE"); ok {
		t.Fatalf("PAGE must not be captured")
	}
	c := e.Chromatogram
	if c == nil || !reflect.DeepEqual(c.Times, []float64{1.5, 3}) {
		t.Fatalf("unexpected chromatogram %+v", c)
	}
	if tic := c.Get("tic"); tic == nil || !reflect.DeepEqual(tic.Values, []float64{300, 10}) {
		t.Fatalf("unexpected tic %+v", tic)
	}
}

func TestParse_LookupError(t *testing.T) {
	text := strings.Replace(gcms, "##DATA TABLE=(XY..XY), PEAKS\n60,10", "##DATA TABLE=(XQ..XQ), PEAKS\n60,10", 1)
	res, err := assembler.NewAssembler().Parse(text)
	var le *types.LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if le.Label != "DATATABLE" || le.Symbol != "Q" || le.Entry != "gcms" {
		t.Fatalf("unexpected error fields %+v", le)
	}
	if len(res.Document.Entries[0].Spectra) != 1 {
		t.Fatalf("expected the first page kept")
	}
}

func TestParse_NMR(t *testing.T) {
	text := strings.Join([]string{
		"##TITLE=proton",
		"##DATA TYPE=NMR SPECTRUM",
		"##.OBSERVE FREQUENCY=100",
		"##$SFO1=200",
		"##.OBSERVE NUCLEUS=^1H",
		"##XUNITS=HZ",
		"##YUNITS=ARBITRARY UNITS",
		"##FIRSTX=1000",
		"##LASTX=500",
		"##NPOINTS=2",
		"##$OFFSET=12",
		"##XYDATA=(X++(Y..Y))",
		"1000 5 6",
		"##END=",
	}, "\n")
	e := mustParse(t, text).Document.Entries[0]
	s := e.Spectra[0]
	if s.XUnits != "PPM" || !reflect.DeepEqual(s.Data.X, []float64{12, 7}) {
		t.Fatalf("expected ppm axis [12 7], got %q %v", s.XUnits, s.Data.X)
	}
	if s.ObserveFrequency != 100 {
		t.Fatalf("expected the first observe frequency to win, got %v", s.ObserveFrequency)
	}
	if !reflect.DeepEqual(e.Nuclei, []string{"1H"}) {
		t.Fatalf("unexpected nuclei %v", e.Nuclei)
	}

	raw := mustParse(t, text, assembler.WithNMRPostProcessing(false)).Document.Entries[0].Spectra[0]
	if raw.XUnits != "HZ" || raw.Data.X[0] != 1000 {
		t.Fatalf("expected the Hz axis untouched, got %q %v", raw.XUnits, raw.Data.X)
	}
}

func TestParse_PeakAssignments(t *testing.T) {
	text := "##TITLE=assign\n##PEAK ASSIGNMENTS=(XYA)\n(1.5, 100, <CH3>)\n(2.5, 50, <OH>)\n##END="
	s := mustParse(t, text).Document.Entries[0].Spectra[0]
	if s.Kind != types.KindAssignments || !reflect.DeepEqual(s.Data.X, []float64{1.5, 2.5}) {
		t.Fatalf("unexpected assignments %q %v", s.Kind, s.Data.X)
	}
}

func TestParse_WithoutXY(t *testing.T) {
	res := mustParse(t, boundary, assembler.WithoutXY())
	s := res.Document.Entries[0].Spectra[0]
	if s.Data.Len() != 0 {
		t.Fatalf("expected no points, got %d", s.Data.Len())
	}
}

func TestParse_InvalidHeaderNumber(t *testing.T) {
	text := strings.Replace(boundary, "##XFACTOR=1", "##XFACTOR=one", 1)
	res := mustParse(t, text)
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Label != "XFACTOR" {
		t.Fatalf("expected an XFACTOR diagnostic, got %v", res.Diagnostics)
	}
}

func TestParseBytes_Latin1(t *testing.T) {
	b := []byte("##TITLE=caf\xe9\n##END=\n")
	res, err := assembler.NewAssembler().ParseBytes(b)
	if err != nil {
		t.Fatalf("ParseBytes error: %v", err)
	}
	if got := res.Document.Entries[0].Title; got != "café" {
		t.Fatalf("expected café, got %q", got)
	}

	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte(boundary)...)
	res, err = assembler.NewAssembler(assembler.WithLatin1(false)).ParseBytes(bom)
	if err != nil || res.Document.Entries[0].Title != "A" {
		t.Fatalf("expected the BOM dropped, got %v", err)
	}
}

func TestParseContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := assembler.NewAssembler().ParseContext(ctx, boundary)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParse_ConcurrentDocuments(t *testing.T) {
	a := assembler.NewAssembler()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := a.Parse(boundary)
			if err == nil && res.Document.Entries[0].Spectra[0].Data.Len() != 2 {
				err = errors.New("wrong point count")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent parse: %v", err)
		}
	}
}
