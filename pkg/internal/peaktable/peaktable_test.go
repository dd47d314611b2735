package peaktable_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/joeydtaylor/jcamp/pkg/internal/peaktable"
)

func TestParseXY(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		xf, yf  float64
		wantX   []float64
		wantY   []float64
		wantErr int
	}{
		{"one pair per line", "(XY..XY)\n1 10\n2 20\n", 1, 1, []float64{1, 2}, []float64{10, 20}, 0},
		{"comma pairs", "(XY..XY)\n1,10 2,20\n3,30", 1, 1, []float64{1, 2, 3}, []float64{10, 20, 30}, 0},
		{"semicolon lines", "(XY..XY)\n1,10;2,20;", 1, 1, []float64{1, 2}, []float64{10, 20}, 0},
		{"factors", "(XY..XY)\n1 10\n", 0.5, 2, []float64{0.5}, []float64{20}, 0},
		{"comment stripped", "(XY..XY)\n1 10 $$ 99 98 97\n", 1, 1, []float64{1}, []float64{10}, 0},
		{"odd line skipped", "(XY..XY)\n1 10\n2 20 3\n4 40", 1, 1, []float64{1, 4}, []float64{10, 40}, 1},
		{"separator inside comment", "(XY..XY)\n1 10 $$ baseline; corrected\n2 20", 1, 1, []float64{1, 2}, []float64{10, 20}, 0},
		{"non-finite skipped", "(XY..XY)\n1 NaN\n2 inf\n3 30", 1, 1, []float64{3}, []float64{30}, 2},
		{"garbage skipped", "(XY..XY)\n1 abc\n2 20", 1, 1, []float64{2}, []float64{20}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := peaktable.ParseXY(tt.text, tt.xf, tt.yf)
			if len(diags) != tt.wantErr {
				t.Fatalf("expected %d diagnostics, got %v", tt.wantErr, diags)
			}
			if !reflect.DeepEqual(got.X, tt.wantX) || !reflect.DeepEqual(got.Y, tt.wantY) {
				t.Fatalf("expected x=%v y=%v, got x=%v y=%v", tt.wantX, tt.wantY, got.X, got.Y)
			}
		})
	}
}

func TestParseXY_DiagnosticLine(t *testing.T) {
	_, diags := peaktable.ParseXY("(XY..XY)\n1 10\n2 20 3\n", 1, 1)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Line != 2 {
		t.Fatalf("expected line 2, got %d", diags[0].Line)
	}
	if !strings.Contains(diags[0].Msg, "odd token count") {
		t.Fatalf("unexpected message %q", diags[0].Msg)
	}
}

func TestParseXYZ(t *testing.T) {
	cols, diags := peaktable.ParseXYZ("(XYW..XYW)\n1 10 100 2 20 200\n3 30\n4 40 400", 3, []float64{1, 2})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	want := [][]float64{{1, 2, 4}, {20, 40, 80}, {100, 200, 400}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("expected %v, got %v", want, cols)
	}
}

func TestParseXYZ_NoVariables(t *testing.T) {
	cols, diags := peaktable.ParseXYZ("(XY..XY)\n1 2", 0, nil)
	if cols != nil || len(diags) != 1 {
		t.Fatalf("expected a single diagnostic and no columns, got %v %v", cols, diags)
	}
}

func TestParseXYA(t *testing.T) {
	text := "(XYA)\n(1.5, 100, <CH3>)\n( 2.5 ,  50 , <OH> )\n(bad)\n"
	got, diags := peaktable.ParseXYA(text)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	if !reflect.DeepEqual(got.X, []float64{1.5, 2.5}) || !reflect.DeepEqual(got.Y, []float64{100, 50}) {
		t.Fatalf("unexpected assignments x=%v y=%v", got.X, got.Y)
	}
}
