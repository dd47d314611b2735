package smoothing_test

import (
	"math"
	"testing"

	"github.com/joeydtaylor/jcamp/pkg/internal/smoothing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-8 }

func TestSolve(t *testing.T) {
	x, err := smoothing.Solve([][]float64{{2, 1}, {1, 3}}, []float64{3, 5})
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if !near(x[0], 0.8) || !near(x[1], 1.4) {
		t.Fatalf("expected [0.8 1.4], got %v", x)
	}
	if _, err := smoothing.Solve([][]float64{{1, 2}}, []float64{1, 2}); err == nil {
		t.Fatalf("expected a dimension error")
	}
}

func TestInverse(t *testing.T) {
	inv, err := smoothing.Inverse([][]float64{{4, 7}, {2, 6}})
	if err != nil {
		t.Fatalf("Inverse error: %v", err)
	}
	want := [][]float64{{0.6, -0.7}, {-0.2, 0.4}}
	for i := range want {
		for j := range want[i] {
			if !near(inv[i][j], want[i][j]) {
				t.Fatalf("inv[%d][%d]: expected %v, got %v", i, j, want[i][j], inv[i][j])
			}
		}
	}
	if _, err := smoothing.Inverse([][]float64{{1, 2}, {2, 4}}); err == nil {
		t.Fatalf("expected a singular matrix error")
	}
	if _, err := smoothing.Inverse([][]float64{{1, 2}, {3}}); err == nil {
		t.Fatalf("expected a ragged matrix error")
	}
}

func TestSavitzkyGolay_PreservesPolynomials(t *testing.T) {
	n := 25
	y := make([]float64, n)
	for i := range y {
		x := float64(i)
		y[i] = 0.5*x*x - 3*x + 7
	}
	out, err := smoothing.SavitzkyGolay(y, smoothing.Options{WindowSize: 7, Polynomial: 2})
	if err != nil {
		t.Fatalf("SavitzkyGolay error: %v", err)
	}
	for i := range y {
		if !near(out[i], y[i]) {
			t.Fatalf("point %d: expected %v, got %v", i, y[i], out[i])
		}
	}
}

func TestSavitzkyGolay_Derivative(t *testing.T) {
	n := 15
	h := 0.5
	y := make([]float64, n)
	for i := range y {
		x := float64(i) * h
		y[i] = 3*x*x + 1
	}
	out, err := smoothing.SavitzkyGolay(y, smoothing.Options{WindowSize: 5, Polynomial: 2, Derivative: 1, H: h})
	if err != nil {
		t.Fatalf("SavitzkyGolay error: %v", err)
	}
	for i := range y {
		want := 6 * float64(i) * h
		if !near(out[i], want) {
			t.Fatalf("point %d: expected slope %v, got %v", i, want, out[i])
		}
	}
}

func TestSavitzkyGolay_ReducesNoise(t *testing.T) {
	n := 101
	y := make([]float64, n)
	for i := range y {
		y[i] = 10
		if i%2 == 0 {
			y[i] += 1
		} else {
			y[i] -= 1
		}
	}
	out, err := smoothing.SavitzkyGolay(y, smoothing.DefaultOptions)
	if err != nil {
		t.Fatalf("SavitzkyGolay error: %v", err)
	}
	if math.Abs(out[50]-10) >= 1 {
		t.Fatalf("expected the alternating noise damped at the centre, got %v", out[50])
	}
}

func TestSavitzkyGolay_InvalidOptions(t *testing.T) {
	y := make([]float64, 10)
	tests := []struct {
		name string
		opts smoothing.Options
	}{
		{"even window", smoothing.Options{WindowSize: 4, Polynomial: 2}},
		{"window too large", smoothing.Options{WindowSize: 11, Polynomial: 2}},
		{"degree too high", smoothing.Options{WindowSize: 5, Polynomial: 5}},
		{"derivative too high", smoothing.Options{WindowSize: 5, Polynomial: 1, Derivative: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := smoothing.SavitzkyGolay(y, tt.opts); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
