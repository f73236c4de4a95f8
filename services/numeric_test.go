package services

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestZeroFillAndMeanImpute(t *testing.T) {
	xs := []float64{1, math.NaN(), 3, math.NaN()}

	zeroed := ZeroFill(xs)
	if zeroed[1] != 0 || zeroed[3] != 0 {
		t.Errorf("ZeroFill = %v; want missing values replaced with 0", zeroed)
	}

	imputed := MeanImpute(xs)
	if imputed[1] != 2 || imputed[3] != 2 {
		t.Errorf("MeanImpute = %v; want missing values replaced with 2", imputed)
	}

	// originals must not be touched
	if !math.IsNaN(xs[1]) {
		t.Error("input slice mutated")
	}
}

func TestQuantileOf(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		q    float64
		want float64
	}{
		{0.5, 3},
		{0.25, 2},
		{0.75, 4},
		{0, 1},
		{1, 5},
	}
	for _, tt := range tests {
		got := quantileOf(xs, tt.q)
		if !almostEqual(got, tt.want, 1e-9) {
			t.Errorf("quantileOf(q=%.2f) = %.4f; want %.4f", tt.q, got, tt.want)
		}
	}
}

func TestPearsonTest(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2, 4, 6, 8, 10, 12, 14, 16}

	r, p := PearsonTest(x, y)
	if !almostEqual(r, 1, 1e-9) {
		t.Errorf("r = %.6f; want 1", r)
	}
	if p > 1e-6 {
		t.Errorf("p = %.6f; want ~0 for a perfect correlation", p)
	}

	// a weak relationship should not look significant
	x2 := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y2 := []float64{5, 1, 4, 2, 6, 3, 5, 4}
	r2, p2 := PearsonTest(x2, y2)
	if math.Abs(r2) >= 1 {
		t.Errorf("r2 = %.6f; want |r| < 1", r2)
	}
	if p2 <= 0 || p2 > 1 {
		t.Errorf("p2 = %.6f; want a value in (0, 1]", p2)
	}
}

func TestRanksAveragesTies(t *testing.T) {
	got := ranks([]float64{10, 20, 20, 30})
	want := []float64{1, 2.5, 2.5, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranks = %v; want %v", got, want)
		}
	}
}

func TestSpearmanCorrelation(t *testing.T) {
	// monotone but nonlinear: Spearman sees a perfect relationship
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 4, 9, 16, 25}

	rho := SpearmanCorrelation(x, y)
	if !almostEqual(rho, 1, 1e-9) {
		t.Errorf("rho = %.6f; want 1", rho)
	}

	reversed := SpearmanCorrelation(x, []float64{25, 16, 9, 4, 1})
	if !almostEqual(reversed, -1, 1e-9) {
		t.Errorf("rho = %.6f; want -1", reversed)
	}
}

func TestNormalTest(t *testing.T) {
	if s, p := NormalTest([]float64{1, 2, 3}); !math.IsNaN(s) || !math.IsNaN(p) {
		t.Errorf("NormalTest on 3 values = (%v, %v); want NaN, NaN", s, p)
	}

	// roughly symmetric sample: the omnibus statistic should be small and
	// the p-value sane
	xs := []float64{2, 3, 3, 4, 4, 4, 5, 5, 5, 5, 6, 6, 6, 7, 7, 8}
	s, p := NormalTest(xs)
	if math.IsNaN(s) || math.IsNaN(p) {
		t.Fatal("NormalTest returned NaN on a valid sample")
	}
	if p < 0 || p > 1 {
		t.Errorf("p = %.6f; want a value in [0, 1]", p)
	}
}

func TestStandardize(t *testing.T) {
	cols := Standardize([][]float64{
		{1, 2, 3, 4, 5},
		{7, 7, 7, 7, 7},
	})

	mean, variance := 0.0, 0.0
	for _, v := range cols[0] {
		mean += v
	}
	mean /= float64(len(cols[0]))
	for _, v := range cols[0] {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(cols[0]))

	if !almostEqual(mean, 0, 1e-9) || !almostEqual(variance, 1, 1e-9) {
		t.Errorf("standardized column has mean %.6f, variance %.6f", mean, variance)
	}

	for _, v := range cols[1] {
		if v != 0 {
			t.Fatalf("constant column standardized to %v; want all zeros", cols[1])
		}
	}
}

func TestKMeans(t *testing.T) {
	// two well-separated blobs
	rows := [][]float64{
		{0, 0}, {0.1, 0.2}, {0.2, 0.1}, {0.1, 0},
		{10, 10}, {10.1, 10.2}, {10.2, 10.1}, {9.9, 10},
	}

	assignments, centers, inertia := KMeans(rows, 2, 42)
	if len(assignments) != len(rows) || len(centers) != 2 {
		t.Fatalf("got %d assignments, %d centers", len(assignments), len(centers))
	}

	for i := 1; i < 4; i++ {
		if assignments[i] != assignments[0] {
			t.Errorf("rows 0 and %d split across clusters", i)
		}
	}
	for i := 5; i < 8; i++ {
		if assignments[i] != assignments[4] {
			t.Errorf("rows 4 and %d split across clusters", i)
		}
	}
	if assignments[0] == assignments[4] {
		t.Error("both blobs landed in the same cluster")
	}
	if inertia < 0 {
		t.Errorf("inertia = %.4f; want non-negative", inertia)
	}

	// same seed, same partition
	again, _, _ := KMeans(rows, 2, 42)
	for i := range assignments {
		if assignments[i] != again[i] {
			t.Fatal("k-means not deterministic for a fixed seed")
		}
	}
}

func TestKMeansClampsK(t *testing.T) {
	rows := [][]float64{{1, 1}, {2, 2}}
	assignments, centers, _ := KMeans(rows, 5, 1)
	if len(centers) != 2 {
		t.Errorf("got %d centers for 2 rows; want 2", len(centers))
	}
	if len(assignments) != 2 {
		t.Errorf("got %d assignments; want 2", len(assignments))
	}
}
