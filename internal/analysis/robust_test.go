package analysis

import "testing"

func TestMedianMAD(t *testing.T) {
	med, mad := medianMAD([]float64{100, 1, 3, 2, 4})
	if med != 3 || mad != 1 {
		t.Fatalf("median/mad = %v/%v, want 3/1", med, mad)
	}
	if m, d := medianMAD(nil); m != 0 || d != 0 {
		t.Fatalf("empty input: %v/%v", m, d)
	}
}

func TestQuantileInterpolates(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	if q := quantile(s, 0.5); q != 2.5 {
		t.Fatalf("q50 = %v", q)
	}
	if q := quantile(s, 0); q != 1 {
		t.Fatalf("q0 = %v", q)
	}
	if q := quantile(s, 1); q != 4 {
		t.Fatalf("q100 = %v", q)
	}
}
