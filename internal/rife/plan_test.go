package rife

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestPassCount(t *testing.T) {
	tests := []struct {
		factor float64
		want   int
	}{
		{0.5, 0},
		{1.0, 0},
		{1.01, 1},
		{2.0, 1},
		{3.0, 2},
		{4.0, 2},
		{4.5, 3},
		{8.0, 3},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := PassCount(tc.factor); got != tc.want {
			t.Errorf("PassCount(%v) = %d, want %d", tc.factor, got, tc.want)
		}
	}
}

func TestPassCountIsMinimal(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for range 5000 {
		factor := 1 + rng.Float64()*63
		n := PassCount(factor)
		if math.Exp2(float64(n)) < factor {
			t.Fatalf("PassCount(%v) = %d is insufficient", factor, n)
		}
		if math.Exp2(float64(n-1)) >= factor {
			t.Fatalf("PassCount(%v) = %d is not minimal", factor, n)
		}
	}
}

func TestPlan(t *testing.T) {
	passes, factor := Plan(1.0, 3.0)
	if passes != 2 || factor != 3 {
		t.Fatalf("Plan(1, 3) = %d, %v", passes, factor)
	}

	passes, _ = Plan(2.0, 1.0)
	if passes != 1 {
		t.Fatalf("shrinking plan should still run one pass, got %d", passes)
	}

	passes, factor = Plan(0, 0.4)
	if math.Abs(factor-4) > 1e-9 || passes != 2 {
		t.Fatalf("zero-duration guard: passes=%d factor=%v", passes, factor)
	}
}
