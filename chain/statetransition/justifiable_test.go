package statetransition

import "testing"

func TestIsJustifiableSlotExamples(t *testing.T) {
	cases := []struct {
		finalized uint64
		candidate uint64
		want      bool
	}{
		{10, 10, true},
		{0, 9, true},
		{0, 7, false},
		{0, 0, true},
		{0, 5, true},
		{0, 6, true},
		{0, 4, true},
	}
	for _, c := range cases {
		got, err := IsJustifiableSlot(c.finalized, c.candidate)
		if err != nil {
			t.Fatalf("IsJustifiableSlot(%d, %d) returned error: %v", c.finalized, c.candidate, err)
		}
		if got != c.want {
			t.Errorf("IsJustifiableSlot(%d, %d) = %v, want %v", c.finalized, c.candidate, got, c.want)
		}
	}
}

func TestIsJustifiableSlotRejectsPastCandidate(t *testing.T) {
	if _, err := IsJustifiableSlot(10, 9); err == nil {
		t.Fatal("expected error when candidate precedes finalized")
	}
}

func TestIsJustifiableSlotBoundarySweep(t *testing.T) {
	// Every delta in [0, 100] must agree with the direct perfect-square
	// reimplementation of the floating-point predicate.
	for delta := uint64(0); delta <= 100; delta++ {
		got, err := IsJustifiableSlot(0, delta)
		if err != nil {
			t.Fatalf("IsJustifiableSlot(0, %d) returned error: %v", delta, err)
		}
		want := delta <= 5 || isPerfectSquare(delta) || isPerfectSquare(4*delta+1)
		if got != want {
			t.Errorf("IsJustifiableSlot(0, %d) = %v, want %v", delta, got, want)
		}
	}
}

func TestIsqrtExactOnPerfectSquares(t *testing.T) {
	for k := uint64(0); k <= 50; k++ {
		n := k * k
		if got := isqrt(n); got != k {
			t.Errorf("isqrt(%d) = %d, want %d", n, got, k)
		}
	}
}
