package statetransition

// IsJustifiableSlot reports whether candidateSlot is eligible to be a
// justification target given finalizedSlot, using the integer
// reimplementation of the reference's floating-point predicate: true
// iff delta = candidate - finalized is at most 5, or delta is a
// perfect square, or 4*delta+1 is a perfect square (equivalently,
// delta = k*(k+1) for some integer k, the case the reference expresses
// as "sqrt(delta+0.25) has fractional part exactly 0.5"). An integer
// square root avoids the floating-point drift the two equivalent
// sqrt-based checks are prone to at large deltas.
func IsJustifiableSlot(finalizedSlot, candidateSlot uint64) (bool, error) {
	if candidateSlot < finalizedSlot {
		return false, newErr(InvalidJustifiableSlot, "candidate slot %d precedes finalized slot %d", candidateSlot, finalizedSlot)
	}
	delta := candidateSlot - finalizedSlot
	if delta <= 5 {
		return true, nil
	}
	if isPerfectSquare(delta) {
		return true, nil
	}
	if isPerfectSquare(4*delta + 1) {
		return true, nil
	}
	return false, nil
}

// isqrt computes floor(sqrt(n)) for a uint64 using integer-only
// Newton's method starting from n, so no floating-point rounding is
// involved.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

func isPerfectSquare(n uint64) bool {
	r := isqrt(n)
	return r*r == n
}
