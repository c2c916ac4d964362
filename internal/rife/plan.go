package rife

import "math"

// PassCount returns the fewest frame-doubling passes n with 2^n >= rawFactor.
// Factors at or below 1 need none.
func PassCount(rawFactor float64) int {
	if !(rawFactor > 1) {
		return 0
	}
	n := int(math.Ceil(math.Log2(rawFactor)))
	// Guard against Log2 rounding just below an exact power of two.
	for n > 0 && math.Exp2(float64(n-1)) >= rawFactor {
		n--
	}
	for math.Exp2(float64(n)) < rawFactor {
		n++
	}
	return n
}

// Plan returns the number of passes to run for a clip of orig seconds that
// must cover target seconds. Once invoked at least one pass runs.
func Plan(orig, target float64) (passes int, rawFactor float64) {
	if !(orig > 0) {
		orig = 0.1
	}
	rawFactor = target / orig
	passes = max(PassCount(rawFactor), 1)
	return passes, rawFactor
}
