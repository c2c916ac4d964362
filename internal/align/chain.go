package align

import (
	"fmt"
	"math"

	"dubsync/internal/services"
)

// Bounds limits a single tempo filter stage.
type Bounds struct {
	Min float64
	Max float64
	// Epsilon is the distance from 1.0 below which the final stage is dropped.
	Epsilon float64
}

// DefaultBounds matches the atempo filter's accepted range.
func DefaultBounds() Bounds {
	return Bounds{Min: 0.5, Max: 2.0, Epsilon: 0.01}
}

func (b Bounds) validate() error {
	if b.Min <= 0 || b.Min >= 1 {
		return fmt.Errorf("tempo min %v must be in (0, 1)", b.Min)
	}
	if b.Max <= 1 {
		return fmt.Errorf("tempo max %v must be > 1", b.Max)
	}
	if b.Epsilon < 0 {
		return fmt.Errorf("tempo epsilon %v must be >= 0", b.Epsilon)
	}
	return nil
}

// TempoChain decomposes source/target into stages that each fit bounds.
// Factors above 1 speed the source up. The product of the chain equals the
// overall factor, except that a final stage within Epsilon of 1 is omitted.
func TempoChain(source, target float64, bounds Bounds) ([]float64, error) {
	if err := bounds.validate(); err != nil {
		return nil, services.Wrap(services.ErrAlignment, "align", "tempo chain", "invalid bounds", err)
	}
	if !(target > 0) || math.IsInf(target, 0) {
		return nil, services.Wrap(services.ErrAlignment, "align", "tempo chain",
			fmt.Sprintf("target duration %v must be positive", target), nil)
	}
	if !(source > 0) || math.IsInf(source, 0) {
		return nil, services.Wrap(services.ErrAlignment, "align", "tempo chain",
			fmt.Sprintf("source duration %v must be positive", source), nil)
	}

	remaining := source / target
	var chain []float64
	for remaining > bounds.Max {
		chain = append(chain, bounds.Max)
		remaining /= bounds.Max
	}
	for remaining < bounds.Min {
		chain = append(chain, bounds.Min)
		remaining /= bounds.Min
	}
	if math.Abs(remaining-1) > bounds.Epsilon {
		chain = append(chain, remaining)
	}
	return chain, nil
}
