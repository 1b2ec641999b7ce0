package metrics

import (
	"encoding/json"
	"math"
)

// Cyclomatic is the McCabe complexity of a scope: 1 plus one for every
// branch, loop, case and short-circuit operator.
type Cyclomatic struct {
	value float64
	sum   float64
	min   float64
	max   float64
	n     int
}

// NewCyclomatic returns the stats of a scope without branches.
func NewCyclomatic() Cyclomatic {
	return Cyclomatic{value: 1, min: sentinel, n: 1}
}

func (s *Cyclomatic) Compute(v *Visit) {
	s.value += float64(v.Rules.Cyclomatic(v.Node))
}

// ComputeSum folds the scope's own value into its sum.
func (s *Cyclomatic) ComputeSum() {
	s.sum += s.value
}

// ComputeMinMax folds the scope's own value into its extrema and sum.
func (s *Cyclomatic) ComputeMinMax() {
	s.max = math.Max(s.max, s.value)
	s.min = math.Min(s.min, s.value)
	s.ComputeSum()
}

func (s *Cyclomatic) Merge(other *Cyclomatic) {
	s.max = math.Max(s.max, other.max)
	s.min = math.Min(s.min, other.min)
	s.sum += other.sum
	s.n += other.n
}

// Value is the scope's own complexity.
func (s *Cyclomatic) Value() float64 { return s.value }

// Sum is the complexity of the scope and all its descendants.
func (s *Cyclomatic) Sum() float64 { return s.sum }

// Average is the sum over the number of scopes.
func (s *Cyclomatic) Average() float64 { return s.sum / float64(s.n) }

func (s *Cyclomatic) Min() *float64 { return minimum(s.min) }

func (s *Cyclomatic) Max() float64 { return s.max }

func (s Cyclomatic) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sum     *float64 `json:"sum"`
		Average *float64 `json:"average"`
		Min     *float64 `json:"min"`
		Max     *float64 `json:"max"`
	}{finite(s.sum), ratio(s.sum, float64(s.n)), s.Min(), finite(s.max)})
}
