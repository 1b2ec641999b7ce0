package metrics

import (
	"encoding/json"
	"math"
)

// Exit counts the exit points of a scope.
type Exit struct {
	exit      float64
	sum       float64
	min       float64
	max       float64
	functions int
}

func NewExit() Exit {
	return Exit{min: sentinel, functions: 1}
}

func (s *Exit) Compute(v *Visit) {
	s.exit += float64(v.Rules.Exit(v.Node))
}

func (s *Exit) ComputeSum() {
	s.sum += s.exit
}

func (s *Exit) ComputeMinMax() {
	s.max = math.Max(s.max, s.exit)
	s.min = math.Min(s.min, s.exit)
	s.ComputeSum()
}

func (s *Exit) Merge(other *Exit) {
	s.max = math.Max(s.max, other.max)
	s.min = math.Min(s.min, other.min)
	s.sum += other.sum
}

// Finalize records the number of functions and closures in the scope.
func (s *Exit) Finalize(functions int) {
	s.functions = functions
}

func (s *Exit) Value() float64 { return s.exit }

func (s *Exit) Sum() float64 { return s.sum }

func (s *Exit) Average() *float64 { return ratio(s.sum, float64(s.functions)) }

func (s *Exit) Min() *float64 { return minimum(s.min) }

func (s *Exit) Max() float64 { return s.max }

func (s Exit) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sum     *float64 `json:"sum"`
		Average *float64 `json:"average"`
		Min     *float64 `json:"min"`
		Max     *float64 `json:"max"`
	}{finite(s.sum), s.Average(), s.Min(), finite(s.max)})
}
