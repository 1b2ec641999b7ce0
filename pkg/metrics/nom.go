package metrics

import (
	"encoding/json"
	"math"
)

// Nom counts the functions and closures defined in a scope.
type Nom struct {
	functions, closures        float64
	functionsSum, closuresSum  float64
	functionsMin, functionsMax float64
	closuresMin, closuresMax   float64
	spaces                     int
}

func NewNom() Nom {
	return Nom{functionsMin: sentinel, closuresMin: sentinel, spaces: 1}
}

func (s *Nom) Compute(v *Visit) {
	switch {
	case v.Rules.IsFunc(v.Node):
		s.functions++
	case v.Rules.IsClosure(v.Node):
		s.closures++
	}
}

func (s *Nom) ComputeSum() {
	s.functionsSum += s.functions
	s.closuresSum += s.closures
}

func (s *Nom) ComputeMinMax() {
	s.functionsMin = math.Min(s.functionsMin, s.functions)
	s.functionsMax = math.Max(s.functionsMax, s.functions)
	s.closuresMin = math.Min(s.closuresMin, s.closures)
	s.closuresMax = math.Max(s.closuresMax, s.closures)
	s.ComputeSum()
}

func (s *Nom) Merge(other *Nom) {
	s.functionsMin = math.Min(s.functionsMin, other.functionsMin)
	s.functionsMax = math.Max(s.functionsMax, other.functionsMax)
	s.closuresMin = math.Min(s.closuresMin, other.closuresMin)
	s.closuresMax = math.Max(s.closuresMax, other.closuresMax)
	s.functionsSum += other.functionsSum
	s.closuresSum += other.closuresSum
	s.spaces += other.spaces
}

func (s *Nom) Functions() float64 { return s.functionsSum }

func (s *Nom) Closures() float64 { return s.closuresSum }

// Total is the number of functions and closures in the subtree.
func (s *Nom) Total() float64 { return s.functionsSum + s.closuresSum }

func (s Nom) MarshalJSON() ([]byte, error) {
	spaces := float64(s.spaces)
	return json.Marshal(struct {
		Functions        *float64 `json:"functions"`
		Closures         *float64 `json:"closures"`
		FunctionsAverage *float64 `json:"functions_average"`
		ClosuresAverage  *float64 `json:"closures_average"`
		Total            *float64 `json:"total"`
		Average          *float64 `json:"average"`
		FunctionsMin     *float64 `json:"functions_min"`
		FunctionsMax     *float64 `json:"functions_max"`
		ClosuresMin      *float64 `json:"closures_min"`
		ClosuresMax      *float64 `json:"closures_max"`
	}{
		finite(s.functionsSum), finite(s.closuresSum),
		ratio(s.functionsSum, spaces), ratio(s.closuresSum, spaces),
		finite(s.Total()), ratio(s.Total(), spaces),
		minimum(s.functionsMin), finite(s.functionsMax),
		minimum(s.closuresMin), finite(s.closuresMax),
	})
}
