package metrics

import (
	"encoding/json"
	"math"

	"github.com/panbanda/mehen/pkg/langs"
)

// abcVector is one (assignments, branches, conditions) triple.
type abcVector struct {
	a, b, c float64
}

func (v abcVector) magnitude() float64 {
	return math.Sqrt(v.a*v.a + v.b*v.b + v.c*v.c)
}

func (v abcVector) add(o abcVector) abcVector {
	return abcVector{v.a + o.a, v.b + o.b, v.c + o.c}
}

// ABC counts assignments, branches (calls) and conditions.
type ABC struct {
	own, sum               abcVector
	aMin, bMin, cMin, mMin float64
	aMax, bMax, cMax, mMax float64
	spaces                 int
}

func NewABC() ABC {
	return ABC{aMin: sentinel, bMin: sentinel, cMin: sentinel, mMin: sentinel, spaces: 1}
}

func (s *ABC) Compute(v *Visit) {
	switch v.Rules.ABC(v.Node) {
	case langs.ABCAssignment:
		s.own.a++
	case langs.ABCBranch:
		s.own.b++
	case langs.ABCCondition:
		s.own.c++
	}
}

func (s *ABC) ComputeSum() {
	s.sum = s.sum.add(s.own)
}

func (s *ABC) ComputeMinMax() {
	s.aMin, s.aMax = math.Min(s.aMin, s.own.a), math.Max(s.aMax, s.own.a)
	s.bMin, s.bMax = math.Min(s.bMin, s.own.b), math.Max(s.bMax, s.own.b)
	s.cMin, s.cMax = math.Min(s.cMin, s.own.c), math.Max(s.cMax, s.own.c)
	m := s.own.magnitude()
	s.mMin, s.mMax = math.Min(s.mMin, m), math.Max(s.mMax, m)
	s.ComputeSum()
}

func (s *ABC) Merge(other *ABC) {
	s.aMin, s.aMax = math.Min(s.aMin, other.aMin), math.Max(s.aMax, other.aMax)
	s.bMin, s.bMax = math.Min(s.bMin, other.bMin), math.Max(s.bMax, other.bMax)
	s.cMin, s.cMax = math.Min(s.cMin, other.cMin), math.Max(s.cMax, other.cMax)
	s.mMin, s.mMax = math.Min(s.mMin, other.mMin), math.Max(s.mMax, other.mMax)
	s.sum = s.sum.add(other.sum)
	s.spaces += other.spaces
}

func (s *ABC) Assignments() float64 { return s.sum.a }

func (s *ABC) Branches() float64 { return s.sum.b }

func (s *ABC) Conditions() float64 { return s.sum.c }

// Magnitude is the euclidean norm of the summed vector.
func (s *ABC) Magnitude() float64 { return s.sum.magnitude() }

func (s ABC) MarshalJSON() ([]byte, error) {
	n := float64(s.spaces)
	return json.Marshal(struct {
		Assignments        *float64 `json:"assignments"`
		Branches           *float64 `json:"branches"`
		Conditions         *float64 `json:"conditions"`
		Magnitude          *float64 `json:"magnitude"`
		AssignmentsAverage *float64 `json:"assignments_average"`
		BranchesAverage    *float64 `json:"branches_average"`
		ConditionsAverage  *float64 `json:"conditions_average"`
		MagnitudeAverage   *float64 `json:"magnitude_average"`
		AssignmentsMin     *float64 `json:"assignments_min"`
		AssignmentsMax     *float64 `json:"assignments_max"`
		BranchesMin        *float64 `json:"branches_min"`
		BranchesMax        *float64 `json:"branches_max"`
		ConditionsMin      *float64 `json:"conditions_min"`
		ConditionsMax      *float64 `json:"conditions_max"`
		MagnitudeMin       *float64 `json:"magnitude_min"`
		MagnitudeMax       *float64 `json:"magnitude_max"`
	}{
		finite(s.sum.a), finite(s.sum.b), finite(s.sum.c), finite(s.Magnitude()),
		ratio(s.sum.a, n), ratio(s.sum.b, n), ratio(s.sum.c, n), ratio(s.Magnitude(), n),
		minimum(s.aMin), finite(s.aMax),
		minimum(s.bMin), finite(s.bMax),
		minimum(s.cMin), finite(s.cMax),
		minimum(s.mMin), finite(s.mMax),
	})
}
