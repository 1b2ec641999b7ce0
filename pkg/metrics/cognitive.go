package metrics

import (
	"encoding/json"
	"math"

	"github.com/panbanda/mehen/pkg/langs"
)

// Cognitive measures how hard control flow is to follow. Structures that
// break the linear flow cost one point plus their nesting level; else
// branches and boolean operator sequences cost one point.
type Cognitive struct {
	structural float64
	sum        float64
	min        float64
	max        float64
	functions  int
}

func NewCognitive() Cognitive {
	return Cognitive{min: sentinel}
}

func (s *Cognitive) Compute(v *Visit) {
	switch v.Cognitive {
	case langs.CogNesting:
		s.structural += 1 + float64(v.Nesting)
	case langs.CogHybrid, langs.CogBoolean:
		s.structural++
	}
}

func (s *Cognitive) ComputeSum() {
	s.sum += s.structural
}

func (s *Cognitive) ComputeMinMax() {
	s.max = math.Max(s.max, s.structural)
	s.min = math.Min(s.min, s.structural)
	s.ComputeSum()
}

func (s *Cognitive) Merge(other *Cognitive) {
	s.max = math.Max(s.max, other.max)
	s.min = math.Min(s.min, other.min)
	s.sum += other.sum
}

// Finalize records the number of functions and closures the average is
// taken over.
func (s *Cognitive) Finalize(functions int) {
	s.functions = functions
}

func (s *Cognitive) Value() float64 { return s.structural }

func (s *Cognitive) Sum() float64 { return s.sum }

// Average is nil when the scope holds no function.
func (s *Cognitive) Average() *float64 { return ratio(s.sum, float64(s.functions)) }

func (s *Cognitive) Min() *float64 { return minimum(s.min) }

func (s *Cognitive) Max() float64 { return s.max }

func (s Cognitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sum     *float64 `json:"sum"`
		Average *float64 `json:"average"`
		Min     *float64 `json:"min"`
		Max     *float64 `json:"max"`
	}{finite(s.sum), s.Average(), s.Min(), finite(s.max)})
}
