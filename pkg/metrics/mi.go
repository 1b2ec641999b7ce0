package metrics

import (
	"encoding/json"
	"math"
)

// MI is the maintainability index, derived from the merged Halstead volume,
// the average cyclomatic complexity and the line counts of a scope.
type MI struct {
	volume     float64
	cyclomatic float64
	sloc       float64
	cloc       float64
}

func NewMI() MI { return MI{} }

func (s *MI) Compute(loc *Loc, cyc *Cyclomatic, h *Halstead) {
	s.volume = Value(h.Volume())
	s.cyclomatic = cyc.Average()
	s.sloc = loc.SLOC()
	s.cloc = loc.CLOC()
}

func (s *MI) Original() float64 {
	return 171 - 5.2*math.Log(s.volume) - 0.23*s.cyclomatic - 16.2*math.Log(s.sloc)
}

// SEI adds a bonus for comment density.
func (s *MI) SEI() float64 {
	return 171 - 5.2*math.Log2(s.volume) - 0.23*s.cyclomatic - 16.2*math.Log2(s.sloc) +
		50*math.Sin(math.Sqrt(s.cloc/s.sloc*2.4))
}

// VisualStudio rescales the original index to 0..100.
func (s *MI) VisualStudio() float64 {
	return math.Max(0, s.Original()*100/171)
}

func (s MI) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Original     *float64 `json:"mi_original"`
		SEI          *float64 `json:"mi_sei"`
		VisualStudio *float64 `json:"mi_visual_studio"`
	}{finite(s.Original()), finite(s.SEI()), finite(s.VisualStudio())})
}
