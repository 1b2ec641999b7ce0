package metrics

import (
	"encoding/json"
	"math"
)

// NArgs counts the parameters of functions and closures.
type NArgs struct {
	fnArgs, closureArgs    float64
	fnSum, closureSum      float64
	fnMin, fnMax           float64
	closureMin, closureMax float64
	functions, closures    int
}

func NewNArgs() NArgs {
	return NArgs{fnMin: sentinel, closureMin: sentinel}
}

func (s *NArgs) Compute(v *Visit) {
	switch {
	case v.Rules.IsFunc(v.Node):
		s.fnArgs += float64(v.Rules.NArgs(v.Node))
	case v.Rules.IsClosure(v.Node):
		s.closureArgs += float64(v.Rules.NArgs(v.Node))
	}
}

func (s *NArgs) ComputeSum() {
	s.fnSum += s.fnArgs
	s.closureSum += s.closureArgs
}

func (s *NArgs) ComputeMinMax() {
	s.fnMin = math.Min(s.fnMin, s.fnArgs)
	s.fnMax = math.Max(s.fnMax, s.fnArgs)
	s.closureMin = math.Min(s.closureMin, s.closureArgs)
	s.closureMax = math.Max(s.closureMax, s.closureArgs)
	s.ComputeSum()
}

func (s *NArgs) Merge(other *NArgs) {
	s.fnMin = math.Min(s.fnMin, other.fnMin)
	s.fnMax = math.Max(s.fnMax, other.fnMax)
	s.closureMin = math.Min(s.closureMin, other.closureMin)
	s.closureMax = math.Max(s.closureMax, other.closureMax)
	s.fnSum += other.fnSum
	s.closureSum += other.closureSum
}

// Finalize records how many functions and closures the averages cover.
func (s *NArgs) Finalize(functions, closures int) {
	s.functions = functions
	s.closures = closures
}

func (s *NArgs) Total() float64 { return s.fnSum + s.closureSum }

func (s NArgs) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalFunctions   *float64 `json:"total_functions"`
		TotalClosures    *float64 `json:"total_closures"`
		AverageFunctions *float64 `json:"average_functions"`
		AverageClosures  *float64 `json:"average_closures"`
		Total            *float64 `json:"total"`
		Average          *float64 `json:"average"`
		FunctionsMin     *float64 `json:"functions_min"`
		FunctionsMax     *float64 `json:"functions_max"`
		ClosuresMin      *float64 `json:"closures_min"`
		ClosuresMax      *float64 `json:"closures_max"`
	}{
		finite(s.fnSum), finite(s.closureSum),
		ratio(s.fnSum, float64(s.functions)), ratio(s.closureSum, float64(s.closures)),
		finite(s.Total()), ratio(s.Total(), float64(s.functions+s.closures)),
		minimum(s.fnMin), finite(s.fnMax),
		minimum(s.closureMin), finite(s.closureMax),
	})
}
