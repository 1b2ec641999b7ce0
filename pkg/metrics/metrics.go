// Package metrics implements the per-scope metric families. Every family
// follows the same shape: Compute folds one visited node into the current
// scope, ComputeSum and ComputeMinMax seal the scope's own contribution, and
// Merge absorbs a sealed child scope.
package metrics

import (
	"math"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
)

// Visit describes one node handed to the families of the innermost open scope.
type Visit struct {
	Node   node.Node
	Rules  langs.Rules
	Source []byte

	// Opens is set when Node opened the scope receiving the visit.
	Opens bool
	// Kind is the kind of the receiving scope.
	Kind langs.SpaceKind
	// Nesting is the cognitive nesting level at Node.
	Nesting int
	// Cognitive is the cognitive role of Node.
	Cognitive langs.CognitiveClass
}

// Family is the per-node accumulation step every metric implements.
type Family interface {
	Compute(v *Visit)
}

// sentinel initializes minimum accumulators.
const sentinel = math.MaxFloat64

// finite returns nil for NaN and infinities so they serialize as null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// minimum returns nil when no value ever replaced the sentinel.
func minimum(v float64) *float64 {
	if v == sentinel {
		return nil
	}
	return finite(v)
}

// ratio divides, reporting nil on a zero denominator.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	return finite(num / den)
}

// Value dereferences an optional metric, mapping null to NaN.
func Value(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
