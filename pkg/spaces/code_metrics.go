package spaces

import (
	"encoding/json"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/metrics"
)

// CodeMetrics holds one accumulator per metric family for a single space.
type CodeMetrics struct {
	NArgs      metrics.NArgs
	Exit       metrics.Exit
	Cognitive  metrics.Cognitive
	Cyclomatic metrics.Cyclomatic
	Halstead   metrics.Halstead
	Loc        metrics.Loc
	Nom        metrics.Nom
	MI         metrics.MI
	ABC        metrics.ABC
	WMC        metrics.WMC
	NPM        metrics.NPM
	NPA        metrics.NPA

	kind langs.SpaceKind
}

// NewCodeMetrics returns empty accumulators for a space of the given kind.
func NewCodeMetrics(kind langs.SpaceKind) CodeMetrics {
	return CodeMetrics{
		NArgs:      metrics.NewNArgs(),
		Exit:       metrics.NewExit(),
		Cognitive:  metrics.NewCognitive(),
		Cyclomatic: metrics.NewCyclomatic(),
		Loc:        metrics.NewLoc(),
		Nom:        metrics.NewNom(),
		MI:         metrics.NewMI(),
		ABC:        metrics.NewABC(),
		WMC:        metrics.NewWMC(),
		NPM:        metrics.NewNPM(),
		NPA:        metrics.NewNPA(),
		kind:       kind,
	}
}

// Compute folds one node into every family. Halstead is accumulated on the
// side in HalsteadMaps and finalized when the space is sealed.
func (m *CodeMetrics) Compute(v *metrics.Visit) {
	m.Cognitive.Compute(v)
	m.Cyclomatic.Compute(v)
	m.Loc.Compute(v)
	m.Nom.Compute(v)
	m.NArgs.Compute(v)
	m.Exit.Compute(v)
	m.ABC.Compute(v)
	m.NPM.Compute(v)
	m.NPA.Compute(v)
}

// ComputeMinMax seals the extrema of the families that track them.
func (m *CodeMetrics) ComputeMinMax() {
	m.Cyclomatic.ComputeMinMax()
	m.Exit.ComputeMinMax()
	m.Cognitive.ComputeMinMax()
	m.NArgs.ComputeMinMax()
	m.Nom.ComputeMinMax()
	m.Loc.ComputeMinMax()
	m.ABC.ComputeMinMax()
}

// ComputeSum seals the families that only keep sums.
func (m *CodeMetrics) ComputeSum() {
	m.WMC.ComputeSum()
	m.NPM.ComputeSum()
	m.NPA.ComputeSum()
}

// Merge absorbs the metrics of a sealed child space.
func (m *CodeMetrics) Merge(other *CodeMetrics) {
	m.Cognitive.Merge(&other.Cognitive)
	m.Cyclomatic.Merge(&other.Cyclomatic)
	m.Loc.Merge(&other.Loc)
	m.Nom.Merge(&other.Nom)
	m.NArgs.Merge(&other.NArgs)
	m.Exit.Merge(&other.Exit)
	m.ABC.Merge(&other.ABC)
	m.WMC.Merge(&other.WMC)
	m.NPM.Merge(&other.NPM)
	m.NPA.Merge(&other.NPA)
}

// WMCEnabled reports whether WMC is meaningful for the space.
func (m *CodeMetrics) WMCEnabled() bool {
	return m.kind != langs.SpaceFunction && m.kind != langs.SpaceUnknown
}

// MembersEnabled reports whether NPA and NPM are meaningful for the space.
func (m *CodeMetrics) MembersEnabled() bool {
	switch m.kind {
	case langs.SpaceUnit, langs.SpaceClass, langs.SpaceInterface:
		return true
	}
	return false
}

func (m CodeMetrics) MarshalJSON() ([]byte, error) {
	out := struct {
		NArgs      metrics.NArgs      `json:"nargs"`
		Exit       metrics.Exit       `json:"nexits"`
		Cognitive  metrics.Cognitive  `json:"cognitive"`
		Cyclomatic metrics.Cyclomatic `json:"cyclomatic"`
		Halstead   metrics.Halstead   `json:"halstead"`
		Loc        metrics.Loc        `json:"loc"`
		Nom        metrics.Nom        `json:"nom"`
		MI         metrics.MI         `json:"mi"`
		ABC        metrics.ABC        `json:"abc"`
		WMC        *metrics.WMC       `json:"wmc,omitempty"`
		NPM        *metrics.NPM       `json:"npm,omitempty"`
		NPA        *metrics.NPA       `json:"npa,omitempty"`
	}{
		NArgs:      m.NArgs,
		Exit:       m.Exit,
		Cognitive:  m.Cognitive,
		Cyclomatic: m.Cyclomatic,
		Halstead:   m.Halstead,
		Loc:        m.Loc,
		Nom:        m.Nom,
		MI:         m.MI,
		ABC:        m.ABC,
	}
	if m.WMCEnabled() {
		out.WMC = &m.WMC
	}
	if m.MembersEnabled() {
		out.NPM = &m.NPM
		out.NPA = &m.NPA
	}
	return json.Marshal(out)
}
