package metrics

import (
	"encoding/json"

	"github.com/panbanda/mehen/pkg/langs"
)

// WMC is the weighted methods per class: the cyclomatic complexity of every
// method, summed per class or interface.
type WMC struct {
	kind       langs.SpaceKind
	cyclomatic float64

	class, iface       float64
	classSum, ifaceSum float64
}

func NewWMC() WMC { return WMC{} }

// Compute records the scope kind and, for functions, the complexity that
// the enclosing class or interface will be charged with.
func (s *WMC) Compute(kind langs.SpaceKind, cyc *Cyclomatic) {
	s.kind = kind
	if kind == langs.SpaceFunction {
		s.cyclomatic = cyc.Sum()
	}
}

func (s *WMC) ComputeSum() {
	s.classSum += s.class
	s.ifaceSum += s.iface
}

func (s *WMC) Merge(other *WMC) {
	if other.kind == langs.SpaceFunction {
		switch s.kind {
		case langs.SpaceClass:
			s.class += other.cyclomatic
		case langs.SpaceInterface:
			s.iface += other.cyclomatic
		}
	}
	s.classSum += other.classSum
	s.ifaceSum += other.ifaceSum
}

func (s *WMC) Classes() float64 { return s.classSum }

func (s *WMC) Interfaces() float64 { return s.ifaceSum }

func (s *WMC) Total() float64 { return s.classSum + s.ifaceSum }

func (s WMC) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Classes    *float64 `json:"classes"`
		Interfaces *float64 `json:"interfaces"`
		Total      *float64 `json:"total"`
	}{finite(s.classSum), finite(s.ifaceSum), finite(s.Total())})
}
