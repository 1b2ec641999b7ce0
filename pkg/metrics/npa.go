package metrics

import (
	"encoding/json"

	"github.com/panbanda/mehen/pkg/langs"
)

// visibility accumulates public and total member counts split by class and
// interface scopes.
type visibility struct {
	classPublic, classTotal         float64
	interfacePublic, interfaceTotal float64
	classSum, classTotalSum         float64
	interfaceSum, interfaceTotalSum float64
}

func (s *visibility) add(kind langs.SpaceKind, public, total int) {
	switch kind {
	case langs.SpaceClass:
		s.classPublic += float64(public)
		s.classTotal += float64(total)
	case langs.SpaceInterface:
		s.interfacePublic += float64(public)
		s.interfaceTotal += float64(total)
	}
}

func (s *visibility) ComputeSum() {
	s.classSum += s.classPublic
	s.classTotalSum += s.classTotal
	s.interfaceSum += s.interfacePublic
	s.interfaceTotalSum += s.interfaceTotal
}

func (s *visibility) merge(other *visibility) {
	s.classSum += other.classSum
	s.classTotalSum += other.classTotalSum
	s.interfaceSum += other.interfaceSum
	s.interfaceTotalSum += other.interfaceTotalSum
}

func (s *visibility) total() float64 { return s.classSum + s.interfaceSum }

func (s *visibility) totalMembers() float64 { return s.classTotalSum + s.interfaceTotalSum }

func (s *visibility) classRatio() *float64 { return ratio(s.classSum, s.classTotalSum) }

func (s *visibility) interfaceRatio() *float64 {
	return ratio(s.interfaceSum, s.interfaceTotalSum)
}

// NPA counts public attributes of classes and interfaces.
type NPA struct {
	visibility
}

func NewNPA() NPA { return NPA{} }

func (s *NPA) Compute(v *Visit) {
	if !v.Opens || (v.Kind != langs.SpaceClass && v.Kind != langs.SpaceInterface) {
		return
	}
	if m, ok := v.Rules.Members(v.Node, v.Source); ok {
		s.add(v.Kind, m.PublicAttributes, m.Attributes)
	}
}

func (s *NPA) Merge(other *NPA) { s.merge(&other.visibility) }

// Total is the number of public attributes in the subtree.
func (s *NPA) Total() float64 { return s.total() }

func (s NPA) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Classes             *float64 `json:"classes"`
		Interfaces          *float64 `json:"interfaces"`
		ClassAttributes     *float64 `json:"class_attributes"`
		InterfaceAttributes *float64 `json:"interface_attributes"`
		ClassesAverage      *float64 `json:"classes_average"`
		InterfacesAverage   *float64 `json:"interfaces_average"`
		Total               *float64 `json:"total"`
		TotalAttributes     *float64 `json:"total_attributes"`
		Average             *float64 `json:"average"`
	}{
		finite(s.classSum), finite(s.interfaceSum),
		finite(s.classTotalSum), finite(s.interfaceTotalSum),
		s.classRatio(), s.interfaceRatio(),
		finite(s.total()), finite(s.totalMembers()), ratio(s.total(), s.totalMembers()),
	})
}

// NPM counts public methods of classes and interfaces.
type NPM struct {
	visibility
}

func NewNPM() NPM { return NPM{} }

func (s *NPM) Compute(v *Visit) {
	if !v.Opens || (v.Kind != langs.SpaceClass && v.Kind != langs.SpaceInterface) {
		return
	}
	if m, ok := v.Rules.Members(v.Node, v.Source); ok {
		s.add(v.Kind, m.PublicMethods, m.Methods)
	}
}

func (s *NPM) Merge(other *NPM) { s.merge(&other.visibility) }

// Total is the number of public methods in the subtree.
func (s *NPM) Total() float64 { return s.total() }

func (s NPM) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Classes           *float64 `json:"classes"`
		Interfaces        *float64 `json:"interfaces"`
		ClassMethods      *float64 `json:"class_methods"`
		InterfaceMethods  *float64 `json:"interface_methods"`
		ClassesAverage    *float64 `json:"classes_average"`
		InterfacesAverage *float64 `json:"interfaces_average"`
		Total             *float64 `json:"total"`
		TotalMethods      *float64 `json:"total_methods"`
		Average           *float64 `json:"average"`
	}{
		finite(s.classSum), finite(s.interfaceSum),
		finite(s.classTotalSum), finite(s.interfaceTotalSum),
		s.classRatio(), s.interfaceRatio(),
		finite(s.total()), finite(s.totalMembers()), ratio(s.total(), s.totalMembers()),
	})
}
