package metrics

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/panbanda/mehen/pkg/langs"
)

func sealedCyclomatic(value float64) Cyclomatic {
	c := NewCyclomatic()
	c.value = value
	c.ComputeMinMax()
	return c
}

func TestCyclomaticMergeOrderIndependent(t *testing.T) {
	children := []Cyclomatic{sealedCyclomatic(3), sealedCyclomatic(1), sealedCyclomatic(7)}

	forward := sealedCyclomatic(2)
	for i := range children {
		forward.Merge(&children[i])
	}
	backward := sealedCyclomatic(2)
	for i := len(children) - 1; i >= 0; i-- {
		backward.Merge(&children[i])
	}

	if forward != backward {
		t.Fatalf("merge order changed result: %+v vs %+v", forward, backward)
	}
	if forward.Sum() != 13 {
		t.Errorf("sum = %v, want 13", forward.Sum())
	}
	if forward.Max() != 7 || *forward.Min() != 1 {
		t.Errorf("min/max = %v/%v, want 1/7", *forward.Min(), forward.Max())
	}
	if got := forward.Average(); got != 13.0/4 {
		t.Errorf("average = %v, want %v", got, 13.0/4)
	}
}

func TestCyclomaticMergeAssociative(t *testing.T) {
	a, b, c := sealedCyclomatic(2), sealedCyclomatic(4), sealedCyclomatic(6)

	left := sealedCyclomatic(1)
	ab := a
	ab.Merge(&b)
	left.Merge(&ab)
	left.Merge(&c)

	right := sealedCyclomatic(1)
	bc := b
	bc.Merge(&c)
	right.Merge(&a)
	right.Merge(&bc)

	if left.Sum() != right.Sum() || left.Max() != right.Max() || *left.Min() != *right.Min() {
		t.Errorf("grouping changed result: %+v vs %+v", left, right)
	}
}

func TestUntouchedMinimumIsNull(t *testing.T) {
	c := NewCognitive()
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"min":null`) {
		t.Errorf("sentinel minimum leaked: %s", data)
	}
	if !strings.Contains(string(data), `"average":null`) {
		t.Errorf("average without functions should be null: %s", data)
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		in   float64
		null bool
	}{
		{1.5, false},
		{0, false},
		{math.NaN(), true},
		{math.Inf(1), true},
		{math.Inf(-1), true},
	}
	for _, tt := range tests {
		if got := finite(tt.in); (got == nil) != tt.null {
			t.Errorf("finite(%v) null = %v, want %v", tt.in, got == nil, tt.null)
		}
	}
	if ratio(1, 0) != nil {
		t.Error("ratio with zero denominator should be null")
	}
	if minimum(sentinel) != nil {
		t.Error("sentinel minimum should be null")
	}
}

func TestHalsteadDerived(t *testing.T) {
	h := Halstead{n1: 2, N1: 4, n2: 2, N2: 4}

	if got := *h.Volume(); got != 16 {
		t.Errorf("volume = %v, want 16", got)
	}
	if got := *h.Difficulty(); got != 2 {
		t.Errorf("difficulty = %v, want 2", got)
	}
	if got := *h.Effort(); got != 32 {
		t.Errorf("effort = %v, want 32", got)
	}
	if got := *h.Level(); got != 0.5 {
		t.Errorf("level = %v, want 0.5", got)
	}
	if got := *h.EstimatedProgramLength(); got != 4 {
		t.Errorf("estimated length = %v, want 4", got)
	}
	if got := *h.PurityRatio(); got != 0.5 {
		t.Errorf("purity = %v, want 0.5", got)
	}
}

func TestHalsteadDegenerateIsNull(t *testing.T) {
	h := Halstead{n1: 3, N1: 5}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"estimated_program_length", "volume", "difficulty", "effort", "time", "bugs"} {
		if !strings.Contains(string(data), `"`+key+`":null`) {
			t.Errorf("%s should be null in %s", key, data)
		}
	}
	if !strings.Contains(string(data), `"length":5`) || !strings.Contains(string(data), `"vocabulary":3`) {
		t.Errorf("counts missing in %s", data)
	}
}

func TestHalsteadMapsMerge(t *testing.T) {
	parent := NewHalsteadMaps()
	parent.operators[1] = 2
	parent.operands[10] = &operand{text: "a", count: 1}

	child := NewHalsteadMaps()
	child.operators[1] = 1
	child.operators[2] = 1
	child.operands[10] = &operand{text: "a", count: 2}
	child.operands[11] = &operand{text: "b", count: 1}

	parent.Merge(&child)

	var h Halstead
	parent.Finalize(&h)
	if h.n1 != 2 || h.N1 != 4 || h.n2 != 2 || h.N2 != 4 {
		t.Errorf("merged counts = %+v", h)
	}
	if got := parent.Operands(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("operands = %v", got)
	}
	if child.operands[10].count != 2 {
		t.Error("merge mutated the child tables")
	}
}

func TestMIOriginal(t *testing.T) {
	mi := MI{volume: math.E, cyclomatic: 0, sloc: 1, cloc: 0}
	want := 171 - 5.2
	if got := mi.Original(); math.Abs(got-want) > 1e-9 {
		t.Errorf("mi_original = %v, want %v", got, want)
	}
	if got := mi.VisualStudio(); math.Abs(got-want*100/171) > 1e-9 {
		t.Errorf("mi_visual_studio = %v", got)
	}

	empty := MI{}
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Inf") || strings.Contains(string(data), "NaN") {
		t.Errorf("non-finite value leaked: %s", data)
	}
}

func TestABCMagnitude(t *testing.T) {
	a := NewABC()
	a.own = abcVector{a: 3, b: 4}
	a.ComputeMinMax()
	if got := a.Magnitude(); got != 5 {
		t.Errorf("magnitude = %v, want 5", got)
	}

	child := NewABC()
	child.own = abcVector{c: 12}
	child.ComputeMinMax()
	a.Merge(&child)
	if got := a.Magnitude(); got != 13 {
		t.Errorf("merged magnitude = %v, want 13", got)
	}
}

func TestWMCChargesClassesOnly(t *testing.T) {
	class := NewWMC()
	class.kind = langs.SpaceClass

	method := NewWMC()
	cyc := sealedCyclomatic(4)
	method.Compute(langs.SpaceFunction, &cyc)

	class.Merge(&method)
	class.ComputeSum()
	if class.Classes() != 4 {
		t.Errorf("class wmc = %v, want 4", class.Classes())
	}

	outer := NewWMC()
	outer.kind = langs.SpaceFunction
	outer.Merge(&method)
	outer.ComputeSum()
	if outer.Total() != 0 {
		t.Errorf("function wmc = %v, want 0", outer.Total())
	}
}

func TestLocExtremaFoldOwnValues(t *testing.T) {
	l := NewLoc()
	l.start, l.end = 0, 4
	l.lines.Add(1)
	l.lines.Add(2)
	l.ComputeMinMax()

	if l.sloc.min != 5 || l.sloc.max != 5 {
		t.Errorf("sloc extrema = %+v", l.sloc)
	}
	if l.Blank() != 3 {
		t.Errorf("blank = %v, want 3", l.Blank())
	}
}
