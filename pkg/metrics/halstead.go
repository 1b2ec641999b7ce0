package metrics

import (
	"encoding/json"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/panbanda/mehen/pkg/langs"
)

// operand is an interned operand: its source text and occurrence count.
type operand struct {
	text  string
	count uint64
}

// HalsteadMaps holds the operator and operand occurrence tables of one open
// scope. Operators are keyed by kind id, operands by a hash of their source
// text.
type HalsteadMaps struct {
	operators map[uint16]uint64
	operands  map[uint64]*operand
}

func NewHalsteadMaps() HalsteadMaps {
	return HalsteadMaps{
		operators: make(map[uint16]uint64),
		operands:  make(map[uint64]*operand),
	}
}

func (m *HalsteadMaps) Compute(v *Visit) {
	switch v.Rules.OpType(v.Node) {
	case langs.OpOperator:
		m.operators[v.Node.Kind()]++
	case langs.OpOperand:
		text := v.Node.Text(v.Source)
		if !utf8.Valid(text) {
			return
		}
		key := xxhash.Sum64(text)
		if op, ok := m.operands[key]; ok {
			op.count++
			return
		}
		m.operands[key] = &operand{text: string(text), count: 1}
	}
}

// Merge union-sums the tables of a child scope.
func (m *HalsteadMaps) Merge(other *HalsteadMaps) {
	for k, c := range other.operators {
		m.operators[k] += c
	}
	for k, op := range other.operands {
		if mine, ok := m.operands[k]; ok {
			mine.count += op.count
			continue
		}
		m.operands[k] = &operand{text: op.text, count: op.count}
	}
}

// Finalize writes the distinct and total counts into stats.
func (m *HalsteadMaps) Finalize(stats *Halstead) {
	stats.n1 = uint64(len(m.operators))
	stats.N1 = 0
	for _, c := range m.operators {
		stats.N1 += c
	}
	stats.n2 = uint64(len(m.operands))
	stats.N2 = 0
	for _, op := range m.operands {
		stats.N2 += op.count
	}
}

// Operators returns the distinct operator kinds, sorted.
func (m *HalsteadMaps) Operators() []uint16 {
	out := make([]uint16, 0, len(m.operators))
	for k := range m.operators {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Operands returns the distinct operand texts, sorted.
func (m *HalsteadMaps) Operands() []string {
	out := make([]string, 0, len(m.operands))
	for _, op := range m.operands {
		out = append(out, op.text)
	}
	sort.Strings(out)
	return out
}

// Halstead holds the distinct (n1, n2) and total (N1, N2) operator and
// operand counts of a scope and derives the Halstead suite from them.
type Halstead struct {
	n1, N1, n2, N2 uint64
}

func (s *Halstead) UniqueOperators() float64 { return float64(s.n1) }

func (s *Halstead) Operators() float64 { return float64(s.N1) }

func (s *Halstead) UniqueOperands() float64 { return float64(s.n2) }

func (s *Halstead) Operands() float64 { return float64(s.N2) }

func (s *Halstead) Length() float64 { return float64(s.N1 + s.N2) }

func (s *Halstead) Vocabulary() float64 { return float64(s.n1 + s.n2) }

// degenerate reports a scope without operators or without operands, for
// which the derived measures are undefined.
func (s *Halstead) degenerate() bool { return s.n1 == 0 || s.n2 == 0 }

func (s *Halstead) EstimatedProgramLength() *float64 {
	if s.degenerate() {
		return nil
	}
	n1, n2 := float64(s.n1), float64(s.n2)
	return finite(n1*math.Log2(n1) + n2*math.Log2(n2))
}

func (s *Halstead) PurityRatio() *float64 {
	est := s.EstimatedProgramLength()
	if est == nil {
		return nil
	}
	return ratio(*est, s.Length())
}

func (s *Halstead) Volume() *float64 {
	if s.degenerate() {
		return nil
	}
	return finite(s.Length() * math.Log2(s.Vocabulary()))
}

func (s *Halstead) Difficulty() *float64 {
	if s.degenerate() {
		return nil
	}
	return finite(float64(s.n1) / 2 * float64(s.N2) / float64(s.n2))
}

func (s *Halstead) Level() *float64 {
	d := s.Difficulty()
	if d == nil {
		return nil
	}
	return ratio(1, *d)
}

func (s *Halstead) Effort() *float64 {
	d, v := s.Difficulty(), s.Volume()
	if d == nil || v == nil {
		return nil
	}
	return finite(*d * *v)
}

// Time is the effort in seconds, at 18 elementary discriminations per second.
func (s *Halstead) Time() *float64 {
	e := s.Effort()
	if e == nil {
		return nil
	}
	return finite(*e / 18)
}

func (s *Halstead) Bugs() *float64 {
	e := s.Effort()
	if e == nil {
		return nil
	}
	return finite(math.Pow(*e, 2.0/3.0) / 3000)
}

func (s Halstead) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N1u        uint64   `json:"n1"`
		N1         uint64   `json:"N1"`
		N2u        uint64   `json:"n2"`
		N2         uint64   `json:"N2"`
		Length     uint64   `json:"length"`
		Estimated  *float64 `json:"estimated_program_length"`
		Purity     *float64 `json:"purity_ratio"`
		Vocabulary uint64   `json:"vocabulary"`
		Volume     *float64 `json:"volume"`
		Difficulty *float64 `json:"difficulty"`
		Level      *float64 `json:"level"`
		Effort     *float64 `json:"effort"`
		Time       *float64 `json:"time"`
		Bugs       *float64 `json:"bugs"`
	}{
		s.n1, s.N1, s.n2, s.N2, s.N1 + s.N2,
		s.EstimatedProgramLength(), s.PurityRatio(), s.n1 + s.n2,
		s.Volume(), s.Difficulty(), s.Level(), s.Effort(), s.Time(), s.Bugs(),
	})
}
