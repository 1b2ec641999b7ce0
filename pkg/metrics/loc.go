package metrics

import (
	"encoding/json"
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/panbanda/mehen/pkg/langs"
)

// extremum tracks the minimum and maximum of one line count across scopes.
type extremum struct {
	min, max float64
}

func newExtremum() extremum { return extremum{min: sentinel} }

func (e *extremum) fold(v float64) {
	e.min = math.Min(e.min, v)
	e.max = math.Max(e.max, v)
}

func (e *extremum) merge(o extremum) {
	e.min = math.Min(e.min, o.min)
	e.max = math.Max(e.max, o.max)
}

// Loc holds the line counts of a scope: source lines (SLOC), physical code
// lines (PLOC), logical statements (LLOC), comment lines (CLOC) and blanks.
type Loc struct {
	start, end int
	unit       bool

	// lines holds the rows carrying code.
	lines *roaring.Bitmap

	onlyComment int
	codeComment int
	// commentEnd is the last row of the latest standalone comment, or -1.
	commentEnd int

	logical int

	sloc, ploc, lloc, cloc, blank extremum
	spaces                        int
}

func NewLoc() Loc {
	return Loc{
		lines:      roaring.New(),
		commentEnd: -1,
		sloc:       newExtremum(),
		ploc:       newExtremum(),
		lloc:       newExtremum(),
		cloc:       newExtremum(),
		blank:      newExtremum(),
		spaces:     1,
	}
}

func (s *Loc) Compute(v *Visit) {
	start, end := v.Node.StartRow(), v.Node.EndRow()
	if v.Opens {
		s.start, s.end = start, end
		s.unit = v.Kind == langs.SpaceUnit
	}

	class, adjust := v.Rules.Loc(v.Node)
	switch class {
	case langs.LocIgnore:
	case langs.LocComment:
		s.addComment(start, end+adjust)
	case langs.LocStatement:
		s.logical++
	default:
		s.commentBeforeCode(start)
		s.lines.Add(uint32(start))
	}
}

// addComment separates comments trailing a code line from comments on lines
// of their own.
func (s *Loc) addComment(start, end int) {
	diff := end - start
	afterCode := s.lines.Contains(uint32(start))
	switch {
	case afterCode && diff == 0:
		s.codeComment++
	case afterCode && diff > 0:
		// Block comment opening on a code line and ending on its own lines.
		s.codeComment++
		s.onlyComment += diff
	default:
		s.onlyComment += diff + 1
		s.commentEnd = end
	}
}

// commentBeforeCode reclassifies a comment that ends on the line where code
// now starts.
func (s *Loc) commentBeforeCode(row int) {
	if s.commentEnd == row && !s.lines.Contains(uint32(row)) {
		s.onlyComment--
		s.codeComment++
	}
}

// SLOC counts the lines of the scope; nested scopes include their signature
// line.
func (s *Loc) SLOC() float64 {
	if s.unit {
		return float64(s.end - s.start)
	}
	return float64(s.end-s.start) + 1
}

func (s *Loc) PLOC() float64 { return float64(s.lines.GetCardinality()) }

func (s *Loc) LLOC() float64 { return float64(s.logical) }

func (s *Loc) CLOC() float64 { return float64(s.onlyComment + s.codeComment) }

func (s *Loc) Blank() float64 {
	return s.SLOC() - s.PLOC() - float64(s.onlyComment)
}

// ComputeMinMax folds the scope's own counts into the extrema.
func (s *Loc) ComputeMinMax() {
	s.sloc.fold(s.SLOC())
	s.ploc.fold(s.PLOC())
	s.lloc.fold(s.LLOC())
	s.cloc.fold(s.CLOC())
	s.blank.fold(s.Blank())
}

// Merge absorbs a child scope. Code rows union, comment and statement counts
// add up.
func (s *Loc) Merge(other *Loc) {
	s.lines.Or(other.lines)
	s.onlyComment += other.onlyComment
	s.codeComment += other.codeComment
	s.logical += other.logical
	s.spaces += other.spaces

	s.sloc.merge(other.sloc)
	s.ploc.merge(other.ploc)
	s.lloc.merge(other.lloc)
	s.cloc.merge(other.cloc)
	s.blank.merge(other.blank)
}

func (s Loc) MarshalJSON() ([]byte, error) {
	spaces := float64(s.spaces)
	return json.Marshal(struct {
		SLOC         *float64 `json:"sloc"`
		PLOC         *float64 `json:"ploc"`
		LLOC         *float64 `json:"lloc"`
		CLOC         *float64 `json:"cloc"`
		Blank        *float64 `json:"blank"`
		SLOCAverage  *float64 `json:"sloc_average"`
		PLOCAverage  *float64 `json:"ploc_average"`
		LLOCAverage  *float64 `json:"lloc_average"`
		CLOCAverage  *float64 `json:"cloc_average"`
		BlankAverage *float64 `json:"blank_average"`
		SLOCMin      *float64 `json:"sloc_min"`
		SLOCMax      *float64 `json:"sloc_max"`
		CLOCMin      *float64 `json:"cloc_min"`
		CLOCMax      *float64 `json:"cloc_max"`
		PLOCMin      *float64 `json:"ploc_min"`
		PLOCMax      *float64 `json:"ploc_max"`
		LLOCMin      *float64 `json:"lloc_min"`
		LLOCMax      *float64 `json:"lloc_max"`
		BlankMin     *float64 `json:"blank_min"`
		BlankMax     *float64 `json:"blank_max"`
	}{
		finite(s.SLOC()), finite(s.PLOC()), finite(s.LLOC()), finite(s.CLOC()), finite(s.Blank()),
		ratio(s.SLOC(), spaces), ratio(s.PLOC(), spaces), ratio(s.LLOC(), spaces),
		ratio(s.CLOC(), spaces), ratio(s.Blank(), spaces),
		minimum(s.sloc.min), finite(s.sloc.max),
		minimum(s.cloc.min), finite(s.cloc.max),
		minimum(s.ploc.min), finite(s.ploc.max),
		minimum(s.lloc.min), finite(s.lloc.max),
		minimum(s.blank.min), finite(s.blank.max),
	})
}
