// Package diff compares file metrics between two git revisions.
package diff

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/panbanda/mehen/internal/ci"
	"github.com/panbanda/mehen/internal/fileproc"
	"github.com/panbanda/mehen/internal/scanner"
	"github.com/panbanda/mehen/internal/vcs"
	"github.com/panbanda/mehen/pkg/parser"
	"github.com/panbanda/mehen/pkg/spaces"
)

// Polarity tells which direction of change is an improvement.
type Polarity int

const (
	LowerIsBetter Polarity = iota
	HigherIsBetter
)

// Selector picks one file-level number out of a space tree.
type Selector struct {
	Name     string
	Label    string
	Polarity Polarity
	Extract  func(*spaces.FuncSpace) float64
}

func orZero(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// KnownMetrics lists the selectable metrics with their default polarity.
var KnownMetrics = []Selector{
	{"cyclomatic", "Cyclomatic", LowerIsBetter, func(s *spaces.FuncSpace) float64 {
		return s.Metrics.Cyclomatic.Sum()
	}},
	{"cognitive", "Cognitive", LowerIsBetter, func(s *spaces.FuncSpace) float64 {
		return s.Metrics.Cognitive.Sum()
	}},
	{"nom.functions", "Functions", LowerIsBetter, func(s *spaces.FuncSpace) float64 {
		return s.Metrics.Nom.Functions()
	}},
	{"loc.lloc", "LLOC", LowerIsBetter, func(s *spaces.FuncSpace) float64 {
		return s.Metrics.Loc.LLOC()
	}},
	{"mi", "MI", HigherIsBetter, func(s *spaces.FuncSpace) float64 {
		mi := s.Metrics.MI.Original()
		return orZero(&mi)
	}},
	{"halstead.volume", "Halstead Vol", LowerIsBetter, func(s *spaces.FuncSpace) float64 {
		return orZero(s.Metrics.Halstead.Volume())
	}},
}

// DefaultMetrics is used when no metric is requested.
var DefaultMetrics = []string{"cyclomatic", "cognitive", "nom.functions", "loc.lloc"}

// ParseSelectors resolves metric names. A leading '+' forces
// higher-is-better and a leading '-' lower-is-better. Unknown names are
// returned separately.
func ParseSelectors(specs []string) (selectors []Selector, unknown []string) {
	if len(specs) == 0 {
		specs = DefaultMetrics
	}

	for _, spec := range specs {
		name := spec
		var override *Polarity
		switch {
		case len(spec) > 0 && spec[0] == '+':
			p := HigherIsBetter
			name, override = spec[1:], &p
		case len(spec) > 0 && spec[0] == '-':
			p := LowerIsBetter
			name, override = spec[1:], &p
		}

		found := false
		for _, known := range KnownMetrics {
			if known.Name != name {
				continue
			}
			sel := known
			if override != nil {
				sel.Polarity = *override
			}
			selectors = append(selectors, sel)
			found = true
			break
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return selectors, unknown
}

// MetricDiff is the change of one metric in one file.
type MetricDiff struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Current   float64  `json:"current"`
	Baseline  float64  `json:"baseline"`
	Delta     float64  `json:"delta"`
	Polarity  Polarity `json:"-"`
	IsNew     bool     `json:"is_new"`
	IsDeleted bool     `json:"is_deleted"`
}

// FileDiff holds the metric changes of one file.
type FileDiff struct {
	Path      string       `json:"path"`
	Metrics   []MetricDiff `json:"metrics"`
	IsNew     bool         `json:"is_new"`
	IsDeleted bool         `json:"is_deleted"`
}

// AllUnchanged reports whether every metric has a zero delta.
func (d *FileDiff) AllUnchanged() bool {
	for _, m := range d.Metrics {
		if m.Delta != 0 {
			return false
		}
	}
	return true
}

func (d *FileDiff) functions() int64 {
	for _, m := range d.Metrics {
		if m.Name == "nom.functions" {
			return int64(m.Current)
		}
	}
	return 0
}

// Compare builds the diff of one file. A nil baseline on an added file marks
// the file as new; deleted files have no current space.
func Compare(path string, status vcs.ChangeStatus, baseline, current *spaces.FuncSpace, selectors []Selector) FileDiff {
	isNew := status == vcs.Added && baseline == nil
	isDeleted := status == vcs.Deleted

	fd := FileDiff{
		Path:      path,
		Metrics:   make([]MetricDiff, 0, len(selectors)),
		IsNew:     isNew,
		IsDeleted: isDeleted,
	}
	for _, sel := range selectors {
		var b, c float64
		if baseline != nil {
			b = sel.Extract(baseline)
		}
		if current != nil {
			c = sel.Extract(current)
		}
		fd.Metrics = append(fd.Metrics, MetricDiff{
			Name:      sel.Name,
			Label:     sel.Label,
			Current:   c,
			Baseline:  b,
			Delta:     c - b,
			Polarity:  sel.Polarity,
			IsNew:     isNew,
			IsDeleted: isDeleted,
		})
	}
	return fd
}

// Sort orders diffs by current function count, largest first, then path.
func Sort(diffs []FileDiff) {
	sort.SliceStable(diffs, func(i, j int) bool {
		fi, fj := diffs[i].functions(), diffs[j].functions()
		if fi != fj {
			return fi > fj
		}
		return diffs[i].Path < diffs[j].Path
	})
}

// Options configures a diff run.
type Options struct {
	From          string
	To            string
	Metrics       []string
	Include       []string
	Exclude       []string
	ShowUnchanged bool
	Jobs          int
	Logger        *slog.Logger
}

// Run resolves the revisions to compare, analyzes every supported changed
// file at both of them and returns the report.
func Run(ctx context.Context, repo vcs.Repository, opts Options, env *ci.Context) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	from, to := ResolveRefs(opts.From, opts.To, env)
	selectors, unknown := ParseSelectors(opts.Metrics)
	for _, name := range unknown {
		logger.Warn("unknown metric, skipping", "metric", name)
	}

	changed, err := ChangedFiles(repo, from, to, env)
	if err != nil {
		return nil, err
	}

	filter := scanner.NewFilter(opts.Include, opts.Exclude)
	status := make(map[string]vcs.ChangeStatus, len(changed))
	var paths []string
	for _, cf := range changed {
		if !filter.Match(cf.Path) || parser.DetectLanguage(cf.Path) == parser.LangUnknown {
			continue
		}
		status[cf.Path] = cf.Status
		paths = append(paths, cf.Path)
	}

	diffs, errs := fileproc.MapFiles(ctx, paths, func(psr *parser.Parser, path string) (FileDiff, error) {
		st := status[path]
		var baseline, current *spaces.FuncSpace
		if st != vcs.Added {
			baseline = analyzeRev(psr, repo, from, path, logger.With("side", "baseline"))
		}
		if st != vcs.Deleted {
			current = analyzeRev(psr, repo, to, path, logger.With("side", "current"))
		}
		return Compare(path, st, baseline, current, selectors), nil
	}, fileproc.Options{Workers: opts.Jobs})
	if errs.HasErrors() {
		return nil, errs
	}

	if !opts.ShowUnchanged {
		kept := diffs[:0]
		for _, d := range diffs {
			if !d.AllUnchanged() {
				kept = append(kept, d)
			}
		}
		diffs = kept
	}
	Sort(diffs)

	return &Report{
		From:      from,
		To:        to,
		FromLabel: repo.FriendlyRefLabel(from),
		Selectors: selectors,
		Files:     diffs,
	}, nil
}

// analyzeRev computes the space tree of path at rev. Failures are logged and
// yield nil, so the file counts as absent on that side.
func analyzeRev(psr *parser.Parser, repo vcs.Repository, rev, path string, logger *slog.Logger) *spaces.FuncSpace {
	src, err := repo.ReadBlob(rev, path)
	if err != nil {
		logger.Warn("skipping revision", "path", path, "rev", rev, "error", err)
		return nil
	}
	if src == nil {
		return nil
	}

	space, err := analyze(psr, src, path)
	if err != nil {
		logger.Warn("skipping revision", "path", path, "rev", rev, "error", err)
		return nil
	}
	return space
}

func analyze(psr *parser.Parser, src []byte, path string) (*spaces.FuncSpace, error) {
	res, err := psr.Parse(src, parser.DetectLanguage(path), path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer res.Close()
	return spaces.FromParseResult(res, spaces.Options{})
}
