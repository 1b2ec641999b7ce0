// Package summary aggregates per-file metric documents into distribution
// statistics across a whole run.
package summary

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/panbanda/mehen/internal/diff"
	"github.com/panbanda/mehen/internal/output"
)

// Column selects a file-level value by its path under "metrics".
type Column struct {
	Key   string
	Label string
}

// Columns are the metrics summarized by default.
var Columns = []Column{
	{"loc.sloc", "SLOC"},
	{"loc.lloc", "LLOC"},
	{"nom.functions", "Functions"},
	{"cyclomatic.sum", "Cyclomatic"},
	{"cognitive.sum", "Cognitive"},
	{"halstead.volume", "Halstead Vol"},
	{"mi.mi_original", "MI"},
}

// DefaultTop is the number of files listed as hotspots.
const DefaultTop = 10

// Stat describes the distribution of one metric over the files that have a
// value for it.
type Stat struct {
	Metric string  `json:"metric"`
	Label  string  `json:"label"`
	Files  int     `json:"files"`
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Hotspot is a file ranked by cognitive complexity.
type Hotspot struct {
	Path       string  `json:"path"`
	Cognitive  float64 `json:"cognitive"`
	Cyclomatic float64 `json:"cyclomatic"`
	Functions  float64 `json:"functions"`
}

// Summary is the aggregate of a run.
type Summary struct {
	Files    int       `json:"files"`
	Stats    []Stat    `json:"stats"`
	Hotspots []Hotspot `json:"hotspots"`
}

type document struct {
	Name    string                    `json:"name"`
	Metrics map[string]map[string]any `json:"metrics"`
}

func (d *document) value(key string) (float64, bool) {
	family, field, ok := strings.Cut(key, ".")
	if !ok {
		return 0, false
	}
	v, ok := d.Metrics[family][field].(float64)
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Compute summarizes the root space documents of a run, one per file.
func Compute(docs []json.RawMessage, top int) (*Summary, error) {
	parsed := make([]document, 0, len(docs))
	for i, raw := range docs {
		var d document
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		parsed = append(parsed, d)
	}

	s := &Summary{
		Files:    len(parsed),
		Stats:    make([]Stat, 0, len(Columns)),
		Hotspots: []Hotspot{},
	}
	for _, col := range Columns {
		var values []float64
		for i := range parsed {
			if v, ok := parsed[i].value(col.Key); ok {
				values = append(values, v)
			}
		}
		s.Stats = append(s.Stats, describe(col, values))
	}

	for i := range parsed {
		d := &parsed[i]
		cog, _ := d.value("cognitive.sum")
		cyc, _ := d.value("cyclomatic.sum")
		fns, _ := d.value("nom.functions")
		s.Hotspots = append(s.Hotspots, Hotspot{Path: d.Name, Cognitive: cog, Cyclomatic: cyc, Functions: fns})
	}
	sort.SliceStable(s.Hotspots, func(i, j int) bool {
		a, b := s.Hotspots[i], s.Hotspots[j]
		if a.Cognitive != b.Cognitive {
			return a.Cognitive > b.Cognitive
		}
		if a.Cyclomatic != b.Cyclomatic {
			return a.Cyclomatic > b.Cyclomatic
		}
		return a.Path < b.Path
	})
	if top > 0 && len(s.Hotspots) > top {
		s.Hotspots = s.Hotspots[:top]
	}
	return s, nil
}

func describe(col Column, values []float64) Stat {
	st := Stat{Metric: col.Key, Label: col.Label, Files: len(values)}
	if len(values) == 0 {
		return st
	}

	sort.Float64s(values)
	st.Total = floats.Sum(values)
	st.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		st.StdDev = stat.StdDev(values, nil)
	}
	st.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	st.P90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	st.Min = floats.Min(values)
	st.Max = floats.Max(values)
	return st
}

// Report renders the summary as two tables.
func (s *Summary) Report() *output.Report {
	rows := make([][]string, 0, len(s.Stats))
	for _, st := range s.Stats {
		rows = append(rows, []string{
			st.Label,
			fmt.Sprintf("%d", st.Files),
			diff.FormatNumber(st.Total),
			diff.FormatNumber(st.Mean),
			diff.FormatNumber(st.StdDev),
			diff.FormatNumber(st.Median),
			diff.FormatNumber(st.P90),
			diff.FormatNumber(st.Min),
			diff.FormatNumber(st.Max),
		})
	}
	metrics := output.NewTable(
		fmt.Sprintf("Summary (%d files)", s.Files),
		[]string{"Metric", "Files", "Total", "Mean", "StdDev", "Median", "P90", "Min", "Max"},
		rows, nil, s.Stats,
	)

	hot := make([][]string, 0, len(s.Hotspots))
	for _, h := range s.Hotspots {
		hot = append(hot, []string{
			h.Path,
			diff.FormatNumber(h.Cognitive),
			diff.FormatNumber(h.Cyclomatic),
			diff.FormatNumber(h.Functions),
		})
	}
	hotspots := output.NewTable(
		"Most complex files",
		[]string{"File", "Cognitive", "Cyclomatic", "Functions"},
		hot, nil, s.Hotspots,
	)

	return &output.Report{
		Sections: []output.Renderable{metrics, hotspots},
		Data:     s,
	}
}
