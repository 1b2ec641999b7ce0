package summary

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/mehen/internal/output"
)

var docs = []json.RawMessage{
	json.RawMessage(`{"name": "a.py", "metrics": {
		"cyclomatic": {"sum": 2}, "cognitive": {"sum": 1}, "nom": {"functions": 1},
		"loc": {"sloc": 10, "lloc": 4}, "halstead": {"volume": null}, "mi": {"mi_original": 100}}}`),
	json.RawMessage(`{"name": "b.py", "metrics": {
		"cyclomatic": {"sum": 6}, "cognitive": {"sum": 5}, "nom": {"functions": 3},
		"loc": {"sloc": 30, "lloc": 12}, "halstead": {"volume": 50}, "mi": {"mi_original": 80}}}`),
	json.RawMessage(`{"name": "c.py", "metrics": {
		"cyclomatic": {"sum": 1}, "cognitive": {"sum": 0}, "nom": {"functions": 0},
		"loc": {"sloc": 2, "lloc": 1}, "halstead": {"volume": 20}, "mi": {"mi_original": 150}}}`),
}

func findStat(t *testing.T, s *Summary, key string) Stat {
	t.Helper()
	for _, st := range s.Stats {
		if st.Metric == key {
			return st
		}
	}
	t.Fatalf("no stat for %s", key)
	return Stat{}
}

func TestCompute(t *testing.T) {
	s, err := Compute(docs, DefaultTop)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Files)
	require.Len(t, s.Stats, len(Columns))

	cyc := findStat(t, s, "cyclomatic.sum")
	assert.Equal(t, 3, cyc.Files)
	assert.Equal(t, 9.0, cyc.Total)
	assert.Equal(t, 3.0, cyc.Mean)
	assert.Equal(t, 2.0, cyc.Median)
	assert.Equal(t, 6.0, cyc.P90)
	assert.Equal(t, 1.0, cyc.Min)
	assert.Equal(t, 6.0, cyc.Max)
	assert.InDelta(t, math.Sqrt(7), cyc.StdDev, 1e-9)

	vol := findStat(t, s, "halstead.volume")
	assert.Equal(t, 2, vol.Files)
	assert.Equal(t, 35.0, vol.Mean)
}

func TestComputeHotspots(t *testing.T) {
	s, err := Compute(docs, 2)
	require.NoError(t, err)

	require.Len(t, s.Hotspots, 2)
	assert.Equal(t, "b.py", s.Hotspots[0].Path)
	assert.Equal(t, 5.0, s.Hotspots[0].Cognitive)
	assert.Equal(t, 3.0, s.Hotspots[0].Functions)
	assert.Equal(t, "a.py", s.Hotspots[1].Path)
}

func TestComputeEmpty(t *testing.T) {
	s, err := Compute(nil, DefaultTop)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Files)
	assert.Empty(t, s.Hotspots)
	for _, st := range s.Stats {
		assert.Equal(t, 0, st.Files)
		assert.Equal(t, 0.0, st.StdDev)
	}
}

func TestComputeSingleFile(t *testing.T) {
	s, err := Compute(docs[:1], DefaultTop)
	require.NoError(t, err)
	cyc := findStat(t, s, "cyclomatic.sum")
	assert.Equal(t, 0.0, cyc.StdDev)
	assert.Equal(t, 2.0, cyc.Median)
}

func TestComputeInvalidDocument(t *testing.T) {
	_, err := Compute([]json.RawMessage{json.RawMessage(`[`)}, DefaultTop)
	assert.Error(t, err)
}

func TestReportRendering(t *testing.T) {
	s, err := Compute(docs, DefaultTop)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, output.NewWriterFormatter(output.FormatMarkdown, &buf, false).Output(s.Report()))
	assert.Contains(t, buf.String(), "| Cyclomatic | 3 | 9 | 3 | 2.65 | 2 | 6 | 1 | 6 |")
	assert.Contains(t, buf.String(), "| b.py | 5 | 6 | 3 |")

	buf.Reset()
	require.NoError(t, output.NewWriterFormatter(output.FormatJSON, &buf, false).Output(s.Report()))
	var decoded Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Files)
	assert.Len(t, decoded.Hotspots, 3)
}
