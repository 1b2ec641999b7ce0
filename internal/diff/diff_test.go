package diff

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/mehen/internal/ci"
	"github.com/panbanda/mehen/internal/vcs"
	"github.com/panbanda/mehen/pkg/parser"
)

func names(selectors []Selector) []string {
	out := make([]string, len(selectors))
	for i, s := range selectors {
		out[i] = s.Name
	}
	return out
}

func TestParseSelectorsDefaults(t *testing.T) {
	selectors, unknown := ParseSelectors(nil)
	assert.Empty(t, unknown)
	assert.Equal(t, []string{"cyclomatic", "cognitive", "nom.functions", "loc.lloc"}, names(selectors))
}

func TestParseSelectorsCustom(t *testing.T) {
	selectors, _ := ParseSelectors([]string{"mi", "halstead.volume"})
	require.Len(t, selectors, 2)
	assert.Equal(t, HigherIsBetter, selectors[0].Polarity)
	assert.Equal(t, "Halstead Vol", selectors[1].Label)
	assert.Equal(t, LowerIsBetter, selectors[1].Polarity)
}

func TestParseSelectorsPolarityOverride(t *testing.T) {
	selectors, _ := ParseSelectors([]string{"+nom.functions", "-mi"})
	require.Len(t, selectors, 2)
	assert.Equal(t, "nom.functions", selectors[0].Name)
	assert.Equal(t, HigherIsBetter, selectors[0].Polarity)
	assert.Equal(t, "mi", selectors[1].Name)
	assert.Equal(t, LowerIsBetter, selectors[1].Polarity)

	// The override never leaks into the shared table.
	assert.Equal(t, HigherIsBetter, KnownMetrics[4].Polarity)
}

func TestParseSelectorsUnknown(t *testing.T) {
	selectors, unknown := ParseSelectors([]string{"nonexistent", "cyclomatic", "+bogus"})
	assert.Equal(t, []string{"cyclomatic"}, names(selectors))
	assert.Equal(t, []string{"nonexistent", "bogus"}, unknown)
}

func TestTrendEmoji(t *testing.T) {
	tests := []struct {
		delta    float64
		polarity Polarity
		want     string
	}{
		{1, LowerIsBetter, emojiWorse},
		{-1, LowerIsBetter, emojiBetter},
		{0, LowerIsBetter, emojiUnchanged},
		{1, HigherIsBetter, emojiBetter},
		{-1, HigherIsBetter, emojiWorse},
		{0, HigherIsBetter, emojiUnchanged},
	}

	for _, tt := range tests {
		if got := TrendEmoji(tt.delta, tt.polarity); got != tt.want {
			t.Errorf("TrendEmoji(%v, %v) = %q, want %q", tt.delta, tt.polarity, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[float64]string{
		42:      "42",
		0:       "0",
		-3:      "-3",
		2.75:    "2.75",
		100.567: "100.57",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		md   MetricDiff
		want string
	}{
		{
			name: "new",
			md:   MetricDiff{Current: 5, Delta: 5, IsNew: true},
			want: "5 🆕",
		},
		{
			name: "unchanged",
			md:   MetricDiff{Current: 5, Baseline: 5},
			want: "5 ⚪",
		},
		{
			name: "regression",
			md:   MetricDiff{Current: 12, Baseline: 8, Delta: 4},
			want: "12 (main: 8) 🔴",
		},
		{
			name: "improvement higher is better",
			md:   MetricDiff{Current: 80.5, Baseline: 70, Delta: 10.5, Polarity: HigherIsBetter},
			want: "80.50 (main: 70) 🟢",
		},
		{
			name: "deleted",
			md:   MetricDiff{Baseline: 10, Delta: -10, IsDeleted: true},
			want: "0 (was: 10) 🟢",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCell(tt.md, "main"))
		})
	}
}

func TestAllUnchanged(t *testing.T) {
	fd := FileDiff{Metrics: []MetricDiff{{Current: 5, Baseline: 5}}}
	assert.True(t, fd.AllUnchanged())

	fd.Metrics = append(fd.Metrics, MetricDiff{Current: 1, Delta: 1})
	assert.False(t, fd.AllUnchanged())
}

func TestSort(t *testing.T) {
	diffs := []FileDiff{
		{Path: "b.py", Metrics: []MetricDiff{{Name: "nom.functions", Current: 1}}},
		{Path: "c.py", Metrics: []MetricDiff{{Name: "nom.functions", Current: 3}}},
		{Path: "a.py", Metrics: []MetricDiff{{Name: "nom.functions", Current: 1}}},
		{Path: "d.py"},
	}
	Sort(diffs)

	var got []string
	for _, d := range diffs {
		got = append(got, d.Path)
	}
	assert.Equal(t, []string{"c.py", "a.py", "b.py", "d.py"}, got)
}

func TestResolveRefs(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		env      *ci.Context
		wantFrom string
		wantTo   string
	}{
		{"explicit", "abc", "def", &ci.Context{EventName: "push"}, "abc", "def"},
		{"local defaults", "", "", nil, "main", "HEAD"},
		{"local from only", "v1", "", nil, "v1", "HEAD"},
		{"pull request", "", "", &ci.Context{EventName: "pull_request", BaseRef: "develop", HeadSHA: "abc123"}, "origin/develop", "abc123"},
		{"pull request without base", "", "", &ci.Context{EventName: "pull_request", HeadSHA: "abc123"}, "origin/main", "abc123"},
		{"merge group", "", "", &ci.Context{EventName: "merge_group", BaseRef: "main"}, "origin/main", "HEAD"},
		{"push", "", "", &ci.Context{EventName: "push", HeadSHA: "def456"}, "HEAD~1", "def456"},
		{"other event", "", "", &ci.Context{EventName: "schedule", HeadSHA: "s"}, "main", "s"},
		{"ci with explicit to", "", "HEAD", &ci.Context{EventName: "push", HeadSHA: "x"}, "HEAD~1", "HEAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := ResolveRefs(tt.from, tt.to, tt.env)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

type stubRepo struct {
	vcs.Repository
	changed []vcs.ChangedFile
}

func (s stubRepo) ChangedFiles(string, string) ([]vcs.ChangedFile, error) {
	return s.changed, nil
}

func TestChangedFilesFromPushPayload(t *testing.T) {
	repo := stubRepo{changed: []vcs.ChangedFile{{Path: "tree.py", Status: vcs.Added}}}

	env := &ci.Context{EventName: "push", ChangedFiles: []string{"a.py", "b.rs"}}
	files, err := ChangedFiles(repo, "HEAD~1", "HEAD", env)
	require.NoError(t, err)
	assert.Equal(t, []vcs.ChangedFile{
		{Path: "a.py", Status: vcs.Modified},
		{Path: "b.rs", Status: vcs.Modified},
	}, files)

	files, err = ChangedFiles(repo, "HEAD~1", "HEAD", &ci.Context{EventName: "push"})
	require.NoError(t, err)
	assert.Equal(t, repo.changed, files)

	files, err = ChangedFiles(repo, "main", "HEAD", nil)
	require.NoError(t, err)
	assert.Equal(t, repo.changed, files)
}

func TestCompare(t *testing.T) {
	psr := parser.New()
	defer psr.Close()

	before, err := analyze(psr, []byte("def f():\n    return 1\n"), "a.py")
	require.NoError(t, err)
	after, err := analyze(psr, []byte("def f(x):\n    if x:\n        return 1\n    return 2\n"), "a.py")
	require.NoError(t, err)

	selectors, _ := ParseSelectors(nil)

	fd := Compare("a.py", vcs.Modified, before, after, selectors)
	require.Len(t, fd.Metrics, 4)
	assert.False(t, fd.IsNew)
	assert.Equal(t, 1.0, fd.Metrics[0].Delta)
	assert.Equal(t, 0.0, fd.Metrics[2].Delta)
	assert.Equal(t, 1.0, fd.Metrics[2].Current)

	added := Compare("a.py", vcs.Added, nil, after, selectors)
	assert.True(t, added.IsNew)
	assert.True(t, added.Metrics[0].IsNew)
	assert.Equal(t, added.Metrics[0].Current, added.Metrics[0].Delta)

	deleted := Compare("a.py", vcs.Deleted, before, nil, selectors)
	assert.True(t, deleted.IsDeleted)
	assert.Equal(t, 0.0, deleted.Metrics[0].Current)
	assert.Equal(t, -deleted.Metrics[0].Baseline, deleted.Metrics[0].Delta)
}

func TestRenderMarkdown(t *testing.T) {
	r := &Report{
		From:      "main",
		To:        "HEAD",
		FromLabel: "main",
		Selectors: []Selector{{Name: "cyclomatic", Label: "Cyclomatic"}, {Name: "nom.functions", Label: "Functions"}},
		Files: []FileDiff{{
			Path: "src/a.py",
			Metrics: []MetricDiff{
				{Name: "cyclomatic", Current: 12, Baseline: 8, Delta: 4},
				{Name: "nom.functions", Current: 2, Baseline: 2},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&buf))
	want := "## [Mehen](https://github.com/ophidiarium/mehen) Summary (`main`..`HEAD`)\n\n" +
		"| File | Cyclomatic | Functions |\n" +
		"|---|---:|---:|\n" +
		"| src/a.py | 12 (main: 8) 🔴 | 2 ⚪ |\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	r.Files = nil
	require.NoError(t, r.RenderText(&buf, true))
	assert.Equal(t, "## [Mehen](https://github.com/ophidiarium/mehen) Summary (`main`..`HEAD`)\n\nNo metric changes detected.\n", buf.String())
}

func TestRenderData(t *testing.T) {
	r := &Report{}
	data, err := json.Marshal(r.RenderData())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	r.Files = []FileDiff{{Path: "a.py", Metrics: []MetricDiff{{Name: "mi", Label: "MI", Polarity: HigherIsBetter}}}}
	data, err = json.Marshal(r.RenderData())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"path":"a.py","is_new":false,"is_deleted":false,"metrics":[
		{"name":"mi","label":"MI","current":0,"baseline":0,"delta":0,"is_new":false,"is_deleted":false}]}]`, string(data))
}

func commitAll(t *testing.T, wt *git.Worktree, msg string) {
	t.Helper()
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	_, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	writeFile(t, dir, "a.py", "def f():\n    return 1\n")
	writeFile(t, dir, "b.py", "x = 1\n")
	writeFile(t, dir, "c.py", "y = 2\n")
	writeFile(t, dir, "README.md", "# readme\n")
	commitAll(t, wt, "initial")

	writeFile(t, dir, "a.py", "def f(x):\n    if x:\n        return 1\n    return 2\n")
	require.NoError(t, os.Remove(filepath.Join(dir, "b.py")))
	writeFile(t, dir, "src/d.py", "z = 3\n")
	writeFile(t, dir, "README.md", "# readme\n\nmore\n")
	commitAll(t, wt, "second")

	r, err := vcs.NewGitOpener().Open(dir)
	require.NoError(t, err)

	report, err := Run(context.Background(), r, Options{From: "HEAD~1", To: "HEAD", Jobs: 2}, nil)
	require.NoError(t, err)

	var paths []string
	for _, fd := range report.Files {
		paths = append(paths, fd.Path)
	}
	assert.Equal(t, []string{"a.py", "b.py", "src/d.py"}, paths)
	assert.Equal(t, "HEAD~1", report.From)
	assert.Equal(t, "HEAD~1", report.FromLabel)

	a := report.Files[0]
	assert.Equal(t, 1.0, a.Metrics[0].Delta)
	assert.Greater(t, a.Metrics[1].Delta, 0.0)
	assert.True(t, report.Files[1].IsDeleted)
	assert.True(t, report.Files[2].IsNew)

	filtered, err := Run(context.Background(), r, Options{
		From: "HEAD~1", To: "HEAD", Exclude: []string{"src/"}, Metrics: []string{"nom.functions"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, filtered.Files)

	all, err := Run(context.Background(), r, Options{
		From: "HEAD~1", To: "HEAD", Exclude: []string{"src/"}, Metrics: []string{"nom.functions"}, ShowUnchanged: true,
	}, nil)
	require.NoError(t, err)
	require.Len(t, all.Files, 2)
	assert.Equal(t, "a.py", all.Files[0].Path)
}

func TestRunUnknownRef(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	writeFile(t, dir, "a.py", "x = 1\n")
	commitAll(t, wt, "initial")

	r, err := vcs.NewGitOpener().Open(dir)
	require.NoError(t, err)

	_, err = Run(context.Background(), r, Options{From: "missing", To: "HEAD"}, nil)
	assert.ErrorIs(t, err, vcs.ErrRefNotFound)
}
