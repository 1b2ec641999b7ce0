package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if svc == nil || svc.format != FormatText || !svc.colored {
		t.Fatal("New() returned nil or has wrong defaults")
	}
}

func TestNewOptions(t *testing.T) {
	var buf bytes.Buffer
	svc, err := New(WithFormat(FormatJSON), WithWriter(&buf), WithColor(false))
	require.NoError(t, err)
	if svc.Format() != FormatJSON {
		t.Errorf("expected format %v, got %v", FormatJSON, svc.Format())
	}
	if svc.Writer() != &buf {
		t.Error("expected writer to be set")
	}
	if svc.Colored() {
		t.Error("expected colored = false")
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	svc, err := New(WithFile(path), WithFormat(FormatJSON))
	require.NoError(t, err)
	assert.False(t, svc.Colored())

	require.NoError(t, svc.Output(map[string]int{"a": 1}))
	require.NoError(t, svc.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(data))
}

func TestNewWithFileInvalidPath(t *testing.T) {
	_, err := New(WithFile("/nonexistent/dir/out.txt"))
	assert.Error(t, err)
}

func TestNewWithDir(t *testing.T) {
	_, err := New(WithDir(filepath.Join(t.TempDir(), "missing")))
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(WithDir(file))
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestOutputFilesToWriter(t *testing.T) {
	var buf bytes.Buffer
	svc, err := New(WithFormat(FormatJSON), WithWriter(&buf))
	require.NoError(t, err)

	require.NoError(t, svc.OutputFiles([]Document{{Path: "a.py", Data: map[string]string{"name": "a.py"}}}))
	assert.JSONEq(t, `{"name": "a.py"}`, buf.String())

	buf.Reset()
	require.NoError(t, svc.OutputFiles([]Document{
		{Path: "a.py", Data: map[string]string{"name": "a.py"}},
		{Path: "b.py", Data: map[string]string{"name": "b.py"}},
	}))
	assert.JSONEq(t, `[{"name": "a.py"}, {"name": "b.py"}]`, buf.String())
}

func TestOutputFilesToDir(t *testing.T) {
	dir := t.TempDir()
	svc, err := New(WithFormat(FormatJSON), WithDir(dir), WithPretty(true))
	require.NoError(t, err)

	require.NoError(t, svc.OutputFiles([]Document{
		{Path: "src/a.py", Data: map[string]string{"name": "src/a.py"}},
		{Path: "lib/a.py", Data: map[string]string{"name": "lib/a.py"}},
	}))

	first, err := os.ReadFile(filepath.Join(dir, "a.py.json"))
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(first, &doc))
	assert.Equal(t, "src/a.py", doc["name"])

	second, err := os.ReadFile(filepath.Join(dir, "lib_a.py.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(second, &doc))
	assert.Equal(t, "lib/a.py", doc["name"])
}

func TestDocumentPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "main.rs.yaml"), DocumentPath(dir, "src/main.rs", FormatYAML))
	assert.Equal(t, filepath.Join(dir, "x.go.toml"), DocumentPath(dir, "x.go", FormatTOML))
}
