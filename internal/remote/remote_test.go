package remote

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/mehen/internal/testutil"
)

func TestParse_LocalPath(t *testing.T) {
	dir := t.TempDir()

	src, err := Parse(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != nil {
		t.Errorf("expected nil for local path, got %+v", src)
	}
}

func TestParse_NotRemote(t *testing.T) {
	for _, input := range []string{"missing", "a/b/c", "./x/y", ".hidden/repo", "/"} {
		src, err := Parse(input)
		require.NoError(t, err, input)
		assert.Nil(t, src, input)
	}
}

func TestParse_GitHubShorthand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURL string
		wantRef string
	}{
		{
			name:    "simple owner/repo",
			input:   "facebook/react",
			wantURL: "https://github.com/facebook/react",
		},
		{
			name:    "with ref suffix",
			input:   "facebook/react@v18.2.0",
			wantURL: "https://github.com/facebook/react",
			wantRef: "v18.2.0",
		},
		{
			name:    "with branch ref",
			input:   "owner/repo@feature-branch",
			wantURL: "https://github.com/owner/repo",
			wantRef: "feature-branch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src == nil {
				t.Fatal("expected Source, got nil")
			}
			if src.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", src.URL, tt.wantURL)
			}
			if src.Ref != tt.wantRef {
				t.Errorf("Ref = %q, want %q", src.Ref, tt.wantRef)
			}
		})
	}
}

func TestParse_FullURLs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantURL string
		wantRef string
	}{
		{
			name:    "github.com without scheme",
			input:   "github.com/golang/go",
			wantURL: "https://github.com/golang/go",
		},
		{
			name:    "https URL",
			input:   "https://github.com/kubernetes/kubernetes",
			wantURL: "https://github.com/kubernetes/kubernetes",
		},
		{
			name:    "gitlab URL",
			input:   "https://gitlab.com/group/project",
			wantURL: "https://gitlab.com/group/project",
		},
		{
			name:    "SSH URL",
			input:   "git@github.com:owner/repo.git",
			wantURL: "git@github.com:owner/repo.git",
		},
		{
			name:    "SSH URL with ref",
			input:   "git@github.com:owner/repo.git@main",
			wantURL: "git@github.com:owner/repo.git",
			wantRef: "main",
		},
		{
			name:    "URL with ref",
			input:   "github.com/golang/go@go1.21.0",
			wantURL: "https://github.com/golang/go",
			wantRef: "go1.21.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src == nil {
				t.Fatal("expected Source, got nil")
			}
			if src.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", src.URL, tt.wantURL)
			}
			if src.Ref != tt.wantRef {
				t.Errorf("Ref = %q, want %q", src.Ref, tt.wantRef)
			}
		})
	}
}

func TestParse_InvalidSSH(t *testing.T) {
	_, err := Parse("git@github.com")
	assert.Error(t, err)
}

// origin builds a local repository with two commits on main and a tag on
// the first one.
func origin(t *testing.T) (string, plumbing.Hash) {
	t.Helper()
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("local clones need git-upload-pack")
	}
	r := testutil.NewGitRepo(t)
	r.Write("a.py", "x = 1\n")
	first := r.Commit("add a.py")
	r.Tag("v1", first)
	r.Write("b.py", "y = 2\n")
	r.Commit("add b.py")
	return r.Dir, first
}

func TestSource_Clone(t *testing.T) {
	dir, _ := origin(t)
	src := &Source{URL: dir}

	require.NoError(t, src.Clone(context.Background(), io.Discard, false))
	defer src.Cleanup()

	assert.FileExists(t, filepath.Join(src.CloneDir, "a.py"))
	assert.FileExists(t, filepath.Join(src.CloneDir, "b.py"))
}

func TestSource_Clone_WithRef(t *testing.T) {
	dir, first := origin(t)

	for _, ref := range []string{"v1", first.String()} {
		t.Run(ref, func(t *testing.T) {
			src := &Source{URL: dir, Ref: ref}
			require.NoError(t, src.Clone(context.Background(), io.Discard, false))
			defer src.Cleanup()

			assert.FileExists(t, filepath.Join(src.CloneDir, "a.py"))
			assert.NoFileExists(t, filepath.Join(src.CloneDir, "b.py"))
		})
	}
}

func TestSource_Clone_UnknownRef(t *testing.T) {
	dir, _ := origin(t)
	src := &Source{URL: dir, Ref: "nope"}

	assert.Error(t, src.Clone(context.Background(), io.Discard, false))
	assert.Empty(t, src.CloneDir)
}

func TestSource_Cleanup(t *testing.T) {
	dir, _ := origin(t)
	src := &Source{URL: dir}
	require.NoError(t, src.Clone(context.Background(), io.Discard, false))

	clone := src.CloneDir
	src.Cleanup()
	assert.NoDirExists(t, clone)
	assert.Empty(t, src.CloneDir)
	src.Cleanup()
}
