// Package testutil holds fixtures shared by tests: source trees on disk and
// throwaway git repositories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
	return path
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// CreateFileTree creates multiple files from a map of path -> content.
func CreateFileTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, root, name, content)
	}
}

// GitRepo is a repository in a temporary directory whose default branch
// is main.
type GitRepo struct {
	Dir  string
	Repo *git.Repository

	t  *testing.T
	wt *git.Worktree
}

// NewGitRepo initializes an empty repository.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("PlainInit(%s) error: %v", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree error: %v", err)
	}
	return &GitRepo{Dir: dir, Repo: repo, t: t, wt: wt}
}

// Write writes a file into the worktree and stages it.
func (r *GitRepo) Write(name, content string) string {
	r.t.Helper()
	path := WriteFile(r.t, r.Dir, name, content)
	if _, err := r.wt.Add(name); err != nil {
		r.t.Fatalf("Add(%s) error: %v", name, err)
	}
	return path
}

// Remove deletes a file from the worktree and the index.
func (r *GitRepo) Remove(name string) {
	r.t.Helper()
	if _, err := r.wt.Remove(name); err != nil {
		r.t.Fatalf("Remove(%s) error: %v", name, err)
	}
}

// Commit records the staged changes.
func (r *GitRepo) Commit(msg string) plumbing.Hash {
	r.t.Helper()
	hash, err := r.wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		r.t.Fatalf("Commit(%q) error: %v", msg, err)
	}
	return hash
}

// Tag creates a lightweight tag on hash.
func (r *GitRepo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.Repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("CreateTag(%s) error: %v", name, err)
	}
}
