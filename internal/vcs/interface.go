// Package vcs provides version control system abstractions.
package vcs

import (
	"errors"
)

var (
	// ErrRepoNotFound is returned when no repository encloses the path.
	ErrRepoNotFound = errors.New("not a git repository")
	// ErrShallowClone is returned for shallow clones, whose history cannot
	// be diffed reliably.
	ErrShallowClone = errors.New("shallow clone detected: use 'actions/checkout' with 'fetch-depth: 0' for full history")
	// ErrRefNotFound is returned when a revision cannot be resolved.
	ErrRefNotFound = errors.New("could not resolve ref")
)

// ChangeStatus classifies a file between two revisions.
type ChangeStatus int

const (
	Modified ChangeStatus = iota
	Added
	Deleted
)

func (s ChangeStatus) String() string {
	switch s {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return "modified"
	}
}

// ChangedFile is a path touched between two revisions.
type ChangedFile struct {
	// Path is repository relative with forward slashes.
	Path   string
	Status ChangeStatus
}

// Repository provides the read-only git operations used by metric diffs.
type Repository interface {
	// ChangedFiles lists files that differ between the trees of two
	// revisions, sorted by path.
	ChangedFiles(from, to string) ([]ChangedFile, error)
	// ReadBlob returns the content of path at rev with trailing line
	// terminators collapsed into one '\n', or nil if the path does not exist
	// at that revision.
	ReadBlob(rev, path string) ([]byte, error)
	// FriendlyRefLabel returns the short name of a branch pointing at the
	// same commit as rev, preferring local branches, or rev itself.
	FriendlyRefLabel(rev string) string
	// Root returns the worktree root of the repository.
	Root() string
}

// Opener opens git repositories.
type Opener interface {
	// Open opens the repository enclosing path, rejecting shallow clones.
	Open(path string) (Repository, error)
}
