package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// GitOpener opens git repositories using go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// Open opens a git repository, detecting .git in parent directories.
func (o *GitOpener) Open(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, ErrRepoNotFound
	}

	shallow, err := repo.Storer.Shallow()
	if err != nil {
		return nil, internal(err)
	}
	if len(shallow) > 0 {
		return nil, ErrShallowClone
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &gitRepository{repo: repo, root: root}, nil
}

func internal(err error) error {
	return fmt.Errorf("git error: %w", err)
}

// gitRepository wraps go-git Repository.
type gitRepository struct {
	repo *git.Repository
	root string
}

func (r *gitRepository) Root() string {
	return r.root
}

func (r *gitRepository) ChangedFiles(from, to string) ([]ChangedFile, error) {
	fromTree, err := r.resolveTree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.resolveTree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(fromTree, toTree)
	if err != nil {
		return nil, internal(err)
	}

	files := make([]ChangedFile, 0, len(changes))
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, internal(err)
		}
		switch action {
		case merkletrie.Insert:
			files = append(files, ChangedFile{Path: c.To.Name, Status: Added})
		case merkletrie.Delete:
			files = append(files, ChangedFile{Path: c.From.Name, Status: Deleted})
		default:
			files = append(files, ChangedFile{Path: c.To.Name, Status: Modified})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

func (r *gitRepository) ReadBlob(rev, path string) ([]byte, error) {
	tree, err := r.resolveTree(rev)
	if err != nil {
		return nil, err
	}

	file, err := tree.File(filepath.ToSlash(path))
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(err)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, internal(err)
	}

	data := bytes.TrimRight([]byte(contents), "\r\n")
	return append(data, '\n'), nil
}

func (r *gitRepository) FriendlyRefLabel(rev string) string {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return rev
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return rev
	}

	if name, ok := r.branchFor(commit.Hash, plumbing.ReferenceName.IsBranch); ok {
		return name
	}
	if name, ok := r.branchFor(commit.Hash, plumbing.ReferenceName.IsRemote); ok {
		return name
	}
	return rev
}

// branchFor returns the shortened name of the first reference accepted by
// match that points at hash. Names are visited in sorted order.
func (r *gitRepository) branchFor(hash plumbing.Hash, match func(plumbing.ReferenceName) bool) (string, bool) {
	iter, err := r.repo.References()
	if err != nil {
		return "", false
	}
	defer iter.Close()

	var names []string
	_ = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() == plumbing.HashReference && match(ref.Name()) && ref.Hash() == hash {
			names = append(names, ref.Name().String())
		}
		return nil
	})
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return ShortenRefName(names[0]), true
}

// ShortenRefName strips the standard branch prefixes from a full ref name:
// refs/heads/, refs/remotes/origin/ and refs/remotes/<remote>/.
func ShortenRefName(full string) string {
	if s, ok := strings.CutPrefix(full, "refs/heads/"); ok {
		return s
	}
	if s, ok := strings.CutPrefix(full, "refs/remotes/origin/"); ok {
		return s
	}
	if s, ok := strings.CutPrefix(full, "refs/remotes/"); ok {
		if _, branch, found := strings.Cut(s, "/"); found {
			return branch
		}
	}
	return full
}

func (r *gitRepository) resolveTree(rev string) (*object.Tree, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w '%s'", ErrRefNotFound, rev)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, internal(err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, internal(err)
	}
	return tree, nil
}

// Default opener singleton
var defaultOpener Opener = NewGitOpener()

// DefaultOpener returns the default git opener.
func DefaultOpener() Opener {
	return defaultOpener
}

// SetDefaultOpener sets the default git opener (useful for testing).
func SetDefaultOpener(opener Opener) {
	defaultOpener = opener
}
