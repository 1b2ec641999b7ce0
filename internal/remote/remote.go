// Package remote resolves repository references given in place of a local
// path and clones them into a temporary directory.
package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Source represents a remote repository to analyze.
type Source struct {
	URL      string // normalized git URL
	Ref      string // branch, tag, or SHA (empty = default branch)
	CloneDir string // temp directory after clone
}

// knownHosts are accepted without a scheme.
var knownHosts = []string{"github.com/", "gitlab.com/", "bitbucket.org/", "codeberg.org/"}

// Parse detects if a path is a remote reference.
// Returns nil if path exists on filesystem (local path takes precedence).
func Parse(path string) (*Source, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	path, ref := splitRef(path)

	switch {
	case strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "http://"),
		strings.HasPrefix(path, "ssh://"), strings.HasPrefix(path, "git://"):
		return &Source{URL: path, Ref: ref}, nil
	case strings.HasPrefix(path, "git@"):
		if !strings.Contains(path, ":") {
			return nil, fmt.Errorf("invalid SSH URL %q", path)
		}
		return &Source{URL: path, Ref: ref}, nil
	}

	for _, host := range knownHosts {
		if strings.HasPrefix(path, host) {
			return &Source{URL: "https://" + path, Ref: ref}, nil
		}
	}

	if isGitHubShorthand(path) {
		return &Source{URL: "https://github.com/" + path, Ref: ref}, nil
	}
	return nil, nil
}

// splitRef cuts a trailing @ref. An @ before the last path separator belongs
// to the URL, as in git@host:owner/repo.
func splitRef(path string) (string, string) {
	sep := strings.LastIndexAny(path, "/:")
	idx := strings.LastIndex(path, "@")
	if sep == -1 || idx < sep {
		return path, ""
	}
	return path[:idx], path[idx+1:]
}

// isGitHubShorthand returns true if path matches owner/repo pattern.
func isGitHubShorthand(path string) bool {
	slashIdx := strings.Index(path, "/")
	if slashIdx == -1 {
		return false
	}
	if strings.Count(path, "/") != 1 {
		return false
	}
	// A dot before the slash names a domain.
	if strings.Contains(path[:slashIdx], ".") {
		return false
	}
	return slashIdx > 0 && slashIdx < len(path)-1
}

// Clone fetches the repository into a new temporary directory and checks out
// Ref. Branches and tags are fetched alone; any other revision needs the
// full history. Shallow clones fetch a single commit when possible.
func (s *Source) Clone(ctx context.Context, progress io.Writer, shallow bool) error {
	base := git.CloneOptions{URL: s.URL, Progress: progress}
	if shallow {
		base.Depth = 1
	}

	if s.Ref == "" {
		_, err := s.cloneInto(ctx, base)
		return err
	}

	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(s.Ref),
		plumbing.NewTagReferenceName(s.Ref),
	} {
		opts := base
		opts.ReferenceName = name
		opts.SingleBranch = true
		if _, err := s.cloneInto(ctx, opts); err == nil {
			return nil
		}
	}

	full := base
	full.Depth = 0
	repo, err := s.cloneInto(ctx, full)
	if err != nil {
		return err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(s.Ref))
	if err != nil {
		s.Cleanup()
		return fmt.Errorf("resolve %s: %w", s.Ref, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		s.Cleanup()
		return err
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		s.Cleanup()
		return fmt.Errorf("checkout %s: %w", s.Ref, err)
	}
	return nil
}

func (s *Source) cloneInto(ctx context.Context, opts git.CloneOptions) (*git.Repository, error) {
	s.Cleanup()
	dir, err := os.MkdirTemp("", "mehen-remote-*")
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainCloneContext(ctx, dir, false, &opts)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("clone %s: %w", s.URL, err)
	}
	s.CloneDir = dir
	return repo, nil
}

// Cleanup removes the clone directory.
func (s *Source) Cleanup() {
	if s.CloneDir != "" {
		os.RemoveAll(s.CloneDir)
		s.CloneDir = ""
	}
}
