package diff

import (
	"github.com/panbanda/mehen/internal/ci"
	"github.com/panbanda/mehen/internal/vcs"
)

// ResolveRefs picks the revisions to compare. Explicit values win; inside CI
// the triggering event decides, and outside CI main is compared to HEAD.
func ResolveRefs(from, to string, env *ci.Context) (string, string) {
	if from != "" && to != "" {
		return from, to
	}

	if env != nil {
		if to == "" {
			to = env.HeadSHA
		}
		if to == "" {
			to = "HEAD"
		}
		if from == "" {
			from = ciBase(env)
		}
		return from, to
	}

	if from == "" {
		from = "main"
	}
	if to == "" {
		to = "HEAD"
	}
	return from, to
}

func ciBase(env *ci.Context) string {
	switch env.EventName {
	case "push":
		return "HEAD~1"
	case "pull_request", "merge_group":
		if env.BaseRef != "" {
			return "origin/" + env.BaseRef
		}
		return "origin/main"
	default:
		return "main"
	}
}

// ChangedFiles lists the files to compare. Push events that carry their
// file list are trusted as is, every entry treated as modified; otherwise the
// trees of both revisions are diffed.
func ChangedFiles(repo vcs.Repository, from, to string, env *ci.Context) ([]vcs.ChangedFile, error) {
	if env != nil && env.EventName == "push" && env.ChangedFiles != nil {
		files := make([]vcs.ChangedFile, len(env.ChangedFiles))
		for i, path := range env.ChangedFiles {
			files[i] = vcs.ChangedFile{Path: path, Status: vcs.Modified}
		}
		return files, nil
	}
	return repo.ChangedFiles(from, to)
}
