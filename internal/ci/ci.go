// Package ci detects the continuous integration environment a diff runs in.
package ci

import (
	"encoding/json"
	"os"
	"sort"
)

// Provider names a supported CI system.
type Provider string

const GitHubActions Provider = "github-actions"

// Context describes the event that triggered a CI run.
type Context struct {
	Provider  Provider
	EventName string
	// BaseRef is the target branch of a pull request or merge group.
	BaseRef string
	HeadSHA string
	// ChangedFiles holds the paths touched by a push event, sorted and
	// deduplicated. Nil when the payload carries none.
	ChangedFiles []string
	PRNumber     int
	Repository   string
}

// Detect returns the CI context of the current process, or nil outside CI.
func Detect() *Context {
	return DetectEnv(os.Getenv)
}

// DetectEnv is Detect over an arbitrary environment lookup.
func DetectEnv(getenv func(string) string) *Context {
	if getenv("GITHUB_ACTIONS") != "true" {
		return nil
	}

	ctx := &Context{
		Provider:   GitHubActions,
		EventName:  getenv("GITHUB_EVENT_NAME"),
		BaseRef:    getenv("GITHUB_BASE_REF"),
		HeadSHA:    getenv("GITHUB_SHA"),
		Repository: getenv("GITHUB_REPOSITORY"),
	}

	path := getenv("GITHUB_EVENT_PATH")
	if path == "" {
		return ctx
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ctx
	}
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ctx
	}

	switch ctx.EventName {
	case "push":
		ctx.ChangedFiles = payload.changedFiles()
	case "pull_request":
		if payload.PullRequest != nil {
			if ctx.BaseRef == "" {
				ctx.BaseRef = payload.PullRequest.Base.Ref
			}
			ctx.PRNumber = payload.Number
		}
	case "merge_group":
		if payload.MergeGroup != nil && ctx.BaseRef == "" {
			ctx.BaseRef = payload.MergeGroup.BaseRef
		}
	}
	return ctx
}

type eventPayload struct {
	Number  int `json:"number"`
	Commits []struct {
		Added    []string `json:"added"`
		Modified []string `json:"modified"`
		Removed  []string `json:"removed"`
	} `json:"commits"`
	PullRequest *struct {
		Base struct {
			Ref string `json:"ref"`
		} `json:"base"`
	} `json:"pull_request"`
	MergeGroup *struct {
		BaseRef string `json:"base_ref"`
	} `json:"merge_group"`
}

func (p *eventPayload) changedFiles() []string {
	seen := make(map[string]struct{})
	for _, c := range p.Commits {
		for _, group := range [][]string{c.Added, c.Modified, c.Removed} {
			for _, path := range group {
				seen[path] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}
