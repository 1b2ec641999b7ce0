// Package scanner discovers the source files to analyze.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/panbanda/mehen/pkg/config"
	"github.com/panbanda/mehen/pkg/parser"
)

// Scanner finds source files in a directory.
type Scanner struct {
	config *config.Config
	filter *Filter
}

// NewScanner creates a new file scanner. Include patterns come from the
// config and can be replaced with WithFilter.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{
		config: cfg,
		filter: NewFilter(cfg.Analysis.Include, cfg.Exclude.Patterns),
	}
}

// WithFilter replaces the include and exclude globs of the scanner.
func (s *Scanner) WithFilter(include, exclude []string) *Scanner {
	s.filter = NewFilter(include, append(append([]string{}, s.config.Exclude.Patterns...), exclude...))
	return s
}

// Filter matches slash separated relative paths against include and exclude
// globs written in .gitignore syntax. A path passes when it matches some
// include glob (or there are none) and no exclude glob.
type Filter struct {
	include gitignore.Matcher
	exclude gitignore.Matcher
}

// NewFilter compiles include and exclude globs.
func NewFilter(include, exclude []string) *Filter {
	return &Filter{
		include: compile(include),
		exclude: compile(exclude),
	}
}

func compile(globs []string) gitignore.Matcher {
	if len(globs) == 0 {
		return nil
	}
	patterns := make([]gitignore.Pattern, 0, len(globs))
	for _, g := range globs {
		if g = strings.TrimSpace(g); g != "" {
			patterns = append(patterns, gitignore.ParsePattern(g, nil))
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	return gitignore.NewMatcher(patterns)
}

// Match reports whether a file path passes the filter.
func (f *Filter) Match(path string) bool {
	if f == nil {
		return true
	}
	parts := splitPath(path)
	if f.exclude != nil && f.exclude.Match(parts, false) {
		return false
	}
	if f.include != nil && !f.include.Match(parts, false) {
		return false
	}
	return true
}

// excludesDir reports whether a directory is excluded as a whole.
func (f *Filter) excludesDir(path string) bool {
	return f != nil && f.exclude != nil && f.exclude.Match(splitPath(path), true)
}

func splitPath(path string) []string {
	path = filepath.ToSlash(filepath.Clean(path))
	return strings.Split(strings.TrimPrefix(path, "./"), "/")
}

// findGitRoot finds the root of the git repository by looking for a .git
// entry. Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ignoreSet is the .gitignore matcher of one walk, anchored at base.
type ignoreSet struct {
	base    string
	matcher gitignore.Matcher
}

func (s *Scanner) loadGitignore(root string) *ignoreSet {
	if !s.config.Exclude.Gitignore {
		return nil
	}
	base := findGitRoot(root)
	if base == "" {
		base = root
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(base), nil)
	if err != nil || len(patterns) == 0 {
		return nil
	}
	return &ignoreSet{base: base, matcher: gitignore.NewMatcher(patterns)}
}

func (g *ignoreSet) ignored(path string, isDir bool) bool {
	if g == nil {
		return false
	}
	rel, err := filepath.Rel(g.base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return g.matcher.Match(splitPath(rel), isDir)
}

func (s *Scanner) excludedDir(name string) bool {
	for _, d := range s.config.Exclude.Dirs {
		if d == name {
			return true
		}
	}
	return false
}

// Scan expands the given paths into the files to analyze. Directories are
// walked; explicit file arguments are kept as given.
func (s *Scanner) Scan(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := s.ScanDir(path)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// ScanDir recursively scans a directory for source files. Hidden
// directories, the configured exclude dirs and .gitignore entries are
// skipped. Symlinks escaping the root are not followed.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	ignore := s.loadGitignore(absRoot)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == absRoot {
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || s.excludedDir(name) ||
				s.filter.excludesDir(relPath) || ignore.ignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignore.ignored(path, false) || !s.filter.Match(relPath) {
			return nil
		}
		if parser.DetectLanguage(path) != parser.LangUnknown {
			files = append(files, filepath.Join(root, relPath))
		}
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// FilterByLanguage filters files to only those of a specific language.
func (s *Scanner) FilterByLanguage(files []string, lang parser.Language) []string {
	var filtered []string
	for _, f := range files {
		if parser.DetectLanguage(f) == lang {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// GroupByLanguage groups files by their detected language.
func (s *Scanner) GroupByLanguage(files []string) map[parser.Language][]string {
	groups := make(map[parser.Language][]string)
	for _, f := range files {
		lang := parser.DetectLanguage(f)
		if lang != parser.LangUnknown {
			groups[lang] = append(groups[lang], f)
		}
	}
	return groups
}

// FilterBySize filters files that exceed the configured maximum size.
// Returns the filtered list and the count of files that were skipped.
// If maxSize is 0, returns the original list unchanged.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, skipped
}
