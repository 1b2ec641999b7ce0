package scanner

import (
	"os"
	"path/filepath"

	"github.com/panbanda/mehen/internal/scanner"
	"github.com/panbanda/mehen/internal/vcs"
	"github.com/panbanda/mehen/pkg/config"
	"github.com/panbanda/mehen/pkg/parser"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files          []string
	LanguageGroups map[parser.Language][]string
	// Skipped counts files dropped for exceeding the size limit.
	Skipped  int
	RepoRoot string
}

// ScanOptions narrows a scan. Include and Exclude are added to the globs
// of the configuration.
type ScanOptions struct {
	Include []string
	Exclude []string
	// Language keeps only directory entries of that language. Explicit
	// file arguments are always kept so that the language can be forced
	// onto them.
	Language parser.Language
	// MaxFileSize overrides the configured size limit when positive.
	MaxFileSize int64
}

// Service provides file scanning functionality.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener.
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanPaths expands files and directories into the source files to analyze.
// No paths means the current directory.
func (s *Service) ScanPaths(paths []string, opts ScanOptions) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	include := opts.Include
	if len(include) == 0 {
		include = s.config.Analysis.Include
	}
	scan := scanner.NewScanner(s.config).WithFilter(include, opts.Exclude)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		if opts.Language != "" && opts.Language != parser.LangUnknown {
			found = scan.FilterByLanguage(found, opts.Language)
		}
		files = append(files, found...)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = s.config.Analysis.MaxFileSize
	}
	files, skipped := scanner.FilterBySize(files, maxSize)

	return &ScanResult{
		Files:          files,
		LanguageGroups: scan.GroupByLanguage(files),
		Skipped:        skipped,
	}, nil
}

// ScanPathsForGit scans paths and also resolves the git repository root.
// Returns an error if not in a git repository when gitRequired is true.
func (s *Service) ScanPathsForGit(paths []string, opts ScanOptions, gitRequired bool) (*ScanResult, error) {
	result, err := s.ScanPaths(paths, opts)
	if err != nil {
		return nil, err
	}

	start := "."
	if len(paths) > 0 {
		start = paths[0]
	}
	root, err := s.findGitRoot(start)
	if err != nil {
		if gitRequired {
			return nil, &GitError{Err: err}
		}
	} else {
		result.RepoRoot = root
	}
	return result, nil
}

func (s *Service) findGitRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	repo, err := s.opener.Open(absPath)
	if err != nil {
		return "", err
	}
	return repo.Root(), nil
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan directory " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates the path is not a git repository.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "not a git repository (or any parent): " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
