// Package analysis runs the metric engine over sets of files. It is shared
// by the command line and the MCP server.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/panbanda/mehen/internal/cache"
	"github.com/panbanda/mehen/internal/ci"
	"github.com/panbanda/mehen/internal/diff"
	"github.com/panbanda/mehen/internal/fileproc"
	"github.com/panbanda/mehen/internal/vcs"
	"github.com/panbanda/mehen/pkg/config"
	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
	"github.com/panbanda/mehen/pkg/spaces"
	"github.com/panbanda/mehen/pkg/tools"
)

// Service orchestrates code analysis operations.
type Service struct {
	config *config.Config
	opener vcs.Opener
	cache  *cache.Cache
	logger *slog.Logger
	detect func() *ci.Context
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

// WithCache enables result caching for Metrics.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCIDetector replaces the detection of the CI environment used by Diff.
func WithCIDetector(detect func() *ci.Context) Option {
	return func(s *Service) {
		s.detect = detect
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
		logger: slog.Default(),
		detect: ci.Detect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileOptions tunes a run over several files.
type FileOptions struct {
	// Language is forced onto every file when set. Otherwise it is guessed
	// from the editor mode line and the file extension.
	Language   parser.Language
	Jobs       int
	OnProgress fileproc.ProgressFunc
	OnError    fileproc.ErrorFunc
}

func (s *Service) procOptions(opts FileOptions) fileproc.Options {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = s.config.Analysis.Jobs
	}
	return fileproc.Options{Workers: jobs, OnProgress: opts.OnProgress, OnError: opts.OnError}
}

// Load reads path and settles its language. Files that are empty, binary
// or of no supported language yield fileproc.Skip.
func Load(path string, forced parser.Language) ([]byte, parser.Language, error) {
	src, err := parser.ReadFileWithEOL(path)
	if err != nil {
		return nil, parser.LangUnknown, err
	}
	if src == nil {
		return nil, parser.LangUnknown, fileproc.Skip
	}
	lang := forced
	if lang == "" || lang == parser.LangUnknown {
		lang = parser.GuessLanguage(src, path)
	}
	if lang == parser.LangUnknown {
		return nil, parser.LangUnknown, fileproc.Skip
	}
	return src, lang, nil
}

// Parse loads and parses one file. The caller closes the result.
func Parse(ctx context.Context, psr *parser.Parser, path string, forced parser.Language) (*parser.ParseResult, error) {
	src, lang, err := Load(path, forced)
	if err != nil {
		return nil, err
	}
	return psr.ParseContext(ctx, src, lang, path)
}

// Metrics returns the metrics document of every file as JSON, in the order
// of files. Documents come from the cache when the source is unchanged.
func (s *Service) Metrics(ctx context.Context, files []string, opts FileOptions) ([]json.RawMessage, *fileproc.ProcessingErrors) {
	return fileproc.MapFiles(ctx, files, func(psr *parser.Parser, path string) (json.RawMessage, error) {
		src, lang, err := Load(path, opts.Language)
		if err != nil {
			return nil, err
		}

		key := cacheKey(lang, path)
		hash := cache.HashBytes(src)
		if data, ok := s.cache.Get(key, hash); ok {
			return data, nil
		}

		res, err := psr.ParseContext(ctx, src, lang, path)
		if err != nil {
			return nil, err
		}
		defer res.Close()

		space, err := spaces.FromParseResult(res, spaces.Options{})
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(space)
		if err != nil {
			return nil, fmt.Errorf("encode metrics: %w", err)
		}
		if err := s.cache.Set(key, hash, data); err != nil {
			s.logger.Debug("cache write failed", "path", path, "error", err)
		}
		return data, nil
	}, s.procOptions(opts))
}

// cacheKey uses the path as given since it names the document.
func cacheKey(lang parser.Language, path string) string {
	return cache.Key("metrics", string(lang), path)
}

// FileFunctions lists the functions of one file.
type FileFunctions struct {
	Path      string                `json:"path"`
	Functions []spaces.FunctionSpan `json:"functions"`
}

// Functions lists the functions of every file.
func (s *Service) Functions(ctx context.Context, files []string, opts FileOptions) ([]FileFunctions, *fileproc.ProcessingErrors) {
	return fileproc.MapFiles(ctx, files, func(psr *parser.Parser, path string) (FileFunctions, error) {
		res, err := Parse(ctx, psr, path, opts.Language)
		if err != nil {
			return FileFunctions{}, err
		}
		defer res.Close()

		spans, err := spaces.FunctionSpans(res.Tree, res.Language, res.Source)
		if err != nil {
			return FileFunctions{}, err
		}
		if spans == nil {
			spans = []spaces.FunctionSpan{}
		}
		return FileFunctions{Path: path, Functions: spans}, nil
	}, s.procOptions(opts))
}

// Ops lists the operators and operands of every file.
func (s *Service) Ops(ctx context.Context, files []string, opts FileOptions) ([]*spaces.OpsSpace, *fileproc.ProcessingErrors) {
	return fileproc.MapFiles(ctx, files, func(psr *parser.Parser, path string) (*spaces.OpsSpace, error) {
		res, err := Parse(ctx, psr, path, opts.Language)
		if err != nil {
			return nil, err
		}
		defer res.Close()
		return spaces.Ops(res.Tree, res.Language, res.Source, path)
	}, s.procOptions(opts))
}

// Count counts the nodes matching selectors over all files.
func (s *Service) Count(ctx context.Context, files []string, selectors []string, opts FileOptions) (tools.Count, *fileproc.ProcessingErrors) {
	counts, errs := fileproc.MapFiles(ctx, files, func(psr *parser.Parser, path string) (tools.Count, error) {
		res, err := Parse(ctx, psr, path, opts.Language)
		if err != nil {
			return tools.Count{}, err
		}
		defer res.Close()

		rules, err := langs.For(res.Language)
		if err != nil {
			return tools.Count{}, err
		}
		root := node.Root(res.Tree, rules.Kinds())
		return tools.CountNodes(root, tools.NewFilters(selectors, rules)), nil
	}, s.procOptions(opts))

	var total tools.Count
	for _, c := range counts {
		total.Merge(c)
	}
	return total, errs
}

// Diff compares the metrics of the files changed between two revisions of
// the repository containing dir. Unset options fall back to the diff
// section of the configuration.
func (s *Service) Diff(ctx context.Context, dir string, opts diff.Options) (*diff.Report, error) {
	repo, err := s.opener.Open(dir)
	if err != nil {
		return nil, err
	}

	cfg := s.config.Diff
	if len(opts.Metrics) == 0 {
		opts.Metrics = cfg.Metrics
	}
	if len(opts.Include) == 0 {
		opts.Include = cfg.Include
	}
	if len(opts.Exclude) == 0 {
		opts.Exclude = cfg.Exclude
	}
	opts.ShowUnchanged = opts.ShowUnchanged || cfg.ShowUnchanged
	if opts.Jobs <= 0 {
		opts.Jobs = s.config.Analysis.Jobs
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}

	return diff.Run(ctx, repo, opts, s.detect())
}
