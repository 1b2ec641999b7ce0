package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/cache"
	"github.com/panbanda/mehen/internal/fileproc"
	"github.com/panbanda/mehen/internal/output"
	"github.com/panbanda/mehen/internal/progress"
	"github.com/panbanda/mehen/internal/remote"
	"github.com/panbanda/mehen/internal/service/analysis"
	outputSvc "github.com/panbanda/mehen/internal/service/output"
	scannerSvc "github.com/panbanda/mehen/internal/service/scanner"
	"github.com/panbanda/mehen/pkg/config"
	"github.com/panbanda/mehen/pkg/parser"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// fileFlags are shared by the commands walking files and directories.
func fileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Number of parallel workers (default: 2 x CPUs)",
		},
		&cli.StringSliceFlag{
			Name:    "include",
			Aliases: []string{"I"},
			Usage:   "Only analyze files matching these gitignore style globs",
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Aliases: []string{"X"},
			Usage:   "Skip files matching these gitignore style globs",
		},
		languageFlag(),
	}
}

func languageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "language",
		Aliases: []string{"l"},
		Usage:   "Force a language: rust, python, typescript, tsx, go",
	}
}

// getLanguage resolves --language, falling back to the configuration.
func getLanguage(c *cli.Context, cfg *config.Config) (parser.Language, error) {
	name := c.String("language")
	if name == "" {
		name = cfg.Analysis.Language
	}
	if name == "" {
		return "", nil
	}
	lang := parser.ParseLanguage(name)
	if lang == parser.LangUnknown {
		return "", fmt.Errorf("unsupported language %q", name)
	}
	return lang, nil
}

// getFormat returns --format or the configured default.
func getFormat(c *cli.Context, cfg *config.Config) output.Format {
	if f := c.String("format"); f != "" {
		return output.ParseFormat(f)
	}
	return output.ParseFormat(cfg.Output.Format)
}

func newOutput(c *cli.Context, cfg *config.Config, format output.Format, opts ...outputSvc.Option) (*outputSvc.Service, error) {
	base := []outputSvc.Option{
		outputSvc.WithFormat(format),
		outputSvc.WithWriter(c.App.Writer),
		outputSvc.WithColor(cfg.Output.Color && !color.NoColor),
		outputSvc.WithPretty(cfg.Output.Pretty || c.Bool("pretty")),
		outputSvc.WithFile(c.String("output")),
	}
	return outputSvc.New(append(base, opts...)...)
}

// newCache opens the result cache unless it is disabled. A cache that
// cannot be opened is logged and skipped.
func newCache(c *cli.Context, cfg *config.Config, logger *slog.Logger) *cache.Cache {
	if c.Bool("no-cache") || !cfg.Cache.Enabled {
		return nil
	}
	dir := cfg.Cache.Dir
	if !filepath.IsAbs(dir) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
	}
	ch, err := cache.New(dir, cfg.Cache.TTL, true)
	if err != nil {
		logger.Warn("cache disabled", "dir", dir, "error", err)
		return nil
	}
	return ch
}

func newAnalysis(c *cli.Context, cfg *config.Config) *analysis.Service {
	logger := state(c).logger
	return analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithLogger(logger),
		analysis.WithCache(newCache(c, cfg, logger)),
	)
}

// scanFiles expands the positional paths with the file flags.
func scanFiles(c *cli.Context, cfg *config.Config) ([]string, analysis.FileOptions, error) {
	lang, err := getLanguage(c, cfg)
	if err != nil {
		return nil, analysis.FileOptions{}, err
	}

	paths, err := resolvePaths(c)
	if err != nil {
		return nil, analysis.FileOptions{}, err
	}

	svc := scannerSvc.New(scannerSvc.WithConfig(cfg))
	result, err := svc.ScanPaths(paths, scannerSvc.ScanOptions{
		Include:  c.StringSlice("include"),
		Exclude:  c.StringSlice("exclude"),
		Language: lang,
	})
	if err != nil {
		return nil, analysis.FileOptions{}, err
	}
	if result.Skipped > 0 {
		state(c).logger.Info("skipped files over the size limit", "count", result.Skipped)
	}
	return result.Files, analysis.FileOptions{Language: lang, Jobs: c.Int("jobs")}, nil
}

// resolvePaths replaces remote repository references among the positional
// paths with shallow clones, removed when the command ends.
func resolvePaths(c *cli.Context) ([]string, error) {
	st := state(c)
	paths := getPaths(c)
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		src, err := remote.Parse(p)
		if err != nil {
			return nil, err
		}
		if src == nil {
			resolved = append(resolved, p)
			continue
		}

		var progress io.Writer = io.Discard
		if c.Bool("verbose") {
			progress = c.App.ErrWriter
		}
		st.logger.Info("cloning remote repository", "url", src.URL, "ref", src.Ref)
		if err := src.Clone(c.Context, progress, true); err != nil {
			return nil, err
		}
		st.cleanups = append(st.cleanups, src.Cleanup)
		resolved = append(resolved, src.CloneDir)
	}
	return resolved, nil
}

// track attaches a progress bar and failure logging to opts.
func track(c *cli.Context, label string, files []string, opts *analysis.FileOptions) *progress.Tracker {
	logger := state(c).logger
	tracker := progress.NewTracker(label, len(files))
	opts.OnProgress = tracker.TickFile
	opts.OnError = func(path string, err error) {
		logger.Warn("analysis failed", "path", path, "error", err)
	}
	return tracker
}

// checkErrors fails the command when every file failed.
func checkErrors(results int, errs *fileproc.ProcessingErrors) error {
	if results == 0 && errs.HasErrors() {
		return errs
	}
	return nil
}

func setup(c *cli.Context) (*config.Config, error) {
	return state(c).Config()
}
