package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

const stateKey = "mehen"

// appState is shared by every command of one run.
type appState struct {
	configPath string
	logger     *slog.Logger
	cpuFile    *os.File
	cleanups   []func()

	once sync.Once
	cfg  *config.Config
	err  error
}

// Config loads the configuration on first use.
func (s *appState) Config() (*config.Config, error) {
	s.once.Do(func() {
		s.cfg, s.err = loadConfig(s.configPath)
	})
	return s.cfg, s.err
}

func state(c *cli.Context) *appState {
	if st, ok := c.App.Metadata[stateKey].(*appState); ok {
		return st
	}
	st := &appState{logger: slog.Default()}
	c.App.Metadata[stateKey] = st
	return st
}

func loadConfig(path string) (*config.Config, error) {
	var opts []config.LoadOption
	if path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "mehen",
		Usage:    "Source code metrics for Rust, Python, TypeScript and Go",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Mehen parses source files with tree-sitter and computes, for every file and
every nested function, class or impl: cyclomatic and cognitive complexity,
Halstead measures, lines of code, maintainability index, ABC, arguments,
exits, methods and class members. It can also diff these metrics between
two git revisions.

Supports: Rust, Python, TypeScript, TSX, Go`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"MEHEN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, yaml, toml, toon, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: before,
		After:  after,
		Commands: []*cli.Command{
			metricsCmd(),
			functionsCmd(),
			opsCmd(),
			dumpCmd(),
			findCmd(),
			countCmd(),
			stripCommentsCmd(),
			diffCmd(),
			mcpCmd(),
			configCmd(),
			cacheCmd(),
		},
	}
}

func before(c *cli.Context) error {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	st := state(c)
	st.configPath = c.String("config")
	st.logger = slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	if prefix := c.String("pprof"); prefix != "" {
		cpuFile, err := os.Create(prefix + ".cpu.pprof")
		if err != nil {
			return fmt.Errorf("failed to create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return fmt.Errorf("failed to start CPU profile: %w", err)
		}
		st.cpuFile = cpuFile
	}
	return nil
}

func after(c *cli.Context) error {
	st := state(c)
	for _, fn := range st.cleanups {
		fn()
	}

	prefix := c.String("pprof")
	if prefix == "" {
		return nil
	}

	pprof.StopCPUProfile()
	if st.cpuFile != nil {
		st.cpuFile.Close()
		color.Green("CPU profile written to %s.cpu.pprof", prefix)
	}

	memFile, err := os.Create(prefix + ".mem.pprof")
	if err != nil {
		return fmt.Errorf("failed to create memory profile: %w", err)
	}
	defer memFile.Close()

	runtime.GC()
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("failed to write memory profile: %w", err)
	}
	color.Green("Memory profile written to %s.mem.pprof", prefix)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
