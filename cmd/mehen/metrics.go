package main

import (
	"encoding/json"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/scanner"
	"github.com/panbanda/mehen/internal/service/analysis"
	outputSvc "github.com/panbanda/mehen/internal/service/output"
	"github.com/panbanda/mehen/internal/summary"
	"github.com/panbanda/mehen/pkg/config"
	"github.com/panbanda/mehen/pkg/watch"
)

func metricsCmd() *cli.Command {
	return &cli.Command{
		Name:      "metrics",
		Aliases:   []string{"m"},
		Usage:     "Compute the metrics of every file and of its nested scopes",
		ArgsUsage: "[path...]",
		Flags: append(fileFlags(),
			&cli.BoolFlag{
				Name:    "pretty",
				Aliases: []string{"p"},
				Usage:   "Indent structured output",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"O"},
				Usage:   "Write one file per input into this directory",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print the distribution of the main metrics across files",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and recompute the metrics of files as they change",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: summary.DefaultTop,
				Usage: "Number of most complex files listed with --summary",
			},
		),
		Action: runMetricsCmd,
	}
}

func runMetricsCmd(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	files, opts, err := scanFiles(c, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	svc := newAnalysis(c, cfg)
	tracker := track(c, "Computing metrics...", files, &opts)
	docs, errs := svc.Metrics(c.Context, files, opts)
	tracker.FinishSuccess()
	if err := checkErrors(len(docs), errs); err != nil {
		return err
	}

	var extra []outputSvc.Option
	if dir := c.String("output-dir"); dir != "" && !c.Bool("summary") {
		extra = append(extra, outputSvc.WithDir(dir))
	}
	out, err := newOutput(c, cfg, getFormat(c, cfg), extra...)
	if err != nil {
		return err
	}
	defer out.Close()

	if c.Bool("summary") {
		sum, err := summary.Compute(docs, c.Int("top"))
		if err != nil {
			return err
		}
		if err := out.Output(sum.Report()); err != nil {
			return err
		}
	} else if err := outputMetrics(out, docs); err != nil {
		return err
	}

	if !c.Bool("watch") {
		return nil
	}
	opts.OnProgress = nil
	return watchMetrics(c, cfg, svc, opts, out)
}

func outputMetrics(out *outputSvc.Service, docs []json.RawMessage) error {
	results := make([]outputSvc.Document, len(docs))
	for i, doc := range docs {
		results[i] = outputSvc.Document{Path: documentName(doc), Data: doc}
	}
	return out.OutputFiles(results)
}

// watchMetrics reports the metrics of every batch of changed files under the
// first path until the command is interrupted.
func watchMetrics(c *cli.Context, cfg *config.Config, svc *analysis.Service, opts analysis.FileOptions, out *outputSvc.Service) error {
	logger := state(c).logger
	root := getPaths(c)[0]

	w, err := watch.NewWatcher(root, cfg, 0)
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetFilter(scanner.NewFilter(c.StringSlice("include"), c.StringSlice("exclude")))
	w.OnError(func(err error) {
		logger.Warn("watch error", "error", err)
	})

	color.Cyan("Watching for changes in %s...", root)
	color.Cyan("Press Ctrl+C to stop")

	err = w.Watch(c.Context, func(paths []string) {
		logger.Info("files changed", "count", len(paths))
		docs, _ := svc.Metrics(c.Context, paths, opts)
		if err := outputMetrics(out, docs); err != nil {
			logger.Warn("output failed", "error", err)
		}
	})
	if watch.IsStopped(err) {
		return nil
	}
	return err
}

// documentName reads the source path back from a metrics document, since
// skipped files leave no document.
func documentName(doc json.RawMessage) string {
	var named struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(doc, &named)
	return named.Name
}
