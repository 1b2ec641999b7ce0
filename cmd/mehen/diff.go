package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/diff"
	"github.com/panbanda/mehen/internal/output"
)

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Compare the metrics of changed files between two git revisions",
		ArgsUsage: "[path]",
		Description: `Analyzes every supported file changed between two revisions and reports
how the selected metrics moved. Without --from, the base is taken from the
CI environment (GitHub Actions, GitLab CI) or defaults to HEAD~1. Without
--to, the working tree is compared when --from is given, HEAD otherwise.

Metrics are selectors such as cyclomatic, cognitive.average, nom.functions
or loc.lloc. The report defaults to Markdown, ready for a PR comment.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "Base revision",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Target revision (default: HEAD, or the working tree with --from)",
			},
			&cli.StringSliceFlag{
				Name:    "metrics",
				Aliases: []string{"m"},
				Usage:   "Metric selectors to compare",
			},
			&cli.StringSliceFlag{
				Name:    "include",
				Aliases: []string{"I"},
				Usage:   "Only compare files matching these globs",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"X"},
				Usage:   "Skip files matching these globs",
			},
			&cli.BoolFlag{
				Name:  "show-unchanged",
				Usage: "Also list files whose metrics did not move",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Number of parallel workers",
			},
		},
		Action: runDiffCmd,
	}
}

func runDiffCmd(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("diff takes at most one path")
	}
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	report, err := newAnalysis(c, cfg).Diff(c.Context, getPaths(c)[0], diff.Options{
		From:          c.String("from"),
		To:            c.String("to"),
		Metrics:       c.StringSlice("metrics"),
		Include:       c.StringSlice("include"),
		Exclude:       c.StringSlice("exclude"),
		ShowUnchanged: c.Bool("show-unchanged"),
		Jobs:          c.Int("jobs"),
	})
	if err != nil {
		return err
	}

	format := output.FormatMarkdown
	if f := c.String("format"); f != "" {
		format = output.ParseFormat(f)
	}
	out, err := newOutput(c, cfg, format)
	if err != nil {
		return err
	}
	defer out.Close()
	return out.Output(report)
}
