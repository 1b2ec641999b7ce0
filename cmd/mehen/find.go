package main

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/fileproc"
	"github.com/panbanda/mehen/internal/output"
	"github.com/panbanda/mehen/internal/service/analysis"
	outputSvc "github.com/panbanda/mehen/internal/service/output"
	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
	"github.com/panbanda/mehen/pkg/tools"
)

const selectorUsage = "Node selector: a grammar type, a symbol id, or one of all, call, closure, comment, error, function, string"

func findCmd() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Print the syntax nodes matching a selector",
		ArgsUsage: "[path...]",
		Flags: append(fileFlags(),
			&cli.StringSliceFlag{
				Name:     "kind",
				Aliases:  []string{"k"},
				Usage:    selectorUsage,
				Required: true,
			},
		),
		Action: runFindCmd,
	}
}

func countCmd() *cli.Command {
	return &cli.Command{
		Name:      "count",
		Usage:     "Count the syntax nodes matching a selector",
		ArgsUsage: "[path...]",
		Flags: append(fileFlags(),
			&cli.StringSliceFlag{
				Name:     "kind",
				Aliases:  []string{"k"},
				Usage:    selectorUsage,
				Required: true,
			},
		),
		Action: runCountCmd,
	}
}

// Match is one node found in a file.
type Match struct {
	Kind        string `json:"kind"`
	Symbol      uint16 `json:"symbol"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
	Text        string `json:"text,omitempty"`
}

// FileMatches holds the matches of one file; dump is its text rendering.
type FileMatches struct {
	Path    string  `json:"path"`
	Matches []Match `json:"matches"`

	dump []byte
}

func runFindCmd(c *cli.Context) error {
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

	out, err := newOutput(c, cfg, getFormat(c, cfg))
	if err != nil {
		return err
	}
	defer out.Close()

	text := out.Format() == output.FormatText
	selectors := c.StringSlice("kind")
	found, errs := fileproc.MapFiles(c.Context, files, func(psr *parser.Parser, path string) (FileMatches, error) {
		res, err := analysis.Parse(c.Context, psr, path, opts.Language)
		if err != nil {
			return FileMatches{}, err
		}
		defer res.Close()

		rules, err := langs.For(res.Language)
		if err != nil {
			return FileMatches{}, err
		}
		nodes := tools.Find(node.Root(res.Tree, rules.Kinds()), tools.NewFilters(selectors, rules))
		return collectMatches(path, nodes, res.Source, text)
	}, fileproc.Options{Workers: opts.Jobs, OnError: func(path string, err error) {
		state(c).logger.Warn("analysis failed", "path", path, "error", err)
	}})
	if err := checkErrors(len(found), errs); err != nil {
		return err
	}

	if text {
		for _, f := range found {
			if len(f.Matches) == 0 {
				continue
			}
			if _, err := out.Writer().Write(f.dump); err != nil {
				return err
			}
		}
		return nil
	}

	docs := make([]outputSvc.Document, len(found))
	for i, f := range found {
		docs[i] = outputSvc.Document{Path: f.Path, Data: f}
	}
	return out.OutputFiles(docs)
}

func collectMatches(path string, nodes []node.Node, source []byte, text bool) (FileMatches, error) {
	fm := FileMatches{Path: path, Matches: make([]Match, 0, len(nodes))}
	var buf bytes.Buffer
	if text && len(nodes) > 0 {
		fmt.Fprintf(&buf, "In file %s\n", path)
	}
	for _, n := range nodes {
		m := Match{
			Kind:        n.Type(),
			Symbol:      n.Symbol(),
			StartLine:   n.StartRow() + 1,
			StartColumn: n.StartColumn() + 1,
			EndLine:     n.EndRow() + 1,
			EndColumn:   n.EndColumn() + 1,
		}
		if n.StartRow() == n.EndRow() {
			m.Text, _ = n.UTF8Text(source)
		}
		fm.Matches = append(fm.Matches, m)

		if text {
			if err := tools.Dump(&buf, n, source, tools.DumpOptions{}); err != nil {
				return FileMatches{}, err
			}
		}
	}
	fm.dump = buf.Bytes()
	return fm, nil
}

// countResult is the structured form of a node count.
type countResult struct {
	tools.Count
	Percentage float64 `json:"percentage"`
}

func runCountCmd(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	files, opts, err := scanFiles(c, cfg)
	if err != nil {
		return err
	}

	tracker := track(c, "Counting nodes...", files, &opts)
	count, errs := newAnalysis(c, cfg).Count(c.Context, files, c.StringSlice("kind"), opts)
	tracker.FinishSuccess()
	if count.Total == 0 && errs.HasErrors() {
		return errs
	}

	out, err := newOutput(c, cfg, getFormat(c, cfg))
	if err != nil {
		return err
	}
	defer out.Close()

	if out.Format() == output.FormatText {
		_, err := fmt.Fprintln(out.Writer(), count.String())
		return err
	}
	return out.Output(countResult{Count: count, Percentage: count.Percentage()})
}
