package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/fileproc"
	"github.com/panbanda/mehen/internal/service/analysis"
	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
	"github.com/panbanda/mehen/pkg/tools"
)

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the syntax tree of a file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			languageFlag(),
			&cli.IntFlag{
				Name:  "line-start",
				Usage: "First line printed (1-based)",
			},
			&cli.IntFlag{
				Name:  "line-end",
				Usage: "Last line printed (1-based, inclusive)",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Number of tree levels printed (0 = all)",
			},
		},
		Action: runDumpCmd,
	}
}

func runDumpCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("dump takes exactly one file")
	}
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	lang, err := getLanguage(c, cfg)
	if err != nil {
		return err
	}

	path := c.Args().First()
	res, root, _, err := parseOne(c, path, lang)
	if err != nil {
		return err
	}
	defer res.Close()

	return tools.Dump(c.App.Writer, root, res.Source, tools.DumpOptions{
		Depth:     c.Int("depth"),
		LineStart: c.Int("line-start"),
		LineEnd:   c.Int("line-end"),
	})
}

// parseOne parses a single file for the commands working on one tree.
func parseOne(c *cli.Context, path string, lang parser.Language) (*parser.ParseResult, node.Node, langs.Rules, error) {
	psr := parser.New()
	defer psr.Close()

	res, err := analysis.Parse(c.Context, psr, path, lang)
	if errors.Is(err, fileproc.Skip) {
		return nil, node.Node{}, nil, fmt.Errorf("%s: empty file or unsupported language", path)
	}
	if err != nil {
		return nil, node.Node{}, nil, err
	}
	rules, err := langs.For(res.Language)
	if err != nil {
		res.Close()
		return nil, node.Node{}, nil, err
	}
	return res, node.Root(res.Tree, rules.Kinds()), rules, nil
}
