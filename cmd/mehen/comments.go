package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/pkg/tools"
)

func stripCommentsCmd() *cli.Command {
	return &cli.Command{
		Name:      "strip-comments",
		Usage:     "Remove the comments of a file, keeping its line numbers",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			languageFlag(),
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"i"},
				Usage:   "Rewrite the file instead of printing the result",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Print the changed lines instead of the whole result",
			},
		},
		Action: runStripCommentsCmd,
	}
}

func runStripCommentsCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("strip-comments takes exactly one file")
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
	res, root, rules, err := parseOne(c, path, lang)
	if err != nil {
		return err
	}
	defer res.Close()

	stripped, changed := tools.RemoveComments(root, res.Source, rules)

	switch {
	case c.Bool("diff"):
		if err := tools.WriteLineDiff(c.App.Writer, res.Source, stripped); err != nil {
			return err
		}
	case !c.Bool("in-place"):
		_, err := c.App.Writer.Write(stripped)
		return err
	}
	if !c.Bool("in-place") {
		return nil
	}
	if !changed {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, stripped, info.Mode().Perm())
}
