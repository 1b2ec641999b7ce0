package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/output"
	outputSvc "github.com/panbanda/mehen/internal/service/output"
	"github.com/panbanda/mehen/pkg/spaces"
)

func functionsCmd() *cli.Command {
	return &cli.Command{
		Name:      "functions",
		Aliases:   []string{"fn"},
		Usage:     "List the functions of every file with their line spans",
		ArgsUsage: "[path...]",
		Flags:     fileFlags(),
		Action:    runFunctionsCmd,
	}
}

func runFunctionsCmd(c *cli.Context) error {
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

	tracker := track(c, "Listing functions...", files, &opts)
	funcs, errs := newAnalysis(c, cfg).Functions(c.Context, files, opts)
	tracker.FinishSuccess()
	if err := checkErrors(len(funcs), errs); err != nil {
		return err
	}

	out, err := newOutput(c, cfg, getFormat(c, cfg))
	if err != nil {
		return err
	}
	defer out.Close()

	if out.Format() == output.FormatText {
		for _, f := range funcs {
			if err := spaces.DumpSpans(out.Writer(), f.Path, f.Functions); err != nil {
				return err
			}
		}
		return nil
	}

	docs := make([]outputSvc.Document, len(funcs))
	for i, f := range funcs {
		docs[i] = outputSvc.Document{Path: f.Path, Data: f}
	}
	return out.OutputFiles(docs)
}
