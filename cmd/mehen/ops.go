package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/output"
	outputSvc "github.com/panbanda/mehen/internal/service/output"
	"github.com/panbanda/mehen/pkg/spaces"
)

func opsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ops",
		Usage:     "List the operators and operands of every scope",
		ArgsUsage: "[path...]",
		Flags:     fileFlags(),
		Action:    runOpsCmd,
	}
}

func runOpsCmd(c *cli.Context) error {
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

	tracker := track(c, "Collecting operators...", files, &opts)
	ops, errs := newAnalysis(c, cfg).Ops(c.Context, files, opts)
	tracker.FinishSuccess()
	if err := checkErrors(len(ops), errs); err != nil {
		return err
	}

	out, err := newOutput(c, cfg, getFormat(c, cfg))
	if err != nil {
		return err
	}
	defer out.Close()

	if out.Format() == output.FormatText {
		for _, o := range ops {
			if err := spaces.DumpOps(out.Writer(), o); err != nil {
				return err
			}
		}
		return nil
	}

	docs := make([]outputSvc.Document, len(ops))
	for i, o := range ops {
		docs[i] = outputSvc.Document{Path: opsName(o), Data: o}
	}
	return out.OutputFiles(docs)
}

func opsName(o *spaces.OpsSpace) string {
	if o.Name == nil {
		return ""
	}
	return *o.Name
}
