package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/mehen/internal/mcpserver"
	scannerSvc "github.com/panbanda/mehen/internal/service/scanner"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes mehen's metrics
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "mehen": {
        "command": "mehen",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_metrics   Per-file and per-function code metrics
  - list_functions    Function names and line spans
  - analyze_ops       Operators and operands per scope
  - count_nodes       Syntax node counts by selector
  - diff_metrics      Metric changes between two git revisions`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	server := mcpserver.NewServer(version,
		mcpserver.WithAnalysis(newAnalysis(c, cfg)),
		mcpserver.WithScanner(scannerSvc.New(scannerSvc.WithConfig(cfg))),
	)
	return server.Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
