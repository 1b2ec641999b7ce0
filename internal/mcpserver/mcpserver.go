// Package mcpserver exposes the metric engine as Model Context Protocol
// tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/mehen/internal/service/analysis"
	scannerSvc "github.com/panbanda/mehen/internal/service/scanner"
)

// Server wraps the MCP server and registers all mehen tools.
type Server struct {
	server   *mcp.Server
	analysis *analysis.Service
	scanner  *scannerSvc.Service
}

// Option configures a Server.
type Option func(*Server)

// WithAnalysis sets the analysis service behind the tools.
func WithAnalysis(svc *analysis.Service) Option {
	return func(s *Server) {
		s.analysis = svc
	}
}

// WithScanner sets the service expanding tool paths into files.
func WithScanner(svc *scannerSvc.Service) Option {
	return func(s *Server) {
		s.scanner = svc
	}
}

// NewServer creates a new MCP server with all mehen tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mehen",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	for _, opt := range opts {
		opt(s)
	}
	if s.analysis == nil {
		s.analysis = analysis.New()
	}
	if s.scanner == nil {
		s.scanner = scannerSvc.New()
	}

	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcp.StdioTransport{})
}

// RunWithTransport serves a single session over t until it ends or ctx is
// done.
func (s *Server) RunWithTransport(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_metrics",
		Description: describeMetrics(),
	}, s.handleAnalyzeMetrics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_functions",
		Description: describeFunctions(),
	}, s.handleListFunctions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_ops",
		Description: describeOps(),
	}, s.handleAnalyzeOps)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_nodes",
		Description: describeCount(),
	}, s.handleCountNodes)

	// Needs a git repository with full history.
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "diff_metrics",
		Description: describeDiff(),
	}, s.handleDiffMetrics)
}
