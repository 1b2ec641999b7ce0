package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/mehen/internal/diff"
	"github.com/panbanda/mehen/internal/fileproc"
	"github.com/panbanda/mehen/internal/output"
	"github.com/panbanda/mehen/internal/service/analysis"
	scannerSvc "github.com/panbanda/mehen/internal/service/scanner"
	"github.com/panbanda/mehen/internal/summary"
	"github.com/panbanda/mehen/pkg/parser"
	"github.com/panbanda/mehen/pkg/spaces"
	"github.com/panbanda/mehen/pkg/tools"
)

var errNoFiles = errors.New("no source files found")

// AnalyzeInput is the base input for all file tools.
type AnalyzeInput struct {
	Paths    []string `json:"paths,omitempty" jsonschema:"Files or directories to analyze. Defaults to current directory if empty."`
	Format   string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml or markdown."`
	Language string   `json:"language,omitempty" jsonschema:"Force a language: rust, python, typescript, tsx or go. Directories then only yield files of that language."`
	Include  []string `json:"include,omitempty" jsonschema:"Gitignore style globs a file must match."`
	Exclude  []string `json:"exclude,omitempty" jsonschema:"Gitignore style globs of files to skip."`
}

// MetricsInput adds metric options.
type MetricsInput struct {
	AnalyzeInput
	Summary bool `json:"summary,omitempty" jsonschema:"Add the distribution of the main metrics across files."`
	Top     int  `json:"top,omitempty" jsonschema:"Number of most complex files in the summary. Default 10."`
}

// CountInput adds node selectors.
type CountInput struct {
	AnalyzeInput
	Kinds []string `json:"kinds" jsonschema:"Node selectors: grammar node types, numeric grammar symbols or one of all, call, closure, comment, error, function, string."`
}

// DiffInput selects the revisions and metrics to compare.
type DiffInput struct {
	Path          string   `json:"path,omitempty" jsonschema:"A path inside the git repository. Defaults to current directory."`
	From          string   `json:"from,omitempty" jsonschema:"Baseline revision. Defaults from the CI event, else main."`
	To            string   `json:"to,omitempty" jsonschema:"Current revision. Defaults from the CI event, else HEAD."`
	Metrics       []string `json:"metrics,omitempty" jsonschema:"Metrics to compare: cyclomatic, cognitive, nom.functions, loc.sloc, loc.lloc, mi. Default from configuration."`
	Include       []string `json:"include,omitempty" jsonschema:"Gitignore style globs a changed file must match."`
	Exclude       []string `json:"exclude,omitempty" jsonschema:"Gitignore style globs of changed files to skip."`
	ShowUnchanged bool     `json:"show_unchanged,omitempty" jsonschema:"Keep files whose metrics did not change."`
	Format        string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml or markdown."`
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "yaml", "yml":
		return output.FormatYAML
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func getLanguage(name string) (parser.Language, error) {
	if name == "" {
		return "", nil
	}
	lang := parser.ParseLanguage(name)
	if lang == parser.LangUnknown {
		return "", fmt.Errorf("unsupported language %q", name)
	}
	return lang, nil
}

// formatOutput renders data for a tool result. Markdown uses the tables of
// renderable results and a fenced JSON document otherwise.
func formatOutput(data any, format output.Format) (string, error) {
	if format == output.FormatMarkdown {
		if r, ok := data.(output.Renderable); ok {
			var buf bytes.Buffer
			if err := r.RenderMarkdown(&buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		}
		out, err := output.Marshal(output.FormatJSON, data, true)
		if err != nil {
			return "", err
		}
		return "```json\n" + string(out) + "```", nil
	}
	if r, ok := data.(output.Renderable); ok {
		data = r.RenderData()
	}
	out, err := output.Marshal(format, data, true)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// scan expands the tool paths into files and settles the forced language.
func (s *Server) scan(input AnalyzeInput) ([]string, analysis.FileOptions, error) {
	lang, err := getLanguage(input.Language)
	if err != nil {
		return nil, analysis.FileOptions{}, err
	}
	result, err := s.scanner.ScanPaths(getPaths(input), scannerSvc.ScanOptions{
		Include:  input.Include,
		Exclude:  input.Exclude,
		Language: lang,
	})
	if err != nil {
		return nil, analysis.FileOptions{}, err
	}
	if len(result.Files) == 0 {
		return nil, analysis.FileOptions{}, errNoFiles
	}
	return result.Files, analysis.FileOptions{Language: lang}, nil
}

func errorList(errs *fileproc.ProcessingErrors) []string {
	if !errs.HasErrors() {
		return nil
	}
	list := make([]string, len(errs.Errors))
	for i, e := range errs.Errors {
		list[i] = e.Error()
	}
	return list
}

type metricsResult struct {
	Files   []json.RawMessage `json:"files"`
	Summary *summary.Summary  `json:"summary,omitempty"`
	Errors  []string          `json:"errors,omitempty"`
}

func (s *Server) handleAnalyzeMetrics(ctx context.Context, req *mcp.CallToolRequest, input MetricsInput) (*mcp.CallToolResult, any, error) {
	files, opts, err := s.scan(input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	docs, errs := s.analysis.Metrics(ctx, files, opts)
	if len(docs) == 0 && errs.HasErrors() {
		return toolError(errs.Error())
	}

	result := metricsResult{Files: docs, Errors: errorList(errs)}
	if result.Files == nil {
		result.Files = []json.RawMessage{}
	}
	if input.Summary {
		top := input.Top
		if top <= 0 {
			top = summary.DefaultTop
		}
		sum, err := summary.Compute(docs, top)
		if err != nil {
			return toolError(err.Error())
		}
		result.Summary = sum
	}
	return toolResult(result, getFormat(input.Format))
}

type functionsResult struct {
	Files  []analysis.FileFunctions `json:"files"`
	Errors []string                 `json:"errors,omitempty"`
}

func (s *Server) handleListFunctions(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	files, opts, err := s.scan(input)
	if err != nil {
		return toolError(err.Error())
	}

	funcs, errs := s.analysis.Functions(ctx, files, opts)
	if len(funcs) == 0 && errs.HasErrors() {
		return toolError(errs.Error())
	}
	if funcs == nil {
		funcs = []analysis.FileFunctions{}
	}
	return toolResult(functionsResult{Files: funcs, Errors: errorList(errs)}, getFormat(input.Format))
}

type opsResult struct {
	Files  []*spaces.OpsSpace `json:"files"`
	Errors []string           `json:"errors,omitempty"`
}

func (s *Server) handleAnalyzeOps(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	files, opts, err := s.scan(input)
	if err != nil {
		return toolError(err.Error())
	}

	ops, errs := s.analysis.Ops(ctx, files, opts)
	if len(ops) == 0 && errs.HasErrors() {
		return toolError(errs.Error())
	}
	if ops == nil {
		ops = []*spaces.OpsSpace{}
	}
	return toolResult(opsResult{Files: ops, Errors: errorList(errs)}, getFormat(input.Format))
}

type countResult struct {
	tools.Count
	Percentage float64  `json:"percentage"`
	Errors     []string `json:"errors,omitempty"`
}

func (s *Server) handleCountNodes(ctx context.Context, req *mcp.CallToolRequest, input CountInput) (*mcp.CallToolResult, any, error) {
	if len(input.Kinds) == 0 {
		return toolError("at least one node kind is required")
	}
	files, opts, err := s.scan(input.AnalyzeInput)
	if err != nil {
		return toolError(err.Error())
	}

	count, errs := s.analysis.Count(ctx, files, input.Kinds, opts)
	return toolResult(countResult{
		Count:      count,
		Percentage: count.Percentage(),
		Errors:     errorList(errs),
	}, getFormat(input.Format))
}

func (s *Server) handleDiffMetrics(ctx context.Context, req *mcp.CallToolRequest, input DiffInput) (*mcp.CallToolResult, any, error) {
	path := input.Path
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return toolError(err.Error())
	}

	report, err := s.analysis.Diff(ctx, abs, diff.Options{
		From:          input.From,
		To:            input.To,
		Metrics:       input.Metrics,
		Include:       input.Include,
		Exclude:       input.Exclude,
		ShowUnchanged: input.ShowUnchanged,
	})
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input.Format))
}
