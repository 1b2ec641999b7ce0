package spaces

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

// FunctionSpan is the line range of one function.
type FunctionSpan struct {
	Name      string `json:"name"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	// Error is set when the function name could not be decoded.
	Error bool `json:"error"`
}

// FunctionSpans lists every function of a tree in source order.
func FunctionSpans(tree *sitter.Tree, lang parser.Language, source []byte) ([]FunctionSpan, error) {
	rules, err := langs.For(lang)
	if err != nil {
		return nil, err
	}
	var spans []FunctionSpan
	node.Walk(node.Root(tree, rules.Kinds()), func(n node.Node) bool {
		if !rules.IsFunc(n) {
			return true
		}
		span := FunctionSpan{StartLine: n.StartRow() + 1, EndLine: n.EndRow() + 1}
		switch name, found, valid := rules.FuncName(n, source); {
		case !found:
			span.Name = langs.AnonymousName
		case valid:
			span.Name = name
		default:
			span.Error = true
		}
		spans = append(spans, span)
		return true
	})
	return spans, nil
}

// DumpSpans writes the spans of one file as a colored list.
func DumpSpans(w io.Writer, path string, spans []FunctionSpan) error {
	if len(spans) == 0 {
		return nil
	}
	blue := color.New(color.FgBlue)
	green := color.New(color.FgGreen)

	if _, err := color.New(color.FgYellow, color.Bold).Fprintf(w, "In file %s\n", path); err != nil {
		return err
	}
	for i, span := range spans {
		prefix := "   |- "
		if i == len(spans)-1 {
			prefix = "   `- "
		}
		blue.Fprint(w, prefix)
		if span.Error {
			color.New(color.FgRed, color.Bold).Fprint(w, "error: ")
		} else {
			color.New(color.FgMagenta, color.Bold).Fprintf(w, "%s: ", span.Name)
		}
		green.Fprint(w, "from line ")
		fmt.Fprint(w, span.StartLine)
		green.Fprint(w, " to line ")
		if _, err := fmt.Fprintf(w, "%d.\n", span.EndLine); err != nil {
			return err
		}
	}
	return nil
}
