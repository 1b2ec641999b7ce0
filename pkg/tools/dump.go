// Package tools holds syntax tree utilities built on the node layer: dumps,
// node searches and comment stripping.
package tools

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/panbanda/mehen/pkg/node"
)

// DumpOptions limits a dump. Zero values disable a limit.
type DumpOptions struct {
	// Depth is the number of tree levels printed, the start node included.
	Depth int
	// LineStart and LineEnd are 1-based and inclusive. Nodes starting outside
	// the range are not printed, but their descendants still are.
	LineStart int
	LineEnd   int
}

var (
	dumpPrefix = color.New(color.FgBlue)
	dumpKind   = color.New(color.FgHiYellow)
	dumpPos    = color.New(color.FgGreen)
	dumpText   = color.New(color.FgHiRed)
)

// Dump writes the syntax tree under n, one node per line:
//
//	{kind:id} from (row, col) to (row, col) : text
//
// Positions are 1-based and the text is only printed for single line nodes.
func Dump(w io.Writer, n node.Node, source []byte, opts DumpOptions) error {
	depth := opts.Depth
	if depth <= 0 {
		depth = -1
	}
	return dump(w, n, source, "", true, depth, opts)
}

func dump(w io.Writer, n node.Node, source []byte, prefix string, last bool, depth int, opts DumpOptions) error {
	if depth == 0 {
		return nil
	}

	var branch, childPrefix string
	switch {
	case n.Parent().IsNull():
	case last:
		branch, childPrefix = "╮─ ", "   "
	default:
		branch, childPrefix = "├─ ", "│  "
	}

	row := n.StartRow() + 1
	display := (opts.LineStart <= 0 || row >= opts.LineStart) &&
		(opts.LineEnd <= 0 || row <= opts.LineEnd)

	if display {
		dumpPrefix.Fprint(w, prefix+branch)
		dumpKind.Fprintf(w, "{%s:%d} ", n.Type(), n.Symbol())
		fmt.Fprint(w, "from ")
		dumpPos.Fprintf(w, "(%d, %d) ", n.StartRow()+1, n.StartColumn()+1)
		fmt.Fprint(w, "to ")
		dumpPos.Fprintf(w, "(%d, %d) ", n.EndRow()+1, n.EndColumn()+1)

		if n.StartRow() == n.EndRow() {
			fmt.Fprint(w, ": ")
			text := n.Text(source)
			if utf8.Valid(text) {
				dumpText.Fprintf(w, "%s ", text)
			} else if _, err := w.Write(text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	children := n.Children()
	for i, c := range children {
		if err := dump(w, c, source, prefix+childPrefix, i == len(children)-1, depth-1, opts); err != nil {
			return err
		}
	}
	return nil
}
