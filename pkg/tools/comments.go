package tools

import (
	"bytes"
	"regexp"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

var codingComment = regexp.MustCompile(`^[ \t\f]*#.*coding[:=][ \t]*[-_.a-zA-Z0-9]+`)

type span struct {
	start, end uint32
	lines      int
}

// RemoveComments returns source without its comments. Every removed comment
// keeps its line breaks, so line numbers survive. Python docstrings count as
// comments; a shebang or an encoding declaration on the first two lines is
// kept. The boolean is false when nothing was removed.
func RemoveComments(root node.Node, source []byte, rules langs.Rules) ([]byte, bool) {
	python := rules.Language() == parser.LangPython

	var spans []span
	node.Walk(root, func(n node.Node) bool {
		switch {
		case rules.IsComment(n):
			if python && usefulComment(n, source) {
				return false
			}
		case python && isDocstring(n):
		default:
			return true
		}
		spans = append(spans, span{n.StartByte(), n.EndByte(), n.EndRow() - n.StartRow()})
		return false
	})
	if len(spans) == 0 {
		return source, false
	}

	var out bytes.Buffer
	out.Grow(len(source))
	var pos uint32
	for _, s := range spans {
		out.Write(source[pos:s.start])
		out.Write(bytes.Repeat([]byte{'\n'}, s.lines))
		pos = s.end
	}
	out.Write(source[pos:])
	return out.Bytes(), true
}

func usefulComment(n node.Node, source []byte) bool {
	if n.StartRow() >= 2 {
		return false
	}
	text := n.Text(source)
	return (n.StartRow() == 0 && bytes.HasPrefix(text, []byte("#!"))) || codingComment.Match(text)
}

// isDocstring reports whether n is a string standing alone as the first
// statement of a module, class or function body.
func isDocstring(n node.Node) bool {
	if n.Type() != "string" {
		return false
	}
	stmt := n.Parent()
	if stmt.IsNull() || stmt.Type() != "expression_statement" || stmt.ChildCount() != 1 {
		return false
	}
	body := stmt.Parent()
	if body.IsNull() || (body.Type() != "module" && body.Type() != "block") {
		return false
	}
	first := body.FirstChild(func(c node.Node) bool {
		return c.IsNamed() && c.Type() != "comment"
	})
	return !first.IsNull() && first.StartByte() == stmt.StartByte()
}
