package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Keys describing a scope; a mapping holding kind and name is rendered as a
// scope header instead of a list of fields.
var scopeKeys = map[string]bool{"name": true, "kind": true, "start_line": true, "end_line": true}

// anonymousName stands in for a scope whose name is null.
const anonymousName = "<anonymous>"

type treeEntry struct {
	label string
	node  *yaml.Node
}

type treeWriter struct {
	w       io.Writer
	colored bool
	err     error
}

// WriteTree renders data as an indented tree. Scopes (mappings with a kind
// and a name) are shown as "kind: name (start, end)" headers with their
// nested scopes as children.
func WriteTree(w io.Writer, data any, colored bool) error {
	node, err := toNode(data)
	if err != nil {
		return err
	}
	t := &treeWriter{w: w, colored: colored}

	roots := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		roots = node.Content
	}
	for i, root := range roots {
		if i > 0 {
			t.printf("\n")
		}
		if isScope(root) {
			t.printf("%s\n", t.header(root))
			t.children(root, "")
			continue
		}
		t.children(root, "")
	}
	return t.err
}

func (t *treeWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *treeWriter) paint(attrs []color.Attribute, s string) string {
	if !t.colored {
		return s
	}
	return color.New(attrs...).Sprint(s)
}

func (t *treeWriter) children(n *yaml.Node, prefix string) {
	entries := entriesOf(n)
	for i, e := range entries {
		last := i == len(entries)-1
		childPrefix, mark := branch(last)
		t.printf("%s%s\n", t.paint([]color.Attribute{color.FgBlue}, prefix+mark), t.line(e))
		t.children(e.node, prefix+childPrefix)
	}
}

func (t *treeWriter) line(e treeEntry) string {
	switch {
	case isScope(e.node):
		return t.header(e.node)
	case e.node.Kind == yaml.ScalarNode:
		if e.label == "" {
			return e.node.Value
		}
		return t.paint([]color.Attribute{color.FgGreen}, e.label+":") + " " + e.node.Value
	case e.label == "":
		return "-"
	default:
		return t.paint([]color.Attribute{color.FgGreen, color.Bold}, e.label)
	}
}

func (t *treeWriter) header(n *yaml.Node) string {
	kind := field(n, "kind")
	name := field(n, "name")
	if v := fieldNode(n, "name"); v == nil || v.Tag == "!!null" {
		name = anonymousName
	}
	span := fmt.Sprintf("(%s, %s)", field(n, "start_line"), field(n, "end_line"))
	return t.paint([]color.Attribute{color.FgYellow, color.Bold}, kind+":") + " " +
		t.paint([]color.Attribute{color.FgCyan, color.Bold}, name) + " " +
		t.paint([]color.Attribute{color.FgRed, color.Bold}, span)
}

func branch(last bool) (child, self string) {
	if last {
		return "   ", "`- "
	}
	return "|  ", "|- "
}

func entriesOf(n *yaml.Node) []treeEntry {
	switch n.Kind {
	case yaml.MappingNode:
		scope := isScope(n)
		var out, nested []treeEntry
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i].Value, n.Content[i+1]
			if scope && scopeKeys[key] {
				continue
			}
			if scope && key == "spaces" && val.Kind == yaml.SequenceNode {
				for _, c := range val.Content {
					nested = append(nested, treeEntry{node: c})
				}
				continue
			}
			out = append(out, treeEntry{label: key, node: val})
		}
		return append(out, nested...)
	case yaml.SequenceNode:
		out := make([]treeEntry, len(n.Content))
		for i, c := range n.Content {
			out[i] = treeEntry{node: c}
		}
		return out
	default:
		return nil
	}
}

func isScope(n *yaml.Node) bool {
	if n.Kind != yaml.MappingNode {
		return false
	}
	var kind, name bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		switch n.Content[i].Value {
		case "kind":
			kind = true
		case "name":
			name = true
		}
	}
	return kind && name
}

func field(n *yaml.Node, key string) string {
	if v := fieldNode(n, key); v != nil {
		return v.Value
	}
	return ""
}

func fieldNode(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
