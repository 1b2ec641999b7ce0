// Package node provides a read-only view over tree-sitter syntax nodes that
// carries a language specific kind id alongside the raw node.
package node

import (
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// KindFunc maps a grammar node type (and whether it is a named node) onto a
// language specific kind id. Zero means unknown.
type KindFunc func(typ string, named bool) uint16

// Node is an immutable handle into a parsed tree. The zero value is a null
// node.
type Node struct {
	raw   *sitter.Node
	kind  uint16
	kinds KindFunc
}

// New wraps a tree-sitter node, classifying it with kinds.
func New(raw *sitter.Node, kinds KindFunc) Node {
	if raw == nil {
		return Node{}
	}
	return Node{raw: raw, kind: kinds(raw.Type(), raw.IsNamed()), kinds: kinds}
}

// Root wraps the root node of tree.
func Root(tree *sitter.Tree, kinds KindFunc) Node {
	return New(tree.RootNode(), kinds)
}

func (n Node) wrap(raw *sitter.Node) Node {
	return New(raw, n.kinds)
}

// IsNull reports whether n refers to no node.
func (n Node) IsNull() bool { return n.raw == nil }

// Raw returns the underlying tree-sitter node.
func (n Node) Raw() *sitter.Node { return n.raw }

// Kind returns the language specific kind id.
func (n Node) Kind() uint16 { return n.kind }

// Type returns the grammar name of the node.
func (n Node) Type() string {
	if n.raw == nil {
		return ""
	}
	return n.raw.Type()
}

// Symbol returns the grammar symbol id.
func (n Node) Symbol() uint16 {
	if n.raw == nil {
		return 0
	}
	return uint16(n.raw.Symbol())
}

func (n Node) IsNamed() bool { return n.raw != nil && n.raw.IsNamed() }

func (n Node) HasError() bool { return n.raw != nil && n.raw.HasError() }

func (n Node) StartRow() int { return int(n.raw.StartPoint().Row) }

func (n Node) EndRow() int { return int(n.raw.EndPoint().Row) }

func (n Node) StartColumn() int { return int(n.raw.StartPoint().Column) }

func (n Node) EndColumn() int { return int(n.raw.EndPoint().Column) }

func (n Node) StartByte() uint32 { return n.raw.StartByte() }

func (n Node) EndByte() uint32 { return n.raw.EndByte() }

// Parent returns the parent node, or a null node at the root.
func (n Node) Parent() Node {
	if n.raw == nil {
		return Node{}
	}
	return n.wrap(n.raw.Parent())
}

func (n Node) ChildCount() int {
	if n.raw == nil {
		return 0
	}
	return int(n.raw.ChildCount())
}

func (n Node) Child(i int) Node {
	return n.wrap(n.raw.Child(i))
}

// Children returns all children, named and anonymous, in source order.
func (n Node) Children() []Node {
	if n.raw == nil {
		return nil
	}
	count := int(n.raw.ChildCount())
	if count == 0 {
		return nil
	}
	out := make([]Node, 0, count)
	cursor := sitter.NewTreeCursor(n.raw)
	defer cursor.Close()
	if !cursor.GoToFirstChild() {
		return nil
	}
	for {
		out = append(out, n.wrap(cursor.CurrentNode()))
		if !cursor.GoToNextSibling() {
			break
		}
	}
	return out
}

// ChildByFieldName returns the child stored under a grammar field.
func (n Node) ChildByFieldName(name string) Node {
	if n.raw == nil {
		return Node{}
	}
	return n.wrap(n.raw.ChildByFieldName(name))
}

// IsChild reports whether any direct child has the given kind.
func (n Node) IsChild(kind uint16) bool {
	for _, c := range n.Children() {
		if c.kind == kind {
			return true
		}
	}
	return false
}

// FirstChild returns the first direct child matching pred.
func (n Node) FirstChild(pred func(Node) bool) Node {
	for _, c := range n.Children() {
		if pred(c) {
			return c
		}
	}
	return Node{}
}

// CountChildren counts direct children matching pred.
func (n Node) CountChildren(pred func(Node) bool) int {
	count := 0
	for _, c := range n.Children() {
		if pred(c) {
			count++
		}
	}
	return count
}

// HasAncestors steps over a parent matching skip, then reports whether the
// next parent matches want.
func (n Node) HasAncestors(want, skip func(Node) bool) bool {
	cur := n
	if p := cur.Parent(); !p.IsNull() && skip(p) {
		cur = p
	}
	p := cur.Parent()
	return !p.IsNull() && want(p)
}

// HasAncestor reports whether any ancestor matches pred.
func (n Node) HasAncestor(pred func(Node) bool) bool {
	for p := n.Parent(); !p.IsNull(); p = p.Parent() {
		if pred(p) {
			return true
		}
	}
	return false
}

// Text returns the source slice covered by n. Out of range spans yield nil.
func (n Node) Text(source []byte) []byte {
	if n.raw == nil {
		return nil
	}
	start, end := n.raw.StartByte(), n.raw.EndByte()
	if start > end || end > uint32(len(source)) {
		return nil
	}
	return source[start:end]
}

// UTF8Text returns the node text when it is valid UTF-8.
func (n Node) UTF8Text(source []byte) (string, bool) {
	text := n.Text(source)
	if text == nil || !utf8.Valid(text) {
		return "", false
	}
	return string(text), true
}

// Walk visits n and its descendants in pre-order. Returning false from visit
// skips the children of the visited node.
func Walk(n Node, visit func(Node) bool) {
	if n.IsNull() {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, visit)
	}
}
