package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
)

// Filter selects syntax nodes.
type Filter func(node.Node) bool

// NewFilter builds a filter from one selector. Besides grammar type names
// and numeric grammar symbols it accepts the classes all, call, closure,
// comment, error, function and string.
func NewFilter(selector string, rules langs.Rules) Filter {
	switch selector {
	case "all":
		return func(node.Node) bool { return true }
	case "call":
		return func(n node.Node) bool { return strings.Contains(n.Type(), "call") }
	case "closure":
		return rules.IsClosure
	case "comment":
		return rules.IsComment
	case "error":
		return func(n node.Node) bool { return n.Type() == "ERROR" }
	case "function":
		return rules.IsFunc
	case "string":
		return func(n node.Node) bool {
			typ := n.Type()
			return n.IsNamed() && strings.Contains(typ, "string") && !strings.HasPrefix(typ, "string_")
		}
	}
	if sym, err := strconv.ParseUint(selector, 10, 16); err == nil {
		return func(n node.Node) bool { return n.Symbol() == uint16(sym) }
	}
	return func(n node.Node) bool { return n.Type() == selector }
}

// NewFilters combines selectors; a node matches when any of them does.
func NewFilters(selectors []string, rules langs.Rules) Filter {
	filters := make([]Filter, 0, len(selectors))
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			filters = append(filters, NewFilter(s, rules))
		}
	}
	return func(n node.Node) bool {
		for _, f := range filters {
			if f(n) {
				return true
			}
		}
		return false
	}
}

// Find returns every node under root matching filter, in pre-order.
func Find(root node.Node, filter Filter) []node.Node {
	var found []node.Node
	node.Walk(root, func(n node.Node) bool {
		if filter(n) {
			found = append(found, n)
		}
		return true
	})
	return found
}

// Count tallies matching nodes against all visited nodes. Counts from
// several files add up with Merge.
type Count struct {
	Found int `json:"found"`
	Total int `json:"total"`
}

// CountNodes counts the nodes under root and those matching filter.
func CountNodes(root node.Node, filter Filter) Count {
	var c Count
	node.Walk(root, func(n node.Node) bool {
		c.Total++
		if filter(n) {
			c.Found++
		}
		return true
	})
	return c
}

// Merge adds other to c.
func (c *Count) Merge(other Count) {
	c.Found += other.Found
	c.Total += other.Total
}

// Percentage is the share of matching nodes, zero for an empty count.
func (c Count) Percentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Found) / float64(c.Total) * 100
}

func (c Count) String() string {
	return fmt.Sprintf("Total nodes: %d\nFound nodes: %d\nPercentage: %.2f%%", c.Total, c.Found, c.Percentage())
}
