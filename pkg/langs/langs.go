// Package langs gives per-language meaning to tree-sitter node kinds. Each
// supported language has one stateless Rules value; metric families and the
// space builder only ever talk to that capability.
package langs

import (
	"fmt"

	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

// SpaceKind is the semantic role of a scope.
type SpaceKind uint8

const (
	SpaceUnknown SpaceKind = iota
	SpaceFunction
	SpaceClass
	SpaceTrait
	SpaceImpl
	SpaceInterface
	SpaceUnit
)

var spaceKindNames = [...]string{
	SpaceUnknown:   "unknown",
	SpaceFunction:  "function",
	SpaceClass:     "class",
	SpaceTrait:     "trait",
	SpaceImpl:      "impl",
	SpaceInterface: "interface",
	SpaceUnit:      "unit",
}

func (k SpaceKind) String() string {
	if int(k) < len(spaceKindNames) {
		return spaceKindNames[k]
	}
	return "unknown"
}

// MarshalText renders the kind in lower case.
func (k SpaceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a lower case kind name.
func (k *SpaceKind) UnmarshalText(text []byte) error {
	for i, name := range spaceKindNames {
		if name == string(text) {
			*k = SpaceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown space kind %q", text)
}

// OpType classifies a node for Halstead counting.
type OpType uint8

const (
	OpUnknown OpType = iota
	OpOperator
	OpOperand
)

// LocClass is the role a node plays in line counting.
type LocClass uint8

const (
	// LocCode contributes its start row to the physical line set.
	LocCode LocClass = iota
	// LocIgnore is a pure container or token that never counts.
	LocIgnore
	// LocComment spans comment rows.
	LocComment
	// LocStatement adds one logical line.
	LocStatement
)

// ABCClass is the ABC component a node contributes to.
type ABCClass uint8

const (
	ABCNone ABCClass = iota
	ABCAssignment
	ABCBranch
	ABCCondition
)

// CognitiveClass is the cognitive complexity role of a node.
type CognitiveClass uint8

const (
	CogNone CognitiveClass = iota
	// CogNesting adds 1 plus the current nesting and nests its children.
	CogNesting
	// CogHybrid adds 1 without a nesting penalty (else, elif, else if).
	CogHybrid
	// CogBoolean starts a new sequence of boolean operators.
	CogBoolean
	// CogFunction nests its children when it is not at the top level.
	CogFunction
)

// Members counts the attributes and methods declared directly by a class or
// interface.
type Members struct {
	Attributes       int
	PublicAttributes int
	Methods          int
	PublicMethods    int
}

// Rules is the classification capability of one language.
type Rules interface {
	Language() parser.Language
	// Kinds classifies raw nodes into the language's kind enum.
	Kinds() node.KindFunc
	// KindName renders a kind id with its grammar name.
	KindName(kind uint16) string

	IsFunc(n node.Node) bool
	IsClosure(n node.Node) bool
	IsComment(n node.Node) bool
	SpaceKind(n node.Node) SpaceKind
	// FuncName returns the declared name of a space opening node. found is
	// false for anonymous nodes, valid is false when the name is not UTF-8.
	FuncName(n node.Node, source []byte) (name string, found, valid bool)

	OpType(n node.Node) OpType
	OperatorString(kind uint16) string

	Cyclomatic(n node.Node) int
	Exit(n node.Node) int
	Loc(n node.Node) (LocClass, int)
	ABC(n node.Node) ABCClass
	Cognitive(n node.Node) CognitiveClass
	// NArgs counts the parameters of a function or closure node.
	NArgs(n node.Node) int
	// Members inspects a class or interface node.
	Members(n node.Node, source []byte) (Members, bool)
}

// AnonymousName renders a scope without a usable name.
const AnonymousName = "<anonymous>"

// For returns the rules of lang.
func For(lang parser.Language) (Rules, error) {
	switch lang {
	case parser.LangPython:
		return pythonRules{}, nil
	case parser.LangTypeScript:
		return typescriptRules{lang: parser.LangTypeScript}, nil
	case parser.LangTSX:
		return typescriptRules{lang: parser.LangTSX}, nil
	case parser.LangRust:
		return rustRules{}, nil
	case parser.LangGo:
		return goRules{}, nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// bracketString renders opening brackets as paired glyphs.
func bracketString(name string) string {
	switch name {
	case "(":
		return "()"
	case "[":
		return "[]"
	case "{":
		return "{}"
	default:
		return name
	}
}

// fieldText returns the UTF-8 text of a field child.
func fieldText(n node.Node, field string, source []byte) (string, bool, bool) {
	child := n.ChildByFieldName(field)
	if child.IsNull() {
		return "", false, false
	}
	text, ok := child.UTF8Text(source)
	return text, ok, true
}

// countNamed counts named children of n, skipping the kinds in skip.
func countNamed(n node.Node, skip ...uint16) int {
	if n.IsNull() {
		return 0
	}
	return n.CountChildren(func(c node.Node) bool {
		if !c.IsNamed() {
			return false
		}
		for _, k := range skip {
			if c.Kind() == k {
				return false
			}
		}
		return true
	})
}
