package langs

import (
	"strings"

	"github.com/panbanda/mehen/pkg/langs/python"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

type pythonRules struct{}

func pyKind(n node.Node) python.Kind { return python.Kind(n.Kind()) }

func (pythonRules) Language() parser.Language { return parser.LangPython }

func (pythonRules) Kinds() node.KindFunc { return python.Classify }

func (pythonRules) KindName(kind uint16) string { return python.Kind(kind).String() }

func (pythonRules) IsFunc(n node.Node) bool { return pyKind(n) == python.FunctionDefinition }

func (pythonRules) IsClosure(n node.Node) bool { return pyKind(n) == python.Lambda }

func (pythonRules) IsComment(n node.Node) bool { return pyKind(n) == python.Comment }

func (pythonRules) SpaceKind(n node.Node) SpaceKind {
	switch pyKind(n) {
	case python.FunctionDefinition:
		return SpaceFunction
	case python.ClassDefinition:
		return SpaceClass
	case python.Module:
		return SpaceUnit
	default:
		return SpaceUnknown
	}
}

func (pythonRules) FuncName(n node.Node, source []byte) (string, bool, bool) {
	name, ok, found := fieldText(n, "name", source)
	return name, found, ok
}

func (pythonRules) OpType(n node.Node) OpType {
	switch pyKind(n) {
	case python.Import, python.DOT, python.From, python.COMMA, python.As, python.STAR,
		python.GTGT, python.Assert, python.COLONEQ, python.Return, python.Def, python.Del,
		python.Raise, python.Pass, python.Break, python.Continue, python.If, python.Elif,
		python.Else, python.Async, python.For, python.In, python.While, python.Try,
		python.Except, python.Finally, python.With, python.DASHGT, python.EQ, python.Global,
		python.Exec, python.AT, python.Not, python.And, python.Or, python.PLUS, python.DASH,
		python.SLASH, python.PERCENT, python.SLASHSLASH, python.STARSTAR, python.PIPE,
		python.AMP, python.CARET, python.LTLT, python.TILDE, python.LT, python.LTEQ,
		python.EQEQ, python.BANGEQ, python.GTEQ, python.GT, python.LTGT, python.Is,
		python.PLUSEQ, python.DASHEQ, python.STAREQ, python.SLASHEQ, python.ATEQ,
		python.SLASHSLASHEQ, python.PERCENTEQ, python.STARSTAREQ, python.GTGTEQ,
		python.LTLTEQ, python.AMPEQ, python.CARETEQ, python.PIPEEQ, python.Yield,
		python.Await, python.Print:
		return OpOperator
	case python.Identifier, python.Integer, python.Float, python.True, python.False, python.None:
		return OpOperand
	case python.String:
		// A string that is the whole statement is a docstring.
		parent := n.Parent()
		if !parent.IsNull() && (pyKind(parent) != python.ExpressionStatement || parent.ChildCount() != 1) {
			return OpOperand
		}
		return OpUnknown
	default:
		return OpUnknown
	}
}

func (pythonRules) OperatorString(kind uint16) string {
	return bracketString(python.Kind(kind).String())
}

func (pythonRules) Cyclomatic(n node.Node) int {
	switch pyKind(n) {
	case python.If, python.Elif, python.For, python.While, python.Except, python.With,
		python.Assert, python.And, python.Or:
		return 1
	case python.Else:
		// Only the else clause of a loop is a separate branch.
		loop := n.HasAncestors(
			func(p node.Node) bool {
				k := pyKind(p)
				return k == python.ForStatement || k == python.WhileStatement
			},
			func(p node.Node) bool { return pyKind(p) == python.ElseClause },
		)
		if loop {
			return 1
		}
	}
	return 0
}

func (pythonRules) Exit(n node.Node) int {
	if pyKind(n) == python.ReturnStatement {
		return 1
	}
	return 0
}

func (pythonRules) Loc(n node.Node) (LocClass, int) {
	switch pyKind(n) {
	case python.StringStart, python.StringEnd, python.StringContent, python.Block, python.Module:
		return LocIgnore, 0
	case python.Comment:
		return LocComment, 0
	case python.String:
		parent := n.Parent()
		switch {
		case parent.IsNull():
			return LocCode, 0
		case pyKind(parent) == python.ExpressionStatement:
			return LocComment, 0
		case parent.StartRow() != n.StartRow():
			return LocCode, 0
		default:
			return LocIgnore, 0
		}
	case python.ImportStatement, python.FutureImportStatement, python.ImportFromStatement,
		python.PrintStatement, python.AssertStatement, python.ReturnStatement,
		python.DeleteStatement, python.RaiseStatement, python.PassStatement,
		python.BreakStatement, python.ContinueStatement, python.IfStatement,
		python.ForStatement, python.WhileStatement, python.TryStatement, python.WithStatement,
		python.GlobalStatement, python.NonlocalStatement, python.ExecStatement,
		python.ExpressionStatement:
		return LocStatement, 0
	default:
		return LocCode, 0
	}
}

func (pythonRules) ABC(n node.Node) ABCClass {
	switch pyKind(n) {
	case python.Assignment, python.AugmentedAssignment, python.NamedExpression:
		return ABCAssignment
	case python.Call:
		return ABCBranch
	case python.EQEQ, python.BANGEQ, python.LT, python.LTEQ, python.GT, python.GTEQ,
		python.LTGT, python.Is, python.In:
		if pyKind(n.Parent()) == python.ComparisonOperator {
			return ABCCondition
		}
	case python.Not:
		if pyKind(n.Parent()) == python.NotOperator {
			return ABCCondition
		}
	case python.Else, python.Except, python.Try:
		return ABCCondition
	}
	return ABCNone
}

func (pythonRules) Cognitive(n node.Node) CognitiveClass {
	switch pyKind(n) {
	case python.IfStatement, python.ForStatement, python.WhileStatement, python.ExceptClause,
		python.ConditionalExpression, python.MatchStatement:
		return CogNesting
	case python.ElifClause, python.ElseClause:
		return CogHybrid
	case python.BooleanOperator:
		parent := n.Parent()
		if pyKind(parent) == python.BooleanOperator &&
			parent.ChildByFieldName("operator").Kind() == n.ChildByFieldName("operator").Kind() {
			return CogNone
		}
		return CogBoolean
	case python.FunctionDefinition, python.Lambda:
		return CogFunction
	}
	return CogNone
}

func (pythonRules) NArgs(n node.Node) int {
	params := n.ChildByFieldName("parameters")
	return countNamed(params, uint16(python.Comment), uint16(python.KeywordSeparator), uint16(python.PositionalSeparator))
}

func (pythonRules) Members(n node.Node, source []byte) (Members, bool) {
	if pyKind(n) != python.ClassDefinition {
		return Members{}, false
	}
	var m Members
	body := n.ChildByFieldName("body")
	for _, stmt := range body.Children() {
		switch pyKind(stmt) {
		case python.ExpressionStatement:
			assign := stmt.FirstChild(func(c node.Node) bool { return pyKind(c) == python.Assignment })
			if assign.IsNull() {
				continue
			}
			left := assign.ChildByFieldName("left")
			if pyKind(left) != python.Identifier {
				continue
			}
			m.Attributes++
			if name, ok := left.UTF8Text(source); ok && pythonPublic(name) {
				m.PublicAttributes++
			}
		case python.FunctionDefinition:
			m.Methods++
			if name, ok, _ := fieldText(stmt, "name", source); ok && pythonPublic(name) {
				m.PublicMethods++
			}
		case python.DecoratedDefinition:
			def := stmt.ChildByFieldName("definition")
			if pyKind(def) != python.FunctionDefinition {
				continue
			}
			m.Methods++
			if name, ok, _ := fieldText(def, "name", source); ok && pythonPublic(name) {
				m.PublicMethods++
			}
		}
	}
	return m, true
}

// pythonPublic applies the underscore naming convention; dunder names are
// part of the public protocol.
func pythonPublic(name string) bool {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") && len(name) > 4 {
		return true
	}
	return !strings.HasPrefix(name, "_")
}
