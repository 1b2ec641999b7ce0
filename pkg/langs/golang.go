package langs

import (
	"github.com/panbanda/mehen/pkg/langs/golang"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

type goRules struct{}

func goKind(n node.Node) golang.Kind { return golang.Kind(n.Kind()) }

func (goRules) Language() parser.Language { return parser.LangGo }

func (goRules) Kinds() node.KindFunc { return golang.Classify }

func (goRules) KindName(kind uint16) string { return golang.Kind(kind).String() }

func (goRules) IsFunc(n node.Node) bool {
	k := goKind(n)
	return k == golang.FunctionDeclaration || k == golang.MethodDeclaration
}

func (goRules) IsClosure(n node.Node) bool { return goKind(n) == golang.FuncLiteral }

func (goRules) IsComment(n node.Node) bool { return goKind(n) == golang.Comment }

func (goRules) SpaceKind(n node.Node) SpaceKind {
	switch goKind(n) {
	case golang.FunctionDeclaration, golang.MethodDeclaration, golang.FuncLiteral:
		return SpaceFunction
	case golang.SourceFile:
		return SpaceUnit
	default:
		return SpaceUnknown
	}
}

func (goRules) FuncName(n node.Node, source []byte) (string, bool, bool) {
	name, ok, found := fieldText(n, "name", source)
	return name, found, ok
}

func (goRules) OpType(n node.Node) OpType {
	switch goKind(n) {
	case golang.Func, golang.Go, golang.Defer, golang.Return, golang.If, golang.Else, golang.For,
		golang.Range, golang.Switch, golang.Select, golang.Case, golang.Default, golang.Break,
		golang.Continue, golang.Goto, golang.Fallthrough, golang.Chan, golang.Map, golang.Struct,
		golang.Interface, golang.Type, golang.Var, golang.Const, golang.Package, golang.Import,
		golang.DOT, golang.COMMA, golang.SEMI, golang.COLON, golang.COLONEQ, golang.EQ,
		golang.PLUSEQ, golang.DASHEQ, golang.STAREQ, golang.SLASHEQ, golang.PERCENTEQ,
		golang.AMPEQ, golang.PIPEEQ, golang.CARETEQ, golang.LTLTEQ, golang.GTGTEQ,
		golang.AMPCARETEQ, golang.PLUS, golang.DASH, golang.STAR, golang.SLASH, golang.PERCENT,
		golang.AMP, golang.PIPE, golang.CARET, golang.LTLT, golang.GTGT, golang.AMPAMP,
		golang.PIPEPIPE, golang.AMPCARET, golang.PLUSPLUS, golang.DASHDASH, golang.EQEQ,
		golang.BANGEQ, golang.LT, golang.LTEQ, golang.GT, golang.GTEQ, golang.BANG,
		golang.LPAREN, golang.LBRACK, golang.LBRACE, golang.DOTDOTDOT:
		return OpOperator
	case golang.Identifier, golang.IntLiteral, golang.FloatLiteral, golang.ImaginaryLiteral,
		golang.RuneLiteral, golang.RawStringLiteral, golang.InterpretedStringLiteral, golang.True,
		golang.False, golang.Nil, golang.Iota:
		return OpOperand
	default:
		return OpUnknown
	}
}

func (goRules) OperatorString(kind uint16) string {
	return bracketString(golang.Kind(kind).String())
}

func (goRules) Cyclomatic(n node.Node) int {
	switch goKind(n) {
	case golang.If, golang.For, golang.ExpressionCase, golang.DefaultCase, golang.TypeCase,
		golang.CommunicationCase, golang.AMPAMP, golang.PIPEPIPE:
		return 1
	}
	return 0
}

func (goRules) Exit(n node.Node) int {
	if goKind(n) == golang.ReturnStatement {
		return 1
	}
	return 0
}

func (goRules) Loc(n node.Node) (LocClass, int) {
	switch goKind(n) {
	case golang.SourceFile:
		return LocIgnore, 0
	case golang.Comment:
		return LocComment, 0
	case golang.ExpressionStatement, golang.SendStatement, golang.IncStatement,
		golang.DecStatement, golang.AssignmentStatement, golang.ShortVarDeclaration,
		golang.VarDeclaration, golang.ConstDeclaration, golang.TypeDeclaration,
		golang.GoStatement, golang.DeferStatement, golang.ReturnStatement,
		golang.BreakStatement, golang.ContinueStatement, golang.GotoStatement,
		golang.FallthroughStatement, golang.IfStatement, golang.ExpressionSwitchStatement,
		golang.TypeSwitchStatement, golang.SelectStatement, golang.ForStatement:
		return LocStatement, 0
	default:
		return LocCode, 0
	}
}

func (goRules) ABC(n node.Node) ABCClass {
	switch goKind(n) {
	case golang.AssignmentStatement, golang.ShortVarDeclaration, golang.IncStatement,
		golang.DecStatement:
		return ABCAssignment
	case golang.VarSpec:
		if !n.ChildByFieldName("value").IsNull() {
			return ABCAssignment
		}
	case golang.CallExpression:
		return ABCBranch
	case golang.EQEQ, golang.BANGEQ, golang.LT, golang.LTEQ, golang.GT, golang.GTEQ:
		if goKind(n.Parent()) == golang.BinaryExpression {
			return ABCCondition
		}
	case golang.BANG:
		if goKind(n.Parent()) == golang.UnaryExpression {
			return ABCCondition
		}
	case golang.Else, golang.ExpressionCase, golang.DefaultCase, golang.TypeCase,
		golang.CommunicationCase:
		return ABCCondition
	}
	return ABCNone
}

func (goRules) Cognitive(n node.Node) CognitiveClass {
	switch goKind(n) {
	case golang.IfStatement:
		// An if that is the alternative of another if is an else-if.
		if goKind(n.Parent()) == golang.IfStatement {
			return CogHybrid
		}
		return CogNesting
	case golang.Else:
		if goKind(n.Parent().ChildByFieldName("alternative")) == golang.Block {
			return CogHybrid
		}
	case golang.ForStatement, golang.ExpressionSwitchStatement, golang.TypeSwitchStatement,
		golang.SelectStatement:
		return CogNesting
	case golang.BinaryExpression:
		op := goKind(n.ChildByFieldName("operator"))
		if op != golang.AMPAMP && op != golang.PIPEPIPE {
			return CogNone
		}
		parent := n.Parent()
		if goKind(parent) == golang.BinaryExpression && goKind(parent.ChildByFieldName("operator")) == op {
			return CogNone
		}
		return CogBoolean
	case golang.FunctionDeclaration, golang.MethodDeclaration, golang.FuncLiteral:
		return CogFunction
	}
	return CogNone
}

// NArgs counts declared parameter names; an unnamed parameter counts once.
func (goRules) NArgs(n node.Node) int {
	count := 0
	for _, param := range n.ChildByFieldName("parameters").Children() {
		switch goKind(param) {
		case golang.ParameterDeclaration:
			names := param.CountChildren(func(c node.Node) bool { return goKind(c) == golang.Identifier })
			if names == 0 {
				names = 1
			}
			count += names
		case golang.VariadicParameterDeclaration:
			count++
		}
	}
	return count
}

func (goRules) Members(node.Node, []byte) (Members, bool) {
	return Members{}, false
}
