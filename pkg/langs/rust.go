package langs

import (
	"github.com/panbanda/mehen/pkg/langs/rust"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

type rustRules struct{}

func rsKind(n node.Node) rust.Kind { return rust.Kind(n.Kind()) }

func (rustRules) Language() parser.Language { return parser.LangRust }

func (rustRules) Kinds() node.KindFunc { return rust.Classify }

func (rustRules) KindName(kind uint16) string { return rust.Kind(kind).String() }

func (rustRules) IsFunc(n node.Node) bool { return rsKind(n) == rust.FunctionItem }

func (rustRules) IsClosure(n node.Node) bool { return rsKind(n) == rust.ClosureExpression }

func (rustRules) IsComment(n node.Node) bool {
	k := rsKind(n)
	return k == rust.LineComment || k == rust.BlockComment
}

func (rustRules) SpaceKind(n node.Node) SpaceKind {
	switch rsKind(n) {
	case rust.FunctionItem, rust.ClosureExpression:
		return SpaceFunction
	case rust.TraitItem:
		return SpaceTrait
	case rust.ImplItem:
		return SpaceImpl
	case rust.SourceFile:
		return SpaceUnit
	default:
		return SpaceUnknown
	}
}

// FuncName reads the name field, or the implemented type of an impl block.
func (rustRules) FuncName(n node.Node, source []byte) (string, bool, bool) {
	if name, ok, found := fieldText(n, "name", source); found {
		return name, true, ok
	}
	if name, ok, found := fieldText(n, "type", source); found {
		return name, true, ok
	}
	return "", false, false
}

func (rustRules) OpType(n node.Node) OpType {
	switch rsKind(n) {
	case rust.PIPEPIPE, rust.SLASH:
		// || also opens argument-less closures hidden in macros, and / is
		// the third slash of an outer doc comment.
		if rsKind(n.Parent()) == rust.BinaryExpression {
			return OpOperator
		}
		return OpUnknown
	case rust.BANG:
		parent := n.Parent()
		if !parent.IsNull() && rsKind(parent) != rust.InnerDocCommentMarker {
			return OpOperator
		}
		return OpUnknown
	case rust.LPAREN, rust.LBRACE, rust.LBRACK, rust.EQGT, rust.PLUS, rust.STAR, rust.Async,
		rust.Await, rust.Continue, rust.For, rust.If, rust.Let, rust.Loop, rust.Match, rust.Return,
		rust.Unsafe, rust.While, rust.EQ, rust.COMMA, rust.DASHGT, rust.QMARK, rust.LT, rust.GT,
		rust.AMP, rust.MutableSpecifier, rust.DOTDOT, rust.DOTDOTEQ, rust.DASH, rust.AMPAMP,
		rust.PIPE, rust.CARET, rust.EQEQ, rust.BANGEQ, rust.LTEQ, rust.GTEQ, rust.LTLT, rust.GTGT,
		rust.PERCENT, rust.PLUSEQ, rust.DASHEQ, rust.STAREQ, rust.SLASHEQ, rust.PERCENTEQ,
		rust.AMPEQ, rust.PIPEEQ, rust.CARETEQ, rust.LTLTEQ, rust.GTGTEQ, rust.Move, rust.DOT,
		rust.PrimitiveType, rust.Fn, rust.SEMI:
		return OpOperator
	case rust.Identifier, rust.StringLiteral, rust.RawStringLiteral, rust.IntegerLiteral,
		rust.FloatLiteral, rust.BooleanLiteral, rust.Zelf, rust.CharLiteral, rust.UNDERSCORE:
		return OpOperand
	default:
		return OpUnknown
	}
}

func (rustRules) OperatorString(kind uint16) string {
	return bracketString(rust.Kind(kind).String())
}

func (rustRules) Cyclomatic(n node.Node) int {
	switch rsKind(n) {
	case rust.If, rust.For, rust.While, rust.Loop, rust.MatchArm, rust.TryExpression,
		rust.AMPAMP, rust.PIPEPIPE:
		return 1
	}
	return 0
}

// Exit counts explicit returns, the ? operator, and the implicit exit of a
// function that declares a return type.
func (r rustRules) Exit(n node.Node) int {
	switch rsKind(n) {
	case rust.ReturnExpression, rust.TryExpression:
		return 1
	}
	if r.IsFunc(n) && !n.ChildByFieldName("return_type").IsNull() {
		return 1
	}
	return 0
}

func (rustRules) Loc(n node.Node) (LocClass, int) {
	switch rsKind(n) {
	case rust.StringLiteral, rust.RawStringLiteral, rust.Block, rust.SourceFile, rust.SLASH,
		rust.SLASHSLASH, rust.SLASHSTAR, rust.STARSLASH, rust.OuterDocCommentMarker,
		rust.DocComment, rust.InnerDocCommentMarker, rust.BANG:
		return LocIgnore, 0
	case rust.BlockComment:
		return LocComment, 0
	case rust.LineComment:
		// A doc comment token swallows the trailing newline.
		if n.IsChild(uint16(rust.DocComment)) {
			return LocComment, -1
		}
		return LocComment, 0
	case rust.EmptyStatement, rust.ExpressionStatement, rust.LetDeclaration,
		rust.AssignmentExpression, rust.CompoundAssignmentExpr:
		return LocStatement, 0
	default:
		return LocCode, 0
	}
}

func (rustRules) ABC(n node.Node) ABCClass {
	switch rsKind(n) {
	case rust.AssignmentExpression, rust.CompoundAssignmentExpr:
		return ABCAssignment
	case rust.LetDeclaration:
		if !n.ChildByFieldName("value").IsNull() {
			return ABCAssignment
		}
	case rust.CallExpression, rust.MacroInvocation:
		return ABCBranch
	case rust.EQEQ, rust.BANGEQ, rust.LT, rust.LTEQ, rust.GT, rust.GTEQ:
		if rsKind(n.Parent()) == rust.BinaryExpression {
			return ABCCondition
		}
	case rust.BANG:
		if rsKind(n.Parent()) == rust.UnaryExpression {
			return ABCCondition
		}
	case rust.Else, rust.MatchArm:
		return ABCCondition
	}
	return ABCNone
}

func (rustRules) Cognitive(n node.Node) CognitiveClass {
	switch rsKind(n) {
	case rust.IfExpression:
		if rsKind(n.Parent()) == rust.ElseClause {
			return CogHybrid
		}
		return CogNesting
	case rust.ElseClause:
		if n.IsChild(uint16(rust.IfExpression)) {
			return CogNone
		}
		return CogHybrid
	case rust.WhileExpression, rust.LoopExpression, rust.ForExpression, rust.MatchExpression:
		return CogNesting
	case rust.BinaryExpression:
		op := rsKind(n.ChildByFieldName("operator"))
		if op != rust.AMPAMP && op != rust.PIPEPIPE {
			return CogNone
		}
		parent := n.Parent()
		if rsKind(parent) == rust.BinaryExpression && rsKind(parent.ChildByFieldName("operator")) == op {
			return CogNone
		}
		return CogBoolean
	case rust.FunctionItem, rust.ClosureExpression:
		return CogFunction
	}
	return CogNone
}

func (rustRules) NArgs(n node.Node) int {
	return countNamed(n.ChildByFieldName("parameters"),
		uint16(rust.AttributeItem), uint16(rust.LineComment), uint16(rust.BlockComment))
}

func (rustRules) Members(node.Node, []byte) (Members, bool) {
	return Members{}, false
}
