package langs

import (
	"github.com/panbanda/mehen/pkg/langs/typescript"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

// typescriptRules serves both the TypeScript and TSX grammars.
type typescriptRules struct {
	lang parser.Language
}

func tsKind(n node.Node) typescript.Kind { return typescript.Kind(n.Kind()) }

func (r typescriptRules) Language() parser.Language { return r.lang }

func (typescriptRules) Kinds() node.KindFunc { return typescript.Classify }

func (typescriptRules) KindName(kind uint16) string { return typescript.Kind(kind).String() }

func (typescriptRules) IsFunc(n node.Node) bool {
	switch tsKind(n) {
	case typescript.FunctionExpression, typescript.MethodDefinition, typescript.GeneratorFunction,
		typescript.FunctionDeclaration, typescript.GeneratorFunctionDeclaration:
		return true
	}
	return false
}

func (typescriptRules) IsClosure(n node.Node) bool { return tsKind(n) == typescript.ArrowFunction }

func (typescriptRules) IsComment(n node.Node) bool { return tsKind(n) == typescript.Comment }

func (typescriptRules) SpaceKind(n node.Node) SpaceKind {
	switch tsKind(n) {
	case typescript.FunctionExpression, typescript.MethodDefinition, typescript.GeneratorFunction,
		typescript.FunctionDeclaration, typescript.GeneratorFunctionDeclaration, typescript.ArrowFunction:
		return SpaceFunction
	case typescript.Class, typescript.ClassDeclaration:
		return SpaceClass
	case typescript.InterfaceDeclaration:
		return SpaceInterface
	case typescript.Program:
		return SpaceUnit
	default:
		return SpaceUnknown
	}
}

// FuncName falls back to the key of an enclosing pair (foo: function() {})
// or the name of an enclosing declarator (const foo = function() {}).
func (typescriptRules) FuncName(n node.Node, source []byte) (string, bool, bool) {
	if name, ok, found := fieldText(n, "name", source); found {
		return name, true, ok
	}
	parent := n.Parent()
	switch tsKind(parent) {
	case typescript.Pair:
		if name, ok, found := fieldText(parent, "key", source); found {
			return name, true, ok
		}
	case typescript.VariableDeclarator:
		if name, ok, found := fieldText(parent, "name", source); found {
			return name, true, ok
		}
	}
	return "", false, false
}

func (typescriptRules) OpType(n node.Node) OpType {
	switch tsKind(n) {
	case typescript.Export, typescript.Import, typescript.Extends, typescript.DOT, typescript.From,
		typescript.LPAREN, typescript.COMMA, typescript.As, typescript.STAR, typescript.GTGT,
		typescript.GTGTGT, typescript.COLON, typescript.Return, typescript.Delete, typescript.Throw,
		typescript.Break, typescript.Continue, typescript.If, typescript.Else, typescript.Switch,
		typescript.Case, typescript.Default, typescript.Async, typescript.For, typescript.In,
		typescript.Of, typescript.While, typescript.Try, typescript.Catch, typescript.Finally,
		typescript.With, typescript.EQ, typescript.AT, typescript.AMPAMP, typescript.PIPEPIPE,
		typescript.PLUS, typescript.DASH, typescript.DASHDASH, typescript.PLUSPLUS, typescript.SLASH,
		typescript.PERCENT, typescript.STARSTAR, typescript.PIPE, typescript.AMP, typescript.LTLT,
		typescript.TILDE, typescript.LT, typescript.LTEQ, typescript.EQEQ, typescript.BANGEQ,
		typescript.GTEQ, typescript.GT, typescript.PLUSEQ, typescript.BANG, typescript.BANGEQEQ,
		typescript.EQEQEQ, typescript.DASHEQ, typescript.STAREQ, typescript.SLASHEQ,
		typescript.PERCENTEQ, typescript.STARSTAREQ, typescript.GTGTEQ, typescript.GTGTGTEQ,
		typescript.LTLTEQ, typescript.AMPEQ, typescript.CARET, typescript.CARETEQ, typescript.PIPEEQ,
		typescript.Yield, typescript.LBRACK, typescript.LBRACE, typescript.Await, typescript.QMARK,
		typescript.QMARKQMARK, typescript.New, typescript.Let, typescript.Var, typescript.Const,
		typescript.Function, typescript.FunctionExpression, typescript.SEMI:
		return OpOperator
	case typescript.Identifier, typescript.NestedIdentifier, typescript.MemberExpression,
		typescript.PropertyIdentifier, typescript.String, typescript.Number, typescript.True,
		typescript.False, typescript.Null, typescript.Void, typescript.This, typescript.Super,
		typescript.Undefined, typescript.Set, typescript.Get, typescript.Typeof, typescript.Instanceof:
		return OpOperand
	default:
		return OpUnknown
	}
}

func (typescriptRules) OperatorString(kind uint16) string {
	return bracketString(typescript.Kind(kind).String())
}

func (typescriptRules) Cyclomatic(n node.Node) int {
	switch tsKind(n) {
	case typescript.If, typescript.For, typescript.While, typescript.Case, typescript.Catch,
		typescript.TernaryExpression, typescript.AMPAMP, typescript.PIPEPIPE:
		return 1
	}
	return 0
}

func (typescriptRules) Exit(n node.Node) int {
	if tsKind(n) == typescript.ReturnStatement {
		return 1
	}
	return 0
}

func (typescriptRules) Loc(n node.Node) (LocClass, int) {
	switch tsKind(n) {
	case typescript.String, typescript.DQUOTE, typescript.Program:
		return LocIgnore, 0
	case typescript.Comment:
		return LocComment, 0
	case typescript.ExpressionStatement, typescript.ExportStatement, typescript.ImportStatement,
		typescript.StatementBlock, typescript.IfStatement, typescript.SwitchStatement,
		typescript.ForStatement, typescript.ForInStatement, typescript.WhileStatement,
		typescript.DoStatement, typescript.TryStatement, typescript.WithStatement,
		typescript.BreakStatement, typescript.ContinueStatement, typescript.DebuggerStatement,
		typescript.ReturnStatement, typescript.ThrowStatement, typescript.EmptyStatement,
		typescript.StatementIdentifier:
		return LocStatement, 0
	default:
		return LocCode, 0
	}
}

func (typescriptRules) ABC(n node.Node) ABCClass {
	switch tsKind(n) {
	case typescript.AssignmentExpression, typescript.AugmentedAssignmentExpression,
		typescript.UpdateExpression:
		return ABCAssignment
	case typescript.VariableDeclarator:
		if !n.ChildByFieldName("value").IsNull() {
			return ABCAssignment
		}
	case typescript.CallExpression, typescript.NewExpression:
		return ABCBranch
	case typescript.EQEQ, typescript.BANGEQ, typescript.EQEQEQ, typescript.BANGEQEQ,
		typescript.LT, typescript.LTEQ, typescript.GT, typescript.GTEQ:
		if tsKind(n.Parent()) == typescript.BinaryExpression {
			return ABCCondition
		}
	case typescript.BANG:
		if tsKind(n.Parent()) == typescript.UnaryExpression {
			return ABCCondition
		}
	case typescript.QMARK:
		if tsKind(n.Parent()) == typescript.TernaryExpression {
			return ABCCondition
		}
	case typescript.Default:
		if tsKind(n.Parent()) == typescript.SwitchDefault {
			return ABCCondition
		}
	case typescript.Else, typescript.Case, typescript.Try, typescript.Catch:
		return ABCCondition
	}
	return ABCNone
}

func (typescriptRules) Cognitive(n node.Node) CognitiveClass {
	switch tsKind(n) {
	case typescript.IfStatement:
		if tsKind(n.Parent()) == typescript.ElseClause {
			return CogHybrid
		}
		return CogNesting
	case typescript.ElseClause:
		if n.IsChild(uint16(typescript.IfStatement)) {
			return CogNone
		}
		return CogHybrid
	case typescript.SwitchStatement, typescript.ForStatement, typescript.ForInStatement,
		typescript.WhileStatement, typescript.DoStatement, typescript.CatchClause,
		typescript.TernaryExpression:
		return CogNesting
	case typescript.BinaryExpression:
		op := tsKind(n.ChildByFieldName("operator"))
		if op != typescript.AMPAMP && op != typescript.PIPEPIPE && op != typescript.QMARKQMARK {
			return CogNone
		}
		parent := n.Parent()
		if tsKind(parent) == typescript.BinaryExpression && tsKind(parent.ChildByFieldName("operator")) == op {
			return CogNone
		}
		return CogBoolean
	case typescript.FunctionExpression, typescript.FunctionDeclaration, typescript.GeneratorFunction,
		typescript.GeneratorFunctionDeclaration, typescript.MethodDefinition, typescript.ArrowFunction:
		return CogFunction
	}
	return CogNone
}

func (typescriptRules) NArgs(n node.Node) int {
	if tsKind(n) == typescript.ArrowFunction && !n.ChildByFieldName("parameter").IsNull() {
		return 1
	}
	return countNamed(n.ChildByFieldName("parameters"), uint16(typescript.Comment))
}

func (typescriptRules) Members(n node.Node, source []byte) (Members, bool) {
	var m Members
	switch tsKind(n) {
	case typescript.Class, typescript.ClassDeclaration:
		for _, member := range n.ChildByFieldName("body").Children() {
			switch tsKind(member) {
			case typescript.PublicFieldDefinition:
				m.Attributes++
				if tsPublic(member, source) {
					m.PublicAttributes++
				}
			case typescript.MethodDefinition, typescript.MethodSignature, typescript.AbstractMethodSignature:
				m.Methods++
				if tsPublic(member, source) {
					m.PublicMethods++
				}
			}
		}
		return m, true
	case typescript.InterfaceDeclaration:
		// Interface members have no visibility modifiers.
		for _, member := range n.ChildByFieldName("body").Children() {
			switch tsKind(member) {
			case typescript.PropertySignature:
				m.Attributes++
				m.PublicAttributes++
			case typescript.MethodSignature:
				m.Methods++
				m.PublicMethods++
			}
		}
		return m, true
	}
	return m, false
}

func tsPublic(member node.Node, source []byte) bool {
	if tsKind(member.ChildByFieldName("name")) == typescript.PrivatePropertyIdentifier {
		return false
	}
	mod := member.FirstChild(func(c node.Node) bool { return tsKind(c) == typescript.AccessibilityModifier })
	if mod.IsNull() {
		return true
	}
	text, _ := mod.UTF8Text(source)
	return text != "private" && text != "protected"
}
