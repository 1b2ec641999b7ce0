// Package rust enumerates the tree-sitter-rust node kinds the analyzer reacts
// to. Every other kind maps to Unknown.
package rust

// Kind is a closed enum over tree-sitter-rust node kinds.
type Kind uint16

const (
	Unknown Kind = iota

	// named nodes
	SourceFile
	FunctionItem
	ClosureExpression
	TraitItem
	ImplItem
	Identifier
	StringLiteral
	RawStringLiteral
	IntegerLiteral
	FloatLiteral
	BooleanLiteral
	Zelf
	CharLiteral
	Block
	LineComment
	BlockComment
	DocComment
	OuterDocCommentMarker
	InnerDocCommentMarker
	EmptyStatement
	ExpressionStatement
	LetDeclaration
	AssignmentExpression
	CompoundAssignmentExpr
	BinaryExpression
	UnaryExpression
	ReturnExpression
	TryExpression
	MatchArm
	CallExpression
	MacroInvocation
	MutableSpecifier
	PrimitiveType
	IfExpression
	ElseClause
	WhileExpression
	LoopExpression
	ForExpression
	MatchExpression
	Parameters
	ClosureParameters
	AttributeItem

	// anonymous tokens
	LPAREN
	LBRACE
	LBRACK
	EQGT
	PLUS
	STAR
	Async
	Await
	Continue
	For
	If
	Let
	Loop
	Match
	Return
	Unsafe
	While
	EQ
	COMMA
	DASHGT
	QMARK
	LT
	GT
	AMP
	DOTDOT
	DOTDOTEQ
	DASH
	AMPAMP
	PIPEPIPE
	PIPE
	CARET
	EQEQ
	BANGEQ
	LTEQ
	GTEQ
	LTLT
	GTGT
	SLASH
	PERCENT
	PLUSEQ
	DASHEQ
	STAREQ
	SLASHEQ
	PERCENTEQ
	AMPEQ
	PIPEEQ
	CARETEQ
	LTLTEQ
	GTGTEQ
	Move
	DOT
	Fn
	SEMI
	BANG
	SLASHSLASH
	SLASHSTAR
	STARSLASH
	Else
	UNDERSCORE

	kindCount
)

type entry struct {
	name  string
	named bool
}

var table = [kindCount]entry{
	Unknown:                {"unknown", false},
	SourceFile:             {"source_file", true},
	FunctionItem:           {"function_item", true},
	ClosureExpression:      {"closure_expression", true},
	TraitItem:              {"trait_item", true},
	ImplItem:               {"impl_item", true},
	Identifier:             {"identifier", true},
	StringLiteral:          {"string_literal", true},
	RawStringLiteral:       {"raw_string_literal", true},
	IntegerLiteral:         {"integer_literal", true},
	FloatLiteral:           {"float_literal", true},
	BooleanLiteral:         {"boolean_literal", true},
	Zelf:                   {"self", true},
	CharLiteral:            {"char_literal", true},
	Block:                  {"block", true},
	LineComment:            {"line_comment", true},
	BlockComment:           {"block_comment", true},
	DocComment:             {"doc_comment", true},
	OuterDocCommentMarker:  {"outer_doc_comment_marker", true},
	InnerDocCommentMarker:  {"inner_doc_comment_marker", true},
	EmptyStatement:         {"empty_statement", true},
	ExpressionStatement:    {"expression_statement", true},
	LetDeclaration:         {"let_declaration", true},
	AssignmentExpression:   {"assignment_expression", true},
	CompoundAssignmentExpr: {"compound_assignment_expr", true},
	BinaryExpression:       {"binary_expression", true},
	UnaryExpression:        {"unary_expression", true},
	ReturnExpression:       {"return_expression", true},
	TryExpression:          {"try_expression", true},
	MatchArm:               {"match_arm", true},
	CallExpression:         {"call_expression", true},
	MacroInvocation:        {"macro_invocation", true},
	MutableSpecifier:       {"mutable_specifier", true},
	PrimitiveType:          {"primitive_type", true},
	IfExpression:           {"if_expression", true},
	ElseClause:             {"else_clause", true},
	WhileExpression:        {"while_expression", true},
	LoopExpression:         {"loop_expression", true},
	ForExpression:          {"for_expression", true},
	MatchExpression:        {"match_expression", true},
	Parameters:             {"parameters", true},
	ClosureParameters:      {"closure_parameters", true},
	AttributeItem:          {"attribute_item", true},

	LPAREN:     {"(", false},
	LBRACE:     {"{", false},
	LBRACK:     {"[", false},
	EQGT:       {"=>", false},
	PLUS:       {"+", false},
	STAR:       {"*", false},
	Async:      {"async", false},
	Await:      {"await", false},
	Continue:   {"continue", false},
	For:        {"for", false},
	If:         {"if", false},
	Let:        {"let", false},
	Loop:       {"loop", false},
	Match:      {"match", false},
	Return:     {"return", false},
	Unsafe:     {"unsafe", false},
	While:      {"while", false},
	EQ:         {"=", false},
	COMMA:      {",", false},
	DASHGT:     {"->", false},
	QMARK:      {"?", false},
	LT:         {"<", false},
	GT:         {">", false},
	AMP:        {"&", false},
	DOTDOT:     {"..", false},
	DOTDOTEQ:   {"..=", false},
	DASH:       {"-", false},
	AMPAMP:     {"&&", false},
	PIPEPIPE:   {"||", false},
	PIPE:       {"|", false},
	CARET:      {"^", false},
	EQEQ:       {"==", false},
	BANGEQ:     {"!=", false},
	LTEQ:       {"<=", false},
	GTEQ:       {">=", false},
	LTLT:       {"<<", false},
	GTGT:       {">>", false},
	SLASH:      {"/", false},
	PERCENT:    {"%", false},
	PLUSEQ:     {"+=", false},
	DASHEQ:     {"-=", false},
	STAREQ:     {"*=", false},
	SLASHEQ:    {"/=", false},
	PERCENTEQ:  {"%=", false},
	AMPEQ:      {"&=", false},
	PIPEEQ:     {"|=", false},
	CARETEQ:    {"^=", false},
	LTLTEQ:     {"<<=", false},
	GTGTEQ:     {">>=", false},
	Move:       {"move", false},
	DOT:        {".", false},
	Fn:         {"fn", false},
	SEMI:       {";", false},
	BANG:       {"!", false},
	SLASHSLASH: {"//", false},
	SLASHSTAR:  {"/*", false},
	STARSLASH:  {"*/", false},
	Else:       {"else", false},
	UNDERSCORE: {"_", false},
}

// aliases collapse duplicate or renamed grammar entries onto one kind.
var aliases = map[entry]Kind{
	{"last_match_arm", true}:       MatchArm,
	{"if_let_expression", true}:    IfExpression,
	{"while_let_expression", true}: WhileExpression,
	{"_", true}:                    UNDERSCORE,
}

var named, anonymous = index()

func index() (map[string]Kind, map[string]Kind) {
	n := make(map[string]Kind)
	a := make(map[string]Kind)
	for k := Kind(1); k < kindCount; k++ {
		e := table[k]
		if e.named {
			n[e.name] = k
		} else {
			a[e.name] = k
		}
	}
	for e, k := range aliases {
		if e.named {
			n[e.name] = k
		} else {
			a[e.name] = k
		}
	}
	return n, a
}

// Classify maps a grammar node type to its Kind.
func Classify(typ string, isNamed bool) uint16 {
	if isNamed {
		return uint16(named[typ])
	}
	return uint16(anonymous[typ])
}

func (k Kind) String() string {
	if k < kindCount {
		return table[k].name
	}
	return table[Unknown].name
}
