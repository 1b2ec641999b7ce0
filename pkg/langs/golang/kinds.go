// Package golang enumerates the tree-sitter-go node kinds the analyzer
// reacts to. Every other kind maps to Unknown.
package golang

// Kind is a closed enum over tree-sitter-go node kinds.
type Kind uint16

const (
	Unknown Kind = iota

	// named nodes
	SourceFile
	FunctionDeclaration
	MethodDeclaration
	FuncLiteral
	Identifier
	IntLiteral
	FloatLiteral
	ImaginaryLiteral
	RuneLiteral
	RawStringLiteral
	InterpretedStringLiteral
	True
	False
	Nil
	Iota
	Comment
	Block
	ExpressionStatement
	SendStatement
	IncStatement
	DecStatement
	AssignmentStatement
	ShortVarDeclaration
	VarDeclaration
	ConstDeclaration
	TypeDeclaration
	GoStatement
	DeferStatement
	ReturnStatement
	BreakStatement
	ContinueStatement
	GotoStatement
	FallthroughStatement
	IfStatement
	ExpressionSwitchStatement
	TypeSwitchStatement
	SelectStatement
	ForStatement
	ExpressionCase
	DefaultCase
	TypeCase
	CommunicationCase
	BinaryExpression
	UnaryExpression
	CallExpression
	ParameterList
	ParameterDeclaration
	VariadicParameterDeclaration
	VarSpec

	// anonymous tokens
	Func
	Go
	Defer
	Return
	If
	Else
	For
	Range
	Switch
	Select
	Case
	Default
	Break
	Continue
	Goto
	Fallthrough
	Chan
	Map
	Struct
	Interface
	Type
	Var
	Const
	Package
	Import
	DOT
	COMMA
	SEMI
	COLON
	COLONEQ
	EQ
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
	AMPCARETEQ
	PLUS
	DASH
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	CARET
	LTLT
	GTGT
	AMPAMP
	PIPEPIPE
	AMPCARET
	PLUSPLUS
	DASHDASH
	EQEQ
	BANGEQ
	LT
	LTEQ
	GT
	GTEQ
	BANG
	LPAREN
	LBRACK
	LBRACE
	DOTDOTDOT

	kindCount
)

type entry struct {
	name  string
	named bool
}

var table = [kindCount]entry{
	Unknown:                      {"unknown", false},
	SourceFile:                   {"source_file", true},
	FunctionDeclaration:          {"function_declaration", true},
	MethodDeclaration:            {"method_declaration", true},
	FuncLiteral:                  {"func_literal", true},
	Identifier:                   {"identifier", true},
	IntLiteral:                   {"int_literal", true},
	FloatLiteral:                 {"float_literal", true},
	ImaginaryLiteral:             {"imaginary_literal", true},
	RuneLiteral:                  {"rune_literal", true},
	RawStringLiteral:             {"raw_string_literal", true},
	InterpretedStringLiteral:     {"interpreted_string_literal", true},
	True:                         {"true", true},
	False:                        {"false", true},
	Nil:                          {"nil", true},
	Iota:                         {"iota", true},
	Comment:                      {"comment", true},
	Block:                        {"block", true},
	ExpressionStatement:          {"expression_statement", true},
	SendStatement:                {"send_statement", true},
	IncStatement:                 {"inc_statement", true},
	DecStatement:                 {"dec_statement", true},
	AssignmentStatement:          {"assignment_statement", true},
	ShortVarDeclaration:          {"short_var_declaration", true},
	VarDeclaration:               {"var_declaration", true},
	ConstDeclaration:             {"const_declaration", true},
	TypeDeclaration:              {"type_declaration", true},
	GoStatement:                  {"go_statement", true},
	DeferStatement:               {"defer_statement", true},
	ReturnStatement:              {"return_statement", true},
	BreakStatement:               {"break_statement", true},
	ContinueStatement:            {"continue_statement", true},
	GotoStatement:                {"goto_statement", true},
	FallthroughStatement:         {"fallthrough_statement", true},
	IfStatement:                  {"if_statement", true},
	ExpressionSwitchStatement:    {"expression_switch_statement", true},
	TypeSwitchStatement:          {"type_switch_statement", true},
	SelectStatement:              {"select_statement", true},
	ForStatement:                 {"for_statement", true},
	ExpressionCase:               {"expression_case", true},
	DefaultCase:                  {"default_case", true},
	TypeCase:                     {"type_case", true},
	CommunicationCase:            {"communication_case", true},
	BinaryExpression:             {"binary_expression", true},
	UnaryExpression:              {"unary_expression", true},
	CallExpression:               {"call_expression", true},
	ParameterList:                {"parameter_list", true},
	ParameterDeclaration:         {"parameter_declaration", true},
	VariadicParameterDeclaration: {"variadic_parameter_declaration", true},
	VarSpec:                      {"var_spec", true},

	Func:        {"func", false},
	Go:          {"go", false},
	Defer:       {"defer", false},
	Return:      {"return", false},
	If:          {"if", false},
	Else:        {"else", false},
	For:         {"for", false},
	Range:       {"range", false},
	Switch:      {"switch", false},
	Select:      {"select", false},
	Case:        {"case", false},
	Default:     {"default", false},
	Break:       {"break", false},
	Continue:    {"continue", false},
	Goto:        {"goto", false},
	Fallthrough: {"fallthrough", false},
	Chan:        {"chan", false},
	Map:         {"map", false},
	Struct:      {"struct", false},
	Interface:   {"interface", false},
	Type:        {"type", false},
	Var:         {"var", false},
	Const:       {"const", false},
	Package:     {"package", false},
	Import:      {"import", false},
	DOT:         {".", false},
	COMMA:       {",", false},
	SEMI:        {";", false},
	COLON:       {":", false},
	COLONEQ:     {":=", false},
	EQ:          {"=", false},
	PLUSEQ:      {"+=", false},
	DASHEQ:      {"-=", false},
	STAREQ:      {"*=", false},
	SLASHEQ:     {"/=", false},
	PERCENTEQ:   {"%=", false},
	AMPEQ:       {"&=", false},
	PIPEEQ:      {"|=", false},
	CARETEQ:     {"^=", false},
	LTLTEQ:      {"<<=", false},
	GTGTEQ:      {">>=", false},
	AMPCARETEQ:  {"&^=", false},
	PLUS:        {"+", false},
	DASH:        {"-", false},
	STAR:        {"*", false},
	SLASH:       {"/", false},
	PERCENT:     {"%", false},
	AMP:         {"&", false},
	PIPE:        {"|", false},
	CARET:       {"^", false},
	LTLT:        {"<<", false},
	GTGT:        {">>", false},
	AMPAMP:      {"&&", false},
	PIPEPIPE:    {"||", false},
	AMPCARET:    {"&^", false},
	PLUSPLUS:    {"++", false},
	DASHDASH:    {"--", false},
	EQEQ:        {"==", false},
	BANGEQ:      {"!=", false},
	LT:          {"<", false},
	LTEQ:        {"<=", false},
	GT:          {">", false},
	GTEQ:        {">=", false},
	BANG:        {"!", false},
	LPAREN:      {"(", false},
	LBRACK:      {"[", false},
	LBRACE:      {"{", false},
	DOTDOTDOT:   {"...", false},
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
