// Package python enumerates the tree-sitter-python node kinds the analyzer
// reacts to. Every other kind maps to Unknown.
package python

// Kind is a closed enum over tree-sitter-python node kinds.
type Kind uint16

const (
	Unknown Kind = iota

	// named nodes
	Module
	FunctionDefinition
	ClassDefinition
	DecoratedDefinition
	Lambda
	LambdaParameters
	Parameters
	Identifier
	Integer
	Float
	True
	False
	None
	String
	StringStart
	StringContent
	StringEnd
	Comment
	Block
	ExpressionStatement
	ImportStatement
	FutureImportStatement
	ImportFromStatement
	PrintStatement
	AssertStatement
	ReturnStatement
	DeleteStatement
	RaiseStatement
	PassStatement
	BreakStatement
	ContinueStatement
	IfStatement
	ForStatement
	WhileStatement
	TryStatement
	WithStatement
	GlobalStatement
	NonlocalStatement
	ExecStatement
	MatchStatement
	CaseClause
	ElifClause
	ElseClause
	ExceptClause
	FinallyClause
	Assignment
	AugmentedAssignment
	NamedExpression
	Call
	ComparisonOperator
	BooleanOperator
	NotOperator
	ConditionalExpression
	KeywordSeparator
	PositionalSeparator

	// anonymous tokens
	Import
	DOT
	From
	COMMA
	As
	STAR
	GTGT
	Assert
	COLONEQ
	Return
	Def
	Del
	Raise
	Pass
	Break
	Continue
	If
	Elif
	Else
	Async
	For
	In
	While
	Try
	Except
	Finally
	With
	DASHGT
	EQ
	Global
	Exec
	AT
	Not
	And
	Or
	PLUS
	DASH
	SLASH
	PERCENT
	SLASHSLASH
	STARSTAR
	PIPE
	AMP
	CARET
	LTLT
	TILDE
	LT
	LTEQ
	EQEQ
	BANGEQ
	GTEQ
	GT
	LTGT
	Is
	PLUSEQ
	DASHEQ
	STAREQ
	SLASHEQ
	ATEQ
	SLASHSLASHEQ
	PERCENTEQ
	STARSTAREQ
	GTGTEQ
	LTLTEQ
	AMPEQ
	CARETEQ
	PIPEEQ
	Yield
	Await
	Print
	LPAREN
	LBRACK
	LBRACE

	kindCount
)

type entry struct {
	name  string
	named bool
}

var table = [kindCount]entry{
	Unknown:               {"unknown", false},
	Module:                {"module", true},
	FunctionDefinition:    {"function_definition", true},
	ClassDefinition:       {"class_definition", true},
	DecoratedDefinition:   {"decorated_definition", true},
	Lambda:                {"lambda", true},
	LambdaParameters:      {"lambda_parameters", true},
	Parameters:            {"parameters", true},
	Identifier:            {"identifier", true},
	Integer:               {"integer", true},
	Float:                 {"float", true},
	True:                  {"true", true},
	False:                 {"false", true},
	None:                  {"none", true},
	String:                {"string", true},
	StringStart:           {"string_start", true},
	StringContent:         {"string_content", true},
	StringEnd:             {"string_end", true},
	Comment:               {"comment", true},
	Block:                 {"block", true},
	ExpressionStatement:   {"expression_statement", true},
	ImportStatement:       {"import_statement", true},
	FutureImportStatement: {"future_import_statement", true},
	ImportFromStatement:   {"import_from_statement", true},
	PrintStatement:        {"print_statement", true},
	AssertStatement:       {"assert_statement", true},
	ReturnStatement:       {"return_statement", true},
	DeleteStatement:       {"delete_statement", true},
	RaiseStatement:        {"raise_statement", true},
	PassStatement:         {"pass_statement", true},
	BreakStatement:        {"break_statement", true},
	ContinueStatement:     {"continue_statement", true},
	IfStatement:           {"if_statement", true},
	ForStatement:          {"for_statement", true},
	WhileStatement:        {"while_statement", true},
	TryStatement:          {"try_statement", true},
	WithStatement:         {"with_statement", true},
	GlobalStatement:       {"global_statement", true},
	NonlocalStatement:     {"nonlocal_statement", true},
	ExecStatement:         {"exec_statement", true},
	MatchStatement:        {"match_statement", true},
	CaseClause:            {"case_clause", true},
	ElifClause:            {"elif_clause", true},
	ElseClause:            {"else_clause", true},
	ExceptClause:          {"except_clause", true},
	FinallyClause:         {"finally_clause", true},
	Assignment:            {"assignment", true},
	AugmentedAssignment:   {"augmented_assignment", true},
	NamedExpression:       {"named_expression", true},
	Call:                  {"call", true},
	ComparisonOperator:    {"comparison_operator", true},
	BooleanOperator:       {"boolean_operator", true},
	NotOperator:           {"not_operator", true},
	ConditionalExpression: {"conditional_expression", true},
	KeywordSeparator:      {"keyword_separator", true},
	PositionalSeparator:   {"positional_separator", true},

	Import:       {"import", false},
	DOT:          {".", false},
	From:         {"from", false},
	COMMA:        {",", false},
	As:           {"as", false},
	STAR:         {"*", false},
	GTGT:         {">>", false},
	Assert:       {"assert", false},
	COLONEQ:      {":=", false},
	Return:       {"return", false},
	Def:          {"def", false},
	Del:          {"del", false},
	Raise:        {"raise", false},
	Pass:         {"pass", false},
	Break:        {"break", false},
	Continue:     {"continue", false},
	If:           {"if", false},
	Elif:         {"elif", false},
	Else:         {"else", false},
	Async:        {"async", false},
	For:          {"for", false},
	In:           {"in", false},
	While:        {"while", false},
	Try:          {"try", false},
	Except:       {"except", false},
	Finally:      {"finally", false},
	With:         {"with", false},
	DASHGT:       {"->", false},
	EQ:           {"=", false},
	Global:       {"global", false},
	Exec:         {"exec", false},
	AT:           {"@", false},
	Not:          {"not", false},
	And:          {"and", false},
	Or:           {"or", false},
	PLUS:         {"+", false},
	DASH:         {"-", false},
	SLASH:        {"/", false},
	PERCENT:      {"%", false},
	SLASHSLASH:   {"//", false},
	STARSTAR:     {"**", false},
	PIPE:         {"|", false},
	AMP:          {"&", false},
	CARET:        {"^", false},
	LTLT:         {"<<", false},
	TILDE:        {"~", false},
	LT:           {"<", false},
	LTEQ:         {"<=", false},
	EQEQ:         {"==", false},
	BANGEQ:       {"!=", false},
	GTEQ:         {">=", false},
	GT:           {">", false},
	LTGT:         {"<>", false},
	Is:           {"is", false},
	PLUSEQ:       {"+=", false},
	DASHEQ:       {"-=", false},
	STAREQ:       {"*=", false},
	SLASHEQ:      {"/=", false},
	ATEQ:         {"@=", false},
	SLASHSLASHEQ: {"//=", false},
	PERCENTEQ:    {"%=", false},
	STARSTAREQ:   {"**=", false},
	GTGTEQ:       {">>=", false},
	LTLTEQ:       {"<<=", false},
	AMPEQ:        {"&=", false},
	CARETEQ:      {"^=", false},
	PIPEEQ:       {"|=", false},
	Yield:        {"yield", false},
	Await:        {"await", false},
	Print:        {"print", false},
	LPAREN:       {"(", false},
	LBRACK:       {"[", false},
	LBRACE:       {"{", false},
}

// aliases are grammar entries that collapse onto an existing kind.
var aliases = map[entry]Kind{
	{"await", true}: Await,
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
