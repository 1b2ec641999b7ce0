// Package typescript enumerates the node kinds of the tree-sitter TypeScript
// and TSX grammars the analyzer reacts to. Both grammars share node names, so
// one enum serves the two flavors.
package typescript

// Kind is a closed enum over TypeScript/TSX node kinds.
type Kind uint16

const (
	Unknown Kind = iota

	// named nodes
	Program
	FunctionExpression
	FunctionDeclaration
	GeneratorFunction
	GeneratorFunctionDeclaration
	MethodDefinition
	ArrowFunction
	Class
	ClassDeclaration
	InterfaceDeclaration
	ClassBody
	InterfaceBody
	ObjectType
	PublicFieldDefinition
	MethodSignature
	AbstractMethodSignature
	PropertySignature
	AccessibilityModifier
	PrivatePropertyIdentifier
	Pair
	VariableDeclarator
	Identifier
	NestedIdentifier
	MemberExpression
	PropertyIdentifier
	String
	Number
	True
	False
	Null
	Undefined
	This
	Super
	Comment
	ExpressionStatement
	ExportStatement
	ImportStatement
	StatementBlock
	IfStatement
	SwitchStatement
	ForStatement
	ForInStatement
	WhileStatement
	DoStatement
	TryStatement
	WithStatement
	BreakStatement
	ContinueStatement
	DebuggerStatement
	ReturnStatement
	ThrowStatement
	EmptyStatement
	StatementIdentifier
	ElseClause
	SwitchCase
	SwitchDefault
	CatchClause
	TernaryExpression
	BinaryExpression
	UnaryExpression
	AssignmentExpression
	AugmentedAssignmentExpression
	UpdateExpression
	CallExpression
	NewExpression
	FormalParameters

	// anonymous tokens
	Export
	Import
	Extends
	DOT
	From
	LPAREN
	COMMA
	As
	STAR
	GTGT
	GTGTGT
	COLON
	Return
	Delete
	Throw
	Break
	Continue
	If
	Else
	Switch
	Case
	Default
	Async
	For
	In
	Of
	While
	Try
	Catch
	Finally
	With
	EQ
	AT
	AMPAMP
	PIPEPIPE
	PLUS
	DASH
	DASHDASH
	PLUSPLUS
	SLASH
	PERCENT
	STARSTAR
	PIPE
	AMP
	LTLT
	TILDE
	LT
	LTEQ
	EQEQ
	BANGEQ
	GTEQ
	GT
	PLUSEQ
	BANG
	BANGEQEQ
	EQEQEQ
	DASHEQ
	STAREQ
	SLASHEQ
	PERCENTEQ
	STARSTAREQ
	GTGTEQ
	GTGTGTEQ
	LTLTEQ
	AMPEQ
	CARET
	CARETEQ
	PIPEEQ
	Yield
	LBRACK
	LBRACE
	Await
	QMARK
	QMARKQMARK
	New
	Let
	Var
	Const
	Function
	SEMI
	Void
	Typeof
	Instanceof
	Set
	Get
	DQUOTE

	kindCount
)

type entry struct {
	name  string
	named bool
}

var table = [kindCount]entry{
	Unknown:                       {"unknown", false},
	Program:                       {"program", true},
	FunctionExpression:            {"function_expression", true},
	FunctionDeclaration:           {"function_declaration", true},
	GeneratorFunction:             {"generator_function", true},
	GeneratorFunctionDeclaration:  {"generator_function_declaration", true},
	MethodDefinition:              {"method_definition", true},
	ArrowFunction:                 {"arrow_function", true},
	Class:                         {"class", true},
	ClassDeclaration:              {"class_declaration", true},
	InterfaceDeclaration:          {"interface_declaration", true},
	ClassBody:                     {"class_body", true},
	InterfaceBody:                 {"interface_body", true},
	ObjectType:                    {"object_type", true},
	PublicFieldDefinition:         {"public_field_definition", true},
	MethodSignature:               {"method_signature", true},
	AbstractMethodSignature:       {"abstract_method_signature", true},
	PropertySignature:             {"property_signature", true},
	AccessibilityModifier:         {"accessibility_modifier", true},
	PrivatePropertyIdentifier:     {"private_property_identifier", true},
	Pair:                          {"pair", true},
	VariableDeclarator:            {"variable_declarator", true},
	Identifier:                    {"identifier", true},
	NestedIdentifier:              {"nested_identifier", true},
	MemberExpression:              {"member_expression", true},
	PropertyIdentifier:            {"property_identifier", true},
	String:                        {"string", true},
	Number:                        {"number", true},
	True:                          {"true", true},
	False:                         {"false", true},
	Null:                          {"null", true},
	Undefined:                     {"undefined", true},
	This:                          {"this", true},
	Super:                         {"super", true},
	Comment:                       {"comment", true},
	ExpressionStatement:           {"expression_statement", true},
	ExportStatement:               {"export_statement", true},
	ImportStatement:               {"import_statement", true},
	StatementBlock:                {"statement_block", true},
	IfStatement:                   {"if_statement", true},
	SwitchStatement:               {"switch_statement", true},
	ForStatement:                  {"for_statement", true},
	ForInStatement:                {"for_in_statement", true},
	WhileStatement:                {"while_statement", true},
	DoStatement:                   {"do_statement", true},
	TryStatement:                  {"try_statement", true},
	WithStatement:                 {"with_statement", true},
	BreakStatement:                {"break_statement", true},
	ContinueStatement:             {"continue_statement", true},
	DebuggerStatement:             {"debugger_statement", true},
	ReturnStatement:               {"return_statement", true},
	ThrowStatement:                {"throw_statement", true},
	EmptyStatement:                {"empty_statement", true},
	StatementIdentifier:           {"statement_identifier", true},
	ElseClause:                    {"else_clause", true},
	SwitchCase:                    {"switch_case", true},
	SwitchDefault:                 {"switch_default", true},
	CatchClause:                   {"catch_clause", true},
	TernaryExpression:             {"ternary_expression", true},
	BinaryExpression:              {"binary_expression", true},
	UnaryExpression:               {"unary_expression", true},
	AssignmentExpression:          {"assignment_expression", true},
	AugmentedAssignmentExpression: {"augmented_assignment_expression", true},
	UpdateExpression:              {"update_expression", true},
	CallExpression:                {"call_expression", true},
	NewExpression:                 {"new_expression", true},
	FormalParameters:              {"formal_parameters", true},

	Export:     {"export", false},
	Import:     {"import", false},
	Extends:    {"extends", false},
	DOT:        {".", false},
	From:       {"from", false},
	LPAREN:     {"(", false},
	COMMA:      {",", false},
	As:         {"as", false},
	STAR:       {"*", false},
	GTGT:       {">>", false},
	GTGTGT:     {">>>", false},
	COLON:      {":", false},
	Return:     {"return", false},
	Delete:     {"delete", false},
	Throw:      {"throw", false},
	Break:      {"break", false},
	Continue:   {"continue", false},
	If:         {"if", false},
	Else:       {"else", false},
	Switch:     {"switch", false},
	Case:       {"case", false},
	Default:    {"default", false},
	Async:      {"async", false},
	For:        {"for", false},
	In:         {"in", false},
	Of:         {"of", false},
	While:      {"while", false},
	Try:        {"try", false},
	Catch:      {"catch", false},
	Finally:    {"finally", false},
	With:       {"with", false},
	EQ:         {"=", false},
	AT:         {"@", false},
	AMPAMP:     {"&&", false},
	PIPEPIPE:   {"||", false},
	PLUS:       {"+", false},
	DASH:       {"-", false},
	DASHDASH:   {"--", false},
	PLUSPLUS:   {"++", false},
	SLASH:      {"/", false},
	PERCENT:    {"%", false},
	STARSTAR:   {"**", false},
	PIPE:       {"|", false},
	AMP:        {"&", false},
	LTLT:       {"<<", false},
	TILDE:      {"~", false},
	LT:         {"<", false},
	LTEQ:       {"<=", false},
	EQEQ:       {"==", false},
	BANGEQ:     {"!=", false},
	GTEQ:       {">=", false},
	GT:         {">", false},
	PLUSEQ:     {"+=", false},
	BANG:       {"!", false},
	BANGEQEQ:   {"!==", false},
	EQEQEQ:     {"===", false},
	DASHEQ:     {"-=", false},
	STAREQ:     {"*=", false},
	SLASHEQ:    {"/=", false},
	PERCENTEQ:  {"%=", false},
	STARSTAREQ: {"**=", false},
	GTGTEQ:     {">>=", false},
	GTGTGTEQ:   {">>>=", false},
	LTLTEQ:     {"<<=", false},
	AMPEQ:      {"&=", false},
	CARET:      {"^", false},
	CARETEQ:    {"^=", false},
	PIPEEQ:     {"|=", false},
	Yield:      {"yield", false},
	LBRACK:     {"[", false},
	LBRACE:     {"{", false},
	Await:      {"await", false},
	QMARK:      {"?", false},
	QMARKQMARK: {"??", false},
	New:        {"new", false},
	Let:        {"let", false},
	Var:        {"var", false},
	Const:      {"const", false},
	Function:   {"function", false},
	SEMI:       {";", false},
	Void:       {"void", false},
	Typeof:     {"typeof", false},
	Instanceof: {"instanceof", false},
	Set:        {"set", false},
	Get:        {"get", false},
	DQUOTE:     {"\"", false},
}

// aliases collapse duplicate grammar entries onto one kind. Older grammar
// releases name function expressions "function"; the named "import" node is
// the dynamic import keyword.
var aliases = map[entry]Kind{
	{"function", true}: FunctionExpression,
	{"import", true}:   Import,
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
