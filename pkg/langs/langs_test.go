package langs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

func parse(t *testing.T, lang parser.Language, src string) (node.Node, langs.Rules) {
	t.Helper()
	p := parser.New()
	defer p.Close()

	res, err := p.Parse([]byte(src), lang, "test")
	require.NoError(t, err)
	t.Cleanup(res.Close)

	rules, err := langs.For(lang)
	require.NoError(t, err)
	return node.Root(res.Tree, rules.Kinds()), rules
}

// classified returns the operator names and operand texts of a source.
func classified(t *testing.T, lang parser.Language, src string) (operators, operands []string) {
	t.Helper()
	root, rules := parse(t, lang, src)
	node.Walk(root, func(n node.Node) bool {
		switch rules.OpType(n) {
		case langs.OpOperator:
			operators = append(operators, rules.OperatorString(n.Kind()))
		case langs.OpOperand:
			operands = append(operands, string(n.Text([]byte(src))))
		}
		return true
	})
	return operators, operands
}

func count(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}

func TestRustContextualOperators(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		operator string
		want     int
	}{
		{"logical or", "fn f(a: bool, b: bool) -> bool { a || b }\n", "||", 1},
		{"closure without arguments in a macro", "fn f() { m!(|| 1); }\n", "||", 0},
		{"closure without arguments", "fn f() { let c = || 1; }\n", "||", 0},
		{"division", "fn f() -> i32 { 4 / 2 }\n", "/", 1},
		{"outer doc comment", "/// doc\nfn f() -> i32 { 4 / 2 }\n", "/", 1},
		{"negation", "fn f(a: bool) -> bool { !a }\n", "!", 1},
		{"inner doc comment", "//! doc\nfn f(a: bool) -> bool { !a }\n", "!", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, _ := classified(t, parser.LangRust, tt.source)
			if got := count(ops, tt.operator); got != tt.want {
				t.Errorf("%q operators = %d, want %d (all: %v)", tt.operator, got, tt.want, ops)
			}
		})
	}
}

func TestPythonDocstringIsNotAnOperand(t *testing.T) {
	src := "def f():\n    \"\"\"Doc.\"\"\"\n    return \"x\"\n"
	_, operands := classified(t, parser.LangPython, src)

	assert.Contains(t, operands, `"x"`)
	assert.Contains(t, operands, "f")
	assert.NotContains(t, operands, `"""Doc."""`)
}

func TestPythonModuleDocstring(t *testing.T) {
	_, operands := classified(t, parser.LangPython, "\"\"\"Module.\"\"\"\nx = \"y\"\n")
	assert.Equal(t, []string{"x", `"y"`}, operands)
}

func TestBracketOperators(t *testing.T) {
	ops, _ := classified(t, parser.LangRust, "fn f() { g(1); }\n")
	assert.Contains(t, ops, "()")
	assert.Contains(t, ops, "{}")
	assert.NotContains(t, ops, "(")
}

func TestFor(t *testing.T) {
	for _, lang := range []parser.Language{parser.LangRust, parser.LangPython, parser.LangTypeScript, parser.LangTSX, parser.LangGo} {
		rules, err := langs.For(lang)
		require.NoError(t, err)
		assert.Equal(t, lang, rules.Language())
	}
	_, err := langs.For(parser.LangUnknown)
	assert.Error(t, err)
}

func TestFuncNameOfAnonymousNodes(t *testing.T) {
	tests := []struct {
		name   string
		lang   parser.Language
		source string
		want   []string
	}{
		{"python function", parser.LangPython, "def f():\n    pass\n", []string{"f"}},
		{"rust impl type", parser.LangRust, "struct S;\nimpl S {\n    fn m(&self) {}\n}\n", []string{"S", "m"}},
		{"typescript pair key", parser.LangTypeScript, "const o = { k: function() {} };\n", []string{"k"}},
		{"typescript callback", parser.LangTypeScript, "run(function() {});\n", []string{""}},
		{"go literal", parser.LangGo, "package p\n\nvar f = func() {}\n", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, rules := parse(t, tt.lang, tt.source)
			var names []string
			node.Walk(root, func(n node.Node) bool {
				kind := rules.SpaceKind(n)
				if kind == langs.SpaceUnknown || kind == langs.SpaceUnit {
					return true
				}
				name, found, valid := rules.FuncName(n, []byte(tt.source))
				if found != (name != "") || (found && !valid) {
					t.Errorf("FuncName() = %q, %v, %v", name, found, valid)
				}
				names = append(names, name)
				return true
			})
			assert.Equal(t, tt.want, names)
		})
	}
}
