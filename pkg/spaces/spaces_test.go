package spaces

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/metrics"
	"github.com/panbanda/mehen/pkg/parser"
)

func analyze(t *testing.T, lang parser.Language, src string) *FuncSpace {
	t.Helper()
	p := parser.New()
	defer p.Close()

	res, err := p.Parse([]byte(src), lang, "test")
	require.NoError(t, err)
	t.Cleanup(res.Close)

	space, err := FromParseResult(res, Options{})
	require.NoError(t, err)
	return space
}

func TestPythonEndToEnd(t *testing.T) {
	src := "def f(a, b):\n    if a and b:\n        return 1\n    if c and d:\n        return 1"
	root := analyze(t, parser.LangPython, src)

	require.Len(t, root.Spaces, 1)
	cyc := &root.Metrics.Cyclomatic
	assert.Equal(t, 6.0, cyc.Sum())
	assert.Equal(t, 3.0, cyc.Average())
	assert.Equal(t, 5.0, cyc.Max())
	require.NotNil(t, cyc.Min())
	assert.Equal(t, 1.0, *cyc.Min())

	fn := root.Spaces[0]
	assert.Equal(t, "f", fn.DisplayName())
	assert.Equal(t, langs.SpaceFunction, fn.Kind)
	assert.Equal(t, 5.0, fn.Metrics.Cyclomatic.Value())
	assert.Equal(t, 2.0, fn.Metrics.Exit.Sum())
}

func TestRootIsNamedAfterPath(t *testing.T) {
	root := analyze(t, parser.LangPython, "x = 1\n")
	if root.Name == nil || *root.Name != "test" {
		t.Errorf("root name = %v, want test", root.Name)
	}
	if root.Kind != langs.SpaceUnit {
		t.Errorf("root kind = %s, want unit", root.Kind)
	}
}

func TestLocBlankAccounting(t *testing.T) {
	root := analyze(t, parser.LangPython, "a = 1\n\nb = 2\n")
	loc := &root.Metrics.Loc

	if got := loc.SLOC(); got != 3 {
		t.Errorf("sloc = %v, want 3", got)
	}
	if got := loc.PLOC(); got != 2 {
		t.Errorf("ploc = %v, want 2", got)
	}
	if got := loc.Blank(); got != 1 {
		t.Errorf("blank = %v, want 1", got)
	}
	if got := loc.LLOC(); got != 2 {
		t.Errorf("lloc = %v, want 2", got)
	}
}

func TestCommentLines(t *testing.T) {
	src := "# header\na = 1  # trailing\n\nb = 2\n"
	root := analyze(t, parser.LangPython, src)
	loc := &root.Metrics.Loc

	assert.Equal(t, 2.0, loc.CLOC())
	assert.Equal(t, 2.0, loc.PLOC())
	assert.Equal(t, 1.0, loc.Blank())
}

func TestAnonymousFunctionTakesDeclaratorName(t *testing.T) {
	root := analyze(t, parser.LangTypeScript, "const f = function() {}\n")

	var names []string
	root.Walk(func(s *FuncSpace) {
		if s.Kind == langs.SpaceFunction {
			names = append(names, s.DisplayName())
		}
	})
	assert.Equal(t, []string{"f"}, names)
}

func TestWMCScoping(t *testing.T) {
	src := `class A:
    def m(self):
        if x:
            pass

def g():
    def h():
        if y:
            pass
`
	root := analyze(t, parser.LangPython, src)
	require.Len(t, root.Spaces, 2)

	class := root.Spaces[0]
	assert.Equal(t, langs.SpaceClass, class.Kind)
	assert.Equal(t, 2.0, class.Metrics.WMC.Classes())
	assert.Equal(t, 2.0, root.Metrics.WMC.Classes())
	assert.Equal(t, 2.0, root.Metrics.WMC.Total())

	fn := root.Spaces[1]
	assert.False(t, fn.Metrics.WMCEnabled())

	data, err := json.Marshal(fn.Metrics)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"wmc"`)
	assert.NotContains(t, string(data), `"npa"`)
}

func TestCyclomaticBaseCase(t *testing.T) {
	root := analyze(t, parser.LangPython, "x = 1\n")
	if got := root.Metrics.Cyclomatic.Value(); got != 1 {
		t.Errorf("cyclomatic = %v, want 1", got)
	}
}

func TestHalsteadDegenerate(t *testing.T) {
	root := analyze(t, parser.LangPython, "pass\n")
	h := &root.Metrics.Halstead

	assert.Equal(t, 1.0, h.Length())
	assert.Equal(t, 1.0, h.Vocabulary())
	assert.Nil(t, h.Volume())
	assert.Nil(t, h.Difficulty())
	assert.Nil(t, h.Effort())
	assert.Nil(t, h.Bugs())

	data, err := json.Marshal(root.Metrics.Halstead)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"volume":null`)
	assert.NotContains(t, string(data), "NaN")
}

func TestHalsteadFunction(t *testing.T) {
	root := analyze(t, parser.LangPython, "def f():\n    pass\n")
	require.Len(t, root.Spaces, 1)
	h := &root.Spaces[0].Metrics.Halstead

	assert.Equal(t, 2.0, h.UniqueOperators())
	assert.Equal(t, 2.0, h.Operators())
	assert.Equal(t, 1.0, h.UniqueOperands())
	assert.Equal(t, 1.0, h.Operands())
}

func TestNomCountsFunctionsAndClosures(t *testing.T) {
	src := `def a():
    pass

def b():
    pass

class C:
    def c(self):
        pass

x = lambda: 1
`
	root := analyze(t, parser.LangPython, src)
	nom := &root.Metrics.Nom

	assert.Equal(t, 3.0, nom.Functions())
	assert.Equal(t, 1.0, nom.Closures())
	assert.Equal(t, 4.0, nom.Total())
}

func TestCognitiveNesting(t *testing.T) {
	src := `def f(a):
    if a:
        for x in a:
            pass
`
	root := analyze(t, parser.LangPython, src)
	require.Len(t, root.Spaces, 1)

	assert.Equal(t, 3.0, root.Spaces[0].Metrics.Cognitive.Value())
	avg := root.Metrics.Cognitive.Average()
	require.NotNil(t, avg)
	assert.Equal(t, 3.0, *avg)
}

func TestGoFunction(t *testing.T) {
	src := `package main

func f(a int) int {
	if a > 0 && a < 10 {
		return 1
	}
	return 0
}
`
	root := analyze(t, parser.LangGo, src)
	require.Len(t, root.Spaces, 1)
	fn := root.Spaces[0]

	assert.Equal(t, "f", fn.DisplayName())
	assert.Equal(t, 3.0, fn.Metrics.Cyclomatic.Value())
	assert.Equal(t, 2.0, fn.Metrics.Exit.Sum())
	assert.Equal(t, 1.0, fn.Metrics.NArgs.Total())
	assert.Equal(t, 3, fn.StartLine)
	assert.Equal(t, 8, fn.EndLine)
}

func TestRustFunction(t *testing.T) {
	src := `fn main() {
    if true && false {
        return;
    }
}
`
	root := analyze(t, parser.LangRust, src)
	require.Len(t, root.Spaces, 1)
	fn := root.Spaces[0]

	assert.Equal(t, "main", fn.DisplayName())
	assert.Equal(t, 3.0, fn.Metrics.Cyclomatic.Value())
	assert.Equal(t, 1.0, fn.Metrics.Exit.Sum())
}

func TestSumInvariant(t *testing.T) {
	src := `class A:
    def m(self, x):
        if x:
            return lambda y: y or x
        return None

def g(a):
    while a:
        a -= 1
    def h():
        return 2
    return h
`
	root := analyze(t, parser.LangPython, src)

	root.Walk(func(s *FuncSpace) {
		m := &s.Metrics
		cyc, exit, nom := m.Cyclomatic.Value(), m.Exit.Value(), 0.0
		for _, c := range s.Spaces {
			cyc += c.Metrics.Cyclomatic.Sum()
			exit += c.Metrics.Exit.Sum()
			nom += c.Metrics.Nom.Total()
		}
		assert.Equal(t, cyc, m.Cyclomatic.Sum(), "cyclomatic of %s", s.DisplayName())
		assert.Equal(t, exit, m.Exit.Sum(), "exit of %s", s.DisplayName())
		assert.GreaterOrEqual(t, m.Nom.Total(), nom, "nom of %s", s.DisplayName())
		assert.LessOrEqual(t, m.Cyclomatic.Max(), m.Cyclomatic.Sum())
	})
}

func TestIdempotent(t *testing.T) {
	src := "def f(a):\n    if a:\n        return 1\n    return 2\n"

	first, err := json.Marshal(analyze(t, parser.LangPython, src))
	require.NoError(t, err)
	second, err := json.Marshal(analyze(t, parser.LangPython, src))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestJSONShape(t *testing.T) {
	root := analyze(t, parser.LangPython, "class A:\n    x = 1\n    def _m(self):\n        pass\n")
	data, err := json.Marshal(root)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "unit", doc["kind"])
	m := doc["metrics"].(map[string]any)
	for _, key := range []string{"nargs", "nexits", "cognitive", "cyclomatic", "halstead", "loc", "nom", "mi", "abc", "wmc", "npm", "npa"} {
		assert.Contains(t, m, key)
	}

	order := []string{`"nargs"`, `"nexits"`, `"cognitive"`, `"cyclomatic"`, `"halstead"`, `"loc"`, `"nom"`, `"mi"`, `"abc"`, `"wmc"`, `"npm"`, `"npa"`}
	metricsJSON, err := json.Marshal(root.Metrics)
	require.NoError(t, err)
	last := -1
	for _, key := range order {
		idx := strings.Index(string(metricsJSON), key)
		assert.Greater(t, idx, last, "key %s out of order", key)
		last = idx
	}
}

func TestMembers(t *testing.T) {
	src := `class A:
    x = 1
    _y = 2
    def m(self):
        pass
    def _n(self):
        pass
`
	root := analyze(t, parser.LangPython, src)
	require.Len(t, root.Spaces, 1)
	class := root.Spaces[0]

	assert.Equal(t, 1.0, class.Metrics.NPA.Total())
	assert.Equal(t, 1.0, class.Metrics.NPM.Total())
	assert.Equal(t, 1.0, root.Metrics.NPM.Total())
}

func TestMetricsRejectsUnknownLanguage(t *testing.T) {
	_, err := Metrics(nil, parser.LangUnknown, nil, "x", Options{})
	if err == nil {
		t.Fatal("expected error for unknown language")
	}
}

func TestFunctionSpans(t *testing.T) {
	src := "package main\n\nfunc a() {}\n\nfunc b() {\n}\n"
	p := parser.New()
	defer p.Close()
	res, err := p.Parse([]byte(src), parser.LangGo, "main.go")
	require.NoError(t, err)
	defer res.Close()

	spans, err := FunctionSpans(res.Tree, res.Language, res.Source)
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, FunctionSpan{Name: "a", StartLine: 3, EndLine: 3}, spans[0])
	assert.Equal(t, FunctionSpan{Name: "b", StartLine: 5, EndLine: 6}, spans[1])

	var buf bytes.Buffer
	require.NoError(t, DumpSpans(&buf, "main.go", spans))
	out := buf.String()
	assert.Contains(t, out, "In file main.go")
	assert.Contains(t, out, "b: ")
	assert.Contains(t, out, "6.")
}

func TestOps(t *testing.T) {
	src := "a = b + 1\n"
	p := parser.New()
	defer p.Close()
	res, err := p.Parse([]byte(src), parser.LangPython, "ops.py")
	require.NoError(t, err)
	defer res.Close()

	ops, err := Ops(res.Tree, res.Language, res.Source, res.Path)
	require.NoError(t, err)
	assert.Equal(t, []string{"+", "="}, ops.Operators)
	assert.Equal(t, []string{"1", "a", "b"}, ops.Operands)

	var buf bytes.Buffer
	require.NoError(t, DumpOps(&buf, ops))
	assert.Contains(t, buf.String(), "operators")
	assert.Contains(t, buf.String(), "ops.py")
}

func TestMetricsValueOfNull(t *testing.T) {
	root := analyze(t, parser.LangPython, "pass\n")
	if v := metrics.Value(root.Metrics.Halstead.Volume()); v == v {
		t.Errorf("expected NaN for a null volume, got %v", v)
	}
}

func TestPythonElseBranches(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{"for else", "for x in y:\n    pass\nelse:\n    pass\n", 3},
		{"while else", "while x:\n    pass\nelse:\n    pass\n", 3},
		{"if else", "if x:\n    pass\nelse:\n    pass\n", 2},
		{"try else", "try:\n    pass\nexcept E:\n    pass\nelse:\n    pass\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := analyze(t, parser.LangPython, tt.source)
			if got := root.Metrics.Cyclomatic.Sum(); got != tt.want {
				t.Errorf("cyclomatic sum = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHalsteadDropsInvalidOperands(t *testing.T) {
	valid := analyze(t, parser.LangPython, "x = \"a\"\n")
	assert.Equal(t, 2.0, valid.Metrics.Halstead.UniqueOperands())

	invalid := analyze(t, parser.LangPython, "x = \"\xff\"\n")
	assert.Equal(t, 1.0, invalid.Metrics.Halstead.UniqueOperands())
	assert.Equal(t, 1.0, invalid.Metrics.Halstead.Operands())
}

func TestInterfaceMethodRatio(t *testing.T) {
	src := "interface I {\n  a(): void;\n  b(): void;\n}\n\nclass C {\n  a() {}\n  private b() {}\n}\n"
	root := analyze(t, parser.LangTypeScript, src)

	raw, err := json.Marshal(root.Metrics.NPM)
	require.NoError(t, err)
	var npm map[string]*float64
	require.NoError(t, json.Unmarshal(raw, &npm))

	require.NotNil(t, npm["interfaces_average"])
	assert.Equal(t, 1.0, *npm["interfaces_average"])
	require.NotNil(t, npm["classes_average"])
	assert.Equal(t, 0.5, *npm["classes_average"])
	assert.Equal(t, 3.0, *npm["total"])
	assert.Equal(t, 4.0, *npm["total_methods"])
}

func TestAnonymousScopeHasNoName(t *testing.T) {
	root := analyze(t, parser.LangTypeScript, "[1].map(x => x);\n")

	var anon []*FuncSpace
	root.Walk(func(s *FuncSpace) {
		if s.Kind == langs.SpaceFunction {
			anon = append(anon, s)
		}
	})
	require.Len(t, anon, 1)
	assert.Nil(t, anon[0].Name)
	assert.Equal(t, langs.AnonymousName, anon[0].DisplayName())

	raw, err := json.Marshal(anon[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":null`)
}

func TestFunctionSpansOfAnonymousFunctions(t *testing.T) {
	src := "run(function() {});\n"
	p := parser.New()
	defer p.Close()
	res, err := p.Parse([]byte(src), parser.LangTypeScript, "a.ts")
	require.NoError(t, err)
	defer res.Close()

	spans, err := FunctionSpans(res.Tree, res.Language, res.Source)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, FunctionSpan{Name: langs.AnonymousName, StartLine: 1, EndLine: 1}, spans[0])
}
