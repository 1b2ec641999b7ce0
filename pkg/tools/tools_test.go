package tools

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/fatih/color"
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

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestDump(t *testing.T) {
	noColor(t)
	src := "x = 1\n"
	root, _ := parse(t, parser.LangPython, src)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, root, []byte(src), DumpOptions{}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)

	patterns := []string{
		`^\{module:\d+\} from \(1, 1\) to `,
		`^╮─ \{expression_statement:\d+\} from \(1, 1\) to \(1, 6\) : x = 1 $`,
		`^   ╮─ \{assignment:\d+\} from \(1, 1\) to \(1, 6\) : x = 1 $`,
		`^      ├─ \{identifier:\d+\} from \(1, 1\) to \(1, 2\) : x $`,
		`^      ├─ \{=:\d+\} from \(1, 3\) to \(1, 4\) : = $`,
		`^      ╮─ \{integer:\d+\} from \(1, 5\) to \(1, 6\) : 1 $`,
	}
	for i, p := range patterns {
		assert.Regexp(t, regexp.MustCompile(p), lines[i])
	}
}

func TestDumpDepthAndLines(t *testing.T) {
	noColor(t)
	src := "a = 1\nb = 2\nc = 3\n"
	root, _ := parse(t, parser.LangPython, src)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, root, []byte(src), DumpOptions{Depth: 2}))
	assert.Equal(t, 4, strings.Count(buf.String(), "\n"))

	buf.Reset()
	require.NoError(t, Dump(&buf, root, []byte(src), DumpOptions{LineStart: 2, LineEnd: 2}))
	out := buf.String()
	assert.Contains(t, out, ": b = 2 ")
	assert.NotContains(t, out, ": a = 1 ")
	assert.NotContains(t, out, ": c = 3 ")
	assert.NotContains(t, out, "{module:")
}

func TestFind(t *testing.T) {
	src := "def f():\n    g(1)\n\ndef h():\n    return lambda: 2\n"
	root, rules := parse(t, parser.LangPython, src)

	funcs := Find(root, NewFilter("function", rules))
	require.Len(t, funcs, 2)
	assert.Equal(t, 1, funcs[0].StartRow()+1)
	assert.Equal(t, 4, funcs[1].StartRow()+1)

	assert.Len(t, Find(root, NewFilter("call", rules)), 1)
	assert.Len(t, Find(root, NewFilter("closure", rules)), 1)
	assert.Len(t, Find(root, NewFilter("integer", rules)), 2)
	assert.Len(t, Find(root, NewFilters([]string{"integer", " call "}, rules)), 3)
	assert.Empty(t, Find(root, NewFilter("error", rules)))

	ident := Find(root, NewFilter("identifier", rules))[0]
	bySymbol := Find(root, NewFilter(strconv.Itoa(int(ident.Symbol())), rules))
	assert.NotEmpty(t, bySymbol)
	for _, n := range bySymbol {
		assert.Equal(t, "identifier", n.Type())
	}
}

func TestFindStrings(t *testing.T) {
	src := "let a = \"x\";\nlet b = `y`;\n"
	root, rules := parse(t, parser.LangTypeScript, src)
	strs := Find(root, NewFilter("string", rules))
	require.Len(t, strs, 2)
	assert.Equal(t, "string", strs[0].Type())
	assert.Equal(t, "template_string", strs[1].Type())
}

func TestCount(t *testing.T) {
	src := "# one\nx = 1  # two\n"
	root, rules := parse(t, parser.LangPython, src)

	c := CountNodes(root, NewFilter("comment", rules))
	assert.Equal(t, 2, c.Found)
	assert.Greater(t, c.Total, c.Found)

	all := CountNodes(root, NewFilter("all", rules))
	assert.Equal(t, all.Total, all.Found)
	assert.Equal(t, 100.0, all.Percentage())

	c.Merge(Count{Found: 1, Total: 1})
	assert.Equal(t, 3, c.Found)

	assert.Equal(t, "Total nodes: 4\nFound nodes: 1\nPercentage: 25.00%", Count{Found: 1, Total: 4}.String())
	assert.Equal(t, 0.0, Count{}.Percentage())
}

func TestRemoveCommentsPython(t *testing.T) {
	src := "# -*- coding: utf-8 -*-\n" +
		"\"\"\"Module doc.\"\"\"\n" +
		"x = 1  # trailing\n" +
		"def f():\n" +
		"    \"\"\"Doc\n" +
		"    string.\"\"\"\n" +
		"    # inner\n" +
		"    y = \"kept\"\n" +
		"    return x\n"
	root, rules := parse(t, parser.LangPython, src)

	out, changed := RemoveComments(root, []byte(src), rules)
	require.True(t, changed)

	want := "# -*- coding: utf-8 -*-\n" +
		"\n" +
		"x = 1  \n" +
		"def f():\n" +
		"    \n" +
		"\n" +
		"    \n" +
		"    y = \"kept\"\n" +
		"    return x\n"
	assert.Equal(t, want, string(out))
	assert.Equal(t, strings.Count(src, "\n"), strings.Count(string(out), "\n"))
}

func TestRemoveCommentsTypeScript(t *testing.T) {
	src := "// a\nlet x = 1; /* b\n c */\nlet y = 2;\n"
	root, rules := parse(t, parser.LangTypeScript, src)

	out, changed := RemoveComments(root, []byte(src), rules)
	require.True(t, changed)
	assert.Equal(t, "\nlet x = 1; \n\nlet y = 2;\n", string(out))
}

func TestRemoveCommentsNone(t *testing.T) {
	src := "fn main() {}\n"
	root, rules := parse(t, parser.LangRust, src)

	out, changed := RemoveComments(root, []byte(src), rules)
	assert.False(t, changed)
	assert.Equal(t, src, string(out))
}

func TestWriteLineDiff(t *testing.T) {
	noColor(t)
	before := "a = 1  # one\nb = 2\nc = 3  # three\n"
	after := "a = 1  \nb = 2\nc = 3  \n"

	var buf bytes.Buffer
	require.NoError(t, WriteLineDiff(&buf, []byte(before), []byte(after)))
	want := "-   1 a = 1  # one\n" +
		"+   1 a = 1  \n" +
		"-   3 c = 3  # three\n" +
		"+   3 c = 3  \n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, WriteLineDiff(&buf, []byte(after), []byte(after)))
	assert.Empty(t, buf.String())
}
