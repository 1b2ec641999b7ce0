package spaces

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

// OpsSpace lists the distinct operators and operands of a scope, including
// those of its nested scopes.
type OpsSpace struct {
	Name      *string         `json:"name"`
	StartLine int             `json:"start_line"`
	EndLine   int             `json:"end_line"`
	Kind      langs.SpaceKind `json:"kind"`
	Spaces    []*OpsSpace     `json:"spaces"`
	Operators []string        `json:"operators"`
	Operands  []string        `json:"operands"`

	operators map[string]struct{}
	operands  map[string]struct{}
}

func (s *OpsSpace) merge(child *OpsSpace) {
	for k := range child.operators {
		s.operators[k] = struct{}{}
	}
	for k := range child.operands {
		s.operands[k] = struct{}{}
	}
}

func (s *OpsSpace) seal() {
	s.Operators = sortedKeys(s.operators)
	s.Operands = sortedKeys(s.operands)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Ops extracts the operators and operands of every scope of a tree.
func Ops(tree *sitter.Tree, lang parser.Language, source []byte, path string) (*OpsSpace, error) {
	rules, err := langs.For(lang)
	if err != nil {
		return nil, err
	}

	type pending struct {
		n     node.Node
		level int
	}
	var open []*OpsSpace
	finalize := func(count int) {
		for i := 0; i < count && len(open) > 0; i++ {
			last := len(open) - 1
			child := open[last]
			child.seal()
			if last == 0 {
				return
			}
			open = open[:last]
			parent := open[last-1]
			parent.merge(child)
			parent.Spaces = append(parent.Spaces, child)
		}
	}

	stack := []pending{{n: node.Root(tree, rules.Kinds())}}
	lastLevel := 0
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.level < lastLevel {
			finalize(lastLevel - e.level)
			lastLevel = e.level
		}

		level := e.level
		kind := rules.SpaceKind(e.n)
		if rules.IsFunc(e.n) || kind != langs.SpaceUnknown {
			fs := newFuncSpace(e.n, rules, source, kind)
			open = append(open, &OpsSpace{
				Name:      fs.Name,
				StartLine: fs.StartLine,
				EndLine:   fs.EndLine,
				Kind:      kind,
				Spaces:    []*OpsSpace{},
				operators: make(map[string]struct{}),
				operands:  make(map[string]struct{}),
			})
			lastLevel = e.level + 1
			level = lastLevel
		}

		if len(open) > 0 {
			top := open[len(open)-1]
			switch rules.OpType(e.n) {
			case langs.OpOperator:
				top.operators[rules.OperatorString(e.n.Kind())] = struct{}{}
			case langs.OpOperand:
				if text, ok := e.n.UTF8Text(source); ok {
					top.operands[text] = struct{}{}
				}
			}
		}

		children := e.n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, pending{n: children[i], level: level})
		}
	}

	finalize(len(open))
	if len(open) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSpace)
	}
	root := open[0]
	name := path
	root.Name = &name
	return root, nil
}

// DumpOps writes the ops tree with box drawing prefixes.
func DumpOps(w io.Writer, ops *OpsSpace) error {
	return dumpOpsSpace(w, ops, "", true)
}

func branch(last bool) (child, self string) {
	if last {
		return "   ", "`- "
	}
	return "|  ", "|- "
}

func dumpOpsSpace(w io.Writer, s *OpsSpace, prefix string, last bool) error {
	childPrefix, self := branch(last)
	blue := color.New(color.FgBlue)

	blue.Fprint(w, prefix+self)
	color.New(color.FgYellow, color.Bold).Fprintf(w, "%s: ", s.Kind)
	name := ""
	if s.Name != nil {
		name = *s.Name
	}
	color.New(color.FgCyan, color.Bold).Fprint(w, name)
	if _, err := color.New(color.FgRed, color.Bold).Fprintf(w, " (@%d)\n", s.StartLine); err != nil {
		return err
	}

	prefix += childPrefix
	noChildren := len(s.Spaces) == 0
	if err := dumpOpsValues(w, "operators", s.Operators, prefix, false); err != nil {
		return err
	}
	if err := dumpOpsValues(w, "operands", s.Operands, prefix, noChildren); err != nil {
		return err
	}
	for i, c := range s.Spaces {
		if err := dumpOpsSpace(w, c, prefix, i == len(s.Spaces)-1); err != nil {
			return err
		}
	}
	return nil
}

func dumpOpsValues(w io.Writer, title string, values []string, prefix string, last bool) error {
	childPrefix, self := branch(last)
	blue := color.New(color.FgBlue)

	blue.Fprint(w, prefix+self)
	if _, err := color.New(color.FgGreen, color.Bold).Fprintln(w, title); err != nil {
		return err
	}
	prefix += childPrefix
	for i, v := range values {
		_, mark := branch(i == len(values)-1)
		blue.Fprint(w, prefix+mark)
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
