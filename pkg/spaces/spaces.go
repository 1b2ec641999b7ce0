// Package spaces builds the tree of nested scopes of a source file and
// attaches the metrics of every scope to it.
package spaces

import (
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/mehen/pkg/langs"
	"github.com/panbanda/mehen/pkg/metrics"
	"github.com/panbanda/mehen/pkg/node"
	"github.com/panbanda/mehen/pkg/parser"
)

// ErrNoSpace is returned when the root of a tree opens no scope.
var ErrNoSpace = errors.New("no space at the root of the tree")

// FuncSpace is one scope of a file with its metrics and nested scopes.
type FuncSpace struct {
	// Name is nil for anonymous scopes and for names that are not valid
	// UTF-8.
	Name      *string         `json:"name"`
	StartLine int             `json:"start_line"`
	EndLine   int             `json:"end_line"`
	Kind      langs.SpaceKind `json:"kind"`
	Spaces    []*FuncSpace    `json:"spaces"`
	Metrics   CodeMetrics     `json:"metrics"`
}

// DisplayName renders Name, substituting the anonymous marker for nil.
func (s *FuncSpace) DisplayName() string {
	if s.Name == nil {
		return langs.AnonymousName
	}
	return *s.Name
}

// Walk visits s and every nested space in pre-order.
func (s *FuncSpace) Walk(visit func(*FuncSpace)) {
	visit(s)
	for _, c := range s.Spaces {
		c.Walk(visit)
	}
}

// Options carries per-file settings for the builder.
type Options struct {
	// Preproc holds preprocessor data for languages with macros. None of the
	// supported languages consult it.
	Preproc any
}

func newFuncSpace(n node.Node, rules langs.Rules, source []byte, kind langs.SpaceKind) *FuncSpace {
	var name *string
	if text, found, valid := rules.FuncName(n, source); found && valid {
		name = &text
	}
	start, end := n.StartRow()+1, n.EndRow()+1
	if kind == langs.SpaceUnit {
		if n.ChildCount() == 0 {
			start, end = 0, 0
		} else {
			end = n.EndRow()
		}
	}
	return &FuncSpace{
		Name:      name,
		StartLine: start,
		EndLine:   end,
		Kind:      kind,
		Spaces:    []*FuncSpace{},
		Metrics:   NewCodeMetrics(kind),
	}
}

// frame is an open scope on the builder stack.
type frame struct {
	space    *FuncSpace
	halstead metrics.HalsteadMaps
}

// seal computes the derived values of a frame whose subtree is complete.
func (f *frame) seal() {
	m := &f.space.Metrics
	m.ComputeMinMax()
	m.ComputeSum()
	f.refresh()

	nom := &m.Nom
	total := int(nom.Total())
	m.Cognitive.Finalize(total)
	m.Exit.Finalize(total)
	m.NArgs.Finalize(int(nom.Functions()), int(nom.Closures()))
}

// refresh recomputes the values derived from merged data.
func (f *frame) refresh() {
	m := &f.space.Metrics
	f.halstead.Finalize(&m.Halstead)
	m.MI.Compute(&m.Loc, &m.Cyclomatic, &m.Halstead)
	m.WMC.Compute(f.space.Kind, &m.Cyclomatic)
}

// entry is a pending node of the depth-first walk.
type entry struct {
	n       node.Node
	level   int
	nesting int
	inFunc  bool
}

type builder struct {
	frames []*frame
}

// finalize seals up to count frames, merging each into its parent. The root
// frame is sealed but never popped.
func (b *builder) finalize(count int) {
	for i := 0; i < count && len(b.frames) > 0; i++ {
		last := len(b.frames) - 1
		child := b.frames[last]
		if last == 0 {
			child.seal()
			return
		}
		b.frames = b.frames[:last]
		child.seal()

		parent := b.frames[last-1]
		parent.halstead.Merge(&child.halstead)
		parent.refresh()
		parent.space.Metrics.Merge(&child.space.Metrics)
		parent.space.Spaces = append(parent.space.Spaces, child.space)
	}
}

// Metrics walks a parsed tree and returns its root space, named after path.
func Metrics(tree *sitter.Tree, lang parser.Language, source []byte, path string, opts Options) (*FuncSpace, error) {
	rules, err := langs.For(lang)
	if err != nil {
		return nil, err
	}

	b := &builder{}
	stack := []entry{{n: node.Root(tree, rules.Kinds())}}
	lastLevel := 0

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e.level < lastLevel {
			b.finalize(lastLevel - e.level)
			lastLevel = e.level
		}

		kind := rules.SpaceKind(e.n)
		opens := rules.IsFunc(e.n) || kind != langs.SpaceUnknown
		level := e.level
		if opens {
			b.frames = append(b.frames, &frame{
				space:    newFuncSpace(e.n, rules, source, kind),
				halstead: metrics.NewHalsteadMaps(),
			})
			lastLevel = e.level + 1
			level = lastLevel
		}

		cog := rules.Cognitive(e.n)
		if len(b.frames) > 0 {
			top := b.frames[len(b.frames)-1]
			v := metrics.Visit{
				Node:      e.n,
				Rules:     rules,
				Source:    source,
				Opens:     opens,
				Kind:      top.space.Kind,
				Nesting:   e.nesting,
				Cognitive: cog,
			}
			top.space.Metrics.Compute(&v)
			top.halstead.Compute(&v)
		}

		nesting, inFunc := childNesting(cog, e.nesting, e.inFunc)
		children := e.n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{n: children[i], level: level, nesting: nesting, inFunc: inFunc})
		}
	}

	b.finalize(len(b.frames))
	if len(b.frames) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSpace)
	}
	root := b.frames[0].space
	name := path
	root.Name = &name
	return root, nil
}

// FromParseResult runs Metrics over a parse result.
func FromParseResult(res *parser.ParseResult, opts Options) (*FuncSpace, error) {
	return Metrics(res.Tree, res.Language, res.Source, res.Path, opts)
}

// childNesting returns the cognitive nesting state handed to the children
// of a node with the given cognitive class.
func childNesting(cog langs.CognitiveClass, nesting int, inFunc bool) (int, bool) {
	switch cog {
	case langs.CogNesting:
		return nesting + 1, inFunc
	case langs.CogFunction:
		if inFunc {
			return nesting + 1, true
		}
		return 0, true
	}
	return nesting, inFunc
}
