package pace

import (
	"io"

	"github.com/manpen/pace26io/diag"
	"github.com/manpen/pace26io/newick"
)

// Instance is the forest read from one container, in input order, plus
// the parameters the container declared.
type Instance[N any] struct {
	// NumTrees and NumLeaves as declared by the '#p' header.
	NumTrees  int
	NumLeaves int

	// Trees holds one root per tree line, in order of appearance.
	Trees []N

	// TreeDecomposition is non-nil if the instance carried an
	// '#x treedecomp' parameter.
	TreeDecomposition *TreeDecomposition
}

// ReadInstance reads a whole container from src, building every tree
// with b. Each tree is parsed with the builder's scope state freshly
// reset (FinishTree guarantees this), so a single builder serves the
// whole forest.
//
// The returned bag holds all diagnostics in emission order, subject to
// the mode's filter. Any fatal error aborts the read: no partial
// instance is ever returned alongside an error. In particular, a
// declared tree count that differs from the observed one is fatal,
// since forest integrity cannot be partially trusted.
func ReadInstance[N any](src io.Reader, b newick.Builder[N], mode diag.Mode) (*Instance[N], *diag.Bag, error) {
	bag := diag.NewBag(mode)
	a := &assembler[N]{builder: b, bag: bag, inst: &Instance[N]{}}

	if err := NewReader(a).Read(src); err != nil {
		if d, ok := err.(*diag.Diagnostic); ok {
			bag.Add(*d)
		}
		return nil, bag, err
	}
	if a.err != nil {
		return nil, bag, a.err
	}
	if a.headerLine == 0 {
		return nil, bag, bag.Errorf(diag.Structure, diag.Pos{}, "missing '#p' header")
	}
	if got := len(a.inst.Trees); got != a.inst.NumTrees {
		return nil, bag, bag.Errorf(diag.Structure, diag.Pos{Line: a.lastLine},
			"instance declares %d trees, found %d", a.inst.NumTrees, got)
	}
	return a.inst, bag, nil
}

type assembler[N any] struct {
	NopVisitor
	builder    newick.Builder[N]
	bag        *diag.Bag
	inst       *Instance[N]
	headerLine int
	lastLine   int
	err        error
}

func (a *assembler[N]) VisitHeader(line, numTrees, numLeaves int) Action {
	a.lastLine = line
	if numLeaves == 0 {
		a.err = a.bag.Errorf(diag.Structure, diag.Pos{Line: line}, "header declares no leaves")
		return Terminate
	}
	a.headerLine = line
	a.inst.NumTrees = numTrees
	a.inst.NumLeaves = numLeaves
	return Continue
}

func (a *assembler[N]) VisitTree(line int, text string) Action {
	a.lastLine = line
	if a.headerLine == 0 {
		a.err = a.bag.Errorf(diag.Structure, diag.Pos{Line: line}, "tree before '#p' header")
		return Terminate
	}
	root, err := newick.ParseStringAt(text, a.builder, a.bag, line)
	if err != nil {
		a.err = err
		return Terminate
	}
	a.inst.Trees = append(a.inst.Trees, root)
	return Continue
}

func (a *assembler[N]) VisitExtraWhitespace(line int, text string) Action {
	a.bag.Warnf(diag.Syntax, diag.Pos{Line: line}, "line has extra whitespace")
	return Continue
}

func (a *assembler[N]) VisitUnknownHashLine(line int, text string) Action {
	a.bag.Warnf(diag.Syntax, diag.Pos{Line: line}, "unrecognized '#' line")
	return Continue
}

func (a *assembler[N]) VisitUnknownLine(line int, text string) Action {
	a.err = a.bag.Errorf(diag.Syntax, diag.Pos{Line: line}, "unrecognized line %q", text)
	return Terminate
}

func (a *assembler[N]) VisitTreeDecomposition(line int, td *TreeDecomposition) Action {
	a.lastLine = line
	a.inst.TreeDecomposition = td
	return Continue
}
