package newick

import (
	"errors"
	"io"
	"strings"

	"github.com/manpen/pace26io/diag"
)

// Parser reads trees from Newick formatted input, driving a Builder to
// construct them. Diagnostics are accumulated in the bag handed to
// NewParser; a fatal diagnostic aborts the current tree and is also
// returned as the error.
type Parser[N any] struct {
	lx  *lexer
	b   Builder[N]
	bag *diag.Bag
}

// NewParser returns a parser ready for reading trees from r.
func NewParser[N any](r io.Reader, b Builder[N], bag *diag.Bag) *Parser[N] {
	return newParserAt(r, b, bag, 1)
}

func newParserAt[N any](r io.Reader, b Builder[N], bag *diag.Bag, line int) *Parser[N] {
	return &Parser[N]{lx: lex(r, bag, line), b: b, bag: bag}
}

// ReadAll returns all trees in the source input. The first fatal error
// aborts processing and is returned with no trees; it is never io.EOF.
func (p *Parser[N]) ReadAll() ([]N, error) {
	trees := make([]N, 0)
	for {
		tree, err := p.ReadTree()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// ReadTree reads a single ';'-terminated tree from the source input. If
// the end of the input is reached before any tree content, io.EOF is
// returned.
func (p *Parser[N]) ReadTree() (root N, err error) {
	var zero N

	first := p.lx.nextItem()
	if first.typ == itemEOF {
		return zero, io.EOF
	}

	// Open scopes, innermost last. The stack lives on the heap, so
	// nesting depth is bounded by memory, not by the call stack.
	type scope struct {
		h        Handle
		children int
		pos      diag.Pos
	}
	var stack []scope

	var last N
	var haveLast bool
	justClosed := false

	attach := func(n N, pos diag.Pos) error {
		if len(stack) == 0 {
			// the grammar admits exactly one top-level subtree per tree
			if haveLast {
				return p.bag.Errorf(diag.Syntax, pos, "unexpected second top-level subtree")
			}
			last = n
			haveLast = true
			return nil
		}
		top := &stack[len(stack)-1]
		if err := p.b.AddChild(top.h, n); err != nil {
			return p.builderErr(pos, err)
		}
		top.children++
		return nil
	}

	for it := first; ; it = p.lx.nextItem() {
		switch it.typ {
		case itemError:
			return zero, p.bag.Errorf(diag.Syntax, it.pos, "%s", it.msg)

		case itemEOF:
			return zero, p.bag.Errorf(diag.Structure, it.pos,
				"unexpected end of input: missing '%c'", terminal)

		case itemDescendentsStart:
			stack = append(stack, scope{h: p.b.BeginInternal(), pos: it.pos})

		case itemDescendentsEnd:
			// Closing a scope that was never opened can never be recovered
			// from, regardless of mode.
			if len(stack) == 0 {
				return zero, p.bag.Errorf(diag.Syntax, it.pos, "unbalanced '%c'", descEnd)
			}
			justClosed = true

		case itemSubtree:
			if justClosed {
				justClosed = false
				sc := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if sc.children < 2 {
					p.bag.Warnf(diag.Structure, sc.pos,
						"internal node has %d children", sc.children)
				}
				n, err := p.b.EndInternal(sc.h, it.label, it.length)
				if err != nil {
					return zero, p.builderErr(it.pos, err)
				}
				if err := attach(n, it.pos); err != nil {
					return zero, err
				}
				break
			}
			if it.label == "" && !it.quoted {
				return zero, p.bag.Errorf(diag.Syntax, it.pos, "empty leaf label")
			}
			n, err := p.b.MakeLeaf(it.label, it.length)
			if err != nil {
				return zero, p.builderErr(it.pos, err)
			}
			if err := attach(n, it.pos); err != nil {
				return zero, err
			}

		case itemTerminal:
			if n := len(stack); n != 0 {
				return zero, p.bag.Errorf(diag.Syntax, it.pos,
					"unbalanced '%c': %d subtrees left open", descStart, n)
			}
			if !haveLast {
				return zero, p.bag.Errorf(diag.Syntax, it.pos, "empty tree")
			}
			root, err := p.b.FinishTree(last)
			if err != nil {
				return zero, p.builderErr(it.pos, err)
			}
			return root, nil
		}
	}
}

func (p *Parser[N]) builderErr(pos diag.Pos, err error) error {
	kind := diag.Builder
	if errors.Is(err, ErrProtocol) {
		kind = diag.Protocol
	}
	return p.bag.Errorf(kind, pos, "%s", err)
}

// ParseString reads exactly one tree from s. Content after the
// terminator is a pedantic warning, never consumed.
func ParseString[N any](s string, b Builder[N], bag *diag.Bag) (N, error) {
	return ParseStringAt(s, b, bag, 1)
}

// ParseStringAt is ParseString with positions reported relative to the
// given source line, for callers that extract tree text from a larger
// stream.
func ParseStringAt[N any](s string, b Builder[N], bag *diag.Bag, line int) (N, error) {
	p := newParserAt(strings.NewReader(s), b, bag, line)
	root, err := p.ReadTree()
	if err != nil {
		var zero N
		return zero, err
	}
	if it := p.lx.nextItem(); it.typ != itemEOF {
		bag.Warnf(diag.Syntax, it.pos, "trailing data after '%c'", terminal)
	}
	return root, nil
}
