package newick

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/manpen/pace26io/diag"
)

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemTerminal
	itemDescendentsStart
	itemDescendentsEnd
	itemSubtree
)

const (
	eof       = rune(0)
	terminal  = ';'
	descDelim = ','
	descStart = '('
	descEnd   = ')'
	quoteRune = '\''
	lengthSep = ':'
)

// Characters that may not appear in an unquoted label.
const bareBanned = "()[]':;,"

type item struct {
	typ    itemType
	label  string
	quoted bool
	length *float64
	pos    diag.Pos
	msg    string
}

type stateFn func(lx *lexer) stateFn

type lexer struct {
	input *bufio.Reader
	bag   *diag.Bag
	state stateFn
	items chan item

	pos   diag.Pos // position of the next rune
	prev  diag.Pos // position of the last consumed rune
	atEOF bool

	itemPos diag.Pos // start of the annotation being scanned
	label   strings.Builder
	quoted  bool
}

func lex(input io.Reader, bag *diag.Bag, startLine int) *lexer {
	return &lexer{
		input: bufio.NewReader(input),
		bag:   bag,
		state: lexTree,
		items: make(chan item, 10),
		pos:   diag.Pos{Line: startLine, Col: 1},
	}
}

func (lx *lexer) nextItem() item {
	for {
		select {
		case it := <-lx.items:
			return it
		default:
			if lx.state == nil {
				return item{typ: itemEOF, pos: lx.pos}
			}
			lx.state = lx.state(lx)
		}
	}
}

func (lx *lexer) next() (r rune) {
	r, _, err := lx.input.ReadRune()
	if err != nil {
		lx.atEOF = true
		return eof
	}
	lx.atEOF = false
	lx.prev = lx.pos
	lx.pos.Offset += utf8.RuneLen(r)
	if r == '\n' {
		lx.pos.Line++
		lx.pos.Col = 1
	} else {
		lx.pos.Col++
	}
	return r
}

// backup steps back one rune. Can be called only once per call of next.
func (lx *lexer) backup() {
	if lx.atEOF {
		return
	}
	_ = lx.input.UnreadRune()
	lx.pos = lx.prev
}

func (lx *lexer) emit(typ itemType) {
	lx.items <- item{typ: typ, pos: lx.prev}
}

// emitSubtree emits the label/length annotation of a finished subtree,
// which may be entirely empty.
func (lx *lexer) emitSubtree(length *float64) {
	lx.items <- item{
		typ:    itemSubtree,
		label:  lx.label.String(),
		quoted: lx.quoted,
		length: length,
		pos:    lx.itemPos,
	}
	lx.label.Reset()
	lx.quoted = false
}

// errorf stops all lexing by emitting an error item and returning nil.
// Callers pass offending runes through escapeSpecial.
func (lx *lexer) errorf(pos diag.Pos, format string, values ...any) stateFn {
	lx.items <- item{typ: itemError, pos: pos, msg: fmt.Sprintf(format, values...)}
	return nil
}

// skipSpace consumes a run of whitespace. Inside a tree any whitespace
// is a deviation from the canonical grammar and recorded as a warning;
// the bag's mode decides whether it is kept.
func (lx *lexer) skipSpace(warn bool) {
	start := lx.prev
	for isSpace(lx.next()) {
	}
	lx.backup()
	if warn {
		lx.bag.Warnf(diag.Syntax, start, "whitespace inside tree")
	}
}

// lexTree scans the start of a whole tree. Whitespace between trees is
// not part of any tree and skipped silently.
func lexTree(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case isSpace(r):
		lx.skipSpace(false)
		return lexTree
	case r == eof:
		lx.emit(itemEOF)
		return nil
	}
	lx.backup()
	return lexSubtree
}

// lexSubtree scans the start of a subtree: a descendent list or a leaf.
func lexSubtree(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case isSpace(r):
		lx.skipSpace(true)
		return lexSubtree
	case r == descStart:
		lx.emit(itemDescendentsStart)
		return lexSubtree
	case r == eof:
		lx.emit(itemEOF)
		return nil
	}
	lx.backup()
	return lexAnnot
}

// lexAnnot scans an optional label followed by an optional branch
// length and always emits a subtree annotation, possibly empty. It
// serves both leaf positions and the annotation after a ')'.
func lexAnnot(lx *lexer) stateFn {
	lx.itemPos = lx.pos
	if lx.next() == quoteRune {
		return lexQuotedLabel
	}
	lx.backup()
	return lexBareLabel
}

func lexBareLabel(lx *lexer) stateFn {
	for {
		r := lx.next()
		if r == eof || isSpace(r) || isStructural(r) {
			lx.backup()
			return lexMaybeLength
		}
		if strings.ContainsRune(bareBanned, r) {
			return lx.errorf(lx.prev, "'%s' may not appear in an unquoted label", escapeSpecial(r))
		}
		lx.label.WriteRune(r)
	}
}

func lexQuotedLabel(lx *lexer) stateFn {
	lx.quoted = true
	for {
		r := lx.next()
		if r == eof {
			return lx.errorf(lx.itemPos, "unterminated quoted label")
		}
		if r == quoteRune {
			if lx.next() == quoteRune {
				// '' is an escaped quote
				lx.label.WriteRune(quoteRune)
				continue
			}
			lx.backup()
			return lexMaybeLength
		}
		lx.label.WriteRune(r)
	}
}

func lexMaybeLength(lx *lexer) stateFn {
	if lx.next() != lengthSep {
		lx.backup()
		lx.emitSubtree(nil)
		return lexAfter
	}
	return lexLength
}

func lexLength(lx *lexer) stateFn {
	start := lx.pos
	var text strings.Builder
	for {
		r := lx.next()
		if r == eof || isSpace(r) || isStructural(r) {
			lx.backup()
			break
		}
		text.WriteRune(r)
	}
	if text.Len() == 0 {
		return lx.errorf(start, "expected a branch length after '%c'", lengthSep)
	}
	v, err := strconv.ParseFloat(text.String(), 64)
	if err != nil {
		return lx.errorf(start, "invalid branch length %q", text.String())
	}
	if canon := strconv.FormatFloat(v, 'g', -1, 64); canon != text.String() {
		lx.bag.Warnf(diag.Syntax, start,
			"branch length %q is not in canonical form %q", text.String(), canon)
	}
	lx.emitSubtree(&v)
	return lexAfter
}

// lexAfter scans the delimiter following a finished subtree.
func lexAfter(lx *lexer) stateFn {
	r := lx.next()
	switch {
	case isSpace(r):
		lx.skipSpace(true)
		return lexAfter
	case r == descDelim:
		return lexSubtree
	case r == descEnd:
		lx.emit(itemDescendentsEnd)
		return lexAnnot
	case r == terminal:
		lx.emit(itemTerminal)
		return lexTree
	case r == eof:
		lx.emit(itemEOF)
		return nil
	}
	return lx.errorf(lx.prev, "expected '%c', '%c' or '%c', but got '%s' instead",
		descDelim, descEnd, terminal, escapeSpecial(r))
}

func isStructural(r rune) bool {
	return r == descStart || r == descEnd || r == descDelim ||
		r == terminal || r == lengthSep
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (itype itemType) String() string {
	switch itype {
	case itemError:
		return "Error"
	case itemEOF:
		return "EOF"
	case itemTerminal:
		return "Terminal"
	case itemDescendentsStart:
		return "Descendents (start)"
	case itemDescendentsEnd:
		return "Descendents (end)"
	case itemSubtree:
		return "Subtree"
	}
	panic(fmt.Sprintf("BUG: Unknown type '%d'.", int(itype)))
}

func (it item) String() string {
	return fmt.Sprintf("(%s, %s)", it.typ, it.label)
}

func escapeSpecial(c rune) string {
	switch c {
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\r':
		return "\\r"
	}
	return string(c)
}
