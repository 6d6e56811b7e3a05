package pace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/manpen/pace26io/diag"
)

// Action tells the Reader whether to keep going after a visit.
type Action int

const (
	Continue Action = iota
	Terminate
)

// Visitor receives one callback per recognized line. Embed NopVisitor
// and override only the methods you care about; a typical consumer
// implements VisitTree and possibly VisitHeader. Line numbers are
// 1-based.
type Visitor interface {
	VisitHeader(line, numTrees, numLeaves int) Action
	VisitApprox(line int, a float64, b int) Action
	VisitTree(line int, text string) Action
	VisitStride(line int, text, key, value string) Action
	VisitExtraWhitespace(line int, text string) Action
	VisitUnknownHashLine(line int, text string) Action
	VisitUnknownLine(line int, text string) Action
}

// TreeDecompositionVisitor is an optional upgrade of Visitor. Only if a
// visitor implements it does the Reader parse the JSON payload of an
// "#x treedecomp" line.
type TreeDecompositionVisitor interface {
	VisitTreeDecomposition(line int, td *TreeDecomposition) Action
}

// NopVisitor implements Visitor with Continue for every callback.
type NopVisitor struct{}

func (NopVisitor) VisitHeader(int, int, int) Action               { return Continue }
func (NopVisitor) VisitApprox(int, float64, int) Action           { return Continue }
func (NopVisitor) VisitTree(int, string) Action                   { return Continue }
func (NopVisitor) VisitStride(int, string, string, string) Action { return Continue }
func (NopVisitor) VisitExtraWhitespace(int, string) Action        { return Continue }
func (NopVisitor) VisitUnknownHashLine(int, string) Action        { return Continue }
func (NopVisitor) VisitUnknownLine(int, string) Action            { return Continue }

// Reader processes PACE 2026 container input line by line, invoking the
// visitor for each recognized element. Malformed framing lines are
// fatal and returned as *diag.Diagnostic errors.
type Reader struct {
	v          Visitor
	headerLine int
}

func NewReader(v Visitor) *Reader {
	return &Reader{v: v}
}

// Read consumes src until EOF, a fatal framing error, or a Terminate
// from the visitor. Lines are read through a bufio.Reader so that a
// single deeply nested tree line is not subject to any token limit.
func (r *Reader) Read(src io.Reader) error {
	r.headerLine = 0
	br := bufio.NewReader(src)
	lineno := 0
	for {
		text, err := br.ReadString('\n')
		if text != "" {
			lineno++
			stop, lerr := r.line(lineno, strings.TrimRight(text, "\r\n"))
			if lerr != nil {
				return lerr
			}
			if stop {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *Reader) line(lineno int, raw string) (stop bool, err error) {
	content := strings.TrimSpace(raw)
	if content != raw {
		if r.v.VisitExtraWhitespace(lineno, raw) == Terminate {
			return true, nil
		}
	}
	if content == "" {
		return false, nil
	}

	if strings.HasPrefix(content, "#") {
		return r.hashLine(lineno, content)
	}
	if strings.HasSuffix(content, ";") {
		return r.v.VisitTree(lineno, content) == Terminate, nil
	}
	return r.v.VisitUnknownLine(lineno, content) == Terminate, nil
}

func (r *Reader) hashLine(lineno int, content string) (stop bool, err error) {
	switch {
	case strings.HasPrefix(content, "# "):
		// comment, nothing to do

	case strings.HasPrefix(content, "#p"):
		if r.headerLine != 0 {
			return false, readErrf(diag.Structure, lineno,
				"multiple headers: lines %d and %d", r.headerLine, lineno)
		}
		numTrees, numLeaves, ok := parseHeader(content)
		if !ok {
			return false, readErrf(diag.Syntax, lineno,
				"identified line as header, expected '#p <numtrees> <numleaves>'")
		}
		r.headerLine = lineno
		return r.v.VisitHeader(lineno, numTrees, numLeaves) == Terminate, nil

	case strings.HasPrefix(content, "#s"):
		key, value, ok := splitKeyValue(content)
		if !ok {
			return false, readErrf(diag.Syntax, lineno,
				"identified line as stride line, expected '#s <key> <value>'")
		}
		return r.v.VisitStride(lineno, content, key, value) == Terminate, nil

	case strings.HasPrefix(content, "#a"):
		a, b, ok := parseApprox(content)
		if !ok {
			return false, readErrf(diag.Syntax, lineno,
				"identified line as approx line, expected '#a <a> <b>'")
		}
		return r.v.VisitApprox(lineno, a, b) == Terminate, nil

	case strings.HasPrefix(content, "#x"):
		key, value, ok := splitKeyValue(content)
		if !ok {
			return false, readErrf(diag.Syntax, lineno,
				"identified line as parameter line, expected '#x <key> <value>'")
		}
		switch key {
		case "treedecomp":
			tv, wants := r.v.(TreeDecompositionVisitor)
			if !wants {
				return false, nil
			}
			td := new(TreeDecomposition)
			if jerr := json.Unmarshal([]byte(value), td); jerr != nil {
				return false, readErrf(diag.Syntax, lineno, "invalid JSON: %s", jerr)
			}
			return tv.VisitTreeDecomposition(lineno, td) == Terminate, nil
		default:
			return false, readErrf(diag.Syntax, lineno, "unknown parameter %q", key)
		}

	default:
		return r.v.VisitUnknownHashLine(lineno, content) == Terminate, nil
	}
	return false, nil
}

func readErrf(kind diag.Kind, lineno int, format string, v ...any) error {
	return &diag.Diagnostic{
		Severity: diag.Error,
		Kind:     kind,
		Pos:      diag.Pos{Line: lineno},
		Message:  fmt.Sprintf(format, v...),
	}
}

func parseHeader(content string) (numTrees, numLeaves int, ok bool) {
	fields := strings.Fields(content)
	if len(fields) < 3 || fields[0] != "#p" {
		return 0, 0, false
	}
	t, err1 := strconv.ParseUint(fields[1], 10, 64)
	l, err2 := strconv.ParseUint(fields[2], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	numTrees, err1 = safecast.Conv[int](t)
	numLeaves, err2 = safecast.Conv[int](l)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return numTrees, numLeaves, true
}

func parseApprox(content string) (a float64, b int, ok bool) {
	fields := strings.Fields(content)
	if len(fields) < 3 || fields[0] != "#a" {
		return 0, 0, false
	}
	a, err1 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || a < 0 {
		return 0, 0, false
	}
	u, err2 := strconv.ParseUint(fields[2], 10, 64)
	if err2 != nil {
		return 0, 0, false
	}
	b, err2 = safecast.Conv[int](u)
	if err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// splitKeyValue expects a line '#X <key> <value>' and returns the
// trimmed key and value.
func splitKeyValue(content string) (key, value string, ok bool) {
	if len(content) < 4 {
		return "", "", false
	}
	idx := strings.IndexByte(content[3:], ' ')
	if idx < 0 {
		return "", "", false
	}
	idx += 3
	return strings.TrimSpace(content[2:idx]), strings.TrimSpace(content[idx+1:]), true
}
