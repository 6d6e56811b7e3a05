package newick

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Characters that force a label into quoted form when writing.
const quoteForcing = bareBanned + " \t\n\r"

// Write serializes a tree in Newick format, terminated by ';'. It
// requires only the Cursor capability, so it works for every
// builder-produced representation, including caller-defined ones.
//
// Traversal is depth-first pre-order over an explicit frame stack;
// like the parser, it does not recurse into the tree.
func Write(w io.Writer, root Cursor) error {
	bw := bufio.NewWriter(w)

	type frame struct {
		node Cursor
		kids []Cursor
		next int
	}
	stack := []frame{{node: root}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.node.IsLeaf() {
			writeLeafLabel(bw, f.node.Label())
			writeLength(bw, f.node)
			stack = stack[:len(stack)-1]
			continue
		}
		if f.kids == nil {
			bw.WriteByte(byte(descStart))
			f.kids = f.node.Children()
		}
		if f.next < len(f.kids) {
			if f.next > 0 {
				bw.WriteByte(byte(descDelim))
			}
			child := f.kids[f.next]
			f.next++
			stack = append(stack, frame{node: child})
			continue
		}
		bw.WriteByte(byte(descEnd))
		writeLabel(bw, f.node.Label())
		writeLength(bw, f.node)
		stack = stack[:len(stack)-1]
	}

	bw.WriteByte(byte(terminal))
	return bw.Flush()
}

// String returns the Newick representation of the tree rooted at root.
func String(root Cursor) string {
	var sb strings.Builder
	// Writing to a strings.Builder cannot fail.
	_ = Write(&sb, root)
	return sb.String()
}

// writeLeafLabel quotes an empty leaf label explicitly, since a leaf
// without any label does not re-parse.
func writeLeafLabel(bw *bufio.Writer, label string) {
	if label == "" {
		bw.WriteString("''")
		return
	}
	writeLabel(bw, label)
}

func writeLabel(bw *bufio.Writer, label string) {
	if label == "" {
		return
	}
	if !strings.ContainsAny(label, quoteForcing) {
		bw.WriteString(label)
		return
	}
	bw.WriteByte(byte(quoteRune))
	bw.WriteString(strings.ReplaceAll(label, "'", "''"))
	bw.WriteByte(byte(quoteRune))
}

func writeLength(bw *bufio.Writer, node Cursor) {
	if v, ok := node.Length(); ok {
		bw.WriteByte(byte(lengthSep))
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
}
