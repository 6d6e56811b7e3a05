// Package diag defines the diagnostic vocabulary shared by the Newick
// parser, the cursor-driven writer and the PACE instance reader. A
// Diagnostic is either a non-fatal Warning or a fatal Error; fatal
// diagnostics double as Go errors so they can be returned directly
// from a failed parse.
package diag

import "fmt"

// Severity splits diagnostics into advisory warnings and fatal errors.
type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// Kind classifies what went wrong.
type Kind uint8

const (
	// Syntax marks malformed tokens, unbalanced parentheses and other
	// grammar violations.
	Syntax Kind = iota

	// Protocol marks builder calls issued out of nesting order. These are
	// always fatal: they indicate that parser and builder have
	// desynchronized, even if malformed input triggered it.
	Protocol

	// Structure marks container-level mismatches, e.g. a declared tree
	// count that differs from the observed one, or a missing terminator.
	Structure

	// Builder marks input refused by a caller-defined builder, e.g. a
	// duplicate-label policy.
	Builder
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Protocol:
		return "protocol"
	case Structure:
		return "structure"
	case Builder:
		return "builder"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Pos is a position in the source stream. Container-level diagnostics
// carry only a line (Col is zero); diagnostics without any position
// leave Line zero as well.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	switch {
	case p.Line == 0:
		return "instance"
	case p.Col == 0:
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("line %d:%d", p.Line, p.Col)
}

// A Diagnostic is a single warning or error tagged with its source
// position.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Pos      Pos
	Message  string
}

// Error makes a fatal Diagnostic usable directly as a Go error.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Kind, d.Severity, d.Message)
}
