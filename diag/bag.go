package diag

import "fmt"

// Mode selects the strictness policy. Both modes share one parser code
// path; Lenient is purely a filter applied when warnings are recorded.
type Mode uint8

const (
	// Pedantic records every deviation from the canonical grammar as a
	// warning; only true parse failures become errors.
	Pedantic Mode = iota

	// Lenient silently tolerates all deviations that leave the result
	// unambiguous; only fatal conditions are recorded.
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Pedantic:
		return "pedantic"
	case Lenient:
		return "lenient"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// A Bag accumulates diagnostics in emission order. Errors are never
// dropped; warnings are dropped on arrival when the bag is lenient.
type Bag struct {
	mode  Mode
	items []Diagnostic
}

func NewBag(mode Mode) *Bag {
	return &Bag{mode: mode}
}

func (b *Bag) Mode() Mode {
	return b.mode
}

// Add records a diagnostic. It reports whether the diagnostic was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity < Error && b.mode == Lenient {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Warnf records a warning, subject to the lenient filter.
func (b *Bag) Warnf(kind Kind, pos Pos, format string, v ...any) {
	b.Add(Diagnostic{Severity: Warning, Kind: kind, Pos: pos,
		Message: fmt.Sprintf(format, v...)})
}

// Errorf records a fatal diagnostic and returns it, so callers can
// surface it as the error aborting the current parse.
func (b *Bag) Errorf(kind Kind, pos Pos, format string, v ...any) *Diagnostic {
	d := Diagnostic{Severity: Error, Kind: kind, Pos: pos,
		Message: fmt.Sprintf(format, v...)}
	b.Add(d)
	return &d
}

// Merge appends the diagnostics of another bag, re-applying this bag's
// filter.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.items {
		b.Add(d)
	}
}

// Items returns the accumulated diagnostics in emission order. The
// slice aliases the bag's storage and must not be modified.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

func (b *Bag) Len() int {
	return len(b.items)
}

func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= Error {
			return true
		}
	}
	return false
}

func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity == Warning {
			return true
		}
	}
	return false
}
