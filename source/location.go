// Copyright © 2025 The Refract authors

// Package source describes positions of written names in type-checked
// source buffers.
//
// Locations are produced by the front end alongside the semantic tree and
// are treated as opaque by the resolution core, except for macro expansion
// mapping: a name spelled inside a macro body carries the position where
// the macro was expanded in the main file.
package source

import "fmt"

// Location identifies the position of a written name.
type Location struct {
	File   string // name of the source buffer
	Offset int    // byte offset of the name's first character
	Line   int    // line number (starting at 1 when tracked)
	Col    int    // line column number (starting at 1 when tracked)

	// Expansion is non-nil when the name was spelled inside macro-expanded
	// text. It gives the position in the main file where the expansion
	// occurred.
	Expansion *Location
}

// InMacro reports whether the location lies inside macro-expanded text.
func (loc Location) InMacro() bool {
	return loc.Expansion != nil
}

// Resolved returns the position a reference should be reported at: the
// location itself for ordinary names, or the expansion point in the main
// file for names spelled inside a macro body.
func (loc Location) Resolved() Location {
	for loc.Expansion != nil {
		loc = *loc.Expansion
	}
	return loc
}

func (loc Location) String() string {
	switch {
	case loc.File == "" && loc.Line == 0:
		return fmt.Sprintf("[%d]", loc.Offset)
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Offset)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// Before reports whether loc precedes other in the main file, comparing
// expansion-resolved positions.
func (loc Location) Before(other Location) bool {
	return loc.Resolved().Offset < other.Resolved().Offset
}
