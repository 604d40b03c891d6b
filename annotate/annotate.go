// Copyright © 2025 The Refract authors

// Package annotate renders compiler-style annotated source snippets for
// navigation results: the source line, an underline beneath the written
// name, and the declarations it resolves to. It is intentionally
// independent of the analysis package internals so that any CLI command
// can use it without creating import cycles.
package annotate

// Span identifies a region of a source line to underline.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = auto-detect an identifier)
	Label  string // text shown under the underline
}

// Annotation is one rendered snippet: a title line, underlined source
// regions, and trailing notes.
type Annotation struct {
	Title string
	Spans []Span
	Notes []string // "= note:" lines (resolved targets, etc.)
}
