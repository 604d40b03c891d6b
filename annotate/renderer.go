// Copyright © 2025 The Refract authors

package annotate

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/refract-tools/refract/analysis"
	"github.com/refract-tools/refract/sem"
)

// Renderer formats annotations as compiler-style source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Reference builds the annotation for one reference record: the written
// name underlined, its qualifier in the label, and one note per resolved
// declaration.
func (r *Renderer) Reference(t *sem.Tree, ref analysis.Reference) Annotation {
	title := "unresolved name"
	targets := ref.Targets.Targets()
	if len(targets) > 0 {
		d := t.Decl(targets[0].Decl)
		if d != nil && d.Name != "" {
			title = ref.Qualifier + d.Name
		} else {
			title = t.DeclString(targets[0].Decl)
		}
	}

	line, col := ref.Loc.Line, ref.Loc.Col
	if line == 0 {
		line, col = r.lineCol(ref.Loc.File, ref.Loc.Offset)
	}
	span := Span{File: ref.Loc.File, Line: line, Col: col}
	if ref.Qualifier != "" {
		span.Label = fmt.Sprintf("written as %s...", ref.Qualifier)
	}

	a := Annotation{Title: "ref: " + title, Spans: []Span{span}}
	for _, tgt := range targets {
		note := t.DeclString(tgt.Decl)
		if !tgt.Relations.Empty() {
			note = fmt.Sprintf("%s [%s]", note, tgt.Relations)
		}
		a.Notes = append(a.Notes, note)
	}
	return a
}

// Render writes a single annotation to w.
func (r *Renderer) Render(w io.Writer, a Annotation) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	ew.printf("%s%s%s\n", p.bold, a.Title, p.reset)
	for _, span := range a.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range a.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all annotations to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, as []Annotation) error {
	for i, a := range as {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, a); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes. This avoids checking every fmt.Fprintf return value.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	// Location line: "  --> file:line:col"
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	// Try to read and display the source line
	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		// No source available — just show the location line with a gutter
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))

	// Empty gutter line
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)

	// Source line with line number
	// Replace tabs with spaces for consistent alignment
	displaySource := strings.ReplaceAll(source, "\t", "    ")
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, lineStr, p.reset, displaySource)

	// Underline
	col := span.Col
	endCol := span.EndCol
	if col <= 0 {
		col = 1
	}
	if endCol <= 0 {
		endCol = detectEndCol(source, col)
	}
	if endCol < col {
		endCol = col
	}
	underLen := endCol - col + 1

	// Account for tab expansion in positioning
	prefix := ""
	if col > 1 && col-1 <= len(source) {
		prefix = source[:col-1]
	}
	displayCol := displayWidth(prefix)

	underPad := strings.Repeat(" ", displayCol)
	underline := strings.Repeat("^", underLen)

	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset, underPad, p.boldCyan, underline, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldCyan, span.Label, p.reset)
	}
	ew.print("\n")

	// Trailing gutter
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) readSource(file string) []byte {
	if file == "" {
		return nil
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return nil
	}
	return data
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 {
		return ""
	}
	data := r.readSource(file)
	if data == nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text()
		}
	}
	return ""
}

// lineCol converts a byte offset into a 1-based line and column, reading
// the file contents. Snapshots often carry offsets only.
func (r *Renderer) lineCol(file string, offset int) (line, col int) {
	data := r.readSource(file)
	if data == nil || offset < 0 || offset > len(data) {
		return 0, 0
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// detectEndCol scans from col to the end of the identifier written there.
func detectEndCol(source string, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	end := col - 1 // 0-based
	for end < len(source) {
		ch, size := utf8.DecodeRuneInString(source[end:])
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		end += size
	}
	if end == col-1 {
		return col // single character
	}
	return end // convert back to 1-based end column
}

// displayWidth returns the display width of a string, expanding tabs to 4 spaces.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter attempts to extract an *os.File from a writer for terminal
// detection. Returns nil if the writer is not backed by a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
