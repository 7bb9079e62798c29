// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// TabWidth is the number of columns a tab occupies in the reported
	// column numbers.  Zero means 4.
	TabWidth int

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := choosePalette(r.Color, w)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	r.writeHeader(ew, d, p)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, d.Severity, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s %s\n", p.note.Sprint("= note:"), note)
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter wraps a writer and captures the first error, short-circuiting
// subsequent writes.
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

func (r *Renderer) writeHeader(ew *errWriter, d Diagnostic, p palette) {
	sev := d.Severity.String()
	if d.Code != "" {
		sev = fmt.Sprintf("%s[%s]", sev, d.Code)
	}
	ew.printf("%s: %s\n", p.severity(d.Severity).Sprint(sev), p.bold.Sprint(d.Message))
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, sev Severity, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
		if span.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
		}
	}
	ew.printf("  %s %s\n", p.gutter.Sprint("-->"), loc)

	source := r.readSourceLine(span.File, span.Line)
	if source == "" {
		ew.printf("   %s\n", p.gutter.Sprint("|"))
		return
	}
	// Columns are reported against the tab expanded line.
	source = strings.ReplaceAll(source, "\t", strings.Repeat(" ", r.tabWidth()))

	lineStr := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(lineStr))
	gutter := p.gutter.Sprint(pad + " |")

	ew.printf(" %s\n", gutter)
	ew.printf(" %s  %s\n", p.gutter.Sprint(lineStr+" |"), source)

	runes := []rune(source)
	col := span.Col
	if col <= 0 {
		col = 1
	}
	if col > len(runes)+1 {
		col = len(runes) + 1
	}
	endCol := span.EndCol
	if endCol <= 0 {
		endCol = detectEndCol(runes, col)
	}
	if endCol < col {
		endCol = col
	}

	underPad := strings.Repeat(" ", runewidth.StringWidth(string(runes[:col-1])))
	underLen := 1
	if endCol-1 <= len(runes) && endCol > col {
		underLen = runewidth.StringWidth(string(runes[col-1 : endCol-1]))
	}
	if underLen < 1 {
		underLen = 1
	}
	marker := p.severity(sev).Sprint(strings.Repeat("^", underLen))
	ew.printf(" %s  %s%s", gutter, underPad, marker)
	if span.Label != "" {
		ew.printf(" %s", p.severity(sev).Sprint(span.Label))
	}
	ew.print("\n")
	ew.printf(" %s\n", gutter)
}

func (r *Renderer) tabWidth() int {
	if r.TabWidth <= 0 {
		return 4
	}
	return r.TabWidth
}

func (r *Renderer) readSourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	reader := r.SourceReader
	if reader == nil {
		reader = func(name string) ([]byte, error) {
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	data, err := reader(file)
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return strings.TrimRight(scanner.Text(), "\r")
		}
	}
	return ""
}

// detectEndCol returns the column just past the word starting at col.
func detectEndCol(runes []rune, col int) int {
	end := col - 1
	for end < len(runes) {
		switch runes[end] {
		case ' ', '(', ')', '[', ']', '{', '}', ';', ',', '.':
			if end == col-1 {
				return col + 1
			}
			return end + 1
		}
		end++
	}
	if end == col-1 {
		return col + 1
	}
	return end + 1
}
