// Package table renders rows of text as an ASCII table with aligned,
// bordered columns. Cell content may contain ANSI color sequences; widths
// are computed from the visible text.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Alignment positions cell content within its column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// visibleWidth is the width of s as a terminal renders it.
func visibleWidth(s string) int {
	return len(stripAnsi(s))
}

// Table accumulates rows and renders them in one pass.
type Table struct {
	writer        io.Writer
	header        []string
	rows          [][]string
	columnAligns  []Alignment
	headerAligns  []Alignment
}

// NewTable creates a table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets per-column alignment for data rows. Columns
// without an entry align left.
func (t *Table) WithColumnAlignment(aligns []Alignment) *Table {
	t.columnAligns = aligns
	return t
}

// WithHeaderAlignment sets per-column alignment for the header row.
func (t *Table) WithHeaderAlignment(aligns []Alignment) *Table {
	t.headerAligns = aligns
	return t
}

// Append adds one data row.
func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

// WithRows adds a batch of data rows.
func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

// Render writes the table. Column widths fit the widest visible cell.
func (t *Table) Render() {
	widths := t.widths()
	border := t.border(widths)
	if len(t.header) > 0 {
		fmt.Fprintln(t.writer, border)
		fmt.Fprintln(t.writer, t.line(t.header, widths, t.headerAligns))
	}
	fmt.Fprintln(t.writer, border)
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, t.line(row, widths, t.columnAligns))
	}
	fmt.Fprintln(t.writer, border)
}

func (t *Table) widths() []int {
	n := len(t.header)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	widths := make([]int, n)
	measure := func(row []string) {
		for i, cell := range row {
			if w := visibleWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) border(widths []int) string {
	var b strings.Builder
	for _, w := range widths {
		b.WriteString("+")
		b.WriteString(strings.Repeat("-", w+2))
	}
	b.WriteString("+")
	return b.String()
}

func (t *Table) line(cells []string, widths []int, aligns []Alignment) string {
	var b strings.Builder
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		align := AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		b.WriteString("| ")
		b.WriteString(pad(cell, w, align))
		b.WriteString(" ")
	}
	b.WriteString("|")
	return b.String()
}

func pad(s string, width int, align Alignment) string {
	gap := width - visibleWidth(s)
	if gap <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
