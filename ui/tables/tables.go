// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tables renders small report tables, either styled for the terminal with lipgloss,
// or as HTML for notebooks.
package tables

import (
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

// NewRenderer returns a lipgloss renderer for w. If colors is false, all styling is
// disabled (plain text), which is what one wants for logs and tests.
func NewRenderer(w io.Writer, colors bool) *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(w)
	if !colors {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return renderer
}

// Table holds the headers and rows of a report, and renders them.
type Table struct {
	headers    []string
	rows       [][]string
	alignments []lipgloss.Position
}

// New creates a Table with the given headers.
func New(headers ...string) *Table {
	return &Table{headers: headers}
}

// Align sets the alignment of each column. Columns beyond the alignments given use the
// last one. The default is left aligned.
func (t *Table) Align(alignments ...lipgloss.Position) *Table {
	t.alignments = alignments
	return t
}

// Row appends a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of rows, not counting the header.
func (t *Table) Len() int { return len(t.rows) }

func (t *Table) alignment(col int) lipgloss.Position {
	if col < len(t.alignments) {
		return t.alignments[col]
	} else if len(t.alignments) > 0 {
		return t.alignments[len(t.alignments)-1]
	}
	return lipgloss.Left
}

// Render the table for a terminal, with the styles of the given renderer: reverse video
// header and alternating faint rows.
func (t *Table) Render(renderer *lipgloss.Renderer) string {
	headerRowStyle := renderer.NewStyle().Reverse(true).
		Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle := renderer.NewStyle().Faint(false).
		PaddingLeft(1).PaddingRight(1)
	evenRowStyle := renderer.NewStyle().Faint(true).
		PaddingLeft(1).PaddingRight(1)

	table := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				s = headerRowStyle
				return
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			s = s.Align(t.alignment(col))
			return
		})
	if len(t.headers) > 0 {
		table.Headers(t.headers...)
	}
	for _, row := range t.rows {
		table.Row(row...)
	}
	return table.Render()
}

// Title renders a table title with the given renderer.
func Title(renderer *lipgloss.Renderer, title string) string {
	return renderer.NewStyle().Bold(true).Render(title)
}

// HTML renders the table as an HTML table, optionally with a title.
func (t *Table) HTML(title string) string {
	var buf strings.Builder
	w := func(s ...string) {
		for _, part := range s {
			buf.WriteString(part)
		}
	}
	if title != "" {
		w("<p><b>", html.EscapeString(title), "</b></p>\n")
	}
	w("<table>\n")
	if len(t.headers) > 0 {
		w("<tr>")
		for _, header := range t.headers {
			w("<th>", html.EscapeString(header), "</th>")
		}
		w("</tr>\n")
	}
	for _, row := range t.rows {
		w("<tr>")
		for col, cell := range row {
			w(`<td style="text-align:`, htmlAlignment(t.alignment(col)), `">`,
				html.EscapeString(cell), "</td>")
		}
		w("</tr>\n")
	}
	w("</table>\n")
	return buf.String()
}

func htmlAlignment(position lipgloss.Position) string {
	switch position {
	case lipgloss.Right:
		return "right"
	case lipgloss.Center:
		return "center"
	default:
		return "left"
	}
}
