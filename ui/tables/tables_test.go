// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tables

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	renderer := NewRenderer(&buf, false)
	table := New("Variable Name", "Value").Align(lipgloss.Left, lipgloss.Right)
	table.Row("batch", "2").Row("channels", "3")
	require.Equal(t, 2, table.Len())

	got := table.Render(renderer)
	lines := strings.Split(got, "\n")
	// Top border, header, separator, 2 rows and bottom border.
	require.Len(t, lines, 6)
	require.Contains(t, lines[1], "Variable Name")
	require.Contains(t, lines[3], "batch")
	require.Contains(t, lines[4], "channels")
	require.NotContains(t, got, "\x1b[", "no escape sequences expected without colors")
	require.Equal(t, "Title", Title(renderer, "Title"))
}

func TestHTML(t *testing.T) {
	table := New("Name", "Shape").Align(lipgloss.Left, lipgloss.Center)
	table.Row("x<y>", "[batch, 2 × channels]")
	got := table.HTML("Shapes & names")
	require.Contains(t, got, "<p><b>Shapes &amp; names</b></p>")
	require.Contains(t, got, "<th>Name</th><th>Shape</th>")
	require.Contains(t, got, `<td style="text-align:left">x&lt;y&gt;</td>`)
	require.Contains(t, got, `<td style="text-align:center">[batch, 2 × channels]</td>`)
	require.NotContains(t, New().HTML(""), "<p>")
}
