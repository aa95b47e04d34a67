// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package ppt pretty-prints the shapes of tensors with named dimensions, to help debugging
// models during development.
//
// First declare the names of the dimensions used by the model: each one is bound to a
// different prime number (or to a given value). Then create the inputs using those values,
// and print the shape of any intermediary value: each dimension is decoded back to its name,
// or to a multiple of one ("2 × channels"), which makes it easy to see which axis is which.
//
// Example:
//
//	p := ppt.New()
//	bindings := p.MustDefVars("batch, channels, height, width", nil)
//	images := tensors.FromShape(shapes.Make(dtypes.Float32, 2, 3, 5, 7))
//	p.Print(images)
//
// Prints a table with the caller location, the variable name ("images"), its type
// ("Float32") and its decoded shape ("[batch, channels, height, width]").
//
// Values printed can be anything implementing shapes.HasShape, anything with a Shape()
// method returning a struct with the fields DType and Dimensions (like GoMLX tensors,
// graph nodes and variables), or Go scalars and multidimensional slices.
package ppt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/ppt/pkg/callsite"
	"github.com/gomlx/ppt/pkg/core/shapes"
	"github.com/gomlx/ppt/pkg/dimnames"
	"github.com/gomlx/ppt/ui/notebooks"
	"github.com/gomlx/ppt/ui/tables"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

// pkgPath is used to find the first caller outside this package.
const pkgPath = "github.com/gomlx/ppt/pkg/ppt"

// Printer holds the declared dimensions and prints the decoded shapes of values.
//
// Create it with New, and configure it with the With* methods.
// It is meant for interactive use: it is not safe for concurrent use.
type Printer struct {
	registry  *dimnames.Registry
	out       io.Writer
	sep       string
	colors    bool
	sizes     bool
	fullPaths bool
	notebook  bool
}

// New returns a Printer writing to the standard output, with no dimensions declared.
// If running in a GoNB notebook, tables are displayed as HTML.
func New() *Printer {
	kernel := notebooks.Detect()
	return &Printer{
		registry: dimnames.New(),
		out:      os.Stdout,
		sep:      dimnames.DefaultSeparator,
		colors:   kernel.SupportsColors(),
		notebook: kernel.SupportsHTML(),
	}
}

// WithWriter sets where tables are written to. Default is os.Stdout.
func (p *Printer) WithWriter(w io.Writer) *Printer {
	p.out = w
	return p
}

// WithSeparator sets the separator of names given as a string to DefVars. Default is ",".
func (p *Printer) WithSeparator(sep string) *Printer {
	p.sep = sep
	return p
}

// WithColors enables or disables styling of the tables. If enabled (the default),
// styling still depends on the writer being a terminal.
func (p *Printer) WithColors(colors bool) *Printer {
	p.colors = colors
	return p
}

// WithSizes adds the number of elements and the memory used by each value to the report.
func (p *Printer) WithSizes(sizes bool) *Printer {
	p.sizes = sizes
	return p
}

// WithFullPaths reports the caller with the full path of its file, as opposed to only its base name.
func (p *Printer) WithFullPaths(fullPaths bool) *Printer {
	p.fullPaths = fullPaths
	return p
}

// WithNotebook sets whether tables are displayed as HTML in a GoNB notebook.
// It defaults to whether the program is running in a notebook. If not running in GoNB,
// tables are written to the writer (see WithWriter) regardless.
func (p *Printer) WithNotebook(notebook bool) *Printer {
	p.notebook = notebook
	return p
}

// Registry returns the registry of declared dimensions.
func (p *Printer) Registry() *dimnames.Registry { return p.registry }

// DefVars declares the dimensions named in variables, separated by the printer separator
// (see WithSeparator). See DefVarsList.
func (p *Printer) DefVars(variables string, values map[string]int) (shapes.AxisBindings, error) {
	return p.DefVarsList(dimnames.SplitNames(variables, p.sep), values)
}

// DefVarsList declares the dimensions with the given names, replacing any previous declaration.
//
// Names found in values are bound to the given value, the others are bound to consecutive
// prime numbers. It prints the table of defined variables and returns the bindings.
func (p *Printer) DefVarsList(names []string, values map[string]int) (shapes.AxisBindings, error) {
	bindings, err := p.registry.Declare(names, values)
	if err != nil {
		return nil, err
	}
	table := tables.New("Variable Name", "Value").Align(lipgloss.Left, lipgloss.Right)
	for _, dim := range p.registry.Dims() {
		table.Row(dim.Name, fmt.Sprintf("%d", dim.Value))
	}
	p.display("Defined Variables:", table)
	return bindings, nil
}

// MustDefVars is like DefVars, but panics on errors.
func (p *Printer) MustDefVars(variables string, values map[string]int) shapes.AxisBindings {
	return must.M1(p.DefVars(variables, values))
}

// Print prints a table with one row per value: the caller location, the variable name used
// in the call, the type and the decoded shape. It returns the values given.
//
// If the first value is Attachable, Print instead attaches the printer to all the Attachable
// values, prints nothing, and returns them.
func (p *Printer) Print(values ...any) []any {
	if len(values) == 0 {
		return values
	}
	if _, ok := values[0].(Attachable); ok {
		p.attach(values)
		return values
	}
	caller, entered := callsite.Outside(pkgPath)
	p.Report(p.rows(caller, entered, values))
	return values
}

// Rows returns the report rows of the values, without printing them.
// Variable names are recovered from the call to Rows.
func (p *Printer) Rows(values ...any) []Row {
	caller, entered := callsite.Outside(pkgPath)
	return p.rows(caller, entered, values)
}

func (p *Printer) rows(caller callsite.Location, entered string, values []any) []Row {
	names := callsite.ArgumentNames(caller, entered, len(values))
	callerStr := caller.String()
	if p.fullPaths {
		callerStr = caller.FullString()
	}
	rows := make([]Row, len(values))
	for ii, value := range values {
		rows[ii] = p.Row(callerStr, names[ii], value)
	}
	return rows
}

// Report prints the rows.
func (p *Printer) Report(rows []Row) {
	headers := []string{"Caller", "Variable Name", "Type", "Shape"}
	if p.sizes {
		headers = append(headers, "Size", "Bytes")
	}
	table := tables.New(headers...).
		Align(lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Left, lipgloss.Right)
	for _, row := range rows {
		cells := []string{row.Caller, row.Name, row.Type, row.Shape}
		if p.sizes {
			cells = append(cells, humanize.Comma(int64(row.Size)), humanize.Bytes(uint64(row.Memory)))
		}
		table.Row(cells...)
	}
	p.display("", table)
}

func (p *Printer) display(title string, table *tables.Table) {
	if p.notebook {
		if notebooks.Detect() == notebooks.GoNB {
			notebooks.DisplayHTML(table.HTML(title))
			return
		}
		klog.V(1).Info("ppt: not running in GoNB, writing table as text")
	}
	renderer := tables.NewRenderer(p.out, p.colors)
	if title != "" {
		_, _ = fmt.Fprintln(p.out, tables.Title(renderer, title))
	}
	_, _ = fmt.Fprintln(p.out, table.Render(renderer))
}

func (p *Printer) attach(values []any) {
	for ii, value := range values {
		module, ok := value.(Attachable)
		if !ok {
			klog.V(1).Infof("ppt: value #%d (%T) is not Attachable, skipped", ii, value)
			continue
		}
		module.AttachPrinter(p)
	}
}
