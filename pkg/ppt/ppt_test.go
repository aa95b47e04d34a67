// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ppt_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/ppt/pkg/core/shapes"
	"github.com/gomlx/ppt/pkg/ppt"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(buf *bytes.Buffer) *ppt.Printer {
	return ppt.New().WithWriter(buf).WithColors(false).WithNotebook(false)
}

func TestDefVars(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	bindings, err := p.DefVars("batch, channels, height, width", nil)
	require.NoError(t, err)
	require.Equal(t, shapes.AxisBindings{"batch": 2, "channels": 3, "height": 5, "width": 7}, bindings)
	output := buf.String()
	require.True(t, strings.HasPrefix(output, "Defined Variables:\n"), "got %q", output)
	require.Contains(t, output, "Variable Name")
	for _, name := range []string{"batch", "channels", "height", "width"} {
		require.Contains(t, output, name)
	}

	// Custom separator and explicit values.
	buf.Reset()
	bindings, err = p.WithSeparator(" ").DefVars("batch features", map[string]int{"batch": 32})
	require.NoError(t, err)
	require.Equal(t, shapes.AxisBindings{"batch": 32, "features": 2}, bindings)
	require.Contains(t, buf.String(), "32")

	// Errors print nothing and keep the previous declaration.
	buf.Reset()
	_, err = p.DefVarsList([]string{"a", "a"}, nil)
	require.Error(t, err)
	require.Empty(t, buf.String())
	require.Equal(t, 2, p.Registry().Len())
	require.Panics(t, func() { p.MustDefVars("a a", nil) })
}

func TestRows(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	_, err := p.DefVars("batch, features", map[string]int{"batch": 2, "features": 3})
	require.NoError(t, err)

	x := shapes.Make(dtypes.Float32, 2, 3)
	rows := p.Rows(x)
	require.Len(t, rows, 1)
	require.Equal(t, "x", rows[0].Name)
	require.Equal(t, "Float32", rows[0].Type)
	require.Equal(t, "[batch, features]", rows[0].Shape)
	require.Equal(t, 6, rows[0].Size)
	require.Equal(t, uintptr(24), rows[0].Memory)
	require.True(t, strings.HasPrefix(rows[0].Caller, "ppt_test.go:"), "got caller %q", rows[0].Caller)

	// Multiples, Go slices and expressions.
	logits := make([][]float64, 4)
	for ii := range logits {
		logits[ii] = make([]float64, 9)
	}
	rows = p.Rows(logits, x.Shape(), int32(1))
	require.Len(t, rows, 3)
	require.Equal(t, ppt.Row{Caller: rows[0].Caller, Name: "logits", Type: "Float64",
		Shape: "[2 × batch, 3 × features]", Size: 36, Memory: 288}, rows[0])
	require.Equal(t, "x.Shape()", rows[1].Name)
	require.Equal(t, "[batch, features]", rows[1].Shape)
	require.Equal(t, "int32(1)", rows[2].Name)
	require.Equal(t, "[]", rows[2].Shape)

	// Nothing matches: plain dimensions.
	rows = p.Rows(shapes.Make(dtypes.Int8, 5, 7))
	require.Equal(t, "[5, 7]", rows[0].Shape)

	// Two calls in the same line can't be told apart: names are left empty.
	labels := shapes.Make(dtypes.Int32, 2)
	first, second := p.Rows(x), p.Rows(labels)
	require.Equal(t, "", first[0].Name)
	require.Equal(t, "", second[0].Name)
	require.Equal(t, "[batch]", second[0].Shape)

	// Full paths.
	rows = p.WithFullPaths(true).Rows(x)
	require.True(t, strings.HasSuffix(strings.Split(rows[0].Caller, ":")[0], "/pkg/ppt/ppt_test.go"),
		"got caller %q", rows[0].Caller)
}

type fakeDType int

func (fakeDType) String() string { return "dtypes.Float64" }

type fakeShape struct {
	DType      fakeDType
	Dimensions []int
}

// fakeTensor has the same structure as GoMLX tensors.
type fakeTensor struct {
	dims []int
}

func (t *fakeTensor) Shape() fakeShape { return fakeShape{Dimensions: t.dims} }

type nilShape struct{}

func (nilShape) Shape() *fakeShape { return nil }

type panicShape struct{}

func (panicShape) Shape() shapes.Shape { panic("no shape") }

func TestRowsForeignValues(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	_, err := p.DefVars("batch, seq, embed", nil)
	require.NoError(t, err)

	tensor := &fakeTensor{dims: []int{2, 3, 10}}
	rows := p.Rows(tensor)
	require.Equal(t, "tensor", rows[0].Name)
	require.Equal(t, "Float64", rows[0].Type)
	require.Equal(t, "[batch, seq, 2 × embed]", rows[0].Shape)
	require.Equal(t, 60, rows[0].Size)

	// Values without a shape are reported, but not decoded.
	greeting := "hello"
	rows = p.Rows(greeting, nilShape{}, panicShape{}, nil)
	require.Len(t, rows, 4)
	require.Equal(t, ppt.Row{Caller: rows[0].Caller, Name: "greeting", Type: "string", Shape: ppt.UnknownShape}, rows[0])
	require.Equal(t, ppt.UnknownShape, rows[1].Shape)
	require.Equal(t, "nilShape", rows[1].Type)
	require.Equal(t, ppt.UnknownShape, rows[2].Shape)
	require.Equal(t, "panicShape", rows[2].Type)
	require.Equal(t, ppt.UnknownShape, rows[3].Shape)
	require.Equal(t, "nil", rows[3].Name)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	bindings, err := p.DefVars("batch, channels, height, width", nil)
	require.NoError(t, err)
	images, err := bindings.Shape(dtypes.Float32, "batch", "channels", "height", "width")
	require.NoError(t, err)
	masks := shapes.Make(dtypes.Bool, 4, 5, 7)

	buf.Reset()
	got := p.Print(images, masks)
	require.Len(t, got, 2)
	require.Equal(t, images, got[0])
	output := buf.String()
	for _, want := range []string{"Caller", "Variable Name", "Type", "Shape",
		"images", "Float32", "[batch, channels, height, width]",
		"masks", "Bool", "[2 × batch, height, width]"} {
		require.Contains(t, output, want)
	}
	require.NotContains(t, output, "Bytes")

	buf.Reset()
	p.WithSizes(true).Print(images)
	output = buf.String()
	require.Contains(t, output, "Bytes")
	require.Contains(t, output, "840 B")

	// Nothing to print.
	buf.Reset()
	require.Empty(t, p.Print())
	require.Empty(t, buf.String())

	// Outside GoNB, tables are written as text even if notebook display is enabled.
	buf.Reset()
	p.WithNotebook(true).Print(images)
	require.Contains(t, buf.String(), "images")
	require.Contains(t, buf.String(), "[batch, channels, height, width]")
}

type layer struct {
	ppt.Attached
	name string
}

func TestPrintModules(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	encoder, decoder := &layer{name: "encoder"}, &layer{name: "decoder"}
	got := p.Print(encoder, decoder, 3)
	require.Len(t, got, 3)
	require.Same(t, encoder, got[0].(*layer))
	require.Same(t, decoder, got[1].(*layer))
	require.Equal(t, 3, got[2])
	require.Empty(t, buf.String())
	require.Same(t, p, encoder.Printer())
	require.Same(t, p, decoder.Printer())

	other := newTestPrinter(&buf)
	require.Same(t, encoder, ppt.Attach(other, encoder))
	require.Same(t, other, encoder.Printer())
	require.Nil(t, (&layer{}).Printer())
}

func TestDefault(t *testing.T) {
	var buf bytes.Buffer
	previous := ppt.Default
	ppt.Default = newTestPrinter(&buf)
	defer func() { ppt.Default = previous }()

	_, err := ppt.DefVars("batch, features", nil)
	require.NoError(t, err)
	features := shapes.Make(dtypes.Float32, 2, 3)
	ppt.Print(features)
	require.Contains(t, buf.String(), "features")
	require.Contains(t, buf.String(), "[batch, features]")
	require.Contains(t, buf.String(), "ppt_test.go:")
}
