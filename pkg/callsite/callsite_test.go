// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package callsite

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// probe returns the location it was called from.
func probe(_ ...any) Location { return Caller(1) }

type pair struct{ x, y int }

// probe is a method with the same name as the function probe.
func (pair) probe(_ ...any) Location { return Caller(1) }

func TestCaller(t *testing.T) {
	loc := Caller(0)
	require.Equal(t, "callsite_test.go", filepath.Base(loc.File))
	require.True(t, strings.HasSuffix(loc.Function, ".TestCaller"), "got function %q", loc.Function)
	require.Equal(t, "callsite_test.go:"+strconv.Itoa(loc.Line), loc.String())
	require.Equal(t, loc.File+":"+strconv.Itoa(loc.Line), loc.FullString())
	require.Equal(t, "?", Location{}.String())
	require.Equal(t, "?", Location{}.FullString())
}

func TestArgumentNames(t *testing.T) {
	batch := 2
	p := pair{3, 5}
	others := []any{1, 2}

	loc := probe(batch, p.x, len(others), "literal")
	require.Equal(t, []string{"batch", "p.x", "len(others)", `"literal"`}, ArgumentNames(loc, "probe", 4))

	// Calls spanning multiple lines.
	loc = probe(
		batch,
		p,
	)
	require.Equal(t, []string{"batch", "p"}, ArgumentNames(loc, "probe", 2))

	// Wrong number of arguments, spread arguments, or wrong callee: no names.
	loc = probe(batch)
	require.Equal(t, []string{"", ""}, ArgumentNames(loc, "probe", 2))
	require.Equal(t, []string{""}, ArgumentNames(loc, "other", 1))
	loc = probe(others...)
	require.Equal(t, []string{"", ""}, ArgumentNames(loc, "probe", 2))

	// Several calls in the same line: only told apart by their number of arguments.
	first, second := probe(batch), probe(p)
	require.Equal(t, first, second)
	require.Equal(t, []string{""}, ArgumentNames(first, "probe", 1))
	loc, _ = probe(batch, p), probe(others)
	require.Equal(t, []string{"batch", "p"}, ArgumentNames(loc, "probe", 2))
	require.Equal(t, []string{""}, ArgumentNames(loc, "probe", 1))
	loc, _ = p.probe(""), probe(batch)
	require.Equal(t, []string{""}, ArgumentNames(loc, "probe", 1))

	// Unknown location or missing source file.
	require.Equal(t, []string{""}, ArgumentNames(Location{}, "probe", 1))
	missing := Location{File: filepath.Join(t.TempDir(), "missing.go"), Line: 1}
	require.Equal(t, []string{""}, ArgumentNames(missing, "probe", 1))
	ResetCache()
}

func TestShortFuncName(t *testing.T) {
	tests := map[string]string{
		"Print":                                 "Print",
		"(*Printer).Print":                      "Print",
		"(*Printer).Print.func1":                "Print",
		"Attach[...]":                           "Attach",
		"Print.func2.1":                         "Print",
		"github.com/gomlx/ppt/pkg/ppt.Print":    "Print",
		"github.com/gomlx/ppt/pkg/ppt.(*P).Row": "Row",
	}
	for fullName, want := range tests {
		require.Equalf(t, want, ShortFuncName(fullName), "ShortFuncName(%q)", fullName)
	}
}
