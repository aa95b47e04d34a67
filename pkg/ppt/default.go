// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ppt

import "github.com/gomlx/ppt/pkg/core/shapes"

// Default printer used by the package level functions DefVars and Print.
var Default = New()

// DefVars declares the dimensions of the Default printer, see Printer.DefVars.
func DefVars(variables string, values map[string]int) (shapes.AxisBindings, error) {
	return Default.DefVars(variables, values)
}

// Print prints the values with the Default printer, see Printer.Print.
func Print(values ...any) []any {
	return Default.Print(values...)
}
