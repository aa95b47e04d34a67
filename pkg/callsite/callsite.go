// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package callsite finds where a function was called from, and the source code of the
// arguments used in that call.
//
// Go doesn't keep variable names at runtime, so the names are recovered by parsing the
// caller's source file, located through the runtime stack. This only works where the
// source files are available, as is the case in tests, `go run` and notebooks. When they
// are not, names are simply left empty.
package callsite

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/inspector"
	"k8s.io/klog/v2"
)

// Location of a call in the source code.
type Location struct {
	File     string
	Line     int
	Function string
}

// String returns "<base name of file>:<line>", or "?" if the location is unknown.
func (l Location) String() string {
	if l.File == "" {
		return "?"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(l.File), l.Line)
}

// FullString returns "<file>:<line>" with the full path of the file.
func (l Location) FullString() string {
	if l.File == "" {
		return "?"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Caller returns the location of the caller, skip levels up the stack. Caller(0) is the
// location of the function calling Caller.
func Caller(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}
	}
	var function string
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	return Location{File: file, Line: line, Function: function}
}

// maxDepth of the stack searched by Outside.
const maxDepth = 64

// Outside walks the stack from the function calling Outside outwards, skipping every
// frame of the package pkgPath. It returns the location of the first frame outside of it,
// and the short name of the last function of pkgPath it called, typically the exported
// function the user called.
//
// If the stack has no frame outside pkgPath it returns an empty Location.
func Outside(pkgPath string) (caller Location, entered string) {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	prefix := pkgPath + "."
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, prefix) {
			entered = ShortFuncName(strings.TrimPrefix(frame.Function, prefix))
		} else if entered != "" {
			return Location{File: frame.File, Line: frame.Line, Function: frame.Function}, entered
		}
		if !more {
			break
		}
	}
	return Location{}, entered
}

var reClosureName = regexp.MustCompile(`^(func\d+|\d+)$`)

// ShortFuncName returns the name of the function or method without receiver, type
// parameters or closure suffixes: "(*Printer).Print" becomes "Print", "Attach[...]"
// becomes "Attach", and "Print.func1" becomes "Print".
func ShortFuncName(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx >= 0 {
		fullName = fullName[idx+1:]
	}
	parts := strings.Split(strings.ReplaceAll(fullName, "[...]", ""), ".")
	for ii := len(parts) - 1; ii >= 0; ii-- {
		if parts[ii] == "" || reClosureName.MatchString(parts[ii]) {
			continue
		}
		return parts[ii]
	}
	return fullName
}

type parsedFile struct {
	fset      *token.FileSet
	inspector *inspector.Inspector
	err       error
}

var (
	muCache     sync.Mutex
	parsedCache = make(map[string]*parsedFile)
)

// parse returns the parsed file in path, parsing it only once.
func parse(path string) *parsedFile {
	muCache.Lock()
	defer muCache.Unlock()
	if pf, found := parsedCache[path]; found {
		return pf
	}
	pf := &parsedFile{fset: token.NewFileSet()}
	file, err := parser.ParseFile(pf.fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		pf.err = errors.Wrapf(err, "failed to parse %q", path)
	} else {
		pf.inspector = inspector.New([]*ast.File{file})
	}
	parsedCache[path] = pf
	return pf
}

// ResetCache forgets the parsed source files, for when they change during a session.
func ResetCache() {
	muCache.Lock()
	defer muCache.Unlock()
	parsedCache = make(map[string]*parsedFile)
}

// ArgumentNames returns the source code of each of the numArgs arguments of the call to
// callee at the given location. Arguments that are identifiers yield the variable name.
//
// Names that can't be recovered are left empty: if the source is not available, if no call
// with numArgs arguments is found in the line, if more than one such call is found in the
// line (e.g. `a, b := f(x), f(y)`), or if the arguments are spread from a slice
// (`callee(values...)`).
func ArgumentNames(loc Location, callee string, numArgs int) []string {
	names := make([]string, numArgs)
	if loc.File == "" || callee == "" {
		return names
	}
	pf := parse(loc.File)
	if pf.err != nil {
		klog.V(1).Infof("callsite: argument names not available for %s: %+v", loc, pf.err)
		return names
	}
	call, numCalls := findCall(pf, loc.Line, callee, numArgs)
	switch {
	case numCalls == 0:
		klog.V(1).Infof("callsite: call to %s() with %d arguments not found in %s", callee, numArgs, loc)
		return names
	case numCalls > 1:
		klog.V(1).Infof("callsite: %d calls to %s() with %d arguments in %s, can't tell them apart",
			numCalls, callee, numArgs, loc)
		return names
	case call.Ellipsis.IsValid():
		klog.V(1).Infof("callsite: call to %s() in %s spreads its arguments", callee, loc)
		return names
	}
	for ii, arg := range call.Args {
		names[ii] = exprString(pf.fset, arg)
	}
	return names
}

// findCall returns the call expression to callee with numArgs arguments that spans line,
// and the number of such calls found. The call is only meaningful if numCalls == 1.
func findCall(pf *parsedFile, line int, callee string, numArgs int) (found *ast.CallExpr, numCalls int) {
	pf.inspector.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		call := node.(*ast.CallExpr)
		if len(call.Args) != numArgs || calleeName(call.Fun) != callee {
			return
		}
		first, last := pf.fset.Position(call.Pos()).Line, pf.fset.Position(call.End()).Line
		if line < first || line > last {
			return
		}
		found = call
		numCalls++
	})
	return
}

// calleeName returns the name of the function or method called.
func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	case *ast.ParenExpr:
		return calleeName(f.X)
	}
	return ""
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return ""
	}
	return buf.String()
}
