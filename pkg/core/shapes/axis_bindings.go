// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// AxisBindings maps axis names to concrete dimension values.
type AxisBindings map[string]int

// Key returns a canonical string representation for map keying.
// Format: "name1=val1,name2=val2" with names sorted alphabetically.
// Returns empty string for empty or nil bindings.
func (ab AxisBindings) Key() string {
	if len(ab) == 0 {
		return ""
	}
	names := make([]string, 0, len(ab))
	for name := range ab {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, ab[name])
	}
	return strings.Join(parts, ",")
}

// Clone returns a copy of the bindings.
func (ab AxisBindings) Clone() AxisBindings {
	if ab == nil {
		return nil
	}
	clone := make(AxisBindings, len(ab))
	for k, v := range ab {
		clone[k] = v
	}
	return clone
}

// Merge combines bindings from another AxisBindings into this one.
// Returns an error if there are conflicting values for the same axis name.
func (ab AxisBindings) Merge(other AxisBindings) error {
	for name, val := range other {
		if existing, ok := ab[name]; ok && existing != val {
			return errors.Errorf("conflicting values for axis %q: %d vs %d", name, existing, val)
		}
		ab[name] = val
	}
	return nil
}

// Invert returns the reverse mapping, from dimension value to axis name.
// If two names are bound to the same value, the alphabetically last one is kept.
func (ab AxisBindings) Invert() map[int]string {
	names := make([]string, 0, len(ab))
	for name := range ab {
		names = append(names, name)
	}
	sort.Strings(names)
	inverted := make(map[int]string, len(ab))
	for _, name := range names {
		inverted[ab[name]] = name
	}
	return inverted
}

// Shape builds a concrete shape whose axes are the dimensions bound to the given names.
//
// Returns an error if any of the names is not bound.
func (ab AxisBindings) Shape(dtype dtypes.DType, names ...string) (Shape, error) {
	dims := make([]int, len(names))
	for axis, name := range names {
		dim, ok := ab[name]
		if !ok {
			return Invalid(), errors.Errorf("axis %d: name %q is not bound to any dimension (bindings: %s)",
				axis, name, ab.Key())
		}
		dims[axis] = dim
	}
	return Shape{DType: dtype, Dimensions: dims}, nil
}
