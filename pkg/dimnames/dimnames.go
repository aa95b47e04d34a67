// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package dimnames implements the registry of named symbolic dimensions used to decode shapes.
//
// Each declared name is bound to a unique prime number (or to an explicitly given value).
// A dimension can then be decoded back to the name bound to its size or, when it's a
// multiple of a bound size, to a label like "2 × batch".
//
// Example:
//
//	r := dimnames.New()
//	_, err := r.DeclareString("batch, channels, height, width", ",", nil)
//	// batch=2, channels=3, height=5, width=7
//	r.Format([]int{2, 6, 5, 7}) // "[batch, 2 × channels, height, width]"
package dimnames

import (
	"iter"
	"strconv"
	"strings"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/ppt/pkg/core/shapes"
	"github.com/gomlx/ppt/pkg/primes"
	"github.com/gomlx/ppt/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// MultiplicationSign used in labels of dimensions that are multiples of a declared dimension.
const MultiplicationSign = "×"

// DefaultSeparator of names given as one string.
const DefaultSeparator = ","

// Dim is one declared dimension: its name and the value bound to it.
type Dim struct {
	Name  string
	Value int
}

// Registry holds the bidirectional mapping between dimension names and their values.
//
// It is created empty and replaced as a whole by each declaration. It is not safe for
// concurrent declarations.
type Registry struct {
	dims          []Dim
	byName        map[string]int
	byValue       map[int]string
	maxMultiplier int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byName:  make(map[string]int),
		byValue: make(map[int]string),
	}
}

// SetMaxMultiplier limits the multiples of declared values considered by Label.
// The default, 0, means no limit other than the size being decoded.
// It returns the registry itself, so calls can be chained.
func (r *Registry) SetMaxMultiplier(maxMultiplier int) *Registry {
	r.maxMultiplier = maxMultiplier
	return r
}

// Declare replaces the registry contents with the given names.
//
// Names are trimmed and empty names are ignored. Names found in values are bound to the
// given value, which is trusted as-is. Every other name is bound to the next prime number,
// skipping primes already used by values, so generated values are unique and increase
// in declaration order.
//
// It returns an error, and leaves the registry unchanged, if a name is repeated or a
// given value is not positive.
func (r *Registry) Declare(names []string, values map[string]int) (shapes.AxisBindings, error) {
	cleaned := make([]string, 0, len(names))
	seen := sets.Make[string](len(names))
	claimed := sets.Make[int](len(values))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !seen.Insert(name) {
			return nil, errors.Errorf("dimension %q declared more than once in %q", name, names)
		}
		cleaned = append(cleaned, name)
		if value, found := values[name]; found {
			if value <= 0 {
				return nil, errors.Errorf("dimension %q given value %d, it must be > 0", name, value)
			}
			claimed.Insert(value)
		}
	}

	nextPrime, stop := iter.Pull(primes.Primes())
	defer stop()
	dims := make([]Dim, 0, len(cleaned))
	byName := make(map[string]int, len(cleaned))
	byValue := make(map[int]string, len(cleaned))
	for _, name := range cleaned {
		value, found := values[name]
		if !found {
			for {
				value, _ = nextPrime()
				if !claimed.Has(value) {
					break
				}
			}
		}
		dims = append(dims, Dim{Name: name, Value: value})
		byName[name] = value
		if previous, found := byValue[value]; found {
			klog.Warningf("dimnames: %q and %q share the value %d, %q is used to decode it", previous, name, value, name)
		}
		byValue[value] = name
	}
	r.dims, r.byName, r.byValue = dims, byName, byValue
	klog.V(1).Infof("dimnames: declared %d dimensions: %s", len(dims), r.Bindings().Key())
	return r.Bindings(), nil
}

// DeclareString is like Declare, but takes the names in one string separated by sep.
// If sep is empty, DefaultSeparator is used.
func (r *Registry) DeclareString(variables, sep string, values map[string]int) (shapes.AxisBindings, error) {
	return r.Declare(SplitNames(variables, sep), values)
}

// SplitNames splits a string of names separated by sep (DefaultSeparator if empty).
func SplitNames(variables, sep string) []string {
	if sep == "" {
		sep = DefaultSeparator
	}
	variables = strings.TrimSpace(variables)
	if variables == "" {
		return nil
	}
	return strings.Split(variables, sep)
}

// Len returns the number of declared dimensions.
func (r *Registry) Len() int { return len(r.dims) }

// Dims returns the declared dimensions in declaration order.
func (r *Registry) Dims() []Dim {
	dims := make([]Dim, len(r.dims))
	copy(dims, r.dims)
	return dims
}

// Value returns the value bound to name.
func (r *Registry) Value(name string) (value int, found bool) {
	value, found = r.byName[name]
	return
}

// Name returns the name bound to value.
func (r *Registry) Name(value int) (name string, found bool) {
	name, found = r.byValue[value]
	return
}

// Bindings returns a copy of the name to value mapping.
func (r *Registry) Bindings() shapes.AxisBindings {
	return shapes.AxisBindings(r.byName).Clone()
}

// Shape returns a concrete shape with the values bound to the given names.
func (r *Registry) Shape(dtype dtypes.DType, names ...string) (shapes.Shape, error) {
	return shapes.AxisBindings(r.byName).Shape(dtype, names...)
}

// Label decodes one dimension size.
//
// If size is bound to a name, it returns the name. Otherwise, it looks for the smallest
// multiplier m >= 2 such that m times a declared value is size -- in declaration order
// for equal multipliers -- and returns "m × name". If nothing matches, it returns size
// itself formatted as a decimal number.
//
// If several names share a value, only the last one declared decodes it, both exactly and
// as a multiple. Since equal multipliers of a size mean equal values, that is also what
// decides between names whose multipliers tie.
func (r *Registry) Label(size int) string {
	if name, found := r.byValue[size]; found {
		return name
	}
	if size <= 0 {
		return strconv.Itoa(size)
	}
	bestMultiplier, bestName := 0, ""
	for _, dim := range r.dims {
		if r.byValue[dim.Value] != dim.Name {
			// Value shadowed by a later declaration.
			continue
		}
		if size%dim.Value != 0 {
			continue
		}
		multiplier := size / dim.Value
		if multiplier < 2 || (r.maxMultiplier > 0 && multiplier > r.maxMultiplier) {
			continue
		}
		if bestMultiplier == 0 || multiplier < bestMultiplier {
			bestMultiplier, bestName = multiplier, dim.Name
		}
	}
	if bestMultiplier == 0 {
		return strconv.Itoa(size)
	}
	return strconv.Itoa(bestMultiplier) + " " + MultiplicationSign + " " + bestName
}

// Labels decodes each of the dimensions with Label.
func (r *Registry) Labels(dimensions []int) []string {
	labels := make([]string, len(dimensions))
	for axis, dim := range dimensions {
		labels[axis] = r.Label(dim)
	}
	return labels
}

// Format decodes the dimensions and returns them bracketed and comma-separated,
// e.g. "[batch, 2 × channels]".
func (r *Registry) Format(dimensions []int) string {
	return "[" + strings.Join(r.Labels(dimensions), ", ") + "]"
}
