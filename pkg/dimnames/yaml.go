// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dimnames

import (
	"os"

	"github.com/gomlx/ppt/pkg/core/shapes"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Declaration is the YAML form of a declaration:
//
//	dims: [batch, channels, height, width]  # or "batch, channels, height, width"
//	sep: ","                                # only used if dims is a string
//	values:
//	  batch: 32
type Declaration struct {
	Dims   Names          `yaml:"dims"`
	Sep    string         `yaml:"sep,omitempty"`
	Values map[string]int `yaml:"values,omitempty"`
}

// Names accepts either a YAML sequence of names, or one string of separated names.
type Names struct {
	List []string

	// Joined holds the names when given as one string, to be split by Declaration.Sep.
	Joined string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		n.Joined = node.Value
		return nil
	case yaml.SequenceNode:
		return node.Decode(&n.List)
	default:
		return errors.Errorf("line %d: dims must be a list of names or a string, got YAML kind %d", node.Line, node.Kind)
	}
}

// Names returns the declared names, splitting them if they were given as one string.
func (d *Declaration) Names() []string {
	if d.Dims.List != nil {
		return d.Dims.List
	}
	return SplitNames(d.Dims.Joined, d.Sep)
}

// ParseYAML parses a Declaration.
func ParseYAML(data []byte) (*Declaration, error) {
	decl := &Declaration{}
	if err := yaml.Unmarshal(data, decl); err != nil {
		return nil, errors.Wrap(err, "failed to parse dimensions declaration")
	}
	return decl, nil
}

// LoadYAML declares the dimensions described in YAML, see Declaration.
func (r *Registry) LoadYAML(data []byte) (shapes.AxisBindings, error) {
	decl, err := ParseYAML(data)
	if err != nil {
		return nil, err
	}
	return r.Declare(decl.Names(), decl.Values)
}

// LoadFile declares the dimensions described in the YAML file in path, see Declaration.
func (r *Registry) LoadFile(path string) (shapes.AxisBindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dimensions from %q", path)
	}
	bindings, err := r.LoadYAML(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "file %q", path)
	}
	return bindings, nil
}
