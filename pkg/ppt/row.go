// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ppt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/ppt/pkg/core/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// UnknownShape is the Shape reported for values whose shape can't be found.
const UnknownShape = "?"

// Row is the report of one value.
type Row struct {
	// Caller is the location ("file:line") of the call.
	Caller string

	// Name is the source code of the argument, the variable name if it was a variable.
	// It is empty if it couldn't be recovered.
	Name string

	// Type of the elements of the value, e.g. "Float32".
	Type string

	// Shape is the decoded shape, e.g. "[batch, 2 × channels]".
	Shape string

	// Size is the number of elements and Memory the number of bytes used by them.
	Size   int
	Memory uintptr
}

// Row builds the report row of value, with the given caller and name.
//
// Values whose shape can't be found are reported with UnknownShape, and a warning is logged.
func (p *Printer) Row(caller, name string, value any) Row {
	row := Row{Caller: caller, Name: name}
	var desc description
	var err error
	exception := exceptions.Try(func() { desc, err = describe(value) })
	if exception != nil {
		err = errors.Errorf("panic while reading shape: %v", exception)
	}
	if err != nil {
		klog.Warningf("ppt: shape of %q (%T) at %s not available: %v", name, value, caller, err)
		row.Type = stripQualifier(fmt.Sprintf("%T", value))
		row.Shape = UnknownShape
		return row
	}
	row.Type = desc.dtype
	row.Shape = p.registry.Format(desc.dimensions)
	row.Size = 1
	for _, dim := range desc.dimensions {
		row.Size *= dim
	}
	row.Memory = desc.memory
	return row
}

type description struct {
	dimensions []int
	dtype      string
	memory     uintptr
}

// describe extracts the dimensions and dtype of a tensor-like value.
func describe(value any) (desc description, err error) {
	if value == nil {
		return desc, errors.New("nil value")
	}
	if hasShape, ok := value.(shapes.HasShape); ok {
		return describeShape(hasShape.Shape())
	}
	var found bool
	desc, found, err = describeByReflection(value)
	if found || err != nil {
		return
	}
	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		return desc, err
	}
	return describeShape(shape)
}

func describeShape(shape shapes.Shape) (description, error) {
	if !shape.Ok() {
		return description{}, errors.Errorf("invalid shape %s", shape)
	}
	return description{
		dimensions: shape.Dimensions,
		dtype:      shape.DType.String(),
		memory:     shape.Memory(),
	}, nil
}

// describeByReflection handles values with a Shape() method returning a struct with the
// fields Dimensions and DType, like the ones of the GoMLX framework, without depending on it.
func describeByReflection(value any) (desc description, found bool, err error) {
	method := reflect.ValueOf(value).MethodByName("Shape")
	if !method.IsValid() || method.Type().NumIn() != 0 || method.Type().NumOut() != 1 {
		return
	}
	shape := method.Call(nil)[0]
	for shape.Kind() == reflect.Pointer || shape.Kind() == reflect.Interface {
		if shape.IsNil() {
			return desc, true, errors.Errorf("%T.Shape() returned nil", value)
		}
		shape = shape.Elem()
	}
	if shape.Kind() != reflect.Struct {
		return
	}
	dimsField := shape.FieldByName("Dimensions")
	if !dimsField.IsValid() || dimsField.Kind() != reflect.Slice {
		return
	}
	switch dimsField.Type().Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return
	}
	found = true
	desc.dimensions = make([]int, dimsField.Len())
	size := 1
	for ii := range desc.dimensions {
		desc.dimensions[ii] = int(dimsField.Index(ii).Int())
		size *= desc.dimensions[ii]
	}
	desc.dtype = UnknownShape
	if dtypeField := shape.FieldByName("DType"); dtypeField.IsValid() && dtypeField.CanInterface() {
		desc.dtype = stripQualifier(fmt.Sprint(dtypeField.Interface()))
		if dtype, known := dtypes.MapOfNames[desc.dtype]; known && size > 0 {
			desc.memory = dtype.Memory() * uintptr(size)
		}
	}
	return
}

// stripQualifier removes package qualifiers from a type name: "*tensors.Tensor" becomes
// "Tensor" and "dtypes.Float32" becomes "Float32".
func stripQualifier(typeName string) string {
	typeName = strings.TrimLeft(typeName, "*")
	if idx := strings.LastIndex(typeName, "."); idx >= 0 {
		return typeName[idx+1:]
	}
	return typeName
}
