// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// ppt decodes shapes given in the command line using named dimensions.
//
// Usage:
//
//	ppt -dims batch,channels,height,width [-values batch=32] float32:64x3x224x224 4x5
//
// Each shape is given as "[<dtype>:]<dim>x<dim>x...", with dtype defaulting to Float32.
// It prints the table of defined dimensions, and then the decoded shapes.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/ppt/pkg/core/shapes"
	"github.com/gomlx/ppt/pkg/dimnames"
	"github.com/gomlx/ppt/pkg/ppt"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagDims = flag.String("dims", "", "Names of the dimensions, separated by --sep, "+
		"e.g. \"batch,channels,height,width\". Each is bound to a different prime number, "+
		"unless given a value with --values.")
	flagSep      = flag.String("sep", dimnames.DefaultSeparator, "Separator of the names in --dims.")
	flagValues   = flag.String("values", "", "Comma-separated explicit values of dimensions, e.g. \"batch=32,seq=128\".")
	flagDimsFile = flag.String("dims_file", "", "YAML file with the dimensions, "+
		"e.g. \"dims: [batch, seq]\" and \"values: {batch: 32}\". Used instead of --dims if given.")
	flagMaxMultiplier = flag.Int("max_multiplier", 0, "If > 0, largest multiple of a dimension to decode as such.")
	flagSizes         = flag.Bool("sizes", false, "Also report the number of elements and bytes of each shape.")
	flagColor         = flag.Bool("color", true, "Style tables if the output is a terminal.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	p := ppt.New().
		WithSeparator(*flagSep).
		WithColors(*flagColor).
		WithSizes(*flagSizes).
		WithNotebook(false)
	p.Registry().SetMaxMultiplier(*flagMaxMultiplier)
	if err := declare(p); err != nil {
		klog.Exitf("Failed to declare dimensions: %+v", err)
	}
	if flag.NArg() == 0 {
		klog.Errorf("No shapes given to decode. See 'ppt -help'.")
		os.Exit(1)
	}
	if err := report(p, flag.Args()); err != nil {
		klog.Exitf("Failed to decode shapes: %+v", err)
	}
}

// declare the dimensions given by the flags.
func declare(p *ppt.Printer) error {
	values, err := parseValues(*flagValues)
	if err != nil {
		return err
	}
	if *flagDimsFile == "" {
		_, err = p.DefVars(*flagDims, values)
		return err
	}

	data, err := os.ReadFile(*flagDimsFile)
	if err != nil {
		return errors.Wrapf(err, "failed to read --dims_file=%q", *flagDimsFile)
	}
	decl, err := dimnames.ParseYAML(data)
	if err != nil {
		return errors.WithMessagef(err, "--dims_file=%q", *flagDimsFile)
	}
	if decl.Values == nil {
		decl.Values = make(map[string]int)
	}
	for name, value := range values {
		decl.Values[name] = value
	}
	_, err = p.DefVarsList(decl.Names(), decl.Values)
	return err
}

// report the decoded shapes given in args.
func report(p *ppt.Printer, args []string) error {
	rows := make([]ppt.Row, 0, len(args))
	for ii, arg := range args {
		shape, err := parseShape(arg)
		if err != nil {
			return err
		}
		rows = append(rows, p.Row(fmt.Sprintf("argv[%d]", ii+1), arg, shape))
	}
	p.Report(rows)
	return nil
}

// parseValues parses "name=value" pairs separated by commas.
func parseValues(text string) (map[string]int, error) {
	values := make(map[string]int)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, valueStr, found := strings.Cut(part, "=")
		if !found {
			return nil, errors.Errorf("invalid value %q in --values, it should be \"name=value\"", part)
		}
		value, err := strconv.Atoi(strings.TrimSpace(valueStr))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value for %q in --values", name)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}

// parseShape parses "[<dtype>:]<dim>x<dim>x...". Dimensions can also be separated by commas.
func parseShape(text string) (shape shapes.Shape, err error) {
	dtype := dtypes.Float32
	dimsText := text
	if dtypeName, rest, found := strings.Cut(text, ":"); found {
		dtype, err = parseDType(dtypeName)
		if err != nil {
			return
		}
		dimsText = rest
	}
	fields := strings.FieldsFunc(dimsText, func(r rune) bool {
		return r == 'x' || r == 'X' || r == ',' || r == ' '
	})
	dims := make([]int, len(fields))
	for ii, field := range fields {
		dims[ii], err = strconv.Atoi(field)
		if err != nil {
			err = errors.Wrapf(err, "invalid dimension #%d in shape %q", ii, text)
			return
		}
	}
	err = exceptions.TryCatch[error](func() { shape = shapes.Make(dtype, dims...) })
	if err != nil {
		err = errors.WithMessagef(err, "invalid shape %q", text)
	}
	return
}

// parseDType accepts the dtype names in any case, e.g.: "float32", "Float32" or "F32".
func parseDType(name string) (dtypes.DType, error) {
	name = strings.TrimSpace(name)
	if dtype, found := dtypes.MapOfNames[name]; found {
		return dtype, nil
	}
	for _, candidate := range dtypes.MapOfNames {
		if strings.EqualFold(candidate.String(), name) {
			return candidate, nil
		}
	}
	return dtypes.InvalidDType, errors.Errorf("unknown dtype %q", name)
}
