// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ppt

// Attachable is implemented by modules (layers, models) that can hold a reference to a
// Printer, so their code can print shapes with the dimensions declared by the user.
//
// Printer.Print attaches itself to Attachable values instead of printing them.
type Attachable interface {
	AttachPrinter(p *Printer)
}

// Attached implements Attachable: embed it in a module to make it Attachable.
//
// Example:
//
//	type Encoder struct {
//		ppt.Attached
//		...
//	}
//
//	enc := &Encoder{}
//	p.Print(enc)  // Attaches p to enc.
//	...
//	enc.Printer().Print(embeddings)
type Attached struct {
	printer *Printer
}

// AttachPrinter implements Attachable.
func (a *Attached) AttachPrinter(p *Printer) { a.printer = p }

// Printer returns the attached printer, or nil if none was attached.
func (a *Attached) Printer() *Printer { return a.printer }

// Attach attaches p to module and returns module, keeping its type.
func Attach[M Attachable](p *Printer, module M) M {
	module.AttachPrinter(p)
	return module
}
