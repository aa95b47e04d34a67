// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package notebooks tells whether the program is running within a Jupyter notebook, and
// which kernel is running it. It supports GoNB [1] and bash_kernel [2].
//
// [1] GoNB: https://github.com/janpfeifer/gonb
// [2] bash_kernel: https://github.com/takluyver/bash_kernel
package notebooks

import (
	"os"

	"github.com/janpfeifer/gonb/gonbui"
)

// Kernel running the program.
type Kernel int

const (
	// None means not running in a notebook.
	None Kernel = iota
	GoNB
	BashKernel
)

// String implements fmt.Stringer.
func (k Kernel) String() string {
	switch k {
	case GoNB:
		return "GoNB"
	case BashKernel:
		return "bash_kernel"
	default:
		return "none"
	}
}

// SupportsHTML returns whether the kernel can display HTML content.
func (k Kernel) SupportsHTML() bool { return k == GoNB }

// SupportsColors returns whether ANSI styling shows up properly in the kernel output.
func (k Kernel) SupportsColors() bool { return k != BashKernel }

const bashKernelEnv = "NOTEBOOK_BASH_KERNEL_CAPABILITIES"

// Detect returns the notebook kernel running the program, or None.
func Detect() Kernel {
	if gonbui.IsNotebook {
		return GoNB
	}
	if _, found := os.LookupEnv(bashKernelEnv); found {
		return BashKernel
	}
	return None
}

// DisplayHTML displays html in the notebook. It's a no-op if not running in GoNB.
func DisplayHTML(html string) {
	if Detect() != GoNB {
		return
	}
	gonbui.DisplayHTML(html)
}
