package main

import "github.com/jameingh/kernel-dev/kernel"

// kernelStart and kernelEnd bracket the kernel image; the real values are
// patched in by the linker script before the rt0 stub calls main. Declaring
// them as package-level vars (rather than inlining 0, 0) keeps the compiler
// from treating the Kmain call as eligible for dead-code elimination.
var kernelStart, kernelEnd uintptr

// main is the only Go symbol visible from the rt0 initialization code: a
// trampoline into the real kernel entrypoint. main is not expected to
// return; if it does, the rt0 code halts the CPU.
func main() {
	kernel.Kmain(kernelStart, kernelEnd)
}
