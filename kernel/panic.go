package kernel

import (
	"github.com/jameingh/kernel-dev/kernel/cpu"
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
)

var (
	// cpuHaltFn is swapped out by tests so Panic doesn't try to execute a
	// privileged HLT instruction on the host running go test.
	cpuHaltFn = cpu.Halt

	errRuntimePanic = &Error{Module: "rt", Message: "unknown cause"}
)

// Panic prints e (if not nil) to the terminal and halts the CPU. Calls to
// Panic never return.
func Panic(e interface{}) {
	var err *Error

	switch t := e.(type) {
	case *Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	case nil:
		err = nil
	}

	early.Printf("\n-----------------------------------\n")
	if err != nil {
		early.Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	early.Printf("*** kernel panic: system halted ***\n")
	early.Printf("-----------------------------------\n")

	cpuHaltFn()
}
