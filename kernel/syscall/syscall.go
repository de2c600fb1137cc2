// Package syscall wires vector 128 to the three supported calls:
// write, yield, and sleep. Grounded on original_source/interrupts.c's
// isr_handler syscall branch and original_source/process.c's sleep
// semantics.
package syscall

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/hal"
	"github.com/jameingh/kernel-dev/kernel/irq"
	"github.com/jameingh/kernel-dev/kernel/process"
)

const (
	// Write writes a NUL-terminated string (EBX) to the terminal.
	Write = 1
	// Yield invokes the scheduler and resumes the next READY task.
	Yield = 2
	// Sleep marks the caller SLEEPING for ceil(EBX ms / 10) ticks.
	Sleep = 3
)

// msPerTick is the length of one timer tick in milliseconds; Sleep's
// millisecond argument is converted to ticks against it. 10ms per tick
// matches a 100Hz PIT, the rate this nucleus boots at.
const msPerTick = 10

// readCStringFn lets tests supply a fake "user memory" reader instead of
// dereferencing a raw virtual address.
var readCStringFn = readCString

// Init registers the syscall dispatcher with the interrupt layer.
func Init() {
	irq.HandleSyscall(handle)
}

// handle returns the frame the stub should resume on: the same frame for
// Write and unknown numbers, or the scheduler's chosen frame for Yield and
// Sleep (see irq.Dispatch's context-switch contract).
func handle(frame *irq.Frame) *irq.Frame {
	switch frame.EAX {
	case Write:
		str := readCStringFn(uintptr(frame.EBX))
		hal.ActiveTerminal.Write(str)
		return frame

	case Yield:
		return scheduleFrom(frame)

	case Sleep:
		ticks := msToTicks(frame.EBX)
		process.Sleep(ticks)
		return scheduleFrom(frame)

	default:
		// Unknown syscall numbers are silently ignored; control returns
		// to the caller unchanged.
		return frame
	}
}

// scheduleFrom hands the frame's own address (not its ESP general-register
// field, which holds whatever PUSHA captured and is meaningless as a
// pointer) to the scheduler as the suspended task's stack cursor, and casts
// its chosen cursor back to a frame pointer for the stub to resume.
func scheduleFrom(frame *irq.Frame) *irq.Frame {
	next := process.Schedule(uintptr(unsafe.Pointer(frame)))
	return (*irq.Frame)(unsafe.Pointer(next))
}

// msToTicks rounds up, with a floor of 1 tick — spec.md §4.7 calls for
// ceil(ms/10), not the original C source's floor(ms/10), so even a sub-tick
// sleep request actually suspends the caller for at least one tick.
func msToTicks(ms uint32) uint32 {
	ticks := (ms + msPerTick - 1) / msPerTick
	if ticks == 0 {
		ticks = 1
	}
	return ticks
}

// readCString copies bytes starting at addr up to (and excluding) the first
// NUL byte. No bound on user-supplied pointers is enforced — spec.md §4.7
// notes this is a deliberate, documented simplification.
func readCString(addr uintptr) []byte {
	var out []byte
	for i := uintptr(0); ; i++ {
		b := *(*byte)(unsafe.Pointer(addr + i))
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return out
}
