package irq

import (
	"reflect"
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/cpu"
)

const (
	exceptionVectorCount = 32
	irqVectorCount       = 16

	syscallVector = 128
)

// ExceptionHandler handles a CPU exception (vectors 0-31). It returns the
// frame the stub should resume: the same frame for a no-op, or a different
// one to perform a context switch.
type ExceptionHandler func(frame *Frame) *Frame

// IRQHandler handles a hardware interrupt after PIC remap (vectors 32-47,
// indexed here 0-15). Return value has the same context-switch contract as
// ExceptionHandler.
type IRQHandler func(frame *Frame) *Frame

var (
	exceptionHandlers [exceptionVectorCount]ExceptionHandler
	irqHandlers       [irqVectorCount]IRQHandler
	syscallHandler    func(frame *Frame) *Frame

	// haltFn is swapped out by tests.
	haltFn = cpu.Halt

	// fatalExceptionAddr is the physical address fatalException writes
	// the "EXC XX" banner to. Tests point this at a real Go byte slice
	// instead of the VGA buffer.
	fatalExceptionAddr = uintptr(0xB8000)
)

// HandleException registers handler for the given exception vector,
// replacing the default halt-and-report behavior.
func HandleException(num int, handler ExceptionHandler) {
	exceptionHandlers[num] = handler
}

// HandleIRQ registers handler for IRQ line num (0-15, i.e. IDT vector
// 32+num).
func HandleIRQ(num int, handler IRQHandler) {
	irqHandlers[num] = handler
}

// HandleSyscall registers the single handler invoked for vector 128.
func HandleSyscall(handler func(frame *Frame) *Frame) {
	syscallHandler = handler
}

// Dispatch is the Go-side entry point the assembly ISR/IRQ trampoline calls
// for every vector, after it has built a Frame on the stack. It routes to
// the syscall handler, a registered IRQ/exception handler, or the default
// unhandled-exception path, and for hardware interrupts sends the PIC its
// EOI before returning. The stub sets ESP to the returned frame's address,
// pops the saved registers in reverse order, and executes an interrupt
// return; returning the input frame is a no-op, returning a different one
// performs a context switch.
func Dispatch(frame *Frame) *Frame {
	switch {
	case frame.VectorNum == syscallVector:
		if syscallHandler != nil {
			return syscallHandler(frame)
		}
		return frame

	case frame.VectorNum >= irqBase && frame.VectorNum < irqBase+irqVectorCount:
		SendEOI(frame.VectorNum)
		if h := irqHandlers[frame.VectorNum-irqBase]; h != nil {
			return h(frame)
		}
		return frame

	case frame.VectorNum < exceptionVectorCount:
		if h := exceptionHandlers[frame.VectorNum]; h != nil {
			return h(frame)
		}
		fatalException(frame.VectorNum)
		return frame
	}
	return frame
}

// fatalException writes "EXC XX" directly to the top-left of the VGA text
// buffer and halts. It bypasses the tty/console machinery deliberately:
// an unhandled exception may occur before the terminal is initialized, and
// this path must work regardless.
func fatalException(vectorNum uint32) {
	const hexDigits = "0123456789ABCDEF"
	vga := *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  6,
		Cap:  6,
		Data: fatalExceptionAddr,
	}))

	const attr = uint16(0x0C00) // red on black
	msg := [6]byte{'E', 'X', 'C', ' ', hexDigits[(vectorNum>>4)&0xF], hexDigits[vectorNum&0xF]}
	for i, ch := range msg {
		vga[i] = attr | uint16(ch)
	}

	haltFn()
}
