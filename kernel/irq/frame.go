// Package irq sets up the GDT, IDT, PIC and PIT, and dispatches CPU
// exceptions and hardware interrupts to registered handlers.
package irq

import "github.com/jameingh/kernel-dev/kernel/kfmt"

// Frame is the register snapshot the assembly ISR/IRQ stubs build on the
// stack before calling into Go. Field order matches the push order exactly:
// segment selectors first (pushed manually by the stub), then the pusha
// block, then vector/error code, then whatever the CPU itself pushed.
// UserESP and UserSS are only meaningful when the interrupt crossed from
// Ring 3; on a same-ring interrupt they hold whatever garbage followed
// EFlags on the stack and must not be read.
type Frame struct {
	GS, FS, ES, DS uint32

	EDI, ESI, EBP, ESP, EBX, EDX, ECX, EAX uint32

	VectorNum, ErrCode uint32

	EIP, CS, EFlags uint32
	UserESP, UserSS uint32
}

// Print dumps the frame's general registers, EIP, CS and EFLAGS to the
// active terminal.
func (f *Frame) Print() {
	kfmt.Printf("EAX=%x EBX=%x ECX=%x EDX=%x\n", f.EAX, f.EBX, f.ECX, f.EDX)
	kfmt.Printf("ESI=%x EDI=%x EBP=%x ESP=%x\n", f.ESI, f.EDI, f.EBP, f.ESP)
	kfmt.Printf("EIP=%x CS=%x EFLAGS=%x\n", f.EIP, f.CS, f.EFlags)
}
