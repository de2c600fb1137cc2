package irq

import "github.com/jameingh/kernel-dev/kernel/cpu"

const (
	pic1Command = 0x20
	pic1Data    = 0x21
	pic2Command = 0xA0
	pic2Data    = 0xA1

	icwInitNeedICW4 = 0x11 // ICW1_INIT | ICW1_ICW4
	icw4_8086       = 0x01

	// irqBase is the first IRQ vector after PIC remap; IRQ8-15 (the slave
	// PIC line) fall at irqBase+8 and above.
	irqBase = 32
)

var (
	// inbFn, outbFn and ioWaitFn are swapped out by tests, which cannot
	// execute the privileged IN/OUT instructions.
	inbFn    = cpu.Inb
	outbFn   = cpu.Outb
	ioWaitFn = cpu.IOWait
)

// RemapPIC moves IRQ0-15 from their default (and exception-colliding)
// vectors 0x08/0x70 to offset1/offset2, then overwrites both PICs' interrupt
// masks (the masks read beforehand are discarded), leaving only the timer,
// keyboard and cascade lines of the master unmasked.
func RemapPIC(offset1, offset2 uint8) {
	_ = inbFn(pic1Data)
	_ = inbFn(pic2Data)

	outbFn(pic1Command, icwInitNeedICW4)
	ioWaitFn()
	outbFn(pic2Command, icwInitNeedICW4)
	ioWaitFn()

	outbFn(pic1Data, offset1)
	ioWaitFn()
	outbFn(pic2Data, offset2)
	ioWaitFn()

	outbFn(pic1Data, 4) // tell master PIC there's a slave at IRQ2
	ioWaitFn()
	outbFn(pic2Data, 2) // tell slave PIC its cascade identity
	ioWaitFn()

	outbFn(pic1Data, icw4_8086)
	ioWaitFn()
	outbFn(pic2Data, icw4_8086)
	ioWaitFn()

	// Unmask IRQ0 (timer), IRQ1 (keyboard) and IRQ2 (cascade) on the
	// master, leave the slave's lines masked until a driver needs one.
	outbFn(pic1Data, 0xF8)
	outbFn(pic2Data, 0xFF)
}

// SendEOI acknowledges an IRQ so the PIC will deliver further interrupts on
// that line. vector is the IDT vector number (32-47); IRQ8 and above also
// need an EOI sent to the slave PIC.
func SendEOI(vector uint32) {
	if vector >= irqBase+8 {
		outbFn(pic2Command, 0x20)
	}
	outbFn(pic1Command, 0x20)
}
