// Package keyboard translates PS/2 Set-1 scancodes into ASCII and forwards
// them to whatever OnChar hook is registered.
package keyboard

import "github.com/jameingh/kernel-dev/kernel/cpu"

const dataPort = 0x60

// Break-code bit: Set-1 make codes have bit 7 clear, break (key-up) codes
// have it set.
const breakBit = 0x80

const (
	scLeftShift  = 0x2A
	scRightShift = 0x36
	scLeftShiftUp  = scLeftShift | breakBit
	scRightShiftUp = scRightShift | breakBit
	scCapsLock   = 0x3A
)

// scancodeTableSize covers every Set-1 make code; break codes (bit 7 set)
// are filtered out by Translate before either table below is indexed.
const scancodeTableSize = 0x80

// lowercase holds the ASCII a Set-1 make code maps to with neither Shift
// nor Caps Lock active; 0 means "no printable mapping". A fixed-size array
// rather than a map: both tables are fixed, read-only data that must be
// ready before the Go runtime's own allocator is bootstrapped (see
// kernel/goruntime) — a map literal's backing hashmap is built by a
// runtime allocation at package-init time, before Kmain ever runs, which
// would be too early regardless of how soon Kmain calls goruntime.Init.
// An array literal is plain static data, so it carries no such ordering
// requirement.
var lowercase = [scancodeTableSize]byte{
	0x0E: '\b',
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x0C: '-', 0x0D: '=',
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1A: '[', 0x1B: ']', 0x1C: '\n',
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l',
	0x27: ';', 0x28: '\'', 0x29: '`',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm', 0x33: ',', 0x34: '.', 0x35: '/',
	0x39: ' ',
}

// letterKeys holds the scancodes whose case actually changes with
// shift/caps; the rest of the table (digits, punctuation) has a single
// case. Same fixed-array reasoning as lowercase above.
var letterKeys = [scancodeTableSize]bool{
	0x10: true, 0x11: true, 0x12: true, 0x13: true, 0x14: true,
	0x15: true, 0x16: true, 0x17: true, 0x18: true, 0x19: true,
	0x1E: true, 0x1F: true, 0x20: true, 0x21: true, 0x22: true,
	0x23: true, 0x24: true, 0x25: true, 0x26: true,
	0x2C: true, 0x2D: true, 0x2E: true, 0x2F: true, 0x30: true,
	0x31: true, 0x32: true,
}

var (
	shiftOn bool
	capsOn  bool

	// keyCount counts make codes that produced a character, for the
	// status line's Keys:<count> field.
	keyCount uint32

	// onChar is invoked with each translated character; wired to the
	// shell's input hook at boot.
	onChar func(ch byte)

	// inbFn is swapped out by tests, which cannot execute the privileged
	// IN instruction.
	inbFn = cpu.Inb
)

// KeyCount returns the number of keystrokes translated to a character since
// boot.
func KeyCount() uint32 {
	return keyCount
}

// OnChar registers the callback invoked for every translated keystroke.
func OnChar(fn func(ch byte)) {
	onChar = fn
}

// HandleIRQ reads the pending scancode from the controller and, if it
// translates to a character, forwards it to the registered OnChar hook.
// Shift and Caps Lock scancodes update modifier state instead of producing
// output; break codes other than shift-release are ignored entirely.
func HandleIRQ() {
	sc := inbFn(dataPort)
	Translate(sc)
}

// Translate applies scancode sc to the driver's modifier state and, if it
// produces a character, forwards it to the registered OnChar hook. Exposed
// separately from HandleIRQ so tests can drive the state machine without a
// real keyboard controller.
func Translate(sc uint8) {
	switch sc {
	case scLeftShift, scRightShift:
		shiftOn = true
		return
	case scLeftShiftUp, scRightShiftUp:
		shiftOn = false
		return
	case scCapsLock:
		capsOn = !capsOn
		return
	}

	if sc&breakBit != 0 {
		return
	}

	ch := lowercase[sc]
	if ch == 0 {
		return
	}

	if letterKeys[sc] && (shiftOn != capsOn) {
		ch = ch - 'a' + 'A'
	}

	keyCount++
	if onChar != nil {
		onChar(ch)
	}
}
