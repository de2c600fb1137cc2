package shell

import (
	"testing"
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/driver/tty"
	"github.com/jameingh/kernel-dev/kernel/driver/video/console"
	"github.com/jameingh/kernel-dev/kernel/hal"
)

func TestOnCharEchoesToTerminal(t *testing.T) {
	fb := make([]uint16, 80*25)
	cons := &console.Vga{}
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))
	hal.ActiveTerminal = &tty.Vt{}
	hal.ActiveTerminal.AttachTo(cons)

	OnChar('x')

	x, _ := hal.ActiveTerminal.Position()
	if x != 1 {
		t.Fatalf("expected the cursor to advance after echoing a character; got %d", x)
	}
}
