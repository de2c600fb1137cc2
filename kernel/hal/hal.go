// Package hal exposes the hardware abstraction the rest of the nucleus talks
// to for console output: a single active terminal, set up once at boot
// before anything else (including early.Printf) can run.
package hal

import (
	"github.com/jameingh/kernel-dev/kernel/driver/tty"
	"github.com/jameingh/kernel-dev/kernel/driver/video/console"
)

var (
	vgaConsole = &console.Vga{}

	// ActiveTerminal is the terminal every logging call in the kernel
	// writes through. It is valid as soon as InitTerminal returns.
	ActiveTerminal = &tty.Vt{}
)

// InitTerminal wires up the VGA text console and attaches the terminal to
// it. Output written through early.Printf before this call is discarded.
func InitTerminal() {
	vgaConsole.Init(80, 25, console.DefaultPhysAddr)
	ActiveTerminal.AttachTo(vgaConsole)
}

// statusLineAttr is black-background, light-grey-foreground, matching the
// rest of the terminal's default attribute.
const statusLineAttr = console.Attr(uint8(console.Black)<<4 | uint8(console.LightGrey))

// statusLineCols is the width of the trailing span of VGA row 0 reserved
// for the Hz/Keys/MemFree status line.
const statusLineCols = 30

// RefreshStatusLine right-justifies msg into the last statusLineCols
// columns of row 0, bypassing the scrolling terminal so status updates
// never disturb the scrollback.
func RefreshStatusLine(msg string) {
	vgaConsole.WriteStatusLine(msg, statusLineCols, statusLineAttr)
}
