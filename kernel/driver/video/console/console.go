// Package console implements the VGA text-mode console: an 80x25 grid of
// character/attribute cells living at physical address 0xB8000.
package console

import (
	"reflect"
	"unsafe"
)

// Attr packs a foreground/background color pair into the attribute byte
// VGA text mode expects: (bg << 4) | fg.
type Attr uint8

// Color is one of the 16 VGA text-mode colors.
type Color uint8

// The 16 standard VGA text-mode colors.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// MakeAttr packs a foreground and background color into an Attr.
func MakeAttr(fg, bg Color) Attr {
	return Attr(uint8(bg)<<4 | uint8(fg))
}

// DefaultPhysAddr is the physical address of the VGA text-mode framebuffer.
const DefaultPhysAddr = uintptr(0xB8000)

// Vga implements a text console backed directly by the VGA text-mode
// framebuffer. Each cell is a little-endian uint16: low byte is the
// character, high byte is the attribute.
type Vga struct {
	width  uint16
	height uint16
	fb     []uint16
}

// Init sets up the console dimensions and maps the framebuffer at physAddr
// into a Go slice by constructing a reflect.SliceHeader over it. This is the
// one place in the console driver that needs unsafe: there is no
// allocator-backed way to get a slice over memory the kernel didn't allocate
// itself. hal passes console.DefaultPhysAddr; tests pass the
// address of a plain Go slice to exercise the console without real hardware.
func (cons *Vga) Init(width, height uint16, physAddr uintptr) {
	cons.width = width
	cons.height = height

	cons.fb = *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  int(cons.width) * int(cons.height),
		Cap:  int(cons.width) * int(cons.height),
		Data: physAddr,
	}))
}

// Dimensions returns the console width and height in characters.
func (cons *Vga) Dimensions() (uint16, uint16) {
	return cons.width, cons.height
}

// Write places a single character with the given attribute at (x, y).
func (cons *Vga) Write(ch byte, attr Attr, x, y uint16) {
	if x >= cons.width || y >= cons.height {
		return
	}
	cons.fb[uint32(y)*uint32(cons.width)+uint32(x)] = uint16(attr)<<8 | uint16(ch)
}

// Clear blanks the entire console using the supplied attribute.
func (cons *Vga) Clear(attr Attr) {
	blank := uint16(attr)<<8 | uint16(' ')
	for i := range cons.fb {
		cons.fb[i] = blank
	}
}

// Scroll moves every row up by one line and blanks the last row, using attr
// for the newly-exposed cells.
func (cons *Vga) Scroll(attr Attr) {
	rowCells := int(cons.width)
	copy(cons.fb, cons.fb[rowCells:])

	blank := uint16(attr)<<8 | uint16(' ')
	lastRow := cons.fb[int(cons.height-1)*rowCells:]
	for i := range lastRow {
		lastRow[i] = blank
	}
}

// WriteStatusLine right-justifies msg into the trailing cols columns of row
// 0, clearing the remainder of that span first. Used for the Hz/Keys/MemFree
// status line, which must never disturb the rest of row 0.
func (cons *Vga) WriteStatusLine(msg string, cols uint16, attr Attr) {
	if cols > cons.width {
		cols = cons.width
	}
	start := cons.width - cols
	blank := uint16(attr)<<8 | uint16(' ')
	for x := start; x < cons.width; x++ {
		cons.fb[x] = blank
	}

	msgStart := start
	if len(msg) < int(cols) {
		msgStart = cons.width - uint16(len(msg))
	}
	for i := 0; i < len(msg) && msgStart+uint16(i) < cons.width; i++ {
		cons.Write(msg[i], attr, msgStart+uint16(i), 0)
	}
}
