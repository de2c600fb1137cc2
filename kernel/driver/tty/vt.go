// Package tty implements a minimal terminal that interprets CR/LF/backspace
// and renders through a console.Vga device.
package tty

import "github.com/jameingh/kernel-dev/kernel/driver/video/console"

const (
	defaultFg = console.LightGrey
	defaultBg = console.Black
	tabWidth  = 4
)

// Vt is a simple terminal driving a VGA text console.
type Vt struct {
	cons *console.Vga

	width  uint16
	height uint16

	curX, curY uint16
	curAttr    console.Attr
}

// AttachTo links the terminal to cons and resets the cursor to (0, 0).
func (t *Vt) AttachTo(cons *console.Vga) {
	t.cons = cons
	t.width, t.height = cons.Dimensions()
	t.curX, t.curY = 0, 0
	t.curAttr = console.MakeAttr(defaultFg, defaultBg)
}

// Clear clears the terminal and homes the cursor.
func (t *Vt) Clear() {
	t.cons.Clear(t.curAttr)
	t.curX, t.curY = 0, 0
}

// Position returns the current cursor position.
func (t *Vt) Position() (uint16, uint16) {
	return t.curX, t.curY
}

// Write implements io.Writer.
func (t *Vt) Write(data []byte) (int, error) {
	for _, b := range data {
		t.WriteByte(b)
	}
	return len(data), nil
}

// WriteByte implements io.ByteWriter. Bytes written before AttachTo has been
// called are discarded.
func (t *Vt) WriteByte(b byte) error {
	if t.cons == nil {
		return nil
	}
	switch b {
	case '\r':
		t.cr()
	case '\n':
		t.cr()
		t.lf()
	case '\b':
		if t.curX > 0 {
			t.curX--
			t.cons.Write(' ', t.curAttr, t.curX, t.curY)
		}
	case '\t':
		for i := 0; i < tabWidth; i++ {
			t.advance()
		}
	default:
		t.cons.Write(b, t.curAttr, t.curX, t.curY)
		t.advance()
	}
	return nil
}

func (t *Vt) advance() {
	t.curX++
	if t.curX == t.width {
		t.cr()
		t.lf()
	}
}

func (t *Vt) cr() {
	t.curX = 0
}

func (t *Vt) lf() {
	t.curY++
	if t.curY == t.height {
		t.cons.Scroll(t.curAttr)
		t.curY = t.height - 1
	}
}
