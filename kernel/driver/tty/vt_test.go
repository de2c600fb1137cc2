package tty

import (
	"testing"
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/driver/video/console"
)

func newTestVt() (*Vt, *console.Vga) {
	fb := make([]uint16, 80*25)
	cons := &console.Vga{}
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))
	var vt Vt
	vt.AttachTo(cons)
	return &vt, cons
}

func TestWriteAdvancesCursor(t *testing.T) {
	vt, _ := newTestVt()
	vt.Write([]byte("AB"))
	if x, y := vt.Position(); x != 2 || y != 0 {
		t.Fatalf("expected cursor at (2, 0); got (%d, %d)", x, y)
	}
}

func TestNewlineResetsColumn(t *testing.T) {
	vt, _ := newTestVt()
	vt.Write([]byte("AB\n"))
	if x, y := vt.Position(); x != 0 || y != 1 {
		t.Fatalf("expected cursor at (0, 1) after newline; got (%d, %d)", x, y)
	}
}

func TestBackspaceMovesCursorLeft(t *testing.T) {
	vt, _ := newTestVt()
	vt.Write([]byte("AB"))
	vt.WriteByte('\b')
	if x, y := vt.Position(); x != 1 || y != 0 {
		t.Fatalf("expected cursor at (1, 0) after backspace; got (%d, %d)", x, y)
	}
}

func TestBackspaceAtColumnZeroIsNoOp(t *testing.T) {
	vt, _ := newTestVt()
	vt.WriteByte('\b')
	if x, y := vt.Position(); x != 0 || y != 0 {
		t.Fatalf("expected cursor to stay at (0, 0); got (%d, %d)", x, y)
	}
}

func TestLineWrapAdvancesRow(t *testing.T) {
	vt, _ := newTestVt()
	for i := 0; i < 80; i++ {
		vt.WriteByte('x')
	}
	if x, y := vt.Position(); x != 0 || y != 1 {
		t.Fatalf("expected wrap to (0, 1); got (%d, %d)", x, y)
	}
}
