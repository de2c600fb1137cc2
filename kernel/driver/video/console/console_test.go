package console

import (
	"testing"
	"unsafe"
)

func TestVgaInit(t *testing.T) {
	fb := make([]uint16, 80*25)
	var cons Vga
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))

	if w, h := cons.Dimensions(); w != 80 || h != 25 {
		t.Fatalf("expected dimensions (80, 25); got (%d, %d)", w, h)
	}
}

func TestVgaWriteAndClear(t *testing.T) {
	fb := make([]uint16, 80*25)
	var cons Vga
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))

	attr := MakeAttr(White, Black)
	cons.Write('A', attr, 5, 2)

	got := cons.fb[2*80+5]
	want := uint16(attr)<<8 | uint16('A')
	if got != want {
		t.Fatalf("expected cell to be %#04x; got %#04x", want, got)
	}

	cons.Clear(attr)
	blank := uint16(attr)<<8 | uint16(' ')
	for i, v := range cons.fb {
		if v != blank {
			t.Fatalf("cell %d not cleared: got %#04x, want %#04x", i, v, blank)
		}
	}
}

func TestVgaWriteOutOfBounds(t *testing.T) {
	fb := make([]uint16, 80*25)
	var cons Vga
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))

	// Must not panic and must not touch the framebuffer.
	cons.Write('Z', MakeAttr(White, Black), 200, 200)
	for _, v := range cons.fb {
		if v != 0 {
			t.Fatalf("expected framebuffer untouched, found %#04x", v)
		}
	}
}

func TestVgaScroll(t *testing.T) {
	fb := make([]uint16, 80*25)
	var cons Vga
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))

	attr := MakeAttr(White, Black)
	cons.Write('X', attr, 0, 1)
	cons.Scroll(attr)

	if got := cons.fb[0]; got != uint16(attr)<<8|uint16('X') {
		t.Fatalf("expected row 0 to contain the scrolled-up 'X' cell, got %#04x", got)
	}

	blank := uint16(attr)<<8 | uint16(' ')
	lastRow := cons.fb[24*80:]
	for i, v := range lastRow {
		if v != blank {
			t.Fatalf("expected last row cleared after scroll, cell %d got %#04x", i, v)
		}
	}
}

func TestVgaWriteStatusLine(t *testing.T) {
	fb := make([]uint16, 80*25)
	var cons Vga
	cons.Init(80, 25, uintptr(unsafe.Pointer(&fb[0])))

	attr := MakeAttr(LightGrey, Black)
	cons.WriteStatusLine("Hz:100 Keys:0 MemFree:16000", 30, attr)

	msg := "Hz:100 Keys:0 MemFree:16000"
	start := int(cons.width) - len(msg)
	for i := 0; i < len(msg); i++ {
		got := cons.fb[start+i]
		want := uint16(attr)<<8 | uint16(msg[i])
		if got != want {
			t.Fatalf("status line cell %d: got %#04x, want %#04x", i, got, want)
		}
	}
}
