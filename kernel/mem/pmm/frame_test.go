package pmm

import (
	"testing"

	"github.com/jameingh/kernel-dev/kernel/mem"
)

func TestFrameIsValid(t *testing.T) {
	if InvalidFrame.IsValid() {
		t.Fatal("expected InvalidFrame to be invalid")
	}
	if !Frame(1).IsValid() {
		t.Fatal("expected frame 1 to be valid")
	}
}

func TestFrameAddress(t *testing.T) {
	f := Frame(2)
	if got, want := f.Address(), uintptr(2)*uintptr(mem.PageSize); got != want {
		t.Fatalf("expected address %#x; got %#x", want, got)
	}
}

func TestFrameFromAddress(t *testing.T) {
	addr := uintptr(3) * uintptr(mem.PageSize)
	if got, want := FrameFromAddress(addr), Frame(3); got != want {
		t.Fatalf("expected frame %d; got %d", want, got)
	}
}
