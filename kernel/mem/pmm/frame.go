// Package pmm manages allocation of physical memory frames.
package pmm

import "github.com/jameingh/kernel-dev/kernel/mem"

// Frame describes a physical memory page index.
type Frame uint32

// InvalidFrame is returned by the allocator when it cannot satisfy a
// request; it doubles as the nil-physical-address sentinel (frame 0 is
// always reserved, so 0 can never be a legitimate allocation result).
const InvalidFrame = Frame(0)

// IsValid reports whether f was actually returned by a successful
// allocation.
func (f Frame) IsValid() bool {
	return f != InvalidFrame
}

// Address returns the physical address at the start of this frame.
func (f Frame) Address() uintptr {
	return uintptr(f) << mem.PageShift
}

// FrameFromAddress returns the frame number containing addr.
func FrameFromAddress(addr uintptr) Frame {
	return Frame(addr >> mem.PageShift)
}
