package kernel

import (
	"github.com/jameingh/kernel-dev/kernel/driver/keyboard"
	"github.com/jameingh/kernel-dev/kernel/hal"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
)

// pitRate is recorded at boot purely for the status line; it never changes
// at runtime since the PIT is programmed once.
var pitRate uint32

// refreshStatusLine renders "Hz:<rate> Keys:<count> MemFree:<frames>" into
// the trailing columns of VGA row 0. Grounded on
// original_source/interrupts.c's draw_status.
func refreshStatusLine() {
	msg := "Hz:" + decimal(pitRate) + " Keys:" + decimal(keyboard.KeyCount()) + " MemFree:" + decimal(pmm.FrameAllocator.FreePages())
	hal.RefreshStatusLine(msg)
}

// decimal renders v in base 10 without pulling in strconv, which drags in
// more of the standard library's formatting machinery than a freestanding
// kernel wants on a hot interrupt path.
func decimal(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
