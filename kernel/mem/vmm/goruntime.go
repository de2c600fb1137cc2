package vmm

import (
	"github.com/jameingh/kernel-dev/kernel/mem"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
)

// GoRuntimeBase/GoRuntimeSize reserve a range of virtual address space for
// the Go runtime's own allocator (see kernel/goruntime), kept separate from
// the hand-rolled kmalloc arena at HeapBase. Unlike HeapBase, this range is
// not pre-mapped by Init: EarlyReserveRegion hands out sub-ranges of it on
// demand, and Map backs each one with real frames as the Go allocator asks
// for them.
const (
	GoRuntimeBase = uintptr(0xD1000000)
	GoRuntimeSize = 8 * mem.Mb
)

var goRuntimeNext = GoRuntimeBase

// EarlyReserveRegion bump-allocates the next size bytes, rounded up to a
// whole number of pages, out of the Go-runtime address range. It reserves
// address space only; no physical frame is committed until Map is called
// for the addresses inside it. Returns 0 if the range is exhausted.
func EarlyReserveRegion(size mem.Size) uintptr {
	regionSize := uintptr(size.Pages()) * uintptr(mem.PageSize)
	if goRuntimeNext+regionSize > GoRuntimeBase+uintptr(GoRuntimeSize) {
		return 0
	}
	addr := goRuntimeNext
	goRuntimeNext += regionSize
	return addr
}

// Map installs a single present page table entry for virtAddr, allocating
// and clearing a new page table if the containing 4 MiB region doesn't
// have one yet. Used by kernel/goruntime to back address space it reserved
// via EarlyReserveRegion with real frames.
func Map(virtAddr uintptr, frame pmm.Frame, flags PageTableEntryFlag) bool {
	pdt := tableAt(pdtPhysAddr)
	pde := &pdt[pdeIndex(virtAddr)]
	if !pde.HasFlags(FlagPresent) {
		ptFrame := allocPageFn()
		if ptFrame == 0 {
			return false
		}
		clearTable(ptFrame)
		pde.SetFrame(pmm.FrameFromAddress(ptFrame))
		pde.SetFlags(FlagPresent | FlagRW | FlagUser)
	}

	pt := tableAt(pde.Frame().Address())
	pte := &pt[pteIndex(virtAddr)]
	pte.SetFrame(frame)
	pte.SetFlags(flags)
	return true
}
