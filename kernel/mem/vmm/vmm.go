// Package vmm builds the kernel's initial address space and switches the
// CPU into paged mode. The layout it establishes is fixed: an identity map
// for the low 4 MiB, a higher-half alias of the same range, and a private
// heap region, all set up once during boot.
package vmm

import (
	"github.com/jameingh/kernel-dev/kernel/cpu"
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
	"github.com/jameingh/kernel-dev/kernel/mem"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
)

// Fixed virtual memory layout, per the memory map the rest of the nucleus
// is built against.
const (
	IdentityMapSize = 4 * mem.Mb

	HigherHalfBase = uintptr(0xC0000000)

	HeapBase = uintptr(0xD0000000)
	HeapSize = 1 * mem.Mb
)

var (
	// allocPageFn is swapped out by tests so Init doesn't need a real PMM
	// backing it.
	allocPageFn = pmm.FrameAllocator.AllocPage

	// haltFn is swapped out by tests; Init calls it when a frame
	// allocation needed to build the address space fails.
	haltFn = cpu.Halt

	// setPageDirectoryFn and enablePagingFn are swapped out by tests,
	// which cannot safely execute the privileged CR3/CR0 writes that
	// actually switch the CPU into paged mode.
	setPageDirectoryFn = cpu.SetPageDirectory
	enablePagingFn     = cpu.EnablePaging

	// pdtPhysAddr is the physical address of the active page directory,
	// recorded so tests and diagnostics can inspect the built tables.
	pdtPhysAddr uintptr
)

// Init builds the page directory, identity-maps the low 4 MiB, aliases it
// at the higher-half base, maps in the heap region, and enables paging. Any
// allocation failure while building the tables is fatal: paging cannot
// safely be enabled with a partially built address space.
func Init() {
	pdtFrame := allocPageFn()
	if pdtFrame == 0 {
		fatalOOM()
		return
	}
	pdtPhysAddr = pdtFrame
	clearTable(pdtPhysAddr)

	identityPT := allocPageFn()
	if identityPT == 0 {
		fatalOOM()
		return
	}
	clearTable(identityPT)
	mapRangeIntoTable(identityPT, 0, IdentityMapSize, FlagPresent|FlagRW|FlagUser)

	pdt := tableAt(pdtPhysAddr)
	identityPDE := &pdt[pdeIndex(0)]
	identityPDE.SetFrame(pmm.FrameFromAddress(identityPT))
	identityPDE.SetFlags(FlagPresent | FlagRW | FlagUser)

	higherHalfPDE := &pdt[pdeIndex(HigherHalfBase)]
	higherHalfPDE.SetFrame(pmm.FrameFromAddress(identityPT))
	higherHalfPDE.SetFlags(FlagPresent | FlagRW)

	heapPT := allocPageFn()
	if heapPT == 0 {
		fatalOOM()
		return
	}
	clearTable(heapPT)

	heapPages := uint32(HeapSize / mem.PageSize)
	table := tableAt(heapPT)
	for i := uint32(0); i < heapPages; i++ {
		frame := allocPageFn()
		if frame == 0 {
			fatalOOM()
			return
		}
		table[i].SetFrame(pmm.FrameFromAddress(frame))
		table[i].SetFlags(FlagPresent | FlagRW | FlagUser)
	}

	heapPDE := &pdt[pdeIndex(HeapBase)]
	heapPDE.SetFrame(pmm.FrameFromAddress(heapPT))
	heapPDE.SetFlags(FlagPresent | FlagRW | FlagUser)

	setPageDirectoryFn(pdtPhysAddr)
	enablePagingFn()

	early.Printf("VMM initialized! Higher-half mapped at 0xC0000000.\n")
}

func clearTable(physAddr uintptr) {
	mem.Memset(physAddr, 0, mem.Size(entriesPerTable)*4)
}

// mapRangeIntoTable fills pt with consecutive identity-mapped entries for
// the first size bytes of virtual address space starting at base, i.e.
// pt[i] maps frame (base/PageSize)+i.
func mapRangeIntoTable(ptPhysAddr, base uintptr, size mem.Size, flags PageTableEntryFlag) {
	table := tableAt(ptPhysAddr)
	pages := uint32(size / mem.PageSize)
	startFrame := pmm.FrameFromAddress(base)
	for i := uint32(0); i < pages; i++ {
		table[i].SetFrame(startFrame + pmm.Frame(i))
		table[i].SetFlags(flags)
	}
}

func fatalOOM() {
	early.Printf("vmm: out of memory while building the initial address space\n")
	haltFn()
}

// PDTPhysAddr returns the physical address of the active page directory.
// Exposed for diagnostics and tests.
func PDTPhysAddr() uintptr {
	return pdtPhysAddr
}
