// Package goruntime bootstraps the Go runtime's own allocator so that
// ordinary Go constructs — make, append, map literals, string
// concatenation, closures and other values that escape to the heap — work
// once Kmain has paging enabled. Grounded on gopheros's
// kernel/goruntime/bootstrap.go, which redirects the runtime's
// sysReserve/sysMap/sysAlloc onto its own virtual memory manager instead of
// an underlying OS's mmap.
//
// This nucleus has no demand-paging or fault-driven commit (a documented
// Non-goal), so unlike the upstream sysMap — which maps a shared
// copy-on-write zero frame and commits real frames lazily on first write
// fault — sysMap here commits real frames eagerly, identically to sysAlloc.
//
// The go:linkname set below matches gopheros's own go1.8-and-later variant;
// gopheros itself imposes no upper bound on it, so the same set is used
// here against this module's declared go 1.21.
package goruntime

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/mem"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
	"github.com/jameingh/kernel-dev/kernel/mem/vmm"
)

var (
	mapFn                = vmm.Map
	earlyReserveRegionFn = vmm.EarlyReserveRegion
	frameAllocFn         = pmm.FrameAllocator.AllocPage

	mallocInitFn    = mallocInit
	algInitFn       = algInit
	modulesInitFn   = modulesInit
	typeLinksInitFn = typeLinksInit
	itabsInitFn     = itabsInit

	// prngSeed seeds the fallback random source used by getRandomData.
	prngSeed = uint32(0xdeadc0de)
)

//go:linkname algInit runtime.alginit
func algInit()

//go:linkname modulesInit runtime.modulesinit
func modulesInit()

//go:linkname typeLinksInit runtime.typelinksinit
func typeLinksInit()

//go:linkname itabsInit runtime.itabsinit
func itabsInit()

//go:linkname mallocInit runtime.mallocinit
func mallocInit()

//go:linkname mSysStatInc runtime.mSysStatInc
func mSysStatInc(*uint64, uintptr)

// sysReserve replaces runtime.sysReserve: reserve address space without
// committing any physical frames.
//
//go:redirect-from runtime.sysReserve
//go:nosplit
func sysReserve(_ unsafe.Pointer, size uintptr, reserved *bool) unsafe.Pointer {
	addr := earlyReserveRegionFn(mem.Size(size))
	if addr == 0 {
		panic("goruntime: out of address space in sysReserve")
	}
	*reserved = true
	return unsafe.Pointer(addr)
}

// sysMap replaces runtime.sysMap; see the package doc for why it commits
// frames eagerly rather than lazily.
//
//go:redirect-from runtime.sysMap
//go:nosplit
func sysMap(virtAddr unsafe.Pointer, size uintptr, reserved bool, sysStat *uint64) unsafe.Pointer {
	if !reserved {
		panic("goruntime: sysMap called with reserved=false")
	}
	return commitFrames(uintptr(virtAddr), size, sysStat)
}

// sysAlloc replaces runtime.sysAlloc: reserve a fresh region and commit
// real frames for it immediately.
//
//go:redirect-from runtime.sysAlloc
//go:nosplit
func sysAlloc(size uintptr, sysStat *uint64) unsafe.Pointer {
	addr := earlyReserveRegionFn(mem.Size(size))
	if addr == 0 {
		return unsafe.Pointer(uintptr(0))
	}
	return commitFrames(addr, size, sysStat)
}

// commitFrames maps pageCount present, writable pages starting at addr,
// one real frame per page, used by both sysMap and sysAlloc.
func commitFrames(addr uintptr, size uintptr, sysStat *uint64) unsafe.Pointer {
	pageSize := uintptr(mem.PageSize)
	base := addr &^ (pageSize - 1)
	pageCount := (size + pageSize - 1) / pageSize

	for i := uintptr(0); i < pageCount; i++ {
		physAddr := frameAllocFn()
		if physAddr == 0 {
			return unsafe.Pointer(uintptr(0))
		}
		virtAddr := base + i*pageSize
		if ok := mapFn(virtAddr, pmm.FrameFromAddress(physAddr), vmm.FlagPresent|vmm.FlagRW); !ok {
			return unsafe.Pointer(uintptr(0))
		}
	}

	mSysStatInc(sysStat, pageCount*pageSize)
	return unsafe.Pointer(base)
}

// nanotime replaces runtime.nanotime. No timekeeper exists this early in
// boot, so this returns a constant monotonic-looking value; the loop below
// only exists to stop the compiler inlining the function away.
//
//go:redirect-from runtime.nanotime
//go:nosplit
func nanotime() uint64 {
	for i := 0; i < 100; i++ {
	}
	return 1
}

// getRandomData replaces runtime.getRandomData. There's no /dev/random on
// bare metal, so this falls back to a linear congruential generator; good
// enough for map seeding, not for anything security-sensitive.
//
//go:redirect-from runtime.getRandomData
func getRandomData(r []byte) {
	for i := range r {
		prngSeed = (prngSeed * 58321) + 11113
		r[i] = byte((prngSeed >> 16) & 255)
	}
}

// Init enables the Go runtime features every other package in this nucleus
// takes for granted: heap allocation (new, make, append, string
// concatenation), map primitives, and interfaces. Must be called after
// vmm.Init has enabled paging and before any code that relies on those
// constructs runs — which, in practice, means first thing in Kmain after
// vmm.Init, ahead of heap.Init, process.Init, and everything downstream of
// them.
func Init() {
	mallocInitFn()
	algInitFn()       // hash implementation for map keys
	modulesInitFn()   // provides activeModules
	typeLinksInitFn() // uses maps, activeModules
	itabsInitFn()     // uses activeModules
}

func init() {
	// Dummy calls so the compiler does not discard the redirect targets
	// above as unused.
	var (
		reserved bool
		stat     uint64
		zeroPtr  = unsafe.Pointer(uintptr(0))
	)
	sysReserve(zeroPtr, 0, &reserved)
	sysMap(zeroPtr, 0, reserved, &stat)
	sysAlloc(0, &stat)
	getRandomData(nil)
	stat = nanotime()
}
