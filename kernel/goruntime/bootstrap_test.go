package goruntime

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/mem"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
	"github.com/jameingh/kernel-dev/kernel/mem/vmm"
)

func resetBootstrapFns() {
	mapFn = vmm.Map
	earlyReserveRegionFn = vmm.EarlyReserveRegion
	frameAllocFn = pmm.FrameAllocator.AllocPage
}

func TestSysReserveSuccess(t *testing.T) {
	defer resetBootstrapFns()

	var gotSize uintptr
	earlyReserveRegionFn = func(size mem.Size) uintptr {
		gotSize = uintptr(size)
		return 0xbadf00d
	}

	var reserved bool
	ptr := sysReserve(nil, 4096, &reserved)

	if !reserved {
		t.Fatal("expected sysReserve to mark the region reserved")
	}
	if uintptr(ptr) != 0xbadf00d {
		t.Fatalf("expected sysReserve to return the reserved address; got %#x", uintptr(ptr))
	}
	if gotSize != 4096 {
		t.Fatalf("expected the requested size to be forwarded; got %d", gotSize)
	}
}

func TestSysReservePanicsOnExhaustion(t *testing.T) {
	defer resetBootstrapFns()
	defer func() {
		if recover() == nil {
			t.Fatal("expected sysReserve to panic when the address range is exhausted")
		}
	}()

	earlyReserveRegionFn = func(mem.Size) uintptr { return 0 }

	var reserved bool
	sysReserve(nil, 4096, &reserved)
}

func TestSysMapPanicsWhenNotReserved(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected sysMap to panic when reserved=false")
		}
	}()

	var stat uint64
	sysMap(nil, 4096, false, &stat)
}

func TestSysMapCommitsOnePageAtATime(t *testing.T) {
	defer resetBootstrapFns()

	var mappedAddrs []uintptr
	frameAllocFn = func() uintptr { return uintptr(mem.PageSize) }
	mapFn = func(virtAddr uintptr, frame pmm.Frame, flags vmm.PageTableEntryFlag) bool {
		mappedAddrs = append(mappedAddrs, virtAddr)
		wantFlags := vmm.FlagPresent | vmm.FlagRW
		if flags != wantFlags {
			t.Errorf("expected flags %v; got %v", wantFlags, flags)
		}
		return true
	}

	var stat uint64
	ptr := sysMap(unsafe.Pointer(uintptr(0x1000)), uintptr(2*mem.PageSize), true, &stat)

	if uintptr(ptr) != 0x1000 {
		t.Fatalf("expected sysMap to return the base address; got %#x", uintptr(ptr))
	}
	if len(mappedAddrs) != 2 {
		t.Fatalf("expected 2 pages mapped; got %d", len(mappedAddrs))
	}
	if mappedAddrs[0] != 0x1000 || mappedAddrs[1] != 0x1000+uintptr(mem.PageSize) {
		t.Fatalf("expected consecutive page addresses; got %v", mappedAddrs)
	}
}

func TestSysMapFailsWhenFrameAllocationFails(t *testing.T) {
	defer resetBootstrapFns()

	frameAllocFn = func() uintptr { return 0 }

	var stat uint64
	ptr := sysMap(unsafe.Pointer(uintptr(0x1000)), uintptr(mem.PageSize), true, &stat)
	if ptr != unsafe.Pointer(uintptr(0)) {
		t.Fatal("expected sysMap to return nil when frame allocation fails")
	}
}

func TestSysMapFailsWhenMapFails(t *testing.T) {
	defer resetBootstrapFns()

	frameAllocFn = func() uintptr { return uintptr(mem.PageSize) }
	mapFn = func(uintptr, pmm.Frame, vmm.PageTableEntryFlag) bool { return false }

	var stat uint64
	ptr := sysMap(unsafe.Pointer(uintptr(0x1000)), uintptr(mem.PageSize), true, &stat)
	if ptr != unsafe.Pointer(uintptr(0)) {
		t.Fatal("expected sysMap to return nil when Map fails")
	}
}

func TestSysAllocReservesThenCommits(t *testing.T) {
	defer resetBootstrapFns()

	const expAddr = uintptr(10 * mem.PageSize)
	earlyReserveRegionFn = func(mem.Size) uintptr { return expAddr }
	frameAllocFn = func() uintptr { return uintptr(mem.PageSize) }

	var mapCalls int
	mapFn = func(uintptr, pmm.Frame, vmm.PageTableEntryFlag) bool {
		mapCalls++
		return true
	}

	var stat uint64
	ptr := sysAlloc(uintptr(2*mem.PageSize), &stat)

	if uintptr(ptr) != expAddr {
		t.Fatalf("expected sysAlloc to return the reserved address; got %#x", uintptr(ptr))
	}
	if mapCalls != 2 {
		t.Fatalf("expected 2 pages mapped; got %d", mapCalls)
	}
	if stat != uint64(2*mem.PageSize) {
		t.Fatalf("expected the stat counter to track bytes committed; got %d", stat)
	}
}

func TestSysAllocFailsWhenReservationFails(t *testing.T) {
	defer resetBootstrapFns()

	earlyReserveRegionFn = func(mem.Size) uintptr { return 0 }

	var stat uint64
	if ptr := sysAlloc(4096, &stat); ptr != unsafe.Pointer(uintptr(0)) {
		t.Fatal("expected sysAlloc to return nil when EarlyReserveRegion fails")
	}
}

func TestGetRandomDataVariesBetweenCalls(t *testing.T) {
	a := make([]byte, 64)
	b := make([]byte, 64)
	getRandomData(a)
	getRandomData(b)

	if reflect.DeepEqual(a, b) {
		t.Fatal("expected getRandomData to produce different output on successive calls")
	}
}

func TestInitRunsEveryBootstrapStageInOrder(t *testing.T) {
	defer func() {
		mallocInitFn = mallocInit
		algInitFn = algInit
		modulesInitFn = modulesInit
		typeLinksInitFn = typeLinksInit
		itabsInitFn = itabsInit
	}()

	var order []string
	mallocInitFn = func() { order = append(order, "malloc") }
	algInitFn = func() { order = append(order, "alg") }
	modulesInitFn = func() { order = append(order, "modules") }
	typeLinksInitFn = func() { order = append(order, "typelinks") }
	itabsInitFn = func() { order = append(order, "itabs") }

	Init()

	want := []string{"malloc", "alg", "modules", "typelinks", "itabs"}
	if len(order) != len(want) {
		t.Fatalf("expected %d stages to run; got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected stage order %v; got %v", want, order)
		}
	}
}
