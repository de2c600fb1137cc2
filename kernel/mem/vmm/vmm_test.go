package vmm

import (
	"testing"
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/mem"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
)

// fakePhysicalPool hands out page-aligned addresses backed by a real Go
// slice, standing in for the PMM during tests that run on the host.
type fakePhysicalPool struct {
	buf    []byte
	cursor int
}

func newFakePhysicalPool(pages int) *fakePhysicalPool {
	// over-allocate so we can round the first address up to a page boundary
	buf := make([]byte, (pages+1)*int(mem.PageSize))
	return &fakePhysicalPool{buf: buf}
}

func (p *fakePhysicalPool) base() uintptr {
	addr := uintptr(unsafe.Pointer(&p.buf[0]))
	aligned := (addr + uintptr(mem.PageSize) - 1) &^ (uintptr(mem.PageSize) - 1)
	return aligned
}

func (p *fakePhysicalPool) alloc() uintptr {
	addr := p.base() + uintptr(p.cursor)*uintptr(mem.PageSize)
	p.cursor++
	return addr
}

func TestInitBuildsIdentityAndHigherHalfMappings(t *testing.T) {
	defer func() {
		allocPageFn = pmm.FrameAllocator.AllocPage
		haltFn = noopHalt
	}()

	pool := newFakePhysicalPool(300)
	allocPageFn = pool.alloc
	haltCalled := false
	haltFn = func() { haltCalled = true }

	Init()

	if haltCalled {
		t.Fatal("expected Init to succeed without halting")
	}

	pdt := tableAt(PDTPhysAddr())

	identityPDE := pdt[pdeIndex(0)]
	if !identityPDE.HasFlags(FlagPresent | FlagRW | FlagUser) {
		t.Fatal("expected identity-map PDE to be Present|RW|User")
	}

	higherHalfPDE := pdt[pdeIndex(HigherHalfBase)]
	if !higherHalfPDE.HasFlags(FlagPresent | FlagRW) {
		t.Fatal("expected higher-half PDE to be Present|RW")
	}
	if higherHalfPDE.HasFlags(FlagUser) {
		t.Fatal("expected higher-half PDE to NOT have the User flag")
	}
	if higherHalfPDE.Frame() != identityPDE.Frame() {
		t.Fatal("expected higher-half alias to share the identity map's page table frame")
	}

	heapPDE := pdt[pdeIndex(HeapBase)]
	if !heapPDE.HasFlags(FlagPresent | FlagRW | FlagUser) {
		t.Fatal("expected heap PDE to be Present|RW|User")
	}

	heapPT := tableAt(heapPDE.Frame().Address())
	expectedHeapPages := uint32(HeapSize / mem.PageSize)
	for i := uint32(0); i < expectedHeapPages; i++ {
		if !heapPT[i].HasFlags(FlagPresent | FlagRW | FlagUser) {
			t.Fatalf("expected heap page table entry %d to be Present|RW|User", i)
		}
	}
}

func TestInitHaltsOnOOM(t *testing.T) {
	defer func() {
		allocPageFn = pmm.FrameAllocator.AllocPage
		haltFn = noopHalt
	}()

	allocCount := 0
	allocPageFn = func() uintptr {
		allocCount++
		if allocCount > 1 {
			return 0
		}
		pool := newFakePhysicalPool(1)
		return pool.alloc()
	}

	haltCalled := false
	haltFn = func() { haltCalled = true }

	Init()

	if !haltCalled {
		t.Fatal("expected Init to halt when a frame allocation fails")
	}
}

func noopHalt() {}

func init() {
	haltFn = noopHalt
	setPageDirectoryFn = func(uintptr) {}
	enablePagingFn = func() {}
}
