package irq

import "testing"

func TestInitGDTInstallsSixEntriesAndLoadsTSS(t *testing.T) {
	defer func() {
		loadGDTFn = func(uintptr) {}
		loadTaskRegisterFn = func(uint16) {}
	}()

	var loadedPtr uintptr
	var loadedSelector uint16
	loadGDTFn = func(p uintptr) { loadedPtr = p }
	loadTaskRegisterFn = func(sel uint16) { loadedSelector = sel }

	InitGDT()

	if loadedPtr == 0 {
		t.Fatal("expected LoadGDT to be called with a non-zero pointer")
	}
	if loadedSelector != TSSSelector {
		t.Fatalf("expected LoadTaskRegister(%d); got %d", TSSSelector, loadedSelector)
	}

	if gdtTable[0].access != 0 {
		t.Fatal("expected entry 0 to remain the null descriptor")
	}
	if gdtTable[1].access != 0x9A {
		t.Fatalf("expected kernel code descriptor access 0x9A; got %#x", gdtTable[1].access)
	}
	if gdtTable[2].access != 0x92 {
		t.Fatalf("expected kernel data descriptor access 0x92; got %#x", gdtTable[2].access)
	}
	if gdtTable[3].access != 0xFA {
		t.Fatalf("expected user code descriptor access 0xFA; got %#x", gdtTable[3].access)
	}
	if gdtTable[4].access != 0xF2 {
		t.Fatalf("expected user data descriptor access 0xF2; got %#x", gdtTable[4].access)
	}
	if gdtTable[5].access != 0x89 {
		t.Fatalf("expected TSS descriptor access 0x89; got %#x", gdtTable[5].access)
	}

	if theTSS.ss0 != uint32(KernelDataSelector) {
		t.Fatalf("expected TSS.ss0 to be the kernel data selector; got %#x", theTSS.ss0)
	}
}

func TestSetKernelStack(t *testing.T) {
	defer func() {
		loadGDTFn = func(uintptr) {}
		loadTaskRegisterFn = func(uint16) {}
	}()
	loadGDTFn = func(uintptr) {}
	loadTaskRegisterFn = func(uint16) {}

	InitGDT()
	SetKernelStack(0xDEAD0000)
	if theTSS.esp0 != 0xDEAD0000 {
		t.Fatalf("expected esp0 to be updated; got %#x", theTSS.esp0)
	}
}
