package irq

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/cpu"
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
)

const idtEntryCount = 256

// Gate flag bytes: interrupt gate, present, with the DPL needed to let
// Ring 3 code reach it via INT.
const (
	gateKernel = 0x8E // P=1, DPL=0, 32-bit interrupt gate
	gateUser   = 0xEE // P=1, DPL=3, 32-bit interrupt gate
)

// idtEntry is a single 8-byte IDT gate descriptor.
type idtEntry struct {
	baseLow  uint16
	sel      uint16
	always0  uint8
	flags    uint8
	baseHigh uint16
}

type idtPtr struct {
	limit uint16
	base  uint32
}

var (
	idtTable  [idtEntryCount]idtEntry
	theIdtPtr idtPtr

	// loadIDTFn is swapped out by tests, which cannot execute the
	// privileged LIDT instruction.
	loadIDTFn = cpu.LoadIDT
)

func setIDTEntry(num int, base uintptr, sel uint16, flags uint8) {
	idtTable[num].baseLow = uint16(base & 0xFFFF)
	idtTable[num].baseHigh = uint16((base >> 16) & 0xFFFF)
	idtTable[num].sel = sel
	idtTable[num].always0 = 0
	idtTable[num].flags = flags
}

// InitIDT clears all 256 gates and loads IDTR. Individual vectors are
// populated by InstallExceptionVector / InstallIRQVector / InstallSyscallVector,
// each of which is handed the address of its assembly entry stub.
func InitIDT() {
	for i := 0; i < idtEntryCount; i++ {
		setIDTEntry(i, 0, 0, 0)
	}

	theIdtPtr.limit = uint16(unsafe.Sizeof(idtTable)) - 1
	theIdtPtr.base = uint32(uintptr(unsafe.Pointer(&idtTable)))
	loadIDTFn(uintptr(unsafe.Pointer(&theIdtPtr)))

	early.Printf("IDT initialized successfully!\n")
}

// InstallExceptionVector points vector num (expected range 0-31) at stub,
// the address of its assembly ISR entry point, using a kernel-only gate.
func InstallExceptionVector(num int, stub uintptr) {
	setIDTEntry(num, stub, KernelCodeSelector, gateKernel)
}

// InstallIRQVector points the IDT gate for IRQ line num (0-15, i.e. vector
// 32+num after PIC remap) at stub using a kernel-only gate.
func InstallIRQVector(num int, stub uintptr) {
	setIDTEntry(irqBase+num, stub, KernelCodeSelector, gateKernel)
}

// InstallSyscallVector points vector 128 at stub using a gate with DPL=3 so
// Ring3 code can reach it via INT 0x80.
func InstallSyscallVector(stub uintptr) {
	setIDTEntry(128, stub, KernelCodeSelector, gateUser)
}
