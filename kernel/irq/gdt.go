package irq

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/cpu"
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
)

// Segment selectors for the GDT entries Init installs. Each is an index
// into the table (entry number * 8) with the requestor privilege level
// ORed into the low two bits where Ring 3 access is needed.
const (
	KernelCodeSelector = uint16(1 * 8)
	KernelDataSelector = uint16(2 * 8)
	UserCodeSelector   = uint16(3*8 | 3)
	UserDataSelector   = uint16(4*8 | 3)
	TSSSelector        = uint16(5 * 8)
)

// gdtEntry is a single 8-byte GDT descriptor.
type gdtEntry struct {
	limitLow   uint16
	baseLow    uint16
	baseMiddle uint8
	access     uint8
	granularity uint8
	baseHigh   uint8
}

// gdtPtr is the 6-byte operand LGDT expects: a 16-bit limit and a 32-bit
// linear base address.
type gdtPtr struct {
	limit uint16
	base  uint32
}

// tss is the 32-bit Task State Segment. Only ss0/esp0 are used by this
// kernel (Ring3 -> Ring0 stack switch on interrupt); the rest of the fields
// exist because the CPU expects a full structure.
type tss struct {
	prevTask                     uint32
	esp0                         uint32
	ss0                          uint32
	esp1, ss1, esp2, ss2         uint32
	cr3, eip, eflags             uint32
	eax, ecx, edx, ebx           uint32
	esp, ebp, esi, edi           uint32
	es, cs, ss, ds, fs, gs       uint32
	ldt                          uint32
	trap                        uint16
	iomapBase                   uint16
}

const gdtEntryCount = 6

var (
	gdtTable  [gdtEntryCount]gdtEntry
	theGdtPtr gdtPtr
	theTSS    tss

	// loadGDTFn and loadTaskRegisterFn are swapped out by tests, which
	// cannot execute the privileged LGDT/LTR instructions.
	loadGDTFn         = cpu.LoadGDT
	loadTaskRegisterFn = cpu.LoadTaskRegister
)

func setGDTEntry(num int, base, limit uint32, access, granularity uint8) {
	gdtTable[num].baseLow = uint16(base & 0xFFFF)
	gdtTable[num].baseMiddle = uint8((base >> 16) & 0xFF)
	gdtTable[num].baseHigh = uint8((base >> 24) & 0xFF)
	gdtTable[num].limitLow = uint16(limit & 0xFFFF)
	gdtTable[num].granularity = uint8((limit>>16)&0x0F) | (granularity & 0xF0)
	gdtTable[num].access = access
}

// InitGDT installs the null, kernel code/data (Ring 0), user code/data
// (Ring 3) and TSS descriptors, then loads GDTR and the task register.
func InitGDT() {
	setGDTEntry(0, 0, 0, 0, 0)
	setGDTEntry(1, 0, 0xFFFFFFFF, 0x9A, 0xCF) // kernel code
	setGDTEntry(2, 0, 0xFFFFFFFF, 0x92, 0xCF) // kernel data
	setGDTEntry(3, 0, 0xFFFFFFFF, 0xFA, 0xCF) // user code
	setGDTEntry(4, 0, 0xFFFFFFFF, 0xF2, 0xCF) // user data

	theTSS = tss{}
	theTSS.ss0 = uint32(KernelDataSelector)
	theTSS.esp0 = 0x90000
	theTSS.cs = uint32(UserCodeSelector)
	theTSS.ss = uint32(UserDataSelector)
	theTSS.ds = uint32(UserDataSelector)
	theTSS.es = uint32(UserDataSelector)
	theTSS.fs = uint32(UserDataSelector)
	theTSS.gs = uint32(UserDataSelector)
	setGDTEntry(5, uint32(uintptr(unsafe.Pointer(&theTSS))), uint32(unsafe.Sizeof(theTSS))-1, 0x89, 0x00)

	theGdtPtr.limit = uint16(unsafe.Sizeof(gdtTable)) - 1
	theGdtPtr.base = uint32(uintptr(unsafe.Pointer(&gdtTable)))

	loadGDTFn(uintptr(unsafe.Pointer(&theGdtPtr)))
	loadTaskRegisterFn(TSSSelector)

	early.Printf("GDT initialized successfully!\n")
}

// SetKernelStack updates the TSS's ESP0 field, the stack the CPU switches
// to whenever a Ring3 task traps into Ring0. Called by the scheduler on
// every scheduling decision, whichever task it selects.
func SetKernelStack(esp0 uint32) {
	theTSS.esp0 = esp0
}
