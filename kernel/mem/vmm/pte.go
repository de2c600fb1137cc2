package vmm

import (
	"github.com/jameingh/kernel-dev/kernel/mem"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
)

// PageTableEntryFlag describes a flag bit that can be set on a page
// directory or page table entry.
type PageTableEntryFlag uint32

// Flags recognized by the 32-bit, two-level paging structures this package
// builds. Only the three flags the nucleus actually needs are modeled;
// Accessed/Dirty/PAT/Global are left at their hardware-default zero value.
const (
	FlagPresent PageTableEntryFlag = 1 << 0
	FlagRW      PageTableEntryFlag = 1 << 1
	FlagUser    PageTableEntryFlag = 1 << 2
)

const ptePhysPageMask = uintptr(0xFFFFF000)

// pageTableEntry is a single 32-bit page directory or page table entry: a
// physical frame address in the upper 20 bits plus flags in the low 12.
type pageTableEntry uint32

// HasFlags reports whether every flag in flags is set.
func (pte pageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return uint32(pte)&uint32(flags) == uint32(flags)
}

// SetFlags ORs flags into the entry.
func (pte *pageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte = pageTableEntry(uint32(*pte) | uint32(flags))
}

// Frame returns the physical frame this entry points to.
func (pte pageTableEntry) Frame() pmm.Frame {
	return pmm.Frame((uint32(pte) & uint32(ptePhysPageMask)) >> mem.PageShift)
}

// SetFrame updates the entry's physical frame field without touching its
// flags.
func (pte *pageTableEntry) SetFrame(frame pmm.Frame) {
	*pte = pageTableEntry((uint32(*pte) &^ uint32(ptePhysPageMask)) | uint32(frame.Address()))
}
