package pmm

import (
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
	"github.com/jameingh/kernel-dev/kernel/mem"
)

// ManagedMemory is the fixed amount of physical memory this allocator knows
// how to track. The nucleus targets a flat 64 MiB machine; a future revision
// could read this from a BIOS memory map instead of assuming it.
const ManagedMemory = 64 * mem.Mb

// TotalFrames is the number of 4 KiB frames covered by ManagedMemory.
const TotalFrames = uint32(ManagedMemory / mem.PageSize)

const bitmapWords = (TotalFrames + 63) / 64

// lowMemEnd and videoBiosEnd bound the two always-reserved low regions:
// conventional memory below 640K and the video/BIOS hole up to 1 MiB.
const (
	lowMemEnd    = uintptr(0xA0000)
	videoBiosEnd = uintptr(0x100000)
)

// BitmapAllocator tracks free/allocated frames across ManagedMemory using a
// dense bitmap: bit 1 means free, bit 0 means allocated. Frame i's bit lives
// at word i/64, bit (63 - i%64) -- most-significant bit first, matching the
// convention the rest of this codebase's bit-packed structures use.
type BitmapAllocator struct {
	freeBitmap [bitmapWords]uint64
	totalPages uint32
	freePages  uint32
}

// FrameAllocator is the kernel's single physical frame allocator instance.
var FrameAllocator BitmapAllocator

func wordAndMask(f Frame) (int, uint64) {
	word := int(f) >> 6
	bit := uint(f) & 63
	return word, uint64(1) << (63 - bit)
}

func (alloc *BitmapAllocator) isFree(f Frame) bool {
	word, mask := wordAndMask(f)
	return alloc.freeBitmap[word]&mask != 0
}

// reserve clears the bit for f. Reserving an already-reserved frame is a
// no-op, per the init contract.
func (alloc *BitmapAllocator) reserve(f Frame) {
	if uint32(f) >= TotalFrames || !alloc.isFree(f) {
		return
	}
	word, mask := wordAndMask(f)
	alloc.freeBitmap[word] &^= mask
	alloc.freePages--
}

func (alloc *BitmapAllocator) free(f Frame) {
	if uint32(f) >= TotalFrames || alloc.isFree(f) {
		return
	}
	word, mask := wordAndMask(f)
	alloc.freeBitmap[word] |= mask
	alloc.freePages++
}

func (alloc *BitmapAllocator) reserveRange(start, end uintptr) {
	startFrame := FrameFromAddress(start)
	endFrame := FrameFromAddress(end + uintptr(mem.PageSize) - 1)
	for f := startFrame; f < endFrame; f++ {
		alloc.reserve(f)
	}
}

// Init marks every frame free and then reserves the low conventional memory
// region, the video/BIOS hole and the kernel image range supplied by the
// linker.
func (alloc *BitmapAllocator) Init(kernelStart, kernelEnd uintptr) {
	for i := range alloc.freeBitmap {
		alloc.freeBitmap[i] = ^uint64(0)
	}
	alloc.totalPages = TotalFrames
	alloc.freePages = TotalFrames

	alloc.reserveRange(0, lowMemEnd)
	alloc.reserveRange(lowMemEnd, videoBiosEnd)
	alloc.reserveRange(kernelStart, kernelEnd)

	early.Printf("PMM initialized\n")
}

// AllocPage returns the first free frame's physical address, scanning low to
// high, or 0 if the machine is out of memory.
func (alloc *BitmapAllocator) AllocPage() uintptr {
	for word := range alloc.freeBitmap {
		if alloc.freeBitmap[word] == 0 {
			continue
		}
		for bit := uint(0); bit < 64; bit++ {
			mask := uint64(1) << (63 - bit)
			if alloc.freeBitmap[word]&mask == 0 {
				continue
			}
			f := Frame(word*64) + Frame(bit)
			if uint32(f) >= TotalFrames {
				return 0
			}
			alloc.reserve(f)
			return f.Address()
		}
	}
	return 0
}

// FreePage returns the frame containing physAddr to the pool. Non-aligned
// or out-of-range addresses are silently ignored.
func (alloc *BitmapAllocator) FreePage(physAddr uintptr) {
	if physAddr == 0 || physAddr%uintptr(mem.PageSize) != 0 {
		return
	}
	f := FrameFromAddress(physAddr)
	if uint32(f) >= TotalFrames {
		return
	}
	alloc.free(f)
}

// AllocContiguous scans for a run of n consecutive free frames and marks
// them all allocated, returning the base physical address. Returns 0 if no
// such run exists.
func (alloc *BitmapAllocator) AllocContiguous(n uint32) uintptr {
	if n == 0 {
		return 0
	}

	var runStart Frame
	runLen := uint32(0)
	for f := Frame(0); uint32(f) < TotalFrames; f++ {
		if alloc.isFree(f) {
			if runLen == 0 {
				runStart = f
			}
			runLen++
			if runLen == n {
				for i := Frame(0); uint32(i) < n; i++ {
					alloc.reserve(runStart + i)
				}
				return runStart.Address()
			}
		} else {
			runLen = 0
		}
	}
	return 0
}

// TotalPages returns the total number of frames this allocator manages.
func (alloc *BitmapAllocator) TotalPages() uint32 {
	return alloc.totalPages
}

// FreePages returns the number of frames currently free.
func (alloc *BitmapAllocator) FreePages() uint32 {
	return alloc.freePages
}
