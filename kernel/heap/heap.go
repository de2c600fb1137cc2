// Package heap implements the kernel's dynamic memory allocator: a
// first-fit arena over the virtual region the VMM reserves for it.
package heap

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
	"github.com/jameingh/kernel-dev/kernel/mem"
)

const headerSize = unsafe.Sizeof(header{})

// header prefixes every block in the arena. The arena is a singly-linked
// list of blocks in ascending address order; next is nil for the last
// block.
type header struct {
	next   *header
	size   uint32
	isFree bool
}

var head *header

// Init installs a single free block spanning the entire arena, which runs
// from base for size bytes. Must be called once, after the VMM has mapped
// the heap region in.
func Init(base uintptr, size mem.Size) {
	head = (*header)(unsafe.Pointer(base))
	head.size = uint32(size) - uint32(headerSize)
	head.next = nil
	head.isFree = true

	early.Printf("Heap initialized at %x (%dMB)\n", base, uint64(size/mem.Mb))
}

// alignUp4 rounds size up to the next multiple of 4.
func alignUp4(size uint32) uint32 {
	return (size + 3) &^ 3
}

// Kmalloc returns a pointer to a 4-byte-aligned block of at least size
// bytes, or 0 (the OOM sentinel) if no free block is large enough.
func Kmalloc(size uint32) uintptr {
	if size == 0 {
		return 0
	}
	aligned := alignUp4(size)

	for curr := head; curr != nil; curr = curr.next {
		if !curr.isFree || curr.size < aligned {
			continue
		}

		if curr.size >= aligned+uint32(headerSize)+4 {
			newBlockAddr := uintptr(unsafe.Pointer(curr)) + headerSize + uintptr(aligned)
			newBlock := (*header)(unsafe.Pointer(newBlockAddr))
			newBlock.size = curr.size - aligned - uint32(headerSize)
			newBlock.isFree = true
			newBlock.next = curr.next

			curr.size = aligned
			curr.next = newBlock
		}

		curr.isFree = false
		return uintptr(unsafe.Pointer(curr)) + headerSize
	}

	early.Printf("OOM: kmalloc failed!\n")
	return 0
}

// Kfree returns the block at ptr to the free list, coalescing it with its
// immediate successor and then with its immediate predecessor whenever
// either is also free. Kfree(0) is a no-op.
// Double-free and invalid-pointer free are programmer errors: behavior is
// undefined.
func Kfree(ptr uintptr) {
	if ptr == 0 {
		return
	}

	h := (*header)(unsafe.Pointer(ptr - headerSize))
	h.isFree = true

	if h.next != nil && h.next.isFree {
		h.size += uint32(headerSize) + h.next.size
		h.next = h.next.next
	}

	// The list is singly linked, so the predecessor is found by walking
	// from head.
	for p := head; p != nil && p.next != nil; p = p.next {
		if p.next == h {
			if p.isFree {
				p.size += uint32(headerSize) + h.size
				p.next = h.next
			}
			break
		}
	}
}
