package mem

import (
	"reflect"
	"unsafe"
)

// Memset sets size bytes starting at addr to value. It overlays a byte
// slice on top of the target address and uses log2(size) copy calls instead
// of a byte-at-a-time loop, which pays off since callers always pass
// page-aligned sizes.
func Memset(addr uintptr, value byte, size Size) {
	if size == 0 {
		return
	}

	target := *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  int(size),
		Cap:  int(size),
		Data: addr,
	}))

	target[0] = value
	for index := Size(1); index < size; index *= 2 {
		copy(target[index:], target[:index])
	}
}
