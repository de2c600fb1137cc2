package kernel

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/cpu"
	"github.com/jameingh/kernel-dev/kernel/driver/keyboard"
	"github.com/jameingh/kernel-dev/kernel/goruntime"
	"github.com/jameingh/kernel-dev/kernel/hal"
	"github.com/jameingh/kernel-dev/kernel/heap"
	"github.com/jameingh/kernel-dev/kernel/irq"
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
	"github.com/jameingh/kernel-dev/kernel/mem/pmm"
	"github.com/jameingh/kernel-dev/kernel/mem/vmm"
	"github.com/jameingh/kernel-dev/kernel/process"
	"github.com/jameingh/kernel-dev/kernel/ramdisk"
	"github.com/jameingh/kernel-dev/kernel/shell"
	"github.com/jameingh/kernel-dev/kernel/syscall"
	"github.com/jameingh/kernel-dev/kernel/vfs"
)

var errKmainReturned = &Error{Module: "kmain", Message: "Kmain returned"}

const timerHz = 100

var pitTicks uint32

// Kmain is the kernel's entry point, called by the rt0 trampoline after
// control arrives in 32-bit protected mode with a provisional stack.
// kernelStart/kernelEnd bracket the kernel image, as placed by the linker.
//
// Kmain is not expected to return. If it does, Panic halts the CPU.
func Kmain(kernelStart, kernelEnd uintptr) {
	hal.InitTerminal()
	hal.ActiveTerminal.Clear()

	irq.InitGDT()
	irq.InitIDT()
	irq.RemapPIC(0x20, 0x28)

	irq.HandleIRQ(0, timerTick)
	irq.HandleIRQ(1, keyboardTick)
	keyboard.OnChar(shell.OnChar)

	pitRate = timerHz
	irq.InitPIT(timerHz)

	pmm.FrameAllocator.Init(kernelStart, kernelEnd)
	vmm.Init()

	// goruntime.Init must run before anything below relies on make, append,
	// map literals, string concatenation, or any other value that escapes
	// to the Go runtime's own heap: paging is up, but the runtime's
	// allocator isn't wired to any address space until this call returns.
	goruntime.Init()

	heap.Init(vmm.HeapBase, vmm.HeapSize)

	process.Init()
	syscall.Init()

	cpu.EnableInterrupts()

	root := ramdisk.Init()
	early.Printf("Listing files in /:\n")
	if node := vfs.Finddir(root, "hello.txt"); node != nil {
		early.Printf("Found: hello.txt\n")

		buf := make([]byte, 32)
		n := vfs.Read(node, 0, 32, buf)
		if n > 0 && buf[n-1] == 0 {
			n--
		}
		early.Printf("Content: %s\n", buf[:n])
	}

	// Use kernel.Panic instead of panic to prevent the compiler from
	// treating it as dead code and eliminating the call below.
	Panic(errKmainReturned)
}

// timerTick is IRQ0's handler: advance the tick counter, refresh the status
// line every 10th tick, update sleeping tasks, then let the scheduler pick
// the next task to resume. The returned frame is what the (out-of-scope)
// assembly stub resumes on: the caller's own frame address for a no-op,
// or a different task's frame to perform a context switch.
func timerTick(frame *irq.Frame) *irq.Frame {
	pitTicks++
	if pitTicks%10 == 0 {
		refreshStatusLine()
	}

	process.UpdateSleepTicks()
	next := process.Schedule(uintptr(unsafe.Pointer(frame)))
	return (*irq.Frame)(unsafe.Pointer(next))
}

// keyboardTick is IRQ1's handler. It never switches tasks.
func keyboardTick(frame *irq.Frame) *irq.Frame {
	keyboard.HandleIRQ()
	return frame
}
