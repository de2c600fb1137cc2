// Package process implements the kernel's process control block ring and
// round-robin scheduler. It is grounded on original_source/process.c, with
// the PCB ring kept as a circular linked list of *pcb values (Go has no
// trouble with the C source's self-referential circular linked list, so the
// "next" pointer is kept as-is rather than turned into an index).
package process

import (
	"unsafe"

	"github.com/jameingh/kernel-dev/kernel/heap"
	"github.com/jameingh/kernel-dev/kernel/irq"
	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
)

// State is the scheduling state of a task.
type State int

const (
	// Ready means the task is eligible for selection by the scheduler.
	Ready State = iota
	// Sleeping means the task is waiting for its sleep countdown to
	// reach zero.
	Sleeping
)

const (
	kernelStackSize = 4096
	userStackSize   = 4096

	// Initial values baked into every synthesized frame; see
	// original_source/process.c.
	eflagsIF = 0x202

	// Selectors for Ring3 frames: index*8 | RPL(3).
	userCodeSel = irq.UserCodeSelector
	userDataSel = irq.UserDataSelector
)

// pcb is the process control block.
type pcb struct {
	pid            uint32
	esp            uintptr
	kernelStackTop uintptr
	state          State
	sleepTicks     uint32
	name           string
	next           *pcb
}

// Snapshot is a read-only diagnostic view of a PCB, exposed via List.
type Snapshot struct {
	PID        uint32
	Name       string
	State      State
	SleepTicks uint32
}

var (
	list    *pcb // ring head; PID 0 (idle)
	current *pcb
	nextPID uint32 = 1
)

// allocFn backs stack allocation with heap.Kmalloc; tests install a fresh
// heap arena via heap.Init rather than swapping this out.
var allocFn = heap.Kmalloc

// Init constructs the idle PCB (PID 0) representing the kernel's
// already-running execution flow, as the sole member of a fresh ring; the
// next task created gets PID 1. Its ESP is unknown until the first context
// switch saves it.
func Init() {
	nextPID = 1

	idle := &pcb{
		pid:            0,
		kernelStackTop: 0x90000,
		state:          Ready,
		name:           "Kernel_Idle",
	}
	idle.next = idle

	list = idle
	current = idle

	early.Printf("Multitasking initialized. Kernel is PID 0.\n")
}

// Current returns the PID of the task presently selected by the scheduler.
func Current() uint32 {
	if current == nil {
		return 0
	}
	return current.pid
}

// Create builds a Ring0 kernel task that begins executing at entry on first
// dispatch. The synthesized register frame exactly matches the layout the
// interrupt-return stub expects to pop.
func Create(entry uintptr, name string) {
	proc := &pcb{
		pid:  nextPID,
		name: name,
	}
	nextPID++

	stack := allocFn(kernelStackSize)
	top := stack + kernelStackSize

	frameAddr := top - unsafe.Sizeof(irq.Frame{})
	frame := (*irq.Frame)(unsafe.Pointer(frameAddr))
	*frame = irq.Frame{
		GS: uint32(irq.KernelDataSelector), FS: uint32(irq.KernelDataSelector),
		ES: uint32(irq.KernelDataSelector), DS: uint32(irq.KernelDataSelector),
		EIP: uint32(entry), CS: uint32(irq.KernelCodeSelector), EFlags: eflagsIF,
	}

	proc.esp = frameAddr
	proc.kernelStackTop = top
	proc.state = Ready

	insertAfterHead(proc)
}

// CreateUser builds a Ring3 task. Two stacks are allocated — a kernel stack
// used only when an interrupt or syscall lifts the task into Ring 0, and a
// user stack the task runs on while in Ring 3. The synthesized frame crosses
// privilege levels, so it carries the extra UserESP/UserSS fields the CPU's
// IRET consumes.
func CreateUser(entry uintptr, name string) {
	proc := &pcb{
		pid:  nextPID,
		name: name,
	}
	nextPID++

	kstack := allocFn(kernelStackSize)
	kstackTop := kstack + kernelStackSize

	ustack := allocFn(userStackSize)
	ustackTop := ustack + userStackSize

	frameAddr := kstackTop - unsafe.Sizeof(irq.Frame{})
	frame := (*irq.Frame)(unsafe.Pointer(frameAddr))
	*frame = irq.Frame{
		GS: uint32(userDataSel), FS: uint32(userDataSel),
		ES: uint32(userDataSel), DS: uint32(userDataSel),
		EIP: uint32(entry), CS: uint32(userCodeSel), EFlags: eflagsIF,
		UserESP: uint32(ustackTop), UserSS: uint32(userDataSel),
	}

	proc.esp = frameAddr
	proc.kernelStackTop = kstackTop
	proc.state = Ready

	insertAfterHead(proc)
}

func insertAfterHead(proc *pcb) {
	proc.next = list.next
	list.next = proc
}

// Schedule is invoked from the timer handler and from yielding syscalls. It
// records the suspended task's stack cursor, advances round-robin to the
// next READY task (termination guaranteed since PID 0 is always READY),
// updates the TSS's Ring0 stack pointer, and returns the new task's cursor.
func Schedule(savedSP uintptr) uintptr {
	if current == nil {
		return savedSP
	}

	current.esp = savedSP

	next := current.next
	for next.state != Ready {
		next = next.next
	}
	current = next

	irq.SetKernelStack(uint32(current.kernelStackTop))

	return current.esp
}

// UpdateSleepTicks decrements the sleep countdown of every SLEEPING task and
// wakes any whose countdown has reached zero. Called once per timer tick,
// before Schedule.
func UpdateSleepTicks() {
	if list == nil {
		return
	}

	first := list
	curr := first
	for {
		if curr.state == Sleeping {
			if curr.sleepTicks > 0 {
				curr.sleepTicks--
			}
			if curr.sleepTicks == 0 {
				curr.state = Ready
			}
		}
		curr = curr.next
		if curr == first {
			break
		}
	}
}

// Sleep marks the currently scheduled task SLEEPING for the given tick
// count; PID 0 (idle) ignores sleep requests, since a permanently-sleeping
// idle task would leave the ring with no guaranteed-READY fallback.
func Sleep(ticks uint32) {
	if current == nil || current.pid == 0 {
		return
	}
	current.state = Sleeping
	current.sleepTicks = ticks
}

// List returns a diagnostic snapshot of every PCB in the ring, in ring
// order starting from the head. Not present in the original; added so the
// round-robin and sleep-wake properties can be verified from tests.
func List() []Snapshot {
	if list == nil {
		return nil
	}

	var out []Snapshot
	curr := list
	for {
		out = append(out, Snapshot{
			PID:        curr.pid,
			Name:       curr.name,
			State:      curr.state,
			SleepTicks: curr.sleepTicks,
		})
		curr = curr.next
		if curr == list {
			break
		}
	}
	return out
}
