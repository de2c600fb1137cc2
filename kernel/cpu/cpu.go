// Package cpu gathers every privileged, architecture-specific operation the
// nucleus needs behind a small set of Go function declarations. Each
// function's body lives in cpu_386.s; callers never need to know that.
package cpu

// EnableInterrupts sets the CPU's interrupt flag (STI).
func EnableInterrupts()

// DisableInterrupts clears the CPU's interrupt flag (CLI).
func DisableInterrupts()

// Halt stops instruction execution (HLT) until the next interrupt.
func Halt()

// Inb reads a single byte from the given I/O port.
func Inb(port uint16) uint8

// Outb writes a single byte to the given I/O port.
func Outb(port uint16, val uint8)

// IOWait performs a short I/O operation on an unused port (0x80) to give
// slow legacy hardware time to process the previous command.
func IOWait()

// LoadGDT loads the global descriptor table pointed to by gdtPtrAddr (the
// address of a {limit, base} descriptor) and reloads the segment registers.
func LoadGDT(gdtPtrAddr uintptr)

// LoadIDT loads the interrupt descriptor table pointed to by idtPtrAddr.
func LoadIDT(idtPtrAddr uintptr)

// LoadTaskRegister loads the task register with the given GDT selector,
// pointing the CPU at the kernel's TSS entry.
func LoadTaskRegister(selector uint16)

// SetPageDirectory writes the physical address of a page directory to CR3.
func SetPageDirectory(physAddr uintptr)

// EnablePaging sets the paging bit (bit 31) of CR0.
func EnablePaging()

// ReadFaultAddress returns the contents of CR2, the address that caused the
// most recent page fault.
func ReadFaultAddress() uintptr
