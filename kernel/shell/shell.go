// Package shell satisfies the keyboard driver's OnChar boundary contract
// with a minimal echoing driver. Its command table (help/clear/reboot/ls/cat)
// is explicitly out of scope per spec.md §9 — this is a literal stub so the
// wiring has an exerciser, not a line editor.
package shell

import "github.com/jameingh/kernel-dev/kernel/hal"

// OnChar echoes ch to the active terminal. Registered against the keyboard
// driver at boot via keyboard.OnChar(shell.OnChar).
func OnChar(ch byte) {
	hal.ActiveTerminal.WriteByte(ch)
}
