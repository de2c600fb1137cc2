// Package kfmt re-exports early.Printf under a shorter name for packages
// initialized after the terminal is up, keeping the same split between a
// bootstrap-era formatter and a general one used once more of the kernel
// has come online.
package kfmt

import "github.com/jameingh/kernel-dev/kernel/kfmt/early"

// Printf formats according to a format specifier and writes to the active
// terminal. See early.Printf for the supported verb set.
func Printf(format string, args ...interface{}) {
	early.Printf(format, args...)
}
