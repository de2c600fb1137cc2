// Package vfs implements the dispatch layer over a VFS node's optional
// operation set. The original source's raw function-pointer vtable is kept
// as a capability set of optional per-node func fields on Node, each
// dispatched through a nil-checked package-level function.
package vfs

const (
	// FlagFile marks a node as a regular file; it must implement Read.
	FlagFile = 1 << iota
	// FlagDirectory marks a node as a directory; it must implement Finddir.
	FlagDirectory
)

// Node is a VFS node's capability set. Every method is optional: a driver
// that does not support an operation leaves it nil, and the matching
// package-level dispatch function returns its zero value.
type Node struct {
	Name   string
	Flags  uint32
	Inode  uint32
	Length uint32

	Read    func(offset, size uint32, buf []byte) uint32
	Write   func(offset, size uint32, buf []byte) uint32
	Open    func()
	Close   func()
	Finddir func(name string) *Node

	// Private is the driver's own bookkeeping, opaque to the vfs package.
	Private interface{}
}

// IsDirectory reports whether node carries the DIRECTORY type bit.
func (n *Node) IsDirectory() bool {
	return n != nil && n.Flags&FlagDirectory != 0
}

// Read dispatches to node.Read if present, else returns zero bytes copied —
// a VFS miss is not an error condition.
func Read(node *Node, offset, size uint32, buf []byte) uint32 {
	if node == nil || node.Read == nil {
		return 0
	}
	return node.Read(offset, size, buf)
}

// Write dispatches to node.Write if present, else reports zero bytes
// written.
func Write(node *Node, offset, size uint32, buf []byte) uint32 {
	if node == nil || node.Write == nil {
		return 0
	}
	return node.Write(offset, size, buf)
}

// Open dispatches to node.Open if present.
func Open(node *Node) {
	if node != nil && node.Open != nil {
		node.Open()
	}
}

// Close dispatches to node.Close if present.
func Close(node *Node) {
	if node != nil && node.Close != nil {
		node.Close()
	}
}

// Finddir dispatches to node.Finddir if present and node is a directory,
// else returns nil.
func Finddir(node *Node, name string) *Node {
	if node == nil || !node.IsDirectory() || node.Finddir == nil {
		return nil
	}
	return node.Finddir(name)
}
