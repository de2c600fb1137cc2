package vfs

import "testing"

func TestReadDispatchesWhenPresent(t *testing.T) {
	called := false
	n := &Node{
		Flags: FlagFile,
		Read: func(offset, size uint32, buf []byte) uint32 {
			called = true
			return size
		},
	}

	got := Read(n, 0, 5, make([]byte, 5))
	if !called || got != 5 {
		t.Fatalf("expected Read to dispatch and return 5; got called=%v got=%d", called, got)
	}
}

func TestReadMissingOpReturnsZero(t *testing.T) {
	n := &Node{Flags: FlagFile}
	if got := Read(n, 0, 5, make([]byte, 5)); got != 0 {
		t.Fatalf("expected 0 for a node with no read op; got %d", got)
	}
	if got := Read(nil, 0, 5, nil); got != 0 {
		t.Fatalf("expected 0 for a nil node; got %d", got)
	}
}

func TestFinddirRequiresDirectoryFlag(t *testing.T) {
	target := &Node{Name: "child"}
	dir := &Node{
		Flags: FlagDirectory,
		Finddir: func(name string) *Node {
			if name == "child" {
				return target
			}
			return nil
		},
	}
	file := &Node{
		Flags: FlagFile,
		Finddir: func(name string) *Node {
			return target
		},
	}

	if got := Finddir(dir, "child"); got != target {
		t.Fatal("expected finddir to dispatch on a directory node")
	}
	if got := Finddir(dir, "missing"); got != nil {
		t.Fatal("expected nil for a missing name")
	}
	if got := Finddir(file, "child"); got != nil {
		t.Fatal("expected finddir to refuse a non-directory node even with an op present")
	}
}

func TestOpenAndCloseAreNilSafe(t *testing.T) {
	Open(nil)
	Close(nil)
	Open(&Node{})
	Close(&Node{})
}

func TestIsDirectory(t *testing.T) {
	if (&Node{Flags: FlagFile}).IsDirectory() {
		t.Fatal("expected a file node to report IsDirectory() == false")
	}
	if !(&Node{Flags: FlagDirectory}).IsDirectory() {
		t.Fatal("expected a directory node to report IsDirectory() == true")
	}
	var nilNode *Node
	if nilNode.IsDirectory() {
		t.Fatal("expected a nil node to report IsDirectory() == false")
	}
}
