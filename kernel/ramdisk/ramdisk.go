// Package ramdisk builds and parses the in-memory filesystem image
// described in spec.md §3: a flat byte region laid out as
// [u32 count][header0][data0][header1][data1]... Grounded on
// original_source/initrd.c, extended per SPEC_FULL.md §4.4 to the
// interleaved multi-file layout (the original's offset arithmetic only
// works for a single file).
package ramdisk

import (
	"encoding/binary"

	"github.com/jameingh/kernel-dev/kernel/kfmt/early"
	"github.com/jameingh/kernel-dev/kernel/vfs"
)

const (
	magic      = 0xBF
	nameLen    = 32
	headerSize = 1 + nameLen + 4 + 4 // magic + name + offset + length
)

type fileEntry struct {
	name   string
	offset uint32
	length uint32
}

// sampleFile pairs a demo file's name with its content.
type sampleFile struct {
	name string
	data []byte
}

// sampleFiles returns the demo image content: the original's single
// hello.txt plus a second file to exercise the interleaved multi-file
// layout. Built on each call rather than as a package-level var: the
// append and []byte(string) conversion below both escape to the Go
// runtime's heap, which isn't ready until goruntime.Init has run, and
// package-level var initializers run before that (and before Kmain
// itself). Build is only ever called from Init, well after that point.
func sampleFiles() []sampleFile {
	return []sampleFile{
		{"hello.txt", append([]byte("Hello VFS World!"), 0)},
		{"readme.md", []byte("# gopher kernel nucleus\nramdisk demo image\n")},
	}
}

// Build serializes the demo file set into the on-disk image format.
func Build() []byte {
	files := sampleFiles()

	total := 4
	for _, f := range files {
		total += headerSize + len(f.data)
	}

	img := make([]byte, total)
	binary.LittleEndian.PutUint32(img[0:4], uint32(len(files)))

	pos := 4
	for _, f := range files {
		dataOffset := uint32(pos + headerSize)

		img[pos] = magic
		copy(img[pos+1:pos+1+nameLen], f.name)
		binary.LittleEndian.PutUint32(img[pos+1+nameLen:pos+1+nameLen+4], dataOffset)
		binary.LittleEndian.PutUint32(img[pos+1+nameLen+4:pos+1+nameLen+8], uint32(len(f.data)))

		copy(img[dataOffset:], f.data)

		pos = int(dataOffset) + len(f.data)
	}

	return img
}

func parseEntries(img []byte) []fileEntry {
	count := binary.LittleEndian.Uint32(img[0:4])

	entries := make([]fileEntry, 0, count)
	pos := 4
	for i := uint32(0); i < count; i++ {
		nameBytes := img[pos+1 : pos+1+nameLen]
		name := cstring(nameBytes)
		dataOffset := binary.LittleEndian.Uint32(img[pos+1+nameLen : pos+1+nameLen+4])
		length := binary.LittleEndian.Uint32(img[pos+1+nameLen+4 : pos+1+nameLen+8])

		entries = append(entries, fileEntry{name: name, offset: dataOffset, length: length})

		pos = int(dataOffset) + int(length)
	}
	return entries
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Init builds the demo image, parses it into a flat array of VFS file
// nodes, and returns a synthetic root directory whose Finddir performs a
// linear name match across them.
func Init() *vfs.Node {
	early.Printf("Building fake initrd image...\n")

	img := Build()
	entries := parseEntries(img)

	nodes := make([]*vfs.Node, len(entries))
	for i, e := range entries {
		entry := e // capture for the closure below
		nodes[i] = &vfs.Node{
			Name:   entry.name,
			Flags:  vfs.FlagFile,
			Inode:  uint32(i),
			Length: entry.length,
			Read: func(offset, size uint32, buf []byte) uint32 {
				return readFile(img, entry, offset, size, buf)
			},
		}
	}

	root := &vfs.Node{
		Name:  "initrd",
		Flags: vfs.FlagDirectory,
		Finddir: func(name string) *vfs.Node {
			for _, n := range nodes {
				if n.Name == name {
					return n
				}
			}
			return nil
		},
	}
	return root
}

// readFile clamps offset/size against the file's recorded length and
// copies the requested window out of the image.
func readFile(img []byte, entry fileEntry, offset, size uint32, buf []byte) uint32 {
	if offset > entry.length {
		return 0
	}
	if offset+size > entry.length {
		size = entry.length - offset
	}

	src := img[entry.offset+offset : entry.offset+offset+size]
	n := copy(buf, src)
	return uint32(n)
}
