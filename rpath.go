// Package rpath edits the load command table of Mach-O binaries held in
// memory, inserting LC_RPATH run-path commands while keeping the file
// structurally valid.
package rpath

import (
	"encoding/binary"

	"github.com/appsworld/go-rpath/types"
)

// AddRpath inserts an LC_RPATH load command carrying path immediately
// after the last existing load command of the Mach-O buffer in data and
// returns the grown buffer. The header's NCommands and SizeCommands
// counters are rewritten in the file's detected byte order; the inserted
// command itself is always encoded little-endian.
//
// The input buffer is parsed in full before anything is written, so on
// error data is returned to the caller untouched.
//
// No other load command is rewritten. Any command holding an absolute
// file offset past the insertion point (LC_SYMTAB, segment file offsets,
// LC_CODE_SIGNATURE and friends) is left pointing at its pre-insertion
// position; its target content has moved by the new command's size.
func AddRpath(data []byte, path string) ([]byte, error) {
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	r, err := NewRpath(path)
	if err != nil {
		return nil, err
	}
	return spliceLoad(data, t, r), nil
}

// spliceLoad writes l after the last load command, shifting the trailing
// content, and patches the header counters both in t and in the output
// buffer. All reads are done by the time this runs; it only writes. The
// output is built by concatenation rather than shifting in place.
func spliceLoad(data []byte, t *FileTOC, l Load) []byte {
	insert := int(t.HdrSize() + t.LoadSize())

	rec := make([]byte, l.LoadSize())
	l.Put(rec, binary.LittleEndian)

	out := make([]byte, 0, len(data)+len(rec))
	out = append(out, data[:insert]...)
	out = append(out, rec...)
	out = append(out, data[insert:]...)

	t.AddLoad(l)
	t.ByteOrder.PutUint32(out[types.NCommandsOffset:], t.NCommands)
	t.ByteOrder.PutUint32(out[types.SizeCommandsOffset:], t.SizeCommands)

	return out
}

// AddRpath splices a new LC_RPATH command into the file's buffer and
// keeps the in-memory table in sync with it.
func (f *File) AddRpath(path string) error {
	r, err := NewRpath(path)
	if err != nil {
		return err
	}
	f.data = spliceLoad(f.data, &f.FileTOC, r)
	return nil
}
