// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rpath

// High level access to low level data structures.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/appsworld/go-rpath/types"
)

var (
	// ErrUnrecognizedFormat is returned when the leading magic matches
	// none of the four known Mach-O variants.
	ErrUnrecognizedFormat = errors.New("unrecognized Mach-O magic")

	// ErrTruncated is returned when the buffer is shorter than a declared
	// structure requires.
	ErrTruncated = errors.New("truncated Mach-O buffer")

	// ErrCmdSizeUnderflow is returned when a load command declares a size
	// smaller than its own 8-byte tag+size frame.
	ErrCmdSizeUnderflow = errors.New("load command size below 8-byte minimum")
)

// FormatError is returned by some operations if the data does
// not have the correct format for an object file.
type FormatError struct {
	off int64
	msg string
	err error
}

func (e *FormatError) Error() string {
	msg := e.msg
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	msg += fmt.Sprintf(" at byte %#x", e.off)
	return msg
}

func (e *FormatError) Unwrap() error { return e.err }

// DetectFormat reads the first 4 bytes of data as a big-endian value and
// resolves the file's word size and byte order from the magic. This is
// the only validation performed before structural parsing; a buffer that
// passes here may still turn out to be truncated or corrupt.
func DetectFormat(data []byte) (types.Magic, binary.ByteOrder, error) {
	if len(data) < 4 {
		return 0, nil, &FormatError{0, "buffer too small for magic", ErrTruncated}
	}
	switch types.Magic(binary.BigEndian.Uint32(data)) {
	case types.Magic32:
		return types.Magic32, binary.BigEndian, nil
	case types.Magic64:
		return types.Magic64, binary.BigEndian, nil
	case types.Magic32Swapped:
		return types.Magic32, binary.LittleEndian, nil
	case types.Magic64Swapped:
		return types.Magic64, binary.LittleEndian, nil
	}
	return 0, nil, &FormatError{0, "invalid magic number", ErrUnrecognizedFormat}
}

// reader is a bounds-checked cursor over the raw buffer. All header and
// load command fields go through it with the detected byte order, so a
// 32-bit file is never misread with a 64-bit layout.
type reader struct {
	data []byte
	off  int
	bo   binary.ByteOrder
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || len(r.data)-r.off < n {
		return nil, &FormatError{int64(r.off), fmt.Sprintf("need %d bytes", n), ErrTruncated}
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return r.bo.Uint32(b), nil
}

func (r *reader) int32() (int32, error) {
	v, err := r.uint32()
	return int32(v), err
}

// A FileTOC is the parsed header and ordered load command table of a
// Mach-O buffer.
type FileTOC struct {
	types.FileHeader
	ByteOrder binary.ByteOrder
	Loads     []Load
}

func (t *FileTOC) String() string {
	return t.FileHeader.String() + t.LoadsString()
}

// LoadsString returns a string representation of all the MachO's load commands
func (t *FileTOC) LoadsString() string {
	var sb strings.Builder
	for i, l := range t.Loads {
		fmt.Fprintf(&sb, "%03d: %s%s%s\n", i, l.Command(), pad(28-len(l.Command().String())), l)
	}
	return sb.String()
}

func pad(length int) string {
	if length > 0 {
		return strings.Repeat(" ", length)
	}
	return " "
}

// HdrSize returns the size in bytes of the Mach-O header for the
// resolved magic.
func (t *FileTOC) HdrSize() uint32 {
	return t.FileHeader.Size()
}

// LoadSize returns the size of all the load commands in the table
// (but not their associated data).
func (t *FileTOC) LoadSize() uint32 {
	cmdsz := uint32(0)
	for _, l := range t.Loads {
		cmdsz += l.LoadSize()
	}
	return cmdsz
}

// AddLoad appends l to the table and updates the header counters.
func (t *FileTOC) AddLoad(l Load) {
	t.Loads = append(t.Loads, l)
	t.NCommands++
	t.SizeCommands += l.LoadSize()
}

// Parse reads the header and materializes the load command table from a
// Mach-O buffer. Load command payloads are kept opaque except for
// LC_RPATH, whose path string is decoded for display and duplicate
// checks. Parse never writes to data.
func Parse(data []byte) (*FileTOC, error) {
	magic, bo, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	t := &FileTOC{ByteOrder: bo}
	r := &reader{data: data, bo: bo}

	// Header fields in fixed order; the magic was already decoded.
	if _, err := r.bytes(4); err != nil {
		return nil, err
	}
	t.Magic = magic
	cputype, err := r.int32()
	if err != nil {
		return nil, err
	}
	t.CPU = types.CPU(cputype)
	subtype, err := r.int32()
	if err != nil {
		return nil, err
	}
	t.SubCPU = types.CPUSubtype(subtype)
	filetype, err := r.uint32()
	if err != nil {
		return nil, err
	}
	t.Type = types.HeaderFileType(filetype)
	if t.NCommands, err = r.uint32(); err != nil {
		return nil, err
	}
	if t.SizeCommands, err = r.uint32(); err != nil {
		return nil, err
	}
	flags, err := r.uint32()
	if err != nil {
		return nil, err
	}
	t.Flags = types.HeaderFlag(flags)
	if magic == types.Magic64 {
		if t.Reserved, err = r.uint32(); err != nil {
			return nil, err
		}
	}

	// Then load commands. Each begins with a uint32 command and length.
	t.Loads = make([]Load, 0, t.NCommands)
	for i := uint32(0); i < t.NCommands; i++ {
		start := r.off
		cmd, err := r.uint32()
		if err != nil {
			return nil, err
		}
		siz, err := r.uint32()
		if err != nil {
			return nil, err
		}
		if siz < types.LoadCmdHeaderSize {
			return nil, &FormatError{int64(start), fmt.Sprintf("load command %d size %d", i, siz), ErrCmdSizeUnderflow}
		}
		if _, err := r.bytes(int(siz) - types.LoadCmdHeaderSize); err != nil {
			return nil, err
		}
		raw := data[start:r.off]
		switch types.LoadCmd(cmd) {
		case types.LC_RPATH:
			t.Loads = append(t.Loads, parseRpath(raw, bo))
		default:
			t.Loads = append(t.Loads, LoadCmdBytes{types.LoadCmd(cmd), LoadBytes(raw)})
		}
	}

	return t, nil
}

// parseRpath decodes the path string out of an existing LC_RPATH record.
// A record whose path offset does not land inside the record is kept
// opaque instead of failing the whole parse.
func parseRpath(raw []byte, bo binary.ByteOrder) Load {
	if len(raw) < 12 {
		return LoadCmdBytes{types.LC_RPATH, LoadBytes(raw)}
	}
	off := bo.Uint32(raw[8:12])
	if off < 12 || off > uint32(len(raw)) {
		return LoadCmdBytes{types.LC_RPATH, LoadBytes(raw)}
	}
	r := &Rpath{LoadBytes: raw, Path: cstring(raw[off:])}
	r.LoadCmd = types.LC_RPATH
	r.Len = uint32(len(raw))
	r.RpathCmd.Path = off
	return r
}

func cstring(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		i = len(b)
	}
	return string(b[0:i])
}

// A File represents a Mach-O file held in memory.
type File struct {
	FileTOC
	data []byte
}

// Open reads the named file into memory and parses it as a Mach-O binary.
func Open(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return NewFile(data)
}

// NewFile parses a Mach-O binary held in data. The File keeps a reference
// to data; callers must not mutate it while the File is in use.
func NewFile(data []byte) (*File, error) {
	t, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return &File{FileTOC: *t, data: data}, nil
}

// Data returns the file's current backing buffer.
func (f *File) Data() []byte { return f.data }

// Save writes the file's current buffer to the named path.
func (f *File) Save(name string) error {
	return os.WriteFile(name, f.data, 0755)
}

// Rpaths returns the run paths already present in the load command table,
// in table order.
func (f *File) Rpaths() []string {
	var paths []string
	for _, l := range f.Loads {
		if r, ok := l.(*Rpath); ok {
			paths = append(paths, r.Path)
		}
	}
	return paths
}
