package rpath

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/appsworld/go-rpath/types"
)

// A Load represents any Mach-O load command.
type Load interface {
	Raw() []byte
	String() string
	Command() types.LoadCmd
	LoadSize() uint32
	Put([]byte, binary.ByteOrder) int
}

// LoadCmdBytes is a command-tagged sequence of bytes. This is used for
// load commands that are not interesting to us, and to round-trip
// unknown command types unchanged.
type LoadCmdBytes struct {
	types.LoadCmd
	LoadBytes
}

func (s LoadCmdBytes) String() string {
	return s.LoadCmd.String() + ": " + s.LoadBytes.String()
}

// A LoadBytes is the uninterpreted bytes of a Mach-O load command,
// including its tag+size prefix.
type LoadBytes []byte

func (b LoadBytes) String() string {
	s := "["
	for i, a := range b {
		if i > 0 {
			s += " "
			if len(b) > 48 && i >= 16 {
				s += fmt.Sprintf("... (%d bytes)", len(b))
				break
			}
		}
		s += fmt.Sprintf("%x", a)
	}
	s += "]"
	return s
}

func (b LoadBytes) Raw() []byte      { return b }
func (b LoadBytes) LoadSize() uint32 { return uint32(len(b)) }

func (b LoadBytes) Put(d []byte, o binary.ByteOrder) int {
	return copy(d, b)
}

/*******************************************************************************
 * LC_RPATH
 *******************************************************************************/

// A Rpath represents a Mach-O LC_RPATH command.
type Rpath struct {
	LoadBytes
	types.RpathCmd
	Path string
}

// NewRpath builds an LC_RPATH command carrying path. The command size is
// the 8-byte frame plus the 4-byte path offset field, the NUL-terminated
// path, and zero padding up to the next 8-byte multiple. There is no
// length cap; longer paths simply grow the command.
func NewRpath(path string) (*Rpath, error) {
	if strings.IndexByte(path, 0) != -1 {
		return nil, fmt.Errorf("run path %q contains a NUL byte", path)
	}
	r := &Rpath{Path: path}
	r.LoadCmd = types.LC_RPATH
	payload := 4 + len(path) + 1
	r.Len = roundUp(uint32(types.LoadCmdHeaderSize+payload), types.LoadCmdAlign)
	r.RpathCmd.Path = types.RpathPathOffset
	return r, nil
}

func (r *Rpath) String() string { return r.Path }

func (r *Rpath) LoadSize() uint32 { return r.Len }

// Put serializes the command into b: tag, size, path offset field, the
// path bytes, a NUL terminator, then zeros out to Len.
func (r *Rpath) Put(b []byte, o binary.ByteOrder) int {
	n := r.RpathCmd.Put(b, o)
	n += copy(b[n:], r.Path)
	for ; n < int(r.Len); n++ {
		b[n] = 0
	}
	return n
}

func roundUp(x, align uint32) uint32 {
	return (x + align - 1) &^ (align - 1)
}
