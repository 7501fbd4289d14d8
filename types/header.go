// Mach-O header data structures
// Originally at:
// http://developer.apple.com/mac/library/documentation/DeveloperTools/Conceptual/MachORuntime/Reference/reference.html (since deleted by Apple)
// Archived copy at:
// https://web.archive.org/web/20090819232456/http://developer.apple.com/documentation/DeveloperTools/Conceptual/MachORuntime/index.html

package types

import (
	"encoding/binary"
	"fmt"
)

// A FileHeader represents a Mach-O file header.
type FileHeader struct {
	Magic        Magic
	CPU          CPU
	SubCPU       CPUSubtype
	Type         HeaderFileType
	NCommands    uint32
	SizeCommands uint32
	Flags        HeaderFlag
	Reserved     uint32
}

const (
	FileHeaderSize32 = 7 * 4
	FileHeaderSize64 = 8 * 4

	// NCommandsOffset and SizeCommandsOffset are the fixed byte offsets of
	// the two bookkeeping counters, identical for 32 and 64-bit headers.
	NCommandsOffset    = 16
	SizeCommandsOffset = 20
)

// Put serializes the header into b using byte order o and returns the
// number of bytes written.
func (h *FileHeader) Put(b []byte, o binary.ByteOrder) int {
	o.PutUint32(b[0:], uint32(h.Magic))
	o.PutUint32(b[4:], uint32(h.CPU))
	o.PutUint32(b[8:], uint32(h.SubCPU))
	o.PutUint32(b[12:], uint32(h.Type))
	o.PutUint32(b[16:], h.NCommands)
	o.PutUint32(b[20:], h.SizeCommands)
	o.PutUint32(b[24:], uint32(h.Flags))
	if h.Magic == Magic32 {
		return FileHeaderSize32
	}
	o.PutUint32(b[28:], h.Reserved)
	return FileHeaderSize64
}

// Size returns the on-disk header size for the header's magic.
func (h *FileHeader) Size() uint32 {
	if h.Magic == Magic64 {
		return FileHeaderSize64
	}
	return FileHeaderSize32
}

func (h FileHeader) String() string {
	return fmt.Sprintf(
		"Magic         = %s\n"+
			"Type          = %s\n"+
			"CPU           = %s\n"+
			"Commands      = %d (Size: %d)\n"+
			"Flags         = %#x\n",
		h.Magic,
		h.Type,
		h.CPU,
		h.NCommands,
		h.SizeCommands,
		uint32(h.Flags),
	)
}

type Magic uint32

const (
	Magic32 Magic = 0xfeedface
	Magic64 Magic = 0xfeedfacf

	// Byte-swapped forms as seen by a big-endian read of a file whose
	// byte order is the opposite of the reader's.
	Magic32Swapped Magic = 0xcefaedfe
	Magic64Swapped Magic = 0xcffaedfe
)

var magicStrings = []intName{
	{uint32(Magic32), "32-bit MachO"},
	{uint32(Magic64), "64-bit MachO"},
}

func (i Magic) String() string   { return stringName(uint32(i), magicStrings, false) }
func (i Magic) GoString() string { return stringName(uint32(i), magicStrings, true) }

// A CPU is a Mach-O cpu type.
type CPU uint32

const (
	cpuArch64 = 0x01000000 // 64 bit ABI
)

const (
	CPU386   CPU = 7
	CPUAmd64 CPU = CPU386 | cpuArch64
	CPUArm   CPU = 12
	CPUArm64 CPU = CPUArm | cpuArch64
	CPUPpc   CPU = 18
	CPUPpc64 CPU = CPUPpc | cpuArch64
)

var cpuStrings = []intName{
	{uint32(CPU386), "i386"},
	{uint32(CPUAmd64), "Amd64"},
	{uint32(CPUArm), "ARM"},
	{uint32(CPUArm64), "AARCH64"},
	{uint32(CPUPpc), "PowerPC"},
	{uint32(CPUPpc64), "PowerPC 64"},
}

func (i CPU) String() string   { return stringName(uint32(i), cpuStrings, false) }
func (i CPU) GoString() string { return stringName(uint32(i), cpuStrings, true) }

// A CPUSubtype is a Mach-O cpu subtype. The header field is read as a
// signed 32-bit value; the capability bits live in the top byte.
type CPUSubtype uint32

// A HeaderFileType is the Mach-O file type, e.g. an object file, executable, or dynamic library.
type HeaderFileType uint32

const (
	MH_OBJECT   HeaderFileType = 0x1 /* relocatable object file */
	MH_EXECUTE  HeaderFileType = 0x2 /* demand paged executable file */
	MH_CORE     HeaderFileType = 0x4 /* core file */
	MH_DYLIB    HeaderFileType = 0x6 /* dynamically bound shared library */
	MH_DYLINKER HeaderFileType = 0x7 /* dynamic link editor */
	MH_BUNDLE   HeaderFileType = 0x8 /* dynamically bound bundle file */
	MH_DSYM     HeaderFileType = 0xa /* companion file with only debug sections */
)

var fileTypeStrings = []intName{
	{uint32(MH_OBJECT), "MH_OBJECT"},
	{uint32(MH_EXECUTE), "MH_EXECUTE"},
	{uint32(MH_CORE), "MH_CORE"},
	{uint32(MH_DYLIB), "MH_DYLIB"},
	{uint32(MH_DYLINKER), "MH_DYLINKER"},
	{uint32(MH_BUNDLE), "MH_BUNDLE"},
	{uint32(MH_DSYM), "MH_DSYM"},
}

func (i HeaderFileType) String() string   { return stringName(uint32(i), fileTypeStrings, false) }
func (i HeaderFileType) GoString() string { return stringName(uint32(i), fileTypeStrings, true) }

type HeaderFlag uint32

const (
	NoUndefs HeaderFlag = 0x1
	DyldLink HeaderFlag = 0x4
	TwoLevel HeaderFlag = 0x80
	PIE      HeaderFlag = 0x200000
)
