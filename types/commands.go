package types

import "encoding/binary"

// A LoadCmd is a Mach-O load command.
type LoadCmd uint32

func (c LoadCmd) Command() LoadCmd { return c }

const (
	LC_REQ_DYLD       LoadCmd = 0x80000000
	LC_SEGMENT        LoadCmd = 0x1  // segment of this file to be mapped
	LC_SYMTAB         LoadCmd = 0x2  // link-edit stab symbol table info
	LC_THREAD         LoadCmd = 0x4  // thread
	LC_UNIXTHREAD     LoadCmd = 0x5  // thread+stack
	LC_DYSYMTAB       LoadCmd = 0xb  // dynamic link-edit symbol table info
	LC_LOAD_DYLIB     LoadCmd = 0xc  // load dylib command
	LC_ID_DYLIB       LoadCmd = 0xd  // id dylib command
	LC_LOAD_DYLINKER  LoadCmd = 0xe  // load a dynamic linker
	LC_PREBOUND_DYLIB LoadCmd = 0x10 // modules prebound for a dynamically linked shared library
	/*
	 * load a dynamically linked shared library that is allowed to be missing
	 * (all symbols are weak imported).
	 */
	LC_LOAD_WEAK_DYLIB     LoadCmd = (0x18 | LC_REQ_DYLD)
	LC_SEGMENT_64          LoadCmd = 0x19                 // 64-bit segment of this file to be mapped
	LC_UUID                LoadCmd = 0x1b                 // the uuid
	LC_RPATH               LoadCmd = (0x1c | LC_REQ_DYLD) // runpath additions
	LC_CODE_SIGNATURE      LoadCmd = 0x1d                 // local of code signature
	LC_REEXPORT_DYLIB      LoadCmd = (0x1f | LC_REQ_DYLD) // load and re-export dylib
	LC_DYLD_INFO_ONLY      LoadCmd = (0x22 | LC_REQ_DYLD) // compressed dyld information only
	LC_FUNCTION_STARTS     LoadCmd = 0x26                 // compressed table of function start addresses
	LC_MAIN                LoadCmd = (0x28 | LC_REQ_DYLD) // replacement for LC_UNIXTHREAD
	LC_DATA_IN_CODE        LoadCmd = 0x29                 // table of non-instructions in __text
	LC_SOURCE_VERSION      LoadCmd = 0x2A                 // source version used to build binary
	LC_BUILD_VERSION       LoadCmd = 0x32                 // build for platform min OS version
	LC_DYLD_EXPORTS_TRIE   LoadCmd = (0x33 | LC_REQ_DYLD) // used with linkedit_data_command, payload is trie
	LC_DYLD_CHAINED_FIXUPS LoadCmd = (0x34 | LC_REQ_DYLD) // used with linkedit_data_command
)

var cmdStrings = []intName{
	{uint32(LC_SEGMENT), "LC_SEGMENT"},
	{uint32(LC_SYMTAB), "LC_SYMTAB"},
	{uint32(LC_THREAD), "LC_THREAD"},
	{uint32(LC_UNIXTHREAD), "LC_UNIXTHREAD"},
	{uint32(LC_DYSYMTAB), "LC_DYSYMTAB"},
	{uint32(LC_LOAD_DYLIB), "LC_LOAD_DYLIB"},
	{uint32(LC_ID_DYLIB), "LC_ID_DYLIB"},
	{uint32(LC_LOAD_DYLINKER), "LC_LOAD_DYLINKER"},
	{uint32(LC_PREBOUND_DYLIB), "LC_PREBOUND_DYLIB"},
	{uint32(LC_LOAD_WEAK_DYLIB), "LC_LOAD_WEAK_DYLIB"},
	{uint32(LC_SEGMENT_64), "LC_SEGMENT_64"},
	{uint32(LC_UUID), "LC_UUID"},
	{uint32(LC_RPATH), "LC_RPATH"},
	{uint32(LC_CODE_SIGNATURE), "LC_CODE_SIGNATURE"},
	{uint32(LC_REEXPORT_DYLIB), "LC_REEXPORT_DYLIB"},
	{uint32(LC_DYLD_INFO_ONLY), "LC_DYLD_INFO_ONLY"},
	{uint32(LC_FUNCTION_STARTS), "LC_FUNCTION_STARTS"},
	{uint32(LC_MAIN), "LC_MAIN"},
	{uint32(LC_DATA_IN_CODE), "LC_DATA_IN_CODE"},
	{uint32(LC_SOURCE_VERSION), "LC_SOURCE_VERSION"},
	{uint32(LC_BUILD_VERSION), "LC_BUILD_VERSION"},
	{uint32(LC_DYLD_EXPORTS_TRIE), "LC_DYLD_EXPORTS_TRIE"},
	{uint32(LC_DYLD_CHAINED_FIXUPS), "LC_DYLD_CHAINED_FIXUPS"},
}

func (c LoadCmd) String() string   { return stringName(uint32(c), cmdStrings, false) }
func (c LoadCmd) GoString() string { return stringName(uint32(c), cmdStrings, true) }

const (
	// LoadCmdHeaderSize is the tag+size prefix every load command carries.
	LoadCmdHeaderSize = 8

	// LoadCmdAlign is the alignment every inserted command size is
	// rounded up to.
	LoadCmdAlign = 8

	// RpathPathOffset is the value stored in the path offset field of
	// every inserted LC_RPATH command.
	RpathPathOffset = 16
)

// A RpathCmd is a Mach-O rpath command.
type RpathCmd struct {
	LoadCmd // LC_RPATH
	Len     uint32
	Path    uint32
}

// Put serializes the fixed fields of the rpath command into b.
func (r *RpathCmd) Put(b []byte, o binary.ByteOrder) int {
	o.PutUint32(b[0:], uint32(r.LoadCmd))
	o.PutUint32(b[4:], r.Len)
	o.PutUint32(b[8:], r.Path)
	return 12
}

// A SymtabCmd is a Mach-O symbol table command.
type SymtabCmd struct {
	LoadCmd // LC_SYMTAB
	Len     uint32
	Symoff  uint32
	Nsyms   uint32
	Stroff  uint32
	Strsize uint32
}
