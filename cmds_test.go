package rpath

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/appsworld/go-rpath/types"
)

func TestNewRpathSize(t *testing.T) {
	tests := []struct {
		pathLen int
		want    uint32
	}{
		{0, 16},    // 8 + 4 + 0 + 1 = 13 -> 16
		{1, 16},    // 14 -> 16
		{7, 24},    // 20 -> 24
		{8, 24},    // 21 -> 24
		{100, 120}, // 113 -> 120
	}
	for _, tt := range tests {
		path := strings.Repeat("a", tt.pathLen)
		r, err := NewRpath(path)
		if err != nil {
			t.Fatalf("NewRpath(len %d) error = %v", tt.pathLen, err)
		}
		if r.Len != tt.want {
			t.Errorf("NewRpath(len %d).Len = %d, want %d", tt.pathLen, r.Len, tt.want)
		}
		if r.Len%types.LoadCmdAlign != 0 {
			t.Errorf("NewRpath(len %d).Len = %d, not 8-byte aligned", tt.pathLen, r.Len)
		}
		if r.Len < 16 {
			t.Errorf("NewRpath(len %d).Len = %d, below minimum frame", tt.pathLen, r.Len)
		}
		if r.LoadCmd != types.LC_RPATH {
			t.Errorf("LoadCmd = %#x, want LC_RPATH", uint32(r.LoadCmd))
		}
		if r.RpathCmd.Path != types.RpathPathOffset {
			t.Errorf("path offset field = %d, want %d", r.RpathCmd.Path, types.RpathPathOffset)
		}
	}
}

func TestNewRpathEmbeddedNul(t *testing.T) {
	if _, err := NewRpath("/usr/\x00lib"); err == nil {
		t.Error("NewRpath() with embedded NUL succeeded, want error")
	}
}

func TestRpathPut(t *testing.T) {
	r, err := NewRpath("/x")
	if err != nil {
		t.Fatalf("NewRpath() error = %v", err)
	}
	b := make([]byte, r.Len)
	if n := r.Put(b, binary.LittleEndian); n != int(r.Len) {
		t.Fatalf("Put() = %d, want %d", n, r.Len)
	}
	want := []byte{
		0x1c, 0x00, 0x00, 0x80, // LC_RPATH
		0x10, 0x00, 0x00, 0x00, // cmdsize 16
		0x10, 0x00, 0x00, 0x00, // path offset field, always 16
		'/', 'x', 0x00, 0x00, // path, NUL, padding
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("record bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCmdBytesString(t *testing.T) {
	l := LoadCmdBytes{types.LC_UUID, LoadBytes{0x1b, 0, 0, 0}}
	if got := l.String(); !strings.HasPrefix(got, "LC_UUID: ") {
		t.Errorf("String() = %q, want LC_UUID prefix", got)
	}
}
