package ptable

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableHasMagic(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  bool
	}{
		{name: "magic", table: Table{0xAA, 0x50, 0x00}, want: true},
		{name: "swapped", table: Table{0x50, 0xAA}, want: false},
		{name: "erased", table: Table{0xFF, 0xFF}, want: false},
		{name: "too short", table: Table{0xAA}, want: false},
		{name: "empty", table: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.HasMagic(); got != tt.want {
				t.Errorf("HasMagic() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name    string
		region  Region
		wantErr string
	}{
		{name: "default", region: DefaultRegion()},
		{
			name:   "two sectors",
			region: Region{Address: 0x8000, LogicalSize: 0x1800, EraseAlignedSize: 0x2000},
		},
		{
			name:    "unaligned erase size",
			region:  Region{Address: 0x8000, LogicalSize: 0xC00, EraseAlignedSize: 0xC00},
			wantErr: "not a multiple",
		},
		{
			name:    "unaligned address",
			region:  Region{Address: 0x8100, LogicalSize: 0xC00, EraseAlignedSize: 0x1000},
			wantErr: "not sector aligned",
		},
		{
			name:    "logical larger than aligned",
			region:  Region{Address: 0x8000, LogicalSize: 0x1100, EraseAlignedSize: 0x1000},
			wantErr: "logical size",
		},
		{
			name:    "logical not chunk multiple",
			region:  Region{Address: 0x8000, LogicalSize: 0xC10, EraseAlignedSize: 0x1000},
			wantErr: "multiple of 256",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestPad(t *testing.T) {
	got := Pad([]byte{0xAA, 0x50, 0x01}, 6)
	want := []byte{0xAA, 0x50, 0x01, 0xFF, 0xFF, 0xFF}
	if !bytes.Equal(got, want) {
		t.Errorf("Pad() = % X, want % X", got, want)
	}

	src := []byte{1, 2, 3, 4}
	got = Pad(src, 2)
	if !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("Pad() truncation = % X", got)
	}
	got[0] = 9
	if src[0] != 1 {
		t.Error("Pad() must not alias its input")
	}
}

func TestDigest(t *testing.T) {
	a := Digest(Table{0xAA, 0x50, 0x01})
	b := Digest(Table{0xAA, 0x50, 0x02})

	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex characters", len(a))
	}
	if a == b {
		t.Error("different tables produced the same digest")
	}
	if a != Digest(Table{0xAA, 0x50, 0x01}) {
		t.Error("digest is not deterministic")
	}
}
