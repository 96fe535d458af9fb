package ptable

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Constants for the binary entry format.
const (
	// EntrySize is the size of one partition entry in bytes
	EntrySize = 32

	// LabelSize is the size of the NUL-padded label field
	LabelSize = 16

	// MaxTableFileSize bounds how much LoadReader will read
	MaxTableFileSize = DefaultEraseAlignedSize
)

// md5Marker starts the optional checksum entry.
var md5Marker = [2]byte{0xEB, 0xEB}

// Partition types.
const (
	TypeApp  = 0x00
	TypeData = 0x01
)

// App subtypes.
const (
	SubtypeFactory = 0x00
	SubtypeOTA0    = 0x10
	SubtypeOTA15   = 0x1F
	SubtypeTest    = 0x20
)

// Entry flags.
const (
	FlagEncrypted = 1 << 0
	FlagReadOnly  = 1 << 1
)

// Entry is one decoded partition entry.
type Entry struct {
	// Type is the partition type (TypeApp, TypeData, or custom)
	Type byte

	// Subtype refines Type (e.g. SubtypeOTA0+n for OTA app slots)
	Subtype byte

	// Offset is the partition start address in flash
	Offset uint32

	// Size is the partition size in bytes
	Size uint32

	// Label is the partition name with trailing NULs removed
	Label string

	// Flags holds FlagEncrypted / FlagReadOnly bits
	Flags uint32
}

// IsApp reports whether the entry is an application partition.
func (e Entry) IsApp() bool {
	return e.Type == TypeApp
}

// OTASlot returns the OTA slot index of an app entry, or -1 if the entry is
// not an OTA slot.
func (e Entry) OTASlot() int {
	if e.Type != TypeApp || e.Subtype < SubtypeOTA0 || e.Subtype > SubtypeOTA15 {
		return -1
	}
	return int(e.Subtype - SubtypeOTA0)
}

// ParseError reports a malformed entry.
type ParseError struct {
	// Index is the zero-based entry position
	Index int

	// Reason describes the problem
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
}

// Load reads a raw partition table binary from path.
//
// Example:
//
//	table, err := ptable.Load("build/partition_table/partition-table.bin")
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f)
}

// LoadReader reads a raw partition table binary from r. Inputs larger than
// MaxTableFileSize are rejected since they cannot fit the flash region.
func LoadReader(r io.Reader) (Table, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTableFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty table")
	}
	if len(data) > MaxTableFileSize {
		return nil, fmt.Errorf("table exceeds %d bytes", MaxTableFileSize)
	}
	return Table(data), nil
}

// Parse decodes the entries of a partition table. Decoding stops at the
// first all-0xFF entry or at the MD5 entry, whose digest is checked.
func Parse(t Table) ([]Entry, error) {
	if !t.HasMagic() {
		return nil, &ParseError{Index: 0, Reason: "missing magic marker"}
	}

	entries := make([]Entry, 0, len(t)/EntrySize)
	for i := 0; (i+1)*EntrySize <= len(t); i++ {
		raw := t[i*EntrySize : (i+1)*EntrySize]

		if isErased(raw) {
			return entries, nil
		}

		if raw[0] == md5Marker[0] && raw[1] == md5Marker[1] {
			if err := checkMD5(t[:i*EntrySize], raw); err != nil {
				return nil, &ParseError{Index: i, Reason: err.Error()}
			}
			return entries, nil
		}

		if raw[0] != Magic[0] || raw[1] != Magic[1] {
			return nil, &ParseError{
				Index:  i,
				Reason: fmt.Sprintf("bad entry magic 0x%02X%02X", raw[0], raw[1]),
			}
		}

		entries = append(entries, parseEntry(raw))
	}

	return entries, nil
}

// parseEntry decodes one 32-byte entry. The caller has checked the magic.
//
//	[MAGIC(2)][TYPE(1)][SUBTYPE(1)][OFFSET(4)][SIZE(4)][LABEL(16)][FLAGS(4)]
func parseEntry(raw []byte) Entry {
	label := raw[12 : 12+LabelSize]
	if n := bytes.IndexByte(label, 0); n >= 0 {
		label = label[:n]
	}

	return Entry{
		Type:    raw[2],
		Subtype: raw[3],
		Offset:  binary.LittleEndian.Uint32(raw[4:8]),
		Size:    binary.LittleEndian.Uint32(raw[8:12]),
		Label:   string(label),
		Flags:   binary.LittleEndian.Uint32(raw[28:32]),
	}
}

// checkMD5 compares the digest carried in the MD5 entry with the digest
// of the entries that precede it.
func checkMD5(preceding, raw []byte) error {
	for _, b := range raw[2:16] {
		if b != ErasedByte {
			return fmt.Errorf("malformed md5 entry")
		}
	}
	sum := md5.Sum(preceding)
	if !bytes.Equal(sum[:], raw[16:32]) {
		return fmt.Errorf("md5 mismatch: table has %X, computed %X", raw[16:32], sum[:])
	}
	return nil
}

// Encode builds a table image of size bytes from entries, optionally sealed
// with an MD5 entry. Unused space is ErasedByte.
//
// Example:
//
//	table, err := ptable.Encode([]ptable.Entry{
//	    {Type: ptable.TypeData, Subtype: 0x02, Offset: 0x9000, Size: 0x6000, Label: "nvs"},
//	    {Type: ptable.TypeApp, Subtype: ptable.SubtypeOTA0, Offset: 0x10000, Size: 0x1E0000, Label: "app0"},
//	}, true, ptable.DefaultLogicalSize)
func Encode(entries []Entry, withMD5 bool, size int) (Table, error) {
	need := len(entries) * EntrySize
	if withMD5 {
		need += EntrySize
	}
	if need > size {
		return nil, fmt.Errorf("%d entries need %d bytes, table is %d", len(entries), need, size)
	}

	buf := Pad(nil, size)
	for i, e := range entries {
		if len(e.Label) > LabelSize {
			return nil, &ParseError{Index: i, Reason: fmt.Sprintf("label %q longer than %d bytes", e.Label, LabelSize)}
		}
		raw := buf[i*EntrySize : (i+1)*EntrySize]
		raw[0], raw[1] = Magic[0], Magic[1]
		raw[2] = e.Type
		raw[3] = e.Subtype
		binary.LittleEndian.PutUint32(raw[4:8], e.Offset)
		binary.LittleEndian.PutUint32(raw[8:12], e.Size)
		label := raw[12 : 12+LabelSize]
		for j := range label {
			label[j] = 0
		}
		copy(label, e.Label)
		binary.LittleEndian.PutUint32(raw[28:32], e.Flags)
	}

	if withMD5 {
		off := len(entries) * EntrySize
		raw := buf[off : off+EntrySize]
		raw[0], raw[1] = md5Marker[0], md5Marker[1]
		sum := md5.Sum(buf[:off])
		copy(raw[16:], sum[:])
	}

	return Table(buf), nil
}

func isErased(b []byte) bool {
	for _, v := range b {
		if v != ErasedByte {
			return false
		}
	}
	return true
}
