package ptable

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Magic is the two-byte marker every partition table starts with.
var Magic = [2]byte{0xAA, 0x50}

// Layout constants for the deployed flash.
const (
	// DefaultAddress is the flash offset of the partition table
	DefaultAddress = 0x8000

	// DefaultLogicalSize is the size of the partition table itself (3 KiB)
	DefaultLogicalSize = 0xC00

	// DefaultEraseAlignedSize is the erase-aligned span containing the table
	DefaultEraseAlignedSize = 0x1000

	// EraseSectorSize is the hardware erase granularity
	EraseSectorSize = 0x1000

	// ChunkSize is the read granularity used when comparing flash to a candidate
	ChunkSize = 256

	// ErasedByte is the value of an erased flash byte
	ErasedByte = 0xFF
)

// Table is a candidate partition table image. Treat it as immutable.
type Table []byte

// HasMagic reports whether the table starts with the magic marker.
func (t Table) HasMagic() bool {
	return len(t) >= len(Magic) && t[0] == Magic[0] && t[1] == Magic[1]
}

// Region describes where the partition table lives in flash.
type Region struct {
	// Address is the byte offset of the table in flash
	Address uint32

	// LogicalSize is the size of the table structure
	LogicalSize uint32

	// EraseAlignedSize is the span that must be erased to rewrite the table
	EraseAlignedSize uint32
}

// DefaultRegion returns the region used by the deployed devices.
func DefaultRegion() Region {
	return Region{
		Address:          DefaultAddress,
		LogicalSize:      DefaultLogicalSize,
		EraseAlignedSize: DefaultEraseAlignedSize,
	}
}

// Validate checks the region invariants: the aligned size is a non-zero
// multiple of the erase sector, the logical size fits inside it and is a
// whole number of scan chunks, and the address is sector-aligned.
func (r Region) Validate() error {
	if r.EraseAlignedSize == 0 || r.EraseAlignedSize%EraseSectorSize != 0 {
		return fmt.Errorf("erase-aligned size 0x%X is not a multiple of the 0x%X sector size",
			r.EraseAlignedSize, EraseSectorSize)
	}
	if r.Address%EraseSectorSize != 0 {
		return fmt.Errorf("address 0x%X is not sector aligned", r.Address)
	}
	if r.LogicalSize == 0 || r.LogicalSize > r.EraseAlignedSize {
		return fmt.Errorf("logical size 0x%X must be in (0, 0x%X]", r.LogicalSize, r.EraseAlignedSize)
	}
	if r.LogicalSize%ChunkSize != 0 {
		return fmt.Errorf("logical size 0x%X is not a multiple of %d", r.LogicalSize, ChunkSize)
	}
	return nil
}

func (r Region) String() string {
	return fmt.Sprintf("0x%X+0x%X (aligned 0x%X)", r.Address, r.LogicalSize, r.EraseAlignedSize)
}

// Pad returns a fresh buffer of size bytes holding data at offset 0 and
// ErasedByte everywhere else. Data longer than size is truncated.
func Pad(data []byte, size int) []byte {
	buf := make([]byte, size)
	n := copy(buf, data)
	for i := n; i < size; i++ {
		buf[i] = ErasedByte
	}
	return buf
}

// Digest returns the hex-encoded BLAKE3-256 digest of the table. It is the
// identity logged for a candidate so two runs can be correlated.
func Digest(t Table) string {
	sum := blake3.Sum256(t)
	return hex.EncodeToString(sum[:])
}
