package grow

import (
	"github.com/moffa90/go-partgrow/flash"
	"github.com/moffa90/go-partgrow/ptable"
)

// ScanOutcome is the result of comparing flash to the candidate.
type ScanOutcome int

const (
	// ScanDiffers means flash does not hold the candidate yet
	ScanDiffers ScanOutcome = iota

	// ScanMatches means flash already holds the candidate, padded with 0xFF
	ScanMatches

	// ScanUnreadable means a read failed before the comparison finished
	ScanUnreadable
)

func (o ScanOutcome) String() string {
	switch o {
	case ScanDiffers:
		return "differs"
	case ScanMatches:
		return "matches"
	case ScanUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// ScanResult details a scan.
type ScanResult struct {
	Outcome ScanOutcome

	// Offset is the first differing byte relative to the region start,
	// or -1 when not applicable
	Offset int

	// BlankOrForeign is set when the existing contents lack the magic
	// marker (erased flash, or a table at a different offset)
	BlankOrForeign bool

	// Err is the *flash.ReadError behind ScanUnreadable
	Err error
}

// Scan reads the logical table region in ptable.ChunkSize chunks and
// compares it byte for byte with the candidate padded to the logical size.
// The first difference ends the scan. The region must pass
// ptable.Region.Validate.
func Scan(driver flash.Driver, region ptable.Region, table ptable.Table) ScanResult {
	expected := ptable.Pad(table, int(region.LogicalSize))
	buf := make([]byte, ptable.ChunkSize)

	for off := 0; off < len(expected); off += ptable.ChunkSize {
		addr := region.Address + uint32(off)
		if err := driver.ReadRegion(addr, buf); err != nil {
			return ScanResult{
				Outcome: ScanUnreadable,
				Offset:  -1,
				Err:     &flash.ReadError{Address: addr, Size: len(buf), Err: err},
			}
		}

		if off == 0 && !ptable.Table(buf).HasMagic() {
			return ScanResult{Outcome: ScanDiffers, Offset: 0, BlankOrForeign: true}
		}

		want := expected[off : off+ptable.ChunkSize]
		for i := range buf {
			if buf[i] != want[i] {
				return ScanResult{Outcome: ScanDiffers, Offset: off + i}
			}
		}
	}

	return ScanResult{Outcome: ScanMatches, Offset: -1}
}
