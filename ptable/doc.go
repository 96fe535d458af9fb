// Package ptable describes the on-flash partition table that the grow
// procedure replaces.
//
// # Layout
//
// The table is a fixed-size binary structure stored at a fixed flash offset.
// It begins with the two-byte magic marker 0xAA 0x50 and is followed by
// 32-byte partition entries:
//
//	[MAGIC(2)][TYPE(1)][SUBTYPE(1)][OFFSET(4)][SIZE(4)][LABEL(16)][FLAGS(4)]
//
// OFFSET, SIZE and FLAGS are little-endian. An optional MD5 entry
// (0xEB 0xEB, fourteen 0xFF bytes, then the MD5 of all preceding entries)
// seals the list, and an entry of all 0xFF bytes terminates it.
//
// The table occupies a logical region (0xC00 bytes) inside a larger
// erase-aligned region (0x1000 bytes). Bytes past the logical table up to
// the aligned size are 0xFF.
//
// # Usage
//
// Load a candidate table produced by the build:
//
//	table, err := ptable.Load("partitions.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entries, err := ptable.Parse(table)
//	for _, e := range entries {
//	    fmt.Printf("%-16s 0x%06X 0x%06X\n", e.Label, e.Offset, e.Size)
//	}
//
// Parse is a diagnostic decoder. The structural gate that runs before any
// flash is touched lives in the grow package.
package ptable
