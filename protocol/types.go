package protocol

// FlashInfo describes the flash chip behind the stub.
// Returned by the Get Flash Info command.
type FlashInfo struct {
	// FlashSize is the total flash size in bytes
	FlashSize uint32

	// SectorSize is the erase granularity in bytes
	SectorSize uint32
}
