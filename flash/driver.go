package flash

import "errors"

// Driver is the flash collaborator. All calls are synchronous.
type Driver interface {
	// EraseRegion sets size bytes at addr to 0xFF. size must be a multiple
	// of the erase sector and addr must be sector aligned.
	EraseRegion(addr uint32, size uint32) error

	// WriteRegion programs data at addr.
	WriteRegion(addr uint32, data []byte) error

	// ReadRegion fills buf from addr.
	ReadRegion(addr uint32, buf []byte) error
}

// DefaultSectorSize is the erase granularity of the deployed flash.
const DefaultSectorSize = 0x1000

// Driver-level failures.
var (
	// ErrOutOfRange is returned for spans that fall outside the flash
	ErrOutOfRange = errors.New("span out of range")

	// ErrUnaligned is returned for erase spans not aligned to the sector size
	ErrUnaligned = errors.New("span not sector aligned")
)

// Op identifies a driver operation.
type Op int

const (
	OpErase Op = iota
	OpWrite
	OpRead
)

func (o Op) String() string {
	switch o {
	case OpErase:
		return "erase"
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return "unknown"
	}
}

func checkSpan(addr uint32, size int, total int) error {
	if size < 0 || int64(addr)+int64(size) > int64(total) {
		return ErrOutOfRange
	}
	return nil
}

func checkEraseAlignment(addr, size, sector uint32) error {
	if addr%sector != 0 || size%sector != 0 {
		return ErrUnaligned
	}
	return nil
}
