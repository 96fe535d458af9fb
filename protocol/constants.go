package protocol

// ProtocolVersion is the flash stub protocol version implemented by this library.
const ProtocolVersion = "1.0"

// Frame structure constants.
const (
	// StartOfPacket is the frame start marker (0x01)
	StartOfPacket = 0x01

	// EndOfPacket is the frame end marker (0x17)
	EndOfPacket = 0x17

	// MinFrameSize is the minimum frame size in bytes:
	// SOP(1) + CMD/STATUS(1) + LEN(2) + CHECKSUM(2) + EOP(1)
	MinFrameSize = 7

	// HeaderSize is the number of bytes needed to learn a frame's length:
	// SOP(1) + CMD/STATUS(1) + LEN(2)
	HeaderSize = 4
)

// Command codes understood by the flash stub.
const (
	// CmdGetFlashInfo reports the flash chip size and erase sector size
	CmdGetFlashInfo = 0x32

	// CmdEraseRegion erases a sector-aligned span
	CmdEraseRegion = 0x34

	// CmdSync resets the stub's receive state
	CmdSync = 0x35

	// CmdWriteRegion writes up to MaxDataSize bytes at an address
	CmdWriteRegion = 0x39

	// CmdReadRegion reads up to MaxDataSize bytes from an address
	CmdReadRegion = 0x3D
)

// Status/Error codes returned by the stub.
const (
	// StatusSuccess indicates command was successfully received and executed
	StatusSuccess = 0x00

	// ErrLength indicates data amount is outside expected range
	ErrLength = 0x03

	// ErrData indicates data is not of proper form
	ErrData = 0x04

	// ErrCommand indicates command is not recognized
	ErrCommand = 0x05

	// ErrChecksum indicates packet checksum doesn't match expected value
	ErrChecksum = 0x08

	// ErrAddress indicates the address or span is outside flash or misaligned
	ErrAddress = 0x09

	// ErrFlash indicates the flash controller reported a failure
	ErrFlash = 0x0A

	// ErrUnknown indicates an unknown error occurred
	ErrUnknown = 0x0F
)

// MaxDataSize is the maximum data payload carried by a read or write frame.
const MaxDataSize = 256

// Payload sizes.
const (
	// AddressSize is the encoded size of a flash address
	AddressSize = 4

	// EraseArgsSize is the payload size for Erase Region: [ADDR(4)][SIZE(4)]
	EraseArgsSize = 8

	// ReadArgsSize is the payload size for Read Region: [ADDR(4)][LEN(2)]
	ReadArgsSize = 6

	// FlashInfoResponseSize is the data size for Get Flash Info response (8 bytes)
	FlashInfoResponseSize = 8

	// DefaultResponseBufferSize is large enough for the biggest response frame
	DefaultResponseBufferSize = MinFrameSize + MaxDataSize
)
