package protocol

import (
	"encoding/binary"
	"fmt"
)

// buildFrame wraps a payload in a frame.
//
// Frame structure:
//
//	[SOP][CODE][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// CODE is a command code on requests and a status code on responses.
func buildFrame(code byte, data []byte) []byte {
	frame := make([]byte, 0, MinFrameSize+len(data))

	// Start of packet
	frame = append(frame, StartOfPacket)

	frame = append(frame, code)

	// Data length (little-endian)
	frame = binary.LittleEndian.AppendUint16(frame, uint16(len(data)))

	frame = append(frame, data...)

	// Checksum covers everything after SOP up to the checksum itself
	checksum := calculatePacketChecksum(frame[1:])
	frame = binary.LittleEndian.AppendUint16(frame, checksum)

	// End of packet
	frame = append(frame, EndOfPacket)

	return frame
}

// BuildGetFlashInfoCmd constructs a Get Flash Info command frame.
//
// Frame structure:
//
//	[SOP][CMD][0x00][0x00][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildGetFlashInfoCmd() ([]byte, error) {
	return buildFrame(CmdGetFlashInfo, nil), nil
}

// BuildSyncCmd constructs a Sync command frame.
func BuildSyncCmd() ([]byte, error) {
	return buildFrame(CmdSync, nil), nil
}

// BuildEraseRegionCmd constructs an Erase Region command frame.
// The stub rejects spans that are not sector aligned with ErrAddress.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][ADDR(4)][SIZE(4)][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildEraseRegionCmd(addr, size uint32) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("erase size cannot be zero")
	}

	data := make([]byte, EraseArgsSize)
	binary.LittleEndian.PutUint32(data[0:4], addr)
	binary.LittleEndian.PutUint32(data[4:8], size)

	return buildFrame(CmdEraseRegion, data), nil
}

// BuildWriteRegionCmd constructs a Write Region command frame.
// Larger writes must be split by the caller into MaxDataSize chunks.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][ADDR(4)][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildWriteRegionCmd(addr uint32, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("data cannot be empty")
	}
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("data length %d exceeds maximum %d bytes", len(data), MaxDataSize)
	}

	payload := make([]byte, 0, AddressSize+len(data))
	payload = binary.LittleEndian.AppendUint32(payload, addr)
	payload = append(payload, data...)

	return buildFrame(CmdWriteRegion, payload), nil
}

// BuildReadRegionCmd constructs a Read Region command frame.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][ADDR(4)][COUNT(2)][CHECKSUM_L][CHECKSUM_H][EOP]
func BuildReadRegionCmd(addr uint32, count int) ([]byte, error) {
	if count <= 0 || count > MaxDataSize {
		return nil, fmt.Errorf("read count %d must be in 1..%d", count, MaxDataSize)
	}

	data := make([]byte, ReadArgsSize)
	binary.LittleEndian.PutUint32(data[0:4], addr)
	binary.LittleEndian.PutUint16(data[4:6], uint16(count))

	return buildFrame(CmdReadRegion, data), nil
}

// BuildResponse constructs a response frame. It is what the stub sends
// back, and what test doubles use to impersonate it.
func BuildResponse(statusCode byte, data []byte) []byte {
	return buildFrame(statusCode, data)
}
