package protocol

import (
	"encoding/binary"
	"fmt"
)

// FrameLength returns the total length of a frame given at least its first
// HeaderSize bytes. It lets stream readers know how much more to read.
func FrameLength(header []byte) (int, error) {
	if len(header) < HeaderSize {
		return 0, fmt.Errorf("header too short: got %d bytes, need %d", len(header), HeaderSize)
	}
	if header[0] != StartOfPacket {
		return 0, fmt.Errorf("invalid start of packet: got 0x%02X, expected 0x%02X", header[0], StartOfPacket)
	}
	dataLen := binary.LittleEndian.Uint16(header[2:4])
	return MinFrameSize + int(dataLen), nil
}

// parseFrame validates frame structure, length and checksum and returns the
// code byte and the data payload.
func parseFrame(frame []byte) (code byte, data []byte, err error) {
	if len(frame) < MinFrameSize {
		return 0, nil, fmt.Errorf("frame too short: got %d bytes, minimum is %d", len(frame), MinFrameSize)
	}

	if frame[0] != StartOfPacket {
		return 0, nil, fmt.Errorf("invalid start of packet: got 0x%02X, expected 0x%02X", frame[0], StartOfPacket)
	}

	if frame[len(frame)-1] != EndOfPacket {
		return 0, nil, fmt.Errorf("invalid end of packet: got 0x%02X, expected 0x%02X", frame[len(frame)-1], EndOfPacket)
	}

	code = frame[1]
	dataLen := binary.LittleEndian.Uint16(frame[2:4])

	expectedLen := MinFrameSize + int(dataLen)
	if len(frame) != expectedLen {
		return 0, nil, fmt.Errorf("frame length mismatch: got %d bytes, expected %d (MinFrameSize=%d + dataLen=%d)",
			len(frame), expectedLen, MinFrameSize, dataLen)
	}

	checksumExpected := binary.LittleEndian.Uint16(frame[len(frame)-3 : len(frame)-1])
	checksumActual := calculatePacketChecksum(frame[1 : len(frame)-3])

	if checksumExpected != checksumActual {
		return 0, nil, fmt.Errorf("checksum mismatch: got 0x%04X, expected 0x%04X",
			checksumActual, checksumExpected)
	}

	if dataLen > 0 {
		data = frame[4 : 4+int(dataLen)]
	}

	return code, data, nil
}

// ParseResponse extracts status code and data from a response frame.
// Validates frame structure, length, and checksum.
//
// Response frame structure:
//
//	[SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
func ParseResponse(frame []byte) (statusCode byte, data []byte, err error) {
	return parseFrame(frame)
}

// ParseCommand extracts the command code and payload from a command frame.
// This is the stub side of the exchange.
func ParseCommand(frame []byte) (cmd byte, data []byte, err error) {
	return parseFrame(frame)
}

// ParseFlashInfoResponse parses the Get Flash Info response.
//
// Data format (8 bytes):
//
//	[FLASH_SIZE(4)][SECTOR_SIZE(4)]
func ParseFlashInfoResponse(data []byte) (*FlashInfo, error) {
	if len(data) != FlashInfoResponseSize {
		return nil, fmt.Errorf("invalid data length for Get Flash Info response: got %d bytes, expected %d", len(data), FlashInfoResponseSize)
	}

	return &FlashInfo{
		FlashSize:  binary.LittleEndian.Uint32(data[0:4]),
		SectorSize: binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

// BuildFlashInfoResponse encodes the Get Flash Info response payload.
func BuildFlashInfoResponse(info FlashInfo) []byte {
	data := make([]byte, FlashInfoResponseSize)
	binary.LittleEndian.PutUint32(data[0:4], info.FlashSize)
	binary.LittleEndian.PutUint32(data[4:8], info.SectorSize)
	return data
}

// ParseEraseRegionArgs decodes an Erase Region payload.
func ParseEraseRegionArgs(data []byte) (addr, size uint32, err error) {
	if len(data) != EraseArgsSize {
		return 0, 0, fmt.Errorf("invalid erase payload: got %d bytes, expected %d", len(data), EraseArgsSize)
	}
	return binary.LittleEndian.Uint32(data[0:4]), binary.LittleEndian.Uint32(data[4:8]), nil
}

// ParseWriteRegionArgs decodes a Write Region payload.
func ParseWriteRegionArgs(data []byte) (addr uint32, payload []byte, err error) {
	if len(data) <= AddressSize {
		return 0, nil, fmt.Errorf("invalid write payload: got %d bytes, need more than %d", len(data), AddressSize)
	}
	return binary.LittleEndian.Uint32(data[0:4]), data[AddressSize:], nil
}

// ParseReadRegionArgs decodes a Read Region payload.
func ParseReadRegionArgs(data []byte) (addr uint32, count int, err error) {
	if len(data) != ReadArgsSize {
		return 0, 0, fmt.Errorf("invalid read payload: got %d bytes, expected %d", len(data), ReadArgsSize)
	}
	return binary.LittleEndian.Uint32(data[0:4]), int(binary.LittleEndian.Uint16(data[4:6])), nil
}
