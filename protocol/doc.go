// Package protocol implements the wire protocol spoken with the flash stub,
// a small loader that runs on the target and exposes raw flash erase, write
// and read over a UART.
//
// # Protocol Overview
//
// Every exchange is one command frame followed by one response frame:
//
//	Command:  [SOP][CMD][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//	Response: [SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// Where:
//   - SOP = Start of Packet (0x01)
//   - EOP = End of Packet (0x17)
//   - LEN = 16-bit data length (little-endian)
//   - CHECKSUM = 16-bit checksum (little-endian, 2's complement)
//
// # Command Builders
//
//	frame, err := protocol.BuildEraseRegionCmd(0x8000, 0x1000)
//	frame, err := protocol.BuildWriteRegionCmd(0x8000, chunk)
//	frame, err := protocol.BuildReadRegionCmd(0x8000, 256)
//
// # Response Parsers
//
//	statusCode, data, err := protocol.ParseResponse(frame)
//	if statusCode != protocol.StatusSuccess {
//	    return &protocol.ProtocolError{Operation: "erase region", StatusCode: statusCode}
//	}
//
// # Stub Side
//
// ParseCommand, the Parse*Args helpers and BuildResponse implement the
// other end of the link. They back the simulated stubs used in tests.
package protocol
