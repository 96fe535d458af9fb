// Package flash defines the flash driver collaborator used by the grow
// procedure and provides three implementations of it.
//
// # Driver
//
// A Driver exposes blocking, byte-addressed region operations:
//
//	EraseRegion(addr, size) error   // size aligned to the erase sector
//	WriteRegion(addr, data) error
//	ReadRegion(addr, buf) error
//
// There is no asynchronous variant. Each call occupies the caller until
// the hardware finishes.
//
// # Implementations
//
//   - Memory: an in-memory NOR flash with fault injection, for tests and
//     simulation. Writes can only clear bits; erase restores 0xFF.
//   - Image: a flash image file on disk with the same semantics.
//   - Serial: a client for the flash stub protocol over a UART, opened
//     with OpenSerial.
//
// # Errors
//
// ReadError, EraseError and WriteError wrap a driver failure with the
// address and size involved. VerifyMismatchError reports the first byte
// that differs after a read-back. All of them are retryable failures of
// the replace sequence.
package flash
