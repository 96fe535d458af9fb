package flash

import "fmt"

// ReadError indicates a failed region read.
type ReadError struct {
	Address uint32
	Size    int
	Err     error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read 0x%X bytes at 0x%X: %v", e.Size, e.Address, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// EraseError indicates a failed region erase.
type EraseError struct {
	Address uint32
	Size    int
	Err     error
}

func (e *EraseError) Error() string {
	return fmt.Sprintf("erase 0x%X bytes at 0x%X: %v", e.Size, e.Address, e.Err)
}

func (e *EraseError) Unwrap() error { return e.Err }

// WriteError indicates a failed region write.
type WriteError struct {
	Address uint32
	Size    int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write 0x%X bytes at 0x%X: %v", e.Size, e.Address, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// VerifyMismatchError indicates that read-back data differs from what was written.
type VerifyMismatchError struct {
	// Address is the flash address of the first differing byte
	Address  uint32
	Expected byte
	Actual   byte
}

func (e *VerifyMismatchError) Error() string {
	return fmt.Sprintf("verify mismatch at 0x%X: expected 0x%02X, got 0x%02X",
		e.Address, e.Expected, e.Actual)
}
