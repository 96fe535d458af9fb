package flash

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Image is a flash image file used as a flash device. It follows the same
// NOR semantics as Memory.
type Image struct {
	file   *os.File
	size   int
	sector uint32
}

// OpenImage opens the flash image at path, creating it if needed. A file
// shorter than size is extended with 0xFF.
//
// Example:
//
//	img, err := flash.OpenImage("flash.bin", 4<<20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer img.Close()
func OpenImage(path string, size int) (*Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %d", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	if current := info.Size(); current < int64(size) {
		fill := bytes.Repeat([]byte{0xFF}, size-int(current))
		if _, err := f.WriteAt(fill, current); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to extend image: %w", err)
		}
	}

	return &Image{file: f, size: size, sector: DefaultSectorSize}, nil
}

// Close closes the underlying file.
func (img *Image) Close() error {
	return img.file.Close()
}

func (img *Image) EraseRegion(addr uint32, size uint32) error {
	if err := checkEraseAlignment(addr, size, img.sector); err != nil {
		return err
	}
	if err := checkSpan(addr, int(size), img.size); err != nil {
		return err
	}
	_, err := img.file.WriteAt(bytes.Repeat([]byte{0xFF}, int(size)), int64(addr))
	return err
}

func (img *Image) WriteRegion(addr uint32, data []byte) error {
	if err := checkSpan(addr, len(data), img.size); err != nil {
		return err
	}

	current := make([]byte, len(data))
	if _, err := img.file.ReadAt(current, int64(addr)); err != nil && err != io.EOF {
		return err
	}
	for i, b := range data {
		current[i] &= b
	}
	_, err := img.file.WriteAt(current, int64(addr))
	return err
}

func (img *Image) ReadRegion(addr uint32, buf []byte) error {
	if err := checkSpan(addr, len(buf), img.size); err != nil {
		return err
	}
	_, err := img.file.ReadAt(buf, int64(addr))
	return err
}
