package flash

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/moffa90/go-partgrow/protocol"
)

// ErrTimeout is returned when the stub does not answer in time.
var ErrTimeout = errors.New("timed out waiting for flash stub")

// DefaultSerialTimeout bounds each response read. Erasing a sector can take
// hundreds of milliseconds on some parts.
const DefaultSerialTimeout = 3 * time.Second

// Serial drives a flash stub over a byte stream, usually a UART.
type Serial struct {
	port   io.ReadWriter
	closer io.Closer
}

// NewSerial wraps an already-open link to the stub. The link may be any
// io.ReadWriter: a UART, a TCP bridge, or a test double.
func NewSerial(port io.ReadWriter) *Serial {
	if port == nil {
		panic("port cannot be nil")
	}
	s := &Serial{port: port}
	if c, ok := port.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// OpenSerial opens a UART at 8N1 with the given baud rate and read timeout.
//
// Example:
//
//	drv, err := flash.OpenSerial("/dev/ttyUSB0", 115200, flash.DefaultSerialTimeout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
func OpenSerial(name string, baudRate int, timeout time.Duration) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if timeout <= 0 {
		timeout = DefaultSerialTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("reset input buffer: %w", err)
	}

	return &Serial{port: timeoutReadWriter{port}, closer: port}, nil
}

// Close releases the link if it is closable.
func (s *Serial) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Sync resets the stub's receive state.
func (s *Serial) Sync() error {
	cmd, err := protocol.BuildSyncCmd()
	if err != nil {
		return err
	}
	_, err = s.transact("sync", cmd)
	return err
}

// Info queries the flash geometry behind the stub.
func (s *Serial) Info() (*protocol.FlashInfo, error) {
	cmd, err := protocol.BuildGetFlashInfoCmd()
	if err != nil {
		return nil, err
	}
	data, err := s.transact("get flash info", cmd)
	if err != nil {
		return nil, err
	}
	return protocol.ParseFlashInfoResponse(data)
}

func (s *Serial) EraseRegion(addr uint32, size uint32) error {
	cmd, err := protocol.BuildEraseRegionCmd(addr, size)
	if err != nil {
		return err
	}
	_, err = s.transact("erase region", cmd)
	return err
}

// WriteRegion sends data in protocol.MaxDataSize chunks.
func (s *Serial) WriteRegion(addr uint32, data []byte) error {
	for off := 0; off < len(data); off += protocol.MaxDataSize {
		end := min(off+protocol.MaxDataSize, len(data))

		cmd, err := protocol.BuildWriteRegionCmd(addr+uint32(off), data[off:end])
		if err != nil {
			return err
		}
		if _, err := s.transact("write region", cmd); err != nil {
			return fmt.Errorf("chunk at 0x%X: %w", addr+uint32(off), err)
		}
	}
	return nil
}

// ReadRegion fills buf in protocol.MaxDataSize chunks.
func (s *Serial) ReadRegion(addr uint32, buf []byte) error {
	for off := 0; off < len(buf); off += protocol.MaxDataSize {
		end := min(off+protocol.MaxDataSize, len(buf))

		cmd, err := protocol.BuildReadRegionCmd(addr+uint32(off), end-off)
		if err != nil {
			return err
		}
		data, err := s.transact("read region", cmd)
		if err != nil {
			return fmt.Errorf("chunk at 0x%X: %w", addr+uint32(off), err)
		}
		if len(data) != end-off {
			return fmt.Errorf("chunk at 0x%X: got %d bytes, expected %d", addr+uint32(off), len(data), end-off)
		}
		copy(buf[off:end], data)
	}
	return nil
}

// transact sends one command frame and returns the data of a successful
// response. Non-success statuses become *protocol.ProtocolError.
func (s *Serial) transact(op string, cmd []byte) ([]byte, error) {
	if _, err := s.port.Write(cmd); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	frame, err := s.readFrame()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	statusCode, data, err := protocol.ParseResponse(frame)
	if err != nil {
		return nil, err
	}
	if statusCode != protocol.StatusSuccess {
		return nil, &protocol.ProtocolError{Operation: op, StatusCode: statusCode}
	}
	return data, nil
}

// readFrame reads exactly one frame: the header first, then the remainder
// announced by its length field.
func (s *Serial) readFrame() ([]byte, error) {
	frame := make([]byte, protocol.DefaultResponseBufferSize)
	if _, err := io.ReadFull(s.port, frame[:protocol.HeaderSize]); err != nil {
		return nil, err
	}

	n, err := protocol.FrameLength(frame[:protocol.HeaderSize])
	if err != nil {
		return nil, err
	}
	if n > len(frame) {
		return nil, fmt.Errorf("response of %d bytes exceeds buffer of %d", n, len(frame))
	}

	if _, err := io.ReadFull(s.port, frame[protocol.HeaderSize:n]); err != nil {
		return nil, err
	}
	return frame[:n], nil
}

// timeoutReadWriter turns the (0, nil) that a serial port returns on read
// timeout into ErrTimeout, so io.ReadFull cannot spin.
type timeoutReadWriter struct {
	serial.Port
}

func (t timeoutReadWriter) Read(p []byte) (int, error) {
	n, err := t.Port.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, ErrTimeout
	}
	return n, err
}
