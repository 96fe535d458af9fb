package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name           string
		frame          []byte
		wantStatusCode byte
		wantDataLen    int
		wantErr        bool
		errMsg         string
	}{
		{
			name:           "valid response with no data",
			frame:          BuildResponse(StatusSuccess, nil),
			wantStatusCode: StatusSuccess,
			wantDataLen:    0,
		},
		{
			name:           "valid response with data",
			frame:          BuildResponse(StatusSuccess, []byte{0x01, 0x02, 0x03}),
			wantStatusCode: StatusSuccess,
			wantDataLen:    3,
		},
		{
			name:           "error status code",
			frame:          BuildResponse(ErrFlash, nil),
			wantStatusCode: ErrFlash,
			wantDataLen:    0,
		},
		{
			name:    "frame too short",
			frame:   []byte{StartOfPacket, 0x00, 0x00},
			wantErr: true,
			errMsg:  "frame too short",
		},
		{
			name:    "invalid SOP",
			frame:   []byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, EndOfPacket},
			wantErr: true,
			errMsg:  "invalid start of packet",
		},
		{
			name:    "invalid EOP",
			frame:   []byte{StartOfPacket, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF},
			wantErr: true,
			errMsg:  "invalid end of packet",
		},
		{
			name: "length mismatch",
			frame: func() []byte {
				f := BuildResponse(StatusSuccess, []byte{0x01, 0x02})
				f[2] = 0x05
				return f
			}(),
			wantErr: true,
			errMsg:  "frame length mismatch",
		},
		{
			name: "checksum mismatch",
			frame: func() []byte {
				f := BuildResponse(StatusSuccess, []byte{0x01, 0x02})
				f[4] ^= 0xFF
				return f
			}(),
			wantErr: true,
			errMsg:  "checksum mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data, err := ParseResponse(tt.frame)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status != tt.wantStatusCode {
				t.Errorf("status = 0x%02X, want 0x%02X", status, tt.wantStatusCode)
			}
			if len(data) != tt.wantDataLen {
				t.Errorf("data length = %d, want %d", len(data), tt.wantDataLen)
			}
		})
	}
}

func TestFrameLength(t *testing.T) {
	frame := BuildResponse(StatusSuccess, bytes.Repeat([]byte{0xAB}, 200))

	n, err := FrameLength(frame[:HeaderSize])
	if err != nil {
		t.Fatalf("FrameLength() error: %v", err)
	}
	if n != len(frame) {
		t.Errorf("FrameLength() = %d, want %d", n, len(frame))
	}

	if _, err := FrameLength(frame[:2]); err == nil {
		t.Error("expected error for short header")
	}
	if _, err := FrameLength([]byte{0x00, 0x00, 0x00, 0x00}); err == nil {
		t.Error("expected error for bad SOP")
	}
}

func TestFlashInfoRoundTrip(t *testing.T) {
	want := FlashInfo{FlashSize: 4 << 20, SectorSize: 0x1000}

	got, err := ParseFlashInfoResponse(BuildFlashInfoResponse(want))
	if err != nil {
		t.Fatalf("ParseFlashInfoResponse() error: %v", err)
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}

	if _, err := ParseFlashInfoResponse([]byte{0x01}); err == nil {
		t.Error("expected error for short payload")
	}
}

func TestParseArgsErrors(t *testing.T) {
	if _, _, err := ParseEraseRegionArgs([]byte{1, 2, 3}); err == nil {
		t.Error("ParseEraseRegionArgs: expected error")
	}
	if _, _, err := ParseWriteRegionArgs([]byte{1, 2, 3, 4}); err == nil {
		t.Error("ParseWriteRegionArgs: expected error for address-only payload")
	}
	if _, _, err := ParseReadRegionArgs([]byte{1}); err == nil {
		t.Error("ParseReadRegionArgs: expected error")
	}
}

func TestProtocolError(t *testing.T) {
	err := &ProtocolError{Operation: "erase region", StatusCode: ErrAddress}

	msg := err.Error()
	if !strings.Contains(msg, "erase region failed") {
		t.Errorf("error message should contain operation, got: %s", msg)
	}
	if !strings.Contains(msg, "invalid address") || !strings.Contains(msg, "0x09") {
		t.Errorf("error message should contain status, got: %s", msg)
	}

	if !IsProtocolError(err) {
		t.Error("IsProtocolError() = false for *ProtocolError")
	}
	if IsProtocolError(bytes.ErrTooLarge) {
		t.Error("IsProtocolError() = true for unrelated error")
	}
	if got := (&ProtocolError{Operation: "x", StatusCode: 0x77}).Error(); !strings.Contains(got, "unknown status code 0x77") {
		t.Errorf("unexpected message for unknown status: %s", got)
	}
}
