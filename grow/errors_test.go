package grow

import (
	"errors"
	"strings"
	"testing"

	"github.com/moffa90/go-partgrow/flash"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Reason: "table is 10 bytes, expected 3072"}
	if got := err.Error(); got != "invalid partition table: table is 10 bytes, expected 3072" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&ValidationError{}).Error(); got != "invalid partition table" {
		t.Errorf("Error() without reason = %q", got)
	}
}

func TestSlotDeniedError(t *testing.T) {
	err := &SlotDeniedError{Required: SlotB, Actual: SlotByIndex(0)}
	msg := err.Error()
	for _, want := range []string{"slot B", "app0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestReplaceError(t *testing.T) {
	inner := errors.New("bus fault")
	last := &flash.EraseError{Address: 0x8000, Size: 0x1000, Err: inner}
	err := &ReplaceError{Attempts: 10, Last: last}

	if !strings.Contains(err.Error(), "after 10 attempts") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is should reach the driver error")
	}

	var eraseErr *flash.EraseError
	if !errors.As(err, &eraseErr) || eraseErr.Address != 0x8000 {
		t.Error("errors.As should find *flash.EraseError")
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ValidationError{}, "validation"},
		{&SlotDeniedError{}, "slot_denied"},
		{&flash.EraseError{Err: errors.New("x")}, "erase"},
		{&flash.WriteError{Err: errors.New("x")}, "write"},
		{&flash.ReadError{Err: errors.New("x")}, "read"},
		{&flash.VerifyMismatchError{}, "verify"},
		{&ReplaceError{Last: &flash.VerifyMismatchError{}}, "verify"},
		{errors.New("other"), "unknown"},
	}

	for _, tt := range tests {
		if got := errorKind(tt.err); got != tt.want {
			t.Errorf("errorKind(%T) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
