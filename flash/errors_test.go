package flash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("controller busy")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"read", &ReadError{Address: 0x8000, Size: 256, Err: cause}, []string{"read 0x100 bytes at 0x8000", "controller busy"}},
		{"erase", &EraseError{Address: 0x8000, Size: 0x1000, Err: cause}, []string{"erase 0x1000 bytes at 0x8000"}},
		{"write", &WriteError{Address: 0x8000, Size: 0x1000, Err: cause}, []string{"write 0x1000 bytes at 0x8000"}},
		{"verify", &VerifyMismatchError{Address: 0x8C00, Expected: 0xFF, Actual: 0x00}, []string{"0x8C00", "0xFF", "0x00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.want {
				assert.Contains(t, tt.err.Error(), s)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("controller busy")

	assert.ErrorIs(t, &ReadError{Err: cause}, cause)
	assert.ErrorIs(t, &EraseError{Err: cause}, cause)
	assert.ErrorIs(t, &WriteError{Err: cause}, cause)
}
