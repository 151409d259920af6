package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidFormat, "unsupported format %q", "csv")
	assert.Equal(t, CodeInvalidFormat, err.Code)
	assert.Equal(t, `INVALID_FORMAT: unsupported format "csv"`, err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(CodeInvalidInput, cause, "decode json")

	assert.Equal(t, "INVALID_INPUT: decode json: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(CodeInvalidInput, "x"), CodeInvalidInput, true},
		{"other code", New(CodeInvalidInput, "x"), CodeInternal, false},
		{"outer code wins", Wrap(CodeInternal, New(CodeInvalidInput, "inner"), "outer"), CodeInternal, true},
		{"fmt wrapped", fmt.Errorf("load: %w", New(CodeFileNotFound, "x")), CodeFileNotFound, true},
		{"plain error", errors.New("plain"), CodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Is(tt.err, tt.code))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "bad joint", UserMessage(New(CodeInvalidProject, "bad joint")))
	assert.Equal(t, "decode: EOF", UserMessage(Wrap(CodeInvalidInput, errors.New("EOF"), "decode")))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, Code(""), GetCode(errors.New("plain")))
}
