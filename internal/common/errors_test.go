package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	err := NewAppError("BUDGET_EXCEEDED", "document too long", ErrBudgetExceeded)
	assert.True(t, errors.Is(err, ErrBudgetExceeded))
	assert.Contains(t, err.Error(), "BUDGET_EXCEEDED")
	assert.Contains(t, err.Error(), "document too long")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.Is(wrapped, ErrBudgetExceeded))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewAppError("CONFIG_ERROR", "x", ErrConfiguration), "configuration"},
		{NewAppError("ACQUISITION", "x", ErrAcquisition), "acquisition"},
		{NewAppError("BUDGET_EXCEEDED", "x", ErrBudgetExceeded), "budget_exceeded"},
		{NewAppError("TRANSPORT", "x", ErrTransport), "transport"},
		{NewAppError("RESPONSE_FORMAT", "x", ErrResponseFormat), "response_format"},
		{NewAppError("RENAME_RACE", "x", ErrFileSystemRace), "filesystem_race"},
		{errors.New("plain"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}
