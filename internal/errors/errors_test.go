package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("bad header row", fmt.Errorf("row 3 empty")),
			want: "[PARSING] bad header row: row 3 empty",
		},
		{
			name: "without cause",
			err:  NewValidationError("upgrade minimum out of range"),
			want: "[VALIDATION] upgrade minimum out of range",
		},
		{
			name: "not found",
			err:  NewNotFoundError("mastersheet"),
			want: "[NOT_FOUND] mastersheet not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("failed to write bundle", cause)

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewConfigError("missing base dir", nil).
		WithContext("env", "EXAM_PATHS_BASE_DIR")

	assert.Equal(t, "EXAM_PATHS_BASE_DIR", err.Context["env"])
}

func TestIsType(t *testing.T) {
	err := NewNotFoundError("catalog workbook")

	assert.True(t, IsType(err, ErrTypeNotFound))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeNotFound))
}
