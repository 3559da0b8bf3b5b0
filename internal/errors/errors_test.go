package errors

import (
	stderrors "errors"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewParsingError("failed to open input file", os.ErrNotExist)
	assert.Equal(t, "[PARSING] failed to open input file: file does not exist", err.Error())

	bare := NewConfigError("impossible denominator", nil)
	assert.Equal(t, "[CONFIG] impossible denominator", bare.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewStorageError("failed to ping database", fs.ErrPermission)
	assert.True(t, stderrors.Is(err, fs.ErrPermission))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestWithContext(t *testing.T) {
	err := NewParsingError("malformed input row", nil).
		WithContext("line", 42).
		WithContext("path", "data/loan_data.csv")

	assert.Equal(t, 42, err.Context["line"])
	assert.Equal(t, "data/loan_data.csv", err.Context["path"])
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("cleaned snapshot")
	assert.Equal(t, ErrTypeNotFound, err.Type)
	assert.Contains(t, err.Error(), "cleaned snapshot not found")
}
