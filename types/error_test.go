package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(ErrRetrievalFailed, "fact store query failed").
		WithCause(cause).
		WithRetryable(true)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "RETRIEVAL_FAILED")
	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrRetrievalFailed, GetErrorCode(err))
}

func TestError_ThroughFmtChain(t *testing.T) {
	err := NewError(ErrGenerationFailed, "completion failed").WithRetryable(true)
	wrapped := fmt.Errorf("answer step: %w", err)

	var target *Error
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, ErrGenerationFailed, target.Code)

	// Code and retryability survive fmt wrapping.
	assert.Equal(t, ErrGenerationFailed, GetErrorCode(wrapped))
	assert.True(t, IsRetryable(wrapped))
}

func TestIsRetryable_PlainError(t *testing.T) {
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}
