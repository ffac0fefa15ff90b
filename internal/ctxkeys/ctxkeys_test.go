package ctxkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()

	_, ok := RequestID(ctx)
	assert.False(t, ok)

	ctx = WithRequestID(ctx, "req-1")
	got, ok := RequestID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-1", got)

	_, ok = RequestID(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}

func TestMessageID(t *testing.T) {
	ctx := WithMessageID(context.Background(), "msg-1")
	got, ok := MessageID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "msg-1", got)
}
