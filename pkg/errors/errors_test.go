package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesIsComparison(t *testing.T) {
	wrapped := Wrap(ErrTargetNotFound, "resolving image")
	assert.True(t, Is(wrapped, ErrTargetNotFound))
	assert.Contains(t, wrapped.Error(), "resolving image")
}

func TestWrapfPreservesIsComparison(t *testing.T) {
	wrapped := Wrapf(ErrKernelQueryFailed, "pid %d", 4)
	assert.True(t, Is(wrapped, ErrKernelQueryFailed))
	assert.Contains(t, wrapped.Error(), "pid 4")
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, Is(ErrTargetNotFound, ErrAccessDenied))
	assert.False(t, Is(ErrUploadFailed, ErrWebhookSendFailed))
}
