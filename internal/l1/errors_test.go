package l1

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrTimeout))
	assert.True(t, IsTransient(ErrUnderflow))
	assert.True(t, IsTransient(ErrOverflow))
	assert.True(t, IsTransient(ErrTimeError))
	assert.True(t, IsTransient(ErrCorruption))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", ErrTimeout)))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", ErrCorruption)))
	assert.False(t, IsTransient(ErrDeviceGone))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrDeviceGone))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", ErrDeviceGone)))
	assert.False(t, IsFatal(ErrTimeout))
	assert.False(t, IsFatal(ErrTimeError))
	assert.False(t, IsFatal(ErrCorruption))
	assert.False(t, IsFatal(nil))
}
