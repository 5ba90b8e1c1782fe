package drip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercent(t *testing.T) {
	assert.Equal(t, 0, CompletionPercent(0, 10))
	assert.Equal(t, 50, CompletionPercent(5, 10))
	assert.Equal(t, 100, CompletionPercent(10, 10))
	assert.Equal(t, 33, CompletionPercent(1, 3))
	assert.Equal(t, 67, CompletionPercent(2, 3))
}

func TestCompletionPercentZeroLessons(t *testing.T) {
	assert.Equal(t, 0, CompletionPercent(0, 0), "a course with no published lessons is 0%, not an error")
	assert.Equal(t, 0, CompletionPercent(3, 0))
}

func TestCompletionPercentBounds(t *testing.T) {
	// Inputs out of range clamp instead of escaping 0-100.
	assert.Equal(t, 100, CompletionPercent(15, 10))
	assert.Equal(t, 0, CompletionPercent(-1, 10))
	for completed := 0; completed <= 10; completed++ {
		pct := CompletionPercent(completed, 10)
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
	}
}
