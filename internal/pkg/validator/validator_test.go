package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-03-01")
	assert.True(t, ok)
	assert.Equal(t, 2024, d.Year())

	_, ok = IsValidDate("01-03-2024")
	assert.False(t, ok)

	_, ok = IsValidDate("2024-13-01")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	durations := []string{"full_day", "morning", "afternoon"}
	assert.True(t, IsInSlice("morning", durations))
	assert.False(t, IsInSlice("evening", durations))
	assert.False(t, IsInSlice("", durations))
}
