package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("same point", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(40.7, -74.0, 40.7, -74.0))
	})

	t.Run("new york to london", func(t *testing.T) {
		d := HaversineDistance(40.7128, -74.0060, 51.5074, -0.1278)
		assert.InDelta(t, 5570, d, 10)
	})

	t.Run("meters are rounded", func(t *testing.T) {
		d := DistanceMeters(41.3851, 2.1734, 41.3861, 2.1734)
		assert.InDelta(t, 111, d, 1)
		assert.Equal(t, d, float64(int(d)))
	})
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(0, 0))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
}
