package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateOrDefault(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*60*60)
	// Shortly after local midnight, still the previous day in UTC.
	now := time.Date(2024, 3, 2, 0, 30, 0, 0, loc)

	t.Run("explicit date wins", func(t *testing.T) {
		got := ParseDateOrDefault("2024-03-01", now)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
	})

	// The fallback is midnight of the default's own calendar day, so
	// "today" follows the server clock rather than the UTC day.
	t.Run("empty falls back to local midnight", func(t *testing.T) {
		got := ParseDateOrDefault("", now)
		assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, loc), got)
	})

	t.Run("malformed falls back to local midnight", func(t *testing.T) {
		got := ParseDateOrDefault("02/03/2024", now)
		assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, loc), got)
	})
}
