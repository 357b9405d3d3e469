package helpers

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(models.DateLayout, value)
}

// ParseDateOrDefault parses a YYYY-MM-DD calendar date, falling back to
// def's own calendar day when value is empty or malformed. The fallback
// is midnight in def's location, so "today" means the server's local
// day, not the UTC one.
func ParseDateOrDefault(value string, def time.Time) time.Time {
	if d, err := time.Parse(models.DateLayout, value); err == nil {
		return d
	}
	return time.Date(def.Year(), def.Month(), def.Day(), 0, 0, 0, 0, def.Location())
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}
