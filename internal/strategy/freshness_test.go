package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckFreshness(t *testing.T) {
	candle := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		now        time.Time
		actionable bool
		days       int
		reason     FreshnessReason
	}{
		{"yesterday just after midnight", time.Date(2024, 5, 11, 0, 5, 0, 0, time.UTC), true, 1, ReasonFresh},
		{"yesterday late evening", time.Date(2024, 5, 11, 23, 59, 59, 0, time.UTC), true, 1, ReasonFresh},
		{"same day forming bar", time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), false, 0, ReasonForming},
		{"two days old", time.Date(2024, 5, 12, 0, 5, 0, 0, time.UTC), false, 2, ReasonStale},
		{"trading halt gap", time.Date(2024, 5, 13, 0, 5, 0, 0, time.UTC), false, 3, ReasonStale},
		{"candle from the future", time.Date(2024, 5, 9, 0, 5, 0, 0, time.UTC), false, -1, ReasonFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := CheckFreshness(candle, tt.now)
			assert.Equal(t, tt.actionable, f.Actionable)
			assert.Equal(t, tt.days, f.DaysElapsed)
			assert.Equal(t, tt.reason, f.Reason)
		})
	}
}

func TestDaysElapsed_UsesUTCDates(t *testing.T) {
	// 23:30 in UTC-5 on the 10th is already the 11th in UTC.
	est := time.FixedZone("EST", -5*3600)
	candle := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 5, 10, 23, 30, 0, 0, est)
	assert.Equal(t, 1, DaysElapsed(candle, now))
}

func TestDaysElapsed_AcrossMonthAndYear(t *testing.T) {
	assert.Equal(t, 1, DaysElapsed(
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC),
	))
	assert.Equal(t, 1, DaysElapsed(
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC),
	))
}
