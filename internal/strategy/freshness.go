package strategy

import "time"

// FreshnessReason names the outcome of a freshness check.
type FreshnessReason string

const (
	ReasonFresh   FreshnessReason = "fresh"
	ReasonForming FreshnessReason = "forming"
	ReasonStale   FreshnessReason = "stale"
	ReasonFuture  FreshnessReason = "future"
)

// Freshness is the result of gating a signal on the age of its last candle.
type Freshness struct {
	Actionable  bool
	DaysElapsed int
	Reason      FreshnessReason
}

// DaysElapsed returns the number of UTC calendar days between the candle's
// date and now's date. Time of day is ignored.
func DaysElapsed(candleTime, now time.Time) int {
	c := utcDate(candleTime)
	n := utcDate(now)
	return int(n.Sub(c).Hours() / 24)
}

// CheckFreshness allows a signal only when the last candle is dated exactly
// yesterday in UTC.
func CheckFreshness(candleTime, now time.Time) Freshness {
	days := DaysElapsed(candleTime, now)
	f := Freshness{DaysElapsed: days}
	switch {
	case days == 1:
		f.Actionable = true
		f.Reason = ReasonFresh
	case days == 0:
		f.Reason = ReasonForming
	case days < 0:
		f.Reason = ReasonFuture
	default:
		f.Reason = ReasonStale
	}
	return f
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
