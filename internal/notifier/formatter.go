package notifier

import (
	"fmt"
	"strings"
	"time"

	"DailySignal/internal/model"
)

const dateLayout = "2006-01-02"

// FormatSignal formats one actionable signal. The close is printed with
// four decimal places.
func FormatSignal(sig model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 Daily Signal (%s)\n", sig.CandleTime.UTC().Format(dateLayout)))
	b.WriteString(fmt.Sprintf("Pair: %s\n", sig.Symbol))
	b.WriteString(fmt.Sprintf("Direction: %s\n", sig.Direction))
	b.WriteString(fmt.Sprintf("Close: %s", sig.Close.StringFixed(4)))
	return b.String()
}

// FormatStartup is the liveness message sent once when the process starts.
func FormatStartup(dailyAt string) string {
	return fmt.Sprintf("✅ Daily Signal Bot started! Scanning daily at %s UTC.", dailyAt)
}

// FormatNoSignal reports a cycle in which nothing fired.
func FormatNoSignal(now time.Time) string {
	return fmt.Sprintf("ℹ️ No new signals today (%s).", now.UTC().Format(dateLayout))
}
