// Package scanner runs one scan cycle over the instrument universe.
package scanner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"DailySignal/internal/collector"
	"DailySignal/internal/metrics"
	"DailySignal/internal/model"
	"DailySignal/internal/notifier"
	"DailySignal/internal/recorder"
	"DailySignal/internal/strategy"
)

// Outcome is what happened to one instrument in a cycle.
type Outcome string

const (
	OutcomeNoData         Outcome = "no_data"
	OutcomeFailed         Outcome = "failed"
	OutcomeNoSignal       Outcome = "no_signal"
	OutcomeSuppressed     Outcome = "suppressed"
	OutcomeDispatched     Outcome = "dispatched"
	OutcomeDispatchFailed Outcome = "dispatch_failed"
)

// Report summarises one cycle.
type Report struct {
	CycleID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Universe   []string
	Fallback   bool
	// Outcomes maps every scanned symbol to its outcome.
	Outcomes map[string]Outcome
	// Signals are the actionable signals, in universe order, whether or not
	// delivery succeeded.
	Signals []model.Signal
}

// Count returns how many instruments ended with o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, got := range r.Outcomes {
		if got == o {
			n++
		}
	}
	return n
}

// SignalsFound reports whether any notification was attempted this cycle.
func (r *Report) SignalsFound() bool { return len(r.Signals) > 0 }

// Options tunes a Scanner.
type Options struct {
	// NotifyNoSignal also sends the no-signal status, not just logs it.
	NotifyNoSignal bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Scanner walks the universe sequentially: fetch, evaluate, gate, dispatch.
type Scanner struct {
	collector *collector.Collector
	notifier  notifier.Notifier
	recorder  recorder.Recorder
	log       zerolog.Logger
	opts      Options
}

// New creates a Scanner. A nil recorder disables cycle auditing.
func New(col *collector.Collector, n notifier.Notifier, rec recorder.Recorder, log zerolog.Logger, opts Options) *Scanner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Scanner{collector: col, notifier: n, recorder: rec, log: log, opts: opts}
}

// Scan runs one cycle to completion. It never fails: every per-instrument
// problem is logged, tallied and skipped.
func (s *Scanner) Scan(ctx context.Context) *Report {
	now := s.opts.Now()
	report := &Report{
		CycleID:   uuid.NewString(),
		StartedAt: now,
		Outcomes:  make(map[string]Outcome),
	}
	log := s.log.With().Str("cycle", report.CycleID).Logger()

	universe := s.collector.Universe(ctx)
	switch universe.Status {
	case collector.StatusFailed:
		log.Warn().Err(universe.Err).Strs("fallback", universe.Symbols).Msg("instrument list unavailable, using fallback symbols")
		metrics.UniverseFallbackTotal.Inc()
	case collector.StatusNoData:
		log.Warn().Msg("provider returned no instruments")
	}
	report.Universe = universe.Symbols
	report.Fallback = universe.Fallback
	log.Info().Int("instruments", len(universe.Symbols)).Msg("scanning daily candles")

	for _, symbol := range universe.Symbols {
		outcome, sig := s.scanOne(ctx, log, symbol, now)
		report.Outcomes[symbol] = outcome
		if sig != nil {
			report.Signals = append(report.Signals, *sig)
		}
		metrics.InstrumentsTotal.WithLabelValues(string(outcome)).Inc()
	}

	if !report.SignalsFound() {
		log.Info().Msg("no new signals today")
		if s.opts.NotifyNoSignal {
			if err := s.notifier.Send(ctx, notifier.FormatNoSignal(now)); err != nil {
				log.Error().Err(err).Msg("send no-signal status")
			}
		}
	}

	report.FinishedAt = s.opts.Now()
	metrics.ScanCyclesTotal.Inc()
	s.record(log, report)
	log.Info().
		Int("signals", len(report.Signals)).
		Int("dispatch_failed", report.Count(OutcomeDispatchFailed)).
		Int("failed", report.Count(OutcomeFailed)).
		Int("no_data", report.Count(OutcomeNoData)).
		Int("suppressed", report.Count(OutcomeSuppressed)).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("scan cycle finished")
	return report
}

// scanOne handles a single instrument. The returned signal is non-nil only
// when a notification was attempted.
func (s *Scanner) scanOne(ctx context.Context, log zerolog.Logger, symbol string, now time.Time) (Outcome, *model.Signal) {
	log = log.With().Str("symbol", symbol).Logger()

	res := s.collector.Series(ctx, symbol)
	switch res.Status {
	case collector.StatusNoData:
		log.Debug().Err(res.Err).Msg("insufficient candle data, skipping")
		return OutcomeNoData, nil
	case collector.StatusFailed:
		log.Warn().Err(res.Err).Msg("candle fetch failed, skipping")
		return OutcomeFailed, nil
	}

	sig, ok := strategy.EvaluateSignal(res.Series)
	if !ok {
		log.Debug().Msg("no direction")
		return OutcomeNoSignal, nil
	}

	fresh := strategy.CheckFreshness(sig.CandleTime, now)
	if !fresh.Actionable {
		log.Info().
			Str("direction", string(sig.Direction)).
			Time("candle", sig.CandleTime).
			Int("days_elapsed", fresh.DaysElapsed).
			Str("reason", string(fresh.Reason)).
			Msg("signal suppressed by freshness gate")
		return OutcomeSuppressed, nil
	}

	metrics.SignalsTotal.WithLabelValues(string(sig.Direction)).Inc()
	if err := s.notifier.Send(ctx, notifier.FormatSignal(sig)); err != nil {
		log.Error().Err(err).Str("direction", string(sig.Direction)).Msg("send signal")
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return OutcomeDispatchFailed, &sig
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	log.Info().Str("direction", string(sig.Direction)).Str("close", sig.Close.StringFixed(4)).Msg("signal sent")
	return OutcomeDispatched, &sig
}

func (s *Scanner) record(log zerolog.Logger, r *Report) {
	if err := s.recorder.RecordCycle(&recorder.CycleRecord{
		CycleID:        r.CycleID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		UniverseSize:   len(r.Universe),
		Fallback:       r.Fallback,
		NoData:         r.Count(OutcomeNoData),
		Failed:         r.Count(OutcomeFailed),
		NoSignal:       r.Count(OutcomeNoSignal),
		Suppressed:     r.Count(OutcomeSuppressed),
		Dispatched:     r.Count(OutcomeDispatched),
		DispatchFailed: r.Count(OutcomeDispatchFailed),
	}); err != nil {
		log.Error().Err(err).Msg("record cycle")
	}
}
