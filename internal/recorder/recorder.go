package recorder

import "time"

// CycleRecord holds aggregate counts for one scan cycle. It carries no
// per-signal data; the scanner never reads records back.
type CycleRecord struct {
	CycleID        string
	StartedAt      time.Time
	FinishedAt     time.Time
	UniverseSize   int
	Fallback       bool
	NoData         int
	Failed         int
	NoSignal       int
	Suppressed     int
	Dispatched     int
	DispatchFailed int
}

// Recorder persists cycle audit data for operators.
type Recorder interface {
	RecordCycle(rec *CycleRecord) error
	Close() error
}
