package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"DailySignal/internal/model"
	"DailySignal/internal/strategy"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Instruments    []model.Instrument
	InstrumentsErr error
	Bars           map[string][]model.Candle
	BarsErr        map[string]error
	// Calls records every symbol passed to FetchDailyBars, in order.
	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchInstruments(_ context.Context) ([]model.Instrument, error) {
	if m.InstrumentsErr != nil {
		return nil, m.InstrumentsErr
	}
	return m.Instruments, nil
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, limit int) ([]model.Candle, error) {
	m.Calls = append(m.Calls, symbol)
	if err := m.BarsErr[symbol]; err != nil {
		return nil, err
	}
	bars, ok := m.Bars[symbol]
	if !ok || len(bars) == 0 {
		return nil, ErrNoData
	}
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

// MockBars builds one flat daily bar per close; the last bar opens at lastDay.
func MockBars(lastDay time.Time, closes ...float64) []model.Candle {
	bars := make([]model.Candle, len(closes))
	n := len(closes)
	for i, c := range closes {
		p := decimal.NewFromFloat(c)
		bars[i] = model.Candle{
			Time:   lastDay.AddDate(0, 0, -(n - 1 - i)),
			Open:   p,
			High:   p,
			Low:    p,
			Close:  p,
			Volume: decimal.NewFromInt(1000000),
		}
	}
	return bars
}

// Status classifies the outcome of a provider call.
type Status int

const (
	StatusOK Status = iota
	StatusNoData
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoData:
		return "no_data"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// UniverseResult is the outcome of building the instrument universe.
type UniverseResult struct {
	Status  Status
	Symbols []string
	// Fallback is set when Symbols are the configured defaults rather than
	// the provider's list.
	Fallback bool
	Err      error
}

// SeriesResult is the outcome of fetching candles for one instrument.
type SeriesResult struct {
	Status Status
	Series model.Series
	Err    error
}

// Collector turns provider calls into typed results the scan cycle can
// branch on without inspecting raw errors.
type Collector struct {
	Fetcher         Fetcher
	TopN            int
	CandleLimit     int
	FallbackSymbols []string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, topN, candleLimit int, fallback []string) *Collector {
	return &Collector{
		Fetcher:         fetcher,
		TopN:            topN,
		CandleLimit:     candleLimit,
		FallbackSymbols: append([]string(nil), fallback...),
	}
}

// Universe returns the top instruments by 24h turnover, ties broken by
// symbol. A provider failure yields the fallback symbols.
func (c *Collector) Universe(ctx context.Context) UniverseResult {
	instruments, err := c.Fetcher.FetchInstruments(ctx)
	if err != nil {
		return UniverseResult{
			Status:   StatusFailed,
			Symbols:  append([]string(nil), c.FallbackSymbols...),
			Fallback: true,
			Err:      err,
		}
	}

	ranked := append([]model.Instrument(nil), instruments...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if cmp := ranked[i].Turnover24h.Cmp(ranked[j].Turnover24h); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	seen := make(map[string]bool, len(ranked))
	symbols := make([]string, 0, c.TopN)
	for _, inst := range ranked {
		if len(symbols) >= c.TopN {
			break
		}
		if seen[inst.Symbol] {
			continue
		}
		seen[inst.Symbol] = true
		symbols = append(symbols, inst.Symbol)
	}

	status := StatusOK
	if len(symbols) == 0 {
		status = StatusNoData
	}
	return UniverseResult{Status: status, Symbols: symbols}
}

// Series fetches the latest CandleLimit daily bars for symbol.
func (c *Collector) Series(ctx context.Context, symbol string) SeriesResult {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.CandleLimit)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return SeriesResult{Status: StatusNoData, Err: err}
		}
		return SeriesResult{Status: StatusFailed, Err: err}
	}

	series := model.NewSeries(symbol, bars)
	if series.Len() < strategy.MinCandles {
		return SeriesResult{
			Status: StatusNoData,
			Series: series,
			Err:    fmt.Errorf("%s: %d candles, need %d: %w", symbol, series.Len(), strategy.MinCandles, ErrNoData),
		}
	}
	return SeriesResult{Status: StatusOK, Series: series}
}
