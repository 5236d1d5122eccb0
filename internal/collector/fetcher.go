package collector

import (
	"context"
	"errors"

	"DailySignal/internal/model"
)

// ErrNoData is returned when the provider answers successfully with no bars.
var ErrNoData = errors.New("no data")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchInstruments lists tradable instruments with their 24h turnover.
	FetchInstruments(ctx context.Context) ([]model.Instrument, error)
	// FetchDailyBars returns up to limit closed or forming daily bars, ascending.
	FetchDailyBars(ctx context.Context, symbol string, limit int) ([]model.Candle, error)
	Name() string
}
