package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DailySignal/internal/model"
)

func inst(symbol string, turnover int64) model.Instrument {
	return model.Instrument{Symbol: symbol, Turnover24h: decimal.NewFromInt(turnover)}
}

func TestCollector_UniverseOrdersByTurnover(t *testing.T) {
	m := &MockFetcher{Instruments: []model.Instrument{
		inst("DOGEUSDT", 10),
		inst("BTCUSDT", 900),
		inst("SOLUSDT", 50),
		inst("ETHUSDT", 500),
		inst("ADAUSDT", 50),
	}}
	c := NewCollector(m, 4, 5, []string{"BTCUSDT", "ETHUSDT"})

	res := c.Universe(context.Background())
	assert.Equal(t, StatusOK, res.Status)
	assert.False(t, res.Fallback)
	assert.NoError(t, res.Err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "ADAUSDT", "SOLUSDT"}, res.Symbols)
}

func TestCollector_UniverseIgnoresProviderOrder(t *testing.T) {
	a := &MockFetcher{Instruments: []model.Instrument{inst("A", 1), inst("B", 2), inst("C", 3)}}
	b := &MockFetcher{Instruments: []model.Instrument{inst("C", 3), inst("A", 1), inst("B", 2)}}
	ra := NewCollector(a, 2, 5, nil).Universe(context.Background())
	rb := NewCollector(b, 2, 5, nil).Universe(context.Background())
	assert.Equal(t, ra.Symbols, rb.Symbols)
	assert.Equal(t, []string{"C", "B"}, ra.Symbols)
}

func TestCollector_UniverseDedupes(t *testing.T) {
	m := &MockFetcher{Instruments: []model.Instrument{inst("BTCUSDT", 5), inst("BTCUSDT", 5), inst("ETHUSDT", 1)}}
	res := NewCollector(m, 20, 5, nil).Universe(context.Background())
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, res.Symbols)
}

func TestCollector_UniverseFallback(t *testing.T) {
	fallback := []string{"BTCUSDT", "ETHUSDT"}
	m := &MockFetcher{InstrumentsErr: errors.New("connection refused")}
	c := NewCollector(m, 20, 5, fallback)

	res := c.Universe(context.Background())
	assert.Equal(t, StatusFailed, res.Status)
	assert.True(t, res.Fallback)
	assert.Error(t, res.Err)
	assert.Equal(t, fallback, res.Symbols)

	res.Symbols[0] = "MUTATED"
	assert.Equal(t, "BTCUSDT", c.FallbackSymbols[0])
}

func TestCollector_UniverseEmpty(t *testing.T) {
	res := NewCollector(&MockFetcher{}, 20, 5, []string{"BTCUSDT"}).Universe(context.Background())
	assert.Equal(t, StatusNoData, res.Status)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Symbols)
}

func TestCollector_Series(t *testing.T) {
	last := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{
		Bars: map[string][]model.Candle{
			"OK":    MockBars(last, 1, 2, 3, 4, 5, 6, 7),
			"SHORT": MockBars(last, 1, 2),
		},
		BarsErr: map[string]error{"DOWN": errors.New("timeout")},
	}
	c := NewCollector(m, 20, 5, nil)

	ok := c.Series(context.Background(), "OK")
	require.Equal(t, StatusOK, ok.Status)
	assert.Equal(t, 5, ok.Series.Len(), "limit applies")
	assert.Equal(t, "OK", ok.Series.Symbol)
	lastBar, _ := ok.Series.Last()
	assert.True(t, lastBar.Time.Equal(last))

	short := c.Series(context.Background(), "SHORT")
	assert.Equal(t, StatusNoData, short.Status)
	assert.True(t, errors.Is(short.Err, ErrNoData))

	missing := c.Series(context.Background(), "MISSING")
	assert.Equal(t, StatusNoData, missing.Status)

	down := c.Series(context.Background(), "DOWN")
	assert.Equal(t, StatusFailed, down.Status)
	assert.EqualError(t, down.Err, "timeout")

	assert.Equal(t, []string{"OK", "SHORT", "MISSING", "DOWN"}, m.Calls)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "no_data", StatusNoData.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "status(9)", Status(9).String())
}
