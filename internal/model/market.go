package model

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Candle represents a single daily bar. Time is the UTC open time of the bar.
type Candle struct {
	Time     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
	Turnover decimal.Decimal
}

// Validate checks the OHLC ordering and that no value is negative.
func (c Candle) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"open": c.Open, "high": c.High, "low": c.Low, "close": c.Close, "volume": c.Volume,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s is negative: %s", name, v)
		}
	}
	if c.Low.GreaterThan(c.High) {
		return fmt.Errorf("low %s above high %s", c.Low, c.High)
	}
	if c.Open.LessThan(c.Low) || c.Open.GreaterThan(c.High) {
		return fmt.Errorf("open %s outside [%s, %s]", c.Open, c.Low, c.High)
	}
	if c.Close.LessThan(c.Low) || c.Close.GreaterThan(c.High) {
		return fmt.Errorf("close %s outside [%s, %s]", c.Close, c.Low, c.High)
	}
	if c.Time.IsZero() {
		return errors.New("missing timestamp")
	}
	return nil
}

// Series is an ascending, duplicate-free run of daily candles for one symbol.
type Series struct {
	Symbol  string
	Candles []Candle
}

// NewSeries copies candles, sorts them by time and drops duplicate timestamps.
// When two rows share a timestamp the later one in the input wins.
func NewSeries(symbol string, candles []Candle) Series {
	byTime := make(map[int64]int, len(candles))
	out := make([]Candle, 0, len(candles))
	for _, c := range candles {
		key := c.Time.UnixMilli()
		if i, ok := byTime[key]; ok {
			out[i] = c
			continue
		}
		byTime[key] = len(out)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return Series{Symbol: symbol, Candles: out}
}

func (s Series) Len() int { return len(s.Candles) }

// Last returns the most recent candle.
func (s Series) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Prev returns the candle before the most recent one.
func (s Series) Prev() (Candle, bool) {
	if len(s.Candles) < 2 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-2], true
}

// Instrument is one member of the scan universe.
type Instrument struct {
	Symbol      string
	Turnover24h decimal.Decimal
}
