package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the directional call derived from two closed candles.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Signal is an actionable direction for one instrument in one cycle.
type Signal struct {
	Symbol     string
	Direction  Direction
	CandleTime time.Time
	Close      decimal.Decimal
}
