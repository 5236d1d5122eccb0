package strategy

import "DailySignal/internal/model"

// MinCandles is the shortest series Evaluate will consider.
const MinCandles = 3

// Evaluate compares the close of the last candle with the one before it.
// The series must contain closed candles only; the still-forming bar is
// excluded by the provider query and re-checked by CheckFreshness.
// Equal closes produce no direction.
func Evaluate(series model.Series) model.Direction {
	if series.Len() < MinCandles {
		return model.DirectionNone
	}
	yesterday, _ := series.Last()
	dayBefore, _ := series.Prev()

	switch yesterday.Close.Cmp(dayBefore.Close) {
	case 1:
		return model.DirectionLong
	case -1:
		return model.DirectionShort
	default:
		return model.DirectionNone
	}
}

// EvaluateSignal runs Evaluate and fills a Signal from the last candle.
func EvaluateSignal(series model.Series) (model.Signal, bool) {
	dir := Evaluate(series)
	if dir == model.DirectionNone {
		return model.Signal{}, false
	}
	last, _ := series.Last()
	return model.Signal{
		Symbol:     series.Symbol,
		Direction:  dir,
		CandleTime: last.Time,
		Close:      last.Close,
	}, true
}
