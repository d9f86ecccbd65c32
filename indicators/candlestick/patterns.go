package candlestick

import (
	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/indicators"
	"github.com/rustyeddy/streamta/rolling"
)

func zero() indicators.Result { return indicators.Scalar(0) }

// SpinningTop is a small real body with shadows longer than the body on
// both sides.
type SpinningTop struct {
	pattern
	bodyShortPeriod int
	bodyShortTotal  float64
}

func NewSpinningTop(settings Settings) *SpinningTop {
	avg := settings.BodyShort.AveragePeriod
	return &SpinningTop{
		pattern:         newPattern("SPINNINGTOP", avg+1, settings),
		bodyShortPeriod: avg,
	}
}

func (x *SpinningTop) Update(time int64, input *array.Array) {
	x.ApplyWindow(time, input, x.forward)
}

func (x *SpinningTop) forward(_ *rolling.Window[*array.Array], _ int64, input *array.Array) indicators.Result {
	if !x.Ready() {
		if x.Samples() >= int64(x.Period()-x.bodyShortPeriod) {
			x.bodyShortTotal += x.candleRange(BodyShort, input)
		}
		return zero()
	}

	value := 0.0
	body := realBody(input)
	if body < x.candleAverage(BodyShort, x.bodyShortTotal, input) &&
		upperShadow(input) > body &&
		lowerShadow(input) > body {
		value = float64(colorOf(input))
	}

	x.bodyShortTotal += x.candleRange(BodyShort, input) - x.candleRange(BodyShort, x.at(x.bodyShortPeriod))
	return indicators.Scalar(value)
}

func (x *SpinningTop) Reset() {
	x.bodyShortTotal = 0
	x.WindowBase.Reset()
}

// LongLineCandle is a long real body with short shadows.
type LongLineCandle struct {
	pattern
	bodyLongPeriod    int
	shadowShortPeriod int
	bodyLongTotal     float64
	shadowShortTotal  float64
}

func NewLongLineCandle(settings Settings) *LongLineCandle {
	bl, ss := settings.BodyLong.AveragePeriod, settings.ShadowShort.AveragePeriod
	return &LongLineCandle{
		pattern:           newPattern("LONGLINECANDLE", max(bl, ss)+1, settings),
		bodyLongPeriod:    bl,
		shadowShortPeriod: ss,
	}
}

func (x *LongLineCandle) Update(time int64, input *array.Array) {
	x.ApplyWindow(time, input, x.forward)
}

func (x *LongLineCandle) forward(_ *rolling.Window[*array.Array], _ int64, input *array.Array) indicators.Result {
	if !x.Ready() {
		if x.Samples() >= int64(x.Period()-x.bodyLongPeriod) {
			x.bodyLongTotal += x.candleRange(BodyLong, input)
		}
		if x.Samples() >= int64(x.Period()-x.shadowShortPeriod) {
			x.shadowShortTotal += x.candleRange(ShadowShort, input)
		}
		return zero()
	}

	value := 0.0
	shadowLimit := x.candleAverage(ShadowShort, x.shadowShortTotal, input)
	if realBody(input) > x.candleAverage(BodyLong, x.bodyLongTotal, input) &&
		upperShadow(input) < shadowLimit &&
		lowerShadow(input) < shadowLimit {
		value = float64(colorOf(input))
	}

	x.bodyLongTotal += x.candleRange(BodyLong, input) - x.candleRange(BodyLong, x.at(x.bodyLongPeriod))
	x.shadowShortTotal += x.candleRange(ShadowShort, input) - x.candleRange(ShadowShort, x.at(x.shadowShortPeriod))
	return indicators.Scalar(value)
}

func (x *LongLineCandle) Reset() {
	x.bodyLongTotal = 0
	x.shadowShortTotal = 0
	x.WindowBase.Reset()
}

// Counterattack is two long candles of opposite color closing at about
// the same price. The value is the color of the second candle.
type Counterattack struct {
	pattern
	equalPeriod    int
	bodyLongPeriod int
	equalTotal     float64
	bodyLongTotal  [2]float64
}

func NewCounterattack(settings Settings) *Counterattack {
	eq, bl := settings.Equal.AveragePeriod, settings.BodyLong.AveragePeriod
	return &Counterattack{
		pattern:        newPattern("COUNTERATTACK", max(eq, bl)+2, settings),
		equalPeriod:    eq,
		bodyLongPeriod: bl,
	}
}

func (x *Counterattack) Update(time int64, input *array.Array) {
	x.ApplyWindow(time, input, x.forward)
}

func (x *Counterattack) forward(_ *rolling.Window[*array.Array], _ int64, input *array.Array) indicators.Result {
	if !x.Ready() {
		if x.Samples() >= int64(x.Period()-x.equalPeriod) {
			x.equalTotal += x.candleRange(Equal, x.at(1))
		}
		if x.Samples() >= int64(x.Period()-x.bodyLongPeriod) {
			x.bodyLongTotal[1] += x.candleRange(BodyLong, x.at(1))
			x.bodyLongTotal[0] += x.candleRange(BodyLong, input)
		}
		return zero()
	}

	value := 0.0
	first := x.at(1)
	equal := x.candleAverage(Equal, x.equalTotal, first)
	if colorOf(first) == -colorOf(input) &&
		realBody(first) > x.candleAverage(BodyLong, x.bodyLongTotal[1], first) &&
		realBody(input) > x.candleAverage(BodyLong, x.bodyLongTotal[0], input) &&
		input.Close() <= first.Close()+equal &&
		input.Close() >= first.Close()-equal {
		value = float64(colorOf(input))
	}

	x.equalTotal += x.candleRange(Equal, input) - x.candleRange(Equal, x.at(x.equalPeriod+1))
	for i := 1; i >= 0; i-- {
		x.bodyLongTotal[i] += x.candleRange(BodyLong, x.at(i)) - x.candleRange(BodyLong, x.at(i+x.bodyLongPeriod))
	}
	return indicators.Scalar(value)
}

func (x *Counterattack) Reset() {
	x.equalTotal = 0
	x.bodyLongTotal = [2]float64{}
	x.WindowBase.Reset()
}

// StickSandwich is black, white, black where the first and last close
// about equal and the white candle trades above the first close. It is a
// bullish pattern, so the value is +1 when found.
type StickSandwich struct {
	pattern
	equalPeriod int
	equalTotal  float64
}

func NewStickSandwich(settings Settings) *StickSandwich {
	eq := settings.Equal.AveragePeriod
	return &StickSandwich{
		pattern:     newPattern("STICKSANDWICH", eq+3, settings),
		equalPeriod: eq,
	}
}

func (x *StickSandwich) Update(time int64, input *array.Array) {
	x.ApplyWindow(time, input, x.forward)
}

func (x *StickSandwich) forward(_ *rolling.Window[*array.Array], _ int64, input *array.Array) indicators.Result {
	if !x.Ready() {
		if x.Samples() >= int64(x.Period()-x.equalPeriod) {
			x.equalTotal += x.candleRange(Equal, x.at(2))
		}
		return zero()
	}

	value := 0.0
	first, second := x.at(2), x.at(1)
	equal := x.candleAverage(Equal, x.equalTotal, first)
	if colorOf(first) == Black &&
		colorOf(second) == White &&
		colorOf(input) == Black &&
		second.Low() > first.Close() &&
		input.Close() <= first.Close()+equal &&
		input.Close() >= first.Close()-equal {
		value = 1
	}

	x.equalTotal += x.candleRange(Equal, first) - x.candleRange(Equal, x.at(x.equalPeriod+2))
	return indicators.Scalar(value)
}

func (x *StickSandwich) Reset() {
	x.equalTotal = 0
	x.WindowBase.Reset()
}

// New builds a pattern by its upper case name.
func New(name string, settings Settings) (indicators.Updatable, bool) {
	switch name {
	case "SPINNINGTOP":
		return NewSpinningTop(settings), true
	case "LONGLINECANDLE":
		return NewLongLineCandle(settings), true
	case "COUNTERATTACK":
		return NewCounterattack(settings), true
	case "STICKSANDWICH":
		return NewStickSandwich(settings), true
	}
	return nil, false
}
