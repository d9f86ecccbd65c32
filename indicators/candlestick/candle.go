package candlestick

import (
	"math"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/indicators"
)

// Color is White for close >= open and Black otherwise.
type Color int

const (
	Black Color = -1
	White Color = 1
)

func colorOf(c *array.Array) Color {
	if c.Close() >= c.Open() {
		return White
	}
	return Black
}

func realBody(c *array.Array) float64 { return math.Abs(c.Close() - c.Open()) }

func highLowRange(c *array.Array) float64 { return c.High() - c.Low() }

func upperShadow(c *array.Array) float64 { return c.High() - math.Max(c.Open(), c.Close()) }

func lowerShadow(c *array.Array) float64 { return math.Min(c.Open(), c.Close()) - c.Low() }

// pattern is the shared state of every candlestick indicator: a window
// sized to the pattern's look back and a private copy of the settings.
type pattern struct {
	indicators.WindowBase
	settings Settings
}

func newPattern(name string, period int, settings Settings) pattern {
	return pattern{
		WindowBase: indicators.NewWindowBase(name, period, 1, array.TradeBarProperties),
		settings:   settings,
	}
}

func (p *pattern) candleRange(t SettingType, c *array.Array) float64 {
	switch p.settings.Get(t).RangeType {
	case RealBody:
		return realBody(c)
	case HighLow:
		return highLowRange(c)
	case Shadows:
		return upperShadow(c) + lowerShadow(c)
	}
	return 0
}

// candleAverage is the reference a measure is compared against: the
// average of sum over the setting's period, or the current candle's range
// when the period is zero.
func (p *pattern) candleAverage(t SettingType, sum float64, c *array.Array) float64 {
	s := p.settings.Get(t)
	base := p.candleRange(t, c)
	if s.AveragePeriod != 0 {
		base = sum / float64(s.AveragePeriod)
	}
	div := 1.0
	if s.RangeType == Shadows {
		div = 2
	}
	return s.Factor * base / div
}

func (p *pattern) at(k int) *array.Array { return p.Window().MustAt(k) }
