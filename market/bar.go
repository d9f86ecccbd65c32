package market

import "github.com/rustyeddy/streamta/array"

// TradeBar is one OHLCV sample. Field order matches the array property
// layout, so a TradeBar can be viewed as an array without copying.
type TradeBar struct {
	Close  float64
	High   float64
	Low    float64
	Open   float64
	Volume float64
}

func (TradeBar) Properties() int { return array.TradeBarProperties }

// NewTradeBar takes values in the usual reading order.
func NewTradeBar(open, high, low, close, volume float64) TradeBar {
	return TradeBar{Close: close, High: high, Low: low, Open: open, Volume: volume}
}

// TradeBarOf reads the first sample of a. Missing bar fields fall back the
// same way the array accessors do.
func TradeBarOf(a *array.Array) TradeBar {
	return TradeBar{Close: a.Close(), High: a.High(), Low: a.Low(), Open: a.Open(), Volume: a.Volume()}
}

// Array copies the bar into a struct backed array.
func (b TradeBar) Array() *array.Array { return array.FromStruct(b) }

// Bar is an OHLC sample without volume.
type Bar struct {
	Close float64
	High  float64
	Low   float64
	Open  float64
}

func (Bar) Properties() int { return array.BarProperties }

func (b Bar) Array() *array.Array { return array.FromStruct(b) }
