package market

import (
	"time"

	"github.com/rustyeddy/streamta/array"
)

// Candle is a TradeBar stamped with the time it opened.
type Candle struct {
	Time time.Time
	TradeBar
}

// Epoch is the candle time in unix milliseconds, the clock every streaming
// node runs on.
func (c Candle) Epoch() int64 { return c.Time.UnixMilli() }

func (c Candle) Array() *array.Array { return c.TradeBar.Array() }

// CandleAt rebuilds a candle from an epoch millisecond time and a bar
// shaped array.
func CandleAt(epoch int64, a *array.Array) Candle {
	return Candle{Time: time.UnixMilli(epoch).UTC(), TradeBar: TradeBarOf(a)}
}
