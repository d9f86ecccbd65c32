package consolidators

import (
	"fmt"
	"time"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/market"
)

// AggregateTradeBar keeps the first open, the highest high, the lowest low
// and the last close, and sums volume. Scalar samples count as flat bars
// with no volume.
func AggregateTradeBar(bar, data *array.Array) *array.Array {
	if bar == nil {
		return market.TradeBarOf(data).Array()
	}
	bar.Set(array.CloseIdx, data.Close())
	bar.Set(array.HighIdx, max(bar.High(), data.High()))
	bar.Set(array.LowIdx, min(bar.Low(), data.Low()))
	bar.Set(array.VolumeIdx, bar.Volume()+data.Volume())
	return bar
}

// AggregateBar is AggregateTradeBar without volume.
func AggregateBar(bar, data *array.Array) *array.Array {
	if bar == nil {
		return market.Bar{Close: data.Close(), High: data.High(), Low: data.Low(), Open: data.Open()}.Array()
	}
	bar.Set(array.CloseIdx, data.Close())
	bar.Set(array.HighIdx, max(bar.High(), data.High()))
	bar.Set(array.LowIdx, min(bar.Low(), data.Low()))
	return bar
}

// NewTradeBar consolidates samples into OHLCV trade bars.
func NewTradeBar(policy Policy) (*Consolidator, error) {
	return New(fmt.Sprintf("TRADEBAR(%s)", policy), array.TradeBarProperties, policy, AggregateTradeBar)
}

// NewTradeBarCount emits a trade bar every n samples.
func NewTradeBarCount(n int) (*Consolidator, error) {
	return NewTradeBar(Policy{MaxCount: n})
}

// NewTradeBarSpan emits a trade bar per span of wall time.
func NewTradeBarSpan(span time.Duration) (*Consolidator, error) {
	return NewTradeBar(Policy{Span: span.Milliseconds()})
}
