package market

import (
	"strings"
	"time"

	"github.com/rustyeddy/streamta/array"
)

// Tick is one quote.
type Tick struct {
	Time       time.Time
	Instrument string
	Bid        float64
	Ask        float64
}

func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// Array is the mid price as a scalar sample.
func (t Tick) Array() *array.Array { return array.Scalar(t.Mid()) }

// Candle is a flat candle at the mid price with no volume, so ticks can
// drive anything that consumes candles.
func (t Tick) Candle() Candle {
	m := t.Mid()
	return Candle{Time: t.Time, TradeBar: NewTradeBar(m, m, m, m, 0)}
}

// parseTickRow reads time,instrument,bid,ask.
func parseTickRow(row []string, precision int32) (Candle, bool, error) {
	if len(row) < 4 {
		return Candle{}, false, nil
	}
	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return Candle{}, false, nil
	}
	t, err := parseTime(ts)
	if err != nil {
		return Candle{}, false, err
	}
	bid, err := parsePrice("bid", row[2], precision)
	if err != nil {
		return Candle{}, false, err
	}
	ask, err := parsePrice("ask", row[3], precision)
	if err != nil {
		return Candle{}, false, err
	}
	tick := Tick{Time: t, Instrument: strings.TrimSpace(row[1]), Bid: bid, Ask: ask}
	return tick.Candle(), true, nil
}
