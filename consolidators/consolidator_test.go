package consolidators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/indicators"
	"github.com/rustyeddy/streamta/market"
)

var samples = []market.TradeBar{
	market.NewTradeBar(10, 12, 9, 11, 100),
	market.NewTradeBar(11, 13, 10, 12, 50),
	market.NewTradeBar(12, 14, 11, 13, 25),
	market.NewTradeBar(13, 15, 12, 14, 10),
	market.NewTradeBar(14, 16, 13, 15, 10),
	market.NewTradeBar(15, 17, 14, 16, 10),
	market.NewTradeBar(16, 18, 15, 17, 10),
}

func TestCountConsolidator(t *testing.T) {
	c, err := NewTradeBarCount(3)
	require.NoError(t, err)
	assert.Equal(t, "TRADEBAR(3)", c.Name())
	bars := indicators.Collect(c, false)

	for i, s := range samples[:6] {
		c.Update(int64(i)*1000, s.Array())
	}
	require.Equal(t, 2, bars.Len())
	assert.Equal(t, int64(6), c.Samples())
	assert.Nil(t, c.WorkingBar())

	first := market.TradeBarOf(bars.Values()[0])
	assert.Equal(t, market.TradeBar{Open: 10, High: 14, Low: 9, Close: 13, Volume: 175}, first)
	assert.Equal(t, int64(0), bars.Times()[0])

	second := market.TradeBarOf(bars.Values()[1])
	assert.Equal(t, market.TradeBar{Open: 13, High: 17, Low: 12, Close: 16, Volume: 30}, second)
	assert.Equal(t, int64(3000), bars.Times()[1])
	assert.Equal(t, int64(3000), c.CurrentTime())

	c.Update(6000, samples[6].Array())
	assert.Equal(t, 2, bars.Len())
	require.NotNil(t, c.WorkingBar())
	assert.Equal(t, 16.0, c.WorkingBar().Open())
}

func TestConsolidatorReadiness(t *testing.T) {
	c, err := NewTradeBarCount(2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Warmup())
	assert.False(t, c.Ready())

	c.Update(1, samples[0].Array())
	assert.False(t, c.Ready())
	assert.Equal(t, 0.0, c.Current().Value())

	c.Update(2, samples[1].Array())
	assert.True(t, c.Ready())
	c.Update(3, samples[2].Array())
	assert.True(t, c.Ready())
}

func TestSpanConsolidator(t *testing.T) {
	c, err := NewTradeBarSpan(time.Minute)
	require.NoError(t, err)
	bars := indicators.Collect(c, false)

	base := time.Date(2026, 1, 24, 9, 30, 0, 0, time.UTC).UnixMilli()
	c.Update(base+5_000, samples[0].Array())
	c.Update(base+30_000, samples[1].Array())
	c.Update(base+59_999, samples[2].Array())
	assert.Equal(t, 0, bars.Len())

	// first sample of the next minute emits the previous bar, then starts a new one
	c.Update(base+60_000, samples[3].Array())
	require.Equal(t, 1, bars.Len())
	assert.Equal(t, base, bars.Times()[0])
	assert.Equal(t, market.TradeBar{Open: 10, High: 14, Low: 9, Close: 13, Volume: 175}, market.TradeBarOf(bars.Values()[0]))
	assert.Equal(t, 14.0, c.WorkingBar().Close())

	// a gap of several spans emits one bar, stamped with its own span start
	c.Update(base+185_000, samples[4].Array())
	require.Equal(t, 2, bars.Len())
	assert.Equal(t, base+60_000, bars.Times()[1])
}

func TestSpanScan(t *testing.T) {
	c, err := NewTradeBarSpan(time.Minute)
	require.NoError(t, err)
	bars := indicators.Collect(c, false)

	c.Update(10_000, samples[0].Array())
	c.Scan(50_000)
	assert.Equal(t, 0, bars.Len())
	c.Scan(60_000)
	assert.Equal(t, 1, bars.Len())
	c.Scan(200_000)
	assert.Equal(t, 1, bars.Len())
}

func TestCountOrSpan(t *testing.T) {
	c, err := NewTradeBar(Policy{MaxCount: 2, Span: 60_000})
	require.NoError(t, err)
	bars := indicators.Collect(c, false)

	c.Update(0, samples[0].Array())
	c.Update(1_000, samples[1].Array())
	require.Equal(t, 1, bars.Len())

	// span boundary before the count is reached; the count restarts
	c.Update(2_000, samples[2].Array())
	c.Update(61_000, samples[3].Array())
	require.Equal(t, 2, bars.Len())
	assert.Equal(t, 12.0, bars.Values()[1].Open())

	c.Update(62_000, samples[4].Array())
	require.Equal(t, 3, bars.Len())
	assert.Equal(t, int64(60_000), bars.Times()[2])
}

func TestConsolidatorChainsIntoIndicators(t *testing.T) {
	c, err := NewTradeBarCount(2)
	require.NoError(t, err)
	sma := indicators.Of(indicators.NewSMA(2), c, true)

	for i, s := range samples[:6] {
		c.Update(int64(i), s.Array())
	}
	assert.Equal(t, int64(3), sma.Samples())
	// closes of bars two and three
	assert.InDelta(t, (14.0+16.0)/2, sma.Current().Value(), 1e-12)
}

func TestConsolidatorReset(t *testing.T) {
	c, err := NewTradeBarCount(3)
	require.NoError(t, err)
	for i, s := range samples[:4] {
		c.Update(int64(i), s.Array())
	}
	require.True(t, c.Ready())
	require.NotNil(t, c.WorkingBar())

	c.Reset()
	assert.False(t, c.Ready())
	assert.Nil(t, c.WorkingBar())
	assert.Equal(t, int64(0), c.Samples())
	assert.Equal(t, int64(0), c.Emitted())

	bars := indicators.Collect(c, false)
	for i, s := range samples[:3] {
		c.Update(int64(i), s.Array())
	}
	require.Equal(t, 1, bars.Len())
	assert.Equal(t, 175.0, bars.Values()[0].Volume())
}

func TestScalarSamples(t *testing.T) {
	c, err := NewTradeBarCount(3)
	require.NoError(t, err)
	for i, v := range []float64{5, 7, 6} {
		c.Update(int64(i), array.Scalar(v))
	}
	assert.Equal(t, market.TradeBar{Open: 5, High: 7, Low: 5, Close: 6}, market.TradeBarOf(c.Current()))
}

func TestFlush(t *testing.T) {
	c, err := New("bars", array.BarProperties, Policy{MaxCount: 10}, AggregateBar)
	require.NoError(t, err)
	c.Update(1, samples[0].Array())
	c.Flush()
	assert.True(t, c.Ready())
	assert.Equal(t, array.BarProperties, c.Current().Properties())
	assert.Equal(t, 0.0, c.Current().Volume())
	c.Flush()
	assert.Equal(t, int64(1), c.Emitted())
}

func TestPolicyValidate(t *testing.T) {
	_, err := NewTradeBar(Policy{})
	assert.ErrorIs(t, err, ErrPolicy)
	_, err = NewTradeBar(Policy{MaxCount: -1, Span: 10})
	assert.ErrorIs(t, err, ErrPolicy)
	assert.Equal(t, "1m0s", Policy{Span: 60_000}.String())
	assert.Equal(t, "5|1s", Policy{MaxCount: 5, Span: 1000}.String())
}
