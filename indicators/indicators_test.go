package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/market"
)

func bar(o, h, l, c, v float64) *array.Array {
	return market.NewTradeBar(o, h, l, c, v).Array()
}

var testBars = []*array.Array{
	bar(10, 12, 9, 11, 100),
	bar(11, 14, 10, 13, 50),
	bar(13, 13.5, 12, 12.5, 25),
	bar(12, 13, 8, 9, 75),
}

func feed(u Updatable, values ...float64) []float64 {
	out := make([]float64, 0, len(values))
	for i, v := range values {
		u.Update(int64(i+1)*1000, array.Scalar(v))
		out = append(out, u.Current().Value())
	}
	return out
}

func feedBars(u Updatable, bars []*array.Array) []float64 {
	out := make([]float64, 0, len(bars))
	for i, b := range bars {
		u.Update(int64(i+1)*60_000, b)
		out = append(out, u.Current().Value())
	}
	return out
}

func TestSMA(t *testing.T) {
	sma := NewSMA(3)
	assert.Equal(t, "SMA(3)", sma.Name())
	assert.Equal(t, 3, sma.Warmup())
	assert.False(t, sma.Ready())
	assert.Equal(t, 0.0, sma.Current().Value())

	got := feed(sma, 1, 2, 3, 4, 5)
	assert.InDeltaSlice(t, []float64{1, 1.5, 2, 3, 4}, got, 1e-12)
	assert.True(t, sma.Ready())
	assert.Equal(t, int64(5), sma.Samples())
	assert.Equal(t, int64(5000), sma.CurrentTime())
}

func TestSMAReadyAtPeriod(t *testing.T) {
	sma := NewSMA(3)
	feed(sma, 1, 2)
	assert.False(t, sma.Ready())
	feed(sma, 3)
	assert.True(t, sma.Ready())
}

func TestEMA(t *testing.T) {
	ema := NewEMA(3)
	assert.Equal(t, "EMA(3)", ema.Name())

	got := feed(ema, 2, 4)
	assert.InDeltaSlice(t, []float64{2, 3}, got, 1e-12)
	assert.False(t, ema.Ready())

	got = feed(ema, 6, 8)
	assert.True(t, ema.Ready())
	assert.InDeltaSlice(t, []float64{4, 6}, got, 1e-12)
}

func TestWilders(t *testing.T) {
	w := NewWilders(2)
	assert.Equal(t, "WILDERS(2)", w.Name())
	got := feed(w, 4, 1.5, 5)
	assert.InDeltaSlice(t, []float64{4, 2.75, 3.875}, got, 1e-12)
}

func TestMaximumMinimum(t *testing.T) {
	assert.Equal(t, []float64{3, 3, 4, 4, 5}, feed(NewMaximum(3), 3, 1, 4, 1, 5))
	assert.Equal(t, []float64{3, 1, 1, 1, 1}, feed(NewMinimum(3), 3, 1, 4, 1, 5))
}

func TestSum(t *testing.T) {
	assert.Equal(t, []float64{1, 3, 6, 9}, feed(NewSum(3), 1, 2, 3, 4))
}

func TestDelay(t *testing.T) {
	d := NewDelay(2)
	assert.Equal(t, 3, d.Warmup())
	got := feed(d, 10, 20, 30, 40)
	assert.Equal(t, []float64{10, 10, 10, 20}, got)
	assert.True(t, d.Ready())
}

func TestWindowIdentity(t *testing.T) {
	w := NewWindowIdentity(2)
	feed(w, 7)
	assert.False(t, w.Ready())
	feed(w, 8)
	assert.True(t, w.Ready())
	assert.Equal(t, 8.0, w.Current().Value())
}

func TestConstant(t *testing.T) {
	c := NewConstant(2.5)
	assert.True(t, c.Ready())
	assert.Equal(t, 2.5, c.Current().Value())
	c.Update(1, array.Scalar(99))
	assert.Equal(t, 2.5, c.Current().Value())
	c.Reset()
	assert.Equal(t, 2.5, c.Current().Value())
	assert.Equal(t, int64(0), c.Samples())
}

func TestFunctional(t *testing.T) {
	resets := 0
	f := NewFunctional("double", func(_ int64, in *array.Array) Result {
		return Scalar(in.Value() * 2)
	}, nil, func() { resets++ })

	assert.False(t, f.Ready())
	assert.Equal(t, []float64{2, 4}, feed(f, 1, 2))
	assert.True(t, f.Ready())
	f.Reset()
	assert.Equal(t, 1, resets)
	assert.False(t, f.Ready())
}

func TestTrueRangeAndATR(t *testing.T) {
	tr := NewTrueRange()
	got := feedBars(tr, testBars)
	assert.InDeltaSlice(t, []float64{0, 4, 1.5, 5}, got, 1e-12)

	atr := NewATR(2, Simple)
	assert.Equal(t, "ATR(2)", atr.Name())
	assert.Equal(t, 3, atr.Warmup())
	got = feedBars(atr, testBars[:2])
	assert.False(t, atr.Ready())
	assert.InDeltaSlice(t, []float64{0, 4}, got, 1e-12)
	got = feedBars(atr, testBars[2:])
	assert.True(t, atr.Ready())
	assert.InDeltaSlice(t, []float64{2.75, 3.25}, got, 1e-12)

	wilder := NewATR(2, Wilders)
	got = feedBars(wilder, testBars)
	assert.InDelta(t, 3.875, got[3], 1e-12)
}

func TestADX(t *testing.T) {
	t.Run("warmup and values", func(t *testing.T) {
		adx := NewADX(2)
		assert.Equal(t, "ADX(2)", adx.Name())
		assert.Equal(t, 4, adx.Warmup())

		got := feedBars(adx, testBars[:3])
		assert.False(t, adx.Ready())
		assert.True(t, adx.PositiveDI.Ready())
		assert.InDeltaSlice(t, []float64{0, 0, 100}, got, 1e-9)
		assert.InDelta(t, 100/2.75, adx.PositiveDI.Current().Value(), 1e-9)
		assert.Equal(t, 0.0, adx.NegativeDI.Current().Value())

		// +DM 0.5, -DM 2 over a smoothed range of 3.875: DX 60.
		got = feedBars(adx, testBars[3:])
		assert.True(t, adx.Ready())
		assert.InDelta(t, 80.0, got[0], 1e-9)
		assert.InDelta(t, 100*0.5/3.875, adx.PositiveDI.Current().Value(), 1e-9)
		assert.InDelta(t, 100*2/3.875, adx.NegativeDI.Current().Value(), 1e-9)
	})

	t.Run("flat bars", func(t *testing.T) {
		adx := NewADX(2)
		flat := bar(10, 10, 10, 10, 1)
		got := feedBars(adx, []*array.Array{flat, flat, flat, flat, flat})
		assert.True(t, adx.Ready())
		assert.Equal(t, StatusSuccess, adx.Status())
		assert.Equal(t, []float64{0, 0, 0, 0, 0}, got)
	})

	t.Run("reset", func(t *testing.T) {
		adx := NewADX(2)
		first := feedBars(adx, testBars)
		adx.Reset()
		assert.False(t, adx.Ready())
		assert.False(t, adx.PositiveDI.Ready())
		assert.Equal(t, 0.0, adx.Current().Value())
		assert.Equal(t, first, feedBars(adx, testBars))
	})
}

func TestWilliamsPercentR(t *testing.T) {
	w := NewWilliamsPercentR(2)
	got := feedBars(w, testBars[:3])
	assert.True(t, w.Ready())
	assert.InDeltaSlice(t, []float64{0, -20, -37.5}, got, 1e-12)

	flat := NewWilliamsPercentR(1)
	flat.Update(1, bar(5, 5, 5, 5, 0))
	assert.Equal(t, 0.0, flat.Current().Value())
}

func TestDPO(t *testing.T) {
	d := NewDPO(4)
	got := feed(d, 1, 2, 3, 4, 5)
	assert.InDeltaSlice(t, []float64{0, 0, 0, -1.5, -1.5}, got, 1e-12)
	assert.True(t, d.Ready())
}

func TestAccumulationDistribution(t *testing.T) {
	ad := NewAccumulationDistribution()
	assert.False(t, ad.Ready())
	got := feedBars(ad, testBars[:2])
	assert.True(t, ad.Ready())
	assert.InDeltaSlice(t, []float64{100.0 / 3, 100.0/3 + 25}, got, 1e-9)
}

func TestHeikinAshi(t *testing.T) {
	ha := NewHeikinAshi()
	feedBars(ha, testBars[:1])
	assert.False(t, ha.Ready())
	assert.Equal(t, market.TradeBar{Close: 10.5, High: 12, Low: 9, Open: 10.5, Volume: 100}, ha.Bar())

	feedBars(ha, testBars[1:2])
	assert.True(t, ha.Ready())
	assert.Equal(t, market.TradeBar{Close: 12, High: 14, Low: 10, Open: 10.5, Volume: 50}, ha.Bar())
	assert.Equal(t, array.TradeBarProperties, ha.Current().Properties())
	assert.Equal(t, 12.0, ha.Current().Value())
}

func TestKeltnerChannels(t *testing.T) {
	kc := NewKeltnerChannels(2, 2, Simple)
	feedBars(kc, testBars[:2])
	assert.False(t, kc.Ready())

	feedBars(kc, testBars[2:3])
	require.True(t, kc.Ready())
	assert.InDelta(t, 12.5, kc.Current().Value(), 1e-9)
	assert.InDelta(t, 18.0, kc.Upper.Current().Value(), 1e-9)
	assert.InDelta(t, 7.0, kc.Lower.Current().Value(), 1e-9)
}

func TestAccelerationBands(t *testing.T) {
	ab := NewAccelerationBands(2, 0, Simple)
	assert.Equal(t, "ABANDS(2,4)", ab.Name())
	feedBars(ab, testBars[:2])
	require.True(t, ab.Ready())

	upper := (12*(1+4*3.0/21) + 14*(1+4*4.0/24)) / 2
	lower := (9*(1-4*3.0/21) + 10*(1-4*4.0/24)) / 2
	assert.InDelta(t, 12.0, ab.Current().Value(), 1e-9)
	assert.InDelta(t, upper, ab.Upper.Current().Value(), 1e-9)
	assert.InDelta(t, lower, ab.Lower.Current().Value(), 1e-9)
}

func TestMovingAverageType(t *testing.T) {
	for _, s := range []string{"", "simple", "EMA", "wilders"} {
		_, err := ParseMovingAverageType(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseMovingAverageType("hull")
	assert.Error(t, err)

	assert.IsType(t, &SMA{}, Simple.New(3))
	assert.IsType(t, &EMA{}, Exponential.New(3))
	assert.Equal(t, "WILDERS(3)", Wilders.New(3).Name())
}

func TestReadinessIsMonotonic(t *testing.T) {
	nodes := []Updatable{
		NewSMA(3), NewEMA(3), NewMaximum(2), NewDelay(2), NewATR(2, Wilders),
		NewWilliamsPercentR(2), NewDPO(3), NewHeikinAshi(), NewADX(2),
	}
	for _, u := range nodes {
		t.Run(u.Name(), func(t *testing.T) {
			wasReady := false
			for i := range 12 {
				b := testBars[i%len(testBars)]
				u.Update(int64(i), b)
				if wasReady {
					assert.True(t, u.Ready(), "sample %d", i)
				}
				wasReady = u.Ready()
			}
			assert.True(t, wasReady)
		})
	}
}

func TestResetReplaysIdentically(t *testing.T) {
	nodes := []Updatable{
		NewSMA(3), NewEMA(3), NewATR(2, Simple), NewDPO(4), NewAccumulationDistribution(),
		NewKeltnerChannels(2, 1.5, Exponential), NewAccelerationBands(2, 2, Wilders),
	}
	for _, u := range nodes {
		t.Run(u.Name(), func(t *testing.T) {
			first := feedBars(u, testBars)
			u.Reset()
			assert.Equal(t, int64(0), u.Samples())
			assert.Equal(t, int64(0), u.CurrentTime())
			assert.Equal(t, 0.0, u.Current().Value())
			assert.False(t, u.Ready())

			second := feedBars(u, testBars)
			assert.Equal(t, first, second)
		})
	}
}

func TestRunMatchesStreaming(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var candles []market.Candle
	for i, c := range []float64{102, 105, 106, 108, 110} {
		candles = append(candles, market.Candle{
			Time:     base.Add(time.Duration(i) * time.Hour),
			TradeBar: market.TradeBar{Close: c},
		})
	}

	sma := NewSMA(3)
	got := Run(sma, candles)
	assert.InDelta(t, (106.0+108+110)/3, got.Value(), 1e-9)
	assert.Equal(t, candles[4].Epoch(), sma.CurrentTime())
}
