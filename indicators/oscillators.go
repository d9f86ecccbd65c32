package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/market"
)

const epsilon = 1e-12

// WilliamsPercentR places the close within the high-low range of the last
// Period bars, from -100 (at the low) to 0 (at the high).
type WilliamsPercentR struct {
	Base
	max *Maximum
	min *Minimum
}

func NewWilliamsPercentR(period int, opts ...Option) *WilliamsPercentR {
	return &WilliamsPercentR{
		Base: NewBase(nameOf(fmt.Sprintf("WILR(%d)", period), opts), period, 1, array.TradeBarProperties),
		max:  NewMaximum(period),
		min:  NewMinimum(period),
	}
}

func (w *WilliamsPercentR) Update(time int64, input *array.Array) {
	w.Apply(time, input, func(t int64, in *array.Array) Result {
		w.max.Update(t, array.Scalar(in.High()))
		w.min.Update(t, array.Scalar(in.Low()))
		if !w.Ready() {
			return Scalar(0)
		}
		hi, lo := w.max.Current().Value(), w.min.Current().Value()
		rng := hi - lo
		if math.Abs(rng) < epsilon {
			return Scalar(0)
		}
		return Scalar(-100 * (hi - in.Close()) / rng)
	})
}

func (w *WilliamsPercentR) Ready() bool { return w.max.Ready() && w.min.Ready() }

func (w *WilliamsPercentR) Reset() {
	w.max.Reset()
	w.min.Reset()
	w.Base.Reset()
}

// DPO is the detrended price oscillator: the price period/2+1 bars ago
// minus the current SMA of the price.
type DPO struct {
	Base
	lag *Delay
	sma *SMA
}

func NewDPO(period int, opts ...Option) *DPO {
	lag := period/2 + 1
	return &DPO{
		Base: NewBase(nameOf(fmt.Sprintf("DPO(%d)", period), opts), max(period, lag+1), 1, 1),
		lag:  NewDelay(lag),
		sma:  NewSMA(period),
	}
}

func (d *DPO) Update(time int64, input *array.Array) {
	d.Apply(time, input, func(t int64, in *array.Array) Result {
		d.lag.Update(t, in)
		d.sma.Update(t, in)
		if !d.Ready() {
			return Scalar(0)
		}
		return Scalar(d.lag.Current().Value() - d.sma.Current().Value())
	})
}

func (d *DPO) Ready() bool { return d.sma.Ready() && d.lag.Ready() }

func (d *DPO) Reset() {
	d.lag.Reset()
	d.sma.Reset()
	d.Base.Reset()
}

// AccumulationDistribution accumulates close location value times volume.
type AccumulationDistribution struct {
	Base
	ad float64
}

func NewAccumulationDistribution(opts ...Option) *AccumulationDistribution {
	return &AccumulationDistribution{Base: NewBase(nameOf("AD", opts), 1, 1, array.TradeBarProperties)}
}

func (a *AccumulationDistribution) Update(time int64, input *array.Array) {
	a.Apply(time, input, func(_ int64, in *array.Array) Result {
		rng := in.High() - in.Low()
		if rng > 0 {
			clv := ((in.Close() - in.Low()) - (in.High() - in.Close())) / rng
			a.ad += clv * in.Volume()
		}
		return Scalar(a.ad)
	})
}

func (a *AccumulationDistribution) Ready() bool { return a.samples > 0 }

func (a *AccumulationDistribution) Reset() {
	a.ad = 0
	a.Base.Reset()
}

// HeikinAshi smooths bars into Heikin-Ashi candles. Current is the
// Heikin-Ashi trade bar, so Value is its close.
type HeikinAshi struct {
	Base
	bar market.TradeBar
}

func NewHeikinAshi(opts ...Option) *HeikinAshi {
	return &HeikinAshi{
		Base: NewBase(nameOf("HA", opts), 2, array.TradeBarProperties, array.TradeBarProperties),
	}
}

func (h *HeikinAshi) Update(time int64, input *array.Array) {
	h.Apply(time, input, func(_ int64, in *array.Array) Result {
		var next market.TradeBar
		next.Close = (in.Open() + in.High() + in.Low() + in.Close()) / 4
		if h.samples == 1 {
			next.Open = (in.Open() + in.Close()) / 2
		} else {
			next.Open = (h.bar.Open + h.bar.Close) / 2
		}
		next.High = max(in.High(), next.Open, next.Close)
		next.Low = min(in.Low(), next.Open, next.Close)
		next.Volume = in.Volume()
		h.bar = next
		return OK(next.Array())
	})
}

func (h *HeikinAshi) Ready() bool { return h.samples > 1 }

// Bar returns the last Heikin-Ashi bar.
func (h *HeikinAshi) Bar() market.TradeBar { return h.bar }

func (h *HeikinAshi) Reset() {
	h.bar = market.TradeBar{}
	h.Base.Reset()
}
