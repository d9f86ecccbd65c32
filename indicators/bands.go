package indicators

import (
	"fmt"

	"github.com/rustyeddy/streamta/array"
)

// KeltnerChannels centres a moving average of the typical price between
// bands K average true ranges away. Current is the middle band.
type KeltnerChannels struct {
	Base
	k      float64
	ATR    *ATR
	Middle Updatable
	Upper  *Functional
	Lower  *Functional
}

func NewKeltnerChannels(period int, k float64, maType MovingAverageType, opts ...Option) *KeltnerChannels {
	name := nameOf(fmt.Sprintf("KC(%d,%g)", period, k), opts)
	kc := &KeltnerChannels{
		Base:   NewBase(name, period+1, 1, array.TradeBarProperties),
		k:      k,
		ATR:    NewATR(period, Simple, WithName(name+"_AverageTrueRange")),
		Middle: maType.New(period, WithName(name+"_MiddleBand")),
	}
	band := func(sign float64) ForwardFunc {
		return func(int64, *array.Array) Result {
			if !kc.Middle.Ready() {
				return Scalar(0)
			}
			return Scalar(kc.Middle.Current().Value() + sign*kc.ATR.Current().Value()*kc.k)
		}
	}
	ready := func() bool { return kc.Middle.Ready() }
	kc.Upper = NewFunctional(name+"_UpperBand", band(1), ready, nil)
	kc.Lower = NewFunctional(name+"_LowerBand", band(-1), ready, nil)
	return kc
}

func (kc *KeltnerChannels) Update(time int64, input *array.Array) {
	kc.Apply(time, input, func(t int64, in *array.Array) Result {
		kc.ATR.Update(t, in)
		kc.Middle.Update(t, array.Scalar(array.Typical(in)))
		kc.Lower.Update(t, in)
		kc.Upper.Update(t, in)
		return OK(kc.Middle.Current())
	})
}

func (kc *KeltnerChannels) Ready() bool {
	return kc.Middle.Ready() && kc.Upper.Ready() && kc.Lower.Ready() && kc.ATR.Ready()
}

func (kc *KeltnerChannels) Reset() {
	kc.ATR.Reset()
	kc.Middle.Reset()
	kc.Upper.Reset()
	kc.Lower.Reset()
	kc.Base.Reset()
}

// DefaultAccelerationWidth is the band width factor used by
// NewAccelerationBands when width is zero.
const DefaultAccelerationWidth = 4.0

// AccelerationBands are moving averages of highs and lows pushed out by
// the bar's relative range. Current is the middle band, an average of the
// close.
type AccelerationBands struct {
	Base
	width  float64
	Middle Updatable
	Upper  Updatable
	Lower  Updatable
}

func NewAccelerationBands(period int, width float64, maType MovingAverageType, opts ...Option) *AccelerationBands {
	if width == 0 {
		width = DefaultAccelerationWidth
	}
	name := nameOf(fmt.Sprintf("ABANDS(%d,%g)", period, width), opts)
	return &AccelerationBands{
		Base:   NewBase(name, period, 1, array.TradeBarProperties),
		width:  width,
		Middle: maType.New(period, WithName(name+"_MiddleBand")),
		Upper:  maType.New(period, WithName(name+"_UpperBand")),
		Lower:  maType.New(period, WithName(name+"_LowerBand")),
	}
}

func (ab *AccelerationBands) Update(time int64, input *array.Array) {
	ab.Apply(time, input, func(t int64, in *array.Array) Result {
		hi, lo := in.High(), in.Low()
		coeff := 0.0
		if hi+lo != 0 {
			coeff = ab.width * (hi - lo) / (hi + lo)
		}
		ab.Lower.Update(t, array.Scalar(lo*(1-coeff)))
		ab.Upper.Update(t, array.Scalar(hi*(1+coeff)))
		ab.Middle.Update(t, array.Scalar(in.Close()))
		return OK(ab.Middle.Current())
	})
}

func (ab *AccelerationBands) Ready() bool {
	return ab.Middle.Ready() && ab.Lower.Ready() && ab.Upper.Ready()
}

func (ab *AccelerationBands) Reset() {
	ab.Middle.Reset()
	ab.Upper.Reset()
	ab.Lower.Reset()
	ab.Base.Reset()
}
