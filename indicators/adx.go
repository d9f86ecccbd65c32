package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/streamta/array"
)

// ADX is Wilder's Average Directional Index, a measure of trend strength.
// Directional movement and true range are Wilders smoothed into +DI and
// -DI; their normalised spread (DX) is smoothed again into the ADX.
//
// The first bar only seeds the previous high and low. The DI lines are
// ready after Period+1 bars and the ADX after 2*Period.
type ADX struct {
	Base
	period int
	prev   *array.Array

	tr       *EMA
	plusDM   *EMA
	minusDM  *EMA
	smoothed *EMA

	pdi, mdi float64

	PositiveDI *Functional
	NegativeDI *Functional
}

func NewADX(period int, opts ...Option) *ADX {
	name := nameOf(fmt.Sprintf("ADX(%d)", period), opts)
	a := &ADX{
		Base:     NewBase(name, 2*period, 1, array.TradeBarProperties),
		period:   period,
		tr:       NewWilders(period, WithName(name+"_TrueRange")),
		plusDM:   NewWilders(period, WithName(name+"_PositiveDM")),
		minusDM:  NewWilders(period, WithName(name+"_NegativeDM")),
		smoothed: NewWilders(period, WithName(name+"_Smoothed")),
	}
	diReady := func() bool { return a.tr.Ready() }
	a.PositiveDI = NewFunctional(name+"_PositiveDI", func(int64, *array.Array) Result {
		return Scalar(a.pdi)
	}, diReady, nil)
	a.NegativeDI = NewFunctional(name+"_NegativeDI", func(int64, *array.Array) Result {
		return Scalar(a.mdi)
	}, diReady, nil)
	return a
}

func (a *ADX) Update(time int64, input *array.Array) {
	a.Apply(time, input, func(t int64, in *array.Array) Result {
		prev := a.prev
		a.prev = in
		if prev == nil {
			return Scalar(0)
		}

		up := in.High() - prev.High()
		down := prev.Low() - in.Low()
		var pdm, mdm float64
		if up > down && up > 0 {
			pdm = up
		}
		if down > up && down > 0 {
			mdm = down
		}
		a.tr.Update(t, array.Scalar(trueRange(in, prev)))
		a.plusDM.Update(t, array.Scalar(pdm))
		a.minusDM.Update(t, array.Scalar(mdm))
		if !a.tr.Ready() {
			return Scalar(0)
		}

		a.pdi, a.mdi = 0, 0
		if tr := a.tr.Current().Value(); tr != 0 {
			a.pdi = 100 * a.plusDM.Current().Value() / tr
			a.mdi = 100 * a.minusDM.Current().Value() / tr
		}
		a.PositiveDI.Update(t, in)
		a.NegativeDI.Update(t, in)

		var dx float64
		if sum := a.pdi + a.mdi; sum != 0 {
			dx = 100 * math.Abs(a.pdi-a.mdi) / sum
		}
		a.smoothed.Update(t, array.Scalar(dx))
		return OK(a.smoothed.Current())
	})
}

func (a *ADX) Ready() bool { return a.smoothed.Ready() }

func (a *ADX) Reset() {
	a.prev = nil
	a.pdi, a.mdi = 0, 0
	a.tr.Reset()
	a.plusDM.Reset()
	a.minusDM.Reset()
	a.smoothed.Reset()
	a.PositiveDI.Reset()
	a.NegativeDI.Reset()
	a.Base.Reset()
}
