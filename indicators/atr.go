package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/streamta/array"
)

func trueRange(cur, prev *array.Array) float64 {
	hl := cur.High() - cur.Low()
	hc := math.Abs(cur.High() - prev.Close())
	lc := math.Abs(cur.Low() - prev.Close())
	return math.Max(hl, math.Max(hc, lc))
}

// TrueRange is the largest of high-low and the gaps to the previous close.
// It needs a previous bar, so it reports zero and is not ready on the
// first sample.
type TrueRange struct {
	Base
	prev *array.Array
}

func NewTrueRange(opts ...Option) *TrueRange {
	return &TrueRange{Base: NewBase(nameOf("TR", opts), 2, 1, array.TradeBarProperties)}
}

func (r *TrueRange) Update(time int64, input *array.Array) {
	r.Apply(time, input, func(_ int64, in *array.Array) Result {
		prev := r.prev
		r.prev = in
		if prev == nil {
			return Scalar(0)
		}
		return Scalar(trueRange(in, prev))
	})
}

func (r *TrueRange) Ready() bool { return r.samples > 1 }

func (r *TrueRange) Reset() {
	r.prev = nil
	r.Base.Reset()
}

// ATR is the average true range: a TrueRange smoothed by a moving average,
// Wilder's by default.
type ATR struct {
	Base
	tr *TrueRange
	ma Updatable
}

func NewATR(period int, maType MovingAverageType, opts ...Option) *ATR {
	return &ATR{
		Base: NewBase(nameOf(fmt.Sprintf("ATR(%d)", period), opts), period+1, 1, array.TradeBarProperties),
		tr:   NewTrueRange(),
		ma:   maType.New(period),
	}
}

func (a *ATR) Update(time int64, input *array.Array) {
	a.Apply(time, input, func(t int64, in *array.Array) Result {
		a.tr.Update(t, in)
		if !a.tr.Ready() {
			return Scalar(0)
		}
		a.ma.Update(t, a.tr.Current())
		return OK(a.ma.Current())
	})
}

func (a *ATR) Ready() bool { return a.ma.Ready() }

// TrueRange exposes the inner true range node.
func (a *ATR) TrueRange() *TrueRange { return a.tr }

func (a *ATR) Reset() {
	a.tr.Reset()
	a.ma.Reset()
	a.Base.Reset()
}
