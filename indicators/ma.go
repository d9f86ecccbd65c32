package indicators

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/rolling"
)

// SMA is a streaming simple moving average of the input value. Before the
// window fills it averages what it has.
type SMA struct {
	WindowBase
	sum float64
}

func NewSMA(period int, opts ...Option) *SMA {
	return &SMA{WindowBase: NewWindowBase(nameOf(fmt.Sprintf("SMA(%d)", period), opts), period, 1, 1)}
}

func (m *SMA) Update(time int64, input *array.Array) {
	m.ApplyWindow(time, input, m.forward)
}

func (m *SMA) forward(w *rolling.Window[*array.Array], _ int64, input *array.Array) Result {
	m.sum += input.Value()
	if w.Samples() > int64(w.Size()) {
		old, _ := w.Removed()
		m.sum -= old.Value()
	}
	return Scalar(m.sum / float64(w.Len()))
}

func (m *SMA) Reset() {
	m.sum = 0
	m.WindowBase.Reset()
}

// Sum is a streaming sum of the last Period input values.
type Sum struct {
	WindowBase
	sum float64
}

func NewSum(period int, opts ...Option) *Sum {
	return &Sum{WindowBase: NewWindowBase(nameOf(fmt.Sprintf("SUM(%d)", period), opts), period, 1, 1)}
}

func (s *Sum) Update(time int64, input *array.Array) {
	s.ApplyWindow(time, input, func(w *rolling.Window[*array.Array], _ int64, in *array.Array) Result {
		s.sum += in.Value()
		if w.Samples() > int64(w.Size()) {
			old, _ := w.Removed()
			s.sum -= old.Value()
		}
		return Scalar(s.sum)
	})
}

func (s *Sum) Reset() {
	s.sum = 0
	s.WindowBase.Reset()
}

// SmoothingFactorDefault is the classic 2/(period+1) EMA weight.
func SmoothingFactorDefault(period int) float64 {
	return 2.0 / float64(period+1)
}

// EMA is a streaming exponential moving average. The first Period samples
// are averaged to seed it; until then Current is the running average.
type EMA struct {
	Base
	period     int
	multiplier float64
	ema        float64
	warmupSum  float64
}

// NewEMA uses the default smoothing factor.
func NewEMA(period int, opts ...Option) *EMA {
	return NewEMAWithFactor(period, SmoothingFactorDefault(period), opts...)
}

func NewEMAWithFactor(period int, k float64, opts ...Option) *EMA {
	return &EMA{
		Base:       NewBase(nameOf(fmt.Sprintf("EMA(%d)", period), opts), period, 1, 1),
		period:     period,
		multiplier: k,
	}
}

// NewWilders is an EMA with weight 1/period, the smoothing behind ATR.
func NewWilders(period int, opts ...Option) *EMA {
	return NewEMAWithFactor(period, 1/float64(period), append([]Option{WithName(fmt.Sprintf("WILDERS(%d)", period))}, opts...)...)
}

func (e *EMA) Update(time int64, input *array.Array) {
	e.Apply(time, input, e.forward)
}

func (e *EMA) forward(_ int64, input *array.Array) Result {
	v := input.Value()
	if e.samples <= int64(e.period) {
		e.warmupSum += v
		e.ema = e.warmupSum / float64(e.samples)
		return Scalar(e.ema)
	}
	e.ema = (v-e.ema)*e.multiplier + e.ema
	return Scalar(e.ema)
}

func (e *EMA) Ready() bool { return e.samples >= int64(e.period) }

func (e *EMA) Reset() {
	e.ema = 0
	e.warmupSum = 0
	e.Base.Reset()
}

// Maximum tracks the highest input value over the last Period samples.
type Maximum struct {
	WindowBase
}

func NewMaximum(period int, opts ...Option) *Maximum {
	return &Maximum{WindowBase: NewWindowBase(nameOf(fmt.Sprintf("MAX(%d)", period), opts), period, 1, 1)}
}

func (m *Maximum) Update(time int64, input *array.Array) {
	m.ApplyWindow(time, input, func(w *rolling.Window[*array.Array], _ int64, _ *array.Array) Result {
		return Scalar(extreme(w, func(a, b float64) bool { return a > b }))
	})
}

// Minimum tracks the lowest input value over the last Period samples.
type Minimum struct {
	WindowBase
}

func NewMinimum(period int, opts ...Option) *Minimum {
	return &Minimum{WindowBase: NewWindowBase(nameOf(fmt.Sprintf("MIN(%d)", period), opts), period, 1, 1)}
}

func (m *Minimum) Update(time int64, input *array.Array) {
	m.ApplyWindow(time, input, func(w *rolling.Window[*array.Array], _ int64, _ *array.Array) Result {
		return Scalar(extreme(w, func(a, b float64) bool { return a < b }))
	})
}

func extreme(w *rolling.Window[*array.Array], better func(a, b float64) bool) float64 {
	best := w.MustAt(0).Value()
	for _, v := range w.All() {
		if x := v.Value(); better(x, best) {
			best = x
		}
	}
	return best
}

// MovingAverageType selects a moving average implementation by name.
type MovingAverageType int

const (
	Simple MovingAverageType = iota
	Exponential
	Wilders
)

func (t MovingAverageType) String() string {
	switch t {
	case Simple:
		return "simple"
	case Exponential:
		return "exponential"
	case Wilders:
		return "wilders"
	}
	return fmt.Sprintf("MovingAverageType(%d)", int(t))
}

// ParseMovingAverageType accepts the String forms; empty means Simple.
func ParseMovingAverageType(s string) (MovingAverageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple", "sma":
		return Simple, nil
	case "exponential", "ema":
		return Exponential, nil
	case "wilders", "wilder":
		return Wilders, nil
	}
	return 0, fmt.Errorf("unknown moving average type %q", s)
}

// New builds a moving average of this type.
func (t MovingAverageType) New(period int, opts ...Option) Updatable {
	switch t {
	case Exponential:
		return NewEMA(period, opts...)
	case Wilders:
		return NewWilders(period, opts...)
	}
	return NewSMA(period, opts...)
}
