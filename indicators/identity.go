package indicators

import (
	"fmt"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/rolling"
)

// Identity passes its input through unchanged. It is ready after the first
// sample.
type Identity struct {
	Base
}

func NewIdentity(name string) *Identity {
	return &Identity{Base: NewBase(name, 1, 1, 1)}
}

func (x *Identity) Update(time int64, input *array.Array) {
	x.Apply(time, input, func(_ int64, in *array.Array) Result { return OK(in) })
}

func (x *Identity) Ready() bool { return x.samples > 0 }

// Constant always holds the same value and is always ready.
type Constant struct {
	Base
	value *array.Array
}

func NewConstant(v float64, opts ...Option) *Constant {
	c := &Constant{
		Base:  NewBase(nameOf(fmt.Sprintf("CONST(%g)", v), opts), 0, 1, 1),
		value: array.Scalar(v),
	}
	c.current = c.value
	return c
}

func (c *Constant) Update(time int64, input *array.Array) {
	c.Apply(time, input, func(int64, *array.Array) Result { return OK(c.value) })
}

func (c *Constant) Ready() bool { return true }

func (c *Constant) Reset() {
	c.samples = 0
	c.currentTime = 0
	c.current = c.value
	c.status = StatusSuccess
	c.fireReset()
}

// Functional is a node built from plain functions. A nil ready reports
// ready after the first sample; a nil reset does nothing beyond the base
// reset.
type Functional struct {
	Base
	forward ForwardFunc
	ready   func() bool
	reset   func()
}

func NewFunctional(name string, forward ForwardFunc, ready func() bool, reset func()) *Functional {
	return &Functional{
		Base:    NewBase(name, 1, 1, 1),
		forward: forward,
		ready:   ready,
		reset:   reset,
	}
}

func (f *Functional) Update(time int64, input *array.Array) {
	f.Apply(time, input, f.forward)
}

func (f *Functional) Ready() bool {
	if f.ready == nil {
		return f.samples > 0
	}
	return f.ready()
}

func (f *Functional) Reset() {
	if f.reset != nil {
		f.reset()
	}
	f.Base.Reset()
}

// Delay outputs its input from Period updates ago. Until the window fills
// it repeats the oldest value seen.
type Delay struct {
	WindowBase
	period int
}

func NewDelay(period int, opts ...Option) *Delay {
	return &Delay{
		WindowBase: NewWindowBase(nameOf(fmt.Sprintf("DELAY(%d)", period), opts), period+1, 1, 1),
		period:     period,
	}
}

func (d *Delay) Update(time int64, input *array.Array) {
	d.ApplyWindow(time, input, func(w *rolling.Window[*array.Array], _ int64, _ *array.Array) Result {
		return OK(w.MustAt(w.Len() - 1))
	})
}

// WindowIdentity passes its input through and is ready once Period
// samples were seen.
type WindowIdentity struct {
	WindowBase
}

func NewWindowIdentity(period int, opts ...Option) *WindowIdentity {
	return &WindowIdentity{
		WindowBase: NewWindowBase(nameOf(fmt.Sprintf("WINDOW(%d)", period), opts), period, 1, 1),
	}
}

func (x *WindowIdentity) Update(time int64, input *array.Array) {
	x.ApplyWindow(time, input, func(_ *rolling.Window[*array.Array], _ int64, in *array.Array) Result {
		return OK(in)
	})
}
