package indicators

import (
	"fmt"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/rolling"
)

// ForwardFunc computes a node's next value from its input.
type ForwardFunc func(time int64, input *array.Array) Result

// Base holds the state shared by every node. Concrete indicators embed it,
// implement Update by calling Apply and override Reset to clear their own
// state before calling Base.Reset.
type Base struct {
	name        string
	warmup      int
	props       int
	inputProps  int
	current     *array.Array
	currentTime int64
	samples     int64
	status      Status

	Events
}

// NewBase returns a Base for embedding.
func NewBase(name string, warmup, props, inputProps int) Base {
	return Base{
		name:       name,
		warmup:     warmup,
		props:      props,
		inputProps: inputProps,
		current:    array.Zero(),
	}
}

func (b *Base) Name() string { return b.name }
func (b *Base) Warmup() int { return b.warmup }
func (b *Base) Properties() int { return b.props }
func (b *Base) InputProperties() int { return b.inputProps }
func (b *Base) Current() *array.Array { return b.current }
func (b *Base) CurrentTime() int64 { return b.currentTime }
func (b *Base) Samples() int64 { return b.samples }
func (b *Base) Status() Status { return b.status }
func (b *Base) String() string { return fmt.Sprintf("%s: %s", b.name, b.current) }
func (b *Base) SetName(name string) { b.name = name }

// Apply runs one update step: it counts the sample, computes the next
// value and notifies subscribers in subscription order.
func (b *Base) Apply(time int64, input *array.Array, forward ForwardFunc) {
	b.samples++
	b.Emit(time, forward(time, input))
}

// Emit stores r as the current value and fires Updated without counting a
// sample. Consolidators use it when a bar completes.
func (b *Base) Emit(time int64, r Result) {
	if r.Value == nil {
		r.Value = array.Zero()
	}
	b.current = r.Value
	b.status = r.Status
	b.currentTime = time
	b.fireUpdated(time, b.current)
}

// CountSample records an input that did not produce a new value.
func (b *Base) CountSample() { b.samples++ }

// Reset restores the initial state and fires Resetted.
func (b *Base) Reset() {
	b.samples = 0
	b.current = array.Zero()
	b.currentTime = 0
	b.status = StatusSuccess
	b.fireReset()
}

// WindowForwardFunc computes a windowed node's next value. The window
// already holds input at index 0.
type WindowForwardFunc func(w *rolling.Window[*array.Array], time int64, input *array.Array) Result

// WindowBase is a Base with a rolling window of the last Period inputs.
// The default Ready is Samples >= Period.
type WindowBase struct {
	Base
	window *rolling.Window[*array.Array]
}

// NewWindowBase returns a WindowBase for embedding. It panics when period
// is below one.
func NewWindowBase(name string, period, props, inputProps int) WindowBase {
	return WindowBase{
		Base:   NewBase(name, period, props, inputProps),
		window: rolling.New[*array.Array](period),
	}
}

func (w *WindowBase) Period() int { return w.window.Size() }
func (w *WindowBase) Window() *rolling.Window[*array.Array] { return w.window }
func (w *WindowBase) Ready() bool { return w.samples >= int64(w.window.Size()) }

// ApplyWindow pushes input into the window and runs forward over it.
func (w *WindowBase) ApplyWindow(time int64, input *array.Array, forward WindowForwardFunc) {
	w.samples++
	w.window.Push(time, input)
	w.Emit(time, forward(w.window, time, input))
}

func (w *WindowBase) Reset() {
	w.window.Reset()
	w.Base.Reset()
}

// Option adjusts a node at construction.
type Option func(*options)

type options struct {
	name string
}

// WithName overrides the generated node name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func nameOf(def string, opts []Option) string {
	o := options{name: def}
	for _, opt := range opts {
		opt(&o)
	}
	return o.name
}
