// Package indicators provides streaming technical analysis nodes. Each node
// consumes timestamped arrays, keeps a current value and notifies
// subscribers synchronously, so nodes chain into graphs that are driven by
// a single feed.
package indicators

import (
	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/market"
)

// Updatable is a node in an indicator graph. Times are unix milliseconds.
//
// Update, Reset and the subscription methods must be called from one
// goroutine; a graph is owned by whoever feeds it.
type Updatable interface {
	// Name returns a stable identifier like "EMA(20)" or "SMA5_Of_ATR(14)".
	Name() string

	// Update consumes the next sample and, unless the node is a
	// consolidator still building a bar, fires Updated.
	Update(time int64, input *array.Array)

	// Reset clears all internal state and fires Resetted.
	Reset()

	// Current is the last computed value, a zero scalar before any update.
	// Receivers must not modify it.
	Current() *array.Array
	CurrentTime() int64
	Samples() int64

	// Ready reports whether Current is meaningful. It never goes back to
	// false without a Reset.
	Ready() bool

	// Warmup returns how many updates are needed before Ready can be true.
	Warmup() int

	// Properties is the width of Current, InputProperties the expected
	// width of inputs.
	Properties() int
	InputProperties() int

	// Status of the last computation.
	Status() Status

	OnUpdated(fn UpdatedFunc) *Subscription
	OnReset(fn ResetFunc) *Subscription
}

// UpdatedFunc receives a node's new time and current value.
type UpdatedFunc func(time int64, current *array.Array)

// ResetFunc is notified after a node resets.
type ResetFunc func()

// Run feeds candles into u in order and returns its final value.
func Run(u Updatable, candles []market.Candle) *array.Array {
	for _, c := range candles {
		u.Update(c.Epoch(), c.Array())
	}
	return u.Current()
}
