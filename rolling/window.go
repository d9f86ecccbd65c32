// Package rolling provides a fixed capacity window over the most recent
// values pushed into it, newest first.
package rolling

import (
	"fmt"
	"iter"

	"github.com/gammazero/deque"

	"github.com/rustyeddy/streamta/array"
)

// ErrIndexOutOfRange is the array sentinel so callers can match either.
var ErrIndexOutOfRange = array.ErrIndexOutOfRange

type entry[T any] struct {
	time  int64
	value T
}

// Window keeps the last Size values with their times. Index 0 is the most
// recent value. It is not safe for concurrent use.
type Window[T any] struct {
	size    int
	samples int64
	items   deque.Deque[entry[T]]

	removed    entry[T]
	hasRemoved bool
}

// New returns an empty window holding at most size values. It panics when
// size is below one.
func New[T any](size int) *Window[T] {
	if size < 1 {
		panic(fmt.Sprintf("rolling: window size must be positive, got %d", size))
	}
	return &Window[T]{size: size}
}

// Push adds v as the newest value, evicting the oldest when full.
func (w *Window[T]) Push(time int64, v T) {
	if w.items.Len() == w.size {
		w.removed = w.items.PopBack()
		w.hasRemoved = true
	}
	w.items.PushFront(entry[T]{time: time, value: v})
	w.samples++
}

// At returns the value pushed k updates ago.
func (w *Window[T]) At(k int) (T, error) {
	if k < 0 || k >= w.items.Len() {
		var zero T
		return zero, fmt.Errorf("%w: window index %d with %d values", ErrIndexOutOfRange, k, w.items.Len())
	}
	return w.items.At(k).value, nil
}

// MustAt is At for callers that already checked Len.
func (w *Window[T]) MustAt(k int) T {
	v, err := w.At(k)
	if err != nil {
		panic(err)
	}
	return v
}

// TimeAt returns the time of the value at index k.
func (w *Window[T]) TimeAt(k int) (int64, error) {
	if k < 0 || k >= w.items.Len() {
		return 0, fmt.Errorf("%w: window index %d with %d values", ErrIndexOutOfRange, k, w.items.Len())
	}
	return w.items.At(k).time, nil
}

// Len is the number of values held.
func (w *Window[T]) Len() int { return w.items.Len() }

// Size is the capacity.
func (w *Window[T]) Size() int { return w.size }

// Samples counts every Push since the last Reset.
func (w *Window[T]) Samples() int64 { return w.samples }

// IsReady reports whether the window is full.
func (w *Window[T]) IsReady() bool { return w.items.Len() == w.size }

// Removed returns the value most recently evicted.
func (w *Window[T]) Removed() (T, bool) { return w.removed.value, w.hasRemoved }

// All yields times and values newest first.
func (w *Window[T]) All() iter.Seq2[int64, T] {
	return func(yield func(int64, T) bool) {
		for i := 0; i < w.items.Len(); i++ {
			e := w.items.At(i)
			if !yield(e.time, e.value) {
				return
			}
		}
	}
}

func (w *Window[T]) Reset() {
	w.items.Clear()
	w.samples = 0
	w.removed = entry[T]{}
	w.hasRemoved = false
}
