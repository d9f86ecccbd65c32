package indicators

import (
	"slices"

	"github.com/rustyeddy/streamta/array"
)

// Subscription detaches a handler registered with OnUpdated or OnReset.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the handler. Extra calls do nothing.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

type handler[F any] struct {
	id uint64
	fn F
}

// registry keeps handlers in subscription order. The slice is replaced on
// every change, so a dispatch in progress keeps the list it started with.
type registry[F any] struct {
	next     uint64
	handlers []handler[F]
}

func (r *registry[F]) add(fn F) *Subscription {
	r.next++
	id := r.next
	r.handlers = append(slices.Clip(r.handlers), handler[F]{id: id, fn: fn})
	return &Subscription{cancel: func() {
		r.handlers = slices.DeleteFunc(slices.Clone(r.handlers), func(h handler[F]) bool {
			return h.id == id
		})
	}}
}

func (r *registry[F]) each(call func(F)) {
	for _, h := range r.handlers {
		call(h.fn)
	}
}

func (r *registry[F]) len() int { return len(r.handlers) }

// Events carries the Updated and Resetted registries of a node.
type Events struct {
	updated  registry[UpdatedFunc]
	resetted registry[ResetFunc]
}

// OnUpdated registers fn to run after every update, in registration order.
func (e *Events) OnUpdated(fn UpdatedFunc) *Subscription { return e.updated.add(fn) }

// OnReset registers fn to run after every reset.
func (e *Events) OnReset(fn ResetFunc) *Subscription { return e.resetted.add(fn) }

// Subscribers reports how many Updated handlers are registered.
func (e *Events) Subscribers() int { return e.updated.len() }

func (e *Events) fireUpdated(time int64, current *array.Array) {
	e.updated.each(func(fn UpdatedFunc) { fn(time, current) })
}

func (e *Events) fireReset() {
	e.resetted.each(func(fn ResetFunc) { fn() })
}
