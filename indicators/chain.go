package indicators

import (
	"fmt"

	"github.com/rustyeddy/streamta/array"
)

// Link is the pair of subscriptions that connects two nodes.
type Link struct {
	updated *Subscription
	reset   *Subscription
}

// Unlink stops forwarding updates and resets.
func (l *Link) Unlink() {
	l.updated.Unsubscribe()
	l.reset.Unsubscribe()
}

// Chain feeds every update of first into second and resets second whenever
// first resets. With waitForFirstToReady, updates are only forwarded once
// first is ready.
func Chain(first, second Updatable, waitForFirstToReady bool) *Link {
	forward := func(time int64, current *array.Array) {
		second.Update(time, current)
	}
	if waitForFirstToReady {
		forward = func(time int64, current *array.Array) {
			if first.Ready() {
				second.Update(time, current)
			}
		}
	}
	return &Link{
		updated: first.OnUpdated(forward),
		reset:   first.OnReset(second.Reset),
	}
}

// Of makes second consume first and returns second.
func Of[T Updatable](second T, first Updatable, waitForFirstToReady bool) T {
	Chain(first, second, waitForFirstToReady)
	return second
}

// Then is Of with the arguments in pipeline order.
func Then[T Updatable](first Updatable, second T, waitForFirstToReady bool) T {
	Chain(first, second, waitForFirstToReady)
	return second
}

// Function returns an Identity fed with op applied to first's values. A
// nil selector reads Value.
func Function(first Updatable, op array.UnaryFunc, selector array.Selector, waitForFirstToReady bool, opts ...Option) *Identity {
	if selector == nil {
		selector = (*array.Array).Value
	}
	out := NewIdentity(nameOf(fmt.Sprintf("FN(%s)", first.Name()), opts))
	Chain(first, &mapped{Identity: out, fn: func(a *array.Array) *array.Array {
		return array.Scalar(op(selector(a)))
	}}, waitForFirstToReady)
	return out
}

// Map returns an Identity fed with fn applied to first's current arrays.
func Map(first Updatable, fn func(*array.Array) *array.Array, waitForFirstToReady bool, opts ...Option) *Identity {
	out := NewIdentity(nameOf(fmt.Sprintf("MAP(%s)", first.Name()), opts))
	Chain(first, &mapped{Identity: out, fn: fn}, waitForFirstToReady)
	return out
}

// mapped transforms inputs before they reach the wrapped Identity.
type mapped struct {
	*Identity
	fn func(*array.Array) *array.Array
}

func (m *mapped) Update(time int64, input *array.Array) {
	m.Identity.Update(time, m.fn(input))
}

// SMAOf, EMAOf, MaxOf and MinOf chain a fresh moving window onto first.

func SMAOf(first Updatable, period int, waitForFirstToReady bool) *SMA {
	return Of(NewSMA(period, WithName(fmt.Sprintf("SMA%d_Of_%s", period, first.Name()))), first, waitForFirstToReady)
}

func EMAOf(first Updatable, period int, waitForFirstToReady bool) *EMA {
	return Of(NewEMA(period, WithName(fmt.Sprintf("EMA%d_Of_%s", period, first.Name()))), first, waitForFirstToReady)
}

func MaxOf(first Updatable, period int, waitForFirstToReady bool) *Maximum {
	return Of(NewMaximum(period, WithName(fmt.Sprintf("MAX%d_Of_%s", period, first.Name()))), first, waitForFirstToReady)
}

func MinOf(first Updatable, period int, waitForFirstToReady bool) *Minimum {
	return Of(NewMinimum(period, WithName(fmt.Sprintf("MIN%d_Of_%s", period, first.Name()))), first, waitForFirstToReady)
}

// Collector records every update of a node.
type Collector struct {
	times  []int64
	values []*array.Array
	links  []*Subscription
}

// Collect subscribes a Collector to u. With resetOnReset the collected
// values are dropped whenever u resets.
func Collect(u Updatable, resetOnReset bool) *Collector {
	c := &Collector{}
	c.links = append(c.links, u.OnUpdated(func(time int64, current *array.Array) {
		c.times = append(c.times, time)
		c.values = append(c.values, current)
	}))
	if resetOnReset {
		c.links = append(c.links, u.OnReset(c.Clear))
	}
	return c
}

func (c *Collector) Len() int               { return len(c.values) }
func (c *Collector) Times() []int64         { return c.times }
func (c *Collector) Values() []*array.Array { return c.values }

// Float64s returns the first element of each collected value.
func (c *Collector) Float64s() []float64 {
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = v.Value()
	}
	return out
}

func (c *Collector) Clear() {
	c.times = nil
	c.values = nil
}

// Stop detaches the collector.
func (c *Collector) Stop() {
	for _, s := range c.links {
		s.Unsubscribe()
	}
	c.links = nil
}
