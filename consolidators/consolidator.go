// Package consolidators turns a stream of fine grained samples into bars.
// A Consolidator is an indicator whose Updated event fires only when a bar
// completes, so indicators chained after it see bars instead of samples.
package consolidators

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/streamta/array"
	"github.com/rustyeddy/streamta/indicators"
)

// ErrPolicy is returned for a Policy that can never emit a bar.
var ErrPolicy = errors.New("consolidators: policy needs a max count or a span")

// Policy decides when a working bar is emitted. With both limits set the
// bar is emitted by whichever is reached first.
type Policy struct {
	// MaxCount emits after this many samples, after aggregating the last.
	MaxCount int `json:"max_count" yaml:"max_count"`

	// Span in milliseconds. A sample whose time rounds down to a later
	// span boundary than the working bar emits the bar before being
	// aggregated into a new one.
	Span int64 `json:"span_ms" yaml:"span_ms"`
}

func (p Policy) Validate() error {
	if p.MaxCount < 0 || p.Span < 0 || (p.MaxCount == 0 && p.Span == 0) {
		return fmt.Errorf("%w: max_count=%d span=%d", ErrPolicy, p.MaxCount, p.Span)
	}
	return nil
}

func (p Policy) String() string {
	switch {
	case p.MaxCount > 0 && p.Span > 0:
		return fmt.Sprintf("%d|%s", p.MaxCount, time.Duration(p.Span)*time.Millisecond)
	case p.Span > 0:
		return (time.Duration(p.Span) * time.Millisecond).String()
	}
	return fmt.Sprintf("%d", p.MaxCount)
}

// AggregateFunc folds data into the working bar. bar is nil when a new bar
// starts; the returned array becomes the working bar and must be owned by
// the consolidator.
type AggregateFunc func(bar, data *array.Array) *array.Array

// Consolidator builds bars with an AggregateFunc and emits them according
// to its Policy. Current is the last emitted bar and CurrentTime its start.
type Consolidator struct {
	indicators.Base
	policy    Policy
	aggregate AggregateFunc

	workingTime int64
	workingBar  *array.Array
	count       int
	emitted     int64
}

// New returns a consolidator emitting bars of props properties.
func New(name string, props int, policy Policy, aggregate AggregateFunc) (*Consolidator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	warmup := policy.MaxCount
	if warmup == 0 {
		warmup = 1
	}
	return &Consolidator{
		Base:      indicators.NewBase(name, warmup, props, props),
		policy:    policy,
		aggregate: aggregate,
	}, nil
}

func (c *Consolidator) Policy() Policy { return c.policy }

func (c *Consolidator) round(t int64) int64 {
	if c.policy.Span <= 0 {
		return t
	}
	m := t % c.policy.Span
	if m < 0 {
		m += c.policy.Span
	}
	return t - m
}

func (c *Consolidator) Update(time int64, data *array.Array) {
	c.CountSample()

	if c.policy.Span > 0 && c.workingBar != nil && c.round(time) > c.workingTime {
		c.emit()
	}

	if c.workingBar == nil {
		c.workingTime = c.round(time)
	}
	c.workingBar = c.aggregate(c.workingBar, data)

	if c.policy.MaxCount > 0 {
		c.count++
		if c.count >= c.policy.MaxCount {
			c.emit()
		}
	}
}

// Scan emits the working bar when time has moved past its span, for feeds
// that go quiet at the end of a period.
func (c *Consolidator) Scan(time int64) {
	if c.policy.Span > 0 && c.workingBar != nil && c.round(time) > c.workingTime {
		c.emit()
	}
}

// Flush emits the working bar regardless of the policy.
func (c *Consolidator) Flush() {
	if c.workingBar != nil {
		c.emit()
	}
}

func (c *Consolidator) emit() {
	bar := c.workingBar
	c.count = 0
	c.emitted++
	c.Emit(c.workingTime, indicators.OK(bar))
	c.workingBar = nil
}

// Ready once the first bar was emitted.
func (c *Consolidator) Ready() bool { return c.emitted > 0 }

// Emitted counts bars emitted since the last reset.
func (c *Consolidator) Emitted() int64 { return c.emitted }

// WorkingBar is the bar in progress, nil between bars.
func (c *Consolidator) WorkingBar() *array.Array { return c.workingBar }

func (c *Consolidator) Reset() {
	c.workingBar = nil
	c.workingTime = 0
	c.count = 0
	c.emitted = 0
	c.Base.Reset()
}
