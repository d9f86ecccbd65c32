package indicators

import (
	"fmt"

	"github.com/rustyeddy/streamta/array"
)

// ComposeFunc combines the current values of two nodes.
type ComposeFunc func(left, right *array.Array) Result

// Composite updates once both of its sides produced a value since its last
// update. A Constant side always counts as fresh.
type Composite struct {
	Base
	Left    Updatable
	Right   Updatable
	compose ComposeFunc

	newLeft  bool
	newRight bool
	subs     []*Subscription
}

func NewComposite(left, right Updatable, compose ComposeFunc, opts ...Option) *Composite {
	c := &Composite{
		Base: NewBase(nameOf(fmt.Sprintf("COMPOSE(%s,%s)", left.Name(), right.Name()), opts),
			max(left.Warmup(), right.Warmup()), max(left.Properties(), right.Properties()), left.InputProperties()),
		Left:    left,
		Right:   right,
		compose: compose,
	}
	c.subs = append(c.subs,
		left.OnUpdated(func(time int64, _ *array.Array) {
			c.newLeft = true
			c.tryUpdate(time)
		}),
		right.OnUpdated(func(time int64, _ *array.Array) {
			c.newRight = true
			c.tryUpdate(time)
		}),
	)
	return c
}

func isConstant(u Updatable) bool {
	_, ok := u.(*Constant)
	return ok
}

func (c *Composite) tryUpdate(time int64) {
	if (c.newLeft || isConstant(c.Left)) && (c.newRight || isConstant(c.Right)) {
		c.newLeft, c.newRight = false, false
		c.Update(time, c.Left.Current())
	}
}

// Update computes from the sides' current values; input is ignored.
func (c *Composite) Update(time int64, input *array.Array) {
	c.Apply(time, input, func(int64, *array.Array) Result {
		return c.compose(c.Left.Current(), c.Right.Current())
	})
}

func (c *Composite) Ready() bool { return c.Left.Ready() && c.Right.Ready() }

// Reset resets both sides, then itself.
func (c *Composite) Reset() {
	c.Left.Reset()
	c.Right.Reset()
	c.ResetSelf()
}

// ResetSelf clears the composite's own state and fires Resetted, leaving
// both sides alone. Use it when the sides are reset through their own
// chain.
func (c *Composite) ResetSelf() {
	c.newLeft, c.newRight = false, false
	c.Base.Reset()
}

// Detach stops listening to both sides.
func (c *Composite) Detach() {
	for _, s := range c.subs {
		s.Unsubscribe()
	}
	c.subs = nil
}

func Plus(left, right Updatable, opts ...Option) *Composite {
	return NewComposite(left, right, func(l, r *array.Array) Result { return OK(l.Add(r)) },
		append([]Option{WithName(fmt.Sprintf("PLUS(%s,%s)", left.Name(), right.Name()))}, opts...)...)
}

func Minus(left, right Updatable, opts ...Option) *Composite {
	return NewComposite(left, right, func(l, r *array.Array) Result { return OK(l.Sub(r)) },
		append([]Option{WithName(fmt.Sprintf("MINUS(%s,%s)", left.Name(), right.Name()))}, opts...)...)
}

func Times(left, right Updatable, opts ...Option) *Composite {
	return NewComposite(left, right, func(l, r *array.Array) Result { return OK(l.Mul(r)) },
		append([]Option{WithName(fmt.Sprintf("TIMES(%s,%s)", left.Name(), right.Name()))}, opts...)...)
}

// Over divides left by right. A zero in the denominator yields a zero
// value with StatusMathError.
func Over(left, right Updatable, opts ...Option) *Composite {
	return NewComposite(left, right, func(l, r *array.Array) Result {
		for v := range r.Values() {
			if v == 0 {
				return MathError()
			}
		}
		return OK(l.Div(r))
	}, append([]Option{WithName(fmt.Sprintf("OVER(%s,%s)", left.Name(), right.Name()))}, opts...)...)
}

// PlusValue, MinusValue, TimesValue and OverValue combine with a constant.

func PlusValue(left Updatable, v float64, opts ...Option) *Composite {
	return Plus(left, NewConstant(v), opts...)
}

func MinusValue(left Updatable, v float64, opts ...Option) *Composite {
	return Minus(left, NewConstant(v), opts...)
}

func TimesValue(left Updatable, v float64, opts ...Option) *Composite {
	return Times(left, NewConstant(v), opts...)
}

func OverValue(left Updatable, v float64, opts ...Option) *Composite {
	return Over(left, NewConstant(v), opts...)
}

// WeightedBy is the period weighted average of value weighted by weight.
// Both sides must update in lock step.
func WeightedBy(value, weight Updatable, period int, opts ...Option) *Composite {
	x := NewWindowIdentity(period, WithName(value.Name()+"_x"))
	y := NewWindowIdentity(period, WithName(weight.Name()+"_y"))
	numerator := NewSum(period, WithName("Sum_xy"))
	denominator := NewSum(period, WithName("Sum_y"))

	subs := []*Subscription{
		value.OnUpdated(func(time int64, current *array.Array) {
			x.Update(time, current)
			if x.Samples() == y.Samples() {
				numerator.Update(time, current.Mul(y.Current()))
			}
		}),
		weight.OnUpdated(func(time int64, current *array.Array) {
			y.Update(time, current)
			if x.Samples() == y.Samples() {
				numerator.Update(time, current.Mul(x.Current()))
			}
			denominator.Update(time, current)
		}),
		value.OnReset(func() {
			x.Reset()
			numerator.Reset()
		}),
		weight.OnReset(func() {
			y.Reset()
			numerator.Reset()
			denominator.Reset()
		}),
	}

	name := nameOf(fmt.Sprintf("%s_Weighted_By_%s", value.Name(), weight.Name()), opts)
	c := Over(numerator, denominator, WithName(name))
	c.subs = append(c.subs, subs...)
	return c
}
