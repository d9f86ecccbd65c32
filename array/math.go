package array

import "fmt"

// BinaryFunc combines one left and one right element.
type BinaryFunc func(lhs, rhs float64) float64

// UnaryFunc maps one element.
type UnaryFunc func(v float64) float64

// BinaryFunction combines a with rhs into a new array:
//
//   - two single value arrays produce a scalar;
//   - a single value side is broadcast over every element of a copy of the
//     other side;
//   - equal shapes combine element by element;
//   - equal counts with different widths combine the leading property of
//     each sample and keep the rest of a's properties.
//
// Any other count mismatch panics with ErrIndexOutOfRange. The inputs are
// never modified.
func (a *Array) BinaryFunction(rhs *Array, op BinaryFunc) *Array {
	a.mustLive()
	rhs.mustLive()
	switch {
	case a.isUnit() && rhs.isUnit():
		return Scalar(op(a.data[0], rhs.data[0]))
	case a.isUnit():
		v := a.data[0]
		ret := rhs.Clone()
		for i, x := range ret.data {
			ret.data[i] = op(v, x)
		}
		return ret
	case rhs.isUnit():
		v := rhs.data[0]
		ret := a.Clone()
		for i, x := range ret.data {
			ret.data[i] = op(x, v)
		}
		return ret
	}
	if a.count != rhs.count {
		panic(fmt.Errorf("%w: %d samples against %d", ErrIndexOutOfRange, a.count, rhs.count))
	}
	ret := a.Clone()
	if a.props == rhs.props {
		for i := range ret.data {
			ret.data[i] = op(a.data[i], rhs.data[i])
		}
		return ret
	}
	for i := 0; i < a.count; i++ {
		l, r := i*a.props, i*rhs.props
		ret.data[l] = op(a.data[l], rhs.data[r])
	}
	return ret
}

// BinaryFunctionOn combines property p of both sides. A single sample side
// is broadcast over every sample of the other; all other properties are
// copied from the multi sample side unchanged.
func (a *Array) BinaryFunctionOn(rhs *Array, p int, op BinaryFunc) (*Array, error) {
	for _, side := range []*Array{a, rhs} {
		if err := side.liveErr(); err != nil {
			return nil, err
		}
	}
	switch {
	case a.IsScalar() && rhs.IsScalar():
		l, err := a.Get(0, p)
		if err != nil {
			return nil, err
		}
		r, err := rhs.Get(0, p)
		if err != nil {
			return nil, err
		}
		return Scalar(op(l, r)), nil
	case a.IsScalar():
		l, err := a.Get(0, p)
		if err != nil {
			return nil, err
		}
		if p >= rhs.props {
			return nil, indexError("property", p, rhs.props)
		}
		ret := rhs.Clone()
		for i := p; i < len(ret.data); i += ret.props {
			ret.data[i] = op(l, ret.data[i])
		}
		return ret, nil
	case rhs.IsScalar():
		r, err := rhs.Get(0, p)
		if err != nil {
			return nil, err
		}
		if p >= a.props {
			return nil, indexError("property", p, a.props)
		}
		ret := a.Clone()
		for i := p; i < len(ret.data); i += ret.props {
			ret.data[i] = op(ret.data[i], r)
		}
		return ret, nil
	}
	if a.count != rhs.count {
		return nil, fmt.Errorf("%w: %d samples against %d", ErrIndexOutOfRange, a.count, rhs.count)
	}
	if p < 0 || p >= a.props || p >= rhs.props {
		return nil, indexError("property", p, min(a.props, rhs.props))
	}
	ret := a.Clone()
	for i := 0; i < a.count; i++ {
		l := i*a.props + p
		ret.data[l] = op(a.data[l], rhs.data[i*rhs.props+p])
	}
	return ret, nil
}

// UnaryFunction applies op to every element. With copyFirst a new array is
// returned; otherwise a is modified and returned.
func (a *Array) UnaryFunction(op UnaryFunc, copyFirst bool) *Array {
	a.mustLive()
	t := a
	if copyFirst {
		t = a.Clone()
	}
	for i, v := range t.data {
		t.data[i] = op(v)
	}
	return t
}

// UnaryFunctionOn applies op to property p of every sample.
func (a *Array) UnaryFunctionOn(p int, op UnaryFunc, copyFirst bool) (*Array, error) {
	if err := a.liveErr(); err != nil {
		return nil, err
	}
	if p < 0 || p >= a.props {
		return nil, indexError("property", p, a.props)
	}
	t := a
	if copyFirst {
		t = a.Clone()
	}
	for i := p; i < len(t.data); i += t.props {
		t.data[i] = op(t.data[i])
	}
	return t, nil
}

func add(l, r float64) float64 { return l + r }
func sub(l, r float64) float64 { return l - r }
func mul(l, r float64) float64 { return l * r }
func div(l, r float64) float64 { return l / r }

func (a *Array) Add(rhs *Array) *Array { return a.BinaryFunction(rhs, add) }
func (a *Array) Sub(rhs *Array) *Array { return a.BinaryFunction(rhs, sub) }
func (a *Array) Mul(rhs *Array) *Array { return a.BinaryFunction(rhs, mul) }
func (a *Array) Div(rhs *Array) *Array { return a.BinaryFunction(rhs, div) }

func (a *Array) AddScalar(v float64) *Array { return a.BinaryFunction(Scalar(v), add) }
func (a *Array) SubScalar(v float64) *Array { return a.BinaryFunction(Scalar(v), sub) }
func (a *Array) MulScalar(v float64) *Array { return a.BinaryFunction(Scalar(v), mul) }
func (a *Array) DivScalar(v float64) *Array { return a.BinaryFunction(Scalar(v), div) }

// Neg returns a negated copy.
func (a *Array) Neg() *Array {
	return a.UnaryFunction(func(v float64) float64 { return -v }, true)
}
