package array

import (
	"slices"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type ohlcv struct {
	Close, High, Low, Open, Volume float64
}

func (ohlcv) Properties() int { return TradeBarProperties }

type badRecord struct {
	A float64
	B int32
}

func (badRecord) Properties() int { return 2 }

func mustSlice(t *testing.T, values []float64, props int) *Array {
	t.Helper()
	a, err := FromSlice(values, true, props)
	require.NoError(t, err)
	return a
}

func TestScalar(t *testing.T) {
	a := Scalar(4.5)
	assert.Equal(t, KindScalar, a.Kind())
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 1, a.Properties())
	assert.True(t, a.IsScalar())
	assert.Equal(t, 4.5, a.Value())
	assert.Equal(t, "4.5", a.String())

	// bar accessors fall back to the value, volume to zero
	assert.Equal(t, 4.5, a.Open())
	assert.Equal(t, 4.5, a.High())
	assert.Equal(t, 4.5, a.Low())
	assert.Equal(t, 4.5, a.Close())
	assert.Equal(t, 0.0, a.Volume())
}

func TestFromSliceShape(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 3)
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, 3, a.Properties())
	assert.Equal(t, a.Count()*a.Properties(), a.LinearLength())

	v, err := a.Get(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = a.Get(2, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = a.Get(0, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = FromSlice([]float64{1, 2, 3}, false, 2)
	assert.ErrorIs(t, err, ErrReshape)
	_, err = FromSlice(nil, false, 1)
	assert.ErrorIs(t, err, ErrReshape)
}

func TestFromSliceAliasing(t *testing.T) {
	src := []float64{1, 2}
	shared, err := FromSlice(src, false, 1)
	require.NoError(t, err)
	owned, err := FromSlice(src, true, 1)
	require.NoError(t, err)

	src[0] = 9
	assert.Equal(t, 9.0, shared.At(0))
	assert.Equal(t, 1.0, owned.At(0))
}

func TestAtPanicsOutOfRange(t *testing.T) {
	a := New(2, 2)
	assert.Panics(t, func() { a.At(4) })
	assert.Panics(t, func() { a.Set(-1, 1) })
}

func TestCloneIsDisjoint(t *testing.T) {
	cases := map[string]*Array{
		"scalar": Scalar(3),
		"vector": mustSlice(t, []float64{1, 2, 3, 4}, 2),
		"struct": FromStruct(ohlcv{Close: 1, High: 2, Low: 0.5, Open: 1.5, Volume: 10}),
		"matrix": FromMatrix(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), true),
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			before := a.Float64s()
			c := a.Clone()
			require.True(t, c.Equal(a))

			for i := range c.LinearLength() {
				c.Set(i, -100)
			}
			assert.Equal(t, before, a.Float64s())

			a.Set(0, 42)
			assert.Equal(t, -100.0, c.At(0))
		})
	}
}

func TestCloneKinds(t *testing.T) {
	assert.Equal(t, KindScalar, Scalar(1).Clone().Kind())
	assert.Equal(t, KindMatrix, FromMatrix(mat.NewDense(1, 2, nil), false).Clone().Kind())
	assert.Equal(t, KindVector, FromStruct(ohlcv{}).Clone().Kind())
}

func TestReshape(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 3)

	b, err := a.Reshape(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Count())
	assert.Equal(t, 2, b.Properties())
	assert.Equal(t, a.Float64s(), b.Float64s())

	b.Set(0, 100)
	assert.Equal(t, 1.0, a.At(0))

	_, err = a.Reshape(4, 2)
	assert.ErrorIs(t, err, ErrReshape)

	one, err := Scalar(7).Reshape(1, 1)
	require.NoError(t, err)
	assert.Equal(t, KindScalar, one.Kind())
}

func TestBinaryFunctionScalars(t *testing.T) {
	got := Scalar(3).Add(Scalar(4))
	assert.True(t, got.IsScalar())
	assert.Equal(t, 7.0, got.Value())
}

func TestBinaryFunctionBroadcast(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 3)
	s := Scalar(10)

	got := a.BinaryFunction(s, func(l, r float64) float64 { return l * r })
	assert.Equal(t, 2, got.Count())
	assert.Equal(t, 3, got.Properties())
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60}, got.Float64s())

	// scalar on the left sees the scalar as lhs for every element
	got = s.Sub(a)
	assert.Equal(t, []float64{9, 8, 7, 6, 5, 4}, got.Float64s())

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, a.Float64s())
}

func TestBinaryFunctionElementwise(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4}, 2)
	b := mustSlice(t, []float64{10, 20, 30, 40}, 2)
	assert.Equal(t, []float64{11, 22, 33, 44}, a.Add(b).Float64s())
	assert.Equal(t, []float64{10, 40, 90, 160}, a.Mul(b).Float64s())
}

func TestBinaryFunctionDifferentWidths(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 3)
	b := mustSlice(t, []float64{10, 20, 30, 40}, 2)

	got := a.Add(b)
	assert.Equal(t, 3, got.Properties())
	assert.Equal(t, []float64{11, 2, 3, 34, 5, 6}, got.Float64s())
}

func TestBinaryFunctionCountMismatchPanics(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4}, 2)
	b := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 2)
	assert.Panics(t, func() { a.Add(b) })

	// a single sample row is not broadcast; only 1x1 operands are
	row := mustSlice(t, []float64{1, 2}, 2)
	assert.PanicsWithError(t, "array: index out of range: 1 samples against 3", func() { row.Add(b) })
	assert.PanicsWithError(t, "array: index out of range: 3 samples against 1", func() { b.Mul(row) })
}

func TestBinaryFunctionOn(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 3)

	got, err := a.BinaryFunctionOn(Scalar(100), 0, func(l, r float64) float64 { return l + r })
	require.NoError(t, err)
	assert.Equal(t, []float64{101, 2, 3, 104, 5, 6}, got.Float64s())

	row := mustSlice(t, []float64{0, 0, 7}, 3)
	got, err = row.BinaryFunctionOn(a, 2, func(l, r float64) float64 { return l - r })
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4, 4, 5, 1}, got.Float64s())

	b := mustSlice(t, []float64{1, 1, 1, 2, 2, 2}, 3)
	got, err = a.BinaryFunctionOn(b, 1, func(l, r float64) float64 { return l * r })
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 10, 6}, got.Float64s())

	_, err = a.BinaryFunctionOn(b, 3, func(l, r float64) float64 { return l })
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = a.BinaryFunctionOn(Scalar(1), 1, func(l, r float64) float64 { return l })
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestUnaryFunction(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3}, 1)
	double := func(v float64) float64 { return v * 2 }

	c := a.UnaryFunction(double, true)
	assert.NotSame(t, a, c)
	assert.Equal(t, []float64{2, 4, 6}, c.Float64s())
	assert.Equal(t, []float64{1, 2, 3}, a.Float64s())

	same := a.UnaryFunction(double, false)
	assert.Same(t, a, same)
	assert.Equal(t, []float64{2, 4, 6}, a.Float64s())

	b := mustSlice(t, []float64{1, 2, 3, 4}, 2)
	got, err := b.UnaryFunctionOn(1, double, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 4, 3, 8}, got.Float64s())
	_, err = b.UnaryFunctionOn(2, double, true)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.Equal(t, []float64{-1, -2, -3, -4}, b.Neg().Float64s())
}

func TestIterationIsRestartable(t *testing.T) {
	a := mustSlice(t, []float64{1, 2, 3, 4, 5, 6}, 2)

	first := slices.Collect(a.Values())
	second := slices.Collect(a.Values())
	assert.Equal(t, first, second)
	assert.Len(t, first, a.LinearLength())

	highs, err := a.PropertyValues(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, slices.Collect(highs))
	assert.Equal(t, []float64{2, 4, 6}, slices.Collect(highs))

	_, err = a.PropertyValues(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	n := 0
	for i, s := range a.Samples() {
		assert.Equal(t, 2, s.Properties())
		assert.Equal(t, a.At(i*2), s.At(0))
		n++
	}
	assert.Equal(t, 3, n)

	n = 0
	for range a.Values() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestAggregates(t *testing.T) {
	a := mustSlice(t, []float64{1, 10, 2, 20, 3, 30}, 2)

	assert.Equal(t, 66.0, a.Sum())
	assert.Equal(t, 22.0, a.Mean())

	s, err := a.SumProperty(1)
	require.NoError(t, err)
	assert.Equal(t, 60.0, s)

	m, err := a.MeanProperty(0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)

	// (3+1)/2 = 2 is used literally as a linear index
	med, err := a.Median()
	require.NoError(t, err)
	assert.Equal(t, 2.0, med)

	med, err = a.MedianProperty(1)
	require.NoError(t, err)
	assert.Equal(t, 30.0, med)

	_, err = Scalar(5).Median()
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = Scalar(5).MedianProperty(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestStructView(t *testing.T) {
	rec := ohlcv{Close: 11, High: 12, Low: 9, Open: 10, Volume: 100}
	a := ViewStruct(&rec)
	assert.Equal(t, KindStruct, a.Kind())
	assert.Equal(t, TradeBarProperties, a.Properties())
	assert.Equal(t, 10.0, a.Open())
	assert.Equal(t, 12.0, a.High())
	assert.Equal(t, 9.0, a.Low())
	assert.Equal(t, 11.0, a.Close())
	assert.Equal(t, 100.0, a.Volume())
	assert.Equal(t, 11.0, a.Value())

	rec.High = 15
	assert.Equal(t, 15.0, a.High())
	a.Set(VolumeIdx, 1)
	assert.Equal(t, 1.0, rec.Volume)

	assert.Equal(t, 12.0, Median(a))
	assert.InDelta(t, 11.25, Average(a), 1e-12)
}

func TestFromStructs(t *testing.T) {
	recs := []ohlcv{{Close: 1}, {Close: 2}, {Close: 3}}
	a, err := FromStructs(recs, false)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Count())

	closes, err := a.PropertyValues(CloseIdx)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, slices.Collect(closes))

	require.NoError(t, a.SetProperty(2, HighIdx, 7))
	assert.Equal(t, 7.0, recs[2].High)

	back, err := AsStruct[ohlcv](a, 2)
	require.NoError(t, err)
	assert.Equal(t, ohlcv{Close: 3, High: 7}, back)

	_, err = FromStructs([]ohlcv{}, true)
	assert.ErrorIs(t, err, ErrReshape)
}

func TestStructLayoutRejected(t *testing.T) {
	assert.Panics(t, func() { FromStruct(badRecord{}) })
}

func TestMatrix(t *testing.T) {
	a, err := From2D([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, KindMatrix, a.Kind())
	assert.Equal(t, 2, a.Count())
	assert.Equal(t, 3, a.Properties())
	assert.Equal(t, 6.0, a.Matrix().At(1, 2))

	_, err = From2D([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrReshape)

	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	shared := FromMatrix(m, false)
	m.Set(0, 0, 9)
	assert.Equal(t, 9.0, shared.At(0))

	// a strided view is compacted
	big := mat.NewDense(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	view := FromMatrix(big.Slice(1, 3, 1, 3).(*mat.Dense), false)
	assert.Equal(t, []float64{5, 6, 8, 9}, view.Float64s())

	v := mustSlice(t, []float64{1, 2, 3, 4}, 2)
	r, c := v.Matrix().Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, "[[1 2] [3 4]]", v.String())
}

func TestExternalReleaseOnce(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	released := 0
	a, err := FromPointer(unsafe.Pointer(&buf[0]), 2, 2, false, func() { released++ })
	require.NoError(t, err)
	assert.Equal(t, KindExternal, a.Kind())
	assert.Equal(t, 3.0, a.At(2))

	c := a.Clone()
	a.Release()
	a.Release()
	c.Release()
	assert.Equal(t, 1, released)
	assert.Equal(t, []float64{1, 2, 3, 4}, c.Float64s())
	assert.Panics(t, func() { a.At(0) })

	z, err := FromPointer(unsafe.Pointer(&buf[0]), 1, 2, true, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, z.Float64s())
	z.Release()

	_, err = FromPointer(nil, 1, 1, false, nil)
	assert.Error(t, err)
}

func TestExternalAfterRelease(t *testing.T) {
	buf := []float64{1, 2, 3, 4, 5, 6}
	calls := 0
	a, err := FromPointer(unsafe.Pointer(&buf[0]), 3, 2, false, func() { calls++ })
	require.NoError(t, err)
	require.False(t, a.Released())

	a.Release()
	a.Release()
	assert.Equal(t, 1, calls)
	assert.True(t, a.Released())
	assert.Equal(t, KindExternal, a.Kind())
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, 2, a.Properties())
	assert.Equal(t, a.Count()*a.Properties(), a.LinearLength())
	assert.Equal(t, "released(3x2)", a.String())

	panicsReleased := func(name string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			require.NotNil(t, r, name)
			err, ok := r.(error)
			require.True(t, ok, name)
			assert.ErrorIs(t, err, ErrReleased, name)
		}()
		fn()
	}
	panicsReleased("At", func() { a.At(0) })
	panicsReleased("Set", func() { a.Set(0, 1) })
	panicsReleased("Value", func() { a.Value() })
	panicsReleased("Open", func() { a.Open() })
	panicsReleased("Volume", func() { a.Volume() })
	panicsReleased("Clone", func() { a.Clone() })
	panicsReleased("Sample", func() { a.Sample(0) })
	panicsReleased("Float64s", func() { a.Float64s() })
	panicsReleased("Sum", func() { a.Sum() })
	panicsReleased("Add", func() { a.Add(Scalar(1)) })
	panicsReleased("Values", func() {
		for range a.Values() {
		}
	})

	_, err = a.Get(0, 0)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = a.Reshape(2, 3)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = a.Median()
	assert.ErrorIs(t, err, ErrReleased)
	_, err = a.PropertyValues(1)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = Scalar(1).BinaryFunctionOn(a, 0, func(l, r float64) float64 { return l + r })
	assert.ErrorIs(t, err, ErrReleased)

	// the caller's memory is untouched
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, buf)
}

func TestSelectorByName(t *testing.T) {
	sel, ok := SelectorByName("typical")
	require.True(t, ok)
	a := FromStruct(ohlcv{Close: 3, High: 6, Low: 0})
	assert.Equal(t, 3.0, sel(a))

	_, ok = SelectorByName("nope")
	assert.False(t, ok)
}
