package array

import (
	"fmt"
	"reflect"
	"slices"
	"unsafe"

	"gonum.org/v1/gonum/mat"
)

// Scalar returns a single value array.
func Scalar(v float64) *Array {
	a := &Array{kind: KindScalar, count: 1, props: 1}
	a.inline[0] = v
	a.data = a.inline[:]
	return a
}

// Zero is Scalar(0).
func Zero() *Array { return Scalar(0) }

func vector(data []float64, count, props int) *Array {
	return &Array{kind: KindVector, count: count, props: props, data: data}
}

// New returns a zero filled vector of count samples with props properties.
// It panics when either dimension is below one.
func New(count, props int) *Array {
	if count < 1 || props < 1 {
		panic(fmt.Errorf("%w: %dx%d", ErrReshape, count, props))
	}
	return vector(make([]float64, count*props), count, props)
}

// FromSlice wraps values as a vector with props values per sample. With
// copy unset the array aliases values.
func FromSlice(values []float64, copy bool, props int) (*Array, error) {
	if props < 1 || len(values) == 0 || len(values)%props != 0 {
		return nil, fmt.Errorf("%w: %d values with %d properties", ErrReshape, len(values), props)
	}
	if copy {
		values = slices.Clone(values)
	}
	return vector(values, len(values)/props, props), nil
}

// From2D builds a matrix backed array from rows of equal width.
func From2D(rows [][]float64) (*Array, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrReshape)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrReshape, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return fromDense(mat.NewDense(len(rows), cols, data)), nil
}

// FromMatrix wraps m. Without copy the array shares m's memory, unless m is
// a strided view, which is always copied into a compact matrix.
func FromMatrix(m *mat.Dense, copy bool) *Array {
	raw := m.RawMatrix()
	if copy || raw.Stride != raw.Cols {
		m = mat.DenseCopyOf(m)
	}
	return fromDense(m)
}

func fromDense(m *mat.Dense) *Array {
	raw := m.RawMatrix()
	return &Array{
		kind:  KindMatrix,
		count: raw.Rows,
		props: raw.Cols,
		data:  raw.Data[:raw.Rows*raw.Cols],
		dense: m,
	}
}

// DataStruct is a struct made only of float64 fields, in property order,
// that reports how many fields it has.
type DataStruct interface {
	Properties() int
}

func layout[T DataStruct]() int {
	var zero T
	props := zero.Properties()
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct || props < 1 || t.NumField() != props ||
		unsafe.Sizeof(zero) != uintptr(props)*unsafe.Sizeof(float64(0)) {
		panic(fmt.Errorf("%w: %s reports %d properties", ErrLayout, t, props))
	}
	for i := range t.NumField() {
		if f := t.Field(i); f.Type.Kind() != reflect.Float64 {
			panic(fmt.Errorf("%w: %s.%s is %s", ErrLayout, t, f.Name, f.Type))
		}
	}
	return props
}

// ViewStruct returns a single sample array reading and writing through
// rec. It panics with ErrLayout when T is not a plain float64 record.
func ViewStruct[T DataStruct](rec *T) *Array {
	props := layout[T]()
	return &Array{
		kind:  KindStruct,
		count: 1,
		props: props,
		data:  unsafe.Slice((*float64)(unsafe.Pointer(rec)), props),
		owner: rec,
	}
}

// FromStruct copies v into a new struct backed array.
func FromStruct[T DataStruct](v T) *Array {
	rec := new(T)
	*rec = v
	return ViewStruct(rec)
}

// FromStructs views records as Count samples. Without copy writes through
// the array are visible in records.
func FromStructs[T DataStruct](records []T, copy bool) (*Array, error) {
	props := layout[T]()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrReshape)
	}
	if copy {
		records = slices.Clone(records)
	}
	return &Array{
		kind:  KindStruct,
		count: len(records),
		props: props,
		data:  unsafe.Slice((*float64)(unsafe.Pointer(&records[0])), len(records)*props),
		owner: records,
	}, nil
}

// AsStruct copies sample i into a T.
func AsStruct[T DataStruct](a *Array, i int) (T, error) {
	var rec T
	if err := a.liveErr(); err != nil {
		return rec, err
	}
	props := layout[T]()
	if a.props != props {
		return rec, fmt.Errorf("%w: %d properties, %T has %d", ErrLayout, a.props, rec, props)
	}
	if uint(i) >= uint(a.count) {
		return rec, indexError("sample", i, a.count)
	}
	copy(unsafe.Slice((*float64)(unsafe.Pointer(&rec)), props), a.data[i*props:])
	return rec, nil
}

// FromPointer views count*props float64 values starting at ptr. The memory
// is owned by the caller; release, when non nil, is invoked exactly once by
// Release. With zero set the memory is cleared first.
func FromPointer(ptr unsafe.Pointer, count, props int, zero bool, release func()) (*Array, error) {
	if ptr == nil {
		return nil, fmt.Errorf("%w: nil pointer", ErrIndexOutOfRange)
	}
	if count < 1 || props < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrReshape, count, props)
	}
	data := unsafe.Slice((*float64)(ptr), count*props)
	if zero {
		clear(data)
	}
	return &Array{
		kind:  KindExternal,
		count: count,
		props: props,
		data:  data,
		ext:   &external{release: release},
	}, nil
}

// Release hands external memory back to its owner. The array keeps its
// shape but every later read or write of its values panics with
// ErrReleased. It is a no-op for owned variants and on repeated calls.
func (a *Array) Release() {
	if a.ext == nil || a.ext.released {
		return
	}
	a.ext.released = true
	a.data = nil
	if a.ext.release != nil {
		a.ext.release()
	}
}

// Released reports whether Release has handed the memory back.
func (a *Array) Released() bool { return a.ext != nil && a.ext.released }

func (a *Array) liveErr() error {
	if a.Released() {
		return fmt.Errorf("%w: %dx%d %s array", ErrReleased, a.count, a.props, a.kind)
	}
	return nil
}

func (a *Array) mustLive() {
	if err := a.liveErr(); err != nil {
		panic(err)
	}
}
