// Package array implements the numeric container every streaming node
// consumes and produces. An Array is a row-major block of float64 values
// shaped as Count samples by Properties values per sample.
//
// Five backings share one API: a single inline scalar, an owned vector, a
// gonum matrix, a zero-copy view over records of a plain float64 struct and
// externally owned memory released through a callback on Close.
package array

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kind identifies the storage backing an Array.
type Kind uint8

const (
	KindScalar Kind = iota
	KindVector
	KindMatrix
	KindStruct
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindStruct:
		return "struct"
	case KindExternal:
		return "external"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Property offsets of bar shaped samples. A Bar carries the first four, a
// TradeBar all five.
const (
	CloseIdx  = 0
	HighIdx   = 1
	LowIdx    = 2
	OpenIdx   = 3
	VolumeIdx = 4

	BarProperties      = 4
	TradeBarProperties = 5
)

// Array is a Count x Properties block of float64 values. The zero value is
// not usable; build arrays with Scalar, New, FromSlice and friends.
type Array struct {
	kind  Kind
	count int
	props int
	data  []float64

	inline [1]float64
	dense  *mat.Dense
	owner  any
	ext    *external
}

type external struct {
	release  func()
	released bool
}

// Kind reports the backing variant.
func (a *Array) Kind() Kind { return a.kind }

// Count is the number of samples.
func (a *Array) Count() int { return a.count }

// Properties is the number of values per sample.
func (a *Array) Properties() int { return a.props }

// LinearLength is Count * Properties.
func (a *Array) LinearLength() int { return a.count * a.props }

// IsScalar reports whether the array holds a single sample.
func (a *Array) IsScalar() bool { return a.count == 1 }

func (a *Array) isUnit() bool { return a.count == 1 && a.props == 1 }

// At returns the element at linear index i. It panics with
// ErrIndexOutOfRange when i is outside the data.
func (a *Array) At(i int) float64 {
	a.mustLive()
	if uint(i) >= uint(len(a.data)) {
		panic(indexError("element", i, len(a.data)))
	}
	return a.data[i]
}

// Set stores v at linear index i.
func (a *Array) Set(i int, v float64) {
	a.mustLive()
	if uint(i) >= uint(len(a.data)) {
		panic(indexError("element", i, len(a.data)))
	}
	a.data[i] = v
}

// Get returns property p of sample i.
func (a *Array) Get(i, p int) (float64, error) {
	off, err := a.offset(i, p)
	if err != nil {
		return 0, err
	}
	return a.data[off], nil
}

// SetProperty stores v as property p of sample i.
func (a *Array) SetProperty(i, p int, v float64) error {
	off, err := a.offset(i, p)
	if err != nil {
		return err
	}
	a.data[off] = v
	return nil
}

func (a *Array) offset(i, p int) (int, error) {
	if err := a.liveErr(); err != nil {
		return 0, err
	}
	if uint(i) >= uint(a.count) {
		return 0, indexError("sample", i, a.count)
	}
	if uint(p) >= uint(a.props) {
		return 0, indexError("property", p, a.props)
	}
	return i*a.props + p, nil
}

// Value is the first element. For bar shaped data that is the close.
func (a *Array) Value() float64 { return a.At(0) }

func (a *Array) barField(idx int) float64 {
	a.mustLive()
	if a.props < BarProperties {
		return a.Value()
	}
	return a.data[idx]
}

func (a *Array) Close() float64 { return a.barField(CloseIdx) }
func (a *Array) High() float64  { return a.barField(HighIdx) }
func (a *Array) Low() float64   { return a.barField(LowIdx) }
func (a *Array) Open() float64  { return a.barField(OpenIdx) }

// Volume of the first sample, or zero when the data carries no volume.
func (a *Array) Volume() float64 {
	a.mustLive()
	if a.props < TradeBarProperties {
		return 0
	}
	return a.data[VolumeIdx]
}

// Float64s returns a copy of the linear data.
func (a *Array) Float64s() []float64 {
	a.mustLive()
	return slices.Clone(a.data)
}

// Matrix returns the data as a Count x Properties gonum matrix. Matrix
// backed arrays return their own matrix; every other variant returns a
// matrix sharing the array's memory.
func (a *Array) Matrix() *mat.Dense {
	a.mustLive()
	if a.kind == KindMatrix {
		return a.dense
	}
	return mat.NewDense(a.count, a.props, a.data)
}

// Sample returns an owned copy of sample i.
func (a *Array) Sample(i int) *Array {
	a.mustLive()
	if uint(i) >= uint(a.count) {
		panic(indexError("sample", i, a.count))
	}
	row := a.data[i*a.props : (i+1)*a.props]
	if a.props == 1 {
		return Scalar(row[0])
	}
	return vector(slices.Clone(row), 1, a.props)
}

// Clone returns an owned deep copy. Scalars stay scalars, matrices stay
// matrices and every other variant becomes an owned vector. A clone never
// inherits a release callback.
func (a *Array) Clone() *Array {
	a.mustLive()
	switch a.kind {
	case KindScalar:
		return Scalar(a.data[0])
	case KindMatrix:
		return fromDense(mat.DenseCopyOf(a.dense))
	}
	return vector(slices.Clone(a.data), a.count, a.props)
}

// Reshape returns an owned copy with a new shape holding the same values.
func (a *Array) Reshape(count, props int) (*Array, error) {
	if err := a.liveErr(); err != nil {
		return nil, err
	}
	if count < 1 || props < 1 || count*props != len(a.data) {
		return nil, fmt.Errorf("%w: %dx%d into %dx%d", ErrReshape, a.count, a.props, count, props)
	}
	data := slices.Clone(a.data)
	switch {
	case a.kind == KindMatrix:
		return fromDense(mat.NewDense(count, props, data)), nil
	case count == 1 && props == 1:
		return Scalar(data[0]), nil
	}
	return vector(data, count, props), nil
}

// Equal reports whether both arrays have the same shape and values.
func (a *Array) Equal(b *Array) bool {
	a.mustLive()
	b.mustLive()
	return a.count == b.count && a.props == b.props && slices.Equal(a.data, b.data)
}

func (a *Array) String() string {
	if a.Released() {
		return fmt.Sprintf("released(%dx%d)", a.count, a.props)
	}
	if a.isUnit() {
		return strconv.FormatFloat(a.data[0], 'g', -1, 64)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < a.count; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('[')
		for p := 0; p < a.props; p++ {
			if p > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.FormatFloat(a.data[i*a.props+p], 'g', -1, 64))
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
