// Package tensor provides the fixed-size sample and batch containers used by every kernel.
package tensor

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
)

// Tensor is one flattened sample: a fixed-length ordered sequence of scalars.
//
// Constructors copy their input, so a new tensor never aliases caller
// memory. A Tensor value is a handle onto its storage: after b := a both
// share elements, and b.Set is visible through a. Use Clone for an
// independent copy.
//
// Example:
//
//	x := tensor.FromFloat64s[numeric.F64](1, 2, 3)
//	x.At(1) // 2
type Tensor[T numeric.Numeric[T]] struct {
	data []T
}

// Zeros creates a tensor of n zeros.
func Zeros[T numeric.Numeric[T]](n int) Tensor[T] {
	data := make([]T, n)
	fill(data, numeric.Zero[T]())
	return Tensor[T]{data: data}
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T numeric.Numeric[T]](data []T) Tensor[T] {
	t := Tensor[T]{data: make([]T, len(data))}
	copy(t.data, data)
	return t
}

// FromFloat64s creates a tensor by converting each value to T.
func FromFloat64s[T numeric.Numeric[T]](vals ...float64) Tensor[T] {
	return Tensor[T]{data: numeric.Slice[T](vals...)}
}

// Len returns the number of elements.
func (t Tensor[T]) Len() int {
	return len(t.data)
}

// Shape returns Shape{Len()}.
func (t Tensor[T]) Shape() Shape {
	return Shape{len(t.data)}
}

// At returns the element at index i.
func (t Tensor[T]) At(i int) T {
	return t.data[i]
}

// Set sets the element at index i. Copies made by assignment see the
// change; Clone first to avoid that.
func (t Tensor[T]) Set(i int, v T) {
	t.data[i] = v
}

// Data returns the underlying slice.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t Tensor[T]) Data() []T {
	return t.data
}

// Clone creates a deep copy of the tensor.
func (t Tensor[T]) Clone() Tensor[T] {
	return FromSlice(t.data)
}

// Equal reports whether both tensors hold the same values.
func (t Tensor[T]) Equal(other Tensor[T]) bool {
	if len(t.data) != len(other.data) {
		return false
	}
	for i := range t.data {
		if t.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Float64s returns the elements converted to float64.
func (t Tensor[T]) Float64s() []float64 {
	return numeric.Float64s(t.data)
}

// String returns a human-readable representation of the tensor.
func (t Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v", numeric.Name[T](), t.Float64s())
}

func fill[T any](data []T, v T) {
	for i := range data {
		data[i] = v
	}
}
