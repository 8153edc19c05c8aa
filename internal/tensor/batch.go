package tensor

import (
	"fmt"
	"strings"

	"github.com/born-ml/alan/internal/numeric"
)

// Batch is a fixed-size group of same-length samples, the unit of work for
// every kernel.
//
// Samples are stored contiguously, row-major: sample b occupies
// data[b*features : (b+1)*features].
type Batch[T numeric.Numeric[T]] struct {
	size     int
	features int
	data     []T
}

// NewBatch creates a zero-filled batch of size samples with features elements each.
// Panics if either dimension is not positive.
func NewBatch[T numeric.Numeric[T]](size, features int) *Batch[T] {
	if err := (Shape{size, features}).Validate(); err != nil {
		panic(fmt.Sprintf("NewBatch: %v", err))
	}
	data := make([]T, size*features)
	fill(data, numeric.Zero[T]())
	return &Batch[T]{size: size, features: features, data: data}
}

// BatchFromSlice creates a batch from row-major data. The slice is copied.
func BatchFromSlice[T numeric.Numeric[T]](data []T, size, features int) (*Batch[T], error) {
	shape := Shape{size, features}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("batch: %w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	b := &Batch[T]{size: size, features: features, data: make([]T, len(data))}
	copy(b.data, data)
	return b, nil
}

// BatchFromTensors stacks samples into a batch. All samples must share a length.
func BatchFromTensors[T numeric.Numeric[T]](samples ...Tensor[T]) (*Batch[T], error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("batch: %w: no samples", ErrShapeMismatch)
	}
	features := samples[0].Len()
	if features == 0 {
		return nil, fmt.Errorf("batch: %w: empty sample", ErrShapeMismatch)
	}
	b := &Batch[T]{size: len(samples), features: features, data: make([]T, 0, len(samples)*features)}
	for i, s := range samples {
		if s.Len() != features {
			return nil, fmt.Errorf("batch: %w: sample %d has %d elements, expected %d",
				ErrShapeMismatch, i, s.Len(), features)
		}
		b.data = append(b.data, s.data...)
	}
	return b, nil
}

// BatchFromFloat64s builds a batch from nested float64 rows, converting to T.
func BatchFromFloat64s[T numeric.Numeric[T]](rows ...[]float64) (*Batch[T], error) {
	samples := make([]Tensor[T], len(rows))
	for i, row := range rows {
		samples[i] = FromFloat64s[T](row...)
	}
	return BatchFromTensors(samples...)
}

// Size returns the number of samples (B).
func (b *Batch[T]) Size() int {
	return b.size
}

// Features returns the number of elements per sample (N).
func (b *Batch[T]) Features() int {
	return b.features
}

// Shape returns Shape{Size(), Features()}.
func (b *Batch[T]) Shape() Shape {
	return Shape{b.size, b.features}
}

// At returns element i of sample s.
func (b *Batch[T]) At(s, i int) T {
	return b.data[s*b.features+i]
}

// Set sets element i of sample s.
func (b *Batch[T]) Set(s, i int, v T) {
	b.data[s*b.features+i] = v
}

// Row returns a view of sample s.
//
// WARNING: Modifications to the returned slice will modify the batch.
func (b *Batch[T]) Row(s int) []T {
	return b.data[s*b.features : (s+1)*b.features]
}

// Sample returns a copy of sample s.
func (b *Batch[T]) Sample(s int) Tensor[T] {
	return FromSlice(b.Row(s))
}

// Samples returns copies of every sample.
func (b *Batch[T]) Samples() []Tensor[T] {
	out := make([]Tensor[T], b.size)
	for s := range out {
		out[s] = b.Sample(s)
	}
	return out
}

// Data returns the underlying row-major slice.
//
// WARNING: Modifications to the returned slice will modify the batch.
func (b *Batch[T]) Data() []T {
	return b.data
}

// Clone creates a deep copy of the batch.
func (b *Batch[T]) Clone() *Batch[T] {
	c := &Batch[T]{size: b.size, features: b.features, data: make([]T, len(b.data))}
	copy(c.data, b.data)
	return c
}

// Equal reports whether both batches have the same shape and values.
func (b *Batch[T]) Equal(other *Batch[T]) bool {
	if !b.Shape().Equal(other.Shape()) {
		return false
	}
	for i := range b.data {
		if b.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Float64s returns the batch as float64 rows.
func (b *Batch[T]) Float64s() [][]float64 {
	rows := make([][]float64, b.size)
	for s := range rows {
		rows[s] = numeric.Float64s(b.Row(s))
	}
	return rows
}

// String returns a human-readable representation of the batch.
func (b *Batch[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch[%s]%v", numeric.Name[T](), b.Shape())
	for _, row := range b.Float64s() {
		fmt.Fprintf(&sb, "\n  %v", row)
	}
	return sb.String()
}
