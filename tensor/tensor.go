// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the sample and batch containers of alan.
//
// A Tensor is one flattened sample; a Batch is B samples of equal length
// stored row-major. Both copy their input on construction.
//
// Example:
//
//	x, err := tensor.BatchFromFloat64s[numeric.F64](
//	    []float64{0, 1},
//	    []float64{2, 3},
//	)
//	x.At(1, 0) // 2
package tensor

import (
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// ErrShapeMismatch is returned when two shapes that must agree do not.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// Shape represents the dimensions of a batch or sample.
type Shape = tensor.Shape

// Tensor is one flattened sample.
type Tensor[T numeric.Numeric[T]] = tensor.Tensor[T]

// Batch is a group of same-length samples.
type Batch[T numeric.Numeric[T]] = tensor.Batch[T]

// Zeros creates a tensor of n zeros.
func Zeros[T numeric.Numeric[T]](n int) Tensor[T] {
	return tensor.Zeros[T](n)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T numeric.Numeric[T]](data []T) Tensor[T] {
	return tensor.FromSlice(data)
}

// FromFloat64s creates a tensor by converting each value to T.
func FromFloat64s[T numeric.Numeric[T]](vals ...float64) Tensor[T] {
	return tensor.FromFloat64s[T](vals...)
}

// NewBatch creates a zero-filled batch. Panics if either dimension is not positive.
func NewBatch[T numeric.Numeric[T]](size, features int) *Batch[T] {
	return tensor.NewBatch[T](size, features)
}

// BatchFromSlice creates a batch from row-major data.
func BatchFromSlice[T numeric.Numeric[T]](data []T, size, features int) (*Batch[T], error) {
	return tensor.BatchFromSlice(data, size, features)
}

// BatchFromTensors stacks samples into a batch.
func BatchFromTensors[T numeric.Numeric[T]](samples ...Tensor[T]) (*Batch[T], error) {
	return tensor.BatchFromTensors(samples...)
}

// BatchFromFloat64s builds a batch from float64 rows.
func BatchFromFloat64s[T numeric.Numeric[T]](rows ...[]float64) (*Batch[T], error) {
	return tensor.BatchFromFloat64s[T](rows...)
}
