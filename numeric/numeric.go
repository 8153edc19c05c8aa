// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package numeric provides the scalar types alan computes with.
//
// Every kernel is generic over a type satisfying Numeric. Four are
// provided:
//   - F32, F64: IEEE floats
//   - Half: IEEE binary16, computed through float32
//   - Fixed: saturating fixed point with three decimal digits
//
// Example:
//
//	lr := numeric.FromFloat64[numeric.Fixed](0.05)
//	lr.Raw() // 50
package numeric

import (
	"github.com/born-ml/alan/internal/numeric"
)

// Numeric is the operator set a scalar type must provide.
type Numeric[T any] = numeric.Numeric[T]

// Scalar types.
type (
	F32   = numeric.F32
	F64   = numeric.F64
	Half  = numeric.Half
	Fixed = numeric.Fixed
)

// FixedScale is the number of raw units per 1.0 in a Fixed value.
const FixedScale = numeric.FixedScale

// FixedFromRaw returns the Fixed value with the given raw representation.
func FixedFromRaw(raw int32) Fixed {
	return numeric.FixedFromRaw(raw)
}

// Zero returns the additive identity of T.
func Zero[T Numeric[T]]() T {
	return numeric.Zero[T]()
}

// One returns the multiplicative identity of T.
func One[T Numeric[T]]() T {
	return numeric.One[T]()
}

// FromFloat64 converts f to T.
func FromFloat64[T Numeric[T]](f float64) T {
	return numeric.FromFloat64[T](f)
}

// FromInt converts n to T.
func FromInt[T Numeric[T]](n int) T {
	return numeric.FromInt[T](n)
}

// Slice converts vals to a slice of T.
func Slice[T Numeric[T]](vals ...float64) []T {
	return numeric.Slice[T](vals...)
}

// Float64s converts vals to float64.
func Float64s[T Numeric[T]](vals []T) []float64 {
	return numeric.Float64s(vals)
}

// Name returns the short name of T ("float32", "float64", "half", "fixed").
func Name[T Numeric[T]]() string {
	return numeric.Name[T]()
}
