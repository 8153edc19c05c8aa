// Package numeric defines the scalar capability set every kernel is written against.
//
// A type T satisfies Numeric[T] when it supplies arithmetic over itself, an
// ordering, the transcendental functions needed by softmax and cross-entropy,
// and a handful of distinguished constants. Layer, activation and loss code
// only ever touches scalars through this method set, so the same kernel runs
// unchanged over IEEE floats, half precision, or fixed-point values.
//
// Realizations:
//   - F32, F64: IEEE floating point
//   - Half: IEEE binary16 storage, float32 arithmetic
//   - Fixed: int32-backed fixed point with a scale factor of 1000
package numeric

import (
	"math/rand"
)

// Numeric is the constraint satisfied by every scalar type.
//
// Constants (Zero, One, Tiny, NegInf) and constructors (Random, FromFloat64)
// are methods so they can be reached from the zero value of T:
//
//	var t T
//	one := t.One()
type Numeric[T any] interface {
	comparable

	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T

	// Less reports whether the receiver orders strictly before the argument.
	Less(T) bool

	Exp() T
	Log() T

	Zero() T
	One() T

	// Tiny is the smallest meaningful positive increment of the type.
	Tiny() T

	// NegInf is a safe initial value for max-reductions.
	NegInf() T

	// Random draws a value uniformly from [0, 1).
	Random(r *rand.Rand) T

	Float64() float64
	FromFloat64(float64) T
}

// Zero returns the additive identity of T.
func Zero[T Numeric[T]]() T {
	var t T
	return t.Zero()
}

// One returns the multiplicative identity of T.
func One[T Numeric[T]]() T {
	var t T
	return t.One()
}

// NegInf returns the max-reduction seed of T.
func NegInf[T Numeric[T]]() T {
	var t T
	return t.NegInf()
}

// FromFloat64 converts f to T using T's own rounding rules.
func FromFloat64[T Numeric[T]](f float64) T {
	var t T
	return t.FromFloat64(f)
}

// FromInt converts a count (batch size, kernel area) to T.
func FromInt[T Numeric[T]](n int) T {
	return FromFloat64[T](float64(n))
}

// Random draws one value of T from [0, 1).
func Random[T Numeric[T]](r *rand.Rand) T {
	var t T
	return t.Random(r)
}

// Max returns the larger of a and b.
func Max[T Numeric[T]](a, b T) T {
	if a.Less(b) {
		return b
	}
	return a
}

// Float64s converts a slice of T to float64 values.
func Float64s[T Numeric[T]](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = v.Float64()
	}
	return out
}

// Slice converts float64 values to a slice of T.
func Slice[T Numeric[T]](vals ...float64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = FromFloat64[T](v)
	}
	return out
}

// Name returns a short human-readable name for the scalar type T.
func Name[T Numeric[T]]() string {
	var t T
	switch any(t).(type) {
	case F32:
		return "float32"
	case F64:
		return "float64"
	case Half:
		return "half"
	case Fixed:
		return "fixed"
	default:
		return "unknown"
	}
}
