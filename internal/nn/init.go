package nn

import (
	"math/rand"

	"github.com/born-ml/alan/internal/numeric"
)

// Uniform returns n values drawn independently from [0, 1) with T's own
// Random, the initialization used by every trainable layer.
func Uniform[T numeric.Numeric[T]](r *rand.Rand, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = numeric.Random[T](r)
	}
	return out
}

// Constant returns n copies of v.
func Constant[T numeric.Numeric[T]](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
