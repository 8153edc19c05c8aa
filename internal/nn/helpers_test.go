package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/parallel"
	"github.com/born-ml/alan/internal/tensor"
)

type F64 = numeric.F64

// batch builds a float64 batch from literal rows.
func batch(t *testing.T, rows ...[]float64) *tensor.Batch[F64] {
	t.Helper()
	b, err := tensor.BatchFromFloat64s[F64](rows...)
	require.NoError(t, err)
	return b
}

// randomBatch fills a size×features batch with values in [-1, 1).
func randomBatch(r *rand.Rand, size, features int) *tensor.Batch[F64] {
	b := tensor.NewBatch[F64](size, features)
	data := b.Data()
	for i := range data {
		data[i] = F64(2*r.Float64() - 1)
	}
	return b
}

// dot returns Σ a⊙b over two equally shaped batches.
func dot(a, b *tensor.Batch[F64]) float64 {
	var acc float64
	bd := b.Data()
	for i, v := range a.Data() {
		acc += float64(v * bd[i])
	}
	return acc
}

// withData returns a copy of b whose data is replaced by x.
func withData(t *testing.T, b *tensor.Batch[F64], x []float64) *tensor.Batch[F64] {
	t.Helper()
	out, err := tensor.BatchFromSlice(numeric.Slice[F64](x...), b.Size(), b.Features())
	require.NoError(t, err)
	return out
}

// seq runs layers on the calling goroutine so results are deterministic
// regardless of GOMAXPROCS.
func seq() nn.Option {
	return nn.WithParallel(parallel.Sequential())
}
