package data

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

type F64 = numeric.F64

func samples(vals ...float64) []tensor.Tensor[F64] {
	out := make([]tensor.Tensor[F64], len(vals))
	for i, v := range vals {
		out[i] = tensor.FromFloat64s[F64](v)
	}
	return out
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name      string
		inputs    []tensor.Tensor[F64]
		labels    []tensor.Tensor[F64]
		batchSize int
		want      error
	}{
		{"not divisible", samples(0, 1, 2, 3, 4), samples(0, 1, 2, 3, 4), 2, ErrBatchSize},
		{"length mismatch", samples(0, 1, 2, 3), samples(0, 1, 2, 3, 4), 2, ErrLengthMismatch},
		{"empty", nil, nil, 1, ErrEmptyDataset},
		{"zero batch", samples(0, 1), samples(0, 1), 0, ErrBatchSize},
		{"ragged inputs", append(samples(0), tensor.FromFloat64s[F64](1, 2)), samples(0, 1), 1, tensor.ErrShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.inputs, tt.labels, tt.batchSize)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// TestDataset_VisitsEverySample tests that each pass yields every pair
// exactly once and keeps inputs aligned with labels.
func TestDataset_VisitsEverySample(t *testing.T) {
	ds, err := New(samples(0, 1, 2, 3, 4, 5), samples(0, 10, 20, 30, 40, 50), 2, WithSeed(7))
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, 3, ds.Batches())
	assert.Equal(t, 2, ds.BatchSize())
	assert.Equal(t, 1, ds.InFeatures())
	assert.Equal(t, 1, ds.OutFeatures())

	for pass := 0; pass < 3; pass++ {
		var seen []float64
		batches := 0
		for x, y, ok := ds.Next(); ok; x, y, ok = ds.Next() {
			batches++
			require.Equal(t, tensor.Shape{2, 1}, x.Shape())
			for b := 0; b < x.Size(); b++ {
				assert.Equal(t, 10*x.At(b, 0), y.At(b, 0))
				seen = append(seen, x.At(b, 0).Float64())
			}
		}
		assert.Equal(t, 3, batches)
		sort.Float64s(seen)
		if diff := cmp.Diff([]float64{0, 1, 2, 3, 4, 5}, seen); diff != "" {
			t.Errorf("pass %d samples mismatch (-want +got):\n%s", pass, diff)
		}

		_, _, ok := ds.Next()
		assert.False(t, ok)
		ds.Refresh()
	}
}

// TestDataset_ShufflesBeyondFirstBatch tests that the permutation covers
// every sample, not just the first batch.
func TestDataset_ShufflesBeyondFirstBatch(t *testing.T) {
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = float64(i)
	}
	ds, err := New(samples(vals...), samples(vals...), 4, WithSeed(1))
	require.NoError(t, err)

	moved := false
	for b := 0; ; b++ {
		x, _, ok := ds.Next()
		if !ok {
			break
		}
		if b > 0 {
			for i := 0; i < x.Size(); i++ {
				if x.At(i, 0).Float64() != float64(b*4+i) {
					moved = true
				}
			}
		}
	}
	assert.True(t, moved)
}

func TestDataset_WithoutShuffle(t *testing.T) {
	ds, err := New(samples(0, 1, 2, 3), samples(0, 1, 2, 3), 2, WithoutShuffle())
	require.NoError(t, err)

	x, _, ok := ds.Next()
	require.True(t, ok)
	assert.Equal(t, [][]float64{{0}, {1}}, x.Float64s())
	x, _, ok = ds.Next()
	require.True(t, ok)
	assert.Equal(t, [][]float64{{2}, {3}}, x.Float64s())
}

// TestNew_CopiesSamples tests that later mutation of the caller's
// tensors does not leak into the dataset.
func TestNew_CopiesSamples(t *testing.T) {
	in := samples(1, 2)
	ds, err := New(in, samples(1, 2), 2, WithoutShuffle())
	require.NoError(t, err)

	in[0].Set(0, 99)
	x, _, _ := ds.Next()
	assert.Equal(t, F64(1), x.At(0, 0))
}
