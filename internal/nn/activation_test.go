package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

func TestIdentity(t *testing.T) {
	id := nn.NewIdentity[F64]()
	in := batch(t, []float64{-1, 2})

	out := id.Forward(in)
	assert.True(t, out.Equal(in))
	out.Set(0, 0, 7)
	assert.Equal(t, F64(-1), in.At(0, 0))

	g, err := id.Backward(in)
	require.NoError(t, err)
	assert.True(t, g.Equal(in))
}

func TestReLU_Forward(t *testing.T) {
	relu := nn.NewReLU[F64]()
	out := relu.Forward(batch(t, []float64{-2, 0, 3}, []float64{1, -1, -0.5}))
	assert.Equal(t, [][]float64{{0, 0, 3}, {1, 0, 0}}, out.Float64s())
}

// TestReLU_Backward tests that the upstream gradient is gated by the
// mask of the cached forward output.
func TestReLU_Backward(t *testing.T) {
	relu := nn.NewReLU[F64]()

	_, err := relu.Backward(batch(t, []float64{1, 1, 1}))
	assert.ErrorIs(t, err, nn.ErrNoForward)

	out := relu.Forward(batch(t, []float64{-2, 0, 3}))
	assert.Equal(t, []float64{0, 0, 1}, relu.Mask(out).Float64s()[0])

	gx, err := relu.Backward(batch(t, []float64{5, 6, 7}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 7}, gx.Float64s()[0])

	_, err = relu.Backward(batch(t, []float64{1, 1}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestSoftmax_RowsSumToOne(t *testing.T) {
	sm := nn.NewSoftmax[F64]()
	out := sm.Forward(batch(t,
		[]float64{1, 2, 3},
		[]float64{-5, 0, 5},
		[]float64{1e4, -1e4, 1e4},
	))

	for b, row := range out.Float64s() {
		assert.InDelta(t, 1.0, floats.Sum(row), 1e-12, "row %d", b)
		for _, v := range row {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
	assert.InDelta(t, 0.5, out.At(2, 0).Float64(), 1e-12)
	assert.Equal(t, 0.0, out.At(2, 1).Float64())
}

func TestSoftmax_Float32LargeLogits(t *testing.T) {
	sm := nn.NewSoftmax[numeric.F32]()
	in, err := tensor.BatchFromFloat64s[numeric.F32]([]float64{1e4, 1e4 - 1, -1e4})
	require.NoError(t, err)

	row := sm.Forward(in).Float64s()[0]
	assert.InDelta(t, 1.0, floats.Sum(row), 1e-6)
	assert.InDelta(t, 1/(1+math.Exp(-1)), row[0], 1e-6)
}

// TestSoftmax_Backward checks the Jacobian product against a
// finite-difference gradient of Σ g⊙softmax(x).
func TestSoftmax_Backward(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	x := randomBatch(r, 2, 4)
	g := randomBatch(r, 2, 4)

	sm := nn.NewSoftmax[F64]()
	_, err := sm.Backward(g)
	assert.ErrorIs(t, err, nn.ErrNoForward)

	objective := func(v []float64) float64 {
		return dot(g, nn.NewSoftmax[F64]().Forward(withData(t, x, v)))
	}
	want := fd.Gradient(nil, objective, numeric.Float64s(x.Data()), &fd.Settings{Formula: fd.Central})

	sm.Forward(x)
	gx, err := sm.Backward(g)
	require.NoError(t, err)

	got := numeric.Float64s(gx.Data())
	assert.True(t, floats.EqualApprox(want, got, 1e-6), "want %v, got %v", want, got)
}

func TestAsLayer(t *testing.T) {
	layer := nn.AsLayer[F64](nn.NewReLU[F64](), 3)
	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 3, layer.OutFeatures())
	assert.Nil(t, layer.Parameters())

	out, err := layer.Forward(batch(t, []float64{-1, 1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, out.Float64s()[0])

	gx, err := layer.Backward(batch(t, []float64{3, 3, 3}), 0.1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3, 3}, gx.Float64s()[0])

	_, err = layer.Forward(batch(t, []float64{1, 2}))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
