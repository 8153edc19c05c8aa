package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

func sobel(t *testing.T, opts ...nn.Option) *nn.Convolution[F64] {
	t.Helper()
	conv, err := nn.NewConvolution[F64](5, 5, 3, append([]nn.Option{nn.WithSeed(1), seq()}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, conv.SetKernel(numeric.Slice[F64](
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	)))
	require.NoError(t, conv.SetBias(make([]F64, 9)))
	return conv
}

func stripe() []float64 {
	return []float64{
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 1, 0, 0,
	}
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestConvolution_Creation(t *testing.T) {
	conv, err := nn.NewConvolution[F64](28, 20, 5)
	require.NoError(t, err)

	assert.Equal(t, 28*20, conv.InFeatures())
	assert.Equal(t, 24*16, conv.OutFeatures())
	w, h := conv.OutputSize()
	assert.Equal(t, 24, w)
	assert.Equal(t, 16, h)
	assert.Equal(t, tensor.Shape{5, 5}, conv.Kernel().Shape())
	assert.Len(t, conv.Parameters(), 2)

	_, err = nn.NewConvolution[F64](4, 8, 5)
	assert.ErrorIs(t, err, nn.ErrInvalidLayer)
	_, err = nn.NewConvolution[F64](8, 4, 5)
	assert.ErrorIs(t, err, nn.ErrInvalidLayer)
	_, err = nn.NewConvolution[F64](8, 8, 0)
	assert.ErrorIs(t, err, nn.ErrInvalidLayer)
}

// TestConvolution_Sobel tests forward, input gradient and update on a
// vertical edge detector.
func TestConvolution_Sobel(t *testing.T) {
	conv := sobel(t)

	out, err := conv.Forward(batch(t, stripe()))
	require.NoError(t, err)
	assert.Equal(t, []float64{
		4, 0, -4,
		4, 0, -4,
		4, 0, -4,
	}, out.Float64s()[0])

	gx, err := conv.Backward(batch(t, ones(9)), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{
		-1, -1, 0, 1, 1,
		-3, -3, 0, 3, 3,
		-4, -4, 0, 4, 4,
		-3, -3, 0, 3, 3,
		-1, -1, 0, 1, 1,
	}, gx.Float64s()[0])

	assert.Equal(t, numeric.Slice[F64](
		-4, -3, -2,
		-5, -3, -1,
		-4, -3, -2,
	), conv.Kernel().Values())
	assert.Equal(t, numeric.Slice[F64](-9, -9, -9, -9, -9, -9, -9, -9, -9), conv.Bias().Values())
}

func TestConvolution_BiasTerm(t *testing.T) {
	conv := sobel(t)
	require.NoError(t, conv.SetBias(numeric.Slice[F64](0, 0, 0, 0, 9, 0, 0, 0, 0)))

	// Every output cell receives Σ bias / K² = 1.
	out, err := conv.Forward(batch(t, stripe()))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1, -3, 5, 1, -3, 5, 1, -3}, out.Float64s()[0])
}

// TestConvolution_BatchUpdate tests that the update sums over the batch
// unless WithBatchMean is set.
func TestConvolution_BatchUpdate(t *testing.T) {
	two := batch(t, stripe(), stripe())
	grads := batch(t, ones(9), ones(9))

	summed := sobel(t)
	_, err := summed.Forward(two)
	require.NoError(t, err)
	_, err = summed.Backward(grads, 1)
	require.NoError(t, err)
	assert.Equal(t, numeric.Slice[F64](
		-7, -6, -5,
		-8, -6, -4,
		-7, -6, -5,
	), summed.Kernel().Values())
	assert.Equal(t, F64(-18), summed.Bias().At(0))

	mean := sobel(t, nn.WithBatchMean())
	_, err = mean.Forward(two)
	require.NoError(t, err)
	_, err = mean.Backward(grads, 1)
	require.NoError(t, err)
	assert.Equal(t, numeric.Slice[F64](
		-4, -3, -2,
		-5, -3, -1,
		-4, -3, -2,
	), mean.Kernel().Values())
	assert.Equal(t, F64(-9), mean.Bias().At(0))
}

// TestConvolution_Adjoint checks Σ g⊙Forward(x) = Σ Backward(g)⊙x with
// the bias disabled.
func TestConvolution_Adjoint(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	conv, err := nn.NewConvolution[F64](7, 6, 3, nn.WithRand(r), nn.WithoutBias())
	require.NoError(t, err)

	x := randomBatch(r, 3, conv.InFeatures())
	g := randomBatch(r, 3, conv.OutFeatures())

	out, err := conv.Forward(x)
	require.NoError(t, err)
	gx, err := conv.Backward(g, 0)
	require.NoError(t, err)

	assert.InDelta(t, dot(g, out), dot(gx, x), 1e-9)
}

func TestConvolution_Errors(t *testing.T) {
	conv, err := nn.NewConvolution[F64](5, 5, 3, nn.WithoutBias())
	require.NoError(t, err)
	assert.ErrorIs(t, conv.SetBias(make([]F64, 9)), nn.ErrInvalidLayer)
	assert.ErrorIs(t, conv.SetKernel(make([]F64, 4)), tensor.ErrShapeMismatch)

	_, err = conv.Backward(batch(t, ones(9)), 1)
	assert.ErrorIs(t, err, nn.ErrNoForward)

	_, err = conv.Forward(batch(t, ones(24)))
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
