package tensor

import (
	"errors"
	"testing"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F64 = numeric.F64

func TestShape(t *testing.T) {
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.NoError(t, Shape{2, 3}.Validate())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.True(t, Shape{2, 3}.Equal(Shape{2, 3}))
	assert.False(t, Shape{2, 3}.Equal(Shape{3, 2}))
	assert.False(t, Shape{2, 3}.Equal(Shape{2, 3, 1}))

	s := Shape{4, 5}
	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 4, s[0])

	assert.NoError(t, s.Expect("op", Shape{4, 5}))
	err := s.Expect("op", Shape{4, 6})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
	assert.Contains(t, err.Error(), "op")
}

// TestTensor_ValueSemantics tests that constructors and Clone copy data.
func TestTensor_ValueSemantics(t *testing.T) {
	src := []F64{1, 2, 3}
	x := FromSlice(src)
	src[0] = 100
	assert.Equal(t, F64(1), x.At(0))

	y := x.Clone()
	y.Set(1, 42)
	assert.Equal(t, F64(2), x.At(1))
	assert.False(t, x.Equal(y))
	assert.True(t, x.Equal(FromFloat64s[F64](1, 2, 3)))
	assert.False(t, x.Equal(FromFloat64s[F64](1, 2)))
}

// TestTensor_AssignmentSharesStorage tests that a plain copy of a tensor
// aliases its elements while Clone does not.
func TestTensor_AssignmentSharesStorage(t *testing.T) {
	a := FromFloat64s[F64](1, 2)
	b := a
	b.Set(0, 7)
	assert.Equal(t, F64(7), a.At(0))

	c := a.Clone()
	c.Set(0, 9)
	assert.Equal(t, F64(7), a.At(0))
}

func TestTensor_Zeros(t *testing.T) {
	z := Zeros[numeric.Fixed](4)
	assert.Equal(t, 4, z.Len())
	assert.Equal(t, Shape{4}, z.Shape())
	for _, v := range z.Data() {
		assert.Equal(t, numeric.Zero[numeric.Fixed](), v)
	}
	assert.Equal(t, "Tensor[fixed][0 0 0 0]", z.String())
}

func TestBatch_FromTensors(t *testing.T) {
	b, err := BatchFromTensors(
		FromFloat64s[F64](1, 2, 3),
		FromFloat64s[F64](4, 5, 6),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, b.Size())
	assert.Equal(t, 3, b.Features())
	assert.Equal(t, Shape{2, 3}, b.Shape())
	assert.Equal(t, F64(6), b.At(1, 2))
	assert.Equal(t, []F64{4, 5, 6}, b.Row(1))
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, b.Float64s())

	// Samples are copies.
	s := b.Sample(0)
	s.Set(0, 99)
	assert.Equal(t, F64(1), b.At(0, 0))
	assert.Len(t, b.Samples(), 2)
}

func TestBatch_FromTensorsErrors(t *testing.T) {
	_, err := BatchFromTensors[F64]()
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = BatchFromTensors(FromFloat64s[F64](1, 2), FromFloat64s[F64](1))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = BatchFromTensors(FromFloat64s[F64]())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBatch_FromSlice(t *testing.T) {
	data := []F64{1, 2, 3, 4}
	b, err := BatchFromSlice(data, 2, 2)
	require.NoError(t, err)
	data[0] = 7
	assert.Equal(t, F64(1), b.At(0, 0))

	_, err = BatchFromSlice(data, 3, 2)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = BatchFromSlice(data, 0, 4)
	assert.Error(t, err)
}

func TestBatch_CloneAndEqual(t *testing.T) {
	b := NewBatch[F64](2, 2)
	b.Set(0, 1, 5)
	c := b.Clone()
	assert.True(t, b.Equal(c))

	c.Set(1, 1, 3)
	assert.False(t, b.Equal(c))
	assert.False(t, b.Equal(NewBatch[F64](1, 4)))
	assert.Equal(t, F64(0), b.At(1, 1))
}

func TestNewBatch_PanicsOnInvalidShape(t *testing.T) {
	assert.Panics(t, func() { NewBatch[F64](0, 3) })
	assert.Panics(t, func() { NewBatch[F64](3, -1) })
}
