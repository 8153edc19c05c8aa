package numeric

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkField exercises the operator set shared by every realization.
func checkField[T Numeric[T]](t *testing.T, delta float64) {
	t.Helper()

	two := FromFloat64[T](2)
	three := FromFloat64[T](3)

	assert.InDelta(t, 5.0, two.Add(three).Float64(), delta)
	assert.InDelta(t, -1.0, two.Sub(three).Float64(), delta)
	assert.InDelta(t, 6.0, two.Mul(three).Float64(), delta)
	assert.InDelta(t, 1.5, three.Div(two).Float64(), delta)
	assert.InDelta(t, -2.0, two.Neg().Float64(), delta)
	assert.True(t, two.Less(three))
	assert.False(t, three.Less(two))
	assert.InDelta(t, math.E, One[T]().Exp().Float64(), 10*delta)
	assert.InDelta(t, 0.0, One[T]().Log().Float64(), delta)
	assert.Equal(t, 0.0, Zero[T]().Float64())
	assert.Equal(t, 1.0, One[T]().Float64())
	assert.True(t, Zero[T]().Less(Zero[T]().Tiny()))
	assert.True(t, NegInf[T]().Less(FromFloat64[T](-30)))
	assert.Equal(t, three, Max(two, three))

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		v := Random[T](r).Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestF32(t *testing.T) {
	checkField[F32](t, 1e-6)
	assert.Equal(t, "float32", Name[F32]())
}

func TestF64(t *testing.T) {
	checkField[F64](t, 1e-12)
	assert.Equal(t, "float64", Name[F64]())
}

func TestHalf(t *testing.T) {
	checkField[Half](t, 2e-3)
	assert.Equal(t, "half", Name[Half]())

	// 2049 is not representable in binary16; it rounds to 2048.
	assert.Equal(t, 2048.0, FromFloat64[Half](2049).Float64())
	assert.Equal(t, "1", One[Half]().String())
}

func TestFixed(t *testing.T) {
	checkField[Fixed](t, 1e-3)
	assert.Equal(t, "fixed", Name[Fixed]())
}

func TestFixed_ScaleInvariant(t *testing.T) {
	a := FromFloat64[Fixed](1.5)
	b := FromFloat64[Fixed](2.25)

	assert.Equal(t, int32(1500), a.Raw())
	assert.Equal(t, int32(3375), a.Mul(b).Raw())
	assert.Equal(t, int32(666), a.Div(b).Raw())
	assert.Equal(t, int32(1), Zero[Fixed]().Tiny().Raw())
	assert.Equal(t, "1.500", a.String())
}

func TestFixed_Saturation(t *testing.T) {
	big := FixedFromRaw(math.MaxInt32)

	assert.Equal(t, big, big.Add(One[Fixed]()))
	assert.Equal(t, big, big.Mul(FromFloat64[Fixed](2)))
	assert.Equal(t, FixedFromRaw(math.MinInt32), big.Neg().Sub(FromFloat64[Fixed](10)))
	assert.Equal(t, big, NegInf[Fixed]().Neg())
	assert.Equal(t, big, FromFloat64[Fixed](1e12))
}

func TestFixed_DivideByZero(t *testing.T) {
	zero := Zero[Fixed]()

	assert.Equal(t, FixedFromRaw(math.MaxInt32), One[Fixed]().Div(zero))
	assert.Equal(t, FixedFromRaw(math.MinInt32), One[Fixed]().Neg().Div(zero))
	assert.Equal(t, zero, zero.Div(zero))
}

func TestFixed_LogDomain(t *testing.T) {
	assert.Equal(t, NegInf[Fixed](), Zero[Fixed]().Log())
	assert.Equal(t, NegInf[Fixed](), FromFloat64[Fixed](-1).Log())
	assert.Equal(t, Zero[Fixed](), NegInf[Fixed]().Exp())
}

func TestConversions(t *testing.T) {
	vals := Slice[F64](1, -2.5, 3)
	assert.Equal(t, []F64{1, -2.5, 3}, vals)
	assert.Equal(t, []float64{1, -2.5, 3}, Float64s(vals))
	assert.Equal(t, F32(4), FromInt[F32](4))
}
