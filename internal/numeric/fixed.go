package numeric

import (
	"math"
	"math/rand"
	"strconv"
)

// FixedScale is the number of raw units per 1.0 in a Fixed value.
const FixedScale = 1000

// Fixed is a fixed-point scalar stored as an int32 count of 1/FixedScale units.
//
// Every operation saturates at the int32 range instead of wrapping. Multiply
// rescales the 64-bit product by FixedScale and divide pre-multiplies the
// dividend by FixedScale, so the scale invariant survives both operations.
// Division by zero saturates toward the sign of the dividend; 0/0 is 0.
type Fixed int32

// FixedFromRaw wraps raw units without rescaling.
func FixedFromRaw(raw int32) Fixed {
	return Fixed(raw)
}

// Raw returns the underlying integer representation.
func (a Fixed) Raw() int32 {
	return int32(a)
}

func saturate(v int64) Fixed {
	switch {
	case v > math.MaxInt32:
		return Fixed(math.MaxInt32)
	case v < math.MinInt32:
		return Fixed(math.MinInt32)
	default:
		return Fixed(v)
	}
}

func (a Fixed) Add(b Fixed) Fixed { return saturate(int64(a) + int64(b)) }
func (a Fixed) Sub(b Fixed) Fixed { return saturate(int64(a) - int64(b)) }
func (a Fixed) Neg() Fixed { return saturate(-int64(a)) }
func (a Fixed) Less(b Fixed) bool { return a < b }

func (a Fixed) Mul(b Fixed) Fixed {
	return saturate(int64(a) * int64(b) / FixedScale)
}

func (a Fixed) Div(b Fixed) Fixed {
	if b == 0 {
		switch {
		case a > 0:
			return Fixed(math.MaxInt32)
		case a < 0:
			return Fixed(math.MinInt32)
		default:
			return 0
		}
	}
	return saturate(int64(a) * FixedScale / int64(b))
}

func (a Fixed) Exp() Fixed {
	return Fixed(0).FromFloat64(math.Exp(a.Float64()))
}

// Log of a non-positive value is NegInf.
func (a Fixed) Log() Fixed {
	if a <= 0 {
		return a.NegInf()
	}
	return Fixed(0).FromFloat64(math.Log(a.Float64()))
}

func (Fixed) Zero() Fixed { return 0 }
func (Fixed) One() Fixed { return FixedScale }
func (Fixed) Tiny() Fixed { return 1 }
func (Fixed) NegInf() Fixed { return Fixed(math.MinInt32) }

// Random draws a raw value from [0, FixedScale).
func (Fixed) Random(r *rand.Rand) Fixed {
	return Fixed(r.Int31n(FixedScale))
}

func (a Fixed) Float64() float64 {
	return float64(a) / FixedScale
}

// FromFloat64 rounds f to the nearest raw unit, saturating out-of-range values.
func (Fixed) FromFloat64(f float64) Fixed {
	if math.IsNaN(f) {
		return 0
	}
	v := math.Round(f * FixedScale)
	if v >= math.MaxInt32 {
		return Fixed(math.MaxInt32)
	}
	if v <= math.MinInt32 {
		return Fixed(math.MinInt32)
	}
	return Fixed(int32(v))
}

// String formats the value with its three decimal places.
func (a Fixed) String() string {
	return strconv.FormatFloat(a.Float64(), 'f', 3, 64)
}
