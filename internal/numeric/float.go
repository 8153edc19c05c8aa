package numeric

import (
	"math"
	"math/rand"
)

// F32 is an IEEE single-precision scalar.
type F32 float32

func (a F32) Add(b F32) F32 { return a + b }
func (a F32) Sub(b F32) F32 { return a - b }
func (a F32) Mul(b F32) F32 { return a * b }
func (a F32) Div(b F32) F32 { return a / b }
func (a F32) Neg() F32 { return -a }
func (a F32) Less(b F32) bool { return a < b }
func (a F32) Exp() F32 { return F32(math.Exp(float64(a))) }
func (a F32) Log() F32 { return F32(math.Log(float64(a))) }
func (F32) Zero() F32 { return 0 }
func (F32) One() F32 { return 1 }
func (F32) Tiny() F32 { return 1e-4 }
func (F32) NegInf() F32 { return F32(math.Inf(-1)) }
func (a F32) Float64() float64 { return float64(a) }
func (F32) FromFloat64(f float64) F32 { return F32(f) }

// Random draws from [0, 1).
func (F32) Random(r *rand.Rand) F32 {
	return F32(r.Float32())
}

// F64 is an IEEE double-precision scalar.
type F64 float64

func (a F64) Add(b F64) F64 { return a + b }
func (a F64) Sub(b F64) F64 { return a - b }
func (a F64) Mul(b F64) F64 { return a * b }
func (a F64) Div(b F64) F64 { return a / b }
func (a F64) Neg() F64 { return -a }
func (a F64) Less(b F64) bool { return a < b }
func (a F64) Exp() F64 { return F64(math.Exp(float64(a))) }
func (a F64) Log() F64 { return F64(math.Log(float64(a))) }
func (F64) Zero() F64 { return 0 }
func (F64) One() F64 { return 1 }
func (F64) Tiny() F64 { return 1e-4 }
func (F64) NegInf() F64 { return F64(math.Inf(-1)) }
func (a F64) Float64() float64 { return float64(a) }
func (F64) FromFloat64(f float64) F64 { return F64(f) }

// Random draws from [0, 1).
func (F64) Random(r *rand.Rand) F64 {
	return F64(r.Float64())
}
