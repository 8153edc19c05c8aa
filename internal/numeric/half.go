package numeric

import (
	"math"
	"math/rand"

	"github.com/x448/float16"
)

// Half is an IEEE binary16 scalar. Operations are carried out in float32 and
// rounded back to half precision after every step.
type Half float16.Float16

func halfOf(f float32) Half {
	return Half(float16.Fromfloat32(f))
}

func (a Half) f32() float32 {
	return float16.Float16(a).Float32()
}

func (a Half) Add(b Half) Half { return halfOf(a.f32() + b.f32()) }
func (a Half) Sub(b Half) Half { return halfOf(a.f32() - b.f32()) }
func (a Half) Mul(b Half) Half { return halfOf(a.f32() * b.f32()) }
func (a Half) Div(b Half) Half { return halfOf(a.f32() / b.f32()) }
func (a Half) Neg() Half { return halfOf(-a.f32()) }
func (a Half) Less(b Half) bool { return a.f32() < b.f32() }
func (a Half) Exp() Half { return halfOf(float32(math.Exp(float64(a.f32())))) }
func (a Half) Log() Half { return halfOf(float32(math.Log(float64(a.f32())))) }
func (Half) Zero() Half { return halfOf(0) }
func (Half) One() Half { return halfOf(1) }
func (Half) NegInf() Half { return Half(float16.Inf(-1)) }
func (a Half) Float64() float64 { return float64(a.f32()) }
func (Half) FromFloat64(f float64) Half { return halfOf(float32(f)) }

// Tiny is the binary16 machine epsilon at 1.0.
func (Half) Tiny() Half {
	return halfOf(1.0 / 1024)
}

// Random draws from [0, 1).
func (Half) Random(r *rand.Rand) Half {
	// binary16 rounding would otherwise map draws near 1 onto 1.0.
	return halfOf(r.Float32() * 0.999)
}

// String formats the value as its float32 widening.
func (a Half) String() string {
	return float16.Float16(a).String()
}
