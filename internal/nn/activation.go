package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// Identity passes batches through unchanged.
//
// It is the output head of regressors, whose loss consumes the raw
// prediction.
type Identity[T numeric.Numeric[T]] struct{}

// NewIdentity creates a new Identity activation.
func NewIdentity[T numeric.Numeric[T]]() *Identity[T] {
	return &Identity[T]{}
}

// Forward returns a copy of input.
func (a *Identity[T]) Forward(input *tensor.Batch[T]) *tensor.Batch[T] {
	return input.Clone()
}

// Backward returns a copy of grad.
func (a *Identity[T]) Backward(grad *tensor.Batch[T]) (*tensor.Batch[T], error) {
	return grad.Clone(), nil
}

// ReLU is a Rectified Linear Unit activation.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// Forward caches its output; Backward gates the upstream gradient with
// the derivative mask of that output.
//
// Example:
//
//	relu := nn.NewReLU[numeric.F32]()
//	out := relu.Forward(input)  // All negative values become 0
//	gx, err := relu.Backward(grad)
type ReLU[T numeric.Numeric[T]] struct {
	output *tensor.Batch[T]
}

// NewReLU creates a new ReLU activation.
func NewReLU[T numeric.Numeric[T]]() *ReLU[T] {
	return &ReLU[T]{}
}

// Forward applies f(x) = max(0, x).
func (r *ReLU[T]) Forward(input *tensor.Batch[T]) *tensor.Batch[T] {
	zero := numeric.Zero[T]()
	out := input.Clone()
	data := out.Data()
	for i, v := range data {
		if v.Less(zero) {
			data[i] = zero
		}
	}
	r.output = out.Clone()
	return out
}

// Backward returns grad ⊙ mask, where mask is 1 wherever the last forward
// output was non-zero.
func (r *ReLU[T]) Backward(grad *tensor.Batch[T]) (*tensor.Batch[T], error) {
	if r.output == nil {
		return nil, fmt.Errorf("relu backward: %w", ErrNoForward)
	}
	if err := r.output.Shape().Expect("relu backward", grad.Shape()); err != nil {
		return nil, err
	}
	mask := r.Mask(r.output).Data()
	gx := grad.Clone()
	data := gx.Data()
	for i := range data {
		data[i] = data[i].Mul(mask[i])
	}
	return gx, nil
}

// Mask returns the derivative of ReLU evaluated at an activation output:
// 1 where the value is non-zero, 0 elsewhere.
func (r *ReLU[T]) Mask(output *tensor.Batch[T]) *tensor.Batch[T] {
	zero, one := numeric.Zero[T](), numeric.One[T]()
	mask := tensor.NewBatch[T](output.Size(), output.Features())
	m := mask.Data()
	for i, v := range output.Data() {
		if v != zero {
			m[i] = one
		}
	}
	return mask
}

// Softmax normalizes each sample into a probability distribution.
//
// Applies per sample: o[i] = exp(x[i] - max(x)) / Σ_j exp(x[j] - max(x)).
// Subtracting the row maximum keeps every exponent at or below zero, so
// large logits do not overflow.
type Softmax[T numeric.Numeric[T]] struct {
	output *tensor.Batch[T]
}

// NewSoftmax creates a new Softmax activation.
func NewSoftmax[T numeric.Numeric[T]]() *Softmax[T] {
	return &Softmax[T]{}
}

// Forward applies the row-wise softmax and caches the result.
func (s *Softmax[T]) Forward(input *tensor.Batch[T]) *tensor.Batch[T] {
	out := tensor.NewBatch[T](input.Size(), input.Features())
	for b := 0; b < input.Size(); b++ {
		softmaxRow(input.Row(b), out.Row(b))
	}
	s.output = out.Clone()
	return out
}

// Backward applies the softmax Jacobian at the cached output:
// gx[j] = Σ_i g[i] * o[i] * (δij - o[j]).
func (s *Softmax[T]) Backward(grad *tensor.Batch[T]) (*tensor.Batch[T], error) {
	if s.output == nil {
		return nil, fmt.Errorf("softmax backward: %w", ErrNoForward)
	}
	if err := s.output.Shape().Expect("softmax backward", grad.Shape()); err != nil {
		return nil, err
	}
	zero, one := numeric.Zero[T](), numeric.One[T]()
	gx := tensor.NewBatch[T](grad.Size(), grad.Features())
	for b := 0; b < grad.Size(); b++ {
		g, o, dst := grad.Row(b), s.output.Row(b), gx.Row(b)
		for j := range dst {
			acc := zero
			for i := range g {
				delta := zero
				if i == j {
					delta = one
				}
				acc = acc.Add(g[i].Mul(o[i]).Mul(delta.Sub(o[j])))
			}
			dst[j] = acc
		}
	}
	return gx, nil
}

// softmaxRow writes the stable softmax of x into dst and returns the row
// maximum and the normalizer Σ exp(x - max).
func softmaxRow[T numeric.Numeric[T]](x, dst []T) (maxVal, denom T) {
	maxVal = numeric.NegInf[T]()
	for _, v := range x {
		maxVal = numeric.Max(maxVal, v)
	}
	denom = numeric.Zero[T]()
	for i, v := range x {
		dst[i] = v.Sub(maxVal).Exp()
		denom = denom.Add(dst[i])
	}
	for i := range dst {
		dst[i] = dst[i].Div(denom)
	}
	return maxVal, denom
}
