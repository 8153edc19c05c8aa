package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/parallel"
	"github.com/born-ml/alan/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y[i] = b[i] + Σ_j W[i][j] * x[j]
// where:
//   - x is one input sample with in_features elements
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//
// Backward propagates grad through the pre-update weights, then descends
// W and b by the batch mean of their per-sample gradients.
//
// Weights and biases are initialized uniformly in [0, 1).
//
// Example:
//
//	layer, err := nn.NewLinear[numeric.F32](784, 128, nn.WithSeed(1))
//	output, err := layer.Forward(input)  // shape: [B, 128]
type Linear[T numeric.Numeric[T]] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[T] // [out_features, in_features]
	bias        *Parameter[T] // [out_features], nil when disabled
	input       *tensor.Batch[T]
	parallel    parallel.Config
}

// NewLinear creates a new Linear layer.
//
// Parameters:
//   - inFeatures: Number of input features
//   - outFeatures: Number of output features
//   - opts: WithoutBias, WithRand/WithSeed, WithParallel
func NewLinear[T numeric.Numeric[T]](inFeatures, outFeatures int, opts ...Option) (*Linear[T], error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("linear %dx%d: %w: features must be positive", outFeatures, inFeatures, ErrInvalidLayer)
	}
	cfg := newLayerConfig(opts)

	l := &Linear[T]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", tensor.Shape{outFeatures, inFeatures}, Uniform[T](cfg.rng, outFeatures*inFeatures)),
		parallel:    cfg.parallel,
	}
	if cfg.bias {
		l.bias = NewParameter("bias", tensor.Shape{outFeatures}, Uniform[T](cfg.rng, outFeatures))
	}
	return l, nil
}

// Forward computes the output of the linear layer.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear[T]) Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	if err := (tensor.Shape{input.Size(), l.inFeatures}).Expect("linear forward", input.Shape()); err != nil {
		return nil, err
	}
	l.input = input.Clone()

	w := l.weight.Values()
	output := tensor.NewBatch[T](input.Size(), l.outFeatures)
	parallel.For(input.Size(), func(b int) {
		x := input.Row(b)
		y := output.Row(b)
		for i := range y {
			acc := numeric.Zero[T]()
			if l.bias != nil {
				acc = l.bias.At(i)
			}
			row := w[i*l.inFeatures : (i+1)*l.inFeatures]
			for j, xj := range x {
				acc = acc.Add(row[j].Mul(xj))
			}
			y[i] = acc
		}
	}, l.parallel)

	return output, nil
}

// Backward returns the input gradient and updates weight and bias.
//
// Input gradient: gx[j] = Σ_i grad[i] * W[i][j], with W before the update.
// Update: W[i][j] -= lr * mean_b(grad[b][i] * x[b][j]), b[i] -= lr * mean_b(grad[b][i]).
func (l *Linear[T]) Backward(grad *tensor.Batch[T], lr T) (*tensor.Batch[T], error) {
	if l.input == nil {
		return nil, fmt.Errorf("linear backward: %w", ErrNoForward)
	}
	if err := (tensor.Shape{l.input.Size(), l.outFeatures}).Expect("linear backward", grad.Shape()); err != nil {
		return nil, err
	}

	w := l.weight.Values()
	gradInput := tensor.NewBatch[T](grad.Size(), l.inFeatures)
	parallel.For(grad.Size(), func(b int) {
		g := grad.Row(b)
		gx := gradInput.Row(b)
		for i, gi := range g {
			row := w[i*l.inFeatures : (i+1)*l.inFeatures]
			for j := range gx {
				gx[j] = gx[j].Add(gi.Mul(row[j]))
			}
		}
	}, l.parallel)

	// Parameter gradients accumulate sequentially in batch order.
	batch := numeric.FromInt[T](grad.Size())
	wGrad := Constant(numeric.Zero[T](), len(w))
	var bGrad []T
	if l.bias != nil {
		bGrad = Constant(numeric.Zero[T](), l.outFeatures)
	}
	for b := 0; b < grad.Size(); b++ {
		g := grad.Row(b)
		x := l.input.Row(b)
		for i, gi := range g {
			for j, xj := range x {
				k := i*l.inFeatures + j
				wGrad[k] = wGrad[k].Add(gi.Mul(xj))
			}
			if bGrad != nil {
				bGrad[i] = bGrad[i].Add(gi)
			}
		}
	}
	for k := range wGrad {
		wGrad[k] = wGrad[k].Div(batch)
	}
	l.weight.SetGrad(wGrad)
	l.weight.Descend(lr)

	if l.bias != nil {
		for i := range bGrad {
			bGrad[i] = bGrad[i].Div(batch)
		}
		l.bias.SetGrad(bGrad)
		l.bias.Descend(lr)
	}

	return gradInput, nil
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
func (l *Linear[T]) Parameters() []*Parameter[T] {
	if l.bias != nil {
		return []*Parameter[T]{l.weight, l.bias}
	}
	return []*Parameter[T]{l.weight}
}

// Weights returns the weight parameter.
func (l *Linear[T]) Weights() *Parameter[T] {
	return l.weight
}

// Bias returns the bias parameter, or nil when the layer has none.
func (l *Linear[T]) Bias() *Parameter[T] {
	return l.bias
}

// SetWeights replaces the weights with row-major values of shape [out, in].
func (l *Linear[T]) SetWeights(vals []T) error {
	return l.weight.Set(vals)
}

// SetBias replaces the bias.
func (l *Linear[T]) SetBias(vals []T) error {
	if l.bias == nil {
		return fmt.Errorf("linear: %w: layer has no bias", ErrInvalidLayer)
	}
	return l.bias.Set(vals)
}

// InFeatures returns the number of input features.
func (l *Linear[T]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[T]) OutFeatures() int {
	return l.outFeatures
}
