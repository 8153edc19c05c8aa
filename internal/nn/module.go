// Package nn implements the trainable building blocks of a network.
//
// This package provides:
//   - Layer: trainable (or fixed) transform with a hand-derived backward pass
//   - Activation: element- or row-wise non-linearity with its derivative
//   - Loss: scalar objective with its gradient w.r.t. the prediction
//   - Linear, Convolution, AvgPool layers
//   - Identity, ReLU, Softmax activations
//   - MSE, SSE and CrossEntropy losses
//   - Sequential: container that chains layers and checks their dimensions
//
// Every kernel is generic over numeric.Numeric, so the same code trains
// float, half-precision and fixed-point networks. Backward updates the
// layer's own parameters in place with plain gradient descent.
package nn

import (
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// Layer is a network stage mapping batches of InFeatures() to OutFeatures().
//
// Layers keep a single cache slot holding what the last Forward needs for
// Backward; each Forward overwrites it. A layer is not safe for concurrent use.
type Layer[T numeric.Numeric[T]] interface {
	// Forward computes the output batch and caches what Backward needs.
	Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error)

	// Backward maps the output gradient to the input gradient using the
	// parameters seen by the last Forward, then descends its parameters
	// with learning rate lr.
	Backward(grad *tensor.Batch[T], lr T) (*tensor.Batch[T], error)

	InFeatures() int
	OutFeatures() int

	// Parameters returns the trainable parameters, nil when there are none.
	Parameters() []*Parameter[T]
}

// Activation is a non-linearity with no trainable state.
type Activation[T numeric.Numeric[T]] interface {
	Forward(input *tensor.Batch[T]) *tensor.Batch[T]

	// Backward maps an output gradient to an input gradient at the point
	// of the last Forward.
	Backward(grad *tensor.Batch[T]) (*tensor.Batch[T], error)
}

// Loss scores a batch of predictions against labels.
type Loss[T numeric.Numeric[T]] interface {
	// Forward returns the batch loss and caches prediction and labels.
	Forward(prediction, labels *tensor.Batch[T]) (T, error)

	// Backward returns the gradient of the loss w.r.t. the prediction
	// passed to the last Forward.
	Backward() (*tensor.Batch[T], error)
}

// activationLayer lets an Activation sit inside a Sequential.
type activationLayer[T numeric.Numeric[T]] struct {
	act      Activation[T]
	features int
}

// AsLayer wraps an activation as a parameterless Layer of the given width.
//
// Example:
//
//	seq, err := nn.NewSequential[numeric.F32](
//	    linear1,
//	    nn.AsLayer[numeric.F32](nn.NewReLU[numeric.F32](), 128),
//	    linear2,
//	)
func AsLayer[T numeric.Numeric[T]](act Activation[T], features int) Layer[T] {
	return &activationLayer[T]{act: act, features: features}
}

func (a *activationLayer[T]) Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	if err := (tensor.Shape{input.Size(), a.features}).Expect("activation forward", input.Shape()); err != nil {
		return nil, err
	}
	return a.act.Forward(input), nil
}

func (a *activationLayer[T]) Backward(grad *tensor.Batch[T], _ T) (*tensor.Batch[T], error) {
	return a.act.Backward(grad)
}

func (a *activationLayer[T]) InFeatures() int { return a.features }
func (a *activationLayer[T]) OutFeatures() int { return a.features }
func (a *activationLayer[T]) Parameters() []*Parameter[T] { return nil }
