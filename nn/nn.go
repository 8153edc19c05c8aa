// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/parallel"
)

// Errors.
var (
	ErrNoForward    = nn.ErrNoForward
	ErrInvalidLayer = nn.ErrInvalidLayer
)

// Layer is a differentiable transformation with trainable parameters.
type Layer[T numeric.Numeric[T]] = nn.Layer[T]

// Activation is an elementwise or row-wise transformation without parameters.
type Activation[T numeric.Numeric[T]] = nn.Activation[T]

// Loss compares predictions to labels.
type Loss[T numeric.Numeric[T]] = nn.Loss[T]

// Parameter represents a trainable parameter in a neural network.
type Parameter[T numeric.Numeric[T]] = nn.Parameter[T]

// StateDict maps "<layer index>.<name>" to parameter values in layer order.
type StateDict = nn.StateDict

// Option configures layer construction.
type Option = nn.Option

// WithSeed draws initial parameters from a source seeded with seed.
func WithSeed(seed int64) Option {
	return nn.WithSeed(seed)
}

// WithRand draws initial parameters from r.
func WithRand(r *rand.Rand) Option {
	return nn.WithRand(r)
}

// WithoutBias disables the additive bias of Linear and Convolution layers.
func WithoutBias() Option {
	return nn.WithoutBias()
}

// WithBias re-enables the additive bias after an earlier WithoutBias.
func WithBias() Option {
	return nn.WithBias()
}

// WithBatchMean divides Convolution parameter gradients by the batch size.
func WithBatchMean() Option {
	return nn.WithBatchMean()
}

// WithWorkers limits per-batch fan-out to n goroutines. n <= 1 runs on
// the calling goroutine.
func WithWorkers(n int) Option {
	return nn.WithParallel(parallel.WithWorkers(n))
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[T numeric.Numeric[T]] = nn.Linear[T]

// NewLinear creates a new linear layer with uniform [0, 1) initialization.
//
// Example:
//
//	layer, err := nn.NewLinear[numeric.F32](784, 10)
func NewLinear[T numeric.Numeric[T]](inFeatures, outFeatures int, opts ...Option) (*Linear[T], error) {
	return nn.NewLinear[T](inFeatures, outFeatures, opts...)
}

// Convolution is a single-channel valid convolution over a square kernel.
type Convolution[T numeric.Numeric[T]] = nn.Convolution[T]

// NewConvolution creates a convolution over width×height images.
//
// Example:
//
//	conv, err := nn.NewConvolution[numeric.F32](28, 28, 5) // 28×28 -> 24×24
func NewConvolution[T numeric.Numeric[T]](width, height, size int, opts ...Option) (*Convolution[T], error) {
	return nn.NewConvolution[T](width, height, size, opts...)
}

// AvgPool averages non-overlapping size×size windows.
type AvgPool[T numeric.Numeric[T]] = nn.AvgPool[T]

// NewAvgPool creates a pooling layer over width×height images.
//
// Example:
//
//	pool, err := nn.NewAvgPool[numeric.F32](24, 24, 2) // 24×24 -> 12×12
func NewAvgPool[T numeric.Numeric[T]](width, height, size int, opts ...Option) (*AvgPool[T], error) {
	return nn.NewAvgPool[T](width, height, size, opts...)
}

// Sequential chains layers.
type Sequential[T numeric.Numeric[T]] = nn.Sequential[T]

// NewSequential creates a Sequential container. Adjacent layers must agree
// on their feature counts.
func NewSequential[T numeric.Numeric[T]](layers ...Layer[T]) (*Sequential[T], error) {
	return nn.NewSequential(layers...)
}

// AsLayer adapts an activation over features-wide samples to a Layer.
func AsLayer[T numeric.Numeric[T]](act Activation[T], features int) Layer[T] {
	return nn.AsLayer(act, features)
}

// Activations

// Identity passes its input through.
type Identity[T numeric.Numeric[T]] = nn.Identity[T]

// NewIdentity creates an identity activation.
func NewIdentity[T numeric.Numeric[T]]() *Identity[T] {
	return nn.NewIdentity[T]()
}

// ReLU represents the Rectified Linear Unit activation function.
type ReLU[T numeric.Numeric[T]] = nn.ReLU[T]

// NewReLU creates a new ReLU activation.
func NewReLU[T numeric.Numeric[T]]() *ReLU[T] {
	return nn.NewReLU[T]()
}

// Softmax normalizes each sample into a probability distribution.
type Softmax[T numeric.Numeric[T]] = nn.Softmax[T]

// NewSoftmax creates a numerically stable softmax activation.
func NewSoftmax[T numeric.Numeric[T]]() *Softmax[T] {
	return nn.NewSoftmax[T]()
}

// Loss Functions

// MSELoss is the mean squared error over every element of the batch.
type MSELoss[T numeric.Numeric[T]] = nn.MSELoss[T]

// NewMSELoss creates a mean squared error loss.
func NewMSELoss[T numeric.Numeric[T]]() *MSELoss[T] {
	return nn.NewMSELoss[T]()
}

// SSELoss is the sum of squared errors.
type SSELoss[T numeric.Numeric[T]] = nn.SSELoss[T]

// NewSSELoss creates a sum of squared errors loss.
func NewSSELoss[T numeric.Numeric[T]]() *SSELoss[T] {
	return nn.NewSSELoss[T]()
}

// CrossEntropyLoss combines softmax and negative log-likelihood on logits.
type CrossEntropyLoss[T numeric.Numeric[T]] = nn.CrossEntropyLoss[T]

// NewCrossEntropyLoss creates a cross-entropy loss over logits.
//
// Example:
//
//	criterion := nn.NewCrossEntropyLoss[numeric.F32]()
//	loss, err := criterion.Forward(logits, oneHotLabels)
func NewCrossEntropyLoss[T numeric.Numeric[T]]() *CrossEntropyLoss[T] {
	return nn.NewCrossEntropyLoss[T]()
}
