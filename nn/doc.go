// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers, activations and losses of alan.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Convolution, AvgPool
//   - Activations: Identity, ReLU, Softmax
//   - Loss functions: MSELoss, SSELoss, CrossEntropyLoss
//   - Utilities: Sequential, Parameter, StateDict
//
// Every layer keeps its own gradient rule. Forward caches what Backward
// needs; Backward returns the gradient with respect to the layer input and
// applies one gradient-descent step to the layer's parameters.
//
// # Basic Usage
//
//	conv, _ := nn.NewConvolution[numeric.F32](28, 28, 5)
//	pool, _ := nn.NewAvgPool[numeric.F32](24, 24, 2)
//	dense, _ := nn.NewLinear[numeric.F32](12*12, 10)
//	model, err := nn.NewSequential[numeric.F32](conv, pool, dense)
//
//	logits, err := model.Forward(x)
//	loss := nn.NewCrossEntropyLoss[numeric.F32]()
//	l, err := loss.Forward(logits, labels)
//	grad, err := loss.Backward()
//	_, err = model.Backward(grad, lr)
//
// # Options
//
// Layer constructors accept options:
//
//	nn.WithSeed(42)      // reproducible initialization
//	nn.WithoutBias()     // drop the additive bias
//	nn.WithBatchMean()   // average convolution gradients over the batch
//	nn.WithWorkers(1)    // run on the calling goroutine
package nn
