package model

import (
	"fmt"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
)

// NewLinearRegressor creates a single Linear(features -> 1) layer trained
// with MSE. The layer has no bias, so the fit passes through the origin;
// pass WithLayerOptions(nn.WithBias()) to learn an intercept.
func NewLinearRegressor[T numeric.Numeric[T]](features int, opts ...Option[T]) (*Network[T], error) {
	cfg := newConfig(opts)
	layerOpts := append([]nn.Option{nn.WithoutBias()}, cfg.layerOpts...)

	linear, err := nn.NewLinear[T](features, 1, layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("linear regressor: %w", err)
	}
	layers, err := nn.NewSequential[T](linear)
	if err != nil {
		return nil, fmt.Errorf("linear regressor: %w", err)
	}

	spec := Spec{Kind: KindLinearRegressor, Features: features, Bias: linear.Bias() != nil}
	return NewNetwork(spec, layers, nn.NewIdentity[T](), func() nn.Loss[T] { return nn.NewMSELoss[T]() }, opts...), nil
}
