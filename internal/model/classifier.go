package model

import (
	"fmt"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
)

// ImageClassifierConfig sizes the convolution/pooling stack of an image
// classifier. Images are Width×Height grayscale, row-major.
type ImageClassifierConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Classes int `yaml:"classes"`
	Conv1   int `yaml:"conv1"` // First kernel size
	Pool1   int `yaml:"pool1"` // First pooling window
	Conv2   int `yaml:"conv2"`
	Pool2   int `yaml:"pool2"`
}

// DefaultImageClassifierConfig returns the 256×256 layout:
// conv 7 -> pool 5 -> conv 3 -> pool 2 -> linear(24*24 -> classes).
func DefaultImageClassifierConfig(classes int) ImageClassifierConfig {
	return ImageClassifierConfig{
		Width:   256,
		Height:  256,
		Classes: classes,
		Conv1:   7,
		Pool1:   5,
		Conv2:   3,
		Pool2:   2,
	}
}

// NewImageClassifier creates Conv -> AvgPool -> Conv -> AvgPool -> Linear
// with a Softmax head and cross-entropy loss on the logits.
func NewImageClassifier[T numeric.Numeric[T]](cfg ImageClassifierConfig, opts ...Option[T]) (*Network[T], error) {
	if cfg.Classes <= 0 {
		return nil, fmt.Errorf("image classifier: %w: classes must be positive, got %d", nn.ErrInvalidLayer, cfg.Classes)
	}
	layerOpts := newConfig(opts).layerOpts

	conv1, err := nn.NewConvolution[T](cfg.Width, cfg.Height, cfg.Conv1, layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}
	w, h := conv1.OutputSize()
	pool1, err := nn.NewAvgPool[T](w, h, cfg.Pool1, layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}
	w, h = pool1.OutputSize()
	conv2, err := nn.NewConvolution[T](w, h, cfg.Conv2, layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}
	w, h = conv2.OutputSize()
	pool2, err := nn.NewAvgPool[T](w, h, cfg.Pool2, layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}
	dense, err := nn.NewLinear[T](pool2.OutFeatures(), cfg.Classes, layerOpts...)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}

	layers, err := nn.NewSequential[T](conv1, pool1, conv2, pool2, dense)
	if err != nil {
		return nil, fmt.Errorf("image classifier: %w", err)
	}

	spec := Spec{Kind: KindImageClassifier, Bias: conv1.Bias() != nil, Classifier: &cfg}
	return NewNetwork(spec, layers, nn.NewSoftmax[T](), func() nn.Loss[T] { return nn.NewCrossEntropyLoss[T]() }, opts...), nil
}
