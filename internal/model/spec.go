package model

import (
	"errors"
	"fmt"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
)

// Architecture kinds.
const (
	KindLinearRegressor = "linear-regressor"
	KindImageClassifier = "image-classifier"
)

// ErrUnknownKind is returned when a Spec names an architecture Build does not know.
var ErrUnknownKind = errors.New("unknown architecture kind")

// Spec describes a prebuilt architecture well enough to rebuild it with
// the same parameter layout.
type Spec struct {
	Kind       string                 `yaml:"kind"`
	Features   int                    `yaml:"features,omitempty"`
	Bias       bool                   `yaml:"bias"`
	Classifier *ImageClassifierConfig `yaml:"classifier,omitempty"`
}

// Build constructs the network a Spec describes. Parameters are freshly
// initialized; load a state dict to restore trained values.
func Build[T numeric.Numeric[T]](spec Spec, opts ...Option[T]) (*Network[T], error) {
	bias := nn.WithoutBias()
	if spec.Bias {
		bias = nn.WithBias()
	}
	opts = append(opts[:len(opts):len(opts)], WithLayerOptions[T](bias))

	switch spec.Kind {
	case KindLinearRegressor:
		return NewLinearRegressor[T](spec.Features, opts...)
	case KindImageClassifier:
		if spec.Classifier == nil {
			return nil, fmt.Errorf("%s: %w: missing classifier config", spec.Kind, nn.ErrInvalidLayer)
		}
		return NewImageClassifier[T](*spec.Classifier, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
}
