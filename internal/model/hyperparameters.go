package model

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/alan/internal/numeric"
)

// ErrInvalidHyperparameters is returned when training settings are unusable.
var ErrInvalidHyperparameters = errors.New("invalid hyperparameters")

// Hyperparameters control a training run.
//
// In YAML the learning rate is written as a plain number and converted to
// T on load:
//
//	epochs: 25
//	lr: 0.05
//	batch_size: 4
type Hyperparameters[T numeric.Numeric[T]] struct {
	Epochs    int
	LR        T
	BatchSize int // Optional; consumed by dataset construction, not by Train
}

// hyperparametersYAML is the on-disk form of Hyperparameters.
type hyperparametersYAML struct {
	Epochs    int     `yaml:"epochs"`
	LR        float64 `yaml:"lr"`
	BatchSize int     `yaml:"batch_size,omitempty"`
}

// Validate requires a positive epoch count and a positive learning rate.
func (h Hyperparameters[T]) Validate() error {
	if h.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive, got %d", ErrInvalidHyperparameters, h.Epochs)
	}
	if !numeric.Zero[T]().Less(h.LR) {
		return fmt.Errorf("%w: lr must be positive, got %v", ErrInvalidHyperparameters, h.LR.Float64())
	}
	if h.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative, got %d", ErrInvalidHyperparameters, h.BatchSize)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (h Hyperparameters[T]) MarshalYAML() (any, error) {
	return hyperparametersYAML{Epochs: h.Epochs, LR: h.LR.Float64(), BatchSize: h.BatchSize}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *Hyperparameters[T]) UnmarshalYAML(value *yaml.Node) error {
	var raw hyperparametersYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*h = Hyperparameters[T]{Epochs: raw.Epochs, LR: numeric.FromFloat64[T](raw.LR), BatchSize: raw.BatchSize}
	return nil
}

// DecodeHyperparameters reads and validates hyperparameters from YAML.
func DecodeHyperparameters[T numeric.Numeric[T]](r io.Reader) (Hyperparameters[T], error) {
	var h Hyperparameters[T]
	if err := yaml.NewDecoder(r).Decode(&h); err != nil {
		return h, fmt.Errorf("failed to decode hyperparameters: %w", err)
	}
	return h, h.Validate()
}

// LoadHyperparameters reads and validates a YAML hyperparameters file.
func LoadHyperparameters[T numeric.Numeric[T]](path string) (Hyperparameters[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return Hyperparameters[T]{}, err
	}
	defer f.Close()

	h, err := DecodeHyperparameters[T](f)
	if err != nil {
		return h, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}
