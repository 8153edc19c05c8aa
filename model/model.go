// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model assembles layers into trainable networks.
//
// Example:
//
//	net, err := model.NewLinearRegressor[numeric.F64](1)
//	history, err := net.Train(trainSet, model.Hyperparameters[numeric.F64]{Epochs: 25, LR: 0.05})
//	loss, err := net.Test(testSet)
//
//	err = model.NewCheckpoint(net, nil, history).Save("regressor.yaml")
package model

import (
	"io"
	"log/slog"

	"github.com/born-ml/alan/internal/model"
	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
)

// Errors.
var (
	ErrInvalidHyperparameters = model.ErrInvalidHyperparameters
	ErrCheckpoint             = model.ErrCheckpoint
	ErrUnknownKind            = model.ErrUnknownKind
)

// Architecture kinds.
const (
	KindLinearRegressor = model.KindLinearRegressor
	KindImageClassifier = model.KindImageClassifier
)

// Architecture is a trainable model.
type Architecture[T numeric.Numeric[T]] = model.Architecture[T]

// Network is an Architecture built from a layer stack, an output
// activation and a loss.
type Network[T numeric.Numeric[T]] = model.Network[T]

// Hyperparameters control a training run.
type Hyperparameters[T numeric.Numeric[T]] = model.Hyperparameters[T]

// EpochStats describes one finished training epoch.
type EpochStats[T numeric.Numeric[T]] = model.EpochStats[T]

// Option configures a Network.
type Option[T numeric.Numeric[T]] = model.Option[T]

// Spec describes a prebuilt architecture.
type Spec = model.Spec

// ImageClassifierConfig sizes the layers of an image classifier.
type ImageClassifierConfig = model.ImageClassifierConfig

// Checkpoint is a snapshot of a network's parameters.
type Checkpoint = model.Checkpoint

// TrainingRecord summarizes the run that produced a checkpoint.
type TrainingRecord = model.TrainingRecord

// NewNetwork creates a network from its parts.
func NewNetwork[T numeric.Numeric[T]](spec Spec, layers *nn.Sequential[T], head nn.Activation[T], newLoss func() nn.Loss[T], opts ...Option[T]) *Network[T] {
	return model.NewNetwork(spec, layers, head, newLoss, opts...)
}

// NewLinearRegressor creates a bias-free Linear(features -> 1) regressor trained with MSE.
func NewLinearRegressor[T numeric.Numeric[T]](features int, opts ...Option[T]) (*Network[T], error) {
	return model.NewLinearRegressor[T](features, opts...)
}

// NewImageClassifier creates Conv -> AvgPool -> Conv -> AvgPool -> Linear
// with a Softmax head and cross-entropy loss.
func NewImageClassifier[T numeric.Numeric[T]](cfg ImageClassifierConfig, opts ...Option[T]) (*Network[T], error) {
	return model.NewImageClassifier[T](cfg, opts...)
}

// DefaultImageClassifierConfig returns the 256×256 classifier layout.
func DefaultImageClassifierConfig(classes int) ImageClassifierConfig {
	return model.DefaultImageClassifierConfig(classes)
}

// Build constructs the network a Spec describes.
func Build[T numeric.Numeric[T]](spec Spec, opts ...Option[T]) (*Network[T], error) {
	return model.Build[T](spec, opts...)
}

// WithLogger sets the logger used for training progress.
func WithLogger[T numeric.Numeric[T]](l *slog.Logger) Option[T] {
	return model.WithLogger[T](l)
}

// WithEpochHook calls fn after every training epoch.
func WithEpochHook[T numeric.Numeric[T]](fn func(EpochStats[T])) Option[T] {
	return model.WithEpochHook(fn)
}

// WithSeed draws the initial parameters of every layer from one seeded source.
func WithSeed[T numeric.Numeric[T]](seed int64) Option[T] {
	return model.WithSeed[T](seed)
}

// WithLayerOptions passes options to every layer a prebuilt architecture creates.
func WithLayerOptions[T numeric.Numeric[T]](opts ...nn.Option) Option[T] {
	return model.WithLayerOptions[T](opts...)
}

// DecodeHyperparameters reads and validates hyperparameters from YAML.
func DecodeHyperparameters[T numeric.Numeric[T]](r io.Reader) (Hyperparameters[T], error) {
	return model.DecodeHyperparameters[T](r)
}

// LoadHyperparameters reads and validates a YAML hyperparameters file.
func LoadHyperparameters[T numeric.Numeric[T]](path string) (Hyperparameters[T], error) {
	return model.LoadHyperparameters[T](path)
}

// NewCheckpoint snapshots net.
func NewCheckpoint[T numeric.Numeric[T]](net *Network[T], hp *Hyperparameters[T], history []T) *Checkpoint {
	return model.NewCheckpoint(net, hp, history)
}

// DecodeCheckpoint reads a YAML checkpoint.
func DecodeCheckpoint(r io.Reader) (*Checkpoint, error) {
	return model.DecodeCheckpoint(r)
}

// LoadCheckpoint reads a YAML checkpoint file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return model.LoadCheckpoint(path)
}

// FromCheckpoint rebuilds and restores the network a checkpoint describes.
func FromCheckpoint[T numeric.Numeric[T]](c *Checkpoint, opts ...Option[T]) (*Network[T], error) {
	return model.FromCheckpoint[T](c, opts...)
}

// Argmax returns the index of the largest value.
func Argmax[T numeric.Numeric[T]](vals []T) int {
	return model.Argmax(vals)
}
