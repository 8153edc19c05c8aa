// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides batched datasets and image loaders.
//
// Example:
//
//	set, err := data.LoadImageDir[numeric.F32](ctx, "images/train", 256, 256, 0)
//	ds, err := set.Dataset(8, data.WithSeed(1))
//	for x, y, ok := ds.Next(); ok; x, y, ok = ds.Next() {
//	    // train on x, y
//	}
//	ds.Refresh()
package data

import (
	"context"
	"io"
	"math/rand"

	"github.com/born-ml/alan/internal/data"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// Errors.
var (
	ErrLengthMismatch = data.ErrLengthMismatch
	ErrBatchSize      = data.ErrBatchSize
	ErrEmptyDataset   = data.ErrEmptyDataset
)

// Dataset yields shuffled fixed-size batches of input/label pairs.
type Dataset[T numeric.Numeric[T]] = data.Dataset[T]

// ImageSet is a labelled collection of flattened grayscale images.
type ImageSet[T numeric.Numeric[T]] = data.ImageSet[T]

// Option configures a Dataset.
type Option = data.Option

// New creates a dataset over copies of inputs and labels.
func New[T numeric.Numeric[T]](inputs, labels []tensor.Tensor[T], batchSize int, opts ...Option) (*Dataset[T], error) {
	return data.New(inputs, labels, batchSize, opts...)
}

// WithSeed shuffles with a source seeded with seed.
func WithSeed(seed int64) Option {
	return data.WithSeed(seed)
}

// WithRand shuffles with r.
func WithRand(r *rand.Rand) Option {
	return data.WithRand(r)
}

// WithoutShuffle keeps samples in input order.
func WithoutShuffle() Option {
	return data.WithoutShuffle()
}

// DecodeImage decodes, grayscales and resizes one image.
func DecodeImage[T numeric.Numeric[T]](r io.Reader, width, height int) (tensor.Tensor[T], error) {
	return data.DecodeImage[T](r, width, height)
}

// LoadImage reads one image file.
func LoadImage[T numeric.Numeric[T]](path string, width, height int) (tensor.Tensor[T], error) {
	return data.LoadImage[T](path, width, height)
}

// LoadImageDir loads root/<class>/<image> using at most workers goroutines.
func LoadImageDir[T numeric.Numeric[T]](ctx context.Context, root string, width, height, workers int) (*ImageSet[T], error) {
	return data.LoadImageDir[T](ctx, root, width, height, workers)
}

// LoadIDX loads an MNIST-style IDX image/label file pair.
func LoadIDX[T numeric.Numeric[T]](imagesPath, labelsPath string, classes, limit int) (*ImageSet[T], error) {
	return data.LoadIDX[T](imagesPath, labelsPath, classes, limit)
}

// OneHot returns a tensor of length n with a one at index class.
func OneHot[T numeric.Numeric[T]](class, n int) tensor.Tensor[T] {
	return data.OneHot[T](class, n)
}
