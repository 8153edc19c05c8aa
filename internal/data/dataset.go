// Package data feeds training loops with fixed-size batches.
//
// A Dataset holds paired input and label samples and yields them in
// shuffled batches of a fixed size. Loaders in this package build the
// sample lists from image directories and MNIST IDX files.
package data

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

var (
	// ErrLengthMismatch is returned when inputs and labels differ in count.
	ErrLengthMismatch = errors.New("inputs and labels differ in length")

	// ErrBatchSize is returned when the batch size is not positive or does
	// not divide the number of samples.
	ErrBatchSize = errors.New("invalid batch size")

	// ErrEmptyDataset is returned for datasets with no samples.
	ErrEmptyDataset = errors.New("empty dataset")
)

// Option configures a Dataset.
type Option func(*options)

type options struct {
	rng     *rand.Rand
	shuffle bool
}

// WithRand shuffles with r.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed shuffles with a source seeded with seed.
func WithSeed(seed int64) Option {
	return func(o *options) {
		//nolint:gosec // Shuffle order is not security-critical
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithoutShuffle yields samples in input order on every pass.
func WithoutShuffle() Option {
	return func(o *options) { o.shuffle = false }
}

// Dataset yields paired (input, label) batches of a fixed size.
//
// Every pass visits each sample exactly once in a random order. Next
// returns ok=false once the pass is exhausted; Refresh reshuffles and
// rewinds. A Dataset is not safe for concurrent use.
//
// Example:
//
//	ds, err := data.New(inputs, labels, 4)
//	for x, y, ok := ds.Next(); ok; x, y, ok = ds.Next() {
//	    // train on x, y
//	}
//	ds.Refresh()
type Dataset[T numeric.Numeric[T]] struct {
	inputs    []tensor.Tensor[T]
	labels    []tensor.Tensor[T]
	batchSize int
	order     []int
	cursor    int // index of the next batch
	rng       *rand.Rand
	shuffle   bool
}

// New creates a dataset over copies of inputs and labels.
//
// All inputs must share a length, as must all labels, and batchSize must
// divide the sample count.
func New[T numeric.Numeric[T]](inputs, labels []tensor.Tensor[T], batchSize int, opts ...Option) (*Dataset[T], error) {
	o := options{shuffle: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		//nolint:gosec // Shuffle order is not security-critical
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	switch {
	case len(inputs) != len(labels):
		return nil, fmt.Errorf("dataset: %w: %d inputs, %d labels", ErrLengthMismatch, len(inputs), len(labels))
	case len(inputs) == 0:
		return nil, fmt.Errorf("dataset: %w", ErrEmptyDataset)
	case batchSize <= 0:
		return nil, fmt.Errorf("dataset: %w: %d", ErrBatchSize, batchSize)
	case len(inputs)%batchSize != 0:
		return nil, fmt.Errorf("dataset: %w: %d samples do not split into batches of %d",
			ErrBatchSize, len(inputs), batchSize)
	}
	if err := sameLength("input", inputs); err != nil {
		return nil, err
	}
	if err := sameLength("label", labels); err != nil {
		return nil, err
	}

	ds := &Dataset[T]{
		inputs:    make([]tensor.Tensor[T], len(inputs)),
		labels:    make([]tensor.Tensor[T], len(labels)),
		batchSize: batchSize,
		order:     make([]int, len(inputs)),
		rng:       o.rng,
		shuffle:   o.shuffle,
	}
	for i := range inputs {
		ds.inputs[i] = inputs[i].Clone()
		ds.labels[i] = labels[i].Clone()
	}
	ds.Refresh()
	return ds, nil
}

func sameLength[T numeric.Numeric[T]](kind string, samples []tensor.Tensor[T]) error {
	n := samples[0].Len()
	if n == 0 {
		return fmt.Errorf("dataset: %w: %s 0 is empty", tensor.ErrShapeMismatch, kind)
	}
	for i, s := range samples {
		if s.Len() != n {
			return fmt.Errorf("dataset: %w: %s %d has %d elements, expected %d",
				tensor.ErrShapeMismatch, kind, i, s.Len(), n)
		}
	}
	return nil
}

// Next returns the next input and label batches of the current pass.
// ok is false once every sample has been yielded.
func (d *Dataset[T]) Next() (inputs, labels *tensor.Batch[T], ok bool) {
	start := d.cursor * d.batchSize
	if start+d.batchSize > len(d.order) {
		return nil, nil, false
	}

	inputs = tensor.NewBatch[T](d.batchSize, d.inputs[0].Len())
	labels = tensor.NewBatch[T](d.batchSize, d.labels[0].Len())
	for b, idx := range d.order[start : start+d.batchSize] {
		copy(inputs.Row(b), d.inputs[idx].Data())
		copy(labels.Row(b), d.labels[idx].Data())
	}
	d.cursor++
	return inputs, labels, true
}

// Refresh reshuffles the full sample order and rewinds to the first batch.
func (d *Dataset[T]) Refresh() {
	for i := range d.order {
		d.order[i] = i
	}
	if d.shuffle {
		d.rng.Shuffle(len(d.order), func(i, j int) {
			d.order[i], d.order[j] = d.order[j], d.order[i]
		})
	}
	d.cursor = 0
}

// Len returns the number of samples.
func (d *Dataset[T]) Len() int {
	return len(d.inputs)
}

// BatchSize returns the number of samples per batch.
func (d *Dataset[T]) BatchSize() int {
	return d.batchSize
}

// Batches returns the number of batches per pass.
func (d *Dataset[T]) Batches() int {
	return len(d.inputs) / d.batchSize
}

// InFeatures returns the length of each input sample.
func (d *Dataset[T]) InFeatures() int {
	return d.inputs[0].Len()
}

// OutFeatures returns the length of each label sample.
func (d *Dataset[T]) OutFeatures() int {
	return d.labels[0].Len()
}
