package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// CrossEntropyLoss combines a softmax with the negative log-likelihood.
//
// Forward takes raw logits, not probabilities. Per sample it computes the
// log-sum-exp with the row maximum subtracted:
//
//	loss = -mean_b Σ_i label[i] * (z[i] - max(z) - log Σ_j exp(z[j] - max(z)))
//
// and caches the softmax probabilities, so Backward is the familiar
// prob - label.
//
// Labels are expected to be probability distributions (typically one-hot).
//
// Example:
//
//	criterion := nn.NewCrossEntropyLoss[numeric.F32]()
//	loss, err := criterion.Forward(logits, oneHot)
//	grad, err := criterion.Backward()
type CrossEntropyLoss[T numeric.Numeric[T]] struct {
	probs  *tensor.Batch[T]
	labels *tensor.Batch[T]
}

// NewCrossEntropyLoss creates a new cross-entropy loss over logits.
func NewCrossEntropyLoss[T numeric.Numeric[T]]() *CrossEntropyLoss[T] {
	return &CrossEntropyLoss[T]{}
}

// Forward computes the batch-mean cross-entropy of logits against labels.
func (c *CrossEntropyLoss[T]) Forward(logits, labels *tensor.Batch[T]) (T, error) {
	if err := logits.Shape().Expect("cross entropy forward", labels.Shape()); err != nil {
		return numeric.Zero[T](), err
	}

	probs := tensor.NewBatch[T](logits.Size(), logits.Features())
	loss := numeric.Zero[T]()
	for b := 0; b < logits.Size(); b++ {
		z := logits.Row(b)
		maxVal, denom := softmaxRow(z, probs.Row(b))
		logDenom := denom.Log()
		for i, l := range labels.Row(b) {
			loss = loss.Sub(l.Mul(z[i].Sub(maxVal).Sub(logDenom)))
		}
	}

	c.probs = probs
	c.labels = labels.Clone()
	return loss.Div(numeric.FromInt[T](logits.Size())), nil
}

// Backward returns prob - label.
func (c *CrossEntropyLoss[T]) Backward() (*tensor.Batch[T], error) {
	if c.probs == nil {
		return nil, fmt.Errorf("cross entropy backward: %w", ErrNoForward)
	}
	grad := c.probs.Clone()
	data := grad.Data()
	labels := c.labels.Data()
	for i := range data {
		data[i] = data[i].Sub(labels[i])
	}
	return grad, nil
}

// Probabilities returns the softmax probabilities cached by the last Forward,
// or nil before the first call.
func (c *CrossEntropyLoss[T]) Probabilities() *tensor.Batch[T] {
	if c.probs == nil {
		return nil
	}
	return c.probs.Clone()
}
