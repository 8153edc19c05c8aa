package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// lossCache is the single-slot prediction/label cache shared by losses.
type lossCache[T numeric.Numeric[T]] struct {
	prediction *tensor.Batch[T]
	labels     *tensor.Batch[T]
}

func (c *lossCache[T]) store(op string, prediction, labels *tensor.Batch[T]) error {
	if err := prediction.Shape().Expect(op, labels.Shape()); err != nil {
		return err
	}
	c.prediction = prediction.Clone()
	c.labels = labels.Clone()
	return nil
}

// squaredErrorGrad returns 2 * (prediction - label).
func (c *lossCache[T]) squaredErrorGrad(op string) (*tensor.Batch[T], error) {
	if c.prediction == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoForward)
	}
	two := numeric.FromInt[T](2)
	grad := c.prediction.Clone()
	data := grad.Data()
	labels := c.labels.Data()
	for i := range data {
		data[i] = two.Mul(data[i].Sub(labels[i]))
	}
	return grad, nil
}

func sumSquaredError[T numeric.Numeric[T]](prediction, labels *tensor.Batch[T]) T {
	acc := numeric.Zero[T]()
	l := labels.Data()
	for i, p := range prediction.Data() {
		d := p.Sub(l[i])
		acc = acc.Add(d.Mul(d))
	}
	return acc
}

// MSELoss is the mean squared error.
//
// Forward: loss = mean_{b,i} (pred[b][i] - label[b][i])²
// Backward: grad[b][i] = 2 * (pred[b][i] - label[b][i])
//
// Backward is not divided by the element count; callers that need the exact
// derivative of Forward scale it themselves.
type MSELoss[T numeric.Numeric[T]] struct {
	cache lossCache[T]
}

// NewMSELoss creates a new MSE loss.
func NewMSELoss[T numeric.Numeric[T]]() *MSELoss[T] {
	return &MSELoss[T]{}
}

// Forward computes the mean squared error over every element of the batch.
func (l *MSELoss[T]) Forward(prediction, labels *tensor.Batch[T]) (T, error) {
	if err := l.cache.store("mse forward", prediction, labels); err != nil {
		return numeric.Zero[T](), err
	}
	n := numeric.FromInt[T](len(prediction.Data()))
	return sumSquaredError(prediction, labels).Div(n), nil
}

// Backward returns 2 * (prediction - labels).
func (l *MSELoss[T]) Backward() (*tensor.Batch[T], error) {
	return l.cache.squaredErrorGrad("mse backward")
}

// SSELoss is the sum of squared errors.
//
// Forward: loss = Σ_{b,i} (pred[b][i] - label[b][i])²
// Backward: grad[b][i] = 2 * (pred[b][i] - label[b][i])
type SSELoss[T numeric.Numeric[T]] struct {
	cache lossCache[T]
}

// NewSSELoss creates a new SSE loss.
func NewSSELoss[T numeric.Numeric[T]]() *SSELoss[T] {
	return &SSELoss[T]{}
}

// Forward computes the sum of squared errors over the batch.
func (l *SSELoss[T]) Forward(prediction, labels *tensor.Batch[T]) (T, error) {
	if err := l.cache.store("sse forward", prediction, labels); err != nil {
		return numeric.Zero[T](), err
	}
	return sumSquaredError(prediction, labels), nil
}

// Backward returns 2 * (prediction - labels).
func (l *SSELoss[T]) Backward() (*tensor.Batch[T], error) {
	return l.cache.squaredErrorGrad("sse backward")
}
