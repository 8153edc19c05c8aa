package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// Parameter represents a trainable parameter owned by a single layer.
//
// It holds the current values and the gradient computed by the most recent
// backward pass.
//
// Example:
//
//	w := linear.Weights()
//	w.Values()  // current weights, row-major [out, in]
//	w.Grad()    // nil before the first Backward
type Parameter[T numeric.Numeric[T]] struct {
	name   string       // Parameter name (e.g., "weight", "kernel")
	shape  tensor.Shape // Logical shape, row-major
	values []T
	grad   []T // Gradient of the last backward pass
}

// NewParameter creates a named parameter holding a copy of values.
// Panics if len(values) does not match shape.
func NewParameter[T numeric.Numeric[T]](name string, shape tensor.Shape, values []T) *Parameter[T] {
	if shape.NumElements() != len(values) {
		panic(fmt.Sprintf("NewParameter %q: shape %v requires %d values, got %d",
			name, shape, shape.NumElements(), len(values)))
	}
	p := &Parameter[T]{name: name, shape: shape.Clone(), values: make([]T, len(values))}
	copy(p.values, values)
	return p
}

// Name returns the parameter name.
func (p *Parameter[T]) Name() string {
	return p.name
}

// Shape returns the logical shape of the parameter.
func (p *Parameter[T]) Shape() tensor.Shape {
	return p.shape.Clone()
}

// Values returns the parameter values.
//
// WARNING: Modifications to the returned slice will modify the parameter.
func (p *Parameter[T]) Values() []T {
	return p.values
}

// At returns the value at flat index i.
func (p *Parameter[T]) At(i int) T {
	return p.values[i]
}

// Set replaces all values with a copy of vals.
func (p *Parameter[T]) Set(vals []T) error {
	if len(vals) != len(p.values) {
		return fmt.Errorf("parameter %s: %w: expected %d values (shape %v), got %d",
			p.name, tensor.ErrShapeMismatch, len(p.values), p.shape, len(vals))
	}
	copy(p.values, vals)
	return nil
}

// Grad returns the gradient of the last backward pass.
//
// Returns nil if no backward pass has run yet.
func (p *Parameter[T]) Grad() []T {
	return p.grad
}

// SetGrad stores the gradient for the next Descend.
func (p *Parameter[T]) SetGrad(grad []T) {
	p.grad = grad
}

// ZeroGrad clears the gradient.
func (p *Parameter[T]) ZeroGrad() {
	p.grad = nil
}

// Descend applies one gradient descent step: values -= lr * grad.
// Does nothing when no gradient is stored.
func (p *Parameter[T]) Descend(lr T) {
	for i, g := range p.grad {
		p.values[i] = p.values[i].Sub(lr.Mul(g))
	}
}
