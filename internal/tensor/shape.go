package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when two shapes that must agree do not.
var ErrShapeMismatch = errors.New("shape mismatch")

// Shape represents the dimensions of a batch or of a sample laid out in 2D.
//
// Batches use Shape{batch, features}; image-like samples are described by
// Shape{height, width} and stored row-major.
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Expect returns an ErrShapeMismatch-wrapping error naming the operation
// when got differs from s.
func (s Shape) Expect(op string, got Shape) error {
	if s.Equal(got) {
		return nil
	}
	return fmt.Errorf("%s: %w: expected %v, got %v", op, ErrShapeMismatch, s, got)
}
