package nn

import "errors"

// Sentinel errors returned by layers, activations and losses.
var (
	// ErrNoForward is returned when Backward runs before any Forward call.
	ErrNoForward = errors.New("backward called before forward")

	// ErrInvalidLayer is returned for impossible layer geometries
	// (non-positive sizes, kernels larger than the image) and for
	// Sequential stacks whose adjacent layers disagree on feature counts.
	ErrInvalidLayer = errors.New("invalid layer")
)
