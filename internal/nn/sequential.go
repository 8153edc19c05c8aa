package nn

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// StateDict maps qualified parameter names ("<layer index>.<name>") to
// their values in layer order.
type StateDict = orderedmap.OrderedMap[string, []float64]

// NewStateDict returns an empty state dictionary.
func NewStateDict() *StateDict {
	return orderedmap.New[string, []float64]()
}

// Sequential is a container layer that chains multiple layers together.
//
// Each layer's output becomes the next layer's input; Backward walks the
// chain in reverse. Adjacent layers must agree on their feature counts,
// which is checked when layers are added.
//
// Example:
//
//	model, err := nn.NewSequential[numeric.F32](
//	    conv,  // 28*28 -> 24*24
//	    pool,  // 24*24 -> 12*12
//	    dense, // 12*12 -> 10
//	)
//
//	output, err := model.Forward(input)
type Sequential[T numeric.Numeric[T]] struct {
	layers []Layer[T]
}

// NewSequential creates a new Sequential container.
//
// Returns ErrInvalidLayer when the list is empty or two adjacent layers
// disagree on their feature counts.
func NewSequential[T numeric.Numeric[T]](layers ...Layer[T]) (*Sequential[T], error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("sequential: %w: no layers", ErrInvalidLayer)
	}
	s := &Sequential[T]{layers: layers[:1:1]}
	for _, layer := range layers[1:] {
		if err := s.Add(layer); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a layer to the sequence.
func (s *Sequential[T]) Add(layer Layer[T]) error {
	if n := len(s.layers); n > 0 {
		prev := s.layers[n-1]
		if prev.OutFeatures() != layer.InFeatures() {
			return fmt.Errorf("sequential: %w: layer %d outputs %d features, layer %d expects %d",
				ErrInvalidLayer, n-1, prev.OutFeatures(), n, layer.InFeatures())
		}
	}
	s.layers = append(s.layers, layer)
	return nil
}

// Forward applies all layers in sequence.
func (s *Sequential[T]) Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	output := input
	for i, layer := range s.layers {
		var err error
		if output, err = layer.Forward(output); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return output, nil
}

// Backward propagates grad through the layers in reverse order, updating
// each layer's parameters with learning rate lr.
func (s *Sequential[T]) Backward(grad *tensor.Batch[T], lr T) (*tensor.Batch[T], error) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		var err error
		if grad, err = s.layers[i].Backward(grad, lr); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return grad, nil
}

// Parameters returns all trainable parameters from all layers, in order.
func (s *Sequential[T]) Parameters() []*Parameter[T] {
	var params []*Parameter[T]
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// InFeatures returns the input width of the first layer.
func (s *Sequential[T]) InFeatures() int {
	return s.layers[0].InFeatures()
}

// OutFeatures returns the output width of the last layer.
func (s *Sequential[T]) OutFeatures() int {
	return s.layers[len(s.layers)-1].OutFeatures()
}

// Len returns the number of layers in the sequence.
func (s *Sequential[T]) Len() int {
	return len(s.layers)
}

// Layer returns the layer at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential[T]) Layer(index int) Layer[T] {
	if index < 0 || index >= len(s.layers) {
		panic("Sequential.Layer: index out of bounds")
	}
	return s.layers[index]
}

// StateDict returns every parameter as float64 values.
//
// Parameters are prefixed with their layer index (e.g., "0.kernel", "0.bias", "4.weight")
// to avoid name collisions.
func (s *Sequential[T]) StateDict() *StateDict {
	sd := NewStateDict()
	for i, layer := range s.layers {
		for _, p := range layer.Parameters() {
			sd.Set(fmt.Sprintf("%d.%s", i, p.Name()), numeric.Float64s(p.Values()))
		}
	}
	return sd
}

// LoadStateDict loads parameters from a state dictionary.
//
// Every parameter of the sequence must be present with a matching length.
// Keys that do not belong to any parameter are rejected. The dictionary is
// checked in full before any parameter is written, so a rejected load
// leaves the sequence unchanged.
func (s *Sequential[T]) LoadStateDict(sd *StateDict) error {
	type pending struct {
		param *Parameter[T]
		vals  []T
	}
	var loads []pending
	for i, layer := range s.layers {
		for _, p := range layer.Parameters() {
			key := fmt.Sprintf("%d.%s", i, p.Name())
			vals, ok := sd.Get(key)
			if !ok {
				return fmt.Errorf("missing %s in state dict", key)
			}
			if len(vals) != len(p.Values()) {
				return fmt.Errorf("failed to load layer %d: parameter %s: %w: expected %d values (shape %v), got %d",
					i, p.Name(), tensor.ErrShapeMismatch, len(p.Values()), p.Shape(), len(vals))
			}
			loads = append(loads, pending{param: p, vals: numeric.Slice[T](vals...)})
		}
	}
	if len(loads) != sd.Len() {
		var unknown []string
		for pair := sd.Oldest(); pair != nil; pair = pair.Next() {
			if !s.hasParameter(pair.Key) {
				unknown = append(unknown, pair.Key)
			}
		}
		return fmt.Errorf("unexpected keys in state dict: %s", strings.Join(unknown, ", "))
	}

	for _, l := range loads {
		if err := l.param.Set(l.vals); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequential[T]) hasParameter(key string) bool {
	for i, layer := range s.layers {
		for _, p := range layer.Parameters() {
			if key == fmt.Sprintf("%d.%s", i, p.Name()) {
				return true
			}
		}
	}
	return false
}
