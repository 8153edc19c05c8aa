// Package model assembles layers into trainable networks and runs the
// training and evaluation loops.
package model

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/born-ml/alan/internal/data"
	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// Architecture is a trainable model.
//
// Forward produces the raw output that the loss consumes (e.g. logits);
// Eval additionally applies the output activation for inference.
type Architecture[T numeric.Numeric[T]] interface {
	Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error)
	Eval(input *tensor.Batch[T]) (*tensor.Batch[T], error)
	Backward(grad *tensor.Batch[T], lr T) error

	// Train runs hp.Epochs passes over ds and returns each epoch's mean
	// batch loss.
	Train(ds *data.Dataset[T], hp Hyperparameters[T]) ([]T, error)

	// Test returns the mean batch loss over one pass of ds without
	// updating parameters.
	Test(ds *data.Dataset[T]) (T, error)
}

// EpochStats describes one finished training epoch.
type EpochStats[T numeric.Numeric[T]] struct {
	Epoch    int // 1-based
	Loss     T   // Mean batch loss
	Batches  int
	Duration time.Duration
}

// Option configures a Network and the layers a prebuilt architecture creates.
type Option[T numeric.Numeric[T]] func(*config[T])

type config[T numeric.Numeric[T]] struct {
	logger    *slog.Logger
	onEpoch   func(EpochStats[T])
	layerOpts []nn.Option
}

func newConfig[T numeric.Numeric[T]](opts []Option[T]) config[T] {
	cfg := config[T]{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger used for training progress.
func WithLogger[T numeric.Numeric[T]](l *slog.Logger) Option[T] {
	return func(c *config[T]) { c.logger = l }
}

// WithEpochHook calls fn after every training epoch.
func WithEpochHook[T numeric.Numeric[T]](fn func(EpochStats[T])) Option[T] {
	return func(c *config[T]) { c.onEpoch = fn }
}

// WithSeed draws the initial parameters of every layer from one source
// seeded with seed.
func WithSeed[T numeric.Numeric[T]](seed int64) Option[T] {
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	return WithLayerOptions[T](nn.WithRand(rand.New(rand.NewSource(seed))))
}

// WithLayerOptions passes options to every layer a prebuilt architecture
// creates. Later options win, so nn.WithBias() overrides a default of no bias.
func WithLayerOptions[T numeric.Numeric[T]](opts ...nn.Option) Option[T] {
	return func(c *config[T]) { c.layerOpts = append(c.layerOpts, opts...) }
}

// Network is an Architecture built from a layer stack, an output
// activation and a loss.
//
// Example:
//
//	net, err := model.NewLinearRegressor[numeric.F64](1)
//	history, err := net.Train(ds, model.Hyperparameters[numeric.F64]{Epochs: 25, LR: 0.05})
//	loss, err := net.Test(heldOut)
type Network[T numeric.Numeric[T]] struct {
	spec    Spec
	layers  *nn.Sequential[T]
	head    nn.Activation[T]
	newLoss func() nn.Loss[T]
	logger  *slog.Logger
	onEpoch func(EpochStats[T])
}

var _ Architecture[numeric.F32] = (*Network[numeric.F32])(nil)

// NewNetwork creates a network. newLoss is called once per Train or Test
// call so runs never share loss caches.
func NewNetwork[T numeric.Numeric[T]](spec Spec, layers *nn.Sequential[T], head nn.Activation[T], newLoss func() nn.Loss[T], opts ...Option[T]) *Network[T] {
	cfg := newConfig(opts)
	return &Network[T]{
		spec:    spec,
		layers:  layers,
		head:    head,
		newLoss: newLoss,
		logger:  cfg.logger,
		onEpoch: cfg.onEpoch,
	}
}

// Spec returns the description the network was built from.
func (n *Network[T]) Spec() Spec {
	return n.spec
}

// Layers returns the layer stack.
func (n *Network[T]) Layers() *nn.Sequential[T] {
	return n.layers
}

// Forward computes the raw network output.
func (n *Network[T]) Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	return n.layers.Forward(input)
}

// Eval computes the network output with the output activation applied.
func (n *Network[T]) Eval(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	out, err := n.layers.Forward(input)
	if err != nil {
		return nil, err
	}
	return n.head.Forward(out), nil
}

// Backward propagates the loss gradient and updates every layer.
func (n *Network[T]) Backward(grad *tensor.Batch[T], lr T) error {
	_, err := n.layers.Backward(grad, lr)
	return err
}

func (n *Network[T]) checkDataset(ds *data.Dataset[T]) error {
	if ds.InFeatures() != n.layers.InFeatures() || ds.OutFeatures() != n.layers.OutFeatures() {
		return fmt.Errorf("%s: %w: dataset is %d -> %d, network is %d -> %d",
			n.spec.Kind, tensor.ErrShapeMismatch,
			ds.InFeatures(), ds.OutFeatures(), n.layers.InFeatures(), n.layers.OutFeatures())
	}
	return nil
}

// Train runs batch gradient descent for hp.Epochs passes over ds.
//
// Each batch runs forward, loss, loss gradient and backward in turn. The
// dataset is refreshed after every epoch. Returns the mean batch loss of
// each epoch.
func (n *Network[T]) Train(ds *data.Dataset[T], hp Hyperparameters[T]) ([]T, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	if err := n.checkDataset(ds); err != nil {
		return nil, err
	}

	loss := n.newLoss()
	history := make([]T, 0, hp.Epochs)
	start := time.Now()

	for epoch := 1; epoch <= hp.Epochs; epoch++ {
		epochStart := time.Now()
		total, batches, err := n.trainEpoch(ds, loss, hp.LR)
		if err != nil {
			return history, fmt.Errorf("epoch %d: %w", epoch, err)
		}

		if batches == 0 {
			return history, fmt.Errorf("epoch %d: %w", epoch, data.ErrEmptyDataset)
		}
		mean := total.Div(numeric.FromInt[T](batches))
		history = append(history, mean)

		stats := EpochStats[T]{Epoch: epoch, Loss: mean, Batches: batches, Duration: time.Since(epochStart)}
		n.logger.Debug("epoch complete", "model", n.spec.Kind, "epoch", epoch, "loss", mean.Float64(), "batches", batches, "duration", stats.Duration)
		if n.onEpoch != nil {
			n.onEpoch(stats)
		}
	}

	n.logger.Info("training complete", "model", n.spec.Kind, "epochs", hp.Epochs, "lr", hp.LR.Float64(),
		"loss", history[len(history)-1].Float64(), "duration", time.Since(start))
	return history, nil
}

// trainEpoch runs one pass over ds and returns the summed batch loss and
// the batch count. The dataset is refreshed on every return path.
func (n *Network[T]) trainEpoch(ds *data.Dataset[T], loss nn.Loss[T], lr T) (T, int, error) {
	defer ds.Refresh()

	total := numeric.Zero[T]()
	batches := 0
	for x, y, ok := ds.Next(); ok; x, y, ok = ds.Next() {
		pred, err := n.layers.Forward(x)
		if err != nil {
			return total, batches, err
		}
		l, err := loss.Forward(pred, y)
		if err != nil {
			return total, batches, err
		}
		grad, err := loss.Backward()
		if err != nil {
			return total, batches, err
		}
		if err := n.Backward(grad, lr); err != nil {
			return total, batches, err
		}
		total = total.Add(l)
		batches++
	}
	return total, batches, nil
}

// Test returns the mean batch loss over one pass of ds, then refreshes it.
func (n *Network[T]) Test(ds *data.Dataset[T]) (T, error) {
	zero := numeric.Zero[T]()
	if err := n.checkDataset(ds); err != nil {
		return zero, err
	}

	loss := n.newLoss()
	total := zero
	batches := 0
	defer ds.Refresh()

	for x, y, ok := ds.Next(); ok; x, y, ok = ds.Next() {
		pred, err := n.layers.Forward(x)
		if err != nil {
			return zero, err
		}
		l, err := loss.Forward(pred, y)
		if err != nil {
			return zero, err
		}
		total = total.Add(l)
		batches++
	}
	if batches == 0 {
		return zero, data.ErrEmptyDataset
	}

	mean := total.Div(numeric.FromInt[T](batches))
	n.logger.Debug("test complete", "model", n.spec.Kind, "loss", mean.Float64(), "batches", batches)
	return mean, nil
}

// Accuracy returns the fraction of samples in one pass of ds whose
// highest-scoring output matches the highest label entry.
func (n *Network[T]) Accuracy(ds *data.Dataset[T]) (float64, error) {
	if err := n.checkDataset(ds); err != nil {
		return 0, err
	}
	defer ds.Refresh()

	correct, total := 0, 0
	for x, y, ok := ds.Next(); ok; x, y, ok = ds.Next() {
		out, err := n.Eval(x)
		if err != nil {
			return 0, err
		}
		for b := 0; b < out.Size(); b++ {
			if Argmax(out.Row(b)) == Argmax(y.Row(b)) {
				correct++
			}
			total++
		}
	}
	if total == 0 {
		return 0, data.ErrEmptyDataset
	}
	return float64(correct) / float64(total), nil
}

// Argmax returns the index of the largest value, preferring the first on ties.
func Argmax[T numeric.Numeric[T]](vals []T) int {
	best := 0
	for i, v := range vals {
		if vals[best].Less(v) {
			best = i
		}
	}
	return best
}
