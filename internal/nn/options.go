package nn

import (
	"math/rand"
	"time"

	"github.com/born-ml/alan/internal/parallel"
)

// Option configures layer construction.
type Option func(*layerConfig)

type layerConfig struct {
	rng       *rand.Rand
	bias      bool
	batchMean bool
	parallel  parallel.Config
}

func newLayerConfig(opts []Option) layerConfig {
	cfg := layerConfig{
		bias:     true,
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return cfg
}

// WithRand draws initial parameters from r.
func WithRand(r *rand.Rand) Option {
	return func(c *layerConfig) { c.rng = r }
}

// WithSeed draws initial parameters from a source seeded with seed.
func WithSeed(seed int64) Option {
	return func(c *layerConfig) {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithoutBias disables the additive bias of Linear and Convolution layers.
func WithoutBias() Option {
	return func(c *layerConfig) { c.bias = false }
}

// WithBias enables the additive bias. It is the default; it exists to
// override a WithoutBias applied earlier in the option list.
func WithBias() Option {
	return func(c *layerConfig) { c.bias = true }
}

// WithBatchMean makes Convolution divide its accumulated parameter
// gradients by the batch size, as Linear always does.
func WithBatchMean() Option {
	return func(c *layerConfig) { c.batchMean = true }
}

// WithParallel sets how per-sample work fans out over the batch.
func WithParallel(cfg parallel.Config) Option {
	return func(c *layerConfig) { c.parallel = cfg }
}
