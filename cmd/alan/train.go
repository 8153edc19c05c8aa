package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/alan/internal/data"
	"github.com/born-ml/alan/internal/envconfig"
	"github.com/born-ml/alan/internal/model"
	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/parallel"
)

// trainFlags are shared by every training command.
type trainFlags struct {
	numeric   string
	epochs    int
	lr        float64
	batchSize int
	config    string
	save      string
	load      string
}

func (f *trainFlags) register(cmd *cobra.Command, epochs int, lr float64, batchSize int) {
	cmd.Flags().StringVar(&f.numeric, "numeric", "float32", "Scalar type: float32, float64, half or fixed")
	cmd.Flags().IntVar(&f.epochs, "epochs", epochs, "Number of passes over the training set")
	cmd.Flags().Float64Var(&f.lr, "lr", lr, "Learning rate")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", batchSize, "Samples per batch")
	cmd.Flags().StringVar(&f.config, "config", "", "YAML hyperparameters file (overrides --epochs, --lr and --batch-size)")
	cmd.Flags().StringVar(&f.save, "save", "", "Write a checkpoint to this path after training")
	cmd.Flags().StringVar(&f.load, "load", "", "Resume from a checkpoint instead of initializing new parameters")
}

// hyperparameters resolves the flags, or the --config file when given.
func hyperparameters[T numeric.Numeric[T]](f *trainFlags) (model.Hyperparameters[T], error) {
	if f.config != "" {
		hp, err := model.LoadHyperparameters[T](f.config)
		if err != nil {
			return hp, err
		}
		if hp.BatchSize == 0 {
			hp.BatchSize = f.batchSize
		}
		return hp, nil
	}
	hp := model.Hyperparameters[T]{Epochs: f.epochs, LR: numeric.FromFloat64[T](f.lr), BatchSize: f.batchSize}
	return hp, hp.Validate()
}

// dispatch runs the variant matching the --numeric flag.
func dispatch(name string, f32, f64, half, fixed func() error) error {
	switch name {
	case "float32", "f32":
		return f32()
	case "float64", "f64":
		return f64()
	case "half", "f16":
		return half()
	case "fixed":
		return fixed()
	default:
		return fmt.Errorf("unknown numeric type %q (want float32, float64, half or fixed)", name)
	}
}

// session carries the per-run settings derived from the environment.
type session[T numeric.Numeric[T]] struct {
	cmd    *cobra.Command
	seed   int64
	stats  []model.EpochStats[T]
	logger *slog.Logger
}

func newSession[T numeric.Numeric[T]](cmd *cobra.Command) *session[T] {
	s := &session[T]{cmd: cmd, seed: envconfig.Seed(), logger: slog.Default()}
	if envconfig.SeedSet() {
		s.logger.Debug("using fixed seed", "seed", s.seed)
	}
	return s
}

// modelOptions seeds initialization, sizes the worker pool and records
// epoch statistics for the progress table.
func (s *session[T]) modelOptions(extra ...nn.Option) []model.Option[T] {
	layerOpts := append([]nn.Option{nn.WithParallel(parallel.WithWorkers(envconfig.Workers()))}, extra...)
	return []model.Option[T]{
		model.WithSeed[T](s.seed),
		model.WithLayerOptions[T](layerOpts...),
		model.WithLogger[T](s.logger),
		model.WithEpochHook(func(e model.EpochStats[T]) { s.stats = append(s.stats, e) }),
	}
}

func (s *session[T]) dataOptions() []data.Option {
	return []data.Option{data.WithSeed(s.seed)}
}

func (s *session[T]) printEpochs() {
	if envconfig.NoProgress() || len(s.stats) == 0 {
		return
	}

	var rows [][]string
	for _, e := range s.stats {
		rows = append(rows, []string{
			strconv.Itoa(e.Epoch),
			strconv.FormatFloat(e.Loss.Float64(), 'g', 6, 64),
			strconv.Itoa(e.Batches),
			e.Duration.Round(time.Millisecond).String(),
		})
	}

	table := newTable(s.cmd)
	table.SetHeader([]string{"EPOCH", "LOSS", "BATCHES", "TIME"})
	table.AppendBulk(rows)
	table.Render()
}

// network builds a fresh network, or restores the --load checkpoint.
func (s *session[T]) network(f *trainFlags, build func(opts ...model.Option[T]) (*model.Network[T], error), extra ...nn.Option) (*model.Network[T], error) {
	opts := s.modelOptions(extra...)
	if f.load == "" {
		return build(opts...)
	}
	c, err := model.LoadCheckpoint(f.load)
	if err != nil {
		return nil, err
	}
	s.logger.Info("resuming from checkpoint", "id", c.ID, "kind", c.Model.Kind, "created", c.Created)
	return model.FromCheckpoint[T](c, opts...)
}

// finish prints the progress table and optionally writes a checkpoint.
func (s *session[T]) finish(f *trainFlags, net *model.Network[T], hp model.Hyperparameters[T], history []T) error {
	s.printEpochs()
	if f.save == "" {
		return nil
	}
	c := model.NewCheckpoint(net, &hp, history)
	if err := c.Save(f.save); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	fmt.Fprintf(s.cmd.OutOrStdout(), "checkpoint %s written to %s\n", c.ID, f.save)
	return nil
}
