package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
)

// ErrCheckpoint is returned when a checkpoint cannot be read or applied.
var ErrCheckpoint = errors.New("invalid checkpoint")

// TrainingRecord summarizes the run that produced a checkpoint.
type TrainingRecord struct {
	Epochs    int       `yaml:"epochs"`
	LR        float64   `yaml:"lr"`
	BatchSize int       `yaml:"batch_size,omitempty"`
	Losses    []float64 `yaml:"losses,flow"`
}

// Checkpoint is a self-describing snapshot of a network's parameters.
//
// Parameter values are stored as float64 in layer order, so a checkpoint
// written with one scalar type can be restored into another.
type Checkpoint struct {
	ID       string          `yaml:"id"`
	Created  time.Time       `yaml:"created"`
	Numeric  string          `yaml:"numeric"`
	Model    Spec            `yaml:"model"`
	Training *TrainingRecord `yaml:"training,omitempty"`
	State    *nn.StateDict   `yaml:"state"`
}

// NewCheckpoint snapshots net. history is the per-epoch loss returned by
// Train and may be nil.
func NewCheckpoint[T numeric.Numeric[T]](net *Network[T], hp *Hyperparameters[T], history []T) *Checkpoint {
	c := &Checkpoint{
		ID:      uuid.New().String(),
		Created: time.Now().UTC(),
		Numeric: numeric.Name[T](),
		Model:   net.Spec(),
		State:   net.Layers().StateDict(),
	}
	if hp != nil {
		c.Training = &TrainingRecord{
			Epochs:    hp.Epochs,
			LR:        hp.LR.Float64(),
			BatchSize: hp.BatchSize,
			Losses:    numeric.Float64s(history),
		}
	}
	return c
}

// Encode writes the checkpoint as YAML.
func (c *Checkpoint) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	return enc.Close()
}

// Save writes the checkpoint to path, creating parent directories.
func (c *Checkpoint) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeCheckpoint reads a YAML checkpoint.
func DecodeCheckpoint(r io.Reader) (*Checkpoint, error) {
	var c Checkpoint
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckpoint, err)
	}
	if c.State == nil {
		return nil, fmt.Errorf("%w: missing state", ErrCheckpoint)
	}
	if _, err := uuid.Parse(c.ID); err != nil {
		return nil, fmt.Errorf("%w: bad id %q: %w", ErrCheckpoint, c.ID, err)
	}
	return &c, nil
}

// LoadCheckpoint reads a YAML checkpoint file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := DecodeCheckpoint(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Restore loads the checkpoint's parameters into n. The checkpoint must
// have been taken from a network of the same Spec.
func (n *Network[T]) Restore(c *Checkpoint) error {
	if c.Model.Kind != n.spec.Kind || c.Model.Bias != n.spec.Bias {
		return fmt.Errorf("%w: checkpoint holds %s (bias %t), network is %s (bias %t)",
			ErrCheckpoint, c.Model.Kind, c.Model.Bias, n.spec.Kind, n.spec.Bias)
	}
	if err := n.layers.LoadStateDict(c.State); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckpoint, err)
	}
	if c.Numeric != numeric.Name[T]() {
		n.logger.Warn("checkpoint converted between scalar types", "id", c.ID, "from", c.Numeric, "to", numeric.Name[T]())
	}
	return nil
}

// FromCheckpoint rebuilds the network a checkpoint describes and loads its
// parameters.
func FromCheckpoint[T numeric.Numeric[T]](c *Checkpoint, opts ...Option[T]) (*Network[T], error) {
	net, err := Build[T](c.Model, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckpoint, err)
	}
	if err := net.Restore(c); err != nil {
		return nil, err
	}
	return net, nil
}
