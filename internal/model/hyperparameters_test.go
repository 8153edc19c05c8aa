package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/alan/internal/numeric"
)

func TestHyperparameters_Validate(t *testing.T) {
	tests := []struct {
		name string
		hp   Hyperparameters[F64]
		ok   bool
	}{
		{"valid", Hyperparameters[F64]{Epochs: 1, LR: 0.1}, true},
		{"zero epochs", Hyperparameters[F64]{Epochs: 0, LR: 0.1}, false},
		{"negative lr", Hyperparameters[F64]{Epochs: 1, LR: -0.1}, false},
		{"zero lr", Hyperparameters[F64]{Epochs: 1}, false},
		{"negative batch", Hyperparameters[F64]{Epochs: 1, LR: 0.1, BatchSize: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.hp.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidHyperparameters)
			}
		})
	}
}

func TestDecodeHyperparameters(t *testing.T) {
	hp, err := DecodeHyperparameters[numeric.Fixed](strings.NewReader("epochs: 25\nlr: 0.05\nbatch_size: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 25, hp.Epochs)
	assert.Equal(t, int32(50), hp.LR.Raw())
	assert.Equal(t, 4, hp.BatchSize)

	_, err = DecodeHyperparameters[F64](strings.NewReader("epochs: 3\nlr: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidHyperparameters)

	_, err = DecodeHyperparameters[F64](strings.NewReader("epochs: [\n"))
	assert.Error(t, err)
}

func TestHyperparameters_YAMLRoundTrip(t *testing.T) {
	in := Hyperparameters[F32]{Epochs: 7, LR: 0.25, BatchSize: 2}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "epochs: 7\nlr: 0.25\nbatch_size: 2\n", string(out))

	path := filepath.Join(t.TempDir(), "hp.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o600))
	got, err := LoadHyperparameters[F32](path)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
