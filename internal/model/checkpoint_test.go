package model

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/alan/internal/numeric"
)

func TestCheckpoint_RoundTrip(t *testing.T) {
	net, err := NewLinearRegressor[F64](1, WithSeed[F64](42), WithLogger[F64](quiet()))
	require.NoError(t, err)
	hp := Hyperparameters[F64]{Epochs: 5, LR: 0.05, BatchSize: 4}
	history, err := net.Train(linearData[F64](t, 4, 0, 1, 2, 3), hp)
	require.NoError(t, err)

	c := NewCheckpoint(net, &hp, history)
	_, err = uuid.Parse(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "float64", c.Numeric)

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))
	assert.Contains(t, buf.String(), "kind: linear-regressor")
	assert.Contains(t, buf.String(), "0.weight")

	loaded, err := DecodeCheckpoint(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.ID, loaded.ID)
	assert.True(t, c.Created.Equal(loaded.Created))
	assert.Equal(t, c.Model, loaded.Model)
	require.NotNil(t, loaded.Training)
	assert.Equal(t, numeric.Float64s(history), loaded.Training.Losses)
	assert.Equal(t, 4, loaded.Training.BatchSize)

	restored, err := FromCheckpoint[F64](loaded, WithLogger[F64](quiet()))
	require.NoError(t, err)
	want, _ := net.Layers().StateDict().Get("0.weight")
	got, _ := restored.Layers().StateDict().Get("0.weight")
	assert.Equal(t, want, got)
}

// TestCheckpoint_ClassifierFile tests saving to disk and restoring into a
// different scalar type.
func TestCheckpoint_ClassifierFile(t *testing.T) {
	net, err := NewImageClassifier[F64](smallClassifier(), WithSeed[F64](3))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ckpt", "classifier.yaml")
	require.NoError(t, NewCheckpoint(net, nil, nil).Save(path))

	c, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Nil(t, c.Training)
	require.NotNil(t, c.Model.Classifier)
	assert.Equal(t, smallClassifier(), *c.Model.Classifier)

	var keys []string
	for pair := c.State.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"0.kernel", "0.bias", "2.kernel", "2.bias", "4.weight", "4.bias"}, keys)

	restored, err := FromCheckpoint[F32](c, WithLogger[F32](quiet()))
	require.NoError(t, err)
	kernel, _ := restored.Layers().StateDict().Get("0.kernel")
	orig, _ := net.Layers().StateDict().Get("0.kernel")
	assert.InDeltaSlice(t, orig, kernel, 1e-6)
}

func TestCheckpoint_Errors(t *testing.T) {
	_, err := DecodeCheckpoint(strings.NewReader("id: x\n"))
	assert.ErrorIs(t, err, ErrCheckpoint)

	_, err = DecodeCheckpoint(strings.NewReader("id: not-a-uuid\nstate: {}\n"))
	assert.ErrorIs(t, err, ErrCheckpoint)

	_, err = DecodeCheckpoint(strings.NewReader("state: [1, 2]\n"))
	assert.ErrorIs(t, err, ErrCheckpoint)

	regressor, err := NewLinearRegressor[F64](2)
	require.NoError(t, err)
	classifier, err := NewImageClassifier[F64](smallClassifier())
	require.NoError(t, err)
	assert.ErrorIs(t, classifier.Restore(NewCheckpoint(regressor, nil, nil)), ErrCheckpoint)

	wider, err := NewLinearRegressor[F64](3)
	require.NoError(t, err)
	assert.ErrorIs(t, wider.Restore(NewCheckpoint(regressor, nil, nil)), ErrCheckpoint)

	_, err = LoadCheckpoint(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNetwork_RestoreRejectedKeepsParameters(t *testing.T) {
	src, err := NewImageClassifier[F64](smallClassifier(), WithSeed[F64](1))
	require.NoError(t, err)
	dst, err := NewImageClassifier[F64](smallClassifier(), WithSeed[F64](2))
	require.NoError(t, err)
	before := dst.Layers().StateDict()

	c := NewCheckpoint(src, nil, nil)
	newest := c.State.Newest()
	require.NotNil(t, newest)
	c.State.Delete(newest.Key)

	assert.ErrorIs(t, dst.Restore(c), ErrCheckpoint)
	after := dst.Layers().StateDict()
	require.Equal(t, before.Len(), after.Len())
	for pair := before.Oldest(); pair != nil; pair = pair.Next() {
		got, _ := after.Get(pair.Key)
		assert.Equal(t, pair.Value, got, pair.Key)
	}
}
