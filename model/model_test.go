// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package model_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/born-ml/alan/data"
	"github.com/born-ml/alan/model"
	"github.com/born-ml/alan/numeric"
	"github.com/born-ml/alan/tensor"
)

type F64 = numeric.F64

func points(t *testing.T, from, n int) *data.Dataset[F64] {
	t.Helper()
	var inputs, labels []tensor.Tensor[F64]
	for x := from; x < from+n; x++ {
		inputs = append(inputs, tensor.FromFloat64s[F64](float64(x)))
		labels = append(labels, tensor.FromFloat64s[F64](2*float64(x)))
	}
	ds, err := data.New(inputs, labels, 4, data.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

// TestRegressorEndToEnd trains, checkpoints and restores through the public API.
func TestRegressorEndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	net, err := model.NewLinearRegressor[F64](1, model.WithSeed[F64](7), model.WithLogger[F64](logger))
	if err != nil {
		t.Fatal(err)
	}

	hp, err := model.DecodeHyperparameters[F64](bytes.NewBufferString("epochs: 25\nlr: 0.05\n"))
	if err != nil {
		t.Fatal(err)
	}
	history, err := net.Train(points(t, 0, 4), hp)
	if err != nil {
		t.Fatal(err)
	}

	loss, err := net.Test(points(t, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if loss.Float64() >= 1e-3 {
		t.Errorf("Test() = %v, want < 1e-3", loss)
	}

	var buf bytes.Buffer
	if err := model.NewCheckpoint(net, &hp, history).Encode(&buf); err != nil {
		t.Fatal(err)
	}
	c, err := model.DecodeCheckpoint(&buf)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := model.FromCheckpoint[F64](c, model.WithLogger[F64](logger))
	if err != nil {
		t.Fatal(err)
	}
	again, err := restored.Test(points(t, 4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if again != loss {
		t.Errorf("restored Test() = %v, want %v", again, loss)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := model.Build[F64](model.Spec{Kind: "rnn"})
	if !errors.Is(err, model.ErrUnknownKind) {
		t.Errorf("Build() error = %v, want ErrUnknownKind", err)
	}
}
