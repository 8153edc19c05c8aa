package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/alan/internal/data"
	"github.com/born-ml/alan/internal/model"
	"github.com/born-ml/alan/internal/numeric"
)

type mnistFlags struct {
	classifyFlags
	images     string
	labels     string
	testImages string
	testLabels string
	limit      int
}

// mnistLayout maps 28×28 digits through conv 5 -> pool 2 -> conv 3 -> pool 2 to 5×5 features.
var mnistLayout = model.ImageClassifierConfig{Width: 28, Height: 28, Classes: 10, Conv1: 5, Pool1: 2, Conv2: 3, Pool2: 2}

func newMNISTCmd() *cobra.Command {
	var f mnistFlags
	cmd := &cobra.Command{
		Use:   "mnist",
		Short: "Train a digit classifier on MNIST IDX files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(f.numeric,
				func() error { return runMNIST[numeric.F32](cmd, &f) },
				func() error { return runMNIST[numeric.F64](cmd, &f) },
				func() error { return runMNIST[numeric.Half](cmd, &f) },
				func() error { return runMNIST[numeric.Fixed](cmd, &f) },
			)
		},
	}
	f.register(cmd, 3, 0.01, 10)
	f.registerLayout(cmd, mnistLayout)
	cmd.Flags().StringVar(&f.images, "images", "train-images-idx3-ubyte", "Training images (IDX)")
	cmd.Flags().StringVar(&f.labels, "labels", "train-labels-idx1-ubyte", "Training labels (IDX)")
	cmd.Flags().StringVar(&f.testImages, "test-images", "", "Test images (IDX)")
	cmd.Flags().StringVar(&f.testLabels, "test-labels", "", "Test labels (IDX)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Use at most this many samples per file (0 = all)")
	return cmd
}

func runMNIST[T numeric.Numeric[T]](cmd *cobra.Command, f *mnistFlags) error {
	hp, err := hyperparameters[T](&f.trainFlags)
	if err != nil {
		return err
	}
	s := newSession[T](cmd)

	train, err := data.LoadIDX[T](f.images, f.labels, mnistLayout.Classes, f.limit)
	if err != nil {
		return err
	}
	trainSet, err := train.Dataset(hp.BatchSize, s.dataOptions()...)
	if err != nil {
		return fmt.Errorf("training set: %w", err)
	}

	var testSet *data.Dataset[T]
	if f.testImages != "" {
		test, err := data.LoadIDX[T](f.testImages, f.testLabels, mnistLayout.Classes, f.limit)
		if err != nil {
			return err
		}
		if testSet, err = test.Dataset(hp.BatchSize, s.dataOptions()...); err != nil {
			return fmt.Errorf("test set: %w", err)
		}
	}

	layout := f.layout
	layout.Width, layout.Height, layout.Classes = train.Width, train.Height, mnistLayout.Classes
	return trainClassifier(s, &f.trainFlags, layout, hp, trainSet, testSet)
}
