package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/born-ml/alan/internal/data"
	"github.com/born-ml/alan/internal/envconfig"
	"github.com/born-ml/alan/internal/model"
	"github.com/born-ml/alan/internal/numeric"
)

type classifyFlags struct {
	trainFlags
	testDir string
	layout  model.ImageClassifierConfig
}

func (f *classifyFlags) registerLayout(cmd *cobra.Command, def model.ImageClassifierConfig) {
	cmd.Flags().IntVar(&f.layout.Conv1, "conv1", def.Conv1, "First convolution kernel size")
	cmd.Flags().IntVar(&f.layout.Pool1, "pool1", def.Pool1, "First pooling window")
	cmd.Flags().IntVar(&f.layout.Conv2, "conv2", def.Conv2, "Second convolution kernel size")
	cmd.Flags().IntVar(&f.layout.Pool2, "pool2", def.Pool2, "Second pooling window")
}

func newClassifyCmd() *cobra.Command {
	var f classifyFlags
	def := model.DefaultImageClassifierConfig(0)
	cmd := &cobra.Command{
		Use:   "classify TRAIN_DIR",
		Short: "Train an image classifier on a directory of labelled images",
		Long: `Train an image classifier.

TRAIN_DIR holds one subdirectory per class. Images in any supported format
(png, jpeg, gif, bmp, tiff, webp) are converted to grayscale and resized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(f.numeric,
				func() error { return runClassify[numeric.F32](cmd, &f, args[0]) },
				func() error { return runClassify[numeric.F64](cmd, &f, args[0]) },
				func() error { return runClassify[numeric.Half](cmd, &f, args[0]) },
				func() error { return runClassify[numeric.Fixed](cmd, &f, args[0]) },
			)
		},
	}
	f.register(cmd, 10, 0.001, 1)
	cmd.Flags().StringVar(&f.testDir, "test-dir", "", "Directory of held-out images with the same classes")
	cmd.Flags().IntVar(&f.layout.Width, "width", def.Width, "Image width after resizing")
	cmd.Flags().IntVar(&f.layout.Height, "height", def.Height, "Image height after resizing")
	f.registerLayout(cmd, def)
	return cmd
}

func runClassify[T numeric.Numeric[T]](cmd *cobra.Command, f *classifyFlags, trainDir string) error {
	hp, err := hyperparameters[T](&f.trainFlags)
	if err != nil {
		return err
	}
	s := newSession[T](cmd)
	ctx := cmd.Context()

	trainImages, err := data.LoadImageDir[T](ctx, trainDir, f.layout.Width, f.layout.Height, envconfig.Workers())
	if err != nil {
		return err
	}
	trainSet, err := trainImages.Dataset(hp.BatchSize, s.dataOptions()...)
	if err != nil {
		return fmt.Errorf("training set: %w", err)
	}

	var testSet *data.Dataset[T]
	if f.testDir != "" {
		testImages, err := data.LoadImageDir[T](ctx, f.testDir, f.layout.Width, f.layout.Height, envconfig.Workers())
		if err != nil {
			return err
		}
		if !slices.Equal(testImages.Classes, trainImages.Classes) {
			return fmt.Errorf("test classes %v do not match training classes %v", testImages.Classes, trainImages.Classes)
		}
		if testSet, err = testImages.Dataset(hp.BatchSize, s.dataOptions()...); err != nil {
			return fmt.Errorf("test set: %w", err)
		}
	}

	layout := f.layout
	layout.Classes = len(trainImages.Classes)
	return trainClassifier(s, &f.trainFlags, layout, hp, trainSet, testSet)
}

// trainClassifier trains and reports on an image classifier. testSet may be nil.
func trainClassifier[T numeric.Numeric[T]](s *session[T], f *trainFlags, layout model.ImageClassifierConfig,
	hp model.Hyperparameters[T], trainSet, testSet *data.Dataset[T],
) error {
	net, err := s.network(f, func(opts ...model.Option[T]) (*model.Network[T], error) {
		return model.NewImageClassifier[T](layout, opts...)
	})
	if err != nil {
		return err
	}

	history, err := net.Train(trainSet, hp)
	if err != nil {
		return err
	}

	out := s.cmd.OutOrStdout()
	fmt.Fprintf(out, "numeric: %s\n", numeric.Name[T]())
	fmt.Fprintf(out, "train loss: %g\n", history[len(history)-1].Float64())
	if testSet != nil {
		loss, err := net.Test(testSet)
		if err != nil {
			return err
		}
		acc, err := net.Accuracy(testSet)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "test loss: %g\n", loss.Float64())
		fmt.Fprintf(out, "test accuracy: %.2f%%\n", 100*acc)
	}

	return s.finish(f, net, hp, history)
}
