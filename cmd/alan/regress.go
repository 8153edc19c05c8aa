package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/born-ml/alan/internal/data"
	"github.com/born-ml/alan/internal/model"
	"github.com/born-ml/alan/internal/nn"
	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

type regressFlags struct {
	trainFlags
	slope     float64
	intercept float64
	train     int
	test      int
	bias      bool
}

func newRegressCmd() *cobra.Command {
	var f regressFlags
	cmd := &cobra.Command{
		Use:   "regress",
		Short: "Fit a linear regressor to y = slope*x + intercept",
		Long: `Fit a single linear layer to points on a line.

Training uses x = 0 .. train-1 and testing uses the next test integers, so
the reported test loss measures extrapolation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dispatch(f.numeric,
				func() error { return runRegress[numeric.F32](cmd, &f) },
				func() error { return runRegress[numeric.F64](cmd, &f) },
				func() error { return runRegress[numeric.Half](cmd, &f) },
				func() error { return runRegress[numeric.Fixed](cmd, &f) },
			)
		},
	}
	f.register(cmd, 25, 0.05, 4)
	cmd.Flags().Float64Var(&f.slope, "slope", 2, "Slope of the target line")
	cmd.Flags().Float64Var(&f.intercept, "intercept", 0, "Intercept of the target line (requires --bias to fit)")
	cmd.Flags().IntVar(&f.train, "train", 4, "Number of training points")
	cmd.Flags().IntVar(&f.test, "test", 4, "Number of test points")
	cmd.Flags().BoolVar(&f.bias, "bias", false, "Learn an intercept")
	return cmd
}

// linePoints returns a dataset of n points on the line starting at x = from.
func linePoints[T numeric.Numeric[T]](f *regressFlags, from, n, batchSize int, opts []data.Option) (*data.Dataset[T], error) {
	inputs := make([]tensor.Tensor[T], n)
	labels := make([]tensor.Tensor[T], n)
	for i := range inputs {
		x := float64(from + i)
		inputs[i] = tensor.FromFloat64s[T](x)
		labels[i] = tensor.FromFloat64s[T](f.slope*x + f.intercept)
	}
	return data.New(inputs, labels, batchSize, opts...)
}

func runRegress[T numeric.Numeric[T]](cmd *cobra.Command, f *regressFlags) error {
	hp, err := hyperparameters[T](&f.trainFlags)
	if err != nil {
		return err
	}
	s := newSession[T](cmd)

	trainSet, err := linePoints[T](f, 0, f.train, hp.BatchSize, s.dataOptions())
	if err != nil {
		return fmt.Errorf("training set: %w", err)
	}
	testSet, err := linePoints[T](f, f.train, f.test, hp.BatchSize, s.dataOptions())
	if err != nil {
		return fmt.Errorf("test set: %w", err)
	}

	var extra []nn.Option
	if f.bias {
		extra = append(extra, nn.WithBias())
	}
	net, err := s.network(&f.trainFlags, func(opts ...model.Option[T]) (*model.Network[T], error) {
		return model.NewLinearRegressor[T](1, opts...)
	}, extra...)
	if err != nil {
		return err
	}

	history, err := net.Train(trainSet, hp)
	if err != nil {
		return err
	}
	loss, err := net.Test(testSet)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	params := net.Layers().Parameters()
	fmt.Fprintf(out, "numeric: %s\n", numeric.Name[T]())
	fmt.Fprintf(out, "weight: %g\n", params[0].At(0).Float64())
	if len(params) > 1 {
		fmt.Fprintf(out, "bias: %g\n", params[1].At(0).Float64())
	}
	fmt.Fprintf(out, "test loss: %g\n", loss.Float64())

	return s.finish(&f.trainFlags, net, hp, history)
}
