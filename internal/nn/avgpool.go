package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/parallel"
	"github.com/born-ml/alan/internal/tensor"
)

// AvgPool averages non-overlapping K×K windows of a W×H image.
//
// Output is X×Y with X = ⌊W/K⌋, Y = ⌊H/K⌋ (stride K). Trailing rows and
// columns that do not fill a window are ignored and receive zero gradient.
// The layer has no trainable parameters; lr is ignored by Backward.
//
// Example:
//
//	pool, err := nn.NewAvgPool[numeric.F64](4, 4, 2)
//	out, err := pool.Forward(images)  // shape: [B, 2*2]
type AvgPool[T numeric.Numeric[T]] struct {
	width, height int
	outW, outH    int
	size          int
	weight        T // 1/K²
	input         *tensor.Batch[T]
	parallel      parallel.Config
}

// NewAvgPool creates a pooling layer over width×height images with a
// size×size window. Only WithParallel affects it.
func NewAvgPool[T numeric.Numeric[T]](width, height, size int, opts ...Option) (*AvgPool[T], error) {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil, fmt.Errorf("avgpool %dx%d k=%d: %w: dimensions must be positive",
			width, height, size, ErrInvalidLayer)
	}
	if size > width || size > height {
		return nil, fmt.Errorf("avgpool %dx%d k=%d: %w: window larger than image",
			width, height, size, ErrInvalidLayer)
	}
	cfg := newLayerConfig(opts)

	return &AvgPool[T]{
		width:    width,
		height:   height,
		outW:     width / size,
		outH:     height / size,
		size:     size,
		weight:   numeric.One[T]().Div(numeric.FromInt[T](size * size)),
		parallel: cfg.parallel,
	}, nil
}

// Forward averages each window.
//
// Input shape: [batch_size, W*H]
// Output shape: [batch_size, X*Y]
func (p *AvgPool[T]) Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	if err := (tensor.Shape{input.Size(), p.InFeatures()}).Expect("avgpool forward", input.Shape()); err != nil {
		return nil, err
	}
	p.input = input.Clone()

	K := p.size
	output := tensor.NewBatch[T](input.Size(), p.OutFeatures())
	parallel.For(input.Size(), func(b int) {
		in := input.Row(b)
		out := output.Row(b)
		for y := 0; y < p.outH; y++ {
			for x := 0; x < p.outW; x++ {
				acc := numeric.Zero[T]()
				for ky := 0; ky < K; ky++ {
					for kx := 0; kx < K; kx++ {
						acc = acc.Add(p.weight.Mul(in[(y*K+ky)*p.width+x*K+kx]))
					}
				}
				out[y*p.outW+x] = acc
			}
		}
	}, p.parallel)

	return output, nil
}

// Backward spreads each output gradient evenly over its window.
//
// Input pixel (i, j) lies in window (i/K, j/K) and receives grad/K² from
// it, or zero when it falls in the uncovered margin.
func (p *AvgPool[T]) Backward(grad *tensor.Batch[T], _ T) (*tensor.Batch[T], error) {
	if p.input == nil {
		return nil, fmt.Errorf("avgpool backward: %w", ErrNoForward)
	}
	if err := (tensor.Shape{p.input.Size(), p.OutFeatures()}).Expect("avgpool backward", grad.Shape()); err != nil {
		return nil, err
	}

	K := p.size
	gradInput := tensor.NewBatch[T](grad.Size(), p.InFeatures())
	parallel.For(grad.Size(), func(b int) {
		g := grad.Row(b)
		gx := gradInput.Row(b)
		for j := 0; j < p.outH*K; j++ {
			for i := 0; i < p.outW*K; i++ {
				gx[j*p.width+i] = p.weight.Mul(g[(j/K)*p.outW+i/K])
			}
		}
	}, p.parallel)

	return gradInput, nil
}

// Parameters returns nil; the pooling window is fixed.
func (p *AvgPool[T]) Parameters() []*Parameter[T] {
	return nil
}

// OutputSize returns the output image dimensions (X, Y).
func (p *AvgPool[T]) OutputSize() (width, height int) {
	return p.outW, p.outH
}

// InFeatures returns W*H.
func (p *AvgPool[T]) InFeatures() int {
	return p.width * p.height
}

// OutFeatures returns X*Y.
func (p *AvgPool[T]) OutFeatures() int {
	return p.outW * p.outH
}
