package nn

import (
	"fmt"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/parallel"
	"github.com/born-ml/alan/internal/tensor"
)

// Convolution is a single-channel 2D convolution layer with a square kernel.
//
// Samples are W×H images stored row-major (index y*W + x). The layer uses
// valid padding and stride 1, so outputs are X×Y with X = W-K+1, Y = H-K+1:
//
//	out[y][x] = Σ_{ky,kx} kernel[ky][kx] * in[y+ky][x+kx] + bias[ky][kx] / K²
//
// Backward sums parameter gradients over the batch; WithBatchMean averages
// them instead.
//
// Example:
//
//	conv, err := nn.NewConvolution[numeric.F64](28, 28, 5)
//	out, err := conv.Forward(images)  // shape: [B, 24*24]
type Convolution[T numeric.Numeric[T]] struct {
	width, height int // input W, H
	outW, outH    int // output X, Y
	size          int // kernel K

	kernel *Parameter[T] // [K, K]
	bias   *Parameter[T] // [K, K], nil when disabled

	batchMean bool
	input     *tensor.Batch[T]
	parallel  parallel.Config
}

// NewConvolution creates a convolution over width×height images with a
// size×size kernel. Kernel and bias cells are initialized uniformly in [0, 1).
func NewConvolution[T numeric.Numeric[T]](width, height, size int, opts ...Option) (*Convolution[T], error) {
	if width <= 0 || height <= 0 || size <= 0 {
		return nil, fmt.Errorf("convolution %dx%d k=%d: %w: dimensions must be positive",
			width, height, size, ErrInvalidLayer)
	}
	if size > width || size > height {
		return nil, fmt.Errorf("convolution %dx%d k=%d: %w: kernel larger than image",
			width, height, size, ErrInvalidLayer)
	}
	cfg := newLayerConfig(opts)

	c := &Convolution[T]{
		width:     width,
		height:    height,
		outW:      width - size + 1,
		outH:      height - size + 1,
		size:      size,
		kernel:    NewParameter("kernel", tensor.Shape{size, size}, Uniform[T](cfg.rng, size*size)),
		batchMean: cfg.batchMean,
		parallel:  cfg.parallel,
	}
	if cfg.bias {
		c.bias = NewParameter("bias", tensor.Shape{size, size}, Uniform[T](cfg.rng, size*size))
	}
	return c, nil
}

// biasTerm is the constant every output cell receives from the bias.
func (c *Convolution[T]) biasTerm() T {
	acc := numeric.Zero[T]()
	if c.bias == nil {
		return acc
	}
	area := numeric.FromInt[T](c.size * c.size)
	for _, v := range c.bias.Values() {
		acc = acc.Add(v.Div(area))
	}
	return acc
}

// Forward convolves every sample with the kernel.
//
// Input shape: [batch_size, W*H]
// Output shape: [batch_size, X*Y]
func (c *Convolution[T]) Forward(input *tensor.Batch[T]) (*tensor.Batch[T], error) {
	if err := (tensor.Shape{input.Size(), c.InFeatures()}).Expect("convolution forward", input.Shape()); err != nil {
		return nil, err
	}
	c.input = input.Clone()

	k := c.kernel.Values()
	bias := c.biasTerm()
	output := tensor.NewBatch[T](input.Size(), c.OutFeatures())
	parallel.For(input.Size(), func(b int) {
		in := input.Row(b)
		out := output.Row(b)
		for y := 0; y < c.outH; y++ {
			for x := 0; x < c.outW; x++ {
				acc := bias
				for ky := 0; ky < c.size; ky++ {
					for kx := 0; kx < c.size; kx++ {
						acc = acc.Add(k[ky*c.size+kx].Mul(in[(y+ky)*c.width+x+kx]))
					}
				}
				out[y*c.outW+x] = acc
			}
		}
	}, c.parallel)

	return output, nil
}

// Backward returns the input gradient and updates kernel and bias.
//
// The input gradient is the full correlation of grad with the flipped
// kernel. Indices are shifted up by K so the bounds test never goes
// negative: gy = j+K-ky and gx = i+K-kx address grad[gy-K][gx-K] only when
// K <= gx < X+K and K <= gy < Y+K.
func (c *Convolution[T]) Backward(grad *tensor.Batch[T], lr T) (*tensor.Batch[T], error) {
	if c.input == nil {
		return nil, fmt.Errorf("convolution backward: %w", ErrNoForward)
	}
	if err := (tensor.Shape{c.input.Size(), c.OutFeatures()}).Expect("convolution backward", grad.Shape()); err != nil {
		return nil, err
	}

	K := c.size
	k := c.kernel.Values()
	gradInput := tensor.NewBatch[T](grad.Size(), c.InFeatures())
	parallel.For(grad.Size(), func(b int) {
		g := grad.Row(b)
		gx := gradInput.Row(b)
		for j := 0; j < c.height; j++ {
			for i := 0; i < c.width; i++ {
				acc := numeric.Zero[T]()
				for ky := 0; ky < K; ky++ {
					for kx := 0; kx < K; kx++ {
						sy, sx := j+K-ky, i+K-kx
						if sx < K || sx >= c.outW+K || sy < K || sy >= c.outH+K {
							continue
						}
						acc = acc.Add(k[ky*K+kx].Mul(g[(sy-K)*c.outW+sx-K]))
					}
				}
				gx[j*c.width+i] = acc
			}
		}
	}, c.parallel)

	// Parameter gradients accumulate sequentially in (b, y, x) order.
	kGrad := Constant(numeric.Zero[T](), K*K)
	gradSum := numeric.Zero[T]()
	for b := 0; b < grad.Size(); b++ {
		in := c.input.Row(b)
		g := grad.Row(b)
		for y := 0; y < c.outH; y++ {
			for x := 0; x < c.outW; x++ {
				gv := g[y*c.outW+x]
				gradSum = gradSum.Add(gv)
				for ky := 0; ky < K; ky++ {
					for kx := 0; kx < K; kx++ {
						kGrad[ky*K+kx] = kGrad[ky*K+kx].Add(in[(y+ky)*c.width+x+kx].Mul(gv))
					}
				}
			}
		}
	}
	if c.batchMean {
		batch := numeric.FromInt[T](grad.Size())
		for i := range kGrad {
			kGrad[i] = kGrad[i].Div(batch)
		}
		gradSum = gradSum.Div(batch)
	}
	c.kernel.SetGrad(kGrad)
	c.kernel.Descend(lr)

	if c.bias != nil {
		c.bias.SetGrad(Constant(gradSum, K*K))
		c.bias.Descend(lr)
	}

	return gradInput, nil
}

// Parameters returns [kernel, bias] if bias is present, otherwise [kernel].
func (c *Convolution[T]) Parameters() []*Parameter[T] {
	if c.bias != nil {
		return []*Parameter[T]{c.kernel, c.bias}
	}
	return []*Parameter[T]{c.kernel}
}

// Kernel returns the kernel parameter.
func (c *Convolution[T]) Kernel() *Parameter[T] {
	return c.kernel
}

// Bias returns the bias parameter, or nil when the layer has none.
func (c *Convolution[T]) Bias() *Parameter[T] {
	return c.bias
}

// SetKernel replaces the kernel with row-major K×K values.
func (c *Convolution[T]) SetKernel(vals []T) error {
	return c.kernel.Set(vals)
}

// SetBias replaces the bias with row-major K×K values.
func (c *Convolution[T]) SetBias(vals []T) error {
	if c.bias == nil {
		return fmt.Errorf("convolution: %w: layer has no bias", ErrInvalidLayer)
	}
	return c.bias.Set(vals)
}

// OutputSize returns the output image dimensions (X, Y).
func (c *Convolution[T]) OutputSize() (width, height int) {
	return c.outW, c.outH
}

// InFeatures returns W*H.
func (c *Convolution[T]) InFeatures() int {
	return c.width * c.height
}

// OutFeatures returns X*Y.
func (c *Convolution[T]) OutFeatures() int {
	return c.outW * c.outH
}
