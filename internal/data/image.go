package data

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	// Register decoders with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// ImageSet is a labelled collection of flattened grayscale images.
type ImageSet[T numeric.Numeric[T]] struct {
	Inputs  []tensor.Tensor[T] // Row-major Width×Height pixels in [0, 1]
	Labels  []tensor.Tensor[T] // One-hot over Classes
	Classes []string
	Width   int
	Height  int
}

// Dataset wraps the set in a Dataset with the given batch size.
func (s *ImageSet[T]) Dataset(batchSize int, opts ...Option) (*Dataset[T], error) {
	return New(s.Inputs, s.Labels, batchSize, opts...)
}

// DecodeImage decodes any registered image format, converts it to
// grayscale, resamples it to width×height, and scales pixels to [0, 1].
func DecodeImage[T numeric.Numeric[T]](r io.Reader, width, height int) (tensor.Tensor[T], error) {
	if width <= 0 || height <= 0 {
		return tensor.Tensor[T]{}, fmt.Errorf("invalid size: %dx%d", width, height)
	}
	src, _, err := image.Decode(r)
	if err != nil {
		return tensor.Tensor[T]{}, fmt.Errorf("failed to decode image: %w", err)
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(gray, gray.Bounds(), src, src.Bounds(), draw.Src, nil)

	pixels := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		for _, p := range gray.Pix[y*gray.Stride : y*gray.Stride+width] {
			pixels = append(pixels, float64(p)/255)
		}
	}
	return tensor.FromFloat64s[T](pixels...), nil
}

// LoadImage reads and decodes the image at path. See DecodeImage.
func LoadImage[T numeric.Numeric[T]](path string, width, height int) (tensor.Tensor[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return tensor.Tensor[T]{}, err
	}
	defer f.Close()

	t, err := DecodeImage[T](f, width, height)
	if err != nil {
		return tensor.Tensor[T]{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadImageDir loads a directory laid out as root/<class>/<image>.
//
// Class names are the sorted subdirectory names; each image is labelled
// with the one-hot vector of its class. Files are decoded concurrently by
// at most workers goroutines (GOMAXPROCS when workers <= 0). Hidden files
// are skipped. The first decode error cancels the remaining work.
func LoadImageDir[T numeric.Numeric[T]](ctx context.Context, root string, width, height, workers int) (*ImageSet[T], error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var classes []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			classes = append(classes, e.Name())
		}
	}
	sort.Strings(classes)
	if len(classes) == 0 {
		return nil, fmt.Errorf("%s: %w: no class directories", root, ErrEmptyDataset)
	}

	type file struct {
		path  string
		class int
	}
	var files []file
	for c, class := range classes {
		entries, err := os.ReadDir(filepath.Join(root, class))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
				files = append(files, file{path: filepath.Join(root, class, e.Name()), class: c})
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w: no images", root, ErrEmptyDataset)
	}

	set := &ImageSet[T]{
		Inputs:  make([]tensor.Tensor[T], len(files)),
		Labels:  make([]tensor.Tensor[T], len(files)),
		Classes: classes,
		Width:   width,
		Height:  height,
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := LoadImage[T](f.path, width, height)
			if err != nil {
				return err
			}
			set.Inputs[i] = t
			set.Labels[i] = OneHot[T](f.class, len(classes))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("loaded image directory", "root", root, "classes", len(classes), "images", len(files))
	return set, nil
}

// OneHot returns a tensor of length n with a one at index class.
func OneHot[T numeric.Numeric[T]](class, n int) tensor.Tensor[T] {
	t := tensor.Zeros[T](n)
	t.Set(class, numeric.One[T]())
	return t
}
