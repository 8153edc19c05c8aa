package data

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/alan/internal/numeric"
	"github.com/born-ml/alan/internal/tensor"
)

// IDX magic numbers for unsigned-byte image and label files.
const (
	idxImagesMagic = 0x00000803
	idxLabelsMagic = 0x00000801
)

// ReadIDXImages reads an IDX image file.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
//
// Reads at most limit images when limit > 0.
func ReadIDXImages(r io.Reader, limit int) (images [][]byte, rows, cols int, err error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxImagesMagic {
		return nil, 0, 0, fmt.Errorf("invalid magic number: got %d, want %d", header[0], idxImagesMagic)
	}

	n := int(header[1])
	if limit > 0 && n > limit {
		n = limit
	}
	rows, cols = int(header[2]), int(header[3])

	images = make([][]byte, n)
	for i := range images {
		images[i] = make([]byte, rows*cols)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, rows, cols, nil
}

// ReadIDXLabels reads an IDX label file.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes
//
// Reads at most limit labels when limit > 0.
func ReadIDXLabels(r io.Reader, limit int) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("invalid magic number: got %d, want %d", header[0], idxLabelsMagic)
	}

	n := int(header[1])
	if limit > 0 && n > limit {
		n = limit
	}
	labels := make([]byte, n)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

// LoadIDX loads an IDX image/label file pair as an ImageSet with pixels
// scaled to [0, 1] and one-hot labels over classes.
func LoadIDX[T numeric.Numeric[T]](imagesPath, labelsPath string, classes, limit int) (*ImageSet[T], error) {
	images, rows, cols, err := readIDXFile(imagesPath, func(r io.Reader) ([][]byte, int, int, error) {
		return ReadIDXImages(r, limit)
	})
	if err != nil {
		return nil, err
	}
	labels, _, _, err := readIDXFile(labelsPath, func(r io.Reader) ([]byte, int, int, error) {
		l, err := ReadIDXLabels(r, limit)
		return l, 0, 0, err
	})
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("idx: %w: %d images, %d labels", ErrLengthMismatch, len(images), len(labels))
	}

	set := &ImageSet[T]{
		Inputs:  make([]tensor.Tensor[T], len(images)),
		Labels:  make([]tensor.Tensor[T], len(labels)),
		Classes: make([]string, classes),
		Width:   cols,
		Height:  rows,
	}
	for c := range set.Classes {
		set.Classes[c] = fmt.Sprint(c)
	}
	for i, img := range images {
		if int(labels[i]) >= classes {
			return nil, fmt.Errorf("idx: label %d of sample %d out of range [0, %d)", labels[i], i, classes)
		}
		pixels := make([]float64, len(img))
		for j, p := range img {
			pixels[j] = float64(p) / 255
		}
		set.Inputs[i] = tensor.FromFloat64s[T](pixels...)
		set.Labels[i] = OneHot[T](int(labels[i]), classes)
	}
	return set, nil
}

func readIDXFile[V any](path string, read func(io.Reader) (V, int, int, error)) (V, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero V
		return zero, 0, 0, err
	}
	defer f.Close()

	v, rows, cols, err := read(bufio.NewReader(f))
	if err != nil {
		return v, 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	return v, rows, cols, nil
}
