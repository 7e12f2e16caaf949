package convolve

import (
	"fmt"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/util"
)

// Kernel is a 2D convolution matrix with an anchor (the cell aligned with
// the output pixel being computed). Weights are float32, row-major.
type Kernel struct {
	width   int32
	height  int32
	xOrigin int32
	yOrigin int32
	weights []float32
}

// NewKernel builds a kernel from a flat row-major weight slice. The anchor
// must lie inside the kernel and len(weights) must equal width*height.
func NewKernel(width int32, height int32, xOrigin int32, yOrigin int32, weights []float32) (*Kernel, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("kernel dimensions %dx%d must be positive: %w", width, height, rasterkit.ErrInvalidArgument)
	}
	if int32(len(weights)) != width*height {
		return nil, fmt.Errorf("%d weights for a %dx%d kernel: %w", len(weights), width, height, rasterkit.ErrInvalidArgument)
	}
	if xOrigin < 0 || xOrigin >= width || yOrigin < 0 || yOrigin >= height {
		return nil, fmt.Errorf("anchor (%d,%d) outside %dx%d kernel: %w", xOrigin, yOrigin, width, height, rasterkit.ErrInvalidArgument)
	}
	k := &Kernel{
		width:   width,
		height:  height,
		xOrigin: xOrigin,
		yOrigin: yOrigin,
		weights: make([]float32, len(weights)),
	}
	copy(k.weights, weights)
	return k, nil
}

// NewCenteredKernel anchors the kernel at (width/2, height/2).
func NewCenteredKernel(width int32, height int32, weights []float32) (*Kernel, error) {
	return NewKernel(width, height, width/2, height/2, weights)
}

// NewKernelFromMatrix adopts a matrix's contents as centered kernel weights.
func NewKernelFromMatrix(m *util.Matrix[float32]) (*Kernel, error) {
	return NewCenteredKernel(m.Width, m.Height, m.Data)
}

func (k *Kernel) Width() int32   { return k.width }
func (k *Kernel) Height() int32  { return k.height }
func (k *Kernel) XOrigin() int32 { return k.xOrigin }
func (k *Kernel) YOrigin() int32 { return k.yOrigin }

func (k *Kernel) At(col int32, row int32) float32 {
	return k.weights[row*k.width+col]
}

// Weights returns a copy of the flat weight slice.
func (k *Kernel) Weights() []float32 {
	out := make([]float32, len(k.weights))
	copy(out, k.weights)
	return out
}

// Stock kernels.

// Identity passes every sample through unchanged.
func Identity() *Kernel {
	k, _ := NewKernel(1, 1, 0, 0, []float32{1})
	return k
}

// Box is an n x n mean filter.
func Box(n int32) (*Kernel, error) {
	if n <= 0 {
		return nil, fmt.Errorf("box size %d must be positive: %w", n, rasterkit.ErrInvalidArgument)
	}
	w := make([]float32, n*n)
	v := 1.0 / float32(n*n)
	for i := range w {
		w[i] = v
	}
	return NewCenteredKernel(n, n, w)
}

func Gaussian3x3() *Kernel {
	k, _ := NewCenteredKernel(3, 3, []float32{
		1.0 / 16, 2.0 / 16, 1.0 / 16,
		2.0 / 16, 4.0 / 16, 2.0 / 16,
		1.0 / 16, 2.0 / 16, 1.0 / 16,
	})
	return k
}

// Gaussian5x5 approximates sigma 1.4.
func Gaussian5x5() *Kernel {
	k, _ := NewCenteredKernel(5, 5, []float32{
		2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159,
		4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159,
		5.0 / 159, 12.0 / 159, 15.0 / 159, 12.0 / 159, 5.0 / 159,
		4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159,
		2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159,
	})
	return k
}

// Sharpen is a mild sharpening kernel.
func Sharpen() *Kernel {
	k, _ := NewCenteredKernel(3, 3, []float32{
		0, -0.5, 0,
		-0.5, 3, -0.5,
		0, -0.5, 0,
	})
	return k
}

// EdgeDetect is the 8-connected Laplacian.
func EdgeDetect() *Kernel {
	k, _ := NewCenteredKernel(3, 3, []float32{
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	})
	return k
}
