package convolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/util"
)

func TestNewKernelValidation(t *testing.T) {
	_, err := NewKernel(0, 3, 0, 0, nil)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))

	_, err = NewKernel(3, 3, 0, 0, []float32{1, 2, 3})
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))

	_, err = NewKernel(3, 3, 3, 0, make([]float32, 9))
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))

	_, err = NewKernel(3, 3, 0, -1, make([]float32, 9))
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))

	_, err = Box(0)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))
}

func TestKernelAccessors(t *testing.T) {
	k, err := NewKernel(3, 2, 1, 0, []float32{
		1, 2, 3,
		4, 5, 6,
	})
	assert.Nil(t, err)
	assert.Equal(t, int32(3), k.Width())
	assert.Equal(t, int32(2), k.Height())
	assert.Equal(t, int32(1), k.XOrigin())
	assert.Equal(t, int32(0), k.YOrigin())
	// At is (col, row)
	assert.Equal(t, float32(6), k.At(2, 1))
	assert.Equal(t, float32(2), k.At(1, 0))
}

func TestKernelWeightsAreCopied(t *testing.T) {
	in := []float32{1, 2, 3, 4}
	k, err := NewKernel(2, 2, 0, 0, in)
	assert.Nil(t, err)

	in[0] = 99
	assert.Equal(t, float32(1), k.At(0, 0))

	out := k.Weights()
	out[1] = 99
	assert.Equal(t, float32(2), k.At(1, 0))
}

func TestKernelFromMatrix(t *testing.T) {
	m := util.New2DMatrix[float32](3, 3)
	m.Set(1, 1, 1)
	k, err := NewKernelFromMatrix(m)
	assert.Nil(t, err)
	assert.Equal(t, int32(1), k.XOrigin())
	assert.Equal(t, int32(1), k.YOrigin())
	assert.Equal(t, float32(1), k.At(1, 1))
}

func TestStockKernelsNormalised(t *testing.T) {
	for name, k := range map[string]*Kernel{
		"identity":    Identity(),
		"gaussian3x3": Gaussian3x3(),
		"gaussian5x5": Gaussian5x5(),
		"sharpen":     Sharpen(),
	} {
		var sum float32
		for _, w := range k.Weights() {
			sum += w
		}
		if sum < 0.99 || sum > 1.01 {
			t.Errorf("%s kernel weights sum to %f", name, sum)
		}
	}

	// edge detect sums to zero instead
	var sum float32
	for _, w := range EdgeDetect().Weights() {
		sum += w
	}
	assert.InDelta(t, 0, sum, 1e-5)
}
