package convolve

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/image"
	"github.com/goraster/rasterkit/layout"
	"github.com/goraster/rasterkit/raster"
)

func newByteRaster(t *testing.T, w int32, h int32, bands int32) *raster.Raster {
	t.Helper()
	offsets := make([]int32, bands)
	for i := range offsets {
		offsets[i] = int32(i)
	}
	l, err := layout.NewComponent(rasterkit.TypeByte, w, h, bands, w*bands, offsets)
	assert.Nil(t, err)
	r, err := raster.NewWithLayout(l)
	assert.Nil(t, err)
	return r
}

// centeredIdentity3x3 passes samples through but still has a 1 pixel border.
func centeredIdentity3x3(t *testing.T) *Kernel {
	t.Helper()
	k, err := NewCenteredKernel(3, 3, []float32{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	})
	assert.Nil(t, err)
	return k
}

func TestIdentityKernelReproducesSource(t *testing.T) {
	src := newByteRaster(t, 5, 4, 1)
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 5; x++ {
			src.SetSample(x, y, 0, (y*5+x)%256)
		}
	}

	for _, edge := range []EdgeMode{EdgeZeroFill, EdgeNoOp} {
		f, err := New(Identity(), edge, nil)
		assert.Nil(t, err)
		dst, err := f.FilterRaster(src, nil)
		assert.Nil(t, err)
		// a 1x1 kernel has no border ring, both modes match the source
		for y := int32(0); y < 4; y++ {
			for x := int32(0); x < 5; x++ {
				if dst.Sample(x, y, 0) != src.Sample(x, y, 0) {
					t.Fatalf("edge %v: (%d,%d) = %d, want %d",
						edge, x, y, dst.Sample(x, y, 0), src.Sample(x, y, 0))
				}
			}
		}
	}
}

func TestZeroFillBorder(t *testing.T) {
	src := newByteRaster(t, 4, 4, 1)
	src.Fill(0, 10)

	f, err := New(centeredIdentity3x3(t), EdgeZeroFill, nil)
	assert.Nil(t, err)
	dst, err := f.FilterRaster(src, nil)
	assert.Nil(t, err)

	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			want := int32(0)
			if x >= 1 && x < 3 && y >= 1 && y < 3 {
				want = 10
			}
			if dst.Sample(x, y, 0) != want {
				t.Errorf("(%d,%d) = %d, want %d", x, y, dst.Sample(x, y, 0), want)
			}
		}
	}
}

func TestNoOpBorder(t *testing.T) {
	src := newByteRaster(t, 4, 4, 1)
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			src.SetSample(x, y, 0, 10*(y*4+x))
		}
	}

	f, err := New(centeredIdentity3x3(t), EdgeNoOp, nil)
	assert.Nil(t, err)
	dst, err := f.FilterRaster(src, nil)
	assert.Nil(t, err)

	// pass-through kernel plus copied border: everything equals the source
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			assert.Equal(t, src.Sample(x, y, 0), dst.Sample(x, y, 0))
		}
	}
}

func TestBoxBlurAverages(t *testing.T) {
	src := newByteRaster(t, 3, 3, 1)
	src.SetSample(1, 1, 0, 90)

	box, err := Box(3)
	assert.Nil(t, err)
	f, err := New(box, EdgeZeroFill, nil)
	assert.Nil(t, err)
	dst, err := f.FilterRaster(src, nil)
	assert.Nil(t, err)

	// 90/9 = 10 at the single interior pixel
	assert.Equal(t, int32(10), dst.Sample(1, 1, 0))
	assert.Equal(t, int32(0), dst.Sample(0, 0, 0))
}

func TestFilterRasterArguments(t *testing.T) {
	src := newByteRaster(t, 4, 4, 1)
	f, err := New(Identity(), EdgeZeroFill, nil)
	assert.Nil(t, err)

	_, err = f.FilterRaster(nil, nil)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))

	_, err = f.FilterRaster(src, src)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))

	_, err = f.FilterRaster(src, newByteRaster(t, 4, 4, 3))
	assert.True(t, errors.Is(err, rasterkit.ErrMismatchedBands))

	_, err = f.FilterRaster(src, newByteRaster(t, 5, 4, 1))
	assert.True(t, errors.Is(err, rasterkit.ErrFormat))
}

func TestResultsClamped(t *testing.T) {
	src := newByteRaster(t, 3, 3, 1)
	src.Fill(0, 200)

	gain, err := NewKernel(1, 1, 0, 0, []float32{3})
	assert.Nil(t, err)
	f, err := New(gain, EdgeZeroFill, nil)
	assert.Nil(t, err)
	dst, err := f.FilterRaster(src, nil)
	assert.Nil(t, err)
	assert.Equal(t, int32(255), dst.Sample(1, 1, 0))

	negate, err := NewKernel(1, 1, 0, 0, []float32{-1})
	assert.Nil(t, err)
	f, err = New(negate, EdgeZeroFill, nil)
	assert.Nil(t, err)
	dst, err = f.FilterRaster(src, nil)
	assert.Nil(t, err)
	assert.Equal(t, int32(0), dst.Sample(1, 1, 0))
}

// Both backends must produce the same integer output for the same job,
// sample for sample. Accumulator rounding is where they can drift apart
// (a fused multiply-add rounds differently from mul-then-add and shifts
// values sitting right on an integer boundary), so this runs pseudo-random
// data at a size where any such drift shows up in thousands of pixels.
func TestScalarVectorParity(t *testing.T) {
	const w, h, bands = 256, 256, 3

	src := newByteRaster(t, w, h, bands)
	seed := uint32(1)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			for b := int32(0); b < bands; b++ {
				seed = seed*1664525 + 1013904223
				src.SetSample(x, y, b, int32(seed>>24))
			}
		}
	}

	vec := NewVectorBackend(2)
	defer vec.Close()

	for _, k := range []*Kernel{Gaussian3x3(), Gaussian5x5(), Sharpen()} {
		scalarF, err := NewWithBackends(k, EdgeNoOp, nil, NewScalarBackend())
		assert.Nil(t, err)
		vectorF, err := NewWithBackends(k, EdgeNoOp, nil, vec)
		assert.Nil(t, err)

		want, err := scalarF.FilterRaster(src, nil)
		assert.Nil(t, err)
		got, err := vectorF.FilterRaster(src, nil)
		assert.Nil(t, err)

		for b := int32(0); b < bands; b++ {
			for y := int32(0); y < h; y++ {
				wantRow := want.Samples(0, y, w, 1, b, nil)
				gotRow := got.Samples(0, y, w, 1, b, nil)
				for x := int32(0); x < w; x++ {
					if wantRow[x] != gotRow[x] {
						t.Fatalf("%dx%d kernel band %d (%d,%d): scalar=%d vector=%d",
							k.Width(), k.Height(), b, x, y, wantRow[x], gotRow[x])
					}
				}
			}
		}
	}
}

func TestVectorDeclinesDegenerateInterior(t *testing.T) {
	vec := NewVectorBackend(1)
	defer vec.Close()

	src := newByteRaster(t, 2, 2, 1)
	src.Fill(0, 7)
	dst := newByteRaster(t, 2, 2, 1)

	job := &Job{Kernel: centeredIdentity3x3(t), Edge: EdgeNoOp, Src: src, Dst: dst}
	err := vec.Convolve(job)
	assert.True(t, errors.Is(err, ErrUnsupported))

	// the full chain still completes via the scalar terminator
	f, err := New(centeredIdentity3x3(t), EdgeNoOp, nil)
	assert.Nil(t, err)
	out, err := f.FilterRaster(src, nil)
	assert.Nil(t, err)
	assert.Equal(t, int32(7), out.Sample(0, 0, 0))
}

type recordingBackend struct {
	name   string
	err    error
	called bool
}

func (r *recordingBackend) Name() string { return r.name }

func (r *recordingBackend) Convolve(job *Job) error {
	r.called = true
	return r.err
}

func TestBackendChainFallsThrough(t *testing.T) {
	src := newByteRaster(t, 4, 4, 1)
	src.Fill(0, 10)

	declining := &recordingBackend{name: "declining", err: fmt.Errorf("no int32: %w", ErrUnsupported)}
	failing := &recordingBackend{name: "failing", err: errors.New("device lost")}

	f, err := NewWithBackends(Identity(), EdgeZeroFill, nil, declining, failing, NewScalarBackend())
	assert.Nil(t, err)
	dst, err := f.FilterRaster(src, nil)
	assert.Nil(t, err)
	assert.True(t, declining.called)
	assert.True(t, failing.called)
	assert.Equal(t, int32(10), dst.Sample(2, 2, 0))
}

func TestEmptyBackendChain(t *testing.T) {
	f, err := NewWithBackends(Identity(), EdgeZeroFill, nil)
	assert.Nil(t, err)
	_, err = f.FilterRaster(newByteRaster(t, 2, 2, 1), nil)
	assert.True(t, errors.Is(err, rasterkit.ErrOperationFailed))
}

func newRGBAImage(t *testing.T, w int32, h int32) *image.Image {
	t.Helper()
	im, err := image.New(newByteRaster(t, w, h, 4), image.ColourInfo{
		NumComponents: 3,
		AlphaBand:     3,
		Space:         image.SpaceSRGB,
	})
	assert.Nil(t, err)
	return im
}

func TestFilterImageTransparentPixelsDoNotBleed(t *testing.T) {
	// opaque black everywhere except a fully transparent loud centre
	src := newRGBAImage(t, 3, 3)
	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			src.Raster.SetPixel(x, y, []int32{0, 0, 0, 255})
		}
	}
	src.Raster.SetPixel(1, 1, []int32{255, 255, 255, 0})

	box, err := Box(3)
	assert.Nil(t, err)
	f, err := New(box, EdgeNoOp, nil)
	assert.Nil(t, err)

	out, err := f.FilterImage(src, nil)
	assert.Nil(t, err)

	// straight alpha convention preserved, transparent colour not smeared in
	assert.False(t, out.Info.Premultiplied)
	assert.Equal(t, int32(0), out.Raster.Sample(1, 1, 0))
	// 8 of 9 neighbours opaque
	a := out.Raster.Sample(1, 1, 3)
	if a < 225 || a > 227 {
		t.Errorf("blurred alpha = %d, want about 226", a)
	}
	// source untouched
	assert.Equal(t, []int32{255, 255, 255, 0}, src.Raster.Pixel(1, 1, nil))
}

func TestFilterImageDropsAlphaForOpaqueDest(t *testing.T) {
	src := newRGBAImage(t, 3, 3)
	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			src.Raster.SetPixel(x, y, []int32{120, 60, 30, 255})
		}
	}

	dst, err := image.New(newByteRaster(t, 3, 3, 3), image.ColourInfo{
		NumComponents: 3,
		AlphaBand:     -1,
		Space:         image.SpaceSRGB,
	})
	assert.Nil(t, err)

	f, err := New(Identity(), EdgeNoOp, nil)
	assert.Nil(t, err)
	out, err := f.FilterImage(src, dst)
	assert.Nil(t, err)
	assert.Equal(t, []int32{120, 60, 30}, out.Raster.Pixel(1, 1, nil))
}

func TestFilterImageFillsOpaqueAlpha(t *testing.T) {
	src, err := image.New(newByteRaster(t, 2, 2, 3), image.ColourInfo{
		NumComponents: 3,
		AlphaBand:     -1,
		Space:         image.SpaceSRGB,
	})
	assert.Nil(t, err)
	src.Raster.SetPixel(0, 0, []int32{1, 2, 3})

	dst := newRGBAImage(t, 2, 2)
	f, err := New(Identity(), EdgeNoOp, nil)
	assert.Nil(t, err)
	_, err = f.FilterImage(src, dst)
	assert.Nil(t, err)
	assert.Equal(t, []int32{1, 2, 3, 255}, dst.Raster.Pixel(0, 0, nil))
}

func TestFilterImageConverterRoute(t *testing.T) {
	src := newRGBAImage(t, 2, 2)
	for y := int32(0); y < 2; y++ {
		for x := int32(0); x < 2; x++ {
			src.Raster.SetPixel(x, y, []int32{0, 255, 0, 255})
		}
	}

	grayLayout, err := layout.NewComponent(rasterkit.TypeByte, 2, 2, 1, 2, []int32{0})
	assert.Nil(t, err)
	grayRaster, err := raster.NewWithLayout(grayLayout)
	assert.Nil(t, err)
	dst, err := image.New(grayRaster, image.ColourInfo{
		NumComponents: 1,
		AlphaBand:     -1,
		Space:         image.SpaceGray,
	})
	assert.Nil(t, err)

	f, err := New(Identity(), EdgeNoOp, nil)
	assert.Nil(t, err)
	_, err = f.FilterImage(src, dst)
	assert.Nil(t, err)

	// pure green lands as a bright but not full-scale luminance
	v := dst.Raster.Sample(0, 0, 0)
	if v < 100 || v > 250 {
		t.Errorf("green luminance = %d", v)
	}
}

func TestFilterImageInPlaceRejected(t *testing.T) {
	src := newRGBAImage(t, 2, 2)
	other := &image.Image{Raster: src.Raster, Info: src.Info}

	f, err := New(Identity(), EdgeNoOp, nil)
	assert.Nil(t, err)
	_, err = f.FilterImage(src, other)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))
}
