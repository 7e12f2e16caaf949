package raster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/layout"
)

func newByteRaster(t *testing.T, w int32, h int32, bands int32) *Raster {
	t.Helper()
	offsets := make([]int32, bands)
	for i := range offsets {
		offsets[i] = int32(i)
	}
	l, err := layout.NewComponent(rasterkit.TypeByte, w, h, bands, w*bands, offsets)
	assert.Nil(t, err)
	r, err := NewWithLayout(l)
	assert.Nil(t, err)
	return r
}

func newPackedRaster(t *testing.T, w int32, h int32) *Raster {
	t.Helper()
	l, err := layout.NewSinglePixelPacked(rasterkit.TypeInt, w, h, []uint32{0xFF0000, 0x00FF00, 0x0000FF})
	assert.Nil(t, err)
	r, err := NewWithLayout(l)
	assert.Nil(t, err)
	return r
}

func TestNewValidatesBufferType(t *testing.T) {
	l, _ := layout.NewComponent(rasterkit.TypeByte, 2, 2, 1, 2, []int32{0})
	lInt, _ := layout.NewSinglePixelPacked(rasterkit.TypeInt, 2, 2, []uint32{0xFF})
	intBuf, _ := lInt.NewBuffer()

	_, err := New(l, intBuf, 0, 0)
	assert.True(t, errors.Is(err, rasterkit.ErrFormat))

	_, err = New(nil, intBuf, 0, 0)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))
}

func TestSampleRoundTrip(t *testing.T) {
	r := newByteRaster(t, 4, 4, 2)

	r.SetSample(2, 3, 1, 77)
	assert.Equal(t, int32(77), r.Sample(2, 3, 1))
	assert.Equal(t, int32(0), r.Sample(2, 3, 0))
}

func TestChildAliasesParent(t *testing.T) {
	parent := newByteRaster(t, 10, 10, 1)

	child, err := parent.CreateChild(2, 3, 4, 4, 100, 200, nil)
	assert.Nil(t, err)
	assert.Equal(t, int32(100), child.MinX())
	assert.Equal(t, int32(4), child.Width())
	assert.Equal(t, parent, child.Parent())
	assert.Equal(t, parent, child.WritableParent())

	// child local (101, 202) is parent (2+1, 3+2)
	child.SetSample(101, 202, 0, 42)
	assert.Equal(t, int32(42), parent.Sample(3, 5, 0))

	// and the other way round
	parent.SetSample(2, 3, 0, 7)
	assert.Equal(t, int32(7), child.Sample(100, 200, 0))
}

func TestChildOfChild(t *testing.T) {
	parent := newByteRaster(t, 8, 8, 1)
	child, err := parent.CreateChild(2, 2, 6, 6, 0, 0, nil)
	assert.Nil(t, err)
	grandchild, err := child.CreateChild(1, 1, 2, 2, 0, 0, nil)
	assert.Nil(t, err)

	grandchild.SetSample(0, 0, 0, 9)
	// grandchild (0,0) = child (1,1) = parent (3,3)
	assert.Equal(t, int32(9), parent.Sample(3, 3, 0))
	assert.Nil(t, grandchild.Parent().Parent().Parent())
}

func TestChildBoundsChecks(t *testing.T) {
	parent := newByteRaster(t, 5, 5, 1)

	cases := []struct {
		name           string
		px, py, w, h   int32
	}{
		{"left", -1, 0, 2, 2},
		{"top", 0, -1, 2, 2},
		{"right", 4, 0, 2, 2},
		{"bottom", 0, 4, 2, 2},
	}
	for _, c := range cases {
		_, err := parent.CreateChild(c.px, c.py, c.w, c.h, 0, 0, nil)
		if !errors.Is(err, rasterkit.ErrFormat) {
			t.Errorf("%s: expected format error, got %v", c.name, err)
		}
	}

	_, err := parent.CreateChild(0, 0, 0, 2, 0, 0, nil)
	assert.True(t, errors.Is(err, rasterkit.ErrInvalidArgument))
}

func TestChildBandSubset(t *testing.T) {
	parent := newPackedRaster(t, 4, 4)
	parent.SetPixel(1, 1, []int32{10, 20, 30})

	child, err := parent.CreateChild(0, 0, 4, 4, 0, 0, []int32{2})
	assert.Nil(t, err)
	assert.Equal(t, int32(1), child.NumBands())
	assert.Equal(t, int32(30), child.Sample(1, 1, 0))

	// writes through the subset land in the parent's band
	child.SetSample(1, 1, 0, 99)
	assert.Equal(t, int32(99), parent.Sample(1, 1, 2))
	assert.Equal(t, int32(10), parent.Sample(1, 1, 0))
}

func TestChildBandSubsetTooLarge(t *testing.T) {
	parent := newPackedRaster(t, 4, 4)
	_, err := parent.CreateChild(0, 0, 2, 2, 0, 0, []int32{0, 1, 2, 0})
	assert.True(t, errors.Is(err, rasterkit.ErrFormat))
}

func TestCompatibleRaster(t *testing.T) {
	r := newPackedRaster(t, 4, 4)
	r.SetSample(0, 0, 0, 5)

	c, err := r.CompatibleRaster(6, 2)
	assert.Nil(t, err)
	assert.Equal(t, int32(6), c.Width())
	assert.Equal(t, int32(2), c.Height())
	assert.Equal(t, r.NumBands(), c.NumBands())
	// fresh zero-filled storage, not aliased
	assert.Equal(t, int32(0), c.Sample(0, 0, 0))
}

func TestSetRect(t *testing.T) {
	src := newByteRaster(t, 3, 3, 1)
	dst := newByteRaster(t, 5, 5, 1)

	v := int32(1)
	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			src.SetSample(x, y, 0, v)
			v++
		}
	}

	dst.SetRect(1, 2, src)
	assert.Equal(t, int32(1), dst.Sample(1, 2, 0))
	assert.Equal(t, int32(9), dst.Sample(3, 4, 0))
	assert.Equal(t, int32(0), dst.Sample(0, 0, 0))
}

func TestSetRectClips(t *testing.T) {
	src := newByteRaster(t, 3, 3, 1)
	dst := newByteRaster(t, 3, 3, 1)
	src.Fill(0, 8)

	// shifted partly off the destination
	dst.SetRect(2, 2, src)
	assert.Equal(t, int32(8), dst.Sample(2, 2, 0))
	assert.Equal(t, int32(0), dst.Sample(0, 0, 0))
	assert.Equal(t, int32(0), dst.Sample(1, 2, 0))

	// fully off: no-op
	dst2 := newByteRaster(t, 3, 3, 1)
	dst2.SetRect(10, 10, src)
	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			assert.Equal(t, int32(0), dst2.Sample(x, y, 0))
		}
	}
}

func TestSetRectTruncatesWideSamples(t *testing.T) {
	// 16 bit source samples into an 8 bit destination band
	lSrc, _ := layout.NewComponent(rasterkit.TypeUShort, 2, 1, 1, 2, []int32{0})
	src, _ := NewWithLayout(lSrc)
	src.SetSample(0, 0, 0, 0x1234)

	dst := newByteRaster(t, 2, 1, 1)
	dst.SetRect(0, 0, src)

	// high bits silently dropped, zero-extension convention
	assert.Equal(t, int32(0x34), dst.Sample(0, 0, 0))
}

func TestSetDataElementsFrom(t *testing.T) {
	src := newPackedRaster(t, 3, 2)
	dst := newPackedRaster(t, 5, 5)

	src.SetPixel(2, 1, []int32{1, 2, 3})
	dst.SetDataElementsFrom(1, 1, src)

	assert.Equal(t, []int32{1, 2, 3}, dst.Pixel(3, 2, nil))
}

func TestPixelsThroughChildTranslation(t *testing.T) {
	parent := newPackedRaster(t, 4, 4)
	for y := int32(0); y < 4; y++ {
		for x := int32(0); x < 4; x++ {
			parent.SetPixel(x, y, []int32{x, y, x + y})
		}
	}

	child, _ := parent.CreateChild(1, 1, 2, 2, 0, 0, nil)
	pix := child.Pixels(0, 0, 2, 2, nil)
	// first pixel of the child is parent (1,1)
	assert.Equal(t, []int32{1, 1, 2}, pix[:3])
	// last is parent (2,2)
	assert.Equal(t, []int32{2, 2, 4}, pix[9:])
}

func TestFill(t *testing.T) {
	r := newByteRaster(t, 3, 3, 2)
	r.Fill(1, 200)

	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			assert.Equal(t, int32(200), r.Sample(x, y, 1))
			assert.Equal(t, int32(0), r.Sample(x, y, 0))
		}
	}
}

func TestBounds(t *testing.T) {
	r := newByteRaster(t, 4, 3, 1)
	b := r.Bounds()
	assert.Equal(t, Rect{MinX: 0, MinY: 0, Width: 4, Height: 3}, b)
}
