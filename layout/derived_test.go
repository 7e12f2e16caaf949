package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goraster/rasterkit"
)

func TestPixelGetSet(t *testing.T) {
	l, err := NewComponent(rasterkit.TypeByte, 4, 3, 2, 8, []int32{0, 1})
	assert.Nil(t, err)
	buf, _ := l.NewBuffer()

	SetPixel(l, buf, 2, 1, []int32{11, 22})
	assert.Equal(t, []int32{11, 22}, Pixel(l, buf, 2, 1, nil))
}

func TestPixelsRowMajorOrder(t *testing.T) {
	l, _ := NewComponent(rasterkit.TypeByte, 3, 2, 1, 3, []int32{0})
	buf, _ := l.NewBuffer()

	v := int32(0)
	for y := int32(0); y < 2; y++ {
		for x := int32(0); x < 3; x++ {
			l.SetSample(buf, x, y, 0, v)
			v++
		}
	}
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5}, Pixels(l, buf, 0, 0, 3, 2, nil))
}

func TestSetPixelsRoundTrip(t *testing.T) {
	l, _ := NewComponent(rasterkit.TypeByte, 3, 3, 2, 6, []int32{0, 1})
	buf, _ := l.NewBuffer()

	pix := []int32{1, 2, 3, 4, 5, 6, 7, 8}
	SetPixels(l, buf, 1, 1, 2, 2, pix)
	assert.Equal(t, pix, Pixels(l, buf, 1, 1, 2, 2, nil))
}

func TestSamplesSingleBand(t *testing.T) {
	l, _ := NewComponent(rasterkit.TypeByte, 3, 3, 2, 6, []int32{0, 1})
	buf, _ := l.NewBuffer()

	SetSamples(l, buf, 0, 0, 3, 3, 1, []int32{9, 9, 9, 8, 8, 8, 7, 7, 7})
	got := Samples(l, buf, 0, 1, 3, 2, 1, nil)
	assert.Equal(t, []int32{8, 8, 8, 7, 7, 7}, got)

	// band 0 untouched
	assert.Equal(t, int32(0), l.Sample(buf, 0, 0, 0))
}

func TestFloatAccessorsWiden(t *testing.T) {
	l, _ := NewComponent(rasterkit.TypeByte, 2, 2, 1, 2, []int32{0})
	buf, _ := l.NewBuffer()

	l.SetSample(buf, 1, 1, 0, 200)
	assert.Equal(t, float32(200), SampleFloat32(l, buf, 1, 1, 0))
	assert.Equal(t, float64(200), SampleFloat64(l, buf, 1, 1, 0))

	SetSampleFloat32(l, buf, 0, 0, 0, 42.7)
	assert.Equal(t, int32(42), l.Sample(buf, 0, 0, 0))

	got32 := SamplesFloat32(l, buf, 0, 0, 2, 2, 0, nil)
	assert.Equal(t, float32(42), got32[0])

	got64 := PixelsFloat64(l, buf, 0, 0, 2, 2, nil)
	assert.Equal(t, float64(200), got64[3])
}

func TestDataElementsRectRoundTrip(t *testing.T) {
	l, _ := NewSinglePixelPacked(rasterkit.TypeInt, 3, 3, []uint32{0xFF00, 0x00FF})
	buf, _ := l.NewBuffer()

	for y := int32(0); y < 3; y++ {
		for x := int32(0); x < 3; x++ {
			SetPixel(l, buf, x, y, []int32{x + 1, y + 1})
		}
	}

	snapshot := make([]int32, buf.Size())
	for i := int32(0); i < buf.Size(); i++ {
		snapshot[i] = buf.Elem(i)
	}

	elems := DataElementsRect(l, buf, 0, 0, 3, 3, nil)
	SetDataElementsRect(l, buf, 0, 0, 3, 3, elems)

	for i := int32(0); i < buf.Size(); i++ {
		if buf.Elem(i) != snapshot[i] {
			t.Errorf("element %d changed by round trip: %d != %d", i, buf.Elem(i), snapshot[i])
		}
	}
}

func TestDataElementsRectComponent(t *testing.T) {
	l, _ := NewComponent(rasterkit.TypeByte, 2, 2, 2, 4, []int32{0, 1})
	buf, _ := l.NewBuffer()

	SetPixels(l, buf, 0, 0, 2, 2, []int32{1, 2, 3, 4, 5, 6, 7, 8})

	elems := DataElementsRect(l, buf, 0, 0, 2, 2, nil)
	arr, ok := elems.([]uint8)
	assert.True(t, ok)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8}, arr)
}
