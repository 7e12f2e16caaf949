package layout

import (
	"github.com/goraster/rasterkit/buffer"
)

// The functions in this file are the derived operations: every one of them is
// defined purely in terms of the SampleLayout core, so they work for any
// layout. Layouts able to beat the generic loops implement the unexported
// fast-path interfaces below and are picked up by type assertion.

// pixelsFaster is the fast path for whole-rectangle pixel access. The packed
// layout implements it by reading one stored element per pixel.
type pixelsFaster interface {
	pixelsInto(buf buffer.Buffer, x int32, y int32, w int32, h int32, dst []int32)
	setPixelsFrom(buf buffer.Buffer, x int32, y int32, w int32, h int32, pix []int32)
}

// Pixel reads all band samples of the pixel at (x, y) into dst, allocating
// it when nil.
func Pixel(l SampleLayout, buf buffer.Buffer, x int32, y int32, dst []int32) []int32 {
	n := l.NumBands()
	if dst == nil {
		dst = make([]int32, n)
	}
	for b := int32(0); b < n; b++ {
		dst[b] = l.Sample(buf, x, y, b)
	}
	return dst
}

func SetPixel(l SampleLayout, buf buffer.Buffer, x int32, y int32, pix []int32) {
	for b := int32(0); b < l.NumBands(); b++ {
		l.SetSample(buf, x, y, b, pix[b])
	}
}

// Pixels reads the w*h rectangle at (x, y) into dst, band-interleaved by
// pixel, in row-major order.
func Pixels(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, dst []int32) []int32 {
	n := l.NumBands()
	if dst == nil {
		dst = make([]int32, n*w*h)
	}
	if fast, ok := l.(pixelsFaster); ok {
		fast.pixelsInto(buf, x, y, w, h, dst)
		return dst
	}
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			for b := int32(0); b < n; b++ {
				dst[off] = l.Sample(buf, x+i, y+j, b)
				off++
			}
		}
	}
	return dst
}

func SetPixels(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, pix []int32) {
	if fast, ok := l.(pixelsFaster); ok {
		fast.setPixelsFrom(buf, x, y, w, h, pix)
		return
	}
	n := l.NumBands()
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			for b := int32(0); b < n; b++ {
				l.SetSample(buf, x+i, y+j, b, pix[off])
				off++
			}
		}
	}
}

// Samples reads one band of the w*h rectangle at (x, y), row-major.
func Samples(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, band int32, dst []int32) []int32 {
	if dst == nil {
		dst = make([]int32, w*h)
	}
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			dst[off] = l.Sample(buf, x+i, y+j, band)
			off++
		}
	}
	return dst
}

func SetSamples(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, band int32, samples []int32) {
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			l.SetSample(buf, x+i, y+j, band, samples[off])
			off++
		}
	}
}

// Float accessors widen the integral result; no separate signed
// representation exists at this layer.

func SampleFloat32(l SampleLayout, buf buffer.Buffer, x int32, y int32, band int32) float32 {
	return float32(l.Sample(buf, x, y, band))
}

func SampleFloat64(l SampleLayout, buf buffer.Buffer, x int32, y int32, band int32) float64 {
	return float64(l.Sample(buf, x, y, band))
}

func SetSampleFloat32(l SampleLayout, buf buffer.Buffer, x int32, y int32, band int32, v float32) {
	l.SetSample(buf, x, y, band, int32(v))
}

func SetSampleFloat64(l SampleLayout, buf buffer.Buffer, x int32, y int32, band int32, v float64) {
	l.SetSample(buf, x, y, band, int32(v))
}

func PixelsFloat32(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, dst []float32) []float32 {
	n := l.NumBands()
	if dst == nil {
		dst = make([]float32, n*w*h)
	}
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			for b := int32(0); b < n; b++ {
				dst[off] = float32(l.Sample(buf, x+i, y+j, b))
				off++
			}
		}
	}
	return dst
}

func PixelsFloat64(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, dst []float64) []float64 {
	n := l.NumBands()
	if dst == nil {
		dst = make([]float64, n*w*h)
	}
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			for b := int32(0); b < n; b++ {
				dst[off] = float64(l.Sample(buf, x+i, y+j, b))
				off++
			}
		}
	}
	return dst
}

func SamplesFloat32(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, band int32, dst []float32) []float32 {
	if dst == nil {
		dst = make([]float32, w*h)
	}
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			dst[off] = float32(l.Sample(buf, x+i, y+j, band))
			off++
		}
	}
	return dst
}

func SamplesFloat64(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, band int32, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, w*h)
	}
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			dst[off] = float64(l.Sample(buf, x+i, y+j, band))
			off++
		}
	}
	return dst
}

// DataElementsRect reads the transfer elements of the w*h rectangle at
// (x, y) into dst (allocated when nil), pixel after pixel in row-major order.
func DataElementsRect(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, dst any) any {
	n := l.NumDataElements()
	if dst == nil {
		dst = allocTransfer(l.TransferType(), n*w*h)
	}
	switch arr := dst.(type) {
	case []uint8:
		dataElemsRectInto(l, buf, x, y, w, h, n, arr)
	case []uint16:
		dataElemsRectInto(l, buf, x, y, w, h, n, arr)
	case []int32:
		dataElemsRectInto(l, buf, x, y, w, h, n, arr)
	}
	return dst
}

// SetDataElementsRect writes the transfer elements of the w*h rectangle at
// (x, y) from elems, one pixel at a time. Partial failure exposure is one
// pixel: there is no atomicity guarantee over the rectangle.
func SetDataElementsRect(l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, elems any) {
	switch arr := elems.(type) {
	case []uint8:
		setDataElemsRectFrom(l, buf, x, y, w, h, l.NumDataElements(), arr)
	case []uint16:
		setDataElemsRectFrom(l, buf, x, y, w, h, l.NumDataElements(), arr)
	case []int32:
		setDataElemsRectFrom(l, buf, x, y, w, h, l.NumDataElements(), arr)
	}
}

type element interface {
	~uint8 | ~uint16 | ~int32
}

func dataElemsRectInto[T element](l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, n int32, dst []T) {
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			l.DataElements(buf, x+i, y+j, dst[off:off+n])
			off += n
		}
	}
}

func setDataElemsRectFrom[T element](l SampleLayout, buf buffer.Buffer, x int32, y int32, w int32, h int32, n int32, elems []T) {
	off := int32(0)
	for j := int32(0); j < h; j++ {
		for i := int32(0); i < w; i++ {
			l.SetDataElements(buf, x+i, y+j, elems[off:off+n])
			off += n
		}
	}
}
