// Package raster binds a sample layout to a pixel buffer, adding a
// coordinate origin and parent/child views. A child raster aliases its
// parent's buffer through a translated coordinate window; no pixel data is
// ever copied when a child is created.
//
// Nothing here is synchronized. Every raster sharing a buffer sees every
// write immediately, so concurrent mutation of any raster on a shared buffer
// while another goroutine touches that buffer is a data race the caller must
// prevent (single writer, or one lock per buffer).
package raster

import (
	"fmt"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/buffer"
	"github.com/goraster/rasterkit/layout"
	"github.com/goraster/rasterkit/util"
)

// Rect is a raster's owning rectangle in its own coordinate space.
type Rect struct {
	MinX   int32
	MinY   int32
	Width  int32
	Height int32
}

// Raster addresses pixels of a buffer through a layout. The translation
// fields map layout-local coordinates to the raster's own coordinate space;
// child rasters carry a non-owning back-reference to their parent, used for
// traversal only. The buffer lives as long as any raster referencing it.
type Raster struct {
	layout layout.SampleLayout
	buf    buffer.Buffer

	minX   int32
	minY   int32
	width  int32
	height int32

	// layout (0,0) corresponds to raster (translateX, translateY)
	translateX int32
	translateY int32

	parent *Raster
}

// New binds layout and buffer into a raster whose upper-left corner is
// (minX, minY). The buffer's storage type must match the layout's.
func New(l layout.SampleLayout, buf buffer.Buffer, minX int32, minY int32) (*Raster, error) {
	if l == nil || buf == nil {
		return nil, fmt.Errorf("nil layout or buffer: %w", rasterkit.ErrInvalidArgument)
	}
	if buf.DataType() != l.DataType() {
		return nil, fmt.Errorf("buffer type %v does not match layout type %v: %w",
			buf.DataType(), l.DataType(), rasterkit.ErrFormat)
	}
	return &Raster{
		layout:     l,
		buf:        buf,
		minX:       minX,
		minY:       minY,
		width:      l.Width(),
		height:     l.Height(),
		translateX: minX,
		translateY: minY,
	}, nil
}

// NewWithLayout allocates a fresh zero-filled buffer for the layout and binds
// it at origin (0, 0).
func NewWithLayout(l layout.SampleLayout) (*Raster, error) {
	if l == nil {
		return nil, fmt.Errorf("nil layout: %w", rasterkit.ErrInvalidArgument)
	}
	buf, err := l.NewBuffer()
	if err != nil {
		return nil, err
	}
	return New(l, buf, 0, 0)
}

func (r *Raster) Layout() layout.SampleLayout { return r.layout }
func (r *Raster) Buffer() buffer.Buffer       { return r.buf }
func (r *Raster) MinX() int32                 { return r.minX }
func (r *Raster) MinY() int32                 { return r.minY }
func (r *Raster) Width() int32                { return r.width }
func (r *Raster) Height() int32               { return r.height }
func (r *Raster) NumBands() int32             { return r.layout.NumBands() }
func (r *Raster) TranslateX() int32           { return r.translateX }
func (r *Raster) TranslateY() int32           { return r.translateY }

func (r *Raster) Bounds() Rect {
	return Rect{MinX: r.minX, MinY: r.minY, Width: r.width, Height: r.height}
}

// Parent returns the raster this one was carved out of, or nil. The
// reference is for traversal; it never controls the buffer's lifetime.
func (r *Raster) Parent() *Raster { return r.parent }

// WritableParent is Parent; every raster in this package is writable.
func (r *Raster) WritableParent() *Raster { return r.parent }

// CreateChild returns a view of the rectangle (parentX, parentY, width,
// height) of this raster, re-originated at (childMinX, childMinY). The child
// aliases this raster's buffer. A non-nil bands slice restricts the child to
// those bands, renumbered contiguously.
func (r *Raster) CreateChild(parentX int32, parentY int32, width int32, height int32, childMinX int32, childMinY int32, bands []int32) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("child dimensions %dx%d must be positive: %w", width, height, rasterkit.ErrInvalidArgument)
	}
	if parentX < r.minX {
		return nil, fmt.Errorf("child left edge %d outside parent: %w", parentX, rasterkit.ErrFormat)
	}
	if parentY < r.minY {
		return nil, fmt.Errorf("child top edge %d outside parent: %w", parentY, rasterkit.ErrFormat)
	}
	if parentX+width > r.minX+r.width {
		return nil, fmt.Errorf("child right edge %d outside parent: %w", parentX+width, rasterkit.ErrFormat)
	}
	if parentY+height > r.minY+r.height {
		return nil, fmt.Errorf("child bottom edge %d outside parent: %w", parentY+height, rasterkit.ErrFormat)
	}

	childLayout := r.layout
	if bands != nil {
		// Subset the live layout rather than a compatible copy so a
		// custom scanline stride keeps addressing the shared buffer.
		var err error
		childLayout, err = r.layout.SubsetLayout(bands)
		if err != nil {
			return nil, err
		}
	}

	return &Raster{
		layout:     childLayout,
		buf:        r.buf,
		minX:       childMinX,
		minY:       childMinY,
		width:      width,
		height:     height,
		translateX: r.translateX + childMinX - parentX,
		translateY: r.translateY + childMinY - parentY,
		parent:     r,
	}, nil
}

// CompatibleRaster allocates a zero-filled raster of the given extent with a
// layout of the same kind and format as this one, at origin (0, 0).
func (r *Raster) CompatibleRaster(width int32, height int32) (*Raster, error) {
	l, err := r.layout.CompatibleLayout(width, height)
	if err != nil {
		return nil, err
	}
	return NewWithLayout(l)
}

// Pixel access. All coordinates are in the raster's own space; the
// translation is subtracted before the layout is consulted.

func (r *Raster) Sample(x int32, y int32, band int32) int32 {
	return r.layout.Sample(r.buf, x-r.translateX, y-r.translateY, band)
}

func (r *Raster) SetSample(x int32, y int32, band int32, v int32) {
	r.layout.SetSample(r.buf, x-r.translateX, y-r.translateY, band, v)
}

func (r *Raster) SampleFloat32(x int32, y int32, band int32) float32 {
	return layout.SampleFloat32(r.layout, r.buf, x-r.translateX, y-r.translateY, band)
}

func (r *Raster) SampleFloat64(x int32, y int32, band int32) float64 {
	return layout.SampleFloat64(r.layout, r.buf, x-r.translateX, y-r.translateY, band)
}

func (r *Raster) Pixel(x int32, y int32, dst []int32) []int32 {
	return layout.Pixel(r.layout, r.buf, x-r.translateX, y-r.translateY, dst)
}

func (r *Raster) SetPixel(x int32, y int32, pix []int32) {
	layout.SetPixel(r.layout, r.buf, x-r.translateX, y-r.translateY, pix)
}

func (r *Raster) Pixels(x int32, y int32, w int32, h int32, dst []int32) []int32 {
	return layout.Pixels(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, dst)
}

func (r *Raster) SetPixels(x int32, y int32, w int32, h int32, pix []int32) {
	layout.SetPixels(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, pix)
}

func (r *Raster) Samples(x int32, y int32, w int32, h int32, band int32, dst []int32) []int32 {
	return layout.Samples(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, band, dst)
}

func (r *Raster) SetSamples(x int32, y int32, w int32, h int32, band int32, samples []int32) {
	layout.SetSamples(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, band, samples)
}

func (r *Raster) SamplesFloat32(x int32, y int32, w int32, h int32, band int32, dst []float32) []float32 {
	return layout.SamplesFloat32(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, band, dst)
}

func (r *Raster) DataElements(x int32, y int32, dst any) any {
	return r.layout.DataElements(r.buf, x-r.translateX, y-r.translateY, dst)
}

func (r *Raster) SetDataElements(x int32, y int32, elems any) {
	r.layout.SetDataElements(r.buf, x-r.translateX, y-r.translateY, elems)
}

func (r *Raster) DataElementsRect(x int32, y int32, w int32, h int32, dst any) any {
	return layout.DataElementsRect(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, dst)
}

func (r *Raster) SetDataElementsRect(x int32, y int32, w int32, h int32, elems any) {
	layout.SetDataElementsRect(r.layout, r.buf, x-r.translateX, y-r.translateY, w, h, elems)
}

// SetRect copies sample values from src into this raster, band for band by
// position, with src's rectangle shifted by (dx, dy). The copy is clipped to
// this raster's bounds and proceeds one scanline per band at a time, so a
// failure partway through leaves earlier rows written. Samples wider than
// the destination band are silently truncated; narrower samples are
// zero-extended (samples are unsigned throughout this library).
func (r *Raster) SetRect(dx int32, dy int32, src *Raster) {
	x0 := util.Max(src.minX+dx, r.minX)
	y0 := util.Max(src.minY+dy, r.minY)
	x1 := util.Min(src.minX+src.width+dx, r.minX+r.width)
	y1 := util.Min(src.minY+src.height+dy, r.minY+r.height)
	w := x1 - x0
	h := y1 - y0
	if w <= 0 || h <= 0 {
		return
	}

	bands := util.Min(r.NumBands(), src.NumBands())
	row := make([]int32, w)
	for b := int32(0); b < bands; b++ {
		for j := int32(0); j < h; j++ {
			src.Samples(x0-dx, y0-dy+j, w, 1, b, row)
			r.SetSamples(x0, y0+j, w, 1, b, row)
		}
	}
}

// SetDataElementsFrom copies src's whole extent into this raster with src's
// origin landing at (x, y), moving raw transfer elements row by row. This is
// the fast path for format-identical rasters: both layouts must share band
// count, per-band bit depths and transfer type. That compatibility is a
// caller contract, not checked here; mismatched layouts panic on the
// transfer-element type assertion.
func (r *Raster) SetDataElementsFrom(x int32, y int32, src *Raster) {
	var row any
	for j := int32(0); j < src.height; j++ {
		row = src.DataElementsRect(src.minX, src.minY+j, src.width, 1, row)
		r.SetDataElementsRect(x, y+j, src.width, 1, row)
	}
}

// Fill sets every sample of one band to v.
func (r *Raster) Fill(band int32, v int32) {
	row := make([]int32, r.width)
	util.FillInt32(row, 0, r.width, v)
	for j := int32(0); j < r.height; j++ {
		r.SetSamples(r.minX, r.minY+j, r.width, 1, band, row)
	}
}
