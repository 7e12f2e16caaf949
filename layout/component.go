package layout

import (
	"fmt"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/buffer"
)

// ComponentLayout stores one buffer element per sample. Pixel stride and
// scanline stride describe the element distance between neighbouring pixels
// and rows; per-band bank indices and band offsets pick the element for each
// band, which covers both pixel-interleaved (RGBRGB... in one bank) and
// band-interleaved / banded (one bank per band) arrangements.
type ComponentLayout struct {
	width          int32
	height         int32
	dataType       rasterkit.DataType
	pixelStride    int32
	scanlineStride int32
	bankIndices    []int32
	bandOffsets    []int32
}

// NewComponent builds a single-bank interleaved layout: band b of pixel
// (x, y) lives at element y*scanlineStride + x*pixelStride + bandOffsets[b].
func NewComponent(dataType rasterkit.DataType, width int32, height int32, pixelStride int32, scanlineStride int32, bandOffsets []int32) (*ComponentLayout, error) {
	banks := make([]int32, len(bandOffsets))
	return newComponent(dataType, width, height, pixelStride, scanlineStride, banks, bandOffsets)
}

// NewComponentBanked builds a layout with one bank per entry of bankIndices
// and a pixel stride of one element, the banded arrangement.
func NewComponentBanked(dataType rasterkit.DataType, width int32, height int32, scanlineStride int32, bankIndices []int32, bandOffsets []int32) (*ComponentLayout, error) {
	return newComponent(dataType, width, height, 1, scanlineStride, bankIndices, bandOffsets)
}

func newComponent(dataType rasterkit.DataType, width int32, height int32, pixelStride int32, scanlineStride int32, bankIndices []int32, bandOffsets []int32) (*ComponentLayout, error) {
	if !dataType.Valid() {
		return nil, fmt.Errorf("data type %v: %w", dataType, rasterkit.ErrInvalidArgument)
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if len(bandOffsets) == 0 {
		return nil, fmt.Errorf("no band offsets supplied: %w", rasterkit.ErrInvalidArgument)
	}
	if len(bankIndices) != len(bandOffsets) {
		return nil, fmt.Errorf("%d bank indices for %d bands: %w", len(bankIndices), len(bandOffsets), rasterkit.ErrInvalidArgument)
	}
	if pixelStride <= 0 || scanlineStride <= 0 {
		return nil, fmt.Errorf("strides must be positive: %w", rasterkit.ErrInvalidArgument)
	}
	for i, off := range bandOffsets {
		if off < 0 {
			return nil, fmt.Errorf("band %d: negative offset %d: %w", i, off, rasterkit.ErrInvalidArgument)
		}
		if bankIndices[i] < 0 {
			return nil, fmt.Errorf("band %d: negative bank index %d: %w", i, bankIndices[i], rasterkit.ErrInvalidArgument)
		}
	}

	l := &ComponentLayout{
		width:          width,
		height:         height,
		dataType:       dataType,
		pixelStride:    pixelStride,
		scanlineStride: scanlineStride,
		bankIndices:    make([]int32, len(bankIndices)),
		bandOffsets:    make([]int32, len(bandOffsets)),
	}
	copy(l.bankIndices, bankIndices)
	copy(l.bandOffsets, bandOffsets)
	return l, nil
}

func (l *ComponentLayout) Width() int32                     { return l.width }
func (l *ComponentLayout) Height() int32                    { return l.height }
func (l *ComponentLayout) NumBands() int32                  { return int32(len(l.bandOffsets)) }
func (l *ComponentLayout) DataType() rasterkit.DataType     { return l.dataType }
func (l *ComponentLayout) TransferType() rasterkit.DataType { return l.dataType }
func (l *ComponentLayout) NumDataElements() int32           { return l.NumBands() }
func (l *ComponentLayout) PixelStride() int32               { return l.pixelStride }
func (l *ComponentLayout) ScanlineStride() int32            { return l.scanlineStride }

// Every band of a component layout spans the full element.
func (l *ComponentLayout) SampleSize(band int32) int32 { return l.dataType.Bits() }

func (l *ComponentLayout) SampleSizes() []int32 {
	out := make([]int32, l.NumBands())
	for i := range out {
		out[i] = l.dataType.Bits()
	}
	return out
}

func (l *ComponentLayout) checkBounds(x int32, y int32) {
	if x < 0 || y < 0 || x >= l.width || y >= l.height {
		panic(fmt.Sprintf("coordinate (%d,%d) outside %dx%d layout", x, y, l.width, l.height))
	}
}

func (l *ComponentLayout) index(x int32, y int32, band int32) int32 {
	return y*l.scanlineStride + x*l.pixelStride + l.bandOffsets[band]
}

func (l *ComponentLayout) Sample(buf buffer.Buffer, x int32, y int32, band int32) int32 {
	l.checkBounds(x, y)
	return buf.ElemBank(l.bankIndices[band], l.index(x, y, band))
}

func (l *ComponentLayout) SetSample(buf buffer.Buffer, x int32, y int32, band int32, v int32) {
	l.checkBounds(x, y)
	buf.SetElemBank(l.bankIndices[band], l.index(x, y, band), v)
}

func (l *ComponentLayout) DataElements(buf buffer.Buffer, x int32, y int32, dst any) any {
	l.checkBounds(x, y)
	n := l.NumBands()
	switch l.dataType {
	case rasterkit.TypeByte:
		if dst == nil {
			dst = make([]uint8, n)
		}
		arr := dst.([]uint8)
		for b := int32(0); b < n; b++ {
			arr[b] = uint8(buf.ElemBank(l.bankIndices[b], l.index(x, y, b)))
		}
	case rasterkit.TypeUShort:
		if dst == nil {
			dst = make([]uint16, n)
		}
		arr := dst.([]uint16)
		for b := int32(0); b < n; b++ {
			arr[b] = uint16(buf.ElemBank(l.bankIndices[b], l.index(x, y, b)))
		}
	default:
		if dst == nil {
			dst = make([]int32, n)
		}
		arr := dst.([]int32)
		for b := int32(0); b < n; b++ {
			arr[b] = buf.ElemBank(l.bankIndices[b], l.index(x, y, b))
		}
	}
	return dst
}

func (l *ComponentLayout) SetDataElements(buf buffer.Buffer, x int32, y int32, elems any) {
	l.checkBounds(x, y)
	n := l.NumBands()
	switch l.dataType {
	case rasterkit.TypeByte:
		arr := elems.([]uint8)
		for b := int32(0); b < n; b++ {
			buf.SetElemBank(l.bankIndices[b], l.index(x, y, b), int32(arr[b]))
		}
	case rasterkit.TypeUShort:
		arr := elems.([]uint16)
		for b := int32(0); b < n; b++ {
			buf.SetElemBank(l.bankIndices[b], l.index(x, y, b), int32(arr[b]))
		}
	default:
		arr := elems.([]int32)
		for b := int32(0); b < n; b++ {
			buf.SetElemBank(l.bankIndices[b], l.index(x, y, b), arr[b])
		}
	}
}

func (l *ComponentLayout) CompatibleLayout(width int32, height int32) (SampleLayout, error) {
	return newComponent(l.dataType, width, height, l.pixelStride, width*l.pixelStride, l.bankIndices, l.bandOffsets)
}

func (l *ComponentLayout) SubsetLayout(bands []int32) (SampleLayout, error) {
	if int32(len(bands)) > l.NumBands() {
		return nil, fmt.Errorf("subset of %d bands from %d: %w", len(bands), l.NumBands(), rasterkit.ErrFormat)
	}
	banks := make([]int32, len(bands))
	offsets := make([]int32, len(bands))
	for i, b := range bands {
		if b < 0 || b >= l.NumBands() {
			return nil, fmt.Errorf("band index %d out of range: %w", b, rasterkit.ErrInvalidArgument)
		}
		banks[i] = l.bankIndices[b]
		offsets[i] = l.bandOffsets[b]
	}
	return newComponent(l.dataType, l.width, l.height, l.pixelStride, l.scanlineStride, banks, offsets)
}

func (l *ComponentLayout) NewBuffer() (buffer.Buffer, error) {
	var maxBank, maxOffset int32
	for i := range l.bandOffsets {
		maxBank = max(maxBank, l.bankIndices[i])
		maxOffset = max(maxOffset, l.bandOffsets[i])
	}
	size := l.scanlineStride*(l.height-1) + l.pixelStride*(l.width-1) + maxOffset + 1
	return buffer.NewBanks(l.dataType, size, maxBank+1)
}
