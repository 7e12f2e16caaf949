package layout

import (
	"fmt"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/buffer"
)

// SinglePixelPackedLayout stores all bands of a pixel packed into one buffer
// element, each band occupying a contiguous run of bits described by its bit
// mask. The classic case is 32 bit RGB with masks 0xFF0000/0x00FF00/0x0000FF.
type SinglePixelPackedLayout struct {
	width          int32
	height         int32
	dataType       rasterkit.DataType
	scanlineStride int32

	bitMasks   []uint32
	bitOffsets []int32
	bitSizes   []int32
	maxBitSize int32

	// union of all band masks, used to preserve unclaimed bits on writes
	combinedMask uint32
}

// NewSinglePixelPacked builds a packed layout whose scanline stride equals
// its width.
func NewSinglePixelPacked(dataType rasterkit.DataType, width int32, height int32, bitMasks []uint32) (*SinglePixelPackedLayout, error) {
	return NewSinglePixelPackedStride(dataType, width, height, width, bitMasks)
}

// NewSinglePixelPackedStride builds a packed layout with an explicit scanline
// stride (elements per row). Every mask must be a single contiguous run of
// set bits that fits the element width, and no two masks may overlap.
func NewSinglePixelPackedStride(dataType rasterkit.DataType, width int32, height int32, scanlineStride int32, bitMasks []uint32) (*SinglePixelPackedLayout, error) {
	if !dataType.Valid() {
		return nil, fmt.Errorf("data type %v: %w", dataType, rasterkit.ErrInvalidArgument)
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if scanlineStride < width {
		return nil, fmt.Errorf("scanline stride %d smaller than width %d: %w", scanlineStride, width, rasterkit.ErrInvalidArgument)
	}
	if len(bitMasks) == 0 {
		return nil, fmt.Errorf("no bit masks supplied: %w", rasterkit.ErrInvalidArgument)
	}

	bitsPerElement := dataType.Bits()
	l := &SinglePixelPackedLayout{
		width:          width,
		height:         height,
		dataType:       dataType,
		scanlineStride: scanlineStride,
		bitMasks:       make([]uint32, len(bitMasks)),
		bitOffsets:     make([]int32, len(bitMasks)),
		bitSizes:       make([]int32, len(bitMasks)),
	}
	copy(l.bitMasks, bitMasks)

	var seen uint32
	for i, mask := range bitMasks {
		if mask == 0 {
			return nil, fmt.Errorf("band %d: empty bit mask: %w", i, rasterkit.ErrInvalidArgument)
		}

		// Shift off the low zeros (bit offset), then the run of ones
		// (bit size). Anything left means the mask is non-contiguous.
		m := mask
		var offset, size int32
		for m&1 == 0 {
			m >>= 1
			offset++
		}
		for m&1 == 1 {
			m >>= 1
			size++
		}
		if m != 0 {
			return nil, fmt.Errorf("band %d: bit mask %#x is not contiguous: %w", i, mask, rasterkit.ErrInvalidArgument)
		}
		if offset+size > bitsPerElement {
			return nil, fmt.Errorf("band %d: bit mask %#x exceeds %d bit element: %w", i, mask, bitsPerElement, rasterkit.ErrInvalidArgument)
		}
		if seen&mask != 0 {
			return nil, fmt.Errorf("band %d: bit mask %#x overlaps another band: %w", i, mask, rasterkit.ErrInvalidArgument)
		}
		seen |= mask

		l.bitOffsets[i] = offset
		l.bitSizes[i] = size
		if size > l.maxBitSize {
			l.maxBitSize = size
		}
	}
	l.combinedMask = seen
	return l, nil
}

func (l *SinglePixelPackedLayout) Width() int32                    { return l.width }
func (l *SinglePixelPackedLayout) Height() int32                   { return l.height }
func (l *SinglePixelPackedLayout) NumBands() int32                 { return int32(len(l.bitMasks)) }
func (l *SinglePixelPackedLayout) DataType() rasterkit.DataType    { return l.dataType }
func (l *SinglePixelPackedLayout) TransferType() rasterkit.DataType { return l.dataType }
func (l *SinglePixelPackedLayout) NumDataElements() int32          { return 1 }
func (l *SinglePixelPackedLayout) ScanlineStride() int32           { return l.scanlineStride }
func (l *SinglePixelPackedLayout) MaxBitSize() int32               { return l.maxBitSize }

func (l *SinglePixelPackedLayout) BitMasks() []uint32 {
	out := make([]uint32, len(l.bitMasks))
	copy(out, l.bitMasks)
	return out
}

func (l *SinglePixelPackedLayout) BitOffsets() []int32 {
	out := make([]int32, len(l.bitOffsets))
	copy(out, l.bitOffsets)
	return out
}

func (l *SinglePixelPackedLayout) SampleSize(band int32) int32 { return l.bitSizes[band] }

func (l *SinglePixelPackedLayout) SampleSizes() []int32 {
	out := make([]int32, len(l.bitSizes))
	copy(out, l.bitSizes)
	return out
}

func (l *SinglePixelPackedLayout) checkBounds(x int32, y int32) {
	if x < 0 || y < 0 || x >= l.width || y >= l.height {
		panic(fmt.Sprintf("coordinate (%d,%d) outside %dx%d layout", x, y, l.width, l.height))
	}
}

func (l *SinglePixelPackedLayout) index(x int32, y int32) int32 {
	return y*l.scanlineStride + x
}

func (l *SinglePixelPackedLayout) Sample(buf buffer.Buffer, x int32, y int32, band int32) int32 {
	l.checkBounds(x, y)
	e := uint32(buf.Elem(l.index(x, y)))
	return int32((e & l.bitMasks[band]) >> uint(l.bitOffsets[band]))
}

func (l *SinglePixelPackedLayout) SetSample(buf buffer.Buffer, x int32, y int32, band int32, v int32) {
	l.checkBounds(x, y)
	idx := l.index(x, y)
	mask := l.bitMasks[band]
	e := uint32(buf.Elem(idx))
	e = (e &^ mask) | ((uint32(v) << uint(l.bitOffsets[band])) & mask)
	buf.SetElem(idx, int32(e))
}

func (l *SinglePixelPackedLayout) DataElements(buf buffer.Buffer, x int32, y int32, dst any) any {
	l.checkBounds(x, y)
	e := buf.Elem(l.index(x, y))
	switch l.dataType {
	case rasterkit.TypeByte:
		if dst == nil {
			dst = make([]uint8, 1)
		}
		dst.([]uint8)[0] = uint8(e)
	case rasterkit.TypeUShort:
		if dst == nil {
			dst = make([]uint16, 1)
		}
		dst.([]uint16)[0] = uint16(e)
	default:
		if dst == nil {
			dst = make([]int32, 1)
		}
		dst.([]int32)[0] = e
	}
	return dst
}

func (l *SinglePixelPackedLayout) SetDataElements(buf buffer.Buffer, x int32, y int32, elems any) {
	l.checkBounds(x, y)
	var e int32
	switch l.dataType {
	case rasterkit.TypeByte:
		e = int32(elems.([]uint8)[0])
	case rasterkit.TypeUShort:
		e = int32(elems.([]uint16)[0])
	default:
		e = elems.([]int32)[0]
	}
	buf.SetElem(l.index(x, y), e)
}

func (l *SinglePixelPackedLayout) CompatibleLayout(width int32, height int32) (SampleLayout, error) {
	return NewSinglePixelPacked(l.dataType, width, height, l.bitMasks)
}

func (l *SinglePixelPackedLayout) SubsetLayout(bands []int32) (SampleLayout, error) {
	if int32(len(bands)) > l.NumBands() {
		return nil, fmt.Errorf("subset of %d bands from %d: %w", len(bands), l.NumBands(), rasterkit.ErrFormat)
	}
	masks := make([]uint32, len(bands))
	for i, b := range bands {
		if b < 0 || b >= l.NumBands() {
			return nil, fmt.Errorf("band index %d out of range: %w", b, rasterkit.ErrInvalidArgument)
		}
		masks[i] = l.bitMasks[b]
	}
	return NewSinglePixelPackedStride(l.dataType, l.width, l.height, l.scanlineStride, masks)
}

func (l *SinglePixelPackedLayout) NewBuffer() (buffer.Buffer, error) {
	size := l.scanlineStride*(l.height-1) + l.width
	return buffer.New(l.dataType, size)
}

// pixelsInto is the packed fast path: each pixel is one element read,
// bit-shifted apart into its bands.
func (l *SinglePixelPackedLayout) pixelsInto(buf buffer.Buffer, x int32, y int32, w int32, h int32, dst []int32) {
	l.checkBounds(x, y)
	l.checkBounds(x+w-1, y+h-1)
	n := l.NumBands()
	off := int32(0)
	for j := int32(0); j < h; j++ {
		base := l.index(x, y+j)
		for i := int32(0); i < w; i++ {
			e := uint32(buf.Elem(base + i))
			for b := int32(0); b < n; b++ {
				dst[off] = int32((e & l.bitMasks[b]) >> uint(l.bitOffsets[b]))
				off++
			}
		}
	}
}

func (l *SinglePixelPackedLayout) setPixelsFrom(buf buffer.Buffer, x int32, y int32, w int32, h int32, pix []int32) {
	l.checkBounds(x, y)
	l.checkBounds(x+w-1, y+h-1)
	n := l.NumBands()
	off := int32(0)
	for j := int32(0); j < h; j++ {
		base := l.index(x, y+j)
		for i := int32(0); i < w; i++ {
			e := uint32(buf.Elem(base+i)) &^ l.combinedMask
			for b := int32(0); b < n; b++ {
				e |= (uint32(pix[off]) << uint(l.bitOffsets[b])) & l.bitMasks[b]
				off++
			}
			buf.SetElem(base+i, int32(e))
		}
	}
}
