// Package layout maps (x, y, band) coordinates onto buffer elements. A
// layout never owns pixel storage: every accessor takes the buffer it should
// address, so one layout can serve any number of buffers of the right type.
//
// The SampleLayout interface is the small required core; the derived
// operations (Pixel, Pixels, Samples and friends) are implemented once at
// package level in terms of that core, so a new layout kind only has to
// supply scalar sample access plus the transfer-element pair. Layouts that
// can do better register fast paths via unexported capability interfaces
// which the package functions probe by type assertion.
//
// Coordinates are bounds checked here, and only here: out-of-range access
// panics the way an out-of-range slice index would. Sample values are
// unsigned integral quantities throughout; the float accessors simply widen.
package layout

import (
	"fmt"

	"github.com/goraster/rasterkit"
	"github.com/goraster/rasterkit/buffer"
)

// SampleLayout is the capability set every layout implements.
//
// DataElements and SetDataElements move one pixel's worth of transfer
// elements, which for packed layouts is fewer elements than bands. The elems
// value is a []uint8, []uint16 or []int32 matching TransferType; passing the
// wrong slice kind panics (compatibility is the caller's contract).
type SampleLayout interface {
	Width() int32
	Height() int32
	NumBands() int32
	DataType() rasterkit.DataType

	// TransferType is the primitive type used for bulk element exchange.
	// It may differ from DataType for layouts that widen on transfer.
	TransferType() rasterkit.DataType

	// NumDataElements is the number of transfer elements per pixel.
	NumDataElements() int32

	// SampleSize returns the bit width of the given band.
	SampleSize(band int32) int32
	SampleSizes() []int32

	Sample(buf buffer.Buffer, x int32, y int32, band int32) int32
	SetSample(buf buffer.Buffer, x int32, y int32, band int32, v int32)

	// DataElements reads one pixel into dst (allocated when nil) and
	// returns it. SetDataElements writes one pixel from elems.
	DataElements(buf buffer.Buffer, x int32, y int32, dst any) any
	SetDataElements(buf buffer.Buffer, x int32, y int32, elems any)

	// CompatibleLayout returns a layout of the same kind and format with a
	// different extent.
	CompatibleLayout(width int32, height int32) (SampleLayout, error)

	// SubsetLayout returns a layout exposing only the named bands,
	// renumbered contiguously.
	SubsetLayout(bands []int32) (SampleLayout, error)

	// NewBuffer allocates a buffer exactly large enough to back this
	// layout, with storage matching DataType.
	NewBuffer() (buffer.Buffer, error)
}

func checkDimensions(width int32, height int32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("dimensions %dx%d must be positive: %w", width, height, rasterkit.ErrInvalidArgument)
	}
	return nil
}

// allocTransfer allocates count transfer elements of the given type.
func allocTransfer(t rasterkit.DataType, count int32) any {
	switch t {
	case rasterkit.TypeByte:
		return make([]uint8, count)
	case rasterkit.TypeUShort:
		return make([]uint16, count)
	default:
		return make([]int32, count)
	}
}
