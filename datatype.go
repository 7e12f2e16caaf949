// Package rasterkit provides format-agnostic addressing of multi-band pixel
// data stored in arbitrary bit-packed layouts, plus kernel convolution over
// that data. The root package holds the element type tags and error kinds
// shared by the buffer, layout, raster and convolve packages.
package rasterkit

// DataType identifies the primitive element type of pixel storage. Narrow
// types are always treated as unsigned quantities: a byte sample widens to
// 0..255, a ushort sample to 0..65535.
type DataType int32

const (
	TypeByte DataType = iota
	TypeUShort
	TypeInt
	TypeUndefined
)

// Bits returns the storage width of the type in bits, or 0 for TypeUndefined.
func (d DataType) Bits() int32 {
	switch d {
	case TypeByte:
		return 8
	case TypeUShort:
		return 16
	case TypeInt:
		return 32
	}
	return 0
}

func (d DataType) Valid() bool {
	return d >= TypeByte && d <= TypeInt
}

func (d DataType) String() string {
	switch d {
	case TypeByte:
		return "byte"
	case TypeUShort:
		return "ushort"
	case TypeInt:
		return "int"
	}
	return "undefined"
}
