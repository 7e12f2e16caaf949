// Package buffer holds raw pixel storage: one or more equal-length banks of
// numeric elements, each with its own offset into the backing slice.
//
// Element access widens narrow storage to an unsigned int32 (byte -> 0..255,
// ushort -> 0..65535) and truncates on store. Indexes are NOT bounds checked
// here; the layout layer owns bounds checking and this layer stays a fast
// path. Indexing past the declared size is undefined behaviour.
package buffer

import (
	"fmt"

	"github.com/goraster/rasterkit"
)

// Buffer is the storage contract shared by the byte/ushort/int variants.
// Elem and SetElem address the default bank (bank 0).
type Buffer interface {
	DataType() rasterkit.DataType
	NumBanks() int32

	// Size is the logical number of elements per bank.
	Size() int32

	// Offset is the default bank's offset; Offsets returns a copy of all
	// bank offsets.
	Offset() int32
	Offsets() []int32

	Elem(i int32) int32
	ElemBank(bank int32, i int32) int32
	SetElem(i int32, v int32)
	SetElemBank(bank int32, i int32, v int32)
}

// New allocates a fresh single-bank buffer of the given type and size.
func New(dataType rasterkit.DataType, size int32) (Buffer, error) {
	return NewBanks(dataType, size, 1)
}

// NewBanks allocates a buffer of the given type with numBanks banks of size
// elements each.
func NewBanks(dataType rasterkit.DataType, size int32, numBanks int32) (Buffer, error) {
	switch dataType {
	case rasterkit.TypeByte:
		return NewByteBufferBanks(size, numBanks)
	case rasterkit.TypeUShort:
		return NewUShortBufferBanks(size, numBanks)
	case rasterkit.TypeInt:
		return NewIntBufferBanks(size, numBanks)
	}
	return nil, fmt.Errorf("unknown data type %v: %w", dataType, rasterkit.ErrInvalidArgument)
}

func checkBanks(size int32, numBanks int32) error {
	if size <= 0 {
		return fmt.Errorf("buffer size %d must be positive: %w", size, rasterkit.ErrInvalidArgument)
	}
	if numBanks <= 0 {
		return fmt.Errorf("bank count %d must be positive: %w", numBanks, rasterkit.ErrInvalidArgument)
	}
	return nil
}

// checkOffsets validates a wrap request: the offsets slice (when present)
// must name one offset per bank, and offset+size must fit each bank.
func checkOffsets[T any](banks [][]T, size int32, offsets []int32) ([]int32, error) {
	if len(banks) == 0 {
		return nil, fmt.Errorf("no banks supplied: %w", rasterkit.ErrInvalidArgument)
	}
	if err := checkBanks(size, int32(len(banks))); err != nil {
		return nil, err
	}
	if offsets == nil {
		offsets = make([]int32, len(banks))
	}
	if len(offsets) != len(banks) {
		return nil, fmt.Errorf("%d offsets for %d banks: %w", len(offsets), len(banks), rasterkit.ErrInvalidArgument)
	}
	for i, bank := range banks {
		if offsets[i] < 0 || int(offsets[i]+size) > len(bank) {
			return nil, fmt.Errorf("bank %d: offset %d + size %d exceeds length %d: %w",
				i, offsets[i], size, len(bank), rasterkit.ErrInvalidArgument)
		}
	}
	out := make([]int32, len(offsets))
	copy(out, offsets)
	return out, nil
}

func copyOffsets(offsets []int32) []int32 {
	out := make([]int32, len(offsets))
	copy(out, offsets)
	return out
}
