package buffer

import (
	"github.com/goraster/rasterkit"
)

// UShortBuffer stores 16 bit elements, read back as unsigned 0..65535.
type UShortBuffer struct {
	banks   [][]uint16
	offsets []int32
	size    int32
}

func NewUShortBuffer(size int32) (*UShortBuffer, error) {
	return NewUShortBufferBanks(size, 1)
}

func NewUShortBufferBanks(size int32, numBanks int32) (*UShortBuffer, error) {
	if err := checkBanks(size, numBanks); err != nil {
		return nil, err
	}
	banks := make([][]uint16, numBanks)
	for i := range banks {
		banks[i] = make([]uint16, size)
	}
	return &UShortBuffer{banks: banks, offsets: make([]int32, numBanks), size: size}, nil
}

func WrapUShortBuffer(data []uint16, size int32) (*UShortBuffer, error) {
	return WrapUShortBufferBanks([][]uint16{data}, size, nil)
}

func WrapUShortBufferBanks(banks [][]uint16, size int32, offsets []int32) (*UShortBuffer, error) {
	offs, err := checkOffsets(banks, size, offsets)
	if err != nil {
		return nil, err
	}
	return &UShortBuffer{banks: banks, offsets: offs, size: size}, nil
}

func (b *UShortBuffer) DataType() rasterkit.DataType { return rasterkit.TypeUShort }
func (b *UShortBuffer) NumBanks() int32              { return int32(len(b.banks)) }
func (b *UShortBuffer) Size() int32                  { return b.size }
func (b *UShortBuffer) Offset() int32                { return b.offsets[0] }
func (b *UShortBuffer) Offsets() []int32             { return copyOffsets(b.offsets) }

func (b *UShortBuffer) Elem(i int32) int32 {
	return int32(b.banks[0][i+b.offsets[0]])
}

func (b *UShortBuffer) ElemBank(bank int32, i int32) int32 {
	return int32(b.banks[bank][i+b.offsets[bank]])
}

func (b *UShortBuffer) SetElem(i int32, v int32) {
	b.banks[0][i+b.offsets[0]] = uint16(v)
}

func (b *UShortBuffer) SetElemBank(bank int32, i int32, v int32) {
	b.banks[bank][i+b.offsets[bank]] = uint16(v)
}

func (b *UShortBuffer) Data() []uint16 { return b.banks[0] }

func (b *UShortBuffer) DataBank(bank int32) []uint16 { return b.banks[bank] }
