package buffer

import (
	"github.com/goraster/rasterkit"
)

// ByteBuffer stores 8 bit elements, read back as unsigned 0..255.
type ByteBuffer struct {
	banks   [][]byte
	offsets []int32
	size    int32
}

func NewByteBuffer(size int32) (*ByteBuffer, error) {
	return NewByteBufferBanks(size, 1)
}

func NewByteBufferBanks(size int32, numBanks int32) (*ByteBuffer, error) {
	if err := checkBanks(size, numBanks); err != nil {
		return nil, err
	}
	banks := make([][]byte, numBanks)
	for i := range banks {
		banks[i] = make([]byte, size)
	}
	return &ByteBuffer{banks: banks, offsets: make([]int32, numBanks), size: size}, nil
}

// WrapByteBuffer aliases data as a single bank; no copy is made.
func WrapByteBuffer(data []byte, size int32) (*ByteBuffer, error) {
	return WrapByteBufferBanks([][]byte{data}, size, nil)
}

// WrapByteBufferBanks aliases the given banks; a nil offsets slice means all
// zero offsets, otherwise it must hold one offset per bank.
func WrapByteBufferBanks(banks [][]byte, size int32, offsets []int32) (*ByteBuffer, error) {
	offs, err := checkOffsets(banks, size, offsets)
	if err != nil {
		return nil, err
	}
	return &ByteBuffer{banks: banks, offsets: offs, size: size}, nil
}

func (b *ByteBuffer) DataType() rasterkit.DataType { return rasterkit.TypeByte }
func (b *ByteBuffer) NumBanks() int32              { return int32(len(b.banks)) }
func (b *ByteBuffer) Size() int32                  { return b.size }
func (b *ByteBuffer) Offset() int32                { return b.offsets[0] }
func (b *ByteBuffer) Offsets() []int32             { return copyOffsets(b.offsets) }

func (b *ByteBuffer) Elem(i int32) int32 {
	return int32(b.banks[0][i+b.offsets[0]])
}

func (b *ByteBuffer) ElemBank(bank int32, i int32) int32 {
	return int32(b.banks[bank][i+b.offsets[bank]])
}

func (b *ByteBuffer) SetElem(i int32, v int32) {
	b.banks[0][i+b.offsets[0]] = byte(v)
}

func (b *ByteBuffer) SetElemBank(bank int32, i int32, v int32) {
	b.banks[bank][i+b.offsets[bank]] = byte(v)
}

// Data returns the default bank's backing slice, aliased not copied.
func (b *ByteBuffer) Data() []byte { return b.banks[0] }

func (b *ByteBuffer) DataBank(bank int32) []byte { return b.banks[bank] }
