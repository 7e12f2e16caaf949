package buffer

import (
	"github.com/goraster/rasterkit"
)

// IntBuffer stores 32 bit elements. Values are returned as stored; there is
// no wider type to widen into, so packed layouts over int storage mask out
// the bits they need.
type IntBuffer struct {
	banks   [][]int32
	offsets []int32
	size    int32
}

func NewIntBuffer(size int32) (*IntBuffer, error) {
	return NewIntBufferBanks(size, 1)
}

func NewIntBufferBanks(size int32, numBanks int32) (*IntBuffer, error) {
	if err := checkBanks(size, numBanks); err != nil {
		return nil, err
	}
	banks := make([][]int32, numBanks)
	for i := range banks {
		banks[i] = make([]int32, size)
	}
	return &IntBuffer{banks: banks, offsets: make([]int32, numBanks), size: size}, nil
}

func WrapIntBuffer(data []int32, size int32) (*IntBuffer, error) {
	return WrapIntBufferBanks([][]int32{data}, size, nil)
}

func WrapIntBufferBanks(banks [][]int32, size int32, offsets []int32) (*IntBuffer, error) {
	offs, err := checkOffsets(banks, size, offsets)
	if err != nil {
		return nil, err
	}
	return &IntBuffer{banks: banks, offsets: offs, size: size}, nil
}

func (b *IntBuffer) DataType() rasterkit.DataType { return rasterkit.TypeInt }
func (b *IntBuffer) NumBanks() int32              { return int32(len(b.banks)) }
func (b *IntBuffer) Size() int32                  { return b.size }
func (b *IntBuffer) Offset() int32                { return b.offsets[0] }
func (b *IntBuffer) Offsets() []int32             { return copyOffsets(b.offsets) }

func (b *IntBuffer) Elem(i int32) int32 {
	return b.banks[0][i+b.offsets[0]]
}

func (b *IntBuffer) ElemBank(bank int32, i int32) int32 {
	return b.banks[bank][i+b.offsets[bank]]
}

func (b *IntBuffer) SetElem(i int32, v int32) {
	b.banks[0][i+b.offsets[0]] = v
}

func (b *IntBuffer) SetElemBank(bank int32, i int32, v int32) {
	b.banks[bank][i+b.offsets[bank]] = v
}

func (b *IntBuffer) Data() []int32 { return b.banks[0] }

func (b *IntBuffer) DataBank(bank int32) []int32 { return b.banks[bank] }
