package util

import (
	"golang.org/x/exp/constraints"
)

// Matrix is a 1D slice presented as a 2D matrix. Row-major, height is the
// first dimension.
type Matrix[T constraints.Ordered] struct {
	Width  int32
	Height int32
	Data   []T
}

func New2DMatrix[T constraints.Ordered](height int32, width int32) *Matrix[T] {
	matrix := make([]T, width*height)
	return &Matrix[T]{Width: width, Height: height, Data: matrix}
}

func New2DMatrixWithContents[T constraints.Ordered](height int32, width int32, initialData [][]T) *Matrix[T] {
	matrix := New2DMatrix[T](height, width)
	for h := int32(0); h < height; h++ {
		copy(matrix.Data[h*width:(h+1)*width], initialData[h])
	}
	return matrix
}

// Note y is the first param.
func (s *Matrix[T]) Get(y int32, x int32) T {
	return s.Data[y*s.Width+x]
}

func (s *Matrix[T]) Set(y int32, x int32, value T) {
	s.Data[y*s.Width+x] = value
}

func (s *Matrix[T]) GetRow(y int32) []T {
	return s.Data[y*s.Width : (y+1)*s.Width]
}

func (s *Matrix[T]) SetRow(y int32, data []T) {
	copy(s.Data[y*s.Width:(y+1)*s.Width], data)
}
