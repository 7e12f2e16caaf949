package util

func FillFloat32(a []float32, fromIndex int32, toIndex int32, val float32) {
	for i := fromIndex; i < toIndex; i++ {
		a[i] = val
	}
}

func FillInt32(a []int32, fromIndex int32, toIndex int32, val int32) {
	for i := fromIndex; i < toIndex; i++ {
		a[i] = val
	}
}
