package util

import (
	"cmp"
)

// Max returns the largest of its arguments. NaN arguments win so that a NaN
// poisons the comparison rather than silently disappearing.
func Max[T cmp.Ordered](args ...T) T {
	if len(args) == 0 {
		return *new(T)
	}

	if isNan(args[0]) {
		return args[0]
	}

	max := args[0]
	for _, arg := range args[1:] {

		if isNan(arg) {
			return arg
		}

		if arg > max {
			max = arg
		}
	}
	return max
}

// Min returns the smallest of its arguments, with the same NaN handling as Max.
func Min[T cmp.Ordered](args ...T) T {
	if len(args) == 0 {
		return *new(T)
	}

	if isNan(args[0]) {
		return args[0]
	}

	min := args[0]
	for _, arg := range args[1:] {

		if isNan(arg) {
			return arg
		}

		if arg < min {
			min = arg
		}
	}
	return min
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp[T cmp.Ordered](v T, lo T, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isNan[T comparable](arg T) bool {
	return arg != arg
}
