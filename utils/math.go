// Package utils contains small numeric helpers shared by the planners.
package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Square is faster than math.Pow(n, 2).
func Square(n float64) float64 {
	return n * n
}

// SaturatingIncUint8 adds one to n without wrapping past math.MaxUint8.
func SaturatingIncUint8(n uint8) uint8 {
	if n == math.MaxUint8 {
		return n
	}
	return n + 1
}

// RoundToInt rounds half to even, the way game engines quantize coordinates onto grids.
func RoundToInt(x float64) int {
	return int(math.RoundToEven(x))
}
