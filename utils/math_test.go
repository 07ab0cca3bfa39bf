package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegToRad(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, DegToRad(-90), test.ShouldAlmostEqual, -math.Pi/2)
}

func TestRoundToInt(t *testing.T) {
	test.That(t, RoundToInt(0.5), test.ShouldEqual, 0)
	test.That(t, RoundToInt(1.5), test.ShouldEqual, 2)
	test.That(t, RoundToInt(-2.5), test.ShouldEqual, -2)
	test.That(t, RoundToInt(2.6), test.ShouldEqual, 3)
}

func TestSaturatingIncUint8(t *testing.T) {
	test.That(t, SaturatingIncUint8(0), test.ShouldEqual, uint8(1))
	test.That(t, SaturatingIncUint8(math.MaxUint8), test.ShouldEqual, uint8(math.MaxUint8))
}
