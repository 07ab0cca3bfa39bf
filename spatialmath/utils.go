package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/regionplan/utils"
)

// Up is the vertical axis of every level; agents steer and platforms spin around it.
var Up = r3.Vector{X: 0, Y: 1, Z: 0}

// RotateAboutUp rotates v by angleDeg degrees around the vertical axis.
func RotateAboutUp(v r3.Vector, angleDeg float64) r3.Vector {
	half := utils.DegToRad(angleDeg) / 2
	q := quat.Number{Real: math.Cos(half), Jmag: math.Sin(half)}
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// RotateAround rotates pt by angleDeg degrees around the vertical line through center.
func RotateAround(pt, center r3.Vector, angleDeg float64) r3.Vector {
	return center.Add(RotateAboutUp(pt.Sub(center), angleDeg))
}

// Normalize returns v scaled to unit length, or the zero vector when v has no length.
func Normalize(v r3.Vector) r3.Vector {
	n := v.Norm()
	if n == 0 {
		return r3.Vector{}
	}
	return v.Mul(1 / n)
}

// SqDistanceToSegment returns the squared distance from pt to the segment [a, b].
func SqDistanceToSegment(pt, a, b r3.Vector) float64 {
	ab := b.Sub(a)
	denom := ab.Norm2()
	if denom == 0 {
		return pt.Sub(a).Norm2()
	}
	t := math.Max(0, math.Min(1, pt.Sub(a).Dot(ab)/denom))
	return pt.Sub(a.Add(ab.Mul(t))).Norm2()
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}
