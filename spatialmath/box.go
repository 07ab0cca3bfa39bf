package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// box is an axis aligned rectangular prism defined by its center and half size. Level regions are
// authored as world-space bounds, so no orientation is carried.
type box struct {
	center   r3.Vector
	halfSize r3.Vector
	label    string
}

// NewBox instantiates a new box Volume.
func NewBox(center, dims r3.Vector, label string) (Volume, error) {
	// Negative dimensions not allowed. Zero dimensions are allowed for flat markers.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, newBadVolumeDimensionsError(&box{})
	}
	return &box{center: center, halfSize: dims.Mul(0.5), label: label}, nil
}

// String returns a human readable string that represents the box.
func (b *box) String() string {
	return fmt.Sprintf("Type: Box | Position: X:%.1f, Y:%.1f, Z:%.1f | Dims: X:%.1f, Y:%.1f, Z:%.1f",
		b.center.X, b.center.Y, b.center.Z, 2*b.halfSize.X, 2*b.halfSize.Y, 2*b.halfSize.Z)
}

func (b *box) Center() r3.Vector {
	return b.center
}

// SetLabel sets the label of this box.
func (b *box) SetLabel(label string) {
	b.label = label
}

// Label returns the label of this box.
func (b *box) Label() string {
	return b.label
}

func (b *box) min() r3.Vector {
	return b.center.Sub(b.halfSize)
}

func (b *box) max() r3.Vector {
	return b.center.Add(b.halfSize)
}

func (b *box) Contains(pt r3.Vector) bool {
	lo, hi := b.min(), b.max()
	return pt.X >= lo.X && pt.X <= hi.X &&
		pt.Y >= lo.Y && pt.Y <= hi.Y &&
		pt.Z >= lo.Z && pt.Z <= hi.Z
}

// ClosestPoint clamps pt onto the box.
func (b *box) ClosestPoint(pt r3.Vector) r3.Vector {
	lo, hi := b.min(), b.max()
	return r3.Vector{
		X: math.Max(lo.X, math.Min(pt.X, hi.X)),
		Y: math.Max(lo.Y, math.Min(pt.Y, hi.Y)),
		Z: math.Max(lo.Z, math.Min(pt.Z, hi.Z)),
	}
}

func (b *box) SqDistance(pt r3.Vector) float64 {
	return b.ClosestPoint(pt).Sub(pt).Norm2()
}

// SegmentIntersect uses the slab method. A segment starting inside the box hits at distance zero.
func (b *box) SegmentIntersect(from, dir r3.Vector, maxDist float64) (float64, bool) {
	lo, hi := b.min(), b.max()
	tMin, tMax := 0., maxDist
	origin := [3]float64{from.X, from.Y, from.Z}
	direction := [3]float64{dir.X, dir.Y, dir.Z}
	low := [3]float64{lo.X, lo.Y, lo.Z}
	high := [3]float64{hi.X, hi.Y, hi.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(direction[i]) < 1e-12 {
			if origin[i] < low[i] || origin[i] > high[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / direction[i]
		t1 := (low[i] - origin[i]) * inv
		t2 := (high[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

func (b *box) Translate(center r3.Vector) Volume {
	return &box{center: center, halfSize: b.halfSize, label: b.label}
}
