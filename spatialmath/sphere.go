package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

type sphere struct {
	center r3.Vector
	radius float64
	label  string
}

// NewSphere instantiates a new sphere Volume.
func NewSphere(center r3.Vector, radius float64, label string) (Volume, error) {
	if radius < 0 {
		return nil, newBadVolumeDimensionsError(&sphere{})
	}
	return &sphere{center: center, radius: radius, label: label}, nil
}

// String returns a human readable string that represents the sphere.
func (s *sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Position: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.1f",
		s.center.X, s.center.Y, s.center.Z, s.radius)
}

func (s *sphere) Center() r3.Vector {
	return s.center
}

func (s *sphere) SetLabel(label string) {
	s.label = label
}

func (s *sphere) Label() string {
	return s.label
}

func (s *sphere) Contains(pt r3.Vector) bool {
	return pt.Sub(s.center).Norm2() <= s.radius*s.radius
}

func (s *sphere) ClosestPoint(pt r3.Vector) r3.Vector {
	dir := pt.Sub(s.center)
	dist := dir.Norm()
	if dist <= s.radius {
		return pt
	}
	return s.center.Add(dir.Mul(s.radius / dist))
}

func (s *sphere) SqDistance(pt r3.Vector) float64 {
	dist := math.Max(0, pt.Sub(s.center).Norm()-s.radius)
	return dist * dist
}

func (s *sphere) SegmentIntersect(from, dir r3.Vector, maxDist float64) (float64, bool) {
	if s.Contains(from) {
		return 0, true
	}
	// solve |from + t*dir - center|^2 = r^2 for the smallest positive t
	oc := from.Sub(s.center)
	b := oc.Dot(dir)
	c := oc.Norm2() - s.radius*s.radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

func (s *sphere) Translate(center r3.Vector) Volume {
	return &sphere{center: center, radius: s.radius, label: s.label}
}
