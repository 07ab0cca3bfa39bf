package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSphere(t *testing.T) {
	_, err := NewSphere(r3.Vector{}, -1, "")
	test.That(t, err, test.ShouldNotBeNil)

	s, err := NewSphere(r3.Vector{X: 3}, 1, "portal")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Contains(r3.Vector{X: 3.5}), test.ShouldBeTrue)
	test.That(t, s.Contains(r3.Vector{X: 1}), test.ShouldBeFalse)
	test.That(t, s.SqDistance(r3.Vector{X: 0}), test.ShouldAlmostEqual, 4)
	test.That(t, R3VectorAlmostEqual(s.ClosestPoint(r3.Vector{}), r3.Vector{X: 2}, 1e-9), test.ShouldBeTrue)

	dist, hit := s.SegmentIntersect(r3.Vector{}, r3.Vector{X: 1}, 5)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 2)

	_, hit = s.SegmentIntersect(r3.Vector{}, r3.Vector{Z: 1}, 5)
	test.That(t, hit, test.ShouldBeFalse)

	moved := s.Translate(r3.Vector{Y: 10})
	test.That(t, moved.Center(), test.ShouldResemble, r3.Vector{Y: 10})
	test.That(t, moved.Label(), test.ShouldEqual, "portal")
}
