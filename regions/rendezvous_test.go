package regions

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/regionplan/logging"
)

func TestRendezvousCrossingDuration(t *testing.T) {
	// Scenario: a platform edge between boxes 1 and 2 spinning at 1.
	g := buildTestGraph(t, 1)
	rdv, err := g.PlatformRendezvous(2, r3.Vector{X: 14, Y: 1}, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rdv.LeaveAt-rdv.JumpAt, test.ShouldAlmostEqual, 200)
	test.That(t, rdv.CrossingDuration(), test.ShouldAlmostEqual, 5.0*(40/1.0))
	test.That(t, rdv.Platform, test.ShouldEqual, 4)
	test.That(t, rdv.Fallback, test.ShouldBeFalse)
}

func TestRendezvousMonotonicity(t *testing.T) {
	previous := -1.
	for _, speed := range []float64{0.5, 1, 2, 7.5, 30, 90} {
		m := &PlatformMotion{AngularSpeed: speed, Radius: 3}
		if previous > 0 {
			test.That(t, m.CrossingDuration(), test.ShouldBeLessThan, previous)
		}
		previous = m.CrossingDuration()
	}
}

func TestRendezvousTiming(t *testing.T) {
	g := buildTestGraph(t, 90)
	platform, err := g.PlatformInto(2)
	test.That(t, err, test.ShouldBeNil)

	// Stand exactly where the platform will be one second from now: the best arrival is a one
	// second wait, so the jump (one second of lead) starts immediately.
	now := 10.
	pos := platform.Motion.PositionAt(now + 1)
	rdv, err := g.PlatformRendezvous(2, pos, now)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rdv.JumpAt, test.ShouldAlmostEqual, now, 0.021)
	test.That(t, rdv.LeaveAt, test.ShouldAlmostEqual, now+200./90, 0.021)
	test.That(t, rdv.Fallback, test.ShouldBeFalse)

	// platforms only ride in their authored direction
	_, err = g.PlatformRendezvous(1, pos, now)
	test.That(t, errors.Is(err, ErrMissingPlatform), test.ShouldBeTrue)
	_, err = g.RideRendezvous(2, 1, pos, now)
	test.That(t, errors.Is(err, ErrMissingPlatform), test.ShouldBeTrue)

	ride, err := g.RideRendezvous(1, 2, pos, now)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ride, test.ShouldResemble, rdv)
}

func TestRendezvousFallback(t *testing.T) {
	logger, observed := logging.NewObservedTestLogger(t)
	// 2000 deg/s gives a 0.1s crossing, so no sample ever passes the minimum wait
	g, err := Build(testLevel(t, 2000), 5, logger)
	test.That(t, err, test.ShouldBeNil)

	rdv, err := g.PlatformRendezvous(2, r3.Vector{X: 14, Y: 1}, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rdv.Fallback, test.ShouldBeTrue)
	test.That(t, rdv.JumpAt, test.ShouldAlmostEqual, 3+0.02-1)
	test.That(t, rdv.CrossingDuration(), test.ShouldAlmostEqual, 0.1)
	test.That(t, observed.FilterMessageSnippet("minimum wait").Len(), test.ShouldEqual, 1)
}

func TestRendezvousMissingPlatform(t *testing.T) {
	g := buildTestGraph(t, 1)
	_, err := g.PlatformRendezvous(0, r3.Vector{}, 0)
	test.That(t, errors.Is(err, ErrMissingPlatform), test.ShouldBeTrue)
	test.That(t, IsConfigurationError(err), test.ShouldBeTrue)
}

func TestRideRendezvousPicksTraversedPlatform(t *testing.T) {
	level := testLevel(t, 1)
	// a fourth box south of box 2, ferried in by a faster platform
	level.Boxes = append(level.Boxes, BoxSpec{Name: "south", Volume: mustBox(t, r3.Vector{X: 30, Y: 1, Z: -20}, r3.Vector{X: 10, Y: 4, Z: 10})})
	level.Platforms = append(level.Platforms, PlatformSpec{
		Volume:       mustBox(t, r3.Vector{X: 30, Y: 0.5, Z: -13}, r3.Vector{X: 2, Y: 1, Z: 2}),
		From:         3,
		To:           2,
		Center:       r3.Vector{X: 30, Y: 0.5, Z: -10},
		AngularSpeed: 4,
		Radius:       3,
	})
	g, err := Build(level, 5, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, g.IsPlatformBetween(2, 3), test.ShouldBeTrue)

	south, err := g.PlatformRide(3, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, south.Name, test.ShouldEqual, "platform_3_2")

	pos := r3.Vector{X: 30, Y: 0.5, Z: -15}
	rdv, err := g.RideRendezvous(3, 2, pos, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rdv.Platform, test.ShouldEqual, south.Index)
	test.That(t, rdv.CrossingDuration(), test.ShouldAlmostEqual, 50)

	// keyed on the target alone, the first platform into box 2 answers
	rdv, err = g.PlatformRendezvous(2, pos, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rdv.CrossingDuration(), test.ShouldAlmostEqual, 200)
}
