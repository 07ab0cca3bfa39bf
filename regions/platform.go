package regions

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/regionplan/spatialmath"
)

const (
	// referenceSpeed calibrates crossing duration: a platform spinning at 1 deg/s takes
	// crossingScale*referenceSpeed seconds to carry an agent across.
	referenceSpeed = 40.
	crossingScale  = 5.

	rendezvousStep    = 0.02 // s between sampled wait times
	rendezvousMinWait = 0.5  // s the agent waits at least before boarding
	rendezvousLead    = 1.0  // s to start the jump ahead of the platform's arrival

	// radiusTolerance is the relative slack allowed between a platform's authored radius and the
	// distance its volume actually orbits at.
	radiusTolerance = 1e-3
)

// PlatformMotion is uniform circular motion around a vertical axis. Anchor is the platform's
// position at simulation time zero; AngularSpeed is in degrees per second.
type PlatformMotion struct {
	Center       r3.Vector
	AngularSpeed float64
	Radius       float64
	Anchor       r3.Vector
}

// orbitRadius is the distance from center to pt in the horizontal plane, the radius pt turns at.
func orbitRadius(pt, center r3.Vector) float64 {
	d := pt.Sub(center)
	return math.Hypot(d.X, d.Z)
}

// CrossingDuration is how long a ride across takes. It is inversely proportional to the angular speed.
func (m *PlatformMotion) CrossingDuration() float64 {
	return crossingScale * (referenceSpeed / m.AngularSpeed)
}

// PositionAt returns where the platform anchor is at simulation time t.
func (m *PlatformMotion) PositionAt(t float64) r3.Vector {
	return spatialmath.RotateAround(m.Anchor, m.Center, m.AngularSpeed*t)
}

// RotateBack rotates pt against the platform's motion by dt seconds.
func (m *PlatformMotion) RotateBack(pt r3.Vector, dt float64) r3.Vector {
	return spatialmath.RotateAround(pt, m.Center, -m.AngularSpeed*dt)
}
