package regions

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// Rendezvous tells an agent waiting at a dock when to jump onto a platform and when to jump off.
type Rendezvous struct {
	Platform int
	// JumpAt and LeaveAt share the units of the `now` passed to PlatformRendezvous.
	JumpAt  float64
	LeaveAt float64
	// Fallback is set when no sampled arrival came after the minimum wait and the first sample was
	// used instead. Such a jump time may already be in the past.
	Fallback bool
}

// CrossingDuration is the time spent riding the platform.
func (r Rendezvous) CrossingDuration() float64 {
	return r.LeaveAt - r.JumpAt
}

// PlatformRendezvous computes when an agent standing at pos should board the platform leading into
// target. Candidate wait times are sampled over two crossing durations; for each one the agent's
// position is rotated back against the platform's motion and compared to where the platform is at
// now. The closest candidate past the minimum wait wins, and the jump starts a fixed lead time
// before it.
func (g *Graph) PlatformRendezvous(target int, pos r3.Vector, now float64) (Rendezvous, error) {
	platform, err := g.PlatformInto(target)
	if err != nil {
		return Rendezvous{}, err
	}
	return g.rendezvous(platform, pos, now), nil
}

// RideRendezvous is PlatformRendezvous for the platform riding from box from to box to, for levels
// where several platforms lead into the same box.
func (g *Graph) RideRendezvous(from, to int, pos r3.Vector, now float64) (Rendezvous, error) {
	platform, err := g.PlatformRide(from, to)
	if err != nil {
		return Rendezvous{}, err
	}
	return g.rendezvous(platform, pos, now), nil
}

func (g *Graph) rendezvous(platform *Region, pos r3.Vector, now float64) Rendezvous {
	motion := platform.Motion
	crossing := motion.CrossingDuration()
	anchor := motion.PositionAt(now)

	var waits, distances []float64
	for i := 1; float64(i)*rendezvousStep <= 2*crossing; i++ {
		wait := float64(i) * rendezvousStep
		if wait <= rendezvousMinWait {
			continue
		}
		waits = append(waits, wait)
		distances = append(distances, motion.RotateBack(pos, wait).Distance(anchor))
	}

	rdv := Rendezvous{Platform: platform.Index}
	wait := rendezvousStep
	if len(waits) == 0 {
		rdv.Fallback = true
		g.logger.Warnw("no platform arrival after the minimum wait, boarding at the first sample",
			"platform", platform.Name, "crossing", crossing, "wait", wait)
	} else {
		wait = waits[floats.MinIdx(distances)]
	}

	jump := wait - rendezvousLead
	rdv.JumpAt = now + jump
	rdv.LeaveAt = now + jump + crossing
	g.logger.Debugw("platform rendezvous",
		"platform", platform.Name, "target", platform.To(), "jump_at", rdv.JumpAt, "leave_at", rdv.LeaveAt)
	return rdv
}
