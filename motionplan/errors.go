package motionplan

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

var (
	// ErrNoNavigableRegion is returned when a pose cannot be resolved to any region of the level.
	ErrNoNavigableRegion = errors.New("point outside navigable space")

	// ErrPathNotFound is returned when the local search exhausts its frontier or expansion cap. It
	// is recoverable: the caller may retry once the environment changes.
	ErrPathNotFound = errors.New("path not found")

	// ErrRegionUnreachable is returned when the global search cannot connect two regions.
	ErrRegionUnreachable = errors.New("destination region unreachable")

	// ErrRequestOutstanding is returned when a planning request is submitted while another is unresolved.
	ErrRequestOutstanding = errors.New("a planning request is already outstanding")

	// ErrTicketCancelled is returned from Wait on a ticket whose caller gave up on it.
	ErrTicketCancelled = errors.New("planning request was cancelled")
)

// NewNoNavigableRegionError names the pose that could not be placed in any region.
func NewNoNavigableRegionError(what string, pt r3.Vector) error {
	return errors.Wrapf(ErrNoNavigableRegion, "%s at (%.2f, %.2f, %.2f)", what, pt.X, pt.Y, pt.Z)
}

// NewPlannerFailedError reports a local search that gave up after the given number of expansions.
func NewPlannerFailedError(expansions int) error {
	return errors.Wrapf(ErrPathNotFound, "motion planner failed to find path after %d expansions", expansions)
}

func newRegionUnreachableError(from, to int) error {
	return errors.Wrapf(ErrRegionUnreachable, "no route from region %d to region %d", from, to)
}
