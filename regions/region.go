// Package regions models the navigable level as a graph of bounded regions joined by portals and
// moving platforms, and answers the lookups the planners need from it.
package regions

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r3"

	"go.viam.com/regionplan/spatialmath"
)

// Kind tags the variant of a Region.
type Kind int

// The region variants.
const (
	KindBox Kind = iota
	KindPortal
	KindPlatform
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindPortal:
		return "portal"
	case KindPlatform:
		return "platform"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// noParent marks a region with no parent in the current global search.
const noParent = -1

// Region is a closed sub-volume of the level and a node of the planning graph. Boxes are the
// places an agent walks in. Portals and platforms bridge exactly two boxes, recorded in Bridges;
// for platforms Bridges holds the (from, to) pair.
type Region struct {
	Index  int
	Kind   Kind
	Name   string
	Volume spatialmath.Volume

	Bridges [2]int
	Motion  *PlatformMotion

	neighbors []int
	maxSpeed  float64

	// search scratch, only touched by a global search
	cost   float64
	parent int
}

func newRegion(index int, kind Kind, name string, volume spatialmath.Volume, maxSpeed float64) *Region {
	return &Region{
		Index:    index,
		Kind:     kind,
		Name:     name,
		Volume:   volume,
		maxSpeed: maxSpeed,
		cost:     math.Inf(1),
		parent:   noParent,
	}
}

func (r *Region) String() string {
	return fmt.Sprintf("%s %d (%s)", r.Kind, r.Index, r.Name)
}

// From is the box a platform departs from. Only meaningful for platforms.
func (r *Region) From() int {
	return r.Bridges[0]
}

// To is the box a platform arrives at. Only meaningful for platforms.
func (r *Region) To() int {
	return r.Bridges[1]
}

// Neighbors returns the indices of the regions reachable from r, in ascending order.
func (r *Region) Neighbors() []int {
	return append([]int{}, r.neighbors...)
}

// HasNeighbor reports whether other is adjacent to r.
func (r *Region) HasNeighbor(other int) bool {
	i := sort.SearchInts(r.neighbors, other)
	return i < len(r.neighbors) && r.neighbors[i] == other
}

func (r *Region) addNeighbor(other int) {
	i := sort.SearchInts(r.neighbors, other)
	if i < len(r.neighbors) && r.neighbors[i] == other {
		return
	}
	r.neighbors = append(r.neighbors, 0)
	copy(r.neighbors[i+1:], r.neighbors[i:])
	r.neighbors[i] = other
}

// Contains reports whether pt lies in the region's authored volume.
func (r *Region) Contains(pt r3.Vector) bool {
	return r.Volume.Contains(pt)
}

// SqDistanceTo is the squared distance from pt to the region's authored volume, ignoring time.
func (r *Region) SqDistanceTo(pt r3.Vector) float64 {
	return r.Volume.SqDistance(pt)
}

// TransferTime is the time needed to travel from r to dest, starting at now. Only box-to-box
// travel has a defined cost: the straight-line distance between volume centers at max speed.
func (r *Region) TransferTime(now float64, dest *Region) (float64, error) {
	switch r.Kind {
	case KindBox:
		if dest == nil || dest.Kind != KindBox {
			return 0, newUndefinedTransferCostError(r, dest)
		}
		return r.Volume.Center().Distance(dest.Volume.Center()) / r.maxSpeed, nil
	case KindPortal, KindPlatform:
		return 0, newUndefinedTransferCostError(r, dest)
	default:
		return 0, newUndefinedTransferCostError(r, dest)
	}
}

// Scratch returns the global search bookkeeping for r: best known cost and parent index (-1 none).
func (r *Region) Scratch() (float64, int) {
	return r.cost, r.parent
}

// SetScratch records the best known cost and parent of r for the running global search.
func (r *Region) SetScratch(cost float64, parent int) {
	r.cost = cost
	r.parent = parent
}

func (r *Region) resetScratch() {
	r.cost = math.Inf(1)
	r.parent = noParent
}
