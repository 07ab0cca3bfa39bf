package motionplan

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/regionplan/utils"
)

// PathNode is one pose along a planned path.
type PathNode struct {
	Position r3.Vector `json:"position"`
	// Heading is a unit direction in the horizontal plane, or zero when unknown.
	Heading r3.Vector `json:"heading"`
	// Time is the simulation time the agent reaches this pose.
	Time float64 `json:"time"`
	// Region, when set, names the region the pose belongs to without a containment test.
	Region *int `json:"region,omitempty"`
	// Excursion counts generations spent outside the region a local search started in.
	Excursion uint8 `json:"excursion"`
	// Cost is the accumulated search cost, in seconds, of reaching this pose.
	Cost float64 `json:"cost"`
}

func (n PathNode) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f) heading (%.2f, %.2f) t=%.2f",
		n.Position.X, n.Position.Y, n.Position.Z, n.Heading.X, n.Heading.Z, n.Time)
}

// WithRegion returns a copy of n carrying an explicit region override.
func (n PathNode) WithRegion(region int) PathNode {
	n.Region = &region
	return n
}

const noParent = -1

type arenaEntry struct {
	node   PathNode
	parent int
}

// nodeArena owns every node created during one local search. Parents are indices into the arena.
type nodeArena struct {
	entries []arenaEntry
}

func (a *nodeArena) add(n PathNode, parent int) int {
	a.entries = append(a.entries, arenaEntry{node: n, parent: parent})
	return len(a.entries) - 1
}

func (a *nodeArena) node(i int) PathNode {
	return a.entries[i].node
}

func (a *nodeArena) parent(i int) int {
	return a.entries[i].parent
}

// path walks parent links from i back to the root and returns the poses root first.
func (a *nodeArena) path(i int) []PathNode {
	path := make([]PathNode, 0)
	for ; i != noParent; i = a.entries[i].parent {
		path = append(path, a.entries[i].node)
	}

	// reverse the slice
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// gridKey is a search state quantized onto the deduplication grid.
type gridKey struct {
	x, z, hx, hz int
}

func newGridKey(n PathNode, resolution float64) gridKey {
	return gridKey{
		x:  utils.RoundToInt(n.Position.X / resolution),
		z:  utils.RoundToInt(n.Position.Z / resolution),
		hx: utils.RoundToInt(n.Heading.X / resolution),
		hz: utils.RoundToInt(n.Heading.Z / resolution),
	}
}
