// Package world describes the read-only spatial queries the planners ask of the level: point
// containment, sphere overlap, ground probing and segment casting against tagged volumes.
package world

import (
	"github.com/golang/geo/r3"

	"go.viam.com/regionplan/spatialmath"
)

// Tag classifies a volume for the planners.
type Tag string

// Tags understood by the walkability oracle and the local planner.
const (
	TagGround   = Tag("ground")
	TagObstacle = Tag("obstacle")
	TagRegion   = Tag("region")
	TagPortal   = Tag("portal")
	TagPlatform = Tag("platform")
	TagFinish   = Tag("finish")
)

// TaggedVolume is a volume annotated with what it represents in the level.
type TaggedVolume struct {
	Tag    Tag
	Volume spatialmath.Volume
}

// Hit is one intersection reported by a segment cast, ordered by Distance.
type Hit struct {
	TaggedVolume
	Distance float64
	Point    r3.Vector
}

// Querier is the spatial-query capability consumed by the planners. Implementations must be safe
// for concurrent readers; the planners never mutate the environment.
type Querier interface {
	// Contains reports whether pt lies inside any navigable volume of the level.
	Contains(pt r3.Vector) bool
	// Overlap returns every volume that intersects the sphere of the given radius around pt.
	Overlap(pt r3.Vector, radius float64) []TaggedVolume
	// GroundProbe reports whether ground lies directly beneath pt within maxDepth.
	GroundProbe(pt r3.Vector, maxDepth float64) bool
	// SegmentCast returns every volume touched by the segment from `from` along dir for maxDistance.
	SegmentCast(from, dir r3.Vector, maxDistance float64) []Hit
}

// WalkOptions tunes the walkability oracle.
type WalkOptions struct {
	AgentRadius      float64
	GroundProbeDepth float64
}

// Walkable reports whether an agent may stand at pt: there is ground beneath it and no obstacle
// overlaps the agent's sphere.
func Walkable(q Querier, pt r3.Vector, opts WalkOptions) bool {
	if !q.GroundProbe(pt, opts.GroundProbeDepth) {
		return false
	}
	for _, v := range q.Overlap(pt, opts.AgentRadius) {
		if v.Tag == TagObstacle {
			return false
		}
	}
	return true
}
