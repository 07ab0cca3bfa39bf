package world

import (
	"sort"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/regionplan/spatialmath"
)

var down = r3.Vector{X: 0, Y: -1, Z: 0}

// Scene is an in-memory Querier over a static list of tagged volumes.
type Scene struct {
	mu      sync.RWMutex
	volumes []TaggedVolume
}

// NewScene returns a scene holding the given volumes.
func NewScene(volumes ...TaggedVolume) (*Scene, error) {
	s := &Scene{}
	for _, v := range volumes {
		if err := s.Add(v.Tag, v.Volume); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers another volume with the scene.
func (s *Scene) Add(tag Tag, volume spatialmath.Volume) error {
	if volume == nil {
		return errors.Errorf("cannot add nil %s volume to scene", tag)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes = append(s.volumes, TaggedVolume{Tag: tag, Volume: volume})
	return nil
}

// Volumes returns the volumes carrying any of the given tags, or all volumes if none are given.
func (s *Scene) Volumes(tags ...Tag) []TaggedVolume {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(tags) == 0 {
		return append([]TaggedVolume{}, s.volumes...)
	}
	return lo.Filter(s.volumes, func(v TaggedVolume, _ int) bool {
		return lo.Contains(tags, v.Tag)
	})
}

// Contains reports whether pt is inside a region or ground volume.
func (s *Scene) Contains(pt r3.Vector) bool {
	for _, v := range s.Volumes(TagRegion, TagGround) {
		if v.Volume.Contains(pt) {
			return true
		}
	}
	return false
}

// Overlap returns the volumes intersecting the sphere around pt.
func (s *Scene) Overlap(pt r3.Vector, radius float64) []TaggedVolume {
	r2 := radius * radius
	return lo.Filter(s.Volumes(), func(v TaggedVolume, _ int) bool {
		return v.Volume.SqDistance(pt) <= r2
	})
}

// GroundProbe casts straight down from pt looking for a ground volume.
func (s *Scene) GroundProbe(pt r3.Vector, maxDepth float64) bool {
	for _, v := range s.Volumes(TagGround) {
		if _, hit := v.Volume.SegmentIntersect(pt, down, maxDepth); hit {
			return true
		}
	}
	return false
}

// SegmentCast returns every volume the segment touches, nearest first.
func (s *Scene) SegmentCast(from, dir r3.Vector, maxDistance float64) []Hit {
	dir = spatialmath.Normalize(dir)
	if dir.Norm2() == 0 {
		return nil
	}
	var hits []Hit
	for _, v := range s.Volumes() {
		if dist, ok := v.Volume.SegmentIntersect(from, dir, maxDistance); ok {
			hits = append(hits, Hit{TaggedVolume: v, Distance: dist, Point: from.Add(dir.Mul(dist))})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}
