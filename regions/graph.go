package regions

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/regionplan/logging"
	"go.viam.com/regionplan/spatialmath"
)

// BoxSpec is an authored walkable box. Its position in Level.Boxes is its region index.
type BoxSpec struct {
	Name   string
	Volume spatialmath.Volume
}

// PortalSpec is an authored static connection between two boxes.
type PortalSpec struct {
	Name    string
	Volume  spatialmath.Volume
	Between [2]int
}

// PlatformSpec is an authored moving platform ferrying agents from one box to another. The
// platform's volume is its pose at simulation time zero.
type PlatformSpec struct {
	Name         string
	Volume       spatialmath.Volume
	From, To     int
	Center       r3.Vector
	AngularSpeed float64
	Radius       float64
}

// Level is the authoring data a Graph is built from.
type Level struct {
	Boxes     []BoxSpec
	Portals   []PortalSpec
	Platforms []PlatformSpec
	Finish    r3.Vector
}

// Graph owns every region of a level. Its topology never changes after Build; only the per-region
// search scratch is written, and only by a running global search. Overlapping global searches on
// one Graph are not supported.
type Graph struct {
	regions []*Region
	boxes   int
	finish  r3.Vector
	logger  logging.Logger
}

// Build assigns indices to boxes in order, then creates one portal region per portal and one
// platform region per platform, each adding a symmetric edge between the two boxes it joins.
func Build(level Level, maxSpeed float64, logger logging.Logger) (*Graph, error) {
	if err := validateLevel(level, maxSpeed); err != nil {
		return nil, err
	}

	g := &Graph{
		regions: make([]*Region, 0, len(level.Boxes)+len(level.Portals)+len(level.Platforms)),
		boxes:   len(level.Boxes),
		finish:  level.Finish,
		logger:  logger,
	}
	for i, spec := range level.Boxes {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("box_%d", i)
		}
		g.regions = append(g.regions, newRegion(i, KindBox, name, spec.Volume, maxSpeed))
	}
	for _, spec := range level.Portals {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("portal_%d_%d", spec.Between[0], spec.Between[1])
		}
		portal := newRegion(len(g.regions), KindPortal, name, spec.Volume, maxSpeed)
		portal.Bridges = spec.Between
		g.regions = append(g.regions, portal)
		g.connect(spec.Between[0], spec.Between[1])
	}
	for _, spec := range level.Platforms {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("platform_%d_%d", spec.From, spec.To)
		}
		platform := newRegion(len(g.regions), KindPlatform, name, spec.Volume, maxSpeed)
		platform.Bridges = [2]int{spec.From, spec.To}
		platform.Motion = &PlatformMotion{
			Center:       spec.Center,
			AngularSpeed: spec.AngularSpeed,
			Radius:       spec.Radius,
			Anchor:       spec.Volume.Center(),
		}
		g.regions = append(g.regions, platform)
		g.connect(spec.From, spec.To)
	}

	logger.Debugw("built region graph",
		"boxes", len(level.Boxes), "portals", len(level.Portals), "platforms", len(level.Platforms))
	return g, nil
}

func validateLevel(level Level, maxSpeed float64) error {
	var errs error
	if maxSpeed <= 0 {
		errs = multierr.Append(errs, errors.Errorf("max speed must be positive, got %v", maxSpeed))
	}
	if len(level.Boxes) == 0 {
		errs = multierr.Append(errs, errors.New("level has no boxes"))
	}
	for i, b := range level.Boxes {
		if b.Volume == nil {
			errs = multierr.Append(errs, errors.Errorf("box %d has no volume", i))
		}
	}
	checkPair := func(what string, i, a, b int) {
		if a < 0 || a >= len(level.Boxes) || b < 0 || b >= len(level.Boxes) {
			errs = multierr.Append(errs, errors.Errorf("%s %d joins (%d, %d) but only %d boxes exist", what, i, a, b, len(level.Boxes)))
		} else if a == b {
			errs = multierr.Append(errs, errors.Errorf("%s %d joins box %d to itself", what, i, a))
		}
	}
	for i, p := range level.Portals {
		if p.Volume == nil {
			errs = multierr.Append(errs, errors.Errorf("portal %d has no volume", i))
		}
		checkPair("portal", i, p.Between[0], p.Between[1])
	}
	for i, p := range level.Platforms {
		if p.Volume == nil {
			errs = multierr.Append(errs, errors.Errorf("platform %d has no volume", i))
		}
		if p.AngularSpeed <= 0 {
			errs = multierr.Append(errs, errors.Errorf("platform %d angular speed must be positive, got %v", i, p.AngularSpeed))
		}
		if p.Radius <= 0 {
			errs = multierr.Append(errs, errors.Errorf("platform %d radius must be positive, got %v", i, p.Radius))
		} else if p.Volume != nil {
			if d := orbitRadius(p.Volume.Center(), p.Center); math.Abs(d-p.Radius) > radiusTolerance*p.Radius {
				errs = multierr.Append(errs, errors.Errorf("platform %d radius is %v but its volume orbits at %v", i, p.Radius, d))
			}
		}
		checkPair("platform", i, p.From, p.To)
	}
	if errs != nil {
		return multierr.Combine(ErrInvalidLevel, errs)
	}
	return nil
}

func (g *Graph) connect(a, b int) {
	g.regions[a].addNeighbor(b)
	g.regions[b].addNeighbor(a)
}

// Len returns the number of regions of every kind.
func (g *Graph) Len() int {
	return len(g.regions)
}

// Regions returns every region, indexed by Region.Index.
func (g *Graph) Regions() []*Region {
	return append([]*Region{}, g.regions...)
}

// Boxes returns the walkable box regions.
func (g *Graph) Boxes() []*Region {
	return append([]*Region{}, g.regions[:g.boxes]...)
}

// Finish is the designated goal point of the level.
func (g *Graph) Finish() r3.Vector {
	return g.finish
}

// RegionByIndex looks a region up by index.
func (g *Graph) RegionByIndex(i int) (*Region, bool) {
	if i < 0 || i >= len(g.regions) {
		return nil, false
	}
	return g.regions[i], true
}

// RegionContaining resolves a point to the box it stands in. An explicit override is trusted
// without a containment test but must name a box. ok is false when the point is outside every box,
// i.e. outside navigable space.
func (g *Graph) RegionContaining(pt r3.Vector, override *int) (*Region, bool) {
	if override != nil {
		r, ok := g.RegionByIndex(*override)
		if !ok || r.Kind != KindBox {
			return nil, false
		}
		return r, true
	}
	for _, r := range g.regions[:g.boxes] {
		if r.Contains(pt) {
			return r, true
		}
	}
	return nil, false
}

// PortalBetween returns the portal joining boxes a and b, in either orientation.
func (g *Graph) PortalBetween(a, b int) (*Region, bool) {
	return g.bridgeOfKind(KindPortal, a, b)
}

// PlatformBetween returns the platform joining boxes a and b, in either direction.
func (g *Graph) PlatformBetween(a, b int) (*Region, bool) {
	return g.bridgeOfKind(KindPlatform, a, b)
}

// IsPlatformBetween reports whether a platform edge connects a and b.
func (g *Graph) IsPlatformBetween(a, b int) bool {
	_, ok := g.PlatformBetween(a, b)
	return ok
}

func (g *Graph) bridgeOfKind(kind Kind, a, b int) (*Region, bool) {
	return lo.Find(g.regions[g.boxes:], func(r *Region) bool {
		return r.Kind == kind &&
			((r.Bridges[0] == a && r.Bridges[1] == b) || (r.Bridges[0] == b && r.Bridges[1] == a))
	})
}

// Bridge returns the point an agent in box a walks to in order to move on to box b, and the region
// crossed. A platform edge takes precedence over a portal joining the same pair, and yields the
// dock: the point of a closest to where the platform was authored. Portals are walked to directly.
func (g *Graph) Bridge(a, b int) (r3.Vector, *Region, error) {
	if platform, ok := g.PlatformBetween(a, b); ok {
		from, _ := g.RegionByIndex(a)
		return from.Volume.ClosestPoint(platform.Motion.Anchor), platform, nil
	}
	if portal, ok := g.PortalBetween(a, b); ok {
		return portal.Volume.Center(), portal, nil
	}
	return r3.Vector{}, nil, errors.Wrapf(ErrNotAdjacent, "%d and %d", a, b)
}

// PlatformInto returns the first platform whose destination is target.
func (g *Graph) PlatformInto(target int) (*Region, error) {
	return g.findPlatform(func(r *Region) bool { return r.To() == target }, "region %d", target)
}

// PlatformRide returns the platform carrying agents from box from to box to. Platforms only ride
// in their authored direction.
func (g *Graph) PlatformRide(from, to int) (*Region, error) {
	return g.findPlatform(func(r *Region) bool { return r.From() == from && r.To() == to }, "ride %d -> %d", from, to)
}

func (g *Graph) findPlatform(match func(*Region) bool, format string, args ...interface{}) (*Region, error) {
	if p, ok := lo.Find(g.regions[g.boxes:], func(r *Region) bool { return r.Kind == KindPlatform && match(r) }); ok {
		return p, nil
	}
	return nil, errors.Wrapf(ErrMissingPlatform, format, args...)
}

// ResetScratch clears the global search bookkeeping of every region.
func (g *Graph) ResetScratch() {
	for _, r := range g.regions {
		r.resetScratch()
	}
}
