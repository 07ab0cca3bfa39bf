package motionplan

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/regionplan/logging"
	"go.viam.com/regionplan/regions"
	"go.viam.com/regionplan/spatialmath"
	"go.viam.com/regionplan/world"
)

type fixture struct {
	graph *regions.Graph
	scene *world.Scene
}

func newVolume(t *testing.T, center, dims r3.Vector) spatialmath.Volume {
	t.Helper()
	b, err := spatialmath.NewBox(center, dims, "")
	test.That(t, err, test.ShouldBeNil)
	return b
}

// newFixture lays out three 10x10 boxes along +X over one ground slab. Boxes 0 and 1 share a
// portal at x=5; boxes 1 and 2 are joined by a platform spinning at 1 deg/s around (20, 0.5, 0).
func newFixture(t *testing.T, obstacles ...spatialmath.Volume) *fixture {
	t.Helper()
	logger := logging.NewTestLogger(t)

	portal, err := spatialmath.NewSphere(r3.Vector{X: 5, Y: 1}, 1, "portal")
	test.That(t, err, test.ShouldBeNil)
	platform := newVolume(t, r3.Vector{X: 17, Y: 0.5}, r3.Vector{X: 2, Y: 1, Z: 2})
	boxes := []spatialmath.Volume{
		newVolume(t, r3.Vector{Y: 1}, r3.Vector{X: 10, Y: 4, Z: 10}),
		newVolume(t, r3.Vector{X: 10, Y: 1}, r3.Vector{X: 10, Y: 4, Z: 10}),
		newVolume(t, r3.Vector{X: 30, Y: 1}, r3.Vector{X: 10, Y: 4, Z: 10}),
	}

	level := regions.Level{
		Portals:   []regions.PortalSpec{{Volume: portal, Between: [2]int{0, 1}}},
		Platforms: []regions.PlatformSpec{{Volume: platform, From: 1, To: 2, Center: r3.Vector{X: 20, Y: 0.5}, AngularSpeed: 1, Radius: 3}},
		Finish:    r3.Vector{X: 30, Y: 1},
	}
	scene, err := world.NewScene(
		world.TaggedVolume{Tag: world.TagGround, Volume: newVolume(t, r3.Vector{X: 10, Y: -0.5}, r3.Vector{X: 60, Y: 1, Z: 30})},
		world.TaggedVolume{Tag: world.TagPortal, Volume: portal},
		world.TaggedVolume{Tag: world.TagPlatform, Volume: platform},
	)
	test.That(t, err, test.ShouldBeNil)
	for _, b := range boxes {
		level.Boxes = append(level.Boxes, regions.BoxSpec{Volume: b})
		test.That(t, scene.Add(world.TagRegion, b), test.ShouldBeNil)
	}
	for _, o := range obstacles {
		test.That(t, scene.Add(world.TagObstacle, o), test.ShouldBeNil)
	}

	graph, err := regions.Build(level, defaultMaxSpeed, logger)
	test.That(t, err, test.ShouldBeNil)
	return &fixture{graph: graph, scene: scene}
}

func (f *fixture) globalPlanner(t *testing.T, logger logging.Logger) *GlobalPlanner {
	t.Helper()
	gp, err := NewGlobalPlanner(f.graph, f.scene, nil, logger)
	test.That(t, err, test.ShouldBeNil)
	return gp
}

func pose(x, y, z float64) PathNode {
	return PathNode{Position: r3.Vector{X: x, Y: y, Z: z}}
}

func newSphereMarker(center r3.Vector) (spatialmath.Volume, error) {
	return spatialmath.NewSphere(center, 0.5, "")
}
