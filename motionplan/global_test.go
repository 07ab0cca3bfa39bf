package motionplan

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/regionplan/logging"
	"go.viam.com/regionplan/regions"
	"go.viam.com/regionplan/spatialmath"
)

func TestGlobalPlanThroughPortal(t *testing.T) {
	f := newFixture(t)
	gp := f.globalPlanner(t, logging.NewTestLogger(t))

	start := pose(0, 1, 0)
	start.Heading = r3.Vector{X: 1}
	outcome, next, err := gp.Plan(context.Background(), State{}, Request{Start: start, Finish: pose(10, 1, 0)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, next.Kind, test.ShouldEqual, StateIdle)
	test.That(t, outcome.Regions, test.ShouldResemble, []int{0, 1})
	test.That(t, outcome.Rendezvous, test.ShouldBeNil)
	test.That(t, *outcome.EnteredRegion, test.ShouldEqual, 1)

	path := outcome.Path
	test.That(t, path, test.ShouldNotBeNil)
	test.That(t, path[0].Position, test.ShouldResemble, start.Position)
	portal := r3.Vector{X: 5, Y: 1}
	test.That(t, path[len(path)-2].Position, test.ShouldResemble, portal)
	test.That(t, path[len(path)-1].Position, test.ShouldResemble, portal)
	test.That(t, path[len(path)-2].Region, test.ShouldBeNil)
	test.That(t, *path[len(path)-1].Region, test.ShouldEqual, 1)

	var delivered []PathNode
	platformCalls := 0
	outcome.Deliver(Callbacks{
		OnPathReady: func(p []PathNode, entered *int) {
			delivered = p
			test.That(t, *entered, test.ShouldEqual, 1)
		},
		OnPlatformTransition: func(jumpAt, leaveAt float64) { platformCalls++ },
	})
	test.That(t, delivered, test.ShouldResemble, path)
	test.That(t, platformCalls, test.ShouldEqual, 0)

	// the handoff pose starts the next request in the region it entered
	outcome, _, err = gp.Plan(context.Background(), next, Request{Start: path[len(path)-1], Finish: pose(10, 1, 0)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome.Regions, test.ShouldResemble, []int{1})
}

func TestGlobalPlanSameRegion(t *testing.T) {
	f := newFixture(t)
	gp := f.globalPlanner(t, logging.NewTestLogger(t))

	start, finish := pose(-3, 1, 0), pose(3, 1, 2)
	outcome, next, err := gp.Plan(context.Background(), State{}, Request{Start: start, Finish: finish})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, next.Kind, test.ShouldEqual, StateIdle)
	test.That(t, outcome.Regions, test.ShouldResemble, []int{0})
	test.That(t, outcome.EnteredRegion, test.ShouldBeNil)
	test.That(t, outcome.Path[0].Position, test.ShouldResemble, start.Position)
	test.That(t, outcome.Path[len(outcome.Path)-1].Position, test.ShouldResemble, finish.Position)

	// the region search never ran
	for _, r := range f.graph.Regions() {
		cost, parent := r.Scratch()
		test.That(t, math.IsInf(cost, 1), test.ShouldBeTrue)
		test.That(t, parent, test.ShouldEqual, -1)
	}
}

func TestGlobalPlanPlatform(t *testing.T) {
	f := newFixture(t)
	gp := f.globalPlanner(t, logging.NewTestLogger(t))

	start := pose(10, 1, 0)
	start.Heading = r3.Vector{X: 1}
	outcome, next, err := gp.Plan(context.Background(), State{}, Request{Start: start, Finish: pose(30, 1, 0)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome.Regions, test.ShouldResemble, []int{1, 2})
	dock := r3.Vector{X: 15, Y: 0.5}
	test.That(t, outcome.Path[len(outcome.Path)-1].Position, test.ShouldResemble, dock)
	test.That(t, outcome.Rendezvous, test.ShouldBeNil)

	test.That(t, next.Kind, test.ShouldEqual, StatePlatformPending)
	test.That(t, next.From, test.ShouldEqual, 1)
	test.That(t, next.Region, test.ShouldEqual, 2)
	test.That(t, next.Boarding.Position, test.ShouldResemble, dock)

	// the pending transition is delivered instead of searching
	var jump, leave float64
	pathCalls := 0
	outcome, after, err := gp.Plan(context.Background(), next, Request{Start: pose(1000, 0, 0), Finish: pose(30, 1, 0), Now: 7})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, after.Kind, test.ShouldEqual, StateIdle)
	test.That(t, outcome.Path, test.ShouldBeNil)
	test.That(t, outcome.Rendezvous, test.ShouldNotBeNil)
	outcome.Deliver(Callbacks{
		OnPathReady:          func([]PathNode, *int) { pathCalls++ },
		OnPlatformTransition: func(j, l float64) { jump, leave = j, l },
	})
	test.That(t, pathCalls, test.ShouldEqual, 0)
	test.That(t, leave-jump, test.ShouldAlmostEqual, 200)
	test.That(t, jump, test.ShouldBeGreaterThan, 7-1)
}

func TestGlobalPlanErrorsKeepState(t *testing.T) {
	f := newFixture(t)
	gp := f.globalPlanner(t, logging.NewTestLogger(t))
	ctx := context.Background()

	state := State{}
	_, next, err := gp.Plan(ctx, state, Request{Start: pose(20, 1, 0), Finish: pose(30, 1, 0)})
	test.That(t, errors.Is(err, ErrNoNavigableRegion), test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, state)

	_, next, err = gp.Plan(ctx, state, Request{Start: pose(0, 1, 0), Finish: pose(0, 50, 0)})
	test.That(t, errors.Is(err, ErrNoNavigableRegion), test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, state)

	// a pending transition into a region no platform serves is an authoring error
	bad := State{Kind: StatePlatformPending, Region: 0, Boarding: pose(0, 1, 0)}
	_, next, err = gp.Plan(ctx, bad, Request{})
	test.That(t, errors.Is(err, regions.ErrMissingPlatform), test.ShouldBeTrue)
	test.That(t, regions.IsConfigurationError(err), test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, bad)
}

func TestGlobalPlanRideDirection(t *testing.T) {
	f := newFixture(t)
	gp := f.globalPlanner(t, logging.NewTestLogger(t))
	ctx := context.Background()

	// the ferry only runs from box 1 to box 2
	_, next, err := gp.Plan(ctx, State{}, Request{Start: pose(30, 1, 0), Finish: pose(10, 1, 0)})
	test.That(t, errors.Is(err, regions.ErrMissingPlatform), test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, State{})

	// a pending ride resolves through the pair it was planned over, not just its destination
	wrong := State{Kind: StatePlatformPending, From: 0, Region: 2, Boarding: pose(15, 0.5, 0)}
	_, next, err = gp.Plan(ctx, wrong, Request{})
	test.That(t, errors.Is(err, regions.ErrMissingPlatform), test.ShouldBeTrue)
	test.That(t, next, test.ShouldResemble, wrong)

	right := wrong
	right.From = 1
	outcome, next, err := gp.Plan(ctx, right, Request{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome.Rendezvous.Platform, test.ShouldEqual, 4)
	test.That(t, next.Kind, test.ShouldEqual, StateIdle)
}

func TestGlobalPlanPlatformBesidePortal(t *testing.T) {
	logger := logging.NewTestLogger(t)
	f := newFixture(t)
	level := regions.Level{}
	for _, r := range f.graph.Boxes() {
		level.Boxes = append(level.Boxes, regions.BoxSpec{Volume: r.Volume})
	}
	portal, _ := f.graph.RegionByIndex(3)
	platform, _ := f.graph.RegionByIndex(4)
	gap, err := spatialmath.NewSphere(r3.Vector{X: 15, Y: 1, Z: 4}, 1, "")
	test.That(t, err, test.ShouldBeNil)
	level.Portals = []regions.PortalSpec{
		{Volume: portal.Volume, Between: [2]int{0, 1}},
		{Volume: gap, Between: [2]int{1, 2}},
	}
	level.Platforms = []regions.PlatformSpec{{
		Volume: platform.Volume, From: 1, To: 2,
		Center: platform.Motion.Center, AngularSpeed: platform.Motion.AngularSpeed, Radius: platform.Motion.Radius,
	}}
	graph, err := regions.Build(level, defaultMaxSpeed, logger)
	test.That(t, err, test.ShouldBeNil)
	gp, err := NewGlobalPlanner(graph, f.scene, nil, logger)
	test.That(t, err, test.ShouldBeNil)

	// the platform edge decides the next state and the walk ends at its dock
	start := pose(10, 1, 0)
	start.Heading = r3.Vector{X: 1}
	outcome, next, err := gp.Plan(context.Background(), State{}, Request{Start: start, Finish: pose(30, 1, 0)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outcome.Path[len(outcome.Path)-1].Position, test.ShouldResemble, r3.Vector{X: 15, Y: 0.5})
	test.That(t, next.Kind, test.ShouldEqual, StatePlatformPending)
	test.That(t, next.From, test.ShouldEqual, 1)
}

func TestRegionSearchUnreachable(t *testing.T) {
	logger := logging.NewTestLogger(t)
	level := regions.Level{Boxes: []regions.BoxSpec{
		{Volume: newVolume(t, r3.Vector{}, r3.Vector{X: 2, Y: 2, Z: 2})},
		{Volume: newVolume(t, r3.Vector{X: 10}, r3.Vector{X: 2, Y: 2, Z: 2})},
	}}
	graph, err := regions.Build(level, 5, logger)
	test.That(t, err, test.ShouldBeNil)
	f := newFixture(t)
	gp, err := NewGlobalPlanner(graph, f.scene, nil, logger)
	test.That(t, err, test.ShouldBeNil)

	_, next, err := gp.Plan(context.Background(), State{}, Request{Start: pose(0, 0, 0), Finish: pose(10, 0, 0)})
	test.That(t, errors.Is(err, ErrRegionUnreachable), test.ShouldBeTrue)
	test.That(t, next.Kind, test.ShouldEqual, StateIdle)
}

func TestRegionSearchPicksCheapestRoute(t *testing.T) {
	logger := logging.NewTestLogger(t)
	unit := r3.Vector{X: 2, Y: 2, Z: 2}
	marker, err := newSphereMarker(r3.Vector{})
	test.That(t, err, test.ShouldBeNil)
	// 0 -> 3 directly is long, 0 -> 1 -> 2 -> 3 hugs a straight line
	level := regions.Level{
		Boxes: []regions.BoxSpec{
			{Volume: newVolume(t, r3.Vector{}, unit)},
			{Volume: newVolume(t, r3.Vector{X: 10}, unit)},
			{Volume: newVolume(t, r3.Vector{X: 20}, unit)},
			{Volume: newVolume(t, r3.Vector{X: 30}, unit)},
			{Volume: newVolume(t, r3.Vector{X: 15, Z: 40}, unit)},
		},
		Portals: []regions.PortalSpec{
			{Volume: marker, Between: [2]int{0, 1}},
			{Volume: marker, Between: [2]int{1, 2}},
			{Volume: marker, Between: [2]int{2, 3}},
			{Volume: marker, Between: [2]int{0, 4}},
			{Volume: marker, Between: [2]int{4, 3}},
		},
	}
	graph, err := regions.Build(level, 5, logger)
	test.That(t, err, test.ShouldBeNil)
	gp, err := NewGlobalPlanner(graph, newFixture(t).scene, nil, logger)
	test.That(t, err, test.ShouldBeNil)

	src, _ := graph.RegionByIndex(0)
	dst, _ := graph.RegionByIndex(3)
	sequence, err := gp.regionSearch(context.Background(), src, dst, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sequence, test.ShouldResemble, []int{0, 1, 2, 3})

	cost, parent := dst.Scratch()
	test.That(t, cost, test.ShouldAlmostEqual, 6)
	test.That(t, parent, test.ShouldEqual, 2)
}

func TestTravelTime(t *testing.T) {
	path := []PathNode{pose(0, 0, 0), pose(3, 0, 0), pose(3, 0, 4)}
	test.That(t, TravelTime(path, 7), test.ShouldAlmostEqual, 1)
	test.That(t, TravelTime(path[:1], 7), test.ShouldEqual, 0.)
}
