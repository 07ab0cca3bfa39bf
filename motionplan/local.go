package motionplan

import (
	"context"

	"github.com/golang/geo/r3"
	"go.opencensus.io/trace"

	"go.viam.com/regionplan/logging"
	"go.viam.com/regionplan/regions"
	"go.viam.com/regionplan/spatialmath"
	"go.viam.com/regionplan/utils"
	"go.viam.com/regionplan/world"
)

// LocalPlanner runs a best-first search over (position, heading) states near one region. Every
// successor must be approved by the walkability oracle of its world.Querier.
type LocalPlanner struct {
	graph   *regions.Graph
	querier world.Querier
	logger  logging.Logger
}

// NewLocalPlanner returns a LocalPlanner over the given graph and spatial queries.
func NewLocalPlanner(graph *regions.Graph, querier world.Querier, logger logging.Logger) *LocalPlanner {
	return &LocalPlanner{graph: graph, querier: querier, logger: logger}
}

// Plan searches for a path from start to goal. The returned poses begin with start and end with the
// literal goal pose. A search that runs out of frontier or hits the expansion cap fails with
// ErrPathNotFound.
func (lp *LocalPlanner) Plan(ctx context.Context, start, goal PathNode, profile *MovementProfile) ([]PathNode, error) {
	_, span := trace.StartSpan(ctx, "motionplan.localPlan")
	defer span.End()

	if profile == nil {
		profile = NewDefaultMovementProfile()
	}
	startRegion, ok := lp.graph.RegionContaining(start.Position, start.Region)
	if !ok {
		return nil, NewNoNavigableRegionError("start", start.Position)
	}
	if start.Position.Distance(goal.Position) < profile.Epsilon {
		return []PathNode{start, goal}, nil
	}

	root := start
	root.Heading = horizontal(start.Heading)
	if root.Heading.Norm2() == 0 {
		root.Heading = horizontal(goal.Position.Sub(start.Position))
	}
	root.Cost = 0
	root.Excursion = 0

	arena := &nodeArena{}
	frontier := &priorityQueue{}
	visited := map[gridKey]struct{}{newGridKey(root, profile.GridResolution): {}}
	frontier.push(arena.add(root, noParent), lp.priority(root, goal, profile))

	lp.logger.CDebugw(ctx, "local search started",
		"start", start.Position, "goal", goal.Position, "region", startRegion.Name)

	expansions := 0
	for frontier.Len() > 0 && expansions < profile.MaxExpansions {
		expansions++
		i, _ := frontier.pop()
		n := arena.node(i)
		if n.Excursion > profile.MaxExcursion {
			continue
		}
		if n.Position.Distance(goal.Position) < profile.Epsilon || lp.crossesGoal(arena, i, goal, profile) {
			path := lp.splice(arena, i, goal)
			lp.logger.CDebugw(ctx, "local search succeeded", "expansions", expansions, "poses", len(path))
			return path, nil
		}

		for _, succ := range lp.successors(n, startRegion, profile) {
			key := newGridKey(succ, profile.GridResolution)
			if _, seen := visited[key]; seen {
				continue
			}
			if !world.Walkable(lp.querier, succ.Position, profile.walkOptions()) {
				continue
			}
			visited[key] = struct{}{}
			frontier.push(arena.add(succ, i), lp.priority(succ, goal, profile))
		}
	}

	lp.logger.Warnw("local search failed",
		"start", start.Position, "goal", goal.Position, "expansions", expansions, "frontier", frontier.Len())
	return nil, NewPlannerFailedError(expansions)
}

func (lp *LocalPlanner) priority(n, goal PathNode, profile *MovementProfile) float64 {
	return n.Cost + n.Position.Distance(goal.Position)/profile.MaxSpeed
}

// successors generates, for every steering angle, a turn in place and a step along the turned heading.
func (lp *LocalPlanner) successors(n PathNode, startRegion *regions.Region, profile *MovementProfile) []PathNode {
	angles := profile.SteeringAngles()
	out := make([]PathNode, 0, 2*len(angles))
	for _, step := range []float64{0, profile.StepLength()} {
		for _, angle := range angles {
			heading := horizontal(spatialmath.RotateAboutUp(n.Heading, angle))
			succ := PathNode{
				Position:  n.Position.Add(heading.Mul(step)),
				Heading:   heading,
				Time:      n.Time + profile.TimeStep,
				Cost:      n.Cost + profile.TimeStep,
				Excursion: n.Excursion,
			}
			if !startRegion.Contains(succ.Position) {
				succ.Excursion = utils.SaturatingIncUint8(n.Excursion)
			}
			out = append(out, succ)
		}
	}
	return out
}

// crossesGoal reports whether the move from i's parent to i passed over the goal: either the swept
// agent touched the goal point or the segment hit a marker volume centered on it.
func (lp *LocalPlanner) crossesGoal(arena *nodeArena, i int, goal PathNode, profile *MovementProfile) bool {
	parent := arena.parent(i)
	if parent == noParent {
		return false
	}
	from, to := arena.node(parent).Position, arena.node(i).Position
	if spatialmath.SqDistanceToSegment(goal.Position, from, to) <= utils.Square(profile.AgentRadius) {
		return true
	}
	length := to.Distance(from)
	if length == 0 {
		return false
	}
	for _, hit := range lp.querier.SegmentCast(from, to.Sub(from), length) {
		if hit.Tag != world.TagPortal && hit.Tag != world.TagPlatform && hit.Tag != world.TagFinish {
			continue
		}
		if spatialmath.R3VectorAlmostEqual(hit.Volume.Center(), goal.Position, profile.Epsilon) {
			return true
		}
	}
	return false
}

// splice replaces node i with the literal goal pose, parented to i's parent.
func (lp *LocalPlanner) splice(arena *nodeArena, i int, goal PathNode) []PathNode {
	reached := arena.node(i)
	final := goal
	final.Time = reached.Time
	final.Cost = reached.Cost
	final.Excursion = reached.Excursion
	if final.Heading.Norm2() == 0 {
		final.Heading = reached.Heading
	}

	parent := arena.parent(i)
	if parent == noParent {
		return []PathNode{reached, final}
	}
	return append(arena.path(parent), final)
}

func horizontal(v r3.Vector) r3.Vector {
	return spatialmath.Normalize(r3.Vector{X: v.X, Z: v.Z})
}
