package motionplan

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"go.viam.com/regionplan/logging"
	"go.viam.com/regionplan/regions"
	"go.viam.com/regionplan/world"
)

// StateKind distinguishes the global planner's two states.
type StateKind int

// The global planner states.
const (
	StateIdle StateKind = iota
	// StatePlatformPending means the last path ended at a platform dock and the next request
	// should deliver the rendezvous instead of searching.
	StatePlatformPending
)

func (k StateKind) String() string {
	if k == StatePlatformPending {
		return "platform_pending"
	}
	return "idle"
}

// State is threaded through every call to GlobalPlanner.Plan. From, Region and Boarding are only
// meaningful while a platform transition is pending: the ride goes from box From into box Region,
// boarding at Boarding.
type State struct {
	Kind     StateKind
	From     int
	Region   int
	Boarding PathNode
}

// Request is a single planning request. Now is the caller's simulation clock; every timestamp in
// the outcome shares its units.
type Request struct {
	Start  PathNode
	Finish PathNode
	Now    float64
}

// Outcome is what a successful planning request produces. Either Path or Rendezvous is set.
type Outcome struct {
	// Regions is the region sequence chosen by the global search.
	Regions []int
	Path    []PathNode
	// EnteredRegion is the region the path's final synthetic pose hands the agent over to.
	EnteredRegion *int
	Rendezvous    *regions.Rendezvous
}

// Callbacks receive an Outcome the way locomotion consumes it. Nil callbacks are skipped.
type Callbacks struct {
	OnPathReady          func(path []PathNode, enteredRegion *int)
	OnPlatformTransition func(jumpAt, leaveAt float64)
}

// Deliver hands the outcome to the matching callbacks.
func (o *Outcome) Deliver(cb Callbacks) {
	if o == nil {
		return
	}
	if o.Rendezvous != nil && cb.OnPlatformTransition != nil {
		cb.OnPlatformTransition(o.Rendezvous.JumpAt, o.Rendezvous.LeaveAt)
	}
	if o.Path != nil && cb.OnPathReady != nil {
		cb.OnPathReady(o.Path, o.EnteredRegion)
	}
}

// GlobalPlanner chains a search over the region graph with a local search to the next bridge.
// It must not run two plans at once on the same graph; see Navigator.
type GlobalPlanner struct {
	graph   *regions.Graph
	local   *LocalPlanner
	profile *MovementProfile
	logger  logging.Logger
}

// NewGlobalPlanner returns a GlobalPlanner for the level described by graph and querier.
func NewGlobalPlanner(
	graph *regions.Graph,
	querier world.Querier,
	profile *MovementProfile,
	logger logging.Logger,
) (*GlobalPlanner, error) {
	if profile == nil {
		profile = NewDefaultMovementProfile()
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &GlobalPlanner{
		graph:   graph,
		local:   NewLocalPlanner(graph, querier, logger.Sublogger("local")),
		profile: profile,
		logger:  logger,
	}, nil
}

// Graph returns the region graph the planner searches.
func (gp *GlobalPlanner) Graph() *regions.Graph {
	return gp.graph
}

// Local returns the planner used for paths within and between neighboring regions.
func (gp *GlobalPlanner) Local() *LocalPlanner {
	return gp.local
}

// Profile returns the movement profile paths are planned with.
func (gp *GlobalPlanner) Profile() *MovementProfile {
	return gp.profile
}

// Plan serves one request from the given state and returns the next state. On error the input
// state is returned unchanged.
func (gp *GlobalPlanner) Plan(ctx context.Context, state State, req Request) (*Outcome, State, error) {
	ctx, span := trace.StartSpan(ctx, "motionplan.globalPlan")
	defer span.End()

	if state.Kind == StatePlatformPending {
		rdv, err := gp.graph.RideRendezvous(state.From, state.Region, state.Boarding.Position, req.Now)
		if err != nil {
			return nil, state, err
		}
		gp.logger.CDebugw(ctx, "delivering platform rendezvous", "region", state.Region, "jump_at", rdv.JumpAt)
		return &Outcome{Rendezvous: &rdv}, State{Kind: StateIdle}, nil
	}

	start, ok := gp.graph.RegionContaining(req.Start.Position, req.Start.Region)
	if !ok {
		return nil, state, NewNoNavigableRegionError("start", req.Start.Position)
	}
	finish, ok := gp.graph.RegionContaining(req.Finish.Position, req.Finish.Region)
	if !ok {
		return nil, state, NewNoNavigableRegionError("finish", req.Finish.Position)
	}

	if start.Index == finish.Index {
		path, err := gp.local.Plan(ctx, req.Start, req.Finish, gp.profile)
		if err != nil {
			return nil, state, err
		}
		return &Outcome{Regions: []int{start.Index}, Path: path}, State{Kind: StateIdle}, nil
	}

	sequence, err := gp.regionSearch(ctx, start, finish, req.Now)
	if err != nil {
		return nil, state, err
	}
	from, to := sequence[0], sequence[1]
	target, bridge, err := gp.graph.Bridge(from, to)
	if err != nil {
		return nil, state, err
	}
	ride := gp.graph.IsPlatformBetween(from, to)
	if ride {
		// platforms only ferry in their authored direction
		if _, err := gp.graph.PlatformRide(from, to); err != nil {
			return nil, state, err
		}
	}
	goal := PathNode{Position: target, Heading: horizontal(target.Sub(req.Start.Position))}
	path, err := gp.local.Plan(ctx, req.Start, goal, gp.profile)
	if err != nil {
		return nil, state, err
	}
	handoff := path[len(path)-1].WithRegion(to)
	path = append(path, handoff)

	next := State{Kind: StateIdle}
	if ride {
		next = State{Kind: StatePlatformPending, From: from, Region: to, Boarding: handoff}
	}
	gp.logger.CDebugw(ctx, "global plan ready",
		"regions", sequence, "bridge", bridge.Name, "poses", len(path), "next_state", next.Kind)
	return &Outcome{Regions: sequence, Path: path, EnteredRegion: &to}, next, nil
}

// regionSearch is a best-first search over regions. Edge costs and the heuristic both come from
// Region.TransferTime; any edge without a defined cost aborts the search.
func (gp *GlobalPlanner) regionSearch(ctx context.Context, src, dst *regions.Region, now float64) ([]int, error) {
	_, span := trace.StartSpan(ctx, "motionplan.regionSearch")
	defer span.End()

	gp.graph.ResetScratch()
	src.SetScratch(0, -1)
	h, err := src.TransferTime(now, dst)
	if err != nil {
		return nil, err
	}
	frontier := &priorityQueue{}
	frontier.push(src.Index, h)
	closed := map[int]bool{}

	for frontier.Len() > 0 {
		i, _ := frontier.pop()
		if closed[i] {
			continue
		}
		current, _ := gp.graph.RegionByIndex(i)
		if i == dst.Index {
			return gp.reconstruct(current), nil
		}
		closed[i] = true

		currentCost, _ := current.Scratch()
		for _, j := range current.Neighbors() {
			if closed[j] {
				continue
			}
			neighbor, ok := gp.graph.RegionByIndex(j)
			if !ok {
				return nil, errors.Errorf("region %d lists unknown neighbor %d", i, j)
			}
			edge, err := current.TransferTime(now, neighbor)
			if err != nil {
				return nil, err
			}
			cost := currentCost + edge
			if best, _ := neighbor.Scratch(); cost >= best {
				continue
			}
			neighbor.SetScratch(cost, i)
			h, err := neighbor.TransferTime(now, dst)
			if err != nil {
				return nil, err
			}
			frontier.push(j, cost+h)
		}
	}
	gp.logger.Warnw("region search failed", "from", src.Name, "to", dst.Name)
	return nil, newRegionUnreachableError(src.Index, dst.Index)
}

func (gp *GlobalPlanner) reconstruct(dst *regions.Region) []int {
	sequence := []int{}
	for r := dst; ; {
		sequence = append(sequence, r.Index)
		_, parent := r.Scratch()
		if parent < 0 {
			break
		}
		r, _ = gp.graph.RegionByIndex(parent)
	}

	// reverse the slice
	for l, r := 0, len(sequence)-1; l < r; l, r = l+1, r-1 {
		sequence[l], sequence[r] = sequence[r], sequence[l]
	}
	return sequence
}

// TravelTime estimates the time to follow a path, assuming constant speed between poses.
func TravelTime(path []PathNode, maxSpeed float64) float64 {
	if len(path) < 2 || maxSpeed <= 0 {
		return 0
	}
	total := 0.
	for i := 1; i < len(path); i++ {
		total += path[i].Position.Distance(path[i-1].Position)
	}
	return total / maxSpeed
}
