package motionplan

import (
	"context"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// BridgeReport is the result of planning from the center of a box to the bridge toward a neighbor.
type BridgeReport struct {
	From, To   int
	Bridge     string
	Poses      int
	TravelTime float64
	Err        error
}

// SurveySummary aggregates the reports of a survey.
type SurveySummary struct {
	Reports     []BridgeReport
	Unreachable int
	MeanTravel  float64
	MaxTravel   float64
}

// Survey plans, for every box and every neighbor, a local path from the box's center to the
// bridge toward that neighbor. Local searches only read the graph, so they run concurrently,
// at most parallelism at a time (all CPUs when parallelism < 1). A failed search is recorded in
// its report; only errors in the level itself abort the survey.
func Survey(ctx context.Context, lp *LocalPlanner, profile *MovementProfile, parallelism int) (*SurveySummary, error) {
	if profile == nil {
		profile = NewDefaultMovementProfile()
	}
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	var reports []BridgeReport
	for _, box := range lp.graph.Boxes() {
		for _, n := range box.Neighbors() {
			reports = append(reports, BridgeReport{From: box.Index, To: n})
		}
	}

	errs, ctx := errgroup.WithContext(ctx)
	errs.SetLimit(parallelism)
	for i := range reports {
		report := &reports[i]
		errs.Go(func() error {
			target, bridge, err := lp.graph.Bridge(report.From, report.To)
			if err != nil {
				return err
			}
			from, _ := lp.graph.RegionByIndex(report.From)
			report.Bridge = bridge.Name
			start := PathNode{Position: from.Volume.Center()}.WithRegion(report.From)
			path, err := lp.Plan(ctx, start, PathNode{Position: target}, profile)
			if err != nil {
				report.Err = err
				return nil
			}
			report.Poses = len(path)
			report.TravelTime = TravelTime(path, profile.MaxSpeed)
			return nil
		})
	}
	if err := errs.Wait(); err != nil {
		return nil, err
	}

	summary := &SurveySummary{Reports: reports}
	var times stats.Float64Data
	for _, r := range reports {
		if r.Err != nil {
			summary.Unreachable++
			continue
		}
		times = append(times, r.TravelTime)
	}
	if len(times) > 0 {
		// neither can fail on non-empty input
		summary.MeanTravel, _ = stats.Mean(times)
		summary.MaxTravel, _ = stats.Max(times)
	}
	lp.logger.Debugw("survey finished", "bridges", len(reports), "unreachable", summary.Unreachable)
	return summary, nil
}
