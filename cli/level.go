package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/regionplan/config"
	"go.viam.com/regionplan/motionplan"
	"go.viam.com/regionplan/regions"
)

// ValidateAction reads and builds a level, reporting every problem found.
func ValidateAction(c *cli.Context) error {
	logger := newLogger(c)
	level, err := config.Read(c.String(generalFlagLevel), logger)
	if err != nil {
		return err
	}
	built, err := level.Build(logger)
	if err != nil {
		return err
	}
	successf(c.App.Writer, "level %q is valid: %d boxes, %d regions in total (%s)",
		level.ConfigFilePath, len(built.Graph.Boxes()), built.Graph.Len(), strings.Join(sortedKinds(built.Graph), ", "))
	return nil
}

// RegionsAction prints a table of every region of a level.
func RegionsAction(c *cli.Context) error {
	logger := newLogger(c)
	level, err := config.Read(c.String(generalFlagLevel), logger)
	if err != nil {
		return err
	}
	built, err := level.Build(logger)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", regionTable(built.Graph))
	return nil
}

func regionTable(g *regions.Graph) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Kind", "Name", "Center", "Links"})
	for _, r := range g.Regions() {
		var links string
		switch r.Kind {
		case regions.KindBox:
			links = strings.Join(lo.Map(r.Neighbors(), func(n, _ int) string { return fmt.Sprint(n) }), ", ")
		case regions.KindPortal:
			links = fmt.Sprintf("%d <-> %d", r.Bridges[0], r.Bridges[1])
		case regions.KindPlatform:
			links = fmt.Sprintf("%d -> %d at %.1f deg/s", r.From(), r.To(), r.Motion.AngularSpeed)
		}
		t.AppendRow(table.Row{r.Index, r.Kind, r.Name, formatVector(r.Volume.Center()), links})
	}
	return t.Render()
}

// PlanAction plans one leg and, when it ends at a platform dock, the boarding times as well.
func PlanAction(c *cli.Context) error {
	logger := newLogger(c)
	level, err := config.Read(c.String(generalFlagLevel), logger)
	if err != nil {
		return err
	}
	planner, err := level.NewPlanner(logger)
	if err != nil {
		return err
	}

	start, err := parseVector(c.String(planFlagStart))
	if err != nil {
		return err
	}
	req := motionplan.Request{
		Start:  motionplan.PathNode{Position: start},
		Finish: motionplan.PathNode{Position: planner.Graph().Finish()},
		Now:    c.Float64(planFlagNow),
	}
	if raw := c.String(planFlagHeading); raw != "" {
		if req.Start.Heading, err = parseVector(raw); err != nil {
			return err
		}
	}
	if raw := c.String(planFlagFinish); raw != "" {
		if req.Finish.Position, err = parseVector(raw); err != nil {
			return err
		}
	}

	ctx := context.Background()
	outcome, state, err := planner.Plan(ctx, motionplan.State{}, req)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "regions: %v", outcome.Regions)
	printf(c.App.Writer, "%s", pathTable(outcome.Path))
	printf(c.App.Writer, "travel time: %.2fs", motionplan.TravelTime(outcome.Path, planner.Profile().MaxSpeed))

	if state.Kind != motionplan.StatePlatformPending {
		return nil
	}
	last := outcome.Path[len(outcome.Path)-1]
	outcome, _, err = planner.Plan(ctx, state, motionplan.Request{Now: last.Time})
	if err != nil {
		return err
	}
	printRendezvous(c, outcome.Rendezvous)
	return nil
}

func pathTable(path []motionplan.PathNode) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Position", "Heading", "Time", "Region"})
	for i, n := range path {
		region := ""
		if n.Region != nil {
			region = fmt.Sprint(*n.Region)
		}
		t.AppendRow(table.Row{i, formatVector(n.Position), formatVector(n.Heading), fmt.Sprintf("%.2f", n.Time), region})
	}
	return t.Render()
}

// RendezvousAction computes the boarding times for the platform leading into a region.
func RendezvousAction(c *cli.Context) error {
	logger := newLogger(c)
	level, err := config.Read(c.String(generalFlagLevel), logger)
	if err != nil {
		return err
	}
	built, err := level.Build(logger)
	if err != nil {
		return err
	}
	pos, err := parseVector(c.String(rendezvousFlagPos))
	if err != nil {
		return err
	}
	rdv, err := built.Graph.PlatformRendezvous(c.Int(rendezvousFlagDest), pos, c.Float64(planFlagNow))
	if err != nil {
		return err
	}
	printRendezvous(c, &rdv)
	return nil
}

func printRendezvous(c *cli.Context, rdv *regions.Rendezvous) {
	if rdv.Fallback {
		warningf(c.App.ErrWriter, "no platform arrival after the minimum wait; the jump time may already have passed")
	}
	successf(c.App.Writer, "platform %d: jump at %.2fs, leave at %.2fs (crossing %.2fs)",
		rdv.Platform, rdv.JumpAt, rdv.LeaveAt, rdv.CrossingDuration())
}

// SurveyAction plans from the center of every box to each of its bridges.
func SurveyAction(c *cli.Context) error {
	logger := newLogger(c)
	level, err := config.Read(c.String(generalFlagLevel), logger)
	if err != nil {
		return err
	}
	planner, err := level.NewPlanner(logger)
	if err != nil {
		return err
	}
	summary, err := motionplan.Survey(c.Context, planner.Local(), planner.Profile(), c.Int(surveyFlagParallel))
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"From", "To", "Bridge", "Poses", "Travel"})
	for _, r := range summary.Reports {
		travel := fmt.Sprintf("%.2fs", r.TravelTime)
		if r.Err != nil {
			travel = "unreachable"
		}
		t.AppendRow(table.Row{r.From, r.To, r.Bridge, r.Poses, travel})
	}
	printf(c.App.Writer, "%s", t.Render())
	if summary.Unreachable > 0 {
		warningf(c.App.ErrWriter, "%d of %d bridges are unreachable from their box centers",
			summary.Unreachable, len(summary.Reports))
	}
	printf(c.App.Writer, "mean travel %.2fs, max %.2fs", summary.MeanTravel, summary.MaxTravel)
	return nil
}

// SchemaAction prints the JSON schema of level files.
func SchemaAction(c *cli.Context) error {
	out, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}

// sortedKinds lists the region kinds present in g, for summaries.
func sortedKinds(g *regions.Graph) []string {
	kinds := lo.Uniq(lo.Map(g.Regions(), func(r *regions.Region, _ int) string { return r.Kind.String() }))
	sort.Strings(kinds)
	return kinds
}
