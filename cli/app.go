// Package cli contains the regionplan command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"
	generalFlagLevel   = "level"
	planFlagStart      = "start"
	planFlagHeading    = "heading"
	planFlagFinish     = "finish"
	planFlagNow        = "now"
	rendezvousFlagPos  = "position"
	rendezvousFlagDest = "target"
	surveyFlagParallel = "parallel"
)

var levelFlag = &cli.StringFlag{
	Name:     generalFlagLevel,
	Aliases:  []string{"l"},
	Required: true,
	Usage:    "load the level from `FILE`",
}

var app = &cli.App{
	Name:            "regionplan",
	Usage:           "plan agent motion through region levels",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  generalFlagLogFile,
			Usage: "also write logs to `FILE`, rotated once it grows past 10MB",
		},
	},
	After: closeLogFile,
	Commands: []*cli.Command{
		{
			Name:      "validate",
			Usage:     "check that a level file parses and builds",
			UsageText: "regionplan validate --level <level>",
			Flags:     []cli.Flag{levelFlag},
			Action:    ValidateAction,
		},
		{
			Name:      "regions",
			Usage:     "print the regions of a level and how they connect",
			UsageText: "regionplan regions --level <level>",
			Flags:     []cli.Flag{levelFlag},
			Action:    RegionsAction,
		},
		{
			Name:      "plan",
			Usage:     "plan the next leg from a start pose toward the finish",
			UsageText: "regionplan plan --level <level> --start <x,y,z> [other options]",
			Flags: []cli.Flag{
				levelFlag,
				&cli.StringFlag{
					Name:     planFlagStart,
					Required: true,
					Usage:    "start position as `X,Y,Z`",
				},
				&cli.StringFlag{
					Name:  planFlagHeading,
					Usage: "start heading as `X,Y,Z`; defaults to facing the goal",
				},
				&cli.StringFlag{
					Name:  planFlagFinish,
					Usage: "finish position as `X,Y,Z`; defaults to the level's finish",
				},
				&cli.Float64Flag{
					Name:  planFlagNow,
					Usage: "simulation time of the request, in seconds",
				},
			},
			Action: PlanAction,
		},
		{
			Name:      "rendezvous",
			Usage:     "compute when to board the platform leading into a region",
			UsageText: "regionplan rendezvous --level <level> --target <region> --position <x,y,z> [--now <seconds>]",
			Flags: []cli.Flag{
				levelFlag,
				&cli.IntFlag{
					Name:     rendezvousFlagDest,
					Required: true,
					Usage:    "index of the region the platform leads into",
				},
				&cli.StringFlag{
					Name:     rendezvousFlagPos,
					Required: true,
					Usage:    "where the agent waits, as `X,Y,Z`",
				},
				&cli.Float64Flag{
					Name:  planFlagNow,
					Usage: "simulation time of the request, in seconds",
				},
			},
			Action: RendezvousAction,
		},
		{
			Name:      "survey",
			Usage:     "plan from every box to each of its bridges and report what is reachable",
			UsageText: "regionplan survey --level <level> [--parallel <n>]",
			Flags: []cli.Flag{
				levelFlag,
				&cli.IntFlag{
					Name:  surveyFlagParallel,
					Usage: "number of searches to run at once; defaults to the number of CPUs",
				},
			},
			Action: SurveyAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of level files",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI function attached to it.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
