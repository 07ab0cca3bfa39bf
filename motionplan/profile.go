package motionplan

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/regionplan/world"
)

// default values for movement profiles.
const (
	// units per second.
	defaultMaxSpeed = 5.

	// Default distance below which two positions are considered equal.
	defaultEpsilon = 0.1

	// seconds advanced per expansion step.
	defaultTimeStep = 0.5

	// Positions and headings are bucketed at this resolution to deduplicate search states.
	defaultGridResolution = 0.5

	// widest steering angle, in degrees, on either side of the current heading.
	defaultMaxSteerDeg = 30.

	// number of steering subdivisions on each side, producing 2k+1 steering angles.
	defaultSteerSteps = 2

	defaultAgentRadius      = 1.
	defaultGroundProbeDepth = 5.

	// Number of local search expansions before giving up.
	defaultMaxExpansions = 1000

	// Number of generations a local search may spend outside its starting region.
	defaultMaxExcursion = 2
)

// MovementProfile describes how an agent moves and how finely the local planner searches.
type MovementProfile struct {
	MaxSpeed         float64 `json:"max_speed" mapstructure:"max_speed"`
	Epsilon          float64 `json:"epsilon" mapstructure:"epsilon"`
	TimeStep         float64 `json:"time_step" mapstructure:"time_step"`
	GridResolution   float64 `json:"grid_resolution" mapstructure:"grid_resolution"`
	MaxSteerDeg      float64 `json:"max_steer_deg" mapstructure:"max_steer_deg"`
	SteerSteps       int     `json:"steer_steps" mapstructure:"steer_steps"`
	AgentRadius      float64 `json:"agent_radius" mapstructure:"agent_radius"`
	GroundProbeDepth float64 `json:"ground_probe_depth" mapstructure:"ground_probe_depth"`
	MaxExpansions    int     `json:"max_expansions" mapstructure:"max_expansions"`
	MaxExcursion     uint8   `json:"max_excursion" mapstructure:"max_excursion"`
}

// NewDefaultMovementProfile returns the profile used when a level does not specify one.
func NewDefaultMovementProfile() *MovementProfile {
	return &MovementProfile{
		MaxSpeed:         defaultMaxSpeed,
		Epsilon:          defaultEpsilon,
		TimeStep:         defaultTimeStep,
		GridResolution:   defaultGridResolution,
		MaxSteerDeg:      defaultMaxSteerDeg,
		SteerSteps:       defaultSteerSteps,
		AgentRadius:      defaultAgentRadius,
		GroundProbeDepth: defaultGroundProbeDepth,
		MaxExpansions:    defaultMaxExpansions,
		MaxExcursion:     defaultMaxExcursion,
	}
}

// ProfileFromAttributes decodes a loosely typed attribute map over the defaults. Keys not present
// keep their default values; unknown keys are rejected.
func ProfileFromAttributes(attrs map[string]interface{}) (*MovementProfile, error) {
	profile := NewDefaultMovementProfile()
	if len(attrs) == 0 {
		return profile, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           profile,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "cannot decode movement profile")
	}
	return profile, profile.Validate()
}

// Validate ensures every field holds a usable value.
func (p *MovementProfile) Validate() error {
	var errs error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = multierr.Append(errs, errors.Errorf("%s must be positive, got %v", name, v))
		}
	}
	positive("max_speed", p.MaxSpeed)
	positive("epsilon", p.Epsilon)
	positive("time_step", p.TimeStep)
	positive("grid_resolution", p.GridResolution)
	positive("agent_radius", p.AgentRadius)
	positive("ground_probe_depth", p.GroundProbeDepth)
	if p.MaxSteerDeg < 0 || p.MaxSteerDeg > 180 {
		errs = multierr.Append(errs, errors.Errorf("max_steer_deg must be within [0, 180], got %v", p.MaxSteerDeg))
	}
	if p.SteerSteps < 1 {
		errs = multierr.Append(errs, errors.Errorf("steer_steps must be at least 1, got %d", p.SteerSteps))
	}
	if p.MaxExpansions < 1 {
		errs = multierr.Append(errs, errors.Errorf("max_expansions must be at least 1, got %d", p.MaxExpansions))
	}
	return errs
}

// StepLength is how far a single step successor moves.
func (p *MovementProfile) StepLength() float64 {
	return p.MaxSpeed * p.TimeStep
}

// SteeringAngles returns the 2k+1 heading offsets, in degrees, tried from every node.
func (p *MovementProfile) SteeringAngles() []float64 {
	angles := make([]float64, 0, 2*p.SteerSteps+1)
	for i := -p.SteerSteps; i <= p.SteerSteps; i++ {
		angles = append(angles, float64(i)*p.MaxSteerDeg/float64(p.SteerSteps))
	}
	return angles
}

func (p *MovementProfile) walkOptions() world.WalkOptions {
	return world.WalkOptions{AgentRadius: p.AgentRadius, GroundProbeDepth: p.GroundProbeDepth}
}
