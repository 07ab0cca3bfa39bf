// Package config reads level files: the boxes, portals and platforms a region graph is built
// from, the ground and obstacles the walkability oracle queries, and the agent's movement profile.
package config

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/regionplan/spatialmath"
)

// defaultFinishRadius is the radius of the marker volume placed at the finish point.
const defaultFinishRadius = 0.5

// Level is the on-disk description of a level.
type Level struct {
	ConfigFilePath string `json:"-"`

	Name      string                      `json:"name,omitempty"`
	Boxes     []Box                       `json:"boxes"`
	Portals   []Portal                    `json:"portals,omitempty"`
	Platforms []Platform                  `json:"platforms,omitempty"`
	Ground    []*spatialmath.VolumeConfig `json:"ground,omitempty"`
	Obstacles []*spatialmath.VolumeConfig `json:"obstacles,omitempty"`

	Finish       r3.Vector `json:"finish"`
	FinishRadius float64   `json:"finish_radius,omitempty"`

	// Movement holds MovementProfile attributes; missing keys take their defaults.
	Movement map[string]interface{} `json:"movement,omitempty"`
}

// Box is a walkable region. Its position in Level.Boxes is its region index.
type Box struct {
	Name   string                    `json:"name,omitempty"`
	Volume *spatialmath.VolumeConfig `json:"volume"`
}

// Portal is a static connection between two boxes.
type Portal struct {
	Name    string                    `json:"name,omitempty"`
	Volume  *spatialmath.VolumeConfig `json:"volume"`
	Between [2]int                    `json:"between"`
}

// Platform is a deck spinning around a vertical axis that ferries agents from one box to another.
// Volume is the deck's pose at simulation time zero; AngularSpeed is in degrees per second.
type Platform struct {
	Name         string                    `json:"name,omitempty"`
	Volume       *spatialmath.VolumeConfig `json:"volume"`
	From         int                       `json:"from"`
	To           int                       `json:"to"`
	Center       r3.Vector                 `json:"center"`
	AngularSpeed float64                   `json:"angular_speed"`
	Radius       float64                   `json:"radius"`
}

// Validate ensures all parts of the level are present and parse. Index ranges are checked when
// the graph is built.
func (l *Level) Validate() error {
	var errs error
	if len(l.Boxes) == 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError("level", "boxes"))
	}
	for i, b := range l.Boxes {
		errs = multierr.Append(errs, validateVolume(fmt.Sprintf("boxes.%d", i), b.Volume))
	}
	for i, p := range l.Portals {
		errs = multierr.Append(errs, validateVolume(fmt.Sprintf("portals.%d", i), p.Volume))
	}
	for i, p := range l.Platforms {
		path := fmt.Sprintf("platforms.%d", i)
		errs = multierr.Append(errs, validateVolume(path, p.Volume))
		if p.AngularSpeed <= 0 {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("angular_speed must be positive, got %v", p.AngularSpeed)))
		}
		if p.Radius <= 0 {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("radius must be positive, got %v", p.Radius)))
		}
	}
	for i, g := range l.Ground {
		errs = multierr.Append(errs, validateVolume(fmt.Sprintf("ground.%d", i), g))
	}
	for i, o := range l.Obstacles {
		errs = multierr.Append(errs, validateVolume(fmt.Sprintf("obstacles.%d", i), o))
	}
	if l.FinishRadius < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError("level",
			errors.Errorf("finish_radius must not be negative, got %v", l.FinishRadius)))
	}
	return errs
}

func validateVolume(path string, cfg *spatialmath.VolumeConfig) error {
	if cfg == nil {
		return utils.NewConfigValidationFieldRequiredError(path, "volume")
	}
	if _, err := cfg.ParseConfig(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

func (l *Level) finishRadius() float64 {
	if l.FinishRadius == 0 {
		return defaultFinishRadius
	}
	return l.FinishRadius
}
