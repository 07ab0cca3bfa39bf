package config

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/regionplan/logging"
	"go.viam.com/regionplan/motionplan"
	"go.viam.com/regionplan/regions"
	"go.viam.com/regionplan/spatialmath"
	"go.viam.com/regionplan/world"
)

// Built is everything a planner needs, assembled from a Level.
type Built struct {
	Graph   *regions.Graph
	Scene   *world.Scene
	Profile *motionplan.MovementProfile
}

// Build parses every volume of the level and assembles the region graph, the scene the planners
// query and the movement profile.
func (l *Level) Build(logger logging.Logger) (*Built, error) {
	profile, err := motionplan.ProfileFromAttributes(l.Movement)
	if err != nil {
		return nil, err
	}

	scene, err := world.NewScene()
	if err != nil {
		return nil, err
	}
	addAll := func(tag world.Tag, cfgs []*spatialmath.VolumeConfig) ([]spatialmath.Volume, error) {
		volumes := make([]spatialmath.Volume, 0, len(cfgs))
		for i, cfg := range cfgs {
			if cfg == nil {
				return nil, errors.Errorf("%s %d has no volume", tag, i)
			}
			v, err := cfg.ParseConfig()
			if err != nil {
				return nil, errors.Wrapf(err, "%s %d", tag, i)
			}
			if err := scene.Add(tag, v); err != nil {
				return nil, err
			}
			volumes = append(volumes, v)
		}
		return volumes, nil
	}

	if _, err := addAll(world.TagGround, l.Ground); err != nil {
		return nil, err
	}
	if _, err := addAll(world.TagObstacle, l.Obstacles); err != nil {
		return nil, err
	}

	spec := regions.Level{Finish: l.Finish}
	boxes, err := addAll(world.TagRegion, lo.Map(l.Boxes, func(b Box, _ int) *spatialmath.VolumeConfig { return b.Volume }))
	if err != nil {
		return nil, err
	}
	for i, v := range boxes {
		spec.Boxes = append(spec.Boxes, regions.BoxSpec{Name: l.Boxes[i].Name, Volume: v})
	}
	portals, err := addAll(world.TagPortal, lo.Map(l.Portals, func(p Portal, _ int) *spatialmath.VolumeConfig { return p.Volume }))
	if err != nil {
		return nil, err
	}
	for i, v := range portals {
		p := l.Portals[i]
		spec.Portals = append(spec.Portals, regions.PortalSpec{Name: p.Name, Volume: v, Between: p.Between})
	}
	platforms, err := addAll(world.TagPlatform,
		lo.Map(l.Platforms, func(p Platform, _ int) *spatialmath.VolumeConfig { return p.Volume }))
	if err != nil {
		return nil, err
	}
	for i, v := range platforms {
		p := l.Platforms[i]
		spec.Platforms = append(spec.Platforms, regions.PlatformSpec{
			Name:         p.Name,
			Volume:       v,
			From:         p.From,
			To:           p.To,
			Center:       p.Center,
			AngularSpeed: p.AngularSpeed,
			Radius:       p.Radius,
		})
	}

	finish, err := spatialmath.NewSphere(l.Finish, l.finishRadius(), "finish")
	if err != nil {
		return nil, err
	}
	if err := scene.Add(world.TagFinish, finish); err != nil {
		return nil, err
	}

	graph, err := regions.Build(spec, profile.MaxSpeed, logger.Sublogger("regions"))
	if err != nil {
		return nil, err
	}
	return &Built{Graph: graph, Scene: scene, Profile: profile}, nil
}

// NewPlanner builds the level and returns a global planner over it.
func (l *Level) NewPlanner(logger logging.Logger) (*motionplan.GlobalPlanner, error) {
	built, err := l.Build(logger)
	if err != nil {
		return nil, err
	}
	return motionplan.NewGlobalPlanner(built.Graph, built.Scene, built.Profile, logger.Sublogger("motionplan"))
}
