// Package spatialmath defines the geometric primitives used to describe regions, obstacles and
// agent poses, along with the rotation helpers the planners use.
package spatialmath

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// VolumeType is the name used in configuration to pick a Volume implementation.
type VolumeType string

// The set of supported volume types.
const (
	BoxType    = VolumeType("box")
	SphereType = VolumeType("sphere")
)

// Volume is an entry point with which to access all types of region and obstacle geometries.
type Volume interface {
	// Center returns the anchor point of the volume.
	Center() r3.Vector
	Label() string
	SetLabel(string)
	// Contains reports whether pt lies inside or on the boundary of the volume.
	Contains(pt r3.Vector) bool
	// SqDistance is the squared distance from pt to the nearest point of the volume, zero inside.
	SqDistance(pt r3.Vector) float64
	ClosestPoint(pt r3.Vector) r3.Vector
	// SegmentIntersect casts a segment from `from` along the unit vector `dir` for at most maxDist and
	// returns the distance at which it first touches the volume.
	SegmentIntersect(from, dir r3.Vector, maxDist float64) (float64, bool)
	// Translate returns a copy of the volume with its center moved to center.
	Translate(center r3.Vector) Volume
	String() string
}

// VolumeConfig specifies the format of volumes in level files.
type VolumeConfig struct {
	Type VolumeType `json:"type"`

	// parameters used for defining a box's rectangular cross section
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`

	// parameters used for defining a sphere
	R float64 `json:"r,omitempty"`

	TranslationOffset r3.Vector `json:"translation"`
	Label             string    `json:"label,omitempty"`
}

// NewVolumeConfig creates a config for a Volume from an existing Volume.
func NewVolumeConfig(v Volume) (*VolumeConfig, error) {
	switch vol := v.(type) {
	case *box:
		return &VolumeConfig{
			Type:              BoxType,
			X:                 2 * vol.halfSize.X,
			Y:                 2 * vol.halfSize.Y,
			Z:                 2 * vol.halfSize.Z,
			TranslationOffset: vol.center,
			Label:             vol.label,
		}, nil
	case *sphere:
		return &VolumeConfig{Type: SphereType, R: vol.radius, TranslationOffset: vol.center, Label: vol.label}, nil
	default:
		return nil, newVolumeTypeUnsupportedError(fmt.Sprintf("%T", v))
	}
}

// ParseConfig converts a VolumeConfig into the correct Volume type.
func (config *VolumeConfig) ParseConfig() (Volume, error) {
	switch VolumeType(strings.ToLower(string(config.Type))) {
	case BoxType, "":
		return NewBox(config.TranslationOffset, r3.Vector{X: config.X, Y: config.Y, Z: config.Z}, config.Label)
	case SphereType:
		return NewSphere(config.TranslationOffset, config.R, config.Label)
	default:
		return nil, newVolumeTypeUnsupportedError(string(config.Type))
	}
}

func newBadVolumeDimensionsError(v Volume) error {
	return errors.Errorf("invalid dimension(s) for volume type %T", v)
}

func newVolumeTypeUnsupportedError(volumeType string) error {
	return errors.Errorf("volume type %q is unsupported", volumeType)
}
