package regions

import (
	"github.com/pkg/errors"
)

var (
	// ErrMissingPlatform is returned when a platform transition is requested into a region no
	// platform serves. It indicates an authoring mistake.
	ErrMissingPlatform = errors.New("no platform leads into region")

	// ErrUndefinedTransferCost is returned when a traversal cost is requested for an edge type that
	// has none. It indicates an authoring or wiring mistake and is never substituted.
	ErrUndefinedTransferCost = errors.New("transfer cost is undefined for this edge")

	// ErrInvalidLevel wraps every problem found while building a graph from authoring data.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrNotAdjacent is returned when asking for the bridge between two regions that share no edge.
	ErrNotAdjacent = errors.New("regions are not adjacent")
)

// IsConfigurationError reports whether err stems from bad authoring data rather than a runtime
// search failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrMissingPlatform) ||
		errors.Is(err, ErrUndefinedTransferCost) ||
		errors.Is(err, ErrInvalidLevel)
}

func newUndefinedTransferCostError(from, to *Region) error {
	if to == nil {
		return errors.Wrapf(ErrUndefinedTransferCost, "from %s to nothing", from)
	}
	return errors.Wrapf(ErrUndefinedTransferCost, "from %s to %s", from, to)
}
