// Package visualization places supernodes on a polar canvas: one spoke per
// community, distance from the centre given by the community's radius.
package visualization

import (
	"github.com/dd0wney/cluso-supernode/pkg/supernode"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 // Canvas width
	Height  float64 // Canvas height
	Padding float64 // Padding from edges
	// MaxRadius is the record radius drawn at the canvas edge. Zero uses the
	// largest radius in the snapshot.
	MaxRadius float64
}

// Placement is a supernode's position on the canvas
type Placement struct {
	Record   supernode.Record
	Angle    float64 // degrees, counter-clockwise from the positive x axis
	Position Position
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(records []supernode.Record) ([]Placement, error)
}
