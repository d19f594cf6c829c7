package visualization

import (
	"math"

	"github.com/dd0wney/cluso-supernode/pkg/supernode"
)

// PolarLayout arranges supernodes on evenly spaced spokes
type PolarLayout struct {
	config *LayoutConfig
}

// NewPolarLayout creates a new polar layout
func NewPolarLayout(config *LayoutConfig) *PolarLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &PolarLayout{config: config}
}

// ComputeLayout gives record i the angle i·360/n and places it at its radius
// along that spoke. Records keep their order. A NaN radius is drawn at the
// centre.
func (pl *PolarLayout) ComputeLayout(records []supernode.Record) ([]Placement, error) {
	placements := make([]Placement, len(records))
	if len(records) == 0 {
		return placements, nil
	}

	centerX := pl.config.Width / 2
	centerY := pl.config.Height / 2
	extent := math.Min(centerX, centerY) - pl.config.Padding

	maxRadius := pl.config.MaxRadius
	if maxRadius <= 0 {
		for _, r := range records {
			if r.Radius > maxRadius {
				maxRadius = r.Radius
			}
		}
	}
	scale := 0.0
	if maxRadius > 0 && extent > 0 {
		scale = extent / maxRadius
	}

	angleStep := 360.0 / float64(len(records))

	for i, r := range records {
		angle := float64(i) * angleStep
		distance := r.Radius * scale
		if math.IsNaN(distance) {
			distance = 0
		}
		rad := angle * math.Pi / 180
		placements[i] = Placement{
			Record: r,
			Angle:  angle,
			Position: Position{
				X: centerX + distance*math.Cos(rad),
				Y: centerY + distance*math.Sin(rad),
			},
		}
	}

	return placements, nil
}
