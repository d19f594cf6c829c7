package visualization

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// PlacementHeader is the column order written by WritePlacements
var PlacementHeader = []string{
	"community", "size", "influence", "radius", "angle", "x", "y",
	"rich_club", "k_core", "clustering", "betweenness", "structural_entropy",
}

// WritePlacements writes placed supernodes as CSV for a renderer. Missing
// features are left blank.
func WritePlacements(w io.Writer, placements []Placement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PlacementHeader); err != nil {
		return err
	}

	for _, p := range placements {
		r := p.Record
		row := []string{
			string(r.Community),
			strconv.Itoa(r.Size),
			formatFloat(r.Influence),
			formatFloat(r.Radius),
			formatFloat(p.Angle),
			formatFloat(p.Position.X),
			formatFloat(p.Position.Y),
			formatFloat(r.RichClub),
			formatFloat(r.KCore),
			formatFloat(r.Clustering),
			formatFloat(r.Betweenness),
			formatFloat(r.StructuralEntropy),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
