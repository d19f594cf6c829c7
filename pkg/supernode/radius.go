package supernode

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultRadiusRange is the radius given to the least influential community
const DefaultRadiusRange = 150.0

// Radii maps community influences to layout radii, most influential closest to
// the centre. Influences are shifted by |min|+1, log-transformed, min-max
// normalised, inverted and scaled by radiusRange. The most influential
// community lands on 0 and the least on radiusRange. When all log-influences
// coincide every community gets radiusRange/2.
func Radii(influences []float64, radiusRange float64) []float64 {
	out := make([]float64, len(influences))
	if len(influences) == 0 {
		return out
	}

	shift := math.Abs(floats.Min(influences)) + 1
	logs := make([]float64, len(influences))
	for i, v := range influences {
		logs[i] = math.Log(v + shift)
	}

	lo, hi := floats.Min(logs), floats.Max(logs)
	span := hi - lo
	if span == 0 || math.IsNaN(span) {
		for i := range out {
			out[i] = radiusRange / 2
		}
		return out
	}

	for i, l := range logs {
		out[i] = (1 - (l-lo)/span) * radiusRange
	}
	return out
}
