package supernode

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestRadii(t *testing.T) {
	got := Radii([]float64{1, 2, 3}, 150)

	// shift 2: ln3, ln4, ln5
	mid := (1 - (math.Log(4)-math.Log(3))/(math.Log(5)-math.Log(3))) * 150
	assert.InDeltaSlice(t, []float64{150, mid, 0}, got, 1e-9)
}

func TestRadii_NegativeInfluence(t *testing.T) {
	got := Radii([]float64{-2, 0}, 100)
	assert.InDeltaSlice(t, []float64{100, 0}, got, 1e-9)
}

func TestRadii_ZeroRange(t *testing.T) {
	assert.Equal(t, []float64{75, 75, 75}, Radii([]float64{0.4, 0.4, 0.4}, 150))
	assert.Equal(t, []float64{75}, Radii([]float64{3}, 150))
	assert.Empty(t, Radii(nil, 150))
}

func TestRadii_MonotoneDecreasing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("more influence never means a larger radius", prop.ForAll(
		func(influences []float64) bool {
			radii := Radii(influences, DefaultRadiusRange)
			for i := range influences {
				if radii[i] < -1e-9 || radii[i] > DefaultRadiusRange+1e-9 {
					return false
				}
				for j := range influences {
					if influences[i] > influences[j] && radii[i] > radii[j]+1e-9 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-10, 1000)),
	))

	properties.TestingRun(t)
}
