package supernode

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestLogNormalize(t *testing.T) {
	got := LogNormalize([]float64{0, math.E - 1, math.E*math.E - 1})
	assert.InDeltaSlice(t, []float64{0, 0.5, 1}, got, 1e-12)
}

func TestLogNormalize_ZeroRange(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, LogNormalize([]float64{7, 7, 7}))
	assert.Empty(t, LogNormalize(nil))
}

func TestLogNormalize_NegativeTreatedAsZero(t *testing.T) {
	got := LogNormalize([]float64{-5, 0, math.E - 1})
	assert.InDeltaSlice(t, []float64{0, 0, 1}, got, 1e-12)
}

func TestProportions(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, Proportions([]float64{1, 3}), 1e-12)
	assert.Equal(t, []float64{0, 0}, Proportions([]float64{0, 0}))
}

func TestShannonEntropy(t *testing.T) {
	assert.InDelta(t, math.Ln2, ShannonEntropy([]float64{0.5, 0.5}, DefaultEpsilon), 1e-8)
	assert.InDelta(t, 0, ShannonEntropy([]float64{1, 0}, DefaultEpsilon), 1e-8)
	assert.Equal(t, 0.0, ShannonEntropy(nil, DefaultEpsilon))

	// all-zero proportions only contribute the epsilon terms
	h := ShannonEntropy([]float64{0, 0}, DefaultEpsilon)
	assert.Greater(t, h, 0.0)
	assert.Less(t, h, 1e-8)
}

func TestAdaptiveWeights(t *testing.T) {
	tests := []struct {
		name         string
		hPR, hCone   float64
		wantPR, wCon float64
	}{
		{"equal entropies", 1.3, 1.3, 0.5, 0.5},
		{"concentrated pagerank", 0, math.Ln2, 2.0 / 3, 1.0 / 3},
		{"concentrated cone", math.Ln2, 0, 1.0 / 3, 2.0 / 3},
		{"both vanish", math.Inf(1), math.Inf(1), 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wPR, wCone := AdaptiveWeights(tt.hPR, tt.hCone)
			assert.InDelta(t, tt.wantPR, wPR, 1e-12)
			assert.InDelta(t, tt.wCon, wCone, 1e-12)
		})
	}
}

func TestAdaptiveWeights_SumToOne(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("weights are a convex split", prop.ForAll(
		func(hPR, hCone float64) bool {
			wPR, wCone := AdaptiveWeights(hPR, hCone)
			return wPR >= 0 && wCone >= 0 && math.Abs(wPR+wCone-1) < 1e-9
		},
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
	))

	properties.TestingRun(t)
}

func TestInfluenceOf_UsesRawTotals(t *testing.T) {
	// pagerank spread evenly, cone identically zero
	influence, wPR, wCone := influenceOf([]float64{0.25, 0.25}, []float64{0, 0}, DefaultEpsilon)

	// entropies ≈ ln2 and ≈ 0 give weights 1/3 and 2/3
	assert.InDelta(t, 1.0/3, wPR, 1e-6)
	assert.InDelta(t, 2.0/3, wCone, 1e-6)
	assert.InDelta(t, 1.0/6, influence, 1e-6)
}
