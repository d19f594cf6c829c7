package supernode

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultEpsilon regularises proportions before taking logarithms
const DefaultEpsilon = 1e-10

// LogNormalize rescales values to [0,1] on a log(1+x) scale:
//
//	(log(1+x) - log(1+min)) / (log(1+max) - log(1+min))
//
// Negative inputs are treated as 0. When every value is equal the range is
// zero and every output is 0.
func LogNormalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	for i, v := range values {
		out[i] = math.Log1p(math.Max(v, 0))
	}

	lo, hi := floats.Min(out), floats.Max(out)
	span := hi - lo
	if span == 0 {
		for i := range out {
			out[i] = 0
		}
		return out
	}

	floats.AddConst(-lo, out)
	floats.Scale(1/span, out)
	return out
}

// Proportions divides each value by the total. A zero total gives all zeros.
func Proportions(values []float64) []float64 {
	out := make([]float64, len(values))
	total := floats.Sum(values)
	if total == 0 {
		return out
	}
	copy(out, values)
	floats.Scale(1/total, out)
	return out
}

// ShannonEntropy returns -Σ (p+ε)·ln(p+ε) over the proportions p
func ShannonEntropy(proportions []float64, epsilon float64) float64 {
	if len(proportions) == 0 {
		return 0
	}
	shifted := make([]float64, len(proportions))
	copy(shifted, proportions)
	floats.AddConst(epsilon, shifted)
	return stat.Entropy(shifted)
}

// AdaptiveWeights turns the entropies of the PageRank and cone signals into
// weights summing to 1. Each raw weight is exp(-h), so the more concentrated
// signal counts for more. If both raw weights vanish the split is 0.5/0.5.
func AdaptiveWeights(hPageRank, hCone float64) (wPageRank, wCone float64) {
	wPageRank = math.Exp(-hPageRank)
	wCone = math.Exp(-hCone)

	sum := wPageRank + wCone
	if !(sum > 0) || math.IsInf(sum, 0) {
		return 0.5, 0.5
	}
	return wPageRank / sum, wCone / sum
}

// influenceOf combines one community's per-member PageRank and normalised
// cone values. Weights come from the entropy of each signal's proportions and
// apply to the signals' raw totals.
func influenceOf(pagerank, cone []float64, epsilon float64) (influence, wPageRank, wCone float64) {
	hPageRank := ShannonEntropy(Proportions(pagerank), epsilon)
	hCone := ShannonEntropy(Proportions(cone), epsilon)
	wPageRank, wCone = AdaptiveWeights(hPageRank, hCone)
	influence = wPageRank*floats.Sum(pagerank) + wCone*floats.Sum(cone)
	return influence, wPageRank, wCone
}
