// Package similarity scores how strongly two communities from different
// snapshots overlap, corrected for the overlap expected by chance.
package similarity

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-supernode/pkg/community"
)

// ErrDegenerateInput is returned when a score has no meaningful value for the
// given inputs. Callers downgrade the affected score to 0.
var ErrDegenerateInput = errors.New("degenerate input")

// Jaccard returns |A ∩ B| / |A ∪ B|. Two empty sets score 0.
func Jaccard(a, b community.NodeSet) float64 {
	inter := a.IntersectionSize(b)
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// RandomExpectation returns the expected intersection size of two sets of the
// given sizes drawn independently from a universe of the given size. This is a
// count, not a probability, and exceeds 1 once sizeA*sizeB > universe.
func RandomExpectation(sizeA, sizeB, universe int) (float64, error) {
	if universe <= 0 {
		return 0, fmt.Errorf("random expectation: universe size %d: %w", universe, ErrDegenerateInput)
	}
	return float64(sizeA) * float64(sizeB) / float64(universe), nil
}

// Adjusted corrects a Jaccard index j by its random expectation e. Scores no
// better than chance are 0. An expectation of 1 or more leaves no room above
// chance and yields ErrDegenerateInput with a 0 score.
func Adjusted(j, e float64) (float64, error) {
	if e >= 1 {
		return 0, fmt.Errorf("adjusted jaccard: random expectation %.6g >= 1: %w", e, ErrDegenerateInput)
	}
	if j <= e {
		return 0, nil
	}
	return (j - e) / (1 - e), nil
}

// Score computes the adjusted similarity of two member sets within a universe
// of the given size. On ErrDegenerateInput the returned score is 0 and is safe
// to use as a fallback.
func Score(a, b community.NodeSet, universe int) (float64, error) {
	j := Jaccard(a, b)
	e, err := RandomExpectation(len(a), len(b), universe)
	if err != nil {
		return 0, err
	}
	return Adjusted(j, e)
}
