// Package supernode computes the per-community descriptors used to draw each
// community of a snapshot as a single "supernode": influence, layout radius,
// rich-club coefficient, topology aggregates and structural entropy.
package supernode

import (
	"math"

	"github.com/dd0wney/cluso-supernode/pkg/community"
	"github.com/dd0wney/cluso-supernode/pkg/graph"
)

// Feature names used in logs and the missing_features metric
const (
	FeaturePageRank          = "pagerank"
	FeatureCone              = "cone"
	FeatureRichClub          = "rich_club"
	FeatureKCore             = "k_core"
	FeatureClustering        = "clustering"
	FeatureBetweenness       = "betweenness"
	FeatureStructuralEntropy = "structural_entropy"
)

// Covariates are optional per-node attributes. A nil PageRank map means
// PageRank is computed from the snapshot graph. Nodes absent from a map
// contribute 0.
type Covariates struct {
	Cone     map[community.NodeID]float64
	PageRank map[community.NodeID]float64
}

// Input is everything needed to describe one snapshot
type Input struct {
	Snapshot   community.Snapshot
	Graph      *graph.Graph
	Covariates Covariates
}

// Record holds the descriptors of one community in one snapshot. Features
// that could not be computed are NaN.
type Record struct {
	Date      string
	Community community.ID
	Size      int

	Influence      float64
	PageRankWeight float64
	ConeWeight     float64
	Radius         float64

	RichClub          float64
	KCore             float64
	Clustering        float64
	Betweenness       float64
	StructuralEntropy float64
}

// MissingFeatures lists the NaN descriptor fields of r
func (r Record) MissingFeatures() []string {
	var missing []string
	check := func(name string, v float64) {
		if math.IsNaN(v) {
			missing = append(missing, name)
		}
	}
	check(FeatureRichClub, r.RichClub)
	check(FeatureKCore, r.KCore)
	check(FeatureClustering, r.Clustering)
	check(FeatureBetweenness, r.Betweenness)
	check(FeatureStructuralEntropy, r.StructuralEntropy)
	return missing
}
