package tracking

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-supernode/pkg/community"
)

// UniversePolicy decides the universe size N used in the random expectation
// a·b/N of a snapshot pair
type UniversePolicy string

const (
	// PolicyPerPair uses the number of distinct nodes in the two snapshots
	PolicyPerPair UniversePolicy = "per-pair"
	// PolicyCumulative uses the member count summed over every snapshot
	// loaded so far, the current one included
	PolicyCumulative UniversePolicy = "cumulative"
	// PolicyGlobal uses the member count summed over every loadable snapshot
	// of the run, found by a counting pass before matching starts
	PolicyGlobal UniversePolicy = "global"
	// PolicyFixed uses a configured size
	PolicyFixed UniversePolicy = "fixed"
)

// ParsePolicy converts a configuration string to a UniversePolicy
func ParsePolicy(s string) (UniversePolicy, error) {
	switch p := UniversePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPerPair, PolicyCumulative, PolicyGlobal, PolicyFixed:
		return p, nil
	case "":
		return PolicyPerPair, nil
	default:
		return "", fmt.Errorf("unknown universe policy %q", s)
	}
}

// universe tracks the state a policy needs across the run
type universe struct {
	policy UniversePolicy
	fixed  int
	total  int // running member count (cumulative) or counting-pass total (global)
}

// observe is called once for every successfully loaded snapshot, in order
func (u *universe) observe(p *community.Partition) {
	if u.policy == PolicyCumulative {
		u.total += p.NodeCount()
	}
}

// size returns N for comparing prev against curr
func (u *universe) size(prev, curr *community.Partition) int {
	switch u.policy {
	case PolicyCumulative, PolicyGlobal:
		return u.total
	case PolicyFixed:
		return u.fixed
	default:
		return prev.UnionSize(curr)
	}
}
