package community

// NodeID identifies a node within a snapshot's node universe
type NodeID uint64

// ID identifies a community. Unique within one snapshot only; the same ID in
// two snapshots carries no implied relationship.
type ID string

// Snapshot pairs a date key with the partition loaded for that date
type Snapshot struct {
	Date      string
	Partition *Partition
}

// NodeSet is an unordered set of node IDs
type NodeSet map[NodeID]struct{}

// NewNodeSet builds a set from the given IDs
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set
func (s NodeSet) Contains(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// IntersectionSize counts members shared with other without allocating
func (s NodeSet) IntersectionSize(other NodeSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if _, ok := large[id]; ok {
			n++
		}
	}
	return n
}
