package community

import (
	"fmt"
	"slices"
)

// Partition maps community IDs to disjoint member sets. Iteration order is the
// order in which communities were first added, so repeated runs over the same
// input visit communities identically.
type Partition struct {
	order   []ID
	members map[ID]NodeSet
	owner   map[NodeID]ID
}

// NewPartition creates an empty partition
func NewPartition() *Partition {
	return &Partition{
		members: make(map[ID]NodeSet),
		owner:   make(map[NodeID]ID),
	}
}

// FromMap builds a partition from community -> members. Communities are
// ordered by ID because Go map iteration order is random; use Add directly when
// the source order matters.
func FromMap(m map[ID][]NodeID) (*Partition, error) {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	p := NewPartition()
	for _, id := range ids {
		for _, node := range m[id] {
			if err := p.Add(id, node); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// Add assigns node to community id. Adding the same pair twice is a no-op;
// assigning a node to a second community returns ErrMalformedPartition.
func (p *Partition) Add(id ID, node NodeID) error {
	if prev, ok := p.owner[node]; ok {
		if prev == id {
			return nil
		}
		return fmt.Errorf("%w: node %d in communities %q and %q", ErrMalformedPartition, node, prev, id)
	}

	set, ok := p.members[id]
	if !ok {
		set = make(NodeSet)
		p.members[id] = set
		p.order = append(p.order, id)
	}
	set[node] = struct{}{}
	p.owner[node] = id
	return nil
}

// Communities returns community IDs in first-seen order
func (p *Partition) Communities() []ID {
	out := make([]ID, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of communities
func (p *Partition) Len() int {
	return len(p.order)
}

// Members returns the member set of a community, or nil if it does not exist.
// The returned set must not be modified.
func (p *Partition) Members(id ID) NodeSet {
	return p.members[id]
}

// SortedMembers returns a community's members in ascending ID order
func (p *Partition) SortedMembers(id ID) []NodeID {
	set := p.members[id]
	out := make([]NodeID, 0, len(set))
	for node := range set {
		out = append(out, node)
	}
	slices.Sort(out)
	return out
}

// CommunityOf returns the community a node belongs to
func (p *Partition) CommunityOf(node NodeID) (ID, bool) {
	id, ok := p.owner[node]
	return id, ok
}

// NodeCount returns the total member count summed over all communities
func (p *Partition) NodeCount() int {
	return len(p.owner)
}

// Nodes returns every member node in ascending ID order
func (p *Partition) Nodes() []NodeID {
	out := make([]NodeID, 0, len(p.owner))
	for node := range p.owner {
		out = append(out, node)
	}
	slices.Sort(out)
	return out
}

// UnionSize returns the number of distinct nodes across p and other
func (p *Partition) UnionSize(other *Partition) int {
	n := len(p.owner)
	for node := range other.owner {
		if _, ok := p.owner[node]; !ok {
			n++
		}
	}
	return n
}
