// Package enumerator implements the two route-set enumeration
// strategies, BFS-LE and Link-Penalisation, over a common contract.
package enumerator

import "github.com/lintang-b-s/routechoice/pkg/routechoice/graph"

// mix is a splitmix64-style integer mixer used to turn a single link id
// into a well-distributed hash contribution.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// LinkSet is an immutable, order-independent-hashed set of banned
// compact link ids. Equal membership hashes and compares equal
// regardless of the order links were added, which is what lets BFS-LE's
// visited-set dedup subgraphs reached via different expansion orders.
type LinkSet struct {
	members map[graph.Index]struct{}
	hash    uint64
}

// EmptyLinkSet is level 0 of the graph-of-graphs: no links banned.
func EmptyLinkSet() *LinkSet {
	return &LinkSet{members: map[graph.Index]struct{}{}}
}

// With returns a new LinkSet containing s's members plus link. s is not
// mutated, so the caller can keep exploring from s after branching.
func (s *LinkSet) With(link graph.Index) *LinkSet {
	if _, ok := s.members[link]; ok {
		return s
	}
	members := make(map[graph.Index]struct{}, len(s.members)+1)
	for k := range s.members {
		members[k] = struct{}{}
	}
	members[link] = struct{}{}
	return &LinkSet{members: members, hash: s.hash ^ mix(uint64(link))}
}

func (s *LinkSet) Len() int { return len(s.members) }

func (s *LinkSet) Contains(link graph.Index) bool {
	_, ok := s.members[link]
	return ok
}

func (s *LinkSet) Hash() uint64 { return s.hash }

// Equal reports whether two sets have identical membership. Hashes are
// compared first as a cheap reject; full membership is only checked
// among hash-colliding candidates.
func (s *LinkSet) Equal(other *LinkSet) bool {
	if s.hash != other.hash || len(s.members) != len(other.members) {
		return false
	}
	for k := range s.members {
		if _, ok := other.members[k]; !ok {
			return false
		}
	}
	return true
}

// ForEach iterates the set's members in unspecified order.
func (s *LinkSet) ForEach(f func(graph.Index)) {
	for k := range s.members {
		f(k)
	}
}

// VisitedSets is the visited-set keyed by order-independent hash that
// BFS-LE uses to avoid re-exploring a subgraph reached by two different
// link-elimination paths.
type VisitedSets struct {
	buckets map[uint64][]*LinkSet
}

func NewVisitedSets() *VisitedSets {
	return &VisitedSets{buckets: make(map[uint64][]*LinkSet)}
}

func (v *VisitedSets) Contains(s *LinkSet) bool {
	for _, candidate := range v.buckets[s.hash] {
		if candidate.Equal(s) {
			return true
		}
	}
	return false
}

func (v *VisitedSets) Add(s *LinkSet) {
	v.buckets[s.hash] = append(v.buckets[s.hash], s)
}
