package model

// PairSet is an ordered, duplicate-free set of (entity, index) pairs.
// Iteration order is insertion order of first appearance, which keeps result
// file generation reproducible.
type PairSet struct {
	name  string
	pairs []Pair
	seen  map[Pair]struct{}
}

func newPairSet(name string) *PairSet {
	return &PairSet{name: name, seen: make(map[Pair]struct{})}
}

// Name returns the name the set was declared under.
func (s *PairSet) Name() string { return s.name }

// Add appends a pair. Adding a pair that is already a member is a no-op and
// returns false.
func (s *PairSet) Add(p Pair) bool {
	if _, ok := s.seen[p]; ok {
		return false
	}
	s.seen[p] = struct{}{}
	s.pairs = append(s.pairs, p)
	return true
}

// Contains reports membership.
func (s *PairSet) Contains(p Pair) bool {
	_, ok := s.seen[p]
	return ok
}

// Len returns the set cardinality.
func (s *PairSet) Len() int { return len(s.pairs) }

// Pairs returns the members in insertion order. The returned slice is shared;
// callers must not mutate it.
func (s *PairSet) Pairs() []Pair { return s.pairs }

// Entities returns the distinct entities appearing in the set, in order of
// first appearance.
func (s *PairSet) Entities() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range s.pairs {
		if _, ok := seen[p.Entity]; ok {
			continue
		}
		seen[p.Entity] = struct{}{}
		out = append(out, p.Entity)
	}
	return out
}
