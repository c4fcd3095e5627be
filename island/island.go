// Package island groups interacting bodies into connected components so
// they can sleep and wake in lock-step, grounded on
// original_source/physics/physicsObject.cpp's addToIsland.
package island

// Set is a single island: the set of object indices merged by contact or
// joint connectivity. Membership order follows first-insertion, matching
// the deterministic-iteration requirement carried throughout this module.
type Set struct {
	members []uint32
	index   map[uint32]int
}

func newSet() *Set {
	return &Set{index: map[uint32]int{}}
}

func (s *Set) has(object uint32) bool {
	_, ok := s.index[object]
	return ok
}

func (s *Set) add(object uint32) {
	if s.has(object) {
		return
	}
	s.index[object] = len(s.members)
	s.members = append(s.members, object)
}

// Members returns the object indices belonging to the island, in
// insertion order.
func (s *Set) Members() []uint32 { return s.members }

// Len reports the island's size.
func (s *Set) Len() int { return len(s.members) }

// Manager tracks the current partition of object indices into islands.
// Objects with no recorded island membership are implicitly singleton
// islands (spec.md treats an isolated body as its own one-member island).
type Manager struct {
	islands   []*Set
	ownerOf   map[uint32]int // object index -> index into islands
}

// NewManager returns an empty island partition.
func NewManager() *Manager {
	return &Manager{ownerOf: map[uint32]int{}}
}

// Reset clears all islands, called once per step before re-deriving
// connectivity from the step's contact and joint pairs (islands are
// rebuilt fresh each step rather than incrementally maintained across
// removals, per spec.md §4.5's "recomputed each step" note).
func (m *Manager) Reset() {
	m.islands = m.islands[:0]
	for k := range m.ownerOf {
		delete(m.ownerOf, k)
	}
}

func (m *Manager) islandOf(object uint32) (*Set, bool) {
	i, ok := m.ownerOf[object]
	if !ok {
		return nil, false
	}
	return m.islands[i], true
}

// Link merges the islands containing a and b (creating one or both if
// absent), mirroring addToIsland's four cases: neither has an island
// (create one shared island), both already share one (no-op), exactly
// one has an island (absorb the other), or both have distinct islands
// (merge b's island into a's, whatever their sizes, and retire the
// vacated slot).
func (m *Manager) Link(a, b uint32) {

	setA, hasA := m.islandOf(a)
	setB, hasB := m.islandOf(b)

	switch {
	case !hasA && !hasB:
		s := newSet()
		s.add(a)
		s.add(b)
		idx := len(m.islands)
		m.islands = append(m.islands, s)
		m.ownerOf[a] = idx
		m.ownerOf[b] = idx

	case hasA && hasB:
		if setA == setB {
			return
		}
		for _, obj := range setB.Members() {
			setA.add(obj)
			m.ownerOf[obj] = m.indexOf(setA)
		}
		m.retire(setB)

	case hasA:
		setA.add(b)
		m.ownerOf[b] = m.indexOf(setA)

	default:
		setB.add(a)
		m.ownerOf[a] = m.indexOf(setB)
	}
}

func (m *Manager) indexOf(s *Set) int {
	for i, island := range m.islands {
		if island == s {
			return i
		}
	}
	return -1
}

// retire removes a merged-away island from the active list, swapping in
// the last island to keep removal O(1); ownerOf for the moved island's
// members is patched to its new index.
func (m *Manager) retire(s *Set) {
	idx := m.indexOf(s)
	if idx < 0 {
		return
	}
	last := len(m.islands) - 1
	m.islands[idx] = m.islands[last]
	m.islands = m.islands[:last]
	if idx != last {
		for _, obj := range m.islands[idx].Members() {
			m.ownerOf[obj] = idx
		}
	}
}

// IslandOf returns the island containing object, or nil if object has no
// recorded connectivity this step (a singleton island).
func (m *Manager) IslandOf(object uint32) *Set {
	s, ok := m.islandOf(object)
	if !ok {
		return nil
	}
	return s
}

// Islands returns all multi-member islands, in creation order.
func (m *Manager) Islands() []*Set { return m.islands }
