// Package broadphase implements the fixed-depth axis-aligned octree that
// maps rigid body colliders to candidate overlap pairs, grounded on
// original_source/mech3D/octree.h and original_source/physics/octree.h.
package broadphase

import "github.com/kinetic3d/mechfizix/math32"

// Evaluation is the result of testing a collider's AABB against a node's
// bound.
type Evaluation int

const (
	NoIntersect Evaluation = iota
	PartialIntersect
	FullyContained
)

func evaluate(nodeBound, colliderBound *math32.Box3) Evaluation {

	if !nodeBound.IsIntersectionBox(colliderBound) {
		return NoIntersect
	}
	if nodeBound.ContainsBox(colliderBound) {
		return FullyContained
	}
	return PartialIntersect
}

const noParent = -1

// node is one octree cell. Dynamic colliders are kept in an
// insertion-ordered slice with a side index for O(1) removal (swap with
// the last element) so that broad-phase enumeration stays deterministic
// without relying on map iteration order. Static colliders never migrate
// once inserted, so they are a plain append-only slice.
type node struct {
	bound    math32.Box3
	parent   int
	children [8]int // -1 if not yet subdivided
	dynamic  []uint32
	dynIndex map[uint32]int
	static   []uint32
}

func newNode(bound math32.Box3, parent int) *node {

	n := &node{bound: bound, parent: parent, dynIndex: map[uint32]int{}}
	for i := range n.children {
		n.children[i] = noParent
	}
	return n
}

func (n *node) empty() bool {

	return len(n.dynamic) == 0 && len(n.static) == 0
}

func (n *node) addDynamic(id uint32) {

	if _, ok := n.dynIndex[id]; ok {
		return
	}
	n.dynIndex[id] = len(n.dynamic)
	n.dynamic = append(n.dynamic, id)
}

func (n *node) removeDynamic(id uint32) {

	idx, ok := n.dynIndex[id]
	if !ok {
		return
	}
	last := len(n.dynamic) - 1
	n.dynamic[idx] = n.dynamic[last]
	n.dynIndex[n.dynamic[idx]] = idx
	n.dynamic = n.dynamic[:last]
	delete(n.dynIndex, id)
}

func (n *node) addStatic(id uint32) {

	n.static = append(n.static, id)
}

// childBound halves the parent bound along each axis; key's three bits
// select, per axis, the lower or upper half (bit set => upper half).
func childBound(parent *math32.Box3, key int) math32.Box3 {

	center := *parent.Center(nil)
	min, max := parent.Min, parent.Max

	pick := func(bit int, lo, hi, c float32) (float32, float32) {
		if key&bit != 0 {
			return c, hi
		}
		return lo, c
	}

	minX, maxX := pick(1, min.X, max.X, center.X)
	minY, maxY := pick(2, min.Y, max.Y, center.Y)
	minZ, maxZ := pick(4, min.Z, max.Z, center.Z)

	return *math32.NewBox3(
		math32.NewVector3(minX, minY, minZ),
		math32.NewVector3(maxX, maxY, maxZ),
	)
}

// Octree is a fixed-depth spatial index over collider AABBs.
type Octree struct {
	nodes []*node
	depth int
	// occupancy tracks, per collider id, every node index it was
	// inserted into, so repositionCollider and Remove can retract
	// exactly the set of nodes touched by the previous insertion.
	occupancy map[uint32][]int
}

// Initialise sets the root bound and fixed subdivision depth. Must be
// called once before any Add.
func (o *Octree) Initialise(bound math32.Box3, depth int) {

	o.nodes = []*node{newNode(bound, noParent)}
	o.depth = depth
	o.occupancy = map[uint32][]int{}
}

// Add classifies a collider's AABB against the tree, descending from the
// root through every node it overlaps and inserting it into each
// overlapped node at the fixed depth, so two colliders are paired only
// where they share such a leaf node.
func (o *Octree) Add(id uint32, static bool, aabb math32.Box3) {

	var visit func(nodeIdx, level int)
	visited := make([]int, 0, 8)

	visit = func(nodeIdx, level int) {
		n := o.nodes[nodeIdx]
		if evaluate(&n.bound, &aabb) == NoIntersect {
			return
		}

		if level < o.depth {
			for key := 0; key < 8; key++ {
				if n.children[key] == noParent {
					cb := childBound(&n.bound, key)
					o.nodes = append(o.nodes, newNode(cb, nodeIdx))
					n.children[key] = len(o.nodes) - 1
				}
				visit(n.children[key], level+1)
			}
			return
		}

		if static {
			n.addStatic(id)
		} else {
			n.addDynamic(id)
		}
		visited = append(visited, nodeIdx)
	}

	visit(0, 0)
	o.occupancy[id] = visited
}

// Remove retracts a collider from every node it currently occupies, and
// tears down any non-root node left empty.
func (o *Octree) Remove(id uint32, static bool) {

	nodesOccupied := o.occupancy[id]
	for _, idx := range nodesOccupied {
		n := o.nodes[idx]
		if static {
			// Static colliders never migrate in the reference design;
			// removal only happens when the body itself is erased.
			for i, sid := range n.static {
				if sid == id {
					n.static = append(n.static[:i], n.static[i+1:]...)
					break
				}
			}
		} else {
			n.removeDynamic(id)
		}
		o.terminate(idx)
	}
	delete(o.occupancy, id)
}

// RepositionCollider re-classifies a dynamic collider after its AABB has
// changed: nodes it no longer touches are retracted, nodes it newly
// touches are inserted, matching spec.md §4.2.
func (o *Octree) RepositionCollider(id uint32, aabb math32.Box3) {

	o.Remove(id, false)
	o.Add(id, false, aabb)
}

// terminate tears down an empty non-root node, detaching it from its
// parent's children slots. Safe to call on a node still in use.
func (o *Octree) terminate(index int) {

	if index == 0 {
		return
	}
	n := o.nodes[index]
	if !n.empty() {
		return
	}
	for _, c := range n.children {
		if c != noParent {
			return
		}
	}
	parent := o.nodes[n.parent]
	for key, c := range parent.children {
		if c == index {
			parent.children[key] = noParent
		}
	}
}

// Pair is a candidate overlap between two colliders, ordered so that
// A < B for deterministic, duplicate-free enumeration.
type Pair struct {
	A, B uint32
}

// Pairs enumerates candidate collider pairs in node-index (key) order:
// within each node, every dynamic collider is paired with every other
// dynamic collider and every static collider present at that node.
// Pairs already emitted (a collider spanning several nodes would
// otherwise recur) are suppressed via a seen-set while preserving the
// emission order of their first occurrence.
func (o *Octree) Pairs() []Pair {

	seen := map[Pair]bool{}
	var out []Pair

	emit := func(a, b uint32) {
		if a == b {
			return
		}
		if a > b {
			a, b = b, a
		}
		p := Pair{a, b}
		if seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, n := range o.nodes {
		for i := 0; i < len(n.dynamic); i++ {
			for j := i + 1; j < len(n.dynamic); j++ {
				emit(n.dynamic[i], n.dynamic[j])
			}
			for _, s := range n.static {
				emit(n.dynamic[i], s)
			}
		}
	}
	return out
}
