package broadphase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float32) math32.Box3 {

	return *math32.NewBox3(
		math32.NewVector3(minX, minY, minZ),
		math32.NewVector3(maxX, maxY, maxZ),
	)
}

func TestPairsFindsOverlappingDynamicColliders(t *testing.T) {

	o := &Octree{}
	o.Initialise(box(-10, -10, -10, 10, 10, 10), 3)

	o.Add(1, false, box(0, 0, 0, 1, 1, 1))
	o.Add(2, false, box(0.5, 0.5, 0.5, 1.5, 1.5, 1.5))
	o.Add(3, false, box(-9, -9, -9, -8, -8, -8))

	pairs := o.Pairs()
	assert.Contains(t, pairs, Pair{A: 1, B: 2})
	assert.NotContains(t, pairs, Pair{A: 1, B: 3})
	assert.NotContains(t, pairs, Pair{A: 2, B: 3})
}

func TestPairsDeduplicatesAcrossSharedNodes(t *testing.T) {

	o := &Octree{}
	o.Initialise(box(-10, -10, -10, 10, 10, 10), 3)

	// a large box overlapping both halves of the root, so it is inserted
	// into multiple nodes alongside a small one - the pair must appear once.
	o.Add(1, false, box(-5, -5, -5, 5, 5, 5))
	o.Add(2, false, box(-1, -1, -1, 1, 1, 1))

	pairs := o.Pairs()
	count := 0
	for _, p := range pairs {
		if p == (Pair{A: 1, B: 2}) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestStaticVsDynamicPairing(t *testing.T) {

	o := &Octree{}
	o.Initialise(box(-10, -10, -10, 10, 10, 10), 2)

	o.Add(1, true, box(-10, -1, -10, 10, 0, 10)) // ground plane
	o.Add(2, false, box(0, 0, 0, 1, 1, 1))

	pairs := o.Pairs()
	assert.Contains(t, pairs, Pair{A: 1, B: 2})
}

func TestRemoveRetractsFromAllOccupiedNodes(t *testing.T) {

	o := &Octree{}
	o.Initialise(box(-10, -10, -10, 10, 10, 10), 3)

	o.Add(1, false, box(0, 0, 0, 1, 1, 1))
	o.Add(2, false, box(0.5, 0.5, 0.5, 1.5, 1.5, 1.5))
	o.Remove(1, false)

	pairs := o.Pairs()
	assert.NotContains(t, pairs, Pair{A: 1, B: 2})
}

func TestRepositionColliderMovesBetweenNodes(t *testing.T) {

	o := &Octree{}
	o.Initialise(box(-10, -10, -10, 10, 10, 10), 3)

	o.Add(1, false, box(0, 0, 0, 1, 1, 1))
	o.Add(2, false, box(-9, -9, -9, -8, -8, -8))
	assert.Empty(t, o.Pairs())

	o.RepositionCollider(1, box(-9, -9, -9, -8.5, -8.5, -8.5))
	assert.Contains(t, o.Pairs(), Pair{A: 1, B: 2})
}
