package island

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkCreatesSharedIsland(t *testing.T) {

	m := NewManager()
	m.Link(1, 2)

	s := m.IslandOf(1)
	assert.NotNil(t, s)
	assert.Same(t, s, m.IslandOf(2))
	assert.ElementsMatch(t, []uint32{1, 2}, s.Members())
}

func TestLinkAbsorbsLoneObject(t *testing.T) {

	m := NewManager()
	m.Link(1, 2)
	m.Link(1, 3)

	s := m.IslandOf(1)
	assert.ElementsMatch(t, []uint32{1, 2, 3}, s.Members())
	assert.Same(t, s, m.IslandOf(3))
}

func TestLinkMergesTwoIslands(t *testing.T) {

	m := NewManager()
	m.Link(1, 2)
	m.Link(3, 4)
	assert.Len(t, m.Islands(), 2)

	m.Link(2, 3)
	assert.Len(t, m.Islands(), 1, "merging two islands should retire one")

	s := m.IslandOf(1)
	assert.ElementsMatch(t, []uint32{1, 2, 3, 4}, s.Members())
	assert.Same(t, s, m.IslandOf(4))
}

func TestLinkSameIslandIsNoop(t *testing.T) {

	m := NewManager()
	m.Link(1, 2)
	m.Link(2, 1)

	assert.Len(t, m.Islands(), 1)
	assert.Equal(t, 2, m.IslandOf(1).Len())
}

func TestIslandOfUnknownObjectIsNil(t *testing.T) {

	m := NewManager()
	assert.Nil(t, m.IslandOf(99))
}

func TestResetClearsAllIslands(t *testing.T) {

	m := NewManager()
	m.Link(1, 2)
	m.Reset()

	assert.Empty(t, m.Islands())
	assert.Nil(t, m.IslandOf(1))
}

func TestRetireSwapRemovePatchesOwnership(t *testing.T) {

	m := NewManager()
	m.Link(1, 2) // island 0
	m.Link(3, 4) // island 1
	m.Link(5, 6) // island 2

	// merge island 1 into island 0, forcing a swap-remove that moves
	// island 2 into the vacated slot
	m.Link(1, 3)

	assert.Len(t, m.Islands(), 2)
	for _, obj := range []uint32{1, 2, 3, 4} {
		assert.Same(t, m.IslandOf(1), m.IslandOf(obj))
	}
	assert.ElementsMatch(t, []uint32{5, 6}, m.IslandOf(5).Members())
}
