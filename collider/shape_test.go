package collider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestSphereLocalAABB(t *testing.T) {

	s := &Sphere{Radius: 2}
	box := s.LocalAABB()

	assert.Equal(t, KindSphere, s.Kind())
	assert.InDelta(t, -2, box.Min.X, 1e-6)
	assert.InDelta(t, 2, box.Max.Y, 1e-6)
}

func TestCapsuleLocalAABBIncludesHemisphereCaps(t *testing.T) {

	c := &Capsule{Radius: 1, HalfHeight: 3}
	box := c.LocalAABB()

	assert.InDelta(t, 4, box.Max.Y, 1e-6, "cap AABB must extend HalfHeight+Radius along the segment axis")
	assert.InDelta(t, -1, box.Min.X, 1e-6)
}

func TestBoxHullAABBMatchesHalfExtents(t *testing.T) {

	h := NewBoxHull(math32.Vector3{X: 1, Y: 2, Z: 3})
	box := h.LocalAABB()

	assert.InDelta(t, -1, box.Min.X, 1e-6)
	assert.InDelta(t, 2, box.Max.Y, 1e-6)
	assert.InDelta(t, 3, box.Max.Z, 1e-6)
	assert.Len(t, h.FaceNormals(), 6)
}

func TestCompoundAABBEnclosesTransformedChildren(t *testing.T) {

	child := CompoundChild{
		Shape:     &Sphere{Radius: 1},
		Transform: math32.Transform3D{Position: math32.Vector3{X: 5, Y: 0, Z: 0}, Orientation: math32.Quaternion{W: 1}},
	}
	c := NewCompound([]CompoundChild{child})
	box := c.LocalAABB()

	assert.InDelta(t, 4, box.Min.X, 1e-6)
	assert.InDelta(t, 6, box.Max.X, 1e-6)
}

func TestHeightFieldTriangleAtOutOfRange(t *testing.T) {

	hf := NewHeightField([][]float32{{0, 0}, {0, 0}}, 1, math32.Vector3{})
	_, _, ok := hf.TriangleAt(5, 5)
	assert.False(t, ok)

	_, _, ok = hf.TriangleAt(0, 0)
	assert.True(t, ok)
}
