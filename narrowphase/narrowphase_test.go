package narrowphase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/math32"
)

func identityPose(pos math32.Vector3) math32.Transform3D {

	return math32.Transform3D{Position: pos, Orientation: math32.Quaternion{X: 0, Y: 0, Z: 0, W: 1}}
}

func TestGenerateSphereSpherePenetrating(t *testing.T) {

	a := &collider.Sphere{Radius: 1}
	b := &collider.Sphere{Radius: 1}
	poseA := identityPose(math32.Vector3{})
	poseB := identityPose(math32.Vector3{X: 1.5})

	m, ok := Generate(1, a, poseA, collider.Plastic, 2, b, poseB, collider.Plastic, nil)
	assert.True(t, ok)
	assert.Equal(t, Penetrating, m.Flag)
	assert.Len(t, m.Points, 1)
	assert.InDelta(t, 0.5, m.Points[0].Depth, 1e-5)
	assert.InDelta(t, 1, m.Points[0].NormalFromAToB.X, 1e-5)
}

func TestGenerateSphereSphereNotColliding(t *testing.T) {

	a := &collider.Sphere{Radius: 1}
	b := &collider.Sphere{Radius: 1}
	poseA := identityPose(math32.Vector3{})
	poseB := identityPose(math32.Vector3{X: 10})

	_, ok := Generate(1, a, poseA, collider.Plastic, 2, b, poseB, collider.Plastic, nil)
	assert.False(t, ok)
}

func TestGenerateBoxBoxFaceContact(t *testing.T) {

	a := collider.NewBoxHull(math32.Vector3{X: 1, Y: 1, Z: 1})
	b := collider.NewBoxHull(math32.Vector3{X: 1, Y: 1, Z: 1})
	poseA := identityPose(math32.Vector3{})
	poseB := identityPose(math32.Vector3{Y: 1.8}) // stacked, overlapping by 0.2

	cache := &HullVsHullCache{}
	m, ok := Generate(1, a, poseA, collider.Plastic, 2, b, poseB, collider.Plastic, cache)
	assert.True(t, ok)
	assert.Equal(t, Penetrating, m.Flag)
	assert.NotEmpty(t, m.Points)
	for _, p := range m.Points {
		assert.Greater(t, p.Depth, float32(0))
		assert.InDelta(t, 1, p.NormalFromAToB.Y, 1e-3)
	}
}

func TestGenerateBoxBoxSeparated(t *testing.T) {

	a := collider.NewBoxHull(math32.Vector3{X: 1, Y: 1, Z: 1})
	b := collider.NewBoxHull(math32.Vector3{X: 1, Y: 1, Z: 1})
	poseA := identityPose(math32.Vector3{})
	poseB := identityPose(math32.Vector3{Y: 10})

	_, ok := Generate(1, a, poseA, collider.Plastic, 2, b, poseB, collider.Plastic, &HullVsHullCache{})
	assert.False(t, ok)
}

func TestPairHashIsOrderIndependent(t *testing.T) {

	assert.Equal(t, PairHash(3, 7), PairHash(7, 3))
	assert.NotEqual(t, PairHash(3, 7), PairHash(3, 8))
}
