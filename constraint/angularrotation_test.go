package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestAngularRotationClampsLambdaToBounds(t *testing.T) {

	a := newMockBody(1, math32.Vector3{})
	b := newMockBody(1, math32.Vector3{})
	a.angularVelocity = math32.Vector3{Z: 10}

	var c AngularRotation
	bodies := pair{a, b}
	axis := math32.Vector3{Z: 1}
	c.Initialise(bodies, axis, 0)

	c.SolveVelocity(bodies, axis, -0.01, 0.01)
	assert.GreaterOrEqual(t, c.totalLambda, float32(-0.01))
	assert.LessOrEqual(t, c.totalLambda, float32(0.01))
}

func TestAngularRotationDeactivateZeroesEffectiveMass(t *testing.T) {

	a := newMockBody(1, math32.Vector3{})
	b := newMockBody(1, math32.Vector3{})

	var c AngularRotation
	bodies := pair{a, b}
	c.Initialise(bodies, math32.Vector3{Z: 1}, 0)
	assert.True(t, c.IsActive())

	c.Deactivate()
	assert.False(t, c.IsActive())
}
