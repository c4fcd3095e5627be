package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestContactSolveVelocityRemovesApproachingClosingVelocity(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: 0, Y: 0, Z: 0})
	b := newMockBody(1, math32.Vector3{X: 0, Y: 2, Z: 0})
	a.linearVelocity = math32.Vector3{Y: 1} // approaching b
	b.linearVelocity = math32.Vector3{Y: -1}

	c := Contact{Friction: 0.3, Restitution: 0, MinVelocityForRestitution: 1.0}
	normal := math32.Vector3{Y: 1}
	pointOnA := math32.Vector3{Y: 1}
	pointOnB := math32.Vector3{Y: 1}

	bodies := pair{a, b}
	closing := normal.Dot(b.linearVelocity.Clone().Sub(&a.linearVelocity))
	c.WarmStart(bodies, normal, pointOnA, pointOnB, closing)

	for i := 0; i < 4; i++ {
		c.SolveVelocity(bodies)
	}

	rel := b.linearVelocity.Clone().Sub(&a.linearVelocity)
	closingAfter := normal.Dot(rel)
	assert.GreaterOrEqual(t, closingAfter, float32(-1e-3), "sequential impulse should remove approaching closing velocity")
}

func TestContactAccumulatedImpulseRoundTrip(t *testing.T) {

	c := Contact{}
	c.SetAccumulatedImpulses(1, 2, 3)
	n, t1, t2 := c.AccumulatedImpulses()
	assert.Equal(t, float32(1), n)
	assert.Equal(t, float32(2), t1)
	assert.Equal(t, float32(3), t2)
}

func TestContactNormalLambdaNeverNegative(t *testing.T) {

	a := newMockBody(1, math32.Vector3{})
	b := newMockBody(1, math32.Vector3{Y: 2})
	// bodies separating, not approaching: normal impulse should stay clamped at 0
	a.linearVelocity = math32.Vector3{Y: -1}
	b.linearVelocity = math32.Vector3{Y: 1}

	c := Contact{Friction: 0.3, MinVelocityForRestitution: 1.0}
	normal := math32.Vector3{Y: 1}
	bodies := pair{a, b}
	c.WarmStart(bodies, normal, math32.Vector3{Y: 1}, math32.Vector3{Y: 1}, -2)
	c.SolveVelocity(bodies)

	assert.GreaterOrEqual(t, c.Normal.totalLambda, float32(0))
}
