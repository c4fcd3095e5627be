package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestConeStaysInactiveWithinHalfAngle(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: -1})
	b := newMockBody(1, math32.Vector3{X: 1})

	c := &Cone{CosHalfConeAngle: 0.9, LocalTwist: [2]math32.Vector3{{Z: 1}, {Z: 1}}}
	bodies := pair{a, b}
	c.Initialise(bodies, [2]math32.Vector3{{X: 1}, {X: -1}}, [2]math32.Quaternion{{W: 1}, {W: 1}})

	c.WarmStart(bodies)
	assert.False(t, c.Angle.IsActive(), "aligned twist axes are within the cone limit")
}

func TestConeActivatesPastHalfAngle(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: -1})
	b := newMockBody(1, math32.Vector3{X: 1})

	c := &Cone{CosHalfConeAngle: 0.9, LocalTwist: [2]math32.Vector3{{Z: 1}, {X: 1}}}
	bodies := pair{a, b}
	c.Initialise(bodies, [2]math32.Vector3{{X: 1}, {X: -1}}, [2]math32.Quaternion{{W: 1}, {W: 1}})

	c.WarmStart(bodies)
	assert.True(t, c.Angle.IsActive(), "perpendicular twist axes exceed the cone limit and must engage the angle constraint")

	assert.NotPanics(t, func() { c.Solve(bodies, 0.2, true) })
}

func TestConeWarmStartMarksDeadWhenBothBodiesRemoved(t *testing.T) {

	c := &Cone{CosHalfConeAngle: 0.9}
	c.WarmStart(pair{nil, nil})
	assert.True(t, c.Dead())
}
