package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestHingeAxisRemovesRelativeSpinAroundPerpendicularAxes(t *testing.T) {

	a := newMockBody(1, math32.Vector3{})
	b := newMockBody(1, math32.Vector3{})
	// spin A around X, which the Y-aligned hinge axis should resist.
	a.angularVelocity = math32.Vector3{X: 2}

	var c HingeAxis
	bodies := pair{a, b}
	c.Initialise(bodies, math32.Vector3{Y: 1}, math32.Vector3{Y: 1})

	for i := 0; i < 8; i++ {
		c.SolveVelocity(bodies)
	}

	rel := a.angularVelocity.Clone().Sub(&b.angularVelocity)
	// the component along X (perpendicular to the hinge axis Y) should be damped out.
	assert.InDelta(t, 0, rel.X, 1e-2)
}

func TestHingeAxisToleratesNearParallelInputAxes(t *testing.T) {

	a := newMockBody(1, math32.Vector3{})
	b := newMockBody(1, math32.Vector3{})

	var c HingeAxis
	bodies := pair{a, b}
	// both callers pass essentially the same axis; Initialise must not divide by zero.
	c.Initialise(bodies, math32.Vector3{Y: 1}, math32.Vector3{Y: 1, X: 1e-6})

	assert.NotPanics(t, func() { c.SolveVelocity(bodies) })
}
