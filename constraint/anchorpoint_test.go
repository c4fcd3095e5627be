package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestAnchorPointCouplesVelocityAtCoincidentPoint(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: -1})
	b := newMockBody(1, math32.Vector3{X: 1})
	a.linearVelocity = math32.Vector3{Y: 2} // only A moving toward the joint

	var ap AnchorPoint
	bodies := pair{a, b}
	localR := [2]math32.Vector3{{X: 1}, {X: -1}} // both anchors meet at world origin
	orient := [2]math32.Quaternion{{W: 1}, {W: 1}}
	ap.Initialise(bodies, localR, orient)

	for i := 0; i < 8; i++ {
		ap.SolveVelocity(bodies)
	}

	rel := a.linearVelocity.Clone().Sub(&b.linearVelocity)
	assert.InDelta(t, 0, rel.Y, 1e-2, "anchor point should equalize velocity at the shared point after enough iterations")
}

func TestHingeWarmStartIsIdempotentOnStillBodies(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: -1})
	b := newMockBody(1, math32.Vector3{X: 1})

	h := &Hinge{}
	bodies := pair{a, b}
	h.Initialise(bodies,
		[2]math32.Vector3{{X: 1}, {X: -1}},
		[2]math32.Quaternion{{W: 1}, {W: 1}},
		math32.Vector3{Y: 1}, math32.Vector3{Z: 1},
	)

	h.WarmStart(bodies)
	h.Solve(bodies, 0.2, false)

	assert.Equal(t, math32.Vector3{}, a.linearVelocity)
	assert.Equal(t, math32.Vector3{}, a.angularVelocity)
	assert.Equal(t, math32.Vector3{}, b.linearVelocity)
	assert.Equal(t, math32.Vector3{}, b.angularVelocity)
	assert.False(t, h.Dead())
	assert.True(t, h.Validate(bodies, false))
}
