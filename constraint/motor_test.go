package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/math32"
)

func TestMotorDrivesAngularVelocityTowardTarget(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: -1})
	b := newMockBody(1, math32.Vector3{X: 1})

	m := &Motor{
		TargetAngularVelocity: 4,
		MinTorque:             -100,
		MaxTorque:             100,
		HingeAxisWorld:        math32.Vector3{Y: 1},
	}
	bodies := pair{a, b}
	m.Initialise(bodies, [2]math32.Vector3{{X: 1}, {X: -1}}, [2]math32.Quaternion{{W: 1}, {W: 1}})

	const dt = float32(1.0 / 60.0)
	for i := 0; i < 30; i++ {
		m.WarmStart(bodies)
		m.Solve(bodies, dt, 0.2, false)
	}

	rel := a.angularVelocity.Clone().Sub(&b.angularVelocity)
	got := rel.Dot(&m.HingeAxisWorld)
	assert.InDelta(t, -4, got, 0.5, "angle constraint bias is negated target velocity, so relative spin settles near -target")
}

func TestMotorDeadWhenBothBodiesRemoved(t *testing.T) {

	m := &Motor{HingeAxisWorld: math32.Vector3{Y: 1}}
	m.WarmStart(pair{nil, nil})
	assert.True(t, m.Dead())
}

func TestMotorTorqueStaysWithinBounds(t *testing.T) {

	a := newMockBody(1, math32.Vector3{X: -1})
	b := newMockBody(1, math32.Vector3{X: 1})

	m := &Motor{
		TargetAngularVelocity: 1000, // unreachable given the torque clamp
		MinTorque:             -1,
		MaxTorque:             1,
		HingeAxisWorld:        math32.Vector3{Y: 1},
	}
	bodies := pair{a, b}
	m.Initialise(bodies, [2]math32.Vector3{{X: 1}, {X: -1}}, [2]math32.Quaternion{{W: 1}, {W: 1}})

	const dt = float32(1.0 / 60.0)
	for i := 0; i < 5; i++ {
		m.WarmStart(bodies)
		m.Solve(bodies, dt, 0.2, false)
	}

	assert.GreaterOrEqual(t, m.Angle.totalLambda, m.MinTorque*dt-1e-4)
	assert.LessOrEqual(t, m.Angle.totalLambda, m.MaxTorque*dt+1e-4)
}
