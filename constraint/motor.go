package constraint

import "github.com/kinetic3d/mechfizix/math32"

// Motor is a hinge plus a target angular velocity about the hinge axis,
// driven by a torque clamped to [minTorque*dt, maxTorque*dt]. Ported
// from original_source/physics/constraints/motorConstraint.cpp, whose
// singleAxisRotationConstraint field is the 2-DoF HingeAxis constraint
// (see constraint/hingeaxis.go and Hinge.Axis), not the 1-DoF Axis type.
type Motor struct {
	AnchorPoint           AnchorPoint
	AlignmentAxis         HingeAxis
	Angle                 AngularRotation
	TargetAngularVelocity float32
	MinTorque, MaxTorque  float32
	HingeAxisWorld        math32.Vector3
	dead                  bool
}

func (m *Motor) Dead() bool { return m.dead }

func (m *Motor) Initialise(bodies pair, localAnchor [2]math32.Vector3, orient [2]math32.Quaternion) {

	m.AnchorPoint.Initialise(bodies, localAnchor, orient)
}

func (m *Motor) WarmStart(bodies pair) {

	if bodies[0] == nil && bodies[1] == nil {
		m.dead = true
		return
	}
	m.AnchorPoint.WarmStart(bodies)

	m.AlignmentAxis.Initialise(bodies, m.HingeAxisWorld, m.HingeAxisWorld)
	m.AlignmentAxis.WarmStart(bodies)

	m.Angle.Initialise(bodies, m.HingeAxisWorld, -m.TargetAngularVelocity)
	m.Angle.WarmStart(bodies)
}

func (m *Motor) Solve(bodies pair, dt, baumgarteFactor float32, solvePosition bool) {

	m.Angle.SolveVelocity(bodies, m.HingeAxisWorld, m.MinTorque*dt, m.MaxTorque*dt)
	m.AnchorPoint.SolveVelocity(bodies)
	m.AlignmentAxis.SolveVelocity(bodies)

	if solvePosition {
		m.AnchorPoint.SolvePosition(bodies, baumgarteFactor)
		m.AlignmentAxis.SolvePosition(bodies, baumgarteFactor)
	}
}
