package constraint

import "github.com/kinetic3d/mechfizix/math32"

// AnchorPoint is the 3-DoF point-coincidence constraint shared by every
// joint type (hinge/cone/motor all start from two anchor points that
// must coincide in world space). Ported from
// original_source/physics/constraints/helpers/anchorPointConstraint.h.
type AnchorPoint struct {
	invIxR           [2]math32.Matrix3
	invEffectiveMass math32.Matrix3
	r                [2]math32.Vector3
	totalLambda      math32.Vector3
}

// Initialise computes the effective mass from each body's local anchor
// offset localR (in body-local space) and the body's orientation at
// constraint-build time.
func (c *AnchorPoint) Initialise(bodies pair, localR [2]math32.Vector3, orient [2]math32.Quaternion) {

	var effectiveMass math32.Matrix3
	invMassSum := float32(0)

	for x := 0; x < 2; x++ {
		negLocalR := *localR[x].Clone().Negate()
		c.r[x] = *negLocalR.ApplyQuaternion(&orient[x])

		if bodies[x] == nil {
			continue
		}
		rot := math32.NewMatrix3().SetFromQuaternion(&orient[x])
		rotT := rot.Clone().Transpose()
		invI := math32.NewMatrix3().MultiplyMatrices(rot, invInertiaWorld(bodies[x]))
		invI.MultiplyMatrices(invI, rotT)

		rx := math32.SkewSymmetric(&c.r[x])
		c.invIxR[x] = *math32.NewMatrix3().MultiplyMatrices(invI, rx)

		invMassSum += invMass(bodies[x])

		rxInvI := math32.NewMatrix3().MultiplyMatrices(rx, invI)
		rxT := rx.Clone().Transpose()
		contribution := math32.NewMatrix3().MultiplyMatrices(rxInvI, rxT)
		effectiveMass.Add(&effectiveMass, contribution)
	}

	effectiveMass[0] += invMassSum
	effectiveMass[4] += invMassSum
	effectiveMass[8] += invMassSum

	c.invEffectiveMass = *math32.NewMatrix3()
	_ = c.invEffectiveMass.GetInverse(expand(&effectiveMass))
}

// expand promotes a Matrix3 into the Matrix4 GetInverse expects, since
// math32's Matrix3 inverse only takes a Matrix4 source (upstream quirk
// of the teacher's math32 package).
func expand(m *math32.Matrix3) *math32.Matrix4 {

	full := math32.NewMatrix4()
	full.Set(
		m[0], m[3], m[6], 0,
		m[1], m[4], m[7], 0,
		m[2], m[5], m[8], 0,
		0, 0, 0, 1,
	)
	return full
}

func (c *AnchorPoint) WarmStart(bodies pair) {

	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		lv := *c.totalLambda.Clone().MultiplyScalar(invMass(bodies[x]) * s)
		av := *c.totalLambda.Clone().ApplyMatrix3(&c.invIxR[x]).MultiplyScalar(s)
		bodies[x].ApplyVelocityImpulse(lv, av)
	}
}

func (c *AnchorPoint) SolveVelocity(bodies pair) {

	var linVel, angVel [2]math32.Vector3
	for x := 0; x < 2; x++ {
		if bodies[x] != nil {
			linVel[x] = bodies[x].LinearVelocity()
			angVel[x] = bodies[x].AngularVelocity()
		}
	}

	rel := *linVel[0].Clone().
		Sub(c.r[0].Clone().Cross(&angVel[0])).
		Sub(&linVel[1]).
		Add(c.r[1].Clone().Cross(&angVel[1]))

	lambda := *rel.ApplyMatrix3(&c.invEffectiveMass)
	c.totalLambda.Add(&lambda)

	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		lv := *lambda.Clone().MultiplyScalar(invMass(bodies[x]) * s)
		av := *lambda.Clone().ApplyMatrix3(&c.invIxR[x]).MultiplyScalar(s)
		bodies[x].ApplyVelocityImpulse(lv, av)
	}
}

func (c *AnchorPoint) SolvePosition(bodies pair, baumgarteFactor float32) {

	var pos [2]math32.Vector3
	for x := 0; x < 2; x++ {
		if bodies[x] != nil {
			pos[x] = bodies[x].Position()
		}
	}

	separation := *pos[1].Clone().Sub(&pos[0]).Sub(c.r[1].Clone().Sub(&c.r[0]))
	if separation.LengthSq() == 0 {
		return
	}

	lambda := *separation.ApplyMatrix3(&c.invEffectiveMass).MultiplyScalar(-baumgarteFactor)

	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		dp := *lambda.Clone().MultiplyScalar(invMass(bodies[x]) * s)
		da := *lambda.Clone().ApplyMatrix3(&c.invIxR[x]).MultiplyScalar(s)
		bodies[x].ApplyPositionCorrection(dp, da)
	}
}
