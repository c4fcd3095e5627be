package constraint

import "github.com/kinetic3d/mechfizix/math32"

// Axis is the 1-DoF linear-axis constraint ported from
// original_source/physics/constraints/helpers/axisConstraint.h.
type Axis struct {
	rCrossA          [2]math32.Vector3
	ixrCrossA        [2]math32.Vector3
	invEffectiveMass float32
	totalLambda      float32
	bias             float32
}

func (c *Axis) Initialise(axis math32.Vector3, bodies pair, r [2]math32.Vector3, bias float32) {

	effectiveMass := float32(0)
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		c.rCrossA[x] = *r[x].Clone().Cross(&axis)
		c.ixrCrossA[x] = *c.rCrossA[x].Clone().ApplyMatrix3(invInertiaWorld(bodies[x]))
		effectiveMass += invMass(bodies[x]) + c.ixrCrossA[x].Dot(&c.rCrossA[x])
	}
	if effectiveMass == 0 {
		c.invEffectiveMass = 0
	} else {
		c.invEffectiveMass = 1.0 / effectiveMass
	}
	c.bias = bias
}

func (c *Axis) Deactivate() {

	c.invEffectiveMass = 0
	c.totalLambda = 0
}

func (c *Axis) IsActive() bool { return c.invEffectiveMass != 0 }

func (c *Axis) WarmStart(axis math32.Vector3, bodies pair) {

	linearImpulse := *axis.Clone().MultiplyScalar(c.totalLambda)
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		dl := *linearImpulse.Clone().MultiplyScalar(invMass(bodies[x]) * s)
		da := *c.ixrCrossA[x].Clone().MultiplyScalar(c.totalLambda * s)
		bodies[x].ApplyVelocityImpulse(dl, da)
	}
}

func (c *Axis) SolveVelocity(axis math32.Vector3, bodies pair, minLambda, maxLambda float32) {

	var linVel, angVel [2]math32.Vector3
	for x := 0; x < 2; x++ {
		if bodies[x] != nil {
			linVel[x] = bodies[x].LinearVelocity()
			angVel[x] = bodies[x].AngularVelocity()
		}
	}

	jv := axis.Dot(linVel[1].Clone().Sub(&linVel[0])) + c.rCrossA[1].Dot(&angVel[1]) - c.rCrossA[0].Dot(&angVel[0])
	lambda := -(jv - c.bias) * c.invEffectiveMass

	prev := c.totalLambda
	c.totalLambda = clamp(c.totalLambda+lambda, minLambda, maxLambda)
	lambda = c.totalLambda - prev

	linearImpulse := *axis.Clone().MultiplyScalar(lambda)
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		dl := *linearImpulse.Clone().MultiplyScalar(invMass(bodies[x]) * s)
		da := *c.ixrCrossA[x].Clone().MultiplyScalar(lambda * s)
		bodies[x].ApplyVelocityImpulse(dl, da)
	}
}

func (c *Axis) SolvePosition(axis math32.Vector3, bodies pair, baumgarteFactor, positionError float32) float32 {

	lambda := -c.invEffectiveMass * baumgarteFactor * positionError

	linearImpulse := *axis.Clone().MultiplyScalar(lambda)
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		dp := *linearImpulse.Clone().MultiplyScalar(invMass(bodies[x]) * s)
		da := *c.ixrCrossA[x].Clone().MultiplyScalar(lambda * s)
		bodies[x].ApplyPositionCorrection(dp, da)
	}
	return positionError + lambda
}
