package constraint

import "github.com/kinetic3d/mechfizix/math32"

// AngularRotation is the 1-DoF clamped rotation-about-axis constraint
// used by the cone limit and the motor's target-velocity drive. Ported
// from original_source/physics/constraints/helpers/angularRotationConstraint.h.
type AngularRotation struct {
	invIxAxis        [2]math32.Vector3
	invEffectiveMass float32
	totalLambda      float32
	bias             float32
}

func (c *AngularRotation) Initialise(bodies pair, axis math32.Vector3, bias float32) {

	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		rot := math32.NewMatrix3().SetFromQuaternion(bodyOrientation(bodies[x]))
		rotT := rot.Clone().Transpose()
		invI := math32.NewMatrix3().MultiplyMatrices(rot, invInertiaWorld(bodies[x]))
		invI.MultiplyMatrices(invI, rotT)
		c.invIxAxis[x] = *axis.Clone().ApplyMatrix3(invI)
	}

	sum := *c.invIxAxis[0].Clone().Add(&c.invIxAxis[1])
	denom := axis.Dot(&sum)
	if denom == 0 {
		c.invEffectiveMass = 0
	} else {
		c.invEffectiveMass = 1.0 / denom
	}
	c.bias = bias
}

func bodyOrientation(b Body) *math32.Quaternion {

	if b == nil {
		q := math32.Quaternion{X: 0, Y: 0, Z: 0, W: 1}
		return &q
	}
	q := b.Orientation()
	return &q
}

func (c *AngularRotation) Deactivate() {

	c.invEffectiveMass = 0
	c.totalLambda = 0
}

func (c *AngularRotation) IsActive() bool { return c.invEffectiveMass != 0 }

func (c *AngularRotation) applyImpulse(bodies pair, lambda float32) {

	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		av := *c.invIxAxis[x].Clone().MultiplyScalar(lambda * s)
		bodies[x].ApplyVelocityImpulse(math32.Vector3{}, av)
	}
}

func (c *AngularRotation) WarmStart(bodies pair) {

	c.applyImpulse(bodies, c.totalLambda)
}

func (c *AngularRotation) SolveVelocity(bodies pair, axis math32.Vector3, minLambda, maxLambda float32) {

	var w [2]math32.Vector3
	for x := 0; x < 2; x++ {
		if bodies[x] != nil {
			w[x] = bodies[x].AngularVelocity()
		}
	}
	deltaW := *w[0].Clone().Sub(&w[1])
	lambda := c.invEffectiveMass * (axis.Dot(&deltaW) - c.bias)

	prev := c.totalLambda
	c.totalLambda = clamp(c.totalLambda+lambda, minLambda, maxLambda)
	lambda = c.totalLambda - prev

	c.applyImpulse(bodies, lambda)
}

func (c *AngularRotation) SolvePosition(bodies pair, positionError, baumgarteFactor float32) {

	lambda := -c.invEffectiveMass * baumgarteFactor * positionError
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		da := *c.invIxAxis[x].Clone().MultiplyScalar(lambda * s)
		bodies[x].ApplyPositionCorrection(math32.Vector3{}, da)
	}
}

func clamp(v, min, max float32) float32 {

	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
