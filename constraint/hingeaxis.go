package constraint

import "github.com/kinetic3d/mechfizix/math32"

// HingeAxis is the 2-DoF constraint that locks rotation around the two
// axes perpendicular to a shared hinge axis, ported from
// original_source/physics/constraints/helpers/hingeAxisConstraint.h.
type HingeAxis struct {
	invEffectiveMass [2][2]float32
	a1               math32.Vector3
	b2, c2           math32.Vector3
	b2CrossA1        math32.Vector3
	c2CrossA1        math32.Vector3
	totalLambda      [2]float32
}

func (c *HingeAxis) Initialise(bodies pair, hingeAxis1, hingeAxis2 math32.Vector3) {

	c.a1 = hingeAxis1
	a2 := hingeAxis2

	dot := c.a1.Dot(&a2)
	if dot <= 1e-3 {
		perp := *a2.Clone().Sub(c.a1.Clone().MultiplyScalar(dot))
		if perp.LengthSq() < 1e-6 {
			perp = perpendicular(&c.a1)
		}
		a2 = *perp.MultiplyScalar(0.99).Add(c.a1.Clone().MultiplyScalar(0.01)).Normalize()
	}

	c.b2 = *perpendicular(&a2)
	c.c2 = *a2.Clone().Cross(&c.b2)

	c.b2CrossA1 = *c.b2.Clone().Cross(&c.a1)
	c.c2CrossA1 = *c.c2.Clone().Cross(&c.a1)

	var sumInvInertia math32.Matrix3
	sumInvInertia.Add(invInertiaWorld(bodies[0]), invInertiaWorld(bodies[1]))

	v1 := *c.b2CrossA1.Clone().ApplyMatrix3(&sumInvInertia)
	v2 := *c.c2CrossA1.Clone().ApplyMatrix3(&sumInvInertia)

	m00 := c.b2CrossA1.Dot(&v1)
	m01 := c.b2CrossA1.Dot(&v2)
	m10 := c.c2CrossA1.Dot(&v1)
	m11 := c.c2CrossA1.Dot(&v2)

	det := m00*m11 - m01*m10
	if det == 0 {
		c.invEffectiveMass = [2][2]float32{}
		return
	}
	invDet := 1.0 / det
	c.invEffectiveMass = [2][2]float32{
		{m11 * invDet, -m01 * invDet},
		{-m10 * invDet, m00 * invDet},
	}
}

// perpendicular returns an arbitrary unit vector orthogonal to v.
func perpendicular(v *math32.Vector3) math32.Vector3 {

	a, b := v.RandomTangents()
	_ = b
	return *a
}

func (c *HingeAxis) applyImpulse(bodies pair, lambda0, lambda1 float32) {

	impulse := *c.b2CrossA1.Clone().MultiplyScalar(lambda0).Add(c.c2CrossA1.Clone().MultiplyScalar(lambda1))
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		av := *impulse.Clone().ApplyMatrix3(invInertiaWorld(bodies[x])).MultiplyScalar(s)
		bodies[x].ApplyVelocityImpulse(math32.Vector3{}, av)
	}
}

func (c *HingeAxis) WarmStart(bodies pair) {

	c.applyImpulse(bodies, c.totalLambda[0], c.totalLambda[1])
}

func (c *HingeAxis) SolveVelocity(bodies pair) {

	var w [2]math32.Vector3
	for x := 0; x < 2; x++ {
		if bodies[x] != nil {
			w[x] = bodies[x].AngularVelocity()
		}
	}
	deltaW := *w[0].Clone().Sub(&w[1])
	jv0 := c.b2CrossA1.Dot(&deltaW)
	jv1 := c.c2CrossA1.Dot(&deltaW)

	l0 := c.invEffectiveMass[0][0]*jv0 + c.invEffectiveMass[0][1]*jv1
	l1 := c.invEffectiveMass[1][0]*jv0 + c.invEffectiveMass[1][1]*jv1

	c.totalLambda[0] += l0
	c.totalLambda[1] += l1

	c.applyImpulse(bodies, l0, l1)
}

func (c *HingeAxis) SolvePosition(bodies pair, baumgarteFactor float32) {

	c0 := c.a1.Dot(&c.b2)
	c1 := c.a1.Dot(&c.c2)
	if c0*c0+c1*c1 == 0 {
		return
	}

	jv0 := c.invEffectiveMass[0][0]*c0 + c.invEffectiveMass[0][1]*c1
	jv1 := c.invEffectiveMass[1][0]*c0 + c.invEffectiveMass[1][1]*c1
	l0 := -jv0 * baumgarteFactor
	l1 := -jv1 * baumgarteFactor

	impulse := *c.b2CrossA1.Clone().MultiplyScalar(l0).Add(c.c2CrossA1.Clone().MultiplyScalar(l1))
	for x := 0; x < 2; x++ {
		if bodies[x] == nil {
			continue
		}
		s := sign(x)
		da := *impulse.Clone().ApplyMatrix3(invInertiaWorld(bodies[x])).MultiplyScalar(s)
		bodies[x].ApplyPositionCorrection(math32.Vector3{}, da)
	}
}
