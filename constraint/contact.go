package constraint

import "github.com/kinetic3d/mechfizix/math32"

// Contact is a single contact point's constraint set: one normal-axis
// inequality (lambda >= 0) and two tangent-axis equality constraints
// whose bounds track +-mu*lambda_normal (the combined friction cone),
// per spec.md §4.4.1. Built on the shared Axis primitive.
type Contact struct {
	Normal, Tangent1, Tangent2 Axis
	NormalAxis                 math32.Vector3
	MinVelocityForRestitution  float32
	Restitution                float32
	Friction                   float32
}

// tangentBasis returns two unit vectors orthogonal to normal and to each
// other, used as the friction directions.
func tangentBasis(normal math32.Vector3) (math32.Vector3, math32.Vector3) {

	t1, t2 := normal.RandomTangents()
	return *t1, *t2
}

// WarmStart (re)initialises the three axis constraints from the current
// contact geometry (world-space contact point, body positions) and
// reapplies the previous frame's accumulated impulses, carried in from
// the caller's impulse cache (totalLambda fields are set by the caller
// before calling WarmStart when warm-starting from cache; left at zero
// for a newly born contact).
func (c *Contact) WarmStart(bodies pair, normal math32.Vector3, pointOnA, pointOnB math32.Vector3, closingVelocity float32) {

	c.NormalAxis = normal
	t1, t2 := tangentBasis(normal)

	var pos [2]math32.Vector3
	if bodies[0] != nil {
		pos[0] = bodies[0].Position()
	}
	if bodies[1] != nil {
		pos[1] = bodies[1].Position()
	}
	rA := *pointOnA.Clone().Sub(&pos[0])
	rB := *pointOnB.Clone().Sub(&pos[1])
	r := [2]math32.Vector3{rA, rB}

	bias := float32(0)
	if closingVelocity < -c.MinVelocityForRestitution {
		bias = -c.Restitution * closingVelocity
	}

	c.Normal.Initialise(normal, bodies, r, bias)
	c.Tangent1.Initialise(t1, bodies, r, 0)
	c.Tangent2.Initialise(t2, bodies, r, 0)

	c.Normal.WarmStart(normal, bodies)
	c.Tangent1.WarmStart(t1, bodies)
	c.Tangent2.WarmStart(t2, bodies)
}

// SolveVelocity runs one Gauss-Seidel sweep of the normal and friction
// constraints, clamping friction to the combined-tangent cone derived
// from the normal constraint's current accumulated impulse.
func (c *Contact) SolveVelocity(bodies pair) {

	c.Normal.SolveVelocity(c.NormalAxis, bodies, 0, 3.4e38)

	maxFriction := c.Friction * c.Normal.totalLambda
	t1, t2 := tangentBasis(c.NormalAxis)
	c.Tangent1.SolveVelocity(t1, bodies, -maxFriction, maxFriction)
	c.Tangent2.SolveVelocity(t2, bodies, -maxFriction, maxFriction)
}

// SolvePosition applies Baumgarte position correction along the normal
// only (friction has no positional drift to correct).
func (c *Contact) SolvePosition(bodies pair, depth, baumgarteFactor, linearSlop float32) {

	correctable := depth - linearSlop
	if correctable <= 0 {
		return
	}
	c.Normal.SolvePosition(c.NormalAxis, bodies, baumgarteFactor, -correctable)
}

// AccumulatedImpulses exposes the three axes' total lambdas for the
// cache writeback on the solver's last iteration (spec.md §4.4.1).
func (c *Contact) AccumulatedImpulses() (normal, t1, t2 float32) {

	return c.Normal.totalLambda, c.Tangent1.totalLambda, c.Tangent2.totalLambda
}

// SetAccumulatedImpulses restores cached impulses before WarmStart reuses
// them (the source of "warm starting").
func (c *Contact) SetAccumulatedImpulses(normal, t1, t2 float32) {

	c.Normal.totalLambda, c.Tangent1.totalLambda, c.Tangent2.totalLambda = normal, t1, t2
}
