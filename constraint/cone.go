package constraint

import "github.com/kinetic3d/mechfizix/math32"

// Cone is a ball-and-socket joint (AnchorPoint) plus an AngularRotation
// limit about the axis between the two bodies' twist axes, activated
// only when the twist axes have swung past the half-cone angle. Ported
// from original_source/physics/constraints/coneConstraint.cpp.
type Cone struct {
	AnchorPoint     AnchorPoint
	Angle           AngularRotation
	CosHalfConeAngle float32
	LocalTwist      [2]math32.Vector3
	lastAxis        math32.Vector3
	dead            bool
}

func (c *Cone) Dead() bool { return c.dead }

func (c *Cone) Initialise(bodies pair, localAnchor [2]math32.Vector3, orient [2]math32.Quaternion) {

	c.AnchorPoint.Initialise(bodies, localAnchor, orient)
}

// worldTwist returns the current world-space twist axis of body x.
func (c *Cone) worldTwist(bodies pair, x int) math32.Vector3 {

	q := bodyOrientation(bodies[x])
	return *c.LocalTwist[x].Clone().ApplyQuaternion(q)
}

func (c *Cone) WarmStart(bodies pair) {

	if bodies[0] == nil && bodies[1] == nil {
		c.dead = true
		return
	}

	c.AnchorPoint.WarmStart(bodies)

	twistA := c.worldTwist(bodies, 0)
	twistB := c.worldTwist(bodies, 1)
	cosTheta := twistA.Dot(&twistB)

	if cosTheta < c.CosHalfConeAngle {
		axis := *twistB.Clone().Cross(&twistA)
		if axis.LengthSq() < 1e-8 {
			axis = perpendicular(&twistA)
		} else {
			axis.Normalize()
		}
		c.lastAxis = axis
		c.Angle.Initialise(bodies, axis, cosTheta-c.CosHalfConeAngle)
		c.Angle.WarmStart(bodies)
	} else {
		c.Angle.Deactivate()
	}
}

func (c *Cone) Solve(bodies pair, baumgarteFactor float32, solvePosition bool) {

	c.AnchorPoint.SolveVelocity(bodies)
	if solvePosition {
		c.AnchorPoint.SolvePosition(bodies, baumgarteFactor)
	}

	if c.Angle.IsActive() {
		twistA := c.worldTwist(bodies, 0)
		twistB := c.worldTwist(bodies, 1)
		cosTheta := twistA.Dot(&twistB)
		c.Angle.SolveVelocity(bodies, c.lastAxis, -3.4e38, 0)
		if solvePosition {
			c.Angle.SolvePosition(bodies, cosTheta-c.CosHalfConeAngle, baumgarteFactor)
		}
	}
}
