package constraint

import "github.com/kinetic3d/mechfizix/math32"

// Hinge combines a 3-DoF AnchorPoint with a 2-DoF HingeAxis constraint,
// leaving rotation about the hinge axis itself free. Ported from the
// composition in original_source/mech3D/constraintSolver.h.
type Hinge struct {
	AnchorPoint      AnchorPoint
	Axis             HingeAxis
	DisableCollisions bool
	dead             bool
}

// Validate marks the joint dead if either referenced body has been
// removed (the caller resolves both endpoints and passes eitherRemoved
// when one of them no longer resolves). A dead joint stays dead, and
// Validate returns false so the caller drops it from its joint list.
func (h *Hinge) Validate(bodies pair, eitherRemoved bool) bool {

	if eitherRemoved {
		h.dead = true
	}
	return !h.dead
}

func (h *Hinge) Dead() bool { return h.dead }

func (h *Hinge) Initialise(bodies pair, localAnchor [2]math32.Vector3, orient [2]math32.Quaternion, hingeAxis1, hingeAxis2 math32.Vector3) {

	h.AnchorPoint.Initialise(bodies, localAnchor, orient)
	h.Axis.Initialise(bodies, hingeAxis1, hingeAxis2)
}

func (h *Hinge) WarmStart(bodies pair) {

	h.AnchorPoint.WarmStart(bodies)
	h.Axis.WarmStart(bodies)
}

func (h *Hinge) Solve(bodies pair, baumgarteFactor float32, solvePosition bool) {

	h.AnchorPoint.SolveVelocity(bodies)
	h.Axis.SolveVelocity(bodies)
	if solvePosition {
		h.AnchorPoint.SolvePosition(bodies, baumgarteFactor)
		h.Axis.SolvePosition(bodies, baumgarteFactor)
	}
}
