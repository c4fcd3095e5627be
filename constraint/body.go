// Package constraint implements the sequential-impulse constraint
// primitives shared by contact resolution and hinge/cone/motor joints,
// grounded on original_source/physics/constraints/helpers/*.h and
// original_source/mech3D/constraintSolver.h.
package constraint

import "github.com/kinetic3d/mechfizix/math32"

// Body is the minimal view of a rigid body the constraint solver needs.
// Defined locally (mirroring g3n-engine's equation.IBody decoupling
// pattern) so this package never imports the root physics package -
// physics.RigidBody satisfies this interface structurally.
//
// A nil Body represents "the world": infinite mass, zero velocity,
// immovable. Every helper constraint checks for nil before touching it.
type Body interface {
	InvMass() float32
	InvInertiaWorld() *math32.Matrix3
	Position() math32.Vector3
	Orientation() math32.Quaternion
	LinearVelocity() math32.Vector3
	AngularVelocity() math32.Vector3
	// ApplyVelocityImpulse adds deltaLinear to linear velocity and
	// deltaAngular to angular velocity directly (already scaled by
	// inverse mass/inertia by the caller).
	ApplyVelocityImpulse(deltaLinear, deltaAngular math32.Vector3)
	// ApplyPositionCorrection nudges position and orientation directly
	// by a Baumgarte-scaled pseudo-impulse, without touching velocity.
	ApplyPositionCorrection(deltaPosition, deltaAngular math32.Vector3)
}

// pair is the two-body tuple every constraint operates on; index 1 may
// be nil meaning "world".
type pair [2]Body

func sign(x int) float32 {

	if x == 0 {
		return -1
	}
	return 1
}

func invMass(b Body) float32 {

	if b == nil {
		return 0
	}
	return b.InvMass()
}

func invInertiaWorld(b Body) *math32.Matrix3 {

	if b == nil {
		return math32.NewMatrix3().MultiplyScalar(0)
	}
	return b.InvInertiaWorld()
}
