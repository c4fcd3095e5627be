package physics

import (
	"math"

	"github.com/kinetic3d/mechfizix/math32"
)

// body flag bits, mirroring original_source/physics/rigidBody.h's comment
// block verbatim (bit 0: can sleep, bit 1: active).
const (
	flagCanSleep = 1 << 0
	flagActive   = 1 << 1
)

// RigidBody is the integrated state of one dynamic physics object:
// pose, velocities, accumulated forces, and the sleep/motion bookkeeping
// used to deactivate a settled body. Struct-and-method shape grounded on
// g3n-engine/experimental/physics/object/body.go's Body type; the
// integration arithmetic itself is ported from
// original_source/mech3D/rigidBody.cpp.
type RigidBody struct {
	transform     math32.Transform3D
	prevTransform math32.Transform3D

	invInertiaLocal math32.Matrix3
	invInertiaWorld math32.Matrix3

	linearVelocity  math32.Vector3
	angularVelocity math32.Vector3

	forceAccumulated  math32.Vector3
	torqueAccumulated math32.Vector3

	deltaPosition    math32.Vector3
	deltaOrientation math32.Vector3

	motion  float32
	invMass float32

	colliderID uint32
	flags      byte

	settings *RigidBodySettings
}

// NewRigidBody returns a body at transform with the given mass and local
// inertia tensor, using settings for gravity/damping/sleep tunables
// (settings is shared across all bodies in a World, mirroring the
// reference implementation's single global RigidBodyConfigurations).
func NewRigidBody(transform math32.Transform3D, mass float32, inertiaTensor math32.Matrix3, settings *RigidBodySettings) *RigidBody {

	b := &RigidBody{
		transform:     transform,
		prevTransform: transform,
		flags:         flagCanSleep | flagActive,
		motion:        settings.MaxMotion,
		settings:      settings,
	}
	b.SetMass(mass)
	b.SetInertiaTensor(inertiaTensor)
	return b
}

// SetColliderID records the owning collider's slot index. Update does
// not read it: the octree's AABB refresh is done by World (see
// repositionActive in step.go).
func (b *RigidBody) SetColliderID(id uint32) { b.colliderID = id }
func (b *RigidBody) ColliderID() uint32      { return b.colliderID }

// SetMass sets the body's mass, storing its reciprocal. Static colliders
// have no RigidBody, so SetMass is never called for them. A zero mass is
// not checked here or by World.AddDynamic; it gives an infinite inverse
// mass.
func (b *RigidBody) SetMass(mass float32) { b.invMass = 1.0 / mass }

// SetInertiaTensor stores the inverse of the given local-space inertia
// tensor and refreshes the world-space inertia cache.
func (b *RigidBody) SetInertiaTensor(tensor math32.Matrix3) {

	b.invInertiaLocal = *tensor.Clone()
	_ = b.invInertiaLocal.GetInverse(expand3(&b.invInertiaLocal))
	b.refreshInertiaWorld()
}

func (b *RigidBody) refreshInertiaWorld() {

	rot := math32.NewMatrix3().SetFromQuaternion(&b.transform.Orientation)
	rotT := rot.Clone().Transpose()
	b.invInertiaWorld = *math32.NewMatrix3().MultiplyMatrices(rot, &b.invInertiaLocal)
	b.invInertiaWorld.MultiplyMatrices(&b.invInertiaWorld, rotT)
}

// expand3 promotes a Matrix3 into the Matrix4 math32's GetInverse
// expects - the same upstream quirk worked around in
// constraint/anchorpoint.go's expand().
func expand3(m *math32.Matrix3) *math32.Matrix4 {

	full := math32.NewMatrix4()
	full.Set(
		m[0], m[3], m[6], 0,
		m[1], m[4], m[7], 0,
		m[2], m[5], m[8], 0,
		0, 0, 0, 1,
	)
	return full
}

// --- constraint.Body ---

func (b *RigidBody) InvMass() float32                   { return b.invMass }
func (b *RigidBody) InvInertiaWorld() *math32.Matrix3    { return &b.invInertiaWorld }
func (b *RigidBody) Position() math32.Vector3            { return b.transform.Position }
func (b *RigidBody) Orientation() math32.Quaternion      { return b.transform.Orientation }
func (b *RigidBody) LinearVelocity() math32.Vector3      { return b.linearVelocity }
func (b *RigidBody) AngularVelocity() math32.Vector3     { return b.angularVelocity }

func (b *RigidBody) ApplyVelocityImpulse(deltaLinear, deltaAngular math32.Vector3) {

	b.linearVelocity.Add(&deltaLinear)
	b.angularVelocity.Add(&deltaAngular)
}

func (b *RigidBody) ApplyPositionCorrection(deltaPosition, deltaAngular math32.Vector3) {

	b.transform.Position.Add(&deltaPosition)
	rot := *math32.RotationQuaternionFromScaledAxis(&deltaAngular)
	b.transform.Orientation = *rot.MultiplyQuaternions(&rot, &b.transform.Orientation).Normalize()
	b.refreshInertiaWorld()
}

// Transform returns the body's current pose.
func (b *RigidBody) Transform() math32.Transform3D { return b.transform }

// PrevTransform returns the pose before the most recent Update, used by
// SubStep to interpolate toward the time of impact.
func (b *RigidBody) PrevTransform() math32.Transform3D { return b.prevTransform }

// SetTransform forcibly repositions the body (e.g. on creation), copying
// the new pose into both the current and previous slots.
func (b *RigidBody) SetTransform(t math32.Transform3D) {

	b.transform = t
	b.prevTransform = t
	b.refreshInertiaWorld()
}

// Displacement returns the position delta since the previous Update.
func (b *RigidBody) Displacement() math32.Vector3 {

	return *b.transform.Position.Clone().Sub(&b.prevTransform.Position)
}

func (b *RigidBody) IsActive() bool  { return b.flags&flagActive != 0 }
func (b *RigidBody) CanSleep() bool  { return b.flags&flagCanSleep != 0 }

// SetCanSleep toggles whether Update is allowed to deactivate this body
// (some bodies, e.g. a player-controlled one, never sleep).
func (b *RigidBody) SetCanSleep(v bool) {

	if v {
		b.flags |= flagCanSleep
	} else {
		b.flags &^= flagCanSleep
	}
}

// Activate wakes the body, resetting its motion metric to the
// just-woken floor so it cannot resleep on the very next step.
func (b *RigidBody) Activate() {

	if b.IsActive() {
		return
	}
	b.motion = b.settings.LeastMotion
	b.flags |= flagActive
}

// Deactivate puts the body to sleep: zeroes velocities and forces and
// clears the active flag.
func (b *RigidBody) Deactivate() {

	b.linearVelocity = math32.Vector3{}
	b.angularVelocity = math32.Vector3{}
	b.clearForces()
	b.flags &^= flagActive
}

// SetMotionToMax resets the EWMA sleep metric to its ceiling, used when
// a body joins an island with an already-awake member (the whole island
// must stay awake together, per spec.md §4.1's island-synchronized
// sleep rule).
func (b *RigidBody) SetMotionToMax() { b.motion = b.settings.MaxMotion }

func (b *RigidBody) clearForces() {

	b.forceAccumulated = math32.Vector3{}
	b.torqueAccumulated = math32.Vector3{}
	b.deltaPosition = math32.Vector3{}
	b.deltaOrientation = math32.Vector3{}
}

// AddForce accumulates a force applied at the center of mass and wakes
// the body.
func (b *RigidBody) AddForce(force math32.Vector3) {

	b.forceAccumulated.Add(&force)
	b.Activate()
}

// AddForceAtPoint accumulates a force applied at a world-space point,
// contributing the resulting torque, and wakes the body.
func (b *RigidBody) AddForceAtPoint(force, point math32.Vector3) {

	b.forceAccumulated.Add(&force)
	arm := *point.Clone().Sub(&b.transform.Position)
	torque := *arm.Clone().Cross(&force)
	b.torqueAccumulated.Add(&torque)
	b.Activate()
}

// UpdatePositionAndOrientation accumulates an extra position/orientation
// delta for this step (used by constraint position correction before
// Update commits the step), ported from
// RigidBody::updatePositionAndOrientaion.
func (b *RigidBody) UpdatePositionAndOrientation(deltaPos, deltaOrient math32.Vector3) {

	b.deltaPosition.Add(&deltaPos)
	b.deltaOrientation.Add(&deltaOrient)
}

// UpdateLinearAndAngularVelocity nudges both velocities directly (the
// velocity-space counterpart used by warm-starting and the solver).
func (b *RigidBody) UpdateLinearAndAngularVelocity(deltaLinVel, deltaAngVel math32.Vector3) {

	b.linearVelocity.Add(&deltaLinVel)
	b.angularVelocity.Add(&deltaAngVel)
}

// Update advances the body by deltaTime: integrates the accumulated
// position/orientation deltas into the transform, updates the EWMA sleep
// metric and deactivates the body if it has settled, then integrates
// gravity/applied force into velocity and applies damping. Ported
// verbatim (in control flow) from RigidBody::update.
func (b *RigidBody) Update(deltaTime float32) {

	dp := *b.linearVelocity.Clone().MultiplyScalar(deltaTime)
	b.deltaPosition.Add(&dp)
	da := *b.angularVelocity.Clone().MultiplyScalar(deltaTime)
	b.deltaOrientation.Add(&da)

	if b.CanSleep() {
		bias := pow32(0.5, deltaTime)
		sq := b.deltaPosition.LengthSq() + b.deltaOrientation.LengthSq()
		b.motion = bias*b.motion + (1-bias)*sq

		if b.motion < b.settings.SleepEpsilon {
			b.Deactivate()
			return
		}
		if b.motion > b.settings.MaxMotion {
			b.motion = b.settings.MaxMotion
		}
	}

	b.prevTransform = b.transform
	b.transform.Position.Add(&b.deltaPosition)
	rot := *math32.RotationQuaternionFromScaledAxis(&b.deltaOrientation)
	b.transform.Orientation = *rot.MultiplyQuaternions(&rot, &b.transform.Orientation).Normalize()
	b.refreshInertiaWorld()

	gravityAndForce := *b.settings.Gravity.Clone().Add(b.forceAccumulated.Clone().MultiplyScalar(b.invMass))
	gravityAndForce.MultiplyScalar(deltaTime)
	b.linearVelocity.Add(&gravityAndForce)

	angularDelta := *b.torqueAccumulated.Clone().ApplyMatrix3(&b.invInertiaWorld).MultiplyScalar(deltaTime)
	b.angularVelocity.Add(&angularDelta)

	b.linearVelocity.MultiplyScalar(pow32(b.settings.LinearDamping, deltaTime))
	b.angularVelocity.MultiplyScalar(pow32(b.settings.AngularDamping, deltaTime))

	b.clearForces()
}

// SubStep interpolates the body a fraction t of the way from its
// previous to its current transform, used by the time-of-impact bias
// pass (spec.md §9's CCD Open Question resolution: a sub-step bias, not
// a full continuous-collision pass). Ported from RigidBody::subStep.
func (b *RigidBody) SubStep(t float32) {

	b.transform = *math32.InterpolateTransforms(&b.prevTransform, &b.transform, t)
}

// pow32 is the per-step exponential damping factor base^exp, ported from
// the mathPOW calls in RigidBody::update (sleep-metric EWMA blending and
// linear/angular damping).
func pow32(base, exp float32) float32 {

	return float32(math.Pow(float64(base), float64(exp)))
}
