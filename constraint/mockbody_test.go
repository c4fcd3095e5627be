package constraint

import "github.com/kinetic3d/mechfizix/math32"

// mockBody is a minimal Body implementation for exercising the
// constraint primitives without depending on physics.RigidBody.
type mockBody struct {
	invMass         float32
	invInertia      math32.Matrix3
	position        math32.Vector3
	orientation     math32.Quaternion
	linearVelocity  math32.Vector3
	angularVelocity math32.Vector3
}

func newMockBody(mass float32, position math32.Vector3) *mockBody {

	inv := float32(0)
	if mass > 0 {
		inv = 1.0 / mass
	}
	var inertia math32.Matrix3
	inertia.Set(inv, 0, 0, 0, inv, 0, 0, 0, inv)
	return &mockBody{
		invMass:     inv,
		invInertia:  inertia,
		position:    position,
		orientation: math32.Quaternion{W: 1},
	}
}

func (b *mockBody) InvMass() float32                { return b.invMass }
func (b *mockBody) InvInertiaWorld() *math32.Matrix3 { return &b.invInertia }
func (b *mockBody) Position() math32.Vector3         { return b.position }
func (b *mockBody) Orientation() math32.Quaternion   { return b.orientation }
func (b *mockBody) LinearVelocity() math32.Vector3   { return b.linearVelocity }
func (b *mockBody) AngularVelocity() math32.Vector3  { return b.angularVelocity }

func (b *mockBody) ApplyVelocityImpulse(deltaLinear, deltaAngular math32.Vector3) {

	b.linearVelocity.Add(&deltaLinear)
	b.angularVelocity.Add(&deltaAngular)
}

func (b *mockBody) ApplyPositionCorrection(deltaPosition, deltaAngular math32.Vector3) {

	b.position.Add(&deltaPosition)
}
