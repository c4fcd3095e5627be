package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/math32"
)

func testWorld() *World {

	bound := box3(-50, -50, -50, 50, 50, 50)
	return NewWorld(DefaultSettings(), bound, 4)
}

func box3(minX, minY, minZ, maxX, maxY, maxZ float32) math32.Box3 {

	return *math32.NewBox3(math32.NewVector3(minX, minY, minZ), math32.NewVector3(maxX, maxY, maxZ))
}

func identity(pos math32.Vector3) math32.Transform3D {

	return math32.Transform3D{Position: pos, Orientation: math32.Quaternion{W: 1}}
}

// S1: a sphere dropped above a static ground plane comes to rest on it.
func TestSphereDrop(t *testing.T) {

	w := testWorld()
	ground := collider.NewBoxHull(math32.Vector3{X: 25, Y: 0.5, Z: 25})
	w.AddStatic(ground, collider.Ground, identity(math32.Vector3{Y: -0.5}))

	sphere := &collider.Sphere{Radius: 0.5}
	id := w.AddDynamic(sphere, collider.Rubber, identity(math32.Vector3{Y: 5}))

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}

	body, ok := w.GetRigidBody(id)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, body.Transform().Position.Y, 0.1, "sphere should settle on top of the ground plane")
}

// S2: a short stack of boxes stays upright and doesn't interpenetrate.
func TestBoxStack(t *testing.T) {

	w := testWorld()
	ground := collider.NewBoxHull(math32.Vector3{X: 25, Y: 0.5, Z: 25})
	w.AddStatic(ground, collider.Ground, identity(math32.Vector3{Y: -0.5}))

	box := collider.NewBoxHull(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5})
	lower := w.AddDynamic(box, collider.Concrete, identity(math32.Vector3{Y: 0.5}))
	upper := w.AddDynamic(box, collider.Concrete, identity(math32.Vector3{Y: 1.51}))

	for i := 0; i < 300; i++ {
		w.Step(1.0 / 60.0)
	}

	lowerBody, _ := w.GetRigidBody(lower)
	upperBody, _ := w.GetRigidBody(upper)

	assert.InDelta(t, 0.5, lowerBody.Transform().Position.Y, 0.1)
	assert.Greater(t, upperBody.Transform().Position.Y, lowerBody.Transform().Position.Y+0.9, "upper box must not have sunk through the lower one")
}

// S3: a hinged door swings from gravity about a fixed world anchor.
func TestHingeDoor(t *testing.T) {

	w := testWorld()
	panel := collider.NewBoxHull(math32.Vector3{X: 1, Y: 1, Z: 0.05})
	id := w.AddDynamic(panel, collider.Plastic, identity(math32.Vector3{X: 1, Y: 2}))

	w.AddHinge(HingeParameters{
		ObjectA:      collider.Invalid,
		ObjectB:      id,
		LocalAnchorA: math32.Vector3{},
		LocalAnchorB: math32.Vector3{X: -1},
		OrientA:      math32.Quaternion{W: 1},
		OrientB:      math32.Quaternion{W: 1},
		HingeAxis1:   math32.Vector3{Z: 1},
		HingeAxis2:   math32.Vector3{Y: 1},
	})

	initial, _ := w.GetRigidBody(id)
	initialPos := initial.Transform().Position

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60.0)
	}

	body, _ := w.GetRigidBody(id)
	moved := *body.Transform().Position.Clone().Sub(&initialPos)
	assert.Greater(t, moved.LengthSq(), float32(0.01), "the door should have swung under gravity")
}

// S4: a motor spins its panel toward the commanded angular velocity.
func TestMotorSpin(t *testing.T) {

	w := testWorld()
	panel := collider.NewBoxHull(math32.Vector3{X: 1, Y: 0.05, Z: 1})
	id := w.AddDynamic(panel, collider.Plastic, identity(math32.Vector3{Y: 2}))

	w.AddMotor(MotorParameters{
		ObjectA:               collider.Invalid,
		ObjectB:               id,
		LocalAnchorA:          math32.Vector3{Y: 2},
		LocalAnchorB:          math32.Vector3{},
		OrientA:               math32.Quaternion{W: 1},
		OrientB:               math32.Quaternion{W: 1},
		HingeAxisWorld:        math32.Vector3{Y: 1},
		TargetAngularVelocity: 2,
		MinTorque:             -50,
		MaxTorque:             50,
	})

	for i := 0; i < 180; i++ {
		w.Step(1.0 / 60.0)
	}

	body, _ := w.GetRigidBody(id)
	axis := math32.Vector3{Y: 1}
	spin := body.AngularVelocity().Dot(&axis)
	assert.InDelta(t, 2, spin, 0.75, "motor should drive the panel toward its target angular velocity")
}

// S5: a sphere falling fast enough to cross its own radius in a single
// step must not end up below the static plane it lands on.
func TestTunnelingGuard(t *testing.T) {

	w := testWorld()
	plane := collider.NewBoxHull(math32.Vector3{X: 25, Y: 0.5, Z: 25})
	w.AddStatic(plane, collider.Ground, identity(math32.Vector3{Y: -0.5}))

	sphere := &collider.Sphere{Radius: 0.1}
	id := w.AddDynamic(sphere, collider.Iron, identity(math32.Vector3{Y: 2}))
	body, _ := w.GetRigidBody(id)
	body.UpdateLinearAndAngularVelocity(math32.Vector3{Y: -50}, math32.Vector3{})

	for i := 0; i < 30; i++ {
		w.Step(1.0 / 60.0)
	}

	finalBody, _ := w.GetRigidBody(id)
	assert.GreaterOrEqual(t, finalBody.Transform().Position.Y, -w.settings.Constraint.LinearSlop, "the sphere must not end up below the plane it landed on")
}

// S6: a cone joint limits how far a swinging limb can deviate from its
// reference twist axis.
func TestConeLimit(t *testing.T) {

	w := testWorld()
	limb := collider.NewBoxHull(math32.Vector3{X: 0.2, Y: 1, Z: 0.2})
	id := w.AddDynamic(limb, collider.Plastic, identity(math32.Vector3{Y: 2, X: 1}))

	w.AddCone(ConeParameters{
		ObjectA:       collider.Invalid,
		ObjectB:       id,
		LocalAnchorA:  math32.Vector3{Y: 2},
		LocalAnchorB:  math32.Vector3{Y: 1},
		OrientA:       math32.Quaternion{W: 1},
		OrientB:       math32.Quaternion{W: 1},
		LocalTwistA:   math32.Vector3{Y: -1},
		LocalTwistB:   math32.Vector3{Y: 1},
		HalfConeAngle: 0.5,
	})

	for i := 0; i < 180; i++ {
		w.Step(1.0 / 60.0)
	}

	body, _ := w.GetRigidBody(id)
	twist := math32.Vector3{Y: 1}
	worldTwist := *twist.Clone().ApplyQuaternion(&body.Transform().Orientation)
	reference := math32.Vector3{Y: -1}
	cosAngle := worldTwist.Dot(&reference)
	assert.GreaterOrEqual(t, cosAngle, float32(0.4), "cone limit should keep the limb's twist axis within roughly its half-angle of the reference")
}
