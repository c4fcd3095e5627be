// Package physics is the root orchestration layer: RigidBody integration,
// the collider table, and PhysicsWorld's per-step pipeline (broad phase,
// narrow phase, constraint solving, integration, sleep/islands, cache
// eviction). Grounded on original_source/mech3D/physicsWorld.h for the
// public surface and g3n-engine/experimental/physics/simulation.go for
// the Go per-step method shape (internalStep).
package physics

import (
	"math"

	"github.com/kinetic3d/mechfizix/broadphase"
	"github.com/kinetic3d/mechfizix/cache"
	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/constraint"
	"github.com/kinetic3d/mechfizix/core"
	"github.com/kinetic3d/mechfizix/island"
	"github.com/kinetic3d/mechfizix/math32"
	"github.com/kinetic3d/mechfizix/narrowphase"
	"github.com/kinetic3d/mechfizix/util/logger"
)

// Event names dispatched on World.Events, generalized from
// g3n-engine/experimental/physics/simulation.go's CollideEvent/
// BeginContactEvent to this engine's lifecycle.
const (
	EventSleep           = "physics.sleep"
	EventWake            = "physics.wake"
	EventCollisionBegin  = "physics.collision.begin"
	EventCollisionEnd    = "physics.collision.end"
)

// CollisionEvent is the payload dispatched with EventCollisionBegin/End.
type CollisionEvent struct {
	A, B collider.ID
}

// SleepEvent is the payload dispatched with EventSleep/EventWake.
type SleepEvent struct {
	Body collider.ID
}

// World is the public physics simulation surface - not safe for
// concurrent use without external synchronization; Step must run to
// completion before any other method is called from another goroutine,
// matching spec.md §5's single-threaded, cooperative-scheduling model.
type World struct {
	data     *data
	octree   *broadphase.Octree
	solver   *solver
	islands  *island.Manager
	settings Settings

	contactImpulseCache *cache.Manager[uint64, [3]float32]
	hullCache            *cache.Manager[uint64, *narrowphase.HullVsHullCache]
	finishedCollisions   *cache.Manager[uint64, narrowphase.Flag]

	hinges []*worldHinge
	cones  []*worldCone
	motors []*worldMotor

	activeCollisions map[uint64]bool

	Events *core.Dispatcher
	log    *logger.Logger
}

type worldHinge struct {
	joint     *constraint.Hinge
	endpoints [2]collider.ID
}

type worldCone struct {
	joint     *constraint.Cone
	endpoints [2]collider.ID
}

type worldMotor struct {
	joint     *constraint.Motor
	endpoints [2]collider.ID
}

// NewWorld returns an empty world using settings for every tunable, with
// the broad-phase octree spanning bound subdivided depth levels deep.
func NewWorld(settings Settings, bound math32.Box3, depth int) *World {

	w := &World{
		data:     newData(),
		octree:   &broadphase.Octree{},
		settings: settings,
		islands:  island.NewManager(),
		log:              logger.New("PHYSICS", nil),
		Events:           core.NewDispatcher(),
		activeCollisions: map[uint64]bool{},
	}
	w.solver = newSolver(&w.settings.Constraint)
	w.octree.Initialise(bound, depth)
	w.contactImpulseCache = cache.NewManager[uint64, [3]float32](settings.FramesToRetainCache)
	w.hullCache = cache.NewManager[uint64, *narrowphase.HullVsHullCache](settings.FramesToRetainCache)
	w.finishedCollisions = cache.NewManager[uint64, narrowphase.Flag](settings.FramesToRetainCache)
	w.log.AddWriter(logger.NewConsole(true))
	return w
}

// AddDynamic inserts a movable collider with mass/inertia derived from
// shape and material.Density, returning its stable handle.
func (w *World) AddDynamic(shape collider.Shape, material collider.Material, pose math32.Transform3D) collider.ID {

	mass, inertia := massProperties(shape, material.Density)
	body := NewRigidBody(pose, mass, inertia, &w.settings.RigidBody)

	id := w.data.alloc(object{
		body:     body,
		shape:    shape,
		material: material,
		kind:     shape.Kind(),
		motion:   collider.Dynamic,
	})
	body.SetColliderID(id.Slot())
	w.octree.Add(id.Slot(), false, worldAABB(shape, pose))
	return id
}

// AddStatic inserts an immovable collider at a fixed pose.
func (w *World) AddStatic(shape collider.Shape, material collider.Material, pose math32.Transform3D) collider.ID {

	id := w.data.alloc(object{
		staticTransform: pose,
		shape:           shape,
		material:        material,
		kind:            shape.Kind(),
		motion:          collider.Static,
	})
	w.octree.Add(id.Slot(), true, worldAABB(shape, pose))
	return id
}

// Remove erases a collider (and, if dynamic, its body) from the world.
func (w *World) Remove(id collider.ID) {

	obj, ok := w.data.get(id)
	if !ok {
		return
	}
	w.octree.Remove(id.Slot(), obj.motion == collider.Static)
	w.data.free(id)
}

// GetRigidBody returns the dynamic body behind id, or (nil, false) for a
// static or unknown/stale handle.
func (w *World) GetRigidBody(id collider.ID) (*RigidBody, bool) {

	obj, ok := w.data.get(id)
	if !ok || obj.body == nil {
		return nil, false
	}
	return obj.body, true
}

func (w *World) resolveBody(id collider.ID) (constraint.Body, bool) {

	if id == collider.Invalid {
		return nil, true
	}
	obj, ok := w.data.get(id)
	if !ok {
		return nil, false
	}
	if obj.body == nil {
		return nil, true
	}
	return obj.body, true
}

// HingeParameters mirrors HingeConstraint::Parameters: the two collider
// endpoints (collider.Invalid for "the world"), their local anchor
// points and orientations, and the two perpendicular hinge axes.
type HingeParameters struct {
	ObjectA, ObjectB     collider.ID
	LocalAnchorA, LocalAnchorB math32.Vector3
	OrientA, OrientB     math32.Quaternion
	HingeAxis1, HingeAxis2 math32.Vector3
	DisableCollisions    bool
}

// AddHinge installs a hinge joint, optionally disabling collision
// between its two endpoints, per constraintSolver.h::add(HingeConstraint
// ::Parameters).
func (w *World) AddHinge(p HingeParameters) {

	if p.DisableCollisions {
		w.disableCollisionPair(p.ObjectA, p.ObjectB)
	}
	joint := &constraint.Hinge{DisableCollisions: p.DisableCollisions}
	bodies, _ := w.resolvePair(p.ObjectA, p.ObjectB)
	joint.Initialise(bodies, [2]math32.Vector3{p.LocalAnchorA, p.LocalAnchorB}, [2]math32.Quaternion{p.OrientA, p.OrientB}, p.HingeAxis1, p.HingeAxis2)
	w.hinges = append(w.hinges, &worldHinge{joint: joint, endpoints: [2]collider.ID{p.ObjectA, p.ObjectB}})
}

// ConeParameters mirrors ConeConstraint::Parameters.
type ConeParameters struct {
	ObjectA, ObjectB           collider.ID
	LocalAnchorA, LocalAnchorB math32.Vector3
	OrientA, OrientB           math32.Quaternion
	LocalTwistA, LocalTwistB   math32.Vector3
	HalfConeAngle              float32
	DisableCollisions          bool
}

// AddCone installs a cone-limit joint.
func (w *World) AddCone(p ConeParameters) {

	if p.DisableCollisions {
		w.disableCollisionPair(p.ObjectA, p.ObjectB)
	}
	joint := &constraint.Cone{
		CosHalfConeAngle: cos32(p.HalfConeAngle),
		LocalTwist:       [2]math32.Vector3{p.LocalTwistA, p.LocalTwistB},
	}
	bodies, _ := w.resolvePair(p.ObjectA, p.ObjectB)
	joint.Initialise(bodies, [2]math32.Vector3{p.LocalAnchorA, p.LocalAnchorB}, [2]math32.Quaternion{p.OrientA, p.OrientB})
	w.cones = append(w.cones, &worldCone{joint: joint, endpoints: [2]collider.ID{p.ObjectA, p.ObjectB}})
}

// MotorParameters mirrors MotorConstraint::Parameters.
type MotorParameters struct {
	ObjectA, ObjectB           collider.ID
	LocalAnchorA, LocalAnchorB math32.Vector3
	OrientA, OrientB           math32.Quaternion
	HingeAxisWorld             math32.Vector3
	TargetAngularVelocity      float32
	MinTorque, MaxTorque       float32
	DisableCollisions          bool
}

// AddMotor installs a powered hinge (anchor point + alignment axis +
// driven angular velocity).
func (w *World) AddMotor(p MotorParameters) {

	if p.DisableCollisions {
		w.disableCollisionPair(p.ObjectA, p.ObjectB)
	}
	joint := &constraint.Motor{
		TargetAngularVelocity: p.TargetAngularVelocity,
		MinTorque:             p.MinTorque,
		MaxTorque:             p.MaxTorque,
		HingeAxisWorld:        p.HingeAxisWorld,
	}
	bodies, _ := w.resolvePair(p.ObjectA, p.ObjectB)
	joint.Initialise(bodies, [2]math32.Vector3{p.LocalAnchorA, p.LocalAnchorB}, [2]math32.Quaternion{p.OrientA, p.OrientB})
	w.motors = append(w.motors, &worldMotor{joint: joint, endpoints: [2]collider.ID{p.ObjectA, p.ObjectB}})
}

func (w *World) resolvePair(a, b collider.ID) ([2]constraint.Body, bool) {

	bodyA, okA := w.resolveBody(a)
	bodyB, okB := w.resolveBody(b)
	return [2]constraint.Body{bodyA, bodyB}, okA && okB
}

func (w *World) disableCollisionPair(a, b collider.ID) {

	if oa, ok := w.data.get(a); ok {
		oa.disableCollision(b.Slot())
	}
	if ob, ok := w.data.get(b); ok {
		ob.disableCollision(a.Slot())
	}
}

func cos32(radians float32) float32 {

	return float32(math.Cos(float64(radians)))
}
