package physics

import (
	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/math32"
)

// object is the per-collider bookkeeping row tying a RigidBody to its
// disabled-collision list, grounded on
// original_source/physics/physicsObject.h/.cpp's PhysicsObject
// (island membership itself lives in island.Manager, keyed by slot,
// rather than as a field here, since islands are recomputed every step -
// see island/island.go). Static colliders have a nil body.
type object struct {
	body            *RigidBody
	staticTransform math32.Transform3D // valid only when body == nil
	shape           collider.Shape
	material        collider.Material
	kind            collider.Kind
	motion          collider.MotionState
	disabledCollisions map[uint32]bool
	generation         uint8
}

// pose returns o's current world transform: the body's transform for a
// dynamic object, or its fixed pose for a static one.
func (o *object) pose() math32.Transform3D {

	if o.body != nil {
		return o.body.Transform()
	}
	return o.staticTransform
}

// disableCollision marks other as a collider this object should never
// generate contacts against (used for bodies connected by a joint),
// ported from PhysicsObject::diableCollision.
func (o *object) disableCollision(other uint32) {

	if o.disabledCollisions == nil {
		o.disabledCollisions = map[uint32]bool{}
	}
	o.disabledCollisions[other] = true
}

func (o *object) collisionDisabledWith(other uint32) bool {

	return o.disabledCollisions != nil && o.disabledCollisions[other]
}

// data is the slot-indexed table of every live collider, grounded on
// original_source/mech3D/physicsData.h's PhysicsData. Unlike the
// reference implementation's four separate per-kind RigidArrays, every
// collider (of any shape kind) occupies one slot in a single table - a
// scope simplification since Go's collider.Shape interface already
// erases the per-kind storage distinction the C++ union/RigidArray split
// existed to provide; recorded in DESIGN.md.
type data struct {
	objects   []object
	slotInUse []bool
	freeSlots []uint32
}

func newData() *data { return &data{} }

// alloc reserves a slot (reusing a freed one if available) and returns
// its ColliderID, generation-stamped per DESIGN.md's generational-handle
// Open Question resolution.
func (d *data) alloc(o object) collider.ID {

	if n := len(d.freeSlots); n > 0 {
		slot := d.freeSlots[n-1]
		d.freeSlots = d.freeSlots[:n-1]
		o.generation = d.objects[slot].generation
		d.objects[slot] = o
		d.slotInUse[slot] = true
		return collider.NewID(slot, o.generation)
	}

	slot := uint32(len(d.objects))
	o.generation = 0
	d.objects = append(d.objects, o)
	d.slotInUse = append(d.slotInUse, true)
	return collider.NewID(slot, 0)
}

// free releases id's slot, bumping its generation so any stale ID
// referencing this slot is rejected by get/resolve.
func (d *data) free(id collider.ID) {

	slot := id.Slot()
	if int(slot) >= len(d.objects) || !d.slotInUse[slot] {
		return
	}
	d.slotInUse[slot] = false
	d.objects[slot].generation++
	d.objects[slot].body = nil
	d.objects[slot].shape = nil
	d.freeSlots = append(d.freeSlots, slot)
}

// get resolves id to its object row, rejecting stale or out-of-range
// handles.
func (d *data) get(id collider.ID) (*object, bool) {

	slot := id.Slot()
	if int(slot) >= len(d.objects) || !d.slotInUse[slot] {
		return nil, false
	}
	if d.objects[slot].generation != id.Generation() {
		return nil, false
	}
	return &d.objects[slot], true
}

// worldAABB returns shape's AABB transformed into world space by
// conservatively enclosing its local AABB's eight corners - the minimal
// AABB helper SPEC_FULL.md §3 carves out of the geometry-library
// Non-goal for the octree's sole consumption.
func worldAABB(shape collider.Shape, pose math32.Transform3D) math32.Box3 {

	local := shape.LocalAABB()
	corners := [8]math32.Vector3{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	points := make([]math32.Vector3, 8)
	for i := range corners {
		points[i] = *pose.TransformPoint(&corners[i])
	}
	box := math32.NewBox3(&points[0], &points[0])
	box.SetFromPoints(points)
	return *box
}

