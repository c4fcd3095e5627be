package physics

import (
	"github.com/kinetic3d/mechfizix/broadphase"
	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/constraint"
	"github.com/kinetic3d/mechfizix/math32"
	"github.com/kinetic3d/mechfizix/narrowphase"
)

// Step advances the simulation by deltaTime, running the full per-step
// pipeline named in spec.md §1: broad phase, narrow phase, constraint
// solving, position/velocity integration, sleep/island bookkeeping, and
// cache eviction. A non-positive deltaTime is a silent no-op, per
// spec.md §7 (use ValidateTimeStep at the call site to surface the
// error instead).
func (w *World) Step(deltaTime float32) {

	if deltaTime <= 0 {
		return
	}

	w.applyTimeOfImpactBias()
	w.repositionActive()
	pairs := w.octree.Pairs()

	w.solver.resetAll()
	w.islands.Reset()

	touched := w.generateContacts(pairs)
	w.rebuildJoints()
	w.syncIslandWakefulness()

	w.solver.solve(deltaTime)

	w.writeBackImpulses()
	w.integrateBodies(deltaTime)
	w.dispatchCollisionTransitions(touched)

	w.contactImpulseCache.Tick()
	w.hullCache.Tick()
	w.finishedCollisions.Tick()
}

// repositionActive refreshes the broad-phase AABB of every awake dynamic
// collider before pair enumeration.
func (w *World) repositionActive() {

	for slot := range w.data.objects {
		obj := &w.data.objects[slot]
		if !w.data.slotInUse[slot] || obj.body == nil || !obj.body.IsActive() {
			continue
		}
		w.octree.RepositionCollider(uint32(slot), worldAABB(obj.shape, obj.body.Transform()))
	}
}

// applyTimeOfImpactBias is the spec's only concession to continuous
// collision detection: a body whose last integration moved it further
// than MinimalDisplacement is swept against every other collider it
// passed through; on the first sub-step where the narrow phase reports
// an overlap, the body is snapped back to that interpolated pose via
// SubStep, so the ordinary pipeline below sees it already touching
// rather than having passed cleanly through. Ported from the intent of
// original_source/mech3D/rigidBody.cpp's subStep, with the search loop
// itself grounded on spec.md's "first-contact bias" resolution of its
// CCD Open Question (no full sweep, no rewound velocities).
func (w *World) applyTimeOfImpactBias() {

	bias := w.settings.TimeOfImpactBias
	if bias <= 0 {
		return
	}

	for slot := range w.data.objects {
		obj := &w.data.objects[slot]
		if !w.data.slotInUse[slot] || obj.body == nil || !obj.body.IsActive() {
			continue
		}
		prev := obj.body.PrevTransform()
		cur := obj.body.Transform()
		displacement := *cur.Position.Clone().Sub(&prev.Position)
		if displacement.LengthSq() < w.settings.MinimalDisplacement*w.settings.MinimalDisplacement {
			continue
		}

		swept := worldAABB(obj.shape, prev)
		endBox := worldAABB(obj.shape, cur)
		swept.Union(&endBox)

		for other := range w.data.objects {
			if other == slot || !w.data.slotInUse[other] {
				continue
			}
			candidate := &w.data.objects[other]
			if obj.collisionDisabledWith(uint32(other)) || candidate.collisionDisabledWith(uint32(slot)) {
				continue
			}
			candidateBox := worldAABB(candidate.shape, candidate.pose())
			if !swept.IsIntersectionBox(&candidateBox) {
				continue
			}

			if t, ok := w.firstContactFraction(obj, candidate, prev, cur, bias); ok {
				obj.body.SubStep(t)
				break
			}
		}
	}
}

// firstContactFraction walks t from bias up to 1 in increments of bias,
// interpolating body's pose between prev and cur, and returns the first
// fraction at which the narrow phase reports an overlap against
// candidate's current pose.
func (w *World) firstContactFraction(body, candidate *object, prev, cur math32.Transform3D, bias float32) (float32, bool) {

	candidatePose := candidate.pose()
	for t := bias; t <= 1.0; t += bias {
		pose := *math32.InterpolateTransforms(&prev, &cur, t)
		if _, ok := narrowphase.Generate(0, body.shape, pose, body.material, 1, candidate.shape, candidatePose, candidate.material, nil); ok {
			return t, true
		}
	}
	return 0, false
}

func cacheKey(manifoldID, pointID uint64) uint64 {

	return manifoldID*1000003 + pointID
}

// generateContacts runs the narrow phase over every broad-phase
// candidate pair, skipping disabled-collision and fully-asleep pairs,
// and feeds the resulting manifolds into the solver with warm-started
// impulses pulled from the contact-impulse cache. Returns the set of
// manifold ids that produced a live manifold this step, used to detect
// collision-end transitions.
func (w *World) generateContacts(pairs []broadphase.Pair) map[uint64]bool {

	touched := map[uint64]bool{}

	for _, pr := range pairs {
		oa, okA := w.data.get(collider.NewID(pr.A, w.data.objects[pr.A].generation))
		ob, okB := w.data.get(collider.NewID(pr.B, w.data.objects[pr.B].generation))
		if !okA || !okB {
			continue
		}
		if oa.motion == collider.Static && ob.motion == collider.Static {
			continue
		}
		if oa.collisionDisabledWith(pr.B) || ob.collisionDisabledWith(pr.A) {
			continue
		}
		awakeA := oa.body != nil && oa.body.IsActive()
		awakeB := ob.body != nil && ob.body.IsActive()
		if !awakeA && !awakeB {
			continue
		}

		manifoldID := narrowphase.PairHash(pr.A, pr.B)
		hullEntry, found := w.hullCache.Get(manifoldID)
		if !found {
			hullEntry = &narrowphase.HullVsHullCache{}
		}

		poseA, poseB := oa.pose(), ob.pose()
		m, ok := narrowphase.Generate(pr.A, oa.shape, poseA, oa.material, pr.B, ob.shape, poseB, ob.material, hullEntry)
		if !ok || len(m.Points) == 0 {
			continue
		}
		w.hullCache.Touch(manifoldID, hullEntry)
		w.finishedCollisions.Touch(manifoldID, m.Flag)
		touched[manifoldID] = true

		if oa.body != nil && ob.body != nil {
			w.islands.Link(pr.A, pr.B)
		}

		bodies := [2]constraint.Body{bodyOf(oa), bodyOf(ob)}
		friction := collider.CombinedFriction(oa.material, ob.material)
		restitution := collider.CombinedRestitution(oa.material, ob.material)

		entry := &contactEntry{bodies: bodies, manifoldID: manifoldID}
		for _, pt := range m.Points {
			key := cacheKey(manifoldID, pt.ID)
			c := constraint.Contact{
				Friction:                  friction,
				Restitution:               restitution,
				MinVelocityForRestitution: w.settings.Constraint.MinVelocityForRestitution,
			}
			if impulses, ok := w.contactImpulseCache.Get(key); ok {
				c.SetAccumulatedImpulses(impulses[0], impulses[1], impulses[2])
			}
			entry.points = append(entry.points, contactPoint{
				constraint:      c,
				normal:          pt.NormalFromAToB,
				pointOnA:        pt.PositionOnA,
				pointOnB:        pt.PositionOnB,
				depth:           pt.Depth,
				closingVelocity: closingVelocity(bodies, pt),
				cacheKey:        key,
			})
		}
		w.solver.addContact(entry)
	}

	return touched
}

func bodyOf(o *object) constraint.Body {

	if o.body == nil {
		return nil
	}
	return o.body
}

// closingVelocity is the relative velocity of the two bodies at the
// contact point, projected onto the contact normal (negative means
// approaching), used to seed the restitution bias on warm start.
func closingVelocity(bodies [2]constraint.Body, pt narrowphase.Point) float32 {

	var vA, vB math32.Vector3
	if bodies[0] != nil {
		pos := bodies[0].Position()
		ang := bodies[0].AngularVelocity()
		lin := bodies[0].LinearVelocity()
		rA := *pt.PositionOnA.Clone().Sub(&pos)
		vA = *lin.Clone().Add(ang.Clone().Cross(&rA))
	}
	if bodies[1] != nil {
		pos := bodies[1].Position()
		ang := bodies[1].AngularVelocity()
		lin := bodies[1].LinearVelocity()
		rB := *pt.PositionOnB.Clone().Sub(&pos)
		vB = *lin.Clone().Add(ang.Clone().Cross(&rB))
	}
	rel := *vB.Clone().Sub(&vA)
	return rel.Dot(&pt.NormalFromAToB)
}

// rebuildJoints re-resolves every persistent joint's endpoints and hands
// the live ones to the solver, dropping any joint whose endpoint was
// removed since the previous step.
func (w *World) rebuildJoints() {

	liveHinges := w.hinges[:0]
	for _, h := range w.hinges {
		bodies, ok := w.resolvePair(h.endpoints[0], h.endpoints[1])
		if !h.joint.Validate(bodies, !ok) {
			continue
		}
		liveHinges = append(liveHinges, h)
		w.solver.addHinge(&hingeEntry{joint: h.joint, bodies: bodies})
		if bodies[0] != nil && bodies[1] != nil {
			w.islands.Link(h.endpoints[0].Slot(), h.endpoints[1].Slot())
		}
	}
	w.hinges = liveHinges

	liveCones := w.cones[:0]
	for _, c := range w.cones {
		bodies, ok := w.resolvePair(c.endpoints[0], c.endpoints[1])
		if !ok {
			continue
		}
		liveCones = append(liveCones, c)
		w.solver.addCone(&coneEntry{joint: c.joint, bodies: bodies})
		if bodies[0] != nil && bodies[1] != nil {
			w.islands.Link(c.endpoints[0].Slot(), c.endpoints[1].Slot())
		}
	}
	w.cones = liveCones

	liveMotors := w.motors[:0]
	for _, m := range w.motors {
		bodies, ok := w.resolvePair(m.endpoints[0], m.endpoints[1])
		if !ok {
			continue
		}
		liveMotors = append(liveMotors, m)
		w.solver.addMotor(&motorEntry{joint: m.joint, bodies: bodies})
		if bodies[0] != nil && bodies[1] != nil {
			w.islands.Link(m.endpoints[0].Slot(), m.endpoints[1].Slot())
		}
	}
	w.motors = liveMotors
}

// syncIslandWakefulness wakes every member of an island the moment any
// one member is active, so a stack of resting bodies cannot partially
// sleep out from under an active neighbor (spec.md §4.1's
// island-synchronized sleep rule).
func (w *World) syncIslandWakefulness() {

	for _, isl := range w.islands.Islands() {
		anyActive := false
		for _, slot := range isl.Members() {
			if obj := w.objectAt(slot); obj != nil && obj.body != nil && obj.body.IsActive() {
				anyActive = true
				break
			}
		}
		if !anyActive {
			continue
		}
		for _, slot := range isl.Members() {
			obj := w.objectAt(slot)
			if obj == nil || obj.body == nil || obj.body.IsActive() {
				continue
			}
			obj.body.Activate()
			obj.body.SetMotionToMax()
			w.Events.Dispatch(EventWake, SleepEvent{Body: collider.NewID(slot, obj.generation)})
		}
	}
}

func (w *World) objectAt(slot uint32) *object {

	if int(slot) >= len(w.data.objects) || !w.data.slotInUse[slot] {
		return nil
	}
	return &w.data.objects[slot]
}

// writeBackImpulses stores each contact point's post-solve accumulated
// impulses into the impulse cache for next step's warm start.
func (w *World) writeBackImpulses() {

	for _, c := range w.solver.contacts {
		for _, pt := range c.points {
			n, t1, t2 := pt.constraint.AccumulatedImpulses()
			w.contactImpulseCache.Touch(pt.cacheKey, [3]float32{n, t1, t2})
		}
	}
}

// integrateBodies advances every dynamic body's position/velocity and
// dispatches sleep transitions.
func (w *World) integrateBodies(deltaTime float32) {

	for slot := range w.data.objects {
		obj := &w.data.objects[slot]
		if !w.data.slotInUse[slot] || obj.body == nil {
			continue
		}
		wasActive := obj.body.IsActive()
		obj.body.Update(deltaTime)
		if wasActive && !obj.body.IsActive() {
			w.Events.Dispatch(EventSleep, SleepEvent{Body: collider.NewID(uint32(slot), obj.generation)})
		}
	}
}

// dispatchCollisionTransitions emits EventCollisionBegin for manifolds
// touched this step that were not active last step, and
// EventCollisionEnd for manifolds active last step but not touched this
// step - the Go counterpart of Simulation's CollideEvent/
// BeginContactEvent dispatch.
func (w *World) dispatchCollisionTransitions(touched map[uint64]bool) {

	for id := range touched {
		if !w.activeCollisions[id] {
			w.Events.Dispatch(EventCollisionBegin, w.collisionEventFor(id))
		}
	}
	for id := range w.activeCollisions {
		if !touched[id] {
			w.Events.Dispatch(EventCollisionEnd, w.collisionEventFor(id))
		}
	}
	w.activeCollisions = touched
}

// collisionEventFor unpacks a PairHash-encoded manifold id back into the
// pair of live collider handles, generation-stamped from the current
// slot table (the slots named by a manifold id are always in use while
// the manifold is tracked, since it is sourced from a live broad-phase
// pair).
func (w *World) collisionEventFor(manifoldID uint64) CollisionEvent {

	slotA := uint32(manifoldID >> 32)
	slotB := uint32(manifoldID)
	return CollisionEvent{
		A: collider.NewID(slotA, w.data.objects[slotA].generation),
		B: collider.NewID(slotB, w.data.objects[slotB].generation),
	}
}
