package physics

import (
	"github.com/kinetic3d/mechfizix/constraint"
	"github.com/kinetic3d/mechfizix/math32"
)

// contactEntry is one active contact manifold's constraint set: up to
// four per-point Contact constraints sharing the manifold's bodies.
type contactEntry struct {
	bodies     [2]constraint.Body
	manifoldID uint64
	points     []contactPoint
}

type contactPoint struct {
	constraint      constraint.Contact
	normal          math32.Vector3
	pointOnA        math32.Vector3
	pointOnB        math32.Vector3
	depth           float32
	closingVelocity float32
	cacheKey        uint64
}

// hingeEntry, coneEntry, motorEntry pair a joint with its resolved
// bodies for one step; World rebuilds these every Step from its
// persistent joint storage, re-resolving each endpoint so a removed body
// is caught before WarmStart runs - grounded on constraintSolver.h's
// per-constraint isValid() check.
type hingeEntry struct {
	joint  *constraint.Hinge
	bodies [2]constraint.Body
}

type coneEntry struct {
	joint  *constraint.Cone
	bodies [2]constraint.Body
}

type motorEntry struct {
	joint  *constraint.Motor
	bodies [2]constraint.Body
}

// solver runs the sequential-impulse iterations over every active
// contact and joint constraint, iteration order grounded verbatim on
// original_source/mech3D/constraintSolver.h::solve.
type solver struct {
	settings *ConstraintSettings

	contacts []*contactEntry
	hinges   []*hingeEntry
	cones    []*coneEntry
	motors   []*motorEntry
}

func newSolver(settings *ConstraintSettings) *solver {
	return &solver{settings: settings}
}

// resetAll clears every constraint list. World rebuilds the contact list
// from the narrow phase and the joint lists from its persistent joint
// storage at the start of every Step, since a joint's endpoint may have
// been removed between steps (resolved by World before re-adding it
// here).
func (s *solver) resetAll() {
	s.contacts = s.contacts[:0]
	s.hinges = s.hinges[:0]
	s.cones = s.cones[:0]
	s.motors = s.motors[:0]
}

func (s *solver) addContact(c *contactEntry) { s.contacts = append(s.contacts, c) }
func (s *solver) addHinge(h *hingeEntry)      { s.hinges = append(s.hinges, h) }
func (s *solver) addCone(c *coneEntry)        { s.cones = append(s.cones, c) }
func (s *solver) addMotor(m *motorEntry)      { s.motors = append(s.motors, m) }

// solve runs configurations.VelocityIterations Gauss-Seidel sweeps,
// warm-starting every constraint on the first iteration and running
// position correction on the trailing configurations.PositionIterations
// iterations - exactly constraintSolver.h::solve's loop shape.
func (s *solver) solve(deltaTime float32) {

	iterations := s.settings.VelocityIterations
	if iterations <= 0 {
		iterations = 1
	}

	for iteration := 0; iteration < iterations; iteration++ {
		firstIteration := iteration == 0
		solvePosition := iteration >= iterations-s.settings.PositionIterations

		for _, c := range s.contacts {
			for i := range c.points {
				p := &c.points[i]
				if firstIteration {
					p.constraint.WarmStart(c.bodies, p.normal, p.pointOnA, p.pointOnB, p.closingVelocity)
				}
				p.constraint.SolveVelocity(c.bodies)
				if solvePosition {
					p.constraint.SolvePosition(c.bodies, p.depth, s.settings.BaumgarteFactor, s.settings.LinearSlop)
				}
			}
		}

		for _, h := range s.hinges {
			if firstIteration {
				h.joint.WarmStart(h.bodies)
			}
			h.joint.Solve(h.bodies, s.settings.BaumgarteFactor, solvePosition)
		}

		for _, c := range s.cones {
			if firstIteration {
				c.joint.WarmStart(c.bodies)
			}
			c.joint.Solve(c.bodies, s.settings.BaumgarteFactor, solvePosition)
		}

		for _, m := range s.motors {
			if firstIteration {
				m.joint.WarmStart(m.bodies)
			}
			m.joint.Solve(m.bodies, deltaTime, s.settings.BaumgarteFactor, solvePosition)
		}
	}
}
