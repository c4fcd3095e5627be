package physics

import (
	"errors"

	"github.com/kinetic3d/mechfizix/math32"
)

// RigidBodySettings are the global per-body integrator tunables, ported
// from original_source/physics/rigidBody.h's RigidBodySettings.
type RigidBodySettings struct {
	Gravity        math32.Vector3
	LinearDamping  float32
	AngularDamping float32
	SleepEpsilon   float32
	MaxMotion      float32
	LeastMotion    float32
}

// DefaultRigidBodySettings mirrors the reference implementation's
// defaults.
func DefaultRigidBodySettings() RigidBodySettings {

	sleepEpsilon := float32(0.00001)
	return RigidBodySettings{
		Gravity:        math32.Vector3{X: 0, Y: -9.8, Z: 0},
		LinearDamping:  0.5,
		AngularDamping: 0.5,
		SleepEpsilon:   sleepEpsilon,
		MaxMotion:      sleepEpsilon * 10,
		LeastMotion:    sleepEpsilon * 1.2,
	}
}

// ConstraintSettings are the constraint solver's tunables, ported from
// original_source/physics/constraints/constraintSolver.h's
// ConstraintConfigurations.
type ConstraintSettings struct {
	VelocityIterations        int
	PositionIterations        int
	BaumgarteFactor           float32
	LinearSlop                float32
	MinVelocityForRestitution float32
}

// DefaultConstraintSettings mirrors the reference implementation's
// defaults.
func DefaultConstraintSettings() ConstraintSettings {

	return ConstraintSettings{
		VelocityIterations:        8,
		PositionIterations:        3,
		BaumgarteFactor:           0.2,
		LinearSlop:                0.005,
		MinVelocityForRestitution: 1.0,
	}
}

// Settings bundles every tunable PhysicsWorld needs, grounded on
// original_source/mech3D/physicsData.h's PhysicsConfigurations.
type Settings struct {
	RigidBody          RigidBodySettings
	Constraint         ConstraintSettings
	MinimalDisplacement float32
	TimeOfImpactBias    float32
	FramesToRetainCache int
}

// DefaultSettings mirrors the reference implementation's
// PhysicsConfigurations defaults.
func DefaultSettings() Settings {

	return Settings{
		RigidBody:           DefaultRigidBodySettings(),
		Constraint:          DefaultConstraintSettings(),
		MinimalDisplacement: 0.025,
		TimeOfImpactBias:    0.01,
		FramesToRetainCache: 10,
	}
}

var errNonPositiveTimeStep = errors.New("physics: dt must be > 0")

// ValidateTimeStep rejects a non-positive step at the call site, per
// spec.md §7's "rejected with a boolean return" error convention: Step
// itself never returns an error, so callers that need one call this
// first.
func ValidateTimeStep(dt float32) error {

	if dt <= 0 {
		return errNonPositiveTimeStep
	}
	return nil
}
