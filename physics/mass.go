package physics

import (
	"math"

	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/math32"
)

// massProperties derives a mass and local-space inertia tensor from a
// shape and material density. The reference implementation computes
// these per concrete shape type (not present in the retrieved headers);
// standard closed-form solid-body formulas are used here, with hulls,
// meshes, height fields and compounds approximated as a solid box
// matching the shape's local AABB extents - an acknowledged
// approximation, recorded in DESIGN.md.
func massProperties(shape collider.Shape, density float32) (float32, math32.Matrix3) {

	switch s := shape.(type) {
	case *collider.Sphere:
		volume := (4.0 / 3.0) * math.Pi * float64(s.Radius) * float64(s.Radius) * float64(s.Radius)
		mass := density * float32(volume)
		i := 0.4 * mass * s.Radius * s.Radius
		return mass, diagonal(i, i, i)

	case *collider.Capsule:
		r := s.Radius
		h := 2 * s.HalfHeight
		cylinderVolume := math.Pi * float64(r) * float64(r) * float64(h)
		sphereVolume := (4.0 / 3.0) * math.Pi * float64(r) * float64(r) * float64(r)
		mass := density * float32(cylinderVolume+sphereVolume)

		cylinderMass := density * float32(cylinderVolume)
		sphereMass := density * float32(sphereVolume)
		ixx := cylinderMass*(3*r*r+h*h)/12 + sphereMass*(0.4*r*r+0.5*h*r)
		iyy := cylinderMass*r*r/2 + sphereMass*0.4*r*r
		return mass, diagonal(ixx, iyy, ixx)

	default:
		aabb := shape.LocalAABB()
		size := aabb.Size(nil)
		volume := size.X * size.Y * size.Z
		mass := density * volume
		ixx := mass * (size.Y*size.Y + size.Z*size.Z) / 12
		iyy := mass * (size.X*size.X + size.Z*size.Z) / 12
		izz := mass * (size.X*size.X + size.Y*size.Y) / 12
		return mass, diagonal(ixx, iyy, izz)
	}
}

func diagonal(ixx, iyy, izz float32) math32.Matrix3 {

	var m math32.Matrix3
	m.Set(
		ixx, 0, 0,
		0, iyy, 0,
		0, 0, izz,
	)
	return m
}
