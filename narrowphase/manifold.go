// Package narrowphase turns broad-phase candidate pairs into contact
// manifolds. Grounded on original_source/physics/collision/contact.h
// (manifold/cache shapes, 4-point reduction) and
// g3n-engine/experimental/collision/shape/convexhull.go (SAT + clipping
// idiom, re-expressed for collider.Shape rather than copied verbatim).
package narrowphase

import "github.com/kinetic3d/mechfizix/math32"

const maxManifoldPoints = 8

// Flag is the resolution state of a manifold.
type Flag int

const (
	NotColliding Flag = iota
	Proximal
	Penetrating
)

// Point is one contact between a pair of colliders: the witness points
// on each body, the shared contact normal (pointing from A to B), and a
// feature-id hash used to persist warm-start impulses across frames.
type Point struct {
	PositionOnA, PositionOnB math32.Vector3
	NormalFromAToB           math32.Vector3
	Depth                    float32
	ID                       uint64
}

// Manifold is up to 4 contact points between an ordered collider pair.
type Manifold struct {
	ManifoldID uint64
	Points     []Point
	Flag       Flag
}

// PairHash combines two collider ids into the manifold_id named in
// spec.md §3.
func PairHash(a, b uint32) uint64 {

	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// FeatureID hashes the reference/incident feature indices of a contact
// so the same geometric feature keeps the same id across frames,
// enabling warm-start persistence (spec.md §4.3 "Persistence").
func FeatureID(referenceFeature, incidentFeature int) uint64 {

	return uint64(uint32(referenceFeature))<<32 | uint64(uint32(incidentFeature))
}

// Revert swaps the A/B sides of every point and flips the normal,
// mirroring ContactManifold::revert in the reference implementation
// (used when the narrow phase is invoked with the pair's natural order
// reversed from the manifold's cached order).
func (m *Manifold) Revert() {

	for i := range m.Points {
		m.Points[i].PositionOnA, m.Points[i].PositionOnB = m.Points[i].PositionOnB, m.Points[i].PositionOnA
		m.Points[i].NormalFromAToB.Negate()
	}
}

// Reduce applies the deterministic 4-point manifold reduction rule from
// original_source/physics/collision/contact.h::enforce4Contacts when more
// than 4 contacts were produced: (1) point of maximum depth along the
// manifold's average-normal direction from centerA, (2) the point
// farthest from (1), (3,4) the two points maximizing the signed area of
// the quadrilateral on opposite sides of the (1,2) line.
func (m *Manifold) Reduce(centerA math32.Vector3) {

	n := len(m.Points)
	if n <= 4 {
		return
	}

	var average math32.Vector3
	for _, p := range m.Points {
		average.Add(&p.PositionOnA)
	}
	average.MultiplyScalar(1.0 / float32(n))
	faceNormal := average.Clone().Sub(&centerA)

	chosen := [4]int{-1, -1, -1, -1}

	best := float32(-3.4e38)
	for x := 0; x < n; x++ {
		d := faceNormal.Dot(m.Points[x].PositionOnA.Clone().Sub(&centerA))
		if d > best {
			best = d
			chosen[0] = x
		}
	}

	isChosen := func(x int) bool {
		for _, c := range chosen {
			if c == x {
				return true
			}
		}
		return false
	}

	best = -3.4e38
	for x := 0; x < n; x++ {
		if isChosen(x) {
			continue
		}
		d := m.Points[chosen[0]].PositionOnA.Clone().Sub(&m.Points[x].PositionOnA).LengthSq()
		if d > best {
			best = d
			chosen[1] = x
		}
	}

	l1, l2 := float32(3.4e38), float32(-3.4e38)
	for x := 0; x < n; x++ {
		if isChosen(x) {
			continue
		}
		e1 := m.Points[chosen[0]].PositionOnA.Clone().Sub(&m.Points[x].PositionOnA)
		e2 := m.Points[chosen[1]].PositionOnA.Clone().Sub(&m.Points[x].PositionOnA)
		d := e1.Cross(e2).Dot(faceNormal)
		if d < 0 {
			if d < l1 {
				l1 = d
				chosen[2] = x
			}
		} else {
			if d > l2 {
				l2 = d
				chosen[3] = x
			}
		}
	}

	reduced := make([]Point, 0, 4)
	for _, c := range chosen {
		if c >= 0 {
			reduced = append(reduced, m.Points[c])
		}
	}
	m.Points = reduced
}

// HullVsHullCache is the cached SAT result of the previous frame for a
// convex-convex pair, letting the next frame reuse the same face pair
// when geometry has not moved much instead of re-enumerating all axes.
type HullVsHullCache struct {
	CenterA, CenterB           math32.Vector3
	ReferenceFace, IncidentFace int
	ReferenceIsA               bool
	Retention                  int
	Touched                    bool
}
