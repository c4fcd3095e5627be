package narrowphase

import (
	"math"

	"github.com/kinetic3d/mechfizix/collider"
	"github.com/kinetic3d/mechfizix/math32"
)

// ProximityEpsilon is the closest-distance threshold below which a
// non-penetrating pair is still reported as Proximal rather than
// discarded outright (spec.md §4.3 Output).
const ProximityEpsilon = 0.01

// Generate dispatches on the shape-kind pair and returns the resulting
// manifold plus whether a manifold worth keeping was produced (a
// NotColliding result with zero points is reported as !ok so the caller
// can mark the cached manifold closed).
func Generate(
	idA uint32, shapeA collider.Shape, poseA math32.Transform3D, matA collider.Material,
	idB uint32, shapeB collider.Shape, poseB math32.Transform3D, matB collider.Material,
	cache *HullVsHullCache,
) (*Manifold, bool) {

	m := &Manifold{ManifoldID: PairHash(idA, idB)}

	switch {
	case shapeA.Kind() == collider.KindSphere && shapeB.Kind() == collider.KindSphere:
		sphereSphere(shapeA.(*collider.Sphere), poseA, shapeB.(*collider.Sphere), poseB, m)

	case shapeA.Kind() == collider.KindSphere && shapeB.Kind() == collider.KindCapsule:
		sphereCapsule(shapeA.(*collider.Sphere), poseA, shapeB.(*collider.Capsule), poseB, m, false)

	case shapeA.Kind() == collider.KindCapsule && shapeB.Kind() == collider.KindSphere:
		sphereCapsule(shapeB.(*collider.Sphere), poseB, shapeA.(*collider.Capsule), poseA, m, true)

	case shapeA.Kind() == collider.KindCapsule && shapeB.Kind() == collider.KindCapsule:
		capsuleCapsule(shapeA.(*collider.Capsule), poseA, shapeB.(*collider.Capsule), poseB, m)

	case isConvex(shapeA) && isConvex(shapeB):
		convexConvex(hullOf(shapeA), poseA, hullOf(shapeB), poseB, m, cache)

	default:
		return m, false
	}

	if len(m.Points) == 0 {
		m.Flag = NotColliding
		return m, false
	}

	if len(m.Points) > 4 {
		m.Reduce(poseA.Position)
	}

	penetrating := false
	for _, p := range m.Points {
		if p.Depth > 0 {
			penetrating = true
			break
		}
	}
	if penetrating {
		m.Flag = Penetrating
	} else {
		m.Flag = Proximal
	}
	return m, true
}

func isConvex(s collider.Shape) bool {

	return s.Kind() == collider.KindConvexHull
}

func hullOf(s collider.Shape) *collider.ConvexHull { return s.(*collider.ConvexHull) }

func sphereSphere(a *collider.Sphere, poseA math32.Transform3D, b *collider.Sphere, poseB math32.Transform3D, m *Manifold) {

	delta := poseB.Position.Clone().Sub(&poseA.Position)
	dist := delta.Length()
	radiusSum := a.Radius + b.Radius
	depth := radiusSum - dist
	if dist-radiusSum > ProximityEpsilon {
		return
	}

	normal := math32.NewVector3(0, 1, 0)
	if dist > 1e-8 {
		normal = delta.Clone().MultiplyScalar(1.0 / dist)
	}
	pa := poseA.Position.Clone().Add(normal.Clone().MultiplyScalar(a.Radius))
	pb := poseB.Position.Clone().Sub(normal.Clone().MultiplyScalar(b.Radius))

	m.Points = append(m.Points, Point{
		PositionOnA: *pa, PositionOnB: *pb, NormalFromAToB: *normal, Depth: depth,
		ID: FeatureID(0, 0),
	})
}

// closestPointOnSegment returns the closest point to p on segment a-b.
func closestPointOnSegment(p, a, b *math32.Vector3) math32.Vector3 {

	ab := b.Clone().Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < 1e-12 {
		return *a
	}
	t := p.Clone().Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return *a.Clone().Add(ab.MultiplyScalar(t))
}

func capsuleSegment(c *collider.Capsule, pose math32.Transform3D) (math32.Vector3, math32.Vector3) {

	axis := math32.NewVector3(0, c.HalfHeight, 0).ApplyQuaternion(&pose.Orientation)
	top := pose.Position.Clone().Add(axis)
	bottom := pose.Position.Clone().Sub(axis)
	return *top, *bottom
}

func sphereCapsule(s *collider.Sphere, posS math32.Transform3D, c *collider.Capsule, posC math32.Transform3D, m *Manifold, flip bool) {

	top, bottom := capsuleSegment(c, posC)
	closest := closestPointOnSegment(&posS.Position, &top, &bottom)
	delta := closest.Clone().Sub(&posS.Position)
	dist := delta.Length()
	radiusSum := s.Radius + c.Radius
	if dist-radiusSum > ProximityEpsilon {
		return
	}
	depth := radiusSum - dist
	normal := math32.NewVector3(0, 1, 0)
	if dist > 1e-8 {
		normal = delta.Clone().MultiplyScalar(1.0 / dist)
	}
	pSphere := posS.Position.Clone().Add(normal.Clone().MultiplyScalar(s.Radius))
	pCapsule := closest.Clone().Sub(normal.Clone().MultiplyScalar(c.Radius))

	// normal must point from A to B; when the capsule is body A (flip),
	// the sphere-relative normal above needs inverting.
	pa, pb := pSphere, pCapsule
	n := *normal
	if flip {
		pa, pb = pb, pa
		n = *n.Clone().Negate()
	}
	m.Points = append(m.Points, Point{PositionOnA: *pa, PositionOnB: *pb, NormalFromAToB: n, Depth: depth, ID: FeatureID(0, 0)})
}

// segmentSegmentClosest returns the closest points between segments
// p1-q1 and p2-q2 (standard Ericson "Real-Time Collision Detection" formula).
func segmentSegmentClosest(p1, q1, p2, q2 math32.Vector3) (math32.Vector3, math32.Vector3) {

	d1 := q1.Clone().Sub(&p1)
	d2 := q2.Clone().Sub(&p2)
	r := p1.Clone().Sub(&p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32
	const eps = 1e-10
	if a <= eps && e <= eps {
		return p1, p2
	}
	if a <= eps {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1.Dot(r)
		if e <= eps {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	c1 := p1.Clone().Add(d1.MultiplyScalar(s))
	c2 := p2.Clone().Add(d2.MultiplyScalar(t))
	return *c1, *c2
}

func clamp01(v float32) float32 {

	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func capsuleCapsule(a *collider.Capsule, poseA math32.Transform3D, b *collider.Capsule, poseB math32.Transform3D, m *Manifold) {

	aTop, aBottom := capsuleSegment(a, poseA)
	bTop, bBottom := capsuleSegment(b, poseB)
	pa, pb := segmentSegmentClosest(aTop, aBottom, bTop, bBottom)

	delta := pb.Clone().Sub(&pa)
	dist := delta.Length()
	radiusSum := a.Radius + b.Radius
	if dist-radiusSum > ProximityEpsilon {
		return
	}
	depth := radiusSum - dist
	normal := math32.NewVector3(0, 1, 0)
	if dist > 1e-8 {
		normal = delta.Clone().MultiplyScalar(1.0 / dist)
	}
	witnessA := pa.Clone().Add(normal.Clone().MultiplyScalar(a.Radius))
	witnessB := pb.Clone().Sub(normal.Clone().MultiplyScalar(b.Radius))
	m.Points = append(m.Points, Point{PositionOnA: *witnessA, PositionOnB: *witnessB, NormalFromAToB: *normal, Depth: depth, ID: FeatureID(0, 0)})
}

// --- Convex-convex: Separating Axis Test plus Sutherland-Hodgman clipping ---
// Re-expressed from g3n-engine/experimental/collision/shape/convexhull.go's
// FindPenetrationAxis / ClipAgainstHull idiom.

func worldVertices(h *collider.ConvexHull, pose math32.Transform3D) []math32.Vector3 {

	out := make([]math32.Vector3, len(h.Vertices))
	for i := range h.Vertices {
		out[i] = *pose.TransformPoint(&h.Vertices[i])
	}
	return out
}

func worldFaceNormals(h *collider.ConvexHull, pose math32.Transform3D) []math32.Vector3 {

	normals := h.FaceNormals()
	out := make([]math32.Vector3, len(normals))
	for i := range normals {
		out[i] = *pose.TransformVector(&normals[i])
	}
	return out
}

// projectOntoAxis returns [min,max] of hull's world vertices projected
// onto axis.
func projectOntoAxis(verts []math32.Vector3, axis *math32.Vector3) (float32, float32) {

	min := axis.Dot(&verts[0])
	max := min
	for i := 1; i < len(verts); i++ {
		p := axis.Dot(&verts[i])
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

// axisOverlap returns the signed penetration depth along axis (negative
// means separated).
func axisOverlap(vertsA, vertsB []math32.Vector3, axis *math32.Vector3) float32 {

	aMin, aMax := projectOntoAxis(vertsA, axis)
	bMin, bMax := projectOntoAxis(vertsB, axis)
	return float32(math.Min(float64(aMax-bMin), float64(bMax-aMin)))
}

func convexConvex(a *collider.ConvexHull, poseA math32.Transform3D, b *collider.ConvexHull, poseB math32.Transform3D, m *Manifold, cache *HullVsHullCache) {

	vertsA := worldVertices(a, poseA)
	vertsB := worldVertices(b, poseB)
	normalsA := worldFaceNormals(a, poseA)
	normalsB := worldFaceNormals(b, poseB)

	bestDepth := float32(3.4e38)
	var bestAxis math32.Vector3
	referenceIsA := true
	referenceFace := -1

	test := func(axis math32.Vector3, faceIdx int, isA bool) bool {
		l := axis.Length()
		if l < 1e-8 {
			return true
		}
		axis.MultiplyScalar(1.0 / l)
		depth := axisOverlap(vertsA, vertsB, &axis)
		if depth < -ProximityEpsilon {
			return false // separating axis found
		}
		if depth < bestDepth {
			bestDepth = depth
			bestAxis = axis
			referenceFace = faceIdx
			referenceIsA = isA
		}
		return true
	}

	for i, n := range normalsA {
		if !test(n, i, true) {
			return
		}
	}
	for i, n := range normalsB {
		if !test(n, i, false) {
			return
		}
	}

	edgesA := a.UniqueEdges()
	edgesB := b.UniqueEdges()
	for _, ea := range edgesA {
		wa := *poseA.TransformVector(&ea)
		for _, eb := range edgesB {
			wb := *poseB.TransformVector(&eb)
			axis := *wa.Clone().Cross(&wb)
			if !test(axis, -1, referenceIsA) {
				return
			}
		}
	}

	// orient bestAxis to point from A to B.
	centerA := *math32.NewVector3(0, 0, 0)
	for _, v := range vertsA {
		centerA.Add(&v)
	}
	centerA.MultiplyScalar(1.0 / float32(len(vertsA)))
	centerB := *math32.NewVector3(0, 0, 0)
	for _, v := range vertsB {
		centerB.Add(&v)
	}
	centerB.MultiplyScalar(1.0 / float32(len(vertsB)))
	deltaC := *centerB.Clone().Sub(&centerA)
	if deltaC.Dot(&bestAxis) < 0 {
		bestAxis.Negate()
	}

	// Reference face: the reference hull's face whose normal points most
	// toward the other hull (A's face most parallel to bestAxis, or B's
	// face most parallel to -bestAxis). Incident face: the other hull's
	// face most antiparallel to the reference normal.
	var refVerts []math32.Vector3
	var refNormal math32.Vector3
	var incVerts []math32.Vector3
	var incFace int
	var incIsA bool

	if referenceFace < 0 {
		// edge-edge axis was the minimum: use A's face as reference.
		referenceIsA = true
	}
	if referenceIsA {
		referenceFace = closestFace(normalsA, bestAxis)
	} else {
		referenceFace = closestFace(normalsB, *bestAxis.Clone().Negate())
	}

	if referenceIsA {
		refNormal = normalsA[referenceFace]
		refVerts = facePolygon(a.Faces[referenceFace], vertsA)
		incFace = mostAntiparallelFace(normalsB, refNormal)
		incVerts = facePolygon(b.Faces[incFace], vertsB)
		incIsA = false
	} else {
		refNormal = normalsB[referenceFace]
		refVerts = facePolygon(b.Faces[referenceFace], vertsB)
		incFace = mostAntiparallelFace(normalsA, refNormal)
		incVerts = facePolygon(a.Faces[incFace], vertsA)
		incIsA = true
	}

	clipped := clipPolygonAgainstFace(incVerts, refVerts, refNormal)

	for _, cp := range clipped {
		depth := refNormal.Dot(cp.Clone().Sub(&refVerts[0]))
		if depth > ProximityEpsilon {
			continue
		}
		onRef := cp.Clone().Sub(refNormal.Clone().MultiplyScalar(depth))
		var pa, pb math32.Vector3
		if referenceIsA {
			pa, pb = *onRef, *cp
		} else {
			pa, pb = *cp, *onRef
		}
		normal := bestAxis
		m.Points = append(m.Points, Point{
			PositionOnA: pa, PositionOnB: pb, NormalFromAToB: normal, Depth: -depth,
			ID: FeatureID(referenceFace, incFace),
		})
	}

	if cache != nil {
		cache.CenterA, cache.CenterB = centerA, centerB
		cache.ReferenceFace, cache.IncidentFace = referenceFace, incFace
		cache.ReferenceIsA = referenceIsA
		_ = incIsA
		cache.Touched = true
	}
}

func closestFace(normals []math32.Vector3, axis math32.Vector3) int {

	best, bestDot := 0, float32(-3.4e38)
	for i, n := range normals {
		d := n.Dot(&axis)
		if d > bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

func mostAntiparallelFace(normals []math32.Vector3, refNormal math32.Vector3) int {

	best, bestDot := 0, float32(3.4e38)
	for i, n := range normals {
		d := n.Dot(&refNormal)
		if d < bestDot {
			bestDot = d
			best = i
		}
	}
	return best
}

func facePolygon(faceIdx []int, worldVerts []math32.Vector3) []math32.Vector3 {

	out := make([]math32.Vector3, len(faceIdx))
	for i, idx := range faceIdx {
		out[i] = worldVerts[idx]
	}
	return out
}

// clipPolygonAgainstFace clips the incident polygon against each side
// plane of the reference polygon (Sutherland-Hodgman), then discards
// nothing further here: depth-against-reference-plane filtering happens
// in the caller, matching convexhull.go's clipFaceAgainstHull/
// clipFaceAgainstPlane split.
func clipPolygonAgainstFace(incident, reference []math32.Vector3, refNormal math32.Vector3) []math32.Vector3 {

	poly := incident
	n := len(reference)
	for i := 0; i < n; i++ {
		a := reference[i]
		b := reference[(i+1)%n]
		edge := *b.Clone().Sub(&a)
		sideNormal := *edge.Clone().Cross(&refNormal).Normalize()
		poly = clipPolygonAgainstPlane(poly, a, sideNormal)
		if len(poly) == 0 {
			return poly
		}
	}
	return poly
}

func clipPolygonAgainstPlane(poly []math32.Vector3, planePoint, planeNormal math32.Vector3) []math32.Vector3 {

	if len(poly) == 0 {
		return poly
	}
	var out []math32.Vector3
	for i := 0; i < len(poly); i++ {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		curDist := planeNormal.Dot(cur.Clone().Sub(&planePoint))
		nextDist := planeNormal.Dot(next.Clone().Sub(&planePoint))

		if curDist <= 0 {
			out = append(out, cur)
		}
		if (curDist <= 0) != (nextDist <= 0) {
			t := curDist / (curDist - nextDist)
			inter := *cur.Clone().Lerp(&next, t)
			out = append(out, inter)
		}
	}
	return out
}
