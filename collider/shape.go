// Package collider defines the tagged-union collision shapes, their
// materials, and the stable external handle type consumed by the broad
// and narrow phases. Shape geometry itself (support points, face/edge
// enumeration) is treated as the external geometry library per the
// engine's Non-goals; only the minimal subset needed by the octree and
// SAT narrow phase lives here.
package collider

import "github.com/kinetic3d/mechfizix/math32"

// Kind tags a Shape's concrete type, replacing the reference
// implementation's C-style enum + function-pointer dispatch table with
// exhaustive Go type switches at the few call sites that need it
// (broadphase AABB refresh, narrowphase dispatch).
type Kind int

const (
	KindSphere Kind = iota
	KindCapsule
	KindConvexHull
	KindTriangleMesh
	KindHeightField
	KindCompound
)

// Shape is the common interface every collider geometry satisfies.
type Shape interface {
	Kind() Kind
	// LocalAABB returns the shape's AABB in its own local frame (before
	// the owning body's transform is applied).
	LocalAABB() *math32.Box3
}

// Sphere is a collision sphere of the given radius, centred at the
// owning body's origin.
type Sphere struct {
	Radius float32
}

func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) LocalAABB() *math32.Box3 {

	r := math32.NewVector3(s.Radius, s.Radius, s.Radius)
	return math32.NewBox3(r.Clone().Negate(), r)
}

// Capsule is a cylinder of Radius capped by hemispheres, its segment
// running from -HalfHeight to +HalfHeight along the local Y axis.
type Capsule struct {
	Radius     float32
	HalfHeight float32
}

func (c *Capsule) Kind() Kind { return KindCapsule }

func (c *Capsule) LocalAABB() *math32.Box3 {

	y := c.HalfHeight + c.Radius
	min := math32.NewVector3(-c.Radius, -y, -c.Radius)
	max := math32.NewVector3(c.Radius, y, c.Radius)
	return math32.NewBox3(min, max)
}

// ConvexHull is an arbitrary convex polytope described by its vertices,
// per-face vertex indices (used to derive face normals and clip
// polygons during SAT narrow phase), and the unique edge directions used
// by the cross-product separating-axis test.
type ConvexHull struct {
	Vertices []math32.Vector3
	// Faces lists, for each face, the indices into Vertices describing
	// its boundary loop in winding order.
	Faces [][]int
	// cached derived data, computed once by NewConvexHull.
	faceNormals []math32.Vector3
	uniqueEdges []math32.Vector3
	localAABB   math32.Box3
}

// NewConvexHull builds a ConvexHull and precomputes its face normals and
// unique edge directions, mirroring
// g3n-engine's ConvexHull.computeFaceNormalsAndUniqueEdges.
func NewConvexHull(vertices []math32.Vector3, faces [][]int) *ConvexHull {

	h := &ConvexHull{Vertices: vertices, Faces: faces}
	h.computeFaceNormalsAndUniqueEdges()

	box := math32.NewBox3(nil, nil)
	box.MakeEmpty()
	for i := range h.Vertices {
		box.ExpandByPoint(&h.Vertices[i])
	}
	h.localAABB = *box
	return h
}

func (h *ConvexHull) computeFaceNormalsAndUniqueEdges() {

	h.faceNormals = make([]math32.Vector3, len(h.Faces))
	for fi, face := range h.Faces {
		a, b, c := h.Vertices[face[0]], h.Vertices[face[1]], h.Vertices[face[2]]
		e1 := b.Clone().Sub(&a)
		e2 := c.Clone().Sub(&a)
		n := e1.Cross(e2).Normalize()
		h.faceNormals[fi] = *n
	}

	const tol = 1e-4
	for _, face := range h.Faces {
		n := len(face)
		for i := 0; i < n; i++ {
			a, b := h.Vertices[face[i]], h.Vertices[face[(i+1)%n]]
			edge := b.Clone().Sub(&a).Normalize()
			dup := false
			for _, e := range h.uniqueEdges {
				ec := e
				if ec.Clone().Sub(edge).LengthSq() < tol || ec.Clone().Add(edge).LengthSq() < tol {
					dup = true
					break
				}
			}
			if !dup {
				h.uniqueEdges = append(h.uniqueEdges, *edge)
			}
		}
	}
}

// FaceNormals returns the hull's cached local-space face normals.
func (h *ConvexHull) FaceNormals() []math32.Vector3 { return h.faceNormals }

// UniqueEdges returns the hull's cached local-space unique edge directions.
func (h *ConvexHull) UniqueEdges() []math32.Vector3 { return h.uniqueEdges }

func (h *ConvexHull) Kind() Kind { return KindConvexHull }

func (h *ConvexHull) LocalAABB() *math32.Box3 { return h.localAABB.Clone() }

// NewBoxHull returns a ConvexHull for an axis-aligned box of the given
// half-extents, a convenience used by every stacking/stress scenario.
func NewBoxHull(halfExtents math32.Vector3) *ConvexHull {

	hx, hy, hz := halfExtents.X, halfExtents.Y, halfExtents.Z
	verts := []math32.Vector3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // -Z
		{5, 6, 7, 4}, // +Z
		{4, 7, 3, 0}, // -X
		{1, 2, 6, 5}, // +X
		{4, 0, 1, 5}, // -Y
		{3, 7, 6, 2}, // +Y
	}
	return NewConvexHull(verts, faces)
}

// Triangle is a single degenerate hull face, used both as a
// TriangleMesh element and to give height-field patches a convex-hull
// shaped interface for the narrow phase's convex-convex path.
type Triangle struct {
	A, B, C math32.Vector3
}

// TriangleMesh is a static-only collection of triangles. The reference
// implementation indexes these through a BVH; this module keeps a flat
// slice plus a precomputed AABB-per-triangle list, sufficient for the
// engine's own octree to prune the broad phase before any per-triangle
// work happens (the BVH is a pure Non-goal optimisation over what is
// already an octree leaf).
type TriangleMesh struct {
	Triangles []Triangle
	localAABB math32.Box3
}

func NewTriangleMesh(triangles []Triangle) *TriangleMesh {

	m := &TriangleMesh{Triangles: triangles}
	box := math32.NewBox3(nil, nil)
	box.MakeEmpty()
	for _, t := range triangles {
		box.ExpandByPoint(&t.A)
		box.ExpandByPoint(&t.B)
		box.ExpandByPoint(&t.C)
	}
	m.localAABB = *box
	return m
}

func (m *TriangleMesh) Kind() Kind { return KindTriangleMesh }

func (m *TriangleMesh) LocalAABB() *math32.Box3 { return m.localAABB.Clone() }

// HeightField is a single global static height field sampled on a
// regular grid, per spec.md's "Single global static height field" note.
type HeightField struct {
	Heights    [][]float32 // [row][col], row-major, size (cols+1)x(rows+1) samples
	CellSize   float32
	Origin     math32.Vector3 // world-space position of Heights[0][0]
	localAABB  math32.Box3
}

func NewHeightField(heights [][]float32, cellSize float32, origin math32.Vector3) *HeightField {

	hf := &HeightField{Heights: heights, CellSize: cellSize, Origin: origin}
	minH, maxH := float32(0), float32(0)
	for r, row := range heights {
		for c, h := range row {
			if r == 0 && c == 0 {
				minH, maxH = h, h
				continue
			}
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
		}
	}
	rows, cols := 0, 0
	if len(heights) > 1 {
		rows = len(heights) - 1
		cols = len(heights[0]) - 1
	}
	min := math32.NewVector3(0, minH, 0)
	max := math32.NewVector3(float32(cols)*cellSize, maxH, float32(rows)*cellSize)
	hf.localAABB = *math32.NewBox3(min, max)
	return hf
}

func (hf *HeightField) Kind() Kind { return KindHeightField }

func (hf *HeightField) LocalAABB() *math32.Box3 { return hf.localAABB.Clone() }

// TriangleAt returns the one or two triangles of the patch whose lower-left
// grid corner is (col,row), mirroring "each patch becomes one or two
// triangles" in spec.md §4.3.
func (hf *HeightField) TriangleAt(col, row int) (Triangle, Triangle, bool) {

	if row < 0 || col < 0 || row+1 >= len(hf.Heights) || col+1 >= len(hf.Heights[row]) {
		return Triangle{}, Triangle{}, false
	}
	x0, x1 := float32(col)*hf.CellSize, float32(col+1)*hf.CellSize
	z0, z1 := float32(row)*hf.CellSize, float32(row+1)*hf.CellSize

	p00 := math32.NewVector3(x0, hf.Heights[row][col], z0).Add(&hf.Origin)
	p10 := math32.NewVector3(x1, hf.Heights[row][col+1], z0).Add(&hf.Origin)
	p01 := math32.NewVector3(x0, hf.Heights[row+1][col], z1).Add(&hf.Origin)
	p11 := math32.NewVector3(x1, hf.Heights[row+1][col+1], z1).Add(&hf.Origin)

	return Triangle{A: *p00, B: *p10, C: *p11}, Triangle{A: *p00, B: *p11, C: *p01}, true
}

// CompoundChild is one sub-primitive of a Compound shape, with its own
// local transform relative to the owning body.
type CompoundChild struct {
	Shape     Shape
	Transform math32.Transform3D
}

// Compound groups several sub-primitives under a single collider handle.
type Compound struct {
	Children  []CompoundChild
	localAABB math32.Box3
}

func NewCompound(children []CompoundChild) *Compound {

	c := &Compound{Children: children}
	box := math32.NewBox3(nil, nil)
	box.MakeEmpty()
	for _, ch := range children {
		local := ch.Shape.LocalAABB()
		for _, corner := range corners(local) {
			box.ExpandByPoint(ch.Transform.TransformPoint(&corner))
		}
	}
	c.localAABB = *box
	return c
}

func (c *Compound) Kind() Kind { return KindCompound }

func (c *Compound) LocalAABB() *math32.Box3 { return c.localAABB.Clone() }

func corners(b *math32.Box3) []math32.Vector3 {

	return []math32.Vector3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}, {X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z}, {X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z}, {X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z}, {X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}
