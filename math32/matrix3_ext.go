package math32

// physics-specific Matrix3 operations not present in the upstream engine:
// full 3x3 multiply/add (needed to compose Jacobian blocks and effective
// mass matrices) and a quaternion-to-rotation-matrix conversion (needed to
// rotate the local inverse inertia tensor into world space every step).

// MultiplyMatrices sets this matrix to a*b and returns it.
func (m *Matrix3) MultiplyMatrices(a, b *Matrix3) *Matrix3 {

	a11, a12, a13 := a[0], a[3], a[6]
	a21, a22, a23 := a[1], a[4], a[7]
	a31, a32, a33 := a[2], a[5], a[8]

	b11, b12, b13 := b[0], b[3], b[6]
	b21, b22, b23 := b[1], b[4], b[7]
	b31, b32, b33 := b[2], b[5], b[8]

	m.Set(
		a11*b11+a12*b21+a13*b31, a11*b12+a12*b22+a13*b32, a11*b13+a12*b23+a13*b33,
		a21*b11+a22*b21+a23*b31, a21*b12+a22*b22+a23*b32, a21*b13+a22*b23+a23*b33,
		a31*b11+a32*b21+a33*b31, a31*b12+a32*b22+a33*b32, a31*b13+a32*b23+a33*b33,
	)
	return m
}

// Add sets this matrix to a+b and returns it.
func (m *Matrix3) Add(a, b *Matrix3) *Matrix3 {

	for i := range m {
		m[i] = a[i] + b[i]
	}
	return m
}

// SetFromQuaternion sets this matrix to the rotation matrix equivalent of q.
func (m *Matrix3) SetFromQuaternion(q *Quaternion) *Matrix3 {

	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	m.Set(
		1-(yy+zz), xy-wz, xz+wy,
		xy+wz, 1-(xx+zz), yz-wx,
		xz-wy, yz+wx, 1-(xx+yy),
	)
	return m
}
