package math32

// Transform3D is a rigid transform composed of a translation and a unit
// orientation quaternion. It is the basic pose type used throughout the
// physics packages in place of a full 4x4 matrix, since rigid bodies and
// colliders never need scale or shear.
type Transform3D struct {
	Position    Vector3
	Orientation Quaternion
}

// NewTransform3D returns a transform with the given position and orientation.
func NewTransform3D(position *Vector3, orientation *Quaternion) *Transform3D {

	return &Transform3D{Position: *position, Orientation: *orientation}
}

// IdentityTransform3D returns the identity transform.
func IdentityTransform3D() *Transform3D {

	return &Transform3D{
		Position:    Vector3{0, 0, 0},
		Orientation: Quaternion{0, 0, 0, 1},
	}
}

// Combine returns this*other: applying the result to a point first applies
// other, then this.
func (t *Transform3D) Combine(other *Transform3D) *Transform3D {

	pos := other.Position.Clone().ApplyQuaternion(&t.Orientation).Add(&t.Position)
	orient := NewQuaternion(0, 0, 0, 1).MultiplyQuaternions(&t.Orientation, &other.Orientation)
	return &Transform3D{Position: *pos, Orientation: *orient}
}

// TransformPoint maps a point from local space into the space this transform
// represents.
func (t *Transform3D) TransformPoint(point *Vector3) *Vector3 {

	return point.Clone().ApplyQuaternion(&t.Orientation).Add(&t.Position)
}

// TransformVector rotates a direction vector, ignoring translation.
func (t *Transform3D) TransformVector(vec *Vector3) *Vector3 {

	return vec.Clone().ApplyQuaternion(&t.Orientation)
}

// Inverse returns the transform that undoes t.
func (t *Transform3D) Inverse() *Transform3D {

	invOrient := t.Orientation.Clone().Inverse()
	invPos := t.Position.Clone().Negate().ApplyQuaternion(invOrient)
	return &Transform3D{Position: *invPos, Orientation: *invOrient}
}

// InverseTransformPoint maps a world-space point into this transform's local space.
func (t *Transform3D) InverseTransformPoint(point *Vector3) *Vector3 {

	return t.Inverse().TransformPoint(point)
}

// InverseTransformVector rotates a world-space direction into local space.
func (t *Transform3D) InverseTransformVector(vec *Vector3) *Vector3 {

	return t.Inverse().TransformVector(vec)
}

// Clone returns a copy of t.
func (t *Transform3D) Clone() *Transform3D {

	return &Transform3D{Position: t.Position, Orientation: t.Orientation}
}

// InterpolateTransforms returns the pose a fraction factor of the way from
// t1 to t2, lerping position and slerping orientation. Used to bias contact
// resolution toward the earlier of two sub-step poses.
func InterpolateTransforms(t1, t2 *Transform3D, factor float32) *Transform3D {

	pos := t1.Position.Clone().Lerp(&t2.Position, factor)
	orient := t1.Orientation.Clone().Slerp(&t2.Orientation, factor)
	return &Transform3D{Position: *pos, Orientation: *orient}
}

// SkewSymmetric returns the 3x3 skew-symmetric "cross product" matrix [v]x
// such that [v]x * u == v.Cross(u) for any vector u. Used to build the
// Jacobian blocks of the point-to-point and hinge joint constraints.
func SkewSymmetric(v *Vector3) *Matrix3 {

	m := NewMatrix3()
	m.Set(
		0, -v.Z, v.Y,
		v.Z, 0, -v.X,
		-v.Y, v.X, 0,
	)
	return m
}

// RotationQuaternionFromScaledAxis builds the quaternion representing the
// rotation accumulated by integrating an angular velocity-like vector
// (axis*angle, with angle == the vector's own length) over one step. Used
// by the rigid body integrator to turn deltaOrientation into a quaternion
// that is then multiplied onto the previous orientation.
func RotationQuaternionFromScaledAxis(v *Vector3) *Quaternion {

	angle := v.Length()
	if angle < 1e-8 {
		return NewQuaternion(0, 0, 0, 1)
	}
	axis := v.Clone().MultiplyScalar(1.0 / angle)
	return NewQuaternion(0, 0, 0, 1).SetFromAxisAngle(axis, angle)
}
