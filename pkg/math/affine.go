package math

// Affine is a row-major 3x4 transform: a 3x3 rotation/scale block with the
// translation in the last column.
//
//	| M[0] M[1]  M[2]  M[3]  |
//	| M[4] M[5]  M[6]  M[7]  |
//	| M[8] M[9]  M[10] M[11] |
type Affine [12]float32

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	}
}

// Translation returns the translation column.
func (a Affine) Translation() Vec3 {
	return Vec3{a[3], a[7], a[11]}
}

// Apply transforms point p.
func (a Affine) Apply(p Vec3) Vec3 {
	return Vec3{
		X: a[0]*p.X + a[1]*p.Y + a[2]*p.Z + a[3],
		Y: a[4]*p.X + a[5]*p.Y + a[6]*p.Z + a[7],
		Z: a[8]*p.X + a[9]*p.Y + a[10]*p.Z + a[11],
	}
}

// IsIdentity reports whether a is exactly the identity transform.
func (a Affine) IsIdentity() bool {
	return a == IdentityAffine()
}
