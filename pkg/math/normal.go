package math

// ScaleSquared returns the squared length of the first three basis columns of m.
// For a TRS matrix these are the squared per-axis scale factors.
func ScaleSquared(m Mat4) Vec3 {
	c0, c1, c2 := m.Col(0).XYZ(), m.Col(1).XYZ(), m.Col(2).XYZ()
	return Vec3{c0.Dot(c0), c1.Dot(c1), c2.Dot(c2)}
}

// NormalTransform maps a normal, tangent or bitangent through the upper 3x3 of m
// after dividing it by ScaleSquared(m). For matrices without shear this equals the
// inverse-transpose up to length, so the result still needs normalizing.
//
// Precondition: m has no zero (or near-zero) scale axis. The division is not guarded.
func NormalTransform(m Mat4, v Vec3) Vec3 {
	return m.TransformDirection(v.Div(ScaleSquared(m)))
}

// NormalMatrix folds the ScaleSquared division into a 3x3 basis so the correction
// can be applied once per vertex. Column i of the upper 3x3 is divided by the i-th
// squared scale, which is the same as NormalTransform for every input vector.
func NormalMatrix(m Mat4) Mat4 {
	s := ScaleSquared(m)
	n := m
	n[0], n[1], n[2] = m[0]/s.X, m[1]/s.X, m[2]/s.X
	n[4], n[5], n[6] = m[4]/s.Y, m[5]/s.Y, m[6]/s.Y
	n[8], n[9], n[10] = m[8]/s.Z, m[9]/s.Z, m[10]/s.Z
	n[3], n[7], n[11] = 0, 0, 0
	n[12], n[13], n[14], n[15] = 0, 0, 0, 1
	return n
}
