package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func toMGL(m Mat4) mgl32.Mat4 {
	return mgl32.Mat4(m)
}

func assertVec3InDelta(t *testing.T, want, got Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestScaleSquared(t *testing.T) {
	m := Translate(4, 5, 6).Mul(RotateZ(0.4)).Mul(Scale(2, 3, 0.5))
	s := ScaleSquared(m)
	assertVec3InDelta(t, Vec3{4, 9, 0.25}, s, 1e-5)
}

func TestNormalTransformMatchesInverseTranspose(t *testing.T) {
	cases := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"uniform scale", Scale(3, 3, 3)},
		{"non-uniform scale", Scale(1, 4, 0.25)},
		{"trs", Translate(1, 2, 3).Mul(RotateAxis(Vec3{0, 1, 0}, 0.9)).Mul(Scale(2, 0.5, 5))},
	}

	normals := []Vec3{{0, 0, 1}, {1, 1, 0}, {0.3, -0.4, 0.8}}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := toMGL(tc.m).Inv().Transpose().Mat3()
			for _, n := range normals {
				want := ref.Mul3x1(mgl32.Vec3{n.X, n.Y, n.Z}).Normalize()
				got := NormalTransform(tc.m, n).Normalize()
				assertVec3InDelta(t, Vec3{want[0], want[1], want[2]}, got, 1e-4)
			}
		})
	}
}

func TestNormalTransformIgnoresTranslation(t *testing.T) {
	n := Vec3{0, 1, 0}
	got := NormalTransform(Translate(10, 20, 30), n)
	if got != n {
		t.Errorf("translation must not affect normals, got %v", got)
	}
}

func TestNormalMatrixEqualsNormalTransform(t *testing.T) {
	m := Translate(-3, 1, 2).Mul(RotateX(1.1)).Mul(Scale(0.5, 2, 7))
	nm := NormalMatrix(m)
	for _, v := range []Vec3{{1, 0, 0}, {0, 1, 0}, {0.2, 0.7, -0.6}} {
		assertVec3InDelta(t, NormalTransform(m, v), nm.TransformDirection(v), 1e-5)
	}
}

func TestPerspectiveMatchesMathGL(t *testing.T) {
	got := Perspective(0.8, 1.5, 0.1, 50)
	want := mgl32.Perspective(0.8, 1.5, 0.1, 50)
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestLookAtMatchesMathGL(t *testing.T) {
	got := LookAt(Vec3{1, 2, 5}, Vec3{0, 0, 0}, Vec3{0, 1, 0})
	want := mgl32.LookAtV(mgl32.Vec3{1, 2, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}
