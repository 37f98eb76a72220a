package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Reflect(t *testing.T) {
	in := Vec3{1, -1, 0}
	n := Vec3{0, 1, 0}
	got := in.Reflect(n)
	want := Vec3{1, 1, 0}
	if got != want {
		t.Errorf("Vec3.Reflect() = %v, want %v", got, want)
	}
}

func TestVec3Clamp01(t *testing.T) {
	got := Vec3{-1, 0.5, 2}.Clamp01()
	want := Vec3{0, 0.5, 1}
	if got != want {
		t.Errorf("Vec3.Clamp01() = %v, want %v", got, want)
	}
}

func TestVec4PerspectiveDivide(t *testing.T) {
	got := Vec4{2, 4, 6, 2}.PerspectiveDivide()
	want := Vec3{1, 2, 3}
	if got != want {
		t.Errorf("Vec4.PerspectiveDivide() = %v, want %v", got, want)
	}
	if got := (Vec4{1, 2, 3, 0}).PerspectiveDivide(); got != (Vec3{1, 2, 3}) {
		t.Errorf("zero w should pass xyz through, got %v", got)
	}
}
