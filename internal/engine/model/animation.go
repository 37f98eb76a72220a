package model

import "github.com/Faultbox/midgard-shade/pkg/math"

// RotKey is a rotation keyframe. Time is in seconds.
type RotKey struct {
	Time     float32
	Rotation math.Quat
}

// ScaleKey is a scale keyframe.
type ScaleKey struct {
	Time  float32
	Scale math.Vec3
}

// PosKey is a translation keyframe.
type PosKey struct {
	Time     float32
	Position math.Vec3
}

// bracket finds the keys surrounding t in a list sorted by time and the
// blend factor between them. prev == next when t is outside the keyed range.
func bracket(n int, keyTime func(int) float32, t float32) (prev, next int, blend float32) {
	for i := 0; i < n; i++ {
		if keyTime(i) > t {
			next = i
			break
		}
		prev = i
		next = i
	}
	if prev == next {
		return prev, next, 0
	}
	t0, t1 := keyTime(prev), keyTime(next)
	if t1 != t0 {
		blend = (t - t0) / (t1 - t0)
	}
	return prev, next, blend
}

// InterpolateRot interpolates rotation keyframes at time t.
func InterpolateRot(keys []RotKey, t float32) math.Quat {
	if len(keys) == 0 {
		return math.QuatIdentity()
	}
	if len(keys) == 1 {
		return keys[0].Rotation
	}

	prev, next, blend := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Rotation
	}
	return keys[prev].Rotation.Slerp(keys[next].Rotation, blend)
}

// InterpolateScale interpolates scale keyframes at time t.
func InterpolateScale(keys []ScaleKey, t float32) math.Vec3 {
	if len(keys) == 0 {
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
	if len(keys) == 1 {
		return keys[0].Scale
	}

	prev, next, blend := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Scale
	}
	return keys[prev].Scale.Lerp(keys[next].Scale, blend)
}

// InterpolatePos interpolates translation keyframes at time t.
func InterpolatePos(keys []PosKey, t float32) (math.Vec3, bool) {
	if len(keys) == 0 {
		return math.Vec3{}, false
	}
	if len(keys) == 1 {
		return keys[0].Position, true
	}

	prev, next, blend := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Position, true
	}
	return keys[prev].Position.Lerp(keys[next].Position, blend), true
}
