package model

import "github.com/Faultbox/midgard-shade/pkg/math"

// Joint is a node of a skeleton hierarchy. Parent is the index of the parent
// joint, or -1 for a root.
type Joint struct {
	Name     string
	Parent   int
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	// InverseBind maps mesh space into the joint's bind space.
	InverseBind math.Mat4

	RotKeys   []RotKey
	PosKeys   []PosKey
	ScaleKeys []ScaleKey
}

// NewJoint returns a joint with identity rotation, unit scale and identity inverse bind.
func NewJoint(name string, parent int) Joint {
	return Joint{
		Name:        name,
		Parent:      parent,
		Rotation:    math.QuatIdentity(),
		Scale:       math.Vec3{X: 1, Y: 1, Z: 1},
		InverseBind: math.Identity(),
	}
}

// LocalMatrix returns Position * Rotation * Scale at time t. Keyframes
// replace the static channel they animate.
func (j *Joint) LocalMatrix(t float32) math.Mat4 {
	pos := j.Position
	if p, ok := InterpolatePos(j.PosKeys, t); ok {
		pos = p
	}
	rot := j.Rotation
	if len(j.RotKeys) > 0 {
		rot = InterpolateRot(j.RotKeys, t)
	}
	scale := j.Scale
	if len(j.ScaleKeys) > 0 {
		scale = InterpolateScale(j.ScaleKeys, t)
	}

	m := math.Translate(pos.X, pos.Y, pos.Z)
	m = m.Mul(rot.ToMat4())
	return m.Mul(math.Scale(scale.X, scale.Y, scale.Z))
}

// BuildJointMatrices returns the skinning transform of every joint at time t:
// the joint's world hierarchy matrix times its inverse bind matrix.
func BuildJointMatrices(joints []Joint, t float32) []math.Mat4 {
	world := make([]math.Mat4, len(joints))
	done := make([]bool, len(joints))
	for i := range joints {
		buildHierarchyMatrix(joints, i, t, world, done, make(map[int]bool))
	}

	out := make([]math.Mat4, len(joints))
	for i := range joints {
		out[i] = world[i].Mul(joints[i].InverseBind)
	}
	return out
}

// buildHierarchyMatrix computes parent * local for joint i, memoized in world.
func buildHierarchyMatrix(joints []Joint, i int, t float32, world []math.Mat4, done []bool, visiting map[int]bool) math.Mat4 {
	if done[i] {
		return world[i]
	}
	// Prevent infinite recursion on malformed parent links
	if visiting[i] {
		return math.Identity()
	}
	visiting[i] = true

	local := joints[i].LocalMatrix(t)
	p := joints[i].Parent
	if p >= 0 && p < len(joints) && p != i {
		local = buildHierarchyMatrix(joints, p, t, world, done, visiting).Mul(local)
	}

	world[i] = local
	done[i] = true
	return local
}

// HasAnimation reports whether any joint has more than one keyframe on a channel.
// A single keyframe is a static pose.
func HasAnimation(joints []Joint) bool {
	for i := range joints {
		j := &joints[i]
		if len(j.RotKeys) > 1 || len(j.PosKeys) > 1 || len(j.ScaleKeys) > 1 {
			return true
		}
	}
	return false
}

// Duration returns the time of the last keyframe across all joints.
func Duration(joints []Joint) float32 {
	var d float32
	for i := range joints {
		j := &joints[i]
		if n := len(j.RotKeys); n > 0 {
			d = max(d, j.RotKeys[n-1].Time)
		}
		if n := len(j.PosKeys); n > 0 {
			d = max(d, j.PosKeys[n-1].Time)
		}
		if n := len(j.ScaleKeys); n > 0 {
			d = max(d, j.ScaleKeys[n-1].Time)
		}
	}
	return d
}
