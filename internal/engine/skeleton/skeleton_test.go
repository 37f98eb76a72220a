package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

func testVertex() model.Vertex {
	return model.Vertex{
		Position:  math.Vec3{X: 1, Y: 2, Z: 3},
		Normal:    math.Vec3{Y: 1},
		Tangent:   math.Vec3{X: 1},
		Bitangent: math.Vec3{Z: 1},
		Joints:    [4]uint32{0, 1, 0, 0},
		Weights:   [4]float32{0.25, 0.75, 0, 0},
	}
}

func TestSkinZeroCountIsPassthrough(t *testing.T) {
	v := testVertex()
	in := v.Frame()

	// A populated joint array with Count 0 must not be used.
	s := &State{}
	s.Joints[0] = math.Translate(10, 0, 0)
	s.Joints[1] = math.Scale(2, 2, 2)

	assert.Equal(t, in, Skin(s, &v, in))
	assert.Equal(t, in, Skin(nil, &v, in))
}

func TestSkinIdentityJoints(t *testing.T) {
	v := testVertex()
	v.Weights = [4]float32{0.5, 0.5, 0, 0}
	s, err := NewState([]math.Mat4{math.Identity(), math.Identity()})
	require.NoError(t, err)

	out := Skin(s, &v, v.Frame())
	assert.Equal(t, v.Frame(), out)
}

func TestSkinBlendsByWeight(t *testing.T) {
	v := testVertex()
	s, err := NewState([]math.Mat4{math.Identity(), math.Translate(4, 0, 0)})
	require.NoError(t, err)

	out := Skin(s, &v, v.Frame())
	// 0.25*(1,2,3,1) + 0.75*(5,2,3,1)
	assert.InDelta(t, 4.0, out.Position.X, 1e-6)
	assert.InDelta(t, 2.0, out.Position.Y, 1e-6)
	assert.InDelta(t, 1.0, out.Position.W, 1e-6)
	// Translation does not touch directions.
	assert.InDelta(t, 1.0, out.Normal.Y, 1e-6)
}

func TestSkinWeightsUsedAsGiven(t *testing.T) {
	v := testVertex()
	v.Weights = [4]float32{0.5, 0, 0, 0}
	s, err := NewState([]math.Mat4{math.Identity()})
	require.NoError(t, err)

	out := Skin(s, &v, v.Frame())
	assert.InDelta(t, 0.5, out.Position.X, 1e-6)
	assert.InDelta(t, 0.5, out.Position.W, 1e-6)
	assert.InDelta(t, 0.5, out.Normal.Y, 1e-6)
	// The homogeneous divide recovers the point.
	assert.InDelta(t, 1.0, out.Position.PerspectiveDivide().X, 1e-6)
}

func TestSkinSkipsOutOfRangeJoints(t *testing.T) {
	v := testVertex()
	v.Joints = [4]uint32{0, MaxJoints, MaxJoints + 7, 0}
	v.Weights = [4]float32{1, 1, 1, 0}
	s, err := NewState([]math.Mat4{math.Identity()})
	require.NoError(t, err)

	out := Skin(s, &v, v.Frame())
	assert.Equal(t, v.Frame(), out)
}

func TestNewStateBounds(t *testing.T) {
	_, err := NewState(make([]math.Mat4, MaxJoints))
	require.NoError(t, err)

	_, err = NewState(make([]math.Mat4, MaxJoints+1))
	assert.ErrorIs(t, err, ErrTooManyJoints)

	_, err = Pose(make([]model.Joint, MaxJoints+1), 0)
	assert.ErrorIs(t, err, ErrTooManyJoints)
}

func TestPose(t *testing.T) {
	root := model.NewJoint("root", -1)
	root.Position = math.Vec3{Y: 1}
	root.InverseBind = math.Translate(0, -1, 0)

	s, err := Pose([]model.Joint{root}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count)
	assert.True(t, s.Active())

	p := s.Joints[0].TransformPoint(math.Vec3{Y: 1})
	assert.InDelta(t, 1.0, p.Y, 1e-6)
}
