package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

func baseFrame() model.Frame {
	return model.Frame{
		Position:  math.Vec4{X: 1, Y: 2, Z: 3, W: 1},
		Normal:    math.Vec3{Y: 1},
		Tangent:   math.Vec3{X: 1},
		Bitangent: math.Vec3{Z: 1},
	}
}

func TestTextureSize(t *testing.T) {
	tests := []struct {
		vertices      int
		width, height int
	}{
		{0, 1, 1},
		{1, 4, 1},
		{100, 400, 1},
		{2048, 8192, 1},
		{2049, 8192, 2},
		{5000, 8192, 3},
	}
	for _, tt := range tests {
		w, h := TextureSize(tt.vertices)
		assert.Equal(t, tt.width, w, "width for %d vertices", tt.vertices)
		assert.Equal(t, tt.height, h, "height for %d vertices", tt.vertices)
	}
}

func TestAddress(t *testing.T) {
	tests := []struct {
		vertex uint32
		offset int
		width  int
		x, y   int
	}{
		{0, 0, 16, 0, 0},
		{0, 3, 16, 3, 0},
		{3, 2, 16, 14, 0},
		{4, 0, 16, 0, 1},
		{5, 1, 6, 3, 3},
	}
	for _, tt := range tests {
		x, y := Address(tt.vertex, tt.offset, tt.width)
		assert.Equal(t, tt.x, x, "x for v=%d o=%d", tt.vertex, tt.offset)
		assert.Equal(t, tt.y, y, "y for v=%d o=%d", tt.vertex, tt.offset)
	}
}

func TestEncodeLayout(t *testing.T) {
	targets := []Target{
		{Position: []math.Vec3{{X: 1}, {X: 2}, {X: 3}}},
		{Normal: []math.Vec3{{}, {}, {Y: 5}}},
	}
	arr, err := Encode(3, targets)
	require.NoError(t, err)

	assert.Equal(t, 12, arr.Width)
	assert.Equal(t, 1, arr.Height)
	assert.Equal(t, 2, arr.Layers)

	// Vertex 2, position delta of target 0 sits at texel 8.
	assert.Equal(t, math.Vec4{X: 3}, arr.Load(8, 0, 0))
	// Vertex 2, normal delta of target 1 sits at texel 9.
	assert.Equal(t, math.Vec4{Y: 5}, arr.Load(9, 0, 1))
	assert.Equal(t, math.Vec4{}, arr.Load(9, 0, 0))
}

func TestEncodeWrapsRows(t *testing.T) {
	arr, err := Encode(2048+1, []Target{{Position: make([]math.Vec3, 2049)}})
	require.NoError(t, err)
	assert.Equal(t, 2, arr.Height)

	arr, err = Encode(2049, []Target{{Position: append(make([]math.Vec3, 2048), math.Vec3{Z: 7})}})
	require.NoError(t, err)
	x, y := Address(2048, OffsetPosition, arr.Width)
	assert.Equal(t, 0, x)
	assert.Equal(t, 1, y)
	assert.Equal(t, math.Vec4{Z: 7}, arr.Load(x, y, 0))
}

func TestEncodeDerivesBitangent(t *testing.T) {
	targets := []Target{{
		Normal:  []math.Vec3{{Z: 2}},
		Tangent: []math.Vec3{{X: 3}},
	}}
	arr, err := Encode(1, targets)
	require.NoError(t, err)

	b := arr.Load(OffsetBitangent, 0, 0)
	assert.InDelta(t, 1.0, b.Y, 1e-6)
	assert.InDelta(t, 0.0, b.W, 0)

	// Explicit bitangents win.
	targets[0].Bitangent = []math.Vec3{{X: 4}}
	arr, err = Encode(1, targets)
	require.NoError(t, err)
	assert.Equal(t, math.Vec4{X: 4}, arr.Load(OffsetBitangent, 0, 0))
}

func TestEncodeLimits(t *testing.T) {
	_, err := Encode(1, make([]Target, MaxMorphTargets+1))
	assert.ErrorIs(t, err, ErrTooManyTargets)

	_, err = Encode(MaxTextureDimension*MaxTextureDimension/ItemsPerVertex+1, nil)
	assert.ErrorIs(t, err, ErrTextureTooLarge)

	_, err = NewState(make([]float32, MaxMorphTargets+1))
	assert.ErrorIs(t, err, ErrTooManyTargets)
}

func TestApplyZeroCountIsPassthrough(t *testing.T) {
	arr, err := Encode(1, []Target{{Position: []math.Vec3{{X: 10}}}})
	require.NoError(t, err)

	s := &State{}
	s.Weights[0] = 1
	assert.Equal(t, baseFrame(), Apply(s, arr, 0, baseFrame()))
	assert.Equal(t, baseFrame(), Apply(nil, arr, 0, baseFrame()))
}

func TestApplyZeroWeightsLeaveFrameUnchanged(t *testing.T) {
	targets := []Target{
		{Position: []math.Vec3{{X: 10, Y: -3}}, Normal: []math.Vec3{{X: 1}}, Tangent: []math.Vec3{{Y: 1}}},
		{Position: []math.Vec3{{Z: 4}}},
	}
	arr, err := Encode(1, targets)
	require.NoError(t, err)

	s, err := NewState([]float32{0, 0})
	require.NoError(t, err)
	assert.Equal(t, baseFrame(), Apply(s, arr, 0, baseFrame()))
}

func TestApplyWeightedSum(t *testing.T) {
	targets := []Target{
		{Position: []math.Vec3{{}, {X: 2}}, Normal: []math.Vec3{{}, {X: 1}}},
		{Position: []math.Vec3{{}, {Y: 4}}},
	}
	arr, err := Encode(2, targets)
	require.NoError(t, err)

	s, err := NewState([]float32{0.5, 0.25})
	require.NoError(t, err)

	out := Apply(s, arr, 1, baseFrame())
	assert.InDelta(t, 2.0, out.Position.X, 1e-6)
	assert.InDelta(t, 3.0, out.Position.Y, 1e-6)
	assert.InDelta(t, 3.0, out.Position.Z, 1e-6)
	assert.InDelta(t, 1.0, out.Position.W, 0)
	assert.InDelta(t, 0.5, out.Normal.X, 1e-6)
	// Target 0 has no tangent deltas, so no bitangent delta is derived.
	assert.Equal(t, math.Vec3{Z: 1}, out.Bitangent)
}

func TestApplyIgnoresCountBeyondLayers(t *testing.T) {
	arr, err := Encode(1, []Target{{Position: []math.Vec3{{X: 1}}}})
	require.NoError(t, err)

	s, err := NewState([]float32{1, 1, 1})
	require.NoError(t, err)
	out := Apply(s, arr, 0, baseFrame())
	assert.InDelta(t, 2.0, out.Position.X, 1e-6)
}
