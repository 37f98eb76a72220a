// Package vertex implements vertex assembly: morphing, skinning, the model
// transform and normal correction for a single vertex.
package vertex

import (
	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/morph"
	"github.com/Faultbox/midgard-shade/internal/engine/skeleton"
	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Instance holds the per-instance attributes of a draw.
type Instance struct {
	Model     math.Mat4
	Alpha     float32
	Highlight float32
}

// NewInstance returns an opaque, unhighlighted instance with the given model matrix.
func NewInstance(m math.Mat4) Instance {
	return Instance{Model: m, Alpha: 1}
}

// Input bundles the per-draw state vertex assembly reads. Nil skeleton or
// morph states disable those stages.
type Input struct {
	Camera       camera.State
	Skeleton     *skeleton.State
	Morph        *morph.State
	MorphTexture *texture.Array
	Instance     Instance
}

// Output is the per-vertex result consumed by rasterization and shading.
// Normal, Tangent, Bitangent and ViewDir are not normalized.
type Output struct {
	Clip          math.Vec4
	WorldPosition math.Vec3
	Normal        math.Vec3
	Tangent       math.Vec3
	Bitangent     math.Vec3
	ViewDir       math.Vec3
	UV            math.Vec2
	Alpha         float32
	Highlight     float32
}

// world morphs the local frame, skins it and applies the model matrix.
// Morphing happens in local space before skinning.
func world(in *Input, v *model.Vertex) (math.Vec3, model.Frame) {
	local := v.Frame()
	local = morph.Apply(in.Morph, in.MorphTexture, v.Index, local)
	local = skeleton.Skin(in.Skeleton, v, local)

	pos := in.Instance.Model.MulVec4(local.Position).PerspectiveDivide()
	return pos, local
}

// Assemble runs the vertex stage for one vertex of one instance.
func Assemble(in *Input, v *model.Vertex) Output {
	pos, local := world(in, v)
	m := in.Instance.Model

	return Output{
		Clip:          in.Camera.ViewProj.MulVec4(pos.Vec4(1)),
		WorldPosition: pos,
		Normal:        math.NormalTransform(m, local.Normal),
		Tangent:       math.NormalTransform(m, local.Tangent),
		Bitangent:     math.NormalTransform(m, local.Bitangent),
		ViewDir:       in.Camera.Position.Sub(pos),
		UV:            v.UV,
		Alpha:         in.Instance.Alpha,
		Highlight:     in.Instance.Highlight,
	}
}

// AssembleDepth runs the shared transform and projects with lightViewProj.
// Only the clip position is produced.
func AssembleDepth(lightViewProj math.Mat4, in *Input, v *model.Vertex) Output {
	pos, _ := world(in, v)
	return Output{
		Clip:          lightViewProj.MulVec4(pos.Vec4(1)),
		WorldPosition: pos,
		Alpha:         1,
	}
}

// Lerp interpolates every attribute of two outputs linearly.
func Lerp(a, b *Output, t float32) Output {
	return Output{
		Clip:          a.Clip.Lerp(b.Clip, t),
		WorldPosition: a.WorldPosition.Lerp(b.WorldPosition, t),
		Normal:        a.Normal.Lerp(b.Normal, t),
		Tangent:       a.Tangent.Lerp(b.Tangent, t),
		Bitangent:     a.Bitangent.Lerp(b.Bitangent, t),
		ViewDir:       a.ViewDir.Lerp(b.ViewDir, t),
		UV:            a.UV.Add(b.UV.Sub(a.UV).Scale(t)),
		Alpha:         a.Alpha + (b.Alpha-a.Alpha)*t,
		Highlight:     a.Highlight + (b.Highlight-a.Highlight)*t,
	}
}

// Blend combines three outputs with barycentric weights. Clip is not blended.
func Blend(a, b, c *Output, w0, w1, w2 float32) Output {
	mix3 := func(x, y, z math.Vec3) math.Vec3 {
		return x.Scale(w0).Add(y.Scale(w1)).Add(z.Scale(w2))
	}
	return Output{
		WorldPosition: mix3(a.WorldPosition, b.WorldPosition, c.WorldPosition),
		Normal:        mix3(a.Normal, b.Normal, c.Normal),
		Tangent:       mix3(a.Tangent, b.Tangent, c.Tangent),
		Bitangent:     mix3(a.Bitangent, b.Bitangent, c.Bitangent),
		ViewDir:       mix3(a.ViewDir, b.ViewDir, c.ViewDir),
		UV:            a.UV.Scale(w0).Add(b.UV.Scale(w1)).Add(c.UV.Scale(w2)),
		Alpha:         a.Alpha*w0 + b.Alpha*w1 + c.Alpha*w2,
		Highlight:     a.Highlight*w0 + b.Highlight*w1 + c.Highlight*w2,
	}
}
