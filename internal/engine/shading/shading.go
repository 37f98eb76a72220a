// Package shading implements the fragment stage: material resolution,
// light accumulation and the post-lighting compositor.
package shading

import (
	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
	"github.com/Faultbox/midgard-shade/internal/engine/material"
	"github.com/Faultbox/midgard-shade/internal/engine/vertex"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Scene holds the tone stage parameters. Zero disables a stage.
type Scene struct {
	Gamma    float32
	Exposure float32
}

// Globals is the per-frame state shared by every fragment.
type Globals struct {
	Scene      Scene
	Lights     []lighting.Light
	LightCount int
}

// ActiveLights returns the number of lights that take part in shading.
func (g *Globals) ActiveLights() int {
	return max(0, min(g.LightCount, len(g.Lights), lighting.HardMaxLights))
}

// Shade computes the color of one fragment from its interpolated varyings.
// The second result reports an alpha discard; the color is then undefined.
func Shade(g *Globals, m *material.Descriptor, b *material.Bindings, v *vertex.Output) (math.Vec4, bool) {
	r := material.NewResolver(m, b)
	uv := v.UV

	base, baseAlpha := r.Base(uv)
	lit := !m.Unlit && g.ActiveLights() > 0

	var color math.Vec3
	var normal, view math.Vec3
	if lit {
		normal = v.Normal.Normalize()
		view = v.ViewDir.Normalize()
		if sample, ok := r.NormalSample(uv); ok {
			normal = NormalMap(normal, v.Tangent.Normalize(), v.Bitangent.Normalize(), sample, m.NormalMapStrength)
		}

		surface := lighting.Surface{
			Position:      v.WorldPosition,
			Normal:        normal,
			ViewDir:       view,
			BaseColor:     base,
			SpecularColor: r.Specular(uv),
			Shininess:     r.Shininess(uv),
		}
		color = lighting.Accumulate(g.Lights, g.LightCount, &surface)
	} else {
		color = base
	}

	color = AddAmbient(color, r.Ambient(uv))

	if lit {
		if ao, ok := r.Occlusion(uv); ok {
			color = ApplyOcclusion(color, ao)
		}
		if env, ok := r.Environment(); ok && m.Reflectivity > ReflectivityEpsilon {
			color = AddReflection(color, env, view, normal, r.Reflectivity(uv), r.Roughness(uv))
		}
	}

	color = ToneMap(color, g.Scene.Exposure)
	color = GammaCorrect(color, g.Scene.Gamma)
	color = Highlight(color, v.Highlight, m.HighlightColor)

	alpha, discard := ResolveAlpha(v.Alpha, baseAlpha, m.Alpha)
	return color.Vec4(alpha), discard
}

// ShadeDepth is the fragment stage of the depth variant.
func ShadeDepth() math.Vec4 {
	return math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
}
