package shading

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Stage thresholds.
const (
	ReflectivityEpsilon = 0.001
	ToneEpsilon         = 0.0001
	HighlightEpsilon    = 0.0001
	AlphaDiscard        = 0.000001
)

// Equirectangular mapping scale: 1/(2*pi) and 1/pi.
var invAtan = math.Vec2{X: 0.1591, Y: 0.3183}

// NormalMap perturbs the geometric normal by a decoded tangent-space sample.
// Strength scales the sample's X and Y before the TBN transform.
func NormalMap(normal, tangent, bitangent, sample math.Vec3, strength float32) math.Vec3 {
	return tangent.Scale(sample.X * strength).
		Add(bitangent.Scale(sample.Y * strength)).
		Add(normal.Scale(sample.Z)).
		Normalize()
}

// EquirectUV maps a unit direction to equirectangular texture coordinates
// with V flipped so +Y samples the top row.
func EquirectUV(dir math.Vec3) math.Vec2 {
	u := math32.Atan2(dir.Z, dir.X)*invAtan.X + 0.5
	v := math32.Asin(math.Clamp(dir.Y, -1, 1))*invAtan.Y + 0.5
	return math.Vec2{X: u, Y: 1 - v}
}

// EnvironmentMip selects the environment level of detail from roughness.
func EnvironmentMip(roughness float32, mips int) float32 {
	return roughness * float32(max(mips, 1)-1)
}

// AddAmbient adds the resolved ambient color.
func AddAmbient(color, ambient math.Vec3) math.Vec3 {
	return color.Add(ambient)
}

// ApplyOcclusion multiplies by the ambient occlusion factor.
func ApplyOcclusion(color math.Vec3, occlusion float32) math.Vec3 {
	return color.Scale(occlusion)
}

// AddReflection adds the environment seen along the reflected view ray,
// scaled by reflectivity and blurred by roughness through the mip chain.
func AddReflection(color math.Vec3, env texture.Sampler, viewDir, normal math.Vec3, reflectivity, roughness float32) math.Vec3 {
	r := viewDir.Negate().Reflect(normal).Normalize()
	sample := env.SampleLevel(EquirectUV(r), EnvironmentMip(roughness, env.MipCount()))
	return color.Add(sample.XYZ().Scale(reflectivity))
}

// ToneMap applies 1 - exp(-color * exposure). Exposure at or below
// ToneEpsilon disables it.
func ToneMap(color math.Vec3, exposure float32) math.Vec3 {
	if exposure <= ToneEpsilon {
		return color
	}
	return math.Splat3(1).Sub(color.Scale(-exposure).Exp())
}

// GammaCorrect applies pow(color, 1/gamma). Gamma at or below ToneEpsilon
// disables it.
func GammaCorrect(color math.Vec3, gamma float32) math.Vec3 {
	if gamma <= ToneEpsilon {
		return color
	}
	return color.Max(math.Vec3{}).Pow(1 / gamma)
}

// Highlight blends half way towards the highlight color when the instance
// is highlighted.
func Highlight(color math.Vec3, highlight float32, highlightColor math.Vec3) math.Vec3 {
	if highlight <= HighlightEpsilon {
		return color
	}
	return color.Scale(0.5).Add(highlightColor.Scale(0.5))
}

// ResolveAlpha multiplies the alpha sources and reports whether the
// fragment is discarded.
func ResolveAlpha(instance, base, material float32) (float32, bool) {
	alpha := instance * base * material
	return alpha, alpha < AlphaDiscard
}
