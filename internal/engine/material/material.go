package material

import (
	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Descriptor holds the scalar material parameters and the textures-used mask.
type Descriptor struct {
	Name string

	AmbientColor   math.Vec3
	BaseColor      math.Vec3
	SpecularColor  math.Vec3
	HighlightColor math.Vec3

	Alpha             float32
	Shininess         float32
	Reflectivity      float32
	RefractionIndex   float32
	NormalMapStrength float32
	Roughness         float32

	// ReceiveShadow and RefractionIndex are carried for the uniform layout.
	// Shading does not read them.
	ReceiveShadow bool
	Unlit         bool

	TexturesUsed Flags
}

// Default returns an opaque white material.
func Default() Descriptor {
	return Descriptor{
		Name:              "default",
		BaseColor:         math.Vec3{X: 1, Y: 1, Z: 1},
		SpecularColor:     math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		HighlightColor:    math.Vec3{X: 1},
		Alpha:             1,
		Shininess:         150,
		RefractionIndex:   1,
		NormalMapStrength: 1,
		ReceiveShadow:     true,
	}
}

// Bindings holds the sampler bound to each channel, or nil.
type Bindings [NumChannels]texture.Sampler

// Flags derives the textures-used mask from the bound slots.
func (b *Bindings) Flags() Flags {
	var f Flags
	for c, s := range b {
		if s != nil {
			f |= 1 << Channel(c)
		}
	}
	return f
}

// Resolver answers material lookups for one fragment, sampling a channel
// only when its bit is set in the descriptor.
type Resolver struct {
	Desc     *Descriptor
	Bindings *Bindings
}

// NewResolver pairs a descriptor with its bindings. Bindings may be nil.
func NewResolver(desc *Descriptor, bindings *Bindings) Resolver {
	return Resolver{Desc: desc, Bindings: bindings}
}

// Sampler returns the sampler of a channel if its bit is set and a sampler is bound.
func (r Resolver) Sampler(c Channel) (texture.Sampler, bool) {
	if c >= NumChannels || !HasChannel(r.Desc.TexturesUsed, c) || r.Bindings == nil {
		return nil, false
	}
	s := r.Bindings[c]
	return s, s != nil
}

func (r Resolver) sample(c Channel, uv math.Vec2) (math.Vec4, bool) {
	s, ok := r.Sampler(c)
	if !ok {
		return math.Vec4{}, false
	}
	return s.Sample(uv), true
}

// Base returns the base color and the sampled base alpha: base texture
// alpha times alpha texture red, each only when bound.
func (r Resolver) Base(uv math.Vec2) (math.Vec3, float32) {
	color := r.Desc.BaseColor
	alpha := float32(1)
	if s, ok := r.sample(ChannelBase, uv); ok {
		color = color.Mul(s.XYZ())
		alpha = s.W
	}
	if s, ok := r.sample(ChannelAlpha, uv); ok {
		alpha *= s.X
	}
	return color, alpha
}

// Ambient returns the ambient color modulated by the ambient texture.
func (r Resolver) Ambient(uv math.Vec2) math.Vec3 {
	if s, ok := r.sample(ChannelAmbient, uv); ok {
		return r.Desc.AmbientColor.Mul(s.XYZ())
	}
	return r.Desc.AmbientColor
}

// Specular returns the specular color modulated by the specular texture.
func (r Resolver) Specular(uv math.Vec2) math.Vec3 {
	if s, ok := r.sample(ChannelSpecular, uv); ok {
		return r.Desc.SpecularColor.Mul(s.XYZ())
	}
	return r.Desc.SpecularColor
}

func (r Resolver) scalar(c Channel, base float32, uv math.Vec2) float32 {
	if s, ok := r.sample(c, uv); ok {
		return base * s.X
	}
	return base
}

// Shininess returns the specular exponent scaled by the shininess texture.
func (r Resolver) Shininess(uv math.Vec2) float32 {
	return r.scalar(ChannelShininess, r.Desc.Shininess, uv)
}

// Roughness returns the roughness scaled by the roughness texture.
func (r Resolver) Roughness(uv math.Vec2) float32 {
	return r.scalar(ChannelRoughness, r.Desc.Roughness, uv)
}

// Reflectivity returns the reflectivity scaled by the reflectivity texture.
func (r Resolver) Reflectivity(uv math.Vec2) float32 {
	return r.scalar(ChannelReflectivity, r.Desc.Reflectivity, uv)
}

// Occlusion returns the ambient occlusion factor if the channel is bound.
func (r Resolver) Occlusion(uv math.Vec2) (float32, bool) {
	s, ok := r.sample(ChannelAmbientOcclusion, uv)
	return s.X, ok
}

// NormalSample returns the tangent-space normal decoded from [0,1] to [-1,1].
func (r Resolver) NormalSample(uv math.Vec2) (math.Vec3, bool) {
	s, ok := r.sample(ChannelNormal, uv)
	if !ok {
		return math.Vec3{}, false
	}
	return s.XYZ().Scale(2).Sub(math.Vec3{X: 1, Y: 1, Z: 1}), true
}

// Environment returns the environment map if bound.
func (r Resolver) Environment() (texture.Sampler, bool) {
	return r.Sampler(ChannelEnvironment)
}

// Custom samples one of the four custom slots.
func (r Resolver) Custom(slot int, uv math.Vec2) (math.Vec4, bool) {
	if slot < 0 || slot > 3 {
		return math.Vec4{}, false
	}
	return r.sample(ChannelCustom0+Channel(slot), uv)
}
