// Package morph implements the morph target stage and the texture encoding
// of per-vertex morph deltas.
package morph

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

const (
	// MaxMorphTargets is the weight capacity of the morph target uniform.
	MaxMorphTargets = 128
	// ItemsPerVertex is the number of texels per vertex: position, normal,
	// tangent and bitangent deltas.
	ItemsPerVertex = 4
	// MaxTextureDimension caps the width of the morph texture.
	MaxTextureDimension = 8192
)

// Texel offsets of each delta within a vertex's run.
const (
	OffsetPosition = iota
	OffsetNormal
	OffsetTangent
	OffsetBitangent
)

var (
	// ErrTooManyTargets is returned when more than MaxMorphTargets targets are supplied.
	ErrTooManyTargets = errors.New("too many morph targets")
	// ErrTextureTooLarge is returned when the deltas do not fit the texture limits.
	ErrTextureTooLarge = errors.New("morph texture too large")
)

// State is the per-frame morph weight snapshot. A zero Count disables morphing.
type State struct {
	Weights [MaxMorphTargets]float32
	Count   int
}

// NewState copies target weights into a fixed-capacity state.
func NewState(weights []float32) (*State, error) {
	if len(weights) > MaxMorphTargets {
		return nil, fmt.Errorf("%d morph weights (max %d): %w", len(weights), MaxMorphTargets, ErrTooManyTargets)
	}
	s := &State{Count: len(weights)}
	copy(s.Weights[:], weights)
	return s, nil
}

// Active reports whether the state morphs vertices.
func (s *State) Active() bool {
	return s != nil && s.Count > 0
}

// Target holds the per-vertex deltas of one morph target. Missing or short
// slices are zero deltas.
type Target struct {
	Name      string
	Position  []math.Vec3
	Normal    []math.Vec3
	Tangent   []math.Vec3
	Bitangent []math.Vec3
}

// TextureSize returns the morph texture dimensions for a vertex count.
func TextureSize(vertexCount int) (width, height int) {
	n := vertexCount * ItemsPerVertex
	if n == 0 {
		return 1, 1
	}
	width = min(n, MaxTextureDimension)
	height = (n + width - 1) / width
	return width, height
}

// Address maps a vertex and delta offset to texel coordinates, row-major.
func Address(vertex uint32, offset, width int) (x, y int) {
	flat := int(vertex)*ItemsPerVertex + offset
	return flat % width, flat / width
}

// Encode writes the targets into a texture array, one layer per target.
// Bitangent deltas default to normalize(cross(normal, tangent)) when the
// target has normal and tangent deltas but no bitangents.
func Encode(vertexCount int, targets []Target) (*texture.Array, error) {
	if len(targets) > MaxMorphTargets {
		return nil, fmt.Errorf("%d morph targets (max %d): %w", len(targets), MaxMorphTargets, ErrTooManyTargets)
	}
	width, height := TextureSize(vertexCount)
	if height > MaxTextureDimension {
		return nil, fmt.Errorf("%d vertices need %dx%d texels: %w", vertexCount, width, height, ErrTextureTooLarge)
	}

	arr := texture.NewArray(width, height, max(len(targets), 1))
	for layer, tg := range targets {
		deriveBitangent := len(tg.Bitangent) == 0 && len(tg.Normal) > 0 && len(tg.Tangent) > 0
		for v := 0; v < vertexCount; v++ {
			write := func(offset int, d math.Vec3) {
				x, y := Address(uint32(v), offset, width)
				arr.Set(x, y, layer, d.Vec4(0))
			}
			write(OffsetPosition, at(tg.Position, v))
			n := at(tg.Normal, v)
			tan := at(tg.Tangent, v)
			write(OffsetNormal, n)
			write(OffsetTangent, tan)

			b := at(tg.Bitangent, v)
			if deriveBitangent {
				b = n.Cross(tan)
				if b.Length() > 1e-8 {
					b = b.Normalize()
				}
			}
			write(OffsetBitangent, b)
		}
	}
	return arr, nil
}

func at(s []math.Vec3, i int) math.Vec3 {
	if i < len(s) {
		return s[i]
	}
	return math.Vec3{}
}

// Apply adds the weighted deltas of every active target to the local frame.
// Position W is left untouched. With no active targets the frame is
// returned unchanged and the texture is not read.
func Apply(s *State, tex *texture.Array, vertex uint32, in model.Frame) model.Frame {
	if !s.Active() || tex == nil {
		return in
	}

	out := in
	count := min(s.Count, MaxMorphTargets, tex.Layers)
	for i := 0; i < count; i++ {
		w := s.Weights[i]
		fetch := func(offset int) math.Vec3 {
			x, y := Address(vertex, offset, tex.Width)
			return tex.Load(x, y, i).XYZ().Scale(w)
		}
		p := fetch(OffsetPosition)
		out.Position.X += p.X
		out.Position.Y += p.Y
		out.Position.Z += p.Z
		out.Normal = out.Normal.Add(fetch(OffsetNormal))
		out.Tangent = out.Tangent.Add(fetch(OffsetTangent))
		out.Bitangent = out.Bitangent.Add(fetch(OffsetBitangent))
	}
	return out
}
