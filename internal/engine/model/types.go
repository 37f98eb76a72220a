// Package model provides vertex data, procedural meshes and joint animation.
package model

import "github.com/Faultbox/midgard-shade/pkg/math"

// JointsPerVertex is the number of joint influences a vertex carries.
const JointsPerVertex = 4

// Vertex holds the per-vertex attributes consumed by vertex assembly.
// Weights are used as given and are not required to sum to one.
type Vertex struct {
	Position  math.Vec3
	UV        math.Vec2
	Normal    math.Vec3
	Tangent   math.Vec3
	Bitangent math.Vec3
	Joints    [JointsPerVertex]uint32
	Weights   [JointsPerVertex]float32
	// Index addresses the vertex in the morph target texture.
	Index uint32
}

// Frame is the local attribute bundle transformed by the morph and skinning stages.
// Position is homogeneous; W is 1 for untouched vertices.
type Frame struct {
	Position  math.Vec4
	Normal    math.Vec3
	Tangent   math.Vec3
	Bitangent math.Vec3
}

// Frame returns the vertex's local attributes.
func (v *Vertex) Frame() Frame {
	return Frame{
		Position:  v.Position.Vec4(1),
		Normal:    v.Normal,
		Tangent:   v.Tangent,
		Bitangent: v.Bitangent,
	}
}

// Mesh holds indexed triangle data.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Skinned reports whether any vertex carries a nonzero joint weight.
func (m *Mesh) Skinned() bool {
	for i := range m.Vertices {
		for _, w := range m.Vertices[i].Weights {
			if w != 0 {
				return true
			}
		}
	}
	return false
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the box center.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns half the box diagonal.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Length() * 0.5
}

// Union returns the smallest box containing both boxes.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Transform returns the axis-aligned box around the eight transformed corners.
func (b Bounds) Transform(m math.Mat4) Bounds {
	var out Bounds
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.TransformPoint(c)
		if i == 0 {
			out = Bounds{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
