package uniform

import (
	"fmt"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/vertex"
)

// Format is the type of one vertex attribute.
type Format int

const (
	Float32 Format = iota
	Float32x2
	Float32x3
	Float32x4
	Uint32x4
)

// Size returns the attribute size in bytes.
func (f Format) Size() int {
	switch f {
	case Float32:
		return 4
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4, Uint32x4:
		return 16
	default:
		return 0
	}
}

// String returns the WGSL-style format name.
func (f Format) String() string {
	switch f {
	case Float32:
		return "float32"
	case Float32x2:
		return "float32x2"
	case Float32x3:
		return "float32x3"
	case Float32x4:
		return "float32x4"
	case Uint32x4:
		return "uint32x4"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// StepMode is the rate at which a buffer stream advances.
type StepMode int

const (
	StepVertex StepMode = iota
	StepInstance
)

// Attribute describes one shader input location within a buffer stream.
type Attribute struct {
	Name     string
	Location int
	Format   Format
	Offset   int
}

// Layout describes one interleaved buffer stream.
type Layout struct {
	Stride     int
	StepMode   StepMode
	Attributes []Attribute
}

// Vertex stream byte offsets.
const (
	vertexPosition  = 0
	vertexUV        = 12
	vertexNormal    = 20
	vertexTangent   = 32
	vertexBitangent = 44
	vertexJoints    = 56
	vertexWeights   = 72

	// VertexStride is the size of one packed vertex.
	VertexStride = 88
	// InstanceStride is the size of one packed instance.
	InstanceStride = 72
)

// VertexLayout returns the per-vertex stream layout.
func VertexLayout() Layout {
	return Layout{
		Stride:   VertexStride,
		StepMode: StepVertex,
		Attributes: []Attribute{
			{Name: "position", Location: 0, Format: Float32x3, Offset: vertexPosition},
			{Name: "uv", Location: 1, Format: Float32x2, Offset: vertexUV},
			{Name: "normal", Location: 2, Format: Float32x3, Offset: vertexNormal},
			{Name: "tangent", Location: 3, Format: Float32x3, Offset: vertexTangent},
			{Name: "bitangent", Location: 4, Format: Float32x3, Offset: vertexBitangent},
			{Name: "joints", Location: 5, Format: Uint32x4, Offset: vertexJoints},
			{Name: "weights", Location: 6, Format: Float32x4, Offset: vertexWeights},
		},
	}
}

// InstanceLayout returns the per-instance stream layout. Its locations
// follow the vertex stream. The four model vectors are the matrix columns
// in the order a mat4x4 constructor takes them.
func InstanceLayout() Layout {
	return Layout{
		Stride:   InstanceStride,
		StepMode: StepInstance,
		Attributes: []Attribute{
			{Name: "model_0", Location: 7, Format: Float32x4, Offset: 0},
			{Name: "model_1", Location: 8, Format: Float32x4, Offset: 16},
			{Name: "model_2", Location: 9, Format: Float32x4, Offset: 32},
			{Name: "model_3", Location: 10, Format: Float32x4, Offset: 48},
			{Name: "alpha", Location: 11, Format: Float32, Offset: 64},
			{Name: "highlight", Location: 12, Format: Float32, Offset: 68},
		},
	}
}

// PackVertices interleaves vertices in the VertexLayout order.
// The morph index is not packed; the vertex index builtin addresses the
// morph texture.
func PackVertices(vertices []model.Vertex) []byte {
	w := newWriter(len(vertices) * VertexStride)
	for i := range vertices {
		v := &vertices[i]
		w.floats(v.Position.X, v.Position.Y, v.Position.Z)
		w.floats(v.UV.X, v.UV.Y)
		w.floats(v.Normal.X, v.Normal.Y, v.Normal.Z)
		w.floats(v.Tangent.X, v.Tangent.Y, v.Tangent.Z)
		w.floats(v.Bitangent.X, v.Bitangent.Y, v.Bitangent.Z)
		for _, j := range v.Joints {
			w.u32(j)
		}
		w.floats(v.Weights[:]...)
	}
	return w.buf
}

// PackInstances interleaves instances in the InstanceLayout order.
func PackInstances(instances []vertex.Instance) []byte {
	w := newWriter(len(instances) * InstanceStride)
	for i := range instances {
		in := &instances[i]
		w.floats(in.Model[:]...)
		w.floats(in.Alpha, in.Highlight)
	}
	return w.buf
}
