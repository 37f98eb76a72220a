// Package uniform packs the per-frame pipeline state into GPU-aligned,
// little-endian byte buffers. Every struct mirrors a uniform block and is
// padded to a multiple of 16 bytes.
package uniform

import (
	"encoding/binary"
	"unsafe"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
	"github.com/Faultbox/midgard-shade/internal/engine/material"
	"github.com/Faultbox/midgard-shade/internal/engine/morph"
	"github.com/Faultbox/midgard-shade/internal/engine/shading"
	"github.com/Faultbox/midgard-shade/internal/engine/skeleton"
)

// writer appends little-endian words into a preallocated buffer.
type writer struct {
	buf []byte
	off int
}

func newWriter(size int) *writer {
	return &writer{buf: make([]byte, size)}
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.off:w.off+4], v)
	w.off += 4
}

func (w *writer) f32(v float32) {
	w.u32(math32.Float32bits(v))
}

func (w *writer) floats(v ...float32) {
	for _, f := range v {
		w.f32(f)
	}
}

func (w *writer) pad(n int) {
	w.off += n
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Camera is the GPU-aligned camera block.
// Size: 144 bytes.
type Camera struct {
	ViewPos  [3]float32  // offset   0: eye position
	_pad0    float32     // offset  12: vec3 pad
	View     [16]float32 // offset  16: mat4x4<f32>
	ViewProj [16]float32 // offset  80: mat4x4<f32>
}

// NewCamera converts a camera snapshot into its uniform block.
func NewCamera(s camera.State) Camera {
	return Camera{ViewPos: s.Position.Array(), View: s.View, ViewProj: s.ViewProj}
}

// Size returns the size of the Camera struct in bytes.
//
// Returns:
//   - int: The size of the struct in bytes.
func (g *Camera) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the Camera struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *Camera) Marshal() []byte {
	w := newWriter(144)
	w.floats(g.ViewPos[:]...)
	w.pad(4)
	w.floats(g.View[:]...)
	w.floats(g.ViewProj[:]...)
	return w.buf
}

// Scene is the GPU-aligned tone stage block.
// Size: 16 bytes.
type Scene struct {
	Gamma    float32    // offset 0
	Exposure float32    // offset 4
	_pad0    [2]float32 // offset 8
}

// NewScene converts the tone parameters into their uniform block.
func NewScene(s shading.Scene) Scene {
	return Scene{Gamma: s.Gamma, Exposure: s.Exposure}
}

// Size returns the size of the Scene struct in bytes.
func (g *Scene) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the Scene struct into a 16-byte buffer.
func (g *Scene) Marshal() []byte {
	w := newWriter(16)
	w.floats(g.Gamma, g.Exposure)
	return w.buf
}

// LightCount is the GPU-aligned active light count.
// Size: 16 bytes.
type LightCount struct {
	Count uint32    // offset 0
	_pad0 [3]uint32 // offset 4
}

// Size returns the size of the LightCount struct in bytes.
func (g *LightCount) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the LightCount struct into a 16-byte buffer.
func (g *LightCount) Marshal() []byte {
	w := newWriter(16)
	w.u32(g.Count)
	return w.buf
}

// Light is one GPU-aligned light slot.
// Size: 64 bytes.
type Light struct {
	Position      [3]float32 // offset  0
	_pad0         float32    // offset 12
	Direction     [3]float32 // offset 16
	_pad1         float32    // offset 28
	Color         [3]float32 // offset 32
	_pad2         float32    // offset 44
	Intensity     float32    // offset 48
	MaxAngle      float32    // offset 52
	Kind          uint32     // offset 56
	DistanceBased uint32     // offset 60
}

// LightSize is the stride of one light slot.
const LightSize = 64

// NewLight converts a light descriptor into its slot layout.
func NewLight(l lighting.Light) Light {
	return Light{
		Position:      l.Position.Array(),
		Direction:     l.Direction.Array(),
		Color:         l.Color.Array(),
		Intensity:     l.Intensity,
		MaxAngle:      l.MaxAngle,
		Kind:          uint32(l.Kind),
		DistanceBased: boolU32(l.DistanceBased),
	}
}

func (g *Light) write(w *writer) {
	w.floats(g.Position[:]...)
	w.pad(4)
	w.floats(g.Direction[:]...)
	w.pad(4)
	w.floats(g.Color[:]...)
	w.pad(4)
	w.floats(g.Intensity, g.MaxAngle)
	w.u32(g.Kind)
	w.u32(g.DistanceBased)
}

// LightArray is the fixed-capacity light block. Slots past the active count
// are written as zero and never read.
// Size: 1280 bytes.
type LightArray struct {
	Lights [lighting.HardMaxLights]Light
}

// NewLightArray packs the active lights of a buffer. It returns the light
// array together with its count block.
func NewLightArray(b *lighting.Buffer) (LightArray, LightCount) {
	var arr LightArray
	active := b.Lights()
	for i := range active {
		arr.Lights[i] = NewLight(active[i])
	}
	return arr, LightCount{Count: uint32(len(active))}
}

// Size returns the size of the LightArray struct in bytes.
func (g *LightArray) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes every slot into a HardMaxLights*64 byte buffer.
func (g *LightArray) Marshal() []byte {
	w := newWriter(lighting.HardMaxLights * LightSize)
	for i := range g.Lights {
		g.Lights[i].write(w)
	}
	return w.buf
}

// Skeleton is the GPU-aligned joint block.
// Size: 256*64 + 16 bytes.
type Skeleton struct {
	Joints [skeleton.MaxJoints][16]float32 // offset     0: array<mat4x4<f32>, 256>
	Count  uint32                          // offset 16384
	_pad0  [3]uint32                       // offset 16388
}

// NewSkeleton converts a joint snapshot into its uniform block. A nil state
// packs as count zero.
func NewSkeleton(s *skeleton.State) Skeleton {
	var g Skeleton
	if s == nil {
		return g
	}
	n := min(s.Count, skeleton.MaxJoints)
	for i := 0; i < n; i++ {
		g.Joints[i] = s.Joints[i]
	}
	g.Count = uint32(n)
	return g
}

// Size returns the size of the Skeleton struct in bytes.
func (g *Skeleton) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the Skeleton struct into a byte buffer.
func (g *Skeleton) Marshal() []byte {
	w := newWriter(skeleton.MaxJoints*64 + 16)
	for i := range g.Joints {
		w.floats(g.Joints[i][:]...)
	}
	w.u32(g.Count)
	return w.buf
}

// MorphTarget is the GPU-aligned morph weight block. Uniform arrays use a
// 16-byte element stride, so each scalar weight occupies a vec4 slot with
// the weight in x.
// Size: 128*16 + 16 bytes.
type MorphTarget struct {
	Weights [morph.MaxMorphTargets][4]float32 // offset    0: array<vec4<f32>, 128>
	Count   uint32                            // offset 2048
	_pad0   [3]uint32                         // offset 2052
}

// NewMorphTarget converts a morph weight snapshot into its uniform block.
// A nil state packs as count zero.
func NewMorphTarget(s *morph.State) MorphTarget {
	var g MorphTarget
	if s == nil {
		return g
	}
	n := min(s.Count, morph.MaxMorphTargets)
	for i := 0; i < n; i++ {
		g.Weights[i][0] = s.Weights[i]
	}
	g.Count = uint32(n)
	return g
}

// Size returns the size of the MorphTarget struct in bytes.
func (g *MorphTarget) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the MorphTarget struct into a byte buffer.
func (g *MorphTarget) Marshal() []byte {
	w := newWriter(morph.MaxMorphTargets*16 + 16)
	for i := range g.Weights {
		w.floats(g.Weights[i][:]...)
	}
	w.u32(g.Count)
	return w.buf
}

// Material is the GPU-aligned material block.
// Size: 112 bytes.
type Material struct {
	AmbientColor      [3]float32 // offset   0
	_pad0             float32    // offset  12
	BaseColor         [3]float32 // offset  16
	_pad1             float32    // offset  28
	SpecularColor     [3]float32 // offset  32
	_pad2             float32    // offset  44
	HighlightColor    [3]float32 // offset  48
	_pad3             float32    // offset  60
	Alpha             float32    // offset  64
	Shininess         float32    // offset  68
	Reflectivity      float32    // offset  72
	RefractionIndex   float32    // offset  76
	NormalMapStrength float32    // offset  80
	Roughness         float32    // offset  84
	ReceiveShadow     uint32     // offset  88
	UnlitShading      uint32     // offset  92
	TexturesUsed      uint32     // offset  96
	_pad4             [3]uint32  // offset 100
}

// NewMaterial converts a material descriptor into its uniform block.
func NewMaterial(m *material.Descriptor) Material {
	return Material{
		AmbientColor:      m.AmbientColor.Array(),
		BaseColor:         m.BaseColor.Array(),
		SpecularColor:     m.SpecularColor.Array(),
		HighlightColor:    m.HighlightColor.Array(),
		Alpha:             m.Alpha,
		Shininess:         m.Shininess,
		Reflectivity:      m.Reflectivity,
		RefractionIndex:   m.RefractionIndex,
		NormalMapStrength: m.NormalMapStrength,
		Roughness:         m.Roughness,
		ReceiveShadow:     boolU32(m.ReceiveShadow),
		UnlitShading:      boolU32(m.Unlit),
		TexturesUsed:      uint32(m.TexturesUsed),
	}
}

// Size returns the size of the Material struct in bytes.
func (g *Material) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the Material struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload.
func (g *Material) Marshal() []byte {
	w := newWriter(112)
	for _, c := range [4][3]float32{g.AmbientColor, g.BaseColor, g.SpecularColor, g.HighlightColor} {
		w.floats(c[:]...)
		w.pad(4)
	}
	w.floats(g.Alpha, g.Shininess, g.Reflectivity, g.RefractionIndex, g.NormalMapStrength, g.Roughness)
	w.u32(g.ReceiveShadow)
	w.u32(g.UnlitShading)
	w.u32(g.TexturesUsed)
	return w.buf
}
