package texture

import "github.com/Faultbox/midgard-shade/pkg/math"

// Array is an RGBA32F texture array addressed by integer texel fetches.
// It backs the morph target deltas: one layer per target.
type Array struct {
	Width  int
	Height int
	Layers int
	Texels []math.Vec4
}

// NewArray allocates a zeroed array texture.
func NewArray(width, height, layers int) *Array {
	return &Array{
		Width:  width,
		Height: height,
		Layers: layers,
		Texels: make([]math.Vec4, width*height*layers),
	}
}

func (a *Array) index(x, y, layer int) (int, bool) {
	if a == nil || x < 0 || y < 0 || layer < 0 || x >= a.Width || y >= a.Height || layer >= a.Layers {
		return 0, false
	}
	return (layer*a.Height+y)*a.Width + x, true
}

// Set writes a texel. It reports false if the coordinate is out of range.
func (a *Array) Set(x, y, layer int, v math.Vec4) bool {
	i, ok := a.index(x, y, layer)
	if !ok {
		return false
	}
	a.Texels[i] = v
	return true
}

// Load fetches a texel without filtering. Out of range fetches return zero,
// matching robust buffer access on the GPU.
func (a *Array) Load(x, y, layer int) math.Vec4 {
	i, ok := a.index(x, y, layer)
	if !ok {
		return math.Vec4{}
	}
	return a.Texels[i]
}

// ByteSize is the upload size of the array as RGBA32F.
func (a *Array) ByteSize() int {
	return len(a.Texels) * 16
}
