// Package texture provides CPU-side textures, samplers and the morph delta texture array.
package texture

import (
	"errors"
	"image"

	"github.com/chewxy/math32"
	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

// ErrUnsupportedFormat is returned when an image cannot be decoded into a texture.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// WrapMode controls how coordinates outside [0,1] are resolved.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// FilterMode selects texel filtering within a mip level.
type FilterMode int

const (
	FilterLinear FilterMode = iota
	FilterNearest
)

// Sampler is a filtered 2D texture lookup.
type Sampler interface {
	// Sample looks up the base level.
	Sample(uv math.Vec2) math.Vec4
	// SampleLevel looks up an explicit level of detail, blending between mips.
	SampleLevel(uv math.Vec2, lod float32) math.Vec4
	// MipCount returns the number of mip levels, at least 1.
	MipCount() int
}

// Level is a single mip level of RGBA float texels, row-major, origin top-left.
type Level struct {
	Width  int
	Height int
	Texels []math.Vec4
}

// At returns the texel at (x, y). Coordinates must be in range.
func (l *Level) At(x, y int) math.Vec4 {
	return l.Texels[y*l.Width+x]
}

// Texture is an RGBA float texture with an optional mip chain.
type Texture struct {
	Levels []Level
	Wrap   WrapMode
	Filter FilterMode
}

var _ Sampler = (*Texture)(nil)

// Solid returns a 1x1 texture of the given color.
func Solid(c math.Vec4) *Texture {
	return &Texture{
		Levels: []Level{{Width: 1, Height: 1, Texels: []math.Vec4{c}}},
	}
}

// FromTexels builds a texture from raw texels. When generateMips is set the
// chain is built with a 2x2 box filter down to 1x1, which keeps values above 1.
func FromTexels(width, height int, texels []math.Vec4, generateMips bool) *Texture {
	tex := &Texture{Levels: []Level{{Width: width, Height: height, Texels: texels}}}
	if !generateMips {
		return tex
	}
	for {
		prev := &tex.Levels[len(tex.Levels)-1]
		if prev.Width == 1 && prev.Height == 1 {
			break
		}
		tex.Levels = append(tex.Levels, boxDownsample(prev))
	}
	return tex
}

func boxDownsample(src *Level) Level {
	w := max(src.Width/2, 1)
	h := max(src.Height/2, 1)
	dst := Level{Width: w, Height: h, Texels: make([]math.Vec4, w*h)}
	for y := 0; y < h; y++ {
		y0 := min(y*2, src.Height-1)
		y1 := min(y*2+1, src.Height-1)
		for x := 0; x < w; x++ {
			x0 := min(x*2, src.Width-1)
			x1 := min(x*2+1, src.Width-1)
			sum := src.At(x0, y0).Add(src.At(x1, y0)).Add(src.At(x0, y1)).Add(src.At(x1, y1))
			dst.Texels[y*w+x] = sum.Scale(0.25)
		}
	}
	return dst
}

// FromImage converts an image into a texture with straight alpha in [0,1].
// Mip levels are produced by bilinear downscaling of the previous level.
func FromImage(img image.Image, generateMips bool) *Texture {
	b := img.Bounds()
	base := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(base, base.Bounds(), img, b.Min, draw.Src)

	tex := &Texture{Levels: []Level{levelFromNRGBA64(base)}}
	if !generateMips {
		return tex
	}

	prev := base
	for prev.Bounds().Dx() > 1 || prev.Bounds().Dy() > 1 {
		w := max(prev.Bounds().Dx()/2, 1)
		h := max(prev.Bounds().Dy()/2, 1)
		next := image.NewNRGBA64(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		tex.Levels = append(tex.Levels, levelFromNRGBA64(next))
		prev = next
	}
	return tex
}

func levelFromNRGBA64(img *image.NRGBA64) Level {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	lvl := Level{Width: w, Height: h, Texels: make([]math.Vec4, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.NRGBA64At(x, y)
			lvl.Texels[y*w+x] = math.Vec4{
				X: float32(c.R) / 0xffff,
				Y: float32(c.G) / 0xffff,
				Z: float32(c.B) / 0xffff,
				W: float32(c.A) / 0xffff,
			}
		}
	}
	return lvl
}

// Width returns the base level width.
func (t *Texture) Width() int {
	return t.Levels[0].Width
}

// Height returns the base level height.
func (t *Texture) Height() int {
	return t.Levels[0].Height
}

// MipCount returns the number of mip levels.
func (t *Texture) MipCount() int {
	return len(t.Levels)
}

// Sample looks up the base level.
func (t *Texture) Sample(uv math.Vec2) math.Vec4 {
	return t.sampleLevel(&t.Levels[0], uv)
}

// SampleLevel looks up a fractional mip level, linearly blending the two nearest levels.
func (t *Texture) SampleLevel(uv math.Vec2, lod float32) math.Vec4 {
	maxLevel := float32(len(t.Levels) - 1)
	lod = math32.Max(0, math32.Min(lod, maxLevel))

	l0 := int(lod)
	frac := lod - float32(l0)
	a := t.sampleLevel(&t.Levels[l0], uv)
	if frac == 0 || l0+1 >= len(t.Levels) {
		return a
	}
	b := t.sampleLevel(&t.Levels[l0+1], uv)
	return a.Lerp(b, frac)
}

func (t *Texture) sampleLevel(l *Level, uv math.Vec2) math.Vec4 {
	if t.Filter == FilterNearest {
		x := t.wrap(int(math32.Floor(uv.X*float32(l.Width))), l.Width)
		y := t.wrap(int(math32.Floor(uv.Y*float32(l.Height))), l.Height)
		return l.At(x, y)
	}

	// Texel centers sit at half-integer coordinates.
	fx := uv.X*float32(l.Width) - 0.5
	fy := uv.Y*float32(l.Height) - 0.5
	x0f := math32.Floor(fx)
	y0f := math32.Floor(fy)
	tx := fx - x0f
	ty := fy - y0f

	x0 := t.wrap(int(x0f), l.Width)
	x1 := t.wrap(int(x0f)+1, l.Width)
	y0 := t.wrap(int(y0f), l.Height)
	y1 := t.wrap(int(y0f)+1, l.Height)

	top := l.At(x0, y0).Lerp(l.At(x1, y0), tx)
	bottom := l.At(x0, y1).Lerp(l.At(x1, y1), tx)
	return top.Lerp(bottom, ty)
}

func (t *Texture) wrap(i, n int) int {
	if t.Wrap == WrapClamp {
		return max(0, min(i, n-1))
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Image converts the base level back to an 8-bit image, clamping to [0,1].
func (t *Texture) Image() *image.NRGBA {
	l := &t.Levels[0]
	img := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	for i, c := range l.Texels {
		img.Pix[i*4+0] = to8(c.X)
		img.Pix[i*4+1] = to8(c.Y)
		img.Pix[i*4+2] = to8(c.Z)
		img.Pix[i*4+3] = to8(c.W)
	}
	return img
}

func to8(v float32) uint8 {
	v = math32.Max(0, math32.Min(v, 1))
	return uint8(v*255 + 0.5)
}
