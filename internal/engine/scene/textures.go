package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// checker builds a two-color checkerboard with cells per side.
func checker(size, cells int, a, b math.Vec4) *texture.Texture {
	texels := make([]math.Vec4, size*size)
	cell := max(size/cells, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			texels[y*size+x] = c
		}
	}
	return texture.FromTexels(size, size, texels, true)
}

// bumpNormals builds a tangent-space normal map of a sine bump field,
// encoded as rgb = n*0.5 + 0.5.
func bumpNormals(size int, freq, amplitude float32) *texture.Texture {
	texels := make([]math.Vec4, size*size)
	k := 2 * math.Pi * freq
	for y := 0; y < size; y++ {
		v := (float32(y) + 0.5) / float32(size)
		sinV, cosV := math32.Sincos(k * v)
		for x := 0; x < size; x++ {
			u := (float32(x) + 0.5) / float32(size)
			sinU, cosU := math32.Sincos(k * u)
			// Height h = A sin(ku) sin(kv); the normal is (-dh/du, -dh/dv, 1).
			n := math.Vec3{
				X: -amplitude * k * cosU * sinV,
				Y: -amplitude * k * sinU * cosV,
				Z: 1,
			}.Normalize()
			texels[y*size+x] = n.Scale(0.5).Add(math.Splat3(0.5)).Vec4(1)
		}
	}
	return texture.FromTexels(size, size, texels, true)
}

// skyGradient builds an equirectangular sky: horizon color at the middle
// row, zenith above and ground below.
func skyGradient(width, height int, zenith, horizon, ground math.Vec3) *texture.Texture {
	texels := make([]math.Vec4, width*height)
	for y := 0; y < height; y++ {
		// Row 0 is the top of the texture, which EquirectUV maps to up.
		elevation := 1 - 2*(float32(y)+0.5)/float32(height)
		var c math.Vec3
		if elevation >= 0 {
			c = horizon.Lerp(zenith, math32.Sqrt(elevation))
		} else {
			c = horizon.Lerp(ground, math32.Sqrt(-elevation))
		}
		for x := 0; x < width; x++ {
			texels[y*width+x] = c.Vec4(1)
		}
	}
	return texture.FromTexels(width, height, texels, true)
}
