// Package framebuffer provides the CPU render target: an RGBA float color
// attachment and a depth attachment.
package framebuffer

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

// ClearDepth is the depth every pixel is reset to. Depth values lie in [0, 1].
const ClearDepth float32 = 1

// Framebuffer is a render target with color and depth attachments.
// Row 0 is the top of the image.
type Framebuffer struct {
	width  int
	height int
	color  []math.Vec4
	depth  []float32
}

// New creates a new framebuffer with the specified dimensions.
func New(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	fb.Clear(math.Vec4{})
	return fb
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.width, fb.height
}

// Resize updates the framebuffer dimensions if they have changed.
// Contents are undefined after a resize until the next Clear.
func (fb *Framebuffer) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	if width == fb.width && height == fb.height {
		return
	}

	fb.width = width
	fb.height = height
	fb.color = make([]math.Vec4, width*height)
	fb.depth = make([]float32, width*height)
}

// Clear resets every pixel to c and every depth to ClearDepth.
func (fb *Framebuffer) Clear(c math.Vec4) {
	for i := range fb.color {
		fb.color[i] = c
		fb.depth[i] = ClearDepth
	}
}

func (fb *Framebuffer) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return 0, false
	}
	return y*fb.width + x, true
}

// Set writes a color and depth. Out of range writes are ignored.
func (fb *Framebuffer) Set(x, y int, c math.Vec4, depth float32) {
	if i, ok := fb.index(x, y); ok {
		fb.color[i] = c
		fb.depth[i] = depth
	}
}

// Color returns the color at (x, y), or zero when out of range.
func (fb *Framebuffer) Color(x, y int) math.Vec4 {
	if i, ok := fb.index(x, y); ok {
		return fb.color[i]
	}
	return math.Vec4{}
}

// Depth returns the depth at (x, y), or ClearDepth when out of range.
func (fb *Framebuffer) Depth(x, y int) float32 {
	if i, ok := fb.index(x, y); ok {
		return fb.depth[i]
	}
	return ClearDepth
}

func toByte(v float32) uint8 {
	return uint8(math32.Round(math.Clamp(v, 0, 1) * 255))
}

// ReadPixels returns the color attachment as tightly packed RGBA8.
// With flip set the rows are ordered bottom-up, as OpenGL texture uploads expect.
func (fb *Framebuffer) ReadPixels(flip bool) []byte {
	pixels := make([]byte, fb.width*fb.height*4)
	rowSize := fb.width * 4
	for y := 0; y < fb.height; y++ {
		dstY := y
		if flip {
			dstY = fb.height - 1 - y
		}
		row := pixels[dstY*rowSize : (dstY+1)*rowSize]
		for x := 0; x < fb.width; x++ {
			c := fb.color[y*fb.width+x]
			row[x*4+0] = toByte(c.X)
			row[x*4+1] = toByte(c.Y)
			row[x*4+2] = toByte(c.Z)
			row[x*4+3] = toByte(c.W)
		}
	}
	return pixels
}

// Image returns the color attachment as a straight-alpha image.
func (fb *Framebuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.width, fb.height))
	copy(img.Pix, fb.ReadPixels(false))
	return img
}

// DepthImage returns the depth attachment as a grayscale image, near is black.
func (fb *Framebuffer) DepthImage() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			d := math.Clamp(fb.depth[y*fb.width+x], 0, 1)
			img.SetGray16(x, y, color.Gray16{Y: uint16(math32.Round(d * 0xffff))})
		}
	}
	return img
}
