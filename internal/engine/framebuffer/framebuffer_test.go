package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

func TestNewClearsToBlack(t *testing.T) {
	fb := New(4, 3)

	w, h := fb.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, math.Vec4{}, fb.Color(3, 2))
	assert.Equal(t, ClearDepth, fb.Depth(0, 0))
}

func TestResizeClampsToOnePixel(t *testing.T) {
	fb := New(2, 2)
	fb.Resize(0, -5)

	w, h := fb.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestSetAndBounds(t *testing.T) {
	fb := New(2, 2)
	red := math.Vec4{X: 1, W: 1}

	fb.Set(1, 0, red, 0.25)
	assert.Equal(t, red, fb.Color(1, 0))
	assert.Equal(t, float32(0.25), fb.Depth(1, 0))

	// Out of range writes and reads are harmless.
	fb.Set(2, 0, red, 0)
	fb.Set(-1, 0, red, 0)
	assert.Equal(t, math.Vec4{}, fb.Color(5, 5))
	assert.Equal(t, ClearDepth, fb.Depth(-1, 0))
}

func TestReadPixelsFlip(t *testing.T) {
	fb := New(1, 2)
	fb.Set(0, 0, math.Vec4{X: 1, W: 1}, 0)
	fb.Set(0, 1, math.Vec4{Z: 2, W: -1}, 0)

	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 0}, fb.ReadPixels(false))
	assert.Equal(t, []byte{0, 0, 255, 0, 255, 0, 0, 255}, fb.ReadPixels(true))
}

func TestImages(t *testing.T) {
	fb := New(2, 1)
	fb.Clear(math.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 1})
	fb.Set(1, 0, math.Vec4{W: 1}, 0)

	img := fb.Image()
	assert.Equal(t, []uint8{128, 128, 128, 255, 0, 0, 0, 255}, img.Pix)

	depth := fb.DepthImage()
	assert.Equal(t, uint16(0xffff), depth.Gray16At(0, 0).Y)
	assert.Equal(t, uint16(0), depth.Gray16At(1, 0).Y)
}
