package raster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
	"github.com/Faultbox/midgard-shade/internal/engine/material"
	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/vertex"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

const size = 32

func frameFrom(eye math.Vec3) *Frame {
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(math.Radians(60), 1, 0.1, 100)
	return &Frame{Camera: camera.NewState(eye, view, proj)}
}

func unlit(color math.Vec3) *material.Descriptor {
	m := material.Default()
	m.Unlit = true
	m.BaseColor = color
	return &m
}

// facingQuad is a 2x2 quad parallel to the XY plane at depth z, facing +Z.
func facingQuad(m *material.Descriptor, z float32) DrawCall {
	xform := math.Translate(0, 0, z).Mul(math.RotateX(math.Pi / 2))
	return DrawCall{
		Mesh:      planeMesh,
		Instances: []vertex.Instance{vertex.NewInstance(xform)},
		Material:  m,
	}
}

var planeMesh = model.Plane(2, 1)

func render(t *testing.T, p *Pipeline, frame *Frame, calls ...DrawCall) (*framebuffer.Framebuffer, Stats) {
	t.Helper()
	fb := framebuffer.New(size, size)
	stats, err := p.Render(context.Background(), fb, frame, calls)
	require.NoError(t, err)
	return fb, stats
}

func TestRenderRequiresFramebuffer(t *testing.T) {
	p := &Pipeline{}
	_, err := p.Render(context.Background(), nil, frameFrom(math.Vec3{Z: 5}), nil)
	assert.ErrorIs(t, err, ErrNoFramebuffer)
}

func TestUnlitQuadCoversCenter(t *testing.T) {
	base := math.Vec3{X: 0.2, Y: 0.4, Z: 0.6}
	fb, stats := render(t, &Pipeline{CullBack: true}, frameFrom(math.Vec3{Z: 5}), facingQuad(unlit(base), 0))

	assert.Equal(t, 2, stats.Triangles)
	assert.Equal(t, 2, stats.Drawn)

	c := fb.Color(size/2, size/2)
	assert.InDelta(t, 0.2, c.X, 1e-5)
	assert.InDelta(t, 0.4, c.Y, 1e-5)
	assert.InDelta(t, 0.6, c.Z, 1e-5)
	assert.InDelta(t, 1.0, c.W, 1e-5)
	assert.Less(t, fb.Depth(size/2, size/2), framebuffer.ClearDepth)

	// Corners lie outside the quad.
	assert.Equal(t, math.Vec4{}, fb.Color(0, 0))
	assert.Equal(t, framebuffer.ClearDepth, fb.Depth(size-1, size-1))
}

func TestBackFaceCulling(t *testing.T) {
	behind := frameFrom(math.Vec3{Z: -5})
	quad := facingQuad(unlit(math.Vec3{X: 1}), 0)

	fb, stats := render(t, &Pipeline{CullBack: true}, behind, quad)
	assert.Equal(t, 2, stats.Culled)
	assert.Equal(t, math.Vec4{}, fb.Color(size/2, size/2))

	fb, _ = render(t, &Pipeline{}, behind, quad)
	assert.InDelta(t, 1.0, fb.Color(size/2, size/2).X, 1e-5)
}

func TestDepthTestIsOrderIndependent(t *testing.T) {
	near := facingQuad(unlit(math.Vec3{X: 1}), 1)
	far := facingQuad(unlit(math.Vec3{Y: 1}), 0)
	frame := frameFrom(math.Vec3{Z: 5})

	for name, calls := range map[string][]DrawCall{
		"near first": {near, far},
		"far first":  {far, near},
	} {
		t.Run(name, func(t *testing.T) {
			fb, _ := render(t, &Pipeline{}, frame, calls...)
			c := fb.Color(size/2, size/2)
			assert.InDelta(t, 1.0, c.X, 1e-5)
			assert.InDelta(t, 0.0, c.Y, 1e-5)
		})
	}
}

func TestDepthVariantWritesWhite(t *testing.T) {
	fb, _ := render(t, &Pipeline{Variant: Depth}, frameFrom(math.Vec3{Z: 5}), facingQuad(unlit(math.Vec3{X: 0.1}), 0))

	assert.Equal(t, math.Vec4{X: 1, Y: 1, Z: 1, W: 1}, fb.Color(size/2, size/2))
	d := fb.Depth(size/2, size/2)
	assert.Greater(t, d, float32(0))
	assert.Less(t, d, framebuffer.ClearDepth)
}

func TestAlphaDiscardWritesNothing(t *testing.T) {
	call := facingQuad(unlit(math.Vec3{X: 1}), 0)
	call.Instances[0].Alpha = 0.0000001

	fb, stats := render(t, &Pipeline{}, frameFrom(math.Vec3{Z: 5}), call)
	assert.Equal(t, 2, stats.Drawn)
	assert.Equal(t, math.Vec4{}, fb.Color(size/2, size/2))
	assert.Equal(t, framebuffer.ClearDepth, fb.Depth(size/2, size/2))
}

func TestNearPlaneClipping(t *testing.T) {
	frame := frameFrom(math.Vec3{Z: 5})

	// Entirely behind the camera.
	_, stats := render(t, &Pipeline{}, frame, facingQuad(unlit(math.Vec3{X: 1}), 10))
	assert.Equal(t, 2, stats.Clipped)
	assert.Zero(t, stats.Drawn)

	// A ground plane that passes under the camera is clipped, not dropped.
	ground := DrawCall{
		Mesh:      model.Plane(100, 1),
		Instances: []vertex.Instance{vertex.NewInstance(math.Translate(0, -1, 0))},
		Material:  unlit(math.Vec3{Z: 1}),
	}
	fb, stats := render(t, &Pipeline{CullBack: true}, frame, ground)
	assert.Zero(t, stats.Clipped)
	assert.Positive(t, stats.Drawn)
	assert.InDelta(t, 1.0, fb.Color(size/2, size-2).Z, 1e-5)
	assert.Equal(t, math.Vec4{}, fb.Color(size/2, 1))
}

func TestLitQuadReceivesLight(t *testing.T) {
	frame := frameFrom(math.Vec3{Z: 5})
	frame.Lights = []lighting.Light{{
		Kind:      lighting.Directional,
		Direction: math.Vec3{Z: -1},
		Color:     math.Vec3{X: 1, Y: 1, Z: 1},
		Intensity: 1,
	}}
	m := material.Default()
	call := facingQuad(&m, 0)

	fb, _ := render(t, &Pipeline{}, frame, call)
	c := fb.Color(size/2, size/2)
	assert.GreaterOrEqual(t, c.X, float32(0.99))

	frame.Lights = nil
	fb, _ = render(t, &Pipeline{}, frame, call)
	assert.InDelta(t, 1.0, fb.Color(size/2, size/2).X, 1e-5)
}

func TestOutputIndependentOfWorkers(t *testing.T) {
	frame := frameFrom(math.Vec3{X: 2, Y: 3, Z: 5})
	frame.Lights = []lighting.Light{{Kind: lighting.Point, Position: math.Vec3{Y: 4}, Color: math.Vec3{X: 1, Y: 1, Z: 1}}}
	sphere := DrawCall{
		Mesh:      model.Sphere(1.2, 12, 16),
		Instances: []vertex.Instance{vertex.NewInstance(math.Identity())},
	}
	calls := []DrawCall{sphere, facingQuad(nil, -0.5)}

	one, _ := render(t, &Pipeline{Workers: 1, CullBack: true}, frame, calls...)
	many, _ := render(t, &Pipeline{Workers: 7, CullBack: true}, frame, calls...)
	assert.Equal(t, one.ReadPixels(false), many.ReadPixels(false))
}

func TestRenderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{}
	_, err := p.Render(ctx, framebuffer.New(size, size), frameFrom(math.Vec3{Z: 5}), []DrawCall{facingQuad(nil, 0)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClipNearSplitsCrossingTriangle(t *testing.T) {
	a := vertex.Output{Clip: math.Vec4{W: 1}}
	b := vertex.Output{Clip: math.Vec4{X: 1, W: 1}}
	c := vertex.Output{Clip: math.Vec4{Y: 1, W: -1}}

	tris := clipNear([3]*vertex.Output{&a, &b, &c})
	require.Len(t, tris, 2)
	for _, tri := range tris {
		for _, v := range tri {
			assert.GreaterOrEqual(t, v.Clip.W, NearEpsilon*0.999)
		}
	}

	one := clipNear([3]*vertex.Output{&c, &a, &vertex.Output{Clip: math.Vec4{W: -2}}})
	assert.Len(t, one, 1)
}
