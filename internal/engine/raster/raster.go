// Package raster is a tile-parallel software rasterizer that hosts the
// vertex and fragment stages.
package raster

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
	"github.com/Faultbox/midgard-shade/internal/engine/material"
	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/morph"
	"github.com/Faultbox/midgard-shade/internal/engine/shading"
	"github.com/Faultbox/midgard-shade/internal/engine/skeleton"
	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/internal/engine/vertex"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// ErrNoFramebuffer is returned when Render is called without a target.
var ErrNoFramebuffer = errors.New("no framebuffer")

// Variant selects the fragment stage.
type Variant int

const (
	// Color runs the full shading pipeline.
	Color Variant = iota
	// Depth shares the vertex transform and writes depth with constant white.
	Depth
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case Color:
		return "color"
	case Depth:
		return "depth"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Pipeline holds the fixed-function state of a render pass.
type Pipeline struct {
	Variant  Variant
	CullBack bool
	// Workers is the number of horizontal bands rasterized in parallel.
	// Zero uses GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// DrawCall is one mesh drawn once per instance with shared per-draw state.
// Nil material uses material.Default. Nil skeleton or morph disables
// that stage.
type DrawCall struct {
	Mesh         *model.Mesh
	Instances    []vertex.Instance
	Material     *material.Descriptor
	Bindings     *material.Bindings
	Skeleton     *skeleton.State
	Morph        *morph.State
	MorphTexture *texture.Array
}

// Frame is the per-frame global state. Lights holds the active lights only.
type Frame struct {
	Camera camera.State
	Scene  shading.Scene
	Lights []lighting.Light
}

// Stats counts the work done by one Render call.
type Stats struct {
	Triangles int // submitted, per instance
	Clipped   int // fully behind the near plane
	Culled    int // back-facing, degenerate or off screen
	Drawn     int // sent to the band rasterizers
}

type screenVertex struct {
	x, y, z float32
	invW    float32
}

type drawState struct {
	material *material.Descriptor
	bindings *material.Bindings
}

type triangle struct {
	v    [3]vertex.Output
	s    [3]screenVertex
	area float32

	minX, maxX int
	minY, maxY int

	draw *drawState
}

func (p *Pipeline) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.NewNop()
}

// Render draws the calls into fb. Bands own disjoint rows and walk the
// triangles in submission order, so output does not depend on scheduling.
func (p *Pipeline) Render(ctx context.Context, fb *framebuffer.Framebuffer, frame *Frame, calls []DrawCall) (Stats, error) {
	var stats Stats
	if fb == nil {
		return stats, ErrNoFramebuffer
	}
	start := time.Now()
	width, height := fb.Size()

	var tris []triangle
	for i := range calls {
		call := &calls[i]
		if call.Mesh == nil || len(call.Instances) == 0 {
			continue
		}
		draw := &drawState{material: call.Material, bindings: call.Bindings}
		if draw.material == nil {
			def := material.Default()
			draw.material = &def
		}
		if draw.bindings == nil {
			draw.bindings = &material.Bindings{}
		}

		for _, inst := range call.Instances {
			out, err := p.assemble(ctx, frame, call, inst)
			if err != nil {
				return stats, fmt.Errorf("vertex stage %s: %w", call.Mesh.Name, err)
			}
			tris = p.setup(tris, out, call.Mesh.Indices, draw, width, height, &stats)
		}
	}
	stats.Drawn = len(tris)

	globals := &shading.Globals{
		Scene:      frame.Scene,
		Lights:     frame.Lights,
		LightCount: len(frame.Lights),
	}

	bands := min(p.workers(), height)
	bandHeight := (height + bands - 1) / bands
	g, gctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < height; y0 += bandHeight {
		y0 := y0
		y1 := min(y0+bandHeight, height)
		g.Go(func() error {
			return p.rasterBand(gctx, fb, globals, tris, y0, y1)
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("raster: %w", err)
	}

	p.logger().Debug("frame rendered",
		zap.Stringer("variant", p.Variant),
		zap.Int("triangles", stats.Triangles),
		zap.Int("drawn", stats.Drawn),
		zap.Int("culled", stats.Culled),
		zap.Int("clipped", stats.Clipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return stats, nil
}

// assemble runs the vertex stage over every vertex of one instance.
func (p *Pipeline) assemble(ctx context.Context, frame *Frame, call *DrawCall, inst vertex.Instance) ([]vertex.Output, error) {
	in := vertex.Input{
		Camera:       frame.Camera,
		Skeleton:     call.Skeleton,
		Morph:        call.Morph,
		MorphTexture: call.MorphTexture,
		Instance:     inst,
	}
	verts := call.Mesh.Vertices
	out := make([]vertex.Output, len(verts))
	if len(verts) == 0 {
		return out, nil
	}

	chunk := (len(verts) + p.workers() - 1) / p.workers()
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(verts); start += chunk {
		start := start
		end := min(start+chunk, len(verts))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				if p.Variant == Depth {
					out[i] = vertex.AssembleDepth(frame.Camera.ViewProj, &in, &verts[i])
				} else {
					out[i] = vertex.Assemble(&in, &verts[i])
				}
			}
			return nil
		})
	}
	return out, g.Wait()
}

// setup clips, projects and culls the triangles of one instance.
func (p *Pipeline) setup(tris []triangle, out []vertex.Output, indices []uint32, draw *drawState, width, height int, stats *Stats) []triangle {
	n := uint32(len(out))
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		stats.Triangles++

		clipped := clipNear([3]*vertex.Output{&out[i0], &out[i1], &out[i2]})
		if len(clipped) == 0 {
			stats.Clipped++
			continue
		}
		for _, c := range clipped {
			tri, ok := p.project(c, width, height)
			if !ok {
				stats.Culled++
				continue
			}
			tri.draw = draw
			tris = append(tris, tri)
		}
	}
	return tris
}

// edge is twice the signed area of (a, b, p). It is negative when p lies
// counter-clockwise of a->b in y-up space.
func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// project maps a clipped triangle to the viewport. Row 0 is the top of the
// image, so front faces (counter-clockwise in NDC) have a negative area.
func (p *Pipeline) project(v [3]vertex.Output, width, height int) (triangle, bool) {
	tri := triangle{v: v}
	w, h := float32(width), float32(height)
	for i := range v {
		invW := 1 / v[i].Clip.W
		tri.s[i] = screenVertex{
			x:    (v[i].Clip.X*invW*0.5 + 0.5) * w,
			y:    (0.5 - v[i].Clip.Y*invW*0.5) * h,
			z:    v[i].Clip.Z*invW*0.5 + 0.5,
			invW: invW,
		}
	}

	tri.area = edge(tri.s[0], tri.s[1], tri.s[2].x, tri.s[2].y)
	if tri.area == 0 || math32.IsNaN(tri.area) {
		return tri, false
	}
	if p.CullBack && tri.area > 0 {
		return tri, false
	}

	s0, s1, s2 := tri.s[0], tri.s[1], tri.s[2]
	minX := math.Clamp(math32.Floor(min(s0.x, s1.x, s2.x)), 0, w)
	maxX := math.Clamp(math32.Ceil(max(s0.x, s1.x, s2.x)), -1, w-1)
	minY := math.Clamp(math32.Floor(min(s0.y, s1.y, s2.y)), 0, h)
	maxY := math.Clamp(math32.Ceil(max(s0.y, s1.y, s2.y)), -1, h-1)
	tri.minX, tri.maxX = int(minX), int(maxX)
	tri.minY, tri.maxY = int(minY), int(maxY)
	if tri.minX > tri.maxX || tri.minY > tri.maxY {
		return tri, false
	}
	return tri, true
}

// rasterBand draws the rows [y0, y1) of every triangle.
func (p *Pipeline) rasterBand(ctx context.Context, fb *framebuffer.Framebuffer, g *shading.Globals, tris []triangle, y0, y1 int) error {
	for i := range tris {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		t := &tris[i]
		if t.maxY < y0 || t.minY >= y1 {
			continue
		}
		p.rasterTriangle(fb, g, t, max(t.minY, y0), min(t.maxY, y1-1))
	}
	return nil
}

func (p *Pipeline) rasterTriangle(fb *framebuffer.Framebuffer, g *shading.Globals, t *triangle, ya, yb int) {
	s0, s1, s2 := t.s[0], t.s[1], t.s[2]
	invArea := 1 / t.area

	for y := ya; y <= yb; y++ {
		py := float32(y) + 0.5
		for x := t.minX; x <= t.maxX; x++ {
			px := float32(x) + 0.5

			w0 := edge(s1, s2, px, py) * invArea
			w1 := edge(s2, s0, px, py) * invArea
			w2 := edge(s0, s1, px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*s0.z + w1*s1.z + w2*s2.z
			if z < 0 || z > 1 || z >= fb.Depth(x, y) {
				continue
			}

			if p.Variant == Depth {
				fb.Set(x, y, shading.ShadeDepth(), z)
				continue
			}

			// Perspective-correct barycentrics.
			b0, b1, b2 := w0*s0.invW, w1*s1.invW, w2*s2.invW
			sum := b0 + b1 + b2
			b0, b1, b2 = b0/sum, b1/sum, b2/sum

			vary := vertex.Blend(&t.v[0], &t.v[1], &t.v[2], b0, b1, b2)
			color, discard := shading.Shade(g, t.draw.material, t.draw.bindings, &vary)
			if discard {
				continue
			}
			fb.Set(x, y, color, z)
		}
	}
}
