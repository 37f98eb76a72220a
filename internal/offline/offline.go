// Package offline renders the scene headlessly into numbered PNG frames.
package offline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-shade/internal/config"
	"github.com/Faultbox/midgard-shade/internal/engine/debug"
	"github.com/Faultbox/midgard-shade/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-shade/internal/engine/raster"
	"github.com/Faultbox/midgard-shade/internal/engine/scene"
	"github.com/Faultbox/midgard-shade/internal/logger"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Summary describes a finished run.
type Summary struct {
	Frames    int
	Files     []string
	Triangles int
	Drawn     int
	Elapsed   time.Duration
}

// Renderer owns the framebuffers and pipelines of a headless run.
type Renderer struct {
	cfg     *config.Config
	scene   *scene.Scene
	color   *raster.Pipeline
	depth   *raster.Pipeline
	fb      *framebuffer.Framebuffer
	depthFB *framebuffer.Framebuffer
	capture *debug.ScreenshotCapture
	log     *zap.Logger
}

// New builds the scene and allocates framebuffers sized by the graphics
// settings.
func New(cfg *config.Config) (*Renderer, error) {
	sc, err := scene.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}

	log := logger.Named("offline")
	r := &Renderer{
		cfg:     cfg,
		scene:   sc,
		color:   &raster.Pipeline{Variant: raster.Color, CullBack: cfg.Render.CullBack, Workers: cfg.Render.Workers, Logger: log},
		fb:      framebuffer.New(cfg.Graphics.Width, cfg.Graphics.Height),
		capture: debug.NewScreenshotCapture(cfg.Output.Dir, cfg.Output.Prefix),
		log:     log,
	}
	if cfg.Render.DepthPrepass {
		// The light view sees back faces of thin geometry, so nothing is culled.
		r.depth = &raster.Pipeline{Variant: raster.Depth, Workers: cfg.Render.Workers, Logger: log}
		r.depthFB = framebuffer.New(cfg.Graphics.Width, cfg.Graphics.Height)
	}
	return r, nil
}

// Scene returns the scene being rendered.
func (r *Renderer) Scene() *scene.Scene {
	return r.scene
}

// Framebuffer returns the color pass target.
func (r *Renderer) Framebuffer() *framebuffer.Framebuffer {
	return r.fb
}

func (r *Renderer) clearColor() math.Vec4 {
	c := r.cfg.Render.ClearColor
	return math.Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]}
}

// FrameTime returns the scene time of frame n in seconds.
func (r *Renderer) FrameTime(n int) float32 {
	return float32(n) / r.cfg.Output.FPS
}

// RenderFrame renders frame n into the framebuffers without writing files.
func (r *Renderer) RenderFrame(ctx context.Context, n int) (raster.Stats, error) {
	t := r.FrameTime(n)

	if r.depth != nil {
		frame, calls, err := r.scene.DepthFrame(t)
		if err != nil {
			return raster.Stats{}, fmt.Errorf("frame %d depth scene: %w", n, err)
		}
		r.depthFB.Clear(math.Vec4{W: 1})
		if _, err := r.depth.Render(ctx, r.depthFB, frame, calls); err != nil {
			return raster.Stats{}, fmt.Errorf("frame %d depth pass: %w", n, err)
		}
	}

	width, height := r.fb.Size()
	frame, calls, err := r.scene.Frame(t, float32(width)/float32(height))
	if err != nil {
		return raster.Stats{}, fmt.Errorf("frame %d scene: %w", n, err)
	}
	r.fb.Clear(r.clearColor())
	stats, err := r.color.Render(ctx, r.fb, frame, calls)
	if err != nil {
		return stats, fmt.Errorf("frame %d color pass: %w", n, err)
	}
	return stats, nil
}

// Run renders every configured frame and writes them as PNG files.
func (r *Renderer) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	r.log.Info("rendering",
		zap.Int("frames", r.cfg.Output.Frames),
		zap.Float32("fps", r.cfg.Output.FPS),
		zap.Int("width", r.cfg.Graphics.Width),
		zap.Int("height", r.cfg.Graphics.Height),
		zap.Bool("depth_prepass", r.depth != nil),
		zap.String("dir", r.cfg.Output.Dir),
	)

	for n := 0; n < r.cfg.Output.Frames; n++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		frameStart := time.Now()
		stats, err := r.RenderFrame(ctx, n)
		if err != nil {
			return sum, err
		}

		path, err := r.capture.WriteFrame(r.fb, n)
		if err != nil {
			return sum, fmt.Errorf("frame %d: %w", n, err)
		}
		sum.Files = append(sum.Files, path)
		if r.depth != nil {
			depthPath, err := r.capture.WriteDepth(r.depthFB, n)
			if err != nil {
				return sum, fmt.Errorf("frame %d: %w", n, err)
			}
			sum.Files = append(sum.Files, depthPath)
		}

		sum.Frames++
		sum.Triangles += stats.Triangles
		sum.Drawn += stats.Drawn
		r.log.Debug("frame written",
			zap.Int("frame", n),
			zap.String("path", path),
			zap.Int("drawn", stats.Drawn),
			zap.Duration("elapsed", time.Since(frameStart)),
		)
	}

	sum.Elapsed = time.Since(start)
	r.log.Info("render finished",
		zap.Int("frames", sum.Frames),
		zap.Int("files", len(sum.Files)),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}
