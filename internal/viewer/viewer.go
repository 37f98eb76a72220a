// Package viewer implements the interactive loop that renders the scene in
// software and presents it in an SDL2 window.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-shade/internal/config"
	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/debug"
	"github.com/Faultbox/midgard-shade/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-shade/internal/engine/input"
	"github.com/Faultbox/midgard-shade/internal/engine/picking"
	"github.com/Faultbox/midgard-shade/internal/engine/raster"
	"github.com/Faultbox/midgard-shade/internal/engine/renderer"
	"github.com/Faultbox/midgard-shade/internal/engine/scene"
	"github.com/Faultbox/midgard-shade/internal/engine/window"
	"github.com/Faultbox/midgard-shade/internal/logger"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// App is the main viewer instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	orbit    *input.OrbitController
	scene    *scene.Scene
	pipeline *raster.Pipeline
	fb       *framebuffer.Framebuffer
	capture  *debug.ScreenshotCapture
	log      *zap.Logger

	start      time.Time
	now        float32
	lastCamera camera.State
}

// New creates the window, GL presenter and scene.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("viewer")
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	sc, err := scene.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}

	a := &App{
		cfg:      cfg,
		scene:    sc,
		input:    input.New(),
		orbit:    input.NewOrbitController(sc.Camera()),
		pipeline: &raster.Pipeline{CullBack: cfg.Render.CullBack, Workers: cfg.Render.Workers, Logger: log},
		capture:  debug.NewScreenshotCapture(cfg.Output.Dir, "screenshot"),
		log:      log,
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      "Midgard Shade",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		ClearColor: cfg.Render.ClearColor,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.fb = framebuffer.New(dw, dh)
	log.Info("viewer initialized", zap.Int("drawable_width", dw), zap.Int("drawable_height", dh))
	return a, nil
}

// Run starts the main loop. It returns when the window closes, Escape is
// pressed or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.running = true
	a.start = time.Now()

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameStats raster.Stats

	a.log.Info("starting render loop")

	for a.running {
		if err := ctx.Err(); err != nil {
			a.log.Info("render loop cancelled", zap.Error(err))
			return nil
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		a.orbit.Apply(a.input.Events(), float32(dt))

		stats, err := a.render(ctx)
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		frameStats = stats

		if a.input.IsKeyPressed(sdl.SCANCODE_F12) {
			if path, err := a.capture.Capture(a.fb); err != nil {
				a.log.Warn("screenshot failed", zap.Error(err))
			} else {
				a.log.Info("screenshot saved", zap.String("path", path))
			}
		}

		a.renderer.Present(a.fb)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float64("dt_ms", dt*1000),
				zap.Int("drawn", frameStats.Drawn),
				zap.Int("culled", frameStats.Culled),
			)
			a.window.SetTitle(fmt.Sprintf("Midgard Shade - %d fps", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// Event sizes are in points, the framebuffer follows drawable pixels.
			dw, dh := a.window.DrawableSize()
			a.renderer.Resize(dw, dh)
			a.fb.Resize(dw, dh)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_F:
				b := a.scene.Bounds()
				a.scene.Camera().FitToBounds(b.Min, b.Max)
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_RIGHT {
				a.pick(event.MouseX, event.MouseY)
			}
		}
	}
}

// pick toggles the highlight of the instance under the cursor. Mouse
// coordinates are in window points.
func (a *App) pick(x, y int) {
	ww, wh := a.window.GetSize()
	fw, fh := a.fb.Size()
	sx := float32(x) * float32(fw) / float32(ww)
	sy := float32(y) * float32(fh) / float32(wh)

	ray := picking.ScreenToRay(sx, sy, float32(fw), float32(fh), a.lastCamera.ViewProj.Inverse())
	if hit, ok := a.scene.Pick(ray, a.now); ok {
		a.scene.ToggleHighlight(hit)
	}
}

func (a *App) render(ctx context.Context) (raster.Stats, error) {
	width, height := a.fb.Size()
	a.now = float32(time.Since(a.start).Seconds())

	frame, calls, err := a.scene.Frame(a.now, float32(width)/float32(height))
	if err != nil {
		return raster.Stats{}, err
	}
	a.lastCamera = frame.Camera
	c := a.cfg.Render.ClearColor
	a.fb.Clear(math.Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]})
	return a.pipeline.Render(ctx, a.fb, frame, calls)
}

// Close cleans up viewer resources.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
