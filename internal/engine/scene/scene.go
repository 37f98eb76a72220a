// Package scene builds the demo scene rendered by the viewer and the
// headless renderer: a textured ground, a reflective normal-mapped orb,
// a skinned arm, a morphing blob and a row of instanced pillars.
package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-shade/internal/config"
	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/morph"
	"github.com/Faultbox/midgard-shade/internal/engine/picking"
	"github.com/Faultbox/midgard-shade/internal/engine/raster"
	"github.com/Faultbox/midgard-shade/internal/engine/shading"
	"github.com/Faultbox/midgard-shade/internal/engine/shadow"
	"github.com/Faultbox/midgard-shade/internal/engine/skeleton"
	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/internal/logger"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Scene holds the static scene description and its per-frame evaluation.
type Scene struct {
	cfg     *config.Config
	lights  *lighting.Buffer
	orbit   *camera.OrbitCamera
	objects []*Object
	bounds  model.Bounds
	log     *zap.Logger
}

// New builds the demo scene from the configuration.
func New(cfg *config.Config) (*Scene, error) {
	log := logger.Named("scene")

	lights, err := newLightBuffer(cfg)
	if err != nil {
		return nil, fmt.Errorf("scene lights: %w", err)
	}

	env, err := environment(cfg.Render.EnvironmentMap, log)
	if err != nil {
		return nil, err
	}

	b, err := blob()
	if err != nil {
		return nil, fmt.Errorf("scene blob: %w", err)
	}

	s := &Scene{
		cfg:     cfg,
		lights:  lights,
		orbit:   orbitFromConfig(cfg.Camera),
		objects: []*Object{ground(), orb(env), arm(), b, pillars()},
		log:     log,
	}

	s.bounds = s.objects[0].bounds()
	for _, o := range s.objects[1:] {
		s.bounds = s.bounds.Union(o.bounds())
	}

	log.Info("scene built",
		zap.Int("objects", len(s.objects)),
		zap.Int("lights", lights.Count()),
		zap.Int("capacity", lights.Capacity()),
	)
	return s, nil
}

// environment loads the configured environment map or falls back to a
// procedural sky.
func environment(path string, log *zap.Logger) (texture.Sampler, error) {
	if path == "" {
		return skyGradient(256, 128,
			math.Vec3{X: 0.25, Y: 0.45, Z: 0.85},
			math.Vec3{X: 0.85, Y: 0.85, Z: 0.8},
			math.Vec3{X: 0.2, Y: 0.18, Z: 0.15},
		), nil
	}
	tex, err := texture.Load(path)
	if err != nil {
		return nil, fmt.Errorf("environment map: %w", err)
	}
	log.Info("environment map loaded",
		zap.String("path", path),
		zap.Int("width", tex.Width()),
		zap.Int("height", tex.Height()),
		zap.Int("mips", tex.MipCount()),
	)
	return tex, nil
}

func orbitFromConfig(cc config.CameraConfig) *camera.OrbitCamera {
	c := camera.NewOrbitCamera()
	c.Center = vec3(cc.Target)
	c.MaxDistance = max(c.MaxDistance, cc.Far)
	c.Distance = math.Clamp(cc.Distance, c.MinDistance, c.MaxDistance)
	c.RotationX = math.Clamp(math.Radians(cc.Pitch), c.MinPitch, c.MaxPitch)
	c.RotationY = math.Radians(cc.Yaw)
	return c
}

// Camera returns the orbit camera. Input handlers mutate it directly.
func (s *Scene) Camera() *camera.OrbitCamera {
	return s.orbit
}

// Lights returns the light buffer.
func (s *Scene) Lights() *lighting.Buffer {
	return s.lights
}

// Bounds returns the world bounds of every object at rest.
func (s *Scene) Bounds() model.Bounds {
	return s.bounds
}

// Objects returns the scene objects.
func (s *Scene) Objects() []*Object {
	return s.objects
}

func (s *Scene) globals() shading.Scene {
	return shading.Scene{Gamma: s.cfg.Render.Gamma, Exposure: s.cfg.Render.Exposure}
}

// Frame evaluates the scene at time t in seconds for a viewport aspect ratio.
func (s *Scene) Frame(t, aspect float32) (*raster.Frame, []raster.DrawCall, error) {
	orbit := *s.orbit
	orbit.RotationY += math.Radians(s.cfg.Camera.OrbitSpeed * t)

	cc := s.cfg.Camera
	frame := &raster.Frame{
		Camera: orbit.State(aspect, math.Radians(cc.FOV), cc.Near, cc.Far),
		Scene:  s.globals(),
		Lights: s.lights.Lights(),
	}
	calls, err := s.drawCalls(t)
	if err != nil {
		return nil, nil, err
	}
	return frame, calls, nil
}

// DepthFrame evaluates the scene at time t from the first directional
// light, framing the scene bounds. Without a directional light the scene
// is viewed from straight above.
func (s *Scene) DepthFrame(t float32) (*raster.Frame, []raster.DrawCall, error) {
	toLight := math.Vec3{Y: 1}
	for _, l := range s.lights.Lights() {
		if l.Kind == lighting.Directional {
			toLight = l.Direction.Negate()
			break
		}
	}
	frame := &raster.Frame{
		Camera: shadow.LightState(toLight, s.bounds),
		Scene:  s.globals(),
	}
	calls, err := s.drawCalls(t)
	if err != nil {
		return nil, nil, err
	}
	return frame, calls, nil
}

func (s *Scene) drawCalls(t float32) ([]raster.DrawCall, error) {
	calls := make([]raster.DrawCall, 0, len(s.objects))
	for _, o := range s.objects {
		call := raster.DrawCall{
			Mesh:      o.Mesh,
			Instances: o.instances(t),
			Material:  &o.Material,
			Bindings:  &o.Bindings,
		}

		if len(o.Joints) > 0 {
			at := t
			if d := model.Duration(o.Joints); d > 0 {
				at = math32.Mod(t, d)
			}
			pose, err := skeleton.Pose(o.Joints, at)
			if err != nil {
				return nil, fmt.Errorf("%s skeleton: %w", o.Name, err)
			}
			call.Skeleton = pose
		}

		if o.MorphTexture != nil && o.Weights != nil {
			weights, err := morph.NewState(o.Weights(t))
			if err != nil {
				return nil, fmt.Errorf("%s morph: %w", o.Name, err)
			}
			call.Morph = weights
			call.MorphTexture = o.MorphTexture
		}

		calls = append(calls, call)
	}
	return calls, nil
}

// Hit identifies a picked instance.
type Hit struct {
	Object   int
	Instance int
	Distance float32
}

// Pick returns the nearest instance whose world bounds at time t the ray
// enters. The ground is not pickable.
func (s *Scene) Pick(ray picking.Ray, t float32) (Hit, bool) {
	best := Hit{Distance: math32.MaxFloat32}
	found := false
	for oi, o := range s.objects {
		if o.Name == "ground" {
			continue
		}
		for ii, in := range o.instances(t) {
			d, ok := ray.IntersectBounds(o.Mesh.Bounds.Transform(in.Model))
			if ok && d < best.Distance {
				best = Hit{Object: oi, Instance: ii, Distance: d}
				found = true
			}
		}
	}
	return best, found
}

// ToggleHighlight flips the highlight of a picked instance and returns the
// new value.
func (s *Scene) ToggleHighlight(h Hit) float32 {
	in := &s.objects[h.Object].Instances[h.Instance]
	if in.Highlight > 0 {
		in.Highlight = 0
	} else {
		in.Highlight = 1
	}
	s.log.Debug("highlight toggled",
		zap.String("object", s.objects[h.Object].Name),
		zap.Int("instance", h.Instance),
		zap.Float32("highlight", in.Highlight),
	)
	return in.Highlight
}
