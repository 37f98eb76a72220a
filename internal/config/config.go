// Package config handles renderer configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
)

// Config holds all renderer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Lights   []LightConfig  `yaml:"lights"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings. Width and height also size the
// software framebuffer.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// RenderConfig holds pipeline settings.
type RenderConfig struct {
	MaxLights      int        `yaml:"max_lights"`
	Workers        int        `yaml:"workers"` // 0 = GOMAXPROCS
	CullBack       bool       `yaml:"cull_back"`
	ClearColor     [4]float32 `yaml:"clear_color"`
	Gamma          float32    `yaml:"gamma"`    // 0 disables gamma correction
	Exposure       float32    `yaml:"exposure"` // 0 disables tone mapping
	EnvironmentMap string     `yaml:"environment_map"`
	DepthPrepass   bool       `yaml:"depth_prepass"`
}

// CameraConfig holds the initial orbit camera. Angles are in degrees.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Target   [3]float32 `yaml:"target"`
	Distance float32    `yaml:"distance"`
	Pitch    float32    `yaml:"pitch"`
	Yaw      float32    `yaml:"yaw"`
	// OrbitSpeed spins the camera around the target in degrees per second.
	OrbitSpeed float32 `yaml:"orbit_speed"`
}

// LightConfig describes one light. Kind is directional, point, spot or sun.
// Sun lights take their direction from longitude and latitude in degrees.
type LightConfig struct {
	Name          string     `yaml:"name"`
	Kind          string     `yaml:"kind"`
	Position      [3]float32 `yaml:"position"`
	Direction     [3]float32 `yaml:"direction"`
	Color         [3]float32 `yaml:"color"`
	Intensity     float32    `yaml:"intensity"`
	MaxAngle      float32    `yaml:"max_angle"` // degrees
	DistanceBased bool       `yaml:"distance_based"`
	Longitude     float32    `yaml:"longitude"`
	Latitude      float32    `yaml:"latitude"`
}

// OutputConfig holds headless render output settings.
type OutputConfig struct {
	Dir    string  `yaml:"dir"`
	Frames int     `yaml:"frames"`
	FPS    float32 `yaml:"fps"`
	Prefix string  `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Render: RenderConfig{
			MaxLights:  lighting.DefaultMaxLights,
			Workers:    0,
			CullBack:   true,
			ClearColor: [4]float32{0.08, 0.09, 0.12, 1},
			Gamma:      0,
			Exposure:   0,
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.1,
			Far:      100,
			Target:   [3]float32{0, 0.75, 0},
			Distance: 7,
			Pitch:    20,
			Yaw:      30,
		},
		Lights: []LightConfig{
			{
				Name:      "sun",
				Kind:      "sun",
				Color:     [3]float32{1, 0.95, 0.85},
				Intensity: 0.8,
				Longitude: 45,
				Latitude:  55,
			},
			{
				Name:      "fill",
				Kind:      "point",
				Position:  [3]float32{-3, 2.5, 3},
				Color:     [3]float32{0.3, 0.4, 0.6},
				Intensity: 1,
			},
		},
		Output: OutputConfig{
			Dir:    "frames",
			Frames: 1,
			FPS:    30,
			Prefix: "frame",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Render.MaxLights < 0 || c.Render.MaxLights > lighting.HardMaxLights {
		err = multierr.Append(err, fmt.Errorf("render: max_lights %d outside [0, %d]", c.Render.MaxLights, lighting.HardMaxLights))
	}
	if c.Render.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("render: workers %d must not be negative", c.Render.Workers))
	}
	if c.Render.Gamma < 0 || c.Render.Exposure < 0 {
		err = multierr.Append(err, fmt.Errorf("render: gamma and exposure must not be negative"))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		err = multierr.Append(err, fmt.Errorf("camera: fov %g outside (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		err = multierr.Append(err, fmt.Errorf("camera: need 0 < near (%g) < far (%g)", c.Camera.Near, c.Camera.Far))
	}
	if len(c.Lights) > c.Render.MaxLights {
		err = multierr.Append(err, fmt.Errorf("lights: %d configured, max_lights is %d", len(c.Lights), c.Render.MaxLights))
	}
	for i, l := range c.Lights {
		if _, kerr := lighting.ParseKind(l.Kind); kerr != nil {
			err = multierr.Append(err, fmt.Errorf("lights[%d]: %w", i, kerr))
		}
	}
	if c.Output.Frames < 0 {
		err = multierr.Append(err, fmt.Errorf("output: frames %d must not be negative", c.Output.Frames))
	}
	if c.Output.FPS <= 0 {
		err = multierr.Append(err, fmt.Errorf("output: fps %g must be positive", c.Output.FPS))
	}
	return err
}
