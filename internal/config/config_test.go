package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	// Test render defaults
	if cfg.Render.MaxLights != 10 {
		t.Errorf("expected max lights 10, got %d", cfg.Render.MaxLights)
	}
	if cfg.Render.Gamma != 0 || cfg.Render.Exposure != 0 {
		t.Errorf("expected tone stages disabled, got gamma %f exposure %f", cfg.Render.Gamma, cfg.Render.Exposure)
	}
	if !cfg.Render.CullBack {
		t.Error("expected back-face culling by default")
	}

	// Test camera defaults
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FOV)
	}

	if len(cfg.Lights) != 2 {
		t.Errorf("expected 2 default lights, got %d", len(cfg.Lights))
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 640
  height: 480

render:
  max_lights: 4
  workers: 3
  cull_back: false
  gamma: 2.2
  exposure: 1.5
  depth_prepass: true

camera:
  fov: 45
  distance: 12

lights:
  - name: key
    kind: spot
    position: [0, 5, 0]
    direction: [0, -1, 0]
    color: [1, 1, 1]
    intensity: 2
    max_angle: 30
    distance_based: true

output:
  dir: "out"
  frames: 24
  fps: 24

logging:
  level: "debug"
  log_file: "render.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.Graphics.Width)
	}
	if cfg.Render.MaxLights != 4 || cfg.Render.Workers != 3 {
		t.Errorf("expected max lights 4 and workers 3, got %d and %d", cfg.Render.MaxLights, cfg.Render.Workers)
	}
	if cfg.Render.CullBack {
		t.Error("expected cull_back to be false")
	}
	if cfg.Render.Gamma != 2.2 || cfg.Render.Exposure != 1.5 {
		t.Errorf("expected gamma 2.2 exposure 1.5, got %f %f", cfg.Render.Gamma, cfg.Render.Exposure)
	}
	if !cfg.Render.DepthPrepass {
		t.Error("expected depth_prepass to be true")
	}

	// Unset fields keep their defaults.
	if cfg.Camera.FOV != 45 || cfg.Camera.Near != 0.1 {
		t.Errorf("expected fov 45 and default near 0.1, got %f %f", cfg.Camera.FOV, cfg.Camera.Near)
	}

	// The light list replaces the defaults.
	if len(cfg.Lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(cfg.Lights))
	}
	key := cfg.Lights[0]
	if key.Kind != "spot" || key.MaxAngle != 30 || !key.DistanceBased {
		t.Errorf("unexpected light %+v", key)
	}
	if key.Direction != [3]float32{0, -1, 0} {
		t.Errorf("expected direction (0,-1,0), got %v", key.Direction)
	}

	if cfg.Output.Frames != 24 || cfg.Output.Dir != "out" {
		t.Errorf("expected 24 frames to out, got %d to %s", cfg.Output.Frames, cfg.Output.Dir)
	}
	if cfg.Output.Prefix != "frame" {
		t.Errorf("expected default prefix 'frame', got %s", cfg.Output.Prefix)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFileValidates(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("render:\n  max_lights: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Two default lights do not fit a capacity of one.
	if _, err := LoadFile(configPath); err == nil {
		t.Error("expected validation error, got nil")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Render.MaxLights = 21
	cfg.Camera.Near = 0
	cfg.Lights = append(cfg.Lights, LightConfig{Kind: "laser"})
	cfg.Output.FPS = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if n := len(multierr.Errors(err)); n != 5 {
		t.Errorf("expected 5 errors, got %d: %v", n, err)
	}
	if !strings.Contains(err.Error(), "laser") {
		t.Errorf("expected unknown kind in error, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Render.Gamma = 2.2
	cfg.Lights = cfg.Lights[:1]

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Render.Gamma != 2.2 {
		t.Errorf("expected gamma 2.2, got %f", loaded.Render.Gamma)
	}
	if len(loaded.Lights) != 1 || loaded.Lights[0].Name != "sun" {
		t.Errorf("expected the sun light only, got %+v", loaded.Lights)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 320
				*flagHeight = 200
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 320 || cfg.Graphics.Height != 200 {
					t.Errorf("expected 320x200, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "headless flags",
			setup: func() {
				*flagFrames = 12
				*flagOut = "renders"
				*flagWorkers = 2
				*flagDepth = true
			},
			verify: func(cfg *Config) {
				if cfg.Output.Frames != 12 || cfg.Output.Dir != "renders" {
					t.Errorf("expected 12 frames to renders, got %d to %s", cfg.Output.Frames, cfg.Output.Dir)
				}
				if cfg.Render.Workers != 2 || !cfg.Render.DepthPrepass {
					t.Errorf("expected 2 workers with depth prepass, got %d %v", cfg.Render.Workers, cfg.Render.DepthPrepass)
				}
			},
			teardown: func() {
				*flagFrames = 0
				*flagOut = ""
				*flagWorkers = 0
				*flagDepth = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}
