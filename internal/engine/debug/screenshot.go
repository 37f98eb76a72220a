// Package debug writes framebuffers to disk as PNG images.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/midgard-shade/internal/engine/framebuffer"
)

// ScreenshotCapture writes numbered frame sequences and timestamped
// screenshots into one directory.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory for screenshots.
func (sc *ScreenshotCapture) SetOutputDir(dir string) {
	sc.outputDir = dir
}

// FramePath returns the path of frame n of a sequence. suffix tells
// passes apart, as in "frame_0001_depth.png".
func (sc *ScreenshotCapture) FramePath(n int, suffix string) string {
	name := fmt.Sprintf("%s_%04d", sc.prefix, n)
	if suffix != "" {
		name += "_" + suffix
	}
	return filepath.Join(sc.outputDir, name+".png")
}

// GenerateFilename generates a timestamped screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	return filepath.Join(sc.outputDir, fmt.Sprintf("%s_%s.png", sc.prefix, timestamp))
}

// WriteFrame saves the color attachment as frame n.
func (sc *ScreenshotCapture) WriteFrame(fb *framebuffer.Framebuffer, n int) (string, error) {
	path := sc.FramePath(n, "")
	return path, sc.save(path, fb.Image())
}

// WriteDepth saves the depth attachment as frame n with a depth suffix.
func (sc *ScreenshotCapture) WriteDepth(fb *framebuffer.Framebuffer, n int) (string, error) {
	path := sc.FramePath(n, "depth")
	return path, sc.save(path, fb.DepthImage())
}

// Capture saves the color attachment under a timestamped name.
func (sc *ScreenshotCapture) Capture(fb *framebuffer.Framebuffer) (string, error) {
	path := sc.GenerateFilename()
	return path, sc.save(path, fb.Image())
}

func (sc *ScreenshotCapture) save(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
