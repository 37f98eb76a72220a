// Package lighting implements the light list and per-light Blinn-Phong
// accumulation.
package lighting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

const (
	// HardMaxLights is the slot capacity of the light array uniform.
	HardMaxLights = 20
	// DefaultMaxLights is the engine's default active light capacity.
	DefaultMaxLights = 10
)

var (
	// ErrBufferFull is returned when adding lights past the buffer capacity.
	ErrBufferFull = errors.New("light buffer full")
	// ErrCapacity is returned for a capacity outside [0, HardMaxLights].
	ErrCapacity = errors.New("invalid light capacity")
)

// Kind is the light type.
type Kind uint32

const (
	Directional Kind = iota
	Point
	Spot
)

// String returns the light kind name.
func (k Kind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	default:
		return fmt.Sprintf("kind(%d)", uint32(k))
	}
}

// ParseKind parses a light kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "directional", "sun":
		return Directional, nil
	case "point":
		return Point, nil
	case "spot":
		return Spot, nil
	}
	return 0, fmt.Errorf("unknown light kind %q", s)
}

// Light describes one light source.
type Light struct {
	Name      string
	Position  math.Vec3
	Direction math.Vec3 // Direction the light faces. Unused by point lights.
	Color     math.Vec3
	Intensity float32
	MaxAngle  float32 // Spot cone half-angle in radians.
	Kind      Kind
	// DistanceBased enables intensity resolution. When false intensity is 1.
	DistanceBased bool
}

// Buffer is a bounded, ordered light list. Capacity is engine-configured
// and never exceeds HardMaxLights.
type Buffer struct {
	lights   [HardMaxLights]Light
	count    int
	capacity int
}

// NewBuffer creates an empty light buffer with the given capacity.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity < 0 || capacity > HardMaxLights {
		return nil, fmt.Errorf("capacity %d (max %d): %w", capacity, HardMaxLights, ErrCapacity)
	}
	return &Buffer{capacity: capacity}, nil
}

// Capacity returns the maximum number of active lights.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Count returns the number of active lights.
func (b *Buffer) Count() int {
	return b.count
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	b.lights = [HardMaxLights]Light{}
	b.count = 0
}

// Add appends a light. It fails with ErrBufferFull at capacity.
func (b *Buffer) Add(l Light) error {
	if b.count >= b.capacity {
		return fmt.Errorf("add light %q: %d of %d slots used: %w", l.Name, b.count, b.capacity, ErrBufferFull)
	}
	b.lights[b.count] = l
	b.count++
	return nil
}

// Set replaces all lights. A list longer than the capacity is rejected,
// not truncated, and the buffer is left unchanged.
func (b *Buffer) Set(lights []Light) error {
	if len(lights) > b.capacity {
		return fmt.Errorf("set %d lights (capacity %d): %w", len(lights), b.capacity, ErrBufferFull)
	}
	b.Clear()
	b.count = copy(b.lights[:], lights)
	return nil
}

// Lights returns the active lights. The slice aliases the buffer.
func (b *Buffer) Lights() []Light {
	return b.lights[:b.count]
}

// Slots returns every slot including inactive ones, for upload.
func (b *Buffer) Slots() *[HardMaxLights]Light {
	return &b.lights
}
