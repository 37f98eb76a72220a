package scene

import (
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-shade/internal/config"
	"github.com/Faultbox/midgard-shade/internal/engine/lighting"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// LightFromConfig converts a configured light. Angles are converted from
// degrees and directions are normalized.
func LightFromConfig(lc config.LightConfig) (lighting.Light, error) {
	kind, err := lighting.ParseKind(lc.Kind)
	if err != nil {
		return lighting.Light{}, fmt.Errorf("light %q: %w", lc.Name, err)
	}

	if strings.EqualFold(lc.Kind, "sun") {
		l := lighting.Sun(lc.Longitude, lc.Latitude, vec3(lc.Color), lc.Intensity)
		l.DistanceBased = lc.DistanceBased
		if lc.Name != "" {
			l.Name = lc.Name
		}
		return l, nil
	}

	return lighting.Light{
		Name:          lc.Name,
		Position:      vec3(lc.Position),
		Direction:     vec3(lc.Direction).Normalize(),
		Color:         vec3(lc.Color),
		Intensity:     lc.Intensity,
		MaxAngle:      math.Radians(lc.MaxAngle),
		Kind:          kind,
		DistanceBased: lc.DistanceBased,
	}, nil
}

// newLightBuffer fills a buffer sized by the configured capacity.
func newLightBuffer(cfg *config.Config) (*lighting.Buffer, error) {
	buf, err := lighting.NewBuffer(cfg.Render.MaxLights)
	if err != nil {
		return nil, err
	}
	lights := make([]lighting.Light, 0, len(cfg.Lights))
	for _, lc := range cfg.Lights {
		l, err := LightFromConfig(lc)
		if err != nil {
			return nil, err
		}
		lights = append(lights, l)
	}
	if err := buf.Set(lights); err != nil {
		return nil, err
	}
	return buf, nil
}
