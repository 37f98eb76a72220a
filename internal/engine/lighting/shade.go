package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Surface is the fragment state lighting reads. Normal and ViewDir are unit
// vectors.
type Surface struct {
	Position      math.Vec3
	Normal        math.Vec3
	ViewDir       math.Vec3
	BaseColor     math.Vec3
	SpecularColor math.Vec3
	Shininess     float32
}

// InCone reports whether pos lies inside a spot light's cone. The boundary
// angle is inside.
func InCone(l *Light, pos math.Vec3) bool {
	toSurface := pos.Sub(l.Position).Normalize()
	facing := l.Direction.Normalize()
	cos := math.Clamp(toSurface.Dot(facing), -1, 1)
	return math32.Acos(cos) <= l.MaxAngle
}

// ResolveIntensity returns the light's intensity at pos, clamped to at most 1.
// Spot lights outside their cone resolve to 0 whether or not distance-based
// intensity is enabled.
func ResolveIntensity(l *Light, pos math.Vec3) float32 {
	intensity := float32(1)
	if l.DistanceBased {
		switch l.Kind {
		case Directional:
			intensity = l.Intensity
		case Point, Spot:
			d := l.Position.Distance(pos)
			intensity = l.Intensity / (4 * math.Pi * d)
		}
	}
	intensity = math32.Min(intensity, 1)

	if l.Kind == Spot && !InCone(l, pos) {
		return 0
	}
	return intensity
}

// ResolveDirection returns the unit vector from the surface towards the light.
func ResolveDirection(l *Light, pos math.Vec3) math.Vec3 {
	if l.Kind == Directional {
		return l.Direction.Normalize().Negate()
	}
	return l.Position.Sub(pos).Normalize()
}

// Contribution returns the Blinn-Phong diffuse plus specular term of one light.
func Contribution(l *Light, s *Surface) math.Vec3 {
	intensity := ResolveIntensity(l, s.Position)
	if intensity == 0 {
		return math.Vec3{}
	}

	dir := ResolveDirection(l, s.Position)
	half := dir.Add(s.ViewDir).Normalize()

	diff := math32.Max(s.Normal.Dot(dir), 0)
	spec := math32.Pow(math32.Max(s.Normal.Dot(half), 0), s.Shininess)

	diffuse := l.Color.Mul(s.BaseColor).Scale(diff)
	specular := l.Color.Mul(s.SpecularColor).Scale(spec)
	return diffuse.Add(specular).Scale(intensity)
}

// Accumulate sums the contributions of the first count lights, bounded by
// the slice length and HardMaxLights.
func Accumulate(lights []Light, count int, s *Surface) math.Vec3 {
	n := min(count, len(lights), HardMaxLights)
	var sum math.Vec3
	for i := 0; i < n; i++ {
		sum = sum.Add(Contribution(&lights[i], s))
	}
	return sum
}
