// Package shadow builds the light-space transforms used by the depth pre-pass.
package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/internal/engine/camera"
	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// lightView places an eye on the side of the scene the light comes from.
// toLight is the normalized direction TO the light.
func lightView(toLight math.Vec3, bounds model.Bounds) (eye math.Vec3, view math.Mat4, distance float32) {
	center := bounds.Center()
	radius := bounds.Radius()

	// Position light far enough to encompass entire scene
	distance = radius * 2.0
	eye = center.Add(toLight.Scale(distance))

	// Choose an up vector that is not parallel with the light direction
	up := math.Vec3{Y: 1}
	if math32.Abs(toLight.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}

	return eye, math.LookAt(eye, center, up), distance
}

// CalculateDirectionalLightMatrix computes the view-projection of a
// directional light that covers the scene bounds.
// toLight is the normalized direction TO the light (sun direction).
func CalculateDirectionalLightMatrix(toLight math.Vec3, bounds model.Bounds) math.Mat4 {
	return LightState(toLight, bounds).ViewProj
}

// LightState returns the camera snapshot of a directional light, so the
// depth variant can run with the ordinary vertex stage.
func LightState(toLight math.Vec3, bounds model.Bounds) camera.State {
	toLight = toLight.Normalize()
	eye, view, distance := lightView(toLight, bounds)
	radius := bounds.Radius()

	// Orthographic projection sized to encompass the scene
	// Add padding to avoid edge artifacts
	padding := radius * 0.1
	halfSize := radius + padding
	near := float32(0.1)
	far := distance + radius + padding

	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)
	return camera.NewState(eye, view, proj)
}
