package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

func TestLightMatrixCoversBounds(t *testing.T) {
	bounds := model.Bounds{Min: math.Vec3{X: -4, Y: 0, Z: -4}, Max: math.Vec3{X: 4, Y: 3, Z: 4}}

	for _, dir := range []math.Vec3{{X: 0.3, Y: 1, Z: 0.2}, {Y: 1}, {X: 1, Y: 0.1}} {
		vp := CalculateDirectionalLightMatrix(dir.Normalize(), bounds)
		for i := 0; i < 8; i++ {
			c := bounds.Min
			if i&1 != 0 {
				c.X = bounds.Max.X
			}
			if i&2 != 0 {
				c.Y = bounds.Max.Y
			}
			if i&4 != 0 {
				c.Z = bounds.Max.Z
			}
			ndc := vp.MulVec4(c.Vec4(1)).PerspectiveDivide()
			assert.True(t, ndc.X >= -1 && ndc.X <= 1, "dir %v corner %d x=%f", dir, i, ndc.X)
			assert.True(t, ndc.Y >= -1 && ndc.Y <= 1, "dir %v corner %d y=%f", dir, i, ndc.Y)
			assert.True(t, ndc.Z >= -1 && ndc.Z <= 1, "dir %v corner %d z=%f", dir, i, ndc.Z)
		}
	}
}

func TestLightStateEyeFacesScene(t *testing.T) {
	bounds := model.Bounds{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	s := LightState(math.Vec3{Y: 2}, bounds)

	// Unnormalized input is normalized and the eye sits above the scene.
	assert.InDelta(t, 0, s.Position.X, 1e-5)
	assert.Greater(t, s.Position.Y, float32(1))

	center := s.ViewProj.MulVec4(math.Vec4{W: 1}).PerspectiveDivide()
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)
}
