// Package picking provides ray casting and object picking utilities.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates with row 0 at the top.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.MulVec4(math.Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1}).PerspectiveDivide()
	far := invViewProj.MulVec4(math.Vec4{X: ndcX, Y: ndcY, Z: 1, W: 1}).PerspectiveDivide()

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// slab clips [tmin, tmax] against one axis of a box.
func slab(origin, dir, lo, hi, tmin, tmax float32) (float32, float32, bool) {
	if dir == 0 {
		return tmin, tmax, origin >= lo && origin <= hi
	}
	t1 := (lo - origin) / dir
	t2 := (hi - origin) / dir
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return max(tmin, t1), min(tmax, t2), true
}

// IntersectBounds tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBounds(box model.Bounds) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	var ok bool
	if tmin, tmax, ok = slab(r.Origin.X, r.Direction.X, box.Min.X, box.Max.X, tmin, tmax); !ok {
		return 0, false
	}
	if tmin, tmax, ok = slab(r.Origin.Y, r.Direction.Y, box.Min.Y, box.Max.Y, tmin, tmax); !ok {
		return 0, false
	}
	if tmin, tmax, ok = slab(r.Origin.Z, r.Direction.Z, box.Min.Z, box.Max.Z, tmin, tmax); !ok {
		return 0, false
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
