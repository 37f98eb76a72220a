package model

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/pkg/math"
)

// All builders emit counter-clockwise triangles when seen from outside.

// Sphere builds a UV sphere centered at the origin.
func Sphere(radius float32, rings, segments int) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	mesh := &Mesh{Name: "sphere"}
	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		theta := v * math32.Pi
		sinT, cosT := math32.Sincos(theta)
		for j := 0; j <= segments; j++ {
			u := float32(j) / float32(segments)
			phi := u * 2 * math32.Pi
			sinP, cosP := math32.Sincos(phi)
			n := math.Vec3{X: sinT * cosP, Y: cosT, Z: sinT * sinP}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: n.Scale(radius),
				UV:       math.Vec2{X: u, Y: v},
				Normal:   n,
			})
		}
	}

	stride := uint32(segments + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			mesh.Indices = append(mesh.Indices, a, a+1, b, a+1, b+1, b)
		}
	}

	finish(mesh)
	return mesh
}

// Plane builds a square grid in the XZ plane facing +Y.
func Plane(size float32, divisions int) *Mesh {
	divisions = max(divisions, 1)

	mesh := &Mesh{Name: "plane"}
	half := size / 2
	for i := 0; i <= divisions; i++ {
		v := float32(i) / float32(divisions)
		for j := 0; j <= divisions; j++ {
			u := float32(j) / float32(divisions)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: math.Vec3{X: -half + size*u, Y: 0, Z: -half + size*v},
				UV:       math.Vec2{X: u, Y: v},
				Normal:   math.Vec3{Y: 1},
			})
		}
	}

	stride := uint32(divisions + 1)
	for i := 0; i < divisions; i++ {
		for j := 0; j < divisions; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			mesh.Indices = append(mesh.Indices, a, b, a+1, a+1, b, b+1)
		}
	}

	finish(mesh)
	return mesh
}

// Box builds an axis-aligned cube with flat faces.
func Box(size float32) *Mesh {
	mesh := &Mesh{Name: "box"}
	h := size / 2
	faces := []struct{ n, v math.Vec3 }{
		{math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{Z: 1}},
	}
	for _, f := range faces {
		u := f.v.Cross(f.n)
		base := uint32(len(mesh.Vertices))
		corners := [4]struct {
			su, sv float32
			uv     math.Vec2
		}{
			{-1, -1, math.Vec2{X: 0, Y: 1}},
			{1, -1, math.Vec2{X: 1, Y: 1}},
			{1, 1, math.Vec2{X: 1, Y: 0}},
			{-1, 1, math.Vec2{X: 0, Y: 0}},
		}
		for _, c := range corners {
			p := f.n.Add(u.Scale(c.su)).Add(f.v.Scale(c.sv)).Scale(h)
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: p, UV: c.uv, Normal: f.n})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	finish(mesh)
	return mesh
}

// Tube builds an open cylinder along +Y from 0 to length, skinned to two
// joints: joint 0 at the base and joint 1 blending in towards the tip.
func Tube(radius, length float32, rings, segments int) *Mesh {
	rings = max(rings, 1)
	segments = max(segments, 3)

	mesh := &Mesh{Name: "tube"}
	for i := 0; i <= rings; i++ {
		v := float32(i) / float32(rings)
		w1 := smoothstep(v)
		for j := 0; j <= segments; j++ {
			u := float32(j) / float32(segments)
			sinP, cosP := math32.Sincos(u * 2 * math32.Pi)
			n := math.Vec3{X: cosP, Z: sinP}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: math.Vec3{X: radius * cosP, Y: length * v, Z: radius * sinP},
				UV:       math.Vec2{X: u, Y: 1 - v},
				Normal:   n,
				Joints:   [JointsPerVertex]uint32{0, 1, 0, 0},
				Weights:  [JointsPerVertex]float32{1 - w1, w1, 0, 0},
			})
		}
	}

	stride := uint32(segments + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			mesh.Indices = append(mesh.Indices, a, b, a+1, a+1, b, b+1)
		}
	}

	finish(mesh)
	return mesh
}

func smoothstep(x float32) float32 {
	x = math32.Max(0, math32.Min(1, x))
	return x * x * (3 - 2*x)
}

func finish(mesh *Mesh) {
	for i := range mesh.Vertices {
		mesh.Vertices[i].Index = uint32(i)
	}
	ComputeTangents(mesh)
	UpdateBounds(mesh)
}

// ComputeNormals replaces vertex normals with area-weighted face normals.
func ComputeNormals(mesh *Mesh) {
	acc := make([]math.Vec3, len(mesh.Vertices))
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		p0 := mesh.Vertices[i0].Position
		n := mesh.Vertices[i1].Position.Sub(p0).Cross(mesh.Vertices[i2].Position.Sub(p0))
		acc[i0] = acc[i0].Add(n)
		acc[i1] = acc[i1].Add(n)
		acc[i2] = acc[i2].Add(n)
	}
	for i := range mesh.Vertices {
		if acc[i].Length() > 1e-12 {
			mesh.Vertices[i].Normal = acc[i].Normalize()
		}
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This hides UV seams left by ComputeNormals.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		p := vertices[i].Position
		key := [3]int32{
			int32(math32.Round(p.X / epsilon)),
			int32(math32.Round(p.Y / epsilon)),
			int32(math32.Round(p.Z / epsilon)),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(vertices[idx].Normal)
		}
		if sum.Length() < 1e-6 {
			continue
		}
		avg := sum.Normalize()

		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// ComputeTangents derives per-vertex tangents and bitangents from UVs.
// Tangents are Gram-Schmidt orthogonalized against the normal and the
// bitangent keeps the handedness of the UV mapping.
func ComputeTangents(mesh *Mesh) {
	tan := make([]math.Vec3, len(mesh.Vertices))
	bit := make([]math.Vec3, len(mesh.Vertices))

	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0, i1, i2 := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		v0, v1, v2 := &mesh.Vertices[i0], &mesh.Vertices[i1], &mesh.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		d1 := v1.UV.Sub(v0.UV)
		d2 := v2.UV.Sub(v0.UV)

		r := d1.X*d2.Y - d2.X*d1.Y
		if math32.Abs(r) < 1e-12 {
			continue
		}
		f := 1 / r
		sdir := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(f)
		tdir := e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(f)

		for _, i := range [3]uint32{i0, i1, i2} {
			tan[i] = tan[i].Add(sdir)
			bit[i] = bit[i].Add(tdir)
		}
	}

	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		n := v.Normal
		t := tan[i].Sub(n.Scale(n.Dot(tan[i])))
		if t.Length() < 1e-6 {
			t = perpendicular(n)
		}
		t = t.Normalize()
		b := n.Cross(t)
		if b.Dot(bit[i]) < 0 {
			b = b.Negate()
		}
		v.Tangent = t
		v.Bitangent = b
	}
}

func perpendicular(n math.Vec3) math.Vec3 {
	if math32.Abs(n.X) < 0.9 {
		return math.Vec3{X: 1}.Cross(n)
	}
	return math.Vec3{Y: 1}.Cross(n)
}

// UpdateBounds recomputes the mesh bounding box.
func UpdateBounds(mesh *Mesh) {
	if len(mesh.Vertices) == 0 {
		mesh.Bounds = Bounds{}
		return
	}
	b := Bounds{Min: mesh.Vertices[0].Position, Max: mesh.Vertices[0].Position}
	for i := range mesh.Vertices {
		p := mesh.Vertices[i].Position
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	mesh.Bounds = b
}
