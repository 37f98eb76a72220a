package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-shade/internal/engine/material"
	"github.com/Faultbox/midgard-shade/internal/engine/model"
	"github.com/Faultbox/midgard-shade/internal/engine/morph"
	"github.com/Faultbox/midgard-shade/internal/engine/texture"
	"github.com/Faultbox/midgard-shade/internal/engine/vertex"
	"github.com/Faultbox/midgard-shade/pkg/math"
)

// Object is one drawable of the scene. Animated state is evaluated per
// frame from the static description.
type Object struct {
	Name      string
	Mesh      *model.Mesh
	Material  material.Descriptor
	Bindings  material.Bindings
	Instances []vertex.Instance

	// Spin rotates every instance around Y, in radians per second.
	Spin float32

	// Joints drives skinning when non-empty.
	Joints []model.Joint

	// MorphTexture and Weights drive morphing when both are set.
	MorphTexture *texture.Array
	Weights      func(t float32) []float32
}

// bind stores a sampler and keeps the textures-used mask in sync with it.
func (o *Object) bind(c material.Channel, s texture.Sampler) {
	o.Bindings[c] = s
	o.Material.TexturesUsed = o.Bindings.Flags()
}

// instances returns the instances at time t.
func (o *Object) instances(t float32) []vertex.Instance {
	if o.Spin == 0 {
		return o.Instances
	}
	spin := math.RotateY(o.Spin * t)
	out := make([]vertex.Instance, len(o.Instances))
	for i, in := range o.Instances {
		in.Model = in.Model.Mul(spin)
		out[i] = in
	}
	return out
}

// bounds returns the world bounds of every instance at rest.
func (o *Object) bounds() model.Bounds {
	b := o.Mesh.Bounds.Transform(o.Instances[0].Model)
	for _, in := range o.Instances[1:] {
		b = b.Union(o.Mesh.Bounds.Transform(in.Model))
	}
	return b
}

func ground() *Object {
	o := &Object{
		Name:      "ground",
		Mesh:      model.Plane(12, 8),
		Material:  material.Default(),
		Instances: []vertex.Instance{vertex.NewInstance(math.Identity())},
	}
	o.Material.Name = "ground"
	o.Material.AmbientColor = math.Splat3(0.04)
	o.Material.SpecularColor = math.Splat3(0.1)
	o.Material.Shininess = 16
	light := math.Vec4{X: 0.75, Y: 0.74, Z: 0.7, W: 1}
	dark := math.Vec4{X: 0.35, Y: 0.36, Z: 0.38, W: 1}
	o.bind(material.ChannelBase, checker(256, 12, light, dark))
	return o
}

func orb(env texture.Sampler) *Object {
	o := &Object{
		Name:      "orb",
		Mesh:      model.Sphere(0.8, 24, 32),
		Material:  material.Default(),
		Instances: []vertex.Instance{vertex.NewInstance(math.Translate(-1.8, 0.8, 0))},
		Spin:      0.4,
	}
	o.Material.Name = "orb"
	o.Material.BaseColor = math.Vec3{X: 0.8, Y: 0.32, Z: 0.2}
	o.Material.AmbientColor = math.Splat3(0.03)
	o.Material.Shininess = 64
	o.Material.NormalMapStrength = 0.8
	o.Material.Reflectivity = 0.25
	o.Material.Roughness = 0.3
	o.bind(material.ChannelNormal, bumpNormals(128, 6, 0.02))
	if env != nil {
		o.bind(material.ChannelEnvironment, env)
	}
	return o
}

// armJoints is a two-joint chain: a fixed root and an elbow one unit up
// that bends around Z and back over two seconds.
func armJoints() []model.Joint {
	root := model.NewJoint("root", -1)

	elbow := model.NewJoint("elbow", 0)
	elbow.Position = math.Vec3{Y: 1}
	elbow.InverseBind = math.Translate(0, -1, 0)
	bend := math.QuatFromAxisAngle(math.Vec3{Z: 1}, math.Radians(70))
	elbow.RotKeys = []model.RotKey{
		{Time: 0, Rotation: math.QuatIdentity()},
		{Time: 1, Rotation: bend},
		{Time: 2, Rotation: math.QuatIdentity()},
	}
	return []model.Joint{root, elbow}
}

func arm() *Object {
	o := &Object{
		Name:      "arm",
		Mesh:      model.Tube(0.22, 2, 12, 16),
		Material:  material.Default(),
		Instances: []vertex.Instance{vertex.NewInstance(math.Translate(1.8, 0, 0))},
		Joints:    armJoints(),
	}
	o.Material.Name = "arm"
	o.Material.BaseColor = math.Vec3{X: 0.25, Y: 0.55, Z: 0.85}
	o.Material.AmbientColor = math.Splat3(0.03)
	o.Material.Shininess = 32
	return o
}

// blobTargets builds a vertical stretch and a wavy bulge for a sphere.
func blobTargets(mesh *model.Mesh) []morph.Target {
	n := len(mesh.Vertices)
	stretch := morph.Target{Name: "stretch", Position: make([]math.Vec3, n)}
	bulge := morph.Target{Name: "bulge", Position: make([]math.Vec3, n)}
	for i, v := range mesh.Vertices {
		stretch.Position[i] = math.Vec3{Y: v.Position.Y * 0.6}
		wave := math32.Sin(v.UV.X * 2 * math.Pi * 4)
		bulge.Position[i] = v.Normal.Scale(0.15 * wave)
	}
	return []morph.Target{stretch, bulge}
}

func blobWeights(t float32) []float32 {
	return []float32{
		0.5 + 0.5*math32.Sin(t*2),
		0.5 + 0.5*math32.Cos(t*1.3),
	}
}

func blob() (*Object, error) {
	mesh := model.Sphere(0.6, 16, 24)
	tex, err := morph.Encode(len(mesh.Vertices), blobTargets(mesh))
	if err != nil {
		return nil, err
	}
	o := &Object{
		Name:         "blob",
		Mesh:         mesh,
		Material:     material.Default(),
		Instances:    []vertex.Instance{vertex.NewInstance(math.Translate(0, 0.9, -1.8))},
		MorphTexture: tex,
		Weights:      blobWeights,
	}
	o.Material.Name = "blob"
	o.Material.BaseColor = math.Vec3{X: 0.4, Y: 0.8, Z: 0.45}
	o.Material.AmbientColor = math.Splat3(0.03)
	o.Material.Shininess = 90
	return o, nil
}

// pillars places three boxes around the origin. The middle one is highlighted.
func pillars() *Object {
	o := &Object{
		Name:     "pillars",
		Mesh:     model.Box(0.5),
		Material: material.Default(),
	}
	for i := 0; i < 3; i++ {
		angle := math.Radians(150 + float32(i)*30)
		sin, cos := math32.Sincos(angle)
		in := vertex.NewInstance(math.Translate(3.5*cos, 0.25, 3.5*sin).Mul(math.RotateY(angle)))
		if i == 1 {
			in.Highlight = 1
		}
		o.Instances = append(o.Instances, in)
	}
	o.Material.Name = "pillars"
	o.Material.BaseColor = math.Vec3{X: 0.85, Y: 0.82, Z: 0.75}
	o.Material.HighlightColor = math.Vec3{X: 1, Y: 0.8, Z: 0.2}
	o.Material.AmbientColor = math.Splat3(0.03)
	return o
}
