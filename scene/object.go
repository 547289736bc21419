package scene

import (
	"sync/atomic"

	"scene-editor/core"
	"scene-editor/math"
)

var objectIDCounter atomic.Uint32

// GameObject is one entry of the flat scene list.
type GameObject struct {
	ID        uint32
	Name      string
	Transform core.Transform
	Mesh      *Mesh
	Material  *Material
	Visible   bool

	// Source is the model file the mesh came from, empty for primitives.
	// Part is the object's index among everything that file produced.
	Source string
	Part   int
	// Primitive names the generated mesh when Source is empty.
	Primitive string
}

// NewGameObject assigns the next ID. mesh and material may be nil.
func NewGameObject(name string, mesh *Mesh, material *Material) *GameObject {
	return &GameObject{
		ID:        objectIDCounter.Add(1),
		Name:      name,
		Transform: core.NewTransform(),
		Mesh:      mesh,
		Material:  material,
		Visible:   true,
	}
}

func (o *GameObject) ModelMatrix() math.Mat4 {
	return o.Transform.Matrix()
}

// WorldBounds is the mesh box under the object's transform. Without a mesh
// it collapses to the object's position.
func (o *GameObject) WorldBounds() AABB {
	if o.Mesh == nil {
		return AABB{Min: o.Transform.Position, Max: o.Transform.Position}
	}
	return o.Mesh.Bounds.Transform(o.ModelMatrix())
}

func (o *GameObject) Size() math.Vec3 {
	return o.WorldBounds().Size()
}

func (o *GameObject) Center() math.Vec3 {
	return o.WorldBounds().Center()
}
