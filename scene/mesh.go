package scene

import (
	"scene-editor/core"
	"scene-editor/math"
)

// Mesh holds CPU-side vertex and index data. GPU buffers are owned by the
// renderer backend, which re-uploads the mesh whenever Dirty is set.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// Bounds is the local-space box of Vertices.
	Bounds AABB

	Dirty bool

	// GPUData is set by the renderer backend.
	GPUData interface{}
}

// NewMesh builds a mesh and computes its local bounds. The mesh starts dirty
// so the first draw uploads it.
func NewMesh(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	m.RecomputeBounds()
	return m
}

// RecomputeBounds refreshes Bounds after the vertices were edited and marks
// the mesh for re-upload.
func (m *Mesh) RecomputeBounds() {
	positions := make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position
	}
	m.Bounds = boundsOf(positions)
	m.Dirty = true
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three local-space corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c math.Vec3) {
	return m.Vertices[m.Indices[i*3]].Position,
		m.Vertices[m.Indices[i*3+1]].Position,
		m.Vertices[m.Indices[i*3+2]].Position
}
