package scene

import (
	stdmath "math"

	"scene-editor/core"
	"scene-editor/math"
)

// Primitive names accepted by NewPrimitive and the scene manifest.
const (
	PrimitiveCube   = "cube"
	PrimitiveSphere = "sphere"
	PrimitivePlane  = "plane"
)

// NewPrimitive builds a unit-sized primitive by name. Unknown names return
// nil.
func NewPrimitive(name string) *Mesh {
	switch name {
	case PrimitiveCube:
		return NewCube(1)
	case PrimitiveSphere:
		return NewSphere(0.5, 32, 16)
	case PrimitivePlane:
		return NewPlane(1)
	}
	return nil
}

type cubeFace struct {
	normal, u, v math.Vec3
}

var cubeFaces = [6]cubeFace{
	{normal: math.Vec3{Z: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Z: -1}, u: math.Vec3{X: -1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Y: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: -1}},
	{normal: math.Vec3{Y: -1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
	{normal: math.Vec3{X: 1}, u: math.Vec3{Z: -1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{X: -1}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
}

// NewCube builds an axis-aligned cube of the given edge length centred on the
// origin, four vertices per face so each face gets its own normal and UVs.
func NewCube(size float32) *Mesh {
	h := size / 2
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		center := f.normal.Mul(h)
		for _, corner := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := center.Add(f.u.Mul(corner[0] * h)).Add(f.v.Mul(corner[1] * h))
			vertices = append(vertices, core.Vertex{
				Position: p,
				Normal:   f.normal,
				UV:       math.Vec2{X: (corner[0] + 1) / 2, Y: (corner[1] + 1) / 2},
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return NewMesh("Cube", vertices, indices)
}

// NewSphere builds a UV sphere.
func NewSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []core.Vertex
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * stdmath.Pi / float64(segments)
			normal := math.Vec3{
				X: sinPhi * float32(stdmath.Cos(theta)),
				Y: cosPhi,
				Z: sinPhi * float32(stdmath.Sin(theta)),
			}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)
			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return NewMesh("Sphere", vertices, indices)
}

// NewPlane builds a square in the XZ plane facing +Y.
func NewPlane(size float32) *Mesh {
	h := size / 2
	up := math.Vec3Up
	vertices := []core.Vertex{
		{Position: math.Vec3{X: -h, Z: -h}, Normal: up, UV: math.Vec2{X: 0, Y: 0}},
		{Position: math.Vec3{X: -h, Z: h}, Normal: up, UV: math.Vec2{X: 0, Y: 1}},
		{Position: math.Vec3{X: h, Z: h}, Normal: up, UV: math.Vec2{X: 1, Y: 1}},
		{Position: math.Vec3{X: h, Z: -h}, Normal: up, UV: math.Vec2{X: 1, Y: 0}},
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}
	return NewMesh("Plane", vertices, indices)
}
