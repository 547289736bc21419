package editor

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/math"
	"scene-editor/scene"
)

type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// HitResult is the closest intersection found by RaycastScene.
type HitResult struct {
	Hit      bool
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Object   *scene.GameObject
	FaceIdx  int
}

// ScreenToRay turns a cursor position (origin top-left) in a width×height
// viewport into a world-space ray from the near plane toward the far plane.
func ScreenToRay(x, y float32, width, height int, camera *scene.Camera) (Ray, error) {
	if width <= 0 || height <= 0 {
		return Ray{}, errEmptyViewport
	}
	view := camera.ViewMatrix().Mgl()
	proj := camera.ProjectionMatrix(float32(width) / float32(height)).Mgl()

	winY := float32(height) - y
	near, err := mgl32.UnProject(mgl32.Vec3{x, winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}
	far, err := mgl32.UnProject(mgl32.Vec3{x, winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, err
	}

	origin := math.Vec3FromMgl(near)
	return Ray{
		Origin:    origin,
		Direction: math.Vec3FromMgl(far).Sub(origin).Normalize(),
	}, nil
}

// RaycastScene returns the closest visible object hit by ray. Each object's
// world bounds are tested first, then its triangles.
func RaycastScene(ray Ray, s *scene.Scene) HitResult {
	closest := HitResult{Distance: float32(stdmath.MaxFloat32)}

	for _, o := range s.Objects() {
		if !o.Visible || o.Mesh == nil {
			continue
		}

		t, hit := rayAABBIntersect(ray, o.WorldBounds())
		if !hit || t > closest.Distance {
			continue
		}

		result := rayMeshIntersect(ray, o)
		if result.Hit && result.Distance < closest.Distance {
			closest = result
		}
	}
	return closest
}

// rayAABBIntersect is the slab test. It returns the entry distance, or 0 when
// the origin is inside the box.
func rayAABBIntersect(ray Ray, box scene.AABB) (float32, bool) {
	invDir := math.Vec3{
		X: 1.0 / ray.Direction.X,
		Y: 1.0 / ray.Direction.Y,
		Z: 1.0 / ray.Direction.Z,
	}

	t1 := (box.Min.X - ray.Origin.X) * invDir.X
	t2 := (box.Max.X - ray.Origin.X) * invDir.X
	t3 := (box.Min.Y - ray.Origin.Y) * invDir.Y
	t4 := (box.Max.Y - ray.Origin.Y) * invDir.Y
	t5 := (box.Min.Z - ray.Origin.Z) * invDir.Z
	t6 := (box.Max.Z - ray.Origin.Z) * invDir.Z

	tmin := max(min(t1, t2), min(t3, t4), min(t5, t6))
	tmax := min(max(t1, t2), max(t3, t4), max(t5, t6))

	if tmax < 0 || tmin > tmax {
		return 0, false
	}
	return max(tmin, 0), true
}

func rayMeshIntersect(ray Ray, o *scene.GameObject) HitResult {
	mesh := o.Mesh
	model := o.ModelMatrix()
	closest := HitResult{Distance: float32(stdmath.MaxFloat32)}

	for i := 0; i < mesh.TriangleCount(); i++ {
		a, b, c := mesh.Triangle(i)
		v0, v1, v2 := model.MulPoint(a), model.MulPoint(b), model.MulPoint(c)

		t, hit := mollerTrumbore(ray, v0, v1, v2)
		if hit && t < closest.Distance {
			closest.Hit = true
			closest.Distance = t
			closest.Point = ray.Origin.Add(ray.Direction.Mul(t))
			closest.Normal = v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
			closest.Object = o
			closest.FaceIdx = i
		}
	}
	return closest
}

// mollerTrumbore intersects a ray with a triangle from either side.
func mollerTrumbore(ray Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const epsilon = 1e-7

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	return t, t > epsilon
}
