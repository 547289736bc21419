package math

import "github.com/go-gl/mathgl/mgl32"

// Interop with mgl32. Both libraries store matrices column-major, so the
// conversion is a straight copy of m[c][r] to index c*4+r.

func Radians(degrees float32) float32 {
	return mgl32.DegToRad(degrees)
}

func Clamp(v, low, high float32) float32 {
	return mgl32.Clamp(v, low, high)
}

func (v Vec3) Mgl() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func Vec3FromMgl(v mgl32.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func (m Mat4) Mgl() mgl32.Mat4 {
	var out mgl32.Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[c][r]
		}
	}
	return out
}

func Mat4FromMgl(m mgl32.Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[c*4+r]
		}
	}
	return out
}
