package shader

import "github.com/go-gl/mathgl/mgl32"

// Projection returns the column-major matrix the vertex stage builds from
// the screen size uniforms: an orthographic box with the origin at the
// bottom-left corner.
func Projection(width, height float32) mgl32.Mat4 {
	return mgl32.Ortho(0, width, 0, height, -DepthScale, DepthScale)
}

// Project runs a unit-space vertex through the same transform as the
// vertex stage: scale by size, translate by pos, then project. The GPU
// never calls it; it is the reference the vertex stage is checked against
// in tests of code that feeds the pipeline.
func Project(v, size, pos [3]float32, width, height float32) [4]float32 {
	model := mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(mgl32.Scale3D(size[0], size[1], size[2]))
	return Projection(width, height).Mul4(model).Mul4x1(mgl32.Vec3(v).Vec4(1))
}

// ToPixels maps clip-space x and y back to bottom-left pixel coordinates.
func ToPixels(clip [4]float32, width, height float32) (float32, float32) {
	return (clip[0] + 1) * width / 2, (clip[1] + 1) * height / 2
}
