package renderer

import "math"

// DefaultSegments is the number of triangles used to approximate a circle.
const DefaultSegments = 16

// TriangleVertices returns an upward isosceles triangle inside the unit square.
func TriangleVertices() []float32 {
	return []float32{
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
		0.0, 0.5, 0,
	}
}

// SquareVertices returns two counter-clockwise triangles covering
// [-0.5, 0.5] x [-0.5, 0.5].
func SquareVertices() []float32 {
	return []float32{
		-0.5, -0.5, 0,
		0.5, -0.5, 0,
		0.5, 0.5, 0,

		-0.5, -0.5, 0,
		0.5, 0.5, 0,
		-0.5, 0.5, 0,
	}
}

// CircleVertices returns a unit-radius triangle fan: the center followed by
// segments+1 perimeter samples, the last one closing the loop.
func CircleVertices(segments int) []float32 {
	verts := make([]float32, 3*(segments+2))
	delta := 2 * math.Pi / float64(segments)
	for i := 1; i < segments+2; i++ {
		angle := float64(i-1) * delta
		verts[i*3+0] = float32(math.Cos(angle))
		verts[i*3+1] = float32(math.Sin(angle))
		verts[i*3+2] = 0
	}
	return verts
}

// CircleVertexCount is the number of vertices CircleVertices(segments) holds.
func CircleVertexCount(segments int) int {
	return segments + 2
}
