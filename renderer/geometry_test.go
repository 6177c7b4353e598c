package renderer

import (
	"math"
	"testing"
)

func TestCircleVertices(t *testing.T) {
	for _, n := range []int{3, 8, 16, 64} {
		verts := CircleVertices(n)
		if got, want := len(verts)/3, n+2; got != want {
			t.Fatalf("CircleVertices(%d) has %d vertices, want %d", n, got, want)
		}
		if verts[0] != 0 || verts[1] != 0 || verts[2] != 0 {
			t.Errorf("CircleVertices(%d) vertex 0 = %v, want origin", n, verts[:3])
		}
		step := 2 * math.Pi / float64(n)
		for i := 1; i <= n+1; i++ {
			x, y, z := float64(verts[i*3]), float64(verts[i*3+1]), verts[i*3+2]
			if r := math.Hypot(x, y); math.Abs(r-1) > 1e-6 {
				t.Errorf("n=%d vertex %d radius = %v, want 1", n, i, r)
			}
			if z != 0 {
				t.Errorf("n=%d vertex %d z = %v, want 0", n, i, z)
			}
			want := float64(i-1) * step
			if math.Abs(math.Cos(want)-x) > 1e-6 || math.Abs(math.Sin(want)-y) > 1e-6 {
				t.Errorf("n=%d vertex %d = (%v, %v), want angle %v", n, i, x, y, want)
			}
		}
		first, last := verts[3:5], verts[(n+1)*3:(n+1)*3+2]
		if math.Abs(float64(first[0]-last[0])) > 1e-6 || math.Abs(float64(first[1]-last[1])) > 1e-6 {
			t.Errorf("n=%d fan is not closed: first %v last %v", n, first, last)
		}
	}
}

func TestUnitShapesFitUnitSquare(t *testing.T) {
	for name, verts := range map[string][]float32{
		"triangle": TriangleVertices(),
		"square":   SquareVertices(),
	} {
		for i, v := range verts {
			if v < -0.5 || v > 0.5 {
				t.Errorf("%s component %d = %v outside [-0.5, 0.5]", name, i, v)
			}
		}
	}
	if n := len(SquareVertices()) / 3; n != 6 {
		t.Errorf("square has %d vertices, want 6", n)
	}
	if n := len(TriangleVertices()) / 3; n != 3 {
		t.Errorf("triangle has %d vertices, want 3", n)
	}
}

// Counter-clockwise winding keeps the shapes visible with back-face culling.
func TestWindingIsCounterClockwise(t *testing.T) {
	check := func(name string, verts []float32, start int) {
		ax, ay := verts[start], verts[start+1]
		bx, by := verts[start+3], verts[start+4]
		cx, cy := verts[start+6], verts[start+7]
		if area := (bx-ax)*(cy-ay) - (cx-ax)*(by-ay); area <= 0 {
			t.Errorf("%s triangle at %d has signed area %v, want > 0", name, start/3, area)
		}
	}
	check("triangle", TriangleVertices(), 0)
	sq := SquareVertices()
	check("square", sq, 0)
	check("square", sq, 9)
	circle := CircleVertices(16)
	for i := 1; i < 17; i++ {
		fan := append([]float32{0, 0, 0}, circle[i*3:i*3+6]...)
		check("circle", fan, 0)
	}
}
