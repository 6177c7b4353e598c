package graphics

import "image"

// Opaque GPU handles. Zero is never a valid object.
type (
	Mesh    uint32
	Program uint32
	Texture uint32
)

// Primitive selects how DrawArrays assembles vertices.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleFan
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case TriangleFan:
		return "triangle-fan"
	default:
		return "unknown"
	}
}

// Device is the subset of OpenGL the framework draws with. Every method
// must be called on the thread that owns the current context.
type Device interface {
	// InitState enables depth testing with an always-pass depth function,
	// back-face culling and src-alpha/one-minus-src-alpha blending.
	InitState()
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	// Clear clears the color and depth buffers.
	Clear()

	// NewMesh uploads tightly packed xyz positions bound to attribute 0.
	NewMesh(positions []float32) (Mesh, error)
	BindMesh(m Mesh)
	DeleteMesh(m Mesh)
	DrawArrays(mode Primitive, first, count int)

	// NewProgram compiles and links a vertex/fragment pair. On failure the
	// returned error carries the compiler or linker log.
	NewProgram(vertexSource, fragmentSource string) (Program, error)
	UseProgram(p Program)
	DeleteProgram(p Program)
	// UniformLocation returns -1 when the uniform does not exist.
	UniformLocation(p Program, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform3f(loc int32, x, y, z float32)
	Uniform4f(loc int32, x, y, z, w float32)

	// NewTexture uploads img as an RGBA8 2D texture with linear filtering
	// and clamp-to-edge wrapping.
	NewTexture(img *image.RGBA) (Texture, error)
	BindTexture(unit int, t Texture)
	DeleteTexture(t Texture)

	// ReadPixels returns the RGBA contents of the default framebuffer,
	// bottom row first.
	ReadPixels(width, height int) []byte
}
