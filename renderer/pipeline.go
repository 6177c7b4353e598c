package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/shader"
)

// program caches the uniform locations of one linked shader program.
type program struct {
	id         graphics.Program
	colorLoc   int32
	sizeLoc    int32
	posLoc     int32
	textureLoc int32
}

// Pipeline owns the unit meshes and shader programs and turns pixel-space
// draw calls into uniform writes followed by a single draw call.
type Pipeline struct {
	dev      graphics.Device
	width    float32
	height   float32
	segments int

	triangleMesh graphics.Mesh
	squareMesh   graphics.Mesh
	circleMesh   graphics.Mesh

	shapes  program
	sprites program
	active  graphics.Program
	bound   bool

	color [4]float32
}

// NewPipeline uploads the unit meshes and builds both programs for a
// width x height pixel canvas. A program that fails to compile is logged
// and left unusable; drawing with it is undefined but not fatal.
func NewPipeline(dev graphics.Device, width, height, segments int, shapes, sprites shader.Source) (*Pipeline, error) {
	if segments < 3 {
		segments = DefaultSegments
	}
	p := &Pipeline{
		dev:      dev,
		width:    float32(width),
		height:   float32(height),
		segments: segments,
		color:    [4]float32{1, 1, 1, 1},
	}

	var err error
	if p.triangleMesh, err = dev.NewMesh(TriangleVertices()); err != nil {
		return nil, fmt.Errorf("failed to create triangle mesh: %w", err)
	}
	if p.squareMesh, err = dev.NewMesh(SquareVertices()); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("failed to create square mesh: %w", err)
	}
	if p.circleMesh, err = dev.NewMesh(CircleVertices(segments)); err != nil {
		p.Destroy()
		return nil, fmt.Errorf("failed to create circle mesh: %w", err)
	}

	p.shapes = p.buildProgram("Shape", shapes)
	p.sprites = p.buildProgram("Sprite", sprites)
	if p.sprites.textureLoc != -1 {
		p.use(p.sprites.id)
		dev.Uniform1i(p.sprites.textureLoc, 0)
	}
	p.use(p.shapes.id)
	p.dev.Uniform4f(p.shapes.colorLoc, p.color[0], p.color[1], p.color[2], p.color[3])
	return p, nil
}

func (p *Pipeline) buildProgram(label string, src shader.Source) program {
	id, err := p.dev.NewProgram(src.Vertex, src.Fragment)
	if err != nil {
		log.Printf("%s program failed: %v", label, err)
	}
	prog := program{
		id:         id,
		colorLoc:   p.dev.UniformLocation(id, shader.UniformColor),
		sizeLoc:    p.dev.UniformLocation(id, shader.UniformSize),
		posLoc:     p.dev.UniformLocation(id, shader.UniformPos),
		textureLoc: p.dev.UniformLocation(id, shader.UniformTexture),
	}
	p.use(id)
	p.dev.Uniform1f(p.dev.UniformLocation(id, shader.UniformScreenWidth), p.width)
	p.dev.Uniform1f(p.dev.UniformLocation(id, shader.UniformScreenHeight), p.height)
	return prog
}

func (p *Pipeline) use(id graphics.Program) {
	if p.bound && p.active == id {
		return
	}
	p.dev.UseProgram(id)
	p.active = id
	p.bound = true
}

// Segments is the circle approximation the pipeline was built with.
func (p *Pipeline) Segments() int {
	return p.segments
}

// Color sets the flat color for subsequent draws. Values are not clamped.
func (p *Pipeline) Color(r, g, b, a float32) {
	p.color = [4]float32{r, g, b, a}
	p.use(p.shapes.id)
	p.dev.Uniform4f(p.shapes.colorLoc, r, g, b, a)
}

// Background clears color and depth to an opaque color.
func (p *Pipeline) Background(r, g, b float32) {
	p.dev.ClearColor(r, g, b, 1)
	p.dev.Clear()
}

// Clear clears color and depth using the last background color.
func (p *Pipeline) Clear() {
	p.dev.Clear()
}

// Square draws a w x h rectangle centered at (x, y).
func (p *Pipeline) Square(x, y, w, h float32) {
	p.drawShape(p.squareMesh, graphics.Triangles, 6, x, y, w, h)
}

// Triangle draws the upward unit triangle scaled to w x h, centered at (x, y).
func (p *Pipeline) Triangle(x, y, w, h float32) {
	p.drawShape(p.triangleMesh, graphics.Triangles, 3, x, y, w, h)
}

// Ellipsoid draws the circle fan scaled independently on each axis. The
// mesh has unit radius, so the scale is half the requested extent.
func (p *Pipeline) Ellipsoid(x, y, w, h float32) {
	p.drawShape(p.circleMesh, graphics.TriangleFan, CircleVertexCount(p.segments), x, y, w/2, h/2)
}

// Circle draws a circle of diameter d centered at (x, y).
func (p *Pipeline) Circle(x, y, d float32) {
	p.Ellipsoid(x, y, d, d)
}

func (p *Pipeline) drawShape(mesh graphics.Mesh, mode graphics.Primitive, count int, x, y, sx, sy float32) {
	p.use(p.shapes.id)
	p.dev.Uniform3f(p.shapes.posLoc, x, y, 0)
	p.dev.Uniform3f(p.shapes.sizeLoc, sx, sy, 1)
	p.dev.BindMesh(mesh)
	p.dev.DrawArrays(mode, 0, count)
}

// Textured draws tex on a w x h quad centered at (x, y), tinted by the
// current color.
func (p *Pipeline) Textured(tex graphics.Texture, x, y, w, h float32) {
	p.use(p.sprites.id)
	p.dev.Uniform4f(p.sprites.colorLoc, p.color[0], p.color[1], p.color[2], p.color[3])
	p.dev.Uniform3f(p.sprites.posLoc, x, y, 0)
	p.dev.Uniform3f(p.sprites.sizeLoc, w, h, 1)
	p.dev.BindTexture(0, tex)
	p.dev.BindMesh(p.squareMesh)
	p.dev.DrawArrays(graphics.Triangles, 0, 6)
}

// Destroy releases the meshes and programs.
func (p *Pipeline) Destroy() {
	for _, m := range []*graphics.Mesh{&p.triangleMesh, &p.squareMesh, &p.circleMesh} {
		if *m != 0 {
			p.dev.DeleteMesh(*m)
			*m = 0
		}
	}
	for _, prog := range []*program{&p.shapes, &p.sprites} {
		if prog.id != 0 {
			p.dev.DeleteProgram(prog.id)
			prog.id = 0
		}
	}
	p.bound = false
}
