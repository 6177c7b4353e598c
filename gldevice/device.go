package gldevice

import (
	"fmt"
	"image"
	"log"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/tinygl/graphics"
	"github.com/richinsley/tinygl/shader"
	"github.com/richinsley/tinygl/translator"
)

var glInitOnce sync.Once

// Device implements graphics.Device on OpenGL 4.1 core.
type Device struct {
	translate bool
	// uniform name remapping for translated programs
	mapped map[graphics.Program]*translator.Program
}

// New loads the OpenGL function pointers. The context must already be
// current on the calling thread.
func New(translate bool) (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return &Device{
		translate: translate,
		mapped:    make(map[graphics.Program]*translator.Program),
	}, nil
}

func (d *Device) InitState() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.ALWAYS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) NewMesh(positions []float32) (graphics.Mesh, error) {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return 0, fmt.Errorf("mesh needs xyz triples, got %d floats", len(positions))
	}
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	if vao == 0 {
		return 0, fmt.Errorf("failed to allocate vertex array")
	}
	return graphics.Mesh(vao), nil
}

func (d *Device) BindMesh(m graphics.Mesh) {
	gl.BindVertexArray(uint32(m))
}

// DeleteMesh deletes the vertex array and the buffer bound to attribute 0.
func (d *Device) DeleteMesh(m graphics.Mesh) {
	vao := uint32(m)
	gl.BindVertexArray(vao)
	var vbo int32
	gl.GetVertexAttribiv(0, gl.VERTEX_ATTRIB_ARRAY_BUFFER_BINDING, &vbo)
	gl.BindVertexArray(0)
	if vbo != 0 {
		buf := uint32(vbo)
		gl.DeleteBuffers(1, &buf)
	}
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int) {
	glMode := uint32(gl.TRIANGLES)
	if mode == graphics.TriangleFan {
		glMode = gl.TRIANGLE_FAN
	}
	gl.DrawArrays(glMode, int32(first), int32(count))
}

// NewProgram compiles the pair, translating it from GLSL ES first when the
// device was created with translation enabled.
func (d *Device) NewProgram(vertexSource, fragmentSource string) (graphics.Program, error) {
	var names *translator.Program
	if d.translate {
		p, err := translator.Translate(shader.Source{Vertex: vertexSource, Fragment: fragmentSource}, false)
		if err != nil {
			return 0, err
		}
		vertexSource, fragmentSource = p.Source.Vertex, p.Source.Fragment
		names = p
	}
	program, err := newProgram(vertexSource, fragmentSource)
	if names != nil && program != 0 {
		d.mapped[graphics.Program(program)] = names
	}
	return graphics.Program(program), err
}

func (d *Device) UseProgram(p graphics.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) DeleteProgram(p graphics.Program) {
	delete(d.mapped, p)
	gl.DeleteProgram(uint32(p))
}

func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	if p == 0 {
		return -1
	}
	if names, ok := d.mapped[p]; ok {
		name = names.Mapped(name)
	}
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }

func (d *Device) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }

func (d *Device) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }

func (d *Device) NewTexture(img *image.RGBA) (graphics.Texture, error) {
	if img == nil {
		return 0, fmt.Errorf("texture image is nil")
	}
	width := int32(img.Rect.Dx())
	height := int32(img.Rect.Dy())
	if width == 0 || height == 0 {
		return 0, fmt.Errorf("texture image is empty")
	}
	var textureID uint32
	gl.GenTextures(1, &textureID)
	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return graphics.Texture(textureID), nil
}

func (d *Device) BindTexture(unit int, t graphics.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DeleteTexture(t graphics.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		return program, fmt.Errorf("failed to link program: %v", strings.TrimRight(logText, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}
