// Package graphicstest provides recording implementations of the graphics
// interfaces for tests that run without a GPU or a display.
package graphicstest

import (
	"errors"
	"image"

	"github.com/richinsley/tinygl/graphics"
)

// Draw is one recorded DrawArrays call together with the uniform values
// that were current on the bound program when it was issued.
type Draw struct {
	Mode    graphics.Primitive
	First   int
	Count   int
	Mesh    graphics.Mesh
	Program graphics.Program
	Texture graphics.Texture
	Pos     [3]float32
	Size    [3]float32
	Color   [4]float32
}

type programInfo struct {
	vertex   string
	fragment string
	locs     map[string]int32
	values   map[int32][]float32
}

// Device records every call made through the graphics.Device interface.
type Device struct {
	// ProgramErr, when set, is returned by NewProgram. The program handle
	// is still allocated, as a failed GL link still yields a name.
	ProgramErr error
	// MeshErr, when set, is returned by NewMesh.
	MeshErr error

	StateInitialized bool
	ViewportSize     [4]int
	ClearColors      [][4]float32
	Clears           int
	Draws            []Draw
	Meshes           map[graphics.Mesh][]float32
	Textures         map[graphics.Texture]*image.RGBA
	Deleted          []string
	UseCount         int

	// Pixels is returned by ReadPixels when non-nil.
	Pixels []byte

	next     uint32
	clear    [4]float32
	programs map[graphics.Program]*programInfo
	current  graphics.Program
	mesh     graphics.Mesh
	texture  graphics.Texture
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{
		Meshes:   make(map[graphics.Mesh][]float32),
		Textures: make(map[graphics.Texture]*image.RGBA),
		programs: make(map[graphics.Program]*programInfo),
	}
}

func (d *Device) alloc() uint32 {
	d.next++
	return d.next
}

func (d *Device) InitState() { d.StateInitialized = true }

func (d *Device) Viewport(x, y, width, height int) {
	d.ViewportSize = [4]int{x, y, width, height}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clear = [4]float32{r, g, b, a}
}

func (d *Device) Clear() {
	d.Clears++
	d.ClearColors = append(d.ClearColors, d.clear)
}

func (d *Device) NewMesh(positions []float32) (graphics.Mesh, error) {
	if d.MeshErr != nil {
		return 0, d.MeshErr
	}
	m := graphics.Mesh(d.alloc())
	d.Meshes[m] = append([]float32(nil), positions...)
	return m, nil
}

func (d *Device) BindMesh(m graphics.Mesh) { d.mesh = m }

func (d *Device) DeleteMesh(m graphics.Mesh) {
	delete(d.Meshes, m)
	d.Deleted = append(d.Deleted, "mesh")
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int) {
	draw := Draw{
		Mode:    mode,
		First:   first,
		Count:   count,
		Mesh:    d.mesh,
		Program: d.current,
		Texture: d.texture,
	}
	if info, ok := d.programs[d.current]; ok {
		copy(draw.Pos[:], info.value("inPos"))
		copy(draw.Size[:], info.value("inSize"))
		copy(draw.Color[:], info.value("inColor"))
	}
	d.Draws = append(d.Draws, draw)
}

func (d *Device) NewProgram(vertexSource, fragmentSource string) (graphics.Program, error) {
	p := graphics.Program(d.alloc())
	d.programs[p] = &programInfo{
		vertex:   vertexSource,
		fragment: fragmentSource,
		locs:     make(map[string]int32),
		values:   make(map[int32][]float32),
	}
	return p, d.ProgramErr
}

func (d *Device) UseProgram(p graphics.Program) {
	d.current = p
	d.UseCount++
}

func (d *Device) DeleteProgram(p graphics.Program) {
	delete(d.programs, p)
	d.Deleted = append(d.Deleted, "program")
}

// UniformLocation hands out a stable location per program and name.
func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	info, ok := d.programs[p]
	if !ok {
		return -1
	}
	if loc, ok := info.locs[name]; ok {
		return loc
	}
	loc := int32(p)*100 + int32(len(info.locs))
	info.locs[name] = loc
	return loc
}

func (d *Device) set(loc int32, v ...float32) {
	if loc < 0 {
		return
	}
	if info, ok := d.programs[d.current]; ok {
		info.values[loc] = v
	}
}

func (d *Device) Uniform1f(loc int32, v float32)          { d.set(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32)            { d.set(loc, float32(v)) }
func (d *Device) Uniform3f(loc int32, x, y, z float32)    { d.set(loc, x, y, z) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { d.set(loc, x, y, z, w) }

func (d *Device) NewTexture(img *image.RGBA) (graphics.Texture, error) {
	if img == nil {
		return 0, errors.New("nil image")
	}
	t := graphics.Texture(d.alloc())
	d.Textures[t] = img
	return t, nil
}

func (d *Device) BindTexture(unit int, t graphics.Texture) { d.texture = t }

func (d *Device) DeleteTexture(t graphics.Texture) {
	delete(d.Textures, t)
	d.Deleted = append(d.Deleted, "texture")
}

func (d *Device) ReadPixels(width, height int) []byte {
	if d.Pixels != nil {
		return d.Pixels
	}
	return make([]byte, width*height*4)
}

// Uniform returns the last value written to the named uniform of p.
func (d *Device) Uniform(p graphics.Program, name string) []float32 {
	info, ok := d.programs[p]
	if !ok {
		return nil
	}
	return info.value(name)
}

// ProgramSource returns the sources p was built from.
func (d *Device) ProgramSource(p graphics.Program) (string, string) {
	info, ok := d.programs[p]
	if !ok {
		return "", ""
	}
	return info.vertex, info.fragment
}

// LiveObjects counts meshes, programs and textures not yet deleted.
func (d *Device) LiveObjects() int {
	return len(d.Meshes) + len(d.programs) + len(d.Textures)
}

func (info *programInfo) value(name string) []float32 {
	loc, ok := info.locs[name]
	if !ok {
		return nil
	}
	return info.values[loc]
}
