package shader

// Uniform names shared by the shape and sprite programs.
const (
	UniformColor        = "inColor"
	UniformSize         = "inSize"
	UniformPos          = "inPos"
	UniformScreenWidth  = "inScreenWidth"
	UniformScreenHeight = "inScreenHeight"
	UniformTexture      = "inTexture"
)

// DepthScale is the pixel-space depth that maps to one unit of clip space.
const DepthScale = 1000.0

// Source is a vertex/fragment pair ready to hand to a graphics.Device.
type Source struct {
	Vertex   string
	Fragment string
}

// ────────────────────────────────── Desktop GL ──────────────────────────────────

// The projection maps pixel space with a bottom-left origin onto clip space.
const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec3 VertexPosition;
uniform vec4  inColor;
uniform vec3  inSize;
uniform vec3  inPos;
uniform float inScreenWidth;
uniform float inScreenHeight;
out vec4 color;
void main() {
    color = inColor;
    mat4 projection = mat4(
        vec4(2.0 / inScreenWidth, 0.0, 0.0, 0.0),
        vec4(0.0, 2.0 / inScreenHeight, 0.0, 0.0),
        vec4(0.0, 0.0, -1.0 / 1000.0, 0.0),
        vec4(-1.0, -1.0, 0.0, 1.0));
    vec3 pos = inSize * VertexPosition + inPos;
    gl_Position = projection * vec4(pos, 1.0);
}
`

const fragmentShaderSourceGL = `#version 410 core
in  vec4 color;
out vec4 FragColor;
void main() { FragColor = color; }
`

const spriteVertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec3 VertexPosition;
uniform vec4  inColor;
uniform vec3  inSize;
uniform vec3  inPos;
uniform float inScreenWidth;
uniform float inScreenHeight;
out vec4 color;
out vec2 uv;
void main() {
    color = inColor;
    uv = VertexPosition.xy + 0.5;
    mat4 projection = mat4(
        vec4(2.0 / inScreenWidth, 0.0, 0.0, 0.0),
        vec4(0.0, 2.0 / inScreenHeight, 0.0, 0.0),
        vec4(0.0, 0.0, -1.0 / 1000.0, 0.0),
        vec4(-1.0, -1.0, 0.0, 1.0));
    vec3 pos = inSize * VertexPosition + inPos;
    gl_Position = projection * vec4(pos, 1.0);
}
`

const spriteFragmentShaderSourceGL = `#version 410 core
in  vec4 color;
in  vec2 uv;
out vec4 FragColor;
uniform sampler2D inTexture;
void main() { FragColor = texture(inTexture, uv) * color; }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
precision highp float;
layout (location = 0) in vec3 VertexPosition;
uniform vec4  inColor;
uniform vec3  inSize;
uniform vec3  inPos;
uniform float inScreenWidth;
uniform float inScreenHeight;
out vec4 color;
void main() {
    color = inColor;
    mat4 projection = mat4(
        vec4(2.0 / inScreenWidth, 0.0, 0.0, 0.0),
        vec4(0.0, 2.0 / inScreenHeight, 0.0, 0.0),
        vec4(0.0, 0.0, -1.0 / 1000.0, 0.0),
        vec4(-1.0, -1.0, 0.0, 1.0));
    vec3 pos = inSize * VertexPosition + inPos;
    gl_Position = projection * vec4(pos, 1.0);
}
`

const fragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in  vec4 color;
out vec4 FragColor;
void main() { FragColor = color; }
`

const spriteVertexShaderSourceGLES = `#version 300 es
precision highp float;
layout (location = 0) in vec3 VertexPosition;
uniform vec4  inColor;
uniform vec3  inSize;
uniform vec3  inPos;
uniform float inScreenWidth;
uniform float inScreenHeight;
out vec4 color;
out vec2 uv;
void main() {
    color = inColor;
    uv = VertexPosition.xy + 0.5;
    mat4 projection = mat4(
        vec4(2.0 / inScreenWidth, 0.0, 0.0, 0.0),
        vec4(0.0, 2.0 / inScreenHeight, 0.0, 0.0),
        vec4(0.0, 0.0, -1.0 / 1000.0, 0.0),
        vec4(-1.0, -1.0, 0.0, 1.0));
    vec3 pos = inSize * VertexPosition + inPos;
    gl_Position = projection * vec4(pos, 1.0);
}
`

const spriteFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in  vec4 color;
in  vec2 uv;
out vec4 FragColor;
uniform sampler2D inTexture;
void main() { FragColor = texture(inTexture, uv) * color; }
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Shapes returns the flat-color program used by every shape primitive.
func Shapes(isGLES bool) Source {
	if isGLES {
		return Source{Vertex: vertexShaderSourceGLES, Fragment: fragmentShaderSourceGLES}
	}
	return Source{Vertex: vertexShaderSourceGL, Fragment: fragmentShaderSourceGL}
}

// Sprites returns the textured program. The unit square doubles as the
// sprite quad, so texture coordinates come from the vertex position.
func Sprites(isGLES bool) Source {
	if isGLES {
		return Source{Vertex: spriteVertexShaderSourceGLES, Fragment: spriteFragmentShaderSourceGLES}
	}
	return Source{Vertex: spriteVertexShaderSourceGL, Fragment: spriteFragmentShaderSourceGL}
}
