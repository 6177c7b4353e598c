package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
	"github.com/richinsley/tinygl/shader"
)

var (
	translator     *gst.ShaderTranslator
	translatorErr  error
	translatorOnce sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Program is a translated shader pair plus the names the translator gave
// each declared uniform.
type Program struct {
	Source shader.Source
	// Uniforms maps the authored uniform name to the name in the output.
	Uniforms map[string]string
}

// Translate converts a GLSL ES 3.00 pair into the requested output format.
func Translate(src shader.Source, isGLES bool) (*Program, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}

	vs, err := t.TranslateShader(src.Vertex, "vertex", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, err := t.TranslateShader(src.Fragment, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	p := &Program{
		Source:   shader.Source{Vertex: vs.Code, Fragment: fs.Code},
		Uniforms: make(map[string]string),
	}
	for name, v := range vs.Variables {
		p.Uniforms[name] = v.MappedName
	}
	for name, v := range fs.Variables {
		p.Uniforms[name] = v.MappedName
	}
	return p, nil
}

// Mapped returns the output name for an authored uniform name.
func (p *Program) Mapped(name string) string {
	if mapped, ok := p.Uniforms[name]; ok && mapped != "" {
		return mapped
	}
	return name
}
