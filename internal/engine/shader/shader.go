// Package shader provides OpenGL shader compilation utilities.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program wraps a linked GL program with a uniform location cache.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links the given shader sources.
func NewProgram(vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{ID: id, uniforms: make(map[string]int32)}, nil
}

// Use binds the program for rendering.
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Uniform returns the cached uniform location, -1 if not found or inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// Delete releases the program object.
func (p *Program) Delete() {
	gl.DeleteProgram(p.ID)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	// Compile vertex shader
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	// Compile fragment shader
	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	// Link program
	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}
