// Package renderer draws the edited mesh with per-vertex selection weights.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/engine/shader"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
}

// Renderer handles all OpenGL rendering of the mesh viewport.
type Renderer struct {
	config Config

	program *shader.Program

	meshVAO uint32
	meshVBO uint32
	meshEBO uint32

	indexCount int32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.12, 0.12, 0.16, 1.0)

	var err error
	r.program, err = shader.NewProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh shader: %w", err)
	}

	gl.GenVertexArrays(1, &r.meshVAO)
	gl.GenBuffers(1, &r.meshVBO)
	gl.GenBuffers(1, &r.meshEBO)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.meshVAO != 0 {
		gl.DeleteVertexArrays(1, &r.meshVAO)
	}
	if r.meshVBO != 0 {
		gl.DeleteBuffers(1, &r.meshVBO)
	}
	if r.meshEBO != 0 {
		gl.DeleteBuffers(1, &r.meshEBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetWireframe toggles wireframe rendering.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Aspect returns the current viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// UploadMesh rebuilds the GPU buffers from the mesh and per-vertex weights.
// Call after any edit or weight change; weights may be nil for none.
func (r *Renderer) UploadMesh(m *mesh.Mesh, weights []float32) {
	// Interleave position and weight per vertex.
	n := m.VertexCount()
	vertices := make([]float32, 0, n*4)
	for v := 0; v < n; v++ {
		p := m.Position(v)
		w := float32(0)
		if v < len(weights) {
			w = weights[v]
		}
		vertices = append(vertices, p.X, p.Y, p.Z, w)
	}

	tris := m.Triangulate()
	indices := make([]uint32, len(tris))
	for i, idx := range tris {
		indices[i] = uint32(idx)
	}
	r.indexCount = int32(len(indices))

	gl.BindVertexArray(r.meshVAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.DYNAMIC_DRAW)
	}

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)

	// Weight attribute (location = 1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("mesh uploaded",
		zap.Int("vertices", n),
		zap.Int32("indices", r.indexCount),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMesh renders the uploaded mesh with the given view-projection matrix.
func (r *Renderer) DrawMesh(viewProj math.Mat4) {
	if r.indexCount == 0 {
		return
	}

	r.program.Use()
	gl.UniformMatrix4fv(r.program.Uniform("uViewProj"), 1, false, viewProj.Ptr())

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gl.BindVertexArray(r.meshVAO)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Base surface is gray; soft-selection weight blends toward orange, matching
// the usual proportional-edit visualization.
const meshVertexShader = `
	#version 410 core

	layout (location = 0) in vec3 aPos;
	layout (location = 1) in float aWeight;

	uniform mat4 uViewProj;

	out float vWeight;

	void main() {
		gl_Position = uViewProj * vec4(aPos, 1.0);
		vWeight = aWeight;
	}
`

const meshFragmentShader = `
	#version 410 core

	in float vWeight;
	out vec4 FragColor;

	void main() {
		vec3 base = vec3(0.55, 0.57, 0.60);
		vec3 hot = vec3(1.0, 0.55, 0.1);
		FragColor = vec4(mix(base, hot, clamp(vWeight, 0.0, 1.0)), 1.0);
	}
`
