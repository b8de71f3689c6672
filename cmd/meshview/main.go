// meshview is the interactive mesh viewport: orbit camera, element picking,
// loop expansion, and soft-selection visualization over the query engine.
package main

import (
	"flag"
	"fmt"
	gomath "math"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/engine/camera"
	"github.com/Faultbox/meshforge/internal/engine/input"
	"github.com/Faultbox/meshforge/internal/engine/picking"
	"github.com/Faultbox/meshforge/internal/engine/renderer"
	"github.com/Faultbox/meshforge/internal/engine/window"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/internal/mesh/primitive"
	"github.com/Faultbox/meshforge/internal/mesh/query"
	"github.com/Faultbox/meshforge/pkg/math"
)

const windowTitle = "MeshForge"

var flagShape = flag.String("shape", "tube", "Startup shape: grid, cube, or tube")

func init() {
	runtime.LockOSThread()
}

// pickMode selects what a left click expands to.
type pickMode int

const (
	pickElement pickMode = iota // single vertex pin
	pickLoop                    // edge loop through the hit edge
	pickRing                    // edge ring through the hit edge
)

func (m pickMode) String() string {
	switch m {
	case pickLoop:
		return "loop"
	case pickRing:
		return "ring"
	default:
		return "element"
	}
}

type app struct {
	cfg    *config.Config
	win    *window.Window
	rend   *renderer.Renderer
	cam    *camera.OrbitCamera
	engine *query.Engine

	mode    pickMode
	pinned  []int
	weights []float32

	rightDown  bool
	middleDown bool
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== MeshForge Viewer ===")

	m := startupMesh(*flagShape)

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		logger.Error("window creation failed", zap.Error(err))
		os.Exit(1)
	}
	defer win.Close()

	dw, dh := win.GetDrawableSize()
	rend, err := renderer.New(renderer.Config{
		Width:     dw,
		Height:    dh,
		Wireframe: cfg.Graphics.Wireframe,
	})
	if err != nil {
		logger.Error("renderer creation failed", zap.Error(err))
		os.Exit(1)
	}
	defer rend.Close()
	rend.Resize(dw, dh)

	cam := camera.NewOrbitCamera()
	cam.Distance = cfg.Camera.Distance
	cam.DragSensitivity = cfg.Camera.OrbitSpeed * 0.01
	cam.ZoomSensitivity = cfg.Camera.ZoomSpeed * 0.1
	min, max := m.Bounds()
	cam.FitToBounds(min, max)

	a := &app{
		cfg:    cfg,
		win:    win,
		rend:   rend,
		cam:    cam,
		engine: query.New(m, logger.Log),
	}
	a.refreshWeights()

	in := input.New()
	running := true
	for running {
		if in.Update() {
			running = false
		}
		for _, ev := range in.Events() {
			if a.handleEvent(ev) {
				running = false
			}
		}

		rend.Begin()
		rend.DrawMesh(a.viewProj())
		win.SwapBuffers()
	}

	logger.Info("viewer closed normally")
}

func startupMesh(shape string) *mesh.Mesh {
	switch shape {
	case "grid":
		return primitive.Grid(8, 8, 1)
	case "cube":
		return primitive.Cube(1)
	case "tube":
		return primitive.Tube(16, 6, 1, 3)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shape: %s\n", shape)
		os.Exit(1)
		return nil
	}
}

func (a *app) viewProj() math.Mat4 {
	fov := a.cfg.Camera.FOV * gomath.Pi / 180
	proj := math.Perspective(fov, a.rend.Aspect(), a.cfg.Camera.NearPlane, a.cfg.Camera.FarPlane)
	return proj.Mul(a.cam.ViewMatrix())
}

// handleEvent processes one input event; returns true to quit.
func (a *app) handleEvent(ev input.Event) bool {
	switch ev.Type {
	case input.EventQuit:
		return true

	case input.EventWindowResize:
		dw, dh := a.win.GetDrawableSize()
		a.rend.Resize(dw, dh)

	case input.EventMouseWheel:
		a.cam.HandleZoom(ev.WheelY)

	case input.EventMouseDown:
		switch ev.Button {
		case sdl.BUTTON_LEFT:
			a.pick(ev.MouseX, ev.MouseY)
		case sdl.BUTTON_RIGHT:
			a.rightDown = true
		case sdl.BUTTON_MIDDLE:
			a.middleDown = true
		}

	case input.EventMouseUp:
		switch ev.Button {
		case sdl.BUTTON_RIGHT:
			a.rightDown = false
		case sdl.BUTTON_MIDDLE:
			a.middleDown = false
		}

	case input.EventMouseMove:
		if a.rightDown {
			a.cam.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
		} else if a.middleDown {
			a.cam.HandlePan(float32(-ev.DeltaX), float32(ev.DeltaY))
		}

	case input.EventKeyDown:
		return a.handleKey(ev.Key)
	}
	return false
}

func (a *app) handleKey(key sdl.Scancode) bool {
	switch key {
	case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
		return true

	case sdl.SCANCODE_TAB:
		a.mode = (a.mode + 1) % 3
		logger.Info("pick mode changed", zap.String("mode", a.mode.String()))

	case sdl.SCANCODE_W:
		a.cfg.Graphics.Wireframe = !a.cfg.Graphics.Wireframe
		a.rend.SetWireframe(a.cfg.Graphics.Wireframe)

	case sdl.SCANCODE_S:
		a.cfg.Editing.SoftSelectEnabled = !a.cfg.Editing.SoftSelectEnabled
		a.refreshWeights()

	case sdl.SCANCODE_C:
		a.pinned = a.pinned[:0]
		a.refreshWeights()

	case sdl.SCANCODE_F:
		min, max := a.engine.Mesh().Bounds()
		a.cam.FitToBounds(min, max)

	case sdl.SCANCODE_UP:
		a.cfg.Editing.SoftSelectRadius *= 1.25
		a.refreshWeights()

	case sdl.SCANCODE_DOWN:
		a.cfg.Editing.SoftSelectRadius /= 1.25
		a.refreshWeights()
	}
	return false
}

// pick casts a ray through the clicked pixel and expands the hit according
// to the current mode.
func (a *app) pick(mouseX, mouseY int) {
	w, h := a.win.GetSize()
	ray := picking.ScreenToRay(
		float32(mouseX), float32(mouseY),
		float32(w), float32(h),
		a.viewProj().Inverse(),
	)

	hit := a.engine.Pick(ray, a.cfg.Editing.VertexPickTolerance)
	if hit == nil {
		logger.Debug("pick missed")
		return
	}

	logger.Info("picked",
		zap.Int("face", hit.Face),
		zap.Int("vertex", hit.Vertex),
		zap.String("mode", a.mode.String()),
	)

	switch a.mode {
	case pickElement:
		if hit.Vertex >= 0 {
			a.pinned = append(a.pinned[:0], hit.Vertex)
		}

	case pickLoop:
		loop := a.engine.EdgeLoop(hit.Edge.A, hit.Edge.B)
		a.pinned = a.pinned[:0]
		for _, v := range a.engine.VertexLoop(hit.Edge.A, hit.Edge.B) {
			a.pinned = append(a.pinned, v)
		}
		logger.Info("edge loop selected", zap.Int("edges", len(loop)))

	case pickRing:
		ring := a.engine.EdgeRing(hit.Edge.A, hit.Edge.B)
		a.pinned = a.pinned[:0]
		for _, e := range ring {
			a.pinned = append(a.pinned, e.A, e.B)
		}
		logger.Info("edge ring selected", zap.Int("edges", len(ring)))
	}

	a.refreshWeights()
}

// refreshWeights recomputes soft-selection weights for the pinned vertices
// and re-uploads the mesh. With soft selection off, pins render at weight 1.
func (a *app) refreshWeights() {
	m := a.engine.Mesh()
	if a.cfg.Editing.SoftSelectEnabled {
		a.weights = a.engine.SoftSelection(a.pinned, a.cfg.Editing.SoftSelectRadius)
	} else {
		a.weights = make([]float32, m.VertexCount())
		for _, v := range a.pinned {
			if v >= 0 && v < len(a.weights) {
				a.weights[v] = 1
			}
		}
	}
	a.rend.UploadMesh(m, a.weights)
}
