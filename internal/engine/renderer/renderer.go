// Package renderer uploads a scene to the GPU and draws it as a wireframe.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/engine/gpu"
	"github.com/Faultbox/wireview/internal/engine/shader"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/scene"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Wireframe  bool
	DepthTest  bool
	ClearColor gpu.Color
	// CheckErrorsEachFrame drains device errors after every frame.
	CheckErrorsEachFrame bool
}

// DefaultConfig returns the white-background wireframe setup.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		Wireframe:  true,
		DepthTest:  true,
		ClearColor: gpu.Color{1, 1, 1, 1},
	}
}

// Renderer owns the shader program, the current scene and its mesh table.
type Renderer struct {
	dev     gpu.Device
	config  Config
	program shader.Program

	scene *scene.Scene
	table MeshTable
}

// New builds the shader program and sets the global pipeline state.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(dev gpu.Device, cfg Config) (*Renderer, error) {
	version, glsl := dev.Info()
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("glsl", glsl),
	)

	program, err := shader.Build(dev)
	if err != nil {
		return nil, fmt.Errorf("failed to build shader program: %w", err)
	}

	r := &Renderer{dev: dev, config: cfg, program: program}

	if cfg.DepthTest {
		dev.EnableDepthTest()
	}
	dev.SetWireframe(cfg.Wireframe)
	dev.SetClearColor(cfg.ClearColor)
	if cfg.Width > 0 && cfg.Height > 0 {
		dev.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	}
	gpu.CheckErrors(dev, "init")

	return r, nil
}

// SetScene uploads s and makes it the scene drawn by Frame. A nil scene draws
// nothing. The previous scene's GPU objects are released.
func (r *Renderer) SetScene(s *scene.Scene) error {
	table, err := Upload(r.dev, s, r.program.PositionLoc)
	if err != nil {
		return fmt.Errorf("failed to upload scene: %w", err)
	}
	gpu.CheckErrors(r.dev, "upload")

	r.table.Release(r.dev)
	r.scene = s
	r.table = table
	return nil
}

// Scene returns the scene being drawn.
func (r *Renderer) Scene() *scene.Scene {
	return r.scene
}

// Table returns the mesh table of the current scene.
func (r *Renderer) Table() MeshTable {
	return r.table
}

// Frame clears the framebuffer and draws every (node, mesh) pair of the scene
// in pre-order. It returns the number of draw calls issued. Node transforms
// are not applied.
func (r *Renderer) Frame() int {
	r.dev.Clear()
	r.dev.UseProgram(r.program.ID)

	draws := 0
	r.scene.Walk(func(n *scene.Node, depth int) {
		if n == nil {
			logger.Warn("null node in scene graph, skipping subtree", zap.Int("depth", depth))
			return
		}
		for _, idx := range n.Meshes {
			if idx < 0 || idx >= len(r.table) {
				logger.Warn("skipping mesh reference",
					zap.String("node", n.Name),
					zap.Error(fmt.Errorf("%w: %d", ErrMeshIndexOutOfRange, idx)),
				)
				continue
			}
			h := r.table[idx]
			r.dev.BindVertexArray(h.VAO)
			r.dev.DrawElements(h.Mode, h.IndexCount, 0)
			r.dev.BindVertexArray(0)
			draws++
		}
	})

	if r.config.CheckErrorsEachFrame {
		gpu.CheckErrors(r.dev, "frame")
	}
	return draws
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.dev.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Close releases the mesh table and the shader program.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.table.Release(r.dev)
	r.table = nil
	r.scene = nil
	r.program.Delete(r.dev)
	r.program = shader.Program{}
}
