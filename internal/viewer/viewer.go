// Package viewer ties the window, the renderer and the loaded scene together
// and runs the event loop.
package viewer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/config"
	"github.com/Faultbox/wireview/internal/engine/debug"
	"github.com/Faultbox/wireview/internal/engine/gpu"
	"github.com/Faultbox/wireview/internal/engine/input"
	"github.com/Faultbox/wireview/internal/engine/renderer"
	"github.com/Faultbox/wireview/internal/importer"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/pkg/scene"
)

// Surface presents frames.
type Surface interface {
	SwapBuffers()
	// Size returns the drawable size in pixels.
	Size() (int, int)
	SetTitle(title string)
}

// EventSource blocks until window system events are available.
type EventSource interface {
	Wait() []input.Event
}

// Options configures a Viewer.
type Options struct {
	// Title is the window title; the loaded file name is appended to it.
	Title    string
	Renderer renderer.Config
	// Print enables the scene dump after a successful load.
	Print     bool
	PrintMode scene.PrintMode
	// Out receives the scene dump. Defaults to stdout.
	Out              io.Writer
	ScreenshotDir    string
	ScreenshotFormat debug.Format
	// Picker is asked for a new asset when the open key is pressed.
	// Nil disables the key.
	Picker Picker
}

// OptionsFromConfig maps the loaded configuration onto viewer options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		Renderer: renderer.Config{
			Width:                cfg.Window.Width,
			Height:               cfg.Window.Height,
			Wireframe:            cfg.Render.Wireframe,
			DepthTest:            cfg.Render.DepthTest,
			ClearColor:           gpu.Color(cfg.Render.ClearColor),
			CheckErrorsEachFrame: cfg.Render.CheckErrorsEachFrame,
		},
		Title:         cfg.Window.Title,
		Out:           os.Stdout,
		ScreenshotDir: cfg.Debug.ScreenshotDir,
	}
	format, err := debug.ParseFormat(cfg.Debug.ScreenshotFormat)
	if err != nil {
		return Options{}, err
	}
	opts.ScreenshotFormat = format
	if strings.EqualFold(cfg.Asset.Print, config.PrintNone) {
		return opts, nil
	}
	mode, err := scene.ParsePrintMode(cfg.Asset.Print)
	if err != nil {
		return Options{}, err
	}
	opts.Print = true
	opts.PrintMode = mode
	return opts, nil
}

// Viewer owns the renderer and the scene shown in one window.
type Viewer struct {
	dev      gpu.Device
	surface  Surface
	events   EventSource
	renderer *renderer.Renderer
	shots    *debug.ScreenshotCapture
	opts     Options

	redisplay bool
	frames    int
}

// New builds the renderer on dev. Shader failures are returned.
func New(dev gpu.Device, surface Surface, events EventSource, opts Options) (*Viewer, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Title == "" {
		opts.Title = "wireview"
	}
	r, err := renderer.New(dev, opts.Renderer)
	if err != nil {
		return nil, err
	}
	shots := debug.NewScreenshotCapture(opts.ScreenshotDir, "wireview")
	if opts.ScreenshotFormat != "" {
		shots.SetFormat(opts.ScreenshotFormat)
	}
	return &Viewer{
		dev:       dev,
		surface:   surface,
		events:    events,
		renderer:  r,
		shots:     shots,
		opts:      opts,
		redisplay: true,
	}, nil
}

// Load imports path and uploads it. Failures are logged and leave the viewer
// without a scene, so it still opens and shows the clear color.
func (v *Viewer) Load(path string) bool {
	s, err := importer.Load(path)
	if err != nil {
		logger.Error("failed to load scene", zap.String("path", path), zap.Error(err))
		return false
	}

	if v.opts.Print {
		if err := scene.Fprint(v.opts.Out, s, v.opts.PrintMode); err != nil {
			logger.Warn("failed to print scene", zap.Error(err))
		}
	}

	if err := v.renderer.SetScene(s); err != nil {
		logger.Error("failed to upload scene", zap.String("path", path), zap.Error(err))
		return false
	}
	v.surface.SetTitle(v.opts.Title + " - " + filepath.Base(path))
	v.redisplay = true
	return true
}

// Scene returns the scene being shown, or nil.
func (v *Viewer) Scene() *scene.Scene {
	return v.renderer.Scene()
}

// Display draws one frame and presents it.
func (v *Viewer) Display() {
	v.renderer.Frame()
	v.surface.SwapBuffers()
	v.frames++
	v.redisplay = false
}

// Reshape updates the viewport to the new window dimensions.
func (v *Viewer) Reshape(width, height int) {
	v.renderer.Resize(width, height)
	v.redisplay = true
}

// Keyboard handles a key press and reports whether the viewer should quit.
// Escape quits. Every other key requests a redraw. F12 also saves a
// screenshot and O asks the picker for another asset.
func (v *Viewer) Keyboard(key sdl.Keycode) bool {
	switch key {
	case input.KeyEscape:
		return true
	case input.KeyScreenshot:
		v.screenshot()
	case input.KeyOpen:
		v.open()
	}
	v.redisplay = true
	return false
}

func (v *Viewer) open() {
	if v.opts.Picker == nil {
		return
	}
	path, ok, err := v.opts.Picker()
	if err != nil {
		logger.Warn("file dialog failed", zap.Error(err))
		return
	}
	if ok {
		v.Load(path)
	}
}

func (v *Viewer) screenshot() {
	width, height := v.surface.Size()
	name, err := v.shots.Capture(v.dev, width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("file", name))
}

// Handle dispatches one event and reports whether the viewer should quit.
func (v *Viewer) Handle(e input.Event) bool {
	switch e.Type {
	case input.EventQuit:
		return true
	case input.EventResize:
		// Event sizes are in window points; the viewport needs drawable pixels.
		width, height := v.surface.Size()
		if width <= 0 || height <= 0 {
			width, height = e.Width, e.Height
		}
		v.Reshape(width, height)
	case input.EventExpose:
		v.redisplay = true
	case input.EventKeyDown:
		return v.Keyboard(e.Key)
	}
	return false
}

// Run draws the first frame and then blocks on events until Escape or a
// window close. Frames are drawn only when a redraw was requested.
func (v *Viewer) Run() error {
	if v.events == nil {
		return fmt.Errorf("viewer has no event source")
	}
	logger.Info("entering event loop")

	for {
		if v.redisplay {
			v.Display()
		}
		for _, e := range v.events.Wait() {
			if v.Handle(e) {
				logger.Info("quit requested", zap.Int("frames", v.frames))
				return nil
			}
		}
	}
}

// Frames returns the number of frames presented.
func (v *Viewer) Frames() int {
	return v.frames
}

// Close releases the renderer's GPU resources.
func (v *Viewer) Close() {
	v.renderer.Close()
}
