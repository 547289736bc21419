package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"scene-editor/core"
)

func init() {
	// glfw and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string

	events       core.EventQueue
	lastX, lastY float64
	haveCursor   bool
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:      1600,
		Height:     900,
		Title:      "Scene Editor",
		Resizable:  true,
		VSync:      true,
		Fullscreen: false,
	}
}

// NewWindow creates a window with a current OpenGL 4.1 core context and
// starts queueing its input as Events.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}
	window.installCallbacks()

	return window, nil
}

func (w *Window) installCallbacks() {
	w.Handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		w.events.Push(core.Event{Kind: core.EventKey, Key: int(key), Action: core.Action(action), Mods: int(mods)})
	})

	w.Handle.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := win.GetCursorPos()
		w.events.Push(core.Event{Kind: core.EventMouseButton, Button: int(button), Action: core.Action(action), Mods: int(mods), X: x, Y: y})
	})

	w.Handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if !w.haveCursor {
			w.lastX, w.lastY = x, y
			w.haveCursor = true
		}
		e := core.Event{Kind: core.EventMouseMove, X: x, Y: y, DX: x - w.lastX, DY: y - w.lastY, Mods: w.modifiers()}
		w.lastX, w.lastY = x, y
		w.events.Push(e)
	})

	w.Handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		x, y := w.Handle.GetCursorPos()
		w.events.Push(core.Event{Kind: core.EventScroll, DX: xoff, DY: yoff, X: x, Y: y, Mods: w.modifiers()})
	})

	w.Handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		w.events.Push(core.Event{Kind: core.EventResize, X: float64(width), Y: float64(height)})
	})
}

// modifiers polls the modifier keys for callbacks that glfw does not give
// them to.
func (w *Window) modifiers() int {
	mods := 0
	if w.IsKeyPressed(core.KeyLeftShift) || w.IsKeyPressed(core.KeyRightShift) {
		mods |= core.ModShift
	}
	if w.IsKeyPressed(core.KeyLeftControl) || w.IsKeyPressed(core.KeyRightControl) {
		mods |= core.ModControl
	}
	if w.IsKeyPressed(core.KeyLeftAlt) || w.IsKeyPressed(core.KeyRightAlt) {
		mods |= core.ModAlt
	}
	return mods
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

// PollEvents processes pending glfw events, queueing them.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Events drains the input queued since the previous call.
func (w *Window) Events() []core.Event {
	return w.events.Drain()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// GetSize returns the window size in screen coordinates, the space cursor
// positions are reported in.
func (w *Window) GetSize() (int, int) {
	return w.Handle.GetSize()
}

func (w *Window) AspectRatio() float32 {
	if w.Height == 0 {
		return 1
	}
	return float32(w.Width) / float32(w.Height)
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func (w *Window) IsMouseButtonPressed(button int) bool {
	return w.Handle.GetMouseButton(glfw.MouseButton(button)) == glfw.Press
}

func (w *Window) GetCursorPos() (float64, float64) {
	return w.Handle.GetCursorPos()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

