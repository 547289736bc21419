// Package editor turns input events into camera moves and scene edits and
// draws the editor panels.
package editor

import (
	"errors"
	"image"
	"log/slog"
	"time"

	"scene-editor/core"
	"scene-editor/scene"
	"scene-editor/ui"
)

const defaultManifestPath = "scene.yaml"

var errEmptyViewport = errors.New("viewport has no area")

// Options configures New. Zero values pick defaults.
type Options struct {
	Logger       *slog.Logger
	Console      *ConsoleHandler
	ManifestPath string
	HistoryDepth int
}

// Editor is the top-level editor state. It is used from the main thread
// only.
type Editor struct {
	Scene     *scene.Scene
	Camera    *scene.Camera
	Selection *Selection
	History   *History
	Console   *ConsoleHandler
	UI        *ui.Context

	logger       *slog.Logger
	manifestPath string
	input        *InputState

	viewWidth, viewHeight int
	savedAt               time.Time

	// edit is the inspector drag in progress, if any.
	edit *transformEdit
}

func New(s *scene.Scene, camera *scene.Camera, opts Options) *Editor {
	if opts.Console == nil {
		opts.Console = NewConsoleHandler(200, nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(opts.Console)
	}
	if opts.HistoryDepth <= 0 {
		opts.HistoryDepth = 100
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = defaultManifestPath
	}

	return &Editor{
		Scene:        s,
		Camera:       camera,
		Selection:    NewSelection(),
		History:      NewHistory(opts.HistoryDepth),
		Console:      opts.Console,
		UI:           ui.NewContext(),
		logger:       opts.Logger,
		manifestPath: opts.ManifestPath,
		input:        NewInputState(),
	}
}

// Frame runs one editor frame: events are dispatched to the camera and the
// scene, then the panels are drawn. The returned canvas is width×height in
// the same coordinates as the cursor.
func (e *Editor) Frame(events []core.Event, deltaTime float32, width, height int) *image.RGBA {
	e.viewWidth, e.viewHeight = width, height
	e.Dispatch(events, deltaTime)
	e.Camera.Update(deltaTime)

	in := ui.Input{
		Width:        width,
		Height:       height,
		MouseX:       e.input.MouseX,
		MouseY:       e.input.MouseY,
		MouseDown:    e.input.ButtonDown(core.MouseLeft),
		MouseClicked: e.input.Clicked(core.MouseLeft),
	}
	if in.MouseClicked && !in.MouseDown {
		// Pressed and released within the frame: hit-test where it was pressed.
		in.MouseX, in.MouseY = e.input.clickX, e.input.clickY
	}
	e.UI.Begin(in)
	e.drawPanels(width, height)
	return e.UI.End()
}

func (e *Editor) Logger() *slog.Logger {
	return e.logger
}

func (e *Editor) Input() *InputState {
	return e.input
}

// Focus frames the selection, or the origin when nothing is selected.
func (e *Editor) Focus() {
	center, size := e.Selection.FocusTarget()
	e.Camera.ResetFocus(center, size)
}

// Pick selects the object under the cursor; empty space clears the
// selection.
func (e *Editor) Pick(x, y float32) *scene.GameObject {
	ray, err := ScreenToRay(x, y, e.viewWidth, e.viewHeight, e.Camera)
	if err != nil {
		e.logger.Warn("pick failed", "err", err)
		return nil
	}

	hit := RaycastScene(ray, e.Scene)
	if !hit.Hit {
		e.Selection.Clear()
		return nil
	}
	e.Selection.Select(hit.Object)
	e.logger.Info("selected", "object", hit.Object.Name, "id", hit.Object.ID)
	return hit.Object
}

func (e *Editor) Undo() {
	cmd := e.History.Undo()
	if cmd == nil {
		return
	}
	e.edit = nil
	e.Selection.Prune(e.Scene)
	e.logger.Info("undo", "action", cmd.Description())
}

func (e *Editor) Redo() {
	cmd := e.History.Redo()
	if cmd == nil {
		return
	}
	e.edit = nil
	e.Selection.Prune(e.Scene)
	e.logger.Info("redo", "action", cmd.Description())
}

func (e *Editor) DeleteSelected() {
	o := e.Selection.Active()
	if o == nil {
		return
	}
	e.History.Do(NewDeleteObjectCommand(e.Scene, o))
	e.Selection.Clear()
	e.edit = nil
	e.logger.Info("deleted", "object", o.Name)
}

func (e *Editor) DuplicateSelected() {
	o := e.Selection.Active()
	if o == nil {
		return
	}
	cmd := NewDuplicateCommand(e.Scene, o)
	e.History.Do(cmd)
	e.Selection.Select(cmd.Object)
	e.logger.Info("duplicated", "object", o.Name, "copy", cmd.Object.Name)
}

// Save writes the scene manifest.
func (e *Editor) Save() error {
	if err := scene.SaveManifest(e.Scene, e.manifestPath); err != nil {
		e.logger.Error("save failed", "file", e.manifestPath, "err", err)
		return err
	}
	e.savedAt = time.Now()
	e.logger.Info("scene saved", "file", e.manifestPath, "objects", e.Scene.Len())
	return nil
}

func (e *Editor) ManifestPath() string {
	return e.manifestPath
}
