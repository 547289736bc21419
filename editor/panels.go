package editor

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"scene-editor/core"
	"scene-editor/math"
	"scene-editor/scene"
	"scene-editor/ui"
)

const (
	panelMargin    = 10
	hierarchyWidth = 240
	inspectorWidth = 320
	consoleHeight  = 180
	dragSpeed      = 0.1
)

// transformEdit remembers the transform at the start of an inspector drag so
// the whole drag becomes one undo step.
type transformEdit struct {
	object *scene.GameObject
	start  core.Transform
}

// PanelLayout returns the hierarchy, inspector and console rectangles for a
// width×height canvas.
func PanelLayout(width, height int) (hierarchy, inspector, console image.Rectangle) {
	bottom := height - consoleHeight - 2*panelMargin
	hierarchy = image.Rect(panelMargin, panelMargin, panelMargin+hierarchyWidth, bottom)
	inspector = image.Rect(width-panelMargin-inspectorWidth, panelMargin, width-panelMargin, bottom)
	console = image.Rect(panelMargin, height-panelMargin-consoleHeight, width-panelMargin, height-panelMargin)
	return hierarchy, inspector, console
}

func (e *Editor) drawPanels(width, height int) {
	hierarchy, inspector, console := PanelLayout(width, height)
	e.drawHierarchy(hierarchy)
	e.drawInspector(inspector)
	e.drawConsole(console)
}

// HierarchyLabel is the row label of an object; the ID keeps duplicate names
// apart.
func HierarchyLabel(o *scene.GameObject) string {
	return fmt.Sprintf("%s#%d", o.Name, o.ID)
}

func (e *Editor) drawHierarchy(r image.Rectangle) {
	e.UI.Window("Hierarchy", r)
	defer e.UI.EndWindow()

	for _, o := range e.Scene.Objects() {
		label := HierarchyLabel(o)
		if !o.Visible {
			label += " (hidden)"
		}
		if e.UI.Selectable(label, e.Selection.IsSelected(o)) {
			e.Selection.Select(o)
		}
	}
}

func (e *Editor) drawInspector(r image.Rectangle) {
	e.UI.Window("Inspector", r)
	defer e.UI.EndWindow()

	if o := e.Selection.Active(); o != nil {
		e.UI.Text(HierarchyLabel(o))
		if o.Source != "" {
			e.UI.TextColored(o.Source, ui.ColorDim)
		}
		e.inspectTransform(o)

		label := "Hide"
		if !o.Visible {
			label = "Show"
		}
		if e.UI.Button(label) {
			o.Visible = !o.Visible
		}
		e.UI.Separator()
	} else if e.edit != nil {
		e.edit = nil
	}

	c := e.Camera
	p := c.Position()
	e.UI.TextColored("Camera", ui.ColorDim)
	e.UI.Textf("pos %.2f %.2f %.2f", p.X, p.Y, p.Z)
	e.UI.Textf("yaw %.1f pitch %.1f fov %.0f", c.Yaw(), c.Pitch(), c.Zoom())
	if c.IsFPSModeEnabled() {
		e.UI.Text("FPS mode")
	}
}

// inspectTransform edits position, rotation and scale. Values change live
// while dragging; the release records a TransformCommand.
func (e *Editor) inspectTransform(o *scene.GameObject) {
	fields := []struct {
		label string
		value *math.Vec3
	}{
		{"Position", &o.Transform.Position},
		{"Rotation", &o.Transform.Rotation},
		{"Scale", &o.Transform.Scale},
	}

	before := o.Transform
	released := false
	for _, f := range fields {
		v := f.value.Array()
		changed, done := e.UI.DragFloat3(f.label, &v, dragSpeed)
		if changed {
			if e.edit == nil || e.edit.object != o {
				e.edit = &transformEdit{object: o, start: before}
			}
			*f.value = math.Vec3FromArray(v)
		}
		released = released || done
	}

	if released && e.edit != nil && e.edit.object == o {
		if e.edit.start != o.Transform {
			e.History.Do(NewTransformCommand(o, e.edit.start, o.Transform))
			e.logger.Debug("transform edited", "object", o.Name)
		}
		e.edit = nil
	}
}

func (e *Editor) drawConsole(r image.Rectangle) {
	e.UI.Window("Console", r)
	defer e.UI.EndWindow()

	records := e.Console.Records()
	rows := (r.Dy() - 30) / 16
	if rows < 1 {
		return
	}
	if len(records) > rows {
		records = records[len(records)-rows:]
	}
	for _, rec := range records {
		e.UI.TextColored(rec.String(), levelColor(rec.Level))
	}
}

func levelColor(level slog.Level) color.Color {
	switch {
	case level >= slog.LevelError:
		return ui.ColorError
	case level >= slog.LevelWarn:
		return ui.ColorWarn
	case level < slog.LevelInfo:
		return ui.ColorDim
	}
	return ui.ColorText
}
