package editor

import (
	"scene-editor/core"
)

// movementKeys are applied once per frame while held.
var movementKeys = [...]int{core.KeyW, core.KeyA, core.KeyS, core.KeyD}

// InputState is the held keys, buttons and cursor, rebuilt from the event
// stream as it is dispatched.
type InputState struct {
	MouseX, MouseY float32

	keys    map[int]bool
	buttons [3]bool
	// uiOwned marks buttons whose press landed on a panel; their drags are
	// not forwarded to the camera.
	uiOwned [3]bool

	// clicked latches presses seen during the current Dispatch so a press
	// released in the same frame still reaches the panels.
	clicked        [3]bool
	clickX, clickY float32
}

func NewInputState() *InputState {
	return &InputState{keys: make(map[int]bool)}
}

func (s *InputState) KeyDown(key int) bool {
	return s.keys[key]
}

func (s *InputState) ButtonDown(button int) bool {
	return button >= 0 && button < len(s.buttons) && s.buttons[button]
}

// Clicked reports whether the button was pressed during the last Dispatch.
func (s *InputState) Clicked(button int) bool {
	return button >= 0 && button < len(s.clicked) && s.clicked[button]
}

func (s *InputState) ShiftDown() bool {
	return s.keys[core.KeyLeftShift] || s.keys[core.KeyRightShift]
}

func (s *InputState) ControlDown() bool {
	return s.keys[core.KeyLeftControl] || s.keys[core.KeyRightControl]
}

func (s *InputState) AltDown() bool {
	return s.keys[core.KeyLeftAlt] || s.keys[core.KeyRightAlt]
}

// viewportOwns reports whether the button is held and was pressed outside
// the panels.
func (s *InputState) viewportOwns(button int) bool {
	return s.ButtonDown(button) && !s.uiOwned[button]
}

// Dispatch applies one frame of events in delivery order, then moves the
// camera for every held movement key.
func (e *Editor) Dispatch(events []core.Event, deltaTime float32) {
	e.input.clicked = [3]bool{}
	for _, ev := range events {
		switch ev.Kind {
		case core.EventKey:
			e.handleKey(ev)
		case core.EventMouseButton:
			e.handleMouseButton(ev)
		case core.EventMouseMove:
			e.handleMouseMove(ev)
		case core.EventScroll:
			if !e.UI.Captures(float32(ev.X), float32(ev.Y)) {
				e.Camera.ProcessMouseScroll(float32(ev.DY))
			}
		}
	}

	if e.input.ControlDown() {
		return
	}
	for _, key := range movementKeys {
		if e.input.KeyDown(key) {
			e.Camera.ProcessKeyboard(key, deltaTime)
		}
	}
}

func (e *Editor) handleKey(ev core.Event) {
	switch ev.Action {
	case core.ActionRelease:
		delete(e.input.keys, ev.Key)
		if isShift(ev.Key) && !e.input.ShiftDown() {
			e.Camera.EnableFPSMode(false)
		}
		return
	case core.ActionRepeat:
		e.input.keys[ev.Key] = true
		return
	}

	e.input.keys[ev.Key] = true
	if isShift(ev.Key) {
		e.Camera.EnableFPSMode(true)
		return
	}

	ctrl := ev.Control() || e.input.ControlDown()
	shift := ev.Shift() || e.input.ShiftDown()
	switch {
	case ctrl && ev.Key == core.KeyZ && shift, ctrl && ev.Key == core.KeyY:
		e.Redo()
	case ctrl && ev.Key == core.KeyZ:
		e.Undo()
	case ctrl && ev.Key == core.KeyS:
		e.Save()
	case ctrl && ev.Key == core.KeyD:
		e.DuplicateSelected()
	case ctrl:
		// Unbound shortcut.
	case ev.Key == core.KeyF:
		e.Focus()
	case ev.Key == core.KeyDelete:
		e.DeleteSelected()
	case ev.Key == core.KeyEscape:
		e.Selection.Clear()
	}
}

func (e *Editor) handleMouseButton(ev core.Event) {
	if ev.Button < 0 || ev.Button >= len(e.input.buttons) {
		return
	}
	x, y := float32(ev.X), float32(ev.Y)
	e.input.MouseX, e.input.MouseY = x, y

	if ev.Action == core.ActionRelease {
		e.input.buttons[ev.Button] = false
		e.input.uiOwned[ev.Button] = false
		return
	}
	if ev.Action != core.ActionPress {
		return
	}

	e.input.buttons[ev.Button] = true
	e.input.clicked[ev.Button] = true
	if ev.Button == core.MouseLeft {
		e.input.clickX, e.input.clickY = x, y
	}
	e.input.uiOwned[ev.Button] = e.UI.Captures(x, y)
	if e.input.uiOwned[ev.Button] {
		return
	}

	if ev.Button == core.MouseLeft && !ev.Alt() && !e.input.AltDown() {
		e.Pick(x, y)
	}
}

func (e *Editor) handleMouseMove(ev core.Event) {
	e.input.MouseX, e.input.MouseY = float32(ev.X), float32(ev.Y)
	dx, dy := float32(ev.DX), float32(ev.DY)
	if dx == 0 && dy == 0 {
		return
	}

	switch {
	case e.input.viewportOwns(core.MouseRight):
		e.Camera.ProcessMouseMovement(dx, -dy)
	case e.input.viewportOwns(core.MouseMiddle):
		e.Camera.ProcessMousePan(dx, dy)
	case e.input.viewportOwns(core.MouseLeft) && e.input.AltDown():
		if o := e.Selection.Active(); o != nil {
			e.Camera.ProcessMouseOrbit(dx, -dy, o.Center())
		}
	}
}

func isShift(key int) bool {
	return key == core.KeyLeftShift || key == core.KeyRightShift
}
