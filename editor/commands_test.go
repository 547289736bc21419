package editor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/core"
	"scene-editor/math"
	"scene-editor/scene"
	"scene-editor/ui"
)

type counterCommand struct {
	value *int
	delta int
}

func (c *counterCommand) Execute()            { *c.value += c.delta }
func (c *counterCommand) Undo()               { *c.value -= c.delta }
func (c *counterCommand) Description() string { return fmt.Sprintf("add %d", c.delta) }

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(10)
	v := 0

	assert.Nil(t, h.Undo())
	assert.Nil(t, h.Redo())

	h.Do(&counterCommand{&v, 1})
	h.Do(&counterCommand{&v, 10})
	assert.Equal(t, 11, v)
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	cmd := h.Undo()
	require.NotNil(t, cmd)
	assert.Equal(t, "add 10", cmd.Description())
	assert.Equal(t, 1, v)
	assert.True(t, h.CanRedo())

	h.Redo()
	assert.Equal(t, 11, v)

	h.Undo()
	h.Do(&counterCommand{&v, 100})
	assert.Equal(t, 101, v)
	assert.False(t, h.CanRedo(), "a new command drops the redo stack")

	h.Clear()
	assert.False(t, h.CanUndo())
}

func TestHistoryIsBounded(t *testing.T) {
	h := NewHistory(3)
	v := 0
	for i := 1; i <= 5; i++ {
		h.Do(&counterCommand{&v, i})
	}
	assert.Equal(t, 3, h.Len())

	for h.Undo() != nil {
	}
	// 1 and 2 fell off the bottom.
	assert.Equal(t, 3, v)
}

func TestTransformCommand(t *testing.T) {
	o := scene.NewGameObject("o", nil, nil)
	old := o.Transform
	moved := old
	moved.Position = math.NewVec3(1, 2, 3)

	cmd := NewTransformCommand(o, old, moved)
	cmd.Execute()
	assert.Equal(t, moved, o.Transform)
	cmd.Undo()
	assert.Equal(t, old, o.Transform)
}

func TestDeleteCommandRestoresOrder(t *testing.T) {
	s := scene.NewScene()
	a := scene.NewGameObject("a", nil, nil)
	b := scene.NewGameObject("b", nil, nil)
	c := scene.NewGameObject("c", nil, nil)
	s.Add(a, b, c)

	h := NewHistory(10)
	h.Do(NewDeleteObjectCommand(s, b))
	assert.Equal(t, []*scene.GameObject{a, c}, s.Objects())

	h.Undo()
	assert.Equal(t, []*scene.GameObject{a, b, c}, s.Objects())
}

func TestAddAndDuplicateCommands(t *testing.T) {
	s := scene.NewScene()
	cube := scene.NewGameObject("cube", scene.NewCube(1), scene.DefaultMaterial())
	cube.Transform.Position = math.NewVec3(1, 0, 0)
	s.Add(cube)

	dup := NewDuplicateCommand(s, cube)
	dup.Execute()
	require.Equal(t, 2, s.Len())
	assert.NotEqual(t, cube.ID, dup.Object.ID)
	assert.Equal(t, math.NewVec3(1.5, 0, 0), dup.Object.Transform.Position)

	dup.Undo()
	assert.Equal(t, []*scene.GameObject{cube}, s.Objects())

	extra := scene.NewGameObject("extra", nil, nil)
	add := NewAddObjectCommand(s, extra)
	add.Execute()
	assert.Same(t, extra, s.Find("extra"))
	add.Undo()
	assert.Nil(t, s.Find("extra"))
}

func TestSelection(t *testing.T) {
	sel := NewSelection()
	center, size := sel.FocusTarget()
	assert.Equal(t, math.Vec3Zero, center)
	assert.Equal(t, math.Vec3One, size)

	s := scene.NewScene()
	o := scene.NewGameObject("cube", scene.NewCube(2), nil)
	o.Transform.Position = math.NewVec3(0, 3, 0)
	s.Add(o)

	sel.Select(o)
	assert.True(t, sel.IsSelected(o))
	assert.False(t, sel.IsSelected(nil))
	center, size = sel.FocusTarget()
	assertVec3Near(t, math.NewVec3(0, 3, 0), center)
	assertVec3Near(t, math.NewVec3(2, 2, 2), size)

	sel.Prune(s)
	assert.True(t, sel.HasSelection())
	s.Remove(o)
	sel.Prune(s)
	assert.False(t, sel.HasSelection())
}

func TestScreenToRayThroughCenter(t *testing.T) {
	cam := scene.NewCamera()
	ray, err := ScreenToRay(400, 300, 800, 600, cam)
	require.NoError(t, err)

	assertVec3Near(t, math.NewVec3(0, 0, 2.9), ray.Origin)
	assertVec3Near(t, math.NewVec3(0, 0, -1), ray.Direction)

	_, err = ScreenToRay(0, 0, 0, 600, cam)
	assert.ErrorIs(t, err, errEmptyViewport)
}

func TestRaycastScene(t *testing.T) {
	s := scene.NewScene()
	near := scene.NewGameObject("near", scene.NewCube(1), nil)
	far := scene.NewGameObject("far", scene.NewCube(1), nil)
	far.Transform.Position = math.NewVec3(0, 0, -3)
	s.Add(far, near)

	ray := Ray{Origin: math.NewVec3(0.1, 0.2, 5), Direction: math.NewVec3(0, 0, -1)}
	hit := RaycastScene(ray, s)
	require.True(t, hit.Hit)
	assert.Same(t, near, hit.Object)
	assert.InDelta(t, 4.5, hit.Distance, tol)
	assertVec3Near(t, math.NewVec3(0.1, 0.2, 0.5), hit.Point)
	assertVec3Near(t, math.NewVec3(0, 0, 1), hit.Normal)

	near.Visible = false
	hit = RaycastScene(ray, s)
	require.True(t, hit.Hit)
	assert.Same(t, far, hit.Object)

	miss := Ray{Origin: math.NewVec3(3, 0.2, 5), Direction: math.NewVec3(0, 0, -1)}
	assert.False(t, RaycastScene(miss, s).Hit)
}

func TestConsoleHandlerKeepsRecentRecords(t *testing.T) {
	h := NewConsoleHandler(3, nil)
	logger := slog.New(h)

	logger.Debug("hidden")
	for i := 0; i < 5; i++ {
		logger.Info("line", "n", i)
	}

	records := h.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "INFO line n=2", records[0].String())
	assert.Equal(t, "INFO line n=4", records[2].String())

	h.Clear()
	assert.Empty(t, h.Records())
}

func TestConsoleHandlerLevelsAndForwarding(t *testing.T) {
	var out bytes.Buffer
	next := slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})
	h := NewConsoleHandler(10, next)
	h.SetLevel(slog.LevelWarn)
	logger := slog.New(h)

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("details")
	logger.Error("broken", "err", "boom")

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, slog.LevelError, records[0].Level)
	assert.Contains(t, out.String(), "msg=details")
	assert.Contains(t, out.String(), "msg=broken err=boom")
}

func TestConsoleHandlerAttrsAndGroups(t *testing.T) {
	h := NewConsoleHandler(10, nil)
	logger := slog.New(h).With("file", "a.obj").WithGroup("mesh")

	logger.Warn("bad face", "line", 7)

	records := h.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "WARN bad face file=a.obj mesh.line=7", records[0].String())
	assert.Equal(t, ui.ColorWarn, levelColor(records[0].Level))
}

func TestKeyEventsDoNotLeakIntoUnboundCtrlShortcuts(t *testing.T) {
	e, box := newTestEditor(t)
	e.Selection.Select(box)

	// Ctrl+F is unbound; plain F would focus.
	e.Dispatch([]core.Event{key(core.KeyF, core.ActionPress, core.ModControl)}, 0)
	assert.Equal(t, math.NewVec3(0, 0, 3), e.Camera.Position())
}
