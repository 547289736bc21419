package editor

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/core"
	"scene-editor/internal/assetwatch"
	"scene-editor/math"
	"scene-editor/scene"
)

const (
	viewW = 800
	viewH = 600
	tol   = 1e-4
)

func newTestEditor(t *testing.T) (*Editor, *scene.GameObject) {
	t.Helper()
	s := scene.NewScene()
	box := scene.NewGameObject("Box", scene.NewCube(1), scene.DefaultMaterial())
	box.Primitive = scene.PrimitiveCube
	s.Add(box)

	e := New(s, scene.NewCamera(), Options{
		ManifestPath: filepath.Join(t.TempDir(), "scene.yaml"),
		HistoryDepth: 10,
	})
	return e, box
}

func assertVec3Near(t *testing.T, expected, actual math.Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tol, "X")
	assert.InDelta(t, expected.Y, actual.Y, tol, "Y")
	assert.InDelta(t, expected.Z, actual.Z, tol, "Z")
}

func key(k int, action core.Action, mods int) core.Event {
	return core.Event{Kind: core.EventKey, Key: k, Action: action, Mods: mods}
}

func button(b int, action core.Action, x, y float64) core.Event {
	return core.Event{Kind: core.EventMouseButton, Button: b, Action: action, X: x, Y: y}
}

func move(x, y, dx, dy float64) core.Event {
	return core.Event{Kind: core.EventMouseMove, X: x, Y: y, DX: dx, DY: dy}
}

func TestFocusWithoutSelection(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Dispatch([]core.Event{key(core.KeyF, core.ActionPress, 0)}, 0)

	assertVec3Near(t, math.NewVec3(0, 0, 0.34641), e.Camera.Position())
}

func TestFocusOnSelection(t *testing.T) {
	e, box := newTestEditor(t)
	box.Transform.Position = math.NewVec3(2, 0, -5)
	box.Transform.Scale = math.NewVec3(5, 5, 5)
	e.Selection.Select(box)

	e.Dispatch([]core.Event{key(core.KeyF, core.ActionPress, 0)}, 0)

	assertVec3Near(t, math.NewVec3(2, 0, -5+1.7320508), e.Camera.Position())
}

func TestShiftTogglesFPSMode(t *testing.T) {
	e, _ := newTestEditor(t)

	e.Dispatch([]core.Event{key(core.KeyLeftShift, core.ActionPress, core.ModShift)}, 0)
	assert.True(t, e.Camera.IsFPSModeEnabled())

	e.Dispatch([]core.Event{key(core.KeyLeftShift, core.ActionRelease, 0)}, 0)
	assert.False(t, e.Camera.IsFPSModeEnabled())
}

func TestHeldMovementKeys(t *testing.T) {
	e, _ := newTestEditor(t)

	e.Dispatch([]core.Event{key(core.KeyW, core.ActionPress, 0)}, 1)
	assertVec3Near(t, math.NewVec3(0, 0, 0.5), e.Camera.Position())

	// A repeat adds nothing; the held key moves once per frame.
	e.Dispatch([]core.Event{key(core.KeyW, core.ActionRepeat, 0)}, 0.2)
	assertVec3Near(t, math.NewVec3(0, 0, 0), e.Camera.Position())

	e.Dispatch([]core.Event{
		key(core.KeyW, core.ActionRelease, 0),
		key(core.KeyLeftShift, core.ActionPress, core.ModShift),
		key(core.KeyD, core.ActionPress, core.ModShift),
	}, 1)
	assertVec3Near(t, math.NewVec3(5, 0, 0), e.Camera.Position())
}

func TestMouseLookPanAndScroll(t *testing.T) {
	e, _ := newTestEditor(t)

	e.Dispatch([]core.Event{
		button(core.MouseRight, core.ActionPress, 400, 300),
		move(410, 305, 10, 5),
		button(core.MouseRight, core.ActionRelease, 410, 305),
		move(500, 305, 90, 0),
	}, 0)
	assert.InDelta(t, -89, e.Camera.Yaw(), tol)
	assert.InDelta(t, -0.5, e.Camera.Pitch(), tol)

	e2, _ := newTestEditor(t)
	e2.Dispatch([]core.Event{
		button(core.MouseMiddle, core.ActionPress, 400, 300),
		move(410, 300, 10, 0),
	}, 0)
	assertVec3Near(t, math.NewVec3(-0.05, 0, 3), e2.Camera.Position())

	e3, _ := newTestEditor(t)
	e3.Dispatch([]core.Event{{Kind: core.EventScroll, X: 400, Y: 300, DY: 5}}, 0)
	assertVec3Near(t, math.NewVec3(0, 0, 2.5), e3.Camera.Position())
}

func TestAltDragOrbitsSelection(t *testing.T) {
	e, box := newTestEditor(t)
	box.Transform.Position = math.NewVec3(0, 0, -2)
	e.Selection.Select(box)

	e.Dispatch([]core.Event{
		key(core.KeyLeftAlt, core.ActionPress, core.ModAlt),
		button(core.MouseLeft, core.ActionPress, 400, 300),
		move(430, 300, 30, 0),
		move(430, 320, 0, 20),
	}, 0)

	assert.True(t, e.Selection.IsSelected(box), "alt-click must not pick")
	assert.InDelta(t, 5, e.Camera.Position().Distance(box.Center()), tol)
	assert.InDelta(t, -60, e.Camera.Yaw(), tol)
	assert.InDelta(t, -20, e.Camera.Pitch(), tol)
}

func TestClickPicksAndClears(t *testing.T) {
	e, box := newTestEditor(t)
	e.Frame(nil, 0, viewW, viewH)

	e.Frame([]core.Event{
		button(core.MouseLeft, core.ActionPress, viewW/2, viewH/2),
		button(core.MouseLeft, core.ActionRelease, viewW/2, viewH/2),
	}, 0, viewW, viewH)
	assert.True(t, e.Selection.IsSelected(box))

	e.Frame([]core.Event{
		button(core.MouseLeft, core.ActionPress, 300, 100),
		button(core.MouseLeft, core.ActionRelease, 300, 100),
	}, 0, viewW, viewH)
	assert.False(t, e.Selection.HasSelection())
}

func TestPanelsCaptureMouse(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Frame(nil, 0, viewW, viewH)
	hierarchy, _, _ := PanelLayout(viewW, viewH)
	x, y := float64(hierarchy.Min.X+100), float64(hierarchy.Max.Y-20)

	e.Frame([]core.Event{
		{Kind: core.EventScroll, X: x, Y: y, DY: 5},
		button(core.MouseRight, core.ActionPress, x, y),
		move(x+10, y, 10, 0),
	}, 0, viewW, viewH)

	assert.Equal(t, math.NewVec3(0, 0, 3), e.Camera.Position())
	assert.Equal(t, float32(-90), e.Camera.Yaw())
}

func TestHierarchyClickSelects(t *testing.T) {
	e, box := newTestEditor(t)
	e.Frame(nil, 0, viewW, viewH)
	hierarchy, _, _ := PanelLayout(viewW, viewH)
	x, y := float64(hierarchy.Min.X+20), float64(hierarchy.Min.Y+32)

	e.Frame([]core.Event{button(core.MouseLeft, core.ActionPress, x, y)}, 0, viewW, viewH)
	assert.True(t, e.Selection.IsSelected(box))
}

func TestHierarchyClickWithinOneFrame(t *testing.T) {
	e, box := newTestEditor(t)
	e.Frame(nil, 0, viewW, viewH)
	hierarchy, _, _ := PanelLayout(viewW, viewH)
	x, y := float64(hierarchy.Min.X+20), float64(hierarchy.Min.Y+32)

	e.Frame([]core.Event{
		button(core.MouseLeft, core.ActionPress, x, y),
		button(core.MouseLeft, core.ActionRelease, x, y),
		move(400, 300, 400-x, 300-y),
	}, 0, viewW, viewH)
	assert.True(t, e.Selection.IsSelected(box))

	e.Frame(nil, 0, viewW, viewH)
	assert.False(t, e.Input().Clicked(core.MouseLeft))
	assert.True(t, e.Selection.IsSelected(box))
}

func TestInspectorDragIsOneUndoStep(t *testing.T) {
	e, box := newTestEditor(t)
	e.Selection.Select(box)
	e.Frame(nil, 0, viewW, viewH)

	_, inspector, _ := PanelLayout(viewW, viewH)
	// Second row of the inspector is the Position field; aim at X.
	x := float64(inspector.Min.X + 6 + 70 + 10)
	y := float64(inspector.Min.Y + 18 + 6 + 16 + 8)

	e.Frame([]core.Event{button(core.MouseLeft, core.ActionPress, x, y)}, 0, viewW, viewH)
	e.Frame([]core.Event{move(x+10, y, 10, 0)}, 0, viewW, viewH)
	e.Frame([]core.Event{move(x+20, y, 10, 0)}, 0, viewW, viewH)
	assert.Equal(t, 0, e.History.Len())
	e.Frame([]core.Event{button(core.MouseLeft, core.ActionRelease, x+20, y)}, 0, viewW, viewH)

	assert.InDelta(t, 2, box.Transform.Position.X, tol)
	assert.Equal(t, 1, e.History.Len())
	assert.True(t, e.Selection.IsSelected(box))
	assert.Equal(t, math.NewVec3(0, 0, 3), e.Camera.Position())

	e.Dispatch([]core.Event{
		key(core.KeyLeftControl, core.ActionPress, core.ModControl),
		key(core.KeyZ, core.ActionPress, core.ModControl),
	}, 0)
	assert.Equal(t, math.Vec3Zero, box.Transform.Position)

	e.Dispatch([]core.Event{key(core.KeyY, core.ActionPress, core.ModControl)}, 0)
	assert.InDelta(t, 2, box.Transform.Position.X, tol)
}

func TestDeleteUndoRedo(t *testing.T) {
	e, box := newTestEditor(t)
	other := scene.NewGameObject("Other", nil, nil)
	e.Scene.Add(other)
	e.Selection.Select(box)

	e.Dispatch([]core.Event{key(core.KeyDelete, core.ActionPress, 0)}, 0)
	assert.Equal(t, 1, e.Scene.Len())
	assert.False(t, e.Selection.HasSelection())

	e.Dispatch([]core.Event{key(core.KeyZ, core.ActionPress, core.ModControl)}, 0)
	assert.Equal(t, []*scene.GameObject{box, other}, e.Scene.Objects())

	e.Selection.Select(box)
	e.Dispatch([]core.Event{key(core.KeyZ, core.ActionPress, core.ModControl|core.ModShift)}, 0)
	assert.Equal(t, []*scene.GameObject{other}, e.Scene.Objects())
	assert.False(t, e.Selection.HasSelection())
}

func TestDuplicate(t *testing.T) {
	e, box := newTestEditor(t)
	e.Selection.Select(box)

	e.Dispatch([]core.Event{
		key(core.KeyLeftControl, core.ActionPress, core.ModControl),
		key(core.KeyD, core.ActionPress, core.ModControl),
	}, 1)

	require.Equal(t, 2, e.Scene.Len())
	dup := e.Scene.Objects()[1]
	assert.Equal(t, "Box.copy", dup.Name)
	assert.Same(t, box.Mesh, dup.Mesh)
	assert.Equal(t, math.NewVec3(0.5, 0, 0), dup.Transform.Position)
	assert.True(t, e.Selection.IsSelected(dup))
	// Control blocks camera movement on D.
	assert.Equal(t, math.NewVec3(0, 0, 3), e.Camera.Position())
}

func TestCtrlSSavesWithoutMoving(t *testing.T) {
	e, _ := newTestEditor(t)

	e.Dispatch([]core.Event{
		key(core.KeyLeftControl, core.ActionPress, core.ModControl),
		key(core.KeyS, core.ActionPress, core.ModControl),
	}, 1)

	assert.Equal(t, math.NewVec3(0, 0, 3), e.Camera.Position())
	m, err := scene.LoadManifest(e.ManifestPath())
	require.NoError(t, err)
	require.Len(t, m.Objects, 1)
	assert.Equal(t, "Box", m.Objects[0].Name)
}

func TestEscapeClearsSelection(t *testing.T) {
	e, box := newTestEditor(t)
	e.Selection.Select(box)
	e.Dispatch([]core.Event{key(core.KeyEscape, core.ActionPress, 0)}, 0)
	assert.False(t, e.Selection.HasSelection())
}

func TestApplyAssetChangesIgnoresUnusedFiles(t *testing.T) {
	var out bytes.Buffer
	console := NewConsoleHandler(10, slog.NewTextHandler(&out, nil))
	e := New(scene.NewScene(), scene.NewCamera(), Options{Console: console})

	e.ApplyAssetChanges([]assetwatch.Change{
		{Path: "elsewhere/model.glb", Kind: assetwatch.KindModel},
		{Path: "elsewhere/tex.png", Kind: assetwatch.KindTexture},
	})
	assert.Empty(t, console.Records())
	assert.Empty(t, out.String())
}
