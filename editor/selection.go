package editor

import (
	"scene-editor/math"
	"scene-editor/scene"
)

// Selection holds at most one object.
type Selection struct {
	active *scene.GameObject
}

func NewSelection() *Selection {
	return &Selection{}
}

// Select replaces the selection. nil clears it.
func (s *Selection) Select(o *scene.GameObject) {
	s.active = o
}

func (s *Selection) Clear() {
	s.active = nil
}

func (s *Selection) Active() *scene.GameObject {
	return s.active
}

func (s *Selection) HasSelection() bool {
	return s.active != nil
}

func (s *Selection) IsSelected(o *scene.GameObject) bool {
	return o != nil && s.active == o
}

// FocusTarget is what the camera frames: the selected object's bounds, or
// the origin with a unit size when nothing is selected.
func (s *Selection) FocusTarget() (center, size math.Vec3) {
	if s.active == nil {
		return math.Vec3Zero, math.Vec3One
	}
	b := s.active.WorldBounds()
	return b.Center(), b.Size()
}

// Prune drops the selection when its object is no longer in sc.
func (s *Selection) Prune(sc *scene.Scene) {
	if s.active != nil && sc.ByID(s.active.ID) != s.active {
		s.active = nil
	}
}
