package scene

import "scene-editor/core"

// Scene owns a flat, ordered list of objects.
type Scene struct {
	objects    []*GameObject
	ClearColor core.Color
}

func NewScene() *Scene {
	return &Scene{
		ClearColor: core.ColorGrey,
	}
}

// Add appends objects in order. Adding an object twice is a no-op.
func (s *Scene) Add(objects ...*GameObject) {
	for _, o := range objects {
		if o == nil || s.indexOf(o) >= 0 {
			continue
		}
		s.objects = append(s.objects, o)
	}
}

// Insert places o at index i, clamped to the list. Used to undo a removal.
func (s *Scene) Insert(i int, o *GameObject) {
	if s.indexOf(o) >= 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(s.objects) {
		i = len(s.objects)
	}
	s.objects = append(s.objects, nil)
	copy(s.objects[i+1:], s.objects[i:])
	s.objects[i] = o
}

// Remove deletes o and returns its former index, or -1 when absent.
func (s *Scene) Remove(o *GameObject) int {
	i := s.indexOf(o)
	if i < 0 {
		return -1
	}
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	return i
}

// Replace swaps old for replacement in place.
func (s *Scene) Replace(old, replacement *GameObject) bool {
	i := s.indexOf(old)
	if i < 0 {
		return false
	}
	s.objects[i] = replacement
	return true
}

// Objects returns the list in order. Callers must not modify the slice.
func (s *Scene) Objects() []*GameObject {
	return s.objects
}

// Find returns the first object with the given name.
func (s *Scene) Find(name string) *GameObject {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (s *Scene) ByID(id uint32) *GameObject {
	for _, o := range s.objects {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// Bounds encloses every object with a mesh. ok is false for an empty scene.
func (s *Scene) Bounds() (box AABB, ok bool) {
	for _, o := range s.objects {
		if o.Mesh == nil {
			continue
		}
		b := o.WorldBounds()
		if !ok {
			box, ok = b, true
			continue
		}
		box.Min = box.Min.Min(b.Min)
		box.Max = box.Max.Max(b.Max)
	}
	return box, ok
}

func (s *Scene) indexOf(o *GameObject) int {
	for i, existing := range s.objects {
		if existing == o {
			return i
		}
	}
	return -1
}
