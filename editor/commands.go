package editor

import (
	"scene-editor/core"
	"scene-editor/math"
	"scene-editor/scene"
)

// Command is an undoable editor action.
type Command interface {
	Execute()
	Undo()
	Description() string
}

// History keeps bounded undo and redo stacks.
type History struct {
	undoStack []Command
	redoStack []Command
	maxDepth  int
}

func NewHistory(maxDepth int) *History {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &History{
		undoStack: make([]Command, 0, maxDepth),
		redoStack: make([]Command, 0, maxDepth),
		maxDepth:  maxDepth,
	}
}

// Do executes cmd and pushes it onto the undo stack. The redo stack is
// cleared; the oldest entry is dropped past maxDepth.
func (h *History) Do(cmd Command) {
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[1:]
	}
	h.redoStack = h.redoStack[:0]
}

// Undo reverts the last command and returns it, or nil when there is none.
func (h *History) Undo() Command {
	if len(h.undoStack) == 0 {
		return nil
	}
	cmd := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	cmd.Undo()
	h.redoStack = append(h.redoStack, cmd)
	return cmd
}

// Redo re-applies the last undone command and returns it, or nil.
func (h *History) Redo() Command {
	if len(h.redoStack) == 0 {
		return nil
	}
	cmd := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	cmd.Execute()
	h.undoStack = append(h.undoStack, cmd)
	return cmd
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }
func (h *History) Len() int      { return len(h.undoStack) }

func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}

// TransformCommand sets an object's transform.
type TransformCommand struct {
	Object       *scene.GameObject
	OldTransform core.Transform
	NewTransform core.Transform
}

func NewTransformCommand(o *scene.GameObject, oldTransform, newTransform core.Transform) *TransformCommand {
	return &TransformCommand{Object: o, OldTransform: oldTransform, NewTransform: newTransform}
}

func (c *TransformCommand) Execute()            { c.Object.Transform = c.NewTransform }
func (c *TransformCommand) Undo()               { c.Object.Transform = c.OldTransform }
func (c *TransformCommand) Description() string { return "Transform " + c.Object.Name }

// AddObjectCommand appends an object to the scene.
type AddObjectCommand struct {
	Scene  *scene.Scene
	Object *scene.GameObject
}

func NewAddObjectCommand(s *scene.Scene, o *scene.GameObject) *AddObjectCommand {
	return &AddObjectCommand{Scene: s, Object: o}
}

func (c *AddObjectCommand) Execute()            { c.Scene.Add(c.Object) }
func (c *AddObjectCommand) Undo()               { c.Scene.Remove(c.Object) }
func (c *AddObjectCommand) Description() string { return "Add " + c.Object.Name }

// DeleteObjectCommand removes an object; undo puts it back at its old index.
type DeleteObjectCommand struct {
	Scene  *scene.Scene
	Object *scene.GameObject
	index  int
}

func NewDeleteObjectCommand(s *scene.Scene, o *scene.GameObject) *DeleteObjectCommand {
	return &DeleteObjectCommand{Scene: s, Object: o, index: -1}
}

func (c *DeleteObjectCommand) Execute() { c.index = c.Scene.Remove(c.Object) }
func (c *DeleteObjectCommand) Undo() {
	if c.index < 0 {
		return
	}
	c.Scene.Insert(c.index, c.Object)
}
func (c *DeleteObjectCommand) Description() string { return "Delete " + c.Object.Name }

// NewDuplicateCommand adds a copy of o sharing its mesh and material,
// nudged along +X so it does not hide its source.
func NewDuplicateCommand(s *scene.Scene, o *scene.GameObject) *AddObjectCommand {
	dup := scene.NewGameObject(o.Name+".copy", o.Mesh, o.Material)
	dup.Transform = o.Transform
	dup.Transform.Position = dup.Transform.Position.Add(math.Vec3{X: 0.5})
	dup.Visible = o.Visible
	dup.Source = o.Source
	dup.Part = o.Part
	dup.Primitive = o.Primitive
	return NewAddObjectCommand(s, dup)
}
