// Package renderer draws a scene through the OpenGL backend.
package renderer

import (
	"fmt"
	"image"
	"log/slog"

	"scene-editor/internal/opengl"
	"scene-editor/math"
	"scene-editor/platform"
	"scene-editor/scene"
)

// sweepInterval is how many frames pass between releases of GPU meshes that
// no object uses any more.
const sweepInterval = 120

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl     *opengl.Renderer
	window *platform.Window
	logger *slog.Logger

	FrustumCulling bool

	frames int

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastTriangles int
	lastCulled    int
}

func NewRenderEngine(window *platform.Window, logger *slog.Logger) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	width, height := window.GetFramebufferSize()
	glRenderer.SetViewport(width, height)

	return &RenderEngine{
		gl:             glRenderer,
		window:         window,
		logger:         logger,
		FrustumCulling: true,
	}, nil
}

// Render clears to the scene's clear colour and draws every visible object
// with MVP = projection · view · model.
func (re *RenderEngine) Render(s *scene.Scene, camera *scene.Camera) error {
	if s == nil || camera == nil {
		return fmt.Errorf("no scene or camera")
	}

	re.gl.BeginFrame(s.ClearColor)

	width, height := re.window.GetFramebufferSize()
	if width == 0 || height == 0 {
		// Minimised.
		return nil
	}
	vp := ViewProjection(camera, float32(width)/float32(height))

	var culler *scene.Frustum
	if re.FrustumCulling {
		f := scene.FrustumFromMatrix(vp)
		culler = &f
	}
	drawn, culled := VisibleObjects(s, culler)

	triangles := 0
	for _, o := range drawn {
		model := o.ModelMatrix()
		re.gl.DrawMesh(o.Mesh, o.Material, vp.Mul(model), model)
		triangles += o.Mesh.TriangleCount()
	}

	re.lastObjects = len(drawn)
	re.lastTriangles = triangles
	re.lastCulled = culled

	re.frames++
	if re.frames%sweepInterval == 0 {
		if n := re.gl.ReleaseExcept(LiveMeshes(s)); n > 0 {
			re.logger.Debug("released gpu meshes", "count", n)
		}
	}
	return nil
}

// VisibleObjects returns the objects to draw in scene order: visible, with a
// mesh, and inside frustum when one is given.
func VisibleObjects(s *scene.Scene, frustum *scene.Frustum) (drawn []*scene.GameObject, culled int) {
	for _, o := range s.Objects() {
		if !o.Visible || o.Mesh == nil {
			continue
		}
		if frustum != nil && !frustum.Intersects(o.WorldBounds()) {
			culled++
			continue
		}
		drawn = append(drawn, o)
	}
	return drawn, culled
}

// LiveMeshes is the set of meshes referenced by s, hidden objects included.
func LiveMeshes(s *scene.Scene) map[*scene.Mesh]bool {
	live := make(map[*scene.Mesh]bool, s.Len())
	for _, o := range s.Objects() {
		if o.Mesh != nil {
			live[o.Mesh] = true
		}
	}
	return live
}

// DrawOverlay blends the editor UI over the rendered scene. Call after Render
// and before Present.
func (re *RenderEngine) DrawOverlay(img *image.RGBA) error {
	return re.gl.DrawOverlay(img)
}

// Present swaps buffers.
func (re *RenderEngine) Present() {
	re.window.SwapBuffers()
}

func (re *RenderEngine) Resize(width, height int) {
	re.gl.SetViewport(width, height)
}

// UploadTexture uploads a texture to the GPU. Must be called from the main thread.
func (re *RenderEngine) UploadTexture(tex *scene.Texture) error {
	return opengl.UploadTexture(tex)
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, triangles, culled int) {
	return re.lastObjects, re.lastTriangles, re.lastCulled
}

// ViewProjection is projection · view for a viewport of the given aspect.
func ViewProjection(camera *scene.Camera, aspect float32) math.Mat4 {
	return camera.ProjectionMatrix(aspect).Mul(camera.ViewMatrix())
}
