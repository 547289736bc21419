package opengl

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"scene-editor/core"
	"scene-editor/math"
	"scene-editor/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	mvpLoc        int32
	modelLoc      int32
	baseColorLoc  int32
	albedoTexLoc  int32
	hasTextureLoc int32

	viewportW int32
	viewportH int32

	// overlay is created on the first DrawOverlay.
	overlay *overlay

	logger    *slog.Logger
	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("opengl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	r := &Renderer{
		program:       prog,
		mvpLoc:        gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		modelLoc:      gl.GetUniformLocation(prog, gl.Str("model\x00")),
		baseColorLoc:  gl.GetUniformLocation(prog, gl.Str("baseColor\x00")),
		albedoTexLoc:  gl.GetUniformLocation(prog, gl.Str("albedoTex\x00")),
		hasTextureLoc: gl.GetUniformLocation(prog, gl.Str("hasTexture\x00")),
		logger:        logger,
		gpuMeshes:     make(map[*scene.Mesh]*GPUMesh),
	}

	gl.UseProgram(prog)
	gl.Uniform1i(r.albedoTexLoc, 0)
	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears colour and depth.
func (r *Renderer) BeginFrame(clear core.Color) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMesh draws a mesh with the given MVP and model matrices. A nil
// material draws with scene.DefaultMaterial.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mat *scene.Material, mvp, model math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.modelLoc, 1, false, model.Ptr())

	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawOverlay blends img over the framebuffer. img must match the viewport
// aspect; it is stretched to cover it.
func (r *Renderer) DrawOverlay(img *image.RGBA) error {
	if img == nil {
		return nil
	}
	if r.overlay == nil {
		o, err := newOverlay()
		if err != nil {
			return err
		}
		r.overlay = o
	}
	r.overlay.draw(img)
	return nil
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	c := mat.Color
	gl.Uniform4f(r.baseColorLoc, c.R, c.G, c.B, c.A)

	if mat.HasTexture() {
		tex := mat.Texture
		if tex.GLID == 0 || tex.Dirty {
			if err := UploadTexture(tex); err != nil {
				r.logger.Warn("texture upload failed", "texture", tex.Name, "err", err)
			}
		}
	}

	if tex := mat.Texture; tex != nil && tex.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		gl.Uniform1i(r.hasTextureLoc, 1)
	} else {
		gl.Uniform1i(r.hasTextureLoc, 0)
	}
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.EBO)
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// ReleaseExcept frees the buffers of every uploaded mesh not in live and
// returns how many were freed. Meshes swapped out by a reload or owned by
// deleted objects end up here.
func (r *Renderer) ReleaseExcept(live map[*scene.Mesh]bool) int {
	n := 0
	for mesh := range r.gpuMeshes {
		if !live[mesh] {
			r.ReleaseMesh(mesh)
			n++
		}
	}
	return n
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	if r.overlay != nil {
		r.overlay.destroy()
	}
	gl.DeleteProgram(r.program)
}

// ensureUploaded returns the GPU buffers for mesh, uploading it on first use
// and again whenever mesh.Dirty is set.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	gpu, ok := r.gpuMeshes[mesh]
	if ok && !mesh.Dirty {
		return gpu
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	if !ok {
		gpu = &GPUMesh{}
		gl.GenVertexArrays(1, &gpu.VAO)
		gl.GenBuffers(1, &gpu.VBO)
		gl.GenBuffers(1, &gpu.EBO)
	}
	gpu.IndexCount = int32(len(mesh.Indices))

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	mesh.Dirty = false
	return gpu
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
