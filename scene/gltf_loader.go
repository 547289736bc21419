package scene

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"scene-editor/core"
	"scene-editor/math"
)

// LoadGLTF opens a .glb or .gltf file and flattens it into GameObjects. The
// node hierarchy is baked: every vertex is moved by its node's world matrix,
// and each primitive of each mesh-bearing node becomes one object with an
// identity transform.
func LoadGLTF(path string, logger *slog.Logger) ([]*GameObject, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	textures := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		tex, err := loadGLTFImage(doc, *gt.Source, dir)
		if err != nil {
			logger.Warn("gltf image skipped", "file", path, "image", *gt.Source, "err", err)
			continue
		}
		textures[i] = tex
	}

	materials := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := NewMaterial(gm.Name, core.ColorWhite)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Color = core.Color{R: float32(cf[0]), G: float32(cf[1]), B: float32(cf[2]), A: float32(cf[3])}
			if pbr.BaseColorTexture != nil {
				idx := pbr.BaseColorTexture.Index
				if idx < len(textures) && textures[idx] != nil {
					mat.Texture = textures[idx]
				}
			}
		}
		materials[i] = mat
	}

	var objects []*GameObject
	var visit func(node int, parent mgl32.Mat4)
	visit = func(node int, parent mgl32.Mat4) {
		gn := doc.Nodes[node]
		world := parent.Mul4(gltfLocalMatrix(gn))

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			name := gn.Name
			if name == "" {
				name = gm.Name
			}
			if name == "" {
				name = fmt.Sprintf("node_%d", node)
			}
			for pi, prim := range gm.Primitives {
				mesh, err := loadGLTFPrimitive(doc, prim, world)
				if err != nil {
					logger.Warn("gltf primitive skipped", "file", path, "node", name, "primitive", pi, "err", err)
					continue
				}
				mesh.Name = name
				objName := name
				if len(gm.Primitives) > 1 {
					objName = fmt.Sprintf("%s_%d", name, pi)
				}

				var mat *Material
				if prim.Material != nil && *prim.Material < len(materials) {
					mat = materials[*prim.Material]
				} else {
					mat = DefaultMaterial()
				}

				o := NewGameObject(objName, mesh, mat)
				o.Source = path
				objects = append(objects, o)
			}
		}

		for _, child := range gn.Children {
			if child < len(doc.Nodes) {
				visit(child, world)
			}
		}
	}

	for _, root := range gltfRoots(doc) {
		visit(root, mgl32.Ident4())
	}

	logger.Info("model loaded", "file", path, "objects", len(objects), "textures", countTextures(textures))
	return objects, nil
}

// gltfRoots returns the nodes of the default scene, or every parentless node
// when the file has none.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		var roots []int
		for _, n := range doc.Scenes[*doc.Scene].Nodes {
			if n < len(doc.Nodes) {
				roots = append(roots, n)
			}
		}
		return roots
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfLocalMatrix uses the node's matrix when one is given and T·R·S
// otherwise.
func gltfLocalMatrix(gn *gltf.Node) mgl32.Mat4 {
	var m mgl32.Mat4
	explicit := false
	for i, v := range gn.Matrix {
		m[i] = float32(v)
		if (i%5 == 0 && v != 1) || (i%5 != 0 && v != 0) {
			explicit = true
		}
	}
	if explicit && m != (mgl32.Mat4{}) {
		return m
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	rot := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func loadGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, world mgl32.Mat4) (*Mesh, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	model := math.Mat4FromMgl(world)
	normalMatrix := math.Mat4FromMgl(world.Inv().Transpose())

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: model.MulPoint(math.Vec3FromArray(p)),
			Normal:   math.Vec3Up,
		}
		if i < len(normals) {
			v.Normal = normalMatrix.MulDir(math.Vec3FromArray(normals[i])).Normalize()
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return NewMesh("", verts, indices), nil
}

// loadGLTFImage reads an image from a GLB buffer view or from a file next to
// the model.
func loadGLTFImage(doc *gltf.Document, index int, dir string) (*Texture, error) {
	if index >= len(doc.Images) {
		return nil, fmt.Errorf("image %d out of range", index)
	}
	img := doc.Images[index]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("gltf_img_%d", index)
	}

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("buffer view: %w", err)
		}
		return DecodeTexture(name, bytes.NewReader(raw))
	case img.URI != "" && !img.IsEmbeddedResource():
		return LoadTexture(filepath.Join(dir, img.URI))
	}
	return nil, fmt.Errorf("image %d has no data", index)
}

func countTextures(textures []*Texture) int {
	n := 0
	for _, t := range textures {
		if t != nil {
			n++
		}
	}
	return n
}
