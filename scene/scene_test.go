package scene

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"scene-editor/core"
	"scene-editor/math"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSceneAddRemoveFind(t *testing.T) {
	s := NewScene()
	a := NewGameObject("a", NewCube(1), nil)
	b := NewGameObject("b", nil, nil)
	c := NewGameObject("c", NewPlane(2), nil)

	s.Add(a, b, c)
	s.Add(a)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []*GameObject{a, b, c}, s.Objects())
	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, c.ID)

	assert.Same(t, b, s.Find("b"))
	assert.Same(t, c, s.ByID(c.ID))
	assert.Nil(t, s.Find("missing"))

	assert.Equal(t, 1, s.Remove(b))
	assert.Equal(t, -1, s.Remove(b))
	assert.Equal(t, []*GameObject{a, c}, s.Objects())

	s.Insert(1, b)
	assert.Equal(t, []*GameObject{a, b, c}, s.Objects())

	d := NewGameObject("d", nil, nil)
	assert.True(t, s.Replace(b, d))
	assert.Equal(t, []*GameObject{a, d, c}, s.Objects())
	assert.Equal(t, core.ColorGrey, s.ClearColor)
}

func TestWorldBounds(t *testing.T) {
	o := NewGameObject("cube", NewCube(2), nil)
	o.Transform.Position = math.NewVec3(10, 0, 0)
	o.Transform.Scale = math.NewVec3(1, 2, 1)

	b := o.WorldBounds()
	assertVec3Near(t, math.NewVec3(9, -2, -1), b.Min)
	assertVec3Near(t, math.NewVec3(11, 2, 1), b.Max)
	assertVec3Near(t, math.NewVec3(2, 4, 2), o.Size())
	assertVec3Near(t, math.NewVec3(10, 0, 0), o.Center())

	o.Transform.Rotation = math.NewVec3(0, 90, 0)
	o.Transform.Scale = math.NewVec3(3, 1, 1)
	assertVec3Near(t, math.NewVec3(2, 2, 6), o.Size())

	empty := NewGameObject("empty", nil, nil)
	empty.Transform.Position = math.NewVec3(1, 2, 3)
	assert.Equal(t, math.Vec3Zero, empty.Size())
	assert.Equal(t, math.NewVec3(1, 2, 3), empty.Center())
}

func TestSceneBounds(t *testing.T) {
	s := NewScene()
	_, ok := s.Bounds()
	assert.False(t, ok)

	a := NewGameObject("a", NewCube(1), nil)
	b := NewGameObject("b", NewCube(1), nil)
	b.Transform.Position = math.NewVec3(4, 0, 0)
	s.Add(a, b, NewGameObject("empty", nil, nil))

	box, ok := s.Bounds()
	require.True(t, ok)
	assertVec3Near(t, math.NewVec3(-0.5, -0.5, -0.5), box.Min)
	assertVec3Near(t, math.NewVec3(4.5, 0.5, 0.5), box.Max)
}

func TestFrustumCulling(t *testing.T) {
	c := cameraAt(0, 0, 0)
	f := FrustumFromMatrix(c.ProjectionMatrix(1).Mul(c.ViewMatrix()))

	ahead := AABB{Min: math.NewVec3(-1, -1, -11), Max: math.NewVec3(1, 1, -9)}
	behind := AABB{Min: math.NewVec3(-1, -1, 9), Max: math.NewVec3(1, 1, 11)}
	beyondFar := AABB{Min: math.NewVec3(-1, -1, -300), Max: math.NewVec3(1, 1, -200)}
	farLeft := AABB{Min: math.NewVec3(-100, -1, -6), Max: math.NewVec3(-90, 1, -4)}

	assert.True(t, f.Intersects(ahead))
	assert.False(t, f.Intersects(behind))
	assert.False(t, f.Intersects(beyondFar))
	assert.False(t, f.Intersects(farLeft))
}

func TestPrimitives(t *testing.T) {
	cube := NewCube(2)
	assert.Len(t, cube.Vertices, 24)
	assert.Equal(t, 12, cube.TriangleCount())
	assert.Equal(t, AABB{Min: math.NewVec3(-1, -1, -1), Max: math.NewVec3(1, 1, 1)}, cube.Bounds)
	assert.True(t, cube.Dirty)

	// Triangles wind counter-clockwise when seen from outside.
	for i := 0; i < cube.TriangleCount(); i++ {
		a, b, c := cube.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d", i)
	}

	sphere := NewSphere(2, 16, 8)
	for _, v := range sphere.Vertices {
		assert.InDelta(t, 2, v.Position.Length(), tol)
	}
	assert.Equal(t, 16*8*2, sphere.TriangleCount())

	plane := NewPlane(4)
	assert.Equal(t, 2, plane.TriangleCount())
	assert.Equal(t, math.NewVec3(4, 0, 4), plane.Bounds.Size())

	assert.NotNil(t, NewPrimitive(PrimitiveSphere))
	assert.Nil(t, NewPrimitive("teapot"))
}

func TestDefaultMaterialIsMagenta(t *testing.T) {
	m := DefaultMaterial()
	assert.Equal(t, core.ColorMagenta, m.Color)
	assert.False(t, m.HasTexture())

	var none *Material
	assert.False(t, none.HasTexture())
	assert.True(t, NewTexturedMaterial("t", NewSolidTexture("s", 1, 2, 3, 4)).HasTexture())
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(100, 70)
	require.Equal(t, 100*70*4, len(tex.Pixels))
	img := tex.Image()

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	assert.Equal(t, white, img.RGBAAt(0, 0))
	assert.Equal(t, white, img.RGBAAt(31, 31))
	assert.Equal(t, black, img.RGBAAt(32, 0))
	assert.Equal(t, black, img.RGBAAt(0, 32))
	assert.Equal(t, white, img.RGBAAt(32, 32))
	assert.Equal(t, black, img.RGBAAt(99, 69))
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(2, 1, color.NRGBA{0, 0, 255, 255})
	return img
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, path, tex.Name)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.True(t, tex.Dirty)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, tex.Pixels[len(tex.Pixels)-4:])

	_, err = LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestDecodeTextureBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage()))

	tex, err := DecodeTexture("mem.bmp", &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[0:4])

	_, err = DecodeTexture("junk", strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestTextureReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	writePNG := func(c color.NRGBA) {
		img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, c)
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	}

	writePNG(color.NRGBA{10, 20, 30, 255})
	tex, err := LoadTexture(path)
	require.NoError(t, err)
	tex.Dirty = false

	writePNG(color.NRGBA{40, 50, 60, 255})
	require.NoError(t, tex.Reload())
	assert.True(t, tex.Dirty)
	assert.Equal(t, []byte{40, 50, 60, 255}, tex.Pixels)
}

const quadOBJ = `# quad and triangle
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 1
vn 0 0 1
o quad
usemtl ignored
f 1/1/1 2/1/1 3/2/1 4/2/1
g tri
f -4 -3 -2
`

func TestParseOBJ(t *testing.T) {
	meshes, err := ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	quad := meshes[0]
	assert.Equal(t, "quad", quad.Name)
	assert.Equal(t, 2, quad.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, quad.Indices)
	assert.Equal(t, math.NewVec3(0, 0, 1), quad.Vertices[0].Normal)
	assert.Equal(t, math.NewVec2(1, 1), quad.Vertices[2].UV)

	tri := meshes[1]
	assert.Equal(t, "tri", tri.Name)
	require.Equal(t, 1, tri.TriangleCount())
	a, b, c := tri.Triangle(0)
	assert.Equal(t, math.NewVec3(0, 0, 0), a)
	assert.Equal(t, math.NewVec3(1, 0, 0), b)
	assert.Equal(t, math.NewVec3(1, 1, 0), c)
	assertVec3Near(t, math.NewVec3(0, 0, 1), tri.Vertices[0].Normal)
}

func TestParseOBJTexCoordArity(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5\nvt 0.25 0.75 1\nf 1/1 2/2 3/1\n"
	meshes, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, meshes, 1)

	v := meshes[0].Vertices
	require.Len(t, v, 3)
	assert.Equal(t, math.NewVec2(0.5, 0), v[0].UV)
	assert.Equal(t, math.NewVec2(0.25, 0.75), v[1].UV)
}

func TestParseOBJErrors(t *testing.T) {
	cases := map[string]string{
		"no faces":     "v 0 0 0\n",
		"bad index":    "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"zero index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"short face":   "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad number":   "v 0 x 0\n",
		"empty vt":     "vt\n",
		"missing vert": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	objects, err := LoadModel(path, discardLogger())
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for i, o := range objects {
		assert.Equal(t, path, o.Source)
		assert.Equal(t, i, o.Part)
		assert.Equal(t, core.ColorMagenta, o.Material.Color)
	}

	_, err = LoadModel(filepath.Join(dir, "model.fbx"), discardLogger())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.True(t, IsModelFile("a/b.GLB"))
	assert.False(t, IsModelFile("a/b.png"))
	assert.True(t, IsTextureFile("a/b.webp"))
}

// writeTriangleGLTF writes a one-triangle glTF with an embedded buffer. The
// mesh node is scaled by 2 under a parent translated to z = -5.
func writeTriangleGLTF(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, f))
	}
	for _, i := range []uint16{0, 1, 2, 0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, i))
	}
	data := base64.StdEncoding.EncodeToString(buf.Bytes())

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [
    {"name": "parent", "translation": [0, 0, -5], "children": [1]},
    {"name": "tri", "mesh": 0, "scale": [2, 2, 2]}
  ],
  "meshes": [{"name": "triMesh", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]}],
  "materials": [{"pbrMetallicRoughness": {"baseColorFactor": [0, 1, 0, 1]}}],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}]
}`, buf.Len(), data)

	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadGLTFBakesNodeTransforms(t *testing.T) {
	path := writeTriangleGLTF(t, t.TempDir())

	objects, err := LoadModel(path, discardLogger())
	require.NoError(t, err)
	require.Len(t, objects, 1)

	o := objects[0]
	assert.Equal(t, "tri", o.Name)
	assert.Equal(t, core.NewTransform(), o.Transform)
	assert.Equal(t, core.Color{R: 0, G: 1, B: 0, A: 1}, o.Material.Color)
	require.Equal(t, 1, o.Mesh.TriangleCount())

	a, b, c := o.Mesh.Triangle(0)
	assertVec3Near(t, math.NewVec3(0, 0, -5), a)
	assertVec3Near(t, math.NewVec3(2, 0, -5), b)
	assertVec3Near(t, math.NewVec3(0, 2, -5), c)
	assertVec3Near(t, math.NewVec3(2, 2, 0), o.Size())
}

func TestReloadModelKeepsTransform(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	objects, err := LoadModel(path, discardLogger())
	require.NoError(t, err)
	s := NewScene()
	s.Add(objects...)
	objects[1].Transform.Position = math.NewVec3(7, 0, 0)

	scaled := strings.Replace(quadOBJ, "v 1 1 0", "v 3 3 0", 1)
	require.NoError(t, os.WriteFile(path, []byte(scaled), 0o644))

	n, err := s.ReloadModel(path, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, math.NewVec3(7, 0, 0), objects[1].Transform.Position)
	assert.Equal(t, float32(3), objects[0].Mesh.Bounds.Max.X)
}
