package scene

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"scene-editor/core"
	"scene-editor/math"
)

// fallbackTextureSize is the edge length of the checker used for textures
// that fail to load.
const fallbackTextureSize = 256

// Manifest lists the objects of a scene. Paths inside it are relative to the
// manifest's directory.
type Manifest struct {
	Objects []ObjectSpec `yaml:"objects"`

	// Dir is where relative paths are resolved from. Set by LoadManifest.
	Dir string `yaml:"-"`
}

// ObjectSpec is one manifest entry. Model wins over Primitive. Part picks
// one object out of a multi-object model; without it every object of the
// model is added.
type ObjectSpec struct {
	Name      string      `yaml:"name"`
	Model     string      `yaml:"model,omitempty"`
	Part      *int        `yaml:"part,omitempty"`
	Primitive string      `yaml:"primitive,omitempty"`
	Texture   string      `yaml:"texture,omitempty"`
	Color     *[3]float32 `yaml:"color,omitempty,flow"`
	Position  [3]float32  `yaml:"position,flow"`
	Rotation  [3]float32  `yaml:"rotation,flow"`
	Scale     *[3]float32 `yaml:"scale,omitempty,flow"`
	Hidden    bool        `yaml:"hidden,omitempty"`
}

// LoadManifest parses a YAML scene manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// Build creates the scene. Load failures are logged and replaced with a cube
// or a checker texture, so Build always returns a scene.
func (m *Manifest) Build(logger *slog.Logger) *Scene {
	s := NewScene()
	textures := make(map[string]*Texture)

	for i, spec := range m.Objects {
		objects := m.buildObjects(i, spec, logger)

		for _, o := range objects {
			o.Transform = core.Transform{
				Position: math.Vec3FromArray(spec.Position),
				Rotation: math.Vec3FromArray(spec.Rotation),
				Scale:    math.Vec3One,
			}
			if spec.Scale != nil {
				o.Transform.Scale = math.Vec3FromArray(*spec.Scale)
			}
			o.Visible = !spec.Hidden

			if spec.Texture != "" || spec.Color != nil {
				o.Material = m.overrideMaterial(o.Material, spec, textures, logger)
			}
			s.Add(o)
		}
	}

	logger.Info("scene built", "objects", s.Len())
	return s
}

func (m *Manifest) buildObjects(i int, spec ObjectSpec, logger *slog.Logger) []*GameObject {
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("object_%d", i)
	}

	if spec.Model != "" {
		objects, err := LoadModel(m.resolve(spec.Model), logger)
		if err == nil {
			if spec.Part != nil {
				if *spec.Part >= 0 && *spec.Part < len(objects) {
					o := objects[*spec.Part]
					o.Name = name
					return []*GameObject{o}
				}
				logger.Warn("model part out of range", "model", spec.Model, "part", *spec.Part, "parts", len(objects))
			}
			if len(objects) == 1 {
				objects[0].Name = name
			} else {
				for _, o := range objects {
					o.Name = name + "/" + o.Name
				}
			}
			return objects
		}
		logger.Warn("model failed to load, using a cube", "model", spec.Model, "err", err)
		o := NewGameObject(name, NewCube(1), DefaultMaterial())
		o.Source = m.resolve(spec.Model)
		if spec.Part != nil {
			o.Part = *spec.Part
		}
		return []*GameObject{o}
	}

	primitive := spec.Primitive
	if primitive == "" {
		primitive = PrimitiveCube
	}
	mesh := NewPrimitive(primitive)
	if mesh == nil {
		logger.Warn("unknown primitive, using a cube", "object", name, "primitive", primitive)
		primitive = PrimitiveCube
		mesh = NewCube(1)
	}
	o := NewGameObject(name, mesh, DefaultMaterial())
	o.Primitive = primitive
	return []*GameObject{o}
}

// overrideMaterial copies base so materials shared inside a model are not
// changed for the other parts.
func (m *Manifest) overrideMaterial(base *Material, spec ObjectSpec, textures map[string]*Texture, logger *slog.Logger) *Material {
	mat := DefaultMaterial()
	if base != nil {
		copied := *base
		mat = &copied
	}

	if spec.Color != nil {
		c := *spec.Color
		mat.Color = core.Color{R: c[0], G: c[1], B: c[2], A: 1}
		mat.ColorOverride = true
	}

	if spec.Texture != "" {
		path := m.resolve(spec.Texture)
		tex, ok := textures[path]
		if !ok {
			var err error
			tex, err = LoadTexture(path)
			if err != nil {
				logger.Warn("texture failed to load, using checker", "texture", spec.Texture, "err", err)
				tex = NewCheckerTexture(fallbackTextureSize, fallbackTextureSize)
			}
			textures[path] = tex
		}
		mat.Texture = tex
		mat.TexturePath = path
		if spec.Color == nil {
			mat.Color = core.ColorWhite
		}
	}
	return mat
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || m.Dir == "" {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// NewManifest describes s with paths made relative to dir.
func NewManifest(s *Scene, dir string) *Manifest {
	m := &Manifest{Dir: dir}
	for _, o := range s.Objects() {
		spec := ObjectSpec{
			Name:     o.Name,
			Position: o.Transform.Position.Array(),
			Rotation: o.Transform.Rotation.Array(),
			Hidden:   !o.Visible,
		}
		if o.Transform.Scale != math.Vec3One {
			scale := o.Transform.Scale.Array()
			spec.Scale = &scale
		}

		if o.Source != "" {
			spec.Model = relativeTo(dir, o.Source)
			part := o.Part
			spec.Part = &part
		} else {
			spec.Primitive = o.Primitive
		}

		if mat := o.Material; mat != nil {
			if mat.TexturePath != "" {
				spec.Texture = relativeTo(dir, mat.TexturePath)
			}
			if mat.ColorOverride || (o.Source == "" && mat.Color != core.ColorMagenta) {
				c := [3]float32{mat.Color.R, mat.Color.G, mat.Color.B}
				spec.Color = &c
			}
		}
		m.Objects = append(m.Objects, spec)
	}
	return m
}

// SaveManifest writes s as a manifest at path.
func SaveManifest(s *Scene, path string) error {
	m := NewManifest(s, filepath.Dir(path))
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %q: %w", path, err)
	}
	return nil
}

// AssetPaths returns the resolved model and texture files the manifest refers
// to.
func (m *Manifest) AssetPaths() []string {
	var paths []string
	for _, spec := range m.Objects {
		if spec.Model != "" {
			paths = append(paths, m.resolve(spec.Model))
		}
		if spec.Texture != "" {
			paths = append(paths, m.resolve(spec.Texture))
		}
	}
	return paths
}

func relativeTo(dir, path string) string {
	if dir == "" {
		return path
	}
	absDir, err1 := filepath.Abs(dir)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return path
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
