package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by LoadModel for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoadModel loads every object in a model file. The returned objects carry
// the file in Source and their position in the result in Part.
func LoadModel(path string, logger *slog.Logger) ([]*GameObject, error) {
	var (
		objects []*GameObject
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		objects, err = LoadGLTF(path, logger)
	case ".obj":
		objects, err = LoadOBJ(path, logger)
	default:
		return nil, fmt.Errorf("load model %q: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("load model %q: no meshes", path)
	}
	for i, o := range objects {
		o.Source = path
		o.Part = i
	}
	return objects, nil
}

// IsModelFile reports whether LoadModel understands the extension.
func IsModelFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb", ".obj":
		return true
	}
	return false
}

// IsTextureFile reports whether LoadTexture understands the extension.
func IsTextureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// ReloadModel loads path again and swaps the mesh of every object that came
// from it. Transforms and materials are kept. It returns the number of
// objects updated.
func (s *Scene) ReloadModel(path string, logger *slog.Logger) (int, error) {
	fresh, err := LoadModel(path, logger)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, o := range s.objects {
		if !samePath(o.Source, path) {
			continue
		}
		if o.Part < 0 || o.Part >= len(fresh) {
			logger.Warn("reloaded model lost a part", "file", path, "object", o.Name, "part", o.Part)
			continue
		}
		o.Mesh = fresh[o.Part].Mesh
		n++
	}
	return n, nil
}

// ReloadTexture re-decodes every texture in the scene loaded from path and
// returns how many were updated.
func (s *Scene) ReloadTexture(path string) (int, error) {
	seen := make(map[*Texture]bool)
	n := 0
	for _, o := range s.objects {
		if o.Material == nil || o.Material.Texture == nil {
			continue
		}
		tex := o.Material.Texture
		if seen[tex] {
			continue
		}
		seen[tex] = true

		if samePath(tex.Name, path) {
			if err := tex.Reload(); err != nil {
				return n, err
			}
			n++
			continue
		}
		// A checker fallback gets replaced once the file decodes.
		if samePath(o.Material.TexturePath, path) {
			fixed, err := LoadTexture(path)
			if err != nil {
				return n, err
			}
			for _, other := range s.objects {
				if other.Material != nil && other.Material.Texture == tex {
					other.Material.Texture = fixed
				}
			}
			n++
		}
	}
	return n, nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ca, err1 := filepath.Abs(a)
	cb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return ca == cb
}
