package scene

import "scene-editor/core"

// Material is the surface of a GameObject: a texture when one is loaded, a
// flat colour otherwise.
type Material struct {
	Name    string
	Color   core.Color
	Texture *Texture

	// TexturePath is the file the texture was requested from. It survives a
	// failed load, when Texture holds the checker fallback.
	TexturePath string

	// ColorOverride is set when Color came from the manifest rather than
	// from the model file.
	ColorOverride bool
}

// DefaultMaterial is untextured magenta, which makes missing textures easy
// to spot.
func DefaultMaterial() *Material {
	return &Material{
		Name:  "Default",
		Color: core.ColorMagenta,
	}
}

func NewMaterial(name string, color core.Color) *Material {
	return &Material{Name: name, Color: color}
}

// NewTexturedMaterial uses white as the colour so the texture is shown
// unmodified.
func NewTexturedMaterial(name string, tex *Texture) *Material {
	return &Material{Name: name, Color: core.ColorWhite, Texture: tex}
}

// HasTexture reports whether the material samples a texture.
func (m *Material) HasTexture() bool {
	return m != nil && m.Texture != nil && len(m.Texture.Pixels) > 0
}
