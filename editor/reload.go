package editor

import (
	"path/filepath"
	"time"

	"scene-editor/internal/assetwatch"
)

// ApplyAssetChanges reloads the models and textures reported by the asset
// watcher. It runs on the main thread between frames.
func (e *Editor) ApplyAssetChanges(changes []assetwatch.Change) {
	for _, c := range changes {
		switch c.Kind {
		case assetwatch.KindModel:
			if !e.usesModel(c.Path) {
				continue
			}
			n, err := e.Scene.ReloadModel(c.Path, e.logger)
			if err != nil {
				e.logger.Warn("model reload failed", "file", c.Path, "err", err)
				continue
			}
			e.logger.Info("model reloaded", "file", c.Path, "objects", n)

		case assetwatch.KindTexture:
			n, err := e.Scene.ReloadTexture(c.Path)
			if err != nil {
				e.logger.Warn("texture reload failed", "file", c.Path, "err", err)
				continue
			}
			if n > 0 {
				e.logger.Info("texture reloaded", "file", c.Path)
			}

		case assetwatch.KindManifest:
			// Our own Ctrl+S also shows up here.
			if time.Since(e.savedAt) < 2*time.Second {
				continue
			}
			if sameFile(c.Path, e.manifestPath) {
				e.logger.Info("scene file changed on disk; restart to load it", "file", c.Path)
			}
		}
	}
}

func (e *Editor) usesModel(path string) bool {
	for _, o := range e.Scene.Objects() {
		if sameFile(o.Source, path) {
			return true
		}
	}
	return false
}

func sameFile(a, b string) bool {
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
