package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"scene-editor/config"
	"scene-editor/core"
	"scene-editor/editor"
	"scene-editor/internal/assetwatch"
	"scene-editor/math"
	"scene-editor/platform"
	"scene-editor/renderer"
	"scene-editor/scene"
)

const defaultScenePath = "scene.yaml"

func main() {
	configPath := flag.String("config", "", "YAML config file")
	scenePath := flag.String("scene", "", "scene manifest (overrides the config)")
	flag.Parse()

	if err := run(*configPath, *scenePath); err != nil {
		fmt.Fprintf(os.Stderr, "scene-editor: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if scenePath == "" {
		scenePath = cfg.Scene
	}
	if scenePath == "" {
		scenePath = defaultScenePath
	}

	console := editor.NewConsoleHandler(cfg.ConsoleLines, slog.NewTextHandler(os.Stderr, nil))
	logger := slog.New(console)

	fmt.Println("Starting scene editor...")

	window, err := platform.NewWindow(platform.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: cfg.Window.Resizable,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	renderEngine, err := renderer.NewRenderEngine(window, logger)
	if err != nil {
		return fmt.Errorf("create render engine: %w", err)
	}
	defer renderEngine.Destroy()

	s, manifest := loadScene(scenePath, logger)
	fmt.Printf("[Scene] %d objects from %q\n", s.Len(), scenePath)

	camera := scene.NewCameraWithConfig(scene.CameraConfig{
		Position:         math.Vec3FromArray(cfg.Camera.Position),
		Yaw:              cfg.Camera.Yaw,
		Pitch:            cfg.Camera.Pitch,
		MovementSpeed:    cfg.Camera.MovementSpeed,
		MouseSensitivity: cfg.Camera.MouseSensitivity,
		Zoom:             cfg.Camera.Zoom,
	})

	ed := editor.New(s, camera, editor.Options{
		Logger:       logger,
		Console:      console,
		ManifestPath: scenePath,
		HistoryDepth: cfg.HistoryDepth,
	})

	var watcher *assetwatch.Watcher
	if cfg.WatchAssets {
		watcher = startWatcher(manifest, scenePath, logger)
		if watcher != nil {
			defer watcher.Close()
		}
	}

	frameTime := time.Second / time.Duration(cfg.FPS)
	last := time.Now()

	for !window.ShouldClose() {
		frameStart := time.Now()
		deltaTime := float32(frameStart.Sub(last).Seconds())
		last = frameStart

		window.PollEvents()
		events := window.Events()
		for _, ev := range events {
			if ev.Kind == core.EventResize {
				renderEngine.Resize(int(ev.X), int(ev.Y))
			}
		}

		if watcher != nil {
			if changes := watcher.Poll(); len(changes) > 0 {
				ed.ApplyAssetChanges(changes)
			}
			drainWatchErrors(watcher, logger)
		}

		// The UI is laid out in window coordinates, the same space as the
		// cursor; the overlay is stretched over the framebuffer.
		width, height := window.GetSize()
		overlay := ed.Frame(events, deltaTime, width, height)

		if err := renderEngine.Render(ed.Scene, ed.Camera); err != nil {
			logger.Error("render failed", "err", err)
		}
		if err := renderEngine.DrawOverlay(overlay); err != nil {
			logger.Error("overlay failed", "err", err)
		}
		renderEngine.Present()

		if elapsed := time.Since(frameStart); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	fmt.Println("Shutting down")
	return nil
}

// loadScene builds the scene from the manifest at path. A missing manifest
// gives the default scene; Ctrl+S creates the file.
func loadScene(path string, logger *slog.Logger) (*scene.Scene, *scene.Manifest) {
	manifest, err := scene.LoadManifest(path)
	if err == nil {
		return manifest.Build(logger), manifest
	}
	if !errors.Is(err, fs.ErrNotExist) {
		logger.Error("scene manifest unreadable, starting empty", "file", path, "err", err)
	}
	return defaultScene(), nil
}

func defaultScene() *scene.Scene {
	s := scene.NewScene()

	cube := scene.NewGameObject("Cube", scene.NewCube(1), scene.DefaultMaterial())
	cube.Primitive = scene.PrimitiveCube

	ground := scene.NewGameObject("Ground", scene.NewPlane(10), scene.NewTexturedMaterial("Ground", scene.NewCheckerTexture(256, 256)))
	ground.Primitive = scene.PrimitivePlane
	ground.Transform.Position = math.Vec3{Y: -0.5}

	s.Add(cube, ground)
	return s
}

func startWatcher(manifest *scene.Manifest, scenePath string, logger *slog.Logger) *assetwatch.Watcher {
	paths := []string{scenePath}
	if manifest != nil {
		paths = append(paths, manifest.AssetPaths()...)
	}

	watcher, err := assetwatch.New(assetwatch.DirsOf(paths...)...)
	if err != nil {
		logger.Warn("asset watching disabled", "err", err)
		return nil
	}
	fmt.Println("[Watch] Hot reload enabled")
	return watcher
}

func drainWatchErrors(w *assetwatch.Watcher, logger *slog.Logger) {
	for {
		select {
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("asset watcher", "err", err)
		default:
			return
		}
	}
}
