// Package config loads the editor settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	VSync     bool   `yaml:"vsync"`
	Resizable bool   `yaml:"resizable"`
}

type CameraConfig struct {
	Position         [3]float32 `yaml:"position,flow"`
	Yaw              float32    `yaml:"yaw"`
	Pitch            float32    `yaml:"pitch"`
	MovementSpeed    float32    `yaml:"movement_speed"`
	MouseSensitivity float32    `yaml:"mouse_sensitivity"`
	Zoom             float32    `yaml:"zoom"`
}

// Config is the full editor configuration. Keys missing from the YAML keep
// the values from Default.
type Config struct {
	Window       WindowConfig `yaml:"window"`
	FPS          int          `yaml:"fps"`
	Camera       CameraConfig `yaml:"camera"`
	Scene        string       `yaml:"scene"`
	WatchAssets  bool         `yaml:"watch_assets"`
	ConsoleLines int          `yaml:"console_lines"`
	HistoryDepth int          `yaml:"history_depth"`
}

func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:     1600,
			Height:    900,
			Title:     "Scene Editor",
			VSync:     true,
			Resizable: true,
		},
		FPS: 60,
		Camera: CameraConfig{
			Position:         [3]float32{0, 0, 3},
			Yaw:              -90,
			Pitch:            0,
			MovementSpeed:    2.5,
			MouseSensitivity: 0.1,
			Zoom:             45,
		},
		Scene:        "",
		WatchAssets:  true,
		ConsoleLines: 200,
		HistoryDepth: 100,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.FPS))
	}
	if c.Camera.MovementSpeed <= 0 {
		errs = append(errs, fmt.Errorf("camera movement_speed %v must be positive", c.Camera.MovementSpeed))
	}
	if c.Camera.MouseSensitivity <= 0 {
		errs = append(errs, fmt.Errorf("camera mouse_sensitivity %v must be positive", c.Camera.MouseSensitivity))
	}
	if c.Camera.Zoom <= 0 || c.Camera.Zoom >= 180 {
		errs = append(errs, fmt.Errorf("camera zoom %v must be in (0, 180)", c.Camera.Zoom))
	}
	if c.ConsoleLines <= 0 {
		errs = append(errs, fmt.Errorf("console_lines %d must be positive", c.ConsoleLines))
	}
	if c.HistoryDepth <= 0 {
		errs = append(errs, fmt.Errorf("history_depth %d must be positive", c.HistoryDepth))
	}
	return errors.Join(errs...)
}
