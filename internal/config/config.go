// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Asset   AssetConfig   `yaml:"asset"`
	Render  RenderConfig  `yaml:"render"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// Scene dump verbosity values for AssetConfig.Print.
const (
	PrintNone    = "none"
	PrintSummary = "summary"
	PrintDetail  = "detail"
)

// AssetConfig selects the model to load.
type AssetConfig struct {
	Path  string `yaml:"path"`
	Print string `yaml:"print"` // none, summary or detail
}

// RenderConfig holds pipeline state.
type RenderConfig struct {
	Wireframe            bool       `yaml:"wireframe"`
	DepthTest            bool       `yaml:"depth_test"`
	ClearColor           [4]float32 `yaml:"clear_color"`
	CheckErrorsEachFrame bool       `yaml:"check_errors_each_frame"`
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "wireview",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Asset: AssetConfig{
			Path:  "models/dog3.glb",
			Print: PrintSummary,
		},
		Render: RenderConfig{
			Wireframe:  true,
			DepthTest:  true,
			ClearColor: [4]float32{1, 1, 1, 1},
		},
		Debug: DebugConfig{
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	switch strings.ToLower(c.Asset.Print) {
	case PrintNone, PrintSummary, PrintDetail:
	default:
		errs = append(errs, fmt.Errorf("unknown print mode %q", c.Asset.Print))
	}
	switch strings.ToLower(c.Debug.ScreenshotFormat) {
	case "", "png", "bmp":
	default:
		errs = append(errs, fmt.Errorf("unknown screenshot format %q", c.Debug.ScreenshotFormat))
	}
	for i, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d] = %g out of [0, 1]", i, v))
		}
	}
	return errors.Join(errs...)
}
