// Package main is the entry point for the wireview model viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/wireview/internal/config"
	"github.com/Faultbox/wireview/internal/engine/gpu"
	"github.com/Faultbox/wireview/internal/engine/input"
	"github.com/Faultbox/wireview/internal/engine/window"
	"github.com/Faultbox/wireview/internal/logger"
	"github.com/Faultbox/wireview/internal/viewer"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	// A bare positional argument names the asset.
	if flag.NArg() > 0 {
		cfg.Asset.Path = flag.Arg(0)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== wireview ===", zap.String("config", config.ConfigPath()))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.SaveConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to save config", zap.String("path", path), zap.Error(err))
			return 1
		}
		logger.Info("config saved", zap.String("path", path))
	}

	opts, err := viewer.OptionsFromConfig(cfg)
	if err != nil {
		logger.Error("invalid viewer options", zap.Error(err))
		return 1
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		return 1
	}
	defer win.Close()

	// The device needs the GL context created by the window.
	dev, err := gpu.NewGL()
	if err != nil {
		logger.Error("failed to initialize OpenGL", zap.Error(err))
		return 1
	}

	opts.Renderer.Width, opts.Renderer.Height = win.Size()
	opts.Picker = viewer.NativePicker
	v, err := viewer.New(dev, win, input.New(), opts)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return 1
	}
	defer v.Close()

	v.Load(cfg.Asset.Path)

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
