package config

import "flag"

// Flags holds command-line overrides.
type Flags struct {
	Config     *string
	Debug      *bool
	Asset      *string
	Print      *string
	Width      *int
	Height     *int
	Fullscreen *bool
	Windowed   *bool
	SaveConfig *string
}

// RegisterFlags defines the viewer flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:     fs.String("config", "", "Path to config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		Asset:      fs.String("asset", "", "Path to the 3D asset to view"),
		Print:      fs.String("print", "", "Scene dump: none, summary or detail"),
		Width:      fs.Int("width", 0, "Window width"),
		Height:     fs.Int("height", 0, "Window height"),
		Fullscreen: fs.Bool("fullscreen", false, "Run in fullscreen mode"),
		Windowed:   fs.Bool("windowed", false, "Run in windowed mode"),
		SaveConfig: fs.String("save-config", "", "Write the effective config to this path"),
	}
}

var cliFlags = RegisterFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the config file Load reads: the --config path if given,
// otherwise the first file found in the standard locations, or "".
func ConfigPath() string {
	return cliFlags.ConfigPath()
}

// ConfigPath is the package level ConfigPath for f.
func (f *Flags) ConfigPath() string {
	if *f.Config != "" {
		return *f.Config
	}
	return findConfigFile()
}

// SaveConfigPath returns the --save-config target, if any.
func SaveConfigPath() string {
	return *cliFlags.SaveConfig
}

// Apply applies the flag overrides to the config.
func (f *Flags) Apply(cfg *Config) {
	if *f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Render.CheckErrorsEachFrame = true
	}
	if *f.Asset != "" {
		cfg.Asset.Path = *f.Asset
	}
	if *f.Print != "" {
		cfg.Asset.Print = *f.Print
	}
	if *f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if *f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if *f.Width > 0 {
		cfg.Window.Width = *f.Width
	}
	if *f.Height > 0 {
		cfg.Window.Height = *f.Height
	}
}
