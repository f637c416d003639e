// Package config loads flowcanvas settings.
//
// The file lives at $XDG_CONFIG_HOME/flowcanvas/config.yaml (falling back to
// ~/.config/flowcanvas/config.yaml). Missing files yield DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
	"gopkg.in/yaml.v3"
)

const appName = "flowcanvas"

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type FlowConfig struct {
	Path     string        `yaml:"path,omitempty"`
	Seed     bool          `yaml:"seed"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

type CanvasConfig struct {
	GridSpacing float64 `yaml:"grid_spacing"` // world units between dots
	ShowGrid    bool    `yaml:"show_grid"`
}

type ExportConfig struct {
	Padding    float64 `yaml:"padding"`
	FontSize   float64 `yaml:"font_size"`
	Background string  `yaml:"background"` // #rrggbb
}

type Config struct {
	Window WindowConfig `yaml:"window"`
	Log    LogConfig    `yaml:"log"`
	Flow   FlowConfig   `yaml:"flow"`
	Canvas CanvasConfig `yaml:"canvas"`
	Export ExportConfig `yaml:"export"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 800, Title: "Flow Canvas"},
		Log:    LogConfig{Level: "info"},
		Flow:   FlowConfig{Seed: true, Watch: true, Debounce: 200 * time.Millisecond},
		Canvas: CanvasConfig{GridSpacing: 20, ShowGrid: true},
		Export: ExportConfig{Padding: 40, FontSize: 14, Background: "#f8fafc"},
	}
}

// ConfigDir returns the XDG config directory for flowcanvas.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config from the XDG location.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Keys absent from the file keep
// their default values.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Flow.Path = expandHome(cfg.Flow.Path)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports every problem in one joined error.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := game_log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Flow.Debounce < 0 {
		errs = append(errs, fmt.Errorf("flow.debounce %s is negative", c.Flow.Debounce))
	}
	if c.Canvas.GridSpacing <= 0 {
		errs = append(errs, fmt.Errorf("canvas.grid_spacing %v must be positive", c.Canvas.GridSpacing))
	}
	if c.Export.Padding < 0 {
		errs = append(errs, fmt.Errorf("export.padding %v is negative", c.Export.Padding))
	}
	if c.Export.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("export.font_size %v must be positive", c.Export.FontSize))
	}
	if !isHexColor(c.Export.Background) {
		errs = append(errs, fmt.Errorf("export.background %q is not #rrggbb", c.Export.Background))
	}
	return errors.Join(errs...)
}

// LogLevel is the parsed log.level value.
func (c Config) LogLevel() game_log.Level { return game_log.LevelFromString(c.Log.Level) }

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	return strings.Trim(strings.ToLower(s[1:]), "0123456789abcdef") == ""
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
