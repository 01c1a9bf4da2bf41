package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"glance/internal/errors"

	"gopkg.in/yaml.v3"
)

// DefaultExtensions is the allow-list of image extensions used when the
// configuration does not name any.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "webp", "bmp", "gif"}

// Config represents the application configuration structure.
// It defines viewer and cache tuning, worker pools, folder watching,
// logging and window geometry.
type Config struct {
	Viewer struct {
		Extensions      []string `yaml:"extensions"`       // Supported image extensions, without dot
		FullCacheSize   int      `yaml:"full_cache_size"`  // Full-resolution LRU capacity
		ThumbCacheSize  int      `yaml:"thumb_cache_size"` // Thumbnail LRU capacity
		ThumbWidth      int      `yaml:"thumb_width"`      // Preview thumbnail width in pixels
		ThumbHeight     int      `yaml:"thumb_height"`     // Preview thumbnail height in pixels
		DrainLimit      int      `yaml:"drain_limit"`      // Results reconciled per tick
		SidePadding     float64  `yaml:"side_padding"`     // Horizontal chrome reserved by auto-fit
		ZoomSensitivity float64  `yaml:"zoom_sensitivity"` // Zoom change per scroll unit
		MinZoom         float64  `yaml:"min_zoom"`
		MaxZoom         float64  `yaml:"max_zoom"`
	} `yaml:"viewer"`
	Workers struct {
		Primary    int `yaml:"primary"`    // Foreground decode workers
		Background int `yaml:"background"` // Preload workers, 0 sizes from CPU count
		Reserve    int `yaml:"reserve"`    // CPUs kept free when sizing the background pool
	} `yaml:"workers"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // Refresh the list when the folder changes
		DebounceMS int  `yaml:"debounce_ms"` // Quiet period before a batch is delivered
	} `yaml:"watch"`
	Logging struct {
		Debug bool   `yaml:"debug"` // Emit debug entries
		JSON  bool   `yaml:"json"`  // One JSON object per line
		File  string `yaml:"file"`  // Optional log file
	} `yaml:"logging"`
	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"window"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/glance/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("cannot locate home directory", "", errors.ConfigNotFound, err)
	}
	return filepath.Join(home, ".config", "glance", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/glance/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.FromIO(path, err), "error reading config file")
	}

	// Decoding over the defaults keeps every key the file leaves out.
	defaultTheme := cfg.Theme.Name
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	if cfg.Theme.Name != defaultTheme {
		// A named theme supplies the palette; colors set in the file still win.
		cfg.ApplyTheme(cfg.Theme.Name)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	}
	cfg.Viewer.Extensions = normalizeExtensions(cfg.Viewer.Extensions)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Viewer.Extensions = append([]string(nil), DefaultExtensions...)
	cfg.Viewer.FullCacheSize = 10
	cfg.Viewer.ThumbCacheSize = 100
	cfg.Viewer.ThumbWidth = 160
	cfg.Viewer.ThumbHeight = 120
	cfg.Viewer.DrainLimit = 5
	cfg.Viewer.SidePadding = 120
	cfg.Viewer.ZoomSensitivity = 0.01
	cfg.Viewer.MinZoom = 0.1
	cfg.Viewer.MaxZoom = 10

	cfg.Workers.Primary = 2
	cfg.Workers.Background = 0 // sized from runtime.NumCPU
	cfg.Workers.Reserve = 2

	cfg.Watch.Enabled = true
	cfg.Watch.DebounceMS = 150

	cfg.Window.Width = 1280
	cfg.Window.Height = 800

	cfg.ApplyTheme("default")
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.FromIO(dir, err), "failed to create config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.FromIO(path, err), "failed to write config file")
	}
	return nil
}

func invalid(param, format string, args ...interface{}) error {
	return errors.NewConfigError("invalid value", param, errors.InvalidConfig, errors.Newf(format, args...))
}

// Validate checks if the configuration is valid.
// Returns a *errors.ConfigError naming the offending key.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrInvalidConfig
	}

	if len(c.Viewer.Extensions) == 0 {
		return invalid("viewer.extensions", "at least one extension is required")
	}
	for _, ext := range c.Viewer.Extensions {
		if strings.ContainsAny(ext, "/\\*?{}[],") {
			return invalid("viewer.extensions", "extension %q contains pattern characters", ext)
		}
	}

	positive := []struct {
		param string
		value int
	}{
		{"viewer.full_cache_size", c.Viewer.FullCacheSize},
		{"viewer.thumb_cache_size", c.Viewer.ThumbCacheSize},
		{"viewer.thumb_width", c.Viewer.ThumbWidth},
		{"viewer.thumb_height", c.Viewer.ThumbHeight},
		{"viewer.drain_limit", c.Viewer.DrainLimit},
		{"workers.primary", c.Workers.Primary},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return invalid(p.param, "must be > 0, got %d", p.value)
		}
	}

	if c.Workers.Background < 0 {
		return invalid("workers.background", "must be >= 0, got %d", c.Workers.Background)
	}
	if c.Workers.Reserve < 0 {
		return invalid("workers.reserve", "must be >= 0, got %d", c.Workers.Reserve)
	}
	if c.Viewer.SidePadding < 0 {
		return invalid("viewer.side_padding", "must be >= 0, got %g", c.Viewer.SidePadding)
	}
	if c.Viewer.ZoomSensitivity <= 0 {
		return invalid("viewer.zoom_sensitivity", "must be > 0, got %g", c.Viewer.ZoomSensitivity)
	}
	if c.Viewer.MinZoom <= 0 {
		return invalid("viewer.min_zoom", "must be > 0, got %g", c.Viewer.MinZoom)
	}
	if c.Viewer.MinZoom >= c.Viewer.MaxZoom {
		return invalid("viewer.max_zoom", "must exceed min_zoom (%g >= %g)", c.Viewer.MinZoom, c.Viewer.MaxZoom)
	}
	if c.Watch.Enabled && c.Watch.DebounceMS < 0 {
		return invalid("watch.debounce_ms", "must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window", "size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// Debounce returns the watch quiet period as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// NewTestConfig creates a configuration instance for testing purposes:
// small caches, one worker per pool and no folder watching.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Viewer.FullCacheSize = 3
	cfg.Viewer.ThumbCacheSize = 10
	cfg.Viewer.ThumbWidth = 16
	cfg.Viewer.ThumbHeight = 12
	cfg.Workers.Primary = 1
	cfg.Workers.Background = 1
	cfg.Workers.Reserve = 0
	cfg.Watch.Enabled = false
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}
	return themes["default"]
}

// ApplyTheme sets the theme colors from a predefined theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
