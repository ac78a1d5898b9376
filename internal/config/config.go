// Package config handles configuration loading and defaults for the weekplan
// app. Configuration is loaded from XDG-compliant paths (typically
// ~/.config/weekplan/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"weekplan/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.weekplan)
	DataDir string `yaml:"data_dir,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`

	// Suggest configures the AI task-breakdown service
	Suggest SuggestConfig `yaml:"suggest,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	// Navigation keys
	Up       string `yaml:"up,omitempty"`        // default: "k,up"
	Down     string `yaml:"down,omitempty"`      // default: "j,down"
	PrevDay  string `yaml:"prev_day,omitempty"`  // default: "h,left"
	NextDay  string `yaml:"next_day,omitempty"`  // default: "l,right"
	PrevWeek string `yaml:"prev_week,omitempty"` // default: "H,["
	NextWeek string `yaml:"next_week,omitempty"` // default: "L,]"
	Today    string `yaml:"today,omitempty"`     // default: "t"

	// Task keys
	AddTask    string `yaml:"add_task,omitempty"`    // default: "a"
	EditTask   string `yaml:"edit_task,omitempty"`   // default: "e"
	ToggleTask string `yaml:"toggle_task,omitempty"` // default: "d,enter,space"
	DeleteTask string `yaml:"delete_task,omitempty"` // default: "x"
	MoveUp     string `yaml:"move_up,omitempty"`     // default: "K"
	MoveDown   string `yaml:"move_down,omitempty"`   // default: "J"
	Category   string `yaml:"category,omitempty"`    // default: "c,tab"
	Suggest    string `yaml:"suggest,omitempty"`     // default: "s"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting tasks
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true
}

// SuggestConfig defines the task-breakdown service settings. The API key
// is never stored in the file; it is read from the environment variable
// named by APIKeyEnv at call time.
type SuggestConfig struct {
	// Enabled enables/disables the suggest command
	Enabled bool `yaml:"enabled,omitempty"`

	// Endpoint is the HTTP endpoint of the generation API
	Endpoint string `yaml:"endpoint,omitempty"`

	// Model names the generation model to use
	Model string `yaml:"model,omitempty"`

	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv string `yaml:"api_key_env,omitempty"` // default: "GEMINI_API_KEY"

	// TimeoutSeconds bounds each suggestion request
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"` // default: 15
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
		Keys: KeysConfig{
			// Defaults are empty strings, which means use built-in defaults
		},
		UX: UXConfig{
			ConfirmDeletions: true,
		},
		Suggest: SuggestConfig{
			Enabled:        true,
			Endpoint:       "https://generativelanguage.googleapis.com/v1beta/models",
			Model:          "gemini-2.0-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 15,
		},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".weekplan"
	}
	return filepath.Join(home, ".weekplan")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "weekplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "weekplan")
}

// configPath returns the path to the config file.
func configPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from disk, merging with defaults.
// If no config file exists, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	path := configPath()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, err
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)
	return cfg, nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware
// merging against the YAML document).
func (c *Config) mergeNonEmpty(other *Config) {
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	if other.Theme.Primary != "" {
		c.Theme.Primary = other.Theme.Primary
	}
	if other.Theme.Accent != "" {
		c.Theme.Accent = other.Theme.Accent
	}
	if other.Theme.Muted != "" {
		c.Theme.Muted = other.Theme.Muted
	}

	if other.Keys.Quit != "" {
		c.Keys.Quit = other.Keys.Quit
	}
	if other.Keys.Help != "" {
		c.Keys.Help = other.Keys.Help
	}
	if other.Keys.Up != "" {
		c.Keys.Up = other.Keys.Up
	}
	if other.Keys.Down != "" {
		c.Keys.Down = other.Keys.Down
	}
	if other.Keys.PrevDay != "" {
		c.Keys.PrevDay = other.Keys.PrevDay
	}
	if other.Keys.NextDay != "" {
		c.Keys.NextDay = other.Keys.NextDay
	}
	if other.Keys.PrevWeek != "" {
		c.Keys.PrevWeek = other.Keys.PrevWeek
	}
	if other.Keys.NextWeek != "" {
		c.Keys.NextWeek = other.Keys.NextWeek
	}
	if other.Keys.Today != "" {
		c.Keys.Today = other.Keys.Today
	}
	if other.Keys.AddTask != "" {
		c.Keys.AddTask = other.Keys.AddTask
	}
	if other.Keys.EditTask != "" {
		c.Keys.EditTask = other.Keys.EditTask
	}
	if other.Keys.ToggleTask != "" {
		c.Keys.ToggleTask = other.Keys.ToggleTask
	}
	if other.Keys.DeleteTask != "" {
		c.Keys.DeleteTask = other.Keys.DeleteTask
	}
	if other.Keys.MoveUp != "" {
		c.Keys.MoveUp = other.Keys.MoveUp
	}
	if other.Keys.MoveDown != "" {
		c.Keys.MoveDown = other.Keys.MoveDown
	}
	if other.Keys.Category != "" {
		c.Keys.Category = other.Keys.Category
	}
	if other.Keys.Suggest != "" {
		c.Keys.Suggest = other.Keys.Suggest
	}
	if other.Keys.Confirm != "" {
		c.Keys.Confirm = other.Keys.Confirm
	}
	if other.Keys.Cancel != "" {
		c.Keys.Cancel = other.Keys.Cancel
	}

	if other.Suggest.Endpoint != "" {
		c.Suggest.Endpoint = other.Suggest.Endpoint
	}
	if other.Suggest.Model != "" {
		c.Suggest.Model = other.Suggest.Model
	}
	if other.Suggest.APIKeyEnv != "" {
		c.Suggest.APIKeyEnv = other.Suggest.APIKeyEnv
	}
	if other.Suggest.TimeoutSeconds > 0 {
		c.Suggest.TimeoutSeconds = other.Suggest.TimeoutSeconds
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Booleans carry no presence information after unmarshalling, so
	// re-apply them only when the key exists in the YAML document.
	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "suggest", "enabled") {
		c.Suggest.Enabled = other.Suggest.Enabled
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			if k.Kind == yaml.ScalarNode && k.Value == key {
				next = v
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	path := configPath()
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	if c.DataDir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return c.DataDir
	}
	if strings.HasPrefix(c.DataDir, "~/") || strings.HasPrefix(c.DataDir, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			trimmed := strings.TrimPrefix(c.DataDir, "~/")
			trimmed = strings.TrimPrefix(trimmed, `~\`)
			return filepath.Join(home, trimmed)
		}
	}
	return c.DataDir
}
