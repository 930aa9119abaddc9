package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	styles "github.com/charmbracelet/glamour/styles"

	"github.com/kyaoi/medit/internal/log"
	"github.com/kyaoi/medit/internal/preview"
)

const (
	appDirName     = "medit"
	ConfigFileName = "config.toml"
)

// Config holds the user-tunable editor settings.
type Config struct {
	// Style is the glamour style used by the rendered preview.
	Style string `toml:"style"`
	// LineNumbers shows line numbers in the editor.
	LineNumbers bool `toml:"line_numbers"`
	// SelectOnOpen switches to a tab as soon as it is opened.
	SelectOnOpen bool `toml:"select_on_open"`
	// StartDir is where the file picker starts. Empty means the working directory.
	StartDir string `toml:"start_dir"`
	// Extensions limits the file picker to these suffixes. Empty allows every file.
	Extensions []string `toml:"extensions"`
	// Watch reloads tabs when their file changes on disk.
	Watch bool `toml:"watch"`
	// Preview is the preview kind for newly opened tabs: off, rendered or html.
	Preview string `toml:"preview"`
	// LogLevel is overridden by the MEDIT_LOG environment variable.
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Style:        styles.TokyoNightStyle,
		LineNumbers:  true,
		SelectOnOpen: true,
		Extensions:   []string{".md", ".markdown", ".mdx", ".txt"},
		Watch:        true,
		Preview:      "off",
		LogLevel:     "warn",
	}
}

// Dir returns the configuration directory, honouring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the configuration at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.InfoLog.Printf("no config at %s, using defaults", path)
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the configuration from the default location.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		log.WarningLog.Printf("failed to get config path: %v", err)
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Validate checks the values that cannot be expressed by the TOML types.
func (c *Config) Validate() error {
	if _, err := preview.ParseKind(c.Preview); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// fillDefaults completes values left empty or written loosely in the file.
func (c *Config) fillDefaults() {
	if c.Style == "" {
		c.Style = styles.TokyoNightStyle
	}
	for i, ext := range c.Extensions {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
}
