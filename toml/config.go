// Package toml loads application configuration from a TOML file.
package toml

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration wraps time.Duration so it can be written as "750ms" or "2s" in
// the config file.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config holds the application settings.
type Config struct {
	Model         string   `toml:"model"`          // Gemini model used for AI edits
	DatabasePath  string   `toml:"database_path"`  // SQLite file for saved reviews
	LogPath       string   `toml:"log_path"`       // log file (the TUI owns the terminal)
	DiffThreshold int      `toml:"diff_threshold"` // combined size above which diffs run in the background
	AutosaveDelay Duration `toml:"autosave_delay"` // debounce before a dirty session is persisted
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "writeedit.toml"
	}
	return filepath.Join(dir, "writeedit", "config.toml")
}

// Default returns the configuration used when no file exists.
func Default() Config {
	base := "."
	if dir, err := os.UserConfigDir(); err == nil {
		base = filepath.Join(dir, "writeedit")
	}
	return Config{
		Model:         "gemini-3-flash-preview",
		DatabasePath:  filepath.Join(base, "writeedit.db"),
		LogPath:       filepath.Join(base, "writeedit.log"),
		DiffThreshold: 5000,
		AutosaveDelay: Duration{2 * time.Second},
	}
}

// Load reads the config file at path, applying defaults for absent fields.
// A missing file is not an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
