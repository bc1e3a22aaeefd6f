// Package config loads and validates the typed hotpaste configuration.
//
// All settings live in one YAML file with documented defaults; validation
// happens once at load time so use sites never probe values ad hoc.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
	ErrInvalidDebounce = errors.New("debounce must not be negative")
	ErrEmptyPandocPath = errors.New("pandoc path cannot be empty")
)

// Duration is a time.Duration that reads and writes YAML in the
// human-friendly "30s" / "1m30s" notation instead of raw nanoseconds.
type Duration time.Duration

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalYAML implements yaml.BytesMarshaler.
func (d Duration) MarshalYAML() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (d *Duration) UnmarshalYAML(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"'`)
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Config holds all settings for the routing pipeline and its trigger source.
type Config struct {
	// Hotkey is the global trigger binding, in the notation of the hotkey
	// layer (e.g. "<ctrl>+b").
	Hotkey string `yaml:"hotkey"`

	// PandocPath locates the external converter; a bare name resolves on
	// PATH.
	PandocPath string `yaml:"pandocPath"`

	// ReferenceDocx is an optional pandoc style template (empty = none).
	ReferenceDocx string `yaml:"referenceDocx"`

	// SaveDir receives generated and persisted documents.
	SaveDir string `yaml:"saveDir"`

	// TempDir holds ephemeral converter output (empty = system default).
	TempDir string `yaml:"tempDir"`

	// KeepFile persists converted documents in addition to inserting them.
	KeepFile bool `yaml:"keepFile"`

	// Notify toggles user-visible notifications.
	Notify bool `yaml:"notify"`

	// EnableExcel toggles Markdown table detection and spreadsheet routing.
	EnableExcel bool `yaml:"enableExcel"`

	// ExcelKeepFormat keeps inline formatting when inserting tables.
	ExcelKeepFormat bool `yaml:"excelKeepFormat"`

	// AutoOpenOnNoApp generates a file and opens it with the default
	// application when no supported app is in focus.
	AutoOpenOnNoApp bool `yaml:"autoOpenOnNoApp"`

	// Timeout bounds one trigger's external converter invocation.
	Timeout Duration `yaml:"timeout"`

	// Debounce is the minimum interval between two trigger fires.
	Debounce Duration `yaml:"debounce"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		Hotkey:          "<ctrl>+b",
		PandocPath:      "pandoc",
		SaveDir:         defaultSaveDir(),
		KeepFile:        false,
		Notify:          true,
		EnableExcel:     true,
		ExcelKeepFormat: true,
		AutoOpenOnNoApp: true,
		Timeout:         Duration(30 * time.Second),
		Debounce:        Duration(300 * time.Millisecond),
	}
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hotpaste")
	}
	return filepath.Join(home, "Documents", "hotpaste")
}

// Load reads a YAML config file layered over the defaults and validates the
// result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the pipeline relies on.
func (c *Config) Validate() error {
	if c.PandocPath == "" {
		return ErrEmptyPandocPath
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDebounce, c.Debounce)
	}
	return nil
}

// Save writes the configuration back to path as YAML, creating parent
// directories as needed.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
