package config

import (
	"fmt"
	"time"

	"github.com/lance13c/vimnav/internal/hint"
	"github.com/lance13c/vimnav/internal/keys"
	"github.com/lance13c/vimnav/internal/label"
	"github.com/lance13c/vimnav/internal/overlay"
)

// Config represents the complete vimnav configuration
type Config struct {
	Hints   HintsConfig   `yaml:"hints"`
	Style   overlay.Style `yaml:"style"`
	Keys    KeysConfig    `yaml:"keys"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
	Meta    MetaConfig    `yaml:"meta"`
}

// HintsConfig controls labelling and selection
type HintsConfig struct {
	Alphabet      string `yaml:"alphabet"` // optimal, numeric, alpha, longalpha or a literal symbol sequence
	AutoSelect    bool   `yaml:"auto_select"`
	ShortenLabels bool   `yaml:"shorten_labels"`
	AcceptKey     string `yaml:"accept_key"`
	NewTabKey     string `yaml:"new_tab_key"`
}

// KeysConfig maps key descriptors to command names
type KeysConfig struct {
	Passive map[string]string `yaml:"passive,omitempty"`
	Hinting map[string]string `yaml:"hinting,omitempty"`
}

// BrowserConfig controls the Chrome session
type BrowserConfig struct {
	Headless     bool   `yaml:"headless"`
	ChromePath   string `yaml:"chrome_path,omitempty"`
	RemoteURL    string `yaml:"remote_url,omitempty"` // attach to a running browser instead of launching one
	StartURL     string `yaml:"start_url"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `yaml:"level"`
}

// MetaConfig holds metadata about the configuration
type MetaConfig struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// DefaultConfig returns a new config with sensible defaults
func DefaultConfig() *Config {
	now := time.Now()
	def := keys.DefaultBindings()
	return &Config{
		Hints: HintsConfig{
			Alphabet:      label.SettingOptimal,
			AutoSelect:    true,
			ShortenLabels: true,
			AcceptKey:     def.Accept,
			NewTabKey:     def.NewTab,
		},
		Style: overlay.DefaultStyle(),
		Keys: KeysConfig{
			Passive: def.Passive.Names(),
			Hinting: def.Hinting.Names(),
		},
		Browser: BrowserConfig{
			StartURL:     "about:blank",
			WindowWidth:  1280,
			WindowHeight: 900,
		},
		Log: LogConfig{Level: "info"},
		Meta: MetaConfig{
			Version:   "1.0.0",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Hints.Alphabet == "" {
		return NewValidationError("hints.alphabet is required")
	}
	if _, _, err := label.Choose(c.Hints.Alphabet, 1); err != nil {
		return NewValidationError("hints.alphabet: " + err.Error())
	}

	if c.Hints.AcceptKey == "" || c.Hints.NewTabKey == "" {
		return NewValidationError("hints.accept_key and hints.new_tab_key are required")
	}
	if c.Hints.AcceptKey == c.Hints.NewTabKey {
		return NewValidationError("hints.accept_key and hints.new_tab_key must differ")
	}

	if _, err := keys.ParseTable(c.Keys.Passive); err != nil {
		return NewValidationError("keys.passive: " + err.Error())
	}
	if _, err := keys.ParseTable(c.Keys.Hinting); err != nil {
		return NewValidationError("keys.hinting: " + err.Error())
	}

	if c.Style.Opacity < 0 || c.Style.Opacity > 1 {
		return NewValidationError(fmt.Sprintf("style.opacity must be between 0 and 1, got %g", c.Style.Opacity))
	}
	if c.Browser.WindowWidth < 0 || c.Browser.WindowHeight < 0 {
		return NewValidationError("browser window size cannot be negative")
	}

	return nil
}

// HintOptions returns the hint machine options
func (c *Config) HintOptions() hint.Options {
	return hint.Options{
		Alphabet:   c.Hints.Alphabet,
		AutoSelect: c.Hints.AutoSelect,
		Shorten:    c.Hints.ShortenLabels,
	}
}

// Bindings returns the router key configuration. Empty tables fall back to
// the defaults.
func (c *Config) Bindings() (keys.Bindings, error) {
	b := keys.Bindings{
		Accept: c.Hints.AcceptKey,
		NewTab: c.Hints.NewTabKey,
	}

	var err error
	if len(c.Keys.Passive) > 0 {
		if b.Passive, err = keys.ParseTable(c.Keys.Passive); err != nil {
			return b, fmt.Errorf("keys.passive: %w", err)
		}
	}
	if len(c.Keys.Hinting) > 0 {
		if b.Hinting, err = keys.ParseTable(c.Keys.Hinting); err != nil {
			return b, fmt.Errorf("keys.hinting: %w", err)
		}
	}
	return b, nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
