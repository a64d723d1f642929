package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName  = "config.yaml"
	ConfigDirName   = ".vimnav"
	GlobalConfigDir = ".config/vimnav"
)

// Environment variables that override file settings
const (
	EnvAlphabet   = "VIMNAV_ALPHABET"
	EnvAutoSelect = "VIMNAV_AUTO_SELECT"
	EnvChromePath = "VIMNAV_CHROME_PATH"
	EnvRemoteURL  = "VIMNAV_REMOTE_URL"
	EnvHeadless   = "VIMNAV_HEADLESS"
	EnvLogLevel   = "VIMNAV_LOG_LEVEL"
)

// errNotFound is returned by findConfigFile when no file exists
var errNotFound = errors.New("no config file found")

// Loader handles configuration loading and discovery
type Loader struct {
	startDir string
	// explicit is a path given with --config
	explicit string
	// path is the file the last Load read, empty for defaults
	path string
	// home overrides os.UserHomeDir
	home string
}

// NewLoader creates a new config loader starting from the given directory
func NewLoader(startDir string) *Loader {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			startDir = "."
		}
	}
	return &Loader{startDir: startDir}
}

// WithFile makes the loader read path instead of searching
func (l *Loader) WithFile(path string) *Loader {
	l.explicit = path
	return l
}

// Load reads the configuration with environment variable overrides. When no
// file exists the defaults are used.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	configPath, err := l.findConfigFile()
	switch {
	case err == nil:
		if err := l.loadFromFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		l.path = configPath
	case errors.Is(err, errNotFound):
		l.path = ""
	default:
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Path returns the file read by the last Load, or "" when defaults were used
func (l *Loader) Path() string {
	return l.path
}

// findConfigFile searches upward from the start directory, then the global
// config directory
func (l *Loader) findConfigFile() (string, error) {
	if l.explicit != "" {
		if _, err := os.Stat(l.explicit); err != nil {
			return "", err
		}
		return l.explicit, nil
	}

	dir := l.startDir
	for {
		configPath := filepath.Join(dir, ConfigDirName, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if home := l.homeDir(); home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, ConfigFileName)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", fmt.Errorf("%w (searched upward from %s)", errNotFound, l.startDir)
}

func (l *Loader) homeDir() string {
	if l.home != "" {
		return l.home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// loadFromFile decodes a YAML file over config, keeping defaults for
// missing keys
func (l *Loader) loadFromFile(configPath string, config *Config) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	if v := os.Getenv(EnvAlphabet); v != "" {
		config.Hints.Alphabet = v
	}
	if v := os.Getenv(EnvAutoSelect); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoSelect, err)
		}
		config.Hints.AutoSelect = b
	}
	if v := os.Getenv(EnvChromePath); v != "" {
		config.Browser.ChromePath = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		config.Browser.RemoteURL = v
	}
	if v := os.Getenv(EnvHeadless); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		config.Browser.Headless = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Log.Level = v
	}
	return nil
}

// Save writes the configuration to configPath
func (l *Loader) Save(config *Config, configPath string) error {
	config.Meta.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the path where a project config file should be created
func (l *Loader) GetConfigPath() string {
	if l.explicit != "" {
		return l.explicit
	}
	return filepath.Join(l.startDir, ConfigDirName, ConfigFileName)
}

// IsInitialized checks if a config file exists in the project hierarchy
func (l *Loader) IsInitialized() bool {
	_, err := l.findConfigFile()
	return err == nil
}

// GetProjectRoot returns the directory containing the .vimnav folder, or
// the start directory when there is none
func (l *Loader) GetProjectRoot() string {
	configPath, err := l.findConfigFile()
	if err != nil || l.explicit != "" || filepath.Base(filepath.Dir(configPath)) != ConfigDirName {
		return l.startDir
	}
	return filepath.Dir(filepath.Dir(configPath))
}

// Exists reports whether path names an existing file
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
