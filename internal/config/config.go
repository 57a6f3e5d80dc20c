package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file searched for.
const FileName = ".flake.yaml"

// Constants for default values.
const (
	DefaultFormat    = "auto"
	DefaultTheme     = "default"
	DefaultOnly      = "all"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// FileConfig is the content of a .flake.yaml file. Empty fields are unset.
type FileConfig struct {
	Format    string `yaml:"format,omitempty"`
	Theme     string `yaml:"theme,omitempty"`
	NoColor   *bool  `yaml:"no_color,omitempty"`
	Only      string `yaml:"only,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// LoadFile reads the configuration file. An explicit path must exist; with
// an empty path the default locations are searched and a missing file yields
// an empty config. The returned path is empty when no file was read.
func LoadFile(path string) (*FileConfig, string, error) {
	if path == "" {
		path = findConfigPath()
		if path == "" {
			return &FileConfig{}, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, "", fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &fc, path, nil
}

// findConfigPath returns the first existing config file: the working
// directory first, then the user config directory.
func findConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		configHome = dir
	}
	if configHome == "" || configHome == "/" {
		return ""
	}

	xdgPath := filepath.Join(configHome, "flake", FileName)
	if _, err := os.Stat(xdgPath); err != nil {
		return ""
	}
	return xdgPath
}
