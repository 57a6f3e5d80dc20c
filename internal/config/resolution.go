package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/render"
)

// Source names where a resolved value came from.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Accepted values.
var (
	Formats    = []string{"auto", "terminal", "llm", "json", "markdown", "matrix", "sarif", "tui"}
	OnlyValues = []string{"all", "bad", "flaky"}
	LogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	LogFormats = []string{"text", "json"}
)

// Flags holds command-line values. The *Set fields record whether the user
// passed the flag explicitly.
type Flags struct {
	ConfigPath string
	Format     string
	Theme      string
	NoColor    bool
	Only       string
	LogLevel   string
	LogFormat  string

	FormatSet    bool
	ThemeSet     bool
	NoColorSet   bool
	OnlySet      bool
	LogLevelSet  bool
	LogFormatSet bool
}

// Resolved holds the final configuration after applying all priority rules.
type Resolved struct {
	Format    string
	Theme     string
	NoColor   bool
	Only      string
	LogLevel  string
	LogFormat string

	// Path of the config file read, empty when none.
	Path string

	FormatSource    Source
	ThemeSource     Source
	NoColorSource   Source
	OnlySource      Source
	LogLevelSource  Source
	LogFormatSource Source
}

// Resolve merges flags, environment, config file and defaults, in that
// order of priority, and validates the result.
func Resolve(flags Flags) (*Resolved, error) {
	fc, path, err := LoadFile(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	r := &Resolved{Path: path}
	r.Format, r.FormatSource = resolveString(flags.Format, flags.FormatSet, fc.Format, DefaultFormat, "FLAKE_FORMAT")
	r.Theme, r.ThemeSource = resolveString(flags.Theme, flags.ThemeSet, fc.Theme, DefaultTheme, "FLAKE_THEME")
	r.Only, r.OnlySource = resolveString(flags.Only, flags.OnlySet, fc.Only, DefaultOnly, "FLAKE_ONLY")
	r.LogLevel, r.LogLevelSource = resolveString(flags.LogLevel, flags.LogLevelSet, fc.LogLevel, DefaultLogLevel, "FLAKE_LOG_LEVEL")
	r.LogFormat, r.LogFormatSource = resolveString(flags.LogFormat, flags.LogFormatSet, fc.LogFormat, DefaultLogFormat, "FLAKE_LOG_FORMAT")

	// NoColor: CLI > ENV > file > default
	switch {
	case flags.NoColorSet:
		r.NoColor, r.NoColorSource = flags.NoColor, SourceCLI
	case getEnvBool("FLAKE_NO_COLOR") != nil:
		r.NoColor, r.NoColorSource = *getEnvBool("FLAKE_NO_COLOR"), SourceEnv
	case os.Getenv("NO_COLOR") != "":
		// https://no-color.org: any non-empty value disables color.
		r.NoColor, r.NoColorSource = true, SourceEnv
	case fc.NoColor != nil:
		r.NoColor, r.NoColorSource = *fc.NoColor, SourceFile
	default:
		r.NoColor, r.NoColorSource = false, SourceDefault
	}

	if err := validate(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

// OnlyCategories maps the row filter to the categories it keeps. "all"
// yields nil, meaning no filter.
func (r *Resolved) OnlyCategories() []category.Category {
	switch r.Only {
	case "bad":
		return []category.Category{category.Bad}
	case "flaky":
		return []category.Category{category.Bad, category.Flaky}
	default:
		return nil
	}
}

func resolveString(cli string, cliSet bool, file, def, envKey string) (string, Source) {
	if cliSet {
		return strings.ToLower(cli), SourceCLI
	}
	if v := os.Getenv(envKey); v != "" {
		return strings.ToLower(v), SourceEnv
	}
	if file != "" {
		return strings.ToLower(file), SourceFile
	}
	return def, SourceDefault
}

// getEnvBool reads a boolean from environment variables, trying multiple keys.
// Returns nil if none are set to a parseable value.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				return &b
			}
		}
	}
	return nil
}

func validate(r *Resolved) error {
	checks := []struct {
		name   string
		value  string
		source Source
		valid  []string
	}{
		{"format", r.Format, r.FormatSource, Formats},
		{"theme", r.Theme, r.ThemeSource, render.ThemeNames()},
		{"only", r.Only, r.OnlySource, OnlyValues},
		{"log_level", r.LogLevel, r.LogLevelSource, LogLevels},
		{"log_format", r.LogFormat, r.LogFormatSource, LogFormats},
	}
	for _, c := range checks {
		if !slices.Contains(c.valid, c.value) {
			return fmt.Errorf("invalid %s value %q from %s (must be: %s)",
				c.name, c.value, c.source, strings.Join(c.valid, ", "))
		}
	}
	return nil
}
