package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxCallDepth = 2048
	DefaultCacheSize    = 64
	DefaultLogLevel     = "warn"

	// MaxCallDepthLimit caps max_call_depth well below the depth at which
	// the Go stack of the evaluator itself would be exhausted.
	MaxCallDepthLimit = 1 << 16
)

// Config controls a Session. Zero values are not meaningful on their own;
// start from DefaultConfig.
type Config struct {
	// MaxCallDepth is the nesting depth of user function calls at which a
	// StackOverflow runtime error is raised.
	MaxCallDepth int
	Natives      NativesConfig
	// CacheSize is the number of compiled programs kept; 0 disables caching.
	CacheSize int
	// LogLevel is one of debug, info, warn or error.
	LogLevel string
}

// NativesConfig selects the host functions bound as globals.
type NativesConfig struct {
	Clock bool
}

type configFile struct {
	MaxCallDepth *int         `yaml:"max_call_depth"`
	Natives      *nativesFile `yaml:"natives"`
	CacheSize    *int         `yaml:"cache_size"`
	LogLevel     *string      `yaml:"log_level"`
}

type nativesFile struct {
	Clock *bool `yaml:"clock"`
}

// tomlFile is decoded over a copy of the defaults, so absent keys keep them.
type tomlFile struct {
	MaxCallDepth int         `toml:"max_call_depth"`
	Natives      tomlNatives `toml:"natives"`
	CacheSize    int         `toml:"cache_size"`
	LogLevel     string      `toml:"log_level"`
}

type tomlNatives struct {
	Clock bool `toml:"clock"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		MaxCallDepth: DefaultMaxCallDepth,
		Natives:      NativesConfig{Clock: true},
		CacheSize:    DefaultCacheSize,
		LogLevel:     DefaultLogLevel,
	}
}

// LoadConfig reads a config file from disk. Files ending in .toml are read
// as TOML, anything else as YAML.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	parse := ParseConfig
	if strings.EqualFold(filepath.Ext(absPath), ".toml") {
		parse = ParseConfigTOML
	}
	cfg, err := parse(file)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML from r over DefaultConfig. Unknown keys are
// rejected and an empty document yields the defaults.
func ParseConfig(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	cfg := raw.merge(DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfigTOML is ParseConfig for TOML documents. Unknown keys are
// rejected as well.
func ParseConfigTOML(r io.Reader) (Config, error) {
	defaults := DefaultConfig()
	raw := tomlFile{
		MaxCallDepth: defaults.MaxCallDepth,
		Natives:      tomlNatives{Clock: defaults.Natives.Clock},
		CacheSize:    defaults.CacheSize,
		LogLevel:     defaults.LogLevel,
	}
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	cfg := Config{
		MaxCallDepth: raw.MaxCallDepth,
		Natives:      NativesConfig{Clock: raw.Natives.Clock},
		CacheSize:    raw.CacheSize,
		LogLevel:     normalizeLevel(raw.LogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

func (f configFile) merge(cfg Config) Config {
	if f.MaxCallDepth != nil {
		cfg.MaxCallDepth = *f.MaxCallDepth
	}
	if f.Natives != nil && f.Natives.Clock != nil {
		cfg.Natives.Clock = *f.Natives.Clock
	}
	if f.CacheSize != nil {
		cfg.CacheSize = *f.CacheSize
	}
	if f.LogLevel != nil {
		cfg.LogLevel = normalizeLevel(*f.LogLevel)
	}
	return cfg
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs ValidationError
	switch {
	case c.MaxCallDepth <= 0:
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be positive, got %d", c.MaxCallDepth))
	case c.MaxCallDepth > MaxCallDepthLimit:
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be at most %d, got %d", MaxCallDepthLimit, c.MaxCallDepth))
	}
	if c.CacheSize < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("cache_size must not be negative, got %d", c.CacheSize))
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level maps LogLevel to a slog level, falling back to warn.
func (c Config) Level() slog.Level {
	if level, ok := logLevels[c.LogLevel]; ok {
		return level
	}
	return slog.LevelWarn
}
