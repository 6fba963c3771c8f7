package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"

	ftaerrors "fta/internal/errors"
)

// FileName is the config file looked up at the root of an analyzed project.
const FileName = "fta.json"

// Config represents the complete FTA configuration
type Config struct {
	Extensions         []string `json:"extensions" mapstructure:"extensions"`
	ExcludeFilenames   []string `json:"exclude_filenames" mapstructure:"exclude_filenames"`
	ExcludeDirectories []string `json:"exclude_directories" mapstructure:"exclude_directories"`
	OutputLimit        int      `json:"output_limit" mapstructure:"output_limit"`
	ScoreCap           int      `json:"score_cap" mapstructure:"score_cap"`
	IncludeComments    bool     `json:"include_comments" mapstructure:"include_comments"`
	ExcludeUnder       int      `json:"exclude_under" mapstructure:"exclude_under"`

	Workers int           `json:"workers,omitempty" mapstructure:"workers"`
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// StorageConfig controls the analysis cache and run history in .fta/
type StorageConfig struct {
	Cache   bool   `json:"cache" mapstructure:"cache"`
	History bool   `json:"history" mapstructure:"history"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Extensions:         []string{".js", ".jsx", ".ts", ".tsx"},
		ExcludeFilenames:   []string{"*.d.ts", "*.min.js", "*.bundle.js"},
		ExcludeDirectories: []string{"/dist", "/bin", "/build"},
		OutputLimit:        5000,
		ScoreCap:           1000,
		IncludeComments:    false,
		ExcludeUnder:       6,
		Storage: StorageConfig{
			Cache:   false,
			History: true,
			Dir:     ".fta",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// LoadConfig loads configuration for the project at repoRoot. With an empty
// path it reads repoRoot/fta.json and falls back to defaults when the file does
// not exist; an explicit path must exist. User lists are appended to the
// default lists, scalars replace the defaults.
func LoadConfig(repoRoot, path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("output_limit", defaults.OutputLimit)
	v.SetDefault("score_cap", defaults.ScoreCap)
	v.SetDefault("include_comments", defaults.IncludeComments)
	v.SetDefault("exclude_under", defaults.ExcludeUnder)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("storage.cache", defaults.Storage.Cache)
	v.SetDefault("storage.history", defaults.Storage.History)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	// FTA_SCORE_CAP, FTA_STORAGE_CACHE and friends
	v.SetEnvPrefix("FTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, ftaerrors.New(ftaerrors.ConfigNotFound, fmt.Sprintf("config file %s not found", path), err)
			}
			return nil, ftaerrors.New(ftaerrors.IOError, "stat config file", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("json")
		v.AddConfigPath(repoRoot)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ftaerrors.New(ftaerrors.ConfigInvalid, "read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ftaerrors.New(ftaerrors.ConfigInvalid, "decode config file", err)
	}
	cfg.Extensions = mergeUnique(defaults.Extensions, cfg.Extensions)
	cfg.ExcludeFilenames = mergeUnique(defaults.ExcludeFilenames, cfg.ExcludeFilenames)
	cfg.ExcludeDirectories = mergeUnique(defaults.ExcludeDirectories, cfg.ExcludeDirectories)

	if err := cfg.Validate(); err != nil {
		return nil, ftaerrors.New(ftaerrors.ConfigInvalid, "invalid configuration", err)
	}
	return &cfg, nil
}

// Save writes the configuration as JSON to path
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.OutputLimit <= 0 {
		return &ConfigError{Field: "output_limit", Message: "must be positive"}
	}
	if c.ScoreCap <= 0 {
		return &ConfigError{Field: "score_cap", Message: "must be positive"}
	}
	if c.ExcludeUnder < 0 {
		return &ConfigError{Field: "exclude_under", Message: "must not be negative"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return &ConfigError{Field: "extensions", Message: fmt.Sprintf("%q must start with a dot", ext)}
		}
	}
	for _, pattern := range c.ExcludeFilenames {
		if _, err := glob.Compile(pattern); err != nil {
			return &ConfigError{Field: "exclude_filenames", Message: fmt.Sprintf("bad pattern %q: %v", pattern, err)}
		}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}

// mergeUnique appends extra to base, skipping entries already present.
func mergeUnique(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
