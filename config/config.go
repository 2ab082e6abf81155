// Package config loads balboard's static configuration.
//
// Precedence (highest to lowest): BALBOARD_* environment variables,
// HIVE_REPO_PATH, config file, defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the config file looked up in the working directory.
const FileName = "balboard.yaml"

const (
	envPrefix = "BALBOARD_"
	// nesting separator in variable names: BALBOARD_HIVE__REPO_PATH -> hive.repo_path
	envNesting = "__"
	// HiveRepoEnv selects the hive checkout.
	HiveRepoEnv = "HIVE_REPO_PATH"
)

// Error policies for batches covering several EIPs.
const (
	PolicyFailFast = "fail-fast"
	PolicyContinue = "continue"
)

type Config struct {
	CurrentFork string `koanf:"current_fork"`
	DataDir     string `koanf:"data_dir"`
	ErrorPolicy string `koanf:"error_policy"`
	Hive        Hive   `koanf:"hive"`
	API         API    `koanf:"api"`
	Fetch       Fetch  `koanf:"fetch"`
}

type Hive struct {
	RepoPath    string `koanf:"repo_path"`
	Parallelism int    `koanf:"parallelism"`
	// exports land in <output_dir>/<simulation>/<eip>
	OutputDir  string `koanf:"output_dir"`
	HistoryDir string `koanf:"history_dir"`
	// lines of hive output kept per invocation
	OutputTail int `koanf:"output_tail"`
}

type API struct {
	Addr  string `koanf:"addr"`
	Cache Cache  `koanf:"cache"`
}

// Cache controls the Cache-Control header of API responses, in seconds.
type Cache struct {
	MaxAge               int `koanf:"max_age"`
	StaleWhileRevalidate int `koanf:"stale_while_revalidate"`
}

type Fetch struct {
	Timeout time.Duration `koanf:"timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"current_fork":                     "glamsterdam",
		"data_dir":                         "data",
		"error_policy":                     PolicyFailFast,
		"hive.repo_path":                   "/tmp/hive",
		"hive.parallelism":                 4,
		"hive.output_dir":                  ".hive",
		"hive.history_dir":                 ".hive-history",
		"hive.output_tail":                 50,
		"api.addr":                         ":8080",
		"api.cache.max_age":                300,
		"api.cache.stale_while_revalidate": 3600,
		"fetch.timeout":                    "30s",
	}
}

// Load builds the configuration. path names an explicit config file; when
// empty, FileName is used if it exists in the working directory.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(FileName); err == nil {
			path = FileName
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(HiveRepoEnv, ".", func(s string) string {
		if s != HiveRepoEnv {
			return ""
		}
		return "hive.repo_path"
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", HiveRepoEnv, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, envNesting, ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.ErrorPolicy {
	case PolicyFailFast, PolicyContinue:
	default:
		return fmt.Errorf("invalid error_policy %q: must be %s or %s", c.ErrorPolicy, PolicyFailFast, PolicyContinue)
	}
	if c.CurrentFork == "" {
		return fmt.Errorf("current_fork must not be empty")
	}
	if c.Hive.Parallelism <= 0 {
		return fmt.Errorf("hive.parallelism must be positive, got %d", c.Hive.Parallelism)
	}
	if c.Hive.OutputTail <= 0 {
		return fmt.Errorf("hive.output_tail must be positive, got %d", c.Hive.OutputTail)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	return nil
}

// ContinueOnError reports whether a failing EIP should not stop a batch.
func (c *Config) ContinueOnError() bool {
	return c.ErrorPolicy == PolicyContinue
}
