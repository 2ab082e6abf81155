package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(HiveRepoEnv, "")
	os.Unsetenv(HiveRepoEnv)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, &Config{
		CurrentFork: "glamsterdam",
		DataDir:     "data",
		ErrorPolicy: PolicyFailFast,
		Hive: Hive{
			RepoPath:    "/tmp/hive",
			Parallelism: 4,
			OutputDir:   ".hive",
			HistoryDir:  ".hive-history",
			OutputTail:  50,
		},
		API: API{
			Addr:  ":8080",
			Cache: Cache{MaxAge: 300, StaleWhileRevalidate: 3600},
		},
		Fetch: Fetch{Timeout: 30 * time.Second},
	}, cfg)
	require.False(t, cfg.ContinueOnError())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
current_fork: osaka
error_policy: continue
hive:
  repo_path: /opt/hive
  parallelism: 8
api:
  cache:
    max_age: 60
fetch:
  timeout: 5s
`), 0644))

	t.Setenv(HiveRepoEnv, "/srv/hive")
	t.Setenv("BALBOARD_HIVE__PARALLELISM", "2")
	t.Setenv("BALBOARD_DATA_DIR", "/var/lib/balboard")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "osaka", cfg.CurrentFork)
	require.True(t, cfg.ContinueOnError())
	require.Equal(t, "/srv/hive", cfg.Hive.RepoPath)
	require.Equal(t, 2, cfg.Hive.Parallelism)
	require.Equal(t, "/var/lib/balboard", cfg.DataDir)
	require.Equal(t, 60, cfg.API.Cache.MaxAge)
	require.Equal(t, 3600, cfg.API.Cache.StaleWhileRevalidate)
	require.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
}

func TestLoadPrefixedEnvWinsOverHiveRepoPath(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(HiveRepoEnv, "/srv/hive")
	t.Setenv("BALBOARD_HIVE__REPO_PATH", "/home/hive")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/home/hive", cfg.Hive.RepoPath)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("current_fork: prague\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prague", cfg.CurrentFork)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "bad policy",
			mutate: func(c *Config) { c.ErrorPolicy = "ignore" },
			errMsg: "invalid error_policy",
		},
		{
			name:   "empty fork",
			mutate: func(c *Config) { c.CurrentFork = "" },
			errMsg: "current_fork",
		},
		{
			name:   "zero parallelism",
			mutate: func(c *Config) { c.Hive.Parallelism = 0 },
			errMsg: "hive.parallelism",
		},
		{
			name:   "zero tail",
			mutate: func(c *Config) { c.Hive.OutputTail = 0 },
			errMsg: "hive.output_tail",
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Fetch.Timeout = 0 },
			errMsg: "fetch.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				CurrentFork: "glamsterdam",
				ErrorPolicy: PolicyFailFast,
				Hive:        Hive{Parallelism: 1, OutputTail: 1},
				Fetch:       Fetch{Timeout: time.Second},
			}
			require.NoError(t, cfg.Validate())

			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
