// Package clients maintains the execution client roster.
package clients

import (
	"errors"
	"fmt"
	"os"

	"github.com/balboard/balboard/jsonfile"
	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// BuildConfig is one entry of hive's client build configuration.
type BuildConfig struct {
	Client     string `yaml:"client"`
	Dockerfile string `yaml:"dockerfile,omitempty"`
	BuildArgs  struct {
		Github string `yaml:"github"`
		Tag    string `yaml:"tag"`
	} `yaml:"build_args"`
}

// RepoURL returns the link to the source tree the client is built from.
func (c BuildConfig) RepoURL() string {
	if c.BuildArgs.Github == "" {
		return ""
	}
	tag := c.BuildArgs.Tag
	if tag == "" {
		tag = "main"
	}
	return fmt.Sprintf("https://github.com/%s/tree/%s", c.BuildArgs.Github, tag)
}

// Load reads the roster at path.
func Load(path string) ([]model.Client, error) {
	var roster []model.Client
	if err := jsonfile.Read(path, &roster); err != nil {
		return nil, fmt.Errorf("failed to load client roster: %w", err)
	}
	return roster, nil
}

// Save writes the roster to path.
func Save(path string, roster []model.Client) error {
	return jsonfile.Write(path, roster)
}

// LoadBuildConfig reads hive's client build configuration and returns the
// repository link per hive client name. A missing file yields no links.
func LoadBuildConfig(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client build config: %w", err)
	}

	var configs []BuildConfig
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse client build config: %w", err)
	}

	repos := make(map[string]string, len(configs))
	for _, c := range configs {
		if url := c.RepoURL(); url != "" {
			repos[c.Client] = url
		}
	}
	return repos, nil
}

// ApplyVersions returns a copy of roster with versions and repository links
// from the latest export. Clients the export did not report get
// model.UnknownVersion.
func ApplyVersions(roster []model.Client, versions, repos map[string]string) []model.Client {
	out := make([]model.Client, len(roster))
	for i, c := range roster {
		c.Version = versions[c.HiveName]
		if c.Version == "" {
			c.Version = model.UnknownVersion
		}
		c.GithubRepo = repos[c.HiveName]
		out[i] = c
	}
	return out
}

// UpdateVersions rewrites the roster at path with the reported versions
// while holding the roster lock, and returns the updated roster.
func UpdateVersions(logger zerolog.Logger, path, buildConfigPath string, versions map[string]string) ([]model.Client, error) {
	repos, err := LoadBuildConfig(buildConfigPath)
	if err != nil {
		return nil, err
	}

	var updated []model.Client
	err = jsonfile.WithLock(path, func() error {
		roster, err := Load(path)
		if err != nil {
			return err
		}
		updated = ApplyVersions(roster, versions, repos)
		return Save(path, updated)
	})
	if err != nil {
		return nil, err
	}

	for _, c := range updated {
		logger.Debug().Str("client", c.ID).Str("version", c.Version).Str("repo", c.GithubRepo).Msg("Client version")
	}
	logger.Info().Int("clients", len(updated)).Msg("Updated client roster with versions and repositories")
	return updated, nil
}
