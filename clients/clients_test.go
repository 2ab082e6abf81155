package clients

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const buildConfig = `- client: go-ethereum
  dockerfile: git
  build_args:
    github: ethereum/go-ethereum
    tag: bal-devnet-0
- client: reth
  build_args:
    github: paradigmxyz/reth
- client: besu
  dockerfile: local
`

func roster() []model.Client {
	return []model.Client{
		{ID: "geth", Name: "Geth", HiveName: "go-ethereum", Language: "Go", Version: "old"},
		{ID: "reth", Name: "Reth", HiveName: "reth", Language: "Rust"},
		{ID: "besu", Name: "Besu", HiveName: "besu", Language: "Java", GithubRepo: "stale"},
	}
}

func TestLoadBuildConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hive_clients.yml")
	require.NoError(t, os.WriteFile(path, []byte(buildConfig), 0644))

	repos, err := LoadBuildConfig(path)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"go-ethereum": "https://github.com/ethereum/go-ethereum/tree/bal-devnet-0",
		"reth":        "https://github.com/paradigmxyz/reth/tree/main",
	}, repos)

	repos, err = LoadBuildConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.Empty(t, repos)

	require.NoError(t, os.WriteFile(path, []byte("client: [unterminated"), 0644))
	_, err = LoadBuildConfig(path)
	require.Error(t, err)
}

func TestApplyVersions(t *testing.T) {
	in := roster()
	out := ApplyVersions(in,
		map[string]string{"go-ethereum": "1.16.4", "reth": "1.8.0"},
		map[string]string{"go-ethereum": "https://github.com/ethereum/go-ethereum/tree/master"})

	require.Equal(t, "1.16.4", out[0].Version)
	require.Equal(t, "https://github.com/ethereum/go-ethereum/tree/master", out[0].GithubRepo)
	require.Equal(t, "1.8.0", out[1].Version)
	require.Empty(t, out[1].GithubRepo)
	require.Equal(t, model.UnknownVersion, out[2].Version)
	require.Empty(t, out[2].GithubRepo)

	// static fields and input untouched
	require.Equal(t, "Geth", out[0].Name)
	require.Equal(t, "old", in[0].Version)
}

func TestUpdateVersions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clients.json")
	buildPath := filepath.Join(dir, "hive_clients.yml")
	require.NoError(t, Save(path, roster()))
	require.NoError(t, os.WriteFile(buildPath, []byte(buildConfig), 0644))

	updated, err := UpdateVersions(zerolog.Nop(), path, buildPath, map[string]string{"reth": "1.8.0"})
	require.NoError(t, err)
	require.Len(t, updated, 3)

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, updated, loaded)
	require.Equal(t, model.UnknownVersion, loaded[0].Version)
	require.Equal(t, "1.8.0", loaded[1].Version)
	require.Equal(t, "https://github.com/paradigmxyz/reth/tree/main", loaded[1].GithubRepo)

	_, err = UpdateVersions(zerolog.Nop(), filepath.Join(dir, "missing.json"), buildPath, nil)
	require.Error(t, err)
}
