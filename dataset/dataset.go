// Package dataset locates the fork manifests, results documents and client
// files under the data directory.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/balboard/balboard/clients"
	"github.com/balboard/balboard/jsonfile"
	"github.com/balboard/balboard/model"
	"github.com/balboard/balboard/results"
	"github.com/rs/zerolog"
)

var (
	// ErrForkNotFound is returned when a fork has no manifest.
	ErrForkNotFound = errors.New("fork not found")
	// ErrEIPNotFound is returned when a fork manifest does not list an EIP.
	ErrEIPNotFound = errors.New("EIP not found")
)

const (
	forksDir        = "forks"
	manifestFile    = "manifest.json"
	resultsFile     = "results.json"
	clientFile      = "clients.yml"
	rosterFile      = "clients.json"
	buildConfigFile = "hive_clients.yml"
)

// Layout resolves paths below a data directory:
//
//	<dir>/clients.json
//	<dir>/hive_clients.yml
//	<dir>/forks/<fork>/manifest.json
//	<dir>/forks/<fork>/<eip>/results.json
//	<dir>/forks/<fork>/<eip>/clients.yml
type Layout struct {
	Dir string
}

// New returns the layout rooted at dir.
func New(dir string) *Layout {
	return &Layout{Dir: dir}
}

func (l *Layout) RosterPath() string {
	return filepath.Join(l.Dir, rosterFile)
}

func (l *Layout) BuildConfigPath() string {
	return filepath.Join(l.Dir, buildConfigFile)
}

func (l *Layout) ManifestPath(fork string) string {
	return filepath.Join(l.Dir, forksDir, fork, manifestFile)
}

func (l *Layout) ResultsPath(fork, eip string) string {
	return filepath.Join(l.Dir, forksDir, fork, eip, resultsFile)
}

func (l *Layout) ClientFilePath(fork, eip string) string {
	return filepath.Join(l.Dir, forksDir, fork, eip, clientFile)
}

// LoadFork reads the manifest of fork.
func (l *Layout) LoadFork(fork string) (model.ForkManifest, error) {
	var manifest model.ForkManifest
	if err := jsonfile.Read(l.ManifestPath(fork), &manifest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ForkManifest{}, fmt.Errorf("%w: %s", ErrForkNotFound, fork)
		}
		return model.ForkManifest{}, err
	}
	return manifest, nil
}

// EIP returns the manifest entry for eip.
func (l *Layout) EIP(fork, eip string) (model.EIPMetadata, error) {
	manifest, err := l.LoadFork(fork)
	if err != nil {
		return model.EIPMetadata{}, err
	}
	for _, m := range manifest.EIPs {
		if m.Number == eip {
			return m, nil
		}
	}
	return model.EIPMetadata{}, fmt.Errorf("%w: EIP-%s in fork %s", ErrEIPNotFound, eip, fork)
}

// TestableEIP is an EIP selected for testing with its file locations.
type TestableEIP struct {
	Fork        string
	Number      string
	Metadata    model.EIPMetadata
	ResultsPath string
	ClientsPath string
}

// TestableEIPs returns the EIPs of fork not marked as skipped.
func (l *Layout) TestableEIPs(logger zerolog.Logger, fork string) ([]TestableEIP, error) {
	manifest, err := l.LoadFork(fork)
	if err != nil {
		return nil, err
	}

	var out []TestableEIP
	for _, eip := range manifest.EIPs {
		if eip.Skip {
			logger.Info().Str("eip", eip.Number).Msg("Skipping EIP marked as skip")
			continue
		}
		out = append(out, TestableEIP{
			Fork:        fork,
			Number:      eip.Number,
			Metadata:    eip,
			ResultsPath: l.ResultsPath(fork, eip.Number),
			ClientsPath: l.ClientFilePath(fork, eip.Number),
		})
	}
	return out, nil
}

// LoadResults reads the results document of an EIP.
func (l *Layout) LoadResults(fork, eip string) (model.TestResults, error) {
	return results.Load(l.ResultsPath(fork, eip))
}

// LoadClients reads the client roster.
func (l *Layout) LoadClients() ([]model.Client, error) {
	return clients.Load(l.RosterPath())
}
