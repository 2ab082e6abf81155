package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/balboard/balboard/ingest"
	"github.com/balboard/balboard/model"
	"github.com/balboard/balboard/results"
	"github.com/stretchr/testify/require"
)

func TestSummarizeFork(t *testing.T) {
	pass := []model.Result{
		{Simulation: model.SimulationRLP, Status: model.StatusPass},
		{Simulation: model.SimulationEngine, Status: model.StatusPass},
	}
	fail := []model.Result{
		{Simulation: model.SimulationRLP, Status: model.StatusPass},
		{Simulation: model.SimulationEngine, Status: model.StatusFail},
	}

	manifest := model.ForkManifest{
		Name: "Glamsterdam",
		EIPs: []model.EIPMetadata{
			{Number: "7928", Title: "Block-Level Access Lists"},
			{Number: "7732", Title: "ePBS"},
		},
	}
	roster := []model.Client{
		{ID: "geth", Name: "Geth", Version: "1.16.4"},
		{ID: "reth", Name: "Reth", Version: "1.8.2"},
		{ID: "besu", Name: "Besu", Version: model.UnknownVersion},
	}
	docs := map[string]model.TestResults{
		"7928": {Tests: []model.Test{
			{ID: "test_a", Variants: []model.TestVariant{{
				Parameters: []string{"fork_Amsterdam"},
				Results:    map[string][]model.Result{"geth": pass, "reth": fail},
			}}},
			{ID: "test_b", Variants: []model.TestVariant{{
				Parameters: []string{},
				Results:    map[string][]model.Result{"geth": pass, "reth": pass},
			}}},
		}},
	}
	load := func(eip string) (model.TestResults, error) {
		doc, ok := docs[eip]
		if !ok {
			return model.TestResults{}, fmt.Errorf("%w: %s", results.ErrNotFound, eip)
		}
		return doc, nil
	}

	eips, clients, err := summarizeFork(manifest, roster, load)
	require.NoError(t, err)
	require.Equal(t, []eipSummary{
		{Number: "7928", Title: "Block-Level Access Lists", Tests: 2, Variants: 2, Failing: 1, Progress: 75},
		{Number: "7732", Title: "ePBS", Missing: true},
	}, eips)
	require.Equal(t, []clientSummary{
		{Name: "Geth", Version: "1.16.4", Passed: 2, Total: 2},
		{Name: "Reth", Version: "1.8.2", Passed: 1, Total: 2},
	}, clients)

	var buf bytes.Buffer
	renderForkSummary(&buf, eips)
	require.Contains(t, buf.String(), "75%")
	require.Contains(t, buf.String(), "no results")
}

func TestSummarizeForkLoadError(t *testing.T) {
	manifest := model.ForkManifest{EIPs: []model.EIPMetadata{{Number: "7928"}}}
	_, _, err := summarizeFork(manifest, nil, func(string) (model.TestResults, error) {
		return model.TestResults{}, errors.New("permission denied")
	})
	require.ErrorContains(t, err, "EIP-7928")
}

func TestPrintIngestReport(t *testing.T) {
	var buf bytes.Buffer
	printIngestReport(&buf, &ingest.Report{
		EIP:        "7928",
		Simulation: model.SimulationEngine,
		TestCases:  3,
		Skipped:    1,
		Merge:      results.MergeReport{Updated: []string{"test_a"}, NewVariants: 2},
		Clients: []results.ClientSummary{
			{Client: "geth", Passed: 2},
			{Client: "reth", Passed: 1, Failed: 1},
		},
	})

	out := buf.String()
	require.Contains(t, out, "EIP-7928 consume-engine: 3 test cases, 1 skipped, 1 tests updated, 0 unknown tests")
	require.Contains(t, out, "New variants: 2")
	require.Contains(t, out, "Results summary by client")
	require.Contains(t, out, "reth")

	buf.Reset()
	printIngestReport(&buf, &ingest.Report{EIP: "7928", Simulation: model.SimulationRLP})
	require.Contains(t, buf.String(), "No results recorded")
}
