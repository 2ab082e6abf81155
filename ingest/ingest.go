// Package ingest absorbs hive exports into the per-EIP results documents.
package ingest

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/balboard/balboard/clients"
	"github.com/balboard/balboard/dataset"
	"github.com/balboard/balboard/hive"
	"github.com/balboard/balboard/model"
	"github.com/balboard/balboard/results"
	"github.com/rs/zerolog"
)

// Ingester merges exports found below a hive output directory.
type Ingester struct {
	logger    zerolog.Logger
	layout    *dataset.Layout
	outputDir string
	// Now returns the merge timestamp
	Now func() time.Time
}

// New creates an Ingester reading exports from outputDir.
func New(logger zerolog.Logger, layout *dataset.Layout, outputDir string) *Ingester {
	return &Ingester{
		logger:    logger,
		layout:    layout,
		outputDir: outputDir,
		Now:       time.Now,
	}
}

// ExportDir returns where hive writes the export of one simulation run.
func ExportDir(outputDir string, sim model.Simulation, eip string) string {
	return filepath.Join(outputDir, string(sim), eip)
}

// Report summarizes one ingest.
type Report struct {
	Fork       string
	EIP        string
	Simulation model.Simulation
	ExportPath string
	Suite      string
	TestCases  int
	Skipped    int
	Merge      results.MergeReport
	// Clients holds the pass and fail counts of the simulation after the merge
	Clients []results.ClientSummary
}

// Ingest locates the export for (sim, eip), updates the client roster with
// the reported versions and merges the outcomes into the EIP's results
// document. A missing export or results document is an error.
func (in *Ingester) Ingest(sim model.Simulation, fork, eip string) (*Report, error) {
	logger := in.logger.With().Str("eip", eip).Str("simulation", string(sim)).Logger()

	exportPath, err := hive.FindResultsFile(ExportDir(in.outputDir, sim, eip))
	if err != nil {
		return nil, err
	}
	logger.Info().Str("file", filepath.Base(exportPath)).Msg("Found hive results")

	export, err := hive.LoadExport(exportPath)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("suite", export.Name).
		Str("description", export.Description).
		Str("hive_commit", export.HiveCommit).
		Msg("Loaded hive export")

	resultsPath := in.layout.ResultsPath(fork, eip)

	var report *Report
	err = results.Update(resultsPath, func(doc model.TestResults) (model.TestResults, error) {
		logger.Info().Str("spec", doc.Spec).Msg("Current test spec")

		roster, err := clients.UpdateVersions(logger, in.layout.RosterPath(), in.layout.BuildConfigPath(), export.ClientVersions)
		if err != nil {
			return doc, fmt.Errorf("failed to update client versions: %w", err)
		}

		decoder := hive.NewDecoder(hive.NewClientMap(roster))
		grouped := results.Aggregate(logger, decoder, export.TestCases)
		merged, mergeReport := results.Merge(logger, doc, grouped, in.Now())

		report = &Report{
			Fork:       fork,
			EIP:        eip,
			Simulation: sim,
			ExportPath: exportPath,
			Suite:      export.Name,
			TestCases:  len(export.TestCases),
			Skipped:    grouped.Skipped,
			Merge:      mergeReport,
			Clients:    results.SummarizeSimulation(merged, sim),
		}
		return merged, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ingest %s results for EIP-%s: %w", sim, eip, err)
	}

	total := 0
	for _, c := range report.Clients {
		total += c.Total()
	}
	logger.Info().
		Int("updated_tests", len(report.Merge.Updated)).
		Int("missing_tests", len(report.Merge.Missing)).
		Int("results", total).
		Msg("Updated test results")

	return report, nil
}
