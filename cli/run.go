package cli

// This file contains the run and parse commands, which drive hive and feed
// its exports into the results documents.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/balboard/balboard/dataset"
	"github.com/balboard/balboard/hive"
	"github.com/balboard/balboard/ingest"
	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func (a *App) run(ctx *cli.Context) error {
	return a.runFork(ctx.Context, a.forkArg(ctx), ctx.String("eip"), a.keepGoing(ctx))
}

// runFork runs hive for the testable EIPs of fork, or only for the EIP
// numbered only when set.
func (a *App) runFork(ctx context.Context, fork, only string, keepGoing bool) error {
	logger := a.logger.With().Str("fork", fork).Logger()
	logger.Info().Msg("Starting hive integration test runner")

	eips, err := a.layout().TestableEIPs(logger, fork)
	if err != nil {
		return err
	}
	if only != "" {
		eips = filterEIPs(eips, only)
	}
	if len(eips) == 0 {
		logger.Warn().Msg("No testable EIPs found")
		return nil
	}
	logger.Info().Int("count", len(eips)).Msg("Found testable EIPs")

	runner := hive.NewRunner(a.logger, a.cfg.Hive.RepoPath, a.cfg.Hive.OutputTail)
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		runner.Output = os.Stderr
	}
	if err := runner.Verify(ctx); err != nil {
		return err
	}

	// hive runs inside its checkout, so every path handed to it is absolute
	outputDir, err := filepath.Abs(a.cfg.Hive.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := resetDir(outputDir); err != nil {
		return err
	}
	logger.Info().Str("dir", outputDir).Msg("Cleared hive results directory")

	ingester := ingest.New(a.logger, a.layout(), outputDir)
	err = a.eachEIP(logger, eips, keepGoing, func(eip dataset.TestableEIP) error {
		return a.runEIP(ctx, runner, ingester, outputDir, eip)
	})
	if err != nil {
		return err
	}
	logger.Info().Msg("Integration test runner completed successfully")
	return nil
}

// keepGoing reports whether a failing EIP should not stop a batch.
func (a *App) keepGoing(ctx *cli.Context) bool {
	return ctx.Bool("keep-going") || a.cfg.ContinueOnError()
}

// eachEIP calls fn for every EIP in order. Without keepGoing the first
// error stops the batch; otherwise errors are logged and returned joined
// once every EIP was processed.
func (a *App) eachEIP(logger zerolog.Logger, eips []dataset.TestableEIP, keepGoing bool, fn func(dataset.TestableEIP) error) error {
	var errs []error
	for _, eip := range eips {
		if err := fn(eip); err != nil {
			err = fmt.Errorf("EIP-%s: %w", eip.Number, err)
			if !keepGoing {
				return err
			}
			logger.Error().Err(err).Msg("Failed to process EIP, continuing")
			errs = append(errs, err)
			continue
		}
		logger.Info().Str("eip", eip.Number).Msg("Completed EIP")
	}
	return errors.Join(errs...)
}

// runEIP runs every simulation of one EIP and ingests each export before the
// next simulation starts. A failing hive run is not an error on its own; a
// missing or unreadable export is.
func (a *App) runEIP(ctx context.Context, runner *hive.Runner, ingester *ingest.Ingester, outputDir string, eip dataset.TestableEIP) error {
	logger := a.logger.With().Str("eip", eip.Number).Logger()
	logger.Info().Str("title", eip.Metadata.Title).Msg("Processing EIP")

	clientFile, err := filepath.Abs(eip.ClientsPath)
	if err != nil {
		return fmt.Errorf("failed to resolve client file: %w", err)
	}

	for _, sim := range model.Simulations() {
		if err := ctx.Err(); err != nil {
			return err
		}

		resultsRoot := ingest.ExportDir(outputDir, sim, eip.Number)
		if err := os.MkdirAll(resultsRoot, 0755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}

		inv := runner.Run(ctx, hive.CommandOptions{
			Simulation:  sim,
			ClientFile:  clientFile,
			Fixtures:    eip.Metadata.Hive.BuildArgs.Fixtures,
			Branch:      eip.Metadata.Hive.BuildArgs.Branch,
			ResultsRoot: resultsRoot,
			Limit:       eip.Metadata.Hive.TestFilter,
			Parallelism: a.cfg.Hive.Parallelism,
		})
		a.recordInvocation(runner.RepoPath(), eip, sim, resultsRoot, inv)

		report, err := ingester.Ingest(sim, eip.Fork, eip.Number)
		if err != nil {
			return err
		}
		printIngestReport(os.Stdout, report)
		logger.Info().Str("simulation", string(sim)).Msg("Completed simulation")
	}
	return nil
}

func (a *App) parse(ctx *cli.Context) error {
	fork := a.forkArg(ctx)
	eip := ctx.String("eip")
	sim := model.Simulation(ctx.String("simulation"))
	if !sim.Valid() {
		return fmt.Errorf("invalid simulation %q: must be %s or %s", sim, model.SimulationRLP, model.SimulationEngine)
	}

	layout := a.layout()
	if _, err := layout.EIP(fork, eip); err != nil {
		return err
	}

	report, err := ingest.New(a.logger, layout, a.cfg.Hive.OutputDir).Ingest(sim, fork, eip)
	if err != nil {
		return err
	}
	printIngestReport(os.Stdout, report)
	return nil
}

func filterEIPs(eips []dataset.TestableEIP, number string) []dataset.TestableEIP {
	var out []dataset.TestableEIP
	for _, eip := range eips {
		if eip.Number == number {
			out = append(out, eip)
		}
	}
	return out
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}
