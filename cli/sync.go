package cli

// This file contains the sync command, which refreshes the test catalogs
// from the test case tables published next to each EIP.

import (
	"context"
	"fmt"
	"time"

	"github.com/balboard/balboard/dataset"
	"github.com/balboard/balboard/model"
	"github.com/balboard/balboard/results"
	"github.com/balboard/balboard/testcases"
	"github.com/urfave/cli/v2"
)

func (a *App) sync(ctx *cli.Context) error {
	return a.syncFork(ctx.Context, a.forkArg(ctx), ctx.String("eip"), a.keepGoing(ctx))
}

// syncFork refreshes the catalogs of the testable EIPs of fork, or only of
// the EIP numbered only when set.
func (a *App) syncFork(ctx context.Context, fork, only string, keepGoing bool) error {
	logger := a.logger.With().Str("fork", fork).Logger()
	logger.Info().Msg("Syncing test cases")

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

	fetcher := testcases.NewFetcher(a.cfg.Fetch.Timeout)
	err = a.eachEIP(logger, eips, keepGoing, func(eip dataset.TestableEIP) error {
		if err := a.syncEIP(ctx, fetcher, eip); err != nil {
			return fmt.Errorf("failed to sync: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().Int("eips", len(eips)).Msg("All test cases synced")
	return nil
}

func (a *App) syncEIP(ctx context.Context, fetcher *testcases.Fetcher, eip dataset.TestableEIP) error {
	logger := a.logger.With().Str("eip", eip.Number).Logger()

	if eip.Metadata.TestCases == "" {
		logger.Warn().Msg("No testCases URL, skipping")
		return nil
	}

	logger.Info().Str("url", testcases.RawURL(eip.Metadata.TestCases)).Msg("Fetching test cases")
	content, err := fetcher.Fetch(ctx, eip.Metadata.TestCases)
	if err != nil {
		return err
	}

	parsed, err := testcases.ParseTable(logger, content)
	if err != nil {
		return err
	}
	logger.Info().Int("tests", len(parsed)).Msg("Parsed test cases")

	newDocument := func() model.TestResults {
		logger.Info().Str("path", eip.ResultsPath).Msg("Creating new test results file")
		return model.TestResults{
			Spec: fmt.Sprintf("%s - EIP-%s", eip.Metadata.Title, eip.Number),
		}
	}

	var report testcases.SyncReport
	var synced int
	err = results.Upsert(eip.ResultsPath, newDocument, func(doc model.TestResults) (model.TestResults, error) {
		var merged model.TestResults
		merged, report = testcases.Sync(logger, doc, parsed, time.Now())
		synced = len(merged.Tests)
		return merged, nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int("tests", synced).
		Strs("added", report.Added).
		Strs("dropped", report.Dropped).
		Msg("Test cases synced")
	return nil
}
