package cli

// This file contains the summary command and the tables printed after
// ingesting an export.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/balboard/balboard/adoption"
	"github.com/balboard/balboard/ingest"
	"github.com/balboard/balboard/model"
	"github.com/balboard/balboard/results"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

type eipSummary struct {
	Number   string
	Title    string
	Tests    int
	Variants int
	Failing  int
	Progress int
	// Missing is set when the EIP has no results document yet
	Missing bool
}

type clientSummary struct {
	Name    string
	Version string
	Passed  int
	Total   int
}

func (a *App) summary(ctx *cli.Context) error {
	fork := a.forkArg(ctx)
	layout := a.layout()

	manifest, err := layout.LoadFork(fork)
	if err != nil {
		return err
	}
	roster, err := layout.LoadClients()
	if err != nil {
		return err
	}

	eips, clients, err := summarizeFork(manifest, roster, func(eip string) (model.TestResults, error) {
		return layout.LoadResults(fork, eip)
	})
	if err != nil {
		return err
	}

	name := manifest.Name
	if name == "" {
		name = fork
	}
	fmt.Printf("\n=== %s ===\n\n", name)
	renderForkSummary(os.Stdout, eips)
	fmt.Println()
	renderClientSummary(os.Stdout, clients)
	return nil
}

// summarizeFork computes progress per EIP and the per-client pass counts
// across all EIPs. Clients without a reported version are left out of both.
func summarizeFork(manifest model.ForkManifest, roster []model.Client, load func(eip string) (model.TestResults, error)) ([]eipSummary, []clientSummary, error) {
	var active []model.Client
	for _, c := range roster {
		if c.Active() {
			active = append(active, c)
		}
	}

	clients := make([]clientSummary, len(active))
	for i, c := range active {
		clients[i] = clientSummary{Name: c.Name, Version: c.Version}
	}

	var eips []eipSummary
	for _, meta := range manifest.EIPs {
		row := eipSummary{Number: meta.Number, Title: meta.Title}

		doc, err := load(meta.Number)
		if errors.Is(err, results.ErrNotFound) {
			row.Missing = true
			eips = append(eips, row)
			continue
		} else if err != nil {
			return nil, nil, fmt.Errorf("failed to load results for EIP-%s: %w", meta.Number, err)
		}

		row.Tests = len(doc.Tests)
		for _, test := range doc.Tests {
			row.Variants += len(test.Variants)
			if adoption.IsTestFailing(test, active) {
				row.Failing++
			}
		}
		row.Progress = adoption.EIPProgress(doc, roster)
		eips = append(eips, row)

		for i, c := range active {
			counts := adoption.ClientOverallProgress(doc.Tests, c.ID)
			clients[i].Passed += counts.Passed
			clients[i].Total += counts.Total
		}
	}
	return eips, clients, nil
}

func renderForkSummary(w io.Writer, eips []eipSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"EIP", "Title", "Tests", "Variants", "Failing", "Progress"})

	progress := make([]int, 0, len(eips))
	for _, e := range eips {
		if e.Missing {
			t.AppendRow(table.Row{e.Number, e.Title, "-", "-", "-", "no results"})
			continue
		}
		progress = append(progress, e.Progress)
		t.AppendRow(table.Row{e.Number, e.Title, e.Tests, e.Variants, e.Failing, fmt.Sprintf("%d%%", e.Progress)})
	}
	t.AppendFooter(table.Row{"", "Fork", "", "", "", fmt.Sprintf("%d%%", adoption.ForkProgress(progress))})
	t.Render()
}

func renderClientSummary(w io.Writer, clients []clientSummary) {
	if len(clients) == 0 {
		fmt.Fprintln(w, "No client has reported a version yet")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Client", "Version", "Passed", "Total", "Progress"})
	for _, c := range clients {
		pct := 0
		if c.Total > 0 {
			pct = c.Passed * 100 / c.Total
		}
		t.AppendRow(table.Row{c.Name, c.Version, c.Passed, c.Total, fmt.Sprintf("%d%%", pct)})
	}
	t.Render()
}

// printIngestReport prints the per-client outcome of one ingested simulation.
func printIngestReport(w io.Writer, report *ingest.Report) {
	fmt.Fprintf(w, "\nEIP-%s %s: %d test cases, %d skipped, %d tests updated, %d unknown tests\n",
		report.EIP, report.Simulation, report.TestCases, report.Skipped, len(report.Merge.Updated), len(report.Merge.Missing))
	if report.Merge.NewVariants > 0 {
		fmt.Fprintf(w, "New variants: %d\n", report.Merge.NewVariants)
	}

	if len(report.Clients) == 0 {
		fmt.Fprintln(w, "No results recorded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Results summary by client")
	t.AppendHeader(table.Row{"Client", "Passed", "Failed", "Total"})
	var passed, failed int
	for _, c := range report.Clients {
		passed += c.Passed
		failed += c.Failed
		t.AppendRow(table.Row{c.Client, c.Passed, c.Failed, c.Total()})
	}
	t.AppendFooter(table.Row{"Total", passed, failed, passed + failed})
	t.Render()
}
