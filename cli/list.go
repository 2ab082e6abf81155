package cli

// This file contains the list command for displaying previous hive invocations.

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/balboard/balboard/history"
	"github.com/balboard/balboard/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	filterEIP := ctx.String("eip")
	limit := ctx.Int("limit")

	root, err := history.GetRoot(a.cfg.Hive.HistoryDir)
	if err != nil {
		return err
	}

	// Entries come back newest first
	historyEntries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	filteredEntries := filterHistory(historyEntries, filterEIP)
	if len(filteredEntries) == 0 {
		if filterEIP != "" {
			fmt.Printf("No history entries found for EIP-%s\n", filterEIP)
		} else {
			fmt.Println("No history entries found")
		}
		return nil
	}

	// Apply limit
	displayRuns := filteredEntries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== History (%d total) ===\n\n", len(filteredEntries))
	renderHistory(os.Stdout, displayRuns)

	fmt.Println("\nView hive output: balboard view <ID>")
	return nil
}

func filterHistory(entries []history.Entry, eip string) []history.Entry {
	if eip == "" {
		return entries
	}
	var out []history.Entry
	for _, entry := range entries {
		if entry.History.EIP == eip {
			out = append(out, entry)
		}
	}
	return out
}

func renderHistory(w io.Writer, entries []history.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Time", "Duration", "Fork", "EIP", "Simulation", "Exit", "ID", "Artifacts"})

	for _, entry := range entries {
		h := entry.History

		// Determine status indicator
		status := "✓"
		if h.ExitCode != 0 {
			status = "✗"
		}

		var artifacts []string
		for _, artifact := range h.Artifacts {
			artifacts = append(artifacts, fmt.Sprintf("%s (%.1f KB)", artifactName(artifact.Type), float64(artifact.Size)/1024))
		}

		t.AppendRow(table.Row{
			status,
			h.Timestamp.Format("2006-01-02 15:04:05"),
			h.Duration.Round(time.Millisecond),
			h.Fork,
			h.EIP,
			h.Simulation.Label(),
			h.ExitCode,
			shortID(h.ID),
			strings.Join(artifacts, ", "),
		})
	}
	t.Render()
}

func artifactName(t model.ArtifactType) string {
	switch t {
	case model.ArtifactTypeOutputTail:
		return "output"
	case model.ArtifactTypeExport:
		return "export"
	default:
		return "unknown"
	}
}
