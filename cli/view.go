package cli

// This file contains the view command for displaying hive invocations from history.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/balboard/balboard/history"
	"github.com/balboard/balboard/model"
	"github.com/urfave/cli/v2"
)

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

func parseViewArgs(in []string) (idArg string, patterns []string) {
	if len(in) == 0 {
		return "0", nil
	}

	// If first arg is "--", use default "0" and rest are patterns
	if in[0] == "--" {
		return "0", in[1:]
	}

	// A negative index is "-" followed by only digits (e.g., "-1", "-2").
	// Anything else starting with "-" is a pattern.
	if len(in[0]) > 1 && in[0][0] == '-' {
		if _, err := strconv.ParseInt(in[0], 10, 64); err != nil {
			return "0", in
		}
	}

	// First arg is the ID/index, rest are patterns (with optional "--" removed)
	return in[0], removeFirstDashDash(in[1:])
}

// findEntry resolves arg against entries sorted newest first. arg is either
// an index (0 for the last entry, -1 for the one before, ...) or an ID prefix.
func findEntry(entries []history.Entry, arg string) (*history.Entry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no history entries found")
	}

	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return nil, fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return nil, fmt.Errorf("index %s out of range (only %d history entries)", arg, len(entries))
		}
		return &entries[index], nil
	}

	hexID := strings.ToLower(arg)
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].History.ID), hexID) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no history entry found matching ID: %s", arg)
}

func (a *App) view(ctx *cli.Context) error {
	arg, patterns := parseViewArgs(ctx.Args().Slice())

	root, err := history.GetRoot(a.cfg.Hive.HistoryDir)
	if err != nil {
		return err
	}

	historyEntries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entry, err := findEntry(historyEntries, arg)
	if err != nil {
		return err
	}
	return displayHistoryEntry(os.Stdout, entry, patterns)
}

func displayHistoryEntry(w io.Writer, entry *history.Entry, patterns []string) error {
	h := entry.History

	// Print header
	fmt.Fprintf(w, "=== Hive Run: %s ===\n", shortID(h.ID))
	fmt.Fprintf(w, "Time: %s\n", h.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration: %s\n", h.Duration)
	fmt.Fprintf(w, "Fork: %s  EIP: %s  Simulation: %s\n", h.Fork, h.EIP, h.Simulation)
	fmt.Fprintf(w, "Exit Code: %d\n", h.ExitCode)
	if h.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", h.Error)
	}
	if h.HiveRevision != "" {
		fmt.Fprintf(w, "Hive Commit: %s\n", shortID(h.HiveRevision))
	}
	fmt.Fprintf(w, "Command: %s\n", h.Command)
	if h.WorkDir != "" {
		fmt.Fprintf(w, "Working Dir: %s\n", h.WorkDir)
	}
	fmt.Fprintln(w)

	for _, artifact := range h.Artifacts {
		if artifact.Type == model.ArtifactTypeExport {
			fmt.Fprintf(w, "Export: %s\n", filepath.Join(entry.FullPath, artifact.File))
		}
	}
	for _, artifact := range h.Artifacts {
		if artifact.Type == model.ArtifactTypeOutputTail {
			return displayOutput(w, entry.FullPath, artifact, patterns)
		}
	}

	fmt.Fprintln(w, "No output captured")
	fmt.Fprintf(w, "History directory: %s\n", entry.FullPath)
	return nil
}

func displayOutput(w io.Writer, runDir string, artifact model.Artifact, patterns []string) error {
	outputPath := filepath.Join(runDir, artifact.File)
	fmt.Fprintf(w, "Hive Output (tail): %s\n", outputPath)
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return fmt.Errorf("failed to read output: %w", err)
	}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if matchesAny(line, patterns) {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

func matchesAny(line string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if strings.Contains(line, p) {
			return true
		}
	}
	return false
}
