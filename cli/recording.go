package cli

// This file contains hive invocation recording functionality for saving
// invocation metadata and artifacts to the history directory.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/balboard/balboard/dataset"
	"github.com/balboard/balboard/hive"
	"github.com/balboard/balboard/history"
	"github.com/balboard/balboard/model"
	"github.com/google/uuid"
)

const (
	outputTailFile = "output.txt"
	exportFile     = "export.json"
)

// recordInvocation stores inv below the history directory. Failures are
// logged and never fail the run.
func (a *App) recordInvocation(repoPath string, eip dataset.TestableEIP, sim model.Simulation, resultsRoot string, inv *hive.Invocation) {
	h := &model.History{
		ID:         uuid.NewString(),
		Timestamp:  inv.Started,
		Args:       inv.Args,
		Command:    inv.Command,
		WorkDir:    repoPath,
		Fork:       eip.Fork,
		EIP:        eip.Number,
		Simulation: sim,
		ExitCode:   inv.ExitCode,
		Duration:   inv.Duration,
	}
	if inv.Err != nil {
		h.Error = inv.Err.Error()
	}

	revision, err := hiveRevision(repoPath)
	if err != nil {
		a.logger.Debug().Err(err).Msg("Could not determine hive revision")
	}
	h.HiveRevision = revision

	runDir, err := a.writeHistory(h, inv.Output.String(), resultsRoot)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record hive invocation")
		return
	}
	a.logger.Debug().Str("dir", runDir).Str("id", h.ID).Msg("Recorded hive invocation")
}

func (a *App) writeHistory(h *model.History, output, resultsRoot string) (string, error) {
	// Create directory in <history_dir>/<timestamp>-<eip>-<simulation>-<id>
	timestamp := h.Timestamp.Format("20060102-150405")
	runName := fmt.Sprintf("%s-%s-%s-%s", timestamp, h.EIP, h.Simulation.Label(), shortID(h.ID))
	runDir := filepath.Join(a.cfg.Hive.HistoryDir, runName)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(filepath.Join(runDir, outputTailFile), []byte(output), 0644); err != nil {
			return "", fmt.Errorf("failed to write output: %w", err)
		}
		h.Artifacts = append(h.Artifacts, model.Artifact{
			Type: model.ArtifactTypeOutputTail,
			Size: uint64(len(output)),
			File: outputTailFile,
		})
	}

	// Keep a copy of the export so later runs clearing the output directory
	// do not lose it
	if exportPath, err := hive.FindResultsFile(resultsRoot); err == nil {
		size, err := copyFile(exportPath, filepath.Join(runDir, exportFile))
		if err != nil {
			a.logger.Warn().Err(err).Msg("Failed to save hive export")
		} else {
			h.Artifacts = append(h.Artifacts, model.Artifact{
				Type: model.ArtifactTypeExport,
				Size: uint64(size),
				File: exportFile,
			})
		}
	}

	if err := history.Write(runDir, h); err != nil {
		return "", err
	}
	return runDir, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
