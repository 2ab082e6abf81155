package history

// This file contains shared history utilities for loading and parsing
// recorded hive invocations.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/balboard/balboard/jsonfile"
	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
)

// FileName is the name of the record written into every run directory.
const FileName = "history.json"

type Entry struct {
	History  model.History
	FullPath string
}

// GetRoot returns the history directory, failing when nothing was recorded yet.
func GetRoot(dir string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve history directory: %w", err)
	}

	// Check if history directory exists
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return "", fmt.Errorf("no hive runs found in %s", root)
	}

	return root, nil
}

// LoadEntries loads all history entries below root, newest first.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			historyPath := filepath.Join(path, FileName)
			if _, err := os.Stat(historyPath); err == nil {
				history, err := parseHistoryJSON(historyPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", historyPath).Msg("Failed to parse history.json")
					return nil
				}

				entries = append(entries, Entry{
					History:  history,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].History.Timestamp.After(entries[j].History.Timestamp)
	})

	return entries, nil
}

// Write stores h as history.json inside runDir.
func Write(runDir string, h *model.History) error {
	if err := jsonfile.Write(filepath.Join(runDir, FileName), h); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// parseHistoryJSON parses a history.json file.
func parseHistoryJSON(historyPath string) (model.History, error) {
	var history model.History
	if err := jsonfile.Read(historyPath, &history); err != nil {
		return model.History{}, err
	}
	return history, nil
}
