// Package testcases extracts the test case catalog from the markdown table
// published alongside each EIP's tests.
package testcases

import (
	"errors"
	"strings"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
)

var (
	// ErrHeaderNotFound is returned when no row carries every required column.
	ErrHeaderNotFound = errors.New("table header with required columns not found")
	// ErrInvalidSeparator is returned when the header is not followed by a separator row.
	ErrInvalidSeparator = errors.New("invalid table separator")
)

// Columns that identify the test case table.
var headerLabels = []string{"Function Name", "Goal", "Setup", "Expectation", "Status"}

const (
	requiredCells = 5
	checkMark     = "✅"
	// stands in for escaped pipes while a row is split
	pipePlaceholder = "\x00"
)

// ParseTable extracts completed test cases from content. Rows are read from
// the line after the separator until the first blank or non-table line.
func ParseTable(logger zerolog.Logger, content string) ([]model.Test, error) {
	lines := strings.Split(content, "\n")

	header := -1
	for i, line := range lines {
		if isHeader(line) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, ErrHeaderNotFound
	}

	separator := header + 1
	if separator >= len(lines) || !strings.Contains(lines[separator], "---") {
		return nil, ErrInvalidSeparator
	}

	tests := []model.Test{}
	for _, raw := range lines[separator+1:] {
		line := strings.TrimSpace(raw)
		if line == "" || !strings.HasPrefix(line, "|") {
			break
		}

		cells := splitRow(line)
		if len(cells) < requiredCells {
			logger.Warn().Str("row", line).Msg("Skipping row with too few cells")
			continue
		}
		if hasEmpty(cells[:requiredCells]) {
			logger.Warn().Str("row", line).Msg("Skipping row with empty cells")
			continue
		}

		status := parseStatus(cells[4])
		if status != model.TestStatusCompleted {
			logger.Debug().Str("test", cells[0]).Msg("Skipping planned test")
			continue
		}

		tests = append(tests, model.Test{
			ID:          strings.ReplaceAll(cells[0], "`", ""),
			Description: cells[1],
			Setup:       cells[2],
			Expectation: cells[3],
			Status:      status,
			Variants:    []model.TestVariant{},
		})
	}

	return tests, nil
}

func isHeader(line string) bool {
	for _, label := range headerLabels {
		if !strings.Contains(line, label) {
			return false
		}
	}
	return true
}

// splitRow splits a table row into trimmed cells, honouring escaped pipes.
// Only the empty cells produced by the border pipes are dropped.
func splitRow(line string) []string {
	line = strings.ReplaceAll(line, `\|`, pipePlaceholder)
	parts := strings.Split(line, "|")

	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(part), pipePlaceholder, "|")
	}

	if len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	if len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

func hasEmpty(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			return true
		}
	}
	return false
}

func parseStatus(s string) model.TestStatus {
	if strings.Contains(strings.ToLower(s), "completed") || strings.Contains(s, checkMark) {
		return model.TestStatusCompleted
	}
	return model.TestStatusPlanned
}
