package testcases

import (
	"time"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
)

// SyncReport describes how a sync changed the catalog.
type SyncReport struct {
	Added   []string
	Dropped []string
	// DroppedWithResults lists dropped ids that carried recorded variants
	DroppedWithResults []string
}

// Sync replaces the tests of doc with parsed. Text fields come from the
// table; variants are carried over for ids that are still present. Ids
// missing from the table are dropped.
func Sync(logger zerolog.Logger, doc model.TestResults, parsed []model.Test, now time.Time) (model.TestResults, SyncReport) {
	var report SyncReport

	previous := make(map[string]model.Test, len(doc.Tests))
	for _, t := range doc.Tests {
		previous[t.ID] = t
	}

	tests := make([]model.Test, 0, len(parsed))
	seen := make(map[string]bool, len(parsed))
	for _, p := range parsed {
		if seen[p.ID] {
			logger.Warn().Str("test", p.ID).Msg("Duplicate test id in table")
			continue
		}
		seen[p.ID] = true

		t := p.Clone()
		if old, ok := previous[p.ID]; ok {
			t.Variants = old.Clone().Variants
		} else {
			report.Added = append(report.Added, p.ID)
		}
		tests = append(tests, t)
	}

	for _, old := range doc.Tests {
		if seen[old.ID] {
			continue
		}
		report.Dropped = append(report.Dropped, old.ID)
		if len(old.Variants) > 0 {
			report.DroppedWithResults = append(report.DroppedWithResults, old.ID)
		}
	}

	if len(tests) < len(doc.Tests) || len(report.DroppedWithResults) > 0 {
		logger.Warn().
			Int("before", len(doc.Tests)).
			Int("after", len(tests)).
			Strs("dropped", report.Dropped).
			Strs("dropped_with_results", report.DroppedWithResults).
			Msg("Test table lost entries, their results are removed")
	}

	synced := doc.Clone()
	synced.Tests = tests
	synced.LastUpdated = now.UTC().Format(model.TimestampFormat)
	synced.Normalize()
	return synced, report
}
