package results

// merge.go folds grouped hive outcomes into a results document.

import (
	"time"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
)

// MergeReport describes what a merge touched.
type MergeReport struct {
	// Updated lists test ids that received results
	Updated []string
	// Missing lists base tests with no catalog entry; their results were dropped
	Missing []string
	// NewVariants counts variants created by the merge
	NewVariants int
}

// Merge returns a copy of doc with grouped outcomes applied. Catalog entries
// are never created here; base tests missing from doc are logged and
// skipped. Merging the same input twice leaves every status unchanged.
func Merge(logger zerolog.Logger, doc model.TestResults, grouped *Grouped, now time.Time) (model.TestResults, MergeReport) {
	updated := doc.Clone()
	var report MergeReport

	byID := make(map[string]int, len(updated.Tests))
	for i, t := range updated.Tests {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = i
		}
	}

	for _, group := range grouped.Tests {
		idx, ok := byID[group.BaseTest]
		if !ok {
			logger.Warn().Str("test", group.BaseTest).Msg("No matching test found")
			report.Missing = append(report.Missing, group.BaseTest)
			continue
		}

		test := &updated.Tests[idx]
		if test.Variants == nil {
			test.Variants = []model.TestVariant{}
		}

		for _, vg := range group.Variants {
			variant, created := findOrAddVariant(test, vg.Parameters)
			if created {
				report.NewVariants++
			}
			applyResults(variant, vg)
		}

		report.Updated = append(report.Updated, test.ID)
		logger.Info().Str("test", test.ID).Int("variants", len(test.Variants)).Msg("Updated test")
	}

	updated.LastUpdated = now.UTC().Format(model.TimestampFormat)
	return updated, report
}

// findOrAddVariant returns the variant of test whose parameters equal params,
// appending a new one when none matches.
func findOrAddVariant(test *model.Test, params []string) (*model.TestVariant, bool) {
	for i := range test.Variants {
		if parametersEqual(test.Variants[i].Parameters, params) {
			return &test.Variants[i], false
		}
	}
	test.Variants = append(test.Variants, model.TestVariant{
		Parameters: append([]string{}, params...),
		Results:    map[string][]model.Result{},
	})
	return &test.Variants[len(test.Variants)-1], true
}

func applyResults(variant *model.TestVariant, vg *VariantGroup) {
	if variant.Results == nil {
		variant.Results = map[string][]model.Result{}
	}
	for _, client := range vg.Clients {
		sims := vg.Results[client]
		for _, sim := range model.Simulations() {
			passed, ok := sims[sim]
			if !ok {
				continue
			}
			setStatus(variant, client, sim, passed)
		}
	}
}

func setStatus(variant *model.TestVariant, client string, sim model.Simulation, passed bool) {
	status := model.StatusFail
	if passed {
		status = model.StatusPass
	}

	results := variant.Results[client]
	for i := range results {
		if results[i].Simulation == sim {
			results[i].Status = status
			return
		}
	}
	variant.Results[client] = append(results, model.Result{Simulation: sim, Status: status})
}

// parametersEqual compares parameter lists element-wise; nil equals empty.
func parametersEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
