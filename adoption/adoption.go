// Package adoption derives client adoption statistics from results documents.
package adoption

import (
	"math"

	"github.com/balboard/balboard/model"
)

// Outcome classifies one variant for one client.
type Outcome int

const (
	Pending Outcome = iota
	Passed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// ClassifyVariant returns Passed when every simulation passed for the
// client, Failed when any simulation failed and Pending otherwise. A missing
// result and an explicit pending result are equivalent.
func ClassifyVariant(variant model.TestVariant, clientID string) Outcome {
	allPassed := true
	for _, sim := range model.Simulations() {
		result, ok := variant.ResultFor(clientID, sim)
		if !ok || result.Status != model.StatusPass {
			allPassed = false
			break
		}
	}
	if allPassed {
		return Passed
	}
	for _, result := range variant.Results[clientID] {
		if result.Status == model.StatusFail {
			return Failed
		}
	}
	return Pending
}

// ClientStats are the totals of one client across a document.
type ClientStats struct {
	ClientID string
	Passed   int
	Failed   int
	Pending  int
	Total    int
	PassRate float64
}

// Stats are the totals of a document across a client roster.
type Stats struct {
	TotalClients  int
	TotalTests    int
	TotalVariants int
	// OverallPassRate is total passed over total possible, unrounded
	OverallPassRate float64
	Clients         []ClientStats
}

// ClientTotals counts the client's outcomes. A test without variants counts
// as one pending unit.
func ClientTotals(tests []model.Test, clientID string) ClientStats {
	stats := ClientStats{ClientID: clientID}
	for _, test := range tests {
		if len(test.Variants) == 0 {
			stats.Total++
			stats.Pending++
			continue
		}
		for _, variant := range test.Variants {
			stats.Total++
			switch ClassifyVariant(variant, clientID) {
			case Passed:
				stats.Passed++
			case Failed:
				stats.Failed++
			default:
				stats.Pending++
			}
		}
	}
	stats.PassRate = percent(stats.Passed, stats.Total)
	return stats
}

// OverallStats computes per-client totals and the overall pass rate.
func OverallStats(tests []model.Test, clients []model.Client) Stats {
	stats := Stats{
		TotalClients: len(clients),
		TotalTests:   len(tests),
		Clients:      make([]ClientStats, 0, len(clients)),
	}
	for _, test := range tests {
		stats.TotalVariants += len(test.Variants)
	}

	var passed, total int
	for _, client := range clients {
		cs := ClientTotals(tests, client.ID)
		passed += cs.Passed
		total += cs.Total
		stats.Clients = append(stats.Clients, cs)
	}
	stats.OverallPassRate = percent(passed, total)
	return stats
}

// VariantCounts counts, for one client and simulation, the variants that
// have a result and how many of those passed.
type VariantCounts struct {
	Passed int
	Total  int
}

// VariantCountsForSimulation counts the test's variants with a result for
// the client and simulation. A pending result counts as no result.
func VariantCountsForSimulation(test model.Test, clientID string, sim model.Simulation) VariantCounts {
	var counts VariantCounts
	for _, variant := range test.Variants {
		result, ok := variant.ResultFor(clientID, sim)
		if !ok || result.Status == model.StatusPending {
			continue
		}
		counts.Total++
		if result.Status == model.StatusPass {
			counts.Passed++
		}
	}
	return counts
}

// IsTestFailing reports whether any client has a simulation where fewer
// variants passed than have a result.
func IsTestFailing(test model.Test, clients []model.Client) bool {
	for _, client := range clients {
		for _, sim := range model.Simulations() {
			counts := VariantCountsForSimulation(test, client.ID, sim)
			if counts.Total > 0 && counts.Passed < counts.Total {
				return true
			}
		}
	}
	return false
}

// ClientOverallProgress counts the variants the client passed in every
// simulation against all variants, counting a test without variants once.
func ClientOverallProgress(tests []model.Test, clientID string) VariantCounts {
	var counts VariantCounts
	for _, test := range tests {
		if len(test.Variants) == 0 {
			counts.Total++
			continue
		}
		for _, variant := range test.Variants {
			counts.Total++
			if ClassifyVariant(variant, clientID) == Passed {
				counts.Passed++
			}
		}
	}
	return counts
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// round1 rounds half up to one decimal place.
func round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
