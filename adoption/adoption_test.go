package adoption

import (
	"errors"
	"testing"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func results(pairs ...any) []model.Result {
	var out []model.Result
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, model.Result{
			Simulation: pairs[i].(model.Simulation),
			Status:     pairs[i+1].(model.Status),
		})
	}
	return out
}

const (
	rlp = model.SimulationRLP
	eng = model.SimulationEngine
)

func TestClassifyVariant(t *testing.T) {
	tests := []struct {
		name    string
		results []model.Result
		want    Outcome
	}{
		{
			name: "absent",
			want: Pending,
		},
		{
			name:    "both pass",
			results: results(rlp, model.StatusPass, eng, model.StatusPass),
			want:    Passed,
		},
		{
			name:    "rlp pass engine absent",
			results: results(rlp, model.StatusPass),
			want:    Pending,
		},
		{
			name:    "rlp pass engine pending",
			results: results(rlp, model.StatusPass, eng, model.StatusPending),
			want:    Pending,
		},
		{
			name:    "one fail",
			results: results(rlp, model.StatusPass, eng, model.StatusFail),
			want:    Failed,
		},
		{
			name:    "fail only",
			results: results(eng, model.StatusFail),
			want:    Failed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variant := model.TestVariant{Results: map[string][]model.Result{}}
			if tt.results != nil {
				variant.Results["c"] = tt.results
			}
			require.Equal(t, tt.want, ClassifyVariant(variant, "c"))
		})
	}
}

func TestOverallStatsArithmetic(t *testing.T) {
	tests := []model.Test{{
		ID: "test_foo",
		Variants: []model.TestVariant{{
			Parameters: []string{"fork_Amsterdam"},
			Results: map[string][]model.Result{
				"a": results(rlp, model.StatusPass, eng, model.StatusPass),
				"b": results(rlp, model.StatusPass, eng, model.StatusFail),
			},
		}},
	}}
	clients := []model.Client{{ID: "a"}, {ID: "b"}}

	stats := OverallStats(tests, clients)

	require.Equal(t, ClientStats{ClientID: "a", Passed: 1, Total: 1, PassRate: 100}, stats.Clients[0])
	require.Equal(t, ClientStats{ClientID: "b", Failed: 1, Total: 1, PassRate: 0}, stats.Clients[1])
	require.InDelta(t, 50.0, stats.OverallPassRate, 1e-9)

	adoption := BuildEIPAdoption("7928", "https://eips.ethereum.org/EIPS/eip-7928", model.TestResults{Tests: tests}, clients)
	require.Equal(t, 50.0, adoption.Summary.OverallScore)
	require.Equal(t, 2, adoption.Summary.ActiveClients)
}

func TestOverallStatsPlaceholderTests(t *testing.T) {
	tests := []model.Test{
		{ID: "test_without_variants"},
		{ID: "test_foo", Variants: []model.TestVariant{
			{Results: map[string][]model.Result{"a": results(rlp, model.StatusPass, eng, model.StatusPass)}},
			{Results: map[string][]model.Result{}},
		}},
	}

	stats := OverallStats(tests, []model.Client{{ID: "a"}})

	require.Equal(t, 2, stats.TotalTests)
	require.Equal(t, 2, stats.TotalVariants)
	require.Equal(t, 3, stats.Clients[0].Total)
	require.Equal(t, 1, stats.Clients[0].Passed)
	require.Equal(t, 2, stats.Clients[0].Pending)
	require.InDelta(t, 100.0/3, stats.Clients[0].PassRate, 1e-9)
}

func TestOverallStatsEmpty(t *testing.T) {
	stats := OverallStats(nil, []model.Client{{ID: "a"}})
	require.Zero(t, stats.OverallPassRate)
	require.Zero(t, stats.Clients[0].PassRate)
}

func TestIsTestFailing(t *testing.T) {
	clients := []model.Client{{ID: "a"}, {ID: "b"}}

	passing := model.Test{Variants: []model.TestVariant{
		{Results: map[string][]model.Result{"a": results(rlp, model.StatusPass, eng, model.StatusPass)}},
		{Results: map[string][]model.Result{"b": results(rlp, model.StatusPass)}},
	}}
	require.False(t, IsTestFailing(passing, clients))

	failing := model.Test{Variants: []model.TestVariant{
		{Results: map[string][]model.Result{"a": results(rlp, model.StatusPass)}},
		{Results: map[string][]model.Result{"b": results(eng, model.StatusFail)}},
	}}
	require.True(t, IsTestFailing(failing, clients))

	pendingOnly := model.Test{Variants: []model.TestVariant{
		{Results: map[string][]model.Result{"a": results(rlp, model.StatusPending)}},
	}}
	require.False(t, IsTestFailing(pendingOnly, clients), "a pending result is the same as no result")

	absent := model.Test{Variants: []model.TestVariant{{Results: map[string][]model.Result{}}}}
	require.Equal(t, IsTestFailing(absent, clients), IsTestFailing(pendingOnly, clients))

	require.False(t, IsTestFailing(model.Test{}, clients))
}

func TestVariantCountsAndProgress(t *testing.T) {
	test := model.Test{Variants: []model.TestVariant{
		{Results: map[string][]model.Result{"a": results(rlp, model.StatusPass, eng, model.StatusPass)}},
		{Results: map[string][]model.Result{"a": results(rlp, model.StatusFail)}},
		{Results: map[string][]model.Result{}},
	}}

	require.Equal(t, VariantCounts{Passed: 1, Total: 2}, VariantCountsForSimulation(test, "a", rlp))
	require.Equal(t, VariantCounts{Passed: 1, Total: 1}, VariantCountsForSimulation(test, "a", eng))
	require.Equal(t, VariantCounts{Passed: 1, Total: 4}, ClientOverallProgress([]model.Test{test, {}}, "a"))

	test.Variants = append(test.Variants, model.TestVariant{
		Results: map[string][]model.Result{"a": results(rlp, model.StatusPending, eng, model.StatusPending)},
	})
	require.Equal(t, VariantCounts{Passed: 1, Total: 2}, VariantCountsForSimulation(test, "a", rlp))
	require.Equal(t, VariantCounts{Passed: 1, Total: 1}, VariantCountsForSimulation(test, "a", eng))
}

type fakeLoader map[string]model.TestResults

func (f fakeLoader) LoadResults(_, eip string) (model.TestResults, error) {
	doc, ok := f[eip]
	if !ok {
		return model.TestResults{}, errors.New("not found")
	}
	return doc, nil
}

func TestBuildForkAdoption(t *testing.T) {
	clients := []model.Client{{ID: "a", Name: "Client A", Version: "1.0"}}
	manifest := model.ForkManifest{
		Name:        "Glamsterdam",
		Description: "next fork",
		EIPs: []model.EIPMetadata{
			{Number: "7928", Spec: "spec-7928"},
			{Number: "7732", Spec: "spec-7732"},
		},
	}
	loader := fakeLoader{
		"7928": {LastUpdated: "now", Tests: []model.Test{
			{Variants: []model.TestVariant{
				{Results: map[string][]model.Result{"a": results(rlp, model.StatusPass, eng, model.StatusPass)}},
				{Results: map[string][]model.Result{"a": results(rlp, model.StatusFail)}},
			}},
		}},
	}

	fork := BuildForkAdoption(zerolog.Nop(), "glamsterdam", manifest, loader, clients)

	require.Equal(t, "Glamsterdam", fork.Name)
	require.Equal(t, 2, fork.Summary.TotalEIPs)
	require.Len(t, fork.EIPs, 2)

	require.Equal(t, 50.0, fork.EIPs[0].Summary.OverallScore)
	require.Equal(t, "spec-7928", fork.EIPs[0].Spec)
	require.Equal(t, model.ClientAdoption{
		Name:    "Client A",
		Version: "1.0",
		Result:  model.ClientAdoptionResult{Passed: 1, Failed: 1, Total: 2, Score: 50},
	}, fork.EIPs[0].Clients[0])

	require.Equal(t, model.AdoptionSummary{}, fork.EIPs[1].Summary)
	require.Empty(t, fork.EIPs[1].Clients)

	// missing EIP counts as zero
	require.Equal(t, 25.0, fork.Summary.AverageScore)
}

func TestEIPProgress(t *testing.T) {
	doc := model.TestResults{Tests: []model.Test{{Variants: []model.TestVariant{
		{Results: map[string][]model.Result{
			"a": results(rlp, model.StatusPass, eng, model.StatusPass),
			"b": results(rlp, model.StatusFail),
		}},
		{Results: map[string][]model.Result{
			"a": results(rlp, model.StatusPass, eng, model.StatusPass),
		}},
		{Results: map[string][]model.Result{}},
	}}}}
	clients := []model.Client{
		{ID: "a", Version: "1.0"},
		{ID: "b", Version: model.UnknownVersion},
	}

	require.Equal(t, 67, EIPProgress(doc, clients))
	require.Equal(t, 0, EIPProgress(doc, nil))
}

func TestForkProgress(t *testing.T) {
	require.Equal(t, 0, ForkProgress(nil))
	require.Equal(t, 0, ForkProgress([]int{0, 0}))
	require.Equal(t, 55, ForkProgress([]int{40, 0, 69}))
}

func TestRound1(t *testing.T) {
	require.Equal(t, 33.3, round1(100.0/3))
	require.Equal(t, 66.7, round1(200.0/3))
	require.Equal(t, 0.0, round1(0))
	require.Equal(t, 100.0, round1(100))
}
