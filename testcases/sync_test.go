package testcases

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/balboard/balboard/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSync(t *testing.T) {
	recorded := []model.TestVariant{{
		Parameters: []string{"fork_Amsterdam"},
		Results: map[string][]model.Result{
			"geth": {{Simulation: model.SimulationRLP, Status: model.StatusPass}},
		},
	}}
	doc := model.TestResults{
		Spec: "Block-Level Access Lists - EIP-7928",
		Tests: []model.Test{
			{ID: "test_kept", Description: "old", Status: model.TestStatusCompleted, Variants: recorded},
			{ID: "test_removed", Description: "gone", Status: model.TestStatusCompleted, Variants: recorded},
			{ID: "test_removed_empty", Status: model.TestStatusCompleted},
		},
	}
	parsed := []model.Test{
		{ID: "test_kept", Description: "new", Status: model.TestStatusCompleted, Variants: []model.TestVariant{}},
		{ID: "test_added", Description: "added", Status: model.TestStatusCompleted, Variants: []model.TestVariant{}},
		{ID: "test_added", Description: "dup", Status: model.TestStatusCompleted, Variants: []model.TestVariant{}},
	}

	now := time.Date(2025, 9, 30, 8, 0, 0, 0, time.UTC)
	synced, report := Sync(zerolog.Nop(), doc, parsed, now)

	require.Equal(t, "Block-Level Access Lists - EIP-7928", synced.Spec)
	require.Equal(t, "2025-09-30T08:00:00.000Z", synced.LastUpdated)
	require.Len(t, synced.Tests, 2)

	require.Equal(t, "test_kept", synced.Tests[0].ID)
	require.Equal(t, "new", synced.Tests[0].Description)
	require.Equal(t, recorded, synced.Tests[0].Variants)

	require.Equal(t, "test_added", synced.Tests[1].ID)
	require.Equal(t, "added", synced.Tests[1].Description)
	require.Equal(t, []model.TestVariant{}, synced.Tests[1].Variants)

	require.Equal(t, []string{"test_added"}, report.Added)
	require.Equal(t, []string{"test_removed", "test_removed_empty"}, report.Dropped)
	require.Equal(t, []string{"test_removed"}, report.DroppedWithResults)

	// input untouched
	require.Equal(t, "old", doc.Tests[0].Description)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cases.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("| Function Name |"))
	}))
	defer srv.Close()

	fetcher := NewFetcher(5 * time.Second)

	body, err := fetcher.Fetch(context.Background(), srv.URL+"/cases.md")
	require.NoError(t, err)
	require.Equal(t, "| Function Name |", body)

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/missing.md")
	require.ErrorContains(t, err, "unexpected status: 404")
}
