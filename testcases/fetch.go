package testcases

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RawURL rewrites a GitHub blob URL to the raw content URL.
func RawURL(url string) string {
	url = strings.Replace(url, "github.com", "raw.githubusercontent.com", 1)
	return strings.Replace(url, "/blob", "", 1)
}

// Fetcher downloads test case documents.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose requests time out after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the document at url, rewriting GitHub blob links.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RawURL(url), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
