package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Fetcher wraps an http.Client for the eCFR and FederalRegister.gov APIs.
// No timeout is set: both services can take minutes to assemble large
// responses, and the pipeline carries no cancellation beyond fatal errors.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{},
	}
}

// Get fetches url and returns the response body. Any status outside the
// 2xx range is an error.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.Do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s, status code: %d", url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

// Do issues a GET and hands back the raw response. Callers that need the
// status code or headers own closing the body.
func (f *Fetcher) Do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	return resp, nil
}
