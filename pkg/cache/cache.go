// Package cache implements the load-or-fetch file cache backing every
// network resource the pipeline reads. Entries are permanent once written;
// an entry that no longer deserializes is an error, not a refetch, so bad
// state on disk gets noticed.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cfrlink/pkg/fetcher"
)

// ReadJSON loads and unmarshals a cached JSON entry.
func ReadJSON[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("failed to read cache entry %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("corrupt cache entry %s: %w", path, err)
	}
	return v, nil
}

// WriteJSON persists v as a JSON cache entry.
func WriteJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", path, err)
	}
	return nil
}

// LoadOrFetchJSON returns the entry at path when present; otherwise it
// fetches url, persists the decoded response at path, and returns it. The
// entry stores the round-tripped form, not the raw body.
func LoadOrFetchJSON[T any](ctx context.Context, f *fetcher.Fetcher, path, url string) (T, error) {
	var v T
	if _, err := os.Stat(path); err == nil {
		return ReadJSON[T](path)
	}

	data, err := f.Get(ctx, url)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("unexpected response from %s: %w", url, err)
	}
	if err := WriteJSON(path, v); err != nil {
		return v, err
	}
	return v, nil
}

// LoadOrFetchText is LoadOrFetchJSON for uninterpreted payloads (markup).
func LoadOrFetchText(ctx context.Context, f *fetcher.Fetcher, path, url string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read cache entry %s: %w", path, err)
	}

	body, err := f.Get(ctx, url)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write cache entry %s: %w", path, err)
	}
	return string(body), nil
}
