package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cfrlink/pkg/fetcher"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestLoadOrFetchJSON(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"name":"part-50","count":7}`))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "entry.json")
	f := fetcher.NewFetcher()

	got, err := LoadOrFetchJSON[payload](context.Background(), f, path, server.URL)
	if err != nil {
		t.Fatalf("LoadOrFetchJSON() error = %v", err)
	}
	if got.Name != "part-50" || got.Count != 7 {
		t.Errorf("LoadOrFetchJSON() = %+v", got)
	}
	if hits != 1 {
		t.Fatalf("first load made %d requests, want 1", hits)
	}

	// The second load must come from disk alone.
	again, err := LoadOrFetchJSON[payload](context.Background(), f, path, server.URL)
	if err != nil {
		t.Fatalf("cached LoadOrFetchJSON() error = %v", err)
	}
	if again != got {
		t.Errorf("cached load = %+v, want %+v", again, got)
	}
	if hits != 1 {
		t.Errorf("cached load made %d extra requests", hits-1)
	}
}

func TestLoadOrFetchJSON_CorruptEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0644); err != nil {
		t.Fatalf("failed to seed cache entry: %v", err)
	}

	f := fetcher.NewFetcher()
	// The URL must never be contacted for an existing entry, corrupt or not.
	_, err := LoadOrFetchJSON[payload](context.Background(), f, path, "http://127.0.0.1:0/unreachable")
	if err == nil {
		t.Fatal("LoadOrFetchJSON() did not report the corrupt entry")
	}
}

func TestLoadOrFetchJSON_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusInternalServerError)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "entry.json")
	f := fetcher.NewFetcher()

	if _, err := LoadOrFetchJSON[payload](context.Background(), f, path, server.URL); err == nil {
		t.Fatal("LoadOrFetchJSON() did not report the 500")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("a failed fetch left a cache entry behind")
	}
}

func TestLoadOrFetchText(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<DIV5>markup</DIV5>"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "part.xml")
	f := fetcher.NewFetcher()

	got, err := LoadOrFetchText(context.Background(), f, path, server.URL)
	if err != nil {
		t.Fatalf("LoadOrFetchText() error = %v", err)
	}
	if got != "<DIV5>markup</DIV5>" {
		t.Errorf("LoadOrFetchText() = %q", got)
	}

	if _, err := LoadOrFetchText(context.Background(), f, path, server.URL); err != nil {
		t.Fatalf("cached LoadOrFetchText() error = %v", err)
	}
	if hits != 1 {
		t.Errorf("cached load made %d extra requests", hits-1)
	}
}

func TestWriteThenReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entry.json")
	want := payload{Name: "agencies", Count: 300}

	if err := WriteJSON(path, want); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	got, err := ReadJSON[payload](path)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got != want {
		t.Errorf("ReadJSON() = %+v, want %+v", got, want)
	}
}
