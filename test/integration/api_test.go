package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
)

// newFixtureAPI serves the search fixtures: page 1 at skip 0, page 2 after
// it, and an empty page beyond.
func newFixtureAPI(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	page1, err := os.ReadFile(filepath.Join("..", "fixtures", "it_search_page1.json"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	page2, err := os.ReadFile(filepath.Join("..", "fixtures", "it_search_page2.json"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		if r.URL.Path != "/IT-search" || r.Header.Get("Authorization") != "Bearer integration-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"invalid token"}`))

			return
		}

		w.Header().Set("Content-Type", "application/json")

		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

		switch {
		case skip == 0:
			_, _ = w.Write(page1)
		case skip == 2:
			_, _ = w.Write(page2)
		default:
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}
