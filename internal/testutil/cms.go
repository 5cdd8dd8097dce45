package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// CMSFixture is the content served by a fake content API. Records use the API's
// flat JSON shape.
type CMSFixture struct {
	Products   []map[string]any
	Categories []map[string]any
	// FailProducts and FailCategories answer the collection with 500.
	FailProducts   bool
	FailCategories bool
}

// FakeCMS is an httptest content API over a mutable fixture.
type FakeCMS struct {
	*httptest.Server

	mu      sync.Mutex
	fixture CMSFixture
	hits    map[string]int
}

// NewCMS starts a fake content API serving fixture. It is closed when the test ends.
func NewCMS(t testing.TB, fixture CMSFixture) *FakeCMS {
	t.Helper()
	f := &FakeCMS{fixture: fixture, hits: map[string]int{}}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// Update swaps the fixture.
func (f *FakeCMS) Update(fn func(*CMSFixture)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.fixture)
}

// Hits returns how many requests hit path.
func (f *FakeCMS) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *FakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	fixture := f.fixture
	f.mu.Unlock()

	var (
		records []map[string]any
		fail    bool
	)
	switch r.URL.Path {
	case "/api/products":
		records, fail = fixture.Products, fixture.FailProducts
		if slug := r.URL.Query().Get("filters[slug][$eq]"); slug != "" {
			var matched []map[string]any
			for _, p := range records {
				if p["slug"] == slug {
					matched = append(matched, p)
				}
			}
			records = matched
		}
	case "/api/categories":
		records, fail = fixture.Categories, fixture.FailCategories
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":  nil,
			"error": map[string]any{"status": 500, "name": "InternalServerError", "message": "Internal Server Error"},
		})
		return
	}
	if records == nil {
		records = []map[string]any{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": records,
		"meta": map[string]any{"pagination": map[string]any{
			"page": 1, "pageSize": len(records), "pageCount": 1, "total": len(records),
		}},
	})
}
