package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewpulse/reviewpulse/internal/aggregate"
	"github.com/reviewpulse/reviewpulse/internal/database"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(t.TempDir())
	srv, err := New(db, st)
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	return srv, st
}

func TestIndexPage(t *testing.T) {
	srv, st := testServer(t)
	st.WriteView(aggregate.StatsFile, &aggregate.StatsView{
		UpdatedAt: "2026-08-31T00:00:00Z",
		Total:     aggregate.TotalBlock{Reviews: 5},
	})
	st.WriteDigest("## Overview\n\nSome digest text")

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "reviewpulse") {
		t.Error("expected brand in page")
	}
	if !strings.Contains(body, "Some digest text") {
		t.Error("expected digest rendered on index")
	}
}

func TestIndexPageNoData(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with no data, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No aggregated views yet") {
		t.Error("expected empty state message")
	}
}

func TestIndexNotFound(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestViewEndpoints(t *testing.T) {
	srv, st := testServer(t)
	st.WriteView(aggregate.StatsFile, map[string]any{"total": map[string]any{"reviews": 3}})
	st.WriteView(aggregate.TrendsFile, map[string]any{"daily": []any{}})
	st.WriteView(aggregate.TopIssuesFile, map[string]any{"target": map[string]any{}})

	for _, path := range []string{"/api/stats.json", "/api/trends.json", "/api/top-issues.json"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
			t.Errorf("%s: expected JSON content type, got %q", path, ct)
		}
	}
}

func TestViewEndpointMissing(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/stats.json", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before aggregation, got %d", rec.Code)
	}
}

func TestViewEndpointServesVerbatim(t *testing.T) {
	srv, st := testServer(t)
	st.WriteView(aggregate.StatsFile, map[string]any{"text": "발음 교정"})

	req := httptest.NewRequest("GET", "/api/stats.json", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "발음 교정") {
		t.Errorf("expected non-ASCII served verbatim, got %s", rec.Body.String())
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := string(renderMarkdown("## Heading\n\n- item"))
	if !strings.Contains(html, "<h2") {
		t.Errorf("expected heading rendered, got %s", html)
	}
	if !strings.Contains(html, "<li>") {
		t.Errorf("expected list rendered, got %s", html)
	}
}
