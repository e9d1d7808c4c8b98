package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hpungsan/loom/internal/config"
	"github.com/hpungsan/loom/internal/db"
)

func testServer(t *testing.T) *http.Server {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewServer(database, config.DefaultConfig(), "test", "127.0.0.1", 0)
}

func get(t *testing.T, srv *http.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirectsToCompose(t *testing.T) {
	rec := get(t, testServer(t), "/")
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/compose" {
		t.Errorf("Location = %q, want /compose", loc)
	}
}

func TestComposePageRendersDefaults(t *testing.T) {
	rec := get(t, testServer(t), "/compose")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "main") {
		t.Error("compose page should show the default sequence")
	}
	if !strings.Contains(body, "marker") {
		t.Error("compose page should badge marker messages")
	}
}

func TestFragmentsPage(t *testing.T) {
	rec := get(t, testServer(t), "/fragments")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "chatHistory") {
		t.Error("fragments page should list the default order entries")
	}
}

func TestPresetsPageEmpty(t *testing.T) {
	rec := get(t, testServer(t), "/presets")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No presets") {
		t.Error("presets page should state there are none yet")
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := get(t, testServer(t), "/compose")
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("X-Frame-Options header missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policy header missing")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("X-Content-Type-Options header missing")
	}
}
