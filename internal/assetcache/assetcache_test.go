package assetcache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"looks/internal/infra"
)

func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":       "<html>looks</html>",
		"styles-data.json": `{"female":{}}`,
		"manifest.json":    `{"name":"looks"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "styles"), 0o755); err != nil {
		t.Fatalf("mkdir styles: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "styles", "pixie.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write thumbnail: %v", err)
	}
	logger := infra.Logger(zerolog.New(io.Discard))
	return New(dir, logger), dir
}

func get(t *testing.T, c *Cache, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrecacheServesFromMemoryAfterDelete(t *testing.T) {
	c, dir := newTestCache(t)
	if err := c.Precache([]string{"/", "/index.html", "/styles-data.json", "/manifest.json"}); err != nil {
		t.Fatalf("precache: %v", err)
	}

	// Precached entries outlive the origin files.
	if err := os.Remove(filepath.Join(dir, "index.html")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	rec := get(t, c, "/index.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "looks") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestPrecacheFailsOnMissingCoreAsset(t *testing.T) {
	c, _ := newTestCache(t)
	if err := c.Precache([]string{"/missing.css"}); err == nil {
		t.Fatal("expected precache failure")
	}
}

func TestThumbnailsAreCachedOpportunistically(t *testing.T) {
	c, dir := newTestCache(t)

	rec := get(t, c, "/styles/pixie.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if err := os.Remove(filepath.Join(dir, "styles", "pixie.png")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	rec = get(t, c, "/styles/pixie.png")
	if rec.Code != http.StatusOK || rec.Body.String() != "png" {
		t.Fatalf("cached thumbnail: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestUncachedMissAnswersOfflineJSON(t *testing.T) {
	c, _ := newTestCache(t)

	rec := get(t, c, "/nope.js")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content-type = %q", got)
	}
	msg, ok := OfflineError(rec.Body.Bytes())
	if !ok || !strings.Contains(msg, "offline") {
		t.Fatalf("offline body = %q", rec.Body.String())
	}
}

func TestReadThroughIsNotCachedForOtherAssets(t *testing.T) {
	c, dir := newTestCache(t)
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec := get(t, c, "/app.js"); rec.Body.String() != "v1" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("v2"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if rec := get(t, c, "/app.js"); rec.Body.String() != "v2" {
		t.Fatalf("read-through body = %q", rec.Body.String())
	}
}
