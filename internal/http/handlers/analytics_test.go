package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"looks/internal/analytics"
	"looks/internal/infra"
	"looks/internal/kv"
)

func newAnalyticsApp(t *testing.T) *App {
	t.Helper()
	logger := infra.Logger(zerolog.New(io.Discard))
	return &App{
		Logger:        logger,
		Analytics:     analytics.NewService(kv.NewMemory(), logger),
		AdminPassword: "looks2025",
	}
}

func postEvent(t *testing.T, app *App, eventType string, data map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{"eventType": eventType, "eventData": data})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/log_event", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	app.LogEvent(rec, req)
	return rec
}

func TestLogEventReturnsCurrentCounts(t *testing.T) {
	app := newAnalyticsApp(t)

	postEvent(t, app, "session_start", nil)
	rec := postEvent(t, app, "image_capture", map[string]any{"width": 320})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success       bool             `json:"success"`
		CurrentCounts analytics.Counts `json:"currentCounts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("success = false")
	}
	if resp.CurrentCounts.Sessions != 1 || resp.CurrentCounts.Captures != 1 {
		t.Fatalf("counts = %+v", resp.CurrentCounts)
	}
}

func TestLogEventRequiresEventType(t *testing.T) {
	app := newAnalyticsApp(t)
	rec := postEvent(t, app, "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func getAnalytics(t *testing.T, app *App, password string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/get_analytics?password="+password, nil)
	rec := httptest.NewRecorder()
	app.GetAnalytics(rec, req)
	return rec
}

func TestGetAnalyticsRejectsWrongPassword(t *testing.T) {
	app := newAnalyticsApp(t)
	for _, password := range []string{"", "wrong"} {
		rec := getAnalytics(t, app, password)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("password %q: status = %d, want 401", password, rec.Code)
		}
	}
}

func TestGetAnalyticsServesStreamsAndSummary(t *testing.T) {
	app := newAnalyticsApp(t)
	postEvent(t, app, "session_start", nil)
	postEvent(t, app, "session_start", nil)
	postEvent(t, app, "image_capture", nil)

	rec := getAnalytics(t, app, "looks2025")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Sessions []map[string]any `json:"sessions"`
		Captures []map[string]any `json:"captures"`
		Summary  struct {
			TotalSessions int    `json:"totalSessions"`
			CaptureRate   string `json:"captureRate"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Sessions) != 2 || len(resp.Captures) != 1 {
		t.Fatalf("streams = %d/%d", len(resp.Sessions), len(resp.Captures))
	}
	if resp.Summary.TotalSessions != 2 || resp.Summary.CaptureRate != "50.0" {
		t.Fatalf("summary = %+v", resp.Summary)
	}
}

func TestGetAnalyticsUsesBcryptHashWhenSet(t *testing.T) {
	app := newAnalyticsApp(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	app.AdminPasswordHash = string(hash)

	if rec := getAnalytics(t, app, "looks2025"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("plain password accepted with hash set: %d", rec.Code)
	}
	if rec := getAnalytics(t, app, "hashed-secret"); rec.Code != http.StatusOK {
		t.Fatalf("hashed password rejected: %d", rec.Code)
	}
}
