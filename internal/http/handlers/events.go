package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"looks/internal/analytics"
	"looks/internal/middleware"
)

type logEventRequest struct {
	EventType string          `json:"eventType"`
	EventData analytics.Event `json:"eventData"`
}

type logEventResponse struct {
	Success       bool             `json:"success"`
	CurrentCounts analytics.Counts `json:"currentCounts"`
}

// LogEvent appends one analytics event, enriched with request country
// and locale, and answers with the updated counts.
func (a *App) LogEvent(w http.ResponseWriter, r *http.Request) {
	var req logEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body.", "")
		return
	}
	if strings.TrimSpace(req.EventType) == "" {
		a.error(w, http.StatusBadRequest, "Missing eventType in request body.", "")
		return
	}

	meta := analytics.Meta{
		Country: middleware.CountryFromContext(r.Context()),
		Locale:  middleware.LocaleFromContext(r.Context()),
	}
	counts, err := a.Analytics.Record(r.Context(), req.EventType, req.EventData, meta)
	if err != nil {
		a.Logger.Error().Err(err).Str("event_type", req.EventType).Msg("event write failed")
		a.error(w, http.StatusInternalServerError, "Failed to log event", err.Error())
		return
	}
	a.json(w, http.StatusOK, logEventResponse{Success: true, CurrentCounts: counts})
}
