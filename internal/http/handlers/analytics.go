package handlers

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"looks/internal/analytics"
)

type analyticsResponse struct {
	*analytics.Log
	Summary analytics.Summary `json:"summary"`
}

// GetAnalytics serves the raw streams and the funnel summary behind the
// admin password gate.
func (a *App) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	password := r.URL.Query().Get("password")
	if !a.adminPasswordValid(password) {
		a.error(w, http.StatusUnauthorized, "Invalid password", "")
		return
	}

	log, summary, err := a.Analytics.Snapshot(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("analytics read failed")
		a.error(w, http.StatusInternalServerError, "Failed to retrieve analytics", err.Error())
		return
	}
	a.json(w, http.StatusOK, analyticsResponse{Log: log, Summary: summary})
}

func (a *App) adminPasswordValid(password string) bool {
	if password == "" {
		return false
	}
	if a.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.AdminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.AdminPassword)) == 1
}
