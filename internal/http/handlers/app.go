package handlers

import (
	"encoding/json"
	"net/http"

	"looks/internal/analytics"
	"looks/internal/catalog"
	"looks/internal/infra"
	"looks/internal/providers/image"
)

// App bundles the dependencies of every HTTP handler.
type App struct {
	Logger          infra.Logger
	Analytics       *analytics.Service
	Generators      map[string]image.Generator
	DefaultProvider string
	Catalog         *catalog.Catalog

	// AdminPasswordHash, when set, is the bcrypt hash checked by the
	// analytics endpoint; AdminPassword is the plain fallback.
	AdminPassword     string
	AdminPasswordHash string
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	a.json(w, code, body)
}
