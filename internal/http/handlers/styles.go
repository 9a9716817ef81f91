package handlers

import "net/http"

// Styles serves the immutable catalog loaded at startup.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Catalog)
}
