package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"looks/internal/domain"
	"looks/internal/middleware"
	"looks/internal/providers/image"
)

type generateRequest struct {
	BaseImage      string `json:"baseImage"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt"`
	Provider       string `json:"provider"`
}

type generateResponse struct {
	GeneratedImageBase64 string `json:"generatedImageBase64"`
	Success              bool   `json:"success"`
}

// Generate proxies one try-on to the configured vendor. Validation
// failures answer 400 before any vendor call is made.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid request body.", "")
		return
	}
	if strings.TrimSpace(req.BaseImage) == "" || strings.TrimSpace(req.Prompt) == "" {
		a.error(w, http.StatusBadRequest, "Missing baseImage or prompt in request body.", "")
		return
	}
	baseImage, err := decodeBaseImage(req.BaseImage)
	if err != nil {
		a.error(w, http.StatusBadRequest, "baseImage is not valid base64.", "")
		return
	}

	provider := req.Provider
	if provider == "" {
		provider = a.DefaultProvider
	}
	generator, ok := a.Generators[provider]
	if !ok {
		a.error(w, http.StatusBadRequest, "Unsupported provider.", provider)
		return
	}

	result, err := generator.Generate(r.Context(), image.GenerateRequest{
		BaseImage:      baseImage,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		RequestID:      middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("provider", provider).Msg("generation failed")
		var vendorErr *domain.VendorError
		switch {
		case errors.Is(err, domain.ErrTimeout):
			a.error(w, http.StatusInternalServerError, "Image generation failed", "Prediction timeout")
		case errors.As(err, &vendorErr):
			a.error(w, http.StatusInternalServerError, "Image generation failed", vendorErr.Message)
		default:
			a.error(w, http.StatusInternalServerError, "Image generation failed", err.Error())
		}
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		GeneratedImageBase64: base64.StdEncoding.EncodeToString(result.Data),
		Success:              true,
	})
}

// decodeBaseImage accepts both raw base64 and data-URI payloads.
func decodeBaseImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, ";base64,"); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(s)
}
