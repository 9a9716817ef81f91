// Package tryon is the booth's client side of the generation proxy: one
// POST per try-on plus a fire-and-forget analytics relay.
package tryon

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"looks/internal/capture"
	"looks/internal/catalog"
	"looks/internal/infra"
)

// GenerationError is the server's {error} payload surfaced to the shell.
// The machine turns it into a status line; the captured photo survives.
type GenerationError struct {
	Message string
	Details string
}

func (e *GenerationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Client posts captured stills to the generation proxy. No retry: a
// failed try-on goes back to the user, who decides whether to try again.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     infra.Logger

	// NegativePrompt, when set, is sent with every try-on. Left empty the
	// server applies its own default.
	NegativePrompt string
}

func NewClient(baseURL string, httpClient *http.Client, logger infra.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type generateRequest struct {
	BaseImage      string `json:"baseImage"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
}

type generateResponse struct {
	GeneratedImageBase64 string `json:"generatedImageBase64"`
	Error                string `json:"error"`
	Details              string `json:"details"`
}

// Generate submits one try-on and returns the edited portrait bytes.
func (c *Client) Generate(ctx context.Context, still *capture.Still, style *catalog.StyleOption) ([]byte, error) {
	payload := generateRequest{
		BaseImage:      still.Base64(),
		Prompt:         style.Prompt,
		NegativePrompt: c.NegativePrompt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tryon: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tryon: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tryon: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tryon: read response: %w", err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("tryon: decode response: %w", err)
	}
	if decoded.Error != "" {
		return nil, &GenerationError{Message: decoded.Error, Details: decoded.Details}
	}
	if resp.StatusCode >= 300 {
		return nil, &GenerationError{Message: fmt.Sprintf("generation failed with status %d", resp.StatusCode)}
	}
	image, err := base64.StdEncoding.DecodeString(decoded.GeneratedImageBase64)
	if err != nil {
		return nil, fmt.Errorf("tryon: decode image payload: %w", err)
	}
	if len(image) == 0 {
		return nil, &GenerationError{Message: "empty generated image"}
	}
	return image, nil
}
