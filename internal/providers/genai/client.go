// Package genai calls the Gemini generateContent API to restyle a
// captured selfie in a single round trip: the selfie goes in as inline
// data alongside the style prompt, and the edited portrait comes back as
// inline data in the first candidate.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"looks/internal/domain"
	"looks/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("genai: api key is required")

const defaultModel = "gemini-2.5-flash-image"

// Options configures the Gemini client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Gemini generateContent API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// EditRequest captures the inputs for one image edit.
type EditRequest struct {
	BaseImage []byte
	MIMEType  string
	Prompt    string
	RequestID string
}

// EditResult is the edited portrait extracted from the first candidate.
type EditResult struct {
	Data   []byte
	Format string
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Edit submits the selfie and prompt in one generateContent call.
func (c *Client) Edit(ctx context.Context, req EditRequest) (*EditResult, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("genai: prompt is required")
	}
	if len(req.BaseImage) == 0 {
		return nil, errors.New("genai: base image is required")
	}
	mimeType := strings.TrimSpace(req.MIMEType)
	if mimeType == "" {
		mimeType = http.DetectContentType(req.BaseImage)
	}

	payload := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(req.BaseImage),
				}},
				{Text: prompt},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("genai: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("genai: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("genai: read response: %w", err)
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &domain.VendorError{
				Provider: "gemini",
				Message:  fmt.Sprintf("status %d", resp.StatusCode),
				Details:  strings.TrimSpace(string(raw)),
			}
		}
		return nil, fmt.Errorf("genai: decode response: %w", err)
	}
	if decoded.Error != nil {
		return nil, &domain.VendorError{
			Provider: "gemini",
			Message:  decoded.Error.Message,
			Details:  decoded.Error.Status,
		}
	}
	if resp.StatusCode >= 300 {
		return nil, &domain.VendorError{
			Provider: "gemini",
			Message:  fmt.Sprintf("status %d", resp.StatusCode),
			Details:  strings.TrimSpace(string(raw)),
		}
	}

	data, format := firstInlineImage(decoded)
	if len(data) == 0 {
		return nil, &domain.VendorError{Provider: "gemini", Message: "response contained no image data"}
	}
	c.logger.Debug().
		Str("model", c.model).
		Str("request_id", req.RequestID).
		Int("bytes", len(data)).
		Msg("genai: edited image")
	return &EditResult{Data: data, Format: format}, nil
}

func firstInlineImage(resp generateContentResponse) ([]byte, string) {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				continue
			}
			format := p.InlineData.MIMEType
			if format == "" {
				format = "image/png"
			}
			return data, format
		}
	}
	return nil, ""
}
