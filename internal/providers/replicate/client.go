// Package replicate calls the Replicate predictions API to restyle a
// captured selfie. Predictions are asynchronous: the client creates one,
// then polls until it settles or the attempt ceiling is hit.
package replicate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"looks/internal/domain"
	"looks/internal/infra"
)

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("replicate: api token is required")

const (
	defaultVersion = "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b"

	defaultNegativePrompt = "blurry, bad quality, distorted face"

	defaultPollInterval    = time.Second
	defaultMaxPollAttempts = 60
)

// Options configures the Replicate predictions client.
type Options struct {
	APIToken        string
	BaseURL         string
	Version         string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	RequestTimeout  time.Duration
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Client performs HTTP calls to the Replicate predictions API.
type Client struct {
	apiToken        string
	baseURL         string
	version         string
	httpClient      *http.Client
	logger          *infra.Logger
	pollInterval    time.Duration
	maxPollAttempts int
}

// EditRequest captures the inputs for one image-to-image generation.
type EditRequest struct {
	BaseImage      []byte
	Prompt         string
	NegativePrompt string
	RequestID      string
}

// EditResult is the normalized output of a settled prediction.
type EditResult struct {
	Data   []byte
	Format string
	URL    string
}

type predictionInput struct {
	Image             string  `json:"image"`
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	Seed              int     `json:"seed"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  string   `json:"error"`
	Detail string   `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = defaultVersion
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	maxAttempts := opts.MaxPollAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxPollAttempts
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
		apiToken:        strings.TrimSpace(opts.APIToken),
		baseURL:         baseURL,
		version:         version,
		httpClient:      httpClient,
		logger:          logger,
		pollInterval:    pollInterval,
		maxPollAttempts: maxAttempts,
	}, nil
}

// Version returns the pinned model version.
func (c *Client) Version() string {
	return c.version
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiToken != ""
}

// Edit submits a prediction and polls it to completion.
func (c *Client) Edit(ctx context.Context, req EditRequest) (*EditResult, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIToken
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("replicate: prompt is required")
	}
	if len(req.BaseImage) == 0 {
		return nil, errors.New("replicate: base image is required")
	}
	negative := strings.TrimSpace(req.NegativePrompt)
	if negative == "" {
		negative = defaultNegativePrompt
	}

	payload := predictionRequest{
		Version: c.version,
		Input: predictionInput{
			Image:             "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(req.BaseImage),
			Prompt:            prompt,
			NegativePrompt:    negative,
			NumInferenceSteps: 30,
			GuidanceScale:     7.5,
			Seed:              rand.Intn(1000000),
		},
	}

	created, err := c.createPrediction(ctx, payload)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("prediction_id", created.ID).
		Str("request_id", req.RequestID).
		Msg("replicate: prediction created")

	settled, err := c.waitForPrediction(ctx, created)
	if err != nil {
		return nil, err
	}
	if len(settled.Output) == 0 || strings.TrimSpace(settled.Output[0]) == "" {
		return nil, &domain.VendorError{Provider: "replicate", Message: "prediction succeeded without output"}
	}
	outputURL := settled.Output[0]
	data, format, err := c.download(ctx, outputURL)
	if err != nil {
		return nil, err
	}
	return &EditResult{Data: data, Format: format, URL: outputURL}, nil
}

func (c *Client) createPrediction(ctx context.Context, payload predictionRequest) (*predictionResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Token "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, vendorFromBody("create prediction", resp.StatusCode, raw)
	}
	var decoded predictionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	if decoded.ID == "" {
		return nil, &domain.VendorError{Provider: "replicate", Message: "prediction response missing id"}
	}
	return &decoded, nil
}

func (c *Client) waitForPrediction(ctx context.Context, pred *predictionResponse) (*predictionResponse, error) {
	current := pred
	for attempt := 0; attempt < c.maxPollAttempts; attempt++ {
		switch current.Status {
		case "succeeded":
			return current, nil
		case "failed", "canceled":
			message := strings.TrimSpace(current.Error)
			if message == "" {
				message = "prediction " + current.Status
			}
			return nil, &domain.VendorError{Provider: "replicate", Message: message}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		next, err := c.getPrediction(ctx, pred.ID)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return nil, fmt.Errorf("replicate: prediction %s still %s after %d attempts: %w",
		pred.ID, current.Status, c.maxPollAttempts, domain.ErrTimeout)
}

func (c *Client) getPrediction(ctx context.Context, id string) (*predictionResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build poll request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Token "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("replicate: poll request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read poll response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, vendorFromBody("poll prediction", resp.StatusCode, raw)
	}
	var decoded predictionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("replicate: decode poll response: %w", err)
	}
	return &decoded, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("replicate: invalid output url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: download output: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("replicate: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: read output: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "image/png"
	}
	return data, format, nil
}

func vendorFromBody(op string, status int, raw []byte) error {
	var decoded predictionResponse
	if err := json.Unmarshal(raw, &decoded); err == nil {
		if msg := strings.TrimSpace(decoded.Detail); msg != "" {
			return &domain.VendorError{Provider: "replicate", Message: msg}
		}
		if msg := strings.TrimSpace(decoded.Error); msg != "" {
			return &domain.VendorError{Provider: "replicate", Message: msg}
		}
	}
	return &domain.VendorError{
		Provider: "replicate",
		Message:  fmt.Sprintf("%s: status %d", op, status),
		Details:  strings.TrimSpace(string(raw)),
	}
}
