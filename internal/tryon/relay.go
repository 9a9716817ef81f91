package tryon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"looks/internal/infra"
)

// Relay posts analytics events without ever blocking the session flow.
// Failures are logged and swallowed; the try-on experience must not
// degrade because the analytics endpoint is down.
type Relay struct {
	baseURL    string
	httpClient *http.Client
	logger     infra.Logger
	sessionID  string

	wg sync.WaitGroup
}

func NewRelay(baseURL, sessionID string, httpClient *http.Client, logger infra.Logger) *Relay {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Relay{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		sessionID:  sessionID,
	}
}

type logEventRequest struct {
	EventType string         `json:"eventType"`
	EventData map[string]any `json:"eventData"`
}

// Log fires the event in a goroutine and returns immediately.
func (r *Relay) Log(eventType string, data map[string]any) {
	payload := logEventRequest{EventType: eventType, EventData: map[string]any{}}
	for k, v := range data {
		payload.EventData[k] = v
	}
	if r.sessionID != "" {
		payload.EventData["sessionId"] = r.sessionID
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.post(payload); err != nil {
			r.logger.Warn().Err(err).Str("event", eventType).Msg("tryon: analytics event dropped")
		}
	}()
}

// Flush waits for in-flight events, for orderly shutdown.
func (r *Relay) Flush() {
	r.wg.Wait()
}

func (r *Relay) post(payload logEventRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/log_event", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
